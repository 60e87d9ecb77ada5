package interaction

import (
	"fmt"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog/log"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"

	"github.com/danmuck/bridgectl/internal/protocol/schema"
	"github.com/danmuck/bridgectl/internal/protocol/tlv"
)

// soundIdentifier is the empty entity identifier the client expects for
// block sounds.
const soundIdentifier = ":"

// Builtin is a named default translator. Names are what config uses to
// disable one.
type Builtin struct {
	Name       string
	Criteria   Criteria
	Translator Translator
}

// Builtins lists the default translators in registration order.
func Builtins() []Builtin {
	return []Builtin{
		{
			Name:       "hoe",
			Criteria:   Criteria{Blocks: []string{"farmland"}, Items: []string{"hoe"}, IgnoreSneaking: true},
			Translator: blockSound("hoe", packet.SoundEventItemUseOn),
		},
		{
			Name:       "shovel",
			Criteria:   Criteria{Blocks: []string{"grass_block"}, Items: []string{"shovel"}, IgnoreSneaking: true},
			Translator: blockSound("shovel", packet.SoundEventItemUseOn),
		},
		{
			Name:       "flint_and_steel",
			Criteria:   Criteria{Items: []string{"flint_and_steel"}, IgnoreSneaking: true},
			Translator: fixedSound(packet.SoundEventIgnite, -1),
		},
	}
}

// RegisterDefaults registers every builtin whose name is not in disabled.
func RegisterDefaults(b *Builder, disabled []string) error {
	for _, bt := range Builtins() {
		if slices.Contains(disabled, bt.Name) {
			log.Info().Str("translator", bt.Name).Msg("interaction.RegisterDefaults disabled")
			continue
		}
		if err := b.Register(bt.Criteria, bt.Translator); err != nil {
			return fmt.Errorf("interaction: register %s: %w", bt.Name, err)
		}
	}
	return nil
}

// blockSound plays sound with the Bedrock runtime id of the targeted block
// as extra data. Unmapped states emit nothing.
func blockSound(name string, sound uint32) TranslatorFunc {
	return func(sess Session, pos mgl32.Vec3, state BlockState) {
		id, ok := sess.BlockMappings().BedrockBlockID(state.JavaID)
		if !ok {
			log.Debug().
				Str("translator", name).
				Int32("java_id", state.JavaID).
				Str("block", state.Identifier).
				Msg("interaction.blockSound unmapped block state")
			return
		}
		sess.SendUpstream(NewSoundEvent(sound, pos, int32(id)))
	}
}

func fixedSound(sound uint32, extra int32) TranslatorFunc {
	return func(sess Session, pos mgl32.Vec3, _ BlockState) {
		sess.SendUpstream(NewSoundEvent(sound, pos, extra))
	}
}

// NewSoundEvent builds a non-baby, relative-volume sound event.
func NewSoundEvent(sound uint32, pos mgl32.Vec3, extra int32) *packet.LevelSoundEvent {
	return &packet.LevelSoundEvent{
		SoundType:             sound,
		Position:              pos,
		ExtraData:             extra,
		EntityType:            soundIdentifier,
		BabyMob:               false,
		DisableRelativeVolume: false,
	}
}

// EncodeSoundEvent writes the schema-checked TLV snapshot of pk.
func EncodeSoundEvent(pk *packet.LevelSoundEvent) ([]byte, error) {
	fields := []tlv.Field{
		{ID: schema.FieldIdentifier, Type: tlv.TypeString, Value: []byte(pk.EntityType)},
		{ID: schema.FieldSound, Type: tlv.TypeU32, Value: tlv.PutU32(pk.SoundType)},
		{ID: schema.FieldPosX, Type: tlv.TypeF32, Value: tlv.PutU32(math.Float32bits(pk.Position[0]))},
		{ID: schema.FieldPosY, Type: tlv.TypeF32, Value: tlv.PutU32(math.Float32bits(pk.Position[1]))},
		{ID: schema.FieldPosZ, Type: tlv.TypeF32, Value: tlv.PutU32(math.Float32bits(pk.Position[2]))},
		{ID: schema.FieldExtraData, Type: tlv.TypeI32, Value: tlv.PutI32(pk.ExtraData)},
		{ID: schema.FieldBabyMob, Type: tlv.TypeBool, Value: boolByte(pk.BabyMob)},
		{ID: schema.FieldDisableRelativeVolume, Type: tlv.TypeBool, Value: boolByte(pk.DisableRelativeVolume)},
	}
	if err := schema.Validate(schema.MsgSoundEvent, fields); err != nil {
		return nil, err
	}
	return tlv.EncodeFields(fields), nil
}

// DecodeSoundEvent is the inverse of EncodeSoundEvent.
func DecodeSoundEvent(payload []byte) (*packet.LevelSoundEvent, error) {
	fields, err := tlv.DecodeFields(payload)
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(schema.MsgSoundEvent, fields); err != nil {
		return nil, err
	}
	get := func(id uint16) []byte {
		f, _ := tlv.GetField(fields, id)
		return f.Value
	}
	sound, err := tlv.U32FromBytes(get(schema.FieldSound))
	if err != nil {
		return nil, err
	}
	extra, err := tlv.I32FromBytes(get(schema.FieldExtraData))
	if err != nil {
		return nil, err
	}
	var pos mgl32.Vec3
	for i, id := range []uint16{schema.FieldPosX, schema.FieldPosY, schema.FieldPosZ} {
		bits, err := tlv.U32FromBytes(get(id))
		if err != nil {
			return nil, err
		}
		pos[i] = math.Float32frombits(bits)
	}
	return &packet.LevelSoundEvent{
		SoundType:             sound,
		Position:              pos,
		ExtraData:             extra,
		EntityType:            string(get(schema.FieldIdentifier)),
		BabyMob:               byteBool(get(schema.FieldBabyMob)),
		DisableRelativeVolume: byteBool(get(schema.FieldDisableRelativeVolume)),
	}, nil
}

func boolByte(v bool) []byte {
	if v {
		return []byte{1}
	}
	return []byte{0}
}

func byteBool(b []byte) bool {
	return len(b) == 1 && b[0] == 1
}
