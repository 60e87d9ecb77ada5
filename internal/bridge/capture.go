package bridge

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"

	"github.com/danmuck/bridgectl/internal/interaction"
	"github.com/danmuck/bridgectl/internal/protocol/frame"
	"github.com/danmuck/bridgectl/internal/protocol/schema"
	"github.com/danmuck/bridgectl/internal/protocol/tlv"
)

// Capture appends framed snapshots of what the bridge emits: sound events
// sent upstream and translated item tags. Safe for concurrent use.
type Capture struct {
	mu     sync.Mutex
	w      io.Writer
	seq    uint64
	limits frame.Limits
}

func NewCapture(w io.Writer) *Capture {
	return &Capture{w: w, limits: frame.DefaultLimits()}
}

// Record is one decoded capture frame. Exactly one of SoundEvent or ItemID
// is set, matching MessageType.
type Record struct {
	Sequence    uint64
	MessageType uint32
	SoundEvent  *packet.LevelSoundEvent
	ItemID      string
	NBT         []byte
}

func (c *Capture) RecordSoundEvent(pk *packet.LevelSoundEvent) error {
	payload, err := interaction.EncodeSoundEvent(pk)
	if err != nil {
		return err
	}
	return c.write(schema.MsgSoundEvent, payload)
}

func (c *Capture) RecordItem(itemID string, nbt []byte) error {
	fields := []tlv.Field{
		{ID: schema.FieldItemID, Type: tlv.TypeString, Value: []byte(itemID)},
		{ID: schema.FieldTag, Type: tlv.TypeBytes, Value: nbt},
	}
	if err := schema.Validate(schema.MsgItemTag, fields); err != nil {
		return err
	}
	return c.write(schema.MsgItemTag, tlv.EncodeFields(fields))
}

func (c *Capture) write(messageType uint32, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	f := frame.Frame{
		Header:  frame.Header{MessageType: messageType, Sequence: c.seq},
		Payload: payload,
	}
	if err := frame.WriteFrame(c.w, f, c.limits); err != nil {
		log.Warn().Err(err).Uint32("message_type", messageType).Msg("bridge.Capture.write")
		return err
	}
	return nil
}

// ReadCapture decodes every frame in r until end of stream.
func ReadCapture(r io.Reader) ([]Record, error) {
	var out []Record
	limits := frame.DefaultLimits()
	for {
		f, err := frame.ReadFrame(r, limits)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		rec, err := decodeRecord(f)
		if err != nil {
			return out, fmt.Errorf("bridge: capture frame %d: %w", f.Header.Sequence, err)
		}
		out = append(out, rec)
	}
}

func decodeRecord(f frame.Frame) (Record, error) {
	rec := Record{Sequence: f.Header.Sequence, MessageType: f.Header.MessageType}
	switch f.Header.MessageType {
	case schema.MsgSoundEvent:
		pk, err := interaction.DecodeSoundEvent(f.Payload)
		if err != nil {
			return Record{}, err
		}
		rec.SoundEvent = pk
	case schema.MsgItemTag:
		fields, err := tlv.DecodeFields(f.Payload)
		if err != nil {
			return Record{}, err
		}
		if err := schema.Validate(schema.MsgItemTag, fields); err != nil {
			return Record{}, err
		}
		id, _ := tlv.GetField(fields, schema.FieldItemID)
		nbt, _ := tlv.GetField(fields, schema.FieldTag)
		rec.ItemID = string(id.Value)
		rec.NBT = nbt.Value
	default:
		return Record{}, schema.ValidationError{MessageType: f.Header.MessageType, Reason: "unknown message_type"}
	}
	return rec, nil
}
