package schema

import (
	"fmt"

	"github.com/danmuck/bridgectl/internal/protocol/tlv"
	"github.com/rs/zerolog/log"
)

// Message type IDs for bridge wire snapshots.
const (
	MsgSoundEvent uint32 = 1
	MsgItemTag    uint32 = 2
)

// Field IDs for bridge wire snapshots.
const (
	FieldIdentifier uint16 = 1
	FieldSound      uint16 = 2
	FieldExtraData  uint16 = 3

	FieldPosX uint16 = 100
	FieldPosY uint16 = 101
	FieldPosZ uint16 = 102

	FieldBabyMob               uint16 = 200
	FieldDisableRelativeVolume uint16 = 201

	FieldItemID uint16 = 300
	FieldTag    uint16 = 301
)

type Requirement struct {
	ID   uint16
	Type uint8
}

type ValidationError struct {
	MessageType uint32
	FieldID     uint16
	Reason      string
}

func (e ValidationError) Error() string {
	if e.FieldID == 0 {
		return fmt.Sprintf("schema: message_type=%d: %s", e.MessageType, e.Reason)
	}
	return fmt.Sprintf("schema: message_type=%d field=%d: %s", e.MessageType, e.FieldID, e.Reason)
}

var requirements = map[uint32][]Requirement{
	MsgSoundEvent: {
		{FieldIdentifier, tlv.TypeString},
		{FieldSound, tlv.TypeU32},
		{FieldPosX, tlv.TypeF32},
		{FieldPosY, tlv.TypeF32},
		{FieldPosZ, tlv.TypeF32},
		{FieldExtraData, tlv.TypeI32},
		{FieldBabyMob, tlv.TypeBool},
		{FieldDisableRelativeVolume, tlv.TypeBool},
	},
	MsgItemTag: {
		{FieldItemID, tlv.TypeString},
		{FieldTag, tlv.TypeBytes},
	},
}

// Validate enforces required fields and required field types for a message type.
// Unknown fields are ignored.
func Validate(messageType uint32, fields []tlv.Field) error {
	log.Debug().Uint32("message_type", messageType).Int("fields", len(fields)).Msg("schema.Validate")
	reqs, ok := requirements[messageType]
	if !ok {
		log.Error().Uint32("message_type", messageType).Msg("schema.Validate unknown message_type")
		return ValidationError{MessageType: messageType, Reason: "unknown message_type"}
	}
	for _, req := range reqs {
		f, found := tlv.GetField(fields, req.ID)
		if !found {
			log.Error().
				Uint32("message_type", messageType).
				Uint16("field_id", req.ID).
				Msg("schema.Validate missing field")
			return ValidationError{MessageType: messageType, FieldID: req.ID, Reason: "missing required field"}
		}
		if f.Type != req.Type {
			log.Error().
				Uint32("message_type", messageType).
				Uint16("field_id", req.ID).
				Uint8("got", f.Type).
				Uint8("want", req.Type).
				Msg("schema.Validate type mismatch")
			return ValidationError{MessageType: messageType, FieldID: req.ID, Reason: "type mismatch"}
		}
	}
	return nil
}
