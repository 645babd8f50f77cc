package schema

import (
	"fmt"

	"github.com/danmuck/utf8check/internal/protocol/tlv"
	"github.com/danmuck/utf8check/internal/utf8check"
	"github.com/rs/zerolog/log"
)

// Message type IDs from tlv contract.
const (
	MsgCheck   uint32 = 1
	MsgVerdict uint32 = 2
	MsgError   uint32 = 3
)

// Field IDs from tlv contract.
const (
	FieldRequestID uint16 = 1
	FieldData      uint16 = 2

	FieldValid  uint16 = 100
	FieldOffset uint16 = 101

	FieldReason uint16 = 200
)

const (
	ReasonUnknownMessage = "unknown message_type"
	ReasonMissingField   = "missing required field"
	ReasonTypeMismatch   = "type mismatch"
	ReasonInvalidUTF8    = "string field is not valid utf-8"
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
	MsgCheck: {
		{FieldRequestID, tlv.TypeString},
		{FieldData, tlv.TypeInts},
	},
	MsgVerdict: {
		{FieldRequestID, tlv.TypeString},
		{FieldValid, tlv.TypeBool},
		{FieldOffset, tlv.TypeU32},
	},
	MsgError: {
		{FieldRequestID, tlv.TypeString},
		{FieldReason, tlv.TypeString},
	},
}

// Validate enforces required fields, their types, and well-formed utf-8 in
// every string field. Unknown fields are ignored unless they claim to be strings.
func Validate(messageType uint32, fields []tlv.Field) error {
	log.Debug().Uint32("message_type", messageType).Int("fields", len(fields)).Msg("schema.Validate")
	reqs, ok := requirements[messageType]
	if !ok {
		log.Error().Uint32("message_type", messageType).Msg("schema.Validate unknown message_type")
		return ValidationError{MessageType: messageType, Reason: ReasonUnknownMessage}
	}
	for _, req := range reqs {
		f, found := tlv.GetField(fields, req.ID)
		if !found {
			log.Error().
				Uint32("message_type", messageType).
				Uint16("field_id", req.ID).
				Msg("schema.Validate missing field")
			return ValidationError{MessageType: messageType, FieldID: req.ID, Reason: ReasonMissingField}
		}
		if f.Type != req.Type {
			log.Error().
				Uint32("message_type", messageType).
				Uint16("field_id", req.ID).
				Uint8("got", f.Type).
				Uint8("want", req.Type).
				Msg("schema.Validate type mismatch")
			return ValidationError{MessageType: messageType, FieldID: req.ID, Reason: ReasonTypeMismatch}
		}
	}
	for _, f := range fields {
		if f.Type != tlv.TypeString {
			continue
		}
		if offset := utf8check.FirstInvalidBytes(f.Value); offset >= 0 {
			log.Error().
				Uint32("message_type", messageType).
				Uint16("field_id", f.ID).
				Int("offset", offset).
				Msg("schema.Validate invalid utf-8")
			return ValidationError{MessageType: messageType, FieldID: f.ID, Reason: ReasonInvalidUTF8}
		}
	}
	log.Debug().Uint32("message_type", messageType).Msg("schema.Validate ok")
	return nil
}
