package checker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/danmuck/utf8check/internal/protocol/frame"
	"github.com/danmuck/utf8check/internal/protocol/schema"
	"github.com/danmuck/utf8check/internal/protocol/tlv"
)

var ErrInvalidEnvelope = errors.New("checker: invalid envelope")

// CheckEnv is a decoded MsgCheck request.
type CheckEnv struct {
	MessageID uint64
	RequestID string
	Data      []int
}

func (e CheckEnv) Validate() error {
	if strings.TrimSpace(e.RequestID) == "" {
		return fmt.Errorf("%w: missing request_id", ErrInvalidEnvelope)
	}
	return nil
}

func (e CheckEnv) Frame() frame.Frame {
	payload := tlv.EncodeFields([]tlv.Field{
		tlv.NewStringField(schema.FieldRequestID, e.RequestID),
		tlv.NewIntsField(schema.FieldData, e.Data),
	})
	return frame.New(e.MessageID, schema.MsgCheck, 0, payload)
}

// VerdictEnv answers one CheckEnv. Offset is the first rejected sequence
// start and is zero when Valid.
type VerdictEnv struct {
	MessageID uint64
	RequestID string
	Valid     bool
	Offset    uint32
}

func (e VerdictEnv) Validate() error {
	if strings.TrimSpace(e.RequestID) == "" {
		return fmt.Errorf("%w: missing request_id", ErrInvalidEnvelope)
	}
	if e.Valid && e.Offset != 0 {
		return fmt.Errorf("%w: offset set on valid verdict", ErrInvalidEnvelope)
	}
	return nil
}

func (e VerdictEnv) Frame() frame.Frame {
	payload := tlv.EncodeFields([]tlv.Field{
		tlv.NewStringField(schema.FieldRequestID, e.RequestID),
		tlv.NewBoolField(schema.FieldValid, e.Valid),
		tlv.NewU32Field(schema.FieldOffset, e.Offset),
	})
	return frame.New(e.MessageID, schema.MsgVerdict, frame.FlagIsResponse, payload)
}

// ErrorEnv reports a request that could not be checked at all.
type ErrorEnv struct {
	MessageID uint64
	RequestID string
	Reason    string
}

func (e ErrorEnv) Frame() frame.Frame {
	payload := tlv.EncodeFields([]tlv.Field{
		tlv.NewStringField(schema.FieldRequestID, e.RequestID),
		tlv.NewStringField(schema.FieldReason, e.Reason),
	})
	return frame.New(e.MessageID, schema.MsgError, frame.FlagIsResponse|frame.FlagIsError, payload)
}

// DecodeCheck parses and schema-validates a MsgCheck frame.
func DecodeCheck(f frame.Frame) (CheckEnv, error) {
	if f.Header.MessageType != schema.MsgCheck {
		return CheckEnv{}, fmt.Errorf("%w: message_type=%d", ErrInvalidEnvelope, f.Header.MessageType)
	}
	fields, err := tlv.DecodeFields(f.Payload)
	if err != nil {
		return CheckEnv{}, err
	}
	if err := schema.Validate(schema.MsgCheck, fields); err != nil {
		return CheckEnv{}, err
	}
	// schema.Validate already rejected malformed string fields.
	idField, _ := tlv.GetField(fields, schema.FieldRequestID)
	requestID := string(idField.Value)
	dataField, _ := tlv.GetField(fields, schema.FieldData)
	data, err := tlv.IntsValue(dataField)
	if err != nil {
		return CheckEnv{}, err
	}
	env := CheckEnv{MessageID: f.Header.MessageID, RequestID: requestID, Data: data}
	if err := env.Validate(); err != nil {
		return CheckEnv{}, err
	}
	return env, nil
}

// DecodeVerdict parses and schema-validates a MsgVerdict frame.
func DecodeVerdict(f frame.Frame) (VerdictEnv, error) {
	if f.Header.MessageType != schema.MsgVerdict {
		return VerdictEnv{}, fmt.Errorf("%w: message_type=%d", ErrInvalidEnvelope, f.Header.MessageType)
	}
	fields, err := tlv.DecodeFields(f.Payload)
	if err != nil {
		return VerdictEnv{}, err
	}
	if err := schema.Validate(schema.MsgVerdict, fields); err != nil {
		return VerdictEnv{}, err
	}
	idField, _ := tlv.GetField(fields, schema.FieldRequestID)
	validField, _ := tlv.GetField(fields, schema.FieldValid)
	offsetField, _ := tlv.GetField(fields, schema.FieldOffset)

	requestID := string(idField.Value)
	valid, err := tlv.BoolValue(validField)
	if err != nil {
		return VerdictEnv{}, err
	}
	offset, err := tlv.U32FromBytes(offsetField.Value)
	if err != nil {
		return VerdictEnv{}, err
	}
	env := VerdictEnv{MessageID: f.Header.MessageID, RequestID: requestID, Valid: valid, Offset: offset}
	if err := env.Validate(); err != nil {
		return VerdictEnv{}, err
	}
	return env, nil
}

// requestIDOf recovers the request id from a frame that failed to decode, so
// the error response can still be correlated.
func requestIDOf(f frame.Frame) string {
	fields, err := tlv.DecodeFields(f.Payload)
	if err != nil {
		return ""
	}
	idField, ok := tlv.GetField(fields, schema.FieldRequestID)
	if !ok {
		return ""
	}
	id, err := tlv.StringValue(idField)
	if err != nil {
		return ""
	}
	return id
}
