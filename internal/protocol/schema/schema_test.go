package schema

import (
	"testing"

	"github.com/danmuck/utf8check/internal/protocol/tlv"
	"github.com/danmuck/utf8check/internal/testutil/testlog"
)

func TestValidateCheckRequiredFields(t *testing.T) {
	testlog.Start(t)
	fields := []tlv.Field{
		tlv.NewStringField(FieldRequestID, "req-1"),
		tlv.NewIntsField(FieldData, []int{197, 130, 1}),
	}
	if err := Validate(MsgCheck, fields); err != nil {
		t.Fatalf("validate check: %v", err)
	}
}

func TestValidateUnknownFieldsIgnored(t *testing.T) {
	testlog.Start(t)
	fields := []tlv.Field{
		tlv.NewStringField(FieldRequestID, "req-1"),
		tlv.NewIntsField(FieldData, nil),
		{ID: 9999, Type: tlv.TypeBytes, Value: []byte{0xFF}},
	}
	if err := Validate(MsgCheck, fields); err != nil {
		t.Fatalf("validate with unknown field: %v", err)
	}
}

func TestValidateUnknownMessageType(t *testing.T) {
	testlog.Start(t)
	err := Validate(77, nil)
	ve, ok := err.(ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if ve.Reason != ReasonUnknownMessage || ve.FieldID != 0 {
		t.Fatalf("unexpected validation error: %+v", ve)
	}
}

func TestValidateMissingRequiredDeterministic(t *testing.T) {
	testlog.Start(t)
	fields := []tlv.Field{tlv.NewStringField(FieldRequestID, "req-1")}
	err := Validate(MsgCheck, fields)
	if err == nil {
		t.Fatalf("expected error")
	}
	ve, ok := err.(ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if ve.FieldID != FieldData || ve.Reason != ReasonMissingField {
		t.Fatalf("unexpected validation error: %+v", ve)
	}
}

func TestValidateTypeMismatchDeterministic(t *testing.T) {
	testlog.Start(t)
	fields := []tlv.Field{
		tlv.NewStringField(FieldRequestID, "req-1"),
		{ID: FieldData, Type: tlv.TypeBytes, Value: []byte{197, 130, 1}},
	}
	err := Validate(MsgCheck, fields)
	ve, ok := err.(ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if ve.FieldID != FieldData || ve.Reason != ReasonTypeMismatch {
		t.Fatalf("unexpected validation error: %+v", ve)
	}
}

func TestValidateRejectsMalformedStringField(t *testing.T) {
	testlog.Start(t)
	fields := []tlv.Field{
		{ID: FieldRequestID, Type: tlv.TypeString, Value: []byte{'r', 0xC0}},
		tlv.NewIntsField(FieldData, []int{1}),
	}
	err := Validate(MsgCheck, fields)
	ve, ok := err.(ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if ve.FieldID != FieldRequestID || ve.Reason != ReasonInvalidUTF8 {
		t.Fatalf("unexpected validation error: %+v", ve)
	}
}

func TestValidateVerdictAndError(t *testing.T) {
	testlog.Start(t)
	verdict := []tlv.Field{
		tlv.NewStringField(FieldRequestID, "req-1"),
		tlv.NewBoolField(FieldValid, false),
		tlv.NewU32Field(FieldOffset, 3),
	}
	if err := Validate(MsgVerdict, verdict); err != nil {
		t.Fatalf("validate verdict: %v", err)
	}
	errFields := []tlv.Field{
		tlv.NewStringField(FieldRequestID, "req-1"),
		tlv.NewStringField(FieldReason, "schema: bad"),
	}
	if err := Validate(MsgError, errFields); err != nil {
		t.Fatalf("validate error: %v", err)
	}
}

func TestValidationErrorFormat(t *testing.T) {
	e := ValidationError{MessageType: MsgCheck, FieldID: FieldData, Reason: ReasonMissingField}
	if got := e.Error(); got != "schema: message_type=1 field=2: missing required field" {
		t.Fatalf("unexpected message: %q", got)
	}
}
