package tlv

import (
	"bytes"
	"errors"
	"slices"
	"testing"
)

func TestEncodeDecodeFieldsRoundTripPreservesUnknown(t *testing.T) {
	in := []Field{
		{ID: 1, Type: TypeString, Value: []byte("req-1")},
		{ID: 9999, Type: TypeBytes, Value: []byte{0xAA, 0xBB}}, // unknown field id
	}
	b := EncodeFields(in)
	out, err := DecodeFields(b)
	if err != nil {
		t.Fatalf("decode fields: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(out))
	}
	if out[1].ID != 9999 || out[1].Type != TypeBytes || !bytes.Equal(out[1].Value, []byte{0xAA, 0xBB}) {
		t.Fatalf("unknown field not preserved: %+v", out[1])
	}
}

func TestDecodeFieldsMalformedHeaderIsDeterministic(t *testing.T) {
	_, err := DecodeFields([]byte{1, 2, 3})
	if !errors.Is(err, ErrShortFieldHeader) {
		t.Fatalf("expected ErrShortFieldHeader, got %v", err)
	}
}

func TestDecodeFieldsMalformedLengthIsDeterministic(t *testing.T) {
	// id=1, type=string, len=5, value only 2 bytes
	payload := []byte{0, 1, TypeString, 0, 0, 0, 5, 'a', 'b'}
	_, err := DecodeFields(payload)
	if !errors.Is(err, ErrShortFieldValue) {
		t.Fatalf("expected ErrShortFieldValue, got %v", err)
	}
}

func TestIntsFieldKeepsFullMagnitude(t *testing.T) {
	in := []int{197, 130, 1, 256, -1, 1 << 40}
	out, err := IntsValue(NewIntsField(2, in))
	if err != nil {
		t.Fatalf("ints value: %v", err)
	}
	if !slices.Equal(in, out) {
		t.Fatalf("ints mismatch: got %v want %v", out, in)
	}
}

func TestIntsValueRejectsRaggedLength(t *testing.T) {
	if _, err := IntsValue(Field{ID: 2, Type: TypeInts, Value: []byte{0, 1, 2}}); err == nil {
		t.Fatalf("expected length error")
	}
}

func TestStringValueRejectsMalformedUTF8(t *testing.T) {
	if _, err := StringValue(Field{ID: 1, Type: TypeString, Value: []byte{0xEB, 0x8C, 0x04, 0xFF}}); !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}
	v, err := StringValue(NewStringField(1, "żółw"))
	if err != nil {
		t.Fatalf("string value: %v", err)
	}
	if v != "żółw" {
		t.Fatalf("unexpected value: %q", v)
	}
}

func TestStringValueTypeMismatch(t *testing.T) {
	if _, err := StringValue(Field{ID: 1, Type: TypeBytes, Value: []byte("x")}); err == nil {
		t.Fatalf("expected type mismatch")
	}
}

func TestBoolValue(t *testing.T) {
	v, err := BoolValue(NewBoolField(3, true))
	if err != nil || !v {
		t.Fatalf("unexpected bool: %v %v", v, err)
	}
	if _, err := BoolValue(Field{ID: 3, Type: TypeBool}); err == nil {
		t.Fatalf("expected length error")
	}
}
