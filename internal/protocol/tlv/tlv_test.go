package tlv

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeDecodeFieldsRoundTripPreservesUnknown(t *testing.T) {
	in := []Field{
		{ID: 1, Type: TypeString, Value: []byte("minecraft:farmland")},
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

func TestNamedFieldsRoundTripKeepsOrder(t *testing.T) {
	in := []NamedField{
		{Name: "CustomName", Type: TypeString, Value: []byte("Tropical Fish")},
		{Name: "AppendCustomName", Type: TypeU8, Value: []byte{1}},
		{Name: "Damage", Type: TypeI32, Value: PutI32(-3)},
	}
	b, err := EncodeNamedFields(in)
	if err != nil {
		t.Fatalf("encode named: %v", err)
	}
	out, err := DecodeNamedFields(b)
	if err != nil {
		t.Fatalf("decode named: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("expected %d fields, got %d", len(in), len(out))
	}
	for i := range in {
		if out[i].Name != in[i].Name || out[i].Type != in[i].Type || !bytes.Equal(out[i].Value, in[i].Value) {
			t.Fatalf("field %d mismatch: got %+v want %+v", i, out[i], in[i])
		}
	}
	damage, err := I32FromBytes(out[2].Value)
	if err != nil || damage != -3 {
		t.Fatalf("unexpected damage: %d err=%v", damage, err)
	}
}

func TestDecodeNamedFieldsTruncatedName(t *testing.T) {
	payload := []byte{0, 10, 'a', 'b'}
	_, err := DecodeNamedFields(payload)
	if !errors.Is(err, ErrShortFieldHeader) {
		t.Fatalf("expected ErrShortFieldHeader, got %v", err)
	}
}
