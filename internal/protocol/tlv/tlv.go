package tlv

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	HeaderLen      = 7
	NamedHeaderLen = 2 + 1 + 4
)

var (
	ErrShortFieldHeader = errors.New("tlv: short field header")
	ErrShortFieldValue  = errors.New("tlv: short field value")
	ErrNameTooLong      = errors.New("tlv: field name too long")
)

// Type IDs from tlv contract.
const (
	TypeU8       uint8 = 1
	TypeU16      uint8 = 2
	TypeU32      uint8 = 3
	TypeU64      uint8 = 4
	TypeBool     uint8 = 5
	TypeString   uint8 = 6
	TypeBytes    uint8 = 7
	TypeI32      uint8 = 8
	TypeF32      uint8 = 9
	TypeList     uint8 = 10
	TypeCompound uint8 = 11
)

// Field is one decoded TLV field.
type Field struct {
	ID    uint16
	Type  uint8
	Value []byte
}

// NamedField is a TLV field keyed by name instead of numeric id. Tag trees
// use it since their field set is open-ended.
type NamedField struct {
	Name  string
	Type  uint8
	Value []byte
}

func EncodeField(f Field) []byte {
	buf := make([]byte, HeaderLen+len(f.Value))
	binary.BigEndian.PutUint16(buf[0:2], f.ID)
	buf[2] = f.Type
	binary.BigEndian.PutUint32(buf[3:7], uint32(len(f.Value)))
	copy(buf[7:], f.Value)
	return buf
}

func DecodeFields(payload []byte) ([]Field, error) {
	fields := make([]Field, 0)
	i := 0
	for i < len(payload) {
		if len(payload)-i < HeaderLen {
			return nil, ErrShortFieldHeader
		}
		id := binary.BigEndian.Uint16(payload[i : i+2])
		typeID := payload[i+2]
		l := binary.BigEndian.Uint32(payload[i+3 : i+7])
		i += HeaderLen
		if uint32(len(payload)-i) < l {
			return nil, ErrShortFieldValue
		}
		val := make([]byte, l)
		copy(val, payload[i:i+int(l)])
		i += int(l)
		fields = append(fields, Field{ID: id, Type: typeID, Value: val})
	}
	return fields, nil
}

func EncodeFields(fields []Field) []byte {
	out := make([]byte, 0)
	for _, f := range fields {
		out = append(out, EncodeField(f)...)
	}
	return out
}

// EncodeNamedField writes name_len(u16) | name | type(u8) | len(u32) | value.
func EncodeNamedField(f NamedField) ([]byte, error) {
	if len(f.Name) > int(^uint16(0)) {
		return nil, ErrNameTooLong
	}
	buf := make([]byte, NamedHeaderLen+len(f.Name)+len(f.Value))
	binary.BigEndian.PutUint16(buf[0:2], uint16(len(f.Name)))
	n := 2 + copy(buf[2:], f.Name)
	buf[n] = f.Type
	binary.BigEndian.PutUint32(buf[n+1:n+5], uint32(len(f.Value)))
	copy(buf[n+5:], f.Value)
	return buf, nil
}

func EncodeNamedFields(fields []NamedField) ([]byte, error) {
	out := make([]byte, 0)
	for _, f := range fields {
		b, err := EncodeNamedField(f)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

func DecodeNamedFields(payload []byte) ([]NamedField, error) {
	fields := make([]NamedField, 0)
	i := 0
	for i < len(payload) {
		if len(payload)-i < 2 {
			return nil, ErrShortFieldHeader
		}
		nameLen := int(binary.BigEndian.Uint16(payload[i : i+2]))
		i += 2
		if len(payload)-i < nameLen+5 {
			return nil, ErrShortFieldHeader
		}
		name := string(payload[i : i+nameLen])
		i += nameLen
		typeID := payload[i]
		l := binary.BigEndian.Uint32(payload[i+1 : i+5])
		i += 5
		if uint32(len(payload)-i) < l {
			return nil, ErrShortFieldValue
		}
		val := make([]byte, l)
		copy(val, payload[i:i+int(l)])
		i += int(l)
		fields = append(fields, NamedField{Name: name, Type: typeID, Value: val})
	}
	return fields, nil
}

func GetField(fields []Field, id uint16) (Field, bool) {
	for _, f := range fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}

func MustType(f Field, expected uint8) error {
	if f.Type != expected {
		return fmt.Errorf("tlv: field %d type mismatch: got %d want %d", f.ID, f.Type, expected)
	}
	return nil
}

func U32FromBytes(b []byte) (uint32, error) {
	if len(b) != 4 {
		return 0, fmt.Errorf("tlv: invalid u32 length: %d", len(b))
	}
	return binary.BigEndian.Uint32(b), nil
}

func I32FromBytes(b []byte) (int32, error) {
	v, err := U32FromBytes(b)
	if err != nil {
		return 0, fmt.Errorf("tlv: invalid i32 length: %d", len(b))
	}
	return int32(v), nil
}

func PutU32(v uint32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, v)
	return buf
}

func PutI32(v int32) []byte {
	return PutU32(uint32(v))
}
