package tag

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/danmuck/bridgectl/internal/protocol/tlv"
)

var (
	ErrUnknownFieldType = errors.New("tag: unknown field type")
	ErrMalformedList    = errors.New("tag: malformed list payload")
)

// MarshalBinary encodes the tree as ordered named TLV fields. The output is
// deterministic for a given sequence of writes. Empty lore is omitted.
func (t *Tree) MarshalBinary() ([]byte, error) {
	fields := make([]tlv.NamedField, 0, len(t.fields))
	for _, f := range t.fields {
		var nf tlv.NamedField
		switch f.kind {
		case KindByte:
			nf = tlv.NamedField{Name: f.name, Type: tlv.TypeU8, Value: []byte{f.value.(byte)}}
		case KindInt:
			nf = tlv.NamedField{Name: f.name, Type: tlv.TypeI32, Value: tlv.PutI32(f.value.(int32))}
		case KindString:
			nf = tlv.NamedField{Name: f.name, Type: tlv.TypeString, Value: []byte(f.value.(string))}
		case KindStringList:
			lines := f.value.(*Lore).Lines()
			if len(lines) == 0 {
				continue
			}
			elems := make([][]byte, len(lines))
			for i, line := range lines {
				elems[i] = []byte(line)
			}
			nf = tlv.NamedField{Name: f.name, Type: tlv.TypeList, Value: encodeList(tlv.TypeString, elems)}
		case KindCompoundList:
			trees := f.value.([]*Tree)
			elems := make([][]byte, len(trees))
			for i, c := range trees {
				b, err := c.MarshalBinary()
				if err != nil {
					return nil, fmt.Errorf("tag: field %q element %d: %w", f.name, i, err)
				}
				elems[i] = b
			}
			nf = tlv.NamedField{Name: f.name, Type: tlv.TypeList, Value: encodeList(tlv.TypeCompound, elems)}
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownFieldType, f.kind)
		}
		fields = append(fields, nf)
	}
	return tlv.EncodeNamedFields(fields)
}

// UnmarshalBinary replaces the tree contents with the decoded fields.
func (t *Tree) UnmarshalBinary(data []byte) error {
	fields, err := tlv.DecodeNamedFields(data)
	if err != nil {
		return err
	}
	fresh := New()
	for _, f := range fields {
		switch f.Type {
		case tlv.TypeU8:
			if len(f.Value) != 1 {
				return fmt.Errorf("tag: field %q: invalid byte length %d", f.Name, len(f.Value))
			}
			fresh.PutByte(f.Name, f.Value[0])
		case tlv.TypeI32:
			v, err := tlv.I32FromBytes(f.Value)
			if err != nil {
				return fmt.Errorf("tag: field %q: %w", f.Name, err)
			}
			fresh.PutInt(f.Name, v)
		case tlv.TypeString:
			fresh.PutString(f.Name, string(f.Value))
		case tlv.TypeList:
			elemType, elems, err := decodeList(f.Value)
			if err != nil {
				return fmt.Errorf("tag: field %q: %w", f.Name, err)
			}
			switch elemType {
			case tlv.TypeString:
				lore := &Lore{}
				for _, e := range elems {
					lore.Append(string(e))
				}
				fresh.put(f.Name, KindStringList, lore)
				if f.Name == LoreField {
					fresh.lore = lore
				}
			case tlv.TypeCompound:
				list := make([]*Tree, 0, len(elems))
				for _, e := range elems {
					c := New()
					if err := c.UnmarshalBinary(e); err != nil {
						return err
					}
					list = append(list, c)
				}
				fresh.PutCompoundList(f.Name, list)
			default:
				return fmt.Errorf("%w: list element %d", ErrUnknownFieldType, elemType)
			}
		default:
			return fmt.Errorf("%w: %d", ErrUnknownFieldType, f.Type)
		}
	}
	*t = *fresh
	return nil
}

// list payload: elem_type(u8) | count(u32) | { len(u32) | bytes }*
func encodeList(elemType uint8, elems [][]byte) []byte {
	size := 5
	for _, e := range elems {
		size += 4 + len(e)
	}
	buf := make([]byte, 0, size)
	buf = append(buf, elemType)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(elems)))
	for _, e := range elems {
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(e)))
		buf = append(buf, e...)
	}
	return buf
}

func decodeList(payload []byte) (uint8, [][]byte, error) {
	if len(payload) < 5 {
		return 0, nil, ErrMalformedList
	}
	elemType := payload[0]
	count := binary.BigEndian.Uint32(payload[1:5])
	i := 5
	elems := make([][]byte, 0)
	for n := uint32(0); n < count; n++ {
		if len(payload)-i < 4 {
			return 0, nil, ErrMalformedList
		}
		l := int(binary.BigEndian.Uint32(payload[i : i+4]))
		i += 4
		if l < 0 || len(payload)-i < l {
			return 0, nil, ErrMalformedList
		}
		elems = append(elems, payload[i:i+l])
		i += l
	}
	if i != len(payload) {
		return 0, nil, ErrMalformedList
	}
	return elemType, elems, nil
}
