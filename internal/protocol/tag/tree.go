package tag

import (
	"github.com/sandertv/gophertunnel/minecraft/nbt"
)

// Kind is the value type stored under one tree field.
type Kind uint8

const (
	KindByte Kind = iota + 1
	KindInt
	KindString
	KindStringList
	KindCompoundList
)

func (k Kind) String() string {
	switch k {
	case KindByte:
		return "byte"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindStringList:
		return "string_list"
	case KindCompoundList:
		return "compound_list"
	default:
		return "unknown"
	}
}

// LoreField is the name the lore sequence is written under.
const LoreField = "Lore"

type field struct {
	name  string
	kind  Kind
	value any
}

// Tree is an ordered, mutable tag tree. Fields keep the position of their
// first write; a later write to the same name overwrites the value in place.
// A Tree is not safe for concurrent use.
type Tree struct {
	fields []field
	index  map[string]int
	lore   *Lore
}

func New() *Tree {
	return &Tree{index: make(map[string]int)}
}

func (t *Tree) put(name string, kind Kind, value any) {
	if i, ok := t.index[name]; ok {
		t.fields[i].kind = kind
		t.fields[i].value = value
		if name == LoreField && kind != KindStringList {
			t.lore = nil
		}
		return
	}
	t.index[name] = len(t.fields)
	t.fields = append(t.fields, field{name: name, kind: kind, value: value})
}

func (t *Tree) PutByte(name string, v byte) {
	t.put(name, KindByte, v)
}

func (t *Tree) PutBool(name string, v bool) {
	var b byte
	if v {
		b = 1
	}
	t.put(name, KindByte, b)
}

func (t *Tree) PutInt(name string, v int32) {
	t.put(name, KindInt, v)
}

func (t *Tree) PutString(name string, v string) {
	t.put(name, KindString, v)
}

// PutCompoundList replaces name with an ordered list of compounds.
func (t *Tree) PutCompoundList(name string, list []*Tree) {
	cp := make([]*Tree, len(list))
	copy(cp, list)
	t.put(name, KindCompoundList, cp)
}

// Lore returns the lore sequence, creating it (and its field slot) on first use.
func (t *Tree) Lore() *Lore {
	if t.lore != nil {
		return t.lore
	}
	t.lore = &Lore{}
	t.put(LoreField, KindStringList, t.lore)
	return t.lore
}

// HasLore reports whether a lore sequence exists without creating one.
func (t *Tree) HasLore() bool {
	return t.lore != nil
}

func (t *Tree) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

func (t *Tree) KindOf(name string) (Kind, bool) {
	i, ok := t.index[name]
	if !ok {
		return 0, false
	}
	return t.fields[i].kind, true
}

func (t *Tree) Byte(name string) (byte, bool) {
	v, ok := t.lookup(name, KindByte)
	if !ok {
		return 0, false
	}
	return v.(byte), true
}

func (t *Tree) Int(name string) (int32, bool) {
	v, ok := t.lookup(name, KindInt)
	if !ok {
		return 0, false
	}
	return v.(int32), true
}

func (t *Tree) String(name string) (string, bool) {
	v, ok := t.lookup(name, KindString)
	if !ok {
		return "", false
	}
	return v.(string), true
}

func (t *Tree) CompoundList(name string) ([]*Tree, bool) {
	v, ok := t.lookup(name, KindCompoundList)
	if !ok {
		return nil, false
	}
	list := v.([]*Tree)
	out := make([]*Tree, len(list))
	copy(out, list)
	return out, true
}

func (t *Tree) lookup(name string, kind Kind) (any, bool) {
	i, ok := t.index[name]
	if !ok || t.fields[i].kind != kind {
		return nil, false
	}
	return t.fields[i].value, true
}

// Names returns field names in insertion order.
func (t *Tree) Names() []string {
	out := make([]string, 0, len(t.fields))
	for _, f := range t.fields {
		out = append(out, f.name)
	}
	return out
}

func (t *Tree) Len() int {
	return len(t.fields)
}

// Map converts the tree into the map shape consumed by the NBT encoder and
// by protocol.ItemStack.NBTData. Empty lore is omitted.
func (t *Tree) Map() map[string]any {
	out := make(map[string]any, len(t.fields))
	for _, f := range t.fields {
		switch f.kind {
		case KindStringList:
			lines := f.value.(*Lore).Lines()
			if len(lines) == 0 {
				continue
			}
			list := make([]any, len(lines))
			for i, line := range lines {
				list[i] = line
			}
			out[f.name] = list
		case KindCompoundList:
			trees := f.value.([]*Tree)
			list := make([]any, len(trees))
			for i, c := range trees {
				list[i] = c.Map()
			}
			out[f.name] = list
		default:
			out[f.name] = f.value
		}
	}
	return out
}

// MarshalNBT encodes the tree as a network little-endian NBT compound.
func (t *Tree) MarshalNBT() ([]byte, error) {
	return nbt.MarshalEncoding(t.Map(), nbt.NetworkLittleEndian)
}
