package item

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/danmuck/bridgectl/internal/opt"
)

// ComponentType names a Java data component.
type ComponentType string

const (
	CustomName               ComponentType = "minecraft:custom_name"
	ItemName                 ComponentType = "minecraft:item_name"
	Lore                     ComponentType = "minecraft:lore"
	Damage                   ComponentType = "minecraft:damage"
	Unbreakable              ComponentType = "minecraft:unbreakable"
	TooltipDisplay           ComponentType = "minecraft:tooltip_display"
	TropicalFishPattern      ComponentType = "minecraft:tropical_fish/pattern"
	TropicalFishBaseColor    ComponentType = "minecraft:tropical_fish/base_color"
	TropicalFishPatternColor ComponentType = "minecraft:tropical_fish/pattern_color"
	WritableBookContent      ComponentType = "minecraft:writable_book_content"
	WrittenBookContent       ComponentType = "minecraft:written_book_content"
)

var (
	ErrMissingID    = errors.New("item: description has no id")
	ErrInvalidInput = errors.New("item: invalid description payload")
)

// TooltipDisplaySpec is the value of the tooltip_display component.
type TooltipDisplaySpec struct {
	HideTooltip bool            `json:"hide_tooltip"`
	Hidden      []ComponentType `json:"hidden_components"`
}

// WrittenBook is the value of the written_book_content component.
type WrittenBook struct {
	Title      string   `json:"title"`
	Author     string   `json:"author"`
	Generation int      `json:"generation"`
	Pages      []string `json:"pages"`
}

// Description is an item identifier plus a component snapshot. Absent keys
// mean "not set", which is distinct from a zero value.
type Description struct {
	id         string
	components map[ComponentType]any
}

// NewDescription copies components so later caller mutation is not observed.
// Keys get the minecraft namespace like the id does; when both the bare and
// the namespaced form are given, the namespaced one wins.
func NewDescription(id string, components map[ComponentType]any) Description {
	var out map[ComponentType]any
	if components != nil {
		out = make(map[ComponentType]any, len(components))
	}
	for k, v := range components {
		norm := ComponentType(normalizeID(string(k)))
		if norm == "" {
			continue
		}
		if _, seen := out[norm]; seen && norm != k {
			continue
		}
		out[norm] = v
	}
	return Description{id: normalizeID(id), components: out}
}

// ParseDescription decodes {"id": ..., "components": {...}}.
func ParseDescription(data []byte) (Description, error) {
	var wire struct {
		ID         string                `json:"id"`
		Components map[ComponentType]any `json:"components"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return Description{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if strings.TrimSpace(wire.ID) == "" {
		return Description{}, ErrMissingID
	}
	return NewDescription(wire.ID, wire.Components), nil
}

func (d Description) ID() string {
	return d.id
}

func (d Description) Has(t ComponentType) bool {
	_, ok := d.components[t]
	return ok
}

func (d Description) String(t ComponentType) (string, bool) {
	s, ok := d.components[t].(string)
	return s, ok
}

// Int accepts any integral value, and float64 with no fraction as produced
// by JSON decoding.
func (d Description) Int(t ComponentType) (int, bool) {
	return toInt(d.components[t])
}

func (d Description) OptionalInt(t ComponentType) opt.Value[int] {
	return opt.From[int](d.Int(t))
}

// Strings returns a string list component. Non-string elements are skipped.
func (d Description) Strings(t ComponentType) ([]string, bool) {
	return toStrings(d.components[t])
}

func (d Description) TooltipDisplay() (TooltipDisplaySpec, bool) {
	switch v := d.components[TooltipDisplay].(type) {
	case TooltipDisplaySpec:
		return v, true
	case *TooltipDisplaySpec:
		if v == nil {
			return TooltipDisplaySpec{}, false
		}
		return *v, true
	case map[string]any:
		out := TooltipDisplaySpec{}
		out.HideTooltip, _ = v["hide_tooltip"].(bool)
		hidden, _ := toStrings(v["hidden_components"])
		for _, h := range hidden {
			out.Hidden = append(out.Hidden, ComponentType(normalizeID(h)))
		}
		return out, true
	default:
		return TooltipDisplaySpec{}, false
	}
}

func (d Description) WrittenBook() (WrittenBook, bool) {
	switch v := d.components[WrittenBookContent].(type) {
	case WrittenBook:
		return v, true
	case *WrittenBook:
		if v == nil {
			return WrittenBook{}, false
		}
		return *v, true
	case map[string]any:
		out := WrittenBook{}
		out.Title, _ = v["title"].(string)
		out.Author, _ = v["author"].(string)
		out.Generation, _ = toInt(v["generation"])
		out.Pages, _ = toStrings(v["pages"])
		return out, true
	default:
		return WrittenBook{}, false
	}
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint8:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

func toStrings(v any) ([]string, bool) {
	switch s := v.(type) {
	case []string:
		return append([]string(nil), s...), true
	case []any:
		out := make([]string, 0, len(s))
		for _, e := range s {
			if str, ok := e.(string); ok {
				out = append(out, str)
			}
		}
		return out, true
	default:
		return nil, false
	}
}

// normalizeID adds the minecraft namespace to bare identifiers.
func normalizeID(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" || strings.Contains(id, ":") {
		return id
	}
	return "minecraft:" + id
}

// BookPages returns the raw pages of a writable book. Accepts a bare page
// list or an object carrying "pages".
func (d Description) BookPages() ([]string, bool) {
	v := d.components[WritableBookContent]
	if m, ok := v.(map[string]any); ok {
		v = m["pages"]
	}
	return toStrings(v)
}
