// Package text renders Java text components into the legacy formatted
// strings the Bedrock client displays.
//
// Localization goes through a Localizer. Locales is the go-i18n backed
// implementation loaded from TOML message files.
package text

import "github.com/danmuck/bridgectl/internal/opt"

// Component is a node in a text component tree.
type Component interface {
	style() Style
	children() []Component
}

// Style holds formatting. Unset fields inherit from the parent component.
type Style struct {
	Color         string
	Bold          opt.Value[bool]
	Italic        opt.Value[bool]
	Underlined    opt.Value[bool]
	Strikethrough opt.Value[bool]
	Obfuscated    opt.Value[bool]
}

// LoreStyle is gray italic, used for derived tooltip lines.
var LoreStyle = Style{Color: "gray", Italic: opt.Some(true)}

// inherit resolves s against its parent.
func (s Style) inherit(parent Style) Style {
	out := s
	if out.Color == "" {
		out.Color = parent.Color
	}
	if !out.Bold.Present() {
		out.Bold = parent.Bold
	}
	if !out.Italic.Present() {
		out.Italic = parent.Italic
	}
	if !out.Underlined.Present() {
		out.Underlined = parent.Underlined
	}
	if !out.Strikethrough.Present() {
		out.Strikethrough = parent.Strikethrough
	}
	if !out.Obfuscated.Present() {
		out.Obfuscated = parent.Obfuscated
	}
	return out
}

// Text is a literal string.
type Text struct {
	Content string
	Style   Style
	Extra   []Component
}

func (t Text) style() Style          { return t.Style }
func (t Text) children() []Component { return t.Extra }

// Translatable resolves Key through the locale and substitutes With into
// %s / %N$s placeholders.
type Translatable struct {
	Key   string
	With  []Component
	Style Style
	Extra []Component
}

func (t Translatable) style() Style          { return t.Style }
func (t Translatable) children() []Component { return t.Extra }

// Plain builds an unstyled literal.
func Plain(s string) Text {
	return Text{Content: s}
}

// Translate builds a translatable with the given style.
func Translate(key string, style Style, with ...Component) Translatable {
	return Translatable{Key: key, Style: style, With: with}
}

// Append returns c with extra children appended.
func Append(c Component, extra ...Component) Component {
	switch v := c.(type) {
	case Text:
		v.Extra = append(append([]Component(nil), v.Extra...), extra...)
		return v
	case Translatable:
		v.Extra = append(append([]Component(nil), v.Extra...), extra...)
		return v
	default:
		return Text{Extra: append([]Component{c}, extra...)}
	}
}
