package text

import (
	"strconv"
	"strings"
)

// Localizer resolves a translation key for a locale. ok is false when no
// locale, including the fallback, has the key.
type Localizer interface {
	Translate(locale, key string) (string, bool)
}

// Renderer flattens components to legacy formatted text.
type Renderer struct {
	locales Localizer
}

func NewRenderer(locales Localizer) Renderer {
	return Renderer{locales: locales}
}

type segment struct {
	text  string
	style Style
}

// Render produces the legacy string for c in locale. Styled runs are
// prefixed with a reset and their format codes.
func (r Renderer) Render(c Component, locale string) string {
	if c == nil {
		return ""
	}
	segs := r.flatten(nil, c, Style{}, locale)
	var b strings.Builder
	current := ""
	for _, s := range segs {
		if s.text == "" {
			continue
		}
		prefix := legacyPrefix(s.style)
		if prefix != current {
			b.WriteString(resetCode)
			b.WriteString(prefix)
			current = prefix
		}
		b.WriteString(s.text)
	}
	return b.String()
}

func (r Renderer) flatten(out []segment, c Component, parent Style, locale string) []segment {
	style := c.style().inherit(parent)
	switch v := c.(type) {
	case Text:
		out = append(out, segment{text: v.Content, style: style})
	case Translatable:
		out = r.expand(out, v, style, locale)
	}
	for _, child := range c.children() {
		out = r.flatten(out, child, style, locale)
	}
	return out
}

// expand substitutes arguments into the resolved template. Supports %s,
// %N$s and %%. Missing arguments render as empty.
func (r Renderer) expand(out []segment, t Translatable, style Style, locale string) []segment {
	template := t.Key
	if r.locales != nil {
		if resolved, ok := r.locales.Translate(locale, t.Key); ok {
			template = resolved
		}
	}
	next := 0
	var lit strings.Builder
	flushLit := func() {
		if lit.Len() > 0 {
			out = append(out, segment{text: lit.String(), style: style})
			lit.Reset()
		}
	}
	arg := func(i int) {
		flushLit()
		if i >= 0 && i < len(t.With) && t.With[i] != nil {
			out = r.flatten(out, t.With[i], style, locale)
		}
	}
	for i := 0; i < len(template); i++ {
		ch := template[i]
		if ch != '%' || i+1 >= len(template) {
			lit.WriteByte(ch)
			continue
		}
		rest := template[i+1:]
		switch {
		case rest[0] == '%':
			lit.WriteByte('%')
			i++
		case rest[0] == 's':
			arg(next)
			next++
			i++
		default:
			n, width := leadingDigits(rest)
			if width > 0 && strings.HasPrefix(rest[width:], "$s") {
				arg(n - 1)
				i += width + 2
				continue
			}
			lit.WriteByte(ch)
		}
	}
	flushLit()
	return out
}

func leadingDigits(s string) (int, int) {
	width := 0
	for width < len(s) && s[width] >= '0' && s[width] <= '9' {
		width++
	}
	if width == 0 {
		return 0, 0
	}
	n, err := strconv.Atoi(s[:width])
	if err != nil {
		return 0, 0
	}
	return n, width
}

// RenderLenient renders raw as a JSON component when it parses as one and
// returns it unchanged otherwise.
func (r Renderer) RenderLenient(raw, locale string) string {
	c, err := ParseJSON(raw)
	if err != nil {
		return raw
	}
	return r.Render(c, locale)
}
