package text

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/danmuck/bridgectl/internal/opt"
)

var (
	ErrNotComponent = errors.New("text: input is not a json component")
	ErrEmptyArray   = errors.New("text: component array is empty")
	ErrBadComponent = errors.New("text: unsupported component value")
)

type rawComponent struct {
	Text          *string           `json:"text"`
	Translate     *string           `json:"translate"`
	With          []json.RawMessage `json:"with"`
	Extra         []json.RawMessage `json:"extra"`
	Color         string            `json:"color"`
	Bold          *bool             `json:"bold"`
	Italic        *bool             `json:"italic"`
	Underlined    *bool             `json:"underlined"`
	Strikethrough *bool             `json:"strikethrough"`
	Obfuscated    *bool             `json:"obfuscated"`
}

// ParseJSON decodes a serialized Java text component. Accepts a string, an
// object, or an array whose head carries the tail as extra children.
func ParseJSON(raw string) (Component, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, ErrNotComponent
	}
	switch trimmed[0] {
	case '{', '[', '"':
	default:
		return nil, ErrNotComponent
	}
	if !json.Valid([]byte(trimmed)) {
		return nil, ErrNotComponent
	}
	return decodeComponent(json.RawMessage(trimmed))
}

func decodeComponent(msg json.RawMessage) (Component, error) {
	msg = bytes.TrimSpace(msg)
	if len(msg) == 0 {
		return nil, ErrBadComponent
	}
	switch msg[0] {
	case '"':
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return nil, err
		}
		return Plain(s), nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(msg, &items); err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, ErrEmptyArray
		}
		head, err := decodeComponent(items[0])
		if err != nil {
			return nil, err
		}
		rest, err := decodeList(items[1:])
		if err != nil {
			return nil, err
		}
		return Append(head, rest...), nil
	case '{':
		var rc rawComponent
		if err := json.Unmarshal(msg, &rc); err != nil {
			return nil, err
		}
		return rc.component()
	default:
		// numbers and booleans show up as bare text in some books
		var v any
		if err := json.Unmarshal(msg, &v); err != nil {
			return nil, err
		}
		switch v.(type) {
		case float64, bool:
			return Plain(string(msg)), nil
		}
		return nil, ErrBadComponent
	}
}

func decodeList(items []json.RawMessage) ([]Component, error) {
	if len(items) == 0 {
		return nil, nil
	}
	out := make([]Component, 0, len(items))
	for _, item := range items {
		c, err := decodeComponent(item)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (rc rawComponent) component() (Component, error) {
	style := Style{
		Color:         rc.Color,
		Bold:          opt.From[bool](deref(rc.Bold)),
		Italic:        opt.From[bool](deref(rc.Italic)),
		Underlined:    opt.From[bool](deref(rc.Underlined)),
		Strikethrough: opt.From[bool](deref(rc.Strikethrough)),
		Obfuscated:    opt.From[bool](deref(rc.Obfuscated)),
	}
	extra, err := decodeList(rc.Extra)
	if err != nil {
		return nil, err
	}
	if rc.Translate != nil {
		with, err := decodeList(rc.With)
		if err != nil {
			return nil, err
		}
		return Translatable{Key: *rc.Translate, With: with, Style: style, Extra: extra}, nil
	}
	content := ""
	if rc.Text != nil {
		content = *rc.Text
	}
	return Text{Content: content, Style: style, Extra: extra}, nil
}

func deref(p *bool) (bool, bool) {
	if p == nil {
		return false, false
	}
	return *p, true
}
