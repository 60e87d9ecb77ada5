// Package item translates Java item components into the Bedrock item tag.
//
// Every item gets the base translation. Kinds with an override then add
// fields or overwrite them by name; an override never removes a field.
package item

import (
	"github.com/rs/zerolog/log"

	"github.com/danmuck/bridgectl/internal/protocol/tag"
	"github.com/danmuck/bridgectl/internal/text"
)

// Kind selects the override applied after the base translation.
type Kind uint8

const (
	KindGeneric Kind = iota
	KindTropicalFishBucket
	KindWritableBook
	KindWrittenBook
)

func (k Kind) String() string {
	switch k {
	case KindGeneric:
		return "generic"
	case KindTropicalFishBucket:
		return "tropical_fish_bucket"
	case KindWritableBook:
		return "writable_book"
	case KindWrittenBook:
		return "written_book"
	default:
		return "unknown"
	}
}

// Kinds maps Java identifiers to their override kind. Identifiers not in
// the table are KindGeneric.
var Kinds = map[string]Kind{
	"minecraft:tropical_fish_bucket": KindTropicalFishBucket,
	"minecraft:writable_book":        KindWritableBook,
	"minecraft:written_book":         KindWrittenBook,
}

// Context is the read-only per-call translation input.
type Context struct {
	Locale  string
	Tooltip TooltipOptions
	Locales text.Localizer
}

// NewContext derives tooltip options from d.
func NewContext(d Description, locale string, locales text.Localizer) Context {
	return Context{Locale: locale, Tooltip: TooltipFrom(d), Locales: locales}
}

// Override adds kind-specific fields after the base translation.
type Override func(r text.Renderer, d Description, ctx Context, out *tag.Tree)

// Engine is immutable after NewEngine and safe for concurrent use as long as
// each call gets its own output tree.
type Engine struct {
	kinds     map[string]Kind
	overrides map[Kind]Override
}

func NewEngine() *Engine {
	kinds := make(map[string]Kind, len(Kinds))
	for id, k := range Kinds {
		kinds[id] = k
	}
	return &Engine{
		kinds: kinds,
		overrides: map[Kind]Override{
			KindTropicalFishBucket: translateTropicalFishBucket,
			KindWritableBook:       translateWritableBook,
			KindWrittenBook:        translateWrittenBook,
		},
	}
}

func (e *Engine) KindOf(id string) Kind {
	if k, ok := e.kinds[normalizeID(id)]; ok {
		return k
	}
	return KindGeneric
}

// Translate writes d into out: base translation first, then the kind
// override. Missing components write nothing.
func (e *Engine) Translate(d Description, ctx Context, out *tag.Tree) {
	if out == nil {
		return
	}
	r := text.NewRenderer(ctx.Locales)
	translateBase(r, d, ctx, out)
	kind := e.KindOf(d.ID())
	if override, ok := e.overrides[kind]; ok {
		override(r, d, ctx, out)
	}
	log.Debug().
		Str("item", d.ID()).
		Str("kind", kind.String()).
		Int("fields", out.Len()).
		Msg("item.Engine.Translate")
}

func translateBase(r text.Renderer, d Description, ctx Context, out *tag.Tree) {
	if name, ok := displayName(d); ok {
		out.PutString("CustomName", r.RenderLenient(name, ctx.Locale))
	}
	if lines, ok := d.Strings(Lore); ok && len(lines) > 0 && ctx.Tooltip.Show(Lore) {
		lore := out.Lore()
		for _, line := range lines {
			lore.Append(r.RenderLenient(line, ctx.Locale))
		}
	}
	if dmg, ok := d.Int(Damage); ok && dmg > 0 {
		out.PutInt("Damage", int32(dmg))
	}
	if d.Has(Unbreakable) {
		out.PutByte("Unbreakable", 1)
	}
	if ctx.Tooltip.HideTooltip() {
		out.PutByte("HideTooltip", 1)
	}
}

// displayName prefers custom_name over item_name.
func displayName(d Description) (string, bool) {
	if name, ok := d.String(CustomName); ok && name != "" {
		return name, true
	}
	if name, ok := d.String(ItemName); ok && name != "" {
		return name, true
	}
	return "", false
}
