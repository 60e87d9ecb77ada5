package item

import (
	"github.com/danmuck/bridgectl/internal/opt"
	"github.com/danmuck/bridgectl/internal/protocol/tag"
	"github.com/danmuck/bridgectl/internal/text"
	"github.com/danmuck/bridgectl/internal/variant"
)

const tropicalFishKey = "entity.minecraft.tropical_fish"

func translateTropicalFishBucket(r text.Renderer, d Description, ctx Context, out *tag.Tree) {
	// stops the client from prefixing "Bucket of"
	out.PutByte("AppendCustomName", 1)
	out.PutString("CustomName", r.Render(text.Translate(tropicalFishKey, text.Style{}), ctx.Locale))

	// out-of-range values count as absent before packing
	pattern := inRange(d.OptionalInt(TropicalFishPattern), variant.ValidPattern)
	base := inRange(d.OptionalInt(TropicalFishBaseColor), variant.ValidColor)
	patternColor := inRange(d.OptionalInt(TropicalFishPatternColor), variant.ValidColor)

	// the pattern component gates all three lines
	hasColors := base.Present() && patternColor.Present()
	if !(pattern.Present() || hasColors) || !ctx.Tooltip.Show(TropicalFishPattern) {
		return
	}

	packed := variant.PackOptional(pattern, base, patternColor)
	lore := out.Lore()
	if id, ok := variant.PredefinedID(packed); ok {
		line := text.Translate(variant.PredefinedKey(id), text.LoreStyle)
		lore.Insert(0, r.Render(line, ctx.Locale))
		return
	}
	lore.Insert(0, r.Render(text.Translate(variant.TypeKey(packed), text.LoreStyle), ctx.Locale))
	if !hasColors {
		return
	}
	baseIdx, colorIdx := base.Or(0), patternColor.Or(0)
	var line text.Component = text.Translate(variant.ColorKey(baseIdx), text.LoreStyle)
	if baseIdx != colorIdx {
		line = text.Append(line,
			text.Text{Content: ", ", Style: text.LoreStyle},
			text.Translate(variant.ColorKey(colorIdx), text.LoreStyle),
		)
	}
	lore.Insert(1, r.Render(line, ctx.Locale))
}

func inRange(v opt.Value[int], valid func(int) bool) opt.Value[int] {
	if n, ok := v.Get(); ok && !valid(n) {
		return opt.None[int]()
	}
	return v
}
