// Package variant packs tropical fish sub-attributes into one wire integer.
//
// Layout (matches the Java entity variant):
//
//	bits  0-7   shape (0 small, 1 large)
//	bits  8-15  pattern within shape (0..5)
//	bits 16-23  base color (0..15)
//	bits 24-31  pattern color (0..15)
//
// Pattern indices count small patterns first, then large ones, so index =
// 6*shape + sub-pattern.
package variant

import (
	"strconv"

	"github.com/danmuck/bridgectl/internal/opt"
)

// Packed is the combined wire value.
type Packed int32

const (
	PatternCount      = 12
	ColorCount        = 16
	patternsPerShape  = 6
	predefinedKeyRoot = "entity.minecraft.tropical_fish.predefined."
	typeKeyRoot       = "entity.minecraft.tropical_fish.type."
	colorKeyRoot      = "color.minecraft."
)

var patternNames = [PatternCount]string{
	"kob", "sunstreak", "snooper", "dasher", "brinely", "spotty",
	"flopper", "stripey", "glitter", "blockfish", "betty", "clayfish",
}

var colorNames = [ColorCount]string{
	"white", "orange", "magenta", "light_blue", "yellow", "lime", "pink", "gray",
	"light_gray", "cyan", "purple", "blue", "brown", "green", "red", "black",
}

func ValidPattern(index int) bool {
	return index >= 0 && index < PatternCount
}

func ValidColor(index int) bool {
	return index >= 0 && index < ColorCount
}

// Pack combines in-range sub-attributes. Out-of-range input is not supported.
func Pack(pattern, base, patternColor int) Packed {
	shape := pattern / patternsPerShape
	sub := pattern % patternsPerShape
	id := int32(shape) | int32(sub)<<8
	return Packed(id&0xFFFF | int32(base&0xFF)<<16 | int32(patternColor&0xFF)<<24)
}

// PackOptional substitutes 0 for every absent input and packs the result.
func PackOptional(pattern, base, patternColor opt.Value[int]) Packed {
	return Pack(pattern.Or(0), base.Or(0), patternColor.Or(0))
}

// Unpack is the inverse of Pack over the supported domain.
func Unpack(v Packed) (pattern, base, patternColor int) {
	return v.PatternIndex(), v.BaseColor(), v.PatternColor()
}

func (v Packed) Shape() int {
	return min(int(v)&0xFF, 1)
}

func (v Packed) PatternIndex() int {
	return patternsPerShape*v.Shape() + (int(v)>>8)&0xFF
}

func (v Packed) BaseColor() int {
	return (int(v) >> 16) & 0xFF
}

func (v Packed) PatternColor() int {
	return (int(v) >> 24) & 0xFF
}

// PatternName returns the enumeration name, or "" when out of range.
func PatternName(index int) string {
	if !ValidPattern(index) {
		return ""
	}
	return patternNames[index]
}

// ColorName returns the enumeration name, or "" when out of range.
func ColorName(index int) string {
	if !ValidColor(index) {
		return ""
	}
	return colorNames[index]
}

// VariantName is the pattern name encoded in v.
func VariantName(v Packed) string {
	return PatternName(v.PatternIndex())
}

func PredefinedKey(id int) string {
	return predefinedKeyRoot + strconv.Itoa(id)
}

func TypeKey(v Packed) string {
	return typeKeyRoot + VariantName(v)
}

func ColorKey(index int) string {
	return colorKeyRoot + ColorName(index)
}
