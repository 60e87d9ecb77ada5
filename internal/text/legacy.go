package text

import (
	"strconv"
	"strings"
)

const (
	sectionSign = "§"
	resetCode   = "§r"
)

type namedColor struct {
	code    byte
	r, g, b int
}

var namedColors = map[string]namedColor{
	"black":        {'0', 0x00, 0x00, 0x00},
	"dark_blue":    {'1', 0x00, 0x00, 0xAA},
	"dark_green":   {'2', 0x00, 0xAA, 0x00},
	"dark_aqua":    {'3', 0x00, 0xAA, 0xAA},
	"dark_red":     {'4', 0xAA, 0x00, 0x00},
	"dark_purple":  {'5', 0xAA, 0x00, 0xAA},
	"gold":         {'6', 0xFF, 0xAA, 0x00},
	"gray":         {'7', 0xAA, 0xAA, 0xAA},
	"dark_gray":    {'8', 0x55, 0x55, 0x55},
	"blue":         {'9', 0x55, 0x55, 0xFF},
	"green":        {'a', 0x55, 0xFF, 0x55},
	"aqua":         {'b', 0x55, 0xFF, 0xFF},
	"red":          {'c', 0xFF, 0x55, 0x55},
	"light_purple": {'d', 0xFF, 0x55, 0xFF},
	"yellow":       {'e', 0xFF, 0xFF, 0x55},
	"white":        {'f', 0xFF, 0xFF, 0xFF},
}

// colorCode maps a named or #rrggbb color to its legacy code. Hex colors
// resolve to the nearest named color. Unknown values yield 0.
func colorCode(color string) byte {
	if color == "" {
		return 0
	}
	if c, ok := namedColors[strings.ToLower(color)]; ok {
		return c.code
	}
	if !strings.HasPrefix(color, "#") || len(color) != 7 {
		return 0
	}
	rgb, err := strconv.ParseUint(color[1:], 16, 32)
	if err != nil {
		return 0
	}
	r, g, b := int(rgb>>16&0xFF), int(rgb>>8&0xFF), int(rgb&0xFF)
	best, bestDist := byte(0), -1
	// iterate in code order so equal distances resolve deterministically
	for _, name := range colorOrder {
		c := namedColors[name]
		dr, dg, db := r-c.r, g-c.g, b-c.b
		dist := dr*dr + dg*dg + db*db
		if bestDist < 0 || dist < bestDist {
			best, bestDist = c.code, dist
		}
	}
	return best
}

var colorOrder = []string{
	"black", "dark_blue", "dark_green", "dark_aqua", "dark_red", "dark_purple", "gold", "gray",
	"dark_gray", "blue", "green", "aqua", "red", "light_purple", "yellow", "white",
}

// legacyPrefix returns the format codes for s, or "" for an unstyled segment.
func legacyPrefix(s Style) string {
	var b strings.Builder
	if code := colorCode(s.Color); code != 0 {
		b.WriteString(sectionSign)
		b.WriteByte(code)
	}
	flag := func(v bool, code byte) {
		if v {
			b.WriteString(sectionSign)
			b.WriteByte(code)
		}
	}
	flag(s.Obfuscated.Or(false), 'k')
	flag(s.Bold.Or(false), 'l')
	flag(s.Strikethrough.Or(false), 'm')
	flag(s.Underlined.Or(false), 'n')
	flag(s.Italic.Or(false), 'o')
	return b.String()
}
