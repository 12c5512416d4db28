// Package palette resolves the node's named colors and "custom" hex colors.
package palette

import (
	"fmt"
	"image/color"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ByLCY/persiantext/logging"
)

// Custom selects the color given by a hex string instead of a named entry.
const Custom = "custom"

// Role decides which default a color falls back to.
type Role int

const (
	Text Role = iota
	Background
	Shadow
)

func (r Role) String() string {
	switch r {
	case Background:
		return "background"
	case Shadow:
		return "shadow"
	default:
		return "text"
	}
}

// Default returns the fallback color for a role: black for text and shadow, white for
// the background.
func (r Role) Default() color.NRGBA {
	if r == Background {
		return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return color.NRGBA{A: 255}
}

var hexPattern = regexp.MustCompile(`^#?[0-9a-fA-F]{6}([0-9a-fA-F]{2})?$`)

type entry struct {
	name string
	hex  string
}

// 顺序即界面中的下拉顺序
var entries = []entry{
	{"white", "#ffffff"},
	{"black", "#000000"},
	{"red", "#ff0000"},
	{"green", "#00ff00"},
	{"blue", "#0000ff"},
	{"yellow", "#ffff00"},
	{"cyan", "#00ffff"},
	{"magenta", "#ff00ff"},
	{"orange", "#ffa500"},
	{"purple", "#800080"},
	{"pink", "#ffc0cb"},
	{"brown", "#a52a2a"},
	{"gray", "#808080"},
	{"lightgray", "#d3d3d3"},
	{"darkgray", "#a9a9a9"},
	{"olive", "#808000"},
	{"lime", "#00ff00"},
	{"teal", "#008080"},
	{"navy", "#000080"},
	{"maroon", "#800000"},
	{"silver", "#c0c0c0"},
	{"gold", "#ffd700"},
	{"turquoise", "#40e0d0"},
	{"violet", "#ee82ee"},
	{"coral", "#ff7f50"},
	{"indigo", "#4b0082"},
}

var named = buildNamed()

func buildNamed() map[string]colorful.Color {
	m := make(map[string]colorful.Color, len(entries))
	for _, e := range entries {
		c, err := colorful.Hex(e.hex)
		if err != nil {
			panic(fmt.Sprintf("palette: 颜色 %s 的值 %s 无法解析: %v", e.name, e.hex, err))
		}
		m[e.name] = c
	}
	return m
}

// Names returns the selectable color names in display order, ending with Custom.
func Names() []string {
	names := make([]string, 0, len(entries)+1)
	for _, e := range entries {
		names = append(names, e.name)
	}
	return append(names, Custom)
}

// ValidHex reports whether s is a 6 or 8 digit hex color, optionally prefixed by '#'.
func ValidHex(s string) bool { return hexPattern.MatchString(s) }

// ParseHex parses a 6 or 8 digit hex color. The optional last two digits are alpha.
func ParseHex(s string) (color.NRGBA, error) {
	if !ValidHex(s) {
		return color.NRGBA{}, fmt.Errorf("颜色值 %q 无法解析", s)
	}
	digits := strings.TrimPrefix(s, "#")
	c, err := colorful.Hex("#" + digits[:6])
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("颜色值 %q 无法解析: %w", s, err)
	}
	alpha := uint64(255)
	if len(digits) == 8 {
		alpha, err = strconv.ParseUint(digits[6:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("颜色值 %q 的透明度无法解析: %w", s, err)
		}
	}
	return toNRGBA(c, uint8(alpha)), nil
}

// Resolve returns the color selected by name. For Custom the hex string is used; an
// invalid or empty hex string, like an unknown name, yields the role default.
func Resolve(name, hex string, role Role) color.NRGBA {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == Custom {
		c, err := ParseHex(strings.TrimSpace(hex))
		if err != nil {
			logging.Logger().Warn("自定义颜色无效，使用默认值", "role", role.String(), "hex", hex)
			return role.Default()
		}
		return c
	}
	if c, ok := named[name]; ok {
		return toNRGBA(c, 255)
	}
	logging.Logger().Warn("未知颜色名称，使用默认值", "role", role.String(), "name", name)
	return role.Default()
}

func toNRGBA(c colorful.Color, alpha uint8) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}
}
