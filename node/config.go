// Package node exposes the PersianText node: a typed configuration validated at the
// boundary, an explicit registration table for hosts, and Execute, which runs one
// render invocation end to end.
package node

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ByLCY/persiantext/fonts"
	"github.com/ByLCY/persiantext/layout"
	"github.com/ByLCY/persiantext/palette"
	"github.com/ByLCY/persiantext/renderer/raster"
)

// ErrInvalidConfig wraps every validation and parameter parsing failure.
var ErrInvalidConfig = errors.New("node: 配置无效")

// Parameter names as exposed to hosts and job files.
const (
	ParamText                  = "text"
	ParamRTLFont               = "rtl_font"
	ParamLTRFont               = "ltr_font"
	ParamSize                  = "size"
	ParamTextColor             = "text_color"
	ParamBackgroundColor       = "background_color"
	ParamShadowColor           = "shadow_color"
	ParamTextColorHex          = "text_color_hex"
	ParamBackgroundColorHex    = "background_color_hex"
	ParamShadowColorHex        = "shadow_color_hex"
	ParamHorizontalAlign       = "horizontal_align"
	ParamVerticalAlign         = "vertical_align"
	ParamWidth                 = "image_width"
	ParamHeight                = "image_height"
	ParamRotation              = "rotation"
	ParamOffsetX               = "offset_x"
	ParamOffsetY               = "offset_y"
	ParamShadowDistance        = "shadow_distance"
	ParamShadowBlur            = "shadow_blur"
	ParamPadding               = "padding"
	ParamTransparentBackground = "transparent_background"
)

// Config is the immutable snapshot of one render invocation.
type Config struct {
	Text    string
	RTLFont string
	LTRFont string
	Size    int

	// 颜色为调色板名称；选择 palette.Custom 时使用对应的 Hex 字段。
	TextColor          string
	BackgroundColor    string
	ShadowColor        string
	TextColorHex       string
	BackgroundColorHex string
	ShadowColorHex     string

	HorizontalAlign string
	VerticalAlign   string

	Width    int
	Height   int
	Rotation float64
	OffsetX  int
	OffsetY  int

	ShadowDistance int
	ShadowBlur     float64

	Padding               int
	TransparentBackground bool
}

// DefaultConfig returns the node defaults.
func DefaultConfig() Config {
	return Config{
		Text:               "سلام کامفی",
		RTLFont:            fonts.BaselineName,
		LTRFont:            fonts.GoRegularName,
		Size:               60,
		TextColor:          "black",
		BackgroundColor:    "white",
		ShadowColor:        "black",
		TextColorHex:       "#000000",
		BackgroundColorHex: "#FFFFFF",
		ShadowColorHex:     "#000000",
		HorizontalAlign:    layout.AlignCenter,
		VerticalAlign:      layout.AlignMiddle,
		Width:              512,
		Height:             512,
	}
}

// Validate checks ranges and enumerations before any rendering happens. Colors are not
// checked here: palette resolution falls back to role defaults.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}
	check(c.Size >= 1, "size 必须 ≥ 1，实际 %d", c.Size)
	check(c.Width >= 1, "image_width 必须 ≥ 1，实际 %d", c.Width)
	check(c.Height >= 1, "image_height 必须 ≥ 1，实际 %d", c.Height)
	check(c.ShadowDistance >= 0, "shadow_distance 必须 ≥ 0，实际 %d", c.ShadowDistance)
	check(c.ShadowBlur >= 0, "shadow_blur 必须 ≥ 0，实际 %g", c.ShadowBlur)
	check(c.Padding >= 0, "padding 必须 ≥ 0，实际 %d", c.Padding)
	check(!math.IsNaN(c.Rotation) && !math.IsInf(c.Rotation, 0), "rotation 必须是有限数值")
	check(oneOf(c.HorizontalAlign, HorizontalAligns), "horizontal_align 取值 %q 无效", c.HorizontalAlign)
	check(oneOf(c.VerticalAlign, VerticalAligns), "vertical_align 取值 %q 无效", c.VerticalAlign)
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// HorizontalAligns and VerticalAligns list the accepted alignment values.
var (
	HorizontalAligns = []string{layout.AlignLeft, layout.AlignCenter, layout.AlignRight}
	VerticalAligns   = []string{layout.AlignTop, layout.AlignMiddle, layout.AlignBottom}
)

func oneOf(v string, options []string) bool {
	for _, o := range options {
		if v == o {
			return true
		}
	}
	return false
}

// Style resolves the colors and effects for the rasterizer.
func (c Config) Style() raster.Style {
	return raster.Style{
		Text:           palette.Resolve(c.TextColor, c.TextColorHex, palette.Text),
		Background:     palette.Resolve(c.BackgroundColor, c.BackgroundColorHex, palette.Background),
		Shadow:         palette.Resolve(c.ShadowColor, c.ShadowColorHex, palette.Shadow),
		Transparent:    c.TransparentBackground,
		ShadowDistance: c.ShadowDistance,
		ShadowBlur:     c.ShadowBlur,
		Rotation:       c.Rotation,
	}
}

// ConfigFromParams starts from DefaultConfig and applies named parameters. A color
// parameter given as "#rrggbb" selects palette.Custom with that hex value.
func ConfigFromParams(params map[string]string) (Config, error) {
	cfg := DefaultConfig()
	for key, raw := range params {
		if err := cfg.set(key, raw); err != nil {
			return Config{}, fmt.Errorf("%w: 参数 %s: %w", ErrInvalidConfig, key, err)
		}
	}
	return cfg, nil
}

func (c *Config) set(key, raw string) error {
	var err error
	switch key {
	case ParamText:
		c.Text = raw
	case ParamRTLFont:
		c.RTLFont = raw
	case ParamLTRFont:
		c.LTRFont = raw
	case ParamSize:
		c.Size, err = strconv.Atoi(raw)
	case ParamTextColor:
		c.TextColor, c.TextColorHex = colorParam(raw, c.TextColorHex)
	case ParamBackgroundColor:
		c.BackgroundColor, c.BackgroundColorHex = colorParam(raw, c.BackgroundColorHex)
	case ParamShadowColor:
		c.ShadowColor, c.ShadowColorHex = colorParam(raw, c.ShadowColorHex)
	case ParamTextColorHex:
		c.TextColorHex = raw
	case ParamBackgroundColorHex:
		c.BackgroundColorHex = raw
	case ParamShadowColorHex:
		c.ShadowColorHex = raw
	case ParamHorizontalAlign:
		c.HorizontalAlign = strings.ToLower(raw)
	case ParamVerticalAlign:
		c.VerticalAlign = strings.ToLower(raw)
	case ParamWidth:
		c.Width, err = strconv.Atoi(raw)
	case ParamHeight:
		c.Height, err = strconv.Atoi(raw)
	case ParamRotation:
		c.Rotation, err = strconv.ParseFloat(raw, 64)
	case ParamOffsetX:
		c.OffsetX, err = strconv.Atoi(raw)
	case ParamOffsetY:
		c.OffsetY, err = strconv.Atoi(raw)
	case ParamShadowDistance:
		c.ShadowDistance, err = strconv.Atoi(raw)
	case ParamShadowBlur:
		c.ShadowBlur, err = strconv.ParseFloat(raw, 64)
	case ParamPadding:
		c.Padding, err = strconv.Atoi(raw)
	case ParamTransparentBackground:
		c.TransparentBackground, err = strconv.ParseBool(raw)
	default:
		return fmt.Errorf("未知参数")
	}
	return err
}

func colorParam(raw, hex string) (string, string) {
	if strings.HasPrefix(raw, "#") {
		return palette.Custom, raw
	}
	return raw, hex
}
