// Package raster draws a layout result onto pixel layers with github.com/fogleman/gg
// and composites background, shadow and text into the final image and mask.
package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/ByLCY/persiantext/fonts"
	"github.com/ByLCY/persiantext/layout"
	"github.com/ByLCY/persiantext/logging"
	"github.com/ByLCY/persiantext/renderer"
)

// ErrNoFont is returned when neither of the two requested fonts can be loaded.
var ErrNoFont = errors.New("raster: 无可用字体")

// Renderer creates per-invocation sessions over a shared font loader.
type Renderer struct {
	loader *fonts.Loader
}

// NewRenderer creates a renderer resolving fonts through loader.
func NewRenderer(loader *fonts.Loader) *Renderer {
	if loader == nil {
		loader = fonts.NewLoader("")
	}
	return &Renderer{loader: loader}
}

// Loader returns the font loader shared by all sessions.
func (r *Renderer) Loader() *fonts.Loader { return r.loader }

// Options configures one session.
type Options struct {
	RTLFont string
	LTRFont string
	Size    float64
	Style   Style
}

// Style holds the colors and effects applied by Compose.
type Style struct {
	Text       color.NRGBA
	Background color.NRGBA
	Shadow     color.NRGBA
	// Transparent leaves the background fully transparent instead of filling it.
	Transparent bool
	// ShadowDistance offsets the shadow in both axes, in pixels.
	ShadowDistance int
	// ShadowBlur is the Gaussian blur radius of the shadow.
	ShadowBlur float64
	// Rotation in degrees, counter-clockwise, about the canvas center.
	Rotation float64
}

// HasShadow reports whether a shadow layer is drawn.
func (s Style) HasShadow() bool { return s.ShadowDistance > 0 || s.ShadowBlur > 0 }

// Session owns the font faces for one invocation. It measures runs for the layout
// planner and composes the final frame. A Session is not safe for concurrent use.
type Session struct {
	faces  map[layout.FontRole]*fonts.Face
	shaped map[shapeKey]fonts.Shaped
	style  Style
}

type shapeKey struct {
	role layout.FontRole
	text string
}

var (
	_ layout.Measurer   = (*Session)(nil)
	_ renderer.Renderer = (*Session)(nil)
)

// NewSession loads both fonts and builds faces at opts.Size. A font that fails to load
// is replaced by the baseline font; if both fail the session cannot be created.
func (r *Renderer) NewSession(opts Options) (*Session, error) {
	if opts.Size <= 0 || math.IsNaN(opts.Size) || math.IsInf(opts.Size, 0) {
		return nil, fmt.Errorf("字号必须大于 0，实际 %g", opts.Size)
	}
	rtl, rtlErr := r.loader.Load(opts.RTLFont)
	ltr, ltrErr := r.loader.Load(opts.LTRFont)
	if rtlErr != nil && ltrErr != nil {
		return nil, fmt.Errorf("%w: rtl: %w; ltr: %w", ErrNoFont, rtlErr, ltrErr)
	}
	if rtlErr != nil {
		logging.Logger().Warn("字体加载失败，改用基础字体", "font", opts.RTLFont, "err", rtlErr)
		rtl = r.loader.Baseline()
	}
	if ltrErr != nil {
		logging.Logger().Warn("字体加载失败，改用基础字体", "font", opts.LTRFont, "err", ltrErr)
		ltr = r.loader.Baseline()
	}
	return &Session{
		faces: map[layout.FontRole]*fonts.Face{
			layout.RTLFont: fonts.NewFace(rtl, opts.Size),
			layout.LTRFont: fonts.NewFace(ltr, opts.Size),
		},
		shaped: map[shapeKey]fonts.Shaped{},
		style:  opts.Style,
	}, nil
}

// Close drops the faces and shaped runs. The session must not be used afterwards.
func (s *Session) Close() error {
	clear(s.faces)
	clear(s.shaped)
	return nil
}

// Style returns the style the session composes with.
func (s *Session) Style() Style { return s.style }

func (s *Session) face(role layout.FontRole) (*fonts.Face, error) {
	face, ok := s.faces[role]
	if !ok {
		return nil, fmt.Errorf("缺少 %s 字体", role)
	}
	return face, nil
}

// shape returns the shaped form of text, shaping each (role, text) pair once so the
// measuring and drawing passes see the same glyphs.
func (s *Session) shape(role layout.FontRole, text string) (*fonts.Face, fonts.Shaped, error) {
	face, err := s.face(role)
	if err != nil {
		return nil, fonts.Shaped{}, err
	}
	key := shapeKey{role: role, text: text}
	if shaped, ok := s.shaped[key]; ok {
		return face, shaped, nil
	}
	shaped := face.Shape(text)
	if n := shaped.Missing(); n > 0 {
		logging.Logger().Warn("字体缺少字形", "font", role.String(), "text", text, "missing", n)
	}
	s.shaped[key] = shaped
	return face, shaped, nil
}

// MeasureRun 实现 layout.Measurer：宽度取墨迹范围，纯空白时取步进宽度。
func (s *Session) MeasureRun(text string, role layout.FontRole) (layout.Metrics, error) {
	face, shaped, err := s.shape(role, text)
	if err != nil {
		return layout.Metrics{}, err
	}
	ascent := int(math.Ceil(face.Ascent()))
	m := layout.Metrics{
		Ascent: ascent,
		Height: ascent + int(math.Ceil(face.Descent())),
	}
	if shaped.Inked {
		m.Bearing = int(math.Floor(shaped.InkMin))
		m.Width = int(math.Ceil(shaped.InkMax)) - m.Bearing
	} else {
		m.Width = int(math.Ceil(shaped.Advance))
	}
	return m, nil
}

// Render composes the result and encodes the color image as PNG.
func (s *Session) Render(result *layout.Result) ([]byte, error) {
	frame, err := s.Compose(result)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, frame.Image); err != nil {
		return nil, fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// Frame is the rendered output: a color image and a coverage mask of the same size.
type Frame struct {
	Image *image.NRGBA
	Mask  *image.Gray
}

// WritePNG 将图像与遮罩分别写入两个 PNG 文件，必要时创建目录。
func (f *Frame) WritePNG(imagePath, maskPath string) error {
	if err := writePNG(imagePath, f.Image); err != nil {
		return err
	}
	return writePNG(maskPath, f.Mask)
}

func writePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建文件 %s 失败: %w", path, err)
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("写入 PNG %s 失败: %w", path, err)
	}
	return file.Close()
}
