package fonts

import (
	"math"
	"sort"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/text"
	"github.com/tdewolff/font"
)

// Pather receives glyph outlines. Coordinates are pixels relative to the run's pen
// position on the baseline, with y growing upwards as in font space.
type Pather = font.Pather

// Glyph is one shaped glyph positioned relative to the run's pen position.
type Glyph struct {
	ID uint16
	X  float64
	Y  float64
}

// Shaped is a run after contextual joining and bidi reordering. Glyphs are in visual
// order, left to right.
type Shaped struct {
	Glyphs  []Glyph
	Advance float64
	// InkMin and InkMax bound the glyph boxes horizontally; Inked is false when no
	// glyph has an outline.
	InkMin float64
	InkMax float64
	Inked  bool
}

// Missing returns the number of glyphs that fell back to .notdef.
func (s Shaped) Missing() int {
	n := 0
	for _, g := range s.Glyphs {
		if g.ID == 0 {
			n++
		}
	}
	return n
}

// Face is a font scaled to a pixel size. Shaping goes through github.com/tdewolff/canvas:
// fribidi embedding levels and script items, then its HarfBuzz shaper per item.
type Face struct {
	font  *canvas.Font
	face  *canvas.FontFace
	scale float64
}

// NewFace scales f so that one em is size pixels.
func NewFace(f *canvas.Font, size float64) *Face {
	face := f.Face(size, canvas.Black)
	// canvas 以毫米为单位，这里让一个单位等于一个像素
	face.Size = size
	face.MmPerEm = size / float64(f.Head.UnitsPerEm)
	return &Face{font: f, face: face, scale: face.MmPerEm}
}

// Font returns the underlying font.
func (f *Face) Font() *canvas.Font { return f.font }

// Ascent and Descent are the font's vertical metrics in pixels, both positive.
func (f *Face) Ascent() float64 { return f.face.Metrics().Ascent }

func (f *Face) Descent() float64 { return f.face.Metrics().Descent }

// Shape joins and orders s for display. It never fails: runes the font cannot map
// shape to glyph 0 and keep their advance.
func (f *Face) Shape(s string) Shaped {
	// 段落分隔符会让 canvas 换行，run 内一律视为空格
	s = strings.Map(func(r rune) rune {
		if text.IsParagraphSeparator(r) {
			return ' '
		}
		return r
	}, s)

	var out Shaped
	if s == "" {
		return out
	}
	// WalkSpans 按逻辑顺序给出 span，按 x 排序后即为视觉顺序
	type placedSpan struct {
		x    float64
		span canvas.TextSpan
	}
	var spans []placedSpan
	canvas.NewTextLine(f.face, s, canvas.Left).WalkSpans(func(x, _ float64, span canvas.TextSpan) {
		spans = append(spans, placedSpan{x: x, span: span})
	})
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].x < spans[j].x })

	out.InkMin, out.InkMax = math.Inf(1), math.Inf(-1)
	for _, ps := range spans {
		x := ps.x
		for _, g := range ps.span.Glyphs {
			gx := x + f.scale*float64(g.XOffset)
			out.Glyphs = append(out.Glyphs, Glyph{ID: g.ID, X: gx, Y: f.scale * float64(g.YOffset)})
			if xMin, _, xMax, _ := f.font.GlyphBounds(g.ID); xMax > xMin {
				out.InkMin = math.Min(out.InkMin, gx+f.scale*float64(xMin))
				out.InkMax = math.Max(out.InkMax, gx+f.scale*float64(xMax))
				out.Inked = true
			}
			x += f.scale * float64(g.XAdvance)
		}
		out.Advance = math.Max(out.Advance, x)
	}
	if !out.Inked {
		out.InkMin, out.InkMax = 0, 0
	}
	return out
}

// Outline emits the outlines of s to p.
func (f *Face) Outline(p Pather, s Shaped) error {
	ppem := uint16(math.Min(math.Round(f.face.Size), math.MaxUint16))
	for _, g := range s.Glyphs {
		if err := f.font.GlyphPath(p, g.ID, ppem, g.X, g.Y, f.scale, font.NoHinting); err != nil {
			return err
		}
	}
	return nil
}
