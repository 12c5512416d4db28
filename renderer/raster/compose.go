package raster

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/ByLCY/persiantext/layout"
)

// Compose draws every placed run and builds the frame. Layers from bottom to top:
// background, shadow, text. Rotation turns the shadow+text layer and the mask about
// the canvas center; exposed areas show the background (or transparency) in the
// image and zero in the mask.
func (s *Session) Compose(result *layout.Result) (*Frame, error) {
	if result == nil {
		return nil, fmt.Errorf("布局结果为空")
	}
	w, h := result.CanvasWidth, result.CanvasHeight
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("画布尺寸无效：%dx%d", w, h)
	}
	bounds := image.Rect(0, 0, w, h)

	mask, err := s.drawRuns(result, w, h, color.White)
	if err != nil {
		return nil, err
	}
	text, err := s.drawRuns(result, w, h, s.style.Text)
	if err != nil {
		return nil, err
	}
	coverage := mask.AsMask()

	fg := image.NewRGBA(bounds)
	if s.style.HasShadow() && len(result.Placed) > 0 {
		draw.Draw(fg, bounds, shadowLayer(coverage, s.style), image.Point{}, draw.Over)
	}
	draw.Draw(fg, bounds, text.Image(), image.Point{}, draw.Over)

	var fgImage image.Image = fg
	var maskImage image.Image = coverage
	if deg := math.Mod(s.style.Rotation, 360); deg != 0 {
		fgImage = rotate(fg, deg)
		maskImage = rotate(coverage, deg)
	}

	out := image.NewRGBA(bounds)
	if !s.style.Transparent {
		draw.Draw(out, bounds, image.NewUniform(s.style.Background), image.Point{}, draw.Src)
	}
	draw.Draw(out, bounds, fgImage, image.Point{}, draw.Over)

	img := image.NewNRGBA(bounds)
	draw.Draw(img, bounds, out, image.Point{}, draw.Src)

	return &Frame{Image: img, Mask: toGray(maskImage)}, nil
}

// drawRuns 在透明画布上以给定颜色填充全部 run 的字形轮廓。
func (s *Session) drawRuns(result *layout.Result, w, h int, c color.Color) (*gg.Context, error) {
	dc := gg.NewContext(w, h)
	dc.SetColor(c)
	for _, run := range result.Placed {
		face, shaped, err := s.shape(run.Font, run.Text)
		if err != nil {
			return nil, err
		}
		pen := glyphPen{dc: dc, x: float64(run.X - run.Bearing), y: float64(run.Y + run.Ascent)}
		if err := face.Outline(pen, shaped); err != nil {
			return nil, fmt.Errorf("绘制 %q 失败: %w", run.Text, err)
		}
		// 整个 run 一次填充，相连字形的重叠处不会叠加透明度
		dc.Fill()
	}
	return dc, nil
}

// glyphPen maps glyph outlines, y up from the baseline, onto the gg path at a pen
// position.
type glyphPen struct {
	dc   *gg.Context
	x, y float64
}

func (p glyphPen) MoveTo(x, y float64) { p.dc.MoveTo(p.x+x, p.y-y) }

func (p glyphPen) LineTo(x, y float64) { p.dc.LineTo(p.x+x, p.y-y) }

func (p glyphPen) QuadTo(cx, cy, x, y float64) {
	p.dc.QuadraticTo(p.x+cx, p.y-cy, p.x+x, p.y-y)
}

func (p glyphPen) CubeTo(c1x, c1y, c2x, c2y, x, y float64) {
	p.dc.CubicTo(p.x+c1x, p.y-c1y, p.x+c2x, p.y-c2y, p.x+x, p.y-y)
}

func (p glyphPen) Close() { p.dc.ClosePath() }

// shadowLayer 将遮罩平移 (distance, distance)，着色后按需做高斯模糊。
func shadowLayer(coverage *image.Alpha, style Style) image.Image {
	b := coverage.Bounds()
	layer := image.NewNRGBA(b)
	d := style.ShadowDistance
	for y := b.Min.Y; y < b.Max.Y; y++ {
		sy := y - d
		if sy < b.Min.Y || sy >= b.Max.Y {
			continue
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			sx := x - d
			if sx < b.Min.X || sx >= b.Max.X {
				continue
			}
			a := coverage.AlphaAt(sx, sy).A
			if a == 0 {
				continue
			}
			layer.SetNRGBA(x, y, color.NRGBA{
				R: style.Shadow.R,
				G: style.Shadow.G,
				B: style.Shadow.B,
				A: uint8(uint32(a) * uint32(style.Shadow.A) / 255),
			})
		}
	}
	if style.ShadowBlur > 0 {
		return imaging.Blur(layer, style.ShadowBlur)
	}
	return layer
}

// rotate 以画布中心为轴逆时针旋转 deg 度，尺寸不变，超出部分被裁掉。
func rotate(src image.Image, deg float64) *image.RGBA {
	b := src.Bounds()
	dc := gg.NewContext(b.Dx(), b.Dy())
	dc.RotateAbout(gg.Radians(-deg), float64(b.Dx())/2, float64(b.Dy())/2)
	dc.DrawImage(src, 0, 0)
	return dc.Image().(*image.RGBA)
}

func toGray(src image.Image) *image.Gray {
	b := src.Bounds()
	g := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			_, _, _, a := src.At(x, y).RGBA()
			g.SetGray(x, y, color.Gray{Y: uint8(a >> 8)})
		}
	}
	return g
}
