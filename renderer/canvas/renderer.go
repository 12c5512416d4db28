package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/ByLCY/persiantext/layout"
	"github.com/ByLCY/persiantext/renderer"
	"github.com/ByLCY/persiantext/script"
)

const (
	// 布局以像素为单位，canvas 以毫米为单位（按 96 DPI 换算）。
	pxToMm      = 25.4 / 96
	frameStroke = 0.4
	boxStroke   = 0.25
	labelSizePt = 6.0
)

// Renderer draws a PDF preview of a layout result via github.com/tdewolff/canvas:
// the canvas frame, the padding box, each line box and one box per placed run.
type Renderer struct {
	meta       Meta
	background color.Color
	labels     bool

	fontMu      sync.Mutex
	labelFamily *canvas.FontFamily
}

var _ renderer.Renderer = (*Renderer)(nil)

// Meta is written into the PDF info dictionary.
type Meta struct {
	Title    string
	Subject  string
	Keywords string
	Author   string
	Creator  string
}

// Options configures the preview renderer.
type Options struct {
	Meta Meta
	// Background fills the canvas frame; nil means white.
	Background color.Color
	// Labels prints "<index> <class>" above each run box.
	Labels bool
}

// NewRenderer creates a preview renderer with labels enabled.
func NewRenderer() *Renderer { return NewRendererWithOptions(Options{Labels: true}) }

// NewRendererWithOptions creates a preview renderer.
func NewRendererWithOptions(opts Options) *Renderer {
	bg := opts.Background
	if bg == nil {
		bg = canvas.White
	}
	return &Renderer{meta: opts.Meta, background: bg, labels: opts.Labels}
}

// Render renders the result into a single-page PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if result.CanvasWidth <= 0 || result.CanvasHeight <= 0 {
		return nil, fmt.Errorf("画布尺寸无效：%dx%d", result.CanvasWidth, result.CanvasHeight)
	}

	width, height := toMm(result.CanvasWidth), toMm(result.CanvasHeight)
	var buf bytes.Buffer
	writer := pdf.New(&buf, width, height, nil)
	writer.SetInfo(r.meta.Title, r.meta.Subject, r.meta.Keywords, r.meta.Author, r.meta.Creator)

	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

	if err := r.drawResult(ctx, result); err != nil {
		return nil, err
	}
	c.RenderTo(writer)

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawResult(ctx *canvas.Context, result *layout.Result) error {
	w, h := toMm(result.CanvasWidth), toMm(result.CanvasHeight)

	// 画布边框与背景
	ctx.SetFillColor(r.background)
	ctx.SetStrokeColor(canvas.Black)
	ctx.SetStrokeWidth(frameStroke)
	ctx.DrawPath(0, 0, canvas.Rectangle(w, h))

	// 内边距框
	if p := result.Padding; p > 0 && 2*p < result.CanvasWidth && 2*p < result.CanvasHeight {
		ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
		ctx.SetStrokeColor(canvas.Hex("#adb5bd"))
		ctx.SetStrokeWidth(boxStroke)
		ctx.DrawPath(toMm(p), toMm(p), canvas.Rectangle(toMm(result.CanvasWidth-2*p), toMm(result.CanvasHeight-2*p)))
	}

	// 行框：空行同样绘制，便于检查占位高度
	for _, line := range result.Block.Lines {
		ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
		ctx.SetStrokeColor(canvas.Hex("#dee2e6"))
		ctx.SetStrokeWidth(boxStroke)
		lineW := line.Width
		if line.Empty() {
			lineW = 0
		}
		ctx.DrawPath(toMm(line.X), toMm(line.Y), canvas.Rectangle(toMm(lineW), toMm(line.Height)))
	}

	for i, run := range result.Placed {
		ctx.SetFillColor(runFill(run.Class))
		ctx.SetStrokeColor(runColor(run.Class))
		ctx.SetStrokeWidth(boxStroke)
		ctx.DrawPath(toMm(run.X), toMm(run.Y), canvas.Rectangle(toMm(run.Width), toMm(run.Height)))

		// 基线
		p := &canvas.Path{}
		p.MoveTo(0, 0)
		p.LineTo(toMm(run.Width), 0)
		ctx.DrawPath(toMm(run.X), toMm(run.Y+run.Ascent), p)

		if r.labels {
			if err := r.drawLabel(ctx, fmt.Sprintf("%d %s", i, run.Class), toMm(run.X), toMm(run.Y)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Renderer) drawLabel(ctx *canvas.Context, label string, x, y float64) error {
	face, err := r.labelFace()
	if err != nil {
		return err
	}
	// 标签放在 run 框上方，基线贴住框顶
	ctx.DrawText(x, y-face.Metrics().Descent, canvas.NewTextLine(face, label, canvas.Left))
	return nil
}

func (r *Renderer) labelFace() (*canvas.FontFace, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if r.labelFamily == nil {
		family := canvas.NewFontFamily("preview-label")
		if err := family.LoadFont(gomono.TTF, 0, canvas.FontRegular); err != nil {
			return nil, fmt.Errorf("加载标签字体失败: %w", err)
		}
		r.labelFamily = family
	}
	return r.labelFamily.Face(labelSizePt, canvas.Hex("#343a40"), canvas.FontRegular, canvas.FontNormal), nil
}

func runColor(c script.Class) color.RGBA {
	switch c {
	case script.RTL:
		return canvas.Hex("#d9480f")
	case script.LTR:
		return canvas.Hex("#1c7ed6")
	default:
		return canvas.Hex("#868e96")
	}
}

// runFill 为 run 框的半透明填充色。
func runFill(c script.Class) color.Color {
	col := runColor(c)
	return canvas.RGBA(float64(col.R)/255.0, float64(col.G)/255.0, float64(col.B)/255.0, 0.15)
}

// toMm 将像素转换为毫米。
func toMm(px int) float64 { return float64(px) * pxToMm }
