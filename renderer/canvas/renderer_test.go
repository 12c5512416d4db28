package canvasrenderer

import (
	"bytes"
	"math"
	"testing"

	"github.com/ByLCY/persiantext/layout"
	"github.com/ByLCY/persiantext/script"
)

// fixedMeasurer 每个字符 12px 宽，高 24px。
type fixedMeasurer struct{}

func (fixedMeasurer) MeasureRun(text string, role layout.FontRole) (layout.Metrics, error) {
	return layout.Metrics{Width: 12 * len([]rune(text)), Height: 24, Ascent: 18}, nil
}

func planPreview(t *testing.T, text string) *layout.Result {
	t.Helper()
	res, err := layout.Plan(text, layout.PlanOptions{
		Measurer:     fixedMeasurer{},
		Size:         24,
		CanvasWidth:  320,
		CanvasHeight: 200,
		Padding:      16,
	})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	return res
}

func TestRenderProducesPDF(t *testing.T) {
	r := NewRendererWithOptions(Options{Meta: Meta{Title: "preview", Creator: "persiantext"}, Labels: true})
	data, err := r.Render(planPreview(t, "سلام hello\n\n123"))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("expected PDF header, got %q", data[:min(8, len(data))])
	}
}

func TestRenderWithoutRuns(t *testing.T) {
	data, err := NewRendererWithOptions(Options{}).Render(planPreview(t, ""))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("empty layout should still produce a page")
	}
}

func TestRenderRejectsInvalidInput(t *testing.T) {
	r := NewRenderer()
	if _, err := r.Render(nil); err == nil {
		t.Fatalf("expected error for nil result")
	}
	if _, err := r.Render(&layout.Result{CanvasWidth: 0, CanvasHeight: 10}); err == nil {
		t.Fatalf("expected error for empty canvas")
	}
}

func TestLabelFaceIsCached(t *testing.T) {
	r := NewRenderer()
	if _, err := r.labelFace(); err != nil {
		t.Fatalf("labelFace: %v", err)
	}
	family := r.labelFamily
	if _, err := r.labelFace(); err != nil {
		t.Fatalf("labelFace: %v", err)
	}
	if r.labelFamily != family {
		t.Fatalf("label family should be loaded once")
	}
}

func TestRunColorsDifferByScript(t *testing.T) {
	if runColor(script.RTL) == runColor(script.LTR) || runColor(script.LTR) == runColor(script.Space) {
		t.Fatalf("each script class needs its own outline color")
	}
}

func TestToMm(t *testing.T) {
	if got := toMm(96); math.Abs(got-25.4) > 1e-9 {
		t.Fatalf("96px should be 25.4mm, got %g", got)
	}
}
