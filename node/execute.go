package node

import (
	"fmt"

	"github.com/ByLCY/persiantext/layout"
	"github.com/ByLCY/persiantext/logging"
	"github.com/ByLCY/persiantext/renderer/raster"
	"github.com/ByLCY/persiantext/tensor"
)

// Output is the result of one invocation.
type Output struct {
	// Image is [1, H, W, 3] and Mask is [1, H, W], both in [0,1].
	Image tensor.Tensor
	Mask  tensor.Tensor

	Frame  *raster.Frame
	Layout *layout.Result
}

// Execute validates cfg and renders it. All faces and layers live only for this call;
// the renderer's font cache is the only state shared between invocations.
func Execute(cfg Config, r *raster.Renderer) (*Output, error) {
	if r == nil {
		return nil, fmt.Errorf("renderer 不能为空")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	session, err := r.NewSession(raster.Options{
		RTLFont: cfg.RTLFont,
		LTRFont: cfg.LTRFont,
		Size:    float64(cfg.Size),
		Style:   cfg.Style(),
	})
	if err != nil {
		return nil, fmt.Errorf("加载字体失败: %w", err)
	}
	defer session.Close()

	result, err := layout.Plan(cfg.Text, layout.PlanOptions{
		Measurer:        session,
		Size:            float64(cfg.Size),
		CanvasWidth:     cfg.Width,
		CanvasHeight:    cfg.Height,
		Padding:         cfg.Padding,
		OffsetX:         cfg.OffsetX,
		OffsetY:         cfg.OffsetY,
		HorizontalAlign: cfg.HorizontalAlign,
		VerticalAlign:   cfg.VerticalAlign,
	})
	if err != nil {
		return nil, fmt.Errorf("布局计算失败: %w", err)
	}

	frame, err := session.Compose(result)
	if err != nil {
		return nil, fmt.Errorf("渲染失败: %w", err)
	}
	logging.Logger().Debug("rendered", "lines", len(result.Block.Lines), "runs", len(result.Placed), "width", cfg.Width, "height", cfg.Height)

	return &Output{
		Image:  tensor.FromImage(frame.Image),
		Mask:   tensor.FromMask(frame.Mask),
		Frame:  frame,
		Layout: result,
	}, nil
}
