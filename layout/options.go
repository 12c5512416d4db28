package layout

// 布局策略常量（像素）。
const (
	RunSpacing  = 10
	LineSpacing = 10
	// EmptyLineFactor scales the point size to get the height of an empty line.
	EmptyLineFactor = 0.8
)

// Horizontal alignment values.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

// Vertical alignment values.
const (
	AlignTop    = "top"
	AlignMiddle = "center"
	AlignBottom = "bottom"
)

// PlanOptions 配置布局阶段所需的依赖与参数。
type PlanOptions struct {
	Measurer Measurer
	Size     float64

	CanvasWidth  int
	CanvasHeight int
	Padding      int
	OffsetX      int
	OffsetY      int

	HorizontalAlign string
	VerticalAlign   string
}

// Measurer 负责以所选字体测量单个 run 的像素尺寸。text 为逻辑顺序，连写与双向重排由实现负责。
type Measurer interface {
	MeasureRun(text string, role FontRole) (Metrics, error)
}
