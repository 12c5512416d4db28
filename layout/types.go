package layout

import "github.com/ByLCY/persiantext/script"

// 该文件定义布局结果，供光栅渲染、预览与调试 JSON 共用。所有坐标单位均为像素，原点在画布左上角。

// FontRole selects which of the two configured fonts draws a run.
type FontRole int

const (
	// LTRFont draws left-to-right and space runs.
	LTRFont FontRole = iota
	// RTLFont draws right-to-left runs.
	RTLFont
)

func (r FontRole) String() string {
	if r == RTLFont {
		return "rtl"
	}
	return "ltr"
}

// MarshalText keeps debug JSON readable.
func (r FontRole) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// RoleFor returns the font role for a script class.
func RoleFor(c script.Class) FontRole {
	if c == script.RTL {
		return RTLFont
	}
	return LTRFont
}

// Result 保存一次渲染的全部布局信息。
type Result struct {
	CanvasWidth  int         `json:"canvasWidth"`
	CanvasHeight int         `json:"canvasHeight"`
	Padding      int         `json:"padding"`
	Block        Block       `json:"block"`
	Placed       []PlacedRun `json:"placed"`
}

// Block 是整段文本的度量结果。
type Block struct {
	Lines       []Line `json:"lines"`
	TotalHeight int    `json:"totalHeight"`
	// OriginY is the top of the first line after vertical alignment and offset.
	OriginY int `json:"originY"`
}

// Line 表示一行文本及其度量。空行没有 run，但仍占用 Height。
type Line struct {
	Runs   []MeasuredRun `json:"runs"`
	RTL    bool          `json:"rtl"`
	Width  int           `json:"width"`
	Height int           `json:"height"`
	X      int           `json:"x"`
	Y      int           `json:"y"`
}

// Empty reports whether the line has no runs.
func (l Line) Empty() bool { return len(l.Runs) == 0 }

// MeasuredRun is a run together with its metrics.
type MeasuredRun struct {
	script.Run
	Metrics Metrics `json:"metrics"`
}

// Metrics 为 run 在所选字体下的像素度量。
type Metrics struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	// Ascent is the distance from the top of the run box to the baseline.
	Ascent int `json:"ascent"`
	// Bearing is the horizontal distance from the pen position to the first inked
	// pixel; drawing at X-Bearing puts the ink at X.
	Bearing int `json:"bearing"`
}

// PlacedRun 是最终要绘制的 run：字体、左上角坐标与尺寸均已确定。
type PlacedRun struct {
	Class   script.Class `json:"class"`
	Text    string       `json:"text"`
	Font    FontRole     `json:"font"`
	Line    int          `json:"line"`
	X       int          `json:"x"`
	Y       int          `json:"y"`
	Width   int          `json:"width"`
	Height  int          `json:"height"`
	Ascent  int          `json:"ascent"`
	Bearing int          `json:"bearing"`
}
