// Package layout measures script runs and places them on the canvas.
package layout

import (
	"fmt"
	"math"
	"strings"

	"github.com/ByLCY/persiantext/logging"
	"github.com/ByLCY/persiantext/script"
)

// Plan 将多行文本切分为 run，测量并计算每个 run 在画布上的左上角坐标。
func Plan(text string, opts PlanOptions) (*Result, error) {
	if opts.Measurer == nil {
		return nil, fmt.Errorf("layout: 缺少测量后端 Measurer")
	}

	block, err := measure(text, opts)
	if err != nil {
		return nil, err
	}

	block.OriginY = verticalOrigin(opts, block.TotalHeight)
	placed := place(&block, opts)

	return &Result{
		CanvasWidth:  opts.CanvasWidth,
		CanvasHeight: opts.CanvasHeight,
		Padding:      opts.Padding,
		Block:        block,
		Placed:       placed,
	}, nil
}

// SplitLines 按换行符切分文本，并去掉行尾的 \r。
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, ln := range lines {
		lines[i] = strings.TrimSuffix(ln, "\r")
	}
	return lines
}

// EmptyLineHeight is the height reserved for a line without runs.
func EmptyLineHeight(size float64) int {
	return int(math.Round(size * EmptyLineFactor))
}

func measure(text string, opts PlanOptions) (Block, error) {
	var block Block
	for i, raw := range SplitLines(text) {
		runs := script.Segment(raw)
		line := Line{RTL: script.IsRTL(runs)}
		for _, run := range runs {
			m, err := opts.Measurer.MeasureRun(run.Text, RoleFor(run.Class))
			if err != nil {
				return Block{}, fmt.Errorf("测量第 %d 行文本 %q 失败: %w", i+1, run.Text, err)
			}
			line.Runs = append(line.Runs, MeasuredRun{Run: run, Metrics: m})
			line.Width += m.Width
			line.Height = max(line.Height, m.Height)
		}
		if line.Empty() {
			line.Height = EmptyLineHeight(opts.Size)
		} else {
			line.Width += RunSpacing * (len(line.Runs) - 1)
		}
		block.Lines = append(block.Lines, line)
	}

	for _, line := range block.Lines {
		block.TotalHeight += line.Height
	}
	if n := len(block.Lines); n > 1 {
		block.TotalHeight += LineSpacing * (n - 1)
	}
	return block, nil
}

func verticalOrigin(opts PlanOptions, total int) int {
	var y int
	switch opts.VerticalAlign {
	case AlignTop:
		y = opts.Padding
	case AlignBottom:
		y = opts.CanvasHeight - opts.Padding - total
	default:
		y = floorDiv(opts.CanvasHeight-total, 2)
	}
	return y + opts.OffsetY
}

func horizontalOrigin(opts PlanOptions, width int) int {
	padded := opts.CanvasWidth - 2*opts.Padding
	var x int
	switch opts.HorizontalAlign {
	case AlignLeft:
		x = opts.Padding
	case AlignRight:
		x = opts.CanvasWidth - opts.Padding - width
	default:
		x = opts.Padding + floorDiv(padded-width, 2)
	}
	return x + opts.OffsetX
}

// place 计算每行的起点并排列 run。右到左的行从行右边缘向左依次放置逻辑顺序中的 run。
func place(block *Block, opts PlanOptions) []PlacedRun {
	var placed []PlacedRun
	cursorY := block.OriginY
	for i := range block.Lines {
		line := &block.Lines[i]
		line.Y = cursorY
		line.X = horizontalOrigin(opts, line.Width)

		if !line.Empty() {
			logging.Logger().Debug("line placed", "line", i, "rtl", line.RTL, "x", line.X, "y", line.Y, "width", line.Width)
		}

		cursorX := line.X
		if line.RTL {
			cursorX = line.X + line.Width
		}
		for _, run := range line.Runs {
			m := run.Metrics
			x := cursorX
			if line.RTL {
				x = cursorX - m.Width
				cursorX = x - RunSpacing
			} else {
				cursorX += m.Width + RunSpacing
			}
			placed = append(placed, PlacedRun{
				Class:   run.Class,
				Text:    run.Text,
				Font:    RoleFor(run.Class),
				Line:    i,
				X:       x,
				Y:       cursorY,
				Width:   m.Width,
				Height:  m.Height,
				Ascent:  m.Ascent,
				Bearing: m.Bearing,
			})
		}
		cursorY += line.Height + LineSpacing
	}
	return placed
}

// floorDiv 向下取整除法；Go 的整数除法向零取整。
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
