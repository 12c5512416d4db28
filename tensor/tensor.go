// Package tensor converts rendered frames into the float tensors a node graph host
// exchanges between nodes.
package tensor

import (
	"fmt"
	"image"
)

// Tensor is a dense row-major float32 array.
type Tensor struct {
	Shape []int
	Data  []float32
}

// Len returns the number of elements implied by Shape.
func (t Tensor) Len() int {
	n := 1
	for _, d := range t.Shape {
		n *= d
	}
	return n
}

// At returns the element at idx, which must have one entry per dimension.
func (t Tensor) At(idx ...int) (float32, error) {
	if len(idx) != len(t.Shape) {
		return 0, fmt.Errorf("索引维度 %d 与张量维度 %d 不一致", len(idx), len(t.Shape))
	}
	off := 0
	for i, v := range idx {
		if v < 0 || v >= t.Shape[i] {
			return 0, fmt.Errorf("第 %d 维索引 %d 越界（长度 %d）", i, v, t.Shape[i])
		}
		off = off*t.Shape[i] + v
	}
	return t.Data[off], nil
}

// FromImage 将彩色图像转换为 [1, H, W, 3] 张量，取值范围 [0,1]。
// Alpha is dropped; a transparent pixel keeps its straight (unpremultiplied) color.
func FromImage(img *image.NRGBA) Tensor {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	data := make([]float32, 0, h*w*3)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			data = append(data, unit(c.R), unit(c.G), unit(c.B))
		}
	}
	return Tensor{Shape: []int{1, h, w, 3}, Data: data}
}

// FromMask 将遮罩转换为 [1, H, W] 张量，取值范围 [0,1]。
func FromMask(mask *image.Gray) Tensor {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	data := make([]float32, 0, h*w)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			data = append(data, unit(mask.GrayAt(x, y).Y))
		}
	}
	return Tensor{Shape: []int{1, h, w}, Data: data}
}

func unit(v uint8) float32 { return float32(v) / 255 }
