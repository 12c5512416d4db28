package tensor

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(2, 1, color.NRGBA{R: 255, G: 0, B: 51, A: 255})

	ten := FromImage(img)
	assert.Equal(t, []int{1, 2, 3, 3}, ten.Shape)
	assert.Len(t, ten.Data, ten.Len())

	r, err := ten.At(0, 1, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, float32(1), r)
	b, err := ten.At(0, 1, 2, 2)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, b, 1e-6)

	zero, err := ten.At(0, 0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, float32(0), zero)
}

func TestFromImageHonoursBoundsOrigin(t *testing.T) {
	img := image.NewNRGBA(image.Rect(5, 5, 7, 6))
	img.SetNRGBA(6, 5, color.NRGBA{G: 255, A: 255})
	ten := FromImage(img)
	assert.Equal(t, []int{1, 1, 2, 3}, ten.Shape)
	g, err := ten.At(0, 0, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, float32(1), g)
}

func TestFromMask(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 4, 3))
	mask.SetGray(1, 2, color.Gray{Y: 255})
	mask.SetGray(3, 0, color.Gray{Y: 0x80})

	ten := FromMask(mask)
	assert.Equal(t, []int{1, 3, 4}, ten.Shape)
	assert.Len(t, ten.Data, 12)

	v, err := ten.At(0, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, float32(1), v)
	v, err = ten.At(0, 0, 3)
	require.NoError(t, err)
	assert.InDelta(t, 128.0/255, v, 1e-6)

	for _, x := range ten.Data {
		assert.True(t, x >= 0 && x <= 1)
	}
}

func TestAtRejectsBadIndex(t *testing.T) {
	ten := FromMask(image.NewGray(image.Rect(0, 0, 2, 2)))
	_, err := ten.At(0, 2, 0)
	assert.Error(t, err)
	_, err = ten.At(0, 1)
	assert.Error(t, err)
}
