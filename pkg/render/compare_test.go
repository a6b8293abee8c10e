package render

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestCompareIdentical(t *testing.T) {
	a := solid(10, 10, color.White)
	res, err := Compare(a, solid(10, 10, color.White), DefaultCompareOptions)
	require.NoError(t, err)
	assert.True(t, res.Match)
	assert.Equal(t, 100, res.TotalPixels)
	assert.Zero(t, res.DifferentPixels)
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, res.Diff.At(3, 3))
}

func TestCompareReportsDifferences(t *testing.T) {
	a := solid(10, 10, color.White)
	b := solid(10, 10, color.White)
	b.Set(2, 3, color.Black)
	b.Set(7, 7, color.RGBA{254, 254, 254, 255})

	res, err := Compare(a, b, DefaultCompareOptions)
	require.NoError(t, err)
	assert.False(t, res.Match)
	assert.Equal(t, 1, res.DifferentPixels, "the off-by-one pixel is within tolerance")
	assert.Equal(t, 255, res.MaxDifference)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, res.Diff.At(2, 3))
	assert.InDelta(t, 1.0, res.DifferentPercent(), 1e-9)

	res, err = Compare(a, b, CompareOptions{Tolerance: 2, MaxDifferentPercent: 1})
	require.NoError(t, err)
	assert.True(t, res.Match)
	assert.Equal(t, 1, res.DifferentPixels)

	res, err = Compare(a, b, CompareOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.DifferentPixels, "zero tolerance")
}

func TestCompareFuzzyRadius(t *testing.T) {
	a := solid(10, 10, color.White)
	b := solid(10, 10, color.White)
	a.Set(4, 4, color.Black)
	b.Set(5, 4, color.Black)

	res, err := Compare(a, b, CompareOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.DifferentPixels)

	res, err = Compare(a, b, CompareOptions{FuzzyRadius: 1})
	require.NoError(t, err)
	assert.True(t, res.Match)
}

func TestCompareSizeMismatch(t *testing.T) {
	_, err := Compare(solid(10, 10, color.White), solid(10, 11, color.White), DefaultCompareOptions)
	assert.ErrorIs(t, err, ErrSizeMismatch)
}

func TestCompareOffsetBounds(t *testing.T) {
	a := solid(4, 4, color.White)
	b := image.NewRGBA(image.Rect(10, 10, 14, 14))
	for y := 10; y < 14; y++ {
		for x := 10; x < 14; x++ {
			b.Set(x, y, color.White)
		}
	}
	res, err := Compare(a, b, CompareOptions{})
	require.NoError(t, err)
	assert.True(t, res.Match)
}

func TestSaveAndLoadPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.png")
	require.NoError(t, SavePNG(solid(3, 2, color.Black), path))
	img, err := LoadPNG(path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())

	_, err = LoadPNG(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}
