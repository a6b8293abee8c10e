package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
)

// ErrSizeMismatch is returned when compared images have different bounds.
var ErrSizeMismatch = errors.New("image dimensions differ")

// CompareOptions configures Compare.
type CompareOptions struct {
	// Tolerance is the largest per-channel difference (0-255) that still
	// counts as equal.
	Tolerance int
	// FuzzyRadius lets a pixel match any expected pixel within this many
	// pixels, absorbing one or two pixel shifts.
	FuzzyRadius int
	// MaxDifferentPercent accepts images whose share of differing pixels
	// is at most this percentage.
	MaxDifferentPercent float64
}

// DefaultCompareOptions tolerates antialiasing noise only.
var DefaultCompareOptions = CompareOptions{Tolerance: 2}

// CompareResult summarises a comparison. Diff is the expected image in
// grey with differing pixels in red.
type CompareResult struct {
	Match           bool
	DifferentPixels int
	TotalPixels     int
	MaxDifference   int
	Diff            *image.RGBA
}

// DifferentPercent is the share of differing pixels.
func (r *CompareResult) DifferentPercent() float64 {
	if r.TotalPixels == 0 {
		return 0
	}
	return float64(r.DifferentPixels) / float64(r.TotalPixels) * 100
}

// Compare compares two images pixel by pixel.
func Compare(actual, expected image.Image, opts CompareOptions) (*CompareResult, error) {
	bounds := actual.Bounds()
	if bounds.Size() != expected.Bounds().Size() {
		return nil, fmt.Errorf("%w: %v vs %v", ErrSizeMismatch, bounds.Size(), expected.Bounds().Size())
	}
	// Expected pixels are addressed relative to actual's origin.
	shift := expected.Bounds().Min.Sub(bounds.Min)
	at := func(x, y int) color.Color { return expected.At(x+shift.X, y+shift.Y) }

	res := &CompareResult{
		TotalPixels: bounds.Dx() * bounds.Dy(),
		Diff:        image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy())),
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			a := actual.At(x, y)
			d := channelDiff(a, at(x, y))
			res.MaxDifference = max(res.MaxDifference, d)
			px, py := x-bounds.Min.X, y-bounds.Min.Y
			if d <= opts.Tolerance || fuzzyMatch(a, at, x, y, bounds, opts) {
				g := color.GrayModel.Convert(at(x, y)).(color.Gray)
				res.Diff.Set(px, py, color.RGBA{R: g.Y, G: g.Y, B: g.Y, A: 255})
				continue
			}
			res.DifferentPixels++
			res.Diff.Set(px, py, color.RGBA{R: 255, A: 255})
		}
	}
	res.Match = res.DifferentPixels == 0 ||
		(opts.MaxDifferentPercent > 0 && res.DifferentPercent() <= opts.MaxDifferentPercent)
	return res, nil
}

func fuzzyMatch(a color.Color, at func(x, y int) color.Color, x, y int, bounds image.Rectangle, opts CompareOptions) bool {
	r := opts.FuzzyRadius
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			p := image.Pt(x+dx, y+dy)
			if (dx == 0 && dy == 0) || !p.In(bounds) {
				continue
			}
			if channelDiff(a, at(p.X, p.Y)) <= opts.Tolerance {
				return true
			}
		}
	}
	return false
}

// channelDiff is the largest 8-bit channel difference, alpha included.
func channelDiff(a, b color.Color) int {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return max(
		absDiff(ar, br),
		absDiff(ag, bg),
		absDiff(ab, bb),
		absDiff(aa, ba),
	)
}

func absDiff(a, b uint32) int {
	d := int(a>>8) - int(b>>8)
	if d < 0 {
		return -d
	}
	return d
}

// LoadPNG decodes a PNG file.
func LoadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return img, nil
}

// SavePNG writes img to path.
func SavePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
