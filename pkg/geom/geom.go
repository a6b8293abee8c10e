package geom

import "math"

// Rect is a rectangle in CSS pixels. Right and Bottom are derived.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewRect creates a Rect from its origin and size.
func NewRect(x, y, width, height float64) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

func (r Rect) Top() float64    { return r.Y }
func (r Rect) Left() float64   { return r.X }
func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Origin returns the top-left corner.
func (r Rect) Origin() Coords {
	return Coords{X: r.X, Y: r.Y}
}

// Size returns the width and height.
func (r Rect) Size() Dimensions {
	return Dimensions{Width: r.Width, Height: r.Height}
}

// Translate returns the rect moved by dx, dy.
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// IsZero reports whether the rect is the zero rect, which is what a
// disconnected node measures as.
func (r Rect) IsZero() bool {
	return r == Rect{}
}

// Equal compares the four stored fields.
func (r Rect) Equal(o Rect) bool {
	return r.X == o.X && r.Y == o.Y && r.Width == o.Width && r.Height == o.Height
}

// Coords is a point.
type Coords struct {
	X float64
	Y float64
}

// Dimensions is a width/height pair.
type Dimensions struct {
	Width  float64
	Height float64
}

// ElementRects pairs the reference and floating rectangles fed to the
// placement algebra.
type ElementRects struct {
	Reference Rect
	Floating  Rect
}

// Scale holds per-axis scale factors. Valid factors are finite and
// strictly positive.
type Scale struct {
	X float64
	Y float64
}

// IdentityScale is used whenever a factor cannot be determined.
var IdentityScale = Scale{X: 1, Y: 1}

// Sanitize replaces zero or non-finite factors with 1.
func (s Scale) Sanitize() Scale {
	if s.X == 0 || math.IsNaN(s.X) || math.IsInf(s.X, 0) {
		s.X = 1
	}
	if s.Y == 0 || math.IsNaN(s.Y) || math.IsInf(s.Y, 0) {
		s.Y = 1
	}
	return s
}

// Round rounds half away from zero like the platform does for offset sizes.
func Round(v float64) float64 {
	return math.Round(v)
}
