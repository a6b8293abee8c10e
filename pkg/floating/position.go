package floating

import (
	"tether/pkg/geom"
	"tether/pkg/placement"
	"tether/pkg/platform"
)

// GetElementRects returns the reference rect relative to the floating
// element's offset parent, and the floating element's size at the origin.
func GetElementRects(ref Reference, floating platform.Element, strategy Strategy) geom.ElementRects {
	dims := GetDimensions(floating)
	return geom.ElementRects{
		Reference: RectRelativeToOffsetParent(ref, GetOffsetParent(floating), strategy),
		Floating:  geom.Rect{Width: dims.Width, Height: dims.Height},
	}
}

// IsRTL reports whether el lays out right to left.
func IsRTL(el platform.Element) bool {
	return el != nil && el.ComputedStyle().Direction() == "rtl"
}

// Position is the result of ComputePosition. X and Y are the values to
// assign to the floating element's left and top.
type Position struct {
	X         float64
	Y         float64
	Placement placement.Placement
	Strategy  Strategy
	Rects     geom.ElementRects
}

// Coords returns the position as a point.
func (p Position) Coords() geom.Coords {
	return geom.Coords{X: p.X, Y: p.Y}
}

type positionConfig struct {
	placement placement.Placement
	strategy  Strategy
}

// PositionOption configures ComputePosition.
type PositionOption func(*positionConfig)

// WithPlacement sets the placement. The default is bottom.
func WithPlacement(p placement.Placement) PositionOption {
	return func(c *positionConfig) { c.placement = p }
}

// WithStrategy sets the positioning strategy. The default is absolute.
func WithStrategy(s Strategy) PositionOption {
	return func(c *positionConfig) { c.strategy = s }
}

// ComputePosition measures both elements and places the floating element
// against the reference. It applies no collision handling.
func ComputePosition(ref Reference, floating platform.Element, opts ...PositionOption) Position {
	cfg := positionConfig{placement: placement.BottomCenter, strategy: Absolute}
	for _, opt := range opts {
		opt(&cfg)
	}
	rects := GetElementRects(ref, floating, cfg.strategy)
	coords := placement.ComputeCoords(rects, cfg.placement, IsRTL(floating))
	return Position{
		X:         coords.X,
		Y:         coords.Y,
		Placement: cfg.placement,
		Strategy:  cfg.strategy,
		Rects:     rects,
	}
}
