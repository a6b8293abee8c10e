package placement

import (
	"fmt"
	"strings"
)

// Side is the edge of the reference the floating node sits against.
type Side string

const (
	Top    Side = "top"
	Right  Side = "right"
	Bottom Side = "bottom"
	Left   Side = "left"
)

// Alignment positions the floating node along the side.
// The zero value centers it.
type Alignment string

const (
	Center Alignment = ""
	Start  Alignment = "start"
	End    Alignment = "end"
)

// Axis is a coordinate axis.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
)

// Placement is a side plus an optional alignment.
type Placement struct {
	Side      Side
	Alignment Alignment
}

// Common placements.
var (
	TopStart     = Placement{Top, Start}
	TopCenter    = Placement{Top, Center}
	TopEnd       = Placement{Top, End}
	RightStart   = Placement{Right, Start}
	RightCenter  = Placement{Right, Center}
	RightEnd     = Placement{Right, End}
	BottomStart  = Placement{Bottom, Start}
	BottomCenter = Placement{Bottom, Center}
	BottomEnd    = Placement{Bottom, End}
	LeftStart    = Placement{Left, Start}
	LeftCenter   = Placement{Left, Center}
	LeftEnd      = Placement{Left, End}
)

// All returns the twelve valid placements.
func All() []Placement {
	sides := []Side{Top, Right, Bottom, Left}
	aligns := []Alignment{Center, Start, End}
	out := make([]Placement, 0, len(sides)*len(aligns))
	for _, s := range sides {
		for _, a := range aligns {
			out = append(out, Placement{Side: s, Alignment: a})
		}
	}
	return out
}

// Parse reads "side" or "side-alignment".
func Parse(s string) (Placement, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	side, align, _ := strings.Cut(s, "-")
	p := Placement{Side: Side(side), Alignment: Alignment(align)}
	if !p.Valid() {
		return Placement{}, fmt.Errorf("invalid placement %q", s)
	}
	return p, nil
}

// MustParse is Parse for constants; it panics on bad input.
func MustParse(s string) Placement {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Valid reports whether p is one of the twelve placements.
func (p Placement) Valid() bool {
	switch p.Side {
	case Top, Right, Bottom, Left:
	default:
		return false
	}
	switch p.Alignment {
	case Center, Start, End:
		return true
	}
	return false
}

func (p Placement) String() string {
	if p.Alignment == Center {
		return string(p.Side)
	}
	return string(p.Side) + "-" + string(p.Alignment)
}

// MainAxis is the axis alignment moves along: x for top/bottom, y otherwise.
func (p Placement) MainAxis() Axis {
	if p.Side == Top || p.Side == Bottom {
		return AxisX
	}
	return AxisY
}

// CrossAxis is the axis the side is flush against.
func (p Placement) CrossAxis() Axis {
	if p.MainAxis() == AxisX {
		return AxisY
	}
	return AxisX
}

// Opposite returns the placement mirrored across the reference.
func (p Placement) Opposite() Placement {
	switch p.Side {
	case Top:
		p.Side = Bottom
	case Bottom:
		p.Side = Top
	case Left:
		p.Side = Right
	case Right:
		p.Side = Left
	}
	return p
}
