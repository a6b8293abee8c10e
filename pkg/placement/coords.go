package placement

import "tether/pkg/geom"

// ComputeCoords places the floating rect against the reference rect.
// It never fails: an unknown side yields the reference origin.
func ComputeCoords(rects geom.ElementRects, p Placement, rtl bool) geom.Coords {
	ref, fl := rects.Reference, rects.Floating

	centerX := ref.X + ref.Width/2 - fl.Width/2
	centerY := ref.Y + ref.Height/2 - fl.Height/2

	mainAxis := p.MainAxis()
	var commonAlign float64
	if mainAxis == AxisX {
		commonAlign = ref.Width/2 - fl.Width/2
	} else {
		commonAlign = ref.Height/2 - fl.Height/2
	}

	var c geom.Coords
	switch p.Side {
	case Top:
		c = geom.Coords{X: centerX, Y: ref.Y - fl.Height}
	case Bottom:
		c = geom.Coords{X: centerX, Y: ref.Y + ref.Height}
	case Right:
		c = geom.Coords{X: ref.X + ref.Width, Y: centerY}
	case Left:
		c = geom.Coords{X: ref.X - fl.Width, Y: centerY}
	default:
		return geom.Coords{X: ref.X, Y: ref.Y}
	}

	sign := 1.0
	if rtl && mainAxis == AxisX {
		sign = -1
	}

	var delta float64
	switch p.Alignment {
	case Start:
		delta = -commonAlign * sign
	case End:
		delta = commonAlign * sign
	}

	if mainAxis == AxisX {
		c.X += delta
	} else {
		c.Y += delta
	}
	return c
}
