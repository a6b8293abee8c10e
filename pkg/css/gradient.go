package css

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ColorStop is a gradient colour with an optional position. Pixel
// positions are resolved against the gradient line when the gradient is
// laid out.
type ColorStop struct {
	Color Color
	// Offset is a fraction of the gradient line, or pixels when Pixels is
	// set. Negative means unspecified.
	Offset float64
	Pixels bool
}

// LinearGradient is a parsed linear-gradient() value.
type LinearGradient struct {
	// Angle in degrees, clockwise from "to top".
	Angle float64
	Stops []ColorStop
}

var sideAngles = map[string]float64{
	"to top":          0,
	"to right":        90,
	"to bottom":       180,
	"to left":         270,
	"to top right":    45,
	"to right top":    45,
	"to bottom right": 135,
	"to right bottom": 135,
	"to bottom left":  225,
	"to left bottom":  225,
	"to top left":     315,
	"to left top":     315,
}

// FindLinearGradient extracts the linear-gradient() from a background or
// background-image value.
func FindLinearGradient(value string) (*LinearGradient, bool) {
	start := strings.Index(value, "linear-gradient(")
	if start < 0 {
		return nil, false
	}
	g, err := ParseLinearGradient(value[start:])
	if err != nil {
		return nil, false
	}
	return g, true
}

// ParseLinearGradient parses "linear-gradient(<direction>?, <stop>, <stop>...)".
// Trailing text after the closing parenthesis is ignored.
func ParseLinearGradient(value string) (*LinearGradient, error) {
	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, "linear-gradient(") {
		return nil, fmt.Errorf("not a linear gradient: %q", value)
	}
	body, ok := parenthesized(value[len("linear-gradient"):])
	if !ok {
		return nil, fmt.Errorf("unterminated linear-gradient: %q", value)
	}
	parts := splitTopLevel(body)
	g := &LinearGradient{Angle: 180}
	if len(parts) > 0 {
		first := strings.ToLower(strings.Join(strings.Fields(parts[0]), " "))
		if a, ok := sideAngles[first]; ok {
			g.Angle = a
			parts = parts[1:]
		} else if a, ok := parseAngle(first); ok {
			g.Angle = a
			parts = parts[1:]
		}
	}
	for _, part := range parts {
		stop, err := parseColorStop(part)
		if err != nil {
			return nil, err
		}
		g.Stops = append(g.Stops, stop)
	}
	if len(g.Stops) < 2 {
		return nil, fmt.Errorf("linear-gradient needs at least two colour stops: %q", value)
	}
	return g, nil
}

// parenthesized returns the content of the parenthesis group s starts with.
func parenthesized(s string) (string, bool) {
	depth := 0
	for i, ch := range s {
		switch ch {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[1:i], true
			}
		}
	}
	return "", false
}

// splitTopLevel splits on commas outside nested parentheses.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i, ch := range s {
		switch ch {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	return append(parts, strings.TrimSpace(s[start:]))
}

func parseAngle(s string) (float64, bool) {
	units := []struct {
		suffix string
		scale  float64
	}{{"deg", 1}, {"grad", 0.9}, {"rad", 180 / math.Pi}, {"turn", 360}}
	for _, u := range units {
		if num, ok := strings.CutSuffix(s, u.suffix); ok {
			v, err := strconv.ParseFloat(num, 64)
			if err != nil {
				return 0, false
			}
			return v * u.scale, true
		}
	}
	return 0, false
}

func parseColorStop(s string) (ColorStop, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 2 {
		return ColorStop{}, fmt.Errorf("invalid colour stop %q", s)
	}
	c, ok := ParseColor(fields[0])
	if !ok {
		return ColorStop{}, fmt.Errorf("invalid colour %q", fields[0])
	}
	stop := ColorStop{Color: c, Offset: -1}
	if len(fields) == 1 {
		return stop, nil
	}
	pos := fields[1]
	switch {
	case strings.HasSuffix(pos, "%"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(pos, "%"), 64)
		if err != nil {
			return ColorStop{}, fmt.Errorf("invalid stop position %q", pos)
		}
		stop.Offset = v / 100
	case pos == "0":
		stop.Offset = 0
	default:
		v, ok := ParseLength(pos)
		if !ok {
			return ColorStop{}, fmt.Errorf("invalid stop position %q", pos)
		}
		stop.Offset, stop.Pixels = v, true
	}
	return stop, nil
}

// Line returns the gradient line for a width x height box, relative to its
// top-left corner, and the stops with offsets resolved to fractions of it.
// Unspecified offsets are spread evenly between their neighbours and
// offsets never decrease.
func (g *LinearGradient) Line(width, height float64) (x0, y0, x1, y1 float64, stops []ColorStop) {
	rad := g.Angle * math.Pi / 180
	dx, dy := math.Sin(rad), -math.Cos(rad)
	length := math.Abs(width*dx) + math.Abs(height*dy)
	cx, cy := width/2, height/2
	x0, y0 = cx-dx*length/2, cy-dy*length/2
	x1, y1 = cx+dx*length/2, cy+dy*length/2

	stops = make([]ColorStop, len(g.Stops))
	copy(stops, g.Stops)
	for i := range stops {
		if stops[i].Pixels {
			if length > 0 {
				stops[i].Offset /= length
			} else {
				stops[i].Offset = 0
			}
			stops[i].Pixels = false
		}
	}
	if stops[0].Offset < 0 {
		stops[0].Offset = 0
	}
	if last := len(stops) - 1; stops[last].Offset < 0 {
		stops[last].Offset = 1
	}
	for i := 1; i < len(stops); i++ {
		if stops[i].Offset >= 0 {
			stops[i].Offset = math.Max(stops[i].Offset, stops[i-1].Offset)
			continue
		}
		next := i + 1
		for stops[next].Offset < 0 {
			next++
		}
		step := (stops[next].Offset - stops[i-1].Offset) / float64(next-i+1)
		stops[i].Offset = stops[i-1].Offset + step
	}
	return x0, y0, x1, y1, stops
}
