package css

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLinearGradient(t *testing.T) {
	tests := []struct {
		value string
		angle float64
		stops int
	}{
		{"linear-gradient(red, blue)", 180, 2},
		{"linear-gradient(to right, red 0, blue 150px, #0f0 100%)", 90, 3},
		{"linear-gradient(To  Top Left, red, blue)", 315, 2},
		{"linear-gradient(45deg, red, blue)", 45, 2},
		{"linear-gradient(0.5turn, red, blue)", 180, 2},
	}
	for _, tt := range tests {
		g, err := ParseLinearGradient(tt.value)
		require.NoError(t, err, tt.value)
		assert.Equal(t, tt.angle, g.Angle, tt.value)
		assert.Len(t, g.Stops, tt.stops, tt.value)
	}
}

func TestParseLinearGradientErrors(t *testing.T) {
	for _, v := range []string{
		"radial-gradient(red, blue)",
		"linear-gradient(red)",
		"linear-gradient(red, blue",
		"linear-gradient(red, notacolor)",
		"linear-gradient(red 1em, blue)",
		"linear-gradient(red 1px 2px, blue)",
	} {
		_, err := ParseLinearGradient(v)
		assert.Error(t, err, v)
	}
}

func TestFindLinearGradient(t *testing.T) {
	g, ok := FindLinearGradient("no-repeat linear-gradient(to bottom, white, black) #fff")
	require.True(t, ok)
	assert.Equal(t, 180.0, g.Angle)
	_, ok = FindLinearGradient("#fff")
	assert.False(t, ok)
}

func TestLinearGradientLine(t *testing.T) {
	g, err := ParseLinearGradient("linear-gradient(to right, red, blue 150px, lime, black)")
	require.NoError(t, err)

	x0, y0, x1, y1, stops := g.Line(300, 100)
	assert.InDelta(t, 0, x0, 1e-9)
	assert.InDelta(t, 50, y0, 1e-9)
	assert.InDelta(t, 300, x1, 1e-9)
	assert.InDelta(t, 50, y1, 1e-9)

	offsets := make([]float64, len(stops))
	for i, s := range stops {
		offsets[i] = s.Offset
		assert.False(t, s.Pixels)
	}
	assert.InDeltaSlice(t, []float64{0, 0.5, 0.75, 1}, offsets, 1e-9)
	assert.Equal(t, -1.0, g.Stops[0].Offset, "Line does not modify the gradient")
}

func TestLinearGradientLineClampsDecreasingOffsets(t *testing.T) {
	g, err := ParseLinearGradient("linear-gradient(red 60%, blue 20%)")
	require.NoError(t, err)
	_, y0, _, y1, stops := g.Line(10, 200)
	assert.InDelta(t, 0, y0, 1e-9)
	assert.InDelta(t, 200, y1, 1e-9)
	assert.InDelta(t, 0.6, stops[1].Offset, 1e-9)
}

func TestColorNRGBA(t *testing.T) {
	c, ok := ParseColor("#336")
	require.True(t, ok)
	n := c.NRGBA()
	assert.Equal(t, [4]uint8{0x33, 0x33, 0x66, 255}, [4]uint8{n.R, n.G, n.B, n.A})
}
