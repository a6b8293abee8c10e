package floating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tether/pkg/geom"
	"tether/pkg/placement"
)

func TestComputePositionRoundTrip(t *testing.T) {
	for _, scroll := range []float64{0, 30} {
		w := newWindow()
		container := add(w.Doc().BodyElement(), "div", "position: relative; border: 10px solid", rect(100, 100, 400, 400))
		ref := add(container, "div", "", rect(200, 200, 100, 50))
		floating := add(container, "div", "position: absolute", rect(0, 0, 60, 20))
		w.ScrollTo(0, scroll)

		pos := ComputePosition(Concrete(ref), floating)
		assert.Equal(t, placement.BottomCenter, pos.Placement)
		assert.Equal(t, Absolute, pos.Strategy)
		assert.Equal(t, rect(90, 90, 100, 50), pos.Rects.Reference)
		assert.Equal(t, rect(0, 0, 60, 20), pos.Rects.Floating)
		assert.Equal(t, geom.Coords{X: 110, Y: 140}, pos.Coords())

		floating.SetInsets(pos.X, pos.Y)
		refRect := ref.BoundingClientRect()
		got := floating.BoundingClientRect()
		assert.Equal(t, refRect.X+refRect.Width/2-30, got.X)
		assert.Equal(t, refRect.Bottom(), got.Y)
	}
}

func TestComputePositionFixed(t *testing.T) {
	w := newWindow()
	body := w.Doc().BodyElement()
	ref := add(body, "div", "", rect(50, 500, 40, 20))
	floating := add(body, "div", "position: fixed", rect(0, 0, 20, 10))
	w.ScrollTo(0, 400)

	pos := ComputePosition(Concrete(ref), floating,
		WithPlacement(placement.TopCenter), WithStrategy(Fixed))
	assert.Equal(t, geom.Coords{X: 60, Y: 90}, pos.Coords())

	floating.SetInsets(pos.X, pos.Y)
	assert.Equal(t, rect(60, 90, 20, 10), floating.BoundingClientRect())
}

func TestComputePositionRTL(t *testing.T) {
	w := newWindow()
	body := w.Doc().BodyElement()
	ref := add(body, "div", "", rect(0, 0, 200, 100))
	ltr := add(body, "div", "position: absolute", rect(0, 0, 100, 50))
	rtl := add(body, "div", "position: absolute; direction: rtl", rect(0, 0, 100, 50))

	assert.False(t, IsRTL(ltr))
	assert.True(t, IsRTL(rtl))
	assert.False(t, IsRTL(nil))

	assert.Equal(t, geom.Coords{X: 0, Y: -50}, ComputePosition(Concrete(ref), ltr, WithPlacement(placement.TopStart)).Coords())
	assert.Equal(t, geom.Coords{X: 100, Y: -50}, ComputePosition(Concrete(ref), rtl, WithPlacement(placement.TopStart)).Coords())
	assert.Equal(t, geom.Coords{X: 200, Y: 0}, ComputePosition(Concrete(ref), rtl, WithPlacement(placement.RightStart)).Coords())
}

func TestComputePositionVirtual(t *testing.T) {
	w := newWindow()
	floating := add(w.Doc().BodyElement(), "div", "position: absolute", rect(0, 0, 10, 10))
	w.ScrollTo(0, 100)
	cursor := Virtual(RectFunc(func() geom.Rect { return rect(30, 40, 0, 0) }), nil)

	pos := ComputePosition(cursor, floating, WithPlacement(placement.RightStart))
	require.Equal(t, rect(30, 140, 0, 0), pos.Rects.Reference)
	assert.Equal(t, geom.Coords{X: 30, Y: 140}, pos.Coords())
}

func TestGetElementRectsIdempotent(t *testing.T) {
	w := newWindow()
	scaled := add(w.Doc().BodyElement(), "div", "position: relative; transform: scale(0.8)", rect(13, 17, 333, 211))
	ref := add(scaled, "div", "", rect(40, 50, 70, 30))
	floating := add(scaled, "div", "position: absolute", rect(0, 0, 33, 21))

	first := GetElementRects(Concrete(ref), floating, Absolute)
	second := GetElementRects(Concrete(ref), floating, Absolute)
	assert.Equal(t, first, second)
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, Absolute, s)
	s, err = ParseStrategy("fixed")
	require.NoError(t, err)
	assert.Equal(t, Fixed, s)
	_, err = ParseStrategy("sticky")
	assert.Error(t, err)
}
