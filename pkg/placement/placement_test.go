package placement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	p, err := Parse("bottom-start")
	require.NoError(t, err)
	assert.Equal(t, BottomStart, p)

	p, err = Parse(" Left ")
	require.NoError(t, err)
	assert.Equal(t, LeftCenter, p)

	for _, bad := range []string{"", "middle", "top-center", "top-start-end", "-start"} {
		_, err := Parse(bad)
		assert.Error(t, err, bad)
	}
}

func TestAllRoundTrips(t *testing.T) {
	all := All()
	require.Len(t, all, 12)
	for _, p := range all {
		got, err := Parse(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
}

func TestAxes(t *testing.T) {
	assert.Equal(t, AxisX, TopEnd.MainAxis())
	assert.Equal(t, AxisX, BottomCenter.MainAxis())
	assert.Equal(t, AxisY, LeftStart.MainAxis())
	assert.Equal(t, AxisX, RightEnd.CrossAxis())
	assert.Equal(t, BottomEnd, TopEnd.Opposite())
}
