package scene

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tether/pkg/floating"
	"tether/pkg/geom"
	"tether/pkg/placement"
)

func TestLoadTooltip(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "tooltip.toml"))
	require.NoError(t, err)
	assert.Equal(t, "Tooltip in a bordered card", s.Title)
	assert.Equal(t, 800.0, s.Viewport.Width)
	require.Len(t, s.Elements, 3)
	assert.Equal(t, "div", s.Elements[0].Tag, "tag defaults to div")

	st, err := s.Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"card", "anchor", "tooltip"}, st.IDs())

	pos, err := st.Compute()
	require.NoError(t, err)
	assert.Equal(t, placement.BottomCenter, pos.Placement)
	assert.Equal(t, geom.Coords{X: 110, Y: 140}, pos.Coords())

	require.NoError(t, st.Apply(pos))
	tooltip, err := st.Element("tooltip")
	require.NoError(t, err)
	anchor, _ := st.Element("anchor")
	assert.Equal(t, anchor.BoundingClientRect().Bottom(), tooltip.BoundingClientRect().Y)
}

func TestBuildFramesAndShadow(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "frames.toml"))
	require.NoError(t, err)
	st, err := s.Build()
	require.NoError(t, err)

	inner, err := st.Element("inner")
	require.NoError(t, err)
	frame, _ := st.Element("frame")
	slot, _ := st.Element("slot")
	assert.Same(t, frame.ContentWindow().Doc(), inner.Document())
	assert.Same(t, slot, inner.AssignedSlot())

	// scrolled by the shadow scroller
	assert.Equal(t, geom.NewRect(10, 20, 30, 30), inner.BoundingClientRect())

	req, err := st.Request()
	require.NoError(t, err)
	assert.Equal(t, floating.Fixed, req.Strategy)
	assert.Equal(t, placement.RightStart, req.Placement)

	pos, err := st.Compute()
	require.NoError(t, err)
	// frame content origin (55, 65) plus the inner client rect
	assert.Equal(t, geom.NewRect(65, 85, 30, 30), pos.Rects.Reference)
	assert.Equal(t, geom.Coords{X: 95, Y: 85}, pos.Coords())
}

func TestVirtualReference(t *testing.T) {
	s, err := Parse([]byte(`
[position]
floating = "tip"
virtual_rect = [40, 50, 0, 0]
placement = "top"

[[element]]
id = "tip"
rect = [0, 0, 20, 10]
style = "position: absolute"
`))
	require.NoError(t, err)
	st, err := s.Build()
	require.NoError(t, err)
	req, err := st.Request()
	require.NoError(t, err)
	assert.Equal(t, floating.VirtualRef, req.Reference.Kind())
	assert.Nil(t, req.Reference.Context())

	pos, err := st.Compute()
	require.NoError(t, err)
	assert.Equal(t, geom.Coords{X: 30, Y: 40}, pos.Coords())
}

func TestValidate(t *testing.T) {
	tests := map[string]string{
		"missing id":       `[[element]]` + "\n" + `tag = "div"`,
		"duplicate id":     "[[element]]\nid = \"a\"\n[[element]]\nid = \"a\"",
		"unknown parent":   "[[element]]\nid = \"a\"\nparent = \"b\"",
		"bad rect":         "[[element]]\nid = \"a\"\nrect = [1, 2]",
		"shadow at root":   "[[element]]\nid = \"a\"\nshadow = true",
		"unknown floating": "[position]\nfloating = \"nope\"\nreference = \"nope\"",
		"no reference":     "[position]\nfloating = \"a\"\n[[element]]\nid = \"a\"",
		"bad toml":         "[[element]\nid = ",
	}
	for name, doc := range tests {
		_, err := Parse([]byte(doc))
		assert.Error(t, err, name)
	}

	_, err := Parse([]byte("[[element]]\nid = \"a\"\nparent = \"b\""))
	assert.True(t, errors.Is(err, ErrUnknownElement))
}

func TestNoPosition(t *testing.T) {
	s, err := Parse([]byte("[[element]]\nid = \"a\""))
	require.NoError(t, err)
	st, err := s.Build()
	require.NoError(t, err)
	_, err = st.Compute()
	assert.ErrorIs(t, err, ErrNoPosition)
	_, err = st.Element("b")
	assert.ErrorIs(t, err, ErrUnknownElement)
}

func TestEncodeRoundTrip(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "frames.toml"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.Encode(&buf))
	again, err := Parse(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, s, again)

	path := filepath.Join(t.TempDir(), "out.toml")
	require.NoError(t, s.Save(path))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s.Elements, loaded.Elements)
}
