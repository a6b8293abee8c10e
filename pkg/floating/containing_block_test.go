package floating

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tether/pkg/dom"
	"tether/pkg/quirks"
)

func TestIsContainingBlock(t *testing.T) {
	tests := []struct {
		style   string
		firefox bool
		want    bool
	}{
		{"", false, false},
		{"transform: none; perspective: none", false, false},
		{"transform: translateX(1px)", false, true},
		{"perspective: 100px", false, true},
		{"backdrop-filter: blur(2px)", false, true},
		{"-webkit-backdrop-filter: blur(2px)", false, true},
		{"will-change: opacity, transform", false, true},
		{"will-change: perspective", false, true},
		{"will-change: opacity", false, false},
		{"contain: paint", false, true},
		{"contain: layout", false, true},
		{"contain: strict", false, true},
		{"contain: content", false, true},
		{"contain: size", false, false},
		{"filter: blur(1px)", false, false},
		{"filter: blur(1px)", true, true},
		{"will-change: filter", false, false},
		{"will-change: filter", true, true},
	}
	for _, tt := range tests {
		profile := quirks.Headless
		if tt.firefox {
			profile = quirks.Detect("Mozilla/5.0 Firefox/128.0")
		}
		w := newWindow(dom.WithQuirks(profile))
		el := add(w.Doc().BodyElement(), "div", tt.style, rect(0, 0, 10, 10))
		assert.Equal(t, tt.want, IsContainingBlock(el), "style %q firefox=%v", tt.style, tt.firefox)
	}
}

func TestContainingBlockWalk(t *testing.T) {
	w := newWindow()
	body := w.Doc().BodyElement()
	outer := add(body, "div", "transform: scale(1.5)", rect(0, 0, 100, 100))
	inner := add(outer, "div", "contain: paint", rect(0, 0, 50, 50))
	leaf := add(inner, "div", "", rect(0, 0, 10, 10))

	cb, state := containingBlockWalk(leaf)
	assert.Equal(t, resolved, state)
	assert.Same(t, inner, cb)
	assert.Same(t, outer, ContainingBlock(inner))
	assert.Nil(t, ContainingBlock(outer))
}

func TestContainingBlockStopsAtBody(t *testing.T) {
	w := newWindow()
	body := w.Doc().BodyElement()
	body.SetStyle("transform: scale(2)")
	w.Doc().HTML().SetStyle("transform: scale(2)")
	leaf := add(body, "div", "", rect(0, 0, 10, 10))

	cb, state := containingBlockWalk(leaf)
	assert.Nil(t, cb)
	assert.Equal(t, exhausted, state)
	assert.Equal(t, "exhausted", state.String())
}

func TestContainingBlockCrossesShadowRoot(t *testing.T) {
	w := newWindow()
	host := add(w.Doc().BodyElement(), "div", "will-change: transform", rect(0, 0, 100, 100))
	inner := w.Doc().CreateElement("div")
	host.AttachShadow().AppendChild(inner)

	assert.Same(t, host, ContainingBlock(inner))
}

func TestContainingBlockForeignAncestor(t *testing.T) {
	w := newWindow()
	svg := w.Doc().CreateElementNS("svg")
	svg.SetStyle("transform: scale(2)")
	w.Doc().BodyElement().AppendChild(svg)
	g := w.Doc().CreateElementNS("g")
	svg.AppendChild(g)

	assert.Nil(t, ContainingBlock(g))
}
