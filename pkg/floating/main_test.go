package floating

import (
	"testing"

	"go.uber.org/goleak"

	"tether/pkg/dom"
	"tether/pkg/geom"
	"tether/pkg/quirks"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newWindow(opts ...dom.WindowOption) *dom.Window {
	opts = append([]dom.WindowOption{dom.WithViewport(800, 600), dom.WithQuirks(quirks.Headless)}, opts...)
	return dom.NewWindow(opts...)
}

func add(parent *dom.Element, tag, style string, r geom.Rect) *dom.Element {
	el := parent.Document().CreateElement(tag)
	el.SetStyle(style)
	el.SetLayoutRect(r)
	parent.AppendChild(el)
	return el
}

func rect(x, y, w, h float64) geom.Rect { return geom.NewRect(x, y, w, h) }
