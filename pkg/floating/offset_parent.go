package floating

import (
	"tether/pkg/css"
	"tether/pkg/platform"
)

// OffsetParent is either an element or the viewport of a window. The zero
// value is not valid; GetOffsetParent never returns it.
type OffsetParent struct {
	element platform.Element
	window  platform.Window
}

// ElementParent wraps an element offset parent.
func ElementParent(el platform.Element) OffsetParent { return OffsetParent{element: el} }

// ViewportParent wraps the viewport of win.
func ViewportParent(win platform.Window) OffsetParent { return OffsetParent{window: win} }

// IsViewport reports whether positions are relative to the viewport.
func (p OffsetParent) IsViewport() bool { return p.element == nil }

// Element returns the offset parent element, nil for the viewport.
func (p OffsetParent) Element() platform.Element { return p.element }

// Window returns the window the offset parent lives in.
func (p OffsetParent) Window() platform.Window {
	if p.element != nil {
		return platform.WindowOf(p.element)
	}
	return p.window
}

// Scroll returns the scroll offsets of the offset parent: element scroll for
// elements, page offsets for the viewport.
func (p OffsetParent) Scroll() (left, top float64) {
	if p.element != nil {
		return p.element.ScrollLeft(), p.element.ScrollTop()
	}
	if p.window == nil {
		return 0, 0
	}
	return p.window.PageXOffset(), p.window.PageYOffset()
}

func (p OffsetParent) String() string {
	if p.element != nil {
		return p.element.NodeName()
	}
	return "#viewport"
}

// trueOffsetParent is the platform offset parent, except that foreign and
// fixed elements have none.
func trueOffsetParent(el platform.Element) platform.Element {
	if !el.IsHTML() || el.ComputedStyle().GetPosition() == css.PositionFixed {
		return nil
	}
	return el.OffsetParent()
}

// GetOffsetParent returns what the position of el is expressed against. It
// skips static table ancestors, maps html and a static non-containing-block
// body to the viewport, and falls back to the containing block and then the
// viewport when the platform reports nothing.
func GetOffsetParent(el platform.Element) OffsetParent {
	op, _ := offsetParentWalk(el)
	return op
}

func offsetParentWalk(el platform.Element) (OffsetParent, walkState) {
	win := platform.WindowOf(el)
	if el == nil {
		return ViewportParent(win), fallbackViewport
	}

	var current platform.Element
	state := probing
	for {
		switch state {
		case probing:
			current = trueOffsetParent(el)
			state = tableSkip
		case tableSkip:
			if current != nil && IsTableElement(current) &&
				current.ComputedStyle().GetPosition() == css.PositionStatic {
				current = trueOffsetParent(current)
				continue
			}
			state = resolved
		case resolved:
			if current != nil && viewportEquivalent(current) {
				return ViewportParent(win), fallbackViewport
			}
			if current != nil {
				return ElementParent(current), resolved
			}
			if cb := ContainingBlock(el); cb != nil {
				return ElementParent(cb), resolved
			}
			return ViewportParent(win), fallbackViewport
		}
	}
}

// viewportEquivalent is true for html, and for a static body that does not
// establish a containing block: positioning against either is positioning
// against the viewport.
func viewportEquivalent(el platform.Element) bool {
	switch el.NodeName() {
	case "html":
		return true
	case "body":
		return el.ComputedStyle().GetPosition() == css.PositionStatic && !IsContainingBlock(el)
	}
	return false
}
