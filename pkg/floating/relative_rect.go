package floating

import (
	"tether/pkg/geom"
	"tether/pkg/platform"
)

// RectRelativeToOffsetParent expresses the rect of ref relative to the
// padding box of offsetParent, adding back the offset parent's scroll.
func RectRelativeToOffsetParent(ref Reference, offsetParent OffsetParent, strategy Strategy) geom.Rect {
	rect := BoundingClientRect(ref, RectOptions{
		IncludeScale: true,
		Fixed:        strategy == Fixed,
		OffsetParent: &offsetParent,
	})

	var scrollLeft, scrollTop, offsetX, offsetY float64
	if !offsetParent.IsViewport() || strategy != Fixed {
		if readsScroll(offsetParent) {
			scrollLeft, scrollTop = offsetParent.Scroll()
		}
		if el := offsetParent.Element(); el != nil {
			origin := BoundingClientRect(Concrete(el), RectOptions{IncludeScale: true})
			offsetX = origin.X + el.ClientLeft()
			offsetY = origin.Y + el.ClientTop()
		} else if de := documentElementOfWindow(offsetParent.Window()); de != nil {
			offsetX = windowScrollBarX(de)
		}
	}

	return geom.Rect{
		X:      rect.Left() + scrollLeft - offsetX,
		Y:      rect.Top() + scrollTop - offsetY,
		Width:  rect.Width,
		Height: rect.Height,
	}
}

// readsScroll is false only for a body offset parent whose document element
// does not itself scroll: the body's scroll then mirrors the page.
func readsScroll(p OffsetParent) bool {
	el := p.Element()
	if el == nil || el.NodeName() != "body" {
		return true
	}
	return IsOverflowElement(platform.DocumentElementOf(el))
}

func documentElementOfWindow(win platform.Window) platform.Element {
	if win == nil {
		return nil
	}
	doc := win.Document()
	if doc == nil {
		return nil
	}
	return doc.DocumentElement()
}

// windowScrollBarX is the horizontal inset a left-side scrollbar (RTL
// documents) adds before the document element's box.
func windowScrollBarX(de platform.Element) float64 {
	return BoundingClientRect(Concrete(de), RectOptions{}).Left() + de.ScrollLeft()
}
