package dom

import (
	"math"
	"strconv"

	"tether/pkg/css"
	"tether/pkg/geom"
	"tether/pkg/platform"
)

// layoutBox is the untransformed border box of an element in document
// coordinates with every scroll offset at zero. Viewport-fixed elements use
// viewport coordinates.
type layoutBox struct {
	rect geom.Rect
	set  bool
}

// SetLayoutRect places the border box of e.
func (e *Element) SetLayoutRect(r geom.Rect) {
	e.box = layoutBox{rect: r, set: true}
}

// LayoutRect returns the border box set by SetLayoutRect or SetInsets. An
// element that was never laid out takes its size from its width and height
// styles at the document origin.
func (e *Element) LayoutRect() geom.Rect {
	if e.box.set {
		return e.box.rect
	}
	size := e.styledSize()
	return geom.Rect{Width: size.Width, Height: size.Height}
}

// SetSize changes the border-box size, keeping the origin.
func (e *Element) SetSize(width, height float64) {
	r := e.LayoutRect()
	r.Width, r.Height = width, height
	e.SetLayoutRect(r)
}

// styledSize is the border-box size implied by width, height, padding and
// border styles.
func (e *Element) styledSize() geom.Dimensions {
	w, h := e.style.Float("width"), e.style.Float("height")
	if math.IsNaN(w) {
		w = 0
	}
	if math.IsNaN(h) {
		h = 0
	}
	if e.style.GetOr("box-sizing", "content-box") != "border-box" {
		p, b := e.style.GetPadding(), e.style.GetBorderWidth()
		w += p.Left + p.Right + b.Left + b.Right
		h += p.Top + p.Bottom + b.Top + b.Bottom
	}
	return geom.Dimensions{Width: w, Height: h}
}

// contentBox is the layout rect minus padding and border.
func (e *Element) contentBox() geom.Rect {
	if !e.IsConnected() || !e.rendered() {
		return geom.Rect{}
	}
	r := e.LayoutRect()
	p, b := e.style.GetPadding(), e.style.GetBorderWidth()
	return geom.Rect{
		X:      r.X + p.Left + b.Left,
		Y:      r.Y + p.Top + b.Top,
		Width:  math.Max(0, r.Width-p.Left-p.Right-b.Left-b.Right),
		Height: math.Max(0, r.Height-p.Top-p.Bottom-b.Top-b.Bottom),
	}
}

var defaultDisplay = map[string]css.DisplayType{
	"a": css.DisplayInline, "b": css.DisplayInline, "button": css.DisplayInlineBlock,
	"code": css.DisplayInline, "em": css.DisplayInline, "i": css.DisplayInline,
	"img": css.DisplayInline, "input": css.DisplayInlineBlock, "label": css.DisplayInline,
	"select": css.DisplayInlineBlock, "span": css.DisplayInline, "strong": css.DisplayInline,
	"table": css.DisplayTable, "td": css.DisplayTableCell, "th": css.DisplayTableCell,
	"tr": "table-row", "tbody": "table-row-group", "thead": "table-header-group",
	"slot": css.DisplayContents, "head": css.DisplayNone, "script": css.DisplayNone,
	"style": css.DisplayNone, "template": css.DisplayNone,
}

// ComputedStyle resolves the inline style against tag defaults and layout:
// display defaults by tag, direction inherits, and width and height report
// the used size in pixels (auto for inline and unrendered boxes).
func (e *Element) ComputedStyle() *css.Style {
	s := e.style.Clone()
	if _, ok := s.Get("display"); !ok {
		display := css.DisplayBlock
		if d, ok := defaultDisplay[e.tag]; ok {
			display = d
		}
		s.Set("display", string(display))
	}
	if _, ok := s.Get("position"); !ok {
		s.Set("position", string(css.PositionStatic))
	}
	s.Set("direction", e.direction())

	switch {
	case !e.rendered() || s.GetDisplay() == css.DisplayInline:
		s.Set("width", "auto")
		s.Set("height", "auto")
	default:
		r := e.LayoutRect()
		if s.GetOr("box-sizing", "content-box") != "border-box" {
			r = e.contentBox()
		}
		s.Set("width", px(r.Width))
		s.Set("height", px(r.Height))
	}
	return s
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

func (e *Element) direction() string {
	for a := e; a != nil; a = a.layoutParent() {
		if d, ok := a.style.Get("direction"); ok {
			if d == "rtl" {
				return "rtl"
			}
			return "ltr"
		}
	}
	return "ltr"
}

func (e *Element) position() css.PositionType {
	return e.style.GetPosition()
}

// rendered is false when e or a flat-tree ancestor is display: none.
func (e *Element) rendered() bool {
	for a := e; a != nil; a = a.layoutParent() {
		display, ok := a.style.Get("display")
		if !ok {
			display = string(defaultDisplay[a.tag])
		}
		if display == string(css.DisplayNone) {
			return false
		}
	}
	return true
}

func (e *Element) window() *Window {
	if e.doc == nil {
		return nil
	}
	return e.doc.win
}

func (e *Element) firefox() bool {
	if w := e.window(); w != nil {
		return w.profile.Firefox
	}
	return false
}

// containingBlock returns the element whose padding box positions e, or nil
// for the initial containing block (absolute) or the viewport (fixed).
func (e *Element) containingBlock() *Element {
	switch e.position() {
	case css.PositionFixed:
		for a := e.layoutParent(); a != nil; a = a.layoutParent() {
			if a.style.EstablishesContainingBlock(a.firefox()) {
				return a
			}
		}
		return nil
	case css.PositionAbsolute:
		for a := e.layoutParent(); a != nil; a = a.layoutParent() {
			if a.position() != css.PositionStatic || a.style.EstablishesContainingBlock(a.firefox()) {
				return a
			}
		}
		return nil
	}
	return e.layoutParent()
}

// viewportFixed is true for fixed elements positioned against the viewport.
func (e *Element) viewportFixed() bool {
	return e.position() == css.PositionFixed && e.containingBlock() == nil
}

// SetInsets positions e so that its margin box sits left and top pixels
// from the padding box of its containing block, and records the insets in
// the inline style.
func (e *Element) SetInsets(left, top float64) {
	var originX, originY float64
	if cb := e.containingBlock(); cb != nil {
		r := cb.LayoutRect()
		b := cb.style.GetBorderWidth()
		originX, originY = r.X+b.Left, r.Y+b.Top
	}
	m := e.style.GetMargin()
	r := e.LayoutRect()
	r.X = originX + left + m.Left
	r.Y = originY + top + m.Top
	e.SetLayoutRect(r)
	e.style.Set("left", px(left))
	e.style.Set("top", px(top))
}

func (e *Element) applyTransform(r geom.Rect) geom.Rect {
	raw, ok := e.style.Get("transform")
	if !ok {
		return r
	}
	t := css.ParseTransform(raw)
	if t.IsIdentity() {
		return r
	}
	own := e.LayoutRect()
	cx, cy := own.X+own.Width/2, own.Y+own.Height/2
	return geom.Rect{
		X:      cx + (r.X-cx)*t.ScaleX + t.TranslateX,
		Y:      cy + (r.Y-cy)*t.ScaleY + t.TranslateY,
		Width:  r.Width * t.ScaleX,
		Height: r.Height * t.ScaleY,
	}
}

// BoundingClientRect maps the layout rect into the viewport: transforms of
// e and its ancestors apply about their border-box centers, ancestor scroll
// offsets shift descendants, and the page scroll applies unless e is fixed
// to the viewport. Detached and unrendered elements measure as zero.
func (e *Element) BoundingClientRect() geom.Rect {
	if !e.IsConnected() || !e.rendered() {
		return geom.Rect{}
	}
	r := e.LayoutRect()
	fixed := false
	for a := e; a != nil; a = a.layoutParent() {
		if a != e && a.tag != "html" {
			r = r.Translate(-a.ScrollLeft(), -a.ScrollTop())
		}
		r = a.applyTransform(r)
		if a.viewportFixed() {
			fixed = true
			break
		}
	}
	if w := e.window(); w != nil && !fixed {
		r = r.Translate(-w.scrollX, -w.scrollY)
	}
	return r
}

func (e *Element) OffsetWidth() float64 {
	if !e.IsConnected() || !e.rendered() {
		return 0
	}
	return geom.Round(e.LayoutRect().Width)
}

func (e *Element) OffsetHeight() float64 {
	if !e.IsConnected() || !e.rendered() {
		return 0
	}
	return geom.Round(e.LayoutRect().Height)
}

func (e *Element) ClientLeft() float64 { return e.style.GetBorderWidth().Left }
func (e *Element) ClientTop() float64  { return e.style.GetBorderWidth().Top }

// ScrollLeft mirrors the page scroll for html and is zero for elements
// that do not scroll.
func (e *Element) ScrollLeft() float64 {
	if e.tag == "html" {
		if w := e.window(); w != nil {
			return w.scrollX
		}
		return 0
	}
	if !e.style.IsScrollContainer() {
		return 0
	}
	return e.scrollX
}

func (e *Element) ScrollTop() float64 {
	if e.tag == "html" {
		if w := e.window(); w != nil {
			return w.scrollY
		}
		return 0
	}
	if !e.style.IsScrollContainer() {
		return 0
	}
	return e.scrollY
}

// ScrollTo scrolls e and dispatches scroll on it. Scrolling html scrolls
// the window.
func (e *Element) ScrollTo(x, y float64) {
	if e.tag == "html" {
		if w := e.window(); w != nil {
			w.ScrollTo(x, y)
		}
		return
	}
	e.scrollX, e.scrollY = x, y
	e.DispatchEvent("scroll")
}

// OffsetParent follows the CSSOM shortcut: nil for detached, unrendered,
// fixed, html and body elements; else the nearest flat-tree ancestor that
// is positioned or is a table, td or th, stopping at body.
func (e *Element) OffsetParent() platform.Element {
	if p := e.offsetParent(); p != nil {
		return p
	}
	return nil
}

func (e *Element) offsetParent() *Element {
	if !e.IsConnected() || !e.rendered() || e.tag == "html" || e.tag == "body" {
		return nil
	}
	if e.position() == css.PositionFixed {
		return nil
	}
	for a := e.layoutParent(); a != nil; a = a.layoutParent() {
		if a.tag == "body" || a.position() != css.PositionStatic {
			return a
		}
		switch a.tag {
		case "table", "td", "th":
			return a
		}
	}
	return nil
}
