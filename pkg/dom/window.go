package dom

import (
	"sort"

	"tether/pkg/geom"
	"tether/pkg/platform"
	"tether/pkg/quirks"
)

// Document is the root node of a Window.
type Document struct {
	kids []*Element
	win  *Window

	root *Element
	head *Element
	body *Element
}

func (d *Document) Kind() platform.NodeKind          { return platform.DocumentNode }
func (d *Document) NodeName() string                 { return "#document" }
func (d *Document) ParentNode() platform.Node        { return nil }
func (d *Document) OwnerDocument() platform.Document { return nil }

func (d *Document) childList() *[]*Element { return &d.kids }
func (d *Document) ownerDoc() *Document    { return d }

func (d *Document) DocumentElement() platform.Element {
	if d.root == nil {
		return nil
	}
	return d.root
}

func (d *Document) Body() platform.Element {
	if d.body == nil {
		return nil
	}
	return d.body
}

func (d *Document) DefaultView() platform.Window {
	if d.win == nil {
		return nil
	}
	return d.win
}

// HTML returns the html element.
func (d *Document) HTML() *Element { return d.root }

// Head returns the head element.
func (d *Document) Head() *Element { return d.head }

// BodyElement returns the body element.
func (d *Document) BodyElement() *Element { return d.body }

// Window returns the owning window.
func (d *Document) Window() *Window { return d.win }

// CreateElement creates a detached HTML element owned by d.
func (d *Document) CreateElement(tag string) *Element {
	return newElement(d, tag, true)
}

// CreateElementNS creates a detached foreign element, such as an SVG
// element, which geometry treats as non-HTML.
func (d *Document) CreateElementNS(tag string) *Element {
	return newElement(d, tag, false)
}

// GetElementByID searches the light tree.
func (d *Document) GetElementByID(id string) *Element {
	return findByID(d.kids, id, false)
}

// FindByID searches the document and every shadow tree in it.
func (d *Document) FindByID(id string) *Element {
	return findByID(d.kids, id, true)
}

// VisualViewport is the visual viewport of a window.
type VisualViewport struct {
	eventTarget
	offsetLeft, offsetTop float64
	width, height         float64
}

func (v *VisualViewport) OffsetLeft() float64 { return v.offsetLeft }
func (v *VisualViewport) OffsetTop() float64  { return v.offsetTop }
func (v *VisualViewport) Width() float64      { return v.width }
func (v *VisualViewport) Height() float64     { return v.height }

// Window is a browsing context holding one Document.
type Window struct {
	eventTarget

	doc           *Document
	frame         *Element
	parent        *Window
	frames        []*Window
	width, height float64
	scrollX       float64
	scrollY       float64
	visual        *VisualViewport
	profile       quirks.Profile

	nextFrameID int
	frameQueue  map[int]platform.FrameCallback
	observers   []*ResizeObserver
}

// WindowOption configures NewWindow.
type WindowOption func(*Window)

// WithViewport sets the viewport size. The default is 1024x768.
func WithViewport(width, height float64) WindowOption {
	return func(w *Window) {
		w.width, w.height = width, height
	}
}

// WithQuirks sets the quirks profile. The default is quirks.Process().
func WithQuirks(p quirks.Profile) WindowOption {
	return func(w *Window) { w.profile = p }
}

// WithoutVisualViewport makes VisualViewport report nil.
func WithoutVisualViewport() WindowOption {
	return func(w *Window) { w.visual = nil }
}

// NewWindow creates a top-level window whose document has html, head and
// body elements. html and body are laid out to fill the viewport.
func NewWindow(opts ...WindowOption) *Window {
	w := &Window{
		width:      1024,
		height:     768,
		visual:     &VisualViewport{},
		profile:    quirks.Process(),
		frameQueue: make(map[int]platform.FrameCallback),
	}
	w.eventTarget.init(w)
	for _, opt := range opts {
		opt(w)
	}
	if w.visual != nil {
		w.visual.eventTarget.init(w.visual)
		w.visual.width, w.visual.height = w.width, w.height
	}

	doc := &Document{win: w}
	w.doc = doc
	doc.root = doc.CreateElement("html")
	doc.head = doc.CreateElement("head")
	doc.body = doc.CreateElement("body")
	insertBefore(doc, doc.root, nil)
	doc.root.AppendChild(doc.head)
	doc.root.AppendChild(doc.body)
	doc.root.SetLayoutRect(geom.NewRect(0, 0, w.width, w.height))
	doc.body.SetLayoutRect(geom.NewRect(0, 0, w.width, w.height))
	return w
}

func (w *Window) Document() platform.Document { return w.doc }

// Doc returns the document as *Document.
func (w *Window) Doc() *Document { return w.doc }

func (w *Window) FrameElement() platform.Element {
	if w.frame == nil || w.frame.crossOrigin {
		return nil
	}
	return w.frame
}

// Parent returns the embedding window, nil at the top.
func (w *Window) Parent() *Window { return w.parent }

func (w *Window) VisualViewport() platform.VisualViewport {
	if w.visual == nil {
		return nil
	}
	return w.visual
}

func (w *Window) PageXOffset() float64 { return w.scrollX }
func (w *Window) PageYOffset() float64 { return w.scrollY }

// InnerWidth returns the viewport width.
func (w *Window) InnerWidth() float64 { return w.width }

// InnerHeight returns the viewport height.
func (w *Window) InnerHeight() float64 { return w.height }

func (w *Window) Quirks() quirks.Profile { return w.profile }

// ScrollTo scrolls the page and dispatches scroll on the window.
func (w *Window) ScrollTo(x, y float64) {
	w.scrollX, w.scrollY = x, y
	w.DispatchEvent("scroll")
}

// Resize changes the viewport size, keeps html and body filling it, and
// dispatches resize on the window and its visual viewport.
func (w *Window) Resize(width, height float64) {
	w.width, w.height = width, height
	for _, el := range []*Element{w.doc.root, w.doc.body} {
		if el == nil {
			continue
		}
		r := el.LayoutRect()
		if r.Width < width {
			r.Width = width
		}
		if r.Height < height {
			r.Height = height
		}
		el.SetLayoutRect(r)
	}
	w.DispatchEvent("resize")
	if w.visual != nil {
		w.visual.width, w.visual.height = width, height
		w.visual.DispatchEvent("resize")
	}
}

// PinchZoom moves the visual viewport within the layout viewport and
// dispatches scroll on it.
func (w *Window) PinchZoom(offsetLeft, offsetTop, width, height float64) {
	if w.visual == nil {
		return
	}
	w.visual.offsetLeft, w.visual.offsetTop = offsetLeft, offsetTop
	w.visual.width, w.visual.height = width, height
	w.visual.DispatchEvent("scroll")
}

// RequestAnimationFrame queues cb for the next Tick.
func (w *Window) RequestAnimationFrame(cb platform.FrameCallback) int {
	w.nextFrameID++
	w.frameQueue[w.nextFrameID] = cb
	return w.nextFrameID
}

// CancelAnimationFrame removes a queued callback. Unknown ids are ignored.
func (w *Window) CancelAnimationFrame(id int) {
	delete(w.frameQueue, id)
}

// PendingFrames returns the number of queued animation frame callbacks.
func (w *Window) PendingFrames() int { return len(w.frameQueue) }

// Tick runs one rendering step at timestamp (milliseconds): queued animation
// frame callbacks in request order, then resize observations. Callbacks
// requested during the tick run on the next one. Child frames tick after
// their parent.
func (w *Window) Tick(timestamp float64) {
	ids := make([]int, 0, len(w.frameQueue))
	for id := range w.frameQueue {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		cb, ok := w.frameQueue[id]
		if !ok {
			continue
		}
		delete(w.frameQueue, id)
		cb(timestamp)
	}

	for _, o := range append([]*ResizeObserver(nil), w.observers...) {
		o.deliver()
	}

	for _, child := range w.frames {
		child.Tick(timestamp)
	}
}

// ContentWindow returns the window of an iframe element, creating it on
// first use with a viewport matching the frame's content box.
func (e *Element) ContentWindow() *Window {
	if e.tag != "iframe" {
		return nil
	}
	if e.content != nil {
		return e.content
	}
	var parent *Window
	profile := quirks.Process()
	if e.doc != nil && e.doc.win != nil {
		parent = e.doc.win
		profile = parent.profile
	}
	content := e.contentBox()
	child := NewWindow(WithViewport(content.Width, content.Height), WithQuirks(profile))
	child.frame = e
	child.parent = parent
	if parent != nil {
		parent.frames = append(parent.frames, child)
	}
	e.content = child
	return child
}

// SetCrossOrigin hides the frame element from the content window, as a
// cross-origin embedder would be.
func (e *Element) SetCrossOrigin(cross bool) {
	e.crossOrigin = cross
}

var (
	_ platform.Element        = (*Element)(nil)
	_ platform.Document       = (*Document)(nil)
	_ platform.ShadowRoot     = (*ShadowRoot)(nil)
	_ platform.Window         = (*Window)(nil)
	_ platform.VisualViewport = (*VisualViewport)(nil)
	_ platform.ResizeObserver = (*ResizeObserver)(nil)
)
