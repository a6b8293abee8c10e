// Package platform defines the capabilities the geometry pipeline reads from
// a host document: node classification and traversal, measurement, computed
// style, scroll offsets, events, resize observation and animation frames.
//
// The pipeline never mutates anything reachable through these interfaces
// except by registering and removing listeners.
package platform

import (
	"reflect"

	"tether/pkg/css"
	"tether/pkg/geom"
	"tether/pkg/quirks"
)

// NodeKind classifies a node.
type NodeKind int

const (
	ElementNode NodeKind = iota + 1
	TextNode
	DocumentNode
	ShadowRootNode
)

func (k NodeKind) String() string {
	switch k {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case DocumentNode:
		return "document"
	case ShadowRootNode:
		return "shadow-root"
	}
	return "unknown"
}

// Node is any participant in the tree.
type Node interface {
	Kind() NodeKind
	// NodeName is the lower-case tag name for elements, "#document" for
	// documents and "#document-fragment" for shadow roots.
	NodeName() string
	// ParentNode returns nil for detached nodes and the document.
	ParentNode() Node
	// OwnerDocument returns nil for documents.
	OwnerDocument() Document
}

// Event is delivered to listeners.
type Event struct {
	Type   string
	Target EventTarget
}

// Listener handles one event.
type Listener func(Event)

// ListenerOptions mirrors the subset of listener options the pipeline uses.
type ListenerOptions struct {
	Passive bool
}

// EventTarget can deliver scroll and resize events.
type EventTarget interface {
	// AddEventListener registers fn and returns the function that removes it.
	// The returned function may be called any number of times.
	AddEventListener(eventType string, fn Listener, opts ListenerOptions) (remove func())
}

// Element is a laid-out element.
type Element interface {
	Node
	EventTarget

	// IsHTML is false for foreign elements (SVG, MathML).
	IsHTML() bool
	// BoundingClientRect is the border box in the viewport coordinates of
	// the element's own window, after transforms. Disconnected elements
	// measure as the zero rect.
	BoundingClientRect() geom.Rect
	ComputedStyle() *css.Style
	// OffsetParent is the platform's shortcut, nil when there is none.
	OffsetParent() Element
	// OffsetWidth and OffsetHeight are the untransformed border-box size
	// rounded to integers.
	OffsetWidth() float64
	OffsetHeight() float64
	// ClientLeft and ClientTop are the left and top border widths.
	ClientLeft() float64
	ClientTop() float64
	ScrollLeft() float64
	ScrollTop() float64
	// AssignedSlot returns the slot a light-DOM child is rendered into.
	AssignedSlot() Element
}

// ShadowRoot is the root of a shadow tree.
type ShadowRoot interface {
	Node
	Host() Element
}

// Document is the root node of a window.
type Document interface {
	Node
	DocumentElement() Element
	Body() Element
	DefaultView() Window
}

// VisualViewport reports the visual viewport of a window.
type VisualViewport interface {
	EventTarget
	OffsetLeft() float64
	OffsetTop() float64
	Width() float64
	Height() float64
}

// FrameCallback receives the frame timestamp in milliseconds.
type FrameCallback func(timestamp float64)

// ResizeObserverEntry reports a new size for an observed element.
type ResizeObserverEntry struct {
	Target      Element
	ContentRect geom.Rect
}

// ResizeObserverCallback receives every entry of one delivery.
type ResizeObserverCallback func(entries []ResizeObserverEntry)

// ResizeObserver observes element size changes. The first delivery after
// Observe reports the initial size.
type ResizeObserver interface {
	Observe(el Element)
	Unobserve(el Element)
	Disconnect()
}

// Window is a browsing context.
type Window interface {
	EventTarget

	Document() Document
	// FrameElement is the element embedding this window, nil for the top
	// window and for windows whose embedder is cross-origin.
	FrameElement() Element
	// VisualViewport may be nil.
	VisualViewport() VisualViewport
	PageXOffset() float64
	PageYOffset() float64
	RequestAnimationFrame(cb FrameCallback) int
	CancelAnimationFrame(id int)
	NewResizeObserver(cb ResizeObserverCallback) ResizeObserver
	// Quirks is the browser quirks profile of this window.
	Quirks() quirks.Profile
}

// WindowOf returns the window that owns n, or nil when n is detached from
// any document.
func WindowOf(n Node) Window {
	if n == nil {
		return nil
	}
	if doc, ok := n.(Document); ok {
		return doc.DefaultView()
	}
	doc := n.OwnerDocument()
	if doc == nil {
		return nil
	}
	return doc.DefaultView()
}

// IsNil reports whether v is nil or an interface holding a nil pointer,
// such as a (*dom.Element)(nil) passed as an Element.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// DocumentElementOf returns the root element of the document owning n.
func DocumentElementOf(n Node) Element {
	if n == nil {
		return nil
	}
	doc, ok := n.(Document)
	if !ok {
		doc = n.OwnerDocument()
	}
	if doc == nil {
		return nil
	}
	return doc.DocumentElement()
}

// AsElement returns n as an Element when it is one.
func AsElement(n Node) (Element, bool) {
	if n == nil || n.Kind() != ElementNode {
		return nil, false
	}
	el, ok := n.(Element)
	return el, ok
}

// IsHTMLElement reports whether n is an HTML element.
func IsHTMLElement(n Node) bool {
	el, ok := AsElement(n)
	return ok && el.IsHTML()
}

// AsShadowRoot returns n as a ShadowRoot when it is one.
func AsShadowRoot(n Node) (ShadowRoot, bool) {
	if n == nil || n.Kind() != ShadowRootNode {
		return nil, false
	}
	sr, ok := n.(ShadowRoot)
	return sr, ok
}
