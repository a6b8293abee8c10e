// Package floating resolves the geometry needed to anchor a floating element
// to a reference: rendering scale, containing blocks, offset parents,
// normalized and relative rectangles. AutoUpdate decides when that geometry
// must be recomputed.
//
// Geometry functions never fail. Indeterminate measurements fall back to
// offset sizes, invalid scales become the identity and detached nodes
// measure as zero rectangles.
package floating

import (
	"tether/pkg/geom"
	"tether/pkg/platform"
)

// RectProvider is anything that can report a viewport rectangle.
type RectProvider interface {
	BoundingClientRect() geom.Rect
}

// RectFunc adapts a function to RectProvider.
type RectFunc func() geom.Rect

func (f RectFunc) BoundingClientRect() geom.Rect { return f() }

// RefKind tags the variant held by a Reference.
type RefKind int

const (
	ConcreteRef RefKind = iota
	VirtualRef
)

// Reference is what a floating element is anchored to: either a concrete
// element, or a virtual rectangle with an optional context element used for
// ancestor and scale lookups.
type Reference struct {
	kind     RefKind
	element  platform.Element
	provider RectProvider
}

// Concrete wraps an element. A nil element, including a typed nil pointer,
// measures as the zero rectangle.
func Concrete(el platform.Element) Reference {
	if platform.IsNil(el) {
		el = nil
	}
	return Reference{kind: ConcreteRef, element: el}
}

// Virtual wraps a rectangle provider. context may be nil.
func Virtual(p RectProvider, context platform.Element) Reference {
	if platform.IsNil(context) {
		context = nil
	}
	if platform.IsNil(p) {
		p = nil
	}
	return Reference{kind: VirtualRef, element: context, provider: p}
}

func (r Reference) Kind() RefKind { return r.kind }

// Element returns the element of a concrete reference, nil for virtual ones.
func (r Reference) Element() platform.Element {
	if r.kind != ConcreteRef {
		return nil
	}
	return r.element
}

// Context returns the context element of a virtual reference.
func (r Reference) Context() platform.Element {
	if r.kind != VirtualRef {
		return nil
	}
	return r.element
}

// Unwrap returns the element geometry lookups run against: the element
// itself or the virtual context. It may be nil.
func (r Reference) Unwrap() platform.Element {
	return r.element
}

// BoundingClientRect measures the reference.
func (r Reference) BoundingClientRect() geom.Rect {
	switch r.kind {
	case ConcreteRef:
		if r.element == nil {
			return geom.Rect{}
		}
		return r.element.BoundingClientRect()
	case VirtualRef:
		if r.provider == nil {
			return geom.Rect{}
		}
		return r.provider.BoundingClientRect()
	}
	return geom.Rect{}
}
