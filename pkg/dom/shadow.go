package dom

import "tether/pkg/platform"

// ShadowRoot is an open shadow tree attached to a host element.
type ShadowRoot struct {
	host *Element
	kids []*Element
}

func (s *ShadowRoot) Kind() platform.NodeKind   { return platform.ShadowRootNode }
func (s *ShadowRoot) NodeName() string          { return "#document-fragment" }
func (s *ShadowRoot) ParentNode() platform.Node { return nil }

func (s *ShadowRoot) OwnerDocument() platform.Document {
	if s.host == nil || s.host.doc == nil {
		return nil
	}
	return s.host.doc
}

func (s *ShadowRoot) Host() platform.Element {
	if s.host == nil {
		return nil
	}
	return s.host
}

// HostElement returns the host as *Element.
func (s *ShadowRoot) HostElement() *Element { return s.host }

func (s *ShadowRoot) childList() *[]*Element { return &s.kids }

func (s *ShadowRoot) ownerDoc() *Document {
	if s.host == nil {
		return nil
	}
	return s.host.doc
}

// Children returns the top-level elements of the shadow tree.
func (s *ShadowRoot) Children() []*Element { return s.kids }

// AppendChild adds child to the shadow tree.
func (s *ShadowRoot) AppendChild(child *Element) *Element {
	return insertBefore(s, child, nil)
}

// GetElementByID searches the shadow tree.
func (s *ShadowRoot) GetElementByID(id string) *Element {
	return findByID(s.kids, id, false)
}

// AttachShadow attaches a shadow root to e, or returns the existing one.
func (e *Element) AttachShadow() *ShadowRoot {
	if e.shadow == nil {
		e.shadow = &ShadowRoot{host: e}
	}
	return e.shadow
}

// ShadowRoot returns the attached shadow root, or nil.
func (e *Element) ShadowRoot() *ShadowRoot { return e.shadow }

// AssignedSlot returns the slot of the parent's shadow tree that e renders
// into: the slot whose name attribute equals e's slot attribute, with the
// unnamed slot taking elements without one.
func (e *Element) AssignedSlot() platform.Element {
	if slot := e.assignedSlot(); slot != nil {
		return slot
	}
	return nil
}

func (e *Element) assignedSlot() *Element {
	parent := e.ParentElement()
	if parent == nil || parent.shadow == nil {
		return nil
	}
	name := e.attributes["slot"]
	var found *Element
	for _, k := range parent.shadow.kids {
		k.walk(func(el *Element) bool {
			if el.tag == "slot" && el.attributes["name"] == name {
				found = el
				return false
			}
			return true
		})
		if found != nil {
			break
		}
	}
	return found
}

// layoutParent is the parent in the flat tree: the assigned slot, the
// parent element, or the shadow host for top-level shadow children.
func (e *Element) layoutParent() *Element {
	if slot := e.assignedSlot(); slot != nil {
		return slot
	}
	switch p := e.parent.(type) {
	case *Element:
		return p
	case *ShadowRoot:
		return p.host
	}
	return nil
}
