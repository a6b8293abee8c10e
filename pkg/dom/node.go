// Package dom is a headless, retained document model implementing the
// platform interfaces: an element tree with shadow roots and slots,
// windows and same-origin frames, events, resize observers, animation
// frames, and a geometry model driven by explicit layout rectangles.
//
// Nothing in this package is safe for concurrent use. Use one Window per
// goroutine.
package dom

import (
	"sort"
	"strings"

	"tether/pkg/css"
	"tether/pkg/platform"
)

// container is a node that holds element children: an Element, a Document
// or a ShadowRoot.
type container interface {
	platform.Node
	childList() *[]*Element
	ownerDoc() *Document
}

// Element is an element node.
type Element struct {
	eventTarget

	tag        string
	html       bool
	attributes map[string]string
	style      *css.Style

	kids   []*Element
	parent container
	doc    *Document
	shadow *ShadowRoot

	box              layoutBox
	scrollX, scrollY float64

	content     *Window
	crossOrigin bool
}

func newElement(doc *Document, tag string, html bool) *Element {
	e := &Element{
		tag:        strings.ToLower(tag),
		html:       html,
		attributes: make(map[string]string),
		style:      css.NewStyle(),
		doc:        doc,
	}
	e.eventTarget.init(e)
	return e
}

func (e *Element) Kind() platform.NodeKind { return platform.ElementNode }
func (e *Element) NodeName() string        { return e.tag }
func (e *Element) IsHTML() bool            { return e.html }

// TagName returns the lower-case tag.
func (e *Element) TagName() string { return e.tag }

func (e *Element) ParentNode() platform.Node {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

// ParentElement returns the parent when it is an element.
func (e *Element) ParentElement() *Element {
	p, _ := e.parent.(*Element)
	return p
}

func (e *Element) OwnerDocument() platform.Document {
	if e.doc == nil {
		return nil
	}
	return e.doc
}

// Document returns the owning document.
func (e *Element) Document() *Document { return e.doc }

func (e *Element) childList() *[]*Element { return &e.kids }
func (e *Element) ownerDoc() *Document    { return e.doc }

// Children returns the element children.
func (e *Element) Children() []*Element { return e.kids }

func (e *Element) GetAttribute(name string) (string, bool) {
	val, ok := e.attributes[name]
	return val, ok
}

// SetAttribute sets an attribute. The style attribute replaces the inline
// style.
func (e *Element) SetAttribute(name, value string) {
	if name == "style" {
		e.style = css.ParseInlineStyle(value)
		return
	}
	e.attributes[name] = value
}

// RemoveAttribute deletes an attribute. Removing style clears the inline
// style.
func (e *Element) RemoveAttribute(name string) {
	if name == "style" {
		e.style = css.NewStyle()
		return
	}
	delete(e.attributes, name)
}

// ID returns the id attribute.
func (e *Element) ID() string {
	return e.attributes["id"]
}

// Style returns the inline style, which callers may mutate.
func (e *Element) Style() *css.Style { return e.style }

// SetStyle merges a declaration block into the inline style.
func (e *Element) SetStyle(decls string) {
	e.style.Apply(decls)
}

// AppendChild adds child as the last child, removing it from its previous
// parent first.
func (e *Element) AppendChild(child *Element) *Element {
	return insertBefore(e, child, nil)
}

// InsertBefore inserts newChild before refChild. A nil or missing refChild
// appends.
func (e *Element) InsertBefore(newChild, refChild *Element) *Element {
	return insertBefore(e, newChild, refChild)
}

// RemoveChild detaches child. It returns nil when child is not a child of e.
func (e *Element) RemoveChild(child *Element) *Element {
	return removeChild(e, child)
}

// Remove detaches e from its parent.
func (e *Element) Remove() {
	if e.parent != nil {
		removeChild(e.parent, e)
	}
}

// Contains reports whether other is e or one of its light-tree descendants.
func (e *Element) Contains(other *Element) bool {
	for n := other; n != nil; n = n.ParentElement() {
		if n == e {
			return true
		}
	}
	return false
}

// IsConnected reports whether e is in a document, crossing shadow roots.
func (e *Element) IsConnected() bool {
	var n platform.Node = e
	for n != nil {
		switch v := n.(type) {
		case *Document:
			return true
		case *ShadowRoot:
			if v.host == nil {
				return false
			}
			n = v.host
		case *Element:
			if v.parent == nil {
				return false
			}
			n = v.parent
		default:
			return false
		}
	}
	return false
}

func insertBefore(parent container, child, ref *Element) *Element {
	if child.parent != nil {
		removeChild(child.parent, child)
	}
	kids := parent.childList()
	child.parent = parent
	child.adopt(parent.ownerDoc())
	if ref != nil {
		for i, c := range *kids {
			if c == ref {
				*kids = append(*kids, nil)
				copy((*kids)[i+1:], (*kids)[i:])
				(*kids)[i] = child
				return child
			}
		}
	}
	*kids = append(*kids, child)
	return child
}

func removeChild(parent container, child *Element) *Element {
	kids := parent.childList()
	for i, c := range *kids {
		if c == child {
			*kids = append((*kids)[:i], (*kids)[i+1:]...)
			child.parent = nil
			return child
		}
	}
	return nil
}

// adopt moves e and its subtree, shadow trees included, into doc.
func (e *Element) adopt(doc *Document) {
	if e.doc == doc {
		return
	}
	e.doc = doc
	for _, c := range e.kids {
		c.adopt(doc)
	}
	if e.shadow != nil {
		for _, c := range e.shadow.kids {
			c.adopt(doc)
		}
	}
}

// walk visits e and its light-tree descendants depth first.
func (e *Element) walk(fn func(*Element) bool) bool {
	if !fn(e) {
		return false
	}
	for _, c := range e.kids {
		if !c.walk(fn) {
			return false
		}
	}
	return true
}

func findByID(kids []*Element, id string, pierce bool) *Element {
	var found *Element
	for _, k := range kids {
		k.walk(func(el *Element) bool {
			if el.ID() == id {
				found = el
				return false
			}
			if pierce && el.shadow != nil {
				if f := findByID(el.shadow.kids, id, true); f != nil {
					found = f
					return false
				}
			}
			return true
		})
		if found != nil {
			return found
		}
	}
	return nil
}

// SerializeOuter returns markup for e and its light tree. The inline style
// is written as a style attribute.
func (e *Element) SerializeOuter() string {
	var sb strings.Builder
	serializeElement(&sb, e)
	return sb.String()
}

func serializeElement(sb *strings.Builder, e *Element) {
	sb.WriteByte('<')
	sb.WriteString(e.tag)

	attrs := make(map[string]string, len(e.attributes)+1)
	for k, v := range e.attributes {
		attrs[k] = v
	}
	if s := e.style.String(); s != "" {
		attrs["style"] = s
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteByte(' ')
		sb.WriteString(k)
		sb.WriteString(`="`)
		sb.WriteString(escapeAttr(attrs[k]))
		sb.WriteByte('"')
	}
	sb.WriteByte('>')
	for _, child := range e.kids {
		serializeElement(sb, child)
	}
	sb.WriteString("</")
	sb.WriteString(e.tag)
	sb.WriteByte('>')
}

func escapeAttr(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
