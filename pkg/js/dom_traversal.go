package js

import (
	"github.com/dop251/goja"

	"tether/pkg/dom"
)

// Traversal property methods on elementAccessor

func (e *elementAccessor) firstElementChild() goja.Value {
	kids := e.el.Children()
	if len(kids) == 0 {
		return goja.Null()
	}
	return e.ctx.elementProxy(kids[0])
}

func (e *elementAccessor) lastElementChild() goja.Value {
	kids := e.el.Children()
	if len(kids) == 0 {
		return goja.Null()
	}
	return e.ctx.elementProxy(kids[len(kids)-1])
}

func (e *elementAccessor) nextElementSibling() goja.Value {
	sibs, idx := siblings(e.el)
	if idx < 0 || idx+1 >= len(sibs) {
		return goja.Null()
	}
	return e.ctx.elementProxy(sibs[idx+1])
}

func (e *elementAccessor) previousElementSibling() goja.Value {
	sibs, idx := siblings(e.el)
	if idx <= 0 {
		return goja.Null()
	}
	return e.ctx.elementProxy(sibs[idx-1])
}

// siblings returns the child list el belongs to and its index in it, or
// -1 for detached elements.
func siblings(el *dom.Element) ([]*dom.Element, int) {
	var sibs []*dom.Element
	switch p := el.ParentNode().(type) {
	case *dom.Element:
		sibs = p.Children()
	case *dom.ShadowRoot:
		sibs = p.Children()
	default:
		return nil, -1
	}
	for i, s := range sibs {
		if s == el {
			return sibs, i
		}
	}
	return nil, -1
}

// walkTree calls fn for root's light-tree descendants in document order
// until fn returns true.
func walkTree(root *dom.Element, fn func(*dom.Element) bool) bool {
	for _, kid := range root.Children() {
		if fn(kid) || walkTree(kid, fn) {
			return true
		}
	}
	return false
}
