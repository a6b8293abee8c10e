package js

import (
	"github.com/dop251/goja"

	"tether/pkg/dom"
)

// nodeArg returns argument i as an element, throwing a TypeError when it
// is missing or not an element.
func (ctx *domContext) nodeArg(method string, call goja.FunctionCall, i int) *dom.Element {
	if len(call.Arguments) <= i {
		panic(ctx.vm.NewTypeError("Failed to execute '%s': %d argument(s) required", method, i+1))
	}
	el := ctx.unwrapElement(call.Arguments[i])
	if el == nil {
		panic(ctx.vm.NewTypeError("Failed to execute '%s': parameter %d is not of type 'Node'", method, i+1))
	}
	return el
}

func (e *elementAccessor) appendChildFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		child := e.ctx.nodeArg("appendChild", call, 0)
		if child.Contains(e.el) {
			panic(e.ctx.vm.NewTypeError("Failed to execute 'appendChild': the new child contains the parent"))
		}
		return e.ctx.elementProxy(e.el.AppendChild(child))
	}
}

func (e *elementAccessor) removeChildFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		child := e.ctx.nodeArg("removeChild", call, 0)
		if e.el.RemoveChild(child) == nil {
			panic(e.ctx.vm.NewTypeError("Failed to execute 'removeChild': not a child of this node"))
		}
		return e.ctx.elementProxy(child)
	}
}

// insertBeforeFn implements insertBefore(node, child). A missing or null
// child appends.
func (e *elementAccessor) insertBeforeFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		node := e.ctx.nodeArg("insertBefore", call, 0)
		var before *dom.Element
		if len(call.Arguments) > 1 {
			before = e.ctx.unwrapElement(call.Arguments[1])
		}
		if node.Contains(e.el) {
			panic(e.ctx.vm.NewTypeError("Failed to execute 'insertBefore': the new child contains the parent"))
		}
		return e.ctx.elementProxy(e.el.InsertBefore(node, before))
	}
}

// elementArgs keeps the arguments that are elements. Strings would become
// text nodes, which the tree does not model.
func (e *elementAccessor) elementArgs(args []goja.Value) []*dom.Element {
	out := make([]*dom.Element, 0, len(args))
	for _, v := range args {
		if el := e.ctx.unwrapElement(v); el != nil {
			out = append(out, el)
		}
	}
	return out
}

// variadic wraps a mutation taking the element arguments of append,
// prepend and replaceChildren.
func (e *elementAccessor) variadic(apply func(nodes []*dom.Element)) func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		apply(e.elementArgs(call.Arguments))
		return goja.Undefined()
	}
}

func (e *elementAccessor) appendFn() func(call goja.FunctionCall) goja.Value {
	return e.variadic(func(nodes []*dom.Element) {
		for _, n := range nodes {
			e.el.AppendChild(n)
		}
	})
}

func (e *elementAccessor) prependFn() func(call goja.FunctionCall) goja.Value {
	return e.variadic(func(nodes []*dom.Element) {
		var anchor *dom.Element
		if kids := e.el.Children(); len(kids) > 0 {
			anchor = kids[0]
		}
		for _, n := range nodes {
			if n != anchor {
				e.el.InsertBefore(n, anchor)
			}
		}
	})
}

func (e *elementAccessor) replaceChildrenFn() func(call goja.FunctionCall) goja.Value {
	return e.variadic(func(nodes []*dom.Element) {
		old := append([]*dom.Element(nil), e.el.Children()...)
		for _, kid := range old {
			e.el.RemoveChild(kid)
		}
		for _, n := range nodes {
			e.el.AppendChild(n)
		}
	})
}
