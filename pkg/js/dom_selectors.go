package js

import (
	"github.com/dop251/goja"

	"tether/pkg/css"
	"tether/pkg/dom"
)

// selectorArg parses the first argument as a selector group. Missing or
// unsupported selectors throw a TypeError, as a SyntaxError would in a
// browser.
func (ctx *domContext) selectorArg(method string, call goja.FunctionCall) []css.Selector {
	if len(call.Arguments) == 0 {
		panic(ctx.vm.NewTypeError("Failed to execute '%s': 1 argument required", method))
	}
	src := call.Arguments[0].String()
	group, err := css.ParseSelectorGroup(src)
	if err != nil {
		panic(ctx.vm.NewTypeError("Failed to execute '%s': '%s' is not a valid selector: %v", method, src, err))
	}
	return group
}

// selectAll returns the descendants of root matching group in document
// order, stopping after limit matches when limit > 0.
func selectAll(root *dom.Element, group []css.Selector, limit int) []*dom.Element {
	var found []*dom.Element
	walkTree(root, func(el *dom.Element) bool {
		if css.MatchesAny(group, el) {
			found = append(found, el)
		}
		return limit > 0 && len(found) >= limit
	})
	return found
}

func registerQuerySelectors(ctx *domContext, obj *goja.Object, root *dom.Element) {
	obj.Set("querySelector", querySelectorFn(ctx, root))
	obj.Set("querySelectorAll", querySelectorAllFn(ctx, root))
}

func querySelectorFn(ctx *domContext, root *dom.Element) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		found := selectAll(root, ctx.selectorArg("querySelector", call), 1)
		if len(found) == 0 {
			return goja.Null()
		}
		return ctx.elementProxy(found[0])
	}
}

func querySelectorAllFn(ctx *domContext, root *dom.Element) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		return ctx.elementArray(selectAll(root, ctx.selectorArg("querySelectorAll", call), 0))
	}
}

func matchesFn(ctx *domContext, el *dom.Element) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		return ctx.vm.ToValue(css.MatchesAny(ctx.selectorArg("matches", call), el))
	}
}

// closestFn walks from the element itself up through its ancestors.
func closestFn(ctx *domContext, el *dom.Element) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		group := ctx.selectorArg("closest", call)
		for cur := el; cur != nil; cur = cur.ParentElement() {
			if css.MatchesAny(group, cur) {
				return ctx.elementProxy(cur)
			}
		}
		return goja.Null()
	}
}
