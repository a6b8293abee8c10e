package js

import (
	"sort"
	"strings"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"tether/pkg/css"
	"tether/pkg/dom"
	"tether/pkg/geom"
)

// domContext holds shared state for DOM bindings within a single engine.
// cache returns the same proxy for the same *dom.Element, keeping ===
// identity; elements maps proxies back to their element.
type domContext struct {
	vm  *goja.Runtime
	doc *dom.Document
	log *zap.Logger

	cache     map[*dom.Element]*goja.Object
	elements  map[*goja.Object]*dom.Element
	documents map[*dom.Document]goja.Value
	shadows   map[*dom.ShadowRoot]goja.Value
	windows   map[*dom.Window]goja.Value
	viewports map[*dom.VisualViewport]goja.Value

	listeners     []*listenerBinding
	subscriptions []func()
}

func newDOMContext(vm *goja.Runtime, doc *dom.Document) *domContext {
	return &domContext{
		vm:        vm,
		doc:       doc,
		log:       zap.NewNop(),
		cache:     make(map[*dom.Element]*goja.Object),
		elements:  make(map[*goja.Object]*dom.Element),
		documents: make(map[*dom.Document]goja.Value),
		shadows:   make(map[*dom.ShadowRoot]goja.Value),
		windows:   make(map[*dom.Window]goja.Value),
		viewports: make(map[*dom.VisualViewport]goja.Value),
	}
}

// registerDocument sets up the global `document` object on the goja runtime.
func registerDocument(vm *goja.Runtime, doc *dom.Document) *domContext {
	ctx := newDOMContext(vm, doc)
	vm.Set("document", ctx.documentProxy(doc))
	return ctx
}

// documentProxy returns the JS object for doc. Frame documents get their
// own object, reachable through iframe.contentDocument.
func (ctx *domContext) documentProxy(doc *dom.Document) goja.Value {
	if v, ok := ctx.documents[doc]; ok {
		return v
	}
	vm := ctx.vm
	docObj := vm.NewObject()
	docObj.Set("nodeType", 9)
	docObj.Set("nodeName", "#document")
	docObj.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return goja.Null()
		}
		return ctx.elementOrNull(doc.GetElementByID(call.Arguments[0].String()))
	})
	docObj.Set("createElement", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(vm.NewTypeError("Failed to execute 'createElement' on 'Document': 1 argument required"))
		}
		return ctx.elementProxy(doc.CreateElement(call.Arguments[0].String()))
	})
	docObj.Set("createElementNS", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			panic(vm.NewTypeError("Failed to execute 'createElementNS' on 'Document': 2 arguments required"))
		}
		if call.Arguments[0].String() == xhtmlNamespace {
			return ctx.elementProxy(doc.CreateElement(call.Arguments[1].String()))
		}
		return ctx.elementProxy(doc.CreateElementNS(call.Arguments[1].String()))
	})
	registerQuerySelectors(ctx, docObj, doc.HTML())

	docObj.Set("documentElement", ctx.elementProxy(doc.HTML()))
	docObj.Set("head", ctx.elementProxy(doc.Head()))
	docObj.Set("body", ctx.elementProxy(doc.BodyElement()))
	docObj.DefineAccessorProperty("defaultView", vm.ToValue(func(goja.FunctionCall) goja.Value {
		return ctx.windowProxy(doc.Window())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	ctx.documents[doc] = docObj
	return docObj
}

const xhtmlNamespace = "http://www.w3.org/1999/xhtml"

// elementArray creates a JS array of Element proxies.
func (ctx *domContext) elementArray(els []*dom.Element) goja.Value {
	vals := make([]interface{}, len(els))
	for i, el := range els {
		vals[i] = ctx.elementProxy(el)
	}
	return ctx.vm.NewArray(vals...)
}

// elementProxy creates (or retrieves from cache) a JS DynamicObject wrapping a dom.Element.
func (ctx *domContext) elementProxy(el *dom.Element) goja.Value {
	if v, ok := ctx.cache[el]; ok {
		return v
	}
	v := ctx.vm.NewDynamicObject(&elementAccessor{ctx: ctx, el: el})
	ctx.cache[el] = v
	ctx.elements[v] = el
	return v
}

func (ctx *domContext) elementOrNull(el *dom.Element) goja.Value {
	if el == nil {
		return goja.Null()
	}
	return ctx.elementProxy(el)
}

// unwrapElement extracts the *dom.Element from a goja value that wraps an elementAccessor.
func (ctx *domContext) unwrapElement(val goja.Value) *dom.Element {
	if val == nil || goja.IsNull(val) || goja.IsUndefined(val) {
		return nil
	}
	obj, ok := val.(*goja.Object)
	if !ok {
		return nil
	}
	return ctx.elements[obj]
}

// rectObject returns a DOMRect-like object.
func (ctx *domContext) rectObject(r geom.Rect) goja.Value {
	obj := ctx.vm.NewObject()
	obj.Set("x", r.X)
	obj.Set("y", r.Y)
	obj.Set("width", r.Width)
	obj.Set("height", r.Height)
	obj.Set("top", r.Top())
	obj.Set("right", r.Right())
	obj.Set("bottom", r.Bottom())
	obj.Set("left", r.Left())
	return obj
}

// elementAccessor implements goja.DynamicObject to intercept property access
// on DOM element proxies.
type elementAccessor struct {
	ctx *domContext
	el  *dom.Element
}

var elementKeys = []string{
	"tagName", "nodeName", "nodeType", "id", "className", "isConnected", "outerHTML",
	"getAttribute", "setAttribute", "hasAttribute", "removeAttribute",
	"children", "parentElement", "parentNode", "style",
	"appendChild", "removeChild", "insertBefore", "remove", "append", "prepend", "replaceChildren",
	"firstElementChild", "lastElementChild", "nextElementSibling", "previousElementSibling",
	"childElementCount", "contains",
	"querySelector", "querySelectorAll", "matches", "closest",
	"classList",
	"getBoundingClientRect", "offsetWidth", "offsetHeight", "offsetParent",
	"clientLeft", "clientTop", "scrollLeft", "scrollTop", "scrollTo", "setLayoutRect",
	"attachShadow", "shadowRoot", "assignedSlot", "contentWindow", "contentDocument",
	"addEventListener", "removeEventListener", "dispatchEvent",
}

func (e *elementAccessor) Get(key string) goja.Value {
	vm := e.ctx.vm
	el := e.el

	switch key {
	case "nodeType":
		return vm.ToValue(1) // Node.ELEMENT_NODE
	case "nodeName", "tagName":
		if el.IsHTML() {
			return vm.ToValue(strings.ToUpper(el.TagName()))
		}
		return vm.ToValue(el.TagName())
	case "id":
		return vm.ToValue(el.ID())
	case "className":
		cls, _ := el.GetAttribute("class")
		return vm.ToValue(cls)
	case "isConnected":
		return vm.ToValue(el.IsConnected())
	case "outerHTML":
		return vm.ToValue(el.SerializeOuter())
	case "getAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return goja.Null()
			}
			name := call.Arguments[0].String()
			if name == "style" {
				return vm.ToValue(el.Style().String())
			}
			val, ok := el.GetAttribute(name)
			if !ok {
				return goja.Null()
			}
			return vm.ToValue(val)
		})
	case "setAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) < 2 {
				return goja.Undefined()
			}
			el.SetAttribute(call.Arguments[0].String(), call.Arguments[1].String())
			return goja.Undefined()
		})
	case "hasAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return vm.ToValue(false)
			}
			_, ok := el.GetAttribute(call.Arguments[0].String())
			return vm.ToValue(ok)
		})
	case "removeAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) > 0 {
				el.RemoveAttribute(call.Arguments[0].String())
			}
			return goja.Undefined()
		})
	case "children":
		return e.ctx.elementArray(el.Children())
	case "parentElement":
		return e.ctx.elementOrNull(el.ParentElement())
	case "parentNode":
		return e.parentNode()
	case "style":
		return newStyleProxy(vm, el)

	case "appendChild":
		return vm.ToValue(e.appendChildFn())
	case "removeChild":
		return vm.ToValue(e.removeChildFn())
	case "insertBefore":
		return vm.ToValue(e.insertBeforeFn())
	case "remove":
		return vm.ToValue(func(goja.FunctionCall) goja.Value {
			el.Remove()
			return goja.Undefined()
		})
	case "append":
		return vm.ToValue(e.appendFn())
	case "prepend":
		return vm.ToValue(e.prependFn())
	case "replaceChildren":
		return vm.ToValue(e.replaceChildrenFn())

	case "firstElementChild":
		return e.firstElementChild()
	case "lastElementChild":
		return e.lastElementChild()
	case "nextElementSibling":
		return e.nextElementSibling()
	case "previousElementSibling":
		return e.previousElementSibling()
	case "childElementCount":
		return vm.ToValue(len(el.Children()))
	case "contains":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return vm.ToValue(false)
			}
			other := e.ctx.unwrapElement(call.Arguments[0])
			return vm.ToValue(other != nil && el.Contains(other))
		})

	case "querySelector":
		return vm.ToValue(querySelectorFn(e.ctx, el))
	case "querySelectorAll":
		return vm.ToValue(querySelectorAllFn(e.ctx, el))
	case "matches":
		return vm.ToValue(matchesFn(e.ctx, el))
	case "closest":
		return vm.ToValue(closestFn(e.ctx, el))

	case "classList":
		return newClassListProxy(e.ctx, el)

	case "getBoundingClientRect":
		return vm.ToValue(func(goja.FunctionCall) goja.Value {
			return e.ctx.rectObject(el.BoundingClientRect())
		})
	case "offsetWidth":
		return vm.ToValue(el.OffsetWidth())
	case "offsetHeight":
		return vm.ToValue(el.OffsetHeight())
	case "offsetParent":
		if p, ok := el.OffsetParent().(*dom.Element); ok {
			return e.ctx.elementProxy(p)
		}
		return goja.Null()
	case "clientLeft":
		return vm.ToValue(el.ClientLeft())
	case "clientTop":
		return vm.ToValue(el.ClientTop())
	case "scrollLeft":
		return vm.ToValue(el.ScrollLeft())
	case "scrollTop":
		return vm.ToValue(el.ScrollTop())
	case "scrollTo":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			x, y := scrollArgs(call, el.ScrollLeft(), el.ScrollTop())
			el.ScrollTo(x, y)
			return goja.Undefined()
		})
	case "setLayoutRect":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) < 4 {
				panic(vm.NewTypeError("Failed to execute 'setLayoutRect': 4 arguments required"))
			}
			el.SetLayoutRect(geom.NewRect(
				call.Arguments[0].ToFloat(), call.Arguments[1].ToFloat(),
				call.Arguments[2].ToFloat(), call.Arguments[3].ToFloat()))
			return goja.Undefined()
		})

	case "attachShadow":
		return vm.ToValue(func(goja.FunctionCall) goja.Value {
			return e.ctx.shadowProxy(el.AttachShadow())
		})
	case "shadowRoot":
		if sr := el.ShadowRoot(); sr != nil {
			return e.ctx.shadowProxy(sr)
		}
		return goja.Null()
	case "assignedSlot":
		if slot, ok := el.AssignedSlot().(*dom.Element); ok {
			return e.ctx.elementProxy(slot)
		}
		return goja.Null()
	case "contentWindow":
		if win := el.ContentWindow(); win != nil {
			return e.ctx.windowProxy(win)
		}
		return goja.Null()
	case "contentDocument":
		if win := el.ContentWindow(); win != nil {
			return e.ctx.documentProxy(win.Doc())
		}
		return goja.Null()

	case "addEventListener":
		return vm.ToValue(e.ctx.addEventListenerFn(el, e.ctx.elementProxy(el)))
	case "removeEventListener":
		return vm.ToValue(e.ctx.removeEventListenerFn(el))
	case "dispatchEvent":
		return vm.ToValue(dispatchEventFn(el.DispatchEvent))
	}
	return goja.Undefined()
}

func (e *elementAccessor) parentNode() goja.Value {
	switch p := e.el.ParentNode().(type) {
	case *dom.Element:
		return e.ctx.elementProxy(p)
	case *dom.Document:
		return e.ctx.documentProxy(p)
	case *dom.ShadowRoot:
		return e.ctx.shadowProxy(p)
	}
	return goja.Null()
}

func (e *elementAccessor) Set(key string, val goja.Value) bool {
	switch key {
	case "className":
		e.el.SetAttribute("class", val.String())
		return true
	case "id":
		e.el.SetAttribute("id", val.String())
		return true
	case "scrollLeft":
		e.el.ScrollTo(val.ToFloat(), e.el.ScrollTop())
		return true
	case "scrollTop":
		e.el.ScrollTo(e.el.ScrollLeft(), val.ToFloat())
		return true
	}
	return false
}

func (e *elementAccessor) Has(key string) bool {
	for _, k := range elementKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (e *elementAccessor) Delete(key string) bool {
	return false
}

func (e *elementAccessor) Keys() []string {
	return elementKeys
}

// scrollArgs reads scrollTo(x, y) or scrollTo({left, top}); missing values
// keep the current offset.
func scrollArgs(call goja.FunctionCall, x, y float64) (float64, float64) {
	if len(call.Arguments) == 0 {
		return x, y
	}
	if obj, ok := call.Arguments[0].(*goja.Object); ok {
		if v := obj.Get("left"); v != nil && !goja.IsUndefined(v) {
			x = v.ToFloat()
		}
		if v := obj.Get("top"); v != nil && !goja.IsUndefined(v) {
			y = v.ToFloat()
		}
		return x, y
	}
	x = call.Arguments[0].ToFloat()
	if len(call.Arguments) > 1 {
		y = call.Arguments[1].ToFloat()
	}
	return x, y
}

// shadowProxy returns a ShadowRoot-like object.
func (ctx *domContext) shadowProxy(sr *dom.ShadowRoot) goja.Value {
	if v, ok := ctx.shadows[sr]; ok {
		return v
	}
	vm := ctx.vm
	obj := vm.NewObject()
	obj.Set("nodeType", 11)
	obj.Set("nodeName", "#document-fragment")
	obj.Set("host", ctx.elementOrNull(sr.HostElement()))
	obj.Set("appendChild", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(vm.NewTypeError("Failed to execute 'appendChild': 1 argument required"))
		}
		child := ctx.unwrapElement(call.Arguments[0])
		if child == nil {
			panic(vm.NewTypeError("Failed to execute 'appendChild': parameter is not a Node"))
		}
		return ctx.elementProxy(sr.AppendChild(child))
	})
	obj.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return goja.Null()
		}
		return ctx.elementOrNull(sr.GetElementByID(call.Arguments[0].String()))
	})
	obj.DefineAccessorProperty("children", vm.ToValue(func(goja.FunctionCall) goja.Value {
		return ctx.elementArray(sr.Children())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	ctx.shadows[sr] = obj
	return obj
}

// newStyleProxy creates a goja DynamicObject that maps JS camelCase
// property access to CSS kebab-case on the element's inline style.
func newStyleProxy(vm *goja.Runtime, el *dom.Element) goja.Value {
	return vm.NewDynamicObject(&styleAccessor{vm: vm, el: el})
}

type styleAccessor struct {
	vm *goja.Runtime
	el *dom.Element
}

func (s *styleAccessor) Get(key string) goja.Value {
	if key == "cssText" {
		return s.vm.ToValue(s.el.Style().String())
	}
	val, _ := s.el.Style().Get(camelToKebab(key))
	return s.vm.ToValue(val)
}

// Set writes an inline style property. Assigning left or top to an
// absolutely or fixed positioned element moves it as layout would.
func (s *styleAccessor) Set(key string, val goja.Value) bool {
	if key == "cssText" {
		s.el.SetAttribute("style", val.String())
		return true
	}
	prop := camelToKebab(key)
	value := val.String()
	if prop == "left" || prop == "top" {
		if s.moveInset(prop, value) {
			return true
		}
	}
	s.el.SetStyle(prop + ": " + value)
	return true
}

func (s *styleAccessor) moveInset(prop, value string) bool {
	switch s.el.Style().GetPosition() {
	case css.PositionAbsolute, css.PositionFixed:
	default:
		return false
	}
	v, ok := css.ParseLength(value)
	if !ok {
		return false
	}
	offset := s.el.Style().GetPositionOffset()
	left, top := offset.Left, offset.Top
	if prop == "left" {
		left = v
	} else {
		top = v
	}
	s.el.SetInsets(left, top)
	return true
}

func (s *styleAccessor) Has(key string) bool {
	return true
}

func (s *styleAccessor) Delete(key string) bool {
	s.el.Style().Delete(camelToKebab(key))
	return true
}

func (s *styleAccessor) Keys() []string {
	props := s.el.Style().Properties
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// camelToKebab maps a style property name as scripts spell it to the CSS
// name: backgroundColor is background-color, webkitBackdropFilter and
// WebkitBackdropFilter are -webkit-backdrop-filter. Names that already
// contain a hyphen are returned unchanged.
func camelToKebab(name string) string {
	switch {
	case name == "cssFloat":
		return "float"
	case strings.Contains(name, "-"):
		return name
	}
	out := make([]byte, 0, len(name)+4)
	for _, prefix := range []string{"webkit", "Webkit", "moz", "Moz"} {
		if rest, ok := strings.CutPrefix(name, prefix); ok && rest != "" {
			out = append(out, '-')
			out = append(out, strings.ToLower(prefix)...)
			name = rest
			break
		}
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if 'A' <= c && c <= 'Z' {
			if i > 0 || len(out) > 0 {
				out = append(out, '-')
			}
			c += 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}
