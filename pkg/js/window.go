package js

import (
	"github.com/dop251/goja"

	"tether/pkg/dom"
	"tether/pkg/platform"
)

// registerWindow sets the `window` global and the frame globals that live
// on it in a browser.
func registerWindow(ctx *domContext, win *dom.Window) {
	w := ctx.windowProxy(win)
	vm := ctx.vm
	vm.Set("window", w)
	obj := w.(*goja.Object)
	for _, name := range []string{"requestAnimationFrame", "cancelAnimationFrame", "scrollTo", "addEventListener", "removeEventListener"} {
		vm.Set(name, obj.Get(name))
	}
	// tick(timestamp) delivers one animation frame and pending resize
	// observations, standing in for the browser's event loop.
	vm.Set("tick", func(call goja.FunctionCall) goja.Value {
		var ts float64
		if len(call.Arguments) > 0 {
			ts = call.Arguments[0].ToFloat()
		}
		win.Tick(ts)
		return goja.Undefined()
	})
}

// windowProxy returns the JS object for win.
func (ctx *domContext) windowProxy(win *dom.Window) goja.Value {
	if win == nil {
		return goja.Null()
	}
	if v, ok := ctx.windows[win]; ok {
		return v
	}
	v := ctx.vm.NewDynamicObject(&windowAccessor{ctx: ctx, win: win})
	ctx.windows[win] = v
	return v
}

type windowAccessor struct {
	ctx *domContext
	win *dom.Window
}

var windowKeys = []string{
	"document", "innerWidth", "innerHeight", "scrollX", "scrollY", "pageXOffset", "pageYOffset",
	"scrollTo", "scrollBy", "resizeTo", "requestAnimationFrame", "cancelAnimationFrame",
	"addEventListener", "removeEventListener", "dispatchEvent",
	"visualViewport", "frameElement", "parent", "top", "window", "self",
}

func (w *windowAccessor) Get(key string) goja.Value {
	vm := w.ctx.vm
	win := w.win

	switch key {
	case "document":
		return w.ctx.documentProxy(win.Doc())
	case "innerWidth":
		return vm.ToValue(win.InnerWidth())
	case "innerHeight":
		return vm.ToValue(win.InnerHeight())
	case "scrollX", "pageXOffset":
		return vm.ToValue(win.PageXOffset())
	case "scrollY", "pageYOffset":
		return vm.ToValue(win.PageYOffset())
	case "scrollTo":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			x, y := scrollArgs(call, win.PageXOffset(), win.PageYOffset())
			win.ScrollTo(x, y)
			return goja.Undefined()
		})
	case "scrollBy":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			dx, dy := scrollArgs(call, 0, 0)
			win.ScrollTo(win.PageXOffset()+dx, win.PageYOffset()+dy)
			return goja.Undefined()
		})
	case "resizeTo":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) < 2 {
				panic(vm.NewTypeError("Failed to execute 'resizeTo': 2 arguments required"))
			}
			win.Resize(call.Arguments[0].ToFloat(), call.Arguments[1].ToFloat())
			return goja.Undefined()
		})
	case "requestAnimationFrame":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				panic(vm.NewTypeError("Failed to execute 'requestAnimationFrame': 1 argument required"))
			}
			fn, ok := goja.AssertFunction(call.Arguments[0])
			if !ok {
				panic(vm.NewTypeError("Failed to execute 'requestAnimationFrame': parameter 1 is not a function"))
			}
			id := win.RequestAnimationFrame(func(ts float64) {
				w.ctx.call(fn, goja.Undefined(), vm.ToValue(ts))
			})
			return vm.ToValue(id)
		})
	case "cancelAnimationFrame":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) > 0 {
				win.CancelAnimationFrame(int(call.Arguments[0].ToInteger()))
			}
			return goja.Undefined()
		})
	case "addEventListener":
		return vm.ToValue(w.ctx.addEventListenerFn(win, w.ctx.windowProxy(win)))
	case "removeEventListener":
		return vm.ToValue(w.ctx.removeEventListenerFn(win))
	case "dispatchEvent":
		return vm.ToValue(dispatchEventFn(win.DispatchEvent))
	case "visualViewport":
		if vv, ok := win.VisualViewport().(*dom.VisualViewport); ok {
			return w.ctx.visualViewportProxy(vv)
		}
		return goja.Null()
	case "frameElement":
		if frame, ok := win.FrameElement().(*dom.Element); ok {
			return w.ctx.elementProxy(frame)
		}
		return goja.Null()
	case "parent":
		if p := win.Parent(); p != nil {
			return w.ctx.windowProxy(p)
		}
		return w.ctx.windowProxy(win)
	case "top":
		top := win
		for top.Parent() != nil {
			top = top.Parent()
		}
		return w.ctx.windowProxy(top)
	case "window", "self":
		return w.ctx.windowProxy(win)
	}
	return goja.Undefined()
}

func (w *windowAccessor) Set(key string, val goja.Value) bool {
	return false
}

func (w *windowAccessor) Has(key string) bool {
	for _, k := range windowKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (w *windowAccessor) Delete(key string) bool {
	return false
}

func (w *windowAccessor) Keys() []string {
	return windowKeys
}

// visualViewportProxy exposes the visual viewport's offsets, size and
// events.
func (ctx *domContext) visualViewportProxy(vv *dom.VisualViewport) goja.Value {
	if v, ok := ctx.viewports[vv]; ok {
		return v
	}
	vm := ctx.vm
	obj := vm.NewObject()
	getter := func(read func() float64) goja.Value {
		return vm.ToValue(func(goja.FunctionCall) goja.Value { return vm.ToValue(read()) })
	}
	obj.DefineAccessorProperty("offsetLeft", getter(vv.OffsetLeft), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	obj.DefineAccessorProperty("offsetTop", getter(vv.OffsetTop), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	obj.DefineAccessorProperty("width", getter(vv.Width), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	obj.DefineAccessorProperty("height", getter(vv.Height), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	var target platform.EventTarget = vv
	obj.Set("addEventListener", ctx.addEventListenerFn(target, obj))
	obj.Set("removeEventListener", ctx.removeEventListenerFn(target))
	ctx.viewports[vv] = obj
	return obj
}
