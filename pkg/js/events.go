package js

import (
	"github.com/dop251/goja"
	"go.uber.org/zap"

	"tether/pkg/platform"
)

// listenerBinding ties a JS listener to the remover its target returned.
type listenerBinding struct {
	target    platform.EventTarget
	eventType string
	fn        goja.Value
	remove    func()
}

// addEventListenerFn implements target.addEventListener(type, fn, options).
// Adding the same function twice for the same type is a no-op.
func (ctx *domContext) addEventListenerFn(target platform.EventTarget, self goja.Value) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			panic(ctx.vm.NewTypeError("Failed to execute 'addEventListener': 2 arguments required"))
		}
		eventType := call.Arguments[0].String()
		fnVal := call.Arguments[1]
		fn, ok := goja.AssertFunction(fnVal)
		if !ok {
			return goja.Undefined()
		}
		if ctx.findListener(target, eventType, fnVal) >= 0 {
			return goja.Undefined()
		}
		var opts platform.ListenerOptions
		if len(call.Arguments) > 2 {
			if obj, ok := call.Arguments[2].(*goja.Object); ok {
				if v := obj.Get("passive"); v != nil {
					opts.Passive = v.ToBoolean()
				}
			}
		}
		remove := target.AddEventListener(eventType, func(ev platform.Event) {
			evObj := ctx.vm.NewObject()
			evObj.Set("type", ev.Type)
			evObj.Set("target", self)
			ctx.call(fn, self, evObj)
		}, opts)
		ctx.listeners = append(ctx.listeners, &listenerBinding{
			target:    target,
			eventType: eventType,
			fn:        fnVal,
			remove:    remove,
		})
		return goja.Undefined()
	}
}

// removeEventListenerFn implements target.removeEventListener(type, fn).
func (ctx *domContext) removeEventListenerFn(target platform.EventTarget) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			return goja.Undefined()
		}
		i := ctx.findListener(target, call.Arguments[0].String(), call.Arguments[1])
		if i < 0 {
			return goja.Undefined()
		}
		ctx.listeners[i].remove()
		ctx.listeners = append(ctx.listeners[:i], ctx.listeners[i+1:]...)
		return goja.Undefined()
	}
}

func (ctx *domContext) findListener(target platform.EventTarget, eventType string, fn goja.Value) int {
	for i, l := range ctx.listeners {
		if l.target == target && l.eventType == eventType && l.fn.SameAs(fn) {
			return i
		}
	}
	return -1
}

// dispatchEventFn implements target.dispatchEvent(event). The event may be a
// type string or an object with a type property.
func dispatchEventFn(dispatch func(string)) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return goja.Undefined()
		}
		eventType := call.Arguments[0].String()
		if obj, ok := call.Arguments[0].(*goja.Object); ok {
			if v := obj.Get("type"); v != nil {
				eventType = v.String()
			}
		}
		dispatch(eventType)
		return goja.Undefined()
	}
}

// call invokes a JS callback from Go. Exceptions are logged rather than
// returned, as a browser reports errors thrown by event handlers.
func (ctx *domContext) call(fn goja.Callable, this goja.Value, args ...goja.Value) goja.Value {
	v, err := fn(this, args...)
	if err != nil {
		ctx.log.Warn("uncaught exception in callback", zap.Error(err))
		return goja.Undefined()
	}
	return v
}
