package js

import (
	"github.com/dop251/goja"

	"tether/pkg/floating"
	"tether/pkg/geom"
	"tether/pkg/placement"
)

// registerFloating sets computePosition and autoUpdate globals.
//
// computePosition(reference, floating, {placement, strategy}) returns a
// promise of {x, y, placement, strategy, rects}. reference is an element or
// a virtual element: an object with getBoundingClientRect() and an optional
// contextElement.
//
// autoUpdate(reference, floating, update, options) calls update now and
// whenever the position may have changed, and returns its cleanup.
func registerFloating(ctx *domContext) {
	vm := ctx.vm
	vm.Set("computePosition", func(call goja.FunctionCall) goja.Value {
		promise, resolve, reject := vm.NewPromise()
		pos, reason := ctx.computePosition(call)
		if reason != nil {
			reject(reason)
		} else {
			resolve(pos)
		}
		return vm.ToValue(promise)
	})
	vm.Set("autoUpdate", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 3 {
			panic(vm.NewTypeError("Failed to execute 'autoUpdate': 3 arguments required"))
		}
		ref := ctx.reference(call.Arguments[0])
		fl := ctx.unwrapElement(call.Arguments[1])
		if fl == nil {
			panic(vm.NewTypeError("Failed to execute 'autoUpdate': parameter 2 is not an Element"))
		}
		update, ok := goja.AssertFunction(call.Arguments[2])
		if !ok {
			panic(vm.NewTypeError("Failed to execute 'autoUpdate': parameter 3 is not a function"))
		}
		opts := []floating.UpdateOption{floating.WithLogger(ctx.log.Named("autoupdate"))}
		if len(call.Arguments) > 3 {
			opts = append(opts, updateOptions(call.Arguments[3])...)
		}
		cleanup := floating.AutoUpdate(ref, fl, func() {
			ctx.call(update, goja.Undefined())
		}, opts...)
		ctx.subscriptions = append(ctx.subscriptions, cleanup)
		return vm.ToValue(func(goja.FunctionCall) goja.Value {
			cleanup()
			return goja.Undefined()
		})
	})
}

// computePosition returns the result object, or a rejection reason.
func (ctx *domContext) computePosition(call goja.FunctionCall) (goja.Value, goja.Value) {
	vm := ctx.vm
	if len(call.Arguments) < 2 {
		return nil, vm.NewTypeError("Failed to execute 'computePosition': 2 arguments required")
	}
	ref := ctx.reference(call.Arguments[0])
	fl := ctx.unwrapElement(call.Arguments[1])
	if fl == nil {
		return nil, vm.NewTypeError("Failed to execute 'computePosition': parameter 2 is not an Element")
	}

	var opts []floating.PositionOption
	if len(call.Arguments) > 2 {
		if obj, ok := call.Arguments[2].(*goja.Object); ok {
			if v := obj.Get("placement"); v != nil && !goja.IsUndefined(v) {
				p, err := placement.Parse(v.String())
				if err != nil {
					return nil, vm.NewTypeError(err.Error())
				}
				opts = append(opts, floating.WithPlacement(p))
			}
			if v := obj.Get("strategy"); v != nil && !goja.IsUndefined(v) {
				s, err := floating.ParseStrategy(v.String())
				if err != nil {
					return nil, vm.NewTypeError(err.Error())
				}
				opts = append(opts, floating.WithStrategy(s))
			}
		}
	}

	pos := floating.ComputePosition(ref, fl, opts...)
	out := vm.NewObject()
	out.Set("x", pos.X)
	out.Set("y", pos.Y)
	out.Set("placement", pos.Placement.String())
	out.Set("strategy", string(pos.Strategy))
	rects := vm.NewObject()
	rects.Set("reference", ctx.rectObject(pos.Rects.Reference))
	rects.Set("floating", ctx.rectObject(pos.Rects.Floating))
	out.Set("rects", rects)
	out.Set("middlewareData", vm.NewObject())
	return out, nil
}

// reference converts an element proxy or a virtual element object.
func (ctx *domContext) reference(v goja.Value) floating.Reference {
	if el := ctx.unwrapElement(v); el != nil {
		return floating.Concrete(el)
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		return floating.Concrete(nil)
	}
	provider := floating.RectFunc(func() geom.Rect {
		fn, ok := goja.AssertFunction(obj.Get("getBoundingClientRect"))
		if !ok {
			return geom.Rect{}
		}
		return rectFromValue(ctx.call(fn, obj))
	})
	if context := ctx.unwrapElement(obj.Get("contextElement")); context != nil {
		return floating.Virtual(provider, context)
	}
	return floating.Virtual(provider, nil)
}

// rectFromValue reads x/y/width/height, falling back to left/top.
func rectFromValue(v goja.Value) geom.Rect {
	obj, ok := v.(*goja.Object)
	if !ok {
		return geom.Rect{}
	}
	num := func(names ...string) float64 {
		for _, n := range names {
			if f := obj.Get(n); f != nil && !goja.IsUndefined(f) {
				return f.ToFloat()
			}
		}
		return 0
	}
	return geom.Rect{
		X:      num("x", "left"),
		Y:      num("y", "top"),
		Width:  num("width"),
		Height: num("height"),
	}
}

func updateOptions(v goja.Value) []floating.UpdateOption {
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil
	}
	var opts []floating.UpdateOption
	flag := func(name string, opt func(bool) floating.UpdateOption) {
		if f := obj.Get(name); f != nil && !goja.IsUndefined(f) {
			opts = append(opts, opt(f.ToBoolean()))
		}
	}
	flag("ancestorScroll", floating.WithAncestorScroll)
	flag("ancestorResize", floating.WithAncestorResize)
	flag("elementResize", floating.WithElementResize)
	flag("animationFrame", floating.WithAnimationFrame)
	return opts
}

// closeSubscriptions tears down every autoUpdate and event listener
// scripts registered.
func (ctx *domContext) closeSubscriptions() {
	for _, cleanup := range ctx.subscriptions {
		cleanup()
	}
	ctx.subscriptions = nil
	for _, l := range ctx.listeners {
		l.remove()
	}
	ctx.listeners = nil
}
