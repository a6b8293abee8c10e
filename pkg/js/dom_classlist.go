package js

import (
	"slices"
	"strconv"
	"strings"

	"github.com/dop251/goja"

	"tether/pkg/dom"
)

// tokenList backs element.classList. Every read goes back to the class
// attribute so the list never goes stale.
type tokenList struct {
	ctx *domContext
	el  *dom.Element
}

var tokenListMethods = []string{"add", "remove", "toggle", "contains", "replace", "item", "toString"}

func newClassListProxy(ctx *domContext, el *dom.Element) goja.Value {
	return ctx.vm.NewDynamicObject(&tokenList{ctx: ctx, el: el})
}

func (l *tokenList) tokens() []string {
	attr, _ := l.el.GetAttribute("class")
	return strings.Fields(attr)
}

func (l *tokenList) store(tokens []string) {
	l.el.SetAttribute("class", strings.Join(tokens, " "))
}

func (l *tokenList) fn(f func(args []goja.Value) goja.Value) goja.Value {
	return l.ctx.vm.ToValue(func(call goja.FunctionCall) goja.Value { return f(call.Arguments) })
}

func (l *tokenList) requireArgs(method string, args []goja.Value, n int) {
	if len(args) < n {
		panic(l.ctx.vm.NewTypeError("Failed to execute '" + method + "' on 'DOMTokenList': " +
			strconv.Itoa(n) + " argument(s) required"))
	}
}

func (l *tokenList) Get(key string) goja.Value {
	vm := l.ctx.vm
	switch key {
	case "length":
		return vm.ToValue(len(l.tokens()))
	case "value":
		return vm.ToValue(strings.Join(l.tokens(), " "))
	case "add":
		return l.fn(func(args []goja.Value) goja.Value {
			tokens := l.tokens()
			for _, a := range args {
				if t := a.String(); !slices.Contains(tokens, t) {
					tokens = append(tokens, t)
				}
			}
			l.store(tokens)
			return goja.Undefined()
		})
	case "remove":
		return l.fn(func(args []goja.Value) goja.Value {
			tokens := l.tokens()
			for _, a := range args {
				t := a.String()
				tokens = slices.DeleteFunc(tokens, func(s string) bool { return s == t })
			}
			l.store(tokens)
			return goja.Undefined()
		})
	case "toggle":
		return l.fn(func(args []goja.Value) goja.Value {
			l.requireArgs("toggle", args, 1)
			t := args[0].String()
			tokens := l.tokens()
			has := slices.Contains(tokens, t)
			on := !has
			if len(args) > 1 {
				on = args[1].ToBoolean()
			}
			switch {
			case on && !has:
				l.store(append(tokens, t))
			case !on && has:
				l.store(slices.DeleteFunc(tokens, func(s string) bool { return s == t }))
			}
			return vm.ToValue(on)
		})
	case "contains":
		return l.fn(func(args []goja.Value) goja.Value {
			return vm.ToValue(len(args) > 0 && slices.Contains(l.tokens(), args[0].String()))
		})
	case "replace":
		return l.fn(func(args []goja.Value) goja.Value {
			l.requireArgs("replace", args, 2)
			tokens := l.tokens()
			i := slices.Index(tokens, args[0].String())
			if i < 0 {
				return vm.ToValue(false)
			}
			tokens[i] = args[1].String()
			l.store(tokens)
			return vm.ToValue(true)
		})
	case "item":
		return l.fn(func(args []goja.Value) goja.Value {
			if len(args) == 0 {
				return goja.Null()
			}
			return l.at(int(args[0].ToInteger()), goja.Null())
		})
	case "toString":
		return l.fn(func([]goja.Value) goja.Value {
			return vm.ToValue(strings.Join(l.tokens(), " "))
		})
	}
	if i, err := strconv.Atoi(key); err == nil {
		return l.at(i, goja.Undefined())
	}
	return goja.Undefined()
}

func (l *tokenList) at(i int, missing goja.Value) goja.Value {
	tokens := l.tokens()
	if i < 0 || i >= len(tokens) {
		return missing
	}
	return l.ctx.vm.ToValue(tokens[i])
}

func (l *tokenList) Set(key string, val goja.Value) bool {
	if key != "value" {
		return false
	}
	l.el.SetAttribute("class", val.String())
	return true
}

func (l *tokenList) Has(key string) bool {
	if key == "length" || key == "value" || slices.Contains(tokenListMethods, key) {
		return true
	}
	i, err := strconv.Atoi(key)
	return err == nil && i >= 0 && i < len(l.tokens())
}

func (l *tokenList) Delete(string) bool { return false }

func (l *tokenList) Keys() []string {
	keys := make([]string, len(l.tokens()))
	for i := range keys {
		keys[i] = strconv.Itoa(i)
	}
	return append(keys, "length", "value")
}
