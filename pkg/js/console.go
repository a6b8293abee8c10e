package js

import (
	"strings"

	"github.com/dop251/goja"
	"go.uber.org/zap"
)

// consoleAPI implements console.log, console.debug, console.warn, and console.error.
type consoleAPI struct {
	log *zap.Logger
}

func (c *consoleAPI) register(vm *goja.Runtime) {
	console := vm.NewObject()
	console.Set("log", c.print(c.log.Info))
	console.Set("info", c.print(c.log.Info))
	console.Set("debug", c.print(c.log.Debug))
	console.Set("warn", c.print(c.log.Warn))
	console.Set("error", c.print(c.log.Error))
	vm.Set("console", console)
}

func (c *consoleAPI) print(emit func(string, ...zap.Field)) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		emit(formatArgs(call.Arguments))
		return goja.Undefined()
	}
}

func formatArgs(args []goja.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.String()
	}
	return strings.Join(parts, " ")
}
