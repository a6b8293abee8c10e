// Package js runs JavaScript against a headless window: document and
// element bindings, window scrolling and animation frames, and the
// positioning API (computePosition, autoUpdate).
package js

import (
	"fmt"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"tether/pkg/dom"
	"tether/pkg/scene"
)

// Engine executes JavaScript against one window's DOM.
type Engine struct {
	vm  *goja.Runtime
	win *dom.Window
	ctx *domContext
	log *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger routes console output and engine diagnostics to log.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// New creates an engine bound to win with a fresh goja runtime.
func New(win *dom.Window, opts ...Option) *Engine {
	vm := goja.New()
	e := &Engine{vm: vm, win: win, log: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}

	c := &consoleAPI{log: e.log.Named("console")}
	c.register(vm)

	e.ctx = registerDocument(vm, win.Doc())
	e.ctx.log = e.log
	registerWindow(e.ctx, win)
	registerFloating(e.ctx)
	return e
}

// Execute runs scripts in order. Promise jobs queued by a script run before
// the next script starts.
func (e *Engine) Execute(scripts ...string) error {
	for i, script := range scripts {
		if _, err := e.vm.RunString(script); err != nil {
			return fmt.Errorf("script %d: %w", i, err)
		}
	}
	return nil
}

// Get returns a global variable, or nil when it is not defined.
func (e *Engine) Get(name string) goja.Value {
	return e.vm.Get(name)
}

// Close runs every autoUpdate cleanup the scripts left active and removes
// their event listeners.
func (e *Engine) Close() {
	e.ctx.closeSubscriptions()
}

// RunScene runs the scene's script against st and returns the engine so
// callers can keep ticking the window.
func RunScene(st *scene.Stage, opts ...Option) (*Engine, error) {
	e := New(st.Window, opts...)
	if st.Scene.Script == "" {
		return e, nil
	}
	if err := e.Execute(st.Scene.Script); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}
