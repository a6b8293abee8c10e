package floating

import (
	"go.uber.org/zap"

	"tether/pkg/geom"
	"tether/pkg/platform"
)

type updateConfig struct {
	ancestorScroll bool
	ancestorResize bool
	elementResize  bool
	animationFrame bool
	logger         *zap.Logger
}

// UpdateOption configures AutoUpdate.
type UpdateOption func(*updateConfig)

// WithAncestorScroll toggles updates on overflow ancestor scroll. On by
// default; always off with WithAnimationFrame.
func WithAncestorScroll(on bool) UpdateOption {
	return func(c *updateConfig) { c.ancestorScroll = on }
}

// WithAncestorResize toggles updates on overflow ancestor resize. On by default.
func WithAncestorResize(on bool) UpdateOption {
	return func(c *updateConfig) { c.ancestorResize = on }
}

// WithElementResize toggles resize observation of the reference and the
// floating element. On by default.
func WithElementResize(on bool) UpdateOption {
	return func(c *updateConfig) { c.elementResize = on }
}

// WithAnimationFrame polls the reference rect every animation frame and
// updates when it moved. Off by default.
func WithAnimationFrame(on bool) UpdateOption {
	return func(c *updateConfig) { c.animationFrame = on }
}

// WithLogger logs activation and teardown at debug level.
func WithLogger(l *zap.Logger) UpdateOption {
	return func(c *updateConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// AutoUpdate calls update once now and again whenever the position of
// floating relative to ref may have changed. The returned cleanup removes
// everything AutoUpdate registered; calling it again does nothing.
func AutoUpdate(ref Reference, floating platform.Element, update func(), opts ...UpdateOption) (cleanup func()) {
	sub := Subscribe(ref, floating, update, opts...)
	return func() { sub.Dispose() }
}

// Subscribe is AutoUpdate returning the subscription itself.
func Subscribe(ref Reference, floating platform.Element, update func(), opts ...UpdateOption) *Subscription {
	cfg := updateConfig{
		ancestorScroll: true,
		ancestorResize: true,
		elementResize:  true,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	ancestorScroll := cfg.ancestorScroll && !cfg.animationFrame

	sub := newSubscription()
	log := cfg.logger.With(zap.String("subscription", sub.ID()))

	onEvent := func(platform.Event) { update() }

	var ancestors []platform.EventTarget
	if ancestorScroll || cfg.ancestorResize {
		if el := ref.Unwrap(); el != nil {
			ancestors = append(ancestors, OverflowAncestors(el)...)
		}
		if floating != nil {
			ancestors = append(ancestors, OverflowAncestors(floating)...)
		}
		ancestors = dedupTargets(ancestors)
	}
	for _, a := range ancestors {
		if ancestorScroll {
			sub.add(a.AddEventListener("scroll", onEvent, platform.ListenerOptions{Passive: true}))
		}
		if cfg.ancestorResize {
			sub.add(a.AddEventListener("resize", onEvent, platform.ListenerOptions{}))
		}
	}

	win := hostWindow(ref, floating)

	if cfg.elementResize && win != nil {
		initial := true
		observer := win.NewResizeObserver(func([]platform.ResizeObserverEntry) {
			if !initial {
				update()
			}
			initial = false
		})
		if el := ref.Unwrap(); el != nil && !cfg.animationFrame {
			observer.Observe(el)
		}
		if floating != nil {
			observer.Observe(floating)
		}
		sub.add(observer.Disconnect)
	}

	if cfg.animationFrame && win != nil {
		startFrameLoop(sub, win, ref, update)
	}

	log.Debug("autoUpdate activated",
		zap.Int("ancestors", len(ancestors)),
		zap.Bool("ancestorScroll", ancestorScroll),
		zap.Bool("ancestorResize", cfg.ancestorResize),
		zap.Bool("elementResize", cfg.elementResize),
		zap.Bool("animationFrame", cfg.animationFrame),
	)
	sub.add(func() { log.Debug("autoUpdate torn down") })

	update()
	return sub
}

// hostWindow is the window whose observers and frames drive the scheduler.
func hostWindow(ref Reference, floating platform.Element) platform.Window {
	if floating != nil {
		if win := platform.WindowOf(floating); win != nil {
			return win
		}
	}
	if el := ref.Unwrap(); el != nil {
		return platform.WindowOf(el)
	}
	return nil
}

// startFrameLoop samples the reference every frame and calls update when
// any of the four rect fields changed since the previous sample.
func startFrameLoop(sub *Subscription, win platform.Window, ref Reference, update func()) {
	prev := ref.BoundingClientRect()
	frameID := 0
	var loop func(float64)
	loop = func(float64) {
		next := ref.BoundingClientRect()
		if changed(prev, next) {
			update()
		}
		prev = next
		if sub.Disposed() {
			return
		}
		frameID = win.RequestAnimationFrame(loop)
	}
	loop(0)
	sub.add(func() { win.CancelAnimationFrame(frameID) })
}

func changed(a, b geom.Rect) bool {
	return !a.Equal(b)
}
