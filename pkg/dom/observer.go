package dom

import (
	"tether/pkg/geom"
	"tether/pkg/platform"
)

type observation struct {
	el        *Element
	last      geom.Dimensions
	delivered bool
}

// ResizeObserver reports content-box size changes on Window.Tick. The first
// tick after Observe always reports the observed element.
type ResizeObserver struct {
	win     *Window
	cb      platform.ResizeObserverCallback
	targets []*observation
}

// NewResizeObserver creates an observer driven by w's ticks.
func (w *Window) NewResizeObserver(cb platform.ResizeObserverCallback) platform.ResizeObserver {
	o := &ResizeObserver{win: w, cb: cb}
	w.observers = append(w.observers, o)
	return o
}

// Observe starts observing el. Elements from other implementations are
// ignored, as are repeated calls.
func (o *ResizeObserver) Observe(el platform.Element) {
	e, ok := el.(*Element)
	if !ok || e == nil {
		return
	}
	for _, t := range o.targets {
		if t.el == e {
			return
		}
	}
	o.targets = append(o.targets, &observation{el: e})
	o.attach()
}

func (o *ResizeObserver) Unobserve(el platform.Element) {
	for i, t := range o.targets {
		if platform.Element(t.el) == el {
			o.targets = append(o.targets[:i], o.targets[i+1:]...)
			return
		}
	}
}

// Disconnect stops observing everything and detaches from the window.
func (o *ResizeObserver) Disconnect() {
	o.targets = nil
	obs := o.win.observers
	for i, other := range obs {
		if other == o {
			o.win.observers = append(obs[:i], obs[i+1:]...)
			return
		}
	}
}

// Observed returns the number of observed elements.
func (o *ResizeObserver) Observed() int { return len(o.targets) }

func (o *ResizeObserver) attach() {
	for _, other := range o.win.observers {
		if other == o {
			return
		}
	}
	o.win.observers = append(o.win.observers, o)
}

func (o *ResizeObserver) deliver() {
	var entries []platform.ResizeObserverEntry
	for _, t := range o.targets {
		box := t.el.contentBox()
		size := box.Size()
		if t.delivered && size == t.last {
			continue
		}
		t.delivered = true
		t.last = size
		entries = append(entries, platform.ResizeObserverEntry{
			Target:      t.el,
			ContentRect: geom.Rect{Width: size.Width, Height: size.Height},
		})
	}
	if len(entries) > 0 && o.cb != nil {
		o.cb(entries)
	}
}
