package dom

import "tether/pkg/platform"

type listenerEntry struct {
	fn      platform.Listener
	opts    platform.ListenerOptions
	removed bool
}

// eventTarget is embedded by everything that receives events.
type eventTarget struct {
	self      platform.EventTarget
	listeners map[string][]*listenerEntry
}

func (t *eventTarget) init(self platform.EventTarget) {
	t.self = self
	t.listeners = make(map[string][]*listenerEntry)
}

// AddEventListener registers fn for eventType. The returned function removes
// it and may be called any number of times.
func (t *eventTarget) AddEventListener(eventType string, fn platform.Listener, opts platform.ListenerOptions) func() {
	entry := &listenerEntry{fn: fn, opts: opts}
	t.listeners[eventType] = append(t.listeners[eventType], entry)
	return func() {
		if entry.removed {
			return
		}
		entry.removed = true
		list := t.listeners[eventType]
		for i, e := range list {
			if e == entry {
				t.listeners[eventType] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
	}
}

// DispatchEvent calls every listener registered for eventType, in
// registration order. Listeners added during dispatch are not called;
// listeners removed during dispatch are skipped.
func (t *eventTarget) DispatchEvent(eventType string) {
	list := append([]*listenerEntry(nil), t.listeners[eventType]...)
	ev := platform.Event{Type: eventType, Target: t.self}
	for _, e := range list {
		if e.removed {
			continue
		}
		e.fn(ev)
	}
}

// ListenerCount returns how many listeners are registered for eventType.
func (t *eventTarget) ListenerCount(eventType string) int {
	return len(t.listeners[eventType])
}
