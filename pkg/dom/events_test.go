package dom

import (
	"testing"

	"tether/pkg/platform"
)

func TestDispatchAndRemove(t *testing.T) {
	w := NewWindow()
	calls := 0
	remove := w.AddEventListener("scroll", func(ev platform.Event) {
		calls++
		if ev.Type != "scroll" {
			t.Errorf("unexpected event type %q", ev.Type)
		}
		if ev.Target != platform.EventTarget(w) {
			t.Error("event target should be the window")
		}
	}, platform.ListenerOptions{Passive: true})

	w.ScrollTo(0, 10)
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
	remove()
	remove()
	w.ScrollTo(0, 20)
	if calls != 1 {
		t.Errorf("expected no calls after removal, got %d", calls)
	}
	if w.ListenerCount("scroll") != 0 {
		t.Errorf("expected no listeners, got %d", w.ListenerCount("scroll"))
	}
}

func TestRemoveDuringDispatch(t *testing.T) {
	w := NewWindow()
	var second int
	var removeSecond func()
	w.AddEventListener("resize", func(platform.Event) { removeSecond() }, platform.ListenerOptions{})
	removeSecond = w.AddEventListener("resize", func(platform.Event) { second++ }, platform.ListenerOptions{})

	w.Resize(800, 600)
	if second != 0 {
		t.Error("listener removed during dispatch should be skipped")
	}
}

func TestAnimationFrames(t *testing.T) {
	w := NewWindow()
	var order []int
	w.RequestAnimationFrame(func(float64) { order = append(order, 1) })
	id := w.RequestAnimationFrame(func(float64) { order = append(order, 2) })
	w.RequestAnimationFrame(func(float64) {
		order = append(order, 3)
		w.RequestAnimationFrame(func(float64) { order = append(order, 4) })
	})
	w.CancelAnimationFrame(id)

	w.Tick(16)
	if len(order) != 2 || order[0] != 1 || order[1] != 3 {
		t.Fatalf("unexpected order %v", order)
	}
	if w.PendingFrames() != 1 {
		t.Errorf("expected the nested request to wait for the next tick")
	}
	w.Tick(32)
	if len(order) != 3 || order[2] != 4 {
		t.Errorf("unexpected order %v", order)
	}
}

func TestResizeObserver(t *testing.T) {
	w := NewWindow()
	el := w.Doc().CreateElement("div")
	w.Doc().BodyElement().AppendChild(el)
	el.SetLayoutRect(rect(0, 0, 100, 50))

	var deliveries [][]platform.ResizeObserverEntry
	o := w.NewResizeObserver(func(entries []platform.ResizeObserverEntry) {
		deliveries = append(deliveries, entries)
	})
	o.Observe(el)
	o.Observe(el)

	w.Tick(0)
	if len(deliveries) != 1 || len(deliveries[0]) != 1 {
		t.Fatalf("expected the initial observation, got %v", deliveries)
	}
	if got := deliveries[0][0].ContentRect.Width; got != 100 {
		t.Errorf("expected width 100, got %v", got)
	}

	w.Tick(16)
	if len(deliveries) != 1 {
		t.Error("unchanged size should not be delivered")
	}

	el.SetSize(120, 50)
	w.Tick(32)
	if len(deliveries) != 2 {
		t.Fatalf("expected a delivery after resize, got %d", len(deliveries))
	}

	o.Disconnect()
	el.SetSize(10, 10)
	w.Tick(48)
	if len(deliveries) != 2 {
		t.Error("disconnected observer should not deliver")
	}
}
