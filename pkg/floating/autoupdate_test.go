package floating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"tether/pkg/dom"
	"tether/pkg/geom"
)

type scene struct {
	win      *dom.Window
	scroller *dom.Element
	ref      *dom.Element
	floating *dom.Element
}

func newScene() scene {
	w := newWindow()
	body := w.Doc().BodyElement()
	scroller := add(body, "div", "overflow: auto", rect(0, 0, 300, 300))
	ref := add(scroller, "button", "", rect(20, 20, 80, 30))
	floating := add(body, "div", "position: absolute", rect(0, 0, 120, 40))
	return scene{win: w, scroller: scroller, ref: ref, floating: floating}
}

func TestAutoUpdateInitialCall(t *testing.T) {
	calls := 0
	cleanup := AutoUpdate(Virtual(RectFunc(func() geom.Rect { return geom.Rect{} }), nil), nil, func() { calls++ })
	assert.Equal(t, 1, calls)
	cleanup()
	cleanup()
	assert.Equal(t, 1, calls)

	s := newScene()
	calls = 0
	cleanup = AutoUpdate(Concrete(s.ref), s.floating, func() { calls++ })
	defer cleanup()
	assert.Equal(t, 1, calls)
}

func TestAutoUpdateAncestorScroll(t *testing.T) {
	s := newScene()
	calls := 0
	cleanup := AutoUpdate(Concrete(s.ref), s.floating, func() { calls++ })
	require.Equal(t, 1, calls)

	s.scroller.ScrollTo(0, 10)
	assert.Equal(t, 2, calls)
	s.win.ScrollTo(0, 10)
	assert.Equal(t, 3, calls)
	s.win.Resize(640, 480)
	assert.Equal(t, 5, calls, "window and visual viewport both report resize")

	cleanup()
	s.scroller.ScrollTo(0, 20)
	s.win.ScrollTo(0, 20)
	assert.Equal(t, 5, calls)
	cleanup()

	assert.Zero(t, s.scroller.ListenerCount("scroll"))
	assert.Zero(t, s.win.ListenerCount("scroll"))
	assert.Zero(t, s.win.ListenerCount("resize"))
}

func TestAutoUpdateListenersDeduplicated(t *testing.T) {
	s := newScene()
	cleanup := AutoUpdate(Concrete(s.ref), s.floating, func() {})
	defer cleanup()

	assert.Equal(t, 1, s.win.ListenerCount("scroll"))
	assert.Equal(t, 1, s.win.ListenerCount("resize"))
	assert.Equal(t, 1, s.scroller.ListenerCount("scroll"))
}

func TestAutoUpdateFlags(t *testing.T) {
	s := newScene()
	calls := 0
	cleanup := AutoUpdate(Concrete(s.ref), s.floating, func() { calls++ },
		WithAncestorScroll(false), WithAncestorResize(false), WithElementResize(false))
	defer cleanup()

	s.scroller.ScrollTo(0, 10)
	s.win.Resize(100, 100)
	s.ref.SetSize(10, 10)
	s.win.Tick(16)
	assert.Equal(t, 1, calls)
	assert.Zero(t, s.win.ListenerCount("scroll"))
}

func TestAutoUpdateElementResize(t *testing.T) {
	s := newScene()
	calls := 0
	cleanup := AutoUpdate(Concrete(s.ref), s.floating, func() { calls++ })

	s.win.Tick(0)
	assert.Equal(t, 1, calls, "initial observation is suppressed")

	s.ref.SetSize(90, 30)
	s.win.Tick(16)
	assert.Equal(t, 2, calls)

	s.floating.SetSize(100, 40)
	s.win.Tick(32)
	assert.Equal(t, 3, calls)

	s.win.Tick(48)
	assert.Equal(t, 3, calls)

	cleanup()
	s.ref.SetSize(10, 10)
	s.win.Tick(64)
	assert.Equal(t, 3, calls)
}

func TestAutoUpdateAnimationFrame(t *testing.T) {
	s := newScene()
	calls := 0
	cleanup := AutoUpdate(Concrete(s.ref), s.floating, func() { calls++ }, WithAnimationFrame(true))
	require.Equal(t, 1, calls)

	assert.Zero(t, s.scroller.ListenerCount("scroll"), "animationFrame disables ancestor scroll")
	assert.Equal(t, 1, s.win.ListenerCount("resize"))

	s.win.Tick(16)
	assert.Equal(t, 1, calls)

	s.ref.SetLayoutRect(rect(25, 20, 80, 30))
	s.win.Tick(32)
	assert.Equal(t, 2, calls, "one call for the transition")
	s.win.Tick(48)
	assert.Equal(t, 2, calls, "no call without change")

	s.scroller.ScrollTo(0, 5)
	assert.Equal(t, 2, calls, "scroll events are not listened to")
	s.win.Tick(64)
	assert.Equal(t, 3, calls, "the frame loop sees the scrolled reference")

	s.ref.SetSize(10, 10)
	s.win.Tick(80)
	assert.Equal(t, 4, calls, "size change seen once by the frame loop, reference not observed")

	cleanup()
	assert.Zero(t, s.win.PendingFrames())
	s.ref.SetLayoutRect(rect(0, 0, 1, 1))
	s.win.Tick(96)
	assert.Equal(t, 4, calls)
}

func TestAutoUpdateVirtualContext(t *testing.T) {
	s := newScene()
	calls := 0
	ref := Virtual(RectFunc(func() geom.Rect { return rect(1, 1, 0, 0) }), s.ref)
	cleanup := AutoUpdate(ref, s.floating, func() { calls++ })
	defer cleanup()

	s.scroller.ScrollTo(0, 1)
	assert.Equal(t, 2, calls)
}

func TestAutoUpdateVirtualContextResize(t *testing.T) {
	s := newScene()
	calls := 0
	ref := Virtual(RectFunc(func() geom.Rect { return rect(1, 1, 0, 0) }), s.ref)
	cleanup := AutoUpdate(ref, s.floating, func() { calls++ })

	s.win.Tick(0)
	require.Equal(t, 1, calls, "initial observation is suppressed")
	s.ref.SetSize(90, 30)
	s.win.Tick(16)
	assert.Equal(t, 2, calls, "the context element is observed")
	cleanup()

	calls = 0
	cleanup = AutoUpdate(ref, s.floating, func() { calls++ }, WithAnimationFrame(true))
	defer cleanup()
	s.win.Tick(32)
	require.Equal(t, 1, calls)
	s.ref.SetSize(60, 30)
	s.win.Tick(48)
	assert.Equal(t, 1, calls, "animationFrame skips observing the context element")
}

func TestAutoUpdateLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := newScene()
	sub := Subscribe(Concrete(s.ref), s.floating, func() {}, WithLogger(zap.New(core)))
	require.Equal(t, 1, logs.FilterMessage("autoUpdate activated").Len())

	assert.True(t, sub.Dispose())
	assert.False(t, sub.Dispose())
	assert.True(t, sub.Disposed())

	torn := logs.FilterMessage("autoUpdate torn down").All()
	require.Len(t, torn, 1)
	assert.Equal(t, sub.ID(), torn[0].ContextMap()["subscription"])
}

func TestSubscription(t *testing.T) {
	sub := newSubscription()
	var order []int
	sub.add(func() { order = append(order, 1) })
	sub.add(nil)
	sub.add(func() { order = append(order, 2) })
	assert.Equal(t, 2, sub.Len())

	sub.Dispose()
	sub.Dispose()
	assert.Equal(t, []int{1, 2}, order)
	assert.Zero(t, sub.Len())

	sub.add(func() { order = append(order, 3) })
	assert.Equal(t, []int{1, 2, 3}, order, "late disposers run immediately")
	assert.NotEqual(t, sub.ID(), newSubscription().ID())
}
