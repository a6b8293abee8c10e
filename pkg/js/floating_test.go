package js

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tether/pkg/scene"
)

func tooltipStage(t *testing.T) *scene.Stage {
	t.Helper()
	s, err := scene.Load(filepath.Join("..", "scene", "testdata", "tooltip.toml"))
	require.NoError(t, err)
	st, err := s.Build()
	require.NoError(t, err)
	return st
}

func TestComputePositionResolvesAndPlaces(t *testing.T) {
	st := tooltipStage(t)
	e := New(st.Window)
	defer e.Close()

	run(t, e, `
		var ref = document.getElementById("anchor");
		var tip = document.getElementById("tooltip");
		var result = null;
		computePosition(ref, tip, {placement: "bottom"}).then(function (pos) {
			result = pos;
			Object.assign(tip.style, {left: pos.x + "px", top: pos.y + "px"});
		});
	`)
	result := e.Get("result").Export().(map[string]interface{})
	assert.EqualValues(t, 110, result["x"])
	assert.EqualValues(t, 140, result["y"])
	assert.Equal(t, "bottom", result["placement"])
	assert.Equal(t, "absolute", result["strategy"])

	anchor, _ := st.Element("anchor")
	tip, _ := st.Element("tooltip")
	assert.Equal(t, anchor.BoundingClientRect().Bottom(), tip.BoundingClientRect().Y)
}

func TestComputePositionRejectsBadPlacement(t *testing.T) {
	st := tooltipStage(t)
	e := New(st.Window)
	defer e.Close()

	run(t, e, `
		var reason = null;
		computePosition(document.getElementById("anchor"), document.getElementById("tooltip"), {placement: "middle"})
			.catch(function (err) { reason = err; });
	`)
	reason := e.Get("reason")
	require.NotNil(t, reason)
	assert.Contains(t, reason.String(), "middle")
}

func TestComputePositionVirtualReference(t *testing.T) {
	st := tooltipStage(t)
	e := New(st.Window)
	defer e.Close()

	run(t, e, `
		var virtual = {
			getBoundingClientRect: function () { return {x: 300, y: 100, width: 0, height: 0}; },
		};
		var result = null;
		computePosition(virtual, document.getElementById("tooltip"), {placement: "right-start", strategy: "fixed"})
			.then(function (pos) { result = pos; });
	`)
	result := e.Get("result").Export().(map[string]interface{})
	assert.Equal(t, "right-start", result["placement"])
	assert.Equal(t, "fixed", result["strategy"])
}

func TestAutoUpdateFollowsScroll(t *testing.T) {
	st := tooltipStage(t)
	e := New(st.Window)
	defer e.Close()

	run(t, e, `
		var calls = 0;
		var cleanup = autoUpdate(document.getElementById("anchor"), document.getElementById("tooltip"), function () {
			calls++;
		});
	`)
	assert.EqualValues(t, 1, e.Get("calls").ToInteger(), "update runs on activation")

	run(t, e, `window.scrollTo(0, 50);`)
	assert.EqualValues(t, 2, e.Get("calls").ToInteger(), "window scroll triggers update")

	run(t, e, `cleanup(); cleanup(); window.scrollTo(0, 60);`)
	assert.EqualValues(t, 2, e.Get("calls").ToInteger(), "no updates after cleanup")
}

func TestAutoUpdateAnimationFrame(t *testing.T) {
	st := tooltipStage(t)
	e := New(st.Window)
	defer e.Close()

	run(t, e, `
		var calls = 0;
		var anchor = document.getElementById("anchor");
		autoUpdate(anchor, document.getElementById("tooltip"), function () { calls++; }, {animationFrame: true});
		tick(16);
	`)
	assert.EqualValues(t, 1, e.Get("calls").ToInteger(), "unchanged frames do not update")

	run(t, e, `anchor.setLayoutRect(220, 200, 100, 50); tick(32);`)
	assert.EqualValues(t, 2, e.Get("calls").ToInteger())

	run(t, e, `window.scrollTo(0, 10);`)
	assert.EqualValues(t, 2, e.Get("calls").ToInteger(), "animationFrame disables scroll listeners")

	e.Close()
	assert.Zero(t, st.Window.PendingFrames(), "Close cancels the frame loop")
}

func TestRequestAnimationFrame(t *testing.T) {
	e, win := newPage(t)
	run(t, e, `
		var stamps = [];
		var id = requestAnimationFrame(function (ts) { stamps.push(ts); });
		var cancelled = window.requestAnimationFrame(function () { stamps.push(-1); });
		cancelAnimationFrame(cancelled);
	`)
	assert.Equal(t, 1, win.PendingFrames())
	run(t, e, `tick(42);`)
	assert.Equal(t, []interface{}{int64(42)}, e.Get("stamps").Export())
}

func TestWindowResizeEvent(t *testing.T) {
	e, _ := newPage(t)
	run(t, e, `
		var sizes = [];
		addEventListener("resize", function () { sizes.push(innerWidth()); });
		function innerWidth() { return window.innerWidth; }
		window.resizeTo(640, 480);
		if (sizes.join(",") !== "640") throw new Error("sizes " + sizes.join(","));
		if (window.innerHeight !== 480) throw new Error("innerHeight");
		if (window.visualViewport.width !== 640) throw new Error("visual viewport follows resize");
	`)
}

func TestRunSceneScript(t *testing.T) {
	st := tooltipStage(t)
	st.Scene.Script = `
		var tip = document.getElementById("tooltip");
		computePosition(document.getElementById("anchor"), tip).then(function (pos) {
			tip.style.left = pos.x + "px";
			tip.style.top = pos.y + "px";
		});
	`
	e, err := RunScene(st)
	require.NoError(t, err)
	defer e.Close()

	tip, _ := st.Element("tooltip")
	left, _ := tip.Style().Get("left")
	top, _ := tip.Style().Get("top")
	assert.Equal(t, "110px", left)
	assert.Equal(t, "140px", top)
}

func TestRunSceneScriptError(t *testing.T) {
	st := tooltipStage(t)
	st.Scene.Script = `undefinedFunction()`
	_, err := RunScene(st)
	assert.Error(t, err)
}
