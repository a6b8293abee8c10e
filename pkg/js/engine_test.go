package js

import (
	"errors"
	"strings"
	"testing"

	"github.com/dop251/goja"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"tether/pkg/dom"
	"tether/pkg/geom"
)

func newPage(t *testing.T, opts ...Option) (*Engine, *dom.Window) {
	t.Helper()
	win := dom.NewWindow(dom.WithViewport(800, 600))
	e := New(win, opts...)
	t.Cleanup(e.Close)
	return e, win
}

func run(t *testing.T, e *Engine, script string) {
	t.Helper()
	if err := e.Execute(script); err != nil {
		t.Fatal(err)
	}
}

func TestGetElementById(t *testing.T) {
	e, win := newPage(t)
	el := win.Doc().CreateElement("div")
	el.SetAttribute("id", "foo")
	win.Doc().BodyElement().AppendChild(el)

	run(t, e, `
		var el = document.getElementById("foo");
		if (el === null) throw new Error("element not found");
		if (el.id !== "foo") throw new Error("wrong id: " + el.id);
		if (el.tagName !== "DIV") throw new Error("wrong tagName: " + el.tagName);
		if (document.getElementById("foo") !== el) throw new Error("proxy identity lost");
	`)
}

func TestGetElementByIdNotFound(t *testing.T) {
	e, _ := newPage(t)
	run(t, e, `
		var el = document.getElementById("nonexistent");
		if (el !== null) throw new Error("expected null, got: " + el);
	`)
}

func TestScriptErrorNamesScript(t *testing.T) {
	e, _ := newPage(t)
	err := e.Execute(`var ok = 1;`, `throw new Error("boom")`)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.HasPrefix(err.Error(), "script 1:") {
		t.Errorf("error should name the script index, got %q", err)
	}
	var exc *goja.Exception
	if !errors.As(err, &exc) {
		t.Errorf("expected a wrapped *goja.Exception, got %T", errors.Unwrap(err))
	}
}

func TestConsoleRoutesToLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	e, _ := newPage(t, WithLogger(zap.New(core)))
	run(t, e, `
		console.log("hello", 1);
		console.warn("careful");
		console.error("bad");
	`)
	entries := logs.FilterLoggerName("console").All()
	if len(entries) != 3 {
		t.Fatalf("expected 3 console entries, got %d", len(entries))
	}
	if entries[0].Message != "hello 1" || entries[0].Level != zapcore.InfoLevel {
		t.Errorf("unexpected first entry %+v", entries[0].Entry)
	}
	if entries[1].Level != zapcore.WarnLevel || entries[2].Level != zapcore.ErrorLevel {
		t.Error("warn and error should keep their levels")
	}
}

func TestStyleProxy(t *testing.T) {
	e, win := newPage(t)
	run(t, e, `
		var el = document.createElement("div");
		el.style.backgroundColor = "red";
		el.style.webkitBackdropFilter = "blur(2px)";
		if (el.style.backgroundColor !== "red") throw new Error("got " + el.style.backgroundColor);
		el.id = "styled";
		document.body.appendChild(el);
	`)
	el := win.Doc().GetElementByID("styled")
	if el == nil {
		t.Fatal("element not appended")
	}
	if v, _ := el.Style().Get("background-color"); v != "red" {
		t.Errorf("background-color = %q", v)
	}
	if v, _ := el.Style().Get("-webkit-backdrop-filter"); v != "blur(2px)" {
		t.Errorf("-webkit-backdrop-filter = %q", v)
	}
}

func TestStyleInsetsMovePositionedElement(t *testing.T) {
	e, win := newPage(t)
	doc := win.Doc()
	box := doc.CreateElement("div")
	box.SetAttribute("id", "box")
	box.SetStyle("position: relative; border: 5px solid black")
	box.SetLayoutRect(geom.NewRect(100, 100, 200, 200))
	doc.BodyElement().AppendChild(box)
	tip := doc.CreateElement("div")
	tip.SetAttribute("id", "tip")
	tip.SetStyle("position: absolute")
	tip.SetLayoutRect(geom.NewRect(0, 0, 20, 10))
	box.AppendChild(tip)

	run(t, e, `
		var tip = document.getElementById("tip");
		Object.assign(tip.style, {left: "10px", top: "20px"});
		var r = tip.getBoundingClientRect();
		if (r.x !== 115 || r.y !== 125) throw new Error("rect at " + r.x + "," + r.y);
		if (r.right !== 135 || r.bottom !== 135) throw new Error("right/bottom " + r.right + "," + r.bottom);
	`)
	if got := tip.LayoutRect(); got != geom.NewRect(115, 125, 20, 10) {
		t.Errorf("layout rect = %+v", got)
	}
}

func TestCssText(t *testing.T) {
	e, _ := newPage(t)
	run(t, e, `
		var el = document.createElement("div");
		el.style.cssText = "width: 1px; position: fixed";
		if (el.style.cssText !== "position: fixed; width: 1px") throw new Error(el.style.cssText);
		if (el.getAttribute("style") !== el.style.cssText) throw new Error("style attribute mismatch");
	`)
}

func TestGetReturnsGlobals(t *testing.T) {
	e, _ := newPage(t)
	run(t, e, `var answer = 6 * 7;`)
	if v := e.Get("answer"); v == nil || v.ToInteger() != 42 {
		t.Errorf("answer = %v", v)
	}
	if e.Get("missing") != nil {
		t.Error("undefined globals should be nil")
	}
}

func TestUnwrapElement(t *testing.T) {
	e, win := newPage(t)
	doc := win.Doc()
	var els []*dom.Element
	for i := 0; i < 64; i++ {
		el := doc.CreateElement("div")
		doc.BodyElement().AppendChild(el)
		els = append(els, el)
	}
	for _, el := range els {
		if got := e.ctx.unwrapElement(e.ctx.elementProxy(el)); got != el {
			t.Fatalf("proxy of %p unwrapped to %p", el, got)
		}
	}
	if e.ctx.unwrapElement(e.vm.NewObject()) != nil {
		t.Error("plain objects are not elements")
	}
	if e.ctx.unwrapElement(goja.Null()) != nil {
		t.Error("null is not an element")
	}

	run(t, e, `
		var last = document.body.lastElementChild;
		if (!document.body.contains(last)) throw new Error("contains after round trip");
		if (document.body.removeChild(last) !== last) throw new Error("removeChild identity");
	`)
	if els[63].ParentElement() != nil {
		t.Error("removed element is still attached")
	}
}
