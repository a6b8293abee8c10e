package snapshot

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// collectorJS records the page as a Page value. It is called with one
// options object: {selector, reference, floating, props}.
const collectorJS = `(function (opts) {
	var all = Array.prototype.slice.call(document.querySelectorAll(opts.selector));
	var ref = opts.reference ? document.querySelector(opts.reference) : null;
	var fl = opts.floating ? document.querySelector(opts.floating) : null;
	[ref, fl].forEach(function (el) {
		if (el && all.indexOf(el) < 0) all.push(el);
	});
	all.sort(function (a, b) {
		return a.compareDocumentPosition(b) & Node.DOCUMENT_POSITION_FOLLOWING ? -1 : 1;
	});

	var ids = new Map();
	var used = {};
	all.forEach(function (el, i) {
		var id = el.id && !used[el.id] ? el.id : "n" + i;
		used[id] = true;
		ids.set(el, id);
	});

	function parentID(el) {
		for (var p = el.parentElement; p; p = p.parentElement) {
			if (ids.has(p)) return ids.get(p);
		}
		return "";
	}
	function scrolled(el) {
		var x = 0, y = 0;
		for (var p = el.parentElement; p && p !== document.documentElement; p = p.parentElement) {
			x += p.scrollLeft;
			y += p.scrollTop;
		}
		return [x, y];
	}
	function style(el) {
		var cs = getComputedStyle(el);
		var out = [];
		Object.keys(opts.props).forEach(function (name) {
			var v = cs.getPropertyValue(name);
			if (v && v !== opts.props[name]) out.push(name + ": " + v);
		});
		return out.join("; ");
	}

	var nodes = all.map(function (el) {
		var r = el.getBoundingClientRect();
		var s = scrolled(el);
		var node = {
			id: ids.get(el),
			tag: el.localName,
			parent: parentID(el),
			rect: [r.left + s[0] + scrollX, r.top + s[1] + scrollY, r.width, r.height],
			style: style(el),
			foreign: el.namespaceURI !== "http://www.w3.org/1999/xhtml"
		};
		if (el.scrollLeft || el.scrollTop) node.scroll = [el.scrollLeft, el.scrollTop];
		return node;
	});

	var vv = window.visualViewport;
	var viewport = {
		width: innerWidth,
		height: innerHeight,
		scrollX: scrollX,
		scrollY: scrollY,
		userAgent: navigator.userAgent
	};
	if (vv && vv.scale !== 1) viewport.visual = [vv.offsetLeft, vv.offsetTop, vv.width, vv.height];

	return {
		title: document.title,
		viewport: viewport,
		nodes: nodes,
		reference: ref ? ids.get(ref) : "",
		floating: fl ? ids.get(fl) : ""
	};
})`

// recordedProps are the computed properties a scene keeps, with the value
// that is left out because it is the initial one.
var recordedProps = map[string]string{
	"position":            "static",
	"display":             "block",
	"overflow-x":          "visible",
	"overflow-y":          "visible",
	"transform":           "none",
	"translate":           "none",
	"scale":               "none",
	"rotate":              "none",
	"perspective":         "none",
	"filter":              "none",
	"backdrop-filter":     "none",
	"will-change":         "auto",
	"contain":             "none",
	"container-type":      "normal",
	"direction":           "ltr",
	"z-index":             "auto",
	"border-top-width":    "0px",
	"border-right-width":  "0px",
	"border-bottom-width": "0px",
	"border-left-width":   "0px",
	"border-top-style":    "none",
	"border-right-style":  "none",
	"border-bottom-style": "none",
	"border-left-style":   "none",
	"background-color":    "rgba(0, 0, 0, 0)",
}

// collectorCall builds the expression that runs collectorJS.
func collectorCall(selector, reference, floating string) (string, error) {
	args, err := jsoniter.Marshal(map[string]interface{}{
		"selector":  selector,
		"reference": reference,
		"floating":  floating,
		"props":     recordedProps,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode collector options: %w", err)
	}
	return collectorJS + "(" + string(args) + ")", nil
}
