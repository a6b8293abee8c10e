package floating

import (
	"regexp"

	"tether/pkg/css"
	"tether/pkg/platform"
)

var overflowRe = regexp.MustCompile(`auto|scroll|overlay|hidden|clip`)

// IsOverflowElement reports whether el clips or scrolls its content on any
// axis. Inline and display: contents boxes never do.
func IsOverflowElement(el platform.Element) bool {
	if el == nil {
		return false
	}
	style := el.ComputedStyle()
	switch style.GetDisplay() {
	case css.DisplayInline, css.DisplayContents:
		return false
	}
	return overflowRe.MatchString(style.Overflow())
}

// IsTableElement reports whether el is a table, td or th.
func IsTableElement(el platform.Element) bool {
	switch el.NodeName() {
	case "table", "td", "th":
		return true
	}
	return false
}

// isLastTraversableNode is true for the nodes ancestor walks stop at.
func isLastTraversableNode(n platform.Node) bool {
	if n == nil {
		return true
	}
	switch n.NodeName() {
	case "html", "body", "#document":
		return true
	}
	return false
}

// ParentNode returns the parent of n in the flat tree: the assigned slot of
// a slotted element, else the parent node, else the host of a shadow root,
// else the document element. A shadow root result is replaced by its host.
// The document element is its own parent.
func ParentNode(n platform.Node) platform.Node {
	if n == nil {
		return nil
	}
	if n.NodeName() == "html" {
		return n
	}
	var result platform.Node
	if el, ok := platform.AsElement(n); ok {
		if slot := el.AssignedSlot(); slot != nil {
			result = slot
		}
	}
	if result == nil {
		result = n.ParentNode()
	}
	if result == nil {
		if sr, ok := platform.AsShadowRoot(n); ok && sr.Host() != nil {
			result = sr.Host()
		}
	}
	if result == nil {
		if de := platform.DocumentElementOf(n); de != nil {
			result = de
		}
	}
	if sr, ok := platform.AsShadowRoot(result); ok {
		if host := sr.Host(); host != nil {
			return host
		}
		return nil
	}
	return result
}

func bodyOf(n platform.Node) platform.Element {
	doc, ok := n.(platform.Document)
	if !ok {
		doc = n.OwnerDocument()
	}
	if doc == nil {
		return nil
	}
	return doc.Body()
}

// nearestOverflowAncestor walks the flat tree up from n and returns the first
// overflow element, or the body once the walk reaches html, body or the
// document. It returns nil for detached nodes.
func nearestOverflowAncestor(n platform.Node) platform.Element {
	for n != nil {
		parent := ParentNode(n)
		if isLastTraversableNode(parent) {
			return bodyOf(n)
		}
		if el, ok := platform.AsElement(parent); ok && el.IsHTML() && IsOverflowElement(el) {
			return el
		}
		n = parent
	}
	return nil
}

// OverflowAncestors lists the targets whose scroll or resize can move n:
// every overflow ancestor, then the window and its visual viewport, then the
// body when it overflows, then the same for each embedding frame.
func OverflowAncestors(n platform.Node) []platform.EventTarget {
	var list []platform.EventTarget
	for n != nil {
		ancestor := nearestOverflowAncestor(n)
		if ancestor == nil {
			return list
		}
		if ancestor != bodyOf(n) {
			list = append(list, ancestor)
			n = ancestor
			continue
		}
		win := platform.WindowOf(ancestor)
		if win == nil {
			return list
		}
		list = append(list, win)
		if vv := win.VisualViewport(); vv != nil {
			list = append(list, vv)
		}
		if IsOverflowElement(ancestor) {
			list = append(list, ancestor)
		}
		frame := win.FrameElement()
		if frame == nil {
			return list
		}
		n = frame
	}
	return list
}

// dedupTargets keeps the first occurrence of every target.
func dedupTargets(targets []platform.EventTarget) []platform.EventTarget {
	seen := make(map[platform.EventTarget]struct{}, len(targets))
	out := targets[:0:0]
	for _, t := range targets {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
