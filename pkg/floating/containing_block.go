package floating

import "tether/pkg/platform"

// IsContainingBlock reports whether el establishes a containing block for
// absolutely and fixed positioned descendants. The filter rules only apply
// on Firefox, which the window's quirks profile decides.
func IsContainingBlock(el platform.Element) bool {
	if el == nil {
		return false
	}
	return el.ComputedStyle().EstablishesContainingBlock(isFirefox(el))
}

func isFirefox(n platform.Node) bool {
	win := platform.WindowOf(n)
	if win == nil {
		return false
	}
	return win.Quirks().Firefox
}

type walkState int

const (
	probing walkState = iota
	tableSkip
	resolved
	exhausted
	fallbackViewport
)

func (s walkState) String() string {
	switch s {
	case probing:
		return "probing"
	case tableSkip:
		return "tableSkip"
	case resolved:
		return "resolved"
	case exhausted:
		return "exhausted"
	case fallbackViewport:
		return "fallbackViewport"
	}
	return "invalid"
}

// ContainingBlock returns the nearest flat-tree ancestor of el that
// establishes a containing block, or nil. The walk never enters html, body
// or the document.
func ContainingBlock(el platform.Element) platform.Element {
	cb, _ := containingBlockWalk(el)
	return cb
}

func containingBlockWalk(el platform.Element) (platform.Element, walkState) {
	if el == nil {
		return nil, exhausted
	}
	current := ParentNode(el)
	state := probing
	for state == probing {
		candidate, ok := platform.AsElement(current)
		switch {
		case !ok || !candidate.IsHTML() || isLastTraversableNode(candidate):
			state = exhausted
		case IsContainingBlock(candidate):
			return candidate, resolved
		default:
			current = ParentNode(candidate)
		}
	}
	return nil, state
}
