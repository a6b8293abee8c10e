package css

import "strings"

// Element is what selectors match against. ParentElement returns the zero
// value at the top of the tree.
type Element[E any] interface {
	comparable
	TagName() string
	GetAttribute(name string) (string, bool)
	ParentElement() E
}

// Matches reports whether el matches sel.
func Matches[E Element[E]](sel Selector, el E) bool {
	if len(sel.Parts) == 0 {
		return false
	}
	return matchFrom(sel, len(sel.Parts)-1, el)
}

// MatchesAny reports whether el matches any selector of group.
func MatchesAny[E Element[E]](group []Selector, el E) bool {
	for _, sel := range group {
		if Matches(sel, el) {
			return true
		}
	}
	return false
}

// matchFrom matches Parts[i] against el and the earlier parts against its
// ancestors, backtracking over descendant combinators.
func matchFrom[E Element[E]](sel Selector, i int, el E) bool {
	if !matchesCompound(sel.Parts[i], el) {
		return false
	}
	if i == 0 {
		return true
	}
	var zero E
	switch sel.Combinators[i-1] {
	case Child:
		parent := el.ParentElement()
		return parent != zero && matchFrom(sel, i-1, parent)
	default:
		for a := el.ParentElement(); a != zero; a = a.ParentElement() {
			if matchFrom(sel, i-1, a) {
				return true
			}
		}
		return false
	}
}

func matchesCompound[E Element[E]](c Compound, el E) bool {
	if c.Tag != "" && c.Tag != strings.ToLower(el.TagName()) {
		return false
	}
	if c.ID != "" {
		if id, _ := el.GetAttribute("id"); id != c.ID {
			return false
		}
	}
	if len(c.Classes) > 0 {
		attr, _ := el.GetAttribute("class")
		have := strings.Fields(attr)
		for _, cls := range c.Classes {
			if !hasField(have, cls) {
				return false
			}
		}
	}
	for _, a := range c.Attrs {
		v, ok := el.GetAttribute(a.Name)
		if !ok || (a.HasValue && v != a.Value) {
			return false
		}
	}
	return true
}

func hasField(fields []string, want string) bool {
	for _, f := range fields {
		if f == want {
			return true
		}
	}
	return false
}
