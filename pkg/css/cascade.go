package css

import "sort"

type matchedDeclaration struct {
	Declaration
	specificity Specificity
	order       int
}

// ComputeStyle cascades the rules of sheets that match el, then the inline
// declarations. Later sheets win ties. Important sheet declarations beat
// normal inline ones; important inline declarations beat everything.
func ComputeStyle[E Element[E]](el E, sheets []*Stylesheet, inline string) *Style {
	var matched []matchedDeclaration
	order := 0
	for _, sheet := range sheets {
		for _, rule := range sheet.Rules {
			order++
			sp, ok := bestSpecificity(rule.Selectors, el)
			if !ok {
				continue
			}
			for _, d := range rule.Declarations {
				matched = append(matched, matchedDeclaration{Declaration: d, specificity: sp, order: order})
			}
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.specificity != b.specificity {
			return a.specificity.Less(b.specificity)
		}
		return a.order < b.order
	})

	inlineDecls := ParseDeclarations(inline)
	style := NewStyle()
	apply := func(important bool) {
		for _, d := range matched {
			if d.Important == important {
				expandShorthand(style, d.Property, d.Value)
			}
		}
		for _, d := range inlineDecls {
			if d.Important == important {
				expandShorthand(style, d.Property, d.Value)
			}
		}
	}
	apply(false)
	apply(true)
	return style
}

// bestSpecificity returns the highest specificity among the selectors that
// match el.
func bestSpecificity[E Element[E]](group []Selector, el E) (Specificity, bool) {
	var best Specificity
	found := false
	for _, sel := range group {
		if !Matches(sel, el) {
			continue
		}
		if sp := sel.Specificity(); !found || best.Less(sp) {
			best = sp
			found = true
		}
	}
	return best, found
}
