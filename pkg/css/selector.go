package css

import (
	"fmt"
	"strings"
)

// Combinator joins two compound selectors.
type Combinator int

const (
	Descendant Combinator = iota
	Child
)

// AttributeSelector is [name] or [name=value].
type AttributeSelector struct {
	Name     string
	Value    string
	HasValue bool
}

// Compound is one simple-selector sequence such as div#id.a[data-x=y].
// An empty Tag matches any element.
type Compound struct {
	Tag     string
	ID      string
	Classes []string
	Attrs   []AttributeSelector
}

// Selector is a chain of compounds, outermost first. Combinators[i] joins
// Parts[i] and Parts[i+1].
type Selector struct {
	Parts       []Compound
	Combinators []Combinator
}

// Specificity is (ids, classes and attributes, types).
type Specificity [3]int

func (a Specificity) Less(b Specificity) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func (s Selector) Specificity() Specificity {
	var sp Specificity
	for _, c := range s.Parts {
		if c.ID != "" {
			sp[0]++
		}
		sp[1] += len(c.Classes) + len(c.Attrs)
		if c.Tag != "" {
			sp[2]++
		}
	}
	return sp
}

// ParseSelectorGroup parses a comma separated selector list. Only type,
// universal, id, class and attribute selectors with descendant and child
// combinators are understood.
func ParseSelectorGroup(s string) ([]Selector, error) {
	var group []Selector
	for _, part := range strings.Split(s, ",") {
		sel, err := ParseSelector(part)
		if err != nil {
			return nil, err
		}
		group = append(group, sel)
	}
	return group, nil
}

func ParseSelector(s string) (Selector, error) {
	var sel Selector
	pending := Descendant
	for _, field := range strings.Fields(strings.ReplaceAll(s, ">", " > ")) {
		if field == ">" {
			if len(sel.Parts) == 0 || pending == Child {
				return Selector{}, fmt.Errorf("invalid selector %q: dangling '>'", strings.TrimSpace(s))
			}
			pending = Child
			continue
		}
		c, err := parseCompound(field)
		if err != nil {
			return Selector{}, fmt.Errorf("invalid selector %q: %w", strings.TrimSpace(s), err)
		}
		if len(sel.Parts) > 0 {
			sel.Combinators = append(sel.Combinators, pending)
		}
		sel.Parts = append(sel.Parts, c)
		pending = Descendant
	}
	if len(sel.Parts) == 0 || pending == Child {
		return Selector{}, fmt.Errorf("invalid selector %q", strings.TrimSpace(s))
	}
	return sel, nil
}

func parseCompound(s string) (Compound, error) {
	var c Compound
	i := 0
	ident := func() string {
		start := i
		for i < len(s) && !strings.ContainsRune("#.[]:+~()", rune(s[i])) {
			i++
		}
		return s[start:i]
	}
	if strings.HasPrefix(s, "*") {
		i = 1
	} else {
		c.Tag = strings.ToLower(ident())
	}
	for i < len(s) {
		switch s[i] {
		case '#':
			i++
			if c.ID = ident(); c.ID == "" {
				return c, fmt.Errorf("empty id in %q", s)
			}
		case '.':
			i++
			cls := ident()
			if cls == "" {
				return c, fmt.Errorf("empty class in %q", s)
			}
			c.Classes = append(c.Classes, cls)
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return c, fmt.Errorf("unterminated attribute selector in %q", s)
			}
			name, value, hasValue := strings.Cut(s[i+1:i+end], "=")
			i += end + 1
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" {
				return c, fmt.Errorf("empty attribute name in %q", s)
			}
			c.Attrs = append(c.Attrs, AttributeSelector{
				Name:     name,
				Value:    strings.Trim(strings.TrimSpace(value), `"'`),
				HasValue: hasValue,
			})
		default:
			return c, fmt.Errorf("unsupported %q in %q", s[i], s)
		}
	}
	return c, nil
}
