package css

import (
	"fmt"
	"strings"
)

// Declaration is one property: value pair of a rule.
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

// Rule is a selector group with its declarations.
type Rule struct {
	Selectors    []Selector
	Declarations []Declaration
}

// Stylesheet holds style rules in source order.
type Stylesheet struct {
	Rules []Rule
	// Skipped counts rules dropped for an unsupported selector or at-rule.
	Skipped int
}

// ParseStylesheet parses rules, skipping comments and at-rules. A rule
// with a selector outside the supported subset is dropped. Unbalanced
// braces are an error.
func ParseStylesheet(src string) (*Stylesheet, error) {
	src = stripComments(src)
	sheet := &Stylesheet{}
	for {
		src = strings.TrimSpace(src)
		if src == "" {
			return sheet, nil
		}
		open := strings.IndexByte(src, '{')
		if strings.HasPrefix(src, "@") {
			// Statement at-rules such as @import end at a semicolon.
			if semi := strings.IndexByte(src, ';'); semi >= 0 && (open < 0 || semi < open) {
				src = src[semi+1:]
				sheet.Skipped++
				continue
			}
		}
		if open < 0 {
			return nil, fmt.Errorf("expected '{' after %q", src)
		}
		end, err := blockEnd(src, open)
		if err != nil {
			return nil, err
		}
		prelude := strings.TrimSpace(src[:open])
		body := src[open+1 : end]
		src = src[end+1:]

		if strings.HasPrefix(prelude, "@") {
			sheet.Skipped++
			continue
		}
		group, err := ParseSelectorGroup(prelude)
		if err != nil {
			sheet.Skipped++
			continue
		}
		sheet.Rules = append(sheet.Rules, Rule{Selectors: group, Declarations: ParseDeclarations(body)})
	}
}

// blockEnd returns the index of the brace closing the block opened at open.
func blockEnd(src string, open int) (int, error) {
	depth := 0
	for i := open; i < len(src); i++ {
		switch src[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("unterminated block after %q", strings.TrimSpace(src[:open]))
}

func stripComments(src string) string {
	var b strings.Builder
	for {
		start := strings.Index(src, "/*")
		if start < 0 {
			b.WriteString(src)
			return b.String()
		}
		b.WriteString(src[:start])
		end := strings.Index(src[start+2:], "*/")
		if end < 0 {
			return b.String()
		}
		src = src[start+2+end+2:]
	}
}

// ParseDeclarations splits a declaration block. Malformed declarations are
// skipped.
func ParseDeclarations(block string) []Declaration {
	var decls []Declaration
	for _, raw := range strings.Split(block, ";") {
		property, value, ok := strings.Cut(raw, ":")
		if !ok {
			continue
		}
		property = strings.ToLower(strings.TrimSpace(property))
		value = strings.TrimSpace(value)
		important := false
		if i := strings.Index(strings.ToLower(value), "!important"); i >= 0 {
			important = true
			value = strings.TrimSpace(value[:i])
		}
		if property == "" || value == "" {
			continue
		}
		decls = append(decls, Declaration{Property: property, Value: value, Important: important})
	}
	return decls
}
