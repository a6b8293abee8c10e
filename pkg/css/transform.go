package css

import (
	"strings"
)

// Transform is the geometric part of a transform list that the headless
// platform can apply: a scale followed by a translation, both about the
// element's transform origin. Other functions (rotate, matrix, skew) still
// count as a transform for containing-block purposes but are not applied.
type Transform struct {
	ScaleX     float64
	ScaleY     float64
	TranslateX float64
	TranslateY float64
}

// IdentityTransform leaves geometry unchanged.
var IdentityTransform = Transform{ScaleX: 1, ScaleY: 1}

func (t Transform) IsIdentity() bool {
	return t == IdentityTransform
}

// ParseTransform reads scale(), scaleX(), scaleY(), translate(), translateX()
// and translateY() from a transform list. Unknown functions are skipped.
func ParseTransform(value string) Transform {
	t := IdentityTransform
	value = strings.TrimSpace(value)
	if value == "" || value == "none" {
		return t
	}
	for value != "" {
		open := strings.IndexByte(value, '(')
		if open < 0 {
			break
		}
		closing := strings.IndexByte(value[open:], ')')
		if closing < 0 {
			break
		}
		name := strings.TrimSpace(value[:open])
		args := splitArgs(value[open+1 : open+closing])
		value = strings.TrimSpace(value[open+closing+1:])

		switch name {
		case "scale":
			if len(args) >= 1 {
				sx := ParseFloat(args[0])
				sy := sx
				if len(args) >= 2 {
					sy = ParseFloat(args[1])
				}
				t.ScaleX *= sx
				t.ScaleY *= sy
			}
		case "scaleX":
			if len(args) == 1 {
				t.ScaleX *= ParseFloat(args[0])
			}
		case "scaleY":
			if len(args) == 1 {
				t.ScaleY *= ParseFloat(args[0])
			}
		case "translate":
			if len(args) >= 1 {
				t.TranslateX += ParseFloat(args[0])
			}
			if len(args) >= 2 {
				t.TranslateY += ParseFloat(args[1])
			}
		case "translateX":
			if len(args) == 1 {
				t.TranslateX += ParseFloat(args[0])
			}
		case "translateY":
			if len(args) == 1 {
				t.TranslateY += ParseFloat(args[0])
			}
		}
	}
	return t
}

func splitArgs(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	return parts
}
