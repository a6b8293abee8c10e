package css

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Style is a resolved (computed) style: property name to value string.
// Missing properties read as their initial value through the typed getters.
type Style struct {
	Properties map[string]string
}

func NewStyle() *Style {
	return &Style{Properties: make(map[string]string)}
}

func (s *Style) Get(property string) (string, bool) {
	if s == nil {
		return "", false
	}
	val, ok := s.Properties[property]
	return val, ok
}

// GetOr returns the property value or def when it is not set.
func (s *Style) GetOr(property, def string) string {
	if val, ok := s.Get(property); ok && val != "" {
		return val
	}
	return def
}

func (s *Style) Set(property, value string) {
	s.Properties[property] = strings.TrimSpace(value)
}

func (s *Style) Delete(property string) {
	delete(s.Properties, property)
}

// Clone returns a deep copy.
func (s *Style) Clone() *Style {
	c := NewStyle()
	if s == nil {
		return c
	}
	for k, v := range s.Properties {
		c.Properties[k] = v
	}
	return c
}

// String serializes the style as a declaration block with sorted keys.
func (s *Style) String() string {
	if s == nil {
		return ""
	}
	keys := make([]string, 0, len(s.Properties))
	for k := range s.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(s.Properties[k])
	}
	return sb.String()
}

func (s *Style) GetLength(property string) (float64, bool) {
	val, ok := s.Get(property)
	if !ok {
		return 0, false
	}
	return ParseLength(val)
}

// ParseLength parses a pixel length ("100px" or "100").
func ParseLength(val string) (float64, bool) {
	val = strings.TrimSpace(val)
	val = strings.TrimSuffix(val, "px")
	num, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return num, true
}

// ParseFloat reads the longest numeric prefix of val, so "12.5px" is 12.5.
// Values without one ("auto", "") are NaN.
func ParseFloat(val string) float64 {
	val = strings.TrimSpace(val)
	end := 0
	seenDigit, seenDot, seenExp := false, false, false
scan:
	for end < len(val) {
		c := val[end]
		switch {
		case c >= '0' && c <= '9':
			seenDigit = true
		case (c == '+' || c == '-') && (end == 0 || val[end-1] == 'e' || val[end-1] == 'E'):
		case c == '.' && !seenDot && !seenExp:
			seenDot = true
		case (c == 'e' || c == 'E') && seenDigit && !seenExp:
			seenExp = true
		default:
			break scan
		}
		end++
	}
	for end > 0 {
		if num, err := strconv.ParseFloat(val[:end], 64); err == nil {
			return num
		}
		end--
	}
	return math.NaN()
}

// Float parses a property with ParseFloat; missing properties are NaN.
func (s *Style) Float(property string) float64 {
	val, ok := s.Get(property)
	if !ok {
		return math.NaN()
	}
	return ParseFloat(val)
}

// BoxEdge represents the four sides of a box (top, right, bottom, left)
type BoxEdge struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

func (s *Style) GetMargin() BoxEdge {
	return s.edge("margin-%s")
}

func (s *Style) GetPadding() BoxEdge {
	return s.edge("padding-%s")
}

// GetBorderWidth returns border widths; a side whose border-style is none
// contributes zero.
func (s *Style) GetBorderWidth() BoxEdge {
	e := s.edge("border-%s-width")
	if s.GetOr("border-top-style", s.GetOr("border-style", "solid")) == "none" {
		e.Top = 0
	}
	if s.GetOr("border-right-style", s.GetOr("border-style", "solid")) == "none" {
		e.Right = 0
	}
	if s.GetOr("border-bottom-style", s.GetOr("border-style", "solid")) == "none" {
		e.Bottom = 0
	}
	if s.GetOr("border-left-style", s.GetOr("border-style", "solid")) == "none" {
		e.Left = 0
	}
	return e
}

func (s *Style) edge(pattern string) BoxEdge {
	side := func(name string) float64 {
		return s.getLengthOrZero(strings.Replace(pattern, "%s", name, 1))
	}
	return BoxEdge{
		Top:    side("top"),
		Right:  side("right"),
		Bottom: side("bottom"),
		Left:   side("left"),
	}
}

func (s *Style) getLengthOrZero(property string) float64 {
	val, ok := s.GetLength(property)
	if !ok {
		return 0
	}
	return val
}

type PositionType string

const (
	PositionStatic   PositionType = "static"
	PositionRelative PositionType = "relative"
	PositionAbsolute PositionType = "absolute"
	PositionFixed    PositionType = "fixed"
	PositionSticky   PositionType = "sticky"
)

// GetPosition returns the position type (default: static)
func (s *Style) GetPosition() PositionType {
	switch pos, _ := s.Get("position"); pos {
	case "relative":
		return PositionRelative
	case "absolute":
		return PositionAbsolute
	case "fixed":
		return PositionFixed
	case "sticky":
		return PositionSticky
	}
	return PositionStatic
}

// PositionOffset holds the inset properties of a positioned element.
type PositionOffset struct {
	Top       float64
	Right     float64
	Bottom    float64
	Left      float64
	HasTop    bool
	HasRight  bool
	HasBottom bool
	HasLeft   bool
}

func (s *Style) GetPositionOffset() PositionOffset {
	offset := PositionOffset{}
	offset.Top, offset.HasTop = s.GetLength("top")
	offset.Right, offset.HasRight = s.GetLength("right")
	offset.Bottom, offset.HasBottom = s.GetLength("bottom")
	offset.Left, offset.HasLeft = s.GetLength("left")
	return offset
}

type DisplayType string

const (
	DisplayBlock       DisplayType = "block"
	DisplayInline      DisplayType = "inline"
	DisplayInlineBlock DisplayType = "inline-block"
	DisplayContents    DisplayType = "contents"
	DisplayTable       DisplayType = "table"
	DisplayTableCell   DisplayType = "table-cell"
	DisplayNone        DisplayType = "none"
)

// GetDisplay returns the display value (default: block)
func (s *Style) GetDisplay() DisplayType {
	if display, ok := s.Get("display"); ok && display != "" {
		return DisplayType(display)
	}
	return DisplayBlock
}

// IsNone reports whether a keyword property is unset or "none".
func (s *Style) IsNone(property string) bool {
	return s.GetOr(property, "none") == "none"
}

// HasToken reports whether the property value names any of tokens.
// Values are split on whitespace and commas, so will-change: "opacity, transform"
// names transform.
func (s *Style) HasToken(property string, tokens ...string) bool {
	val, ok := s.Get(property)
	if !ok {
		return false
	}
	for _, field := range strings.FieldsFunc(val, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	}) {
		for _, t := range tokens {
			if field == t {
				return true
			}
		}
	}
	return false
}

// Overflow returns overflow, overflow-x and overflow-y concatenated, which is
// what scroll-container checks match against.
func (s *Style) Overflow() string {
	return s.GetOr("overflow", "visible") + " " +
		s.GetOr("overflow-x", "visible") + " " +
		s.GetOr("overflow-y", "visible")
}

// IsScrollContainer reports whether any overflow axis clips or scrolls.
func (s *Style) IsScrollContainer() bool {
	return s.HasToken("overflow", "auto", "scroll", "overlay", "hidden", "clip") ||
		s.HasToken("overflow-x", "auto", "scroll", "overlay", "hidden", "clip") ||
		s.HasToken("overflow-y", "auto", "scroll", "overlay", "hidden", "clip")
}

// Direction returns "ltr" or "rtl".
func (s *Style) Direction() string {
	if s.GetOr("direction", "ltr") == "rtl" {
		return "rtl"
	}
	return "ltr"
}

// ParseInlineStyle parses a declaration block such as "position: absolute; top: 4px".
func ParseInlineStyle(styleAttr string) *Style {
	style := NewStyle()
	style.Apply(styleAttr)
	return style
}

// Apply merges a declaration block into s, expanding shorthands.
func (s *Style) Apply(decls string) {
	for _, decl := range strings.Split(decls, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		property, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		property = strings.TrimSpace(strings.ToLower(property))
		value = strings.TrimSpace(value)
		expandShorthand(s, property, value)
	}
}

func expandShorthand(style *Style, property, value string) {
	switch property {
	case "margin", "padding":
		expandBoxProperty(style, property, "", value)
	case "border-width":
		expandBoxProperty(style, "border", "-width", value)
	case "border":
		expandBorderProperty(style, value)
	case "overflow":
		style.Set("overflow", value)
		x, y, ok := strings.Cut(value, " ")
		if !ok {
			y = x
		}
		style.Set("overflow-x", x)
		style.Set("overflow-y", strings.TrimSpace(y))
	default:
		style.Set(property, value)
	}
}

// expandBoxProperty expands the 1-4 value box shorthand into
// prefix-top/right/bottom/left plus suffix.
func expandBoxProperty(style *Style, prefix, suffix, value string) {
	parts := strings.Fields(value)
	var t, r, b, l string
	switch len(parts) {
	case 1:
		t, r, b, l = parts[0], parts[0], parts[0], parts[0]
	case 2:
		t, r, b, l = parts[0], parts[1], parts[0], parts[1]
	case 3:
		t, r, b, l = parts[0], parts[1], parts[2], parts[1]
	case 4:
		t, r, b, l = parts[0], parts[1], parts[2], parts[3]
	default:
		return
	}
	style.Set(prefix+"-top"+suffix, t)
	style.Set(prefix+"-right"+suffix, r)
	style.Set(prefix+"-bottom"+suffix, b)
	style.Set(prefix+"-left"+suffix, l)
}

// expandBorderProperty expands "1px solid black" style shorthands.
func expandBorderProperty(style *Style, value string) {
	for _, part := range strings.Fields(value) {
		switch {
		case strings.HasSuffix(part, "px") || part == "0":
			expandBoxProperty(style, "border", "-width", part)
		case part == "solid" || part == "dotted" || part == "dashed" || part == "double" || part == "none":
			style.Set("border-style", part)
		default:
			style.Set("border-color", part)
		}
	}
}

// EstablishesContainingBlock reports whether the style makes its element the
// containing block of absolutely and fixed positioned descendants.
// filterQuirk enables the filter and will-change: filter rules some engines
// (Firefox) apply.
func (s *Style) EstablishesContainingBlock(filterQuirk bool) bool {
	switch {
	case !s.IsNone("transform"),
		!s.IsNone("perspective"),
		!s.IsNone("backdrop-filter"),
		!s.IsNone("-webkit-backdrop-filter"):
		return true
	case filterQuirk && (s.HasToken("will-change", "filter") || !s.IsNone("filter")):
		return true
	case s.HasToken("will-change", "transform", "perspective"):
		return true
	case s.HasToken("contain", "paint", "layout", "strict", "content"):
		return true
	}
	return false
}
