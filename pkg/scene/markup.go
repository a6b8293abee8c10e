package scene

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tether/pkg/css"
	"tether/pkg/html"
)

// Markup attributes. data-rect and data-scroll take comma or space
// separated numbers.
const (
	attrRect        = "data-rect"
	attrScroll      = "data-scroll"
	attrCrossOrigin = "data-cross-origin"
	attrReference   = "data-reference"
	attrFloating    = "data-floating"
	attrPlacement   = "data-placement"
	attrStrategy    = "data-strategy"
	attrViewport    = "data-viewport"
)

// transparent tags contribute their children but no element.
var transparent = map[string]bool{"html": true, "head": true, "body": true}

// skipped tags and their subtrees produce nothing.
var skipped = map[string]bool{"meta": true, "link": true, "base": true, "noscript": true}

// ParseMarkup converts an HTML document into a scene. data-viewport and
// data-scroll on <html> or <body> set the viewport size and window scroll;
// data-reference and data-floating mark the positioning request. <style> blocks are
// cascaded into each element's style and <script> blocks are joined into
// the scene script. A <template shadowrootmode> puts its children in the
// shadow root of its parent and SVG or MathML elements are foreign.
// Elements without an id get one.
func ParseMarkup(markup string) (*Scene, error) {
	s := &Scene{}
	if err := s.expandMarkup(markup); err != nil {
		return nil, err
	}
	setDefaults(s)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// expandMarkup prepends the markup's elements to s.Elements. A position
// marked in the markup applies only when s has none.
func (s *Scene) expandMarkup(markup string) error {
	doc, err := html.Parse(markup)
	if err != nil {
		return fmt.Errorf("failed to parse markup: %w", err)
	}
	sheets := make([]*css.Stylesheet, 0, len(doc.Stylesheets))
	for i, src := range doc.Stylesheets {
		sheet, err := css.ParseStylesheet(src)
		if err != nil {
			return fmt.Errorf("markup stylesheet %d: %w", i, err)
		}
		sheets = append(sheets, sheet)
	}

	c := &markupConverter{sheets: sheets, used: make(map[string]bool)}
	for _, el := range s.Elements {
		c.used[el.ID] = true
	}
	// Claim explicit ids first so generated ones never collide.
	doc.Root.Walk(func(n *html.Node) bool {
		if id := n.ID(); id != "" {
			c.used[id] = true
		}
		return true
	})
	if err := c.convert(doc.Root.Children, "", false); err != nil {
		return err
	}

	if s.Title == "" {
		s.Title = doc.Title
	}
	s.Elements = append(c.elements, s.Elements...)
	if len(doc.Scripts) > 0 {
		scripts := doc.Scripts
		if s.Script != "" {
			scripts = append(scripts, s.Script)
		}
		s.Script = strings.Join(scripts, "\n")
	}
	if s.Position == nil {
		s.Position = c.position()
	}
	if c.viewport != nil && s.Viewport.Width == 0 && s.Viewport.Height == 0 {
		s.Viewport.Width, s.Viewport.Height = c.viewport[0], c.viewport[1]
	}
	if c.scroll != nil && s.Viewport.ScrollX == 0 && s.Viewport.ScrollY == 0 {
		s.Viewport.ScrollX, s.Viewport.ScrollY = c.scroll[0], c.scroll[1]
	}
	return nil
}

type markupConverter struct {
	sheets   []*css.Stylesheet
	used     map[string]bool
	next     int
	elements []Element

	reference, floating string
	placement, strategy string

	// viewport is [width, height] and scroll the window scroll, taken from
	// <html> or <body>.
	viewport, scroll []float64
}

func (c *markupConverter) window(n *html.Node) error {
	if n.Tag == "head" {
		return nil
	}
	v, err := numbers(n, attrViewport, 2)
	if err != nil {
		return err
	}
	if v != nil {
		c.viewport = v
	}
	sc, err := numbers(n, attrScroll, 2)
	if err != nil {
		return err
	}
	if sc != nil {
		c.scroll = sc
	}
	return nil
}

func (c *markupConverter) convert(nodes []*html.Node, parent string, shadow bool) error {
	for _, n := range nodes {
		isHTML := n.Namespace == ""
		switch {
		case isHTML && skipped[n.Tag]:
			continue
		case isHTML && transparent[n.Tag]:
			if err := c.window(n); err != nil {
				return err
			}
			if err := c.convert(n.Children, parent, shadow); err != nil {
				return err
			}
			continue
		case n.ShadowRoot:
			if parent == "" {
				return errors.New("shadow root template needs a host element")
			}
			if err := c.convert(n.Children, parent, true); err != nil {
				return err
			}
			continue
		}

		el, err := c.element(n, parent, shadow)
		if err != nil {
			return err
		}
		c.elements = append(c.elements, el)
		if err := c.convert(n.Children, el.ID, false); err != nil {
			return err
		}
	}
	return nil
}

func (c *markupConverter) element(n *html.Node, parent string, shadow bool) (Element, error) {
	el := Element{
		ID:      n.ID(),
		Tag:     n.Tag,
		Parent:  parent,
		Shadow:  shadow,
		Slot:    n.Attrs["slot"],
		Style:   css.ComputeStyle(n, c.sheets, n.Attrs["style"]).String(),
		Foreign: n.Namespace != "",
	}
	if el.ID == "" {
		el.ID = c.generateID(n.Tag)
	}
	if n.Tag == "slot" {
		el.Slot = n.Attrs["name"]
	}
	if _, ok := n.GetAttribute(attrCrossOrigin); ok && n.Tag == "iframe" {
		el.CrossOrigin = true
	}

	var err error
	if el.Rect, err = numbers(n, attrRect, 4); err != nil {
		return Element{}, err
	}
	if el.Scroll, err = numbers(n, attrScroll, 2); err != nil {
		return Element{}, err
	}

	if _, ok := n.GetAttribute(attrReference); ok {
		c.reference = el.ID
	}
	if _, ok := n.GetAttribute(attrFloating); ok {
		c.floating = el.ID
		c.placement = n.Attrs[attrPlacement]
		c.strategy = n.Attrs[attrStrategy]
	}
	return el, nil
}

func (c *markupConverter) generateID(tag string) string {
	for {
		c.next++
		id := fmt.Sprintf("%s-%d", tag, c.next)
		if !c.used[id] {
			c.used[id] = true
			return id
		}
	}
}

// position returns the request marked by data-reference and data-floating,
// or nil when no floating element is marked.
func (c *markupConverter) position() *Position {
	if c.floating == "" || c.reference == "" {
		return nil
	}
	return &Position{
		Reference: c.reference,
		Floating:  c.floating,
		Placement: c.placement,
		Strategy:  c.strategy,
	}
}

// numbers reads an attribute holding exactly want numbers.
func numbers(n *html.Node, attr string, want int) ([]float64, error) {
	raw, ok := n.GetAttribute(attr)
	if !ok {
		return nil, nil
	}
	fields := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) != want {
		return nil, fmt.Errorf("<%s> %s needs %d values, got %q", n.Tag, attr, want, raw)
	}
	out := make([]float64, want)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("<%s> %s: %w", n.Tag, attr, err)
		}
		out[i] = v
	}
	return out, nil
}
