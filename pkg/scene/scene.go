// Package scene loads and writes TOML descriptions of a document, its
// viewport and a positioning request, and builds them into a headless
// window. Documents may also be written as HTML markup.
package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

var (
	// ErrUnknownElement is returned when a scene refers to an id it does not
	// define.
	ErrUnknownElement = errors.New("unknown element")
	// ErrNoPosition is returned when a scene has no positioning request.
	ErrNoPosition = errors.New("scene has no position request")
)

// Scene is the TOML document.
type Scene struct {
	Title    string    `toml:"title,omitempty"`
	Viewport Viewport  `toml:"viewport"`
	Position *Position `toml:"position,omitempty"`
	Elements []Element `toml:"element"`
	// Markup is an HTML fragment expanded into Elements ahead of the
	// listed ones when the scene is parsed. See ParseMarkup.
	Markup string `toml:"markup,omitempty"`
	// Script is run by the scripting engine after the scene is built.
	Script string `toml:"script,omitempty"`
}

// Viewport describes the top-level window.
type Viewport struct {
	Width     float64 `toml:"width"`
	Height    float64 `toml:"height"`
	ScrollX   float64 `toml:"scroll_x,omitempty"`
	ScrollY   float64 `toml:"scroll_y,omitempty"`
	UserAgent string  `toml:"user_agent,omitempty"`
	// Visual is [offsetLeft, offsetTop, width, height] of a pinch-zoomed
	// visual viewport.
	Visual []float64 `toml:"visual,omitempty"`
}

// Position is the positioning request.
type Position struct {
	Reference string `toml:"reference,omitempty"`
	Floating  string `toml:"floating"`
	Placement string `toml:"placement,omitempty"`
	Strategy  string `toml:"strategy,omitempty"`
	// VirtualRect makes the reference virtual; Reference then names its
	// optional context element.
	VirtualRect []float64 `toml:"virtual_rect,omitempty"`
}

// Element is one element of the tree. Elements are listed parents first.
type Element struct {
	ID  string `toml:"id"`
	Tag string `toml:"tag,omitempty"`
	// Parent is the id of the parent element; empty means body. Children
	// of an iframe go into the body of its document.
	Parent string `toml:"parent,omitempty"`
	// Shadow places the element in the shadow root of Parent.
	Shadow bool `toml:"shadow,omitempty"`
	// Slot is the slot attribute of a light-tree child, or the name of a
	// slot element.
	Slot   string    `toml:"slot,omitempty"`
	Rect   []float64 `toml:"rect,omitempty"`
	Style  string    `toml:"style,omitempty"`
	Scroll []float64 `toml:"scroll,omitempty"`
	// Foreign marks non-HTML elements such as SVG.
	Foreign     bool `toml:"foreign,omitempty"`
	CrossOrigin bool `toml:"cross_origin,omitempty"`
}

// Load reads and validates a scene file. Files ending in .html or .htm are
// read as markup.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene %s: %w", path, err)
	}
	parse := Parse
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		parse = func(data []byte) (*Scene, error) { return ParseMarkup(string(data)) }
	}
	s, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a scene.
func Parse(data []byte) (*Scene, error) {
	var s Scene
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse TOML scene: %w", err)
	}
	if s.Markup != "" {
		if err := s.expandMarkup(s.Markup); err != nil {
			return nil, err
		}
		s.Markup = ""
	}
	setDefaults(&s)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func setDefaults(s *Scene) {
	if s.Viewport.Width == 0 {
		s.Viewport.Width = 1024
	}
	if s.Viewport.Height == 0 {
		s.Viewport.Height = 768
	}
	for i := range s.Elements {
		if s.Elements[i].Tag == "" {
			s.Elements[i].Tag = "div"
		}
	}
}

// Validate checks ids, parent order and vector lengths.
func (s *Scene) Validate() error {
	seen := make(map[string]string, len(s.Elements))
	for i, el := range s.Elements {
		if el.ID == "" {
			return fmt.Errorf("element %d has no id", i)
		}
		if _, dup := seen[el.ID]; dup {
			return fmt.Errorf("duplicate element id %q", el.ID)
		}
		if el.Parent != "" {
			if _, ok := seen[el.Parent]; !ok {
				return fmt.Errorf("element %q: parent %q: %w", el.ID, el.Parent, ErrUnknownElement)
			}
		}
		if el.Shadow && el.Parent == "" {
			return fmt.Errorf("element %q: shadow elements need a parent", el.ID)
		}
		if len(el.Rect) != 0 && len(el.Rect) != 4 {
			return fmt.Errorf("element %q: rect needs 4 values, got %d", el.ID, len(el.Rect))
		}
		if len(el.Scroll) != 0 && len(el.Scroll) != 2 {
			return fmt.Errorf("element %q: scroll needs 2 values, got %d", el.ID, len(el.Scroll))
		}
		seen[el.ID] = el.Tag
	}
	if len(s.Viewport.Visual) != 0 && len(s.Viewport.Visual) != 4 {
		return fmt.Errorf("viewport: visual needs 4 values, got %d", len(s.Viewport.Visual))
	}
	if p := s.Position; p != nil {
		if _, ok := seen[p.Floating]; !ok {
			return fmt.Errorf("position: floating %q: %w", p.Floating, ErrUnknownElement)
		}
		if p.Reference != "" {
			if _, ok := seen[p.Reference]; !ok {
				return fmt.Errorf("position: reference %q: %w", p.Reference, ErrUnknownElement)
			}
		} else if len(p.VirtualRect) == 0 {
			return errors.New("position: needs a reference or a virtual_rect")
		}
		if len(p.VirtualRect) != 0 && len(p.VirtualRect) != 4 {
			return fmt.Errorf("position: virtual_rect needs 4 values, got %d", len(p.VirtualRect))
		}
	}
	return nil
}

// Encode writes s as TOML.
func (s *Scene) Encode(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(s); err != nil {
		return fmt.Errorf("failed to encode scene: %w", err)
	}
	return nil
}

// Save writes s to path.
func (s *Scene) Save(path string) error {
	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write scene %s: %w", path, err)
	}
	return nil
}
