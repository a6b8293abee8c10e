// Package snapshot records a live page into a scene: element boxes, the
// computed styles that matter for positioning, and the viewport.
package snapshot

import (
	"errors"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"tether/pkg/scene"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrEmptyPage is returned when a capture recorded no elements.
var ErrEmptyPage = errors.New("snapshot recorded no elements")

// Page is what the collector script returns.
type Page struct {
	Title     string   `json:"title"`
	Viewport  Viewport `json:"viewport"`
	Nodes     []Node   `json:"nodes"`
	Reference string   `json:"reference"`
	Floating  string   `json:"floating"`
}

// Viewport is the recorded window.
type Viewport struct {
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
	ScrollX   float64   `json:"scrollX"`
	ScrollY   float64   `json:"scrollY"`
	UserAgent string    `json:"userAgent"`
	Visual    []float64 `json:"visual,omitempty"`
}

// Node is one recorded element. Rect is in document coordinates with
// every ancestor scroll undone.
type Node struct {
	ID      string    `json:"id"`
	Tag     string    `json:"tag"`
	Parent  string    `json:"parent"`
	Rect    []float64 `json:"rect"`
	Style   string    `json:"style"`
	Scroll  []float64 `json:"scroll,omitempty"`
	Foreign bool      `json:"foreign"`
}

// Decode parses collector output.
func Decode(data []byte) (*Page, error) {
	var p Page
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &p, nil
}

// SceneOptions fill in the position request of a converted scene.
type SceneOptions struct {
	Placement string
	Strategy  string
}

// Scene converts p. The scene carries a position request when both a
// reference and a floating element were recorded.
func (p *Page) Scene(opts SceneOptions) (*scene.Scene, error) {
	if len(p.Nodes) == 0 {
		return nil, ErrEmptyPage
	}
	s := &scene.Scene{
		Title: p.Title,
		Viewport: scene.Viewport{
			Width:     p.Viewport.Width,
			Height:    p.Viewport.Height,
			ScrollX:   p.Viewport.ScrollX,
			ScrollY:   p.Viewport.ScrollY,
			UserAgent: p.Viewport.UserAgent,
			Visual:    p.Viewport.Visual,
		},
	}
	known := make(map[string]bool, len(p.Nodes))
	for _, n := range p.Nodes {
		el := scene.Element{
			ID:      n.ID,
			Tag:     strings.ToLower(n.Tag),
			Rect:    n.Rect,
			Style:   n.Style,
			Scroll:  n.Scroll,
			Foreign: n.Foreign,
		}
		// Collected in document order, so a parent is always known first.
		if n.Parent != "" && known[n.Parent] {
			el.Parent = n.Parent
		}
		known[n.ID] = true
		s.Elements = append(s.Elements, el)
	}
	if p.Reference != "" && p.Floating != "" {
		s.Position = &scene.Position{
			Reference: p.Reference,
			Floating:  p.Floating,
			Placement: opts.Placement,
			Strategy:  opts.Strategy,
		}
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("snapshot produced an invalid scene: %w", err)
	}
	return s, nil
}
