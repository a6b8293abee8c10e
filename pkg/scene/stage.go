package scene

import (
	"fmt"

	"tether/pkg/dom"
	"tether/pkg/floating"
	"tether/pkg/geom"
	"tether/pkg/placement"
	"tether/pkg/quirks"
)

// Stage is a scene built into a live headless window.
type Stage struct {
	Scene  *Scene
	Window *dom.Window

	byID map[string]*dom.Element
}

// Build creates the window and every element. A user agent in the scene
// overrides the quirks profile passed in opts.
func (s *Scene) Build(opts ...dom.WindowOption) (*Stage, error) {
	opts = append([]dom.WindowOption{dom.WithViewport(s.Viewport.Width, s.Viewport.Height)}, opts...)
	if s.Viewport.UserAgent != "" {
		opts = append(opts, dom.WithQuirks(quirks.Detect(s.Viewport.UserAgent)))
	}
	win := dom.NewWindow(opts...)
	st := &Stage{Scene: s, Window: win, byID: make(map[string]*dom.Element, len(s.Elements))}

	for _, spec := range s.Elements {
		if err := st.add(spec); err != nil {
			return nil, err
		}
	}
	// Scroll after the tree is complete so scroll containers see their styles.
	for _, spec := range s.Elements {
		if len(spec.Scroll) == 2 {
			st.byID[spec.ID].ScrollTo(spec.Scroll[0], spec.Scroll[1])
		}
	}
	if v := s.Viewport.Visual; len(v) == 4 {
		win.PinchZoom(v[0], v[1], v[2], v[3])
	}
	win.ScrollTo(s.Viewport.ScrollX, s.Viewport.ScrollY)
	return st, nil
}

func (st *Stage) add(spec Element) error {
	doc := st.Window.Doc()
	var parent *dom.Element
	if spec.Parent != "" {
		p, ok := st.byID[spec.Parent]
		if !ok {
			return fmt.Errorf("element %q: parent %q: %w", spec.ID, spec.Parent, ErrUnknownElement)
		}
		parent = p
		doc = p.Document()
		if p.TagName() == "iframe" && !spec.Shadow {
			doc = p.ContentWindow().Doc()
			parent = nil
		}
	}

	var el *dom.Element
	if spec.Foreign {
		el = doc.CreateElementNS(spec.Tag)
	} else {
		el = doc.CreateElement(spec.Tag)
	}
	el.SetAttribute("id", spec.ID)
	switch {
	case spec.Tag == "slot":
		el.SetAttribute("name", spec.Slot)
	case spec.Slot != "":
		el.SetAttribute("slot", spec.Slot)
	}
	el.SetStyle(spec.Style)
	if len(spec.Rect) == 4 {
		el.SetLayoutRect(geom.NewRect(spec.Rect[0], spec.Rect[1], spec.Rect[2], spec.Rect[3]))
	}
	el.SetCrossOrigin(spec.CrossOrigin)

	switch {
	case spec.Shadow:
		parent.AttachShadow().AppendChild(el)
	case parent != nil:
		parent.AppendChild(el)
	default:
		doc.BodyElement().AppendChild(el)
	}
	st.byID[spec.ID] = el
	return nil
}

// Element returns the element with id.
func (st *Stage) Element(id string) (*dom.Element, error) {
	el, ok := st.byID[id]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrUnknownElement)
	}
	return el, nil
}

// IDs returns element ids in scene order.
func (st *Stage) IDs() []string {
	ids := make([]string, 0, len(st.Scene.Elements))
	for _, el := range st.Scene.Elements {
		ids = append(ids, el.ID)
	}
	return ids
}

// Request is a resolved positioning request.
type Request struct {
	Reference floating.Reference
	Floating  *dom.Element
	Placement placement.Placement
	Strategy  floating.Strategy
}

// Request resolves the scene's position section.
func (st *Stage) Request() (Request, error) {
	p := st.Scene.Position
	if p == nil {
		return Request{}, ErrNoPosition
	}
	var req Request
	var err error
	if req.Floating, err = st.Element(p.Floating); err != nil {
		return Request{}, fmt.Errorf("floating: %w", err)
	}

	var refEl *dom.Element
	if p.Reference != "" {
		if refEl, err = st.Element(p.Reference); err != nil {
			return Request{}, fmt.Errorf("reference: %w", err)
		}
	}
	if v := p.VirtualRect; len(v) == 4 {
		r := geom.NewRect(v[0], v[1], v[2], v[3])
		provider := floating.RectFunc(func() geom.Rect { return r })
		if refEl != nil {
			req.Reference = floating.Virtual(provider, refEl)
		} else {
			req.Reference = floating.Virtual(provider, nil)
		}
	} else {
		req.Reference = floating.Concrete(refEl)
	}

	req.Placement = placement.BottomCenter
	if p.Placement != "" {
		if req.Placement, err = placement.Parse(p.Placement); err != nil {
			return Request{}, err
		}
	}
	if req.Strategy, err = floating.ParseStrategy(p.Strategy); err != nil {
		return Request{}, err
	}
	return req, nil
}

// Compute runs ComputePosition for the scene's request.
func (st *Stage) Compute() (floating.Position, error) {
	req, err := st.Request()
	if err != nil {
		return floating.Position{}, err
	}
	return floating.ComputePosition(req.Reference, req.Floating,
		floating.WithPlacement(req.Placement),
		floating.WithStrategy(req.Strategy)), nil
}

// Apply moves the floating element to pos.
func (st *Stage) Apply(pos floating.Position) error {
	req, err := st.Request()
	if err != nil {
		return err
	}
	req.Floating.SetInsets(pos.X, pos.Y)
	return nil
}
