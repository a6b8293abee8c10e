// Package render paints a built scene to a raster image: element boxes in
// paint order, then an overlay marking the reference rect, the floating
// rect and the computed position. Compare diffs two renders.
package render

import (
	"fmt"
	"image"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/fogleman/gg"

	"tether/pkg/css"
	"tether/pkg/dom"
	"tether/pkg/floating"
	"tether/pkg/geom"
	"tether/pkg/scene"
)

// Options holds the overlay colours. Values are CSS colours.
type Options struct {
	Background string
	Reference  string
	Floating   string
	// Overlay disables the reference and floating outlines when false.
	Overlay bool
}

// DefaultOptions are used by NewRenderer.
var DefaultOptions = Options{
	Background: "white",
	Reference:  "#1e90ff",
	Floating:   "#ff8c00",
	Overlay:    true,
}

// Option configures a Renderer.
type Option func(*Options)

// WithColors overrides the background and overlay colours. Empty strings
// keep the default.
func WithColors(background, reference, floating string) Option {
	return func(o *Options) {
		if background != "" {
			o.Background = background
		}
		if reference != "" {
			o.Reference = reference
		}
		if floating != "" {
			o.Floating = floating
		}
	}
}

// WithoutOverlay paints only the element boxes.
func WithoutOverlay() Option {
	return func(o *Options) { o.Overlay = false }
}

type Renderer struct {
	context *gg.Context
	opts    Options
}

func NewRenderer(width, height int, opts ...Option) *Renderer {
	o := DefaultOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Renderer{context: gg.NewContext(width, height), opts: o}
}

// box is one element to paint, in top-level viewport coordinates.
type box struct {
	el     *dom.Element
	rect   geom.Rect
	clip   geom.Rect
	zIndex int
	level  int
	order  int
}

// Render paints st. pos, when non-nil, is drawn as the overlay; callers
// normally Apply it to the stage first so the floating box sits at the
// computed spot.
func (r *Renderer) Render(st *scene.Stage, pos *floating.Position) error {
	r.setColor(r.opts.Background, css.Color{R: 255, G: 255, B: 255, A: 1})
	r.context.Clear()

	viewport := floating.ViewportParent(st.Window)
	screen := geom.NewRect(0, 0, float64(r.context.Width()), float64(r.context.Height()))

	boxes := r.collectBoxes(st.Window.Doc().BodyElement().Children(), &viewport, screen, nil)
	sortByZIndex(boxes)
	for _, b := range boxes {
		r.drawBox(b)
	}

	if pos == nil || !r.opts.Overlay {
		return nil
	}
	req, err := st.Request()
	if err != nil {
		return fmt.Errorf("overlay: %w", err)
	}
	ref := floating.BoundingClientRect(req.Reference, floating.RectOptions{OffsetParent: &viewport})
	fl := floating.BoundingClientRect(floating.Concrete(req.Floating), floating.RectOptions{OffsetParent: &viewport})
	r.drawOverlay(ref, fl)
	return nil
}

// collectBoxes flattens the light tree, shadow trees and same-origin frame
// documents into a paint list. Descendants of scroll containers and frames
// are clipped to their padding box.
func (r *Renderer) collectBoxes(kids []*dom.Element, viewport *floating.OffsetParent, clip geom.Rect, out []box) []box {
	for _, el := range kids {
		style := el.ComputedStyle()
		if style.GetDisplay() == css.DisplayNone {
			continue
		}
		rect := floating.BoundingClientRect(floating.Concrete(el), floating.RectOptions{OffsetParent: viewport})
		out = append(out, box{
			el:     el,
			rect:   rect,
			clip:   clip,
			zIndex: zIndex(style),
			level:  paintLevel(style),
			order:  len(out),
		})

		inner := clip
		if style.IsScrollContainer() || el.TagName() == "iframe" {
			inner = intersect(clip, paddingBox(el, rect))
		}
		if sr := el.ShadowRoot(); sr != nil {
			out = r.collectBoxes(sr.Children(), viewport, inner, out)
		} else {
			out = r.collectBoxes(el.Children(), viewport, inner, out)
		}
		if el.TagName() == "iframe" {
			if win := el.ContentWindow(); win != nil && win.FrameElement() != nil {
				out = r.collectBoxes(win.Doc().BodyElement().Children(), viewport, inner, out)
			}
		}
	}
	return out
}

func zIndex(style *css.Style) int {
	if style.GetPosition() == css.PositionStatic {
		return 0
	}
	z, err := strconv.Atoi(style.GetOr("z-index", "0"))
	if err != nil {
		return 0
	}
	return z
}

// paintLevel returns the painting level within the same z-index:
// 0 = in-flow blocks, 1 = inline content, 2 = positioned boxes.
func paintLevel(style *css.Style) int {
	if style.GetPosition() != css.PositionStatic {
		return 2
	}
	if style.GetDisplay() == css.DisplayInline {
		return 1
	}
	return 0
}

// sortByZIndex sorts boxes by z-index and painting level, keeping tree
// order otherwise.
func sortByZIndex(boxes []box) {
	sort.SliceStable(boxes, func(i, j int) bool {
		if boxes[i].zIndex != boxes[j].zIndex {
			return boxes[i].zIndex < boxes[j].zIndex
		}
		if boxes[i].level != boxes[j].level {
			return boxes[i].level < boxes[j].level
		}
		return boxes[i].order < boxes[j].order
	})
}

// edgeScale is the ratio of the painted rect to the element's own border
// box, applied to border widths so they follow transforms.
func edgeScale(el *dom.Element, rect geom.Rect) (float64, float64) {
	sx, sy := 1.0, 1.0
	if w := el.OffsetWidth(); w > 0 {
		sx = rect.Width / w
	}
	if h := el.OffsetHeight(); h > 0 {
		sy = rect.Height / h
	}
	return sx, sy
}

func paddingBox(el *dom.Element, rect geom.Rect) geom.Rect {
	sx, sy := edgeScale(el, rect)
	bw := el.ComputedStyle().GetBorderWidth()
	return geom.Rect{
		X:      rect.X + bw.Left*sx,
		Y:      rect.Y + bw.Top*sy,
		Width:  math.Max(0, rect.Width-(bw.Left+bw.Right)*sx),
		Height: math.Max(0, rect.Height-(bw.Top+bw.Bottom)*sy),
	}
}

func intersect(a, b geom.Rect) geom.Rect {
	x0 := math.Max(a.Left(), b.Left())
	y0 := math.Max(a.Top(), b.Top())
	x1 := math.Min(a.Right(), b.Right())
	y1 := math.Min(a.Bottom(), b.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return geom.Rect{X: x0, Y: y0}
	}
	return geom.Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

func (r *Renderer) drawBox(b box) {
	if b.clip.Width <= 0 || b.clip.Height <= 0 {
		return
	}
	r.context.DrawRectangle(b.clip.X, b.clip.Y, b.clip.Width, b.clip.Height)
	r.context.Clip()
	defer r.context.ResetClip()

	style := b.el.ComputedStyle()
	r.drawBackground(b, style)
	r.drawBorder(b)

	if style.IsScrollContainer() && style.HasToken("overflow", "scroll", "auto") {
		r.drawScrollbarIndicators(b)
	}
}

// drawBackground fills the border box with the background colour, then
// paints a linear-gradient background image over it.
func (r *Renderer) drawBackground(b box, style *css.Style) {
	for _, prop := range []string{"background-color", "background"} {
		if v, ok := style.Get(prop); ok {
			if color, ok := css.ParseColor(v); ok && color.A > 0 {
				r.setRGBA(color)
				r.context.DrawRectangle(b.rect.X, b.rect.Y, b.rect.Width, b.rect.Height)
				r.context.Fill()
				break
			}
		}
	}
	for _, prop := range []string{"background-image", "background"} {
		v, ok := style.Get(prop)
		if !ok {
			continue
		}
		if g, ok := css.FindLinearGradient(v); ok {
			r.drawGradient(b.rect, g)
			return
		}
	}
}

func (r *Renderer) drawGradient(rect geom.Rect, g *css.LinearGradient) {
	if rect.Width <= 0 || rect.Height <= 0 {
		return
	}
	x0, y0, x1, y1, stops := g.Line(rect.Width, rect.Height)
	grad := gg.NewLinearGradient(rect.X+x0, rect.Y+y0, rect.X+x1, rect.Y+y1)
	for _, stop := range stops {
		grad.AddColorStop(stop.Offset, stop.Color.NRGBA())
	}
	r.context.SetFillStyle(grad)
	r.context.DrawRectangle(rect.X, rect.Y, rect.Width, rect.Height)
	r.context.Fill()
}

// getBorderSideColor returns the color for a specific border side
func getBorderSideColor(style *css.Style, side string) css.Color {
	for _, prop := range []string{"border-" + side + "-color", "border-color", "color"} {
		if v, ok := style.Get(prop); ok {
			if color, ok := css.ParseColor(v); ok {
				return color
			}
		}
	}
	return css.Color{A: 1}
}

// drawBorder draws each border side as a trapezoid so corners miter.
func (r *Renderer) drawBorder(b box) {
	style := b.el.ComputedStyle()
	bw := style.GetBorderWidth()
	if bw.Top <= 0 && bw.Right <= 0 && bw.Bottom <= 0 && bw.Left <= 0 {
		return
	}
	outer := b.rect
	inner := paddingBox(b.el, b.rect)

	side := func(name string, width float64, points [4][2]float64) {
		if width <= 0 {
			return
		}
		color := getBorderSideColor(style, name)
		if color.A <= 0 {
			return
		}
		r.setRGBA(color)
		r.context.MoveTo(points[0][0], points[0][1])
		for _, p := range points[1:] {
			r.context.LineTo(p[0], p[1])
		}
		r.context.ClosePath()
		r.context.Fill()
	}

	side("top", bw.Top, [4][2]float64{
		{outer.Left(), outer.Top()}, {outer.Right(), outer.Top()},
		{inner.Right(), inner.Top()}, {inner.Left(), inner.Top()},
	})
	side("right", bw.Right, [4][2]float64{
		{outer.Right(), outer.Top()}, {outer.Right(), outer.Bottom()},
		{inner.Right(), inner.Bottom()}, {inner.Right(), inner.Top()},
	})
	side("bottom", bw.Bottom, [4][2]float64{
		{outer.Left(), outer.Bottom()}, {outer.Right(), outer.Bottom()},
		{inner.Right(), inner.Bottom()}, {inner.Left(), inner.Bottom()},
	})
	side("left", bw.Left, [4][2]float64{
		{outer.Left(), outer.Top()}, {outer.Left(), outer.Bottom()},
		{inner.Left(), inner.Bottom()}, {inner.Left(), inner.Top()},
	})
}

// drawScrollbarIndicators draws a vertical track on the right of the
// padding box and a thumb at the current scroll offset.
func (r *Renderer) drawScrollbarIndicators(b box) {
	const trackWidth = 6.0
	pad := paddingBox(b.el, b.rect)
	if pad.Width <= trackWidth || pad.Height <= 0 {
		return
	}
	r.setRGBA(css.Color{R: 200, G: 200, B: 200, A: 1})
	r.context.DrawRectangle(pad.Right()-trackWidth, pad.Y, trackWidth, pad.Height)
	r.context.Fill()

	_, sy := edgeScale(b.el, b.rect)
	thumb := pad.Height / 4
	offset := math.Min(b.el.ScrollTop()*sy, pad.Height-thumb)
	r.setRGBA(css.Color{R: 120, G: 120, B: 120, A: 1})
	r.context.DrawRectangle(pad.Right()-trackWidth, pad.Y+offset, trackWidth, thumb)
	r.context.Fill()
}

// drawOverlay outlines the reference and floating rects and joins their
// centres.
func (r *Renderer) drawOverlay(ref, fl geom.Rect) {
	r.context.SetLineWidth(2)
	r.context.SetDash(6, 3)
	r.setColor(r.opts.Reference, css.Color{R: 30, G: 144, B: 255, A: 1})
	r.context.DrawRectangle(ref.X, ref.Y, ref.Width, ref.Height)
	r.context.Stroke()

	r.setColor(r.opts.Floating, css.Color{R: 255, G: 140, B: 0, A: 1})
	r.context.DrawRectangle(fl.X, fl.Y, fl.Width, fl.Height)
	r.context.Stroke()
	r.context.SetDash()

	r.context.DrawLine(ref.X+ref.Width/2, ref.Y+ref.Height/2, fl.X+fl.Width/2, fl.Y+fl.Height/2)
	r.context.Stroke()
	r.context.DrawCircle(fl.X, fl.Y, 3)
	r.context.Fill()
}

func (r *Renderer) setRGBA(c css.Color) {
	r.context.SetRGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, c.A)
}

func (r *Renderer) setColor(value string, fallback css.Color) {
	if c, ok := css.ParseColor(value); ok {
		r.setRGBA(c)
		return
	}
	r.setRGBA(fallback)
}

// Image returns the painted image.
func (r *Renderer) Image() image.Image {
	return r.context.Image()
}

func (r *Renderer) SavePNG(filename string) error {
	return r.context.SavePNG(filename)
}

// EncodePNG writes the painted image to w.
func (r *Renderer) EncodePNG(w io.Writer) error {
	return r.context.EncodePNG(w)
}
