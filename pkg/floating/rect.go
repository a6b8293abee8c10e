package floating

import (
	"tether/pkg/geom"
	"tether/pkg/platform"
)

// RectOptions controls BoundingClientRect.
type RectOptions struct {
	// IncludeScale divides the rect by the scale of OffsetParent when it is
	// set, else by the scale of the reference itself.
	IncludeScale bool
	// Fixed adds visual viewport offsets on browsers whose layout viewport
	// is not the visual viewport.
	Fixed bool
	// OffsetParent, when set from another window than the reference,
	// composes the rect through every embedding frame up to that window.
	OffsetParent *OffsetParent
}

// BoundingClientRect measures ref in a coordinate space free of inherited
// scale, composed across same-origin frames.
func BoundingClientRect(ref Reference, opts RectOptions) geom.Rect {
	raw := ref.BoundingClientRect()
	el := ref.Unwrap()

	scale := geom.IdentityScale
	if opts.IncludeScale {
		switch {
		case opts.OffsetParent == nil:
			scale = GetScale(ref)
		case !opts.OffsetParent.IsViewport():
			scale = elementScale(opts.OffsetParent.Element())
		}
	}

	var visualLeft, visualTop float64
	win := platform.WindowOf(el)
	// A virtual reference without a context element reads the visual
	// viewport of the window it is positioned in.
	viewWin := win
	if viewWin == nil && opts.OffsetParent != nil {
		viewWin = opts.OffsetParent.Window()
	}
	if opts.Fixed && viewWin != nil && !viewWin.Quirks().LayoutViewport {
		if vv := viewWin.VisualViewport(); vv != nil {
			visualLeft, visualTop = vv.OffsetLeft(), vv.OffsetTop()
		}
	}

	rect := geom.Rect{
		X:      (raw.X + visualLeft) / scale.X,
		Y:      (raw.Y + visualTop) / scale.Y,
		Width:  raw.Width / scale.X,
		Height: raw.Height / scale.Y,
	}

	if win == nil || opts.OffsetParent == nil {
		return rect
	}
	return composeFrames(rect, win, opts.OffsetParent.Window())
}

// composeFrames maps rect from the viewport of win into the viewport of
// target by walking embedding frames outward. The walk stops at target or
// at an embedder it cannot see (cross-origin), in which case the result is
// best effort.
func composeFrames(rect geom.Rect, win, target platform.Window) geom.Rect {
	for win != target {
		frame := win.FrameElement()
		if frame == nil {
			break
		}
		fs := elementScale(frame)
		fr := frame.BoundingClientRect()
		pad := frame.ComputedStyle().GetPadding()
		fr.X += (frame.ClientLeft() + pad.Left) * fs.X
		fr.Y += (frame.ClientTop() + pad.Top) * fs.Y

		rect.X *= fs.X
		rect.Y *= fs.Y
		rect.Width *= fs.X
		rect.Height *= fs.Y
		rect.X += fr.X
		rect.Y += fr.Y

		win = platform.WindowOf(frame)
		if win == nil {
			break
		}
	}
	return rect
}
