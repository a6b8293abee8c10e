package floating

import (
	"math"

	"tether/pkg/geom"
	"tether/pkg/platform"
)

// GetScale returns the rendering scale inherited by the reference: its
// rendered size divided by its own used CSS size. Anything other than an
// HTML element scales by the identity.
func GetScale(ref Reference) geom.Scale {
	return elementScale(ref.Unwrap())
}

func elementScale(el platform.Element) geom.Scale {
	if el == nil || !el.IsHTML() {
		return geom.IdentityScale
	}
	rect := el.BoundingClientRect()
	dims, fallback := cssDimensions(el)
	w, h := rect.Width, rect.Height
	if fallback {
		w, h = geom.Round(w), geom.Round(h)
	}
	return geom.Scale{X: w / dims.Width, Y: h / dims.Height}.Sanitize()
}

// cssDimensions prefers the computed width and height. When either one
// rounds to something other than the offset size (auto sizes parse to NaN),
// both fall back to the offset sizes and fallback is true.
func cssDimensions(el platform.Element) (dims geom.Dimensions, fallback bool) {
	style := el.ComputedStyle()
	width := style.Float("width")
	height := style.Float("height")
	ow, oh := el.OffsetWidth(), el.OffsetHeight()
	if math.IsNaN(width) || math.IsNaN(height) ||
		geom.Round(width) != ow || geom.Round(height) != oh {
		return geom.Dimensions{Width: ow, Height: oh}, true
	}
	return geom.Dimensions{Width: width, Height: height}, false
}

// GetDimensions returns the used CSS size of el.
func GetDimensions(el platform.Element) geom.Dimensions {
	if el == nil {
		return geom.Dimensions{}
	}
	dims, _ := cssDimensions(el)
	return dims
}
