package solver

import (
	"fmt"
	"math"

	"github.com/irfansharif/cropper/internal/pose"
)

// CropRect is the part of the backing image the crop window shows, in the
// backing image's unscaled (pixel) units.
type CropRect struct {
	X, Y          float64
	Width, Height float64
}

func (r CropRect) String() string {
	return fmt.Sprintf("crop{x=%.2f y=%.2f w=%.2f h=%.2f}", r.X, r.Y, r.Width, r.Height)
}

// Project returns the crop rectangle the two poses reveal, along with the
// crop window re-expressed at the backing image's scale (so that its
// Width/Height are in backing-image pixels, matching the crop rectangle).
//
// The crop origin is the backing-image corner that renders top-left in the
// window: flipping mirrors which corner that is.
func Project(window, backing pose.Pose) (pose.Pose, CropRect) {
	ref := pose.TL
	switch {
	case window.FlipX && window.FlipY:
		ref = pose.BR
	case window.FlipX:
		ref = pose.TR
	case window.FlipY:
		ref = pose.BL
	}
	ox, oy := ref.Origin()
	p := window.Localize(backing.Corners().Get(ref), ox, oy)

	bsx, bsy := math.Abs(backing.ScaleX), math.Abs(backing.ScaleY)
	out := window
	out.Width = window.Width * math.Abs(window.ScaleX) / bsx
	out.Height = window.Height * math.Abs(window.ScaleY) / bsy
	out.ScaleX, out.ScaleY = bsx, bsy

	return out, CropRect{
		X:      math.Abs(p.X) / bsx,
		Y:      math.Abs(p.Y) / bsy,
		Width:  out.Width,
		Height: out.Height,
	}
}
