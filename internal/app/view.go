package app

import (
	"github.com/irfansharif/cropper/internal/geom"
)

const (
	minZoom = 0.1
	maxZoom = 8.0

	// zoomStep is the zoom change per scroll unit.
	zoomStep = 0.15
)

// View manages the current view state including zoom, pan, and viewport.
// Zoom applies around the viewport center, then the pan (in framebuffer
// pixels).
type View struct {
	Zoom          float64
	PanX, PanY    float64
	Width, Height int
}

// NewView creates a new view state with default values.
func NewView(width, height int) *View {
	return &View{
		Zoom:   1.0,
		Width:  width,
		Height: height,
	}
}

// SetZoom sets the zoom level, clamping to valid range.
func (vs *View) SetZoom(zoom float64) {
	if zoom < minZoom {
		vs.Zoom = minZoom
	} else if zoom > maxZoom {
		vs.Zoom = maxZoom
	} else {
		vs.Zoom = zoom
	}
}

// SetPan sets the pan position to the given coordinates.
func (vs *View) SetPan(x, y float64) {
	vs.PanX = x
	vs.PanY = y
}

// SetViewport updates the viewport dimensions.
func (vs *View) SetViewport(width, height int) {
	vs.Width = width
	vs.Height = height
}

// ResetTo resets zoom to 1.0 and pans to center the given point in the
// viewport.
func (vs *View) ResetTo(pos geom.Point) {
	vs.Zoom = 1.0
	viewportCenterX := float64(vs.Width) / 2.0
	viewportCenterY := float64(vs.Height) / 2.0
	vs.PanX = viewportCenterX - pos.X
	vs.PanY = viewportCenterY - pos.Y
}

func (vs *View) center() geom.Point {
	return geom.Point{X: float64(vs.Width) / 2, Y: float64(vs.Height) / 2}
}

// Transform maps canvas coordinates to framebuffer pixels.
func (vs *View) Transform() geom.Affine {
	c := vs.center()
	return geom.Translate(vs.PanX, vs.PanY).
		Mul(geom.Translate(c.X, c.Y)).
		Mul(geom.Scale(vs.Zoom, vs.Zoom)).
		Mul(geom.Translate(-c.X, -c.Y))
}

// ScreenToCanvas maps a framebuffer position to canvas coordinates.
func (vs *View) ScreenToCanvas(p geom.Point) geom.Point {
	// canvasPos = (screenPos - center*(1-zoom) - pan) / zoom
	c := vs.center()
	return geom.Point{
		X: (p.X - c.X*(1-vs.Zoom) - vs.PanX) / vs.Zoom,
		Y: (p.Y - c.Y*(1-vs.Zoom) - vs.PanY) / vs.Zoom,
	}
}

// Fit zooms and pans so that the canvas box b fills the viewport, less a
// margin of framebuffer pixels on every side.
func (vs *View) Fit(b geom.Box, margin float64) {
	dst := geom.MakeBox(margin, margin, float64(vs.Width)-2*margin, float64(vs.Height)-2*margin)
	if b.W <= 0 || b.H <= 0 || dst.W <= 0 || dst.H <= 0 {
		vs.ResetTo(geom.MakePoint(b.X+b.W/2, b.Y+b.H/2))
		return
	}
	vs.SetZoom(geom.FillBox(b, dst, false).A)

	// Pan so that the box center maps onto the viewport center.
	c := vs.center()
	vs.SetPan(vs.Zoom*(c.X-(b.X+b.W/2)), vs.Zoom*(c.Y-(b.Y+b.H/2)))
}

// ZoomAt zooms by delta scroll units, keeping the canvas point under the
// framebuffer position cursor in place.
func (vs *View) ZoomAt(cursor geom.Point, delta float64) {
	anchor := vs.ScreenToCanvas(cursor)
	vs.SetZoom(vs.Zoom * (1 + delta*zoomStep))

	// Pan so that anchor maps back onto the cursor.
	moved := vs.Transform().MulPoint(anchor)
	vs.SetPan(vs.PanX+cursor.X-moved.X, vs.PanY+cursor.Y-moved.Y)
}
