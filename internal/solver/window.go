package solver

import (
	"math"

	"github.com/irfansharif/cropper/internal/geom"
	"github.com/irfansharif/cropper/internal/pose"
)

// WindowScale is the state of one crop-window corner drag.
type WindowScale struct {
	Corner              pose.Corner  // corner being dragged
	Start               pose.Corners // crop window corners at drag-start
	MinWidth, MinHeight float64
}

// BeginWindowScale captures the crop window before a corner drag. It reports
// false if no corner is grabbed.
func BeginWindowScale(corner pose.Corner, window pose.Pose, minWidth, minHeight float64) (*WindowScale, bool) {
	if corner == pose.NoCorner {
		return nil, false
	}
	return &WindowScale{
		Corner:    corner,
		Start:     window.Corners(),
		MinWidth:  minWidth,
		MinHeight: minHeight,
	}, true
}

// axis is the legal interval of one coordinate of the dragged corner, in the
// backing image's frame. One end is the backing image's edge, the other the
// minimum-size boundary measured from the fixed corner.
type axis struct {
	outward float64 // -1 when the dragged corner is on the low side of the fixed one
	edge    float64
	min     float64
}

func (a axis) bounds() (lo, hi float64) {
	if a.outward < 0 {
		return a.edge, a.min
	}
	return a.min, a.edge
}

// resolve classifies v and clamps it into the interval. If the backing image
// is too small to honor both ends, the minimum size wins.
func (a axis) resolve(v float64) (Side, float64) {
	lo, hi := a.bounds()
	if lo > hi {
		if a.outward < 0 {
			return High, a.min
		}
		return Low, a.min
	}
	return classify(v, lo, hi), clamp(v, lo, hi)
}

// atEdge reports whether a constrained side is the backing-image edge (as
// opposed to the minimum-size boundary).
func (a axis) atEdge(s Side) bool { return (s == Low) == (a.outward < 0) }

func (a axis) boundary(s Side) float64 {
	if a.atEdge(s) {
		return a.edge
	}
	return a.min
}

// Update computes the crop window for the current pointer position. The
// result carries its size in Width/Height with unit scale, shares the backing
// image's rotation and flips, and is never smaller than the minimum size.
// The returned region says which constraints were active.
func (g *WindowScale) Update(window, backing pose.Pose, pointer geom.Point) (pose.Pose, Region) {
	fixed := backing.Localize(g.Start.Get(g.Corner.Opposite()), pose.Left, pose.Top)

	ax := axis{outward: -1, edge: 0, min: fixed.X - g.MinWidth}
	if g.Corner == pose.TR || g.Corner == pose.BR {
		ax = axis{outward: 1, edge: backing.ScaledWidth(), min: fixed.X + g.MinWidth}
	}
	ay := axis{outward: -1, edge: 0, min: fixed.Y - g.MinHeight}
	if g.Corner == pose.BR || g.Corner == pose.BL {
		ay = axis{outward: 1, edge: backing.ScaledHeight(), min: fixed.Y + g.MinHeight}
	}

	local := backing.Localize(pointer, pose.Left, pose.Top)
	sx, _ := ax.resolve(local.X)
	sy, _ := ay.resolve(local.Y)
	region := Region{X: sx, Y: sy}

	// Boundary lines run along the backing image's axes: x boundaries are
	// parallel to its left/right edges, y boundaries to its top/bottom edges.
	xLine := func() geom.Line {
		at := backing.ToCanvas(geom.Point{X: ax.boundary(sx)}, pose.Left, pose.Top)
		return geom.LineDir(at, backing.AxisY())
	}
	yLine := func() geom.Line {
		at := backing.ToCanvas(geom.Point{Y: ay.boundary(sy)}, pose.Left, pose.Top)
		return geom.LineDir(at, backing.AxisX())
	}

	var dragged geom.Point
	switch {
	case region.Free():
		dragged = pointer
	case region.Corner():
		p, ok := xLine().Intersect(yLine())
		if !ok {
			p = backing.ToCanvas(geom.Point{X: ax.boundary(sx), Y: ay.boundary(sy)}, pose.Left, pose.Top)
		}
		dragged = p
	case sx != Inside:
		dragged = xLine().Pedal(pointer)
	default:
		dragged = yLine().Pedal(pointer)
	}

	// Re-clamp in the local frame to absorb rounding from the constructions.
	d := backing.Localize(dragged, pose.Left, pose.Top)
	_, dx := ax.resolve(d.X)
	_, dy := ay.resolve(d.Y)

	out := window
	out.Width = math.Max(math.Abs(dx-fixed.X), g.MinWidth)
	out.Height = math.Max(math.Abs(dy-fixed.Y), g.MinHeight)
	out.ScaleX, out.ScaleY = 1, 1
	out.Angle = backing.Angle
	out.FlipX, out.FlipY = backing.FlipX, backing.FlipY
	tl := geom.Point{X: math.Min(dx, fixed.X), Y: math.Min(dy, fixed.Y)}
	out.SetPositionByOrigin(backing.ToCanvas(tl, pose.Left, pose.Top), pose.Left, pose.Top)
	return out, region
}
