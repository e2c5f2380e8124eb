package solver

import (
	"math"

	"github.com/irfansharif/cropper/internal/geom"
	"github.com/irfansharif/cropper/internal/pose"
)

// Boundary indices into BackingMove.Bounds, named in the backing image's own
// (rotated) frame.
const (
	BoundLeft = iota
	BoundTop
	BoundRight
	BoundBottom
)

// BackingMove is the state of one backing-image move drag.
type BackingMove struct {
	Start        geom.Point // backing image top-left at drag-start
	StartPointer geom.Point

	// Movable is the rectangle of legal positions for the backing image's
	// top-left corner, rotated with the image. Its size is the backing
	// image's scaled size minus the crop window's.
	Movable pose.Pose
	// Bounds are the lines through the movable region's sides, built as the
	// crop window's left and top edges pushed outwards by the margins.
	Bounds [4]geom.Line
}

// BeginBackingMove captures the movable region before a backing-image drag.
func BeginBackingMove(window, backing pose.Pose, pointer geom.Point) *BackingMove {
	offX := math.Max(backing.ScaledWidth()-window.ScaledWidth(), 0)
	offY := math.Max(backing.ScaledHeight()-window.ScaledHeight(), 0)

	wc := window.Corners()
	center := window.Center()
	movable := pose.Pose{
		Width: offX, Height: offY,
		ScaleX: 1, ScaleY: 1,
		Angle: backing.Angle,
	}
	movable.SetPositionByOrigin(wc.TL, pose.Right, pose.Bottom)

	left := geom.MakeLine(wc.TL, wc.BL)
	top := geom.MakeLine(wc.TL, wc.TR)
	return &BackingMove{
		Start:        geom.Point{X: backing.Left, Y: backing.Top},
		StartPointer: pointer,
		Movable:      movable,
		Bounds: [4]geom.Line{
			BoundLeft:   left.ShiftAway(center, offX),
			BoundTop:    top.ShiftAway(center, offY),
			BoundRight:  left,
			BoundBottom: top,
		},
	}
}

// Update returns the backing image's new top-left for the pointer position.
// Inside the movable region the image follows the pointer; past one side it
// slides along that side; past two it sticks to the region's corner.
func (g *BackingMove) Update(pointer geom.Point) (geom.Point, Region) {
	candidate := g.Start.Add(pointer.Sub(g.StartPointer))
	local := g.Movable.Localize(candidate, pose.Left, pose.Top)
	region := Region{
		X: classify(local.X, 0, g.Movable.Width),
		Y: classify(local.Y, 0, g.Movable.Height),
	}

	switch {
	case region.Free():
		return candidate, region
	case region.Corner():
		corner := pose.TL
		switch {
		case region.X == High && region.Y == Low:
			corner = pose.TR
		case region.X == High && region.Y == High:
			corner = pose.BR
		case region.X == Low && region.Y == High:
			corner = pose.BL
		}
		return g.Movable.Corners().Get(corner), region
	}

	var bound geom.Line
	switch {
	case region.X == Low:
		bound = g.Bounds[BoundLeft]
	case region.X == High:
		bound = g.Bounds[BoundRight]
	case region.Y == Low:
		bound = g.Bounds[BoundTop]
	default:
		bound = g.Bounds[BoundBottom]
	}
	p, ok := bound.Perpendicular(candidate).Intersect(bound)
	if !ok {
		p = bound.Pedal(candidate)
	}
	return p, region
}

// Sides returns the boundary lines by the side of the screen they appear on
// (left, top, right, bottom). Rotating the backing image past each quadrant
// boundary rotates which of its own sides faces which way.
func (g *BackingMove) Sides() [4]geom.Line {
	q := geom.Quadrant(g.Movable.Angle)
	var sides [4]geom.Line
	for i := range sides {
		sides[i] = g.Bounds[(i-q+4)%4]
	}
	return sides
}
