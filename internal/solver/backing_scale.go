package solver

import (
	"math"

	"github.com/irfansharif/cropper/internal/geom"
	"github.com/irfansharif/cropper/internal/pose"
)

// BackingScale is the state of one backing-image corner drag.
type BackingScale struct {
	Corner pose.Corner
	Start  pose.Pose // backing image at drag-start

	// MinScaleX and MinScaleY are the smallest scales at which the backing
	// image, pinned at the corner opposite the dragged one, still reaches
	// the crop window's far side.
	MinScaleX, MinScaleY float64
	// Diagonals are the backing image's TL-BR and TR-BL diagonals at
	// drag-start. Aspect-preserving scales around the pinned corner move the
	// dragged corner along one of them.
	Diagonals [2]geom.Line
	// Radio is the backing image's scaleY/scaleX ratio at drag-start.
	Radio float64

	window pose.Corners
}

// BeginBackingScale captures the backing image and the crop window before a
// backing-image corner drag. It reports false if no corner is grabbed or
// the backing image has no area.
func BeginBackingScale(corner pose.Corner, window, backing pose.Pose) (*BackingScale, bool) {
	if corner == pose.NoCorner || backing.Width == 0 || backing.Height == 0 || backing.ScaleX == 0 {
		return nil, false
	}
	bc := backing.Corners()
	wc := window.Corners()

	// Edges that stay put while the dragged corner moves.
	pinnedX := geom.MakeLine(bc.TR, bc.BR) // right edge
	if corner == pose.TR || corner == pose.BR {
		pinnedX = geom.MakeLine(bc.TL, bc.BL)
	}
	pinnedY := geom.MakeLine(bc.BL, bc.BR) // bottom edge
	if corner == pose.BR || corner == pose.BL {
		pinnedY = geom.MakeLine(bc.TL, bc.TR)
	}
	windowCorner := wc.Get(corner)

	return &BackingScale{
		Corner:    corner,
		Start:     backing,
		MinScaleX: math.Abs(pinnedX.Distance(windowCorner)) / backing.Width,
		MinScaleY: math.Abs(pinnedY.Distance(windowCorner)) / backing.Height,
		Diagonals: [2]geom.Line{geom.MakeLine(bc.TL, bc.BR), geom.MakeLine(bc.TR, bc.BL)},
		Radio:     math.Abs(backing.ScaleY / backing.ScaleX),
		window:    wc,
	}, true
}

// Propose returns the pose the host would give the backing image for the
// pointer position, dragging the grabbed corner with the opposite one pinned.
func (g *BackingScale) Propose(pointer geom.Point) pose.Pose {
	return g.Start.ScaleFromCorner(g.Corner, pointer)
}

// Update clamps a proposed backing-image pose. If either proposed scale is
// at or below its minimum, the image is scaled uniformly (keeping the
// drag-start aspect ratio) to the smallest scale that covers the crop window,
// and its dragged corner is placed where its diagonal meets the crop window
// edge that became binding. It reports whether the proposal was clamped.
func (g *BackingScale) Update(proposed pose.Pose) (pose.Pose, bool) {
	if proposed.ScaleX > g.MinScaleX && proposed.ScaleY > g.MinScaleY {
		return proposed, false
	}

	out := proposed
	k := math.Max(g.MinScaleX, g.MinScaleY/g.Radio)
	out.ScaleX, out.ScaleY = k, k*g.Radio

	diagonal := g.Diagonals[0]
	if g.Corner == pose.TR || g.Corner == pose.BL {
		diagonal = g.Diagonals[1]
	}
	var edge geom.Line
	if k == g.MinScaleX {
		edge = geom.MakeLine(g.window.TL, g.window.BL)
		if g.Corner == pose.TR || g.Corner == pose.BR {
			edge = geom.MakeLine(g.window.TR, g.window.BR)
		}
	} else {
		edge = geom.MakeLine(g.window.TL, g.window.TR)
		if g.Corner == pose.BR || g.Corner == pose.BL {
			edge = geom.MakeLine(g.window.BL, g.window.BR)
		}
	}

	if p, ok := diagonal.Intersect(edge); ok {
		ox, oy := g.Corner.Origin()
		out.SetPositionByOrigin(p, ox, oy)
	} else {
		ox, oy := g.Corner.Opposite().Origin()
		out.SetPositionByOrigin(g.Start.Anchor(ox, oy), ox, oy)
	}
	return out, true
}
