// Package pose models the placement of a rectangular object on the canvas:
// its position, size, scale, rotation and flips, the four corners that
// placement produces, and projections between canvas space and the object's
// own rotated frame.
//
// Left/Top always name the object's top-left corner (origin "left", "top")
// after rotation. Flips mirror the object's content around its center but do
// not move its corners.
package pose

import (
	"fmt"
	"math"

	"github.com/irfansharif/cropper/internal/geom"
)

// OriginX selects a horizontal anchor on an object.
type OriginX int

const (
	Left OriginX = iota
	CenterX
	Right
)

// OriginY selects a vertical anchor on an object.
type OriginY int

const (
	Top OriginY = iota
	CenterY
	Bottom
)

// Corner names one of an object's four corners.
type Corner int

const (
	NoCorner Corner = iota
	TL
	TR
	BR
	BL
)

// AllCorners lists the corners clockwise from the top-left.
var AllCorners = [4]Corner{TL, TR, BR, BL}

func (c Corner) String() string {
	switch c {
	case TL:
		return "tl"
	case TR:
		return "tr"
	case BR:
		return "br"
	case BL:
		return "bl"
	default:
		return "none"
	}
}

// Opposite returns the diagonally opposite corner.
func (c Corner) Opposite() Corner {
	switch c {
	case TL:
		return BR
	case TR:
		return BL
	case BR:
		return TL
	case BL:
		return TR
	default:
		return NoCorner
	}
}

// Origin returns the anchor pair naming this corner.
func (c Corner) Origin() (OriginX, OriginY) {
	switch c {
	case TR:
		return Right, Top
	case BR:
		return Right, Bottom
	case BL:
		return Left, Bottom
	default:
		return Left, Top
	}
}

// Corners holds the four transformed corner points of an object.
type Corners struct {
	TL, TR, BR, BL geom.Point
}

// Get returns the named corner.
func (c Corners) Get(corner Corner) geom.Point {
	switch corner {
	case TR:
		return c.TR
	case BR:
		return c.BR
	case BL:
		return c.BL
	default:
		return c.TL
	}
}

// Points returns the corners clockwise from the top-left.
func (c Corners) Points() [4]geom.Point { return [4]geom.Point{c.TL, c.TR, c.BR, c.BL} }

// Pose is an object's placement on the canvas.
type Pose struct {
	Left, Top      float64
	Width, Height  float64 // unscaled size
	ScaleX, ScaleY float64
	Angle          float64 // degrees, clockwise on the y-down canvas
	FlipX, FlipY   bool
}

// Make returns an unrotated, unscaled pose.
func Make(left, top, width, height float64) Pose {
	return Pose{Left: left, Top: top, Width: width, Height: height, ScaleX: 1, ScaleY: 1}
}

func (p Pose) String() string {
	return fmt.Sprintf("pose{left=%.2f top=%.2f w=%.2f h=%.2f sx=%.4f sy=%.4f angle=%.2f flip=%t/%t}",
		p.Left, p.Top, p.Width, p.Height, p.ScaleX, p.ScaleY, p.Angle, p.FlipX, p.FlipY)
}

// ScaledWidth is the width in canvas units.
func (p Pose) ScaledWidth() float64 { return p.Width * math.Abs(p.ScaleX) }

// ScaledHeight is the height in canvas units.
func (p Pose) ScaledHeight() float64 { return p.Height * math.Abs(p.ScaleY) }

// AxisX is the unit vector along the object's width.
func (p Pose) AxisX() geom.Point { return geom.Point{X: 1}.Rotate(p.Angle) }

// AxisY is the unit vector along the object's height.
func (p Pose) AxisY() geom.Point { return geom.Point{Y: 1}.Rotate(p.Angle) }

// offset returns the local (rotated frame) offset of an anchor from the
// top-left corner.
func (p Pose) offset(ox OriginX, oy OriginY) geom.Point {
	var o geom.Point
	switch ox {
	case CenterX:
		o.X = p.ScaledWidth() / 2
	case Right:
		o.X = p.ScaledWidth()
	}
	switch oy {
	case CenterY:
		o.Y = p.ScaledHeight() / 2
	case Bottom:
		o.Y = p.ScaledHeight()
	}
	return o
}

// Anchor returns the canvas position of the given anchor.
func (p Pose) Anchor(ox OriginX, oy OriginY) geom.Point {
	return geom.Point{X: p.Left, Y: p.Top}.Add(p.offset(ox, oy).Rotate(p.Angle))
}

// Center returns the canvas position of the object's center.
func (p Pose) Center() geom.Point { return p.Anchor(CenterX, CenterY) }

// Corners returns the four transformed corners.
func (p Pose) Corners() Corners {
	return Corners{
		TL: p.Anchor(Left, Top),
		TR: p.Anchor(Right, Top),
		BR: p.Anchor(Right, Bottom),
		BL: p.Anchor(Left, Bottom),
	}
}

// Localize projects a canvas point into the object's rotated frame, relative
// to the given anchor. Points inside the object have coordinates between
// the anchor and the opposite side, e.g. x in [-scaledWidth, 0] for Right.
func (p Pose) Localize(pt geom.Point, ox OriginX, oy OriginY) geom.Point {
	return pt.Sub(p.Anchor(ox, oy)).Rotate(-p.Angle)
}

// ToCanvas is the inverse of Localize.
func (p Pose) ToCanvas(local geom.Point, ox OriginX, oy OriginY) geom.Point {
	return p.Anchor(ox, oy).Add(local.Rotate(p.Angle))
}

// SetPositionByOrigin moves the object so that the given anchor lands on pt.
func (p *Pose) SetPositionByOrigin(pt geom.Point, ox OriginX, oy OriginY) {
	tl := pt.Sub(p.offset(ox, oy).Rotate(p.Angle))
	p.Left, p.Top = tl.X, tl.Y
}

// Transform returns the matrix mapping the object's centered, unscaled local
// frame onto the canvas: T(center)·R(angle)·S(±scaleX, ±scaleY), with flips
// negating the respective scale.
func (p Pose) Transform() geom.Affine {
	sx, sy := math.Abs(p.ScaleX), math.Abs(p.ScaleY)
	if p.FlipX {
		sx = -sx
	}
	if p.FlipY {
		sy = -sy
	}
	c := p.Center()
	return geom.Translate(c.X, c.Y).Mul(geom.Rotate(p.Angle)).Mul(geom.Scale(sx, sy))
}

// ApplyTransform re-poses the object from a transform produced by
// Transform (possibly composed with others), keeping the current size and
// resolving flips against the ones the caller expects. Skew is dropped.
func (p *Pose) ApplyTransform(t geom.Affine, flipX, flipY bool) {
	d, fx, fy := t.Decompose().Oriented(flipX, flipY)
	p.ScaleX, p.ScaleY = d.ScaleX, d.ScaleY
	p.FlipX, p.FlipY = fx, fy
	p.Angle = d.Angle
	p.SetPositionByOrigin(geom.Point{X: d.TranslateX, Y: d.TranslateY}, CenterX, CenterY)
}

// Contains reports whether the canvas point lies inside the object (with
// tolerance eps on every side).
func (p Pose) Contains(pt geom.Point, eps float64) bool {
	l := p.Localize(pt, Left, Top)
	return l.X >= -eps && l.Y >= -eps && l.X <= p.ScaledWidth()+eps && l.Y <= p.ScaledHeight()+eps
}

// ScaleFromCorner returns the pose obtained by dragging the given corner to
// pointer with the opposite corner pinned, the way a host scales an object
// from a corner control. Only the magnitude of the pointer offset counts, so
// the result never flips.
func (p Pose) ScaleFromCorner(corner Corner, pointer geom.Point) Pose {
	if corner == NoCorner || p.Width == 0 || p.Height == 0 {
		return p
	}
	pinX, pinY := corner.Opposite().Origin()
	pin := p.Anchor(pinX, pinY)
	local := p.Localize(pointer, pinX, pinY)
	out := p
	out.ScaleX = math.Abs(local.X) / p.Width
	out.ScaleY = math.Abs(local.Y) / p.Height
	out.SetPositionByOrigin(pin, pinX, pinY)
	return out
}
