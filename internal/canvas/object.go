package canvas

import (
	"fmt"

	"github.com/irfansharif/cropper/internal/geom"
	"github.com/irfansharif/cropper/internal/pose"
)

// Type distinguishes the kinds of objects the canvas holds.
type Type int

const (
	Image     Type = iota // a (possibly cropped) picture
	Rect                  // a plain filled rectangle
	Selection             // a transient multi-object selection
)

func (t Type) String() string {
	switch t {
	case Image:
		return "image"
	case Rect:
		return "rect"
	case Selection:
		return "selection"
	default:
		return "unknown"
	}
}

// Control is a bitmask of the interactive handles shown on an object.
type Control int

const (
	ControlTL Control = 1 << iota
	ControlTR
	ControlBR
	ControlBL
	ControlRotate

	ControlNone    Control = 0
	ControlCorners         = ControlTL | ControlTR | ControlBR | ControlBL
	ControlAll             = ControlCorners | ControlRotate
)

// Has reports whether the handle for the given corner is shown.
func (c Control) Has(corner pose.Corner) bool {
	switch corner {
	case pose.TL:
		return c&ControlTL != 0
	case pose.TR:
		return c&ControlTR != 0
	case pose.BR:
		return c&ControlBR != 0
	case pose.BL:
		return c&ControlBL != 0
	default:
		return false
	}
}

// Lock holds the per-object interaction locks.
type Lock struct {
	MovementX, MovementY bool
	SkewingX, SkewingY   bool
	Rotation             bool
	ScalingFlip          bool // scaling past the opposite corner does not flip
}

// Source identifies the picture behind an image object and its natural
// size in pixels. Pictures are generated from the seed.
type Source struct {
	Seed          int64
	Width, Height float64
}

// Object is anything placed on the canvas. For images Width/Height are the
// visible (cropped) part of the source, starting at CropX/CropY.
type Object struct {
	ID   int
	Type Type
	pose.Pose

	Opacity      float64
	Source       Source
	CropX, CropY float64

	// Backing is the full, uncropped image an image object was cropped from.
	// It is not on the canvas itself; its pose follows the object through
	// Relationship.
	Backing *Object
	// Relationship is the backing image's transform relative to the
	// transform of the object it backs.
	Relationship *geom.Affine

	// Children are the members of a Selection. They keep canvas-absolute
	// poses.
	Children []*Object

	Controls        Control
	Lock            Lock
	CenteredScaling bool
	MinScaleLimit   float64
	Cropping        bool
}

// NewImage returns an uncropped image object showing the whole source at
// the given position and uniform scale.
func NewImage(src Source, left, top, scale float64) *Object {
	return &Object{
		Type:     Image,
		Pose:     pose.Pose{Left: left, Top: top, Width: src.Width, Height: src.Height, ScaleX: scale, ScaleY: scale},
		Opacity:  1,
		Source:   src,
		Controls: ControlAll,
	}
}

// NewRect returns a plain rectangle object.
func NewRect(left, top, width, height float64) *Object {
	return &Object{
		Type:     Rect,
		Pose:     pose.Make(left, top, width, height),
		Opacity:  1,
		Controls: ControlAll,
	}
}

// Clone returns a copy of the object. The relationship and the children list
// are copied; the backing image and the children themselves are shared.
func (o *Object) Clone() *Object {
	c := *o
	if o.Relationship != nil {
		rel := *o.Relationship
		c.Relationship = &rel
	}
	if o.Children != nil {
		c.Children = append([]*Object(nil), o.Children...)
	}
	return &c
}

func (o *Object) String() string {
	return fmt.Sprintf("%s#%d %s", o.Type, o.ID, o.Pose)
}

// boundingPose returns the axis-aligned pose enclosing every corner of objs.
func boundingPose(objs []*Object) pose.Pose {
	var lo, hi geom.Point
	for i, o := range objs {
		for j, p := range o.Corners().Points() {
			if i == 0 && j == 0 {
				lo, hi = p, p
				continue
			}
			lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
			hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
		}
	}
	return pose.Make(lo.X, lo.Y, hi.X-lo.X, hi.Y-lo.Y)
}
