// Package canvas is an in-memory scene graph for 2D objects: it keeps the
// objects in stacking order, tracks the active object (or multi-object
// selection), hit-tests pointer positions against objects and their
// controls, applies the default drag/scale/rotate/flip behavior to unlocked
// objects, and publishes events for all of it.
//
// Everything runs synchronously on the caller's goroutine.
package canvas

import (
	"io"
	"log"
	"math"
	"os"

	"github.com/irfansharif/cropper/internal/geom"
	"github.com/irfansharif/cropper/internal/pose"
)

var canvasLogger *log.Logger = log.New(io.Discard, "", 0)

func init() {
	if os.Getenv("CROPPER_DEBUG_CANVAS") == "1" {
		canvasLogger = log.New(os.Stdout, "[canvas] ", log.Ltime|log.Lmsgprefix)
	}
}

const (
	defaultHandleSize = 10.0
	// rotateOffset is how far above an object's top edge its rotation
	// handle sits.
	rotateOffset = 30.0
)

// Canvas holds objects bottom to top.
type Canvas struct {
	objects []*Object
	active  *Object
	nextID  int

	handlers map[EventType][]subscriber
	nextSub  int

	centeredScaling bool
	gesture         *gesture
	dirty           bool

	// HandleSize is the hit radius of controls, in canvas units.
	HandleSize float64
}

// New returns an empty canvas.
func New() *Canvas {
	return &Canvas{
		handlers:   make(map[EventType][]subscriber, numEventTypes),
		nextID:     1,
		HandleSize: defaultHandleSize,
	}
}

// Add places o on top of the stack, assigning it an ID if it has none.
func (c *Canvas) Add(o *Object) {
	if o.ID == 0 {
		o.ID = c.nextID
		c.nextID++
	} else if o.ID >= c.nextID {
		c.nextID = o.ID + 1
	}
	c.objects = append(c.objects, o)
	c.RequestRender()
}

// Remove takes o off the canvas, deselecting it if it was active. It
// reports whether o was on the canvas.
func (c *Canvas) Remove(o *Object) bool {
	i := c.IndexOf(o)
	if i < 0 {
		return false
	}
	c.objects = append(c.objects[:i], c.objects[i+1:]...)
	if c.active == o {
		c.active = nil
	}
	c.RequestRender()
	return true
}

// Objects returns the objects bottom to top.
func (c *Canvas) Objects() []*Object {
	return append([]*Object(nil), c.objects...)
}

// IndexOf returns o's position in the stack, or -1.
func (c *Canvas) IndexOf(o *Object) int {
	for i, obj := range c.objects {
		if obj == o {
			return i
		}
	}
	return -1
}

// MoveToIndex moves o to position i in the stack (clamped), adding it if it
// is not on the canvas.
func (c *Canvas) MoveToIndex(o *Object, i int) {
	if j := c.IndexOf(o); j >= 0 {
		c.objects = append(c.objects[:j], c.objects[j+1:]...)
	}
	i = max(0, min(i, len(c.objects)))
	c.objects = append(c.objects, nil)
	copy(c.objects[i+1:], c.objects[i:])
	c.objects[i] = o
	c.RequestRender()
}

// BringToFront moves o to the top of the stack.
func (c *Canvas) BringToFront(o *Object) { c.MoveToIndex(o, len(c.objects)) }

// Active returns the active object (possibly a Selection), or nil.
func (c *Canvas) Active() *Object { return c.active }

// SetActive makes o the active object. Replacing an active selection
// publishes SelectionCleared for it.
func (c *Canvas) SetActive(o *Object) {
	if c.active == o {
		return
	}
	prev := c.active
	c.active = o
	c.RequestRender()
	if prev != nil && (o == nil || prev.Type == Selection) {
		c.fire(&Event{Type: SelectionCleared, Target: prev, Start: prev.Pose})
	}
}

// SelectAll selects every object on the canvas: a single object directly,
// several through a Selection.
func (c *Canvas) SelectAll() {
	switch len(c.objects) {
	case 0:
		c.SetActive(nil)
	case 1:
		c.SetActive(c.objects[0])
	default:
		sel := &Object{
			Type:     Selection,
			Pose:     boundingPose(c.objects),
			Opacity:  1,
			Children: c.Objects(),
			Controls: ControlAll,
			Lock:     Lock{ScalingFlip: true},
		}
		c.SetActive(sel)
	}
}

// CenteredScaling reports whether corner drags scale around the center.
func (c *Canvas) CenteredScaling() bool { return c.centeredScaling }

// SetCenteredScaling switches between center- and corner-anchored scaling.
func (c *Canvas) SetCenteredScaling(v bool) { c.centeredScaling = v }

// RequestRender marks the canvas as needing a redraw.
func (c *Canvas) RequestRender() { c.dirty = true }

// NeedsRender reports (and clears) whether a redraw was requested.
func (c *Canvas) NeedsRender() bool {
	d := c.dirty
	c.dirty = false
	return d
}

// Render calls draw for every object bottom to top, then publishes
// AfterRender so that decorations land on top.
func (c *Canvas) Render(draw func(*Object)) {
	for _, o := range c.objects {
		draw(o)
	}
	c.fire(&Event{Type: AfterRender})
}

// FindTarget returns the topmost object containing p, or nil.
func (c *Canvas) FindTarget(p geom.Point) *Object {
	if a := c.active; a != nil && a.Type == Selection && a.Contains(p, 0) {
		return a
	}
	for i := len(c.objects) - 1; i >= 0; i-- {
		if c.objects[i].Contains(p, 0) {
			return c.objects[i]
		}
	}
	return nil
}

// ControlAt returns the visible corner control of o under p, if any.
func (c *Canvas) ControlAt(o *Object, p geom.Point) pose.Corner {
	corners := o.Corners()
	best, bestDist := pose.NoCorner, math.Inf(1)
	for _, corner := range pose.AllCorners {
		if !o.Controls.Has(corner) {
			continue
		}
		if d := geom.Dist(p, corners.Get(corner)); d <= c.HandleSize && d < bestDist {
			best, bestDist = corner, d
		}
	}
	return best
}

// RotateHandle returns the position of o's rotation control.
func RotateHandle(o *Object) geom.Point {
	top := o.Anchor(pose.CenterX, pose.Top)
	return top.Sub(o.AxisY().Scale(rotateOffset))
}

func (c *Canvas) rotateAt(o *Object, p geom.Point) bool {
	return o.Controls&ControlRotate != 0 && geom.Dist(p, RotateHandle(o)) <= c.HandleSize
}
