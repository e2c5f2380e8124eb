package canvas

import (
	"math"

	"github.com/irfansharif/cropper/internal/geom"
	"github.com/irfansharif/cropper/internal/pose"
)

// Action is what a pointer gesture does to its target.
type Action int

const (
	Drag Action = iota
	Scale
	Rotate
)

// gesture is the per-drag state, captured on pointer down.
type gesture struct {
	target   *Object
	action   Action
	corner   pose.Corner
	pointer  geom.Point // at pointer down
	start    pose.Pose  // target at pointer down
	children []pose.Pose
	changed  bool
}

// PointerDown starts a gesture on whatever is under p: a control of the
// active object first, then the topmost object. A press on empty canvas
// clears the selection.
func (c *Canvas) PointerDown(p geom.Point) {
	target, action, corner := c.hit(p)
	if target != c.active && target != nil {
		c.SetActive(target)
	} else if target == nil {
		c.SetActive(nil)
	}

	c.gesture = nil
	if target != nil {
		g := &gesture{
			target:  target,
			action:  action,
			corner:  corner,
			pointer: p,
			start:   target.Pose,
		}
		for _, child := range target.Children {
			g.children = append(g.children, child.Pose)
		}
		c.gesture = g
	}
	c.fire(&Event{Type: MouseDown, Target: target, Pointer: p, Corner: corner, Start: poseOf(target)})
}

// PointerMove advances the current gesture, if any.
func (c *Canvas) PointerMove(p geom.Point) {
	g := c.gesture
	if g == nil || c.IndexOf(g.target) < 0 && g.target.Type != Selection {
		// The target left the canvas mid-gesture.
		c.gesture = nil
		c.fire(&Event{Type: MouseMove, Pointer: p})
		return
	}

	var typ EventType
	act := true
	switch g.action {
	case Scale:
		typ = Scaling
		g.target.Pose = scaled(g.start, g.corner, p, g.target.Lock, g.target.MinScaleLimit, c.centeredScaling)
	case Rotate:
		typ = Rotating
		if g.target.Lock.Rotation {
			act = false
			break
		}
		center := g.start.Center()
		from := g.pointer.Sub(center)
		to := p.Sub(center)
		delta := geom.Degrees(math.Atan2(to.Y, to.X) - math.Atan2(from.Y, from.X))
		g.target.Pose = rotated(g.start, delta)
	default:
		typ = Moving
		act = !g.target.Lock.MovementX || !g.target.Lock.MovementY
		g.target.Pose = moved(g.start, p.Sub(g.pointer), g.target.Lock)
	}
	if act {
		g.changed = true
		if g.target.Type == Selection {
			c.transformChildren(g)
		}
		c.RequestRender()
		c.fire(&Event{Type: typ, Target: g.target, Pointer: p, Corner: g.corner, Start: g.start})
	}
	c.fire(&Event{Type: MouseMove, Target: g.target, Pointer: p, Corner: g.corner, Start: g.start})
}

// PointerUp ends the current gesture, publishing Modified if it changed
// its target.
func (c *Canvas) PointerUp(p geom.Point) {
	g := c.gesture
	c.gesture = nil
	if g == nil {
		c.fire(&Event{Type: MouseUp, Pointer: p})
		return
	}
	if g.changed {
		c.fire(&Event{Type: Modified, Target: g.target, Pointer: p, Corner: g.corner, Start: g.start})
	}
	c.fire(&Event{Type: MouseUp, Target: g.target, Pointer: p, Corner: g.corner, Start: g.start})
}

// DoubleClick publishes a double-click on the topmost object under p.
func (c *Canvas) DoubleClick(p geom.Point) {
	target := c.FindTarget(p)
	c.fire(&Event{Type: DoubleClick, Target: target, Pointer: p, Start: poseOf(target)})
}

// Dragging reports whether a pointer gesture is in progress.
func (c *Canvas) Dragging() bool { return c.gesture != nil }

// Nudge moves o by d, as the keyboard would.
func (c *Canvas) Nudge(o *Object, d geom.Point) {
	if o == nil {
		return
	}
	start := o.Pose
	o.Pose = moved(start, d, o.Lock)
	if o.Pose == start {
		return
	}
	c.keyboardEdit(o, start, Moving)
}

// RotateBy rotates o by deg degrees around its center, unless locked.
func (c *Canvas) RotateBy(o *Object, deg float64) {
	if o == nil || o.Lock.Rotation {
		return
	}
	start := o.Pose
	o.Pose = rotated(start, deg)
	c.keyboardEdit(o, start, Rotating)
}

// Flip mirrors o horizontally and/or vertically in place.
func (c *Canvas) Flip(o *Object, x, y bool) {
	if o == nil || !x && !y {
		return
	}
	start := o.Pose
	targets := []*Object{o}
	if o.Type == Selection {
		targets = o.Children
	}
	for _, t := range targets {
		t.FlipX = t.FlipX != x
		t.FlipY = t.FlipY != y
	}
	c.keyboardEdit(o, start, Flipped)
}

func (c *Canvas) keyboardEdit(o *Object, start pose.Pose, typ EventType) {
	if o.Type == Selection && typ != Flipped {
		g := &gesture{target: o, start: start}
		for _, child := range o.Children {
			g.children = append(g.children, child.Pose)
		}
		c.transformChildren(g)
	}
	c.RequestRender()
	c.fire(&Event{Type: typ, Target: o, Start: start})
	c.fire(&Event{Type: Modified, Target: o, Start: start})
}

func (c *Canvas) hit(p geom.Point) (*Object, Action, pose.Corner) {
	if a := c.active; a != nil {
		if corner := c.ControlAt(a, p); corner != pose.NoCorner {
			return a, Scale, corner
		}
		if c.rotateAt(a, p) {
			return a, Rotate, pose.NoCorner
		}
	}
	return c.FindTarget(p), Drag, pose.NoCorner
}

// transformChildren carries the selection's change since the gesture
// started over to its members.
func (c *Canvas) transformChildren(g *gesture) {
	inv, err := g.start.Transform().Inv()
	if err != nil {
		canvasLogger.Printf("selection transform: %v", err)
		return
	}
	delta := g.target.Transform().Mul(inv)
	for i, child := range g.target.Children {
		start := g.children[i]
		if start.Width == 0 || start.Height == 0 {
			continue
		}
		child.Pose = start
		child.ApplyTransform(delta.Mul(start.Transform()), start.FlipX, start.FlipY)
	}
}

func poseOf(o *Object) pose.Pose {
	if o == nil {
		return pose.Pose{}
	}
	return o.Pose
}

func moved(start pose.Pose, d geom.Point, lock Lock) pose.Pose {
	out := start
	if !lock.MovementX {
		out.Left += d.X
	}
	if !lock.MovementY {
		out.Top += d.Y
	}
	return out
}

func rotated(start pose.Pose, deg float64) pose.Pose {
	out := start
	out.Angle = geom.NormalizeAngle(start.Angle + deg)
	out.SetPositionByOrigin(start.Center(), pose.CenterX, pose.CenterY)
	return out
}

// scaled is the default corner drag: the opposite corner (or the center)
// stays put. Crossing the pinned corner flips the object unless its
// ScalingFlip lock is set, and scales never go below minScale.
func scaled(start pose.Pose, corner pose.Corner, p geom.Point, lock Lock, minScale float64, centered bool) pose.Pose {
	if corner == pose.NoCorner || start.Width == 0 || start.Height == 0 {
		return start
	}
	ox, oy := corner.Opposite().Origin()
	if centered {
		ox, oy = pose.CenterX, pose.CenterY
	}
	pin := start.Anchor(ox, oy)
	local := start.Localize(p, ox, oy)

	// Which way the dragged corner lies from the pin.
	wantX, wantY := 1.0, 1.0
	if cx, cy := corner.Origin(); cx == pose.Left {
		wantX = -1
		if cy == pose.Top {
			wantY = -1
		}
	} else if cy == pose.Top {
		wantY = -1
	}

	out := start
	factor := 1.0
	if centered {
		factor = 2
	}
	out.ScaleX = math.Max(factor*math.Abs(local.X)/start.Width, minScale)
	out.ScaleY = math.Max(factor*math.Abs(local.Y)/start.Height, minScale)

	if !lock.ScalingFlip && !centered {
		if local.X*wantX < 0 {
			out.FlipX = !out.FlipX
			ox = mirrorX(ox)
		}
		if local.Y*wantY < 0 {
			out.FlipY = !out.FlipY
			oy = mirrorY(oy)
		}
	}
	out.SetPositionByOrigin(pin, ox, oy)
	return out
}

func mirrorX(o pose.OriginX) pose.OriginX {
	switch o {
	case pose.Left:
		return pose.Right
	case pose.Right:
		return pose.Left
	}
	return o
}

func mirrorY(o pose.OriginY) pose.OriginY {
	switch o {
	case pose.Top:
		return pose.Bottom
	case pose.Bottom:
		return pose.Top
	}
	return o
}
