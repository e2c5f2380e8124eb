package canvas

import (
	"github.com/irfansharif/cropper/internal/geom"
	"github.com/irfansharif/cropper/internal/pose"
)

// EventType names the events the canvas publishes.
type EventType int

const (
	MouseDown EventType = iota
	MouseMove
	MouseUp
	DoubleClick
	Moving
	Scaling
	Rotating
	Flipped
	Modified
	SelectionCleared
	AfterRender

	numEventTypes
)

func (t EventType) String() string {
	switch t {
	case MouseDown:
		return "mouse:down"
	case MouseMove:
		return "mouse:move"
	case MouseUp:
		return "mouse:up"
	case DoubleClick:
		return "mouse:dblclick"
	case Moving:
		return "object:moving"
	case Scaling:
		return "object:scaling"
	case Rotating:
		return "object:rotating"
	case Flipped:
		return "object:flipped"
	case Modified:
		return "object:modified"
	case SelectionCleared:
		return "selection:cleared"
	case AfterRender:
		return "after:render"
	default:
		return "unknown"
	}
}

// Event is passed to handlers.
type Event struct {
	Type    EventType
	Target  *Object     // may be nil, e.g. a click on empty canvas
	Pointer geom.Point  // canvas coordinates
	Corner  pose.Corner // control grabbed by the gesture, if any
	// Start is the target's pose when the current gesture (or keyboard
	// operation) began.
	Start pose.Pose
}

// Handler reacts to an event.
type Handler func(*Event)

// Subscription identifies a registered handler, for Off.
type Subscription struct {
	typ EventType
	id  int
}

type subscriber struct {
	id int
	fn Handler
}

// On registers fn for events of the given type. Handlers run in
// registration order.
func (c *Canvas) On(typ EventType, fn Handler) Subscription {
	c.nextSub++
	c.handlers[typ] = append(c.handlers[typ], subscriber{id: c.nextSub, fn: fn})
	return Subscription{typ: typ, id: c.nextSub}
}

// Off removes a handler registered with On. Removing twice is a no-op.
func (c *Canvas) Off(s Subscription) {
	subs := c.handlers[s.typ]
	for i, sub := range subs {
		if sub.id == s.id {
			c.handlers[s.typ] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Subscribers returns the number of handlers registered for typ.
func (c *Canvas) Subscribers(typ EventType) int { return len(c.handlers[typ]) }

// fire runs the handlers for e. Handlers may subscribe, unsubscribe and
// mutate the canvas; they see the subscriber list as of the call.
func (c *Canvas) fire(e *Event) {
	subs := append([]subscriber(nil), c.handlers[e.Type]...)
	canvasLogger.Printf("%s target=%v corner=%s", e.Type, e.Target, e.Corner)
	for _, sub := range subs {
		sub.fn(e)
	}
}
