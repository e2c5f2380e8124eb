// Package crop implements interactive cropping of images on a canvas.
//
// A Session turns the active image into a crop window laid over a
// translucent copy of the full image (the backing image). While cropping,
// dragging a window corner resizes the window, dragging a backing-image
// corner rescales the image, and dragging the image pans it; the solvers in
// package solver keep the window at least the minimum size and always
// covered by the image. Confirming attaches the backing image to the window
// for good: from then on, whenever the window is moved, rotated, scaled or
// flipped, the backing image follows it.
package crop

import (
	"io"
	"log"
	"math"
	"os"

	"github.com/irfansharif/cropper/internal/canvas"
	"github.com/irfansharif/cropper/internal/geom"
	"github.com/irfansharif/cropper/internal/pose"
	"github.com/irfansharif/cropper/internal/solver"
)

var sessionLogger *log.Logger = log.New(io.Discard, "", 0)

func init() {
	if os.Getenv("CROPPER_DEBUG_SESSION") == "1" {
		sessionLogger = log.New(os.Stdout, "[session] ", log.Ltime|log.Lmsgprefix)
	}
}

// Scene is what a session needs from the canvas holding the objects.
type Scene interface {
	Add(o *canvas.Object)
	Remove(o *canvas.Object) bool
	IndexOf(o *canvas.Object) int
	MoveToIndex(o *canvas.Object, i int)
	BringToFront(o *canvas.Object)

	Active() *canvas.Object
	SetActive(o *canvas.Object)

	On(typ canvas.EventType, fn canvas.Handler) canvas.Subscription
	Off(s canvas.Subscription)

	CenteredScaling() bool
	SetCenteredScaling(v bool)
	RequestRender()
}

// Phase is the state of a session.
type Phase int

const (
	Idle Phase = iota
	Cropping
)

func (p Phase) String() string {
	if p == Cropping {
		return "cropping"
	}
	return "idle"
}

// affordances are the interaction settings a crop session overrides.
type affordances struct {
	controls        canvas.Control
	lock            canvas.Lock
	centeredScaling bool
	minScaleLimit   float64
	opacity         float64
}

func snapshot(o *canvas.Object) affordances {
	return affordances{
		controls:        o.Controls,
		lock:            o.Lock,
		centeredScaling: o.CenteredScaling,
		minScaleLimit:   o.MinScaleLimit,
		opacity:         o.Opacity,
	}
}

func (a affordances) restore(o *canvas.Object) {
	o.Controls = a.controls
	o.Lock = a.lock
	o.CenteredScaling = a.centeredScaling
	o.MinScaleLimit = a.minScaleLimit
	o.Opacity = a.opacity
}

// gesture is the scratch state of the pointer drag in progress. At most one
// solver is set.
type gesture struct {
	active       bool
	window       *solver.WindowScale
	backingScale *solver.BackingScale
	move         *solver.BackingMove
}

// Session is a crop session bound to a scene. Target and origin are set iff
// the session is cropping.
type Session struct {
	scene     Scene
	opts      Options
	decorator Decorator

	phase  Phase
	target *canvas.Object // the crop window
	origin *canvas.Object // the backing image, on the canvas while cropping

	targetBackup *canvas.Object
	originBackup *canvas.Object // the target's backing image before the session
	zIndex       int

	targetAffordances affordances
	originAffordances affordances
	centeredScaling   bool

	gesture gesture
	pending func() // confirm or cancel requested mid-gesture

	subs []canvas.Subscription
	rect solver.CropRect
}

// NewSession returns an idle session for the scene. Invalid options are
// replaced by the defaults. The decorator may be nil.
func NewSession(scene Scene, opts Options, decorator Decorator) *Session {
	if err := opts.Validate(); err != nil {
		sessionLogger.Printf("invalid options, using defaults: %v", err)
		opts = DefaultOptions()
	}
	return &Session{scene: scene, opts: opts, decorator: decorator}
}

// Phase returns the session's current phase.
func (s *Session) Phase() Phase { return s.phase }

// Target returns the crop window while cropping, or nil.
func (s *Session) Target() *canvas.Object { return s.target }

// Origin returns the backing image while cropping, or nil.
func (s *Session) Origin() *canvas.Object { return s.origin }

// CropRect returns the last projected crop rectangle.
func (s *Session) CropRect() solver.CropRect { return s.rect }

// Options returns the session's options.
func (s *Session) Options() Options { return s.opts }

// Bind subscribes the session to the scene's events. Binding twice is a
// no-op.
func (s *Session) Bind() {
	if len(s.subs) > 0 {
		return
	}
	for typ, fn := range map[canvas.EventType]canvas.Handler{
		canvas.MouseDown:        s.onMouseDown,
		canvas.MouseUp:          s.onMouseUp,
		canvas.DoubleClick:      s.onDoubleClick,
		canvas.Scaling:          s.onScaling,
		canvas.Moving:           s.onMoving,
		canvas.Rotating:         s.onFollow,
		canvas.Modified:         s.onFollow,
		canvas.Flipped:          s.onFlipped,
		canvas.SelectionCleared: s.onFollow,
		canvas.AfterRender:      func(*canvas.Event) { s.decorate() },
	} {
		s.subs = append(s.subs, s.scene.On(typ, fn))
	}
}

// Unbind removes every subscription made by Bind.
func (s *Session) Unbind() {
	for _, sub := range s.subs {
		s.scene.Off(sub)
	}
	s.subs = nil
}

// EnterCropping starts cropping the active image. It does nothing unless
// the session is idle and the active object is an image.
func (s *Session) EnterCropping() {
	if s.phase != Idle {
		sessionLogger.Printf("enter: already cropping %v", s.target)
		return
	}
	target := s.scene.Active()
	ed, ok := EditableOf(target)
	if !ok || target.Cropping {
		sessionLogger.Printf("enter: %v is not a croppable image", target)
		return
	}

	origin := ed.Source().Clone()
	origin.ID = 0
	origin.Backing = nil
	origin.Relationship = nil
	origin.CropX, origin.CropY = 0, 0

	s.targetBackup = target.Clone()
	s.originBackup = target.Backing
	s.zIndex = s.scene.IndexOf(target)
	s.target, s.origin = target, origin
	s.targetAffordances = snapshot(target)
	s.originAffordances = snapshot(origin)
	s.centeredScaling = s.scene.CenteredScaling()
	s.gesture, s.pending = gesture{}, nil

	s.scene.Add(origin)
	s.scene.BringToFront(target)
	s.scene.SetActive(target)

	target.Controls = canvas.ControlCorners
	target.Lock = canvas.Lock{MovementX: true, MovementY: true, SkewingX: true, SkewingY: true, Rotation: true}
	target.CenteredScaling = false
	target.MinScaleLimit = 0
	target.Cropping = true

	origin.Controls = canvas.ControlCorners
	origin.Lock = canvas.Lock{SkewingX: true, SkewingY: true, Rotation: true, ScalingFlip: true}
	origin.CenteredScaling = false
	origin.MinScaleLimit = 0
	origin.Opacity = s.opts.OriginalImageOpacity
	s.scene.SetCenteredScaling(false)

	s.phase = Cropping
	s.project()
	sessionLogger.Printf("enter: %v over %v", target, origin)
}

// ConfirmCropping ends cropping, keeping the edits: the backing image is
// attached to the crop window and follows it from now on. Called during a
// drag, it takes effect when the drag ends.
func (s *Session) ConfirmCropping() {
	if s.phase != Cropping {
		return
	}
	if s.gesture.active {
		s.pending = s.ConfirmCropping
		return
	}
	s.project()
	target, origin := s.target, s.origin

	s.targetAffordances.restore(target)
	s.originAffordances.restore(origin)
	s.scene.SetCenteredScaling(s.centeredScaling)
	target.Cropping = false
	target.Backing = origin

	s.scene.Remove(origin)
	s.scene.MoveToIndex(target, s.zIndex)

	// Post-crop scaling cannot take the window below the minimum size.
	target.MinScaleLimit = math.Max(
		s.opts.MinWidth/target.ScaledWidth()*math.Abs(target.ScaleX),
		s.opts.MinHeight/target.ScaledHeight()*math.Abs(target.ScaleY),
	)

	s.reset()
	if err := s.BindFollow(target); err != nil {
		sessionLogger.Printf("confirm: %v", err)
	}
	s.scene.RequestRender()
	sessionLogger.Printf("confirm: %v %s", target, s.rect)
}

// CancelCropping ends cropping, discarding the edits. Called during a drag,
// it takes effect when the drag ends.
func (s *Session) CancelCropping() {
	if s.phase != Cropping {
		return
	}
	if s.gesture.active {
		s.pending = s.CancelCropping
		return
	}
	target := s.target
	s.scene.Remove(s.origin)
	*target = *s.targetBackup.Clone()
	target.Backing = s.originBackup
	s.scene.SetCenteredScaling(s.centeredScaling)
	s.scene.MoveToIndex(target, s.zIndex)

	s.reset()
	s.scene.RequestRender()
	sessionLogger.Printf("cancel: restored %v", target)
}

func (s *Session) reset() {
	s.phase = Idle
	s.target, s.origin = nil, nil
	s.targetBackup, s.originBackup = nil, nil
	s.gesture, s.pending = gesture{}, nil
}

// project recomputes the crop rectangle from the current poses and writes
// it onto the crop window.
func (s *Session) project() {
	if s.phase != Cropping {
		return
	}
	window, rect := solver.Project(s.target.Pose, s.origin.Pose)
	s.target.Pose = window
	s.target.CropX, s.target.CropY = rect.X, rect.Y
	s.rect = rect
	s.scene.RequestRender()
}

func (s *Session) onMouseDown(e *canvas.Event) {
	if s.phase != Cropping {
		return
	}
	if e.Target != s.target && e.Target != s.origin {
		s.ConfirmCropping()
		return
	}

	s.gesture = gesture{active: true}
	switch {
	case e.Target == s.target:
		s.gesture.window, _ = solver.BeginWindowScale(e.Corner, s.target.Pose, s.opts.MinWidth, s.opts.MinHeight)
	case e.Corner != pose.NoCorner:
		s.gesture.backingScale, _ = solver.BeginBackingScale(e.Corner, s.target.Pose, s.origin.Pose)
	default:
		s.gesture.move = solver.BeginBackingMove(s.target.Pose, s.origin.Pose, e.Pointer)
	}
}

func (s *Session) onMouseUp(e *canvas.Event) {
	if !s.gesture.active {
		return
	}
	s.gesture = gesture{}
	s.project()
	if fn := s.pending; fn != nil {
		s.pending = nil
		fn()
	}
}

func (s *Session) onScaling(e *canvas.Event) {
	if s.phase != Cropping {
		s.onFollow(e)
		return
	}
	switch {
	case e.Target == s.target && s.gesture.window != nil:
		var region solver.Region
		s.target.Pose, region = s.gesture.window.Update(s.target.Pose, s.origin.Pose, e.Pointer)
		sessionLogger.Printf("window scale %s: %v", region, s.target.Pose)
	case e.Target == s.origin && s.gesture.backingScale != nil:
		var clamped bool
		s.origin.Pose, clamped = s.gesture.backingScale.Update(s.gesture.backingScale.Propose(e.Pointer))
		sessionLogger.Printf("backing scale (clamped=%t): %v", clamped, s.origin.Pose)
	default:
		return
	}
	s.project()
}

func (s *Session) onMoving(e *canvas.Event) {
	if s.phase != Cropping {
		s.onFollow(e)
		return
	}
	if e.Target != s.origin {
		return
	}
	move, pointer := s.gesture.move, e.Pointer
	if move == nil {
		if s.gesture.active {
			return
		}
		// A keyboard nudge: replay it as a drag from the pre-nudge pose.
		move = solver.BeginBackingMove(s.target.Pose, e.Start, geom.Point{})
		pointer = geom.Point{X: s.origin.Left - e.Start.Left, Y: s.origin.Top - e.Start.Top}
	}
	tl, region := move.Update(pointer)
	s.origin.Left, s.origin.Top = tl.X, tl.Y
	sessionLogger.Printf("backing move %s: %v", region, tl)
	s.project()
}

// onFlipped undoes flips of the objects being cropped; otherwise the flipped
// object's backing image follows.
func (s *Session) onFlipped(e *canvas.Event) {
	if s.phase == Cropping {
		if e.Target == s.target || e.Target == s.origin {
			e.Target.Pose = e.Start
			s.scene.RequestRender()
		}
		return
	}
	s.onFollow(e)
}

func (s *Session) onDoubleClick(e *canvas.Event) {
	if s.phase == Cropping {
		if e.Target == s.target || e.Target == s.origin {
			s.ConfirmCropping()
		}
		return
	}
	if e.Target == nil || e.Target.Type != canvas.Image {
		return
	}
	s.scene.SetActive(e.Target)
	s.EnterCropping()
}
