package main

import (
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/irfansharif/cropper/internal/app"
	"github.com/irfansharif/cropper/internal/crop"
	"github.com/irfansharif/cropper/internal/geom"
)

const repeatInterval = 125 * time.Millisecond // time between successive pans when pressed down
const basePanDistance = 100.0

const (
	doubleClickInterval = 300 * time.Millisecond
	doubleClickSlop     = 4.0 // framebuffer pixels

	rotateStep = 15.0 // degrees per R press
	nudgeStep  = 1.0  // canvas units per arrow press, x10 with shift
)

// EventHandlers manages all event handling for the application.
type EventHandlers struct {
	application *app.App

	// J/K/H/L allow panning across through keypresses. They also do so
	// continuously if held.
	panKeyHeld                   bool
	panDirectionX, panDirectionY float64
	lastPanTime                  time.Time

	// Left button state, forwarded to the canvas.
	pointerDown   bool
	lastClickTime time.Time
	lastClickPos  geom.Point // framebuffer pixels
	clicks        int

	// Right-drag pan state (per-gesture), captured on mouse press.
	isPanning                        bool
	dragStartMouseX, dragStartMouseY float64
	dragStartPanX, dragStartPanY     float64

	// Current mouse position in canvas coordinates.
	mouseCanvas geom.Point
}

// NewEventHandlers creates a new event handlers manager.
func NewEventHandlers(application *app.App) *EventHandlers {
	eh := &EventHandlers{
		application: application,
		lastPanTime: time.Now(),
	}
	eh.SetupCallbacks(application.Window)
	return eh
}

// SetupCallbacks configures all GLFW event callbacks.
func (eh *EventHandlers) SetupCallbacks(window *glfw.Window) {
	window.SetKeyCallback(func(wnd *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		eh.handleKey(key, action, mods) // for crop and object actions
	})
	window.SetMouseButtonCallback(func(wnd *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		eh.handleMouseButton(button, action) // for selecting, dragging and panning
	})
	window.SetCursorPosCallback(func(wnd *glfw.Window, xpos, ypos float64) {
		eh.handleCursorPos(xpos, ypos)
	})
	window.SetScrollCallback(func(wnd *glfw.Window, _, zoomDelta float64) {
		eh.performZoom(zoomDelta) // for zooming
	})
	window.SetFramebufferSizeCallback(func(wnd *glfw.Window, newW, newH int) {
		eh.handleFramebufferSize(newW, newH) // for window resize
	})
}

// handleFramebufferSize handles window resize events.
func (eh *EventHandlers) handleFramebufferSize(newW, newH int) {
	eh.application.View.SetViewport(newW, newH)
	eh.application.Canvas.RequestRender()
}

// handleKey handles keyboard input events.
func (eh *EventHandlers) handleKey(key glfw.Key, action glfw.Action, mods glfw.ModifierKey) {
	shift := (mods & glfw.ModShift) != 0

	switch key {
	case glfw.KeyJ:
		eh.handlePanKeys(action, 0 /*dx*/, -1 /*dy*/) // pan down
		return
	case glfw.KeyK:
		eh.handlePanKeys(action, 0 /*dx*/, 1 /*dy*/) // pan up
		return
	case glfw.KeyH:
		eh.handlePanKeys(action, 1 /*dx*/, 0 /*dy*/) // pan right
		return
	case glfw.KeyL:
		eh.handlePanKeys(action, -1 /*dx*/, 0 /*dy*/) // pan left
		return
	}

	if action == glfw.Release {
		return
	}

	a := eh.application
	active := a.Canvas.Active()
	switch key {
	case glfw.KeyEnter:
		a.Session.ConfirmCropping()
	case glfw.KeyEscape:
		a.Session.CancelCropping()
	case glfw.KeyC:
		if action == glfw.Press {
			a.Session.EnterCropping()
		}
	case glfw.KeyA:
		if action == glfw.Press && a.Session.Phase() == crop.Idle {
			a.Canvas.SelectAll()
		}
	case glfw.KeyN:
		if action == glfw.Press && a.Session.Phase() == crop.Idle {
			a.Canvas.SetActive(a.AddImage(eh.mouseCanvas))
		}
	case glfw.KeyTab:
		if action == glfw.Press {
			eh.application.Cycle(!shift)
		}
	case glfw.KeyR:
		if active != nil {
			deg := rotateStep
			if shift {
				deg = -deg
			}
			a.Canvas.RotateBy(active, deg)
		}
	case glfw.KeyF:
		if active != nil && action == glfw.Press {
			a.Canvas.Flip(active, true, false)
		}
	case glfw.KeyG:
		if active != nil && action == glfw.Press {
			a.Canvas.Flip(active, false, true)
		}
	case glfw.KeyLeft, glfw.KeyRight, glfw.KeyUp, glfw.KeyDown:
		if active != nil {
			eh.handleNudgeKey(key, shift)
		}
	case glfw.KeyEqual:
		if action == glfw.Press && (mods&glfw.ModSuper) != 0 {
			eh.performZoom(1) // zoom in
		}
	case glfw.KeyMinus:
		if action == glfw.Press && (mods&glfw.ModSuper) != 0 {
			eh.performZoom(-1) // zoom out
		}
	}
}

// handleNudgeKey moves the active object with the arrow keys.
func (eh *EventHandlers) handleNudgeKey(key glfw.Key, shift bool) {
	step := nudgeStep
	if shift {
		step *= 10
	}
	var d geom.Point
	switch key {
	case glfw.KeyLeft:
		d.X = -step
	case glfw.KeyRight:
		d.X = step
	case glfw.KeyUp:
		d.Y = -step
	case glfw.KeyDown:
		d.Y = step
	}
	c := eh.application.Canvas
	c.Nudge(c.Active(), d)
}

// handlePanKeys handles j/k/h/l key presses, and also releases for
// continuous panning.
func (eh *EventHandlers) handlePanKeys(action glfw.Action, dx, dy float64) {
	switch action {
	case glfw.Press:
		eh.panKeyHeld = true
		eh.panDirectionX = dx
		eh.panDirectionY = dy
		eh.performPan(dx, dy)
		eh.lastPanTime = time.Now()

	case glfw.Release:
		eh.panKeyHeld = false

	case glfw.Repeat:
		// Ignore repeat events - we handle continuous panning ourselves to
		// ensure consistent timing.
	}
}

// performPan executes a single pan operation.
func (eh *EventHandlers) performPan(dx, dy float64) {
	// Scale by inverse of zoom: when zoomed out (zoom < 1), we move further in
	// canvas space and vice-versa.
	view := eh.application.View
	scaledDistance := basePanDistance / view.Zoom
	view.SetPan(view.PanX+dx*scaledDistance, view.PanY+dy*scaledDistance)

	mouseX, mouseY := eh.application.Window.GetCursorPos()
	eh.updateMouseCanvasPos(mouseX, mouseY)
}

// handleContinuousPanning handles continuous panning while pan keys are held.
func (eh *EventHandlers) handleContinuousPanning() {
	if !eh.panKeyHeld {
		return // nothing to do
	}

	now := time.Now()
	if now.Sub(eh.lastPanTime) < repeatInterval {
		return // not enough time has passed since the last pan
	}

	eh.performPan(eh.panDirectionX, eh.panDirectionY)
	eh.lastPanTime = now
}

// handleMouseButton forwards the left button to the canvas and pans with the
// right one.
func (eh *EventHandlers) handleMouseButton(button glfw.MouseButton, action glfw.Action) {
	switch button {
	case glfw.MouseButtonLeft:
		switch action {
		case glfw.Press:
			eh.pointerDown = true
			eh.application.Canvas.PointerDown(eh.mouseCanvas)
		case glfw.Release:
			eh.pointerDown = false
			eh.application.Canvas.PointerUp(eh.mouseCanvas)
			eh.detectDoubleClick()
		}
	case glfw.MouseButtonRight:
		switch action {
		case glfw.Press:
			eh.startPanning()
		case glfw.Release:
			eh.stopPanning()
		}
	}
}

// detectDoubleClick publishes a double click on the second of two quick
// releases close to each other.
func (eh *EventHandlers) detectDoubleClick() {
	now := time.Now()
	pos := eh.framebufferCursorPos()
	if eh.clicks == 1 && now.Sub(eh.lastClickTime) <= doubleClickInterval &&
		geom.Dist(pos, eh.lastClickPos) <= doubleClickSlop {
		eh.clicks = 0
		eh.application.Canvas.DoubleClick(eh.mouseCanvas)
		return
	}
	eh.clicks = 1
	eh.lastClickTime = now
	eh.lastClickPos = pos
}

// framebufferCursorPos returns the cursor position in framebuffer pixels.
func (eh *EventHandlers) framebufferCursorPos() geom.Point {
	window := eh.application.Window
	mouseX, mouseY := window.GetCursorPos()
	scaleX, scaleY := window.GetContentScale()
	return geom.MakePoint(mouseX*float64(scaleX), mouseY*float64(scaleY))
}

// updateMouseCanvasPos recalculates mouse position in canvas coordinates after
// view changes.
func (eh *EventHandlers) updateMouseCanvasPos(mouseX, mouseY float64) {
	scaleX, scaleY := eh.application.Window.GetContentScale()
	fb := geom.MakePoint(mouseX*float64(scaleX), mouseY*float64(scaleY))
	eh.mouseCanvas = eh.application.View.ScreenToCanvas(fb)
}

// handleCursorPos tracks the mouse, dragging objects or panning.
func (eh *EventHandlers) handleCursorPos(xpos, ypos float64) {
	eh.updatePanning(xpos, ypos)
	eh.updateMouseCanvasPos(xpos, ypos)
	if eh.pointerDown {
		eh.application.Canvas.PointerMove(eh.mouseCanvas)
	}
}

// startPanning starts the panning operation.
func (eh *EventHandlers) startPanning() {
	eh.isPanning = true
	eh.dragStartMouseX, eh.dragStartMouseY = eh.application.Window.GetCursorPos()
	view := eh.application.View
	eh.dragStartPanX, eh.dragStartPanY = view.PanX, view.PanY
}

// stopPanning ends panning operation.
func (eh *EventHandlers) stopPanning() {
	eh.isPanning = false
}

// updatePanning updates pan position based on mouse movement.
func (eh *EventHandlers) updatePanning(xpos, ypos float64) {
	if !eh.isPanning {
		return
	}

	scaleX, scaleY := eh.application.Window.GetContentScale()
	dx := (xpos - eh.dragStartMouseX) * float64(scaleX)
	dy := (ypos - eh.dragStartMouseY) * float64(scaleY)

	eh.application.View.SetPan(eh.dragStartPanX+dx, eh.dragStartPanY+dy)
}

// performZoom handles zoom operations with cursor-centered zooming.
func (eh *EventHandlers) performZoom(zoomDelta float64) {
	eh.application.View.ZoomAt(eh.framebufferCursorPos(), zoomDelta)

	mouseX, mouseY := eh.application.Window.GetCursorPos()
	eh.updateMouseCanvasPos(mouseX, mouseY)
}
