package app

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/irfansharif/cropper/internal/canvas"
	"github.com/irfansharif/cropper/internal/crop"
	"github.com/irfansharif/cropper/internal/geom"
	"github.com/irfansharif/cropper/internal/memory"
	"github.com/irfansharif/cropper/internal/palette"
	"github.com/irfansharif/cropper/internal/render"
)

const (
	minSourceSide = 240.0 // smallest generated picture side, in pixels
	maxSourceSide = 560.0 // largest generated picture side, in pixels
	imageSpacing  = 80.0  // gap between populated images
	fitMargin     = 60.0  // framebuffer pixels around an image centered by Cycle
)

// App encapsulates the main application state and logic.
type App struct {
	Window   *glfw.Window
	Canvas   *canvas.Canvas
	Session  *crop.Session
	Renderer *render.Renderer
	Buffer   *memory.Buffer
	View     *View

	seed    int64
	current int // index into Images(), for Cycle

	// View state the current mesh was built with; stroke widths depend on
	// the zoom.
	builtZoom float64
}

// NewApp creates a new application instance.
func NewApp(window *glfw.Window, view *View, opts crop.Options, seed int64) *App {
	buffer := memory.NewBuffer()
	renderer := render.NewRenderer(buffer, palette.DefaultTheme())
	c := canvas.New()
	app := &App{
		Window:   window,
		Canvas:   c,
		Renderer: renderer,
		Buffer:   buffer,
		View:     view,
		seed:     seed,
		current:  -1,
	}

	// Registered ahead of the session's own handlers so that the mask lies
	// beneath the corner marks.
	c.On(canvas.AfterRender, app.drawOverlay)
	app.Session = crop.NewSession(c, opts, renderer)
	app.Session.Bind()
	return app
}

// drawOverlay dims the backing image outside the crop window while
// cropping, and outlines the active object otherwise.
func (app *App) drawOverlay(*canvas.Event) {
	if app.Session.Phase() == crop.Cropping {
		app.Renderer.DrawMask(app.Session.Origin().Pose, app.Session.Target().Pose)
		return
	}
	if active := app.Canvas.Active(); active != nil {
		app.Renderer.DrawOutline(active)
	}
}

// AddImage adds a procedurally generated image centered at the given canvas
// position, using the next seed.
func (app *App) AddImage(at geom.Point) *canvas.Object {
	app.seed++
	rng := rand.New(rand.NewSource(app.seed))
	src := canvas.Source{
		Seed:   app.seed,
		Width:  minSourceSide + rng.Float64()*(maxSourceSide-minSourceSide),
		Height: minSourceSide + rng.Float64()*(maxSourceSide-minSourceSide),
	}
	o := canvas.NewImage(src, at.X-src.Width/2, at.Y-src.Height/2, 1)
	app.Canvas.Add(o)
	log.Printf("Added image %v", o)
	return o
}

// Populate places two images side by side around the given canvas position.
func (app *App) Populate(center geom.Point) {
	left := app.AddImage(center)
	right := app.AddImage(center)

	// Lay them out edge to edge around center.
	total := left.Width + imageSpacing + right.Width
	left.Left = center.X - total/2
	right.Left = left.Left + left.Width + imageSpacing
	app.Canvas.RequestRender()
}

// Images returns the image objects on the canvas, bottom to top.
func (app *App) Images() []*canvas.Object {
	var images []*canvas.Object
	for _, o := range app.Canvas.Objects() {
		if o.Type == canvas.Image {
			images = append(images, o)
		}
	}
	return images
}

// Cycle activates the next (or previous) image and fits the view to it.
// It is a no-op while cropping, or without images.
func (app *App) Cycle(next bool) *canvas.Object {
	if app.Session.Phase() == crop.Cropping {
		return nil
	}
	images := app.Images()
	if len(images) == 0 {
		return nil
	}
	if next {
		app.current = (app.current + 1) % len(images)
	} else if app.current <= 0 {
		app.current = len(images) - 1
	} else {
		app.current--
	}
	o := images[min(app.current, len(images)-1)]
	app.Canvas.SetActive(o)
	app.View.Fit(bounds(o.Corners().Points()), fitMargin)
	return o
}

// bounds returns the axis-aligned box around the given points.
func bounds(points [4]geom.Point) geom.Box {
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	return geom.MakeBox(minX, minY, maxX-minX, maxY-minY)
}

// Frame rebuilds the renderer's mesh if the canvas or the zoom changed, and
// syncs the view.
func (app *App) Frame(w, h int) {
	app.View.SetViewport(w, h)
	app.Renderer.SetView(w, h, app.View.Transform())

	dirty := app.Canvas.NeedsRender()
	if !dirty && app.builtZoom == app.View.Zoom {
		return
	}
	app.Renderer.Begin()
	app.Canvas.Render(app.Renderer.DrawObject)
	if err := app.Renderer.End(); err != nil {
		log.Fatalf("Failed to prepare renderer: %v", err)
	}
	app.builtZoom = app.View.Zoom
}

// Title describes the crop state, for the window title.
func (app *App) Title() string {
	s := app.Session
	if s.Phase() != crop.Cropping {
		active := app.Canvas.Active()
		if active == nil {
			return fmt.Sprintf("Cropper (%s)", s.Phase())
		}
		return fmt.Sprintf("Cropper (%s, %s)", s.Phase(), active)
	}
	return fmt.Sprintf("Cropper (%s, %s)", s.Phase(), s.CropRect())
}
