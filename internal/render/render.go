// Package render draws the canvas with OpenGL.
//
// Every frame the canvas needs redrawing, the renderer rebuilds a single
// mesh in canvas coordinates: each object bottom to top (image pattern
// cells clipped to the crop rectangle, or a filled rectangle), then the
// overlays (the crop mask, the active object's outline, corner marks). The
// mesh is uploaded to a memory.Buffer and drawn with one call; pan and zoom
// only change the view matrix.
package render

import (
	"log"
	"time"

	"github.com/irfansharif/cropper/internal/canvas"
	"github.com/irfansharif/cropper/internal/geom"
	"github.com/irfansharif/cropper/internal/memory"
	"github.com/irfansharif/cropper/internal/palette"
	"github.com/irfansharif/cropper/internal/pose"
)

// outlineWidth is the active object's outline width, in screen pixels.
const outlineWidth = 1.5

type Renderer struct {
	w, h int
	view geom.Affine // canvas to framebuffer pixels
	zoom float64

	buffer        *memory.Buffer
	shaderManager *ShaderManager
	theme         palette.Theme
	palettes      map[int64]palette.Palette
	mesh          Mesh
	stats         Stats
}

// Stats tracks rendering performance metrics.
type Stats struct {
	Triangles         int
	LastPrepareTimeMs float64 // time spent building and uploading the last mesh
	LastDrawTimeUs    float64 // time spent in last Draw() call in microseconds
}

func NewRenderer(buffer *memory.Buffer, theme palette.Theme) *Renderer {
	return &Renderer{
		view:          geom.Translate(0, 0),
		zoom:          1,
		buffer:        buffer,
		shaderManager: NewShaderManager(),
		theme:         theme,
		palettes:      make(map[int64]palette.Palette),
	}
}

// SetView sets the framebuffer size and the canvas-to-framebuffer transform.
func (r *Renderer) SetView(w, h int, view geom.Affine) {
	r.w, r.h = w, h
	r.view = view
	if z := view.Decompose().ScaleX; z > 0 {
		r.zoom = z
	}
}

// Theme returns the renderer's colors.
func (r *Renderer) Theme() palette.Theme { return r.theme }

// Begin starts a new mesh.
func (r *Renderer) Begin() {
	r.mesh.Reset()
}

// DrawObject appends one canvas object.
func (r *Renderer) DrawObject(o *canvas.Object) {
	switch o.Type {
	case canvas.Image:
		pal, ok := r.palettes[o.Source.Seed]
		if !ok {
			pal = palette.ForImage(o.Source.Seed)
			r.palettes[o.Source.Seed] = pal
		}
		r.mesh.Image(o, pal)
	case canvas.Rect:
		r.mesh.Rect(o, r.theme.Rect)
	}
}

// DrawMask dims the part of the backing image outside the crop window.
func (r *Renderer) DrawMask(backing, window pose.Pose) {
	outer, hole := backing.Corners().Points(), window.Corners().Points()
	if err := r.mesh.Polygon(outer[:], r.theme.Mask, hole[:]); err != nil {
		log.Printf("WARNING: skipping crop mask: %v", err)
	}
}

// DrawOutline outlines o (a selection's members too).
func (r *Renderer) DrawOutline(o *canvas.Object) {
	c := o.Corners().Points()
	r.mesh.Stroke([]geom.Point{c[0], c[1], c[2], c[3], c[0]}, outlineWidth/r.zoom, r.theme.Outline)
	for _, child := range o.Children {
		r.DrawOutline(child)
	}
}

// DecorateCorners draws L-shaped corner marks; width is in screen pixels.
func (r *Renderer) DecorateCorners(obj *canvas.Object, marks [4][3]geom.Point, width float64) {
	for _, mark := range marks {
		r.mesh.Stroke(mark[:], width/r.zoom, r.theme.Corner)
	}
}

// End uploads the mesh.
func (r *Renderer) End() error {
	start := time.Now()
	if err := r.buffer.Upload(r.mesh.Vertices); err != nil {
		return err
	}
	r.stats.Triangles = r.mesh.Triangles()
	r.stats.LastPrepareTimeMs = float64(time.Since(start).Microseconds()) / 1000.0
	return nil
}

func (r *Renderer) Draw() {
	startTime := time.Now()

	r.shaderManager.SetTransform(r.computeTransformMatrix())
	if err := r.buffer.Draw(); err != nil {
		log.Fatalf("Buffer draw failed: %v", err)
	}

	r.stats.LastDrawTimeUs = float64(time.Since(startTime).Microseconds())
}

// Stats returns the current performance statistics
func (r *Renderer) Stats() Stats {
	return r.stats
}

// computeTransformMatrix computes the complete transformation matrix from
// canvas coordinates to OpenGL NDC.
func (r *Renderer) computeTransformMatrix() [16]float32 {
	return affineToMatrix4(ScreenToNDC(r.w, r.h).Mul(r.view))
}

// ScreenToNDC converts framebuffer pixels (y down) to OpenGL NDC (y up).
func ScreenToNDC(w, h int) geom.Affine {
	if w <= 0 || h <= 0 {
		return geom.Translate(0, 0)
	}
	return geom.MakeAffine(
		2.0/float64(w), 0, -1,
		0, -2.0/float64(h), 1,
	)
}

// affineToMatrix4 converts an affine transform to OpenGL 4x4 matrix format.
func affineToMatrix4(transform geom.Affine) [16]float32 {
	return [16]float32{
		float32(transform.A), float32(transform.D), 0, 0,
		float32(transform.B), float32(transform.E), 0, 0,
		0, 0, 1, 0,
		float32(transform.C), float32(transform.F), 0, 1,
	}
}
