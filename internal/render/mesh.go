package render

import (
	"image/color"
	"math"

	"github.com/irfansharif/cropper/internal/canvas"
	"github.com/irfansharif/cropper/internal/geom"
	"github.com/irfansharif/cropper/internal/memory"
	"github.com/irfansharif/cropper/internal/palette"
)

const (
	// cellSize is the side of an image's pattern cells, in source pixels.
	cellSize = 32.0
	// maxCells bounds the cells per image; larger images get larger cells.
	maxCells = 4096
)

// Mesh accumulates colored triangles in canvas coordinates, in draw order.
type Mesh struct {
	Vertices []float32
}

// Reset empties the mesh, keeping its storage.
func (m *Mesh) Reset() { m.Vertices = m.Vertices[:0] }

// Triangles returns the number of triangles in the mesh.
func (m *Mesh) Triangles() int { return len(m.Vertices) / memory.FloatsPerVertex / 3 }

// Triangle appends one triangle.
func (m *Mesh) Triangle(a, b, c geom.Point, col color.RGBA) {
	f := palette.Floats(col)
	for _, p := range [3]geom.Point{a, b, c} {
		m.Vertices = append(m.Vertices, float32(p.X), float32(p.Y), f[0], f[1], f[2], f[3])
	}
}

// Quad appends a convex quadrilateral given in order around its edge.
func (m *Mesh) Quad(a, b, c, d geom.Point, col color.RGBA) {
	m.Triangle(a, b, c, col)
	m.Triangle(a, c, d, col)
}

// Polygon appends a filled polygon, optionally with holes.
func (m *Mesh) Polygon(outline []geom.Point, col color.RGBA, holes ...[]geom.Point) error {
	triangles, err := earClip(outline, holes...)
	if err != nil {
		return err
	}
	for _, tri := range triangles {
		m.Triangle(tri[0], tri[1], tri[2], col)
	}
	return nil
}

// Stroke appends a polyline drawn width wide.
func (m *Mesh) Stroke(points []geom.Point, width float64, col color.RGBA) {
	for i := 1; i < len(points); i++ {
		p, q := points[i-1], points[i]
		d := q.Sub(p)
		l := d.Len()
		if l == 0 {
			continue
		}
		n := geom.Point{X: -d.Y, Y: d.X}.Scale(width / 2 / l)
		m.Quad(p.Add(n), q.Add(n), q.Sub(n), p.Sub(n), col)
	}
}

// Image appends the visible part of an image object: its source's pattern
// cells, clipped to the crop rectangle and mapped through the object's
// transform.
func (m *Mesh) Image(o *canvas.Object, pal palette.Palette) {
	if o.Width <= 0 || o.Height <= 0 {
		return
	}
	x0, y0 := o.CropX, o.CropY
	x1, y1 := x0+o.Width, y0+o.Height

	cell := cellSize
	if n := (o.Width / cell) * (o.Height / cell); n > maxCells {
		cell *= math.Sqrt(n / maxCells)
	}
	t := o.Transform()
	at := func(sx, sy float64) geom.Point {
		return t.MulPoint(geom.Point{X: sx - x0 - o.Width/2, Y: sy - y0 - o.Height/2})
	}

	for row := int(math.Floor(y0 / cell)); float64(row)*cell < y1; row++ {
		for col := int(math.Floor(x0 / cell)); float64(col)*cell < x1; col++ {
			cx0 := math.Max(float64(col)*cell, x0)
			cx1 := math.Min(float64(col+1)*cell, x1)
			cy0 := math.Max(float64(row)*cell, y0)
			cy1 := math.Min(float64(row+1)*cell, y1)
			if cx1 <= cx0 || cy1 <= cy0 {
				continue
			}
			c := palette.WithOpacity(pal.Cell(col, row), o.Opacity)
			m.Quad(at(cx0, cy0), at(cx1, cy0), at(cx1, cy1), at(cx0, cy1), c)
		}
	}
}

// Rect appends a plain rectangle object.
func (m *Mesh) Rect(o *canvas.Object, col color.RGBA) {
	c := o.Corners()
	m.Quad(c.TL, c.TR, c.BR, c.BL, palette.WithOpacity(col, o.Opacity))
}
