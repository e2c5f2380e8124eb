package render

import (
	"image/color"
	"math"
	"testing"

	"github.com/irfansharif/cropper/internal/canvas"
	"github.com/irfansharif/cropper/internal/geom"
	"github.com/irfansharif/cropper/internal/memory"
	"github.com/irfansharif/cropper/internal/palette"
	"github.com/irfansharif/cropper/internal/pose"
)

func triangles(m *Mesh) [][3]geom.Point {
	var out [][3]geom.Point
	const stride = memory.FloatsPerVertex
	for i := 0; i+3*stride <= len(m.Vertices); i += 3 * stride {
		var tri [3]geom.Point
		for j := range tri {
			v := m.Vertices[i+j*stride:]
			tri[j] = geom.Point{X: float64(v[0]), Y: float64(v[1])}
		}
		out = append(out, tri)
	}
	return out
}

func area(tri [3]geom.Point) float64 {
	return math.Abs(geom.Cross(tri[1].Sub(tri[0]), tri[2].Sub(tri[0]))) / 2
}

func totalArea(m *Mesh) float64 {
	var sum float64
	for _, tri := range triangles(m) {
		sum += area(tri)
	}
	return sum
}

func centroid(tri [3]geom.Point) geom.Point {
	return tri[0].Add(tri[1]).Add(tri[2]).Scale(1.0 / 3)
}

func nearRel(a, b, rel float64) bool { return math.Abs(a-b) <= rel*math.Max(1, math.Abs(b)) }

func TestImageMesh(t *testing.T) {
	o := canvas.NewImage(canvas.Source{Seed: 9, Width: 400, Height: 300}, 120, -40, 2)
	o.ScaleY = 1.5
	o.Angle = 30
	o.FlipX = true
	o.CropX, o.CropY = 50, 20
	o.Width, o.Height = 200, 100

	var m Mesh
	m.Image(o, palette.ForImage(9))

	if got, want := totalArea(&m), 200*2*100*1.5; !nearRel(got, want, 1e-4) {
		t.Fatalf("image mesh covers %v, want %v", got, want)
	}
	for _, tri := range triangles(&m) {
		for _, p := range tri {
			if !o.Contains(p, 1e-3) {
				t.Fatalf("vertex %v outside the object %v", p, o.Pose)
			}
		}
	}

	// Cells are clipped to the crop rectangle: the first column is the
	// part of cell [32, 64) right of x=50.
	var n Mesh
	o.Angle, o.FlipX, o.ScaleX, o.ScaleY = 0, false, 1, 1
	o.Left, o.Top = 0, 0
	n.Image(o, palette.ForImage(9))
	first := triangles(&n)[0]
	if got := first[1].X - first[0].X; !nearRel(got, 14, 1e-6) {
		t.Fatalf("first cell is %v wide, want 14", got)
	}
}

func TestImageMeshOpacity(t *testing.T) {
	o := canvas.NewImage(canvas.Source{Seed: 1, Width: 10, Height: 10}, 0, 0, 1)
	o.Opacity = 0.5
	var m Mesh
	m.Image(o, palette.ForImage(1))
	if m.Triangles() != 2 {
		t.Fatalf("%d triangles for a single cell", m.Triangles())
	}
	if a := m.Vertices[5]; math.Abs(float64(a)-128.0/255) > 1e-6 {
		t.Fatalf("alpha = %v", a)
	}
}

func TestMask(t *testing.T) {
	backing := pose.Make(0, 0, 400, 400)
	backing.Angle = 20
	window := pose.Make(0, 0, 200, 200)
	window.Angle = 20
	window.SetPositionByOrigin(backing.Center(), pose.CenterX, pose.CenterY)

	outer, hole := backing.Corners().Points(), window.Corners().Points()
	var m Mesh
	if err := m.Polygon(outer[:], color.RGBA{A: 100}, hole[:]); err != nil {
		t.Fatal(err)
	}
	if got := totalArea(&m); !nearRel(got, 400*400-200*200, 1e-4) {
		t.Fatalf("mask covers %v, want %v", got, 400*400-200*200)
	}
	for _, tri := range triangles(&m) {
		if c := centroid(tri); window.Contains(c, -1e-3) {
			t.Fatalf("mask triangle %v lies inside the crop window", tri)
		}
	}
}

func TestPolygonDegenerate(t *testing.T) {
	var m Mesh
	if err := m.Polygon([]geom.Point{{}, {X: 1}}, color.RGBA{}); err == nil {
		t.Fatal("two-point polygon accepted")
	}
	square := []geom.Point{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1}}
	if err := m.Polygon(square, color.RGBA{}, []geom.Point{{}}); err == nil {
		t.Fatal("one-point hole accepted")
	}
	if m.Triangles() != 0 {
		t.Fatal("failed polygons left triangles behind")
	}
}

func TestStroke(t *testing.T) {
	var m Mesh
	m.Stroke([]geom.Point{{X: 10}, {}, {Y: 10}}, 4, color.RGBA{})
	if m.Triangles() != 4 {
		t.Fatalf("%d triangles, want 4", m.Triangles())
	}
	if got := totalArea(&m); !nearRel(got, 80, 1e-6) {
		t.Fatalf("stroke covers %v, want 80", got)
	}
	m.Reset()
	m.Stroke([]geom.Point{{X: 1}, {X: 1}}, 4, color.RGBA{})
	if m.Triangles() != 0 {
		t.Fatal("zero-length segment drawn")
	}
}

func TestScreenToNDC(t *testing.T) {
	ndc := ScreenToNDC(800, 600)
	for _, tc := range []struct{ in, want geom.Point }{
		{geom.Point{}, geom.Point{X: -1, Y: 1}},
		{geom.Point{X: 800, Y: 600}, geom.Point{X: 1, Y: -1}},
		{geom.Point{X: 400, Y: 300}, geom.Point{}},
	} {
		if got := ndc.MulPoint(tc.in); geom.Dist(got, tc.want) > 1e-9 {
			t.Fatalf("%v -> %v, want %v", tc.in, got, tc.want)
		}
	}
	m := affineToMatrix4(geom.Rotate(90))
	// Column-major: the first column is the image of the x axis.
	if math.Abs(float64(m[0])) > 1e-6 || math.Abs(float64(m[1])-1) > 1e-6 {
		t.Fatalf("matrix = %v", m)
	}
}
