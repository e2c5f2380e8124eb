// Package geom provides 2D geometric primitives and affine transformations:
// - 2D affine transformations (translation, rotation, scaling, skew)
// - Transform composition, inversion and decomposition
// - Point arithmetic and vector operations
// - Lines through two points (see line.go)
package geom

import (
	"errors"
	"fmt"
	"log"
	"math"
)

// ErrSingularTransform is returned when inverting a transform whose
// determinant is (close to) zero.
var ErrSingularTransform = errors.New("affine transform is not invertible")

const singularEpsilon = 1e-10

// Point represents a 2D point or vector in Cartesian coordinates.
type Point struct {
	X float64
	Y float64
}

// Box represents an axis-aligned rectangle.
type Box struct {
	X float64
	Y float64
	W float64
	H float64
}

// Affine represents a 2D affine transform in row-major form:
// [ a b c ]
// [ d e f ]
// where (x', y') = (a*x + b*y + c, d*x + e*y + f)
type Affine struct {
	A float64
	B float64
	C float64
	D float64
	E float64
	F float64
}

// Identity is the identity transform.
var Identity = Affine{A: 1, E: 1}

func MakePoint(x, y float64) Point               { return Point{X: x, Y: y} }
func MakeBox(x, y, w, h float64) Box             { return Box{X: x, Y: y, W: w, H: h} }
func MakeAffine(a, b, c, d, e, f float64) Affine { return Affine{A: a, B: b, C: c, D: d, E: e, F: f} }

func (p Point) Add(q Point) Point     { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point     { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }
func (p Point) Len() float64          { return math.Hypot(p.X, p.Y) }

// Rotate rotates the vector counter-clockwise (clockwise on a y-down canvas)
// by deg degrees around the origin.
func (p Point) Rotate(deg float64) Point {
	sin, cos := math.Sincos(Radians(deg))
	return Point{p.X*cos - p.Y*sin, p.X*sin + p.Y*cos}
}

// IsInf reports whether either coordinate is infinite, which is how
// degenerate intersections are reported.
func (p Point) IsInf() bool { return math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) }

func (p Point) String() string { return fmt.Sprintf("(%.4f, %.4f)", p.X, p.Y) }

func Dot(p, q Point) float64 { return p.X*q.X + p.Y*q.Y }

// Cross returns the z component of the cross product p × q.
func Cross(p, q Point) float64 { return p.X*q.Y - p.Y*q.X }

func Dist(p, q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

// NormalizeAngle maps an angle in degrees into [0, 360).
func NormalizeAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 || math.Abs(deg) < 1e-9 || math.Abs(deg-360) < 1e-9 {
		return 0
	}
	return deg
}

// Quadrant buckets an angle into 0: [0,90), 1: [90,180), 2: [180,270) and
// 3: [270,360).
func Quadrant(deg float64) int {
	return int(NormalizeAngle(deg)/90) % 4
}

// Translate returns a translation by (tx, ty).
func Translate(tx, ty float64) Affine { return MakeAffine(1, 0, tx, 0, 1, ty) }

// Rotate returns a rotation by deg degrees around the origin.
func Rotate(deg float64) Affine {
	sin, cos := math.Sincos(Radians(deg))
	return MakeAffine(cos, -sin, 0, sin, cos, 0)
}

// Scale returns a non-uniform scale around the origin.
func Scale(sx, sy float64) Affine { return MakeAffine(sx, 0, 0, 0, sy, 0) }

// MulPoint applies the affine transform to a point.
func (t Affine) MulPoint(p Point) Point {
	return Point{
		X: t.A*p.X + t.B*p.Y + t.C,
		Y: t.D*p.X + t.E*p.Y + t.F,
	}
}

// Mul composes two affine transforms (applies u then t).
func (t Affine) Mul(u Affine) Affine {
	return MakeAffine(
		t.A*u.A+t.B*u.D,
		t.A*u.B+t.B*u.E,
		t.A*u.C+t.B*u.F+t.C,
		t.D*u.A+t.E*u.D,
		t.D*u.B+t.E*u.E,
		t.D*u.C+t.E*u.F+t.F,
	)
}

// Compose returns the transform that applies b then a.
func Compose(a, b Affine) Affine { return a.Mul(b) }

// Det returns the determinant of the linear part.
func (t Affine) Det() float64 { return t.A*t.E - t.B*t.D }

// Inv returns the inverse of the affine transform.
// Returns ErrSingularTransform if the determinant is (close to) zero.
func (t Affine) Inv() (Affine, error) {
	det := t.Det()
	if math.Abs(det) < singularEpsilon {
		return Affine{}, fmt.Errorf("%w (determinant %g)", ErrSingularTransform, det)
	}
	return MakeAffine(
		t.E/det, -t.B/det, (t.B*t.F-t.C*t.E)/det,
		-t.D/det, t.A/det, (t.C*t.D-t.A*t.F)/det,
	), nil
}

// FillBox returns a transform that maps box b1 into b2, optionally allowing a
// 90-degree rotation.
func FillBox(b1, b2 Box, allowRotate bool) Affine {
	if b1.W <= 0 || b1.H <= 0 {
		log.Fatalf("source box must have positive width and height, got W=%v H=%v", b1.W, b1.H)
	}
	if b2.W <= 0 || b2.H <= 0 {
		log.Fatalf("destination box must have positive width and height, got W=%v H=%v", b2.W, b2.H)
	}

	sc := math.Min(b2.W/b1.W, b2.H/b1.H)
	rsc := math.Min(b2.W/b1.H, b2.H/b1.W)
	centerDst := MakeAffine(1, 0, b2.X+0.5*b2.W, 0, 1, b2.Y+0.5*b2.H)
	centerSrc := MakeAffine(1, 0, -(b1.X + 0.5*b1.W), 0, 1, -(b1.Y + 0.5*b1.H))
	if !allowRotate || sc > rsc {
		return centerDst.Mul(MakeAffine(sc, 0, 0, 0, sc, 0)).Mul(centerSrc)
	}
	rot := MakeAffine(0, -1, 0, 1, 0, 0)
	return centerDst.Mul(MakeAffine(rsc, 0, 0, 0, rsc, 0)).Mul(rot).Mul(centerSrc)
}

// Decomposition holds the components of an affine transform, angles in
// degrees. ScaleX is never negative; a reflection shows up as a negative
// ScaleY.
type Decomposition struct {
	ScaleX, ScaleY         float64
	SkewX, SkewY           float64
	Angle                  float64
	TranslateX, TranslateY float64
}

// Decompose splits the transform into rotation, scale, skew and translation
// using a QR decomposition of the linear part, such that
//
//	t = Translate(tx, ty) · Rotate(angle) · Scale(sx, sy) · SkewX(skewX)
//
// The angle is normalized into [0, 360).
func (t Affine) Decompose() Decomposition {
	denom := t.A*t.A + t.D*t.D
	sx := math.Sqrt(denom)
	d := Decomposition{TranslateX: t.C, TranslateY: t.F}
	if sx == 0 {
		return d
	}
	d.ScaleX = sx
	d.ScaleY = t.Det() / sx
	d.Angle = NormalizeAngle(Degrees(math.Atan2(t.D, t.A)))
	d.SkewX = Degrees(math.Atan2(t.A*t.B+t.D*t.E, denom))
	if math.Abs(d.SkewX) < 1e-9 {
		d.SkewX = 0
	}
	return d
}

// Oriented resolves the decomposition against the flips a caller expects the
// result to carry. Decompose reports reflections as a negative ScaleY at the
// angle of the first column; an object flipped horizontally instead decomposes
// to the same matrix rotated by 180°. When the expected flips differ from the
// natural ones (and are reachable, i.e. agree with the sign of the
// determinant) the angle is corrected by -180° and the expected flips are
// returned. Scales in the result are non-negative.
func (d Decomposition) Oriented(flipX, flipY bool) (_ Decomposition, fx, fy bool) {
	fx, fy = false, d.ScaleY < 0
	if (flipX != fx || flipY != fy) && (flipX != flipY) == fy {
		if flipX {
			d.Angle -= 180
		}
		fx, fy = flipX, flipY
	}
	d.ScaleY = math.Abs(d.ScaleY)
	d.Angle = NormalizeAngle(d.Angle)
	return d, fx, fy
}
