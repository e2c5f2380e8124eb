package geom

import "math"

// axisEpsilon is the relative tolerance under which a line is treated as
// exactly vertical or horizontal. Rotations by multiples of 90° leave
// cos/sin residues around 1e-16, which would otherwise yield slopes in the
// 1e16 range and intercepts that have lost all precision.
const axisEpsilon = 1e-12

// Line is the infinite line through two distinct points A and B, directed
// from A to B. It carries the slope-intercept form y = K*x + Intercept for
// callers that want it; vertical lines have K = ±Inf and horizontal lines
// K = 0. All geometric operations work on the direction vector so they stay
// exact for axis-aligned lines.
type Line struct {
	A, B      Point
	K         float64
	Intercept float64
}

// MakeLine returns the line through a and b. If a and b coincide the line
// is horizontal through a.
func MakeLine(a, b Point) Line {
	l := Line{A: a, B: b}
	dx, dy := b.X-a.X, b.Y-a.Y
	switch {
	case dx == 0 && dy == 0:
		l.B = Point{a.X + 1, a.Y}
		l.Intercept = a.Y
	case math.Abs(dx) <= axisEpsilon*math.Abs(dy):
		l.K = math.Copysign(math.Inf(1), dy)
		l.Intercept = math.NaN()
	case math.Abs(dy) <= axisEpsilon*math.Abs(dx):
		l.K = 0
		l.Intercept = a.Y
	default:
		l.K = dy / dx
		l.Intercept = a.Y - l.K*a.X
	}
	return l
}

// LineDir returns the line through p with direction d.
func LineDir(p, d Point) Line { return MakeLine(p, p.Add(d)) }

// Vertical reports whether the line is parallel to the y axis.
func (l Line) Vertical() bool { return math.IsInf(l.K, 0) }

// Horizontal reports whether the line is parallel to the x axis.
func (l Line) Horizontal() bool { return l.K == 0 }

// Dir returns the (unnormalized) direction vector B-A.
func (l Line) Dir() Point { return l.B.Sub(l.A) }

// Forward evaluates y for the given x. Vertical lines have no such y; they
// return an infinity whose sign follows the direction of the line so that
// ordering comparisons made by callers still point the right way.
func (l Line) Forward(x float64) float64 {
	switch {
	case l.Vertical():
		return math.Copysign(math.Inf(1), l.B.Y-l.A.Y)
	case l.Horizontal():
		return l.A.Y
	}
	return l.K*x + l.Intercept
}

// Inverse evaluates x for the given y, with the same sentinel convention as
// Forward for horizontal lines.
func (l Line) Inverse(y float64) float64 {
	switch {
	case l.Horizontal():
		return math.Copysign(math.Inf(1), l.B.X-l.A.X)
	case l.Vertical():
		return l.A.X
	}
	return (y - l.Intercept) / l.K
}

// Distance returns the signed distance from p to the line. The sign is the
// sign of (A-P)×(B-P): positive when p lies to the right of A→B on a y-down
// canvas, negative to the left.
func (l Line) Distance(p Point) float64 {
	d := l.Dir()
	return Cross(l.A.Sub(p), l.B.Sub(p)) / d.Len()
}

// Intersect returns the intersection of the two lines. Parallel (or
// coincident) lines report ok=false and a point at infinity.
func (l Line) Intersect(m Line) (p Point, ok bool) {
	d1, d2 := l.Dir(), m.Dir()
	den := Cross(d1, d2)
	if math.Abs(den) <= axisEpsilon*d1.Len()*d2.Len() {
		return Point{math.Inf(1), math.Inf(1)}, false
	}
	t := Cross(m.A.Sub(l.A), d2) / den
	p = l.A.Add(d1.Scale(t))
	switch {
	case l.Vertical():
		p.X = l.A.X
	case m.Vertical():
		p.X = m.A.X
	}
	switch {
	case l.Horizontal():
		p.Y = l.A.Y
	case m.Horizontal():
		p.Y = m.A.Y
	}
	return p, true
}

// Pedal returns the foot of the perpendicular from p onto the line, i.e. the
// closest point of the line to p.
func (l Line) Pedal(p Point) Point {
	switch {
	case l.Vertical():
		return Point{l.A.X, p.Y}
	case l.Horizontal():
		return Point{p.X, l.A.Y}
	}
	d := l.Dir()
	t := Dot(p.Sub(l.A), d) / Dot(d, d)
	return l.A.Add(d.Scale(t))
}

// Perpendicular returns the line through p perpendicular to l, directed
// from p towards l (or along the left normal when p lies on l).
func (l Line) Perpendicular(p Point) Line {
	q := l.Pedal(p)
	if q == p {
		d := l.Dir()
		return LineDir(p, Point{-d.Y, d.X})
	}
	return MakeLine(p, q)
}

// Mirror reflects p across the line.
func (l Line) Mirror(p Point) Point {
	q := l.Pedal(p)
	return q.Scale(2).Sub(p)
}

// Shift returns the parallel line offset by the signed perpendicular
// distance offset, such that l.Distance(p) == offset for every point p of
// the result.
func (l Line) Shift(offset float64) Line {
	d := l.Dir()
	n := Point{-d.Y, d.X}.Scale(offset / d.Len())
	return MakeLine(l.A.Add(n), l.B.Add(n))
}

// ShiftAway returns the parallel line offset by |offset| away from p.
func (l Line) ShiftAway(p Point, offset float64) Line {
	if l.Distance(p) > 0 {
		return l.Shift(-math.Abs(offset))
	}
	return l.Shift(math.Abs(offset))
}
