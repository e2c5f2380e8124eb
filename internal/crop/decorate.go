package crop

import (
	"math"

	"github.com/irfansharif/cropper/internal/canvas"
	"github.com/irfansharif/cropper/internal/geom"
	"github.com/irfansharif/cropper/internal/pose"
)

// Decorator draws the corner marks of the objects in a crop session. It is
// called after every render while cropping.
type Decorator interface {
	DecorateCorners(obj *canvas.Object, marks [4][3]geom.Point, width float64)
}

// CornerMarks returns an L-shaped polyline per corner (TL, TR, BR, BL): a
// point along the horizontal edge, the corner itself, and a point along the
// vertical edge. The arms are length long, but never longer than half the
// object's side, and rotate with the object.
func CornerMarks(p pose.Pose, length float64) [4][3]geom.Point {
	length = math.Min(length, math.Min(p.ScaledWidth(), p.ScaledHeight())/2)
	ax, ay := p.AxisX().Scale(length), p.AxisY().Scale(length)
	corners := p.Corners()

	var marks [4][3]geom.Point
	for i, corner := range pose.AllCorners {
		at := corners.Get(corner)
		h, v := ax, ay
		if corner == pose.TR || corner == pose.BR {
			h = h.Scale(-1)
		}
		if corner == pose.BR || corner == pose.BL {
			v = v.Scale(-1)
		}
		marks[i] = [3]geom.Point{at.Add(h), at, at.Add(v)}
	}
	return marks
}

func (s *Session) decorate() {
	if s.phase != Cropping || s.decorator == nil {
		return
	}
	for _, o := range []*canvas.Object{s.origin, s.target} {
		s.decorator.DecorateCorners(o, CornerMarks(o.Pose, s.opts.CornerLength), s.opts.CornerWidth)
	}
}
