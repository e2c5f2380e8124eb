package render

import (
	"fmt"

	"github.com/rclancey/earcut"

	"github.com/irfansharif/cropper/internal/geom"
)

// earClip triangulates a polygon, optionally with holes, using the earcut
// algorithm. Winding order doesn't matter for either the outline or the
// holes.
func earClip(outline []geom.Point, holes ...[]geom.Point) ([][3]geom.Point, error) {
	if len(outline) < 3 {
		return nil, fmt.Errorf("degenerate polygon (%d vertices < 3)", len(outline))
	}

	// Flat coordinate array required by earcut: [x0, y0, x1, y1, ...], the
	// outline first, then each hole, with holeIndices marking where each
	// hole starts (in vertices).
	n := len(outline)
	for _, h := range holes {
		n += len(h)
	}
	points := make([]geom.Point, 0, n)
	points = append(points, outline...)
	var holeIndices []int
	for _, h := range holes {
		if len(h) < 3 {
			return nil, fmt.Errorf("degenerate hole (%d vertices < 3)", len(h))
		}
		holeIndices = append(holeIndices, len(points))
		points = append(points, h...)
	}
	coords := make([]float64, len(points)*2)
	for i, p := range points {
		coords[i*2] = p.X
		coords[i*2+1] = p.Y
	}

	indices, err := earcut.Earcut(coords, holeIndices, 2 /* dim */)
	if err != nil {
		return nil, fmt.Errorf("triangulating %d-vertex polygon: %w", len(points), err)
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("invalid triangle count (indices: %d, not divisible by 3)", len(indices))
	}

	triangles := make([][3]geom.Point, len(indices)/3)
	for i := range triangles {
		triangles[i] = [3]geom.Point{points[indices[i*3]], points[indices[i*3+1]], points[indices[i*3+2]]}
	}
	return triangles, nil
}
