// Package solver holds the constraint solvers that run while a crop session
// is active:
//
//   - WindowScale: dragging a corner of the crop window. The window stays
//     inside the backing image and never shrinks below the minimum size.
//   - BackingScale: dragging a corner of the backing image. The image never
//     shrinks below the size needed to cover the crop window.
//   - BackingMove: dragging the backing image. The image can only move within
//     the region that keeps the crop window covered.
//   - Project: the crop rectangle, in backing-image units, that the current
//     poses reveal.
//
// Each drag solver is a value built by a Begin* function when the gesture
// starts; it holds everything captured at drag-start and is discarded when
// the gesture ends. All solvers are pure: they return new poses and never
// mutate their inputs.
//
// The crop window and the backing image are expected to share their rotation,
// which holds for every window produced here.
package solver

import "fmt"

// Side says where a value falls relative to the legal interval of one axis.
type Side int

const (
	Inside Side = iota
	// Low is below the interval (the left/top side in the frame used).
	Low
	// High is above the interval (the right/bottom side in the frame used).
	High
)

func (s Side) String() string {
	switch s {
	case Low:
		return "low"
	case High:
		return "high"
	default:
		return "inside"
	}
}

// Region classifies a pointer position axis by axis. Inside/Inside is the
// free region, a single non-Inside axis is an edge region (the result slides
// along a boundary) and two non-Inside axes are corner regions (the result is
// pinned to a corner).
type Region struct {
	X, Y Side
}

func (r Region) String() string { return fmt.Sprintf("%s/%s", r.X, r.Y) }

// Free reports whether the region is unconstrained.
func (r Region) Free() bool { return r.X == Inside && r.Y == Inside }

// Corner reports whether both axes are constrained.
func (r Region) Corner() bool { return r.X != Inside && r.Y != Inside }

// classify places v relative to [lo, hi].
func classify(v, lo, hi float64) Side {
	switch {
	case v < lo:
		return Low
	case v > hi:
		return High
	default:
		return Inside
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
