package solver

import (
	"math/rand"
	"testing"

	"github.com/irfansharif/cropper/internal/pose"
)

func TestProject(t *testing.T) {
	backing := pose.Pose{Width: 400, Height: 400, ScaleX: 2, ScaleY: 2}
	window := pose.Make(100, 100, 200, 100)

	for _, tc := range []struct {
		name         string
		flipX, flipY bool
		want         CropRect
	}{
		{"plain", false, false, CropRect{X: 50, Y: 50, Width: 100, Height: 50}},
		{"flip-x", true, false, CropRect{X: 250, Y: 50, Width: 100, Height: 50}},
		{"flip-y", false, true, CropRect{X: 50, Y: 300, Width: 100, Height: 50}},
		{"flip-both", true, true, CropRect{X: 250, Y: 300, Width: 100, Height: 50}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w := window
			w.FlipX, w.FlipY = tc.flipX, tc.flipY
			b := backing
			b.FlipX, b.FlipY = tc.flipX, tc.flipY
			out, rect := Project(w, b)
			if !near(rect.X, tc.want.X) || !near(rect.Y, tc.want.Y) ||
				!near(rect.Width, tc.want.Width) || !near(rect.Height, tc.want.Height) {
				t.Fatalf("crop = %s, want %s", rect, tc.want)
			}
			if out.ScaleX != 2 || out.ScaleY != 2 {
				t.Fatalf("window scale = %v/%v, want the backing image's", out.ScaleX, out.ScaleY)
			}
			if !near(out.ScaledWidth(), w.ScaledWidth()) || !near(out.ScaledHeight(), w.ScaledHeight()) ||
				out.Left != w.Left || out.Top != w.Top {
				t.Fatalf("projection changed the window's footprint: %v -> %v", w, out)
			}
		})
	}
}

// TestProjectRotated checks the projection does not depend on where or how
// the pair is placed on the canvas.
func TestProjectRotated(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 500; i++ {
		backing := pose.Pose{
			Left: rng.Float64() * 100, Top: rng.Float64() * 100,
			Width: 300, Height: 200, ScaleX: 1.5, ScaleY: 0.5,
			Angle: rng.Float64() * 360,
		}
		window := within(backing, 30, 20, 90, 40)
		_, rect := Project(window, backing)
		want := CropRect{X: 20, Y: 40, Width: 60, Height: 80}
		if !near(rect.X, want.X) || !near(rect.Y, want.Y) ||
			!near(rect.Width, want.Width) || !near(rect.Height, want.Height) {
			t.Fatalf("%d: crop = %s, want %s", i, rect, want)
		}
	}
}
