package solver

import (
	"math/rand"
	"testing"

	"github.com/irfansharif/cropper/internal/geom"
	"github.com/irfansharif/cropper/internal/pose"
)

func TestWindowScale(t *testing.T) {
	backing := pose.Make(0, 0, 400, 400)
	window := pose.Make(100, 100, 200, 200)

	for _, tc := range []struct {
		name    string
		corner  pose.Corner
		pointer geom.Point
		want    pose.Pose
		region  Region
	}{
		{
			name:    "free",
			corner:  pose.TL,
			pointer: geom.Point{X: 50, Y: 80},
			want:    pose.Make(50, 80, 250, 220),
			region:  Region{Inside, Inside},
		},
		{
			name:    "min-size",
			corner:  pose.TL,
			pointer: geom.Point{X: 290, Y: 290},
			want:    pose.Make(250, 250, 50, 50),
			region:  Region{High, High},
		},
		{
			name:    "min-width-only",
			corner:  pose.BR,
			pointer: geom.Point{X: 120, Y: 380},
			want:    pose.Make(100, 100, 50, 280),
			region:  Region{Low, Inside},
		},
		{
			name:    "slides-along-left-edge",
			corner:  pose.TL,
			pointer: geom.Point{X: -100, Y: 150},
			want:    pose.Make(0, 150, 300, 150),
			region:  Region{Low, Inside},
		},
		{
			name:    "backing-corner",
			corner:  pose.TR,
			pointer: geom.Point{X: 900, Y: -900},
			want:    pose.Make(100, 0, 300, 300),
			region:  Region{High, Low},
		},
		{
			name:    "bottom-edge",
			corner:  pose.BL,
			pointer: geom.Point{X: 60, Y: 1000},
			want:    pose.Make(60, 100, 240, 300),
			region:  Region{Inside, High},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			g, ok := BeginWindowScale(tc.corner, window, 50, 50)
			if !ok {
				t.Fatal("BeginWindowScale failed")
			}
			got, region := g.Update(window, backing, tc.pointer)
			if region != tc.region {
				t.Errorf("region = %s, want %s", region, tc.region)
			}
			if !near(got.Left, tc.want.Left) || !near(got.Top, tc.want.Top) ||
				!near(got.Width, tc.want.Width) || !near(got.Height, tc.want.Height) ||
				got.ScaleX != 1 || got.ScaleY != 1 {
				t.Errorf("window = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestWindowScaleNoCorner(t *testing.T) {
	if _, ok := BeginWindowScale(pose.NoCorner, pose.Make(0, 0, 10, 10), 5, 5); ok {
		t.Fatal("BeginWindowScale succeeded without a corner")
	}
}

// TestWindowScaleInvariants drags every corner of randomly posed windows to
// random pointer positions (many far outside the backing image) and checks
// the result honors the minimum size and stays inside the backing image.
func TestWindowScaleInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	const minW, minH = 50, 50
	for i := 0; i < 2000; i++ {
		backing, window := randomBacking(rng)
		for _, corner := range pose.AllCorners {
			g, _ := BeginWindowScale(corner, window, minW, minH)
			cur := window
			for tick := 0; tick < 5; tick++ {
				next, region := g.Update(cur, backing, randomPointer(rng))
				if next.Width < minW || next.Height < minH {
					t.Fatalf("%d/%s: window %v smaller than %vx%v", i, corner, next, minW, minH)
				}
				if next.Angle != backing.Angle || next.FlipX != backing.FlipX || next.FlipY != backing.FlipY {
					t.Fatalf("%d/%s: window %v does not follow backing %v", i, corner, next, backing)
				}
				if !covers(backing, next) {
					t.Fatalf("%d/%s: window %v (region %s) leaves backing %v", i, corner, next, region, backing)
				}
				// The corner opposite the dragged one never moves.
				fixed := corner.Opposite()
				if got, want := next.Corners().Get(fixed), g.Start.Get(fixed); !nearPoint(got, want) {
					t.Fatalf("%d/%s: fixed corner moved from %v to %v", i, corner, want, got)
				}
				cur = next
			}
		}
	}
}

// TestWindowScaleTinyBacking checks that the minimum size wins when the
// backing image cannot honor it.
func TestWindowScaleTinyBacking(t *testing.T) {
	backing := pose.Make(0, 0, 40, 40)
	window := pose.Make(0, 0, 40, 40)
	g, _ := BeginWindowScale(pose.TL, window, 50, 50)
	got, _ := g.Update(window, backing, geom.Point{X: 20, Y: 20})
	if got.Width != 50 || got.Height != 50 {
		t.Fatalf("window = %v, want 50x50", got)
	}
}
