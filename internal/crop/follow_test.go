package crop

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/irfansharif/cropper/internal/canvas"
	"github.com/irfansharif/cropper/internal/geom"
)

func nearAffine(a, b geom.Affine) bool {
	x := [6]float64{a.A, a.B, a.C, a.D, a.E, a.F}
	y := [6]float64{b.A, b.B, b.C, b.D, b.E, b.F}
	for i := range x {
		if math.Abs(x[i]-y[i]) > 1e-6*math.Max(1, math.Abs(y[i])) {
			return false
		}
	}
	return true
}

// cropped returns an image showing part of a larger backing image, sharing
// its rotation and flips, with the relationship recorded.
func cropped(t *testing.T, s *Session, rng *rand.Rand) *canvas.Object {
	t.Helper()
	src := canvas.Source{Seed: rng.Int63(), Width: 100 + rng.Float64()*400, Height: 100 + rng.Float64()*400}
	window := canvas.NewImage(src, rng.Float64()*1000-500, rng.Float64()*1000-500, 0.5+rng.Float64()*1.5)
	window.ScaleY = 0.5 + rng.Float64()*1.5
	window.Width, window.Height = src.Width/2, src.Height/3
	window.Angle = rng.Float64() * 360
	window.FlipX, window.FlipY = rng.Intn(2) == 0, rng.Intn(2) == 0

	backing := canvas.NewImage(src, rng.Float64()*1000-500, rng.Float64()*1000-500, 0.5+rng.Float64()*1.5)
	backing.ScaleY = 0.5 + rng.Float64()*1.5
	backing.Angle = window.Angle
	backing.FlipX, backing.FlipY = window.FlipX, window.FlipY
	window.Backing = backing

	if err := s.BindFollow(window); err != nil {
		t.Fatal(err)
	}
	return window
}

func TestUpdateMinions(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := NewSession(canvas.New(), DefaultOptions(), nil)

	for i := 0; i < 1000; i++ {
		window := cropped(t, s, rng)
		backing := window.Backing
		before := backing.Transform()
		rel := *backing.Relationship

		s.UpdateMinions(window)
		if !nearAffine(backing.Transform(), before) {
			t.Fatalf("%d: following an unchanged window moved the backing image from %v to %v", i, before, backing.Transform())
		}

		window.Left += rng.Float64()*200 - 100
		window.Top += rng.Float64()*200 - 100
		window.Angle = rng.Float64() * 360
		window.ScaleX *= 0.5 + rng.Float64()
		window.ScaleY *= 0.5 + rng.Float64()
		if rng.Intn(3) == 0 {
			window.FlipX = !window.FlipX
		}
		if rng.Intn(3) == 0 {
			window.FlipY = !window.FlipY
		}

		s.UpdateMinions(window)
		want := window.Transform().Mul(rel)
		if got := backing.Transform(); !nearAffine(got, want) {
			t.Fatalf("%d: backing transform = %v, want %v", i, got, want)
		}
		if backing.FlipX != window.FlipX || backing.FlipY != window.FlipY {
			t.Fatalf("%d: backing flips %t/%t, window flips %t/%t", i, backing.FlipX, backing.FlipY, window.FlipX, window.FlipY)
		}
	}
}

func TestBindFollowSingular(t *testing.T) {
	s := NewSession(canvas.New(), DefaultOptions(), nil)
	window := canvas.NewImage(canvas.Source{Width: 10, Height: 10}, 0, 0, 0)
	window.Backing = canvas.NewImage(canvas.Source{Width: 10, Height: 10}, 0, 0, 1)

	err := s.BindFollow(window)
	if !errors.Is(err, geom.ErrSingularTransform) {
		t.Fatalf("err = %v, want %v", err, geom.ErrSingularTransform)
	}
	if window.Backing.Relationship != nil {
		t.Fatal("relationship recorded for a singular window")
	}
	if err := s.BindFollow(canvas.NewRect(0, 0, 1, 1)); err != nil {
		t.Fatalf("binding an object without backing image: %v", err)
	}
}

func TestFollowIgnoredWhileCropping(t *testing.T) {
	c, s, img := setup(t)
	other := cropped(t, s, rand.New(rand.NewSource(1)))
	other.Backing.Relationship = nil
	c.SetActive(img)
	s.EnterCropping()

	if err := s.BindFollow(other); err != nil || other.Backing.Relationship != nil {
		t.Fatalf("bound while cropping: %v", err)
	}
	rel := geom.Translate(10, 10)
	other.Backing.Relationship = &rel
	before := other.Backing.Pose
	s.UpdateMinions(other)
	if other.Backing.Pose != before {
		t.Fatal("followed while cropping")
	}
}

func TestFollowSelection(t *testing.T) {
	c := canvas.New()
	s := NewSession(c, DefaultOptions(), nil)
	s.Bind()

	var images []*canvas.Object
	for _, left := range []float64{0, 300} {
		window := canvas.NewImage(canvas.Source{Width: 200, Height: 200}, left, 0, 1)
		window.Width, window.Height = 100, 100
		window.CropX, window.CropY = 50, 50
		window.Backing = canvas.NewImage(canvas.Source{Width: 200, Height: 200}, left-50, -50, 1)
		if err := s.BindFollow(window); err != nil {
			t.Fatal(err)
		}
		c.Add(window)
		images = append(images, window)
	}
	rect := canvas.NewRect(0, 300, 50, 50)
	c.Add(rect)

	if got := Followers(c.Objects()); len(got) != 2 || got[0] != images[0] || got[1] != images[1] {
		t.Fatalf("followers = %v", got)
	}

	c.SelectAll()
	drag(c, pt(50, 50), pt(80, 90))
	for i, img := range images {
		left := []float64{0, 300}[i]
		checkPose(t, "window", img.Pose, left+30, 40, 100, 100)
		checkPose(t, "backing", img.Backing.Pose, left-20, -10, 200, 200)
	}

	// Rotating the group carries the backing images around with it.
	sel := c.Active()
	c.RotateBy(sel, 90)
	c.SetActive(nil)
	for _, img := range images {
		if !near(img.Backing.Angle, 90) {
			t.Fatalf("backing angle = %v, want 90", img.Backing.Angle)
		}
		if got, want := img.Backing.Center(), img.Center(); geom.Dist(got, want) > tolerance {
			t.Fatalf("backing center %v drifted from window center %v", got, want)
		}
	}
}
