package crop

import (
	"math"
	"reflect"
	"testing"

	"github.com/irfansharif/cropper/internal/canvas"
	"github.com/irfansharif/cropper/internal/geom"
	"github.com/irfansharif/cropper/internal/pose"
	"github.com/irfansharif/cropper/internal/solver"
)

const tolerance = 1e-6

func near(a, b float64) bool { return math.Abs(a-b) <= tolerance*math.Max(1, math.Abs(b)) }

func pt(x, y float64) geom.Point { return geom.Point{X: x, Y: y} }

func drag(c *canvas.Canvas, from, to geom.Point) {
	c.PointerDown(from)
	c.PointerMove(to)
	c.PointerUp(to)
}

func click(c *canvas.Canvas, at geom.Point) {
	c.PointerDown(at)
	c.PointerUp(at)
}

func checkPose(t *testing.T, what string, got pose.Pose, left, top, width, height float64) {
	t.Helper()
	if !near(got.Left, left) || !near(got.Top, top) ||
		!near(got.ScaledWidth(), width) || !near(got.ScaledHeight(), height) {
		t.Fatalf("%s = %v, want (%v,%v) %vx%v", what, got, left, top, width, height)
	}
}

func checkRect(t *testing.T, got, want solver.CropRect) {
	t.Helper()
	if !near(got.X, want.X) || !near(got.Y, want.Y) || !near(got.Width, want.Width) || !near(got.Height, want.Height) {
		t.Fatalf("crop rect = %s, want %s", got, want)
	}
}

// setup returns a canvas holding a 400x400 image at the origin, and a bound
// session.
func setup(t *testing.T) (*canvas.Canvas, *Session, *canvas.Object) {
	t.Helper()
	c := canvas.New()
	img := canvas.NewImage(canvas.Source{Seed: 1, Width: 400, Height: 400}, 0, 0, 1)
	c.Add(img)
	s := NewSession(c, DefaultOptions(), nil)
	s.Bind()
	return c, s, img
}

// cropTo enters cropping on img and resizes the window to
// (100,100,200,200) by dragging its top-left and bottom-right corners.
func cropTo(t *testing.T, c *canvas.Canvas, s *Session, img *canvas.Object) {
	t.Helper()
	c.SetActive(img)
	s.EnterCropping()
	if s.Phase() != Cropping || s.Target() != img {
		t.Fatalf("not cropping %v", img)
	}
	drag(c, pt(0, 0), pt(100, 100))
	drag(c, pt(400, 400), pt(300, 300))
	checkPose(t, "window", img.Pose, 100, 100, 200, 200)
	checkRect(t, s.CropRect(), solver.CropRect{X: 100, Y: 100, Width: 200, Height: 200})
}

func TestConfirmThenFollow(t *testing.T) {
	c, s, img := setup(t)
	cropTo(t, c, s, img)
	origin := s.Origin()

	s.ConfirmCropping()
	if s.Phase() != Idle || s.Target() != nil || s.Origin() != nil {
		t.Fatalf("session still holds objects after confirm")
	}
	if img.Backing != origin || origin.Relationship == nil {
		t.Fatalf("backing image not attached")
	}
	if c.IndexOf(origin) != -1 || c.IndexOf(img) != 0 {
		t.Fatalf("stacking after confirm: %v", c.Objects())
	}
	if img.Cropping || img.Controls != canvas.ControlAll || img.Lock != (canvas.Lock{}) || origin.Opacity != 1 {
		t.Fatalf("affordances not restored: %+v", img)
	}
	if !near(img.MinScaleLimit, 0.25) {
		t.Fatalf("min scale limit = %v, want 0.25", img.MinScaleLimit)
	}
	if !near(img.CropX, 100) || !near(img.CropY, 100) {
		t.Fatalf("crop offset = %v,%v", img.CropX, img.CropY)
	}

	drag(c, pt(200, 200), pt(250, 250))
	checkPose(t, "window", img.Pose, 150, 150, 200, 200)
	checkPose(t, "backing", origin.Pose, 50, 50, 400, 400)
	if origin.Angle != 0 || origin.FlipX || origin.FlipY {
		t.Fatalf("backing image changed orientation: %v", origin.Pose)
	}
}

func TestRecropKeepsBacking(t *testing.T) {
	c, s, img := setup(t)
	cropTo(t, c, s, img)
	first := s.Origin()
	s.ConfirmCropping()

	c.SetActive(img)
	s.EnterCropping()
	if s.Origin() == first || s.Origin() == nil {
		t.Fatal("re-cropping must work on a copy of the backing image")
	}
	checkPose(t, "origin", s.Origin().Pose, 0, 0, 400, 400)
	checkRect(t, s.CropRect(), solver.CropRect{X: 100, Y: 100, Width: 200, Height: 200})

	s.CancelCropping()
	if img.Backing != first || first.Relationship == nil {
		t.Fatal("cancel did not restore the previous backing image")
	}
}

func TestMinimumCropSize(t *testing.T) {
	c, s, img := setup(t)
	c.SetActive(img)
	s.EnterCropping()

	drag(c, pt(0, 0), pt(395, 395))
	checkPose(t, "window", img.Pose, 350, 350, 50, 50)
	checkRect(t, s.CropRect(), solver.CropRect{X: 350, Y: 350, Width: 50, Height: 50})

	// Dragging past the image clamps to its edge.
	drag(c, pt(350, 350), pt(-80, 200))
	checkPose(t, "window", img.Pose, 0, 200, 400, 200)
}

func TestCancelRestores(t *testing.T) {
	c, s, img := setup(t)
	other := canvas.NewRect(500, 500, 10, 10)
	c.Add(other)
	c.SetCenteredScaling(true)
	backup := img.Clone()

	cropTo(t, c, s, img)
	if c.CenteredScaling() {
		t.Fatal("centered scaling left on while cropping")
	}
	s.CancelCropping()

	if s.Phase() != Idle {
		t.Fatal("still cropping")
	}
	if !reflect.DeepEqual(img, backup) {
		t.Fatalf("cancel left %+v, want %+v", img, backup)
	}
	if objs := c.Objects(); len(objs) != 2 || objs[0] != img || objs[1] != other {
		t.Fatalf("stacking after cancel: %v", objs)
	}
	if !c.CenteredScaling() {
		t.Fatal("centered scaling not restored")
	}
}

func TestDeferredCancel(t *testing.T) {
	c, s, img := setup(t)
	c.SetActive(img)
	s.EnterCropping()

	c.PointerDown(pt(0, 0))
	c.PointerMove(pt(100, 100))
	s.CancelCropping()
	if s.Phase() != Cropping {
		t.Fatal("cancel took effect mid-drag")
	}
	c.PointerMove(pt(120, 120))
	c.PointerUp(pt(120, 120))

	if s.Phase() != Idle {
		t.Fatal("cancel did not run at the end of the drag")
	}
	checkPose(t, "image", img.Pose, 0, 0, 400, 400)
	if img.CropX != 0 || img.CropY != 0 || len(c.Objects()) != 1 {
		t.Fatalf("edits survived the cancel: %+v", img)
	}
}

func TestEnterPreconditions(t *testing.T) {
	c, s, img := setup(t)
	rect := canvas.NewRect(0, 0, 10, 10)
	c.Add(rect)

	s.EnterCropping()
	if s.Phase() != Idle {
		t.Fatal("entered with nothing active")
	}
	c.SetActive(rect)
	s.EnterCropping()
	if s.Phase() != Idle {
		t.Fatal("entered on a non-image")
	}

	c.SetActive(img)
	s.EnterCropping()
	origin := s.Origin()
	s.EnterCropping()
	if s.Origin() != origin || len(c.Objects()) != 3 {
		t.Fatal("entering twice started a second session")
	}
	if img.Controls != canvas.ControlCorners || !img.Lock.MovementX || !img.Lock.Rotation || !img.Cropping {
		t.Fatalf("window affordances while cropping: %+v", img)
	}
	if origin.Opacity != 0.8 || !origin.Lock.ScalingFlip || origin.Lock.MovementX || origin.ID == img.ID {
		t.Fatalf("backing affordances while cropping: %+v", origin)
	}
	if c.IndexOf(img) != 2 || c.IndexOf(origin) != 1 {
		t.Fatalf("crop window must sit on top of the backing image: %v", c.Objects())
	}

	s.CancelCropping()
	s.ConfirmCropping()
	s.CancelCropping()
	if img.Backing != nil {
		t.Fatal("confirm ran while idle")
	}
}

func TestBackingMove(t *testing.T) {
	c, s, img := setup(t)
	cropTo(t, c, s, img)
	origin := s.Origin()

	c.PointerDown(pt(50, 50))
	if c.Active() != origin {
		t.Fatalf("pressing the backing image did not select it")
	}
	c.PointerMove(pt(150, 0))
	checkPose(t, "backing", origin.Pose, 100, -50, 400, 400)
	// Past the right end of the movable region: slides along it.
	c.PointerMove(pt(250, 50))
	c.PointerUp(pt(250, 50))
	checkPose(t, "backing", origin.Pose, 100, 0, 400, 400)
	checkPose(t, "window", img.Pose, 100, 100, 200, 200)
	checkRect(t, s.CropRect(), solver.CropRect{X: 0, Y: 100, Width: 200, Height: 200})

	// Keyboard nudges are constrained the same way.
	c.Nudge(origin, pt(30, 0))
	checkPose(t, "backing", origin.Pose, 100, 0, 400, 400)
	c.Nudge(origin, pt(-30, 0))
	checkPose(t, "backing", origin.Pose, 70, 0, 400, 400)
	checkRect(t, s.CropRect(), solver.CropRect{X: 30, Y: 100, Width: 200, Height: 200})
}

func TestBackingScale(t *testing.T) {
	c, s, img := setup(t)
	cropTo(t, c, s, img)
	origin := s.Origin()

	click(c, pt(50, 50))
	drag(c, pt(400, 400), pt(250, 250))

	if !near(origin.ScaleX, 0.75) || !near(origin.ScaleY, 0.75) {
		t.Fatalf("backing scale = %v,%v; want 0.75", origin.ScaleX, origin.ScaleY)
	}
	checkPose(t, "backing", origin.Pose, 0, 0, 300, 300)
	checkPose(t, "window", img.Pose, 100, 100, 200, 200)
	checkRect(t, s.CropRect(), solver.CropRect{X: 100 / 0.75, Y: 100 / 0.75, Width: 200 / 0.75, Height: 200 / 0.75})

	// Growing is unconstrained.
	drag(c, pt(300, 300), pt(600, 600))
	checkPose(t, "backing", origin.Pose, 0, 0, 600, 600)
}

func TestImplicitConfirm(t *testing.T) {
	for _, tc := range []struct {
		name  string
		click geom.Point
	}{
		{name: "other object", click: pt(505, 505)},
		{name: "empty canvas", click: pt(900, 900)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c, s, img := setup(t)
			c.Add(canvas.NewRect(500, 500, 10, 10))
			cropTo(t, c, s, img)

			click(c, tc.click)
			if s.Phase() != Idle || img.Backing == nil {
				t.Fatalf("click on %s did not confirm", tc.name)
			}
		})
	}
}

func TestDoubleClick(t *testing.T) {
	c, s, img := setup(t)
	c.DoubleClick(pt(200, 200))
	if s.Phase() != Cropping || s.Target() != img || c.Active() != img {
		t.Fatal("double-click on an image did not start cropping")
	}
	c.DoubleClick(pt(10, 10))
	if s.Phase() != Idle || img.Backing == nil {
		t.Fatal("double-click on the crop window did not confirm")
	}
	c.DoubleClick(pt(1000, 1000))
	if s.Phase() != Idle {
		t.Fatal("double-click on empty canvas started cropping")
	}
}

func TestFlipWhileCropping(t *testing.T) {
	c, s, img := setup(t)
	cropTo(t, c, s, img)
	c.Flip(img, true, false)
	c.Flip(s.Origin(), false, true)
	if img.FlipX || s.Origin().FlipY {
		t.Fatal("flips applied while cropping")
	}
}

func TestBindIdempotent(t *testing.T) {
	c, s, _ := setup(t)
	s.Bind()
	for _, typ := range []canvas.EventType{canvas.MouseDown, canvas.MouseUp, canvas.Scaling, canvas.Moving, canvas.Modified, canvas.AfterRender} {
		if n := c.Subscribers(typ); n != 1 {
			t.Fatalf("%s has %d subscribers, want 1", typ, n)
		}
	}
	s.Unbind()
	if n := c.Subscribers(canvas.MouseDown); n != 0 {
		t.Fatalf("%d subscribers left after unbind", n)
	}
}

type decorations struct {
	objs  []*canvas.Object
	width float64
}

func (d *decorations) DecorateCorners(obj *canvas.Object, marks [4][3]geom.Point, width float64) {
	d.objs = append(d.objs, obj)
	d.width = width
}

func TestDecorate(t *testing.T) {
	c := canvas.New()
	img := canvas.NewImage(canvas.Source{Width: 100, Height: 100}, 0, 0, 1)
	c.Add(img)
	d := &decorations{}
	s := NewSession(c, DefaultOptions(), d)
	s.Bind()

	c.Render(func(*canvas.Object) {})
	if len(d.objs) != 0 {
		t.Fatal("decorated while idle")
	}
	c.SetActive(img)
	s.EnterCropping()
	c.Render(func(*canvas.Object) {})
	if len(d.objs) != 2 || d.objs[0] != s.Origin() || d.objs[1] != img || d.width != 4 {
		t.Fatalf("decorations = %+v", d)
	}
}

func TestCornerMarks(t *testing.T) {
	marks := CornerMarks(pose.Make(0, 0, 100, 50), 10)
	want := [4][3]geom.Point{
		{pt(10, 0), pt(0, 0), pt(0, 10)},
		{pt(90, 0), pt(100, 0), pt(100, 10)},
		{pt(90, 50), pt(100, 50), pt(100, 40)},
		{pt(10, 50), pt(0, 50), pt(0, 40)},
	}
	for i := range want {
		for j := range want[i] {
			if geom.Dist(marks[i][j], want[i][j]) > tolerance {
				t.Fatalf("mark %d point %d = %v, want %v", i, j, marks[i][j], want[i][j])
			}
		}
	}
	if long := CornerMarks(pose.Make(0, 0, 100, 50), 40); geom.Dist(long[0][2], pt(0, 25)) > tolerance {
		t.Fatalf("arms not capped at half the side: %v", long[0])
	}
}

func TestOptions(t *testing.T) {
	if err := DefaultOptions().Validate(); err != nil {
		t.Fatal(err)
	}
	bad := DefaultOptions()
	bad.MinWidth = 0
	if bad.Validate() == nil {
		t.Fatal("zero minimum width accepted")
	}
	s := NewSession(canvas.New(), bad, nil)
	if s.Options() != DefaultOptions() {
		t.Fatalf("invalid options kept: %+v", s.Options())
	}
}

func TestEditableOf(t *testing.T) {
	img := canvas.NewImage(canvas.Source{Width: 10, Height: 10}, 0, 0, 1)
	if e, ok := EditableOf(img); !ok || e.Source() != img {
		t.Fatalf("plain image: %v %t", e, ok)
	}
	backing := img.Clone()
	img.Backing = backing
	if e, ok := EditableOf(img); !ok || e.Source() != backing {
		t.Fatalf("cropped image: %v %t", e, ok)
	}
	if _, ok := EditableOf(canvas.NewRect(0, 0, 1, 1)); ok {
		t.Fatal("rect is not editable")
	}
	if _, ok := EditableOf(nil); ok {
		t.Fatal("nil is not editable")
	}
}
