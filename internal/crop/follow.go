package crop

import (
	"fmt"

	"github.com/irfansharif/cropper/internal/canvas"
)

// BindFollow records the pose of target's backing image relative to target,
// so that UpdateMinions can keep it in place as target changes. It does
// nothing while cropping or if target has no backing image.
func (s *Session) BindFollow(target *canvas.Object) error {
	if s.phase == Cropping || target == nil || target.Backing == nil {
		return nil
	}
	inv, err := target.Transform().Inv()
	if err != nil {
		return fmt.Errorf("binding %v to its backing image: %w", target, err)
	}
	rel := inv.Mul(target.Backing.Transform())
	target.Backing.Relationship = &rel
	return nil
}

// UpdateMinions re-poses target's backing image from target's current
// transform and the recorded relationship. It does nothing while cropping
// or if no relationship was recorded.
func (s *Session) UpdateMinions(target *canvas.Object) {
	if s.phase == Cropping || target == nil || target.Backing == nil || target.Backing.Relationship == nil {
		return
	}
	backing := target.Backing
	backing.ApplyTransform(target.Transform().Mul(*backing.Relationship), target.FlipX, target.FlipY)
}

// Followers filters objs down to those whose backing image follows them.
func Followers(objs []*canvas.Object) []*canvas.Object {
	var out []*canvas.Object
	for _, o := range objs {
		if o != nil && o.Backing != nil && o.Backing.Relationship != nil {
			out = append(out, o)
		}
	}
	return out
}

func (s *Session) onFollow(e *canvas.Event) {
	if s.phase == Cropping || e.Target == nil {
		return
	}
	if e.Target.Type == canvas.Selection {
		for _, child := range Followers(e.Target.Children) {
			s.UpdateMinions(child)
		}
		return
	}
	s.UpdateMinions(e.Target)
}
