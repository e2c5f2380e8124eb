package crop

import "github.com/irfansharif/cropper/internal/canvas"

// Editable is an image that can enter a crop session: either a plain image
// shown in full or one that was cropped before and carries its backing
// image.
type Editable interface {
	// Source is the object the session clones into the backing image.
	Source() *canvas.Object
	editable()
}

// Plain is an image that was never cropped.
type Plain struct {
	Image *canvas.Object
}

// Cropped is a crop window together with the full image it was cut from.
type Cropped struct {
	Window  *canvas.Object
	Backing *canvas.Object
}

func (p Plain) Source() *canvas.Object   { return p.Image }
func (c Cropped) Source() *canvas.Object { return c.Backing }

func (Plain) editable()   {}
func (Cropped) editable() {}

// EditableOf classifies o. It reports false for anything that is not an
// image.
func EditableOf(o *canvas.Object) (Editable, bool) {
	if o == nil || o.Type != canvas.Image {
		return nil, false
	}
	if o.Backing == nil {
		return Plain{Image: o}, true
	}
	return Cropped{Window: o, Backing: o.Backing}, true
}
