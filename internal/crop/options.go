package crop

import "fmt"

// Options configure a crop session.
type Options struct {
	// MinWidth and MinHeight bound the crop window from below, in canvas
	// units.
	MinWidth, MinHeight float64
	// CornerWidth and CornerLength size the L-shaped corner marks drawn on
	// both objects while cropping.
	CornerWidth, CornerLength float64
	// OriginalImageOpacity is the backing image's opacity while cropping.
	OriginalImageOpacity float64
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		MinWidth:             50,
		MinHeight:            50,
		CornerWidth:          4,
		CornerLength:         10,
		OriginalImageOpacity: 0.8,
	}
}

// Validate checks that the options are usable.
func (o Options) Validate() error {
	switch {
	case o.MinWidth <= 0 || o.MinHeight <= 0:
		return fmt.Errorf("minimum crop size must be positive, got %vx%v", o.MinWidth, o.MinHeight)
	case o.CornerWidth < 0 || o.CornerLength < 0:
		return fmt.Errorf("corner marks must not be negative, got width=%v length=%v", o.CornerWidth, o.CornerLength)
	case o.OriginalImageOpacity < 0 || o.OriginalImageOpacity > 1:
		return fmt.Errorf("opacity must be within [0, 1], got %v", o.OriginalImageOpacity)
	}
	return nil
}
