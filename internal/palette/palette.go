// Package palette provides the colors the renderer uses: a procedural
// pattern palette per image, and the theme for overlays and decorations.
package palette

import (
	"image/color"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette holds five RGBA colors.
type Palette [5]color.RGBA

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func rgba(c colorful.Color, alpha uint8) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: alpha}
}

func toColorful(c color.RGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// ForImage returns the pattern palette of the image generated from seed.
// The colors share a base hue and step through analogous hues from dark to
// light in HCL, so neighboring pattern cells stay distinguishable.
func ForImage(seed int64) Palette {
	r := rand.New(rand.NewSource(seed))
	hue := r.Float64() * 360
	chroma := 0.15 + r.Float64()*0.2

	var p Palette
	for i := range p {
		h := hue + float64(i)*(20+r.Float64()*20)
		l := 0.3 + float64(i)*0.14
		p[i] = rgba(colorful.Hcl(h, chroma, clamp(l, 0, 1)), 255)
	}
	return p
}

// Cell returns the color of pattern cell (col, row): a blend of two palette
// entries, so that the pattern reads as a gradient with some texture.
func (p Palette) Cell(col, row int) color.RGBA {
	i := ((col+row)%len(p) + len(p)) % len(p)
	j := (i + 1) % len(p)
	t := 0.25
	if (col^row)&1 == 1 {
		t = 0.6
	}
	return rgba(toColorful(p[i]).BlendLab(toColorful(p[j]), t), 255)
}

// Theme holds the colors of everything drawn over the images.
type Theme struct {
	Background color.RGBA
	Mask       color.RGBA // dims the backing image outside the crop window
	Corner     color.RGBA // corner marks while cropping
	Outline    color.RGBA // the active object's outline
	Rect       color.RGBA // fill of plain rectangles
}

// DefaultTheme returns the theme the demo uses.
func DefaultTheme() Theme {
	return Theme{
		Background: rgba(colorful.Hcl(90, 0.02, 0.96), 255),
		Mask:       rgba(colorful.Hcl(0, 0, 0.1), 110),
		Corner:     rgba(colorful.Hcl(0, 0, 1), 255),
		Outline:    rgba(colorful.Hcl(250, 0.5, 0.55), 255),
		Rect:       rgba(colorful.Hcl(30, 0.3, 0.7), 255),
	}
}

// WithOpacity scales c's alpha by opacity.
func WithOpacity(c color.RGBA, opacity float64) color.RGBA {
	c.A = uint8(clamp(float64(c.A)*opacity, 0, 255) + 0.5)
	return c
}

// Floats returns c as normalized r, g, b, a components.
func Floats(c color.RGBA) [4]float32 {
	return [4]float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255}
}
