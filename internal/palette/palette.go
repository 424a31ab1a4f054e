// Package palette provides the display colors of a drawing: one per entity
// kind, plus the colors of selection, previews and the snapping aids. Colors
// are generated in HSV and mixed in Lab space.
package palette

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette holds every color the renderer draws with.
type Palette struct {
	Background color.RGBA
	Kinds      []color.RGBA // indexed by entity kind
	Selected   color.RGBA
	Preview    color.RGBA
	Guide      color.RGBA
	Snap       color.RGBA
	Band       color.RGBA
	Axis       color.RGBA // world X and Y axes
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

// hsb converts hue, saturation and brightness, all in the 0-100 range.
func hsb(h, s, b float64) color.RGBA {
	hue := clamp(h, 0, 100) * 3.6
	c := colorful.Hsv(hue, clamp(s/100.0, 0, 1), clamp(b/100.0, 0, 1))
	red, green, blue := c.RGB255()
	return color.RGBA{R: red, G: green, B: blue, A: 255}
}

// Default returns the palette for n entity kinds, their hues spread evenly
// around the wheel.
func Default(n int) Palette {
	p := Palette{
		Background: color.RGBA{R: 250, G: 250, B: 247, A: 255},
		Kinds:      make([]color.RGBA, n),
		Selected:   hsb(8, 85, 95), // orange-red
		Guide:      hsb(55, 40, 75),
		Snap:       hsb(30, 90, 90),
	}
	for i := range p.Kinds {
		p.Kinds[i] = hsb(math.Mod(55+float64(i)*100/float64(n), 100), 65, 55)
	}
	p.Preview = WithAlpha(Blend(p.Kind(0), p.Background, 0.4), 200)
	p.Band = WithAlpha(p.Guide, 48)
	p.Axis = Blend(color.RGBA{R: 128, G: 128, B: 128, A: 255}, p.Background, 0.5)
	return p
}

// Kind returns the color for an entity kind, wrapping around if the palette
// has fewer colors than kinds.
func (p Palette) Kind(k int) color.RGBA {
	if len(p.Kinds) == 0 {
		return color.RGBA{A: 255}
	}
	return p.Kinds[k%len(p.Kinds)]
}

// Highlight mixes c toward the selection color.
func (p Palette) Highlight(c color.RGBA) color.RGBA { return Blend(c, p.Selected, 0.75) }

// Blend mixes a and b in Lab space: t=0 gives a, t=1 gives b. Alpha is
// interpolated linearly.
func Blend(a, b color.RGBA, t float64) color.RGBA {
	t = clamp(t, 0, 1)
	ca, _ := colorful.MakeColor(opaque(a))
	cb, _ := colorful.MakeColor(opaque(b))
	red, green, blue := ca.BlendLab(cb, t).Clamped().RGB255()
	alpha := float64(a.A) + (float64(b.A)-float64(a.A))*t
	return color.RGBA{R: red, G: green, B: blue, A: uint8(alpha + 0.5)}
}

// WithAlpha returns c with its alpha replaced.
func WithAlpha(c color.RGBA, alpha uint8) color.RGBA {
	c.A = alpha
	return c
}

// Floats returns c as normalized RGBA components.
func Floats(c color.RGBA) (r, g, b, a float32) {
	return float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255
}

// opaque drops alpha so MakeColor doesn't unpremultiply.
func opaque(c color.RGBA) color.RGBA {
	c.A = 255
	return c
}
