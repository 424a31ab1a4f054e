package palette

import (
	"image/color"
	"testing"
)

func TestDefaultKindsAreDistinct(t *testing.T) {
	p := Default(5)
	if len(p.Kinds) != 5 {
		t.Fatalf("kinds = %d, want 5", len(p.Kinds))
	}
	seen := make(map[color.RGBA]bool)
	for i, c := range p.Kinds {
		if c.A != 255 {
			t.Errorf("kind %d is not opaque: %v", i, c)
		}
		if seen[c] {
			t.Errorf("kind %d repeats color %v", i, c)
		}
		seen[c] = true
	}
	if p.Kind(7) != p.Kinds[2] {
		t.Errorf("Kind should wrap around")
	}
	if (Palette{}).Kind(0) != (color.RGBA{A: 255}) {
		t.Errorf("empty palette should fall back to black")
	}
}

func TestBlend(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 0}
	if got := Blend(red, blue, 0); got != red {
		t.Errorf("Blend(t=0) = %v, want %v", got, red)
	}
	if got := Blend(red, blue, 1); got != blue {
		t.Errorf("Blend(t=1) = %v, want %v", got, blue)
	}
	if got := Blend(red, blue, 7); got != blue {
		t.Errorf("Blend should clamp t, got %v", got)
	}
	if got := Blend(red, blue, 0.5); got.A != 128 {
		t.Errorf("alpha = %d, want 128", got.A)
	}
}

func TestFloats(t *testing.T) {
	r, g, b, a := Floats(color.RGBA{R: 255, G: 0, B: 51, A: 255})
	if r != 1 || g != 0 || b != 0.2 || a != 1 {
		t.Errorf("Floats = %v %v %v %v", r, g, b, a)
	}
}
