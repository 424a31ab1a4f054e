// Package view maps the drawing onto the screen and resolves where a pointer
// lands in it: the world to screen projection with its fit, zoom and pan
// operations, the snap rules consulted on every pointer move, and rubber-band
// selection.
package view

import (
	"errors"
	"fmt"
	"math"

	"github.com/irfansharif/draft/internal/geom"
)

// ErrDegenerateBound is returned when asked to fit a bound that has no area
// to scale into the viewport.
var ErrDegenerateBound = errors.New("cannot fit degenerate bound")

const (
	// Margin is the total screen space (in pixels) left around a fitted bound.
	Margin = 10.0

	zoomStep      = 1.05
	toleranceFrac = 0.01 // snap tolerance as a fraction of the visible width
)

// ZoomDir is the direction of a wheel zoom.
type ZoomDir int

const (
	ZoomIn ZoomDir = iota
	ZoomOut
)

func (d ZoomDir) String() string {
	if d == ZoomIn {
		return "in"
	}
	return "out"
}

// Factor returns the inflation applied to the visible bound.
func (d ZoomDir) Factor() float64 {
	if d == ZoomIn {
		return 1 / zoomStep
	}
	return zoomStep
}

// Projection is the world to screen mapping for a fixed-size viewport. World Y
// grows upward, screen Y grows downward.
type Projection struct {
	width, height int

	fwd, inv  geom.Affine
	visible   geom.Bound
	tolerance float64
}

// NewProjection returns a projection for a width x height viewport, fitted to
// the world bound (0,0)-(width,height).
func NewProjection(width, height int) (*Projection, error) {
	p := &Projection{width: width, height: height}
	initial := geom.BoundOf(geom.MakePoint(0, 0), geom.MakePoint(float64(width), float64(height)))
	if err := p.Fit(initial); err != nil {
		return nil, err
	}
	return p, nil
}

// Fit maps b into the viewport: uniformly scaled to fit inside the margin,
// flipped vertically, with the middle of b at the middle of the screen.
func (p *Projection) Fit(b geom.Bound) error {
	if b.IsEmpty() {
		return fmt.Errorf("%w: empty", ErrDegenerateBound)
	}
	w, h := float64(p.width), float64(p.height)
	scale := math.Min((w-Margin)/b.Width(), (h-Margin)/b.Height())
	if scale <= 0 || math.IsInf(scale, 0) || math.IsNaN(scale) {
		return fmt.Errorf("%w: %gx%g in a %dx%d viewport", ErrDegenerateBound,
			b.Width(), b.Height(), p.width, p.height)
	}
	midX, midY := (b.MinX+b.MaxX)/2, (b.MinY+b.MaxY)/2
	fwd := geom.Scaling(scale, -scale).Mul(geom.MakeAffine(1, 0, 0, 1, w/2-midX*scale, h/2+midY*scale))
	return p.set(fwd)
}

// Zoom inflates the visible bound around the world point c and refits, so
// that c stays where it is on screen.
func (p *Projection) Zoom(dir ZoomDir, c geom.Point) error {
	if err := p.Fit(p.frame().Inflated(c, dir.Factor())); err != nil {
		return fmt.Errorf("zooming %s at %v: %w", dir, c, err)
	}
	return nil
}

// Pan shifts the drawing by (dx, dy) screen pixels.
func (p *Projection) Pan(dx, dy float64) error {
	return p.set(p.fwd.Mul(geom.MakeAffine(1, 0, 0, 1, dx, dy)))
}

// Resize changes the viewport size, keeping the same world region in view. On
// error the projection is left as it was.
func (p *Projection) Resize(width, height int) error {
	next := Projection{width: width, height: height}
	if err := next.Fit(p.frame()); err != nil {
		return fmt.Errorf("resizing to %dx%d: %w", width, height, err)
	}
	*p = next
	return nil
}

// Project maps a world point to unrounded screen coordinates.
func (p *Projection) Project(pt geom.Point) (x, y float64) { return p.fwd.Apply(pt.X, pt.Y) }

// Unproject maps screen coordinates back to a (rounded) world point.
func (p *Projection) Unproject(x, y float64) geom.Point { return geom.MakePoint(p.inv.Apply(x, y)) }

func (p *Projection) Forward() geom.Affine      { return p.fwd }
func (p *Projection) Inverse() geom.Affine      { return p.inv }
func (p *Projection) Visible() geom.Bound       { return p.visible }
func (p *Projection) Tolerance() float64        { return p.tolerance }
func (p *Projection) Size() (width, height int) { return p.width, p.height }

// Center is the world point under the middle of the screen.
func (p *Projection) Center() geom.Point {
	return p.Unproject(float64(p.width)/2, float64(p.height)/2)
}

// Scale is the number of screen pixels per world unit.
func (p *Projection) Scale() float64 { return math.Abs(p.fwd.M11) }

func (p *Projection) set(fwd geom.Affine) error {
	inv, err := fwd.Inv()
	if err != nil {
		return fmt.Errorf("inverting projection: %w", err)
	}
	p.fwd, p.inv = fwd, inv
	screen := geom.Bound{MinX: 0, MaxX: float64(p.width), MinY: 0, MaxY: float64(p.height)}
	p.visible = screen.Transformed(inv)
	p.tolerance = toleranceFrac * p.visible.Width()
	return nil
}

// frame is the world region inside the margin. Fitting it reproduces the
// current scale exactly, which the visible bound (margin included) would not.
func (p *Projection) frame() geom.Bound {
	half := Margin / 2
	inner := geom.Bound{
		MinX: half, MaxX: float64(p.width) - half,
		MinY: half, MaxY: float64(p.height) - half,
	}
	return inner.Transformed(p.inv)
}
