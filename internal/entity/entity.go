// Package entity holds the drawable shapes of a drawing. Entities are
// immutable once built: their bound and snap vertices are computed in the
// constructor, and repositioning one means building a new one through
// Transformed.
package entity

import (
	"fmt"
	"image/color"
	"math"
	"slices"

	"github.com/irfansharif/draft/internal/geom"
)

// Kind identifies an entity variant.
type Kind int

const (
	KindLine Kind = iota
	KindRectangle
	KindSquare
	KindCircle
	KindPlane
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "Line"
	case KindRectangle:
		return "Rectangle"
	case KindSquare:
		return "Square"
	case KindCircle:
		return "Circle"
	case KindPlane:
		return "Plane"
	default:
		return "unknown"
	}
}

const DefaultWeight = 1.0

// Attrs are presentation attributes. They sit outside the geometry and may be
// changed in place.
type Attrs struct {
	Selected bool
	Weight   float64
	Color    color.RGBA
}

func defaultAttrs() Attrs {
	return Attrs{Weight: DefaultWeight, Color: color.RGBA{A: 255}}
}

// Entity is one of *Line, *Rectangle, *Square, *Circle or *Plane. The set is
// closed; Transformed and Clone switch over it exhaustively.
type Entity interface {
	Kind() Kind
	Start() geom.Point // first construction point
	End() geom.Point   // second construction point
	Bound() geom.Bound
	Vertices() []geom.Point // snap candidates, not drawing geometry
	Attributes() *Attrs
	fmt.Stringer

	sealed()
}

type base struct {
	start, end geom.Point
	bound      geom.Bound
	vertices   []geom.Point
	attrs      Attrs
}

func newBase(start, end geom.Point, vertices ...geom.Point) base {
	return base{
		start:    start,
		end:      end,
		bound:    geom.BoundOfPoints(vertices...),
		vertices: vertices,
		attrs:    defaultAttrs(),
	}
}

func (b *base) Start() geom.Point      { return b.start }
func (b *base) End() geom.Point        { return b.end }
func (b *base) Bound() geom.Bound      { return b.bound }
func (b *base) Vertices() []geom.Point { return slices.Clone(b.vertices) }
func (b *base) Attributes() *Attrs     { return &b.attrs }
func (b *base) sealed()                {}

func (b *base) cloneBase() base {
	c := *b
	c.vertices = slices.Clone(b.vertices)
	return c
}

// Line is a segment from its start to its end point.
type Line struct {
	base
	length, angle float64
}

func NewLine(p1, p2 geom.Point) *Line {
	return &Line{
		base:   newBase(p1, p2, p1, p2),
		length: p1.DistanceTo(p2),
		angle:  p1.AngleTo(p2),
	}
}

func (l *Line) Kind() Kind      { return KindLine }
func (l *Line) Length() float64 { return l.length }
func (l *Line) Angle() float64  { return l.angle }
func (l *Line) String() string  { return fmt.Sprintf("Line %v-%v", l.start, l.end) }

// Rectangle is the axis-aligned box with the two construction points as
// opposite corners.
type Rectangle struct {
	base
	width, height float64
}

func NewRectangle(c1, c2 geom.Point) *Rectangle {
	w, h := c1.Delta(c2)
	return &Rectangle{
		base:  newBase(c1, c2, rectVertices(c1, c2)...),
		width: w, height: h,
	}
}

// Width and Height are signed: they are the end corner minus the start corner.
func (r *Rectangle) Width() float64  { return r.width }
func (r *Rectangle) Height() float64 { return r.height }
func (r *Rectangle) Kind() Kind      { return KindRectangle }
func (r *Rectangle) String() string  { return fmt.Sprintf("Rectangle %v-%v", r.start, r.end) }

// Corners returns the four corners in drawing order, starting at the start
// point.
func (r *Rectangle) Corners() [4]geom.Point { return corners(r.start, r.end) }

// Square is a rectangle drawn with the square tool. Equal sides are not
// enforced here; the two corners decide the shape.
type Square struct {
	base
	width, height float64
}

func NewSquare(c1, c2 geom.Point) *Square {
	w, h := c1.Delta(c2)
	return &Square{
		base:  newBase(c1, c2, rectVertices(c1, c2)...),
		width: w, height: h,
	}
}

func (s *Square) Width() float64         { return s.width }
func (s *Square) Height() float64        { return s.height }
func (s *Square) Side() float64          { return math.Max(math.Abs(s.width), math.Abs(s.height)) }
func (s *Square) Kind() Kind             { return KindSquare }
func (s *Square) Corners() [4]geom.Point { return corners(s.start, s.end) }
func (s *Square) String() string         { return fmt.Sprintf("Square %v-%v", s.start, s.end) }

// Circle is centered on its start point and passes through (or was sized by)
// its end point.
type Circle struct {
	base
	radius float64
}

func NewCircle(center, tangent geom.Point, radius float64) *Circle {
	return &Circle{
		base: newBase(center, tangent,
			center.Translate(radius, 0), center.Translate(0, radius),
			center.Translate(-radius, 0), center.Translate(0, -radius),
		),
		radius: radius,
	}
}

// CircleThrough returns the circle centered on center passing through p.
func CircleThrough(center, p geom.Point) *Circle {
	return NewCircle(center, p, center.DistanceTo(p))
}

func (c *Circle) Center() geom.Point { return c.start }
func (c *Circle) Radius() float64    { return c.radius }
func (c *Circle) Kind() Kind         { return KindCircle }
func (c *Circle) String() string     { return fmt.Sprintf("Circle %v r=%g", c.start, c.radius) }

// Plane is the quad swept by extruding the segment p1-p2 at 45 degrees by the
// segment's own length.
type Plane struct {
	base
	outline [4]geom.Point
}

const planeExtrusionAngle = 45.0

func NewPlane(p1, p2 geom.Point) *Plane {
	dist := p1.DistanceTo(p2)
	p3 := p2.RadialMove(dist, planeExtrusionAngle)
	p4 := p1.RadialMove(dist, planeExtrusionAngle)
	return &Plane{
		base:    newBase(p1, p2, p1, p2, p3, p4),
		outline: [4]geom.Point{p1, p2, p3, p4},
	}
}

func (p *Plane) Kind() Kind             { return KindPlane }
func (p *Plane) Outline() [4]geom.Point { return p.outline }
func (p *Plane) String() string         { return fmt.Sprintf("Plane %v-%v", p.start, p.end) }

// Transformed returns a new entity of the same variant, rebuilt from the
// transformed construction points so that every derived value (length, angle,
// radius, bound) is recomputed. Presentation attributes carry over.
func Transformed(e Entity, xfm geom.Affine) Entity {
	p1, p2 := xfm.MulPoint(e.Start()), xfm.MulPoint(e.End())
	var out Entity
	switch e.(type) {
	case *Line:
		out = NewLine(p1, p2)
	case *Rectangle:
		out = NewRectangle(p1, p2)
	case *Square:
		out = NewSquare(p1, p2)
	case *Circle:
		out = CircleThrough(p1, p2)
	case *Plane:
		out = NewPlane(p1, p2)
	default:
		panic(fmt.Sprintf("entity: unknown variant %T", e))
	}
	*out.Attributes() = *e.Attributes()
	return out
}

// Clone returns an equal entity that shares no state with e.
func Clone(e Entity) Entity {
	switch v := e.(type) {
	case *Line:
		c := *v
		c.base = v.cloneBase()
		return &c
	case *Rectangle:
		c := *v
		c.base = v.cloneBase()
		return &c
	case *Square:
		c := *v
		c.base = v.cloneBase()
		return &c
	case *Circle:
		c := *v
		c.base = v.cloneBase()
		return &c
	case *Plane:
		c := *v
		c.base = v.cloneBase()
		return &c
	default:
		panic(fmt.Sprintf("entity: unknown variant %T", e))
	}
}

// Bounds returns the union of the bounds of es, or the empty bound.
func Bounds(es []Entity) geom.Bound {
	u := geom.EmptyBound()
	for _, e := range es {
		u = geom.UnionBounds(u, e.Bound())
	}
	return u
}

func rectVertices(c1, c2 geom.Point) []geom.Point {
	return []geom.Point{
		c1, c2, c1.Midpoint(c2),
		geom.MakePoint(c1.X, c2.Y), geom.MakePoint(c2.X, c1.Y),
	}
}

func corners(c1, c2 geom.Point) [4]geom.Point {
	return [4]geom.Point{c1, geom.MakePoint(c2.X, c1.Y), c2, geom.MakePoint(c1.X, c2.Y)}
}
