package geom

import "math"

// Bound represents an axis-aligned box in world coordinates.
type Bound struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// EmptyBound returns the empty box. Its min is +Inf and its max is -Inf, which
// makes it the identity for union.
func EmptyBound() Bound {
	return Bound{
		MinX: math.Inf(1), MaxX: math.Inf(-1),
		MinY: math.Inf(1), MaxY: math.Inf(-1),
	}
}

// BoundOf returns the box spanned by two corners, in any order.
func BoundOf(p1, p2 Point) Bound {
	return Bound{
		MinX: math.Min(p1.X, p2.X), MaxX: math.Max(p1.X, p2.X),
		MinY: math.Min(p1.Y, p2.Y), MaxY: math.Max(p1.Y, p2.Y),
	}
}

// BoundOfPoints returns the smallest box containing every point. It panics if
// pts is empty.
func BoundOfPoints(pts ...Point) Bound {
	if len(pts) == 0 {
		panic("geom: BoundOfPoints called with no points")
	}
	b := EmptyBound()
	for _, p := range pts {
		b.MinX, b.MaxX = math.Min(b.MinX, p.X), math.Max(b.MaxX, p.X)
		b.MinY, b.MaxY = math.Min(b.MinY, p.Y), math.Max(b.MaxY, p.Y)
	}
	return b
}

// UnionBounds returns the smallest box containing every bound. It panics if bs
// is empty.
func UnionBounds(bs ...Bound) Bound {
	if len(bs) == 0 {
		panic("geom: UnionBounds called with no bounds")
	}
	u := EmptyBound()
	for _, b := range bs {
		u.MinX, u.MaxX = math.Min(u.MinX, b.MinX), math.Max(u.MaxX, b.MaxX)
		u.MinY, u.MaxY = math.Min(u.MinY, b.MinY), math.Max(u.MaxY, b.MaxY)
	}
	return u
}

func (b Bound) Width() float64  { return b.MaxX - b.MinX }
func (b Bound) Height() float64 { return b.MaxY - b.MinY }
func (b Bound) Mid() Point      { return MakePoint((b.MinX+b.MaxX)/2, (b.MinY+b.MaxY)/2) }
func (b Bound) IsEmpty() bool   { return b.MinX > b.MaxX || b.MinY > b.MaxY }

// IsInside reports whether b lies strictly inside other. A box touching any
// edge of other is not inside it.
func (b Bound) IsInside(other Bound) bool {
	return b.MinX > other.MinX && b.MaxX < other.MaxX &&
		b.MinY > other.MinY && b.MaxY < other.MaxY
}

// Inflated scales each of the four half-extents by factor, measured from
// anchor rather than from the box center. A point at anchor keeps its relative
// position in the box, which is what keeps the cursor still while zooming.
func (b Bound) Inflated(anchor Point, factor float64) Bound {
	if b.IsEmpty() || factor == 1 {
		return b
	}
	return Bound{
		MinX: anchor.X - (anchor.X-b.MinX)*factor,
		MaxX: anchor.X + (b.MaxX-anchor.X)*factor,
		MinY: anchor.Y - (anchor.Y-b.MinY)*factor,
		MaxY: anchor.Y + (b.MaxY-anchor.Y)*factor,
	}
}

// Transformed maps the four corners through t and returns their bound. The
// corners are not rounded.
func (b Bound) Transformed(t Affine) Bound {
	if b.IsEmpty() {
		return b
	}
	out := EmptyBound()
	for _, c := range [4][2]float64{
		{b.MinX, b.MinY}, {b.MaxX, b.MinY},
		{b.MinX, b.MaxY}, {b.MaxX, b.MaxY},
	} {
		x, y := t.Apply(c[0], c[1])
		out.MinX, out.MaxX = math.Min(out.MinX, x), math.Max(out.MaxX, x)
		out.MinY, out.MaxY = math.Min(out.MinY, y), math.Max(out.MaxY, y)
	}
	return out
}
