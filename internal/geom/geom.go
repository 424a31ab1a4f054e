// Package geom provides the 2D primitives the drafting core is built on:
// - Points rounded to two decimals, with point/vector arithmetic
// - An explicit optional point (set or unset)
// - Axis-aligned bounds with union and anchored inflation
// - 2D affine transformations (translation, rotation, scaling) and inversion
package geom

import (
	"errors"
	"fmt"
	"math"
)

// ErrSingular is returned when inverting an affine transform with a zero (or
// non-finite) determinant.
var ErrSingular = errors.New("affine transform is not invertible")

// Round applies the two-decimal rounding projection all point coordinates are
// read through.
func Round(v float64) float64 { return math.Round(v*100) / 100 }

// Point represents a 2D point or vector in world coordinates. Both coordinates
// are rounded to two decimals by every constructor and operation in this
// package, so == is value equality after rounding.
type Point struct {
	X float64
	Y float64
}

// MakePoint returns the point (x, y), rounded.
func MakePoint(x, y float64) Point { return Point{X: Round(x), Y: Round(y)} }

func (p Point) Offset(f float64) Point          { return MakePoint(p.X+f, p.Y+f) }
func (p Point) Translate(dx, dy float64) Point  { return MakePoint(p.X+dx, p.Y+dy) }
func (p Point) Add(v Point) Point               { return MakePoint(p.X+v.X, p.Y+v.Y) }
func (p Point) Sub(q Point) Point               { return MakePoint(p.X-q.X, p.Y-q.Y) }
func (p Point) Scale(f float64) Point           { return MakePoint(p.X*f, p.Y*f) }
func (p Point) String() string                  { return fmt.Sprintf("(%g, %g)", p.X, p.Y) }
func (p Point) Delta(q Point) (dx, dy float64)  { return Round(q.X - p.X), Round(q.Y - p.Y) }
func (p Point) Midpoint(q Point) Point          { return MakePoint((p.X+q.X)/2, (p.Y+q.Y)/2) }
func (p Point) RadialMove(r, deg float64) Point { return p.Translate(r*cosd(deg), r*sind(deg)) }

// AngleTo returns the direction of q as seen from p, in degrees, normalized
// into [0, 360).
func (p Point) AngleTo(q Point) float64 {
	angle := Round(math.Atan2(q.Y-p.Y, q.X-p.X) * 180 / math.Pi)
	if angle < 0 {
		angle += 360
	}
	if angle >= 360 {
		angle -= 360
	}
	return angle
}

// DistanceTo returns the rounded Euclidean distance between p and q.
func (p Point) DistanceTo(q Point) float64 {
	return Round(math.Hypot(q.X-p.X, q.Y-p.Y))
}

// NearestPoint scans candidates in order and returns the first one strictly
// closer than tolerance. It is a first-match search: a later candidate that is
// closer still is never considered.
func (p Point) NearestPoint(candidates []Point, tolerance float64) (Point, bool) {
	for _, c := range candidates {
		if p.DistanceTo(c) < tolerance {
			return c, true
		}
	}
	return Point{}, false
}

// OptPoint is a point that may be unset. The zero value is unset.
type OptPoint struct {
	p  Point
	ok bool
}

// Some returns an OptPoint holding p.
func Some(p Point) OptPoint { return OptPoint{p: p, ok: true} }

// Unset returns an OptPoint holding nothing.
func Unset() OptPoint { return OptPoint{} }

func (o OptPoint) Get() (Point, bool) { return o.p, o.ok }
func (o OptPoint) IsSet() bool        { return o.ok }
func (o *OptPoint) Set(p Point)       { o.p, o.ok = p, true }
func (o *OptPoint) Reset()            { *o = OptPoint{} }

// Or returns the held point, or def if unset.
func (o OptPoint) Or(def Point) Point {
	if !o.ok {
		return def
	}
	return o.p
}

func (o OptPoint) String() string {
	if !o.ok {
		return "(unset)"
	}
	return o.p.String()
}

// Affine represents a 2D affine transform in row-vector form:
//
//	[x' y' 1] = [x y 1] * [ M11 M12 0 ]
//	                      [ M21 M22 0 ]
//	                      [ DX  DY  1 ]
//
// so that (x', y') = (x*M11 + y*M21 + DX, x*M12 + y*M22 + DY).
type Affine struct {
	M11, M12 float64
	M21, M22 float64
	DX, DY   float64
}

func MakeAffine(m11, m12, m21, m22, dx, dy float64) Affine {
	return Affine{M11: m11, M12: m12, M21: m21, M22: m22, DX: dx, DY: dy}
}

func Identity() Affine                  { return MakeAffine(1, 0, 0, 1, 0, 0) }
func Translation(v Point) Affine        { return MakeAffine(1, 0, 0, 1, v.X, v.Y) }
func Scaling(sx, sy float64) Affine     { return MakeAffine(sx, 0, 0, sy, 0, 0) }
func (t Affine) Determinant() float64   { return t.M11*t.M22 - t.M12*t.M21 }
func (t Affine) MulPoint(p Point) Point { return MakePoint(t.Apply(p.X, p.Y)) }

// Rotation returns a counter-clockwise rotation by theta radians about the
// origin.
func Rotation(theta float64) Affine {
	sin, cos := math.Sincos(theta)
	return MakeAffine(cos, sin, -sin, cos, 0, 0)
}

// Apply maps (x, y) through the transform without rounding. Screen-space
// coordinates go through here.
func (t Affine) Apply(x, y float64) (float64, float64) {
	return x*t.M11 + y*t.M21 + t.DX, x*t.M12 + y*t.M22 + t.DY
}

// Mul composes two affine transforms: applying t.Mul(u) to a point is the same
// as applying t and then u.
func (t Affine) Mul(u Affine) Affine {
	return MakeAffine(
		t.M11*u.M11+t.M12*u.M21,
		t.M11*u.M12+t.M12*u.M22,
		t.M21*u.M11+t.M22*u.M21,
		t.M21*u.M12+t.M22*u.M22,
		t.DX*u.M11+t.DY*u.M21+u.DX,
		t.DX*u.M12+t.DY*u.M22+u.DY,
	)
}

// Inv returns the inverse of the affine transform, or ErrSingular if the
// determinant is zero or not finite.
func (t Affine) Inv() (Affine, error) {
	det := t.Determinant()
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return Affine{}, fmt.Errorf("%w (determinant %v)", ErrSingular, det)
	}
	i11, i12 := t.M22/det, -t.M12/det
	i21, i22 := -t.M21/det, t.M11/det
	return MakeAffine(
		i11, i12,
		i21, i22,
		-(t.DX*i11 + t.DY*i21),
		-(t.DX*i12 + t.DY*i22),
	), nil
}

func cosd(deg float64) float64 { return math.Cos(deg * math.Pi / 180) }
func sind(deg float64) float64 { return math.Sin(deg * math.Pi / 180) }
