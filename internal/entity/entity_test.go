package entity

import (
	"image/color"
	"math"
	"reflect"
	"testing"

	"github.com/irfansharif/draft/internal/geom"
)

func pt(x, y float64) geom.Point { return geom.MakePoint(x, y) }

func TestLine(t *testing.T) {
	l := NewLine(pt(0, 0), pt(10, 0))
	if l.Length() != 10 || l.Angle() != 0 {
		t.Errorf("length, angle = %v, %v; want 10, 0", l.Length(), l.Angle())
	}
	if !reflect.DeepEqual(l.Vertices(), []geom.Point{pt(0, 0), pt(10, 0)}) {
		t.Errorf("vertices = %v", l.Vertices())
	}
	want := geom.Bound{MinX: 0, MaxX: 10, MinY: 0, MaxY: 0}
	if l.Bound() != want {
		t.Errorf("bound = %+v, want %+v", l.Bound(), want)
	}
}

func TestRectangle(t *testing.T) {
	r := NewRectangle(pt(0, 0), pt(5, 3))
	if r.Width() != 5 || r.Height() != 3 {
		t.Errorf("width, height = %v, %v; want 5, 3", r.Width(), r.Height())
	}
	want := []geom.Point{pt(0, 0), pt(5, 3), pt(2.5, 1.5), pt(0, 3), pt(5, 0)}
	if !reflect.DeepEqual(r.Vertices(), want) {
		t.Errorf("vertices = %v, want %v", r.Vertices(), want)
	}
	if r.Bound() != (geom.Bound{MinX: 0, MaxX: 5, MinY: 0, MaxY: 3}) {
		t.Errorf("bound = %+v", r.Bound())
	}

	// Dragged the other way the sizes are negative but the bound is the same.
	r = NewRectangle(pt(5, 3), pt(0, 0))
	if r.Width() != -5 || r.Height() != -3 {
		t.Errorf("width, height = %v, %v; want -5, -3", r.Width(), r.Height())
	}
	if r.Bound() != (geom.Bound{MinX: 0, MaxX: 5, MinY: 0, MaxY: 3}) {
		t.Errorf("bound = %+v", r.Bound())
	}
}

func TestSquareIsNotConstrained(t *testing.T) {
	s := NewSquare(pt(0, 0), pt(4, 2))
	if s.Width() != 4 || s.Height() != 2 {
		t.Errorf("width, height = %v, %v; want 4, 2", s.Width(), s.Height())
	}
	if s.Side() != 4 {
		t.Errorf("side = %v, want 4", s.Side())
	}
}

func TestCircle(t *testing.T) {
	c := CircleThrough(pt(0, 0), pt(3, 4))
	if c.Radius() != 5 || c.Center() != pt(0, 0) {
		t.Errorf("radius, center = %v, %v; want 5, (0, 0)", c.Radius(), c.Center())
	}
	want := []geom.Point{pt(5, 0), pt(0, 5), pt(-5, 0), pt(0, -5)}
	if !reflect.DeepEqual(c.Vertices(), want) {
		t.Errorf("vertices = %v, want %v", c.Vertices(), want)
	}
	if c.Bound() != (geom.Bound{MinX: -5, MaxX: 5, MinY: -5, MaxY: 5}) {
		t.Errorf("bound = %+v", c.Bound())
	}
}

func TestPlane(t *testing.T) {
	p := NewPlane(pt(0, 0), pt(10, 0))
	d := 10 / math.Sqrt2
	want := []geom.Point{pt(0, 0), pt(10, 0), pt(10+d, d), pt(d, d)}
	if !reflect.DeepEqual(p.Vertices(), want) {
		t.Errorf("vertices = %v, want %v", p.Vertices(), want)
	}
	if p.Outline() != [4]geom.Point{want[0], want[1], want[2], want[3]} {
		t.Errorf("outline = %v", p.Outline())
	}
}

func TestVerticesAreCopies(t *testing.T) {
	l := NewLine(pt(0, 0), pt(1, 1))
	v := l.Vertices()
	v[0] = pt(99, 99)
	if l.Vertices()[0] != pt(0, 0) {
		t.Errorf("mutating returned vertices changed the entity")
	}
}

func TestTransformedRecomputesDerivedValues(t *testing.T) {
	rot := geom.Rotation(math.Pi / 2)
	l := NewLine(pt(0, 0), pt(10, 0))
	l.Attributes().Color = color.RGBA{R: 200, A: 255}

	got, ok := Transformed(l, rot).(*Line)
	if !ok {
		t.Fatalf("Transformed changed the variant")
	}
	if got.Length() != 10 || got.Angle() != 90 {
		t.Errorf("rotated line length, angle = %v, %v; want 10, 90", got.Length(), got.Angle())
	}
	if got.Attributes().Color != l.Attributes().Color {
		t.Errorf("attributes not carried over")
	}
	if l.Angle() != 0 || l.End() != pt(10, 0) {
		t.Errorf("original mutated: %v", l)
	}

	c := CircleThrough(pt(1, 1), pt(2, 1))
	sc, ok := Transformed(c, geom.Scaling(3, 1)).(*Circle)
	if !ok {
		t.Fatalf("Transformed changed the variant")
	}
	if sc.Center() != pt(3, 1) || sc.Radius() != 3 {
		t.Errorf("scaled circle = %v r=%v; want (3, 1) r=3", sc.Center(), sc.Radius())
	}
	if sc.Bound() != (geom.Bound{MinX: 0, MaxX: 6, MinY: -2, MaxY: 4}) {
		t.Errorf("scaled circle bound = %+v", sc.Bound())
	}

	r := NewRectangle(pt(0, 0), pt(2, 1))
	mv := Transformed(r, geom.Translation(pt(5, 5))).(*Rectangle)
	if mv.Width() != 2 || mv.Height() != 1 || mv.Start() != pt(5, 5) {
		t.Errorf("translated rectangle = %v w=%v h=%v", mv, mv.Width(), mv.Height())
	}
}

func TestClone(t *testing.T) {
	for _, e := range []Entity{
		NewLine(pt(0, 0), pt(1, 2)),
		NewRectangle(pt(0, 0), pt(1, 2)),
		NewSquare(pt(0, 0), pt(2, 2)),
		CircleThrough(pt(0, 0), pt(1, 0)),
		NewPlane(pt(0, 0), pt(1, 0)),
	} {
		c := Clone(e)
		if c == e {
			t.Errorf("%v: clone is the same pointer", e)
		}
		if !reflect.DeepEqual(c, e) {
			t.Errorf("%v: clone differs: %v", e, c)
		}
		c.Attributes().Selected = true
		if e.Attributes().Selected {
			t.Errorf("%v: clone shares attributes", e)
		}
	}
}

func TestBounds(t *testing.T) {
	if !Bounds(nil).IsEmpty() {
		t.Errorf("bounds of nothing should be empty")
	}
	got := Bounds([]Entity{NewLine(pt(0, 0), pt(1, 1)), CircleThrough(pt(5, 5), pt(6, 5))})
	if got != (geom.Bound{MinX: 0, MaxX: 6, MinY: 0, MaxY: 6}) {
		t.Errorf("bounds = %+v", got)
	}
}
