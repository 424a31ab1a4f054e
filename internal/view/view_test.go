package view

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/irfansharif/draft/internal/entity"
	"github.com/irfansharif/draft/internal/geom"
)

func pt(x, y float64) geom.Point { return geom.MakePoint(x, y) }

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func newProjection(t *testing.T) *Projection {
	t.Helper()
	p, err := NewProjection(800, 600)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestFitCentersBound(t *testing.T) {
	p := newProjection(t)
	if x, y := p.Project(pt(400, 300)); !near(x, 400) || !near(y, 300) {
		t.Errorf("mid projects to (%v, %v), want (400, 300)", x, y)
	}

	b := geom.BoundOf(pt(-10, -5), pt(30, 15))
	if err := p.Fit(b); err != nil {
		t.Fatal(err)
	}
	if x, y := p.Project(b.Mid()); !near(x, 400) || !near(y, 300) {
		t.Errorf("mid projects to (%v, %v), want (400, 300)", x, y)
	}
	// 40 wide and 20 tall: width is the constraint.
	if want := (800 - Margin) / 40; !near(p.Scale(), want) {
		t.Errorf("scale = %v, want %v", p.Scale(), want)
	}
	// World Y grows up, screen Y grows down.
	_, yLow := p.Project(pt(0, 0))
	_, yHigh := p.Project(pt(0, 10))
	if yHigh >= yLow {
		t.Errorf("projection does not flip Y: %v >= %v", yHigh, yLow)
	}
}

func TestFitDegenerate(t *testing.T) {
	p := newProjection(t)
	before := p.Forward()
	for _, b := range []geom.Bound{
		geom.EmptyBound(),
		geom.BoundOf(pt(3, 3), pt(3, 3)),
	} {
		if err := p.Fit(b); !errors.Is(err, ErrDegenerateBound) {
			t.Errorf("Fit(%+v) err = %v, want ErrDegenerateBound", b, err)
		}
	}
	if p.Forward() != before {
		t.Errorf("failed fit changed the projection")
	}

	// A flat bound still has a width to fit.
	if err := p.Fit(geom.BoundOf(pt(0, 0), pt(10, 0))); err != nil {
		t.Errorf("Fit(horizontal line) = %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	p := newProjection(t)
	if err := p.Fit(geom.BoundOf(pt(-123.45, 7), pt(88.8, 301.1))); err != nil {
		t.Fatal(err)
	}
	for _, w := range []geom.Point{pt(0, 0), pt(-123.45, 7), pt(12.34, -56.78), pt(1000, 1000), pt(0.01, 0.02)} {
		if got := p.Unproject(p.Project(w)); got != w {
			t.Errorf("Unproject(Project(%v)) = %v", w, got)
		}
	}
}

func TestZoomKeepsCursorFixed(t *testing.T) {
	p := newProjection(t)
	c := pt(100, 50)
	x0, y0 := p.Project(c)
	scale, tol := p.Scale(), p.Tolerance()

	if err := p.Zoom(ZoomIn, c); err != nil {
		t.Fatal(err)
	}
	if x, y := p.Project(c); !near(x, x0) || !near(y, y0) {
		t.Errorf("zoom in moved cursor from (%v, %v) to (%v, %v)", x0, y0, x, y)
	}
	if !near(p.Scale(), scale*1.05) {
		t.Errorf("scale after zoom in = %v, want %v", p.Scale(), scale*1.05)
	}
	if p.Tolerance() >= tol {
		t.Errorf("tolerance did not shrink on zoom in: %v >= %v", p.Tolerance(), tol)
	}

	if err := p.Zoom(ZoomOut, c); err != nil {
		t.Fatal(err)
	}
	if x, y := p.Project(c); !near(x, x0) || !near(y, y0) {
		t.Errorf("zoom out moved cursor to (%v, %v)", x, y)
	}
	if !near(p.Scale(), scale) {
		t.Errorf("scale after zooming back = %v, want %v", p.Scale(), scale)
	}
}

func TestTolerance(t *testing.T) {
	p := newProjection(t)
	if want := 0.01 * p.Visible().Width(); p.Tolerance() != want {
		t.Errorf("tolerance = %v, want %v", p.Tolerance(), want)
	}
	// The visible bound covers the whole screen, margin included.
	if v := p.Visible(); !near(v.Width(), 800/p.Scale()) || !near(v.Height(), 600/p.Scale()) {
		t.Errorf("visible = %+v", v)
	}
}

func TestPan(t *testing.T) {
	p := newProjection(t)
	x0, y0 := p.Project(pt(1, 1))
	if err := p.Pan(10, -4); err != nil {
		t.Fatal(err)
	}
	if x, y := p.Project(pt(1, 1)); !near(x, x0+10) || !near(y, y0-4) {
		t.Errorf("after pan (%v, %v), want (%v, %v)", x, y, x0+10, y0-4)
	}
}

func TestResizeKeepsCenter(t *testing.T) {
	p := newProjection(t)
	c := p.Center()
	if err := p.Resize(1024, 768); err != nil {
		t.Fatal(err)
	}
	if w, h := p.Size(); w != 1024 || h != 768 {
		t.Errorf("size = %dx%d", w, h)
	}
	if got := p.Center(); got != c {
		t.Errorf("center = %v, want %v", got, c)
	}
}

func TestResizeFailureKeepsProjection(t *testing.T) {
	p := newProjection(t)
	fwd, vis, tol := p.Forward(), p.Visible(), p.Tolerance()

	// Narrower than the margin: nothing fits.
	if err := p.Resize(8, 600); !errors.Is(err, ErrDegenerateBound) {
		t.Fatalf("Resize(8, 600) err = %v, want ErrDegenerateBound", err)
	}
	if w, h := p.Size(); w != 800 || h != 600 {
		t.Errorf("size after failed resize = %dx%d, want 800x600", w, h)
	}
	if p.Forward() != fwd || p.Visible() != vis || p.Tolerance() != tol {
		t.Errorf("projection changed by a failed resize")
	}

	// The next resize starts from the intact projection.
	c := p.Center()
	if err := p.Resize(800, 600); err != nil {
		t.Fatalf("Resize(800, 600) after failure: %v", err)
	}
	if got := p.Center(); got != c {
		t.Errorf("center = %v, want %v", got, c)
	}
	if !near(p.Scale(), math.Abs(fwd.M11)) {
		t.Errorf("scale = %v, want %v", p.Scale(), math.Abs(fwd.M11))
	}
}

func TestSnapRules(t *testing.T) {
	line := entity.NewLine(pt(0, 0), pt(10, 0.5))
	vis := geom.BoundOf(pt(-100, -100), pt(100, 100))
	for _, tc := range []struct {
		name   string
		cursor geom.Point
		anchor geom.OptPoint
		center geom.Point
		want   geom.OptPoint
		rule   string
		guides int
	}{
		{name: "nothing", cursor: pt(5, 5), center: pt(50, 50)},
		{name: "vertex", cursor: pt(0.3, 0.2), center: pt(50, 50), want: geom.Some(pt(0, 0)), rule: RuleVertex},
		{name: "center", cursor: pt(49.5, 50), center: pt(50, 50), want: geom.Some(pt(50, 50)), rule: RuleCenter},
		{
			name: "vertex suppresses center", cursor: pt(0.3, 0.2), center: pt(0.5, 0),
			want: geom.Some(pt(0, 0)), rule: RuleVertex,
		},
		{
			// The vertex (10, 0.5) is in reach, but the ortho lock is
			// evaluated later and wins.
			name: "horizontal overrides vertex", cursor: pt(10.2, 0.3), anchor: geom.Some(pt(0, 0)),
			center: pt(50, 50), want: geom.Some(pt(10.2, 0)), rule: RuleHorizontal, guides: 1,
		},
		{
			name: "horizontal near 360", cursor: pt(20, -0.2), anchor: geom.Some(pt(0, 0)),
			center: pt(50, 50), want: geom.Some(pt(20, 0)), rule: RuleHorizontal, guides: 1,
		},
		{
			name: "horizontal near 180", cursor: pt(-20, 0.3), anchor: geom.Some(pt(0, 0)),
			center: pt(50, 50), want: geom.Some(pt(-20, 0)), rule: RuleHorizontal, guides: 1,
		},
		{
			name: "vertical", cursor: pt(0.1, 5), anchor: geom.Some(pt(0, 0)),
			center: pt(50, 50), want: geom.Some(pt(0, 5)), rule: RuleVertical, guides: 1,
		},
		{
			name: "vertical near 270", cursor: pt(30.1, -25), anchor: geom.Some(pt(30, 0)),
			center: pt(50, 50), want: geom.Some(pt(30, -25)), rule: RuleVertical, guides: 1,
		},
		{name: "diagonal", cursor: pt(5, 5), anchor: geom.Some(pt(0, 0)), center: pt(50, 50)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSnapper().Resolve(Query{
				Cursor:    tc.cursor,
				Anchor:    tc.anchor,
				Entities:  []entity.Entity{line},
				Center:    tc.center,
				Visible:   vis,
				Tolerance: 1,
			})
			if s.Point != tc.want || s.Rule != tc.rule || len(s.Guides) != tc.guides {
				t.Errorf("got %v by %q with %d guides, want %v by %q with %d guides",
					s.Point, s.Rule, len(s.Guides), tc.want, tc.rule, tc.guides)
			}
			if !s.Point.IsSet() && s.At(tc.cursor) != tc.cursor {
				t.Errorf("unsnapped At() = %v, want the cursor", s.At(tc.cursor))
			}
		})
	}
}

func TestSnapGuideSpansView(t *testing.T) {
	vis := geom.BoundOf(pt(-100, -50), pt(100, 50))
	s := NewSnapper().Resolve(Query{
		Cursor: pt(0.1, 20), Anchor: geom.Some(pt(0, 0)), Visible: vis, Center: pt(99, 99), Tolerance: 1,
	})
	if len(s.Guides) != 1 {
		t.Fatalf("guides = %v", s.Guides)
	}
	if g := s.Guides[0]; g.From != pt(0, -50) || g.To != pt(0, 50) || g.Rule != RuleVertical {
		t.Errorf("guide = %+v", g)
	}
}

func TestVertexSnapIsFirstMatch(t *testing.T) {
	a := entity.NewLine(pt(0, 0), pt(5, 5))
	b := entity.NewLine(pt(0.1, 0.1), pt(5, 5))
	q := Query{Cursor: pt(0.09, 0.09), Center: pt(50, 50), Tolerance: 1}

	q.Entities = []entity.Entity{a, b}
	if got := NewSnapper().Resolve(q).Point; got != geom.Some(pt(0, 0)) {
		t.Errorf("snap = %v, want (0, 0) from the first entity", got)
	}
	q.Entities = []entity.Entity{b, a}
	if got := NewSnapper().Resolve(q).Point; got != geom.Some(pt(0.1, 0.1)) {
		t.Errorf("snap = %v, want (0.1, 0.1) from the first entity", got)
	}
}

func TestCustomRuleOrder(t *testing.T) {
	// With the ortho lock first, the vertex rule gets the last word.
	s := NewSnapperWithRules(DefaultRules[2], DefaultRules[0]).Resolve(Query{
		Cursor:    pt(10.2, 0.3),
		Anchor:    geom.Some(pt(0, 0)),
		Entities:  []entity.Entity{entity.NewLine(pt(0, 0), pt(10, 0.5))},
		Tolerance: 1,
	})
	if s.Rule != RuleVertex || s.Point != geom.Some(pt(10, 0.5)) {
		t.Errorf("got %v by %q", s.Point, s.Rule)
	}
	if len(s.Guides) != 1 {
		t.Errorf("the horizontal guide should still be reported: %v", s.Guides)
	}
}

func TestAlignmentRules(t *testing.T) {
	line := entity.NewLine(pt(10, 10), pt(30, 40))
	rules := append(slices.Clone(DefaultRules), AlignmentRules...)
	for _, tc := range []struct {
		name   string
		cursor geom.Point
		anchor geom.OptPoint
		want   geom.OptPoint
		rule   string
		guides int
	}{
		{name: "nothing", cursor: pt(5, 5)},
		{name: "x axis", cursor: pt(5, 0.4), want: geom.Some(pt(5, 0)), rule: RuleAxisX, guides: 1},
		{name: "y axis", cursor: pt(-0.3, 7), want: geom.Some(pt(0, 7)), rule: RuleAxisY, guides: 1},
		{name: "origin", cursor: pt(0.2, -0.3), want: geom.Some(pt(0, 0)), rule: RuleAxisY, guides: 2},
		{name: "in line with a vertex", cursor: pt(10.4, 25), want: geom.Some(pt(10, 25)), rule: RuleAlignX, guides: 1},
		{
			// X lines up with (30, 40), Y with (10, 10).
			name: "in line with two vertices", cursor: pt(30.5, 10.6),
			want: geom.Some(pt(30, 10)), rule: RuleAlignY, guides: 2,
		},
		{name: "vertex left alone", cursor: pt(10.3, 10.2), want: geom.Some(pt(10, 10)), rule: RuleVertex},
		{
			name: "after the ortho lock", cursor: pt(10.5, 20.3), anchor: geom.Some(pt(0, 20)),
			want: geom.Some(pt(10, 20)), rule: RuleAlignX, guides: 2,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSnapperWithRules(rules...).Resolve(Query{
				Cursor:    tc.cursor,
				Anchor:    tc.anchor,
				Entities:  []entity.Entity{line},
				Center:    pt(500, 500),
				Visible:   geom.BoundOf(pt(-100, -100), pt(100, 100)),
				Tolerance: 1,
			})
			if s.Point != tc.want || s.Rule != tc.rule || len(s.Guides) != tc.guides {
				t.Errorf("got %v by %q with %d guides, want %v by %q with %d guides",
					s.Point, s.Rule, len(s.Guides), tc.want, tc.rule, tc.guides)
			}
		})
	}
}

func TestAlignmentGuides(t *testing.T) {
	q := Query{
		Cursor:    pt(10.4, 25),
		Entities:  []entity.Entity{entity.NewLine(pt(10, 10), pt(30, 40))},
		Center:    pt(500, 500),
		Visible:   geom.BoundOf(pt(-100, -50), pt(100, 50)),
		Tolerance: 1,
	}
	s := NewSnapperWithRules(AlignmentRules...).Resolve(q)
	if len(s.Guides) != 1 {
		t.Fatalf("guides = %v", s.Guides)
	}
	if g := s.Guides[0]; g.From != pt(10, -50) || g.To != pt(10, 50) || g.Rule != RuleAlignX {
		t.Errorf("guide = %+v", g)
	}

	// The default rules know nothing about alignment.
	q.Cursor = pt(5, 0.4)
	if got := NewSnapper().Resolve(q).Point; got.IsSet() {
		t.Errorf("default snapper snapped to %v", got)
	}
}

func TestRubberBand(t *testing.T) {
	a := entity.NewRectangle(pt(0, 0), pt(1, 1))
	b := entity.NewRectangle(pt(2, 2), pt(3, 3))
	es := []entity.Entity{a, b}

	if got := (RubberBand{From: pt(-1, -1), To: pt(4, 4)}).Enclosed(es); len(got) != 2 {
		t.Errorf("wide band selected %v, want both", got)
	}
	if got := (RubberBand{From: pt(0.5, 0.5), To: pt(1.5, 1.5)}).Enclosed(es); len(got) != 0 {
		t.Errorf("partial band selected %v, want none", got)
	}
	// Dragging right to left gives the same band.
	if got := (RubberBand{From: pt(1.5, 1.5), To: pt(-0.5, -0.5)}).Enclosed(es); len(got) != 1 || got[0] != a {
		t.Errorf("reverse band selected %v, want the first", got)
	}
	// Touching the edge is not inside.
	if got := (RubberBand{From: pt(0, 0), To: pt(1, 1)}).Enclosed(es); len(got) != 0 {
		t.Errorf("touching band selected %v", got)
	}
}
