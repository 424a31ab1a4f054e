package view

import (
	"io"
	"log"
	"math"
	"os"

	"github.com/irfansharif/draft/internal/entity"
	"github.com/irfansharif/draft/internal/geom"
)

var snapLogger *log.Logger = log.New(io.Discard, "", 0)

func init() {
	if os.Getenv("DRAFT_DEBUG_SNAP") == "1" {
		snapLogger = log.New(os.Stdout, "[snap] ", log.Ltime|log.Lmsgprefix)
	}
}

// orthoWindow is how far (in degrees) from an axis the anchor to cursor
// direction may be for the ortho lock to engage.
const orthoWindow = 2.0

// Guide is a construction line shown while a snap rule is active.
type Guide struct {
	From, To geom.Point
	Rule     string
}

// Query is everything a snap decision looks at.
type Query struct {
	Cursor    geom.Point    // raw pointer position in world space
	Anchor    geom.OptPoint // start point of the construction in progress
	Entities  []entity.Entity
	Center    geom.Point // world point at the middle of the viewport
	Visible   geom.Bound
	Tolerance float64
}

// QueryAt builds a query for cursor against the current projection.
func QueryAt(p *Projection, cursor geom.Point, anchor geom.OptPoint, es []entity.Entity) Query {
	return Query{
		Cursor:    cursor,
		Anchor:    anchor,
		Entities:  es,
		Center:    p.Center(),
		Visible:   p.Visible(),
		Tolerance: p.Tolerance(),
	}
}

// Snap is the outcome of resolving a query. Point is unset when no rule
// matched; Rule names the rule that set it.
type Snap struct {
	Point  geom.OptPoint
	Guides []Guide
	Rule   string
}

// At returns the snapped point, or the cursor when nothing matched.
func (s Snap) At(cursor geom.Point) geom.Point { return s.Point.Or(cursor) }

// Rule is one snap check. Match sees the snap built by the rules before it.
type Rule struct {
	Name  string
	Match func(q Query, sofar Snap) (p geom.Point, guide *Guide, ok bool)
}

// Rule names.
const (
	RuleVertex     = "vertex"
	RuleCenter     = "center"
	RuleHorizontal = "horizontal"
	RuleVertical   = "vertical"
)

// DefaultRules are evaluated in order, and every matching rule overwrites the
// point set by the ones before it: the last match wins. The ortho locks come
// last so a straight construction line takes priority over a nearby vertex.
var DefaultRules = []Rule{
	{Name: RuleVertex, Match: matchVertex},
	{Name: RuleCenter, Match: matchCenter},
	{Name: RuleHorizontal, Match: matchHorizontal},
	{Name: RuleVertical, Match: matchVertical},
}

// Alignment rule names.
const (
	RuleAxisX  = "x-axis"  // cursor near the line Y=0
	RuleAxisY  = "y-axis"  // cursor near the line X=0
	RuleAlignX = "align-x" // cursor in line with a vertex, vertically
	RuleAlignY = "align-y" // cursor in line with a vertex, horizontally
)

// AlignmentRules snap to the world axes and line the cursor up with entity
// vertices. They are not part of DefaultRules; appended after them they adjust
// whatever point the default rules settled on, one coordinate at a time.
var AlignmentRules = []Rule{
	{Name: RuleAxisX, Match: matchAxisX},
	{Name: RuleAxisY, Match: matchAxisY},
	{Name: RuleAlignX, Match: matchAlignX},
	{Name: RuleAlignY, Match: matchAlignY},
}

// Snapper resolves pointer positions against an ordered rule list.
type Snapper struct {
	rules []Rule
}

func NewSnapper() *Snapper { return &Snapper{rules: DefaultRules} }

// NewSnapperWithRules returns a snapper evaluating rules in the given order.
func NewSnapperWithRules(rules ...Rule) *Snapper { return &Snapper{rules: rules} }

// Resolve runs every rule against q.
func (s *Snapper) Resolve(q Query) Snap {
	var out Snap
	for _, r := range s.rules {
		p, guide, ok := r.Match(q, out)
		if !ok {
			continue
		}
		if out.Point.IsSet() {
			snapLogger.Printf("%s overrides %s: %v -> %v", r.Name, out.Rule, out.Point, p)
		}
		out.Point.Set(p)
		out.Rule = r.Name
		if guide != nil {
			out.Guides = append(out.Guides, *guide)
		}
	}
	return out
}

func matchVertex(q Query, _ Snap) (geom.Point, *Guide, bool) {
	for _, e := range q.Entities {
		if p, ok := q.Cursor.NearestPoint(e.Vertices(), q.Tolerance); ok {
			return p, nil, true
		}
	}
	return geom.Point{}, nil, false
}

func matchCenter(q Query, sofar Snap) (geom.Point, *Guide, bool) {
	if sofar.Point.IsSet() {
		return geom.Point{}, nil, false
	}
	if q.Cursor.DistanceTo(q.Center) < q.Tolerance {
		return q.Center, nil, true
	}
	return geom.Point{}, nil, false
}

func matchHorizontal(q Query, _ Snap) (geom.Point, *Guide, bool) {
	anchor, ok := q.Anchor.Get()
	if !ok || !nearAxis(anchor.AngleTo(q.Cursor), 0, 180, 360) {
		return geom.Point{}, nil, false
	}
	g := &Guide{
		From: geom.MakePoint(q.Visible.MinX, anchor.Y),
		To:   geom.MakePoint(q.Visible.MaxX, anchor.Y),
		Rule: RuleHorizontal,
	}
	return geom.MakePoint(q.Cursor.X, anchor.Y), g, true
}

func matchVertical(q Query, _ Snap) (geom.Point, *Guide, bool) {
	anchor, ok := q.Anchor.Get()
	if !ok || !nearAxis(anchor.AngleTo(q.Cursor), 90, 270) {
		return geom.Point{}, nil, false
	}
	g := &Guide{
		From: geom.MakePoint(anchor.X, q.Visible.MinY),
		To:   geom.MakePoint(anchor.X, q.Visible.MaxY),
		Rule: RuleVertical,
	}
	return geom.MakePoint(anchor.X, q.Cursor.Y), g, true
}

func nearAxis(angle float64, axes ...float64) bool {
	for _, a := range axes {
		if angle > a-orthoWindow && angle < a+orthoWindow {
			return true
		}
	}
	return false
}

func horizontalGuide(q Query, y float64, rule string) *Guide {
	return &Guide{From: geom.MakePoint(q.Visible.MinX, y), To: geom.MakePoint(q.Visible.MaxX, y), Rule: rule}
}

func verticalGuide(q Query, x float64, rule string) *Guide {
	return &Guide{From: geom.MakePoint(x, q.Visible.MinY), To: geom.MakePoint(x, q.Visible.MaxY), Rule: rule}
}

func matchAxisX(q Query, sofar Snap) (geom.Point, *Guide, bool) {
	if math.Abs(q.Cursor.Y) >= q.Tolerance {
		return geom.Point{}, nil, false
	}
	return geom.MakePoint(sofar.At(q.Cursor).X, 0), horizontalGuide(q, 0, RuleAxisX), true
}

func matchAxisY(q Query, sofar Snap) (geom.Point, *Guide, bool) {
	if math.Abs(q.Cursor.X) >= q.Tolerance {
		return geom.Point{}, nil, false
	}
	return geom.MakePoint(0, sofar.At(q.Cursor).Y), verticalGuide(q, 0, RuleAxisY), true
}

// matchAlignX moves the point onto a vertex's X. A vertex snap is already in
// line with itself and is left alone; so is its Y counterpart.
func matchAlignX(q Query, sofar Snap) (geom.Point, *Guide, bool) {
	if sofar.Rule == RuleVertex {
		return geom.Point{}, nil, false
	}
	v, ok := alignedVertex(q, func(v geom.Point) float64 { return v.X - q.Cursor.X })
	if !ok {
		return geom.Point{}, nil, false
	}
	return geom.MakePoint(v.X, sofar.At(q.Cursor).Y), verticalGuide(q, v.X, RuleAlignX), true
}

func matchAlignY(q Query, sofar Snap) (geom.Point, *Guide, bool) {
	if sofar.Rule == RuleVertex {
		return geom.Point{}, nil, false
	}
	v, ok := alignedVertex(q, func(v geom.Point) float64 { return v.Y - q.Cursor.Y })
	if !ok {
		return geom.Point{}, nil, false
	}
	return geom.MakePoint(sofar.At(q.Cursor).X, v.Y), horizontalGuide(q, v.Y, RuleAlignY), true
}

// alignedVertex returns the first entity vertex whose offset from the cursor
// along one axis is within tolerance.
func alignedVertex(q Query, offset func(geom.Point) float64) (geom.Point, bool) {
	for _, e := range q.Entities {
		for _, v := range e.Vertices() {
			if math.Abs(offset(v)) < q.Tolerance {
				return v, true
			}
		}
	}
	return geom.Point{}, false
}
