package render

import (
	"image/color"
	"math"

	"github.com/irfansharif/draft/internal/app"
	"github.com/irfansharif/draft/internal/entity"
	"github.com/irfansharif/draft/internal/geom"
	"github.com/irfansharif/draft/internal/palette"
	"github.com/irfansharif/draft/internal/view"
)

// floatsPerVertex is the vertex layout shared with the shaders: position
// (x, y) followed by color (r, g, b, a).
const floatsPerVertex = 6

// Sizes in screen pixels.
const (
	strokePx       = 1.5
	guidePx        = 1.0
	markerPx       = 7.0
	circleStepPx   = 4.0 // target length of one circle segment
	minCircleSteps = 16
	maxCircleSteps = 256
	planeFillAlpha = 56
)

// Mesh is a triangle list in world coordinates.
type Mesh struct {
	Vertices []float32
}

// Len returns the number of vertices.
func (m *Mesh) Len() int { return len(m.Vertices) / floatsPerVertex }

func (m *Mesh) vertex(p geom.Point, c color.RGBA) {
	r, g, b, a := palette.Floats(c)
	m.Vertices = append(m.Vertices, float32(p.X), float32(p.Y), r, g, b, a)
}

// Triangle appends a single triangle.
func (m *Mesh) Triangle(a, b, c geom.Point, col color.RGBA) {
	m.vertex(a, col)
	m.vertex(b, col)
	m.vertex(c, col)
}

// Segment appends p-q as a quad of the given width. Zero-length segments are
// skipped.
func (m *Mesh) Segment(p, q geom.Point, width float64, col color.RGBA) {
	dx, dy := q.X-p.X, q.Y-p.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	// Half-width normal.
	nx, ny := -dy/length*width/2, dx/length*width/2
	p1 := geom.Point{X: p.X + nx, Y: p.Y + ny}
	p2 := geom.Point{X: p.X - nx, Y: p.Y - ny}
	q1 := geom.Point{X: q.X + nx, Y: q.Y + ny}
	q2 := geom.Point{X: q.X - nx, Y: q.Y - ny}
	m.Triangle(p1, p2, q1, col)
	m.Triangle(q1, p2, q2, col)
}

// Polyline strokes consecutive points, joining the last to the first if
// closed.
func (m *Mesh) Polyline(pts []geom.Point, closed bool, width float64, col color.RGBA) {
	for i := 0; i+1 < len(pts); i++ {
		m.Segment(pts[i], pts[i+1], width, col)
	}
	if closed && len(pts) > 2 {
		m.Segment(pts[len(pts)-1], pts[0], width, col)
	}
}

// Fill appends the triangulated interior of a simple polygon.
func (m *Mesh) Fill(polygon []geom.Point, col color.RGBA) error {
	triangles, err := earClip(polygon)
	if err != nil {
		return err
	}
	for _, t := range triangles {
		m.Triangle(t[0], t[1], t[2], col)
	}
	return nil
}

// Tessellate builds the mesh for one frame: the world axes, plane fills,
// entity outlines, the construction preview, guides, the snap marker and the
// rubber band. Stroke widths are constant in screen pixels.
func Tessellate(f app.Frame) *Mesh {
	px := 1 / f.Projection.Scale() // world units per pixel
	pal := f.Palette
	m := &Mesh{Vertices: make([]float32, 0, len(f.Entities)*64*floatsPerVertex)}

	vis := f.Projection.Visible()
	if vis.MinY < 0 && vis.MaxY > 0 {
		m.Segment(geom.Point{X: vis.MinX}, geom.Point{X: vis.MaxX}, guidePx*px, pal.Axis)
	}
	if vis.MinX < 0 && vis.MaxX > 0 {
		m.Segment(geom.Point{Y: vis.MinY}, geom.Point{Y: vis.MaxY}, guidePx*px, pal.Axis)
	}

	for _, e := range f.Entities {
		if p, ok := e.(*entity.Plane); ok {
			outline := p.Outline()
			if err := m.Fill(outline[:], palette.WithAlpha(e.Attributes().Color, planeFillAlpha)); err != nil {
				renderLogger.Printf("skipping fill of %v: %v", e, err)
			}
		}
	}
	for _, e := range f.Entities {
		col := e.Attributes().Color
		if e.Attributes().Selected {
			col = pal.Highlight(col)
		}
		pts, closed := Path(e, px)
		m.Polyline(pts, closed, e.Attributes().Weight*strokePx*px, col)
	}
	for _, e := range f.Preview {
		pts, closed := Path(e, px)
		m.Polyline(pts, closed, strokePx*px, pal.Preview)
	}
	for _, g := range f.Snap.Guides {
		m.Segment(g.From, g.To, guidePx*px, pal.Guide)
	}
	if p, ok := f.Snap.Point.Get(); ok {
		m.Polyline(square(p, markerPx*px), true, guidePx*px, pal.Snap)
	}
	if f.Band != nil {
		b := f.Band.Bound()
		corners := []geom.Point{
			{X: b.MinX, Y: b.MinY}, {X: b.MaxX, Y: b.MinY},
			{X: b.MaxX, Y: b.MaxY}, {X: b.MinX, Y: b.MaxY},
		}
		if err := m.Fill(corners, pal.Band); err != nil {
			renderLogger.Printf("skipping rubber band fill %+v: %v", b, err)
		}
		m.Polyline(corners, true, guidePx*px, palette.WithAlpha(pal.Guide, 255))
	}
	return m
}

// Path returns the drawing outline of e. px is the size of a screen pixel in
// world units, used to pick how finely circles are divided.
func Path(e entity.Entity, px float64) (pts []geom.Point, closed bool) {
	switch e := e.(type) {
	case *entity.Line:
		return []geom.Point{e.Start(), e.End()}, false
	case *entity.Rectangle:
		c := e.Corners()
		return c[:], true
	case *entity.Square:
		c := e.Corners()
		return c[:], true
	case *entity.Circle:
		return circle(e.Center(), e.Radius(), px), true
	case *entity.Plane:
		o := e.Outline()
		return o[:], true
	default:
		return e.Vertices(), false
	}
}

func circle(c geom.Point, r, px float64) []geom.Point {
	steps := minCircleSteps
	if px > 0 {
		steps = int(2 * math.Pi * r / (circleStepPx * px))
	}
	steps = min(max(steps, minCircleSteps), maxCircleSteps)
	pts := make([]geom.Point, steps)
	for i := range pts {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / float64(steps))
		pts[i] = geom.Point{X: c.X + r*cos, Y: c.Y + r*sin}
	}
	return pts
}

func square(c geom.Point, side float64) []geom.Point {
	h := side / 2
	return []geom.Point{
		{X: c.X - h, Y: c.Y - h}, {X: c.X + h, Y: c.Y - h},
		{X: c.X + h, Y: c.Y + h}, {X: c.X - h, Y: c.Y + h},
	}
}

// ClipTransform maps world coordinates to OpenGL clip space: the projection
// to screen pixels, then pixels to [-1, 1] with Y pointing up.
func ClipTransform(p *view.Projection) geom.Affine {
	w, h := p.Size()
	toNDC := geom.MakeAffine(2/float64(w), 0, 0, -2/float64(h), -1, 1)
	return p.Forward().Mul(toNDC)
}

// matrix4 lays out an affine transform as a column-major 4x4 matrix.
func matrix4(t geom.Affine) [16]float32 {
	return [16]float32{
		float32(t.M11), float32(t.M12), 0, 0,
		float32(t.M21), float32(t.M22), 0, 0,
		0, 0, 1, 0,
		float32(t.DX), float32(t.DY), 0, 1,
	}
}
