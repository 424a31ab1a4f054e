package widget

import (
	"fmt"
	"math"
	"strings"

	"github.com/irfansharif/draft/internal/entity"
	"github.com/irfansharif/draft/internal/geom"
)

// Tool is a drawing or editing tool.
type Tool int

const (
	ToolPick Tool = iota // no widget; drags select
	ToolLine
	ToolRectangle
	ToolCircle
	ToolSquare
	ToolPLine // polylines are not implemented
	ToolPlane
	ToolTranslate
	ToolScale
)

var toolNames = map[Tool]string{
	ToolPick:      "Pick",
	ToolLine:      "Line",
	ToolRectangle: "Rectangle",
	ToolCircle:    "Circle",
	ToolSquare:    "Square",
	ToolPLine:     "PLine",
	ToolPlane:     "Plane",
	ToolTranslate: "Translate",
	ToolScale:     "Scale",
}

func (t Tool) String() string {
	if name, ok := toolNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseTool returns the tool with the given (case-insensitive) name.
func ParseTool(name string) (Tool, error) {
	for t, n := range toolNames {
		if strings.EqualFold(n, name) {
			return t, nil
		}
	}
	return ToolPick, fmt.Errorf("unknown tool %q", name)
}

// IsTransform reports whether the tool operates on the selection.
func (t Tool) IsTransform() bool { return t == ToolTranslate || t == ToolScale }

// mirrorXY copies the start point into X and Y.
func mirrorXY(w *Widget, skip string) {
	if start, ok := w.start.Get(); ok {
		w.set(X, start.X, skip)
		w.set(Y, start.Y, skip)
	}
}

// deltaEnd places the end point at start + (DX, DY).
func deltaEnd(w *Widget, dx, dy string) {
	if start, ok := w.start.Get(); ok {
		w.end.Set(start.Translate(w.fields[dx], w.fields[dy]))
	}
}

// pending returns both points when both are set.
func pending(w *Widget) (start, end geom.Point, ok bool) {
	start, ok1 := w.start.Get()
	end, ok2 := w.end.Get()
	return start, end, ok1 && ok2
}

type lineBuilder struct{}

func (lineBuilder) name() string { return "Line" }
func (lineBuilder) prompts() [2]string {
	return [2]string{"Pick the start point", "Pick the end point"}
}
func (lineBuilder) params() []string    { return []string{X, Y, DX, DY, Length, Angle} }
func (lineBuilder) closing() [][]string { return [][]string{{DX, DY}, {Length, Angle}} }

func (lineBuilder) place(w *Widget, field string) {
	switch field {
	case Length, Angle:
		if start, ok := w.start.Get(); ok {
			w.end.Set(start.RadialMove(w.fields[Length], w.fields[Angle]))
		}
	case DX, DY:
		deltaEnd(w, DX, DY)
	case X, Y:
		if w.end.IsSet() {
			deltaEnd(w, DX, DY)
		}
	}
}

func (lineBuilder) mirror(w *Widget, skip string) {
	mirrorXY(w, skip)
	start, end, ok := pending(w)
	if !ok {
		return
	}
	dx, dy := start.Delta(end)
	w.set(DX, dx, skip)
	w.set(DY, dy, skip)
	if skip != Length && skip != Angle {
		w.set(Length, start.DistanceTo(end), skip)
		w.set(Angle, start.AngleTo(end), skip)
	}
}

func (lineBuilder) shape(start, end geom.Point) entity.Entity { return entity.NewLine(start, end) }

type rectBuilder struct{}

func (rectBuilder) name() string { return "Rectangle" }
func (rectBuilder) prompts() [2]string {
	return [2]string{"Pick the first corner", "Pick the opposite corner"}
}
func (rectBuilder) params() []string    { return []string{X, Y, Width, Height} }
func (rectBuilder) closing() [][]string { return [][]string{{Width, Height}} }

func (rectBuilder) place(w *Widget, field string) {
	switch field {
	case Width, Height:
		deltaEnd(w, Width, Height)
	case X, Y:
		if w.end.IsSet() {
			deltaEnd(w, Width, Height)
		}
	}
}

func (rectBuilder) mirror(w *Widget, skip string) {
	mirrorXY(w, skip)
	if start, end, ok := pending(w); ok {
		dx, dy := start.Delta(end)
		w.set(Width, dx, skip)
		w.set(Height, dy, skip)
	}
}

func (rectBuilder) shape(start, end geom.Point) entity.Entity {
	return entity.NewRectangle(start, end)
}

type squareBuilder struct{}

func (squareBuilder) name() string { return "Square" }
func (squareBuilder) prompts() [2]string {
	return [2]string{"Pick the first corner", "Pick the opposite corner"}
}
func (squareBuilder) params() []string    { return []string{X, Y, Side} }
func (squareBuilder) closing() [][]string { return [][]string{{Side}} }

func (squareBuilder) place(w *Widget, field string) {
	if field == Side || w.end.IsSet() {
		deltaEnd(w, Side, Side)
	}
}

func (squareBuilder) mirror(w *Widget, skip string) {
	mirrorXY(w, skip)
	if start, end, ok := pending(w); ok {
		dx, dy := start.Delta(end)
		w.set(Side, math.Max(math.Abs(dx), math.Abs(dy)), skip)
	}
}

func (squareBuilder) shape(start, end geom.Point) entity.Entity {
	return entity.NewSquare(start, end)
}

type circleBuilder struct{}

func (circleBuilder) name() string { return "Circle" }
func (circleBuilder) prompts() [2]string {
	return [2]string{"Pick the center point", "Pick the point on circle"}
}
func (circleBuilder) params() []string    { return []string{X, Y, Radius} }
func (circleBuilder) closing() [][]string { return [][]string{{Radius}} }

func (circleBuilder) place(w *Widget, field string) {
	if field != Radius && !w.end.IsSet() {
		return
	}
	if start, ok := w.start.Get(); ok {
		w.end.Set(start.Translate(w.fields[Radius], 0))
	}
}

func (circleBuilder) mirror(w *Widget, skip string) {
	mirrorXY(w, skip)
	if start, end, ok := pending(w); ok {
		w.set(Radius, start.DistanceTo(end), skip)
	}
}

func (circleBuilder) shape(start, end geom.Point) entity.Entity {
	return entity.CircleThrough(start, end)
}

type planeBuilder struct{}

func (planeBuilder) name() string { return "Plane" }
func (planeBuilder) prompts() [2]string {
	return [2]string{"Pick the first point", "Pick the second point"}
}
func (planeBuilder) params() []string    { return []string{X, Y, DX, DY} }
func (planeBuilder) closing() [][]string { return [][]string{{DX, DY}} }

func (planeBuilder) place(w *Widget, field string) {
	if field == DX || field == DY || w.end.IsSet() {
		deltaEnd(w, DX, DY)
	}
}

func (planeBuilder) mirror(w *Widget, skip string) {
	mirrorXY(w, skip)
	if start, end, ok := pending(w); ok {
		dx, dy := start.Delta(end)
		w.set(DX, dx, skip)
		w.set(DY, dy, skip)
	}
}

func (planeBuilder) shape(start, end geom.Point) entity.Entity { return entity.NewPlane(start, end) }

type translateBuilder struct{}

func (translateBuilder) name() string { return "Translate" }
func (translateBuilder) prompts() [2]string {
	return [2]string{"Pick the start point", "Pick the end point"}
}
func (translateBuilder) params() []string              { return []string{DX, DY} }
func (translateBuilder) closing() [][]string           { return [][]string{{DX, DY}} }
func (translateBuilder) place(w *Widget, field string) { deltaEnd(w, DX, DY) }

func (translateBuilder) mirror(w *Widget, skip string) {
	if start, end, ok := pending(w); ok {
		dx, dy := start.Delta(end)
		w.set(DX, dx, skip)
		w.set(DY, dy, skip)
	}
}

func (translateBuilder) transform(w *Widget, start, end geom.Point) geom.Affine {
	return geom.Translation(end.Sub(start))
}

// scaleBuilder scales about the first picked point. A second picked point
// gives a uniform factor equal to its distance from the base; typed factors
// (Factor, or ScaleX and ScaleY) are used as given.
type scaleBuilder struct{}

func (scaleBuilder) name() string { return "Scale" }
func (scaleBuilder) prompts() [2]string {
	return [2]string{"Pick the base point", "Pick the scale point"}
}
func (scaleBuilder) params() []string    { return []string{Factor, ScaleX, ScaleY} }
func (scaleBuilder) closing() [][]string { return [][]string{{Factor}, {ScaleX, ScaleY}} }

func (scaleBuilder) place(w *Widget, field string) {
	if field == Factor {
		w.fields[ScaleX] = w.fields[Factor]
		w.fields[ScaleY] = w.fields[Factor]
	}
	if start, ok := w.start.Get(); ok {
		w.end.Set(start.Translate(w.fields[ScaleX], 0))
	}
}

func (scaleBuilder) mirror(w *Widget, skip string) {
	if w.viaFields {
		return
	}
	if start, end, ok := pending(w); ok {
		f := start.DistanceTo(end)
		w.set(Factor, f, skip)
		w.set(ScaleX, f, skip)
		w.set(ScaleY, f, skip)
	}
}

func (scaleBuilder) transform(w *Widget, start, end geom.Point) geom.Affine {
	sx, sy := w.fields[ScaleX], w.fields[ScaleY]
	if !w.viaFields {
		sx = start.DistanceTo(end)
		sy = sx
	}
	toOrigin := geom.Translation(geom.MakePoint(-start.X, -start.Y))
	return toOrigin.Mul(geom.Scaling(sx, sy)).Mul(geom.Translation(start))
}
