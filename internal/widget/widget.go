// Package widget implements the drawing tools as small state machines. A
// widget turns a sequence of picked points and typed parameter values into a
// finished entity (or, for the transform tools, into a transformed copy of the
// selection). Widgets never touch the drawing themselves; the host reads the
// Result of each Advance and applies it.
package widget

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/irfansharif/draft/internal/entity"
	"github.com/irfansharif/draft/internal/geom"
)

// ErrUnsupportedTool is returned by New for tools that have no widget.
var ErrUnsupportedTool = errors.New("tool has no construction widget")

// State is the construction progress of a widget.
type State int

const (
	Empty               State = iota // no point captured
	AwaitingSecondPoint              // start point captured
	Complete                         // output ready; Initialize before reuse
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case AwaitingSecondPoint:
		return "awaiting-second-point"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// Input is one of Pointer, Param or Confirm.
type Input interface{ isInput() }

// Pointer is a picked world point (already snapped by the host).
type Pointer struct{ P geom.Point }

// Param is a typed value committed to a named field.
type Param struct {
	Field string
	Value float64
}

// Confirm completes the construction from the pending points, if both are
// set.
type Confirm struct{}

func (Pointer) isInput() {}
func (Param) isInput()   {}
func (Confirm) isInput() {}

// Result is what a widget reports after each input.
type Result struct {
	State State

	// Entity is the finished entity of a shape widget in state Complete.
	Entity entity.Entity

	// Originals and Transformed are set when a transform widget completes.
	// They have the same length; the host swaps one set for the other.
	Originals, Transformed []entity.Entity

	// Ignored is set when the input did not apply (unknown field, input after
	// completion, confirm with a missing point). The widget is unchanged.
	Ignored bool
}

// Field is a named parameter value.
type Field struct {
	Name  string
	Value float64
}

// Parameter names.
const (
	X      = "X"
	Y      = "Y"
	DX     = "DX"
	DY     = "DY"
	Length = "Length"
	Angle  = "Angle"
	Width  = "Width"
	Height = "Height"
	Side   = "Side"
	Radius = "Radius"
	Factor = "Factor"
	ScaleX = "ScaleX"
	ScaleY = "ScaleY"
)

type builder interface {
	name() string
	prompts() [2]string
	params() []string
	// closing lists field groups; committing every field of any one group
	// completes the construction.
	closing() [][]string
	// place recomputes the pending points after field was committed.
	place(w *Widget, field string)
	// mirror copies the pending points back into the fields, except skip.
	mirror(w *Widget, skip string)
}

type shapeBuilder interface {
	builder
	shape(start, end geom.Point) entity.Entity
}

type transformBuilder interface {
	builder
	transform(w *Widget, start, end geom.Point) geom.Affine
}

// Widget is the construction state machine for one tool.
type Widget struct {
	tool Tool
	b    builder

	state      State
	start, end geom.OptPoint
	promptIdx  int
	prompt     string
	fields     map[string]float64
	committed  map[string]bool
	viaFields  bool // end point last computed from fields rather than picked

	entity                 entity.Entity
	originals, transformed []entity.Entity
}

func newWidget(tool Tool, b builder) *Widget {
	w := &Widget{
		tool:      tool,
		b:         b,
		fields:    make(map[string]float64),
		committed: make(map[string]bool),
	}
	for _, p := range b.params() {
		w.fields[p] = 0
	}
	w.Initialize()
	return w
}

func NewLine() *Widget      { return newWidget(ToolLine, lineBuilder{}) }
func NewRectangle() *Widget { return newWidget(ToolRectangle, rectBuilder{}) }
func NewSquare() *Widget    { return newWidget(ToolSquare, squareBuilder{}) }
func NewCircle() *Widget    { return newWidget(ToolCircle, circleBuilder{}) }
func NewPlane() *Widget     { return newWidget(ToolPlane, planeBuilder{}) }

// NewTranslate returns a widget moving a snapshot of selection.
func NewTranslate(selection []entity.Entity) *Widget {
	w := newWidget(ToolTranslate, translateBuilder{})
	w.originals = slices.Clone(selection)
	return w
}

// NewScale returns a widget scaling a snapshot of selection about a picked
// base point.
func NewScale(selection []entity.Entity) *Widget {
	w := newWidget(ToolScale, scaleBuilder{})
	w.originals = slices.Clone(selection)
	return w
}

// New returns the widget for tool. Selection is only used by the transform
// tools.
func New(tool Tool, selection []entity.Entity) (*Widget, error) {
	switch tool {
	case ToolLine:
		return NewLine(), nil
	case ToolRectangle:
		return NewRectangle(), nil
	case ToolSquare:
		return NewSquare(), nil
	case ToolCircle:
		return NewCircle(), nil
	case ToolPlane:
		return NewPlane(), nil
	case ToolTranslate:
		return NewTranslate(selection), nil
	case ToolScale:
		return NewScale(selection), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedTool, tool)
	}
}

func (w *Widget) Tool() Tool                   { return w.tool }
func (w *Widget) State() State                 { return w.state }
func (w *Widget) Prompt() string               { return w.prompt }
func (w *Widget) Params() []string             { return slices.Clone(w.b.params()) }
func (w *Widget) Start() geom.OptPoint         { return w.start }
func (w *Widget) End() geom.OptPoint           { return w.end }
func (w *Widget) Entity() entity.Entity        { return w.entity }
func (w *Widget) Originals() []entity.Entity   { return slices.Clone(w.originals) }
func (w *Widget) Transformed() []entity.Entity { return slices.Clone(w.transformed) }
func (w *Widget) String() string               { return w.b.name() }

// Field returns the current value of the named parameter.
func (w *Widget) Field(name string) (float64, bool) {
	v, ok := w.fields[name]
	return v, ok
}

// IsTransform reports whether the widget transforms a selection rather than
// building a new entity.
func (w *Widget) IsTransform() bool {
	_, ok := w.b.(transformBuilder)
	return ok
}

// Fields returns the current parameter values in display order.
func (w *Widget) Fields() []Field {
	out := make([]Field, 0, len(w.b.params()))
	for _, p := range w.b.params() {
		out = append(out, Field{Name: p, Value: w.fields[p]})
	}
	return out
}

// Initialize resets the widget to Empty: output, both points and the prompt
// index are cleared and the first prompt is published. Field values are kept
// so the parameter panel keeps showing the last ones.
func (w *Widget) Initialize() {
	w.state = Empty
	w.entity = nil
	w.transformed = nil
	w.start.Reset()
	w.end.Reset()
	w.promptIdx = 0
	w.viaFields = false
	clear(w.committed)
	w.publish()
}

// Advance feeds one input to the widget and returns the resulting state. Once
// Complete, every input is ignored until Initialize.
func (w *Widget) Advance(in Input) Result {
	if w.state == Complete {
		return w.result(true)
	}
	applied := false
	switch in := in.(type) {
	case Pointer:
		w.pointer(in.P)
		applied = true
	case Param:
		applied = w.param(in.Field, in.Value)
	case Confirm:
		applied = w.confirm()
	}
	if applied {
		w.publish()
	}
	return w.result(!applied)
}

// Preview returns the entities to draw for the pending construction with the
// cursor at p: the shape being built, or the selection as it would end up.
func (w *Widget) Preview(cursor geom.Point) []entity.Entity {
	start, ok := w.start.Get()
	if !ok || w.state != AwaitingSecondPoint {
		return nil
	}
	end := w.end.Or(cursor)
	switch b := w.b.(type) {
	case shapeBuilder:
		return []entity.Entity{b.shape(start, end)}
	case transformBuilder:
		return transformAll(w.originals, b.transform(w, start, end))
	}
	return nil
}

func (w *Widget) pointer(p geom.Point) {
	if start, ok := w.start.Get(); ok {
		w.end.Set(p)
		w.viaFields = false
		w.complete(start, p)
		return
	}
	w.start.Set(p)
	w.end.Reset()
	w.viaFields = false
	clear(w.committed)
	w.promptIdx = 1
	w.state = AwaitingSecondPoint
	w.b.mirror(w, "")
}

func (w *Widget) param(field string, value float64) bool {
	if !slices.Contains(w.b.params(), field) {
		return false
	}
	w.fields[field] = value
	w.committed[field] = true
	if field == X || field == Y || !w.start.IsSet() {
		w.start.Set(geom.MakePoint(w.fields[X], w.fields[Y]))
	}
	if w.state == Empty {
		w.state = AwaitingSecondPoint
		w.promptIdx = 1
	}
	w.b.place(w, field)
	if w.end.IsSet() {
		w.viaFields = true
	}
	w.b.mirror(w, field)

	for _, group := range w.b.closing() {
		if w.allCommitted(group) {
			start, _ := w.start.Get()
			end, ok := w.end.Get()
			if ok {
				w.complete(start, end)
			}
			break
		}
	}
	return true
}

func (w *Widget) confirm() bool {
	start, ok := w.start.Get()
	if !ok {
		return false
	}
	end, ok := w.end.Get()
	if !ok {
		return false
	}
	w.complete(start, end)
	return true
}

func (w *Widget) complete(start, end geom.Point) {
	switch b := w.b.(type) {
	case shapeBuilder:
		w.entity = b.shape(start, end)
	case transformBuilder:
		w.transformed = transformAll(w.originals, b.transform(w, start, end))
	}
	w.b.mirror(w, "")
	w.start.Reset()
	w.end.Reset()
	w.promptIdx = 0
	clear(w.committed)
	w.state = Complete
}

func (w *Widget) allCommitted(group []string) bool {
	for _, f := range group {
		if !w.committed[f] {
			return false
		}
	}
	return true
}

func (w *Widget) publish() {
	prompts := w.b.prompts()
	idx := w.promptIdx
	if idx >= len(prompts) {
		idx = len(prompts) - 1
	}
	w.prompt = fmt.Sprintf("%s: %s", w.b.name(), strings.TrimSpace(prompts[idx]))
}

func (w *Widget) result(ignored bool) Result {
	r := Result{State: w.state, Ignored: ignored}
	if w.state == Complete {
		r.Entity = w.entity
		if w.IsTransform() {
			r.Originals = slices.Clone(w.originals)
			r.Transformed = slices.Clone(w.transformed)
		}
	}
	return r
}

// set writes a mirrored field value unless it is the one being committed.
func (w *Widget) set(name string, v float64, skip string) {
	if name != skip {
		w.fields[name] = v
	}
}

func transformAll(es []entity.Entity, xfm geom.Affine) []entity.Entity {
	out := make([]entity.Entity, len(es))
	for i, e := range es {
		out[i] = entity.Transformed(e, xfm)
	}
	return out
}
