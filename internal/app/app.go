// Package app is the host of the drafting core. A Session owns the document,
// the active construction widget, the projection and the snap state, and
// accepts the canonical inputs produced by an input adapter: pointer events
// in world space, parameter commits, zoom and pan, and the editing commands.
// Everything the renderer needs is read back through Frame.
package app

import (
	"fmt"
	"io"
	"log"
	"os"
	"slices"

	"github.com/irfansharif/draft/internal/entity"
	"github.com/irfansharif/draft/internal/geom"
	"github.com/irfansharif/draft/internal/palette"
	"github.com/irfansharif/draft/internal/view"
	"github.com/irfansharif/draft/internal/widget"
)

var appLogger *log.Logger = log.New(io.Discard, "", 0)

func init() {
	if os.Getenv("DRAFT_DEBUG_APP") == "1" {
		appLogger = log.New(os.Stdout, "[app] ", log.Ltime|log.Lmsgprefix)
	}
}

const pickPrompt = "Pick: drag to select"

// kinds is the number of entity kinds colored by the palette.
const kinds = int(entity.KindPlane) + 1

// Session is one interactive drawing. It is not safe for concurrent use; all
// inputs are expected from a single event loop.
type Session struct {
	doc     *Document
	proj    *view.Projection
	snapper *view.Snapper
	align   bool // alignment snap rules active
	palette palette.Palette

	tool   widget.Tool
	widget *widget.Widget // nil while picking

	cursor geom.Point // raw pointer position
	snap   view.Snap
	band   *view.RubberBand
}

// NewSession returns a session for a width x height viewport, starting with
// tool.
func NewSession(width, height int, tool widget.Tool) (*Session, error) {
	proj, err := view.NewProjection(width, height)
	if err != nil {
		return nil, fmt.Errorf("creating projection: %w", err)
	}
	s := &Session{
		doc:     NewDocument(),
		proj:    proj,
		snapper: view.NewSnapper(),
		palette: palette.Default(kinds),
	}
	if err := s.SetTool(tool); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) Document() *Document          { return s.doc }
func (s *Session) Projection() *view.Projection { return s.proj }
func (s *Session) Palette() palette.Palette     { return s.palette }
func (s *Session) Tool() widget.Tool            { return s.tool }
func (s *Session) Widget() *widget.Widget       { return s.widget }
func (s *Session) Snap() view.Snap              { return s.snap }
func (s *Session) RubberBand() *view.RubberBand { return s.band }

// SetAlignmentSnap turns the axis and vertex alignment snap rules on or off.
// They run after the default rules.
func (s *Session) SetAlignmentSnap(on bool) {
	rules := slices.Clone(view.DefaultRules)
	if on {
		rules = append(rules, view.AlignmentRules...)
	}
	s.snapper = view.NewSnapperWithRules(rules...)
	s.align = on
	s.resnap()
	appLogger.Printf("alignment snap: %v", on)
}

func (s *Session) AlignmentSnap() bool { return s.align }

// SetTool activates tool. The transform tools take a snapshot of the current
// selection. Tools without a widget (other than Pick) are rejected and the
// active tool is kept.
func (s *Session) SetTool(tool widget.Tool) error {
	if tool == widget.ToolPick {
		s.tool, s.widget = tool, nil
		s.band = nil
		appLogger.Printf("tool: %s", tool)
		return nil
	}
	w, err := widget.New(tool, s.doc.Selected())
	if err != nil {
		return fmt.Errorf("activating %s: %w", tool, err)
	}
	s.tool, s.widget = tool, w
	s.band = nil
	s.resnap()
	appLogger.Printf("tool: %s (%d selected)", tool, len(w.Originals()))
	return nil
}

// PointerDown handles a primary button press at world point p. With a widget
// active the snapped point is fed to it; while picking it starts a rubber
// band.
func (s *Session) PointerDown(p geom.Point) {
	s.cursor = p
	if s.widget == nil {
		s.band = &view.RubberBand{From: p, To: p}
		return
	}
	s.resnap()
	s.apply(s.widget.Advance(widget.Pointer{P: s.snap.At(p)}))
}

// PointerMove tracks the pointer, re-resolving the snap point and stretching
// the rubber band if one is being dragged.
func (s *Session) PointerMove(p geom.Point) {
	s.cursor = p
	if s.band != nil {
		s.band.To = p
	}
	s.resnap()
}

// PointerUp ends a rubber-band drag, selecting every entity strictly inside
// it. It returns the number of entities newly selected.
func (s *Session) PointerUp(p geom.Point) int {
	s.cursor = p
	if s.band == nil {
		return 0
	}
	s.band.To = p
	enclosed := s.band.Enclosed(s.doc.Entities())
	s.band = nil
	n := 0
	for _, e := range enclosed {
		if !e.Attributes().Selected {
			n++
		}
	}
	s.doc.SetSelected(enclosed, true)
	appLogger.Printf("rubber band selected %d (%d new)", len(enclosed), n)
	return n
}

// ParameterCommit sets a named field of the active widget. It reports whether
// the widget accepted it.
func (s *Session) ParameterCommit(field string, value float64) bool {
	if s.widget == nil {
		return false
	}
	r := s.widget.Advance(widget.Param{Field: field, Value: value})
	s.apply(r)
	return !r.Ignored
}

// Confirm completes the construction from its pending points.
func (s *Session) Confirm() bool {
	if s.widget == nil {
		return false
	}
	r := s.widget.Advance(widget.Confirm{})
	s.apply(r)
	return !r.Ignored
}

// WheelZoom zooms in or out keeping the world point c fixed on screen.
func (s *Session) WheelZoom(dir view.ZoomDir, c geom.Point) error {
	if err := s.proj.Zoom(dir, c); err != nil {
		return err
	}
	s.resnap()
	return nil
}

// Pan shifts the view by (dx, dy) screen pixels.
func (s *Session) Pan(dx, dy float64) error {
	if err := s.proj.Pan(dx, dy); err != nil {
		return err
	}
	s.resnap()
	return nil
}

// Resize adapts the projection to a new viewport size.
func (s *Session) Resize(width, height int) error {
	if err := s.proj.Resize(width, height); err != nil {
		return err
	}
	s.resnap()
	return nil
}

// ZoomToExtents fits the whole drawing in the viewport.
func (s *Session) ZoomToExtents() error {
	if err := s.proj.Fit(s.doc.Bound()); err != nil {
		return fmt.Errorf("zooming to extents: %w", err)
	}
	s.resnap()
	return nil
}

// Escape abandons the construction in progress and clears the selection. A
// transform tool has nothing left to act on and falls back to picking.
func (s *Session) Escape() {
	s.band = nil
	s.doc.ClearSelection()
	switch {
	case s.widget == nil:
	case s.widget.IsTransform():
		_ = s.SetTool(widget.ToolPick)
	default:
		s.widget.Initialize()
	}
	s.resnap()
	appLogger.Printf("escape")
}

// SelectAll selects every entity.
func (s *Session) SelectAll() {
	s.doc.SelectAll()
	s.refreshSelection()
}

// DeleteSelected removes the selected entities and returns how many went.
func (s *Session) DeleteSelected() int {
	n := s.doc.RemoveSelected()
	s.refreshSelection()
	s.resnap()
	appLogger.Printf("deleted %d", n)
	return n
}

// ClearAll empties the drawing.
func (s *Session) ClearAll() {
	s.doc.Clear()
	s.band = nil
	s.refreshSelection()
	if s.widget != nil {
		s.widget.Initialize()
	}
	s.resnap()
}

// apply hands a widget result to the document. A completed widget is
// re-armed for the next construction straight away.
func (s *Session) apply(r widget.Result) {
	if r.Ignored || r.State != widget.Complete {
		return
	}
	if s.widget.IsTransform() {
		if err := s.doc.Replace(r.Originals, r.Transformed); err != nil {
			log.Printf("WARNING: %s not applied: %v", s.tool, err)
		} else {
			appLogger.Printf("%s: replaced %d entities", s.tool, len(r.Transformed))
		}
		// The snapshot is stale either way; take a new one.
		s.rearm()
		return
	}
	e := r.Entity
	e.Attributes().Color = s.palette.Kind(int(e.Kind()))
	if s.doc.Add(e) {
		appLogger.Printf("added %v", e)
	}
	s.widget.Initialize()
	s.resnap()
}

// refreshSelection re-snapshots the selection for an idle transform widget.
func (s *Session) refreshSelection() {
	if s.widget != nil && s.widget.IsTransform() && s.widget.State() == widget.Empty {
		s.rearm()
	}
}

func (s *Session) rearm() {
	w, err := widget.New(s.tool, s.doc.Selected())
	if err != nil {
		// Only tools that built a widget get here, so New cannot fail.
		panic(err)
	}
	s.widget = w
	s.resnap()
}

func (s *Session) resnap() {
	anchor := geom.Unset()
	if s.widget != nil {
		anchor = s.widget.Start()
	}
	s.snap = s.snapper.Resolve(view.QueryAt(s.proj, s.cursor, anchor, s.doc.Entities()))
}

// Frame is what the renderer and status bar draw for the current state.
type Frame struct {
	Entities   []entity.Entity
	Preview    []entity.Entity // shape under construction or transformed selection
	Projection *view.Projection
	Palette    palette.Palette

	Tool   widget.Tool
	Prompt string
	Fields []widget.Field

	Cursor geom.Point    // snapped pointer position
	Anchor geom.OptPoint // start point of the construction in progress
	Snap   view.Snap
	Band   *view.RubberBand
}

// Frame returns the current output state.
func (s *Session) Frame() Frame {
	f := Frame{
		Entities:   s.doc.Entities(),
		Projection: s.proj,
		Palette:    s.palette,
		Tool:       s.tool,
		Prompt:     pickPrompt,
		Cursor:     s.snap.At(s.cursor),
		Snap:       s.snap,
	}
	if s.band != nil {
		band := *s.band
		f.Band = &band
	}
	if s.widget != nil {
		f.Prompt = s.widget.Prompt()
		f.Fields = s.widget.Fields()
		f.Anchor = s.widget.Start()
		f.Preview = s.widget.Preview(f.Cursor)
	}
	return f
}
