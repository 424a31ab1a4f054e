package main

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/irfansharif/draft/internal/app"
	"github.com/irfansharif/draft/internal/geom"
	"github.com/irfansharif/draft/internal/view"
	"github.com/irfansharif/draft/internal/widget"
)

const basePanDistance = 100.0 // pixels per arrow key press

var toolKeys = map[glfw.Key]widget.Tool{
	glfw.KeyV: widget.ToolPick,
	glfw.KeyL: widget.ToolLine,
	glfw.KeyR: widget.ToolRectangle,
	glfw.KeyQ: widget.ToolSquare,
	glfw.KeyC: widget.ToolCircle,
	glfw.KeyP: widget.ToolPlane,
	glfw.KeyT: widget.ToolTranslate,
	glfw.KeyS: widget.ToolScale,
}

// EventHandlers translates window events into session inputs.
type EventHandlers struct {
	window  *glfw.Window
	session *app.Session

	// Middle-button drag pans the view.
	isPanning          bool
	lastPanX, lastPanY float64

	// Typed parameter value and the field it will be committed to. Tab
	// cycles through the active widget's fields; Enter commits.
	inputBuffer string
	fieldIndex  int
}

// NewEventHandlers creates the handlers and installs them on window.
func NewEventHandlers(window *glfw.Window, session *app.Session) *EventHandlers {
	eh := &EventHandlers{window: window, session: session}
	eh.SetupCallbacks(window)
	return eh
}

// SetupCallbacks configures all GLFW event callbacks.
func (eh *EventHandlers) SetupCallbacks(window *glfw.Window) {
	window.SetKeyCallback(func(wnd *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		eh.handleKey(key, action, mods)
	})
	window.SetMouseButtonCallback(func(wnd *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		eh.handleMouseButton(button, action)
	})
	window.SetCursorPosCallback(func(wnd *glfw.Window, xpos, ypos float64) {
		eh.handleCursorPos(xpos, ypos)
	})
	window.SetScrollCallback(func(wnd *glfw.Window, _, yoff float64) {
		eh.handleScroll(yoff)
	})
	window.SetFramebufferSizeCallback(func(wnd *glfw.Window, newW, newH int) {
		eh.handleFramebufferSize(newW, newH)
	})
}

// framebufferPos converts window coordinates to framebuffer pixels, which is
// what the projection works in.
func (eh *EventHandlers) framebufferPos(x, y float64) (float64, float64) {
	scaleX, scaleY := eh.window.GetContentScale()
	return x * float64(scaleX), y * float64(scaleY)
}

// cursorWorld returns the world point under the mouse.
func (eh *EventHandlers) cursorWorld() geom.Point {
	fx, fy := eh.framebufferPos(eh.window.GetCursorPos())
	return eh.session.Projection().Unproject(fx, fy)
}

func (eh *EventHandlers) handleFramebufferSize(newW, newH int) {
	if newW <= 0 || newH <= 0 {
		return // minimized
	}
	if err := eh.session.Resize(newW, newH); err != nil {
		log.Printf("WARNING: resize to %dx%d: %v", newW, newH, err)
	}
}

func (eh *EventHandlers) handleMouseButton(button glfw.MouseButton, action glfw.Action) {
	switch button {
	case glfw.MouseButtonLeft:
		switch action {
		case glfw.Press:
			eh.session.PointerDown(eh.cursorWorld())
		case glfw.Release:
			eh.session.PointerUp(eh.cursorWorld())
		}
	case glfw.MouseButtonMiddle:
		switch action {
		case glfw.Press:
			eh.isPanning = true
			eh.lastPanX, eh.lastPanY = eh.framebufferPos(eh.window.GetCursorPos())
		case glfw.Release:
			eh.isPanning = false
		}
	}
}

func (eh *EventHandlers) handleCursorPos(xpos, ypos float64) {
	fx, fy := eh.framebufferPos(xpos, ypos)
	if eh.isPanning {
		if err := eh.session.Pan(fx-eh.lastPanX, fy-eh.lastPanY); err != nil {
			log.Printf("WARNING: pan: %v", err)
		}
		eh.lastPanX, eh.lastPanY = fx, fy
	}
	eh.session.PointerMove(eh.session.Projection().Unproject(fx, fy))
}

func (eh *EventHandlers) handleScroll(yoff float64) {
	if yoff == 0 {
		return
	}
	dir := view.ZoomIn
	if yoff < 0 {
		dir = view.ZoomOut
	}
	eh.zoom(dir, eh.cursorWorld())
}

func (eh *EventHandlers) zoom(dir view.ZoomDir, at geom.Point) {
	if err := eh.session.WheelZoom(dir, at); err != nil {
		log.Printf("WARNING: %v", err)
	}
}

func (eh *EventHandlers) handleKey(key glfw.Key, action glfw.Action, mods glfw.ModifierKey) {
	if action == glfw.Release {
		return
	}
	// Parameter input. Repeats are fine here.
	if r, ok := inputRune(key); ok && mods&(glfw.ModControl|glfw.ModSuper) == 0 {
		eh.inputBuffer += string(r)
		return
	}
	switch key {
	case glfw.KeyBackspace:
		if eh.inputBuffer != "" {
			eh.inputBuffer = eh.inputBuffer[:len(eh.inputBuffer)-1]
			return
		}
	case glfw.KeyUp:
		eh.pan(0, 1)
		return
	case glfw.KeyDown:
		eh.pan(0, -1)
		return
	case glfw.KeyLeft:
		eh.pan(1, 0)
		return
	case glfw.KeyRight:
		eh.pan(-1, 0)
		return
	}
	if action != glfw.Press {
		return
	}

	ctrl := mods&(glfw.ModControl|glfw.ModSuper) != 0
	switch {
	case key == glfw.KeyEscape:
		if eh.inputBuffer != "" {
			eh.inputBuffer = ""
			return
		}
		eh.session.Escape()
	case key == glfw.KeyEnter || key == glfw.KeyKPEnter:
		eh.commit()
	case key == glfw.KeyTab:
		eh.cycleField(mods&glfw.ModShift == 0)
	case key == glfw.KeyA && ctrl:
		eh.session.SelectAll()
	case key == glfw.KeyA:
		eh.session.SetAlignmentSnap(!eh.session.AlignmentSnap())
	case key == glfw.KeyN && ctrl:
		eh.session.ClearAll()
	case key == glfw.KeyDelete || key == glfw.KeyBackspace:
		eh.session.DeleteSelected()
	case key == glfw.KeyZ || key == glfw.KeyHome:
		if err := eh.session.ZoomToExtents(); err != nil && !errors.Is(err, view.ErrDegenerateBound) {
			log.Printf("WARNING: %v", err)
		}
	case key == glfw.KeyEqual && ctrl:
		eh.zoom(view.ZoomIn, eh.session.Projection().Center())
	case key == glfw.KeyMinus && ctrl:
		eh.zoom(view.ZoomOut, eh.session.Projection().Center())
	default:
		if tool, ok := toolKeys[key]; ok && !ctrl {
			eh.setTool(tool)
		}
	}
}

func (eh *EventHandlers) setTool(tool widget.Tool) {
	if err := eh.session.SetTool(tool); err != nil {
		log.Printf("WARNING: %v", err)
		return
	}
	eh.inputBuffer, eh.fieldIndex = "", 0
}

func (eh *EventHandlers) pan(dx, dy float64) {
	if err := eh.session.Pan(dx*basePanDistance, dy*basePanDistance); err != nil {
		log.Printf("WARNING: pan: %v", err)
	}
}

// commit sends the typed value to the selected field, or confirms the
// construction when nothing was typed.
func (eh *EventHandlers) commit() {
	input := strings.TrimSpace(eh.inputBuffer)
	eh.inputBuffer = ""
	if input == "" {
		eh.session.Confirm()
		return
	}
	field, ok := eh.field()
	if !ok {
		return
	}
	value, err := strconv.ParseFloat(input, 64)
	if err != nil {
		log.Printf("WARNING: %s: %q is not a number", field, input)
		return
	}
	if !eh.session.ParameterCommit(field, value) {
		log.Printf("WARNING: %s=%v not accepted", field, value)
		return
	}
	// Most tools take two fields; move on to the next one.
	eh.cycleField(true)
}

// field returns the name of the field typed input goes to.
func (eh *EventHandlers) field() (string, bool) {
	w := eh.session.Widget()
	if w == nil {
		return "", false
	}
	params := w.Params()
	if len(params) == 0 {
		return "", false
	}
	return params[eh.fieldIndex%len(params)], true
}

func (eh *EventHandlers) cycleField(next bool) {
	w := eh.session.Widget()
	if w == nil {
		return
	}
	n := len(w.Params())
	if n == 0 {
		return
	}
	if next {
		eh.fieldIndex = (eh.fieldIndex + 1) % n
	} else {
		eh.fieldIndex = (eh.fieldIndex + n - 1) % n
	}
}

// inputRune maps keys that can appear in a number.
func inputRune(key glfw.Key) (rune, bool) {
	switch {
	case key >= glfw.Key0 && key <= glfw.Key9:
		return rune('0' + int(key-glfw.Key0)), true
	case key >= glfw.KeyKP0 && key <= glfw.KeyKP9:
		return rune('0' + int(key-glfw.KeyKP0)), true
	case key == glfw.KeyPeriod || key == glfw.KeyKPDecimal:
		return '.', true
	case key == glfw.KeyMinus || key == glfw.KeyKPSubtract:
		return '-', true
	}
	return 0, false
}
