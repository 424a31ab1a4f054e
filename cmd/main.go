package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/irfansharif/draft/internal/app"
	"github.com/irfansharif/draft/internal/render"
	"github.com/irfansharif/draft/internal/widget"
)

const logFlags = log.Ltime | log.Lshortfile

var runtimeLogger *log.Logger = log.New(io.Discard, "", 0)

var (
	widthFlag  = flag.Int("width", 1280, "initial window width")
	heightFlag = flag.Int("height", 960, "initial window height")
	toolFlag   = flag.String("tool", "line", "initial tool (pick, line, rectangle, square, circle, plane, translate, scale)")
	alignFlag  = flag.Bool("align", false, "also snap to the axes and to vertex alignments")
)

func init() {
	// OpenGL contexts are tied to specific OS threads - let's pin to just one.
	runtime.LockOSThread()
	log.SetFlags(logFlags)

	if os.Getenv("DRAFT_DEBUG_RUNTIME") == "1" {
		runtimeLogger = log.New(os.Stdout, "[runtime] ", log.Ltime|log.Lmsgprefix)
	}
}

// makeTitle renders the status line: the prompt, the field values with the
// one typed input goes to in brackets, and the pending input.
func makeTitle(f app.Frame, eh *EventHandlers) string {
	var b strings.Builder
	b.WriteString("Draft - ")
	b.WriteString(f.Prompt)
	target, _ := eh.field()
	for _, fl := range f.Fields {
		if fl.Name == target {
			fmt.Fprintf(&b, "  [%s=%g]", fl.Name, fl.Value)
		} else {
			fmt.Fprintf(&b, "  %s=%g", fl.Name, fl.Value)
		}
	}
	if eh.inputBuffer != "" {
		fmt.Fprintf(&b, "  > %s", eh.inputBuffer)
	}
	fmt.Fprintf(&b, "  (%v)", f.Cursor)
	if eh.session.AlignmentSnap() {
		b.WriteString("  align")
	}
	return b.String()
}

func main() {
	flag.Parse()

	tool, err := widget.ParseTool(*toolFlag)
	if err != nil {
		log.Fatalf("Invalid -tool: %v", err)
	}

	if err := glfw.Init(); err != nil {
		log.Fatalf("Failed to initialize GLFW: %v", err)
	}
	defer glfw.Terminate()

	// Configure GLFW window hints - use OpenGL 4.1.
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.Samples, 4)

	window, err := glfw.CreateWindow(*widthFlag, *heightFlag, "Draft", nil, nil)
	if err != nil {
		log.Fatalf("Failed to create window: %v", err)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		log.Fatalf("Failed to initialize OpenGL: %v", err)
	}

	cw, ch := window.GetFramebufferSize()
	session, err := app.NewSession(cw, ch, tool)
	if err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}
	session.SetAlignmentSnap(*alignFlag)
	renderer, err := render.NewRenderer()
	if err != nil {
		log.Fatalf("Failed to initialize renderer: %v", err)
	}
	defer renderer.Cleanup()

	eventHandlers := NewEventHandlers(window, session)

	frameCount, frameTimeSum := 0, 0.0
	lastFPSUpdate := time.Now()
	title := ""

	// Main loop.
	for !window.ShouldClose() {
		frameStart := time.Now()

		frame := session.Frame()
		if err := renderer.Draw(frame); err != nil {
			log.Fatalf("Draw failed: %v", err)
		}
		window.SwapBuffers()

		if t := makeTitle(frame, eventHandlers); t != title {
			window.SetTitle(t)
			title = t
		}
		glfw.WaitEventsTimeout(0.5)

		frameTimeSum += time.Since(frameStart).Seconds() * 1000.0 // ms
		frameCount++
		if now := time.Now(); now.Sub(lastFPSUpdate) >= time.Second {
			fps := float64(frameCount) / now.Sub(lastFPSUpdate).Seconds()
			avgFrameTime := frameTimeSum / float64(frameCount)
			frameCount, frameTimeSum = 0, 0.0
			lastFPSUpdate = now

			stats := renderer.Stats()
			runtimeLogger.Println("=== Performance statistics ===")
			runtimeLogger.Printf("Frame rate:     %.1f FPS (%.2f ms/frame)", fps, avgFrameTime)
			runtimeLogger.Printf("Drawing:        %d entities, %d triangles", len(frame.Entities), stats.Triangles)
			runtimeLogger.Printf("Render time:    %.2f µs (last draw), %.2f ms (last prepare)", stats.LastDrawTimeUs, stats.LastPrepareTimeMs)
			runtimeLogger.Printf("Buffer grows:   %d", stats.BufferGrows)
			runtimeLogger.Println("==============================")
		}
	}
}
