// Package render draws a drafting session with OpenGL.
//
// Each frame it:
// 1. Tessellates the frame's entities, preview and overlays into triangles in
// world coordinates (fills are triangulated with earcut).
// 2. Uploads them into a single vertex buffer.
// 3. Draws them with the session's projection as the shader transform, so
// the geometry never has to be projected on the CPU.
package render

import (
	"fmt"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/irfansharif/draft/internal/app"
	"github.com/irfansharif/draft/internal/palette"
)

type Renderer struct {
	program *shaderProgram
	buffer  *vertexBuffer
	stats   Stats
}

// Stats tracks rendering performance metrics.
type Stats struct {
	LastPrepareTimeMs float64 // time spent tessellating and uploading, in milliseconds
	LastDrawTimeUs    float64 // time spent in the draw call, in microseconds
	Triangles         int     // triangles in the last frame
	BufferGrows       int     // times the vertex buffer was reallocated
}

// NewRenderer sets up the GL state. It must be called with a current GL
// context, on the thread that owns it.
func NewRenderer() (*Renderer, error) {
	program, err := newShaderProgram()
	if err != nil {
		return nil, err
	}
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	return &Renderer{program: program, buffer: newVertexBuffer()}, nil
}

// Draw clears the framebuffer and draws f.
func (r *Renderer) Draw(f app.Frame) error {
	prepareStart := time.Now()
	mesh := Tessellate(f)
	if err := r.buffer.upload(mesh.Vertices); err != nil {
		return fmt.Errorf("uploading frame: %w", err)
	}
	r.stats.LastPrepareTimeMs = float64(time.Since(prepareStart).Microseconds()) / 1000.0

	drawStart := time.Now()
	w, h := f.Projection.Size()
	gl.Viewport(0, 0, int32(w), int32(h))
	cr, cg, cb, ca := palette.Floats(f.Palette.Background)
	gl.ClearColor(cr, cg, cb, ca)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	r.program.setTransform(matrix4(ClipTransform(f.Projection)))
	r.buffer.draw()

	r.stats.LastDrawTimeUs = float64(time.Since(drawStart).Microseconds())
	r.stats.Triangles = mesh.Len() / 3
	r.stats.BufferGrows = r.buffer.grows
	return nil
}

// Stats returns the current performance statistics.
func (r *Renderer) Stats() Stats {
	return r.stats
}

// Cleanup releases the GL objects.
func (r *Renderer) Cleanup() {
	r.buffer.cleanup()
	gl.DeleteProgram(r.program.id)
}
