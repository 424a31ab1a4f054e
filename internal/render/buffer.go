package render

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-gl/gl/v4.1-core/gl"
)

var renderLogger *log.Logger = log.New(io.Discard, "", 0)

func init() {
	if os.Getenv("DRAFT_DEBUG_RENDER") == "1" {
		renderLogger = log.New(os.Stdout, "[render] ", log.Ltime|log.Lmsgprefix)
	}
}

const (
	bytesPerVertex  = floatsPerVertex * 4
	initialVertices = 1 << 12
	maxBufferBytes  = 256 << 20 // 256 MiB
)

// vertexBuffer is a VAO/VBO pair holding one frame of triangles. The VBO
// doubles in size whenever a frame does not fit.
type vertexBuffer struct {
	vao, vbo uint32
	capacity int // in vertices
	count    int // vertices uploaded by the last upload
	grows    int
}

func newVertexBuffer() *vertexBuffer {
	b := &vertexBuffer{}
	gl.GenVertexArrays(1, &b.vao)
	b.allocate(initialVertices)
	return b
}

// allocate replaces the VBO with an empty one of the given capacity and
// points the VAO's attributes at it.
func (b *vertexBuffer) allocate(capacity int) {
	if b.vbo != 0 {
		gl.DeleteBuffers(1, &b.vbo)
	}
	gl.GenBuffers(1, &b.vbo)

	gl.BindVertexArray(b.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, capacity*bytesPerVertex, nil, gl.DYNAMIC_DRAW)

	// - Attribute 0: position (vec2)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, bytesPerVertex, gl.PtrOffset(0))
	// - Attribute 1: color (vec4)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 4, gl.FLOAT, false, bytesPerVertex, gl.PtrOffset(8))

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	b.capacity = capacity
}

// upload copies vertices into the buffer, growing it first if needed.
func (b *vertexBuffer) upload(vertices []float32) error {
	n := len(vertices) / floatsPerVertex
	if n > b.capacity {
		capacity := b.capacity
		for capacity < n {
			capacity *= 2
		}
		if capacity*bytesPerVertex > maxBufferBytes {
			return fmt.Errorf("frame of %d vertices exceeds the %d MiB buffer limit", n, maxBufferBytes>>20)
		}
		renderLogger.Printf("growing vertex buffer %d -> %d vertices", b.capacity, capacity)
		b.allocate(capacity)
		b.grows++
	}
	b.count = n
	if n == 0 {
		return nil
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*4, gl.Ptr(vertices))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return nil
}

func (b *vertexBuffer) draw() {
	if b.count == 0 {
		return
	}
	gl.BindVertexArray(b.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(b.count))
	gl.BindVertexArray(0)
}

func (b *vertexBuffer) cleanup() {
	gl.DeleteBuffers(1, &b.vbo)
	gl.DeleteVertexArrays(1, &b.vao)
	b.vbo, b.vao, b.capacity, b.count = 0, 0, 0, 0
}
