package render

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// shaderProgram is the linked program every frame is drawn with, along with
// its uniform locations.
type shaderProgram struct {
	id         uint32
	uTransform int32 // world to clip space
}

// Vertex shader. Maps world coordinates to clip space and forwards the
// per-vertex color.
const vertexShaderSource = `
#version 330 core
layout (location = 0) in vec2 aPos;
layout (location = 1) in vec4 aColor;

uniform mat4 uTransform;

out vec4 vColor;

void main() {
    gl_Position = uTransform * vec4(aPos, 0.0, 1.0);
    vColor = aColor;
}
` + "\x00"

// Fragment shader. Colors are straight (not premultiplied) alpha.
const fragmentShaderSource = `
#version 330 core
in vec4 vColor;
out vec4 FragColor;

void main() {
    FragColor = vColor;
}
` + "\x00"

// newShaderProgram compiles and links the shaders and makes the program
// current.
func newShaderProgram() (*shaderProgram, error) {
	vs, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return nil, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vs)

	fs, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(fs)

	sp := &shaderProgram{id: gl.CreateProgram()}
	gl.AttachShader(sp.id, vs)
	gl.AttachShader(sp.id, fs)
	gl.LinkProgram(sp.id)

	var status int32
	gl.GetProgramiv(sp.id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(sp.id, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(sp.id, logLength, nil, gl.Str(logText))
		gl.DeleteProgram(sp.id)
		return nil, fmt.Errorf("linking shaders: %s", strings.TrimRight(logText, "\x00"))
	}

	sp.uTransform = gl.GetUniformLocation(sp.id, gl.Str("uTransform\x00"))
	gl.UseProgram(sp.id)
	return sp, nil
}

func (sp *shaderProgram) setTransform(m [16]float32) {
	gl.UniformMatrix4fv(sp.uTransform, 1, false, &m[0])
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compiling: %s", strings.TrimRight(logText, "\x00"))
	}
	return shader, nil
}
