package opengl

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/math"
)

//go:embed shaders/mesh.vert
var meshVertexSource string

//go:embed shaders/mesh.frag
var meshFragmentSource string

const DefaultPointSize float32 = 3.0

// Program is the shader program every mesh is drawn with.
type Program struct {
	handle         uint32
	viewProjection int32
	pointSize      int32
}

// NewMeshProgram compiles and links the builtin mesh shaders.
func NewMeshProgram() (*Program, error) {
	return NewProgram(meshVertexSource, meshFragmentSource)
}

func NewProgram(vertexSource, fragmentSource string) (*Program, error) {
	vs, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return nil, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vs)

	fs, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(fs)

	handle := gl.CreateProgram()
	gl.AttachShader(handle, vs)
	gl.AttachShader(handle, fs)
	gl.LinkProgram(handle)

	var status int32
	gl.GetProgramiv(handle, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		log := infoLog(handle, gl.GetProgramiv, gl.GetProgramInfoLog)
		gl.DeleteProgram(handle)
		return nil, fmt.Errorf("failed to link program: %s", log)
	}

	p := &Program{
		handle:         handle,
		viewProjection: gl.GetUniformLocation(handle, gl.Str("u_view_projection\x00")),
		pointSize:      gl.GetUniformLocation(handle, gl.Str("u_point_size\x00")),
	}
	core.LogDebug("shader program %d linked.", handle)
	return p, nil
}

func (p *Program) Use() {
	gl.UseProgram(p.handle)
}

// SetViewProjection uploads the matrix. Mat4 stores rows as the vector
// multiplies from the left, which is the column layout GL expects.
func (p *Program) SetViewProjection(m math.Mat4) {
	gl.UniformMatrix4fv(p.viewProjection, 1, false, &m.Data[0])
}

func (p *Program) SetPointSize(size float32) {
	gl.Uniform1f(p.pointSize, size)
}

func (p *Program) Delete() {
	if p.handle != 0 {
		gl.DeleteProgram(p.handle)
		p.handle = 0
	}
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		log := infoLog(shader, gl.GetShaderiv, gl.GetShaderInfoLog)
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("failed to compile: %s", log)
	}
	return shader, nil
}

func infoLog(object uint32, getiv func(uint32, uint32, *int32), getLog func(uint32, int32, *int32, *uint8)) string {
	var length int32
	getiv(object, gl.INFO_LOG_LENGTH, &length)
	if length == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(length+1))
	getLog(object, length, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}
