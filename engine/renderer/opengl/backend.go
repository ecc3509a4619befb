package opengl

import (
	"errors"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

var vertexStride = int32(unsafe.Sizeof(math.Vertex3D{}))

// Backend keeps the geometry of one mesh in a vertex array object with an
// interleaved vertex buffer and an optional element buffer.
type Backend struct {
	vao uint32
	vbo uint32
	ebo uint32
}

func NewBackend() *Backend {
	return &Backend{}
}

// NewBackendFactory is the renderer.BackendFactory handing out GL backends.
func NewBackendFactory() renderer.BackendFactory {
	return func() renderer.BufferBackend {
		return NewBackend()
	}
}

func (b *Backend) CreateBuffers(vertices []math.Vertex3D, indices []uint32) error {
	if b.vao != 0 {
		return errors.New("buffers already created")
	}

	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	if len(vertices) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*int(vertexStride), gl.Ptr(vertices), gl.STATIC_DRAW)
	}

	// position, normal, colour; three floats each
	for attr := uint32(0); attr < 3; attr++ {
		gl.EnableVertexAttribArray(attr)
		gl.VertexAttribPointerWithOffset(attr, 3, gl.FLOAT, false, vertexStride, uintptr(attr*3*4))
	}

	if len(indices) > 0 {
		gl.GenBuffers(1, &b.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		b.DeleteBuffers()
		return glError(code)
	}
	return nil
}

func (b *Backend) DeleteBuffers() {
	if b.ebo != 0 {
		gl.DeleteBuffers(1, &b.ebo)
		b.ebo = 0
	}
	if b.vbo != 0 {
		gl.DeleteBuffers(1, &b.vbo)
		b.vbo = 0
	}
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
		b.vao = 0
	}
}

func (b *Backend) Bind() {
	gl.BindVertexArray(b.vao)
}

func (b *Backend) Unbind() {
	gl.BindVertexArray(0)
}

func (b *Backend) Draw(topology metadata.Topology, count uint32) {
	if count == 0 {
		return
	}
	switch topology {
	case metadata.TopologyPoints:
		gl.DrawArrays(gl.POINTS, 0, int32(count))
	default:
		if b.ebo == 0 {
			gl.DrawArrays(gl.TRIANGLES, 0, int32(count))
			return
		}
		gl.DrawElementsWithOffset(gl.TRIANGLES, int32(count), gl.UNSIGNED_INT, 0)
	}
}

type glError uint32

func (e glError) Error() string {
	switch uint32(e) {
	case gl.INVALID_ENUM:
		return "GL_INVALID_ENUM"
	case gl.INVALID_VALUE:
		return "GL_INVALID_VALUE"
	case gl.INVALID_OPERATION:
		return "GL_INVALID_OPERATION"
	case gl.OUT_OF_MEMORY:
		return "GL_OUT_OF_MEMORY"
	}
	return "GL error"
}
