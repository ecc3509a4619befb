package renderer

import (
	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

// BufferBackend owns the graphics API buffer objects of a single Mesh.
// CreateBuffers replaces whatever a previous call uploaded; Draw consumes
// count elements starting from the most recent upload.
type BufferBackend interface {
	CreateBuffers(vertices []math.Vertex3D, indices []uint32) error
	DeleteBuffers()
	Bind()
	Unbind()
	Draw(topology metadata.Topology, count uint32)
}

// BackendFactory creates the backend a Mesh exclusively owns.
type BackendFactory func() BufferBackend
