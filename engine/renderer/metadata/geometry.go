package metadata

import (
	"fmt"

	"github.com/spaghettifunk/meshview/engine/math"
)

/** @brief How the index (or vertex) stream of a geometry is assembled. */
type Topology uint8

const (
	/** @brief Every three indices form a triangle. */
	TopologyTriangles Topology = iota
	/** @brief Vertices are drawn as points in insertion order; no indices. */
	TopologyPoints
)

func (t Topology) String() string {
	switch t {
	case TopologyTriangles:
		return "triangles"
	case TopologyPoints:
		return "points"
	}
	return fmt.Sprintf("topology(%d)", uint8(t))
}

/** @brief Three indices into the vertex list of the same buffer. */
type Triangle [3]uint32

/**
 * @brief The intermediate vertex+index representation produced by a source
 * loader and handed to the GPU buffer backend.
 *
 * Appends are unchecked; out-of-range indices are a caller error that
 * Validate reports before upload. Not safe for concurrent mutation.
 */
type GeometryBuffer struct {
	/** @brief The primitive assembly of the buffer. */
	Topology Topology

	vertices []math.Vertex3D
	indices  []uint32
}

func NewGeometryBuffer() *GeometryBuffer {
	return &GeometryBuffer{}
}

/** @brief Empties both sequences and resets the topology to triangles. */
func (b *GeometryBuffer) Clear() {
	b.Topology = TopologyTriangles
	b.vertices = b.vertices[:0]
	b.indices = b.indices[:0]
}

// Reserve grows the capacity so that the given amounts can be appended
// without reallocating.
func (b *GeometryBuffer) Reserve(vertexCount, indexCount int) {
	if free := cap(b.vertices) - len(b.vertices); free < vertexCount {
		grown := make([]math.Vertex3D, len(b.vertices), len(b.vertices)+vertexCount)
		copy(grown, b.vertices)
		b.vertices = grown
	}
	if free := cap(b.indices) - len(b.indices); free < indexCount {
		grown := make([]uint32, len(b.indices), len(b.indices)+indexCount)
		copy(grown, b.indices)
		b.indices = grown
	}
}

/** @brief Appends v and returns its index, the vertex count before the append. */
func (b *GeometryBuffer) AppendVertex(v math.Vertex3D) uint32 {
	idx := uint32(len(b.vertices))
	b.vertices = append(b.vertices, v)
	return idx
}

/** @brief Appends a raw index. The caller applies any vertex offset. */
func (b *GeometryBuffer) AppendIndex(i uint32) {
	b.indices = append(b.indices, i)
}

// Extend grows both sequences by the given amounts and returns the new,
// zeroed tails together with the index of the first new vertex. Disjoint
// parts of the tails may be filled concurrently.
func (b *GeometryBuffer) Extend(vertexCount, indexCount int) ([]math.Vertex3D, []uint32, uint32) {
	base := uint32(len(b.vertices))
	b.Reserve(vertexCount, indexCount)
	vStart, iStart := len(b.vertices), len(b.indices)
	b.vertices = b.vertices[:vStart+vertexCount]
	b.indices = b.indices[:iStart+indexCount]
	return b.vertices[vStart:], b.indices[iStart:], base
}

func (b *GeometryBuffer) AppendTriangle(t Triangle) {
	b.indices = append(b.indices, t[0], t[1], t[2])
}

func (b *GeometryBuffer) VertexCount() uint32 {
	return uint32(len(b.vertices))
}

/** @brief The number of raw indices, i.e. three per triangle. */
func (b *GeometryBuffer) IndexCount() uint32 {
	return uint32(len(b.indices))
}

func (b *GeometryBuffer) TriangleCount() uint32 {
	return uint32(len(b.indices) / 3)
}

// Vertices exposes the backing slice. Callers must not retain it across Clear.
func (b *GeometryBuffer) Vertices() []math.Vertex3D {
	return b.vertices
}

// Indices exposes the backing slice. Callers must not retain it across Clear.
func (b *GeometryBuffer) Indices() []uint32 {
	return b.indices
}

func (b *GeometryBuffer) Vertex(i uint32) math.Vertex3D {
	return b.vertices[i]
}

// DrawCount is the number of elements a draw call consumes: indices for
// triangle geometry, vertices for point clouds.
func (b *GeometryBuffer) DrawCount() uint32 {
	if b.Topology == TopologyPoints {
		return b.VertexCount()
	}
	return b.IndexCount()
}

func (b *GeometryBuffer) Extents() math.Extents3D {
	return math.GeometryExtents(b.vertices)
}

/**
 * @brief Checks the buffer invariants before it is handed to the backend:
 * every index references an existing vertex and triangle geometry holds a
 * whole number of triangles.
 */
func (b *GeometryBuffer) Validate() error {
	if b.Topology == TopologyTriangles && len(b.indices)%3 != 0 {
		return fmt.Errorf("index count %d is not a multiple of 3", len(b.indices))
	}
	count := uint32(len(b.vertices))
	for pos, idx := range b.indices {
		if idx >= count {
			return fmt.Errorf("index %d at position %d out of range (vertex count %d)", idx, pos, count)
		}
	}
	return nil
}

// Swap exchanges the contents of the two buffers. Loaders build into a
// scratch buffer and swap it in only once the whole source was read.
func (b *GeometryBuffer) Swap(other *GeometryBuffer) {
	b.Topology, other.Topology = other.Topology, b.Topology
	b.vertices, other.vertices = other.vertices, b.vertices
	b.indices, other.indices = other.indices, b.indices
}
