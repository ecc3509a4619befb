package renderer

import (
	"fmt"

	"github.com/spaghettifunk/meshview/engine/assets"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

/**
 * @brief The render handle of a piece of geometry. It owns one geometry
 * buffer and, once initialized, one buffer backend. Not safe for concurrent
 * use; GPU backed handles must be driven from the thread owning the context.
 */
type Mesh struct {
	ID   core.HandleID
	Path string

	loader     assets.Loader
	newBackend BackendFactory
	backend    BufferBackend

	buffer  *metadata.GeometryBuffer
	scratch *metadata.GeometryBuffer
}

func NewMesh(loader assets.Loader, backend BackendFactory) *Mesh {
	return &Mesh{
		ID:         core.NewHandleID(),
		loader:     loader,
		newBackend: backend,
		buffer:     metadata.NewGeometryBuffer(),
		scratch:    metadata.NewGeometryBuffer(),
	}
}

// SetLoader switches the source loader used by the next Load.
func (m *Mesh) SetLoader(loader assets.Loader) {
	m.loader = loader
}

/**
 * @brief Reads path into the geometry buffer. The loader fills a scratch
 * buffer that replaces the current one only on success, so a failed load
 * keeps both the CPU and GPU side geometry. GPU buffers are not touched;
 * call Init (or use Reload) to upload the new geometry.
 */
func (m *Mesh) Load(path string) error {
	if m.loader == nil {
		return fmt.Errorf("mesh %s: %w", m.ID.Short(), core.ErrUnknownLoader)
	}
	if err := m.loader.Load(path, m.scratch); err != nil {
		return err
	}
	m.buffer.Swap(m.scratch)
	m.scratch.Clear()
	m.Path = path

	core.LogDebug("mesh %s: loaded '%s' (%s, %d vertices, %d indices).", m.ID.Short(), path, m.buffer.Topology, m.buffer.VertexCount(), m.buffer.IndexCount())
	return nil
}

// Reload loads path and, when the mesh was already initialized, uploads the
// result in place of the previous GPU buffers.
func (m *Mesh) Reload(path string) error {
	if err := m.Load(path); err != nil {
		return err
	}
	if m.backend == nil {
		return nil
	}
	return m.Init()
}

/**
 * @brief Uploads the geometry buffer. The first call creates the backend;
 * later calls delete the previous buffers before uploading, so the GPU side
 * always mirrors the whole current geometry.
 */
func (m *Mesh) Init() error {
	if err := m.buffer.Validate(); err != nil {
		return fmt.Errorf("mesh %s: %w", m.ID.Short(), err)
	}
	if m.backend == nil {
		if m.newBackend == nil {
			return fmt.Errorf("mesh %s: no buffer backend", m.ID.Short())
		}
		m.backend = m.newBackend()
	} else {
		m.backend.DeleteBuffers()
	}

	if err := m.backend.CreateBuffers(m.buffer.Vertices(), m.buffer.Indices()); err != nil {
		// the old buffers are gone, so the mesh is no longer drawable
		m.backend.DeleteBuffers()
		m.backend = nil
		return fmt.Errorf("mesh %s: %w", m.ID.Short(), err)
	}
	core.LogDebug("mesh %s: buffers created.", m.ID.Short())
	return nil
}

// Destroy releases the backend. The geometry buffer is kept so a later Init
// can upload it again.
func (m *Mesh) Destroy() {
	if m.backend == nil {
		return
	}
	m.backend.DeleteBuffers()
	m.backend = nil
	core.LogDebug("mesh %s: buffers deleted.", m.ID.Short())
}

func (m *Mesh) Initialized() bool {
	return m.backend != nil
}

func (m *Mesh) Bind() {
	if m.backend != nil {
		m.backend.Bind()
	}
}

func (m *Mesh) Unbind() {
	if m.backend != nil {
		m.backend.Unbind()
	}
}

// Render issues one draw call covering the whole geometry: every index for
// triangle geometry, every vertex for point clouds.
func (m *Mesh) Render() error {
	if m.backend == nil {
		return fmt.Errorf("mesh %s: %w", m.ID.Short(), core.ErrMeshNotInitialized)
	}
	m.backend.Draw(m.buffer.Topology, m.buffer.DrawCount())
	return nil
}

// Geometry exposes the current geometry buffer for inspection.
func (m *Mesh) Geometry() *metadata.GeometryBuffer {
	return m.buffer
}
