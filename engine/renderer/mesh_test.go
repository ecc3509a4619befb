package renderer

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/meshview/engine/assets/loaders"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type drawCall struct {
	topology metadata.Topology
	count    uint32
}

type fakeBackend struct {
	created  int
	deleted  int
	bound    bool
	vertices int
	indices  int
	draws    []drawCall
	fail     error
}

func (fb *fakeBackend) CreateBuffers(vertices []math.Vertex3D, indices []uint32) error {
	if fb.fail != nil {
		return fb.fail
	}
	fb.created++
	fb.vertices = len(vertices)
	fb.indices = len(indices)
	return nil
}

func (fb *fakeBackend) DeleteBuffers() { fb.deleted++ }
func (fb *fakeBackend) Bind()          { fb.bound = true }
func (fb *fakeBackend) Unbind()        { fb.bound = false }

func (fb *fakeBackend) Draw(topology metadata.Topology, count uint32) {
	fb.draws = append(fb.draws, drawCall{topology, count})
}

type factory struct {
	made []*fakeBackend
}

func (f *factory) new() BufferBackend {
	fb := &fakeBackend{}
	f.made = append(f.made, fb)
	return fb
}

// failingLoader leaves a partial result behind before failing, which Mesh
// must never expose.
type failingLoader struct{}

func (failingLoader) Load(path string, buf *metadata.GeometryBuffer) error {
	buf.Clear()
	buf.AppendVertex(math.Vertex3D{})
	return core.NewLoadError(core.SourceUnreadable, path, errors.New("boom"))
}

func smallGrid(n uint32) *loaders.InstancedLoader {
	il := loaders.NewInstancedLoader()
	il.Count = n
	return il
}

func TestMeshLifecycle(t *testing.T) {
	f := &factory{}
	mesh := NewMesh(smallGrid(2), f.new)
	assert.NotEmpty(t, mesh.ID)

	assert.ErrorIs(t, mesh.Render(), core.ErrMeshNotInitialized)

	require.NoError(t, mesh.Load(""))
	require.NoError(t, mesh.Init())
	require.Len(t, f.made, 1)
	fb := f.made[0]
	assert.Equal(t, 1, fb.created)
	assert.Equal(t, 16, fb.vertices)
	assert.Equal(t, 72, fb.indices)

	mesh.Bind()
	assert.True(t, fb.bound)
	require.NoError(t, mesh.Render())
	mesh.Unbind()
	assert.False(t, fb.bound)
	assert.Equal(t, []drawCall{{metadata.TopologyTriangles, 72}}, fb.draws)

	mesh.Destroy()
	assert.Equal(t, 1, fb.deleted)
	assert.False(t, mesh.Initialized())
	assert.ErrorIs(t, mesh.Render(), core.ErrMeshNotInitialized)
	// a second destroy is a no-op
	mesh.Destroy()
	assert.Equal(t, 1, fb.deleted)
}

func TestMeshReloadReplacesBuffers(t *testing.T) {
	f := &factory{}
	mesh := NewMesh(smallGrid(1), f.new)
	require.NoError(t, mesh.Load(""))
	require.NoError(t, mesh.Init())

	mesh.SetLoader(smallGrid(3))
	require.NoError(t, mesh.Reload(""))

	require.Len(t, f.made, 1, "the backend is reused")
	fb := f.made[0]
	assert.Equal(t, 2, fb.created)
	assert.Equal(t, 1, fb.deleted)
	assert.Equal(t, 24, fb.vertices)

	require.NoError(t, mesh.Render())
	assert.Equal(t, uint32(108), fb.draws[0].count)
}

func TestMeshFailedLoadKeepsGeometry(t *testing.T) {
	f := &factory{}
	mesh := NewMesh(smallGrid(1), f.new)
	require.NoError(t, mesh.Load("first"))
	require.NoError(t, mesh.Init())

	mesh.SetLoader(failingLoader{})
	err := mesh.Reload("second")
	require.ErrorIs(t, err, core.ErrSourceUnreadable)

	assert.Equal(t, "first", mesh.Path)
	assert.Equal(t, uint32(8), mesh.Geometry().VertexCount())
	fb := f.made[0]
	assert.Equal(t, 1, fb.created)
	assert.Equal(t, 0, fb.deleted)
}

func TestMeshRendersPointClouds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.csv")
	f := &factory{}
	mesh := NewMesh(loaders.NewPointCloudLoader(), f.new)
	require.ErrorIs(t, mesh.Load(path), core.ErrSourceUnreadable)

	mesh.Geometry().Topology = metadata.TopologyPoints
	mesh.Geometry().AppendVertex(math.Vertex3D{})
	mesh.Geometry().AppendVertex(math.Vertex3D{})
	require.NoError(t, mesh.Init())
	require.NoError(t, mesh.Render())
	assert.Equal(t, []drawCall{{metadata.TopologyPoints, 2}}, f.made[0].draws)
}

func TestMeshInitRejectsInvalidGeometry(t *testing.T) {
	f := &factory{}
	mesh := NewMesh(smallGrid(1), f.new)
	mesh.Geometry().AppendVertex(math.Vertex3D{})
	mesh.Geometry().AppendTriangle(metadata.Triangle{0, 1, 2})

	assert.Error(t, mesh.Init())
	assert.Empty(t, f.made)
}

func TestMeshInitPropagatesBackendError(t *testing.T) {
	mesh := NewMesh(smallGrid(1), func() BufferBackend {
		return &fakeBackend{fail: errors.New("out of memory")}
	})
	require.NoError(t, mesh.Load(""))
	assert.ErrorContains(t, mesh.Init(), "out of memory")
	assert.False(t, mesh.Initialized())
	assert.ErrorIs(t, mesh.Render(), core.ErrMeshNotInitialized)
}

func TestMeshFailedReinitIsNotDrawable(t *testing.T) {
	f := &factory{}
	mesh := NewMesh(smallGrid(1), f.new)
	require.NoError(t, mesh.Load(""))
	require.NoError(t, mesh.Init())

	f.made[0].fail = errors.New("out of memory")
	mesh.SetLoader(smallGrid(2))
	assert.ErrorContains(t, mesh.Reload(""), "out of memory")

	assert.False(t, mesh.Initialized())
	assert.ErrorIs(t, mesh.Render(), core.ErrMeshNotInitialized)
	assert.Empty(t, f.made[0].draws)

	// a later successful init starts over with a fresh backend
	f.made[0].fail = nil
	require.NoError(t, mesh.Init())
	require.Len(t, f.made, 2)
	require.NoError(t, mesh.Render())
	assert.Equal(t, uint32(72), f.made[1].draws[0].count)
}

func TestMeshWithoutLoader(t *testing.T) {
	mesh := NewMesh(nil, nil)
	assert.ErrorIs(t, mesh.Load("x"), core.ErrUnknownLoader)
	assert.Error(t, mesh.Init())
}
