package testbed

import (
	"testing"

	"github.com/spaghettifunk/meshview/engine"
	"github.com/spaghettifunk/meshview/engine/assets/loaders"
	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScene(t *testing.T) *engine.Scene {
	il := loaders.NewInstancedLoader()
	il.Count = 8
	mesh := renderer.NewMesh(il, nil)
	require.NoError(t, mesh.Load(""))

	camera := renderer.NewCamera()
	camera.Frame(mesh.Geometry().Extents())
	return &engine.Scene{Mesh: mesh, Camera: camera}
}

func TestViewerOrbitsUntilPaused(t *testing.T) {
	g := NewViewerGame(engine.DefaultApplicationConfig())
	scene := newScene(t)
	require.NoError(t, g.FnInitialize(scene))

	start := scene.Camera.Position
	require.NoError(t, g.FnUpdate(1.0))
	assert.False(t, scene.Camera.Position.Compare(start, 1e-6))

	require.NoError(t, g.FnOnKey(' '))
	paused := scene.Camera.Position
	require.NoError(t, g.FnUpdate(1.0))
	assert.Equal(t, paused, scene.Camera.Position)
}

func TestViewerArrowKeysAndReframe(t *testing.T) {
	g := NewViewerGame(engine.DefaultApplicationConfig())
	scene := newScene(t)
	require.NoError(t, g.FnInitialize(scene))
	framed := scene.Camera.Position

	require.NoError(t, g.FnOnKey('>'))
	require.NoError(t, g.FnOnKey('<'))
	assert.True(t, scene.Camera.Position.Compare(framed, 1e-4))

	scene.Camera.SetPosition(math.NewVec3(100, 0, 0))
	require.NoError(t, g.FnOnKey('F'))
	assert.Equal(t, framed, scene.Camera.Position)

	require.NoError(t, g.FnOnResize(640, 480))
	assert.Equal(t, uint32(640), g.state().width)
	require.NoError(t, g.FnShutdown())
}
