package testbed

import (
	"github.com/spaghettifunk/meshview/engine"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/math"
)

const (
	// radians per second while auto-orbiting
	orbitSpeed float32 = 0.25
	// radians per arrow key press
	orbitStep float32 = math.K_PI / 16
)

type ViewerGame struct {
	*engine.Game
}

type viewerState struct {
	scene    *engine.Scene
	orbiting bool
	width    uint32
	height   uint32
}

// NewViewerGame wires the viewer's hooks around cfg: the camera slowly orbits
// the loaded geometry, space toggles the orbit and the arrow keys step it.
func NewViewerGame(cfg *engine.ApplicationConfig) *ViewerGame {
	vg := &ViewerGame{
		Game: &engine.Game{
			ApplicationConfig: cfg,
			State:             &viewerState{orbiting: true},
		},
	}

	vg.FnInitialize = vg.Initialize
	vg.FnUpdate = vg.Update
	vg.FnOnKey = vg.OnKey
	vg.FnOnResize = vg.OnResize
	vg.FnShutdown = vg.Shutdown

	return vg
}

func (g *ViewerGame) state() *viewerState {
	return g.State.(*viewerState)
}

func (g *ViewerGame) Initialize(scene *engine.Scene) error {
	core.LogInfo("viewing '%s' (%d vertices).", scene.Mesh.Path, scene.Mesh.Geometry().VertexCount())
	g.state().scene = scene
	return nil
}

func (g *ViewerGame) Update(deltaTime float64) error {
	s := g.state()
	if s.orbiting && s.scene != nil {
		s.scene.Camera.Orbit(orbitSpeed * float32(deltaTime))
	}
	return nil
}

func (g *ViewerGame) OnKey(key rune) error {
	s := g.state()
	switch key {
	case ' ':
		s.orbiting = !s.orbiting
		core.LogDebug("orbit %t", s.orbiting)
	case '<':
		s.scene.Camera.Orbit(-orbitStep)
	case '>':
		s.scene.Camera.Orbit(orbitStep)
	case 'F':
		s.scene.Camera.Frame(s.scene.Mesh.Geometry().Extents())
	}
	return nil
}

func (g *ViewerGame) OnResize(width uint32, height uint32) error {
	s := g.state()
	s.width, s.height = width, height
	return nil
}

func (g *ViewerGame) Shutdown() error {
	core.LogInfo("shutting down viewer...")
	return nil
}
