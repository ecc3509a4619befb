package engine

import "github.com/spaghettifunk/meshview/engine/renderer"

// Scene is what the engine hands to the game hooks: the mesh being viewed and
// the camera looking at it.
type Scene struct {
	Mesh   *renderer.Mesh
	Camera *renderer.Camera
}

type Game struct {
	ApplicationConfig *ApplicationConfig
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnOnKey           OnKey
	FnOnResize        OnResize
	FnShutdown        Shutdown
}

// Hooks left nil are skipped.
type Initialize func(scene *Scene) error
type Update func(deltaTime float64) error
type OnKey func(key rune) error
type OnResize func(width uint32, height uint32) error
type Shutdown func() error
