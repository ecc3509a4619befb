package opengl

import (
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/spaghettifunk/meshview/engine/core"
)

// Initialize loads the GL function pointers of the current context and sets
// the fixed pipeline state of the viewer. The context must be current on the
// calling thread.
func Initialize() error {
	if err := gl.Init(); err != nil {
		return err
	}
	core.LogInfo("OpenGL %s (%s)", gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.RENDERER)))

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.ClearColor(0.08, 0.08, 0.1, 1.0)
	return nil
}

func BeginFrame(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}
