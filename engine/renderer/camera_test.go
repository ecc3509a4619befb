package renderer

import (
	"testing"

	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/stretchr/testify/assert"
)

func TestCameraFrameLooksAtCenter(t *testing.T) {
	c := NewCamera()
	c.Frame(math.Extents3D{
		Min: math.NewVec3(-1, -1, -1),
		Max: math.NewVec3(3, 1, 1),
	})

	assert.Equal(t, math.NewVec3(1, 0, 0), c.Target)
	assert.Greater(t, c.Position.Sub(c.Target).Length(), float32(2))
	assert.Greater(t, c.Far, c.Near)

	// the target ends up on the view axis
	view := c.GetView()
	eye := math.NewVec3(
		c.Target.X*view.Data[0]+c.Target.Y*view.Data[4]+c.Target.Z*view.Data[8]+view.Data[12],
		c.Target.X*view.Data[1]+c.Target.Y*view.Data[5]+c.Target.Z*view.Data[9]+view.Data[13],
		c.Target.X*view.Data[2]+c.Target.Y*view.Data[6]+c.Target.Z*view.Data[10]+view.Data[14],
	)
	assert.InDelta(t, 0, eye.X, 1e-4)
	assert.InDelta(t, 0, eye.Y, 1e-4)
	assert.Less(t, eye.Z, float32(0))
}

func TestCameraOrbitKeepsDistance(t *testing.T) {
	c := NewCamera()
	c.SetPosition(math.NewVec3(0, 2, 5))
	before := c.Position.Sub(c.Target).Length()
	_ = c.GetView()

	c.Orbit(math.K_PI / 2)
	assert.True(t, c.IsDirty)
	assert.InDelta(t, before, c.Position.Sub(c.Target).Length(), 1e-4)
	assert.InDelta(t, 5, c.Position.X, 1e-4)
	assert.InDelta(t, 2, c.Position.Y, 1e-4)
}

func TestCameraEmptyExtents(t *testing.T) {
	c := NewCamera()
	c.Frame(math.Extents3D{})
	assert.False(t, c.Position.Compare(c.Target, 1e-3))
}
