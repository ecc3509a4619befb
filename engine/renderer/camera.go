package renderer

import (
	m "math"

	"github.com/spaghettifunk/meshview/engine/math"
)

const (
	DefaultFOV  float32 = 45.0
	DefaultNear float32 = 0.01
	DefaultFar  float32 = 1000.0
)

/**
 * @brief A camera looking at a target point. The view matrix is rebuilt
 * lazily whenever the position or target changed.
 */
type Camera struct {
	Position math.Vec3
	Target   math.Vec3
	// Vertical field of view in degrees.
	FOV  float32
	Near float32
	Far  float32

	IsDirty    bool
	ViewMatrix math.Mat4
}

func NewCamera() *Camera {
	camera := &Camera{}
	camera.Reset()
	return camera
}

func (c *Camera) Reset() {
	c.Position = math.NewVec3(0, 0, 10)
	c.Target = math.NewVec3Zero()
	c.FOV = DefaultFOV
	c.Near = DefaultNear
	c.Far = DefaultFar
	c.IsDirty = true
}

func (c *Camera) SetPosition(position math.Vec3) {
	c.Position = position
	c.IsDirty = true
}

func (c *Camera) SetTarget(target math.Vec3) {
	c.Target = target
	c.IsDirty = true
}

func (c *Camera) GetView() math.Mat4 {
	if c.IsDirty {
		c.ViewMatrix = math.NewMat4LookAt(c.Position, c.Target, math.NewVec3Up())
		c.IsDirty = false
	}
	return c.ViewMatrix
}

func (c *Camera) Projection(aspectRatio float32) math.Mat4 {
	if aspectRatio <= 0 {
		aspectRatio = 1
	}
	return math.NewMat4Perspective(math.DegToRad(c.FOV), aspectRatio, c.Near, c.Far)
}

// ViewProjection is the matrix taking world positions to clip space.
func (c *Camera) ViewProjection(aspectRatio float32) math.Mat4 {
	return c.GetView().Mul(c.Projection(aspectRatio))
}

/**
 * @brief Places the camera so the given extents fit the view: it looks at
 * their center from above and in front, and pushes the far plane out far
 * enough for large grids.
 */
func (c *Camera) Frame(extents math.Extents3D) {
	center := extents.Center()
	radius := extents.Size().Length() * 0.5
	if radius < math.K_FLOAT_EPSILON {
		radius = 1
	}
	distance := radius / float32(m.Sin(float64(math.DegToRad(c.FOV)*0.5)))

	c.Target = center
	c.Position = center.Add(math.NewVec3(0, 0.5, 1).Normalized().MulScalar(distance))
	c.Near = distance * 0.001
	c.Far = distance + radius*2
	c.IsDirty = true
}

// Orbit rotates the camera position around the target about the vertical axis.
func (c *Camera) Orbit(radians float32) {
	offset := c.Position.Sub(c.Target)
	sin, cos := float32(m.Sin(float64(radians))), float32(m.Cos(float64(radians)))
	c.Position = c.Target.Add(math.NewVec3(
		offset.X*cos+offset.Z*sin,
		offset.Y,
		-offset.X*sin+offset.Z*cos,
	))
	c.IsDirty = true
}
