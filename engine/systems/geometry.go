package systems

import (
	m "math"

	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

const (
	/** @brief Corners of the cube template. */
	CubeVertexCount uint32 = 8
	/** @brief Triangles of the cube template, two per side. */
	CubeFaceCount uint32 = 12
	/** @brief Raw indices appended per stamped cube. */
	CubeIndexCount uint32 = CubeFaceCount * 3
)

/*
 * Corner i sits at (x, y, z) with x = +h when bit 2 of i is set, y = +h for
 * bit 1 and z = +h for bit 0, so x varies slowest. The face table below is
 * tied to that ordering; changing either one flips or drops faces.
 */
var cubeFaces = [CubeFaceCount]metadata.Triangle{
	{0, 2, 4},
	{2, 4, 6},
	{0, 1, 2},
	{1, 2, 3},
	{1, 3, 5},
	{3, 5, 7},
	{4, 5, 6},
	{5, 6, 7},
	{2, 3, 6},
	{3, 6, 7},
	{0, 1, 4},
	{1, 4, 5},
}

/**
 * @brief A read-only 8 vertex / 12 triangle cube centered at the origin,
 * used as a stamp by the procedural loaders. Vertex normals equal the
 * corner position relative to the center.
 */
type CubeTemplate struct {
	HalfExtent float32
	Vertices   [CubeVertexCount]math.Vertex3D
	Faces      [CubeFaceCount]metadata.Triangle
}

/**
 * @brief Generates the cube template for the given half extent.
 *
 * @param halfExtent Half of the edge length. Must be positive; defaults to one otherwise.
 * @return The generated template.
 */
func GenerateCubeTemplate(halfExtent float32) *CubeTemplate {
	if halfExtent <= 0 || m.IsNaN(float64(halfExtent)) {
		core.LogWarn("halfExtent must be positive (got %f). Defaulting to one.", halfExtent)
		halfExtent = 1.0
	}

	c := &CubeTemplate{
		HalfExtent: halfExtent,
		Faces:      cubeFaces,
	}
	for i := uint32(0); i < CubeVertexCount; i++ {
		corner := math.NewVec3(
			cornerSign(i, 2)*halfExtent,
			cornerSign(i, 1)*halfExtent,
			cornerSign(i, 0)*halfExtent,
		)
		c.Vertices[i] = math.Vertex3D{Position: corner, Normal: corner}
	}
	return c
}

func cornerSign(corner uint32, bit uint) float32 {
	if corner&(1<<bit) != 0 {
		return 1.0
	}
	return -1.0
}

// Stamp appends the cube translated to center and returns the index of its
// first vertex. Face indices are offset by that index.
func (c *CubeTemplate) Stamp(buf *metadata.GeometryBuffer, center math.Vec3) uint32 {
	return c.stamp(buf, center, math.Vec3{})
}

// StampColoured is Stamp with every vertex carrying the given colour.
func (c *CubeTemplate) StampColoured(buf *metadata.GeometryBuffer, center, colour math.Vec3) uint32 {
	return c.stamp(buf, center, colour)
}

func (c *CubeTemplate) stamp(buf *metadata.GeometryBuffer, center, colour math.Vec3) uint32 {
	base := buf.VertexCount()
	for _, v := range c.Vertices {
		buf.AppendVertex(math.Vertex3D{
			Position: v.Position.Add(center),
			Normal:   v.Normal,
			Colour:   colour,
		})
	}
	for _, f := range c.Faces {
		buf.AppendTriangle(metadata.Triangle{f[0] + base, f[1] + base, f[2] + base})
	}
	return base
}

// WriteAt fills the k-th cube slot of pre-sized vertex and index slices, as
// returned by GeometryBuffer.Extend, with base being the buffer index of the
// first vertex in vertices. Distinct k may be written concurrently.
func (c *CubeTemplate) WriteAt(vertices []math.Vertex3D, indices []uint32, base uint32, k uint32, center math.Vec3) {
	vOffset := k * CubeVertexCount
	iOffset := k * CubeIndexCount
	first := base + vOffset
	for i, v := range c.Vertices {
		vertices[vOffset+uint32(i)] = math.Vertex3D{
			Position: v.Position.Add(center),
			Normal:   v.Normal,
		}
	}
	for i, f := range c.Faces {
		at := iOffset + uint32(i)*3
		indices[at+0] = f[0] + first
		indices[at+1] = f[1] + first
		indices[at+2] = f[2] + first
	}
}

/**
 * @brief Side length of the cubic grid holding count cubes: floor(cbrt(count)),
 * never less than one.
 */
func GridSideLength(count uint32) uint32 {
	side := uint32(m.Cbrt(float64(count)))
	// guard against cbrt rounding just below an exact cube
	for (side+1)*(side+1)*(side+1) <= count {
		side++
	}
	if side == 0 {
		side = 1
	}
	return side
}

/**
 * @brief Position of the k-th cube in the grid: (k mod s, (k/s) mod s, k/s²)
 * scaled by spacing, with integer division. The z layer is unbounded, so
 * counts that are not perfect cubes spill into extra layers.
 */
func GridPosition(k, side uint32, spacing float32) math.Vec3 {
	return math.NewVec3(
		float32(k%side)*spacing,
		float32((k/side)%side)*spacing,
		float32(k/side/side)*spacing,
	)
}
