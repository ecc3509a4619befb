package systems

import (
	"testing"

	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCubeTemplateCorners(t *testing.T) {
	for _, h := range []float32{0.02, 0.1, 1, 3.5} {
		c := GenerateCubeTemplate(h)
		assert.Equal(t, h, c.HalfExtent)

		seen := map[math.Vec3]bool{}
		for i, v := range c.Vertices {
			p := v.Position
			for _, coord := range []float32{p.X, p.Y, p.Z} {
				assert.True(t, coord == h || coord == -h, "corner %d: %v", i, p)
			}
			// x slowest, z fastest
			assert.Equal(t, i&4 != 0, p.X > 0)
			assert.Equal(t, i&2 != 0, p.Y > 0)
			assert.Equal(t, i&1 != 0, p.Z > 0)
			// normals are the corner offsets, not face normals
			assert.Equal(t, p, v.Normal)
			seen[p] = true
		}
		assert.Len(t, seen, 8)
	}
}

func TestCubeTemplateFacesCoverEverySide(t *testing.T) {
	c := GenerateCubeTemplate(1)

	type side struct {
		axis int
		sign bool
	}
	triangles := map[side]int{}
	corners := map[side]map[uint32]bool{}

	for _, f := range c.Faces {
		var shared *side
		for axis := 0; axis < 3; axis++ {
			bit := uint32(4 >> axis)
			require.Less(t, f[0], CubeVertexCount)
			require.Less(t, f[1], CubeVertexCount)
			require.Less(t, f[2], CubeVertexCount)
			s0, s1, s2 := f[0]&bit != 0, f[1]&bit != 0, f[2]&bit != 0
			if s0 == s1 && s1 == s2 {
				require.Nil(t, shared, "triangle %v lies on two sides", f)
				shared = &side{axis, s0}
			}
		}
		require.NotNil(t, shared, "triangle %v does not lie on a side", f)
		triangles[*shared]++
		if corners[*shared] == nil {
			corners[*shared] = map[uint32]bool{}
		}
		for _, idx := range f {
			corners[*shared][idx] = true
		}
	}

	assert.Len(t, triangles, 6)
	for s, n := range triangles {
		assert.Equal(t, 2, n, "side %v", s)
		assert.Len(t, corners[s], 4, "side %v", s)
	}
}

func TestGenerateCubeTemplateRejectsNonPositive(t *testing.T) {
	assert.Equal(t, float32(1), GenerateCubeTemplate(0).HalfExtent)
	assert.Equal(t, float32(1), GenerateCubeTemplate(-2).HalfExtent)
}

func TestCubeStampOffsetsIndices(t *testing.T) {
	c := GenerateCubeTemplate(0.5)
	buf := metadata.NewGeometryBuffer()

	assert.Equal(t, uint32(0), c.Stamp(buf, math.Vec3{}))
	center := math.NewVec3(10, -2, 3)
	assert.Equal(t, uint32(8), c.StampColoured(buf, center, math.NewVec3(1, 0, 0)))

	require.Equal(t, uint32(16), buf.VertexCount())
	require.Equal(t, 2*CubeIndexCount, buf.IndexCount())
	require.NoError(t, buf.Validate())

	for i := uint32(0); i < CubeVertexCount; i++ {
		second := buf.Vertex(8 + i)
		assert.Equal(t, c.Vertices[i].Position, second.Position.Sub(center))
		assert.Equal(t, c.Vertices[i].Normal, second.Normal)
		assert.Equal(t, math.NewVec3(1, 0, 0), second.Colour)
		assert.Equal(t, math.Vec3{}, buf.Vertex(i).Colour)
	}
	idx := buf.Indices()
	for i, f := range c.Faces {
		assert.Equal(t, f[0]+8, idx[CubeIndexCount+uint32(i)*3])
		assert.Equal(t, f[2]+8, idx[CubeIndexCount+uint32(i)*3+2])
	}
}

func TestCubeWriteAtMatchesStamp(t *testing.T) {
	c := GenerateCubeTemplate(0.1)
	centers := []math.Vec3{{}, {X: 1}, {Y: 2, Z: -1}}

	stamped := metadata.NewGeometryBuffer()
	stamped.AppendVertex(math.Vertex3D{})
	for _, p := range centers {
		c.Stamp(stamped, p)
	}

	written := metadata.NewGeometryBuffer()
	written.AppendVertex(math.Vertex3D{})
	verts, idx, base := written.Extend(len(centers)*int(CubeVertexCount), len(centers)*int(CubeIndexCount))
	for k := len(centers) - 1; k >= 0; k-- {
		c.WriteAt(verts, idx, base, uint32(k), centers[k])
	}

	assert.Equal(t, stamped.Vertices(), written.Vertices())
	assert.Equal(t, stamped.Indices(), written.Indices())
}

func TestGridLayout(t *testing.T) {
	assert.Equal(t, uint32(46), GridSideLength(100000))
	assert.Equal(t, uint32(3), GridSideLength(27))
	assert.Equal(t, uint32(4), GridSideLength(64))
	assert.Equal(t, uint32(1), GridSideLength(1))
	assert.Equal(t, uint32(1), GridSideLength(0))

	spacing := float32(0.25)
	assert.Equal(t, math.Vec3{}, GridPosition(0, 3, spacing))
	assert.Equal(t, math.NewVec3(0.5, 0, 0), GridPosition(2, 3, spacing))
	assert.Equal(t, math.NewVec3(0, 0.25, 0), GridPosition(3, 3, spacing))
	assert.Equal(t, math.NewVec3(0.25, 0.5, 0.25), GridPosition(16, 3, spacing))
	// past side³ the cubes stack into further z layers
	assert.Equal(t, math.NewVec3(0, 0, 0.75), GridPosition(27, 3, spacing))
}
