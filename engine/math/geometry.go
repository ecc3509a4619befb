package math

import "github.com/spaghettifunk/meshview/engine/core"

// GeometryGenerateNormals overwrites the normal of every referenced vertex
// with the face normal of the last triangle touching it.
func GeometryGenerateNormals(vertices []Vertex3D, indices []uint32) {
	for i := 0; i+2 < len(indices); i += 3 {
		i0 := indices[i+0]
		i1 := indices[i+1]
		i2 := indices[i+2]

		edge1 := vertices[i1].Position.Sub(vertices[i0].Position)
		edge2 := vertices[i2].Position.Sub(vertices[i0].Position)

		// NOTE: This just generates a face normal. Smoothing out should be done in a separate pass if desired.
		normal := edge1.Cross(edge2).Normalized()
		vertices[i0].Normal = normal
		vertices[i1].Normal = normal
		vertices[i2].Normal = normal
	}
	core.LogDebug("geometry_generate_normals: %d triangles.", len(indices)/3)
}

// GeometryExtents returns the axis aligned bounds of the vertex positions.
// An empty slice yields zero extents.
func GeometryExtents(vertices []Vertex3D) Extents3D {
	if len(vertices) == 0 {
		return Extents3D{}
	}
	ext := Extents3D{Min: vertices[0].Position, Max: vertices[0].Position}
	for _, v := range vertices[1:] {
		p := v.Position
		ext.Min = Vec3{min(ext.Min.X, p.X), min(ext.Min.Y, p.Y), min(ext.Min.Z, p.Z)}
		ext.Max = Vec3{max(ext.Max.X, p.X), max(ext.Max.Y, p.Y), max(ext.Max.Z, p.Z)}
	}
	return ext
}

func (e Extents3D) Center() Vec3 {
	return e.Min.Add(e.Max).MulScalar(0.5)
}

func (e Extents3D) Size() Vec3 {
	return e.Max.Sub(e.Min)
}

func Vertex3dEqual(vert0 Vertex3D, vert1 Vertex3D) bool {
	return vert0.Position.Compare(vert1.Position, K_FLOAT_EPSILON) &&
		vert0.Normal.Compare(vert1.Normal, K_FLOAT_EPSILON) &&
		vert0.Colour.Compare(vert1.Colour, K_FLOAT_EPSILON)
}
