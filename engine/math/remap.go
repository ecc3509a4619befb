package math

// RemapZUp converts a point from the Z-up survey frame of point-cloud files to
// the renderer's Y-up frame: (x, y, z) -> (x, z, -y).
func RemapZUp(p Vec3) Vec3 {
	return Vec3{p.X, p.Z, -p.Y}
}

// UnmapZUp is the inverse of RemapZUp: (x, y, z) -> (x, -z, y).
func UnmapZUp(p Vec3) Vec3 {
	return Vec3{p.X, -p.Z, p.Y}
}

// HeightColour derives the pseudo-colour used to shade point data by its
// vertical position in the renderer frame.
func HeightColour(p Vec3) Vec3 {
	return Vec3{0.3 + p.Y, 0.27 - p.Y, 0.5}
}
