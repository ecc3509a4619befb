package metadata

import (
	"fmt"
	"path/filepath"
	"strings"
)

type SourceKind int

/** @brief Pre-defined geometry sources. */
const (
	/** @brief No source configured; resolved from the file extension. */
	SourceKindNone SourceKind = iota
	/** @brief A procedural grid of cubes; the path is ignored. */
	SourceKindInstanced
	/** @brief A 3D model file read through the import collaborator. */
	SourceKindModel
	/** @brief A tabular point file, one cube marker per row. */
	SourceKindMarker
	/** @brief A tabular point file, one vertex per row. */
	SourceKindPoints
)

func (k SourceKind) String() string {
	switch k {
	case SourceKindNone:
		return "none"
	case SourceKindInstanced:
		return "instanced"
	case SourceKindModel:
		return "model"
	case SourceKindMarker:
		return "marker"
	case SourceKindPoints:
		return "points"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseSourceKind maps the names used in the config file.
func ParseSourceKind(s string) (SourceKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return SourceKindNone, nil
	case "instanced":
		return SourceKindInstanced, nil
	case "model":
		return SourceKindModel, nil
	case "marker", "markers":
		return SourceKindMarker, nil
	case "points", "pointcloud":
		return SourceKindPoints, nil
	}
	return SourceKindNone, fmt.Errorf("unknown source kind %q", s)
}

// SourceKindFromPath guesses the source kind from the file extension.
func SourceKindFromPath(path string) SourceKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return SourceKindMarker
	case ".gltf", ".glb":
		return SourceKindModel
	default:
		return SourceKindInstanced
	}
}
