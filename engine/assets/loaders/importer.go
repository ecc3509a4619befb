package loaders

import (
	"errors"
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

// ImportFlags select the post-processing applied while importing a model.
type ImportFlags uint32

const (
	ImportCalcTangentSpace ImportFlags = 1 << iota
	// Turn triangle strips and fans into plain triangle lists.
	ImportTriangulate
	// Drop point and line primitives instead of failing on them.
	ImportSortByPType
	// Compute face normals for primitives that carry none.
	ImportGenNormals
	ImportGenUVCoords
	// Join all triangle primitives of a mesh into a single imported mesh.
	ImportOptimizeMeshes
	// Reject primitives with indices outside their vertex range.
	ImportValidateDataStructure
)

// DefaultImportFlags is the set the model loader uses. Tangent and UV
// generation are accepted but have no effect since vertices carry neither.
const DefaultImportFlags = ImportCalcTangentSpace |
	ImportTriangulate |
	ImportSortByPType |
	ImportGenNormals |
	ImportGenUVCoords |
	ImportOptimizeMeshes |
	ImportValidateDataStructure

var errNoMeshes = errors.New("scene contains no triangle meshes")

var errSkipPrimitive = errors.New("primitive skipped")

type ImportedMesh struct {
	Name     string
	Vertices []math.Vertex3D
	Faces    []metadata.Triangle
}

type Scene struct {
	Meshes []*ImportedMesh
}

func (s *Scene) HasMeshes() bool {
	return s != nil && len(s.Meshes) > 0
}

// Importer turns a model file into a scene of triangle meshes.
type Importer interface {
	Import(path string, flags ImportFlags) (*Scene, error)
}

// GLTFImporter reads .gltf and .glb files.
type GLTFImporter struct{}

func (gi *GLTFImporter) Import(path string, flags ImportFlags) (*Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, core.NewLoadError(core.SourceUnreadable, path, err)
	}

	scene := &Scene{}
	for mi, mesh := range doc.Meshes {
		var joined *ImportedMesh
		for pi, prim := range mesh.Primitives {
			im, err := readPrimitive(doc, prim, flags)
			if errors.Is(err, errSkipPrimitive) {
				core.LogDebug("gltf: skipping primitive %d of mesh %d: %s", pi, mi, err)
				continue
			}
			if err != nil {
				return nil, &core.LoadError{
					Kind: core.SchemaMismatch,
					Path: path,
					Err:  fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err),
				}
			}
			im.Name = mesh.Name
			if flags&ImportOptimizeMeshes == 0 {
				scene.Meshes = append(scene.Meshes, im)
				continue
			}
			if joined == nil {
				joined = im
				continue
			}
			base := uint32(len(joined.Vertices))
			joined.Vertices = append(joined.Vertices, im.Vertices...)
			for _, f := range im.Faces {
				joined.Faces = append(joined.Faces, metadata.Triangle{f[0] + base, f[1] + base, f[2] + base})
			}
		}
		if joined != nil {
			scene.Meshes = append(scene.Meshes, joined)
		}
	}

	core.LogDebug("gltf: '%s' imported with %d meshes.", path, len(scene.Meshes))
	return scene, nil
}

func readPrimitive(doc *gltf.Document, prim *gltf.Primitive, flags ImportFlags) (*ImportedMesh, error) {
	switch prim.Mode {
	case gltf.PrimitiveTriangles:
	case gltf.PrimitiveTriangleStrip, gltf.PrimitiveTriangleFan:
		if flags&ImportTriangulate == 0 {
			return nil, fmt.Errorf("primitive mode %d needs triangulation", prim.Mode)
		}
	default:
		if flags&ImportSortByPType != 0 {
			return nil, fmt.Errorf("%w: non-triangle mode %d", errSkipPrimitive, prim.Mode)
		}
		return nil, fmt.Errorf("unsupported primitive mode %d", prim.Mode)
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("%w: no POSITION attribute", errSkipPrimitive)
	}
	acc, err := accessor(doc, posIdx)
	if err != nil {
		return nil, err
	}
	positions, err := modeler.ReadPosition(doc, acc, nil)
	if err != nil {
		return nil, err
	}

	var normals [][3]float32
	if nIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if acc, err = accessor(doc, nIdx); err != nil {
			return nil, err
		}
		if normals, err = modeler.ReadNormal(doc, acc, nil); err != nil {
			return nil, err
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		if acc, err = accessor(doc, *prim.Indices); err != nil {
			return nil, err
		}
		if indices, err = modeler.ReadIndices(doc, acc, nil); err != nil {
			return nil, err
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	im := &ImportedMesh{
		Vertices: make([]math.Vertex3D, len(positions)),
		Faces:    triangulate(prim.Mode, indices),
	}
	for i, p := range positions {
		im.Vertices[i].Position = math.NewVec3(p[0], p[1], p[2])
		if i < len(normals) {
			n := normals[i]
			im.Vertices[i].Normal = math.NewVec3(n[0], n[1], n[2])
		}
	}

	inRange := facesInRange(im.Faces, uint32(len(positions)))
	if flags&ImportValidateDataStructure != 0 && !inRange {
		return nil, fmt.Errorf("index out of range for %d vertices", len(positions))
	}
	if normals == nil && flags&ImportGenNormals != 0 && inRange {
		flat := make([]uint32, 0, len(im.Faces)*3)
		for _, f := range im.Faces {
			flat = append(flat, f[0], f[1], f[2])
		}
		math.GeometryGenerateNormals(im.Vertices, flat)
	}
	return im, nil
}

// accessor resolves an accessor index and checks that the buffer view and
// buffer it reads from exist, so malformed documents fail instead of panicking.
func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) || doc.Accessors[idx] == nil {
		return nil, fmt.Errorf("accessor %d out of range (%d accessors)", idx, len(doc.Accessors))
	}
	acc := doc.Accessors[idx]
	if acc.BufferView == nil {
		return acc, nil
	}
	bv := *acc.BufferView
	if bv < 0 || bv >= len(doc.BufferViews) || doc.BufferViews[bv] == nil {
		return nil, fmt.Errorf("accessor %d: buffer view %d out of range (%d views)", idx, bv, len(doc.BufferViews))
	}
	view := doc.BufferViews[bv]
	if view.Buffer < 0 || view.Buffer >= len(doc.Buffers) || doc.Buffers[view.Buffer] == nil {
		return nil, fmt.Errorf("buffer view %d: buffer %d out of range (%d buffers)", bv, view.Buffer, len(doc.Buffers))
	}
	if end := view.ByteOffset + view.ByteLength; view.ByteOffset < 0 || end > len(doc.Buffers[view.Buffer].Data) {
		return nil, fmt.Errorf("buffer view %d: bytes [%d, %d) exceed buffer %d", bv, view.ByteOffset, end, view.Buffer)
	}
	return acc, nil
}

func triangulate(mode gltf.PrimitiveMode, indices []uint32) []metadata.Triangle {
	var faces []metadata.Triangle
	switch mode {
	case gltf.PrimitiveTriangleStrip:
		for i := 2; i < len(indices); i++ {
			// keep a consistent winding on every other triangle
			if i%2 == 0 {
				faces = append(faces, metadata.Triangle{indices[i-2], indices[i-1], indices[i]})
			} else {
				faces = append(faces, metadata.Triangle{indices[i-1], indices[i-2], indices[i]})
			}
		}
	case gltf.PrimitiveTriangleFan:
		for i := 2; i < len(indices); i++ {
			faces = append(faces, metadata.Triangle{indices[0], indices[i-1], indices[i]})
		}
	default:
		for i := 0; i+2 < len(indices); i += 3 {
			faces = append(faces, metadata.Triangle{indices[i], indices[i+1], indices[i+2]})
		}
	}
	return faces
}

func facesInRange(faces []metadata.Triangle, vertexCount uint32) bool {
	for _, f := range faces {
		if f[0] >= vertexCount || f[1] >= vertexCount || f[2] >= vertexCount {
			return false
		}
	}
	return true
}
