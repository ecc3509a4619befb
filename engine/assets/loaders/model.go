package loaders

import (
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
	"github.com/spaghettifunk/meshview/engine/systems"
)

const DefaultModelFallbackHalfExtent float32 = 1.0

// ModelLoader copies the first mesh of an imported scene. When the import
// fails or yields no mesh it emits a single cube instead and still succeeds.
type ModelLoader struct {
	Importer           Importer
	Flags              ImportFlags
	FallbackHalfExtent float32
}

func NewModelLoader() *ModelLoader {
	return &ModelLoader{
		Importer:           &GLTFImporter{},
		Flags:              DefaultImportFlags,
		FallbackHalfExtent: DefaultModelFallbackHalfExtent,
	}
}

func (ml *ModelLoader) Load(path string, buf *metadata.GeometryBuffer) error {
	scene, err := ml.Importer.Import(path, ml.Flags)
	if err != nil || !scene.HasMeshes() {
		if err == nil {
			err = core.NewLoadError(core.SchemaMismatch, path, errNoMeshes)
		}
		core.LogWarn("model: %s. Falling back to a unit cube.", err)
		buf.Clear()
		systems.GenerateCubeTemplate(ml.FallbackHalfExtent).Stamp(buf, math.NewVec3Zero())
		return nil
	}

	if len(scene.Meshes) > 1 {
		core.LogDebug("model: '%s' holds %d meshes, only the first is used.", path, len(scene.Meshes))
	}
	mesh := scene.Meshes[0]

	buf.Clear()
	buf.Reserve(len(mesh.Vertices), len(mesh.Faces)*3)
	for _, v := range mesh.Vertices {
		buf.AppendVertex(v)
	}
	for _, f := range mesh.Faces {
		buf.AppendTriangle(f)
	}

	core.LogDebug("model: mesh '%s' from '%s', %d vertices, %d indices.", mesh.Name, path, buf.VertexCount(), buf.IndexCount())
	return nil
}
