package loaders

import (
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
	"github.com/spaghettifunk/meshview/engine/systems"
)

const DefaultMarkerHalfExtent float32 = 0.02

// MarkerLoader stamps one cube per row of a point file, centered on the
// row's remapped position.
type MarkerLoader struct {
	HalfExtent float32
	// Colour every marker by its height, see math.HeightColour.
	Coloured bool
	Columns  PointColumns
	Tabular  TabularConfig
}

func NewMarkerLoader() *MarkerLoader {
	return &MarkerLoader{
		HalfExtent: DefaultMarkerHalfExtent,
		Columns:    DefaultPointColumns,
		Tabular:    DefaultTabularConfig(),
	}
}

func (ml *MarkerLoader) Load(path string, buf *metadata.GeometryBuffer) error {
	points, err := ReadPoints(path, ml.Columns, ml.Tabular)
	if err != nil {
		core.LogError("marker: %s", err)
		return err
	}

	tmpl := systems.GenerateCubeTemplate(ml.HalfExtent)
	buf.Clear()
	buf.Reserve(len(points)*int(systems.CubeVertexCount), len(points)*int(systems.CubeIndexCount))
	for _, p := range points {
		if ml.Coloured {
			tmpl.StampColoured(buf, p, math.HeightColour(p))
		} else {
			tmpl.Stamp(buf, p)
		}
	}

	core.LogDebug("marker: %d rows from '%s', %d vertices, %d indices.", len(points), path, buf.VertexCount(), buf.IndexCount())
	return nil
}
