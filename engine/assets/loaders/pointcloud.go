package loaders

import (
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

// PointCloudLoader emits one vertex per row of a point file and no indices.
// Each vertex is coloured by its height; normals stay zero.
type PointCloudLoader struct {
	Columns PointColumns
	Tabular TabularConfig
}

func NewPointCloudLoader() *PointCloudLoader {
	return &PointCloudLoader{
		Columns: DefaultPointColumns,
		Tabular: DefaultTabularConfig(),
	}
}

func (pl *PointCloudLoader) Load(path string, buf *metadata.GeometryBuffer) error {
	points, err := ReadPoints(path, pl.Columns, pl.Tabular)
	if err != nil {
		core.LogError("points: %s", err)
		return err
	}

	buf.Clear()
	buf.Topology = metadata.TopologyPoints
	buf.Reserve(len(points), 0)
	for _, p := range points {
		buf.AppendVertex(math.Vertex3D{
			Position: p,
			Colour:   math.HeightColour(p),
		})
	}

	core.LogDebug("points: %d rows from '%s'.", len(points), path)
	return nil
}
