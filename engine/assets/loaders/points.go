package loaders

import (
	"fmt"

	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/math"
)

// PointColumns names the x, y and z columns of a point file.
type PointColumns [3]string

var DefaultPointColumns = PointColumns{"Points_m_XYZ:0", "Points_m_XYZ:1", "Points_m_XYZ:2"}

// ReadPoints reads every data row of the file at path and returns the
// positions already remapped into the renderer frame. Nothing is returned
// unless the whole file converted cleanly.
func ReadPoints(path string, columns PointColumns, cfg TabularConfig) ([]math.Vec3, error) {
	table, err := OpenTable(path, cfg)
	if err != nil {
		return nil, err
	}

	var cols [3]int
	for axis, name := range columns {
		col, ok := table.Column(name)
		if !ok {
			return nil, &core.LoadError{
				Kind:   core.SchemaMismatch,
				Path:   path,
				Column: name,
				Err:    fmt.Errorf("required column missing, header is %v", table.Header),
			}
		}
		cols[axis] = col
	}

	points := make([]math.Vec3, 0, table.Len())
	for row := 0; row < table.Len(); row++ {
		var xyz [3]float32
		for axis, col := range cols {
			v, err := table.Float(row, col)
			if err != nil {
				return nil, &core.LoadError{
					Kind:   core.ValueConversion,
					Path:   path,
					Column: columns[axis],
					Row:    row + 1,
					Err:    err,
				}
			}
			xyz[axis] = v
		}
		points = append(points, math.RemapZUp(math.NewVec3(xyz[0], xyz[1], xyz[2])))
	}
	return points, nil
}
