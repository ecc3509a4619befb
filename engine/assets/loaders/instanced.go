package loaders

import (
	"math"

	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
	"github.com/spaghettifunk/meshview/engine/systems"
)

const (
	DefaultInstanceCount      uint32  = 100000
	DefaultInstanceHalfExtent float32 = 0.1
	// Grid pitch as a multiple of the half extent.
	DefaultInstanceSpacing float32 = 2.5
	// Largest count whose index total still fits a signed 32-bit draw count.
	MaxInstanceCount uint32 = math.MaxInt32 / systems.CubeIndexCount
)

// RangeDispatcher runs fn over a partition of [0, n) and returns when every
// part is done. *systems.JobSystem implements it.
type RangeDispatcher interface {
	ParallelFor(n int, fn func(lo, hi int))
}

// InstancedLoader stamps Count cubes on a regular grid. It ignores the path
// it is given.
type InstancedLoader struct {
	Count      uint32
	HalfExtent float32
	Spacing    float32
	// Optional. When set, cube ranges are generated concurrently.
	Jobs RangeDispatcher
}

func NewInstancedLoader() *InstancedLoader {
	return &InstancedLoader{
		Count:      DefaultInstanceCount,
		HalfExtent: DefaultInstanceHalfExtent,
		Spacing:    DefaultInstanceSpacing,
	}
}

func (il *InstancedLoader) instanceCount() uint32 {
	if il.Count > MaxInstanceCount {
		core.LogWarn("instanced: count %d exceeds %d, clamping.", il.Count, MaxInstanceCount)
		return MaxInstanceCount
	}
	return il.Count
}

func (il *InstancedLoader) Load(path string, buf *metadata.GeometryBuffer) error {
	count := il.instanceCount()
	tmpl := systems.GenerateCubeTemplate(il.HalfExtent)
	side := systems.GridSideLength(count)
	spacing := tmpl.HalfExtent * il.Spacing

	buf.Clear()
	verts, indices, base := buf.Extend(
		int(count)*int(systems.CubeVertexCount),
		int(count)*int(systems.CubeIndexCount),
	)

	fill := func(lo, hi int) {
		for k := uint32(lo); k < uint32(hi); k++ {
			tmpl.WriteAt(verts, indices, base, k, systems.GridPosition(k, side, spacing))
		}
	}
	if il.Jobs != nil {
		il.Jobs.ParallelFor(int(count), fill)
	} else {
		fill(0, int(count))
	}

	core.LogDebug("instanced: %d cubes on a %d-wide grid, %d vertices, %d indices.", count, side, buf.VertexCount(), buf.IndexCount())
	return nil
}
