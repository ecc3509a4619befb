package engine

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spaghettifunk/meshview/engine/assets/loaders"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "meshview.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadApplicationConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadApplicationConfig(filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultApplicationConfig(), cfg)
	assert.Equal(t, metadata.SourceKindInstanced, cfg.SourceKind())
}

func TestLoadApplicationConfig(t *testing.T) {
	path := writeConfig(t, `
name = "survey"
log_level = "debug"
start_width = 800

[source]
kind = "marker"
path = "scan.csv"
watch = true

[marker]
half_extent = 0.05
colored = true
columns = ["x", "y", "z"]

[jobs]
workers = 2
queue_size = 8
`)
	cfg, err := LoadApplicationConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "survey", cfg.Name)
	assert.Equal(t, uint32(800), cfg.StartWidth)
	assert.Equal(t, uint32(720), cfg.StartHeight)
	assert.Equal(t, metadata.SourceKindMarker, cfg.SourceKind())
	assert.True(t, cfg.Source.Watch)
	assert.Equal(t, 2, cfg.Jobs.Workers)

	settings := cfg.LoaderSettings(nil)
	assert.Equal(t, float32(0.05), settings.MarkerHalfExtent)
	assert.True(t, settings.MarkerColoured)
	assert.Equal(t, loaders.PointColumns{"x", "y", "z"}, settings.Columns)
	assert.Equal(t, loaders.DefaultInstanceCount, settings.InstanceCount)
}

func TestLoadApplicationConfigSanitises(t *testing.T) {
	path := writeConfig(t, `
start_width = 0
name = ""

[instanced]
count = 4000000000
half_extent = -1.0
spacing = 0.5

[marker]
columns = ["", "b", ""]

[jobs]
workers = 0
queue_size = -3
`)
	cfg, err := LoadApplicationConfig(path)
	require.NoError(t, err)

	def := DefaultApplicationConfig()
	assert.Equal(t, def.StartWidth, cfg.StartWidth)
	assert.Equal(t, def.Name, cfg.Name)
	assert.Equal(t, loaders.MaxInstanceCount, cfg.Instanced.Count)
	assert.Equal(t, loaders.DefaultInstanceHalfExtent, cfg.Instanced.HalfExtent)
	assert.Equal(t, loaders.DefaultInstanceSpacing, cfg.Instanced.Spacing)
	assert.Equal(t, [3]string{"Points_m_XYZ:0", "b", "Points_m_XYZ:2"}, cfg.Marker.Columns)
	assert.Equal(t, 1, cfg.Jobs.Workers)
	assert.Equal(t, 64, cfg.Jobs.QueueSize)
}

func TestLoadApplicationConfigRejectsUnknownValues(t *testing.T) {
	_, err := LoadApplicationConfig(writeConfig(t, "[source]\nkind = \"voxels\"\n"))
	assert.ErrorContains(t, err, "unknown source kind")

	_, err = LoadApplicationConfig(writeConfig(t, "log_level = \"loud\"\n"))
	assert.Error(t, err)

	_, err = LoadApplicationConfig(writeConfig(t, "name = [1, 2"))
	assert.Error(t, err)
}

func TestSourceKindFromPathWhenUnset(t *testing.T) {
	cfg := DefaultApplicationConfig()
	cfg.Source.Kind = ""

	cfg.Source.Path = "car.glb"
	assert.Equal(t, metadata.SourceKindModel, cfg.SourceKind())
	cfg.Source.Path = "scan.csv"
	assert.Equal(t, metadata.SourceKindMarker, cfg.SourceKind())
	cfg.Source.Path = ""
	assert.Equal(t, metadata.SourceKindInstanced, cfg.SourceKind())
}

func TestDefaultWorkersFollowCPUs(t *testing.T) {
	assert.Equal(t, runtime.NumCPU(), DefaultApplicationConfig().Jobs.Workers)
}
