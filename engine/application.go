package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/meshview/engine/assets"
	"github.com/spaghettifunk/meshview/engine/assets/loaders"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

type SourceConfig struct {
	// One of instanced, model, marker or points. Empty means guess from Path.
	Kind string `toml:"kind"`
	Path string `toml:"path"`
	// Reload the source whenever the file changes on disk.
	Watch bool `toml:"watch"`
}

type InstancedConfig struct {
	Count      uint32  `toml:"count"`
	HalfExtent float32 `toml:"half_extent"`
	Spacing    float32 `toml:"spacing"`
}

type MarkerConfig struct {
	HalfExtent float32   `toml:"half_extent"`
	Colored    bool      `toml:"colored"`
	Columns    [3]string `toml:"columns"`
}

type ModelConfig struct {
	FallbackHalfExtent float32 `toml:"fallback_half_extent"`
}

type JobsConfig struct {
	Workers   int `toml:"workers"`
	QueueSize int `toml:"queue_size"`
}

type ApplicationConfig struct {
	// Window starting position x axis, if applicable.
	StartPosX uint32 `toml:"start_x"`
	// Window starting position y axis, if applicable.
	StartPosY uint32 `toml:"start_y"`
	// Window starting width, if applicable.
	StartWidth uint32 `toml:"start_width"`
	// Window starting height, if applicable.
	StartHeight uint32 `toml:"start_height"`
	// The application name used in windowing, if applicable.
	Name     string `toml:"name"`
	LogLevel string `toml:"log_level"`

	Source    SourceConfig    `toml:"source"`
	Instanced InstancedConfig `toml:"instanced"`
	Marker    MarkerConfig    `toml:"marker"`
	Model     ModelConfig     `toml:"model"`
	Jobs      JobsConfig      `toml:"jobs"`
}

func DefaultApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		StartPosX:   100,
		StartPosY:   100,
		StartWidth:  1280,
		StartHeight: 720,
		Name:        "Meshview",
		LogLevel:    "info",
		Source: SourceConfig{
			Kind: metadata.SourceKindInstanced.String(),
		},
		Instanced: InstancedConfig{
			Count:      loaders.DefaultInstanceCount,
			HalfExtent: loaders.DefaultInstanceHalfExtent,
			Spacing:    loaders.DefaultInstanceSpacing,
		},
		Marker: MarkerConfig{
			HalfExtent: loaders.DefaultMarkerHalfExtent,
			Columns:    loaders.DefaultPointColumns,
		},
		Model: ModelConfig{
			FallbackHalfExtent: loaders.DefaultModelFallbackHalfExtent,
		},
		Jobs: JobsConfig{
			Workers:   runtime.NumCPU(),
			QueueSize: 64,
		},
	}
}

/**
 * @brief Reads the TOML file at path over the defaults. A missing file is
 * not an error and yields the defaults. The result is sanitised.
 */
func LoadApplicationConfig(path string) (*ApplicationConfig, error) {
	cfg := DefaultApplicationConfig()
	if path == "" {
		return cfg, cfg.Sanitise()
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		core.LogWarn("config '%s' not found, using defaults.", path)
		return cfg, cfg.Sanitise()
	}
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config '%s': %w", path, err)
	}
	if err := cfg.Sanitise(); err != nil {
		return nil, fmt.Errorf("config '%s': %w", path, err)
	}
	return cfg, nil
}

// Sanitise replaces unusable values with their defaults and rejects an
// unknown source kind or log level.
func (c *ApplicationConfig) Sanitise() error {
	def := DefaultApplicationConfig()

	if _, err := core.ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := metadata.ParseSourceKind(c.Source.Kind); err != nil {
		return err
	}

	c.StartWidth = math.AtLeast(c.StartWidth, 1, def.StartWidth)
	c.StartHeight = math.AtLeast(c.StartHeight, 1, def.StartHeight)
	if c.Name == "" {
		c.Name = def.Name
	}

	c.Instanced.Count = math.Clamp(c.Instanced.Count, 0, loaders.MaxInstanceCount)
	c.Instanced.HalfExtent = math.AtLeast(c.Instanced.HalfExtent, math.K_FLOAT_EPSILON, def.Instanced.HalfExtent)
	c.Instanced.Spacing = math.AtLeast(c.Instanced.Spacing, 2, def.Instanced.Spacing)
	c.Marker.HalfExtent = math.AtLeast(c.Marker.HalfExtent, math.K_FLOAT_EPSILON, def.Marker.HalfExtent)
	c.Model.FallbackHalfExtent = math.AtLeast(c.Model.FallbackHalfExtent, math.K_FLOAT_EPSILON, def.Model.FallbackHalfExtent)
	for i, name := range c.Marker.Columns {
		if name == "" {
			c.Marker.Columns[i] = def.Marker.Columns[i]
		}
	}

	c.Jobs.Workers = math.Clamp(c.Jobs.Workers, 1, 4*runtime.NumCPU())
	c.Jobs.QueueSize = math.AtLeast(c.Jobs.QueueSize, 0, def.Jobs.QueueSize)
	return nil
}

// SourceKind resolves the configured kind, falling back to the extension of
// the source path.
func (c *ApplicationConfig) SourceKind() metadata.SourceKind {
	kind, err := metadata.ParseSourceKind(c.Source.Kind)
	if err != nil || kind == metadata.SourceKindNone {
		return metadata.SourceKindFromPath(c.Source.Path)
	}
	return kind
}

// LoaderSettings maps the loader sections onto the asset manager settings.
func (c *ApplicationConfig) LoaderSettings(jobs loaders.RangeDispatcher) assets.LoaderSettings {
	return assets.LoaderSettings{
		InstanceCount:      c.Instanced.Count,
		InstanceHalfExtent: c.Instanced.HalfExtent,
		InstanceSpacing:    c.Instanced.Spacing,
		MarkerHalfExtent:   c.Marker.HalfExtent,
		MarkerColoured:     c.Marker.Colored,
		Columns:            loaders.PointColumns(c.Marker.Columns),
		FallbackHalfExtent: c.Model.FallbackHalfExtent,
		Jobs:               jobs,
	}
}
