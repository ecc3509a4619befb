package assets

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/meshview/engine/assets/loaders"
	"github.com/spaghettifunk/meshview/engine/containers"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

// LoaderSettings carries the tunables of every source loader.
type LoaderSettings struct {
	InstanceCount      uint32
	InstanceHalfExtent float32
	InstanceSpacing    float32

	MarkerHalfExtent float32
	MarkerColoured   bool
	Columns          loaders.PointColumns

	FallbackHalfExtent float32

	// Optional worker pool for the instanced loader.
	Jobs loaders.RangeDispatcher
}

func DefaultLoaderSettings() LoaderSettings {
	return LoaderSettings{
		InstanceCount:      loaders.DefaultInstanceCount,
		InstanceHalfExtent: loaders.DefaultInstanceHalfExtent,
		InstanceSpacing:    loaders.DefaultInstanceSpacing,
		MarkerHalfExtent:   loaders.DefaultMarkerHalfExtent,
		Columns:            loaders.DefaultPointColumns,
		FallbackHalfExtent: loaders.DefaultModelFallbackHalfExtent,
	}
}

type AssetManager struct {
	settings LoaderSettings
	loaders  map[metadata.SourceKind]Loader

	mutex   sync.RWMutex
	watched map[string]struct{}
	reloads *containers.RingQueue[string]

	done     chan struct{}
	stopped  chan struct{}
	fsnotify *fsnotify.Watcher
	started  bool
	isClosed bool
}

// NewAssetManager creates the manager. Changes to watched files are pushed to
// reloads, which may be nil when hot reload is not wanted.
func NewAssetManager(settings LoaderSettings, reloads *containers.RingQueue[string]) (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &AssetManager{
		settings: settings,
		loaders:  make(map[metadata.SourceKind]Loader),
		watched:  make(map[string]struct{}),
		reloads:  reloads,
		fsnotify: fsWatch,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}, nil
}

func (am *AssetManager) Initialize() error {
	am.mutex.Lock()
	if !am.started {
		am.started = true
		go am.start()
	}
	am.mutex.Unlock()

	s := am.settings
	instanced := loaders.NewInstancedLoader()
	instanced.Count = s.InstanceCount
	instanced.HalfExtent = s.InstanceHalfExtent
	instanced.Spacing = s.InstanceSpacing
	instanced.Jobs = s.Jobs

	marker := loaders.NewMarkerLoader()
	marker.HalfExtent = s.MarkerHalfExtent
	marker.Coloured = s.MarkerColoured
	marker.Columns = s.Columns

	points := loaders.NewPointCloudLoader()
	points.Columns = s.Columns

	model := loaders.NewModelLoader()
	model.FallbackHalfExtent = s.FallbackHalfExtent

	// Register loaders
	am.registerLoader(metadata.SourceKindInstanced, instanced)
	am.registerLoader(metadata.SourceKindMarker, marker)
	am.registerLoader(metadata.SourceKindPoints, points)
	am.registerLoader(metadata.SourceKindModel, model)

	return nil
}

// Register loaders for each source kind
func (am *AssetManager) registerLoader(kind metadata.SourceKind, loader Loader) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.loaders[kind] = loader
}

// LoaderFor returns the loader registered for kind.
func (am *AssetManager) LoaderFor(kind metadata.SourceKind) (Loader, error) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	loader, ok := am.loaders[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownLoader, kind)
	}
	return loader, nil
}

// Watch reports writes to the named file on the reload queue. The parent
// directory is watched since editors often replace files instead of writing
// them in place.
func (am *AssetManager) Watch(path string) error {
	am.mutex.RLock()
	closed := am.isClosed
	am.mutex.RUnlock()
	if closed {
		return errors.New("asset manager already closed")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := am.fsnotify.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	am.mutex.Lock()
	am.watched[abs] = struct{}{}
	am.mutex.Unlock()
	core.LogDebug("watching '%s' for changes.", abs)
	return nil
}

// Unwatch stops reporting changes to the named file.
func (am *AssetManager) Unwatch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	am.mutex.Lock()
	delete(am.watched, abs)
	am.mutex.Unlock()
	return nil
}

func (am *AssetManager) Shutdown() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return nil
	}
	am.isClosed = true
	started := am.started
	am.mutex.Unlock()

	if !started {
		return am.fsnotify.Close()
	}
	close(am.done)
	<-am.stopped
	return nil
}

func (am *AssetManager) start() {
	defer close(am.stopped)
	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				am.handleFileEvent(e.Name)
			}

		case e, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError(e.Error())

		case <-am.done:
			am.fsnotify.Close()
			return
		}
	}
}

// Handle the creation or modification of a file
func (am *AssetManager) handleFileEvent(name string) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return
	}
	am.mutex.RLock()
	_, watched := am.watched[abs]
	am.mutex.RUnlock()
	if !watched || am.reloads == nil {
		return
	}

	if err := am.reloads.Enqueue(abs); err != nil {
		core.LogWarn("dropping reload of '%s': %s", abs, err)
		return
	}
	core.LogDebug("'%s' changed, reload queued.", abs)
}
