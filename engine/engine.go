package engine

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/spaghettifunk/meshview/engine/assets"
	"github.com/spaghettifunk/meshview/engine/containers"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/platform"
	"github.com/spaghettifunk/meshview/engine/renderer"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
	"github.com/spaghettifunk/meshview/engine/renderer/opengl"
	"github.com/spaghettifunk/meshview/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

const reloadQueueSize = 16

type Engine struct {
	currentStage Stage
	gameInstance *Game
	config       *ApplicationConfig
	isRunning    atomic.Bool
	isSuspended  bool

	platform     *platform.Platform
	jobSystem    *systems.JobSystem
	assetManager *assets.AssetManager
	reloads      *containers.RingQueue[string]
	program      *opengl.Program

	scene   *Scene
	width   uint32
	height  uint32
	clock   *core.Clock
	metrics *core.Metrics
}

func New(g *Game) (*Engine, error) {
	if g.ApplicationConfig == nil {
		g.ApplicationConfig = DefaultApplicationConfig()
	}
	cfg := g.ApplicationConfig
	if err := cfg.Sanitise(); err != nil {
		return nil, err
	}
	level, err := core.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	core.SetLogLevel(level)

	js, err := systems.NewJobSystem(cfg.Jobs.Workers, cfg.Jobs.QueueSize)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	reloads := containers.NewRingQueue[string](reloadQueueSize)
	am, err := assets.NewAssetManager(cfg.LoaderSettings(js), reloads)
	if err != nil {
		core.LogError(err.Error())
		js.Shutdown()
		return nil, err
	}

	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		config:       cfg,
		platform:     platform.New(),
		jobSystem:    js,
		assetManager: am,
		reloads:      reloads,
		clock:        core.NewClock(),
		metrics:      core.NewMetrics(),
		width:        cfg.StartWidth,
		height:       cfg.StartHeight,
	}, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing
	cfg := e.config

	if err := e.platform.Startup(cfg.Name, cfg.StartPosX, cfg.StartPosY, cfg.StartWidth, cfg.StartHeight); err != nil {
		return err
	}
	e.platform.OnKeyPressed = e.onKey
	e.platform.OnResized = e.onResized

	if err := opengl.Initialize(); err != nil {
		return err
	}
	program, err := opengl.NewMeshProgram()
	if err != nil {
		return err
	}
	e.program = program

	if err := e.assetManager.Initialize(); err != nil {
		return err
	}

	kind := cfg.SourceKind()
	loader, err := e.assetManager.LoaderFor(kind)
	if err != nil {
		return err
	}
	core.LogInfo("source '%s' read as %s.", cfg.Source.Path, kind)

	e.scene = &Scene{
		Mesh:   renderer.NewMesh(loader, opengl.NewBackendFactory()),
		Camera: renderer.NewCamera(),
	}

	// a failed first load still opens the viewer, with nothing to draw
	if err := e.scene.Mesh.Load(cfg.Source.Path); err != nil {
		core.LogError("initial load failed: %s", err)
	}
	if err := e.scene.Mesh.Init(); err != nil {
		return err
	}
	e.scene.Camera.Frame(e.scene.Mesh.Geometry().Extents())

	if cfg.Source.Watch && kind != metadata.SourceKindInstanced {
		if err := e.assetManager.Watch(cfg.Source.Path); err != nil {
			core.LogWarn("cannot watch '%s': %s", cfg.Source.Path, err)
		}
	}

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(e.scene); err != nil {
			return err
		}
	}
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
			return err
		}
	}

	e.currentStage = EngineStageInitialized
	return nil
}

func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return errors.New("engine not initialized")
	}
	e.currentStage = EngineStageRunning
	e.isRunning.Store(true)

	e.clock.Start()
	e.clock.Update()
	lastTime := e.clock.Seconds()
	lastReport := lastTime

	for e.isRunning.Load() {
		if !e.platform.PumpMessages() {
			e.isRunning.Store(false)
			break
		}
		e.processReloads()

		if e.isSuspended {
			time.Sleep(10 * time.Millisecond)
			continue
		}

		e.clock.Update()
		currentTime := e.clock.Seconds()
		delta := currentTime - lastTime
		frameStartTime := platform.GetAbsoluteTime()

		if e.gameInstance.FnUpdate != nil {
			if err := e.gameInstance.FnUpdate(delta); err != nil {
				core.LogError("Game update failed, shutting down: %s", err)
				e.isRunning.Store(false)
				break
			}
		}

		if err := e.drawFrame(); err != nil {
			core.LogError("Render failed, shutting down: %s", err)
			e.isRunning.Store(false)
			break
		}

		e.metrics.Update(platform.GetAbsoluteTime() - frameStartTime)
		if currentTime-lastReport >= 5 {
			fps, frameMS := e.metrics.Frame()
			core.LogDebug("%.0f fps, %.3f ms/frame", fps, frameMS)
			lastReport = currentTime
		}
		lastTime = currentTime
	}

	e.clock.Stop()
	return nil
}

func (e *Engine) drawFrame() error {
	width, height := e.platform.FramebufferSize()
	opengl.BeginFrame(width, height)

	e.program.Use()
	e.program.SetViewProjection(e.scene.Camera.ViewProjection(float32(width) / float32(max(height, 1))))
	e.program.SetPointSize(opengl.DefaultPointSize)

	mesh := e.scene.Mesh
	mesh.Bind()
	err := mesh.Render()
	mesh.Unbind()
	if err != nil {
		return err
	}

	e.platform.SwapBuffers()
	return nil
}

// processReloads drains pending reload requests. Repeated requests for the
// same path collapse into one load.
func (e *Engine) processReloads() {
	pending := e.reloads.Drain()
	seen := make(map[string]bool, len(pending))
	for _, path := range pending {
		if seen[path] {
			continue
		}
		seen[path] = true

		if err := e.scene.Mesh.Reload(path); err != nil {
			core.LogError("reload of '%s' failed, keeping previous geometry: %s", path, err)
			continue
		}
		e.scene.Camera.Frame(e.scene.Mesh.Geometry().Extents())
		core.LogInfo("reloaded '%s'.", path)
	}
}

// RequestReload queues a reload of the current source. Safe to call from any
// goroutine.
func (e *Engine) RequestReload() error {
	path := e.config.Source.Path
	if e.scene != nil && e.scene.Mesh.Path != "" {
		path = e.scene.Mesh.Path
	}
	return e.reloads.Enqueue(path)
}

// Stop asks a running engine to leave its loop. Safe to call from any goroutine.
func (e *Engine) Stop() {
	e.isRunning.Store(false)
	e.platform.RequestClose()
}

// Shutdown releases everything Initialize acquired. Must run on the main
// thread after Run returned.
func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	var errs []error

	if e.gameInstance.FnShutdown != nil {
		errs = append(errs, e.gameInstance.FnShutdown())
	}
	if e.scene != nil {
		e.scene.Mesh.Destroy()
	}
	if e.program != nil {
		e.program.Delete()
	}
	errs = append(errs, e.assetManager.Shutdown())
	errs = append(errs, e.jobSystem.Shutdown())
	errs = append(errs, e.platform.Shutdown())

	e.currentStage = EngineStageUninitialized
	return errors.Join(errs...)
}

func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) onKey(key platform.Key) {
	if key == platform.KeyR {
		if err := e.RequestReload(); err != nil {
			core.LogWarn("reload request dropped: %s", err)
		}
		return
	}
	if e.gameInstance.FnOnKey == nil {
		return
	}
	if err := e.gameInstance.FnOnKey(keyRune(key)); err != nil {
		core.LogError("key hook failed: %s", err)
	}
}

func keyRune(key platform.Key) rune {
	switch key {
	case platform.KeyLeft:
		return '<'
	case platform.KeyRight:
		return '>'
	}
	return rune(key)
}

func (e *Engine) onResized(width, height int) {
	w, h := uint32(max(width, 0)), uint32(max(height, 0))
	if w == e.width && h == e.height {
		return
	}
	e.width, e.height = w, h
	core.LogDebug("Window resize: %d, %d", w, h)

	if w == 0 || h == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(w, h); err != nil {
			core.LogError("resize hook failed: %s", err)
		}
	}
}
