/*
Meshview opens a window showing one geometry source: a procedural grid of
cubes, a glTF model, or a tabular point file drawn as markers or points.
*/
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/meshview/engine"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/testbed"
)

func main() {
	configPath := flag.String("config", "meshview.toml", "path of the TOML configuration file")
	source := flag.String("source", "", "geometry source, overrides [source] path")
	kind := flag.String("kind", "", "instanced, model, marker or points; guessed from -source when empty")
	flag.Parse()

	cfg, err := engine.LoadApplicationConfig(*configPath)
	if err != nil {
		core.LogFatal("failed to load config: %s", err)
	}
	if *source != "" {
		cfg.Source.Path = *source
		cfg.Source.Kind = *kind
	} else if *kind != "" {
		cfg.Source.Kind = *kind
	}

	vg := testbed.NewViewerGame(cfg)

	engine, err := engine.New(vg.Game)
	if err != nil {
		core.LogFatal("failed to create engine: %s", err)
	}

	if err := engine.Initialize(); err != nil {
		_ = engine.Shutdown()
		core.LogFatal("failed to initialize engine: %s", err)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// stop the loop; the main thread tears down the window and GL objects
	go func() {
		<-sigCh
		engine.Stop()
	}()

	// run engine
	if err := engine.Run(); err != nil {
		core.LogError(err.Error())
	}
	if err := engine.Shutdown(); err != nil {
		core.LogError("shutdown: %s", err)
	}
}
