//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Builds and runs the viewer. MESHVIEW_CONFIG and MESHVIEW_SOURCE are passed
// through as -config and -source when set.
func (Run) Viewer() error {
	mg.Deps(Build.Viewer)

	var args []string
	if cfg := os.Getenv("MESHVIEW_CONFIG"); cfg != "" {
		args = append(args, "-config", cfg)
	}
	if src := os.Getenv("MESHVIEW_SOURCE"); src != "" {
		args = append(args, "-source", src)
	}

	fmt.Println("Run viewer...")
	if _, err := executeCmd("bin/meshview", withArgs(args...), withStream()); err != nil {
		return err
	}
	return nil
}
