//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Downloads the modules and builds the viewer binary into bin/.
func (Build) Viewer() error {
	if _, err := executeCmd("go", withArgs("mod", "download"), withStream()); err != nil {
		return err
	}
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/meshview", "."), withStream()); err != nil {
		return err
	}
	return nil
}

type Test mg.Namespace

// Runs the unit tests. Generating the default 100k cube grid is skipped.
func (Test) Unit() error {
	if _, err := executeCmd("go", withArgs("test", "-short", "-race", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs every test, including the full size instanced grid.
func (Test) All() error {
	if _, err := executeCmd("go", withArgs("test", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}
