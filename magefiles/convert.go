//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Convert builds the CLI and converts every configured master-data table.
func Convert() error {
	mg.Deps(Init, Build)
	return sh.RunV("./bin/masterdata", "convert")
}

// Index converts, then rebuilds the SQLite lookup index.
func Index() error {
	mg.Deps(Convert)
	return sh.RunV("./bin/masterdata", "lookup", "index")
}
