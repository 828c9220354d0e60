//go:build mage

package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Search builds the CLI and runs it for query with debug output, writing
// CSV to standard output. Extra flags can be passed in GET_PAPERS_FLAGS.
func Search(query string) error {
	mg.Deps(Build)

	args := []string{query, "--debug"}
	args = append(args, strings.Fields(os.Getenv("GET_PAPERS_FLAGS"))...)
	return sh.RunV(filepath.Join(binDir, binName), args...)
}
