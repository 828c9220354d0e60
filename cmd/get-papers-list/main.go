// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the get-papers-list CLI, which lists
// PubMed papers that have at least one pharmaceutical or biotech author.
package main

import (
	"os"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
