// Package main is the entry point for the markfind CLI.
package main

import (
	"os"

	"github.com/runger/markfind/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
