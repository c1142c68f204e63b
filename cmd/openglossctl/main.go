// Package main provides the entry point for the openglossctl CLI.
package main

import (
	"os"

	"github.com/opengloss/opengloss/cmd/openglossctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
