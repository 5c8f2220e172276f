package main

import (
	"os"

	"github.com/bethropolis/ainativeignore/internal/app"
)

func main() {
	// Build the command tree; flags and config are resolved per command
	root := app.NewRootCommand(os.Stdout, os.Stderr)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
