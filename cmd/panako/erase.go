package main

import (
	"os"

	"github.com/fatih/color"

	"panako/storage"
)

func runErase(backend storage.Backend, refID string) {
	if err := backend.Delete(refID); err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
	color.Green("removed %q from the corpus", refID)
}
