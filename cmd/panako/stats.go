package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"panako/storage"
)

func runStats(backend storage.Backend) {
	stats, err := backend.Stats()
	if err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}

	color.Cyan("corpus statistics:")
	fmt.Printf("\treferences:   %d\n", stats.TotalReferences)
	fmt.Printf("\tfingerprints: %d\n", stats.TotalFingerprints)
}
