// Command panako is the CLI entry point wiring the core pipeline,
// storage backends, and HTTP surface into generate/match/monitor/
// serve/stats/erase workflows.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"panako/core"
	"panako/storage"
	"panako/util"
)

const defaultStorageConfigPath = "panako-storage.yaml"

func main() {
	_ = util.CreateFolder("tmp")
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	storageCfg, err := storage.LoadConfig(util.GetEnv("PANAKO_STORAGE_CONFIG", defaultStorageConfigPath))
	if err != nil {
		log.Fatalf("loading storage config: %v", err)
	}

	pipelineCfg := core.DefaultConfig()
	if err := pipelineCfg.Validate(); err != nil {
		log.Fatalf("invalid pipeline config: %v", err)
	}

	backend, err := storage.Open(storageCfg)
	if err != nil {
		log.Fatalf("opening storage backend: %v", err)
	}
	defer backend.Close()

	switch os.Args[1] {
	case "generate":
		generateCmd := flag.NewFlagSet("generate", flag.ExitOnError)
		monitor := generateCmd.Bool("monitor", false, "segment long inputs with overlapping windows")
		refID := generateCmd.String("ref-id", "", "reference id (defaults to filename without extension)")
		generateCmd.Parse(os.Args[2:])
		if generateCmd.NArg() < 1 {
			fmt.Println("usage: panako generate [-monitor] [-ref-id ID] <audio_path>")
			os.Exit(1)
		}
		runGenerate(backend, pipelineCfg, generateCmd.Arg(0), *refID, *monitor)

	case "match":
		matchCmd := flag.NewFlagSet("match", flag.ExitOnError)
		remote := matchCmd.String("remote", "", "remote server base URL instead of local storage")
		matchCmd.Parse(os.Args[2:])
		if matchCmd.NArg() < 1 {
			fmt.Println("usage: panako match [-remote http://host:port] <query_path>")
			os.Exit(1)
		}
		runMatch(backend, pipelineCfg, matchCmd.Arg(0), *remote)

	case "monitor":
		monitorCmd := flag.NewFlagSet("monitor", flag.ExitOnError)
		merge := monitorCmd.Bool("merge", false, "merge overlap duplicates instead of reporting per-segment")
		monitorCmd.Parse(os.Args[2:])
		if monitorCmd.NArg() < 1 {
			fmt.Println("usage: panako monitor [-merge] <long_audio_path>")
			os.Exit(1)
		}
		runMonitor(backend, pipelineCfg, monitorCmd.Arg(0), *merge)

	case "serve":
		serveCmd := flag.NewFlagSet("serve", flag.ExitOnError)
		port := serveCmd.String("p", "5000", "port to use")
		serveCmd.Parse(os.Args[2:])
		runServe(backend, pipelineCfg, *port)

	case "stats":
		runStats(backend)

	case "erase":
		eraseCmd := flag.NewFlagSet("erase", flag.ExitOnError)
		eraseCmd.Parse(os.Args[2:])
		if eraseCmd.NArg() < 1 {
			fmt.Println("usage: panako erase <ref_id>")
			os.Exit(1)
		}
		runErase(backend, eraseCmd.Arg(0))

	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("usage: panako <command>")
	fmt.Println()
	fmt.Println("commands:")
	fmt.Println("  generate [-monitor] [-ref-id ID] <path>   index a reference recording")
	fmt.Println("  match [-remote URL] <path>                identify a query clip")
	fmt.Println("  monitor [-merge] <path>                   identify detections in a long recording")
	fmt.Println("  serve [-p 5000]                            start the HTTP server")
	fmt.Println("  stats                                      print corpus statistics")
	fmt.Println("  erase <ref_id>                              remove a reference from the corpus")
}
