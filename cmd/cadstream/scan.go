package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/notashes/cadstream/internal/batch"
	"github.com/notashes/cadstream/internal/config"
	"github.com/notashes/cadstream/internal/engine"
	"github.com/notashes/cadstream/internal/parse"
)

var (
	scanWorkers  int
	scanManifest string
)

var scanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "Parse and validate every mesh file in a directory",
	Long: "Parse all supported files under a directory concurrently, print a per-file\n" +
		"report, and optionally write a JSON manifest of the results.",
	Args: cobra.MaximumNArgs(1),
	Run:  runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanWorkers, "workers", 0, "number of worker goroutines (default: NumCPU)")
	scanCmd.Flags().StringVar(&scanManifest, "manifest", "", "write a JSON manifest to this path")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	cfg.Resolve(config.Flags{Workers: scanWorkers})

	dir := cfg.WatchDir
	if len(args) > 0 {
		dir = args[0]
	}

	eng := engine.New(
		engine.DefaultRegistry(),
		parse.Limits{MaxFileBytes: cfg.MaxFileBytes, MaxTriangles: cfg.MaxTriangles},
		parse.Options{AllowTruncated: cfg.AllowTruncated},
	)

	paths, err := batch.ListFiles(dir, eng.Registry().Extensions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(paths) == 0 {
		fmt.Printf("No mesh files in %s\n", dir)
		return
	}

	fmt.Printf("Scanning %d files in %s (workers: %d)\n", len(paths), dir, cfg.Workers)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()
	results := batch.Run(batch.Config{Engine: eng, Workers: cfg.Workers, Progress: true}, paths)
	elapsed := time.Since(start)

	success, failed := 0, 0
	for _, r := range results {
		if r.Success {
			success++
			warn := ""
			if r.Summary.HasWarnings {
				warn = " (warnings)"
			}
			fmt.Printf("  %s: %d triangles%s\n", filepath.Base(r.Path), r.Summary.TriangleCount, warn)
		} else {
			failed++
			fmt.Printf("  %s: FAILED: %s\n", filepath.Base(r.Path), r.Error)
		}
	}

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Parsed %d/%d files in %.1fs\n", success, len(paths), elapsed.Seconds())

	if scanManifest != "" {
		if err := batch.WriteManifest(scanManifest, results); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
		} else {
			fmt.Printf("Manifest: %s\n", scanManifest)
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}
