package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/notashes/cadstream/internal/cad"
	"github.com/notashes/cadstream/internal/config"
	"github.com/notashes/cadstream/internal/engine"
	"github.com/notashes/cadstream/internal/parse"
	"github.com/notashes/cadstream/internal/stl"
	"github.com/notashes/cadstream/internal/stream"
	"github.com/notashes/cadstream/internal/watcher"
)

var (
	watchDir       string
	listenAddr     string
	maxTriangles   int
	allowTruncated bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a directory for mesh files and stream parsed models",
	Long: "Watch a directory for new or modified STL files, parse and validate each\n" +
		"one, and broadcast the resulting mesh to connected stream clients.",
	Args: cobra.NoArgs,
	Run:  runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchDir, "dir", "", "directory to watch (default: current directory)")
	watchCmd.Flags().StringVar(&listenAddr, "listen", "", "TCP address for the mesh stream (default: 127.0.0.1:9876)")
	watchCmd.Flags().IntVar(&maxTriangles, "max-triangles", 0, "abort parses above this many triangles")
	watchCmd.Flags().BoolVar(&allowTruncated, "allow-truncated", false, "accept binary files with fewer records than declared")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	cfg.Resolve(config.Flags{
		WatchDir:       watchDir,
		ListenAddr:     listenAddr,
		MaxTriangles:   maxTriangles,
		AllowTruncated: allowTruncated,
	})

	eng := engine.New(
		engine.DefaultRegistry(),
		parse.Limits{MaxFileBytes: cfg.MaxFileBytes, MaxTriangles: cfg.MaxTriangles},
		parse.Options{AllowTruncated: cfg.AllowTruncated},
	)
	exts := eng.Registry().Extensions()

	// Seed a demo file when the directory has nothing to show yet.
	if !hasSupportedFile(cfg.WatchDir, exts) {
		demoPath := filepath.Join(cfg.WatchDir, "demo_cube.stl")
		if err := stl.WriteDemoFile(demoPath, parse.StlASCII); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: demo file: %v\n", err)
		} else {
			fmt.Printf("Created %s for demonstration\n", demoPath)
		}
	}

	srv, err := stream.Listen(cfg.ListenAddr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer srv.Close()
	go srv.Serve()

	onFile := func(path string) {
		mesh, err := eng.ParseFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skipping %s: %v\n", path, err)
			return
		}
		report(mesh)
		if err := srv.Publish(mesh); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: publish: %v\n", err)
		}
	}

	w, err := watcher.New(watcher.Config{
		Dir:        cfg.WatchDir,
		Extensions: exts,
		Settle:     time.Duration(cfg.SettleMS) * time.Millisecond,
		OnFile:     onFile,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer w.Close()

	fmt.Printf("Watching %s for %s files\n", cfg.WatchDir, strings.Join(exts, ", "))
	fmt.Printf("Mesh stream on %s (connect with: nc %s)\n", srv.Addr(), cfg.ListenAddr)
	fmt.Println("------------------------------------------------------------")

	if err := w.ScanExisting(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func report(m *cad.Mesh) {
	size := m.Size()
	fmt.Printf("Loaded %s (%s)\n", m.Name, m.Format)
	fmt.Printf("  Triangles: %d\n", m.TriangleCount())
	fmt.Printf("  Size: %.2f x %.2f x %.2f\n", size[0], size[1], size[2])
	fmt.Printf("  File size: %d bytes\n", m.SourceBytes)
	for _, w := range m.Warnings {
		fmt.Printf("  Warning: triangle %d: %s\n", w.Index, w.Kind)
	}
}

func hasSupportedFile(dir string, exts []string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		for _, want := range exts {
			if ext == want {
				return true
			}
		}
	}
	return false
}
