// Package batch parses every supported mesh file under a directory using
// a worker pool. Parses are independent and share only the engine's
// read-only registry, so workers need no locking beyond result slots.
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/notashes/cadstream/internal/cad"
	"github.com/notashes/cadstream/internal/engine"
)

// Config holds shared resources for one batch run.
type Config struct {
	Engine   *engine.Engine
	Workers  int
	Progress bool // print throughput while running
}

// Result holds the outcome of parsing one file.
type Result struct {
	Path    string
	Summary cad.Summary
	Success bool
	Error   string
}

// ListFiles returns the supported files directly under dir, sorted by name.
func ListFiles(dir string, extensions []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("batch: read %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		for _, want := range extensions {
			if ext == want {
				paths = append(paths, filepath.Join(dir, e.Name()))
				break
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Run parses all paths using a worker pool and returns one result per
// path, in input order.
func Run(cfg Config, paths []string) []Result {
	total := len(paths)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	if cfg.Progress {
		go func() {
			ticker := time.NewTicker(2 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					p := processed.Load()
					if p > 0 {
						elapsed := time.Since(start).Seconds()
						rate := float64(p) / elapsed
						fmt.Printf("  [%d/%d] %.1f files/sec\n", p, total, rate)
					}
				}
			}
		}()
	}

	// Worker pool
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	pathChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range pathChan {
				results[idx] = parseOne(cfg.Engine, paths[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range paths {
		pathChan <- i
	}
	close(pathChan)

	wg.Wait()
	close(done)

	return results
}

func parseOne(eng *engine.Engine, path string) Result {
	mesh, err := eng.ParseFile(path)
	if err != nil {
		return Result{Path: path, Error: err.Error()}
	}
	return Result{Path: path, Summary: mesh.Summary(), Success: true}
}
