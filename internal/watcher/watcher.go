// Package watcher turns file-system events in one directory into per-file
// ready callbacks for the parsing pipeline. It makes no assumption about
// what the callback does or how often the same path fires.
package watcher

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Config holds the watch target and dispatch settings.
type Config struct {
	Dir        string
	Extensions []string      // lowercase, with dot, e.g. ".stl"
	Settle     time.Duration // wait after an event before reading the file
	OnFile     func(path string)
}

// Watcher watches a single directory (non-recursive) and dispatches
// supported files through one queue, so files are handled one at a time in
// arrival order.
type Watcher struct {
	cfg     Config
	fs      *fsnotify.Watcher
	pending chan string
}

// New starts watching cfg.Dir. Call Run to begin dispatching.
func New(cfg Config) (*Watcher, error) {
	if cfg.Settle <= 0 {
		cfg.Settle = 100 * time.Millisecond
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}
	if err := fs.Add(cfg.Dir); err != nil {
		fs.Close()
		return nil, fmt.Errorf("watcher: watch %s: %w", cfg.Dir, err)
	}
	return &Watcher{
		cfg:     cfg,
		fs:      fs,
		pending: make(chan string, 32),
	}, nil
}

// ScanExisting queues supported files already present in the directory.
func (w *Watcher) ScanExisting() error {
	entries, err := os.ReadDir(w.cfg.Dir)
	if err != nil {
		return fmt.Errorf("watcher: scan %s: %w", w.cfg.Dir, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		p := filepath.Join(w.cfg.Dir, e.Name())
		if w.supported(p) {
			w.enqueue(p)
		}
	}
	return nil
}

// Run forwards events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	go w.dispatch(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if w.supported(ev.Name) {
				w.enqueue(ev.Name)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			log.Printf("watcher: %v", err)
		}
	}
}

// Close stops the underlying file-system watch.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

func (w *Watcher) dispatch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case p := <-w.pending:
			// Give the writer a moment to finish before reading.
			time.Sleep(w.cfg.Settle)
			w.cfg.OnFile(p)
		}
	}
}

func (w *Watcher) enqueue(p string) {
	select {
	case w.pending <- p:
	default:
		log.Printf("watcher: queue full, dropping %s", p)
	}
}

func (w *Watcher) supported(p string) bool {
	ext := strings.ToLower(filepath.Ext(p))
	for _, e := range w.cfg.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}
