// Package capture turns filesystem activity in a workspace into edit and
// save observations for the session pipeline.
package capture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/suykerbuyk/vibe-profile/internal/discover"
)

// Change is one settled modification of a source file. Delta is the size
// difference in bytes against the last size the watcher saw.
type Change struct {
	Path  string
	Delta int
	Time  time.Time
}

// Options configures a Watcher.
type Options struct {
	Debounce   time.Duration
	Extensions []string
	IgnoreDirs []string
}

// Watcher watches every non-ignored directory under a root and reports
// debounced source-file changes on Changes().
type Watcher struct {
	mu       sync.Mutex
	fsw      *fsnotify.Watcher
	log      *zap.Logger
	root     string
	debounce time.Duration
	exts     map[string]bool
	ignore   map[string]bool
	pending  map[string]time.Time
	sizes    map[string]int64
	changes  chan Change
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	stopped  bool
}

// New creates a Watcher for root. Nothing is watched until Start.
func New(root string, opts Options, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fs watcher: %w", err)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 500 * time.Millisecond
	}

	w := &Watcher{
		fsw:      fsw,
		log:      log,
		root:     root,
		debounce: opts.Debounce,
		exts:     make(map[string]bool),
		ignore:   make(map[string]bool),
		pending:  make(map[string]time.Time),
		sizes:    make(map[string]int64),
		changes:  make(chan Change, 64),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, e := range opts.Extensions {
		w.exts[strings.ToLower(e)] = true
	}
	for _, d := range opts.IgnoreDirs {
		w.ignore[d] = true
	}
	return w, nil
}

// Changes delivers settled changes. It is closed by Stop.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Start adds the workspace directories and begins watching in a
// goroutine. It returns once the initial directories are registered.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running || w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.fsw.Add(w.root); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return fmt.Errorf("watch %s: %w", w.root, err)
	}
	w.addTree(w.root)

	go w.run(ctx)
	return nil
}

// Stop ends the watch loop, waits for it and closes Changes.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	wasRunning := w.running
	w.running = false
	w.stopped = true
	w.mu.Unlock()

	close(w.stopCh)
	if wasRunning {
		<-w.doneCh
	}
	if err := w.fsw.Close(); err != nil {
		w.log.Warn("close fs watcher", zap.Error(err))
	}
	close(w.changes)
}

// addTree registers dir and its non-ignored subdirectories, and seeds the
// known size of every source file found so first deltas are meaningful.
func (w *Watcher) addTree(dir string) {
	dirs, err := discover.Dirs(dir, w.ignore)
	if err != nil {
		w.log.Warn("walk workspace", zap.String("dir", dir), zap.Error(err))
		return
	}
	for _, d := range dirs {
		if d != w.root {
			if err := w.fsw.Add(d); err != nil {
				w.log.Debug("watch dir", zap.String("dir", d), zap.Error(err))
				continue
			}
		}
		w.seed(d)
	}
}

func (w *Watcher) seed(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, e := range entries {
		if e.IsDir() || !w.isSource(e.Name()) {
			continue
		}
		if info, err := e.Info(); err == nil {
			w.sizes[filepath.Join(dir, e.Name())] = info.Size()
		}
	}
}

func (w *Watcher) isSource(name string) bool {
	if len(w.exts) == 0 {
		return true
	}
	return w.exts[strings.ToLower(filepath.Ext(name))]
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := 100 * time.Millisecond
	if w.debounce/2 < tick {
		tick = w.debounce / 2
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("fs watcher error", zap.Error(err))
		case now := <-ticker.C:
			w.flush(ctx, now)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if ev.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if !w.ignore[filepath.Base(ev.Name)] {
				w.addTree(ev.Name)
			}
			return
		}
	}

	if !w.isSource(ev.Name) {
		return
	}

	switch {
	case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
		w.mu.Lock()
		w.pending[ev.Name] = time.Now()
		w.mu.Unlock()
	case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		w.mu.Lock()
		delete(w.pending, ev.Name)
		delete(w.sizes, ev.Name)
		w.mu.Unlock()
	}
}

// flush emits every pending path that has been quiet for the debounce
// period.
func (w *Watcher) flush(ctx context.Context, now time.Time) {
	var settled []Change

	w.mu.Lock()
	for path, last := range w.pending {
		if now.Sub(last) < w.debounce {
			continue
		}
		delete(w.pending, path)

		info, err := os.Stat(path)
		if err != nil {
			delete(w.sizes, path)
			continue
		}
		delta := int(info.Size() - w.sizes[path])
		w.sizes[path] = info.Size()
		settled = append(settled, Change{Path: path, Delta: delta, Time: now})
	}
	w.mu.Unlock()

	for _, c := range settled {
		w.log.Debug("file change", zap.String("path", c.Path), zap.Int("delta", c.Delta))
		select {
		case w.changes <- c:
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		}
	}
}
