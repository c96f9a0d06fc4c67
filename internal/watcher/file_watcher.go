package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches a fixed set of files with fsnotify, or by polling
// when fsnotify is unavailable.
type FileWatcher struct {
	opts      Options
	files     map[string]struct{}
	dirs      []string
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer

	events chan []FileEvent
	errors chan error
	stopCh chan struct{}

	mu             sync.RWMutex
	stopped        bool
	droppedBatches atomic.Uint64
}

// New creates a watcher for paths. Paths are made absolute; at least one is
// required. The files do not need to exist yet.
func New(paths []string, opts Options) (*FileWatcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}
	opts = opts.WithDefaults()

	w := &FileWatcher{
		opts:      opts,
		files:     make(map[string]struct{}, len(paths)),
		debouncer: NewDebouncer(opts.DebounceWindow),
		events:    make(chan []FileEvent, opts.EventBufferSize),
		errors:    make(chan error, 10),
		stopCh:    make(chan struct{}),
	}

	seenDir := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve absolute path: %w", err)
		}
		w.files[abs] = struct{}{}
		if dir := filepath.Dir(abs); !seenDir[dir] {
			seenDir[dir] = true
			w.dirs = append(w.dirs, dir)
		}
	}

	if !opts.ForcePolling {
		fsw, err := fsnotify.NewWatcher()
		if err == nil {
			w.fsWatcher = fsw
		} else {
			slog.Warn("fsnotify_unavailable_polling", slog.String("error", err.Error()))
		}
	}

	return w, nil
}

// Start watches until ctx is done or Stop is called.
func (w *FileWatcher) Start(ctx context.Context) error {
	go w.forward(ctx)

	if w.fsWatcher != nil {
		return w.runFsnotify(ctx)
	}
	return w.runPolling(ctx)
}

func (w *FileWatcher) runFsnotify(ctx context.Context) error {
	for _, dir := range w.dirs {
		if err := w.fsWatcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	slog.Debug("watcher_started",
		slog.String("mode", w.Mode()),
		slog.Int("files", len(w.files)))

	for {
		select {
		case <-ctx.Done():
			_ = w.Stop()
			return ctx.Err()
		case <-w.stopCh:
			return nil
		case ev, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.emitError(err)
		}
	}
}

func (w *FileWatcher) handle(ev fsnotify.Event) {
	path := filepath.Clean(ev.Name)
	if _, ok := w.files[path]; !ok {
		return
	}

	var op Operation
	switch {
	case ev.Has(fsnotify.Create):
		op = OpCreate
	case ev.Has(fsnotify.Write):
		op = OpModify
	case ev.Has(fsnotify.Remove):
		op = OpDelete
	case ev.Has(fsnotify.Rename):
		op = OpRename
	default:
		return
	}

	w.debouncer.Add(FileEvent{Path: path, Operation: op, Timestamp: time.Now()})
}

type fileState struct {
	exists  bool
	modTime time.Time
	size    int64
}

func (w *FileWatcher) snapshot() map[string]fileState {
	states := make(map[string]fileState, len(w.files))
	for path := range w.files {
		info, err := os.Stat(path)
		if err != nil {
			states[path] = fileState{}
			continue
		}
		states[path] = fileState{exists: true, modTime: info.ModTime(), size: info.Size()}
	}
	return states
}

func (w *FileWatcher) runPolling(ctx context.Context) error {
	prev := w.snapshot()
	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	slog.Debug("watcher_started",
		slog.String("mode", w.Mode()),
		slog.Int("files", len(w.files)))

	for {
		select {
		case <-ctx.Done():
			_ = w.Stop()
			return ctx.Err()
		case <-w.stopCh:
			return nil
		case <-ticker.C:
			cur := w.snapshot()
			for path, now := range cur {
				was := prev[path]
				var op Operation
				switch {
				case !was.exists && now.exists:
					op = OpCreate
				case was.exists && !now.exists:
					op = OpDelete
				case now.exists && (!now.modTime.Equal(was.modTime) || now.size != was.size):
					op = OpModify
				default:
					continue
				}
				w.debouncer.Add(FileEvent{Path: path, Operation: op, Timestamp: time.Now()})
			}
			prev = cur
		}
	}
}

func (w *FileWatcher) forward(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case batch, ok := <-w.debouncer.Output():
			if !ok {
				return
			}
			w.emit(batch)
		}
	}
}

func (w *FileWatcher) emit(batch []FileEvent) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.stopped || len(batch) == 0 {
		return
	}
	select {
	case w.events <- batch:
	default:
		n := w.droppedBatches.Add(1)
		slog.Warn("watcher_buffer_full",
			slog.Int("batch_size", len(batch)),
			slog.Uint64("dropped_batches", n))
	}
}

func (w *FileWatcher) emitError(err error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.stopped {
		return
	}
	select {
	case w.errors <- err:
	default:
	}
}

// Stop releases the watcher and closes Events and Errors. Safe to call
// more than once.
func (w *FileWatcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.stopCh)
	w.debouncer.Stop()
	if w.fsWatcher != nil {
		_ = w.fsWatcher.Close()
	}
	close(w.events)
	close(w.errors)
	return nil
}

// Events returns debounced batches of changes.
func (w *FileWatcher) Events() <-chan []FileEvent {
	return w.events
}

// Errors returns non-fatal watcher errors.
func (w *FileWatcher) Errors() <-chan error {
	return w.errors
}

// Mode reports "fsnotify" or "polling".
func (w *FileWatcher) Mode() string {
	if w.fsWatcher != nil {
		return "fsnotify"
	}
	return "polling"
}

// DroppedBatches counts batches lost to a full Events buffer.
func (w *FileWatcher) DroppedBatches() uint64 {
	return w.droppedBatches.Load()
}
