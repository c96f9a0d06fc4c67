package daemon

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Aman-CERP/anagrams/internal/anagram"
	"github.com/Aman-CERP/anagrams/internal/config"
	"github.com/Aman-CERP/anagrams/internal/dictionary"
	"github.com/Aman-CERP/anagrams/internal/errors"
	"github.com/Aman-CERP/anagrams/internal/telemetry"
	"github.com/Aman-CERP/anagrams/internal/watcher"
)

// Daemon owns the published index, the socket server and the optional
// dictionary watcher.
type Daemon struct {
	cfg     Config
	dict    config.DictionaryConfig
	pidFile *PIDFile
	server  *Server
	metrics *telemetry.Metrics

	holder  *anagram.Holder
	origin  atomic.Pointer[dictionary.Origin]
	reloads atomic.Int64

	// reloadMu serializes rebuilds; lookups never take it.
	reloadMu sync.Mutex
	watching atomic.Bool
}

// NewDaemon creates a daemon from the loaded application configuration.
func NewDaemon(cfg Config, app *config.Config) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.ConfigError("invalid daemon config: "+err.Error(), err)
	}
	if app == nil {
		app = config.NewConfig()
	}

	d := &Daemon{
		cfg:     cfg,
		dict:    app.Dictionary,
		pidFile: NewPIDFile(cfg.PIDPath),
		server:  NewServer(cfg.SocketPath, cfg.Timeout),
		metrics: telemetry.New(telemetry.Config{
			TopKeys:     app.Telemetry.TopQueries,
			ZeroResults: app.Telemetry.ZeroResults,
		}),
		holder: anagram.NewHolder(nil),
	}
	d.server.SetHandler(d)
	return d, nil
}

// Server returns the socket server, mainly so callers can wait on Ready.
func (d *Daemon) Server() *Server {
	return d.server
}

// Start takes the PID lock, builds and publishes the index, then serves
// until ctx is cancelled. A build failure stops startup and nothing is served.
func (d *Daemon) Start(ctx context.Context) error {
	if err := d.cfg.EnsureDir(); err != nil {
		return errors.New(errors.ErrCodeInternal, "failed to prepare daemon directory", err)
	}

	if err := d.pidFile.Acquire(); err != nil {
		if stderrors.Is(err, ErrAlreadyRunning) {
			return errors.New(errors.ErrCodeDaemonRunning, "daemon is already running", err).
				WithDetail("pid_file", d.pidFile.Path())
		}
		return err
	}
	defer func() {
		if err := d.pidFile.Release(); err != nil {
			slog.Warn("pid_release_failed", slog.String("error", err.Error()))
		}
	}()

	if _, err := d.rebuild(ctx, true); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	if d.cfg.Watch && len(d.dict.Paths) > 0 {
		w, err := watcher.New(d.dict.Paths, watcher.Options{DebounceWindow: d.cfg.WatchDebounce})
		if err != nil {
			return fmt.Errorf("failed to create dictionary watcher: %w", err)
		}
		wg.Add(2)
		go func() {
			defer wg.Done()
			if err := w.Start(ctx); err != nil && !stderrors.Is(err, context.Canceled) {
				slog.Error("watcher_stopped", slog.String("error", err.Error()))
			}
		}()
		go func() {
			defer wg.Done()
			d.watchLoop(ctx, w)
		}()
		d.watching.Store(true)
		slog.Info("dictionary_watch_enabled",
			slog.String("mode", w.Mode()),
			slog.Any("paths", d.dict.Paths))
	}

	slog.Info("daemon_started",
		slog.String("socket", d.cfg.SocketPath),
		slog.String("pid_file", d.cfg.PIDPath))

	err := d.server.ListenAndServe(ctx)
	cancel()
	wg.Wait()
	d.watching.Store(false)

	if stderrors.Is(err, context.Canceled) {
		slog.Info("daemon_stopped")
		return nil
	}
	return err
}

func (d *Daemon) watchLoop(ctx context.Context, w *watcher.FileWatcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case batch, ok := <-w.Events():
			if !ok {
				return
			}
			slog.Info("dictionary_changed", slog.Int("files", len(batch)), slog.String("first", batch[0].Path))
			if _, err := d.rebuild(ctx, false); err != nil {
				slog.Warn("reload_failed_keeping_index", errors.LogAttrs(err)...)
			}
		case err, ok := <-w.Errors():
			if !ok {
				return
			}
			slog.Warn("watcher_error", slog.String("error", err.Error()))
		}
	}
}

// rebuild builds a fresh index and publishes it. On failure the current
// index stays published. The embedded fallback only applies to the initial
// build; a reload that cannot read the configured files is an error.
func (d *Daemon) rebuild(ctx context.Context, initial bool) (ReloadResult, error) {
	d.reloadMu.Lock()
	defer d.reloadMu.Unlock()

	dict := d.dict
	if !initial {
		dict.Fallback = config.FallbackNone
	}

	idx, origin, err := dictionary.BuildIndex(ctx, dict)
	if err != nil {
		return ReloadResult{}, err
	}

	prev := d.holder.Publish(idx)
	d.origin.Store(&origin)
	if prev != nil {
		d.reloads.Add(1)
	}
	return ReloadResult{Index: idx.Stats(), Origin: origin}, nil
}

// Index returns the currently published index.
func (d *Daemon) Index() *anagram.Index {
	return d.holder.Load()
}

// Lookup answers each word from the published index.
func (d *Daemon) Lookup(_ context.Context, params LookupParams) (LookupResult, error) {
	idx := d.holder.Load()
	if idx == nil {
		return LookupResult{}, fmt.Errorf("index not built")
	}

	results := make([]WordResult, 0, len(params.Words))
	for _, w := range params.Words {
		start := time.Now()
		key := anagram.Key(w)
		group := idx.LookupKey(key)
		d.metrics.Record(telemetry.LookupEvent{
			Query:   w,
			Key:     key,
			Results: len(group),
			Latency: time.Since(start),
		})
		results = append(results, WordResult{Query: w, Key: key, Anagrams: group})
	}
	return LookupResult{Results: results}, nil
}

// Groups lists groups with at least MinSize words.
func (d *Daemon) Groups(_ context.Context, params GroupsParams) (GroupsResult, error) {
	idx := d.holder.Load()
	if idx == nil {
		return GroupsResult{}, fmt.Errorf("index not built")
	}

	groups := idx.Groups(params.MinSize)
	total := len(groups)
	if params.Limit > 0 && len(groups) > params.Limit {
		groups = groups[:params.Limit]
	}
	return GroupsResult{Groups: groups, Total: total}, nil
}

// Reload rebuilds the index from the configured dictionary.
func (d *Daemon) Reload(ctx context.Context) (ReloadResult, error) {
	res, err := d.rebuild(ctx, false)
	if err != nil {
		slog.Warn("reload_failed_keeping_index", errors.LogAttrs(err)...)
		return ReloadResult{}, err
	}
	slog.Info("index_reloaded", slog.Int("words", res.Index.Words), slog.Int("groups", res.Index.Groups))
	return res, nil
}

// Status reports index, origin and telemetry. Server fills in process fields.
func (d *Daemon) Status() StatusResult {
	status := StatusResult{
		Index:     d.holder.Load().Stats(),
		Reloads:   d.reloads.Load(),
		Watching:  d.watching.Load(),
		Telemetry: d.metrics.Snapshot(),
	}
	if o := d.origin.Load(); o != nil {
		status.Origin = *o
	}
	return status
}
