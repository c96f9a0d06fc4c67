package cmd

import (
	"context"
	"log/slog"

	"github.com/Aman-CERP/anagrams/internal/anagram"
	"github.com/Aman-CERP/anagrams/internal/config"
	"github.com/Aman-CERP/anagrams/internal/daemon"
	"github.com/Aman-CERP/anagrams/internal/errors"
)

const (
	sourceDaemon = "daemon"
	sourceLocal  = "local"
)

// withDaemon runs fn against a running daemon unless local is set or --dict
// names a dictionary the daemon was not started with. It reports false when
// the daemon was skipped or could not be reached, so the caller builds locally.
func withDaemon(ctx context.Context, cfg *config.Config, flags *globalFlags, local bool, fn func(*daemon.Client) error) (bool, error) {
	if local {
		return false, nil
	}
	if len(flags.dicts) > 0 {
		slog.Debug("dictionary_override_building_locally", slog.Any("paths", flags.dicts))
		return false, nil
	}

	err := fn(daemon.NewClient(daemon.ConfigFrom(cfg)))
	if err == nil {
		return true, nil
	}
	if errors.IsRetryable(err) {
		slog.Debug("daemon_unavailable_building_locally", slog.String("error", err.Error()))
		return false, nil
	}
	return false, err
}

// lookupLocal answers words from idx the same way the daemon does.
func lookupLocal(idx *anagram.Index, words []string) []daemon.WordResult {
	results := make([]daemon.WordResult, 0, len(words))
	for _, w := range words {
		key := anagram.Key(w)
		results = append(results, daemon.WordResult{
			Query:    w,
			Key:      key,
			Anagrams: idx.LookupKey(key),
		})
	}
	return results
}
