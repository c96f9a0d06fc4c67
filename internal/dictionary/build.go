package dictionary

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Aman-CERP/anagrams/internal/anagram"
	"github.com/Aman-CERP/anagrams/internal/config"
	"github.com/Aman-CERP/anagrams/internal/errors"
)

// Origin describes where a built index came from.
type Origin struct {
	Sources  []string      `json:"sources"`
	Fallback bool          `json:"fallback"`
	Words    int           `json:"words"`
	BuiltAt  time.Time     `json:"built_at"`
	Duration time.Duration `json:"duration"`
}

// BuildIndex loads the configured dictionary and builds an index from it.
// When a configured file is unavailable and cfg.Fallback is "embedded", the
// build is retried once against the embedded list. Otherwise the load error
// is returned and no index is produced.
func BuildIndex(ctx context.Context, cfg config.DictionaryConfig) (*anagram.Index, Origin, error) {
	start := time.Now()
	loader := FromConfig(cfg)

	idx, err := anagram.BuildFrom(ctx, loader)
	fallback := false
	if err != nil {
		if !canFallBack(cfg, err) {
			return nil, Origin{}, err
		}
		slog.Warn("dictionary_unavailable_using_embedded", errors.LogAttrs(err)...)

		loader = NewLoader(Options{Dedupe: cfg.Dedupe}, Embedded())
		idx, err = anagram.BuildFrom(ctx, loader)
		if err != nil {
			return nil, Origin{}, err
		}
		fallback = true
	}

	origin := Origin{
		Sources:  loader.Names(),
		Fallback: fallback,
		Words:    idx.Len(),
		BuiltAt:  time.Now(),
		Duration: time.Since(start),
	}
	slog.Info("index_built",
		slog.Any("sources", origin.Sources),
		slog.Bool("fallback", fallback),
		slog.Int("words", origin.Words),
		slog.Duration("duration", origin.Duration))

	return idx, origin, nil
}

func canFallBack(cfg config.DictionaryConfig, err error) bool {
	if strings.ToLower(cfg.Fallback) != config.FallbackEmbedded || len(cfg.Paths) == 0 {
		return false
	}
	return errors.GetCategory(err) == errors.CategoryIO
}
