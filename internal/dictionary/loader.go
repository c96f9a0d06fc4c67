package dictionary

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Aman-CERP/anagrams/internal/anagram"
	"github.com/Aman-CERP/anagrams/internal/config"
	"github.com/Aman-CERP/anagrams/internal/errors"
)

// maxLineBytes bounds a single dictionary line.
const maxLineBytes = 1 << 20

// Options controls how word lists are combined.
type Options struct {
	// Dedupe drops repeated words, keeping the first occurrence.
	Dedupe bool
}

// Loader reads one or more sources and concatenates them in order.
// It implements anagram.WordSource.
type Loader struct {
	sources []Source
	opts    Options
}

var _ anagram.WordSource = (*Loader)(nil)

// NewLoader creates a Loader over sources.
func NewLoader(opts Options, sources ...Source) *Loader {
	return &Loader{sources: sources, opts: opts}
}

// FromConfig creates a Loader for the configured paths, or for the embedded
// list when no paths are configured.
func FromConfig(cfg config.DictionaryConfig) *Loader {
	opts := Options{Dedupe: cfg.Dedupe}
	if len(cfg.Paths) == 0 {
		return NewLoader(opts, Embedded())
	}
	sources := make([]Source, 0, len(cfg.Paths))
	for _, p := range cfg.Paths {
		sources = append(sources, File(p))
	}
	return NewLoader(opts, sources...)
}

// Names returns the source names in load order.
func (l *Loader) Names() []string {
	names := make([]string, 0, len(l.sources))
	for _, s := range l.sources {
		names = append(names, s.Name())
	}
	return names
}

// Words reads every source concurrently and returns their words in source
// order. Any source failure fails the whole load.
func (l *Loader) Words(ctx context.Context) ([]string, error) {
	if len(l.sources) == 0 {
		return nil, errors.New(errors.ErrCodeNoDictionary, "no dictionary sources configured", nil)
	}

	parts := make([][]string, len(l.sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range l.sources {
		g.Go(func() error {
			words, err := readSource(gctx, src)
			if err != nil {
				return err
			}
			parts[i] = words
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, p := range parts {
		total += len(p)
	}
	words := make([]string, 0, total)
	for _, p := range parts {
		words = append(words, p...)
	}

	if l.opts.Dedupe {
		words = dedupe(words)
	}
	return words, nil
}

func readSource(ctx context.Context, src Source) ([]string, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	words, err := ReadWords(ctx, rc)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.New(errors.ErrCodeDictionaryRead, "failed to read dictionary: "+src.Name(), err).
			WithDetail("path", src.Name())
	}

	slog.Debug("dictionary_source_loaded",
		slog.String("source", src.Name()),
		slog.Int("words", len(words)))
	return words, nil
}

// ReadWords splits r into lines. Line endings (including \r\n) are removed,
// blank lines are skipped and every other line is kept verbatim.
func ReadWords(ctx context.Context, r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var words []string
	for n := 0; scanner.Scan(); n++ {
		if n%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	return words, nil
}

func dedupe(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := words[:0]
	for _, w := range words {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
