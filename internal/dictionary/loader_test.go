package dictionary

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/anagrams/internal/config"
	"github.com/Aman-CERP/anagrams/internal/errors"
)

func writeList(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadWords_StripsLineEndingsAndBlanks(t *testing.T) {
	words, err := ReadWords(context.Background(), strings.NewReader("tea\r\n\r\n  \neat\n Ate \n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"tea", "eat", " Ate "}, words)
}

func TestReadWords_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ReadWords(ctx, strings.NewReader("tea\n"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoader_ConcatenatesInSourceOrder(t *testing.T) {
	dir := t.TempDir()
	first := writeList(t, dir, "a.txt", "palest\npastel\n")
	second := writeList(t, dir, "b.txt", "ate\neat\ntea\n")

	l := NewLoader(Options{}, File(first), FromString("inline", "plates\n"), File(second))
	words, err := l.Words(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"palest", "pastel", "plates", "ate", "eat", "tea"}, words)
	assert.Equal(t, []string{first, "inline", second}, l.Names())
}

func TestLoader_Dedupe(t *testing.T) {
	l := NewLoader(Options{Dedupe: true},
		FromString("one", "eat\ntea\n"),
		FromString("two", "tea\nate\neat\n"))

	words, err := l.Words(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"eat", "tea", "ate"}, words)
}

func TestLoader_KeepsDuplicatesByDefault(t *testing.T) {
	l := NewLoader(Options{}, FromString("one", "eat\neat\n"))

	words, err := l.Words(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"eat", "eat"}, words)
}

func TestLoader_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.txt")
	l := NewLoader(Options{}, FromString("ok", "eat\n"), File(missing))

	words, err := l.Words(context.Background())
	require.Error(t, err)
	assert.Nil(t, words)
	assert.Equal(t, errors.ErrCodeDictionaryNotFound, errors.GetCode(err))

	ae, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, missing, ae.Details["path"])
}

func TestLoader_NoSources(t *testing.T) {
	_, err := NewLoader(Options{}).Words(context.Background())
	assert.Equal(t, errors.ErrCodeNoDictionary, errors.GetCode(err))
	assert.True(t, errors.IsFatal(err))
}

func TestFromConfig_EmptyPathsUsesEmbedded(t *testing.T) {
	l := FromConfig(config.DictionaryConfig{})
	assert.Equal(t, []string{EmbeddedName}, l.Names())

	words, err := l.Words(context.Background())
	require.NoError(t, err)
	assert.Contains(t, words, "plates")
	assert.Contains(t, words, "tea")
}

func TestBuildIndex_FromFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeList(t, dir, "words.txt", "palest\nate\npastel\neat\ntea\nzebra\n")

	idx, origin, err := BuildIndex(context.Background(), config.DictionaryConfig{
		Paths:    []string{path},
		Fallback: config.FallbackNone,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ate", "eat", "tea"}, idx.Lookup("EAT"))
	assert.Equal(t, []string{path}, origin.Sources)
	assert.False(t, origin.Fallback)
	assert.Equal(t, 6, origin.Words)
}

func TestBuildIndex_MissingWithoutFallback(t *testing.T) {
	idx, _, err := BuildIndex(context.Background(), config.DictionaryConfig{
		Paths:    []string{filepath.Join(t.TempDir(), "missing.txt")},
		Fallback: config.FallbackNone,
	})
	require.Error(t, err)
	assert.Nil(t, idx)
	assert.Equal(t, errors.ErrCodeDictionaryNotFound, errors.GetCode(err))
}

func TestBuildIndex_MissingWithEmbeddedFallback(t *testing.T) {
	idx, origin, err := BuildIndex(context.Background(), config.DictionaryConfig{
		Paths:    []string{filepath.Join(t.TempDir(), "missing.txt")},
		Fallback: config.FallbackEmbedded,
	})
	require.NoError(t, err)
	assert.True(t, origin.Fallback)
	assert.Equal(t, []string{EmbeddedName}, origin.Sources)
	assert.Equal(t, []string{"palest", "pastel", "petals", "plates", "staple"}, idx.Lookup("plates"))
}

func TestBuildIndex_CancelledContextDoesNotFallBack(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := writeList(t, t.TempDir(), "words.txt", "eat\n")
	idx, _, err := BuildIndex(ctx, config.DictionaryConfig{
		Paths:    []string{path},
		Fallback: config.FallbackEmbedded,
	})
	require.Error(t, err)
	assert.Nil(t, idx)
	assert.ErrorIs(t, err, context.Canceled)
}
