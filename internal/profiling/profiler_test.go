package profiling

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/anagrams/internal/anagram"
)

func nonEmpty(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestSession_AllProfiles(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		CPU:   filepath.Join(dir, "cpu.prof"),
		Mem:   filepath.Join(dir, "heap.prof"),
		Trace: filepath.Join(dir, "trace.out"),
	}
	require.True(t, opts.Enabled())

	s, err := Start(opts)
	require.NoError(t, err)

	words := make([]string, 0, 20000)
	for i := range 20000 {
		words = append(words, fmt.Sprintf("w%d", i))
	}
	_ = anagram.Build(words)

	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())

	nonEmpty(t, opts.CPU)
	nonEmpty(t, opts.Mem)
	nonEmpty(t, opts.Trace)
}

func TestSession_NoOptions(t *testing.T) {
	assert.False(t, Options{}.Enabled())

	s, err := Start(Options{})
	require.NoError(t, err)
	require.NoError(t, s.Stop())

	var nilSession *Session
	require.NoError(t, nilSession.Stop())
}

func TestStart_BadPath(t *testing.T) {
	_, err := Start(Options{CPU: filepath.Join(t.TempDir(), "missing", "cpu.prof")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CPU profile")
}

func TestHeapGrowth(t *testing.T) {
	words := make([]string, 0, 50000)
	for i := range 50000 {
		words = append(words, fmt.Sprintf("word%06d", i))
	}

	idx, grown := HeapGrowth(func() *anagram.Index { return anagram.Build(words) })
	require.NotNil(t, idx)
	assert.Equal(t, 50000, idx.Len())
	assert.Greater(t, grown, uint64(0))
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1536, "1.50 KB"},
		{5 * 1024 * 1024, "5.00 MB"},
		{3 * 1024 * 1024 * 1024, "3.00 GB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBytes(tt.in))
	}
}
