package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/anagrams/internal/anagram"
)

func TestWriter_StatusIcons(t *testing.T) {
	tests := []struct {
		name  string
		write func(w *Writer)
		want  string
	}{
		{"status", func(w *Writer) { w.Status("🔍", "Checking daemon") }, "🔍 Checking daemon\n"},
		{"no icon", func(w *Writer) { w.Status("", "indented") }, "   indented\n"},
		{"success", func(w *Writer) { w.Successf("Reloaded %d words", 3) }, "✅ Reloaded 3 words\n"},
		{"warning", func(w *Writer) { w.Warningf("Daemon %s", "not running") }, "⚠️  Daemon not running\n"},
		{"error", func(w *Writer) { w.Errorf("Failed: %s", "x") }, "❌ Failed: x\n"},
		{"statusf", func(w *Writer) { w.Statusf("•", "%d", 7) }, "• 7\n"},
		{"newline", func(w *Writer) { w.Newline() }, "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tt.write(New(buf))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestWriter_Anagrams(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(buf)

	w.Anagrams(" eat ", []string{"ate", "eat", "tea"})
	w.Anagrams("nonexistentword", []string{})

	assert.Equal(t, "eat: ate eat tea\nnonexistentword: (no anagrams)\n", buf.String())
}

func TestWriter_Words(t *testing.T) {
	buf := &bytes.Buffer{}
	New(buf).Words([]string{"ate", "eat"})
	assert.Equal(t, "ate\neat\n", buf.String())
}

func TestWriter_Groups(t *testing.T) {
	buf := &bytes.Buffer{}
	groups := []anagram.Group{
		{Key: "aelpst", Words: []string{"palest", "plates"}},
		{Key: "aet", Words: []string{"ate", "eat", "tea"}},
	}

	New(buf).Groups(groups, 5)

	assert.Equal(t, "  2  palest plates\n  3  ate eat tea\n... 3 more (use --limit)\n", buf.String())
}

func TestWriter_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, New(buf).JSON(map[string][]string{"eat": {"ate", "eat", "tea"}}))

	var decoded map[string][]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, []string{"ate", "eat", "tea"}, decoded["eat"])
	assert.Contains(t, buf.String(), "\n  ")
}
