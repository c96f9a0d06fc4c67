package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var fixtureWords = []string{"palest", "pastel", "petals", "plates", "staple", "ate", "eat", "tea", "zebra", "a"}

// isolate points HOME, the user config dir and the working directory at a
// fresh temp dir so no real config, daemon or log file is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, k := range []string{"ANAGRAMS_DICTIONARY", "ANAGRAMS_FALLBACK", "ANAGRAMS_DEDUPE", "ANAGRAMS_SOCKET", "ANAGRAMS_WATCH", "NO_COLOR"} {
		t.Setenv(k, "")
	}
	t.Chdir(home)
	return home
}

func writeDict(t *testing.T, dir string, words ...string) string {
	t.Helper()
	path := filepath.Join(dir, "words.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(words, "\n")+"\n"), 0o644))
	return path
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}
