package ui

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/anagrams/internal/anagram"
)

func TestIsTTY(t *testing.T) {
	assert.False(t, IsTTY(nil))
	assert.False(t, IsTTY(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, IsTTY(f))
}

func TestDetectNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.True(t, DetectNoColor())

	cfg := NewConfig(&bytes.Buffer{})
	assert.True(t, cfg.NoColor)
}

func TestNewConfig_Options(t *testing.T) {
	in := &bytes.Buffer{}
	cfg := NewConfig(&bytes.Buffer{}, WithNoColor(true), WithInput(in))
	assert.True(t, cfg.NoColor)
	assert.Same(t, in, cfg.Input)
}

func TestDetectCI(t *testing.T) {
	t.Setenv("CI", "true")
	assert.True(t, DetectCI())
}

func TestRunInteractive_RefusesNonTTY(t *testing.T) {
	called := false
	err := RunInteractive(context.Background(), NewConfig(&bytes.Buffer{}), func(context.Context) (*anagram.Index, error) {
		called = true
		return nil, nil
	})
	require.ErrorIs(t, err, ErrNotTTY)
	assert.False(t, called, "index must not be built when the screen cannot start")
}
