package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/anagrams/internal/config"
	"github.com/Aman-CERP/anagrams/internal/daemon"
	"github.com/Aman-CERP/anagrams/internal/errors"
	"github.com/Aman-CERP/anagrams/internal/ui"
)

// startTestDaemon runs a daemon over dict on a short /tmp socket and points
// the CLI at it through ANAGRAMS_SOCKET.
func startTestDaemon(t *testing.T, home, dict string) {
	t.Helper()
	socket := filepath.Join("/tmp", fmt.Sprintf("anagrams-cmd-%d.sock", time.Now().UnixNano()))
	t.Setenv("ANAGRAMS_SOCKET", socket)
	t.Setenv("ANAGRAMS_DICTIONARY", dict)
	t.Cleanup(func() { _ = os.Remove(socket) })

	cfg, err := config.Load(home)
	require.NoError(t, err)
	d, err := daemon.NewDaemon(daemon.ConfigFrom(cfg), cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- d.Start(ctx) }()

	select {
	case <-d.Server().Ready():
	case err := <-errCh:
		cancel()
		t.Fatalf("daemon failed to start: %v", err)
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("daemon did not become ready")
	}

	t.Cleanup(func() {
		cancel()
		select {
		case <-errCh:
		case <-time.After(5 * time.Second):
		}
	})
}

func TestDaemonCmd_NotRunning(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "", "daemon", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Daemon is not running")

	out, err = runCLI(t, "", "daemon", "status", "--json")
	require.NoError(t, err)
	var status daemon.StatusResult
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.False(t, status.Running)

	out, err = runCLI(t, "", "daemon", "stop")
	require.NoError(t, err)
	assert.Contains(t, out, "Daemon is not running")

	_, err = runCLI(t, "", "daemon", "reload")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeDaemonUnavailable, errors.GetCode(err))
}

func TestDaemonCmd_AnswersLookups(t *testing.T) {
	home := isolate(t)
	dict := writeDict(t, home, fixtureWords...)
	startTestDaemon(t, home, dict)

	out, err := runCLI(t, "", "lookup", "--json", "petals")
	require.NoError(t, err)
	var got lookupOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, sourceDaemon, got.Source)
	assert.Equal(t, []string{"palest", "pastel", "petals", "plates", "staple"}, got.Results[0].Anagrams)

	out, err = runCLI(t, "", "lookup", "--local", "--json", "petals")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, sourceLocal, got.Source)

	out, err = runCLI(t, "", "groups", "--json")
	require.NoError(t, err)
	var groups daemon.GroupsResult
	require.NoError(t, json.Unmarshal([]byte(out), &groups))
	assert.Equal(t, 2, groups.Total)
}

func TestDaemonCmd_DictFlagBypassesDaemon(t *testing.T) {
	home := isolate(t)
	startTestDaemon(t, home, writeDict(t, home, "eat", "tea"))

	other := filepath.Join(t.TempDir(), "other.txt")
	require.NoError(t, os.WriteFile(other, []byte("ate\neat\ntea\nzzz\n"), 0o644))

	out, err := runCLI(t, "", "lookup", "--dict", other, "--json", "eat")
	require.NoError(t, err)
	var got lookupOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, sourceLocal, got.Source)
	assert.Equal(t, []string{"ate", "eat", "tea"}, got.Results[0].Anagrams)

	out, err = runCLI(t, "", "groups", "--dict", other, "--json")
	require.NoError(t, err)
	var groups daemon.GroupsResult
	require.NoError(t, json.Unmarshal([]byte(out), &groups))
	require.Len(t, groups.Groups, 1)
	assert.Equal(t, []string{"ate", "eat", "tea"}, groups.Groups[0].Words)

	out, err = runCLI(t, "", "stats", "--dict", other, "--json")
	require.NoError(t, err)
	var info ui.StatusInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, sourceLocal, info.Source)
	assert.Equal(t, 4, info.Index.Words)

	out, err = runCLI(t, "", "lookup", "--json", "eat")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, sourceDaemon, got.Source)
	assert.Equal(t, []string{"eat", "tea"}, got.Results[0].Anagrams)
}

func TestDaemonCmd_StatusAndReload(t *testing.T) {
	home := isolate(t)
	dict := writeDict(t, home, fixtureWords...)
	startTestDaemon(t, home, dict)

	_, err := runCLI(t, "", "lookup", "eat", "qqq")
	require.NoError(t, err)

	out, err := runCLI(t, "", "stats", "--json")
	require.NoError(t, err)
	var info ui.StatusInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, sourceDaemon, info.Source)
	require.NotNil(t, info.Daemon)
	assert.Equal(t, os.Getpid(), info.Daemon.PID)
	require.NotNil(t, info.Telemetry)
	assert.Equal(t, int64(2), info.Telemetry.TotalLookups)
	assert.Equal(t, int64(1), info.Telemetry.ZeroResultCount)

	out, err = runCLI(t, "", "daemon", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Anagram index (daemon)")
	assert.Contains(t, out, "Reloads:  0")

	writeDict(t, home, append(fixtureWords, "ate", "etas", "seat")...)
	out, err = runCLI(t, "", "daemon", "reload")
	require.NoError(t, err)
	assert.Contains(t, out, "Reloaded 13 words")

	out, err = runCLI(t, "", "lookup", "teas")
	require.NoError(t, err)
	assert.Equal(t, "teas: etas seat\n", out)

	out, err = runCLI(t, "", "daemon", "status", "--json")
	require.NoError(t, err)
	var status daemon.StatusResult
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.True(t, status.Running)
	assert.Equal(t, int64(1), status.Reloads)
}

func TestDaemonCmd_StartWhenRunning(t *testing.T) {
	home := isolate(t)
	dict := writeDict(t, home, fixtureWords...)
	startTestDaemon(t, home, dict)

	out, err := runCLI(t, "", "daemon", "start")
	require.NoError(t, err)
	assert.Contains(t, out, "Daemon is already running")
}
