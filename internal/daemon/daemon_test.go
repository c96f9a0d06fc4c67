package daemon

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/anagrams/internal/config"
	"github.com/Aman-CERP/anagrams/internal/errors"
)

// daemonTestConfig creates a configuration with unique socket and PID paths.
func daemonTestConfig(t *testing.T) Config {
	t.Helper()
	suffix := fmt.Sprintf("%d", time.Now().UnixNano())
	socketPath := filepath.Join("/tmp", "anagrams-daemon-test-"+suffix+".sock")
	pidPath := filepath.Join(t.TempDir(), "daemon.pid")
	t.Cleanup(func() { _ = os.Remove(socketPath) })

	return Config{
		SocketPath:          socketPath,
		PIDPath:             pidPath,
		Timeout:             2 * time.Second,
		ShutdownGracePeriod: time.Second,
		WatchDebounce:       50 * time.Millisecond,
	}
}

func writeDictionary(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func appConfig(paths ...string) *config.Config {
	app := config.NewConfig()
	app.Dictionary.Paths = paths
	return app
}

// runDaemon starts d and returns a stop function that waits for Start to return.
func runDaemon(t *testing.T, d *Daemon) func() error {
	t.Helper()
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

	stopped := false
	stop := func() error {
		if stopped {
			return nil
		}
		stopped = true
		cancel()
		select {
		case err := <-errCh:
			return err
		case <-time.After(5 * time.Second):
			return fmt.Errorf("daemon did not stop")
		}
	}
	t.Cleanup(func() { _ = stop() })
	return stop
}

func TestNewDaemon_InvalidConfig(t *testing.T) {
	_, err := NewDaemon(Config{}, nil)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeConfigInvalid, errors.GetCode(err))
}

func TestDaemon_ServesLookups(t *testing.T) {
	cfg := daemonTestConfig(t)
	dict := writeDictionary(t, "palest\npastel\npetals\nplates\nstaple\nate\neat\ntea\nzebra\n")

	d, err := NewDaemon(cfg, appConfig(dict))
	require.NoError(t, err)
	stop := runDaemon(t, d)

	client := NewClient(cfg)
	res, err := client.Lookup(context.Background(), []string{"plates", "EAT", "a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"palest", "pastel", "petals", "plates", "staple"}, res.Results[0].Anagrams)
	assert.Equal(t, []string{"ate", "eat", "tea"}, res.Results[1].Anagrams)
	assert.Equal(t, []string{}, res.Results[2].Anagrams)

	status, err := client.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 9, status.Index.Words)
	assert.Equal(t, []string{dict}, status.Origin.Sources)
	assert.Equal(t, int64(3), status.Telemetry.TotalLookups)
	assert.Equal(t, int64(1), status.Telemetry.ZeroResultCount)
	assert.Equal(t, "aet", res.Results[1].Key)

	var timed int64
	for _, n := range status.Telemetry.Latency {
		timed += n
	}
	assert.Equal(t, int64(3), timed, "every lookup lands in one latency bucket")

	pid, err := NewPIDFile(cfg.PIDPath).Read()
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)

	require.NoError(t, stop())
	_, err = os.Stat(cfg.PIDPath)
	assert.True(t, os.IsNotExist(err), "PID file removed on shutdown")
}

func TestDaemon_SecondInstanceRefused(t *testing.T) {
	cfg := daemonTestConfig(t)
	dict := writeDictionary(t, "eat\ntea\n")

	first, err := NewDaemon(cfg, appConfig(dict))
	require.NoError(t, err)
	runDaemon(t, first)

	second, err := NewDaemon(cfg, appConfig(dict))
	require.NoError(t, err)
	err = second.Start(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeDaemonRunning, errors.GetCode(err))
}

func TestDaemon_MissingDictionaryFailsStartup(t *testing.T) {
	cfg := daemonTestConfig(t)

	d, err := NewDaemon(cfg, appConfig(filepath.Join(t.TempDir(), "missing.txt")))
	require.NoError(t, err)

	err = d.Start(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeDictionaryNotFound, errors.GetCode(err))
	assert.Nil(t, d.Index())
}

func TestDaemon_ReloadSwapsIndex(t *testing.T) {
	cfg := daemonTestConfig(t)
	dict := writeDictionary(t, "eat\ntea\n")

	d, err := NewDaemon(cfg, appConfig(dict))
	require.NoError(t, err)
	runDaemon(t, d)

	before := d.Index()
	require.NoError(t, os.WriteFile(dict, []byte("eat\ntea\nate\n"), 0o644))

	client := NewClient(cfg)
	res, err := client.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Index.Words)

	assert.Equal(t, []string{"eat", "tea"}, before.Lookup("eat"), "old index is never mutated")
	assert.Equal(t, []string{"eat", "tea", "ate"}, d.Index().Lookup("eat"))

	status, err := client.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), status.Reloads)
}

func TestDaemon_FailedReloadKeepsIndex(t *testing.T) {
	cfg := daemonTestConfig(t)
	dict := writeDictionary(t, "eat\ntea\n")

	d, err := NewDaemon(cfg, appConfig(dict))
	require.NoError(t, err)
	runDaemon(t, d)

	require.NoError(t, os.Remove(dict))

	_, err = NewClient(cfg).Reload(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"eat", "tea"}, d.Index().Lookup("tea"))
}

func TestDaemon_ReloadDoesNotFallBackToEmbedded(t *testing.T) {
	cfg := daemonTestConfig(t)
	dict := writeDictionary(t, "qwzx\nxzwq\n")
	app := appConfig(dict)
	app.Dictionary.Fallback = config.FallbackEmbedded

	d, err := NewDaemon(cfg, app)
	require.NoError(t, err)
	runDaemon(t, d)

	require.NoError(t, os.Remove(dict))

	_, err = d.Reload(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeDictionaryNotFound, errors.GetCode(err))

	assert.Equal(t, []string{"qwzx", "xzwq"}, d.Index().Lookup("qwzx"))
	status := d.Status()
	assert.Equal(t, 2, status.Index.Words)
	assert.False(t, status.Origin.Fallback)
	assert.Equal(t, int64(0), status.Reloads)
}

func TestDaemon_StartFallsBackToEmbedded(t *testing.T) {
	cfg := daemonTestConfig(t)
	app := appConfig(filepath.Join(t.TempDir(), "missing.txt"))
	app.Dictionary.Fallback = config.FallbackEmbedded

	d, err := NewDaemon(cfg, app)
	require.NoError(t, err)
	runDaemon(t, d)

	status := d.Status()
	assert.True(t, status.Origin.Fallback)
	assert.Positive(t, status.Index.Words)
}

func TestDaemon_WatchRebuildsOnChange(t *testing.T) {
	cfg := daemonTestConfig(t)
	cfg.Watch = true
	dict := writeDictionary(t, "eat\n")

	d, err := NewDaemon(cfg, appConfig(dict))
	require.NoError(t, err)
	runDaemon(t, d)

	// Let the watch register before writing.
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(dict, []byte("eat\ntea\n"), 0o644))

	require.Eventually(t, func() bool {
		return len(d.Index().Lookup("eat")) == 2
	}, 5*time.Second, 50*time.Millisecond)

	status := d.Status()
	assert.True(t, status.Watching)
	assert.GreaterOrEqual(t, status.Reloads, int64(1))
}
