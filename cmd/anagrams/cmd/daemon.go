package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/anagrams/internal/config"
	"github.com/Aman-CERP/anagrams/internal/daemon"
	"github.com/Aman-CERP/anagrams/internal/logging"
	"github.com/Aman-CERP/anagrams/internal/output"
	"github.com/Aman-CERP/anagrams/internal/ui"
)

func newDaemonCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Manage the background index daemon",
		Long: `The daemon keeps the anagram index in memory so lookups do not reload
the dictionary on every call.

Commands:
  start   Start the daemon (runs in background by default)
  stop    Stop the running daemon
  status  Show daemon status and lookup telemetry
  reload  Rebuild the index from the dictionary files

With daemon.watch enabled the index is rebuilt automatically whenever a
dictionary file changes.`,
		Example: `  anagrams daemon start      # Start daemon in background
  anagrams daemon start -f   # Run in foreground (for debugging)
  anagrams daemon status     # Check if daemon is running
  anagrams daemon stop       # Stop the daemon`,
	}

	cmd.AddCommand(newDaemonStartCmd(flags))
	cmd.AddCommand(newDaemonStopCmd(flags))
	cmd.AddCommand(newDaemonStatusCmd(flags))
	cmd.AddCommand(newDaemonReloadCmd(flags))

	return cmd
}

func newDaemonStartCmd(flags *globalFlags) *cobra.Command {
	var (
		foreground bool
		watch      bool
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the background daemon",
		Long: `Build the index and serve lookups on a unix socket.

By default the daemon detaches and runs in the background. Use --foreground
for debugging or to see logs on stderr.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDaemonStart(cmd.Context(), cmd, flags, foreground, watch)
		},
	}

	cmd.Flags().BoolVarP(&foreground, "foreground", "f", false, "Run in foreground (don't daemonize)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Rebuild the index when a dictionary file changes")
	return cmd
}

func newDaemonStopCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running daemon",
		Long:  `Send SIGTERM to the daemon process for graceful shutdown.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDaemonStop(cmd, flags)
		},
	}
}

func newDaemonStatusCmd(flags *globalFlags) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDaemonStatus(cmd.Context(), cmd, flags, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newDaemonReloadCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Rebuild the daemon's index from the dictionary",
		Long: `Ask the daemon to reload its dictionary and publish a new index.
Lookups keep being answered from the old index until the new one is ready.
If the reload fails the old index stays in place.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDaemonReload(cmd.Context(), cmd, flags)
		},
	}
}

func runDaemonStart(ctx context.Context, cmd *cobra.Command, flags *globalFlags, foreground, watch bool) error {
	out := output.New(cmd.OutOrStdout())
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	if watch {
		cfg.Daemon.Watch = true
	}
	dcfg := daemon.ConfigFrom(cfg)

	client := daemon.NewClient(dcfg)
	if client.IsRunning() {
		out.Status("", "Daemon is already running")
		return nil
	}

	if foreground {
		return runDaemonForeground(ctx, out, flags, cfg, dcfg)
	}

	out.Status("", "Starting daemon in background...")

	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	args := []string{"daemon", "start", "--foreground"}
	if watch {
		args = append(args, "--watch")
	}
	if len(flags.dicts) > 0 {
		args = append(args, "--dict", strings.Join(flags.dicts, ","))
	}
	if flags.debug {
		args = append(args, "--debug")
	}

	bgCmd := exec.Command(execPath, args...)
	bgCmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := bgCmd.Start(); err != nil {
		return fmt.Errorf("failed to start daemon: %w", err)
	}

	// Reap the child and notice if it dies before it starts listening.
	done := make(chan error, 1)
	go func() { done <- bgCmd.Wait() }()

	for range 50 {
		select {
		case err := <-done:
			if err != nil {
				return fmt.Errorf("daemon process exited unexpectedly: %w (see %s)", err, logging.DefaultLogPath())
			}
			return fmt.Errorf("daemon process exited unexpectedly (see %s)", logging.DefaultLogPath())
		case <-time.After(100 * time.Millisecond):
		}
		if client.IsRunning() {
			out.Successf("Daemon started (pid: %d)", bgCmd.Process.Pid)
			return nil
		}
	}

	return fmt.Errorf("daemon failed to start within timeout")
}

func runDaemonForeground(ctx context.Context, out *output.Writer, flags *globalFlags, cfg *config.Config, dcfg daemon.Config) error {
	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Server.LogLevel
	if flags.debug {
		logCfg.Level = "debug"
	}
	logCfg.WriteToStderr = true
	cleanup, err := logging.SetupDefault(logCfg)
	if err != nil {
		return err
	}
	defer cleanup()

	out.Status("", "Starting daemon in foreground...")
	out.Statusf("", "Socket: %s", dcfg.SocketPath)
	out.Statusf("", "Logs: %s", logCfg.FilePath)
	out.Status("", "Press Ctrl+C to stop")
	out.Newline()

	slog.Info("daemon_starting",
		slog.String("socket", dcfg.SocketPath),
		slog.Bool("watch", dcfg.Watch),
		slog.Any("dictionary", cfg.Dictionary.Paths))

	d, err := daemon.NewDaemon(dcfg, cfg)
	if err != nil {
		return err
	}
	return d.Start(ctx)
}

func runDaemonStop(cmd *cobra.Command, flags *globalFlags) error {
	out := output.New(cmd.OutOrStdout())
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	pidFile := daemon.NewPIDFile(daemon.ConfigFrom(cfg).PIDPath)
	if !pidFile.IsRunning() {
		out.Status("", "Daemon is not running")
		return nil
	}

	pid, err := pidFile.Read()
	if err != nil {
		return fmt.Errorf("failed to read PID: %w", err)
	}
	if err := pidFile.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to stop daemon: %w", err)
	}

	for range 50 {
		time.Sleep(100 * time.Millisecond)
		if !pidFile.IsRunning() {
			out.Successf("Daemon stopped (was pid: %d)", pid)
			return nil
		}
	}

	out.Status("", "Daemon not responding, sending SIGKILL...")
	if err := pidFile.Signal(syscall.SIGKILL); err != nil {
		return fmt.Errorf("failed to kill daemon: %w", err)
	}
	_ = pidFile.Remove()
	out.Success("Daemon killed")
	return nil
}

func runDaemonStatus(ctx context.Context, cmd *cobra.Command, flags *globalFlags, jsonOutput bool) error {
	out := output.New(cmd.OutOrStdout())
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	client := daemon.NewClient(daemon.ConfigFrom(cfg))
	if !client.IsRunning() {
		if jsonOutput {
			return out.JSON(daemon.StatusResult{Running: false})
		}
		out.Status("", "Daemon is not running")
		out.Status("", "Run 'anagrams daemon start' to start it")
		return nil
	}

	status, err := client.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}
	if jsonOutput {
		return out.JSON(status)
	}

	noColor := ui.DetectNoColor() || !ui.IsTTY(cmd.OutOrStdout())
	return ui.NewStatusRenderer(cmd.OutOrStdout(), noColor).Render(statusInfo(status))
}

func runDaemonReload(ctx context.Context, cmd *cobra.Command, flags *globalFlags) error {
	out := output.New(cmd.OutOrStdout())
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	res, err := daemon.NewClient(daemon.ConfigFrom(cfg)).Reload(ctx)
	if err != nil {
		return err
	}

	out.Successf("Reloaded %d words, %d anagram groups", res.Index.Words, res.Index.AnagramGroups)
	out.Statusf("", "From: %s", strings.Join(res.Origin.Sources, ", "))
	if res.Origin.Fallback {
		out.Warning("Configured dictionary unavailable; using the embedded list")
	}
	return nil
}
