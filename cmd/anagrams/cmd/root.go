// Package cmd provides the CLI commands for anagrams.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/anagrams/internal/config"
	"github.com/Aman-CERP/anagrams/internal/errors"
	"github.com/Aman-CERP/anagrams/internal/logging"
	"github.com/Aman-CERP/anagrams/internal/profiling"
	"github.com/Aman-CERP/anagrams/pkg/version"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	debug    bool
	dicts    []string
	profiles profiling.Options
}

// NewRootCmd creates the root command for anagrams CLI.
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}
	var (
		loggingCleanup func()
		profile        *profiling.Session
	)

	cmd := &cobra.Command{
		Use:   "anagrams",
		Short: "Find the anagrams of a word in a dictionary",
		Long: `anagrams indexes a word list by sorted letters and answers
"which dictionary words use exactly these letters?" instantly.

Lookups ignore case and surrounding whitespace. With no dictionary
configured, a small embedded word list is used.

Run 'anagrams daemon start' to keep the index in memory between calls,
or 'anagrams serve' to expose it to AI assistants over MCP.
If something looks wrong, 'anagrams doctor' checks the setup.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("anagrams version {{.Version}}\n")

	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug logging to ~/.anagrams/logs/")
	cmd.PersistentFlags().StringSliceVarP(&flags.dicts, "dict", "d", nil, "Dictionary file(s), overriding dictionary.paths")
	cmd.PersistentFlags().StringVar(&flags.profiles.CPU, "profile-cpu", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&flags.profiles.Mem, "profile-mem", "", "Write memory profile to file")
	cmd.PersistentFlags().StringVar(&flags.profiles.Trace, "profile-trace", "", "Write execution trace to file")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		switch {
		case ownsLogging(cmd):
			// serve and the foreground daemon install their own file logging
		case flags.debug:
			cleanup, err := logging.SetupDefault(logging.DebugConfig())
			if err != nil {
				return fmt.Errorf("failed to setup debug logging: %w", err)
			}
			loggingCleanup = cleanup
			slog.Info("debug_logging_enabled",
				slog.String("command", cmd.CommandPath()),
				slog.String("version", version.Version))
		default:
			logging.Discard()
		}

		if flags.profiles.Enabled() {
			s, err := profiling.Start(flags.profiles)
			if err != nil {
				return err
			}
			profile = s
		}
		return nil
	}

	cmd.PersistentPostRunE = func(_ *cobra.Command, _ []string) error {
		err := profile.Stop()
		profile = nil
		if loggingCleanup != nil {
			loggingCleanup()
			loggingCleanup = nil
		}
		if err != nil {
			return fmt.Errorf("failed to write profile: %w", err)
		}
		return nil
	}

	cmd.AddCommand(newLookupCmd(flags))
	cmd.AddCommand(newGroupsCmd(flags))
	cmd.AddCommand(newStatsCmd(flags))
	cmd.AddCommand(newInteractiveCmd(flags))
	cmd.AddCommand(newServeCmd(flags))
	cmd.AddCommand(newDaemonCmd(flags))
	cmd.AddCommand(newDoctorCmd(flags))
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newLogsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command, cancelling its context on SIGINT or SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd()
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprint(root.ErrOrStderr(), errors.FormatForCLI(err))
	}
	return err
}

// loadConfig loads the configuration for the current directory and applies
// the --dict override.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.InternalError("failed to get current directory", err)
	}
	root, err := config.FindProjectRoot(cwd)
	if err != nil {
		root = cwd
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, errors.ConfigError(err.Error(), err)
	}
	if len(flags.dicts) > 0 {
		cfg.Dictionary.Paths = flags.dicts
	}
	return cfg, nil
}

func ownsLogging(cmd *cobra.Command) bool {
	if cmd.Name() == "serve" {
		return true
	}
	if cmd.Name() != "start" || cmd.Parent() == nil || cmd.Parent().Name() != "daemon" {
		return false
	}
	fg, _ := cmd.Flags().GetBool("foreground")
	return fg
}
