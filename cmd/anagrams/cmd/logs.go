package cmd

import (
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/anagrams/internal/errors"
	"github.com/Aman-CERP/anagrams/internal/logging"
	"github.com/Aman-CERP/anagrams/internal/ui"
)

type logsOptions struct {
	lines   int
	follow  bool
	level   string
	pattern string
	file    string
	noColor bool
}

func newLogsCmd() *cobra.Command {
	opts := logsOptions{}

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the daemon and server log",
		Long: `Print the last lines of ~/.anagrams/logs/server.log in a readable form.
The daemon, the MCP server and any command run with --debug write there.`,
		Example: `  anagrams logs -n 100
  anagrams logs -f --level warn
  anagrams logs --pattern reload`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogs(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.lines, "lines", "n", 50, "Number of lines to show")
	cmd.Flags().BoolVarP(&opts.follow, "follow", "f", false, "Keep printing new lines")
	cmd.Flags().StringVar(&opts.level, "level", "", "Minimum level: debug, info, warn, error")
	cmd.Flags().StringVar(&opts.pattern, "pattern", "", "Only lines matching this regular expression")
	cmd.Flags().StringVar(&opts.file, "file", "", "Log file (default ~/.anagrams/logs/server.log)")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colors")

	return cmd
}

func runLogs(cmd *cobra.Command, opts logsOptions) error {
	path, err := logging.FindLogFile(opts.file)
	if err != nil {
		return errors.New(errors.ErrCodeConfigNotFound, err.Error(), err)
	}

	var re *regexp.Regexp
	if opts.pattern != "" {
		re, err = regexp.Compile(opts.pattern)
		if err != nil {
			return errors.ValidationError("invalid --pattern", err)
		}
	}

	out := cmd.OutOrStdout()
	viewer := logging.NewViewer(logging.ViewerConfig{
		Level:   opts.level,
		Pattern: re,
		NoColor: opts.noColor || ui.DetectNoColor() || !ui.IsTTY(out),
	}, out)

	entries, err := viewer.Tail(path, opts.lines)
	if err != nil {
		return err
	}
	viewer.Print(entries)

	if !opts.follow {
		return nil
	}

	ch := make(chan logging.Entry)
	errc := make(chan error, 1)
	go func() {
		errc <- viewer.Follow(cmd.Context(), path, ch)
		close(ch)
	}()
	for e := range ch {
		_, _ = fmt.Fprintln(out, viewer.Format(e))
	}
	return <-errc
}
