package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/anagrams/internal/anagram"
	"github.com/Aman-CERP/anagrams/internal/daemon"
	"github.com/Aman-CERP/anagrams/internal/dictionary"
	"github.com/Aman-CERP/anagrams/internal/profiling"
	"github.com/Aman-CERP/anagrams/internal/ui"
)

func newStatsCmd(flags *globalFlags) *cobra.Command {
	var (
		local      bool
		jsonOutput bool
		mem        bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show dictionary and index statistics",
		Long: `Show how many words and anagram groups the index holds and where the
dictionary came from. When the daemon is running its statistics, including
lookup telemetry, are shown instead.

--mem builds the index locally and reports how much heap it occupies.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStats(cmd.Context(), cmd, flags, local || mem, jsonOutput, mem)
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "Build the index in-process instead of asking the daemon")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&mem, "mem", false, "Report the heap used by the index (implies --local)")

	return cmd
}

func runStats(ctx context.Context, cmd *cobra.Command, flags *globalFlags, local, jsonOutput, mem bool) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	var info ui.StatusInfo
	answered, err := withDaemon(ctx, cfg, flags, local, func(c *daemon.Client) error {
		status, err := c.Status(ctx)
		if err != nil {
			return err
		}
		info = statusInfo(status)
		return nil
	})
	if err != nil {
		return err
	}

	var heap uint64
	if !answered {
		type built struct {
			idx    *anagram.Index
			origin dictionary.Origin
			err    error
		}
		b, grown := profiling.HeapGrowth(func() built {
			idx, origin, err := dictionary.BuildIndex(ctx, cfg.Dictionary)
			return built{idx, origin, err}
		})
		if b.err != nil {
			return b.err
		}
		heap = grown
		info = ui.StatusInfo{Source: sourceLocal, Index: b.idx.Stats(), Origin: b.origin}
	}

	r := ui.NewStatusRenderer(cmd.OutOrStdout(), ui.DetectNoColor() || !ui.IsTTY(cmd.OutOrStdout()))
	if jsonOutput {
		return r.RenderJSON(info)
	}
	if err := r.Render(info); err != nil {
		return err
	}
	if mem {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "\n  Index heap:     %s\n", profiling.FormatBytes(heap))
		return err
	}
	return nil
}

func statusInfo(s *daemon.StatusResult) ui.StatusInfo {
	snap := s.Telemetry
	return ui.StatusInfo{
		Source: sourceDaemon,
		Index:  s.Index,
		Origin: s.Origin,
		Daemon: &ui.DaemonInfo{
			PID:      s.PID,
			Uptime:   s.Uptime,
			Reloads:  s.Reloads,
			Watching: s.Watching,
		},
		Telemetry: &snap,
	}
}
