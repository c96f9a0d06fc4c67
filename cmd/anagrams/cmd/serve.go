package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/anagrams/internal/anagram"
	"github.com/Aman-CERP/anagrams/internal/dictionary"
	"github.com/Aman-CERP/anagrams/internal/errors"
	"github.com/Aman-CERP/anagrams/internal/logging"
	"github.com/Aman-CERP/anagrams/internal/mcp"
	"github.com/Aman-CERP/anagrams/internal/telemetry"
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve anagram lookups to AI assistants over MCP (stdio)",
		Long: `Start a Model Context Protocol server on stdin/stdout.

Tools:
  anagrams           anagrams of one or more words
  anagram_groups     groups of mutual anagrams
  dictionary_status  index size, dictionary origin and lookup telemetry

stdout carries the protocol, so all logging goes to ~/.anagrams/logs/server.log.`,
		Example: `  # Claude Desktop / MCP client configuration
  { "command": "anagrams", "args": ["serve"] }`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), flags)
		},
	}
}

func runServe(ctx context.Context, flags *globalFlags) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	level := cfg.Server.LogLevel
	if flags.debug {
		level = "debug"
	}
	cleanup, err := logging.SetupMCPMode(level)
	if err != nil {
		return err
	}
	defer cleanup()

	idx, origin, err := dictionary.BuildIndex(ctx, cfg.Dictionary)
	if err != nil {
		slog.Error("mcp_index_build_failed", errors.LogAttrs(err)...)
		return err
	}

	metrics := telemetry.New(telemetry.Config{
		TopKeys:     cfg.Telemetry.TopQueries,
		ZeroResults: cfg.Telemetry.ZeroResults,
	})
	srv, err := mcp.NewServer(anagram.NewHolder(idx), origin, metrics)
	if err != nil {
		return err
	}
	return srv.Serve(ctx, cfg.Server.Transport)
}
