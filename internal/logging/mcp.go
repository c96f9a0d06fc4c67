package logging

import (
	"log/slog"
)

// SetupMCPMode installs file-only logging for the MCP server. stdout carries
// the JSON-RPC stream, so nothing may be written to stdout or stderr.
func SetupMCPMode(level string) (func(), error) {
	cfg := DefaultConfig()
	if level != "" {
		cfg.Level = level
	}
	cfg.WriteToStderr = false

	cleanup, err := SetupDefault(cfg)
	if err != nil {
		return nil, err
	}

	slog.Info("mcp_logging_initialized",
		slog.String("log_file", cfg.FilePath),
		slog.String("level", cfg.Level))

	return cleanup, nil
}
