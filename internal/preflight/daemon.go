package preflight

import (
	"context"
	"fmt"

	"github.com/Aman-CERP/anagrams/internal/config"
	"github.com/Aman-CERP/anagrams/internal/daemon"
)

// CheckDaemon reports whether a daemon answers on the configured socket.
// Not running is fine; lookups then build the index locally.
func (c *Checker) CheckDaemon(ctx context.Context, cfg *config.Config) CheckResult {
	result := CheckResult{Name: "daemon", Status: StatusPass}
	dcfg := daemon.ConfigFrom(cfg)

	client := daemon.NewClient(dcfg)
	if !client.IsRunning() {
		result.Message = "not running (lookups build the index locally)"
		if daemon.NewPIDFile(dcfg.PIDPath).IsRunning() {
			result.Status = StatusWarn
			result.Message = "process alive but socket not answering"
			result.Details = fmt.Sprintf("check %s or restart with 'anagrams daemon stop && anagrams daemon start'", dcfg.SocketPath)
		}
		return result
	}

	status, err := client.Status(ctx)
	if err != nil {
		result.Status = StatusWarn
		result.Message = "running but status failed"
		result.Details = err.Error()
		return result
	}

	result.Message = fmt.Sprintf("running (pid %d, %d words, up %s)", status.PID, status.Index.Words, status.Uptime)
	return result
}
