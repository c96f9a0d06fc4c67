package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Aman-CERP/anagrams/internal/anagram"
	"github.com/Aman-CERP/anagrams/internal/dictionary"
	"github.com/Aman-CERP/anagrams/internal/telemetry"
)

// StatusInfo is what `anagrams stats` and `anagrams daemon status` report.
type StatusInfo struct {
	Source    string              `json:"source"` // "daemon" or "local"
	Index     anagram.Stats       `json:"index"`
	Origin    dictionary.Origin   `json:"origin"`
	Daemon    *DaemonInfo         `json:"daemon,omitempty"`
	Telemetry *telemetry.Snapshot `json:"telemetry,omitempty"`
}

// DaemonInfo describes a running daemon.
type DaemonInfo struct {
	PID      int    `json:"pid"`
	Uptime   string `json:"uptime"`
	Reloads  int64  `json:"reloads"`
	Watching bool   `json:"watching"`
}

// StatusRenderer displays index status.
type StatusRenderer struct {
	out    io.Writer
	styles Styles
}

// NewStatusRenderer creates a status renderer.
func NewStatusRenderer(out io.Writer, noColor bool) *StatusRenderer {
	return &StatusRenderer{out: out, styles: GetStyles(noColor)}
}

// Render displays status info to terminal.
func (r *StatusRenderer) Render(info StatusInfo) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\n", r.styles.Header.Render("Anagram index ("+info.Source+")"))

	fmt.Fprintf(&b, "  Words:          %d\n", info.Index.Words)
	fmt.Fprintf(&b, "  Groups:         %d\n", info.Index.Groups)
	fmt.Fprintf(&b, "  Anagram groups: %d\n", info.Index.AnagramGroups)
	fmt.Fprintf(&b, "  Largest group:  %d\n", info.Index.LargestGroup)
	b.WriteString("\n")

	b.WriteString("  Dictionary:\n")
	for _, src := range info.Origin.Sources {
		fmt.Fprintf(&b, "    %s\n", src)
	}
	if info.Origin.Fallback {
		fmt.Fprintf(&b, "    %s\n", r.styles.Warning.Render("(fell back to the embedded list)"))
	}
	if !info.Origin.BuiltAt.IsZero() {
		fmt.Fprintf(&b, "  Built:          %s in %s\n", formatTime(info.Origin.BuiltAt), info.Origin.Duration.Round(time.Microsecond))
	}

	if d := info.Daemon; d != nil {
		b.WriteString("\n  Daemon:\n")
		fmt.Fprintf(&b, "    Status:   %s (pid %d)\n", r.styles.Success.Render("running"), d.PID)
		fmt.Fprintf(&b, "    Uptime:   %s\n", d.Uptime)
		fmt.Fprintf(&b, "    Reloads:  %d\n", d.Reloads)
		watch := r.styles.Dim.Render("off")
		if d.Watching {
			watch = r.styles.Success.Render("on")
		}
		fmt.Fprintf(&b, "    Watching: %s\n", watch)
	}

	if t := info.Telemetry; t != nil && t.TotalLookups > 0 {
		b.WriteString("\n  Lookups:\n")
		fmt.Fprintf(&b, "    Total:        %d\n", t.TotalLookups)
		fmt.Fprintf(&b, "    No anagrams:  %d (%.1f%%)\n", t.ZeroResultCount, t.ZeroResultPercentage())
		fmt.Fprintf(&b, "    Latency:      %s  %s\n", r.styles.Success.Render(latencyBars(t.Latency)), r.styles.Label.Render("<10µs … ≥10ms"))
		if len(t.TopKeys) > 0 {
			keys := make([]string, 0, min(len(t.TopKeys), 5))
			for _, kc := range t.TopKeys[:min(len(t.TopKeys), 5)] {
				keys = append(keys, fmt.Sprintf("%s×%d", kc.Key, kc.Count))
			}
			fmt.Fprintf(&b, "    Top keys:     %s\n", strings.Join(keys, ", "))
		}
	}

	_, err := io.WriteString(r.out, b.String())
	return err
}

// RenderJSON outputs status as JSON.
func (r *StatusRenderer) RenderJSON(info StatusInfo) error {
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(info)
}

func latencyBars(hist map[telemetry.LatencyBucket]int64) string {
	values := make([]float64, 0, len(telemetry.Buckets))
	for _, bucket := range telemetry.Buckets {
		values = append(values, float64(hist[bucket]))
	}
	return Bars(values)
}

func formatTime(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "minute") + " ago"
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour") + " ago"
	default:
		return t.Format("2006-01-02 15:04")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
