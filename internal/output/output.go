// Package output provides consistent CLI output formatting.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Aman-CERP/anagrams/internal/anagram"
)

// Writer provides formatted output for CLI.
type Writer struct {
	out io.Writer
}

// New creates a new output Writer.
func New(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Status prints a status message with an icon.
// Errors from writing are intentionally ignored for console output.
func (w *Writer) Status(icon, msg string) {
	if icon != "" {
		_, _ = fmt.Fprintf(w.out, "%s %s\n", icon, msg)
	} else {
		_, _ = fmt.Fprintf(w.out, "   %s\n", msg)
	}
}

// Statusf prints a formatted status message with an icon.
func (w *Writer) Statusf(icon, format string, args ...any) {
	w.Status(icon, fmt.Sprintf(format, args...))
}

// Success prints a success message with checkmark.
func (w *Writer) Success(msg string) {
	w.Status("✅", msg)
}

// Successf prints a formatted success message.
func (w *Writer) Successf(format string, args ...any) {
	w.Success(fmt.Sprintf(format, args...))
}

// Warning prints a warning message.
func (w *Writer) Warning(msg string) {
	w.Status("⚠️ ", msg)
}

// Warningf prints a formatted warning message.
func (w *Writer) Warningf(format string, args ...any) {
	w.Warning(fmt.Sprintf(format, args...))
}

// Error prints an error message.
func (w *Writer) Error(msg string) {
	w.Status("❌", msg)
}

// Errorf prints a formatted error message.
func (w *Writer) Errorf(format string, args ...any) {
	w.Error(fmt.Sprintf(format, args...))
}

// Newline prints an empty line.
func (w *Writer) Newline() {
	_, _ = fmt.Fprintln(w.out)
}

// Anagrams prints one lookup result on a single line:
//
//	plates: palest pastel petals plates staple
func (w *Writer) Anagrams(query string, words []string) {
	q := strings.TrimSpace(query)
	if len(words) == 0 {
		_, _ = fmt.Fprintf(w.out, "%s: (no anagrams)\n", q)
		return
	}
	_, _ = fmt.Fprintf(w.out, "%s: %s\n", q, strings.Join(words, " "))
}

// Words prints one word per line, for piping into other tools.
func (w *Writer) Words(words []string) {
	for _, word := range words {
		_, _ = fmt.Fprintln(w.out, word)
	}
}

// Groups prints anagram groups, one per line, prefixed with their size.
func (w *Writer) Groups(groups []anagram.Group, total int) {
	for _, g := range groups {
		_, _ = fmt.Fprintf(w.out, "%3d  %s\n", len(g.Words), strings.Join(g.Words, " "))
	}
	if total > len(groups) {
		_, _ = fmt.Fprintf(w.out, "... %d more (use --limit)\n", total-len(groups))
	}
}

// JSON prints v as indented JSON.
func (w *Writer) JSON(v any) error {
	enc := json.NewEncoder(w.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
