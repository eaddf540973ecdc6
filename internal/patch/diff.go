package patch

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/richhaase/aifix/internal/terminal"
)

// Unified renders a unified diff between the original and patched file
// content.
func Unified(original, updated, path string) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(updated),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	})
	if err != nil {
		return ""
	}
	return diff
}

// Colorize applies ANSI colors to a unified diff for terminal display.
func Colorize(diff string) string {
	if !terminal.ColorsEnabled() {
		return diff
	}

	var b strings.Builder
	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			b.WriteString(terminal.Bold + line + terminal.Reset)
		case strings.HasPrefix(line, "@@"):
			b.WriteString(terminal.Cyan + line + terminal.Reset)
		case strings.HasPrefix(line, "+"):
			b.WriteString(terminal.Green + line + terminal.Reset)
		case strings.HasPrefix(line, "-"):
			b.WriteString(terminal.Red + line + terminal.Reset)
		default:
			b.WriteString(line)
		}
	}
	return b.String()
}
