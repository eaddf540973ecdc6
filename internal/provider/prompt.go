package provider

import (
	"fmt"
	"strings"
)

// buildFixPrompt renders the fix request for one error. Peers from the
// same batch are listed as context so the model understands related
// problems without being asked to fix them here.
func buildFixPrompt(req Request) string {
	e := req.Target

	var b strings.Builder
	fmt.Fprintf(&b, "Fix this %s error (%s): %s\n\n", e.Tool, e.Code, e.Message)
	fmt.Fprintf(&b, "File: %s, Line: %d\n", e.File, e.Line)
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "Linter suggestion: %s\n", e.Suggestion)
	}

	if len(req.Batch) > 0 {
		b.WriteString("\nOther errors in the same batch (context only, do not fix here):\n")
		for _, peer := range req.Batch {
			if peer.LocationKey() == e.LocationKey() {
				continue
			}
			fmt.Fprintf(&b, "- %s\n", peer.String())
		}
	}

	fmt.Fprintf(&b, "\nCode:\n```\n%s\n```\n\n", req.Excerpt)
	b.WriteString("Instructions:\n")
	b.WriteString("1. Fix ONLY the specific error above\n")
	b.WriteString("2. Make minimal changes, do not refactor unrelated code\n")
	b.WriteString("3. Preserve the original code style and formatting\n")
	b.WriteString("4. Return ONLY the fixed code for the shown lines, no explanation\n")
	return b.String()
}
