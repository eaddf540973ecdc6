// Package patch applies fix suggestions to files, renders diffs, and
// drives the interactive review prompt.
package patch

import (
	"fmt"
	"os"
	"strings"

	"github.com/richhaase/aifix/internal/domain"
)

// DefaultContextLines is the excerpt radius around an error line.
const DefaultContextLines = 5

// ConflictError reports that the file changed since the suggestion was
// generated. The error stays unresolved and the file is untouched.
type ConflictError struct {
	File string
	Line int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("patch conflict in %s at line %d: file content changed since the fix was generated", e.File, e.Line)
}

// ExtractContext returns the excerpt around a 1-based line and the
// 1-based line the excerpt starts at.
func ExtractContext(content string, line, contextLines int) (string, int) {
	if contextLines <= 0 {
		contextLines = DefaultContextLines
	}
	lines := strings.Split(content, "\n")

	start := line - 1 - contextLines
	if start < 0 {
		start = 0
	}
	end := line + contextLines
	if end > len(lines) {
		end = len(lines)
	}
	if start >= end {
		return "", 1
	}
	return strings.Join(lines[start:end], "\n"), start + 1
}

// Apply replaces the error's context range with the suggestion's patch.
// The current file content must still match the recorded context; a
// mismatch is a ConflictError and nothing is written. The new content
// is assembled in memory and written in a single call, so the file is
// either fully patched or untouched.
func Apply(e *domain.LintError, suggestion *domain.FixSuggestion) error {
	data, err := os.ReadFile(e.File)
	if err != nil {
		return fmt.Errorf("reading %s: %w", e.File, err)
	}

	updated, err := Render(string(data), e, suggestion)
	if err != nil {
		return err
	}

	info, err := os.Stat(e.File)
	mode := os.FileMode(0644)
	if err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(e.File, []byte(updated), mode); err != nil {
		return fmt.Errorf("writing %s: %w", e.File, err)
	}
	return nil
}

// Render builds the patched file content without touching disk. Used
// by Apply and by dry-run diff rendering.
func Render(current string, e *domain.LintError, suggestion *domain.FixSuggestion) (string, error) {
	lines := strings.Split(current, "\n")
	contextLines := strings.Split(e.Context, "\n")

	start := e.ContextStart - 1
	if e.ContextStart <= 0 {
		start = e.Line - 1 - DefaultContextLines
		if start < 0 {
			start = 0
		}
	}
	end := start + len(contextLines)

	if start < 0 || end > len(lines) {
		return "", &ConflictError{File: e.File, Line: e.Line}
	}
	for i, want := range contextLines {
		if lines[start+i] != want {
			return "", &ConflictError{File: e.File, Line: e.Line}
		}
	}

	patchLines := strings.Split(suggestion.Patch, "\n")
	updated := make([]string, 0, len(lines)-len(contextLines)+len(patchLines))
	updated = append(updated, lines[:start]...)
	updated = append(updated, patchLines...)
	updated = append(updated, lines[end:]...)
	return strings.Join(updated, "\n"), nil
}
