package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/richhaase/aifix/internal/domain"
)

// tscParser handles TypeScript compiler text output.
type tscParser struct{}

// tscLine matches "src/app.ts(12,5): error TS2345: message".
var tscLine = regexp.MustCompile(
	`^([^(]+)\((\d+),(\d+)\):\s*(error|warning)\s+(TS\d+):\s*(.+)$`)

func (p *tscParser) Name() string { return "tsc" }

func (p *tscParser) Parse(raw []byte) ([]domain.LintError, error) {
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return nil, nil
	}

	var errors []domain.LintError
	for _, line := range strings.Split(text, "\n") {
		m := tscLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		lineNo, _ := strconv.Atoi(m[2])
		col, _ := strconv.Atoi(m[3])
		severity := domain.SeverityWarning
		if m[4] == "error" {
			severity = domain.SeverityError
		}
		errors = append(errors, domain.LintError{
			Tool:     "tsc",
			Code:     m[5],
			File:     m[1],
			Line:     lineNo,
			Column:   col,
			Message:  m[6],
			Severity: severity,
			Category: "type",
			Raw:      line,
		})
	}
	return errors, nil
}
