package parser

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/richhaase/aifix/internal/domain"
)

// mypyParser handles mypy output, JSON lines when available with a
// text-format fallback.
type mypyParser struct{}

type mypyItem struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Code     string `json:"code"`
}

// mypyTextLine matches "file.py:12:4: error: message [code]" with the
// column and code parts optional.
var mypyTextLine = regexp.MustCompile(
	`^([^:]+):(\d+):(?:(\d+):)?\s*(error|warning|note):\s*(.+?)(?:\s+\[([^\]]+)\])?$`)

func (p *mypyParser) Name() string { return "mypy" }

func (p *mypyParser) Parse(raw []byte) ([]domain.LintError, error) {
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return nil, nil
	}

	if errors, ok := p.parseJSONLines(text); ok {
		return errors, nil
	}
	return p.parseText(text), nil
}

func (p *mypyParser) parseJSONLines(text string) ([]domain.LintError, bool) {
	var errors []domain.LintError
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var item mypyItem
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			return nil, false
		}
		code := item.Code
		if code == "" {
			code = "error"
		}
		errors = append(errors, domain.LintError{
			Tool:     "mypy",
			Code:     code,
			File:     item.File,
			Line:     item.Line,
			Column:   item.Column,
			Message:  item.Message,
			Severity: mypySeverity(item.Severity),
			Category: "type",
			Raw:      line,
		})
	}
	return errors, true
}

func (p *mypyParser) parseText(text string) []domain.LintError {
	var errors []domain.LintError
	for _, line := range strings.Split(text, "\n") {
		m := mypyTextLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		lineNo, _ := strconv.Atoi(m[2])
		col := 0
		if m[3] != "" {
			col, _ = strconv.Atoi(m[3])
		}
		code := m[6]
		if code == "" {
			code = "error"
		}
		errors = append(errors, domain.LintError{
			Tool:     "mypy",
			Code:     code,
			File:     m[1],
			Line:     lineNo,
			Column:   col,
			Message:  m[5],
			Severity: mypySeverity(m[4]),
			Category: "type",
			Raw:      line,
		})
	}
	return errors
}

func mypySeverity(s string) domain.Severity {
	switch strings.ToLower(s) {
	case "warning":
		return domain.SeverityWarning
	case "note":
		return domain.SeverityInfo
	default:
		return domain.SeverityError
	}
}
