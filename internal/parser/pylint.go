package parser

import (
	"encoding/json"
	"strings"

	"github.com/richhaase/aifix/internal/domain"
)

// pylintParser handles `pylint --output-format=json` output.
type pylintParser struct{}

type pylintItem struct {
	Path      string `json:"path"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	MessageID string `json:"message-id"`
	Symbol    string `json:"symbol"`
	Message   string `json:"message"`
	Type      string `json:"type"`
}

func (p *pylintParser) Name() string { return "pylint" }

func (p *pylintParser) Parse(raw []byte) ([]domain.LintError, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, nil
	}

	var items []pylintItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &ParseError{Tool: "pylint", Err: err}
	}

	errors := make([]domain.LintError, 0, len(items))
	for _, item := range items {
		itemRaw, _ := json.Marshal(item)
		errors = append(errors, domain.LintError{
			Tool:     "pylint",
			Code:     item.MessageID,
			File:     item.Path,
			Line:     item.Line,
			Column:   item.Column,
			Message:  item.Message,
			Severity: pylintSeverity(item.Type),
			Category: categorizePylint(item.Type),
			Raw:      string(itemRaw),
		})
	}
	return errors, nil
}

func pylintSeverity(msgType string) domain.Severity {
	switch strings.ToLower(msgType) {
	case "error", "fatal":
		return domain.SeverityError
	case "warning":
		return domain.SeverityWarning
	case "convention", "refactor":
		return domain.SeverityInfo
	default:
		return domain.SeverityWarning
	}
}

func categorizePylint(msgType string) string {
	switch msgType {
	case "error", "fatal":
		return "error"
	case "warning":
		return "lint"
	default:
		return "style"
	}
}
