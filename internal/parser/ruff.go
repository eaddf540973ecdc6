package parser

import (
	"encoding/json"
	"strings"

	"github.com/richhaase/aifix/internal/domain"
)

// ruffParser handles `ruff check --output-format=json` output.
type ruffParser struct{}

type ruffItem struct {
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Filename string       `json:"filename"`
	Location ruffLocation `json:"location"`
	Fix      *ruffFix     `json:"fix"`
}

type ruffLocation struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

type ruffFix struct {
	Message string `json:"message"`
}

func (p *ruffParser) Name() string { return "ruff" }

func (p *ruffParser) Parse(raw []byte) ([]domain.LintError, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, nil
	}

	var items []ruffItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &ParseError{Tool: "ruff", Err: err}
	}

	errors := make([]domain.LintError, 0, len(items))
	for _, item := range items {
		// Ruff marks fixable issues with a fix object; those are less
		// severe than the rest.
		severity := domain.SeverityError
		suggestion := ""
		if item.Fix != nil {
			severity = domain.SeverityWarning
			suggestion = item.Fix.Message
		}

		itemRaw, _ := json.Marshal(item)
		errors = append(errors, domain.LintError{
			Tool:       "ruff",
			Code:       item.Code,
			File:       item.Filename,
			Line:       item.Location.Row,
			Column:     item.Location.Column,
			Message:    item.Message,
			Severity:   severity,
			Category:   categorizeRuff(item.Code),
			Suggestion: suggestion,
			Raw:        string(itemRaw),
		})
	}
	return errors, nil
}

func categorizeRuff(code string) string {
	switch {
	case strings.HasPrefix(code, "S"), strings.HasPrefix(code, "B"):
		return "security"
	case strings.HasPrefix(code, "I"), strings.HasPrefix(code, "UP"):
		return "style"
	default:
		return "lint"
	}
}
