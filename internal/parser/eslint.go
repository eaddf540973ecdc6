package parser

import (
	"encoding/json"
	"strings"

	"github.com/richhaase/aifix/internal/domain"
)

// eslintParser handles `eslint --format=json` output.
type eslintParser struct{}

type eslintFileResult struct {
	FilePath string          `json:"filePath"`
	Messages []eslintMessage `json:"messages"`
}

type eslintMessage struct {
	RuleID      string             `json:"ruleId"`
	Severity    int                `json:"severity"`
	Message     string             `json:"message"`
	Line        int                `json:"line"`
	Column      int                `json:"column"`
	Suggestions []eslintSuggestion `json:"suggestions"`
}

type eslintSuggestion struct {
	Desc string `json:"desc"`
}

func (p *eslintParser) Name() string { return "eslint" }

func (p *eslintParser) Parse(raw []byte) ([]domain.LintError, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, nil
	}

	var results []eslintFileResult
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, &ParseError{Tool: "eslint", Err: err}
	}

	var errors []domain.LintError
	for _, res := range results {
		for _, msg := range res.Messages {
			code := msg.RuleID
			if code == "" {
				// ESLint reports syntax errors with a null ruleId.
				code = "parse-error"
			}
			severity := domain.SeverityWarning
			if msg.Severity == 2 {
				severity = domain.SeverityError
			}
			suggestion := ""
			if len(msg.Suggestions) > 0 {
				suggestion = msg.Suggestions[0].Desc
			}

			msgRaw, _ := json.Marshal(msg)
			errors = append(errors, domain.LintError{
				Tool:       "eslint",
				Code:       code,
				File:       res.FilePath,
				Line:       msg.Line,
				Column:     msg.Column,
				Message:    msg.Message,
				Severity:   severity,
				Category:   categorizeESLint(msg.RuleID),
				Suggestion: suggestion,
				Raw:        string(msgRaw),
			})
		}
	}
	return errors, nil
}

func categorizeESLint(ruleID string) string {
	switch {
	case ruleID == "":
		return "lint"
	case strings.Contains(ruleID, "security"):
		return "security"
	case strings.HasPrefix(ruleID, "import/"), strings.HasPrefix(ruleID, "@typescript-eslint/type"):
		return "type"
	case strings.HasPrefix(ruleID, "prettier/"), strings.HasPrefix(ruleID, "format"):
		return "format"
	default:
		return "lint"
	}
}
