package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richhaase/aifix/internal/domain"
)

func TestNewKnowsAllSupportedTools(t *testing.T) {
	for _, tool := range SupportedTools() {
		p, err := New(tool)
		require.NoError(t, err)
		assert.Equal(t, tool, p.Name())
	}

	_, err := New("clippy")
	assert.Error(t, err)
}

func TestRuffParse(t *testing.T) {
	raw := `[
		{"code": "F401", "message": "'os' imported but unused", "filename": "app.py",
		 "location": {"row": 1, "column": 8},
		 "fix": {"message": "Remove unused import: os"}},
		{"code": "S608", "message": "possible SQL injection", "filename": "db.py",
		 "location": {"row": 42, "column": 12}, "fix": null}
	]`

	p, _ := New("ruff")
	errs, err := p.Parse([]byte(raw))
	require.NoError(t, err)
	require.Len(t, errs, 2)

	assert.Equal(t, "F401", errs[0].Code)
	assert.Equal(t, "app.py", errs[0].File)
	assert.Equal(t, 1, errs[0].Line)
	assert.Equal(t, 8, errs[0].Column)
	assert.Equal(t, domain.SeverityWarning, errs[0].Severity)
	assert.Equal(t, "lint", errs[0].Category)
	assert.Equal(t, "Remove unused import: os", errs[0].Suggestion)

	assert.Equal(t, domain.SeverityError, errs[1].Severity)
	assert.Equal(t, "security", errs[1].Category)
}

func TestRuffParseMalformed(t *testing.T) {
	p, _ := New("ruff")
	_, err := p.Parse([]byte("not json"))

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "ruff", parseErr.Tool)
}

func TestRuffParseEmpty(t *testing.T) {
	p, _ := New("ruff")
	errs, err := p.Parse([]byte("  \n"))
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestMypyParseJSONLines(t *testing.T) {
	raw := `{"file": "app.py", "line": 3, "column": 4, "severity": "error", "message": "Incompatible return value", "code": "return-value"}
{"file": "app.py", "line": 9, "column": 0, "severity": "note", "message": "See docs"}`

	p, _ := New("mypy")
	errs, err := p.Parse([]byte(raw))
	require.NoError(t, err)
	require.Len(t, errs, 2)

	assert.Equal(t, "return-value", errs[0].Code)
	assert.Equal(t, domain.SeverityError, errs[0].Severity)
	assert.Equal(t, "type", errs[0].Category)
	assert.Equal(t, "error", errs[1].Code)
	assert.Equal(t, domain.SeverityInfo, errs[1].Severity)
}

func TestMypyParseTextFallback(t *testing.T) {
	raw := `app.py:3:4: error: Incompatible return value  [return-value]
app.py:9: warning: Unused "type: ignore" comment
Found 2 errors in 1 file (checked 1 source file)`

	p, _ := New("mypy")
	errs, err := p.Parse([]byte(raw))
	require.NoError(t, err)
	require.Len(t, errs, 2)

	assert.Equal(t, "app.py", errs[0].File)
	assert.Equal(t, 3, errs[0].Line)
	assert.Equal(t, 4, errs[0].Column)
	assert.Equal(t, "return-value", errs[0].Code)

	assert.Equal(t, 9, errs[1].Line)
	assert.Equal(t, 0, errs[1].Column)
	assert.Equal(t, domain.SeverityWarning, errs[1].Severity)
}

func TestESLintParse(t *testing.T) {
	raw := `[
		{"filePath": "src/app.ts", "messages": [
			{"ruleId": "@typescript-eslint/no-unused-vars", "severity": 2,
			 "message": "'x' is defined but never used", "line": 5, "column": 7},
			{"ruleId": "prettier/prettier", "severity": 1,
			 "message": "Insert ;", "line": 8, "column": 20,
			 "suggestions": [{"desc": "Add semicolon"}]},
			{"ruleId": null, "severity": 2, "message": "Parsing error", "line": 1, "column": 1}
		]}
	]`

	p, _ := New("eslint")
	errs, err := p.Parse([]byte(raw))
	require.NoError(t, err)
	require.Len(t, errs, 3)

	assert.Equal(t, "src/app.ts", errs[0].File)
	assert.Equal(t, domain.SeverityError, errs[0].Severity)
	assert.Equal(t, "lint", errs[0].Category)

	assert.Equal(t, domain.SeverityWarning, errs[1].Severity)
	assert.Equal(t, "format", errs[1].Category)
	assert.Equal(t, "Add semicolon", errs[1].Suggestion)

	assert.Equal(t, "parse-error", errs[2].Code)
}

func TestPylintParse(t *testing.T) {
	raw := `[
		{"path": "app.py", "line": 12, "column": 0, "message-id": "W0611",
		 "symbol": "unused-import", "message": "Unused import os", "type": "warning"},
		{"path": "app.py", "line": 30, "column": 4, "message-id": "E1101",
		 "symbol": "no-member", "message": "Instance has no member", "type": "error"}
	]`

	p, _ := New("pylint")
	errs, err := p.Parse([]byte(raw))
	require.NoError(t, err)
	require.Len(t, errs, 2)

	assert.Equal(t, "W0611", errs[0].Code)
	assert.Equal(t, "lint", errs[0].Category)
	assert.Equal(t, domain.SeverityWarning, errs[0].Severity)

	assert.Equal(t, "error", errs[1].Category)
	assert.Equal(t, domain.SeverityError, errs[1].Severity)
}

func TestTscParse(t *testing.T) {
	raw := `src/app.ts(12,5): error TS2345: Argument of type 'string' is not assignable.
src/util.ts(3,1): warning TS6133: 'x' is declared but never read.
some unrelated line`

	p, _ := New("tsc")
	errs, err := p.Parse([]byte(raw))
	require.NoError(t, err)
	require.Len(t, errs, 2)

	assert.Equal(t, "TS2345", errs[0].Code)
	assert.Equal(t, "src/app.ts", errs[0].File)
	assert.Equal(t, 12, errs[0].Line)
	assert.Equal(t, 5, errs[0].Column)
	assert.Equal(t, "type", errs[0].Category)
	assert.Equal(t, domain.SeverityWarning, errs[1].Severity)
}

func TestParseErrorUnwrap(t *testing.T) {
	inner := errors.New("bad payload")
	err := &ParseError{Tool: "ruff", Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "ruff")
}
