package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationKey(t *testing.T) {
	e := LintError{File: "src/app.py", Line: 10, Column: 5}
	assert.Equal(t, "src/app.py:10:5", e.LocationKey())
}

func TestPriorityOrdering(t *testing.T) {
	security := LintError{Category: "security"}
	typ := LintError{Category: "type"}
	lint := LintError{Category: "lint"}
	style := LintError{Category: "style"}
	unknown := LintError{Category: "mystery"}

	assert.Less(t, security.Priority(), typ.Priority())
	assert.Less(t, typ.Priority(), lint.Priority())
	assert.Less(t, lint.Priority(), style.Priority())
	assert.Greater(t, unknown.Priority(), style.Priority())
}

func TestSignatureStableUnderFormattingDrift(t *testing.T) {
	a := LintError{Tool: "ruff", Code: "F401", Message: "'os' imported but unused", Context: "import os"}
	b := LintError{Tool: "ruff", Code: "F401", Message: "'OS'  imported   but unused", Context: "import  os"}

	require.Len(t, a.Signature(), 16)
	assert.Equal(t, a.Signature(), b.Signature())
}

func TestSignatureIgnoresFilePath(t *testing.T) {
	a := LintError{Tool: "ruff", Code: "F401", File: "a.py", Line: 1, Message: "unused import"}
	b := LintError{Tool: "ruff", Code: "F401", File: "b.py", Line: 99, Message: "unused import"}
	assert.Equal(t, a.Signature(), b.Signature())
}

func TestSignatureDistinguishesCodeAndTool(t *testing.T) {
	base := LintError{Tool: "ruff", Code: "F401", Message: "unused import"}
	otherCode := LintError{Tool: "ruff", Code: "F841", Message: "unused import"}
	otherTool := LintError{Tool: "pylint", Code: "F401", Message: "unused import"}

	assert.NotEqual(t, base.Signature(), otherCode.Signature())
	assert.NotEqual(t, base.Signature(), otherTool.Signature())
}

func TestPriorityInheritsUrgencyFromOrigin(t *testing.T) {
	regression := LintError{Category: "style", OriginCategory: "security"}
	assert.Equal(t, 0, regression.Priority())

	// A less urgent origin never lowers the error's own priority.
	own := LintError{Category: "type", OriginCategory: "style"}
	assert.Equal(t, 1, own.Priority())
}

func TestDedupeMergesSameLocation(t *testing.T) {
	errs := []LintError{
		{Tool: "ruff", Code: "F401", File: "a.py", Line: 1, Column: 1, Message: "first"},
		{Tool: "pylint", Code: "W0611", File: "a.py", Line: 1, Column: 1, Message: "second"},
		{Tool: "ruff", Code: "E501", File: "a.py", Line: 2, Column: 1, Message: "long line"},
	}

	out := Dedupe(errs)
	require.Len(t, out, 2)

	assert.Equal(t, "first", out[0].Message)
	assert.Equal(t, "F401", out[0].Code)
	assert.Equal(t, []string{"W0611"}, out[0].MergedCodes)
	assert.Equal(t, "E501", out[1].Code)
}

func TestDedupePreservesFirstSeenOrder(t *testing.T) {
	errs := []LintError{
		{Code: "B", File: "b.py", Line: 1, Column: 1},
		{Code: "A", File: "a.py", Line: 1, Column: 1},
		{Code: "B2", File: "b.py", Line: 1, Column: 1},
	}

	out := Dedupe(errs)
	require.Len(t, out, 2)
	assert.Equal(t, "b.py", out[0].File)
	assert.Equal(t, "a.py", out[1].File)
}

func TestRunSummaryExitCode(t *testing.T) {
	clean := RunSummary{Found: 3, Fixed: 3}
	assert.Equal(t, ExitClean, clean.ExitCode())

	remaining := RunSummary{Found: 3, Fixed: 1, Unresolved: 2}
	assert.Equal(t, ExitUnresolved, remaining.ExitCode())

	interrupted := RunSummary{Unresolved: 2, Interrupted: true}
	assert.Equal(t, ExitInterrupted, interrupted.ExitCode())
}
