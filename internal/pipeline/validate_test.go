package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richhaase/aifix/internal/domain"
)

func TestComputeDeltaClassifiesOutcomes(t *testing.T) {
	fixed := domain.LintError{Tool: "ruff", Code: "F401", File: "a.py", Line: 1, Message: "unused import", Category: "lint"}
	stubborn := domain.LintError{Tool: "mypy", Code: "arg-type", File: "a.py", Line: 5, Message: "bad arg", Category: "type"}
	regression := domain.LintError{Tool: "ruff", Code: "E999", File: "a.py", Line: 2, Message: "syntax error", Category: "lint"}

	delta := ComputeDelta(
		[]domain.LintError{fixed, stubborn},
		[]domain.LintError{stubborn, regression},
	)

	require.Len(t, delta.Resolved, 1)
	assert.Equal(t, "F401", delta.Resolved[0].Code)
	require.Len(t, delta.StillPresent, 1)
	assert.Equal(t, "arg-type", delta.StillPresent[0].Code)
	require.Len(t, delta.Introduced, 1)
	assert.Equal(t, "E999", delta.Introduced[0].Code)
}

func TestComputeDeltaRegressionInheritsOriginUrgency(t *testing.T) {
	origin := domain.LintError{Tool: "ruff", Code: "S608", File: "a.py", Line: 1, Message: "sql injection", Category: "security"}
	regression := domain.LintError{Tool: "ruff", Code: "E501", File: "a.py", Line: 3, Message: "line too long", Category: "lint"}

	delta := ComputeDelta([]domain.LintError{origin}, []domain.LintError{regression})

	require.Len(t, delta.Introduced, 1)
	assert.Equal(t, "security", delta.Introduced[0].OriginCategory)
	assert.Equal(t, 0, delta.Introduced[0].Priority())
}

func TestComputeDeltaIsPerFile(t *testing.T) {
	// Same signature in a different file counts as a separate error.
	a := domain.LintError{Tool: "ruff", Code: "F401", File: "a.py", Line: 1, Message: "unused import"}
	b := a
	b.File = "b.py"

	delta := ComputeDelta([]domain.LintError{a}, []domain.LintError{b})
	assert.Len(t, delta.Resolved, 1)
	assert.Len(t, delta.Introduced, 1)
}

func TestSignatureSetComparison(t *testing.T) {
	a := domain.LintError{Tool: "ruff", Code: "F401", File: "a.py", Message: "unused"}
	b := domain.LintError{Tool: "mypy", Code: "arg-type", File: "b.py", Message: "bad"}

	s1 := signatureSet([]domain.LintError{a, b})
	s2 := signatureSet([]domain.LintError{b, a})
	s3 := signatureSet([]domain.LintError{a})

	assert.True(t, sameSignatureSet(s1, s2))
	assert.False(t, sameSignatureSet(s1, s3))
}
