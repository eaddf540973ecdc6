package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/richhaase/aifix/internal/domain"
)

func TestExtractCodeFencedBlock(t *testing.T) {
	output := "Sure, here you go:\n```python\nimport os\n\nprint(os.getcwd())\n```\nHope that helps!"
	assert.Equal(t, "import os\n\nprint(os.getcwd())", ExtractCode(output))
}

func TestExtractCodeBareFence(t *testing.T) {
	output := "```\nx = 1\n```"
	assert.Equal(t, "x = 1", ExtractCode(output))
}

func TestExtractCodeFixedCodeIntro(t *testing.T) {
	output := "Fixed code:\nimport sys\nsys.exit(0)"
	assert.Equal(t, "import sys\nsys.exit(0)", ExtractCode(output))
}

func TestExtractCodeRawWhenCodeLike(t *testing.T) {
	assert.Equal(t, "x = compute()", ExtractCode("x = compute()\n"))
}

func TestExtractCodeRejectsProse(t *testing.T) {
	assert.Empty(t, ExtractCode("I cannot fix this error."))
	assert.Empty(t, ExtractCode("The code looks fine to me."))
	assert.Empty(t, ExtractCode("  "))
}

func TestBuildFixPromptIncludesBatchPeers(t *testing.T) {
	target := domain.LintError{Tool: "ruff", Code: "F401", File: "app.py", Line: 1, Column: 1,
		Message: "'os' imported but unused", Suggestion: "Remove unused import"}
	peer := domain.LintError{Tool: "ruff", Code: "F841", File: "app.py", Line: 9, Column: 5,
		Message: "local variable 'x' is assigned to but never used"}

	prompt := buildFixPrompt(Request{
		Target:  target,
		Batch:   []domain.LintError{target, peer},
		Excerpt: "import os\nimport sys",
	})

	assert.Contains(t, prompt, "ruff error (F401)")
	assert.Contains(t, prompt, "File: app.py, Line: 1")
	assert.Contains(t, prompt, "Linter suggestion: Remove unused import")
	assert.Contains(t, prompt, "F841")
	assert.Contains(t, prompt, "import os\nimport sys")
	// The target itself is not repeated in the peer list.
	assert.Equal(t, 1, countOccurrences(prompt, "F401"))
}

func countOccurrences(s, sub string) int {
	count := 0
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			count++
		}
	}
	return count
}
