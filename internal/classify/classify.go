// Package classify assigns fix complexity to lint errors and orders
// them for processing.
package classify

import (
	"sort"

	"github.com/richhaase/aifix/internal/domain"
	"github.com/richhaase/aifix/internal/pattern"
)

// DefaultSimplePatterns covers mechanical fixes: import ordering,
// unused symbols, line length, formatting.
var DefaultSimplePatterns = []string{
	"ruff:I*",
	"ruff:F401",
	"ruff:F841",
	"ruff:W*",
	"ruff:E501",
	"ruff:UP*",
	"eslint:import/*",
	"eslint:prettier/*",
	"eslint:@typescript-eslint/no-unused-vars",
}

// DefaultComplexPatterns covers fixes that need real reasoning:
// security findings, bug-prone constructs, high complexity.
var DefaultComplexPatterns = []string{
	"ruff:S*",
	"ruff:B*",
	"ruff:C9*",
	"security:*",
	"eslint:security/*",
}

// Classifier assigns a complexity bucket to each error. Complex
// patterns are consulted before simple ones; anything unmatched is
// moderate.
type Classifier struct {
	table *pattern.Table[domain.Complexity]
}

// New compiles a classifier from ordered pattern lists. An invalid
// pattern is a configuration error.
func New(simple, complex []string) (*Classifier, error) {
	table := &pattern.Table[domain.Complexity]{}
	for _, raw := range complex {
		p, err := pattern.Compile(raw)
		if err != nil {
			return nil, err
		}
		table.Append(p, domain.ComplexityComplex)
	}
	for _, raw := range simple {
		p, err := pattern.Compile(raw)
		if err != nil {
			return nil, err
		}
		table.Append(p, domain.ComplexitySimple)
	}
	return &Classifier{table: table}, nil
}

// NewDefault compiles a classifier from the built-in pattern lists.
func NewDefault() *Classifier {
	c, err := New(DefaultSimplePatterns, DefaultComplexPatterns)
	if err != nil {
		panic(err)
	}
	return c
}

// Complexity returns the bucket for an error. Security-category errors
// are always complex. Patterns are matched against both tool:code and
// category:code, including codes merged during de-duplication.
func (c *Classifier) Complexity(e *domain.LintError) domain.Complexity {
	if e.Category == "security" {
		return domain.ComplexityComplex
	}

	codes := append([]string{e.Code}, e.MergedCodes...)
	for _, code := range codes {
		if out, ok := c.table.Match(e.Tool, code); ok {
			return out
		}
		if out, ok := c.table.Match(e.Category, code); ok {
			return out
		}
	}
	return domain.ComplexityModerate
}

// SortErrors orders errors by category priority, then by file, line,
// and column. The sort is stable, so equal keys keep first-seen order.
func SortErrors(errs []domain.LintError) {
	sort.SliceStable(errs, func(i, j int) bool {
		a, b := &errs[i], &errs[j]
		if a.Priority() != b.Priority() {
			return a.Priority() < b.Priority()
		}
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}
