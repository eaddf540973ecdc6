// Package strategy resolves which fix strategy applies to each lint
// error from the configured pattern lists.
package strategy

import (
	"github.com/richhaase/aifix/internal/domain"
	"github.com/richhaase/aifix/internal/pattern"
)

// DefaultNeverFixPatterns blocks automated edits where a wrong fix is
// worse than no fix.
var DefaultNeverFixPatterns = []string{
	"security:*",
	"eslint:security/*",
	"ruff:S6*",
}

// DefaultAutoFixPatterns covers mechanical fixes safe to apply without
// confirmation.
var DefaultAutoFixPatterns = []string{
	"ruff:I*",
	"ruff:F401",
	"ruff:W29*",
	"ruff:UP*",
	"eslint:prettier/*",
}

// Resolver maps errors to fix strategies. The never_fix list is
// consulted first, then auto_fix; everything else prompts, so the
// prompt_fix list needs no lookup of its own.
type Resolver struct {
	neverFix []pattern.Pattern
	autoFix  []pattern.Pattern
}

// New compiles a resolver from the three configured pattern lists. An
// invalid pattern is a configuration error. The prompt_fix list is
// compiled for validation only.
func New(autoFix, promptFix, neverFix []string) (*Resolver, error) {
	never, err := pattern.CompileAll(neverFix)
	if err != nil {
		return nil, err
	}
	auto, err := pattern.CompileAll(autoFix)
	if err != nil {
		return nil, err
	}
	if _, err := pattern.CompileAll(promptFix); err != nil {
		return nil, err
	}
	return &Resolver{neverFix: never, autoFix: auto}, nil
}

// NewDefault compiles a resolver from the built-in lists.
func NewDefault() *Resolver {
	r, err := New(DefaultAutoFixPatterns, nil, DefaultNeverFixPatterns)
	if err != nil {
		panic(err)
	}
	return r
}

// Resolve returns the strategy for an error. Patterns are matched
// against both tool:code and category:code, including codes merged
// during de-duplication. A never_fix match on any code wins outright.
func (r *Resolver) Resolve(e *domain.LintError) domain.FixStrategy {
	if matchesAny(r.neverFix, e) {
		return domain.StrategyNeverFix
	}
	if matchesAny(r.autoFix, e) {
		return domain.StrategyAutoFix
	}
	return domain.StrategyPromptFix
}

func matchesAny(patterns []pattern.Pattern, e *domain.LintError) bool {
	codes := append([]string{e.Code}, e.MergedCodes...)
	for _, p := range patterns {
		for _, code := range codes {
			if p.Matches(e.Tool, code) || p.Matches(e.Category, code) {
				return true
			}
		}
	}
	return false
}
