// Package domain provides the core types shared across the fix engine.
package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"
)

// Severity classifies how serious a linter diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeverityHint    Severity = "hint"
)

// Complexity buckets an error by how involved its fix is expected to be.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// FixStrategy decides how an error moves through the fix pipeline.
type FixStrategy string

const (
	StrategyAutoFix   FixStrategy = "auto_fix"
	StrategyPromptFix FixStrategy = "prompt_fix"
	StrategyNeverFix  FixStrategy = "never_fix"
)

// categoryPriority orders error categories for fixing; lower is more urgent.
var categoryPriority = map[string]int{
	"security": 0,
	"type":     1,
	"error":    2,
	"lint":     3,
	"style":    4,
	"format":   5,
}

// LintError is the unified representation of a single linter diagnostic,
// regardless of which tool produced it.
type LintError struct {
	Tool     string   `json:"tool"`
	Code     string   `json:"code"`
	File     string   `json:"file"`
	Line     int      `json:"line"`
	Column   int      `json:"column"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	Category string   `json:"category"`

	// MergedCodes holds additional codes reported at the same location,
	// populated by Dedupe.
	MergedCodes []string `json:"merged_codes,omitempty"`

	// Suggestion is a tool-provided auto-fix hint, when the linter emits one.
	Suggestion string `json:"suggestion,omitempty"`

	// Context is the surrounding source excerpt and ContextStart the
	// 1-based line the excerpt begins at.
	Context      string `json:"context,omitempty"`
	ContextStart int    `json:"context_start,omitempty"`

	// OriginCategory is set on errors introduced by an applied fix. A
	// regression sorts at least as urgently as the error whose fix
	// caused it.
	OriginCategory string `json:"origin_category,omitempty"`

	// Raw preserves the original diagnostic payload for --explain output.
	Raw string `json:"-"`
}

// LocationKey identifies the error's position for de-duplication.
func (e *LintError) LocationKey() string {
	return fmt.Sprintf("%s:%d:%d", e.File, e.Line, e.Column)
}

// Priority returns the fix-ordering priority of the error's category.
// Unknown categories sort after all known ones. Regressions inherit
// their origin's priority when it is more urgent.
func (e *LintError) Priority() int {
	p := lookupPriority(e.Category)
	if e.OriginCategory != "" {
		if op := lookupPriority(e.OriginCategory); op < p {
			p = op
		}
	}
	return p
}

func lookupPriority(category string) int {
	if p, ok := categoryPriority[category]; ok {
		return p
	}
	return len(categoryPriority)
}

// String renders the error the way linters print locations.
func (e *LintError) String() string {
	return fmt.Sprintf("%s:%d:%d [%s:%s] %s", e.File, e.Line, e.Column, e.Tool, e.Code, e.Message)
}

// Signature returns a stable 16-hex-char identity for the error. Two
// diagnostics with the same tool, code, normalized message, and nearby
// code context share a signature even when formatting-only details
// differ, which lets cached fixes and cross-iteration comparisons
// survive cosmetic drift.
func (e *LintError) Signature() string {
	context := e.Context
	if len(context) > 200 {
		context = context[:200]
	}
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00%s", e.Tool, e.Code, normalizeMessage(e.Message), normalizeMessage(context))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// normalizeMessage lowercases and collapses runs of whitespace so
// formatting-only changes keep the same identity.
func normalizeMessage(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Dedupe merges errors that share a location key. The first-seen error
// at a location wins; codes from later duplicates are unioned into
// MergedCodes. First-seen order is preserved.
func Dedupe(errors []LintError) []LintError {
	index := make(map[string]int, len(errors))
	out := make([]LintError, 0, len(errors))

	for _, e := range errors {
		key := e.LocationKey()
		i, seen := index[key]
		if !seen {
			index[key] = len(out)
			out = append(out, e)
			continue
		}
		keeper := &out[i]
		if e.Code != keeper.Code && !slices.Contains(keeper.MergedCodes, e.Code) {
			keeper.MergedCodes = append(keeper.MergedCodes, e.Code)
		}
	}

	return out
}
