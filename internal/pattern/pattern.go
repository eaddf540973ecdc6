// Package pattern implements the tool:code matchers used by complexity
// classification and fix-strategy resolution.
package pattern

import (
	"fmt"
	"path"
	"strings"
)

// Pattern is a compiled tool:code matcher. The tool part matches a tool
// or category name exactly; the code part supports shell-style
// wildcards. Matching is case-insensitive. A bare name with no colon
// matches every code from that tool, and "*" matches everything.
type Pattern struct {
	raw  string
	tool string
	code string
}

// Compile validates and compiles a pattern string. Invalid wildcard
// syntax is a configuration error.
func Compile(raw string) (Pattern, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return Pattern{}, fmt.Errorf("empty pattern")
	}

	p := Pattern{raw: raw, tool: s, code: "*"}
	if tool, code, ok := strings.Cut(s, ":"); ok {
		if tool == "" || code == "" {
			return Pattern{}, fmt.Errorf("pattern %q: both sides of the colon must be non-empty", raw)
		}
		p.tool = tool
		p.code = code
	}

	if _, err := path.Match(p.code, ""); err != nil {
		return Pattern{}, fmt.Errorf("pattern %q: %w", raw, err)
	}
	if p.tool != "*" && strings.ContainsAny(p.tool, "*?[") {
		return Pattern{}, fmt.Errorf("pattern %q: wildcards are only supported in the code part", raw)
	}

	return p, nil
}

// CompileAll compiles a list of pattern strings, failing on the first
// invalid one.
func CompileAll(raws []string) ([]Pattern, error) {
	out := make([]Pattern, 0, len(raws))
	for _, raw := range raws {
		p, err := Compile(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// String returns the original pattern text.
func (p Pattern) String() string { return p.raw }

// Matches reports whether the pattern matches the given tool and code.
func (p Pattern) Matches(tool, code string) bool {
	if p.tool != "*" && p.tool != strings.ToLower(tool) {
		return false
	}
	ok, err := path.Match(p.code, strings.ToLower(code))
	return err == nil && ok
}

// Rule pairs a compiled pattern with an outcome.
type Rule[T any] struct {
	Pattern Pattern
	Outcome T
}

// Table is an ordered first-match-wins rule table.
type Table[T any] struct {
	rules []Rule[T]
}

// NewTable compiles (pattern, outcome) pairs into a table, preserving
// order.
func NewTable[T any](entries map[string]T, order []string) (*Table[T], error) {
	t := &Table[T]{rules: make([]Rule[T], 0, len(order))}
	for _, raw := range order {
		p, err := Compile(raw)
		if err != nil {
			return nil, err
		}
		t.rules = append(t.rules, Rule[T]{Pattern: p, Outcome: entries[raw]})
	}
	return t, nil
}

// Append adds a compiled rule to the end of the table.
func (t *Table[T]) Append(p Pattern, outcome T) {
	t.rules = append(t.rules, Rule[T]{Pattern: p, Outcome: outcome})
}

// Match returns the outcome of the first rule matching (tool, code).
func (t *Table[T]) Match(tool, code string) (T, bool) {
	for _, r := range t.rules {
		if r.Pattern.Matches(tool, code) {
			return r.Outcome, true
		}
	}
	var zero T
	return zero, false
}

// Len returns the number of rules in the table.
func (t *Table[T]) Len() int { return len(t.rules) }
