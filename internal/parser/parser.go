// Package parser converts raw linter output into the unified error
// model. One parser per supported tool, registered by name.
package parser

import (
	"fmt"

	"github.com/richhaase/aifix/internal/domain"
)

// Parser converts one tool's raw output into lint errors.
type Parser interface {
	// Name returns the tool name the parser handles.
	Name() string
	// Parse converts raw tool output. A malformed payload returns a
	// *ParseError; an empty payload returns no errors.
	Parse(raw []byte) ([]domain.LintError, error)
}

// ParseError reports that one tool's output could not be decoded. The
// run records it as a diagnostic and continues with other tools.
type ParseError struct {
	Tool string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s output: %v", e.Tool, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// New returns the parser registered for the given tool name.
func New(tool string) (Parser, error) {
	switch tool {
	case "ruff":
		return &ruffParser{}, nil
	case "mypy":
		return &mypyParser{}, nil
	case "eslint":
		return &eslintParser{}, nil
	case "pylint":
		return &pylintParser{}, nil
	case "tsc":
		return &tscParser{}, nil
	default:
		return nil, fmt.Errorf("unknown linter: %s (supported: %v)", tool, SupportedTools())
	}
}

// SupportedTools lists the tools with registered parsers.
func SupportedTools() []string {
	return []string{"ruff", "mypy", "eslint", "pylint", "tsc"}
}

// IsSupported reports whether a parser is registered for the tool.
func IsSupported(tool string) bool {
	for _, t := range SupportedTools() {
		if t == tool {
			return true
		}
	}
	return false
}
