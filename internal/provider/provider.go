// Package provider implements the AI fix providers and the fallback
// chain that drives them.
package provider

import (
	"context"
	"fmt"

	"github.com/richhaase/aifix/internal/domain"
)

// SupportedProviders lists all valid provider names.
var SupportedProviders = []string{"copilot-cli", "vibe", "mistral", "ollama", "mock"}

// DefaultProvider is used when no provider is configured.
const DefaultProvider = "copilot-cli"

// FallbackOrder is the chain order when providers are auto-detected.
var FallbackOrder = []string{"copilot-cli", "vibe", "ollama", "mistral"}

// Request carries everything a provider needs to propose a fix for one
// error: the target, its batch peers for context, and the file text.
type Request struct {
	Target domain.LintError
	// Batch holds the other errors grouped with the target, so the
	// model sees related problems without being asked to fix them.
	Batch []domain.LintError
	// FileContent is the full file text; Excerpt is the context
	// window around the error that the patch replaces.
	FileContent string
	Excerpt     string
	// Complexity selects the model; Model is filled in by the chain
	// before the provider is invoked.
	Complexity domain.Complexity
	Model      string
}

// Provider proposes fixes for lint errors.
type Provider interface {
	// Name returns the provider's identifier.
	Name() string
	// Available reports whether the provider can be used right now,
	// with a reason when it cannot.
	Available() error
	// Invoke asks the provider for a fix. Failures that should move
	// the chain to the next provider are returned as *Failure.
	Invoke(ctx context.Context, req Request) (*domain.FixSuggestion, error)
}

// FailureKind classifies provider failures for chain fallthrough.
type FailureKind string

const (
	FailureUnavailable FailureKind = "unavailable"
	FailureTimeout     FailureKind = "timeout"
	FailureMalformed   FailureKind = "malformed"
)

// Failure is a provider error that triggers fallthrough to the next
// provider in the chain.
type Failure struct {
	Provider string
	Kind     FailureKind
	Err      error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Provider, f.Kind, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Provider, f.Kind)
}

func (f *Failure) Unwrap() error { return f.Err }

// New creates a provider by name.
func New(name string, cfg Config) (Provider, error) {
	switch name {
	case "copilot-cli":
		return newCopilotProvider(cfg), nil
	case "vibe":
		return newVibeProvider(cfg), nil
	case "mistral":
		return newMistralProvider(cfg), nil
	case "ollama":
		return newOllamaProvider(cfg), nil
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown provider %q, supported: %v", name, SupportedProviders)
	}
}

// IsSupported reports whether name is a known provider.
func IsSupported(name string) bool {
	for _, p := range SupportedProviders {
		if p == name {
			return true
		}
	}
	return false
}
