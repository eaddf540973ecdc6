package provider

import (
	"context"

	"github.com/richhaase/aifix/internal/domain"
)

// MockProvider returns the request excerpt unchanged. Always
// available; used by tests and dry runs against synthetic data.
type MockProvider struct {
	// FixFunc overrides the response when set.
	FixFunc func(req Request) (*domain.FixSuggestion, error)
	// Invocations counts Invoke calls.
	Invocations int
}

// NewMockProvider creates a mock provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) Name() string { return "mock" }

func (p *MockProvider) Available() error { return nil }

func (p *MockProvider) Invoke(_ context.Context, req Request) (*domain.FixSuggestion, error) {
	p.Invocations++
	if p.FixFunc != nil {
		return p.FixFunc(req)
	}
	return &domain.FixSuggestion{
		Patch:       req.Excerpt,
		Explanation: "Mock fix for testing",
		Provider:    p.Name(),
		Model:       req.Model,
	}, nil
}
