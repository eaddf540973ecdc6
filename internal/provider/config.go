package provider

import (
	"time"

	"github.com/richhaase/aifix/internal/domain"
)

// DefaultTimeout bounds a single provider invocation.
const DefaultTimeout = 120 * time.Second

// Config carries the resolved provider settings for a run.
type Config struct {
	// APIKeyEnv names the environment variable holding the API key
	// for providers that need one.
	APIKeyEnv string
	// Host overrides the Ollama endpoint.
	Host string
	// Timeout bounds one invocation; zero means DefaultTimeout.
	Timeout time.Duration

	// Model is an explicit override that beats everything else.
	Model string
	// ModelSimple, ModelModerate, and ModelComplex are per-complexity
	// overrides from configuration.
	ModelSimple   string
	ModelModerate string
	ModelComplex  string
	// SmartModels enables the per-provider complexity table when no
	// override applies.
	SmartModels bool
}

// InvokeTimeout returns the effective per-invocation timeout.
func (c Config) InvokeTimeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}

// ModelFor selects the model for a provider and complexity.
// Precedence: explicit override, per-complexity configuration, smart
// table, provider default.
func (c Config) ModelFor(provider string, complexity domain.Complexity) string {
	if c.Model != "" {
		return c.Model
	}

	var configured string
	switch complexity {
	case domain.ComplexitySimple:
		configured = c.ModelSimple
	case domain.ComplexityModerate:
		configured = c.ModelModerate
	case domain.ComplexityComplex:
		configured = c.ModelComplex
	}
	if configured != "" {
		return configured
	}

	if c.SmartModels {
		if table, ok := smartModels[provider]; ok {
			if model, ok := table[complexity]; ok {
				return model
			}
		}
	}
	return DefaultModel(provider)
}
