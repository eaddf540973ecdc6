package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/richhaase/aifix/internal/domain"
	"github.com/richhaase/aifix/internal/terminal"
)

// ErrAllProvidersExhausted reports that every provider in the chain
// failed. It is non-fatal: the affected errors stay unresolved.
var ErrAllProvidersExhausted = errors.New("all providers exhausted")

// Chain tries providers in order, falling through on unavailable,
// timed-out, or malformed responses. The order is fixed for the life
// of the chain, so it stays stable within a run.
type Chain struct {
	providers []Provider
	cfg       Config
	logger    *terminal.Logger
}

// NewChain builds a chain from provider names, preserving order.
func NewChain(names []string, cfg Config, logger *terminal.Logger) (*Chain, error) {
	if len(names) == 0 {
		names = FallbackOrder
	}
	providers := make([]Provider, 0, len(names))
	for _, name := range names {
		p, err := New(name, cfg)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return &Chain{providers: providers, cfg: cfg, logger: logger}, nil
}

// NewChainOf builds a chain from already-constructed providers,
// primarily for tests.
func NewChainOf(cfg Config, logger *terminal.Logger, providers ...Provider) *Chain {
	return &Chain{providers: providers, cfg: cfg, logger: logger}
}

// Names returns the chain's provider names in order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return names
}

// Fix asks each provider in turn for a suggestion, selecting the model
// per provider from the request's complexity. On exhaustion the
// returned error wraps ErrAllProvidersExhausted and lists every
// failure.
func (c *Chain) Fix(ctx context.Context, req Request) (*domain.FixSuggestion, error) {
	var failures []string

	for _, p := range c.providers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := p.Available(); err != nil {
			failures = append(failures, err.Error())
			c.debugf("provider %s unavailable: %v", p.Name(), err)
			continue
		}

		req.Model = c.cfg.ModelFor(p.Name(), req.Complexity)
		suggestion, err := p.Invoke(ctx, req)
		if err != nil {
			var failure *Failure
			if errors.As(err, &failure) {
				failures = append(failures, failure.Error())
				c.debugf("provider %s failed (%s), trying next", p.Name(), failure.Kind)
				continue
			}
			return nil, err
		}
		return suggestion, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrAllProvidersExhausted, strings.Join(failures, "; "))
}

func (c *Chain) debugf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(format, args...)
	}
}
