package provider

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/richhaase/aifix/internal/domain"
)

// vibeProvider wraps the Mistral Vibe CLI.
type vibeProvider struct {
	cfg Config
}

func newVibeProvider(cfg Config) *vibeProvider {
	return &vibeProvider{cfg: cfg}
}

func (p *vibeProvider) Name() string { return "vibe" }

func (p *vibeProvider) apiKeyEnv() string {
	if p.cfg.APIKeyEnv != "" {
		return p.cfg.APIKeyEnv
	}
	return "MISTRAL_API_KEY"
}

func (p *vibeProvider) Available() error {
	if _, err := exec.LookPath("vibe"); err != nil {
		return &Failure{Provider: p.Name(), Kind: FailureUnavailable,
			Err: fmt.Errorf("vibe not found in PATH")}
	}
	if os.Getenv(p.apiKeyEnv()) == "" {
		return &Failure{Provider: p.Name(), Kind: FailureUnavailable,
			Err: fmt.Errorf("%s not set", p.apiKeyEnv())}
	}
	return nil
}

func (p *vibeProvider) Invoke(ctx context.Context, req Request) (*domain.FixSuggestion, error) {
	prompt := buildFixPrompt(req)

	// --yolo auto-approves actions so the CLI never blocks on input.
	output, err := runCLI(ctx, p.Name(), p.cfg.InvokeTimeout(), "vibe",
		"-p", prompt, "--yolo", "--model", req.Model)
	if err != nil {
		return nil, err
	}

	code := ExtractCode(output)
	if code == "" {
		return nil, &Failure{Provider: p.Name(), Kind: FailureMalformed,
			Err: fmt.Errorf("empty response")}
	}

	return &domain.FixSuggestion{
		Patch:       code,
		Explanation: fmt.Sprintf("Fix by Vibe CLI (%s)", req.Model),
		Provider:    p.Name(),
		Model:       req.Model,
	}, nil
}
