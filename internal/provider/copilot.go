package provider

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/richhaase/aifix/internal/domain"
)

// copilotProvider wraps the GitHub Copilot CLI, falling back to the
// legacy `gh copilot` subcommand when the standalone binary is absent.
type copilotProvider struct {
	cfg Config
}

func newCopilotProvider(cfg Config) *copilotProvider {
	return &copilotProvider{cfg: cfg}
}

func (p *copilotProvider) Name() string { return "copilot-cli" }

func (p *copilotProvider) Available() error {
	if _, err := exec.LookPath("copilot"); err == nil {
		return nil
	}
	if _, err := exec.LookPath("gh"); err == nil {
		return nil
	}
	return &Failure{Provider: p.Name(), Kind: FailureUnavailable,
		Err: fmt.Errorf("neither copilot nor gh found in PATH")}
}

func (p *copilotProvider) Invoke(ctx context.Context, req Request) (*domain.FixSuggestion, error) {
	prompt := buildFixPrompt(req)

	var output string
	var err error
	legacy := false
	if _, lookErr := exec.LookPath("copilot"); lookErr == nil {
		// -p exits after completion; --allow-all and --no-ask-user
		// keep the run autonomous.
		output, err = runCLI(ctx, p.Name(), p.cfg.InvokeTimeout(), "copilot",
			"-p", prompt, "--allow-all", "--no-ask-user", "--model", req.Model)
	} else {
		legacy = true
		output, err = runCLI(ctx, p.Name(), p.cfg.InvokeTimeout(), "gh",
			"copilot", "suggest", prompt)
	}
	if err != nil {
		return nil, err
	}

	code := ExtractCode(output)
	if code == "" {
		return nil, &Failure{Provider: p.Name(), Kind: FailureMalformed,
			Err: fmt.Errorf("empty response")}
	}

	explanation := fmt.Sprintf("Fix by Copilot CLI (%s)", req.Model)
	if legacy {
		explanation = "Fix suggested by GitHub Copilot (legacy)"
	}
	return &domain.FixSuggestion{
		Patch:       code,
		Explanation: explanation,
		Provider:    p.Name(),
		Model:       req.Model,
	}, nil
}
