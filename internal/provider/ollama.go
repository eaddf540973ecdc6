package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/richhaase/aifix/internal/domain"
)

const defaultOllamaHost = "http://localhost:11434"

// ollamaProvider talks to a local Ollama server.
type ollamaProvider struct {
	cfg    Config
	client *http.Client
}

func newOllamaProvider(cfg Config) *ollamaProvider {
	return &ollamaProvider{cfg: cfg, client: &http.Client{}}
}

func (p *ollamaProvider) Name() string { return "ollama" }

func (p *ollamaProvider) host() string {
	if p.cfg.Host != "" {
		return p.cfg.Host
	}
	if h := os.Getenv("OLLAMA_HOST"); h != "" {
		return h
	}
	return defaultOllamaHost
}

func (p *ollamaProvider) Available() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.host()+"/api/tags", nil)
	if err != nil {
		return &Failure{Provider: p.Name(), Kind: FailureUnavailable, Err: err}
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return &Failure{Provider: p.Name(), Kind: FailureUnavailable,
			Err: fmt.Errorf("ollama not reachable at %s: %w", p.host(), err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &Failure{Provider: p.Name(), Kind: FailureUnavailable,
			Err: fmt.Errorf("ollama returned %d", resp.StatusCode)}
	}
	return nil
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

func (p *ollamaProvider) Invoke(ctx context.Context, req Request) (*domain.FixSuggestion, error) {
	body, err := json.Marshal(ollamaRequest{
		Model:   req.Model,
		Prompt:  buildFixPrompt(req),
		Stream:  false,
		Options: ollamaOptions{Temperature: 0.1, NumPredict: 1000},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding ollama request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.InvokeTimeout())
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.host()+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building ollama request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		kind := FailureUnavailable
		if errors.Is(err, context.DeadlineExceeded) {
			kind = FailureTimeout
		}
		return nil, &Failure{Provider: p.Name(), Kind: kind, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &Failure{Provider: p.Name(), Kind: FailureMalformed,
			Err: fmt.Errorf("ollama returned %d", resp.StatusCode)}
	}

	var decoded ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &Failure{Provider: p.Name(), Kind: FailureMalformed, Err: err}
	}

	code := extractOllamaCode(decoded.Response)
	if code == "" {
		return nil, &Failure{Provider: p.Name(), Kind: FailureMalformed,
			Err: fmt.Errorf("empty response")}
	}

	return &domain.FixSuggestion{
		Patch:       code,
		Explanation: fmt.Sprintf("Fix by Ollama (%s)", req.Model),
		Provider:    p.Name(),
		Model:       req.Model,
	}, nil
}

// extractOllamaCode prefers a fenced block; without one, local models
// tend to prepend commentary lines, so those are filtered out.
func extractOllamaCode(output string) string {
	if m := fencedBlock.FindStringSubmatch(output); m != nil {
		return strings.TrimSpace(m[1])
	}

	var codeLines []string
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if strings.HasPrefix(line, "Note:") || strings.HasPrefix(line, "Fix:") {
			continue
		}
		codeLines = append(codeLines, line)
	}
	return strings.TrimSpace(strings.Join(codeLines, "\n"))
}
