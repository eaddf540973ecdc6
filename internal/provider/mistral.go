package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/richhaase/aifix/internal/domain"
)

const mistralEndpoint = "https://api.mistral.ai/v1/chat/completions"

// mistralProvider calls the Mistral chat completions API directly.
type mistralProvider struct {
	cfg      Config
	client   *http.Client
	endpoint string
}

func newMistralProvider(cfg Config) *mistralProvider {
	return &mistralProvider{
		cfg:      cfg,
		client:   &http.Client{},
		endpoint: mistralEndpoint,
	}
}

func (p *mistralProvider) Name() string { return "mistral" }

func (p *mistralProvider) apiKeyEnv() string {
	if p.cfg.APIKeyEnv != "" {
		return p.cfg.APIKeyEnv
	}
	return "MISTRAL_API_KEY"
}

func (p *mistralProvider) Available() error {
	if os.Getenv(p.apiKeyEnv()) == "" {
		return &Failure{Provider: p.Name(), Kind: FailureUnavailable,
			Err: fmt.Errorf("%s not set", p.apiKeyEnv())}
	}
	return nil
}

type mistralRequest struct {
	Model       string           `json:"model"`
	Messages    []mistralMessage `json:"messages"`
	Temperature float64          `json:"temperature"`
	MaxTokens   int              `json:"max_tokens"`
}

type mistralMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type mistralResponse struct {
	Choices []struct {
		Message mistralMessage `json:"message"`
	} `json:"choices"`
}

func (p *mistralProvider) Invoke(ctx context.Context, req Request) (*domain.FixSuggestion, error) {
	apiKey := os.Getenv(p.apiKeyEnv())
	if apiKey == "" {
		return nil, &Failure{Provider: p.Name(), Kind: FailureUnavailable,
			Err: fmt.Errorf("%s not set", p.apiKeyEnv())}
	}

	body, err := json.Marshal(mistralRequest{
		Model: req.Model,
		Messages: []mistralMessage{
			{Role: "system", Content: "You are a code fixing assistant. Return only the fixed code, no explanations."},
			{Role: "user", Content: buildFixPrompt(req)},
		},
		Temperature: 0.1,
		MaxTokens:   1000,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding mistral request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.InvokeTimeout())
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building mistral request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

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
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, &Failure{Provider: p.Name(), Kind: FailureMalformed,
			Err: fmt.Errorf("API returned %d: %s", resp.StatusCode, detail)}
	}

	var decoded mistralResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &Failure{Provider: p.Name(), Kind: FailureMalformed, Err: err}
	}
	if len(decoded.Choices) == 0 {
		return nil, &Failure{Provider: p.Name(), Kind: FailureMalformed,
			Err: fmt.Errorf("no choices in response")}
	}

	code := ExtractCode(decoded.Choices[0].Message.Content)
	if code == "" {
		return nil, &Failure{Provider: p.Name(), Kind: FailureMalformed,
			Err: fmt.Errorf("empty response")}
	}

	return &domain.FixSuggestion{
		Patch:       code,
		Explanation: fmt.Sprintf("Fix by Mistral (%s)", req.Model),
		Provider:    p.Name(),
		Model:       req.Model,
	}, nil
}
