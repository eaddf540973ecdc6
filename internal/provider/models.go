package provider

import (
	"sort"

	"github.com/richhaase/aifix/internal/domain"
)

// ModelInfo describes a model's rough speed/quality/cost tradeoff for
// the --list-models catalog.
type ModelInfo struct {
	Speed   string
	Quality string
	Cost    string
}

var copilotModels = map[string]ModelInfo{
	"claude-haiku-4.5":     {Speed: "fast", Quality: "medium", Cost: "low"},
	"claude-sonnet-4":      {Speed: "medium", Quality: "high", Cost: "medium"},
	"claude-sonnet-4.5":    {Speed: "medium", Quality: "high", Cost: "medium"},
	"claude-opus-4.5":      {Speed: "slow", Quality: "highest", Cost: "high"},
	"gpt-4.1":              {Speed: "fast", Quality: "medium", Cost: "low"},
	"gpt-5-mini":           {Speed: "fast", Quality: "medium", Cost: "low"},
	"gpt-5":                {Speed: "medium", Quality: "high", Cost: "medium"},
	"gpt-5.1":              {Speed: "medium", Quality: "high", Cost: "medium"},
	"gpt-5.2":              {Speed: "medium", Quality: "high", Cost: "medium"},
	"gpt-5.1-codex":        {Speed: "medium", Quality: "high", Cost: "medium"},
	"gpt-5.1-codex-mini":   {Speed: "fast", Quality: "medium", Cost: "low"},
	"gpt-5.1-codex-max":    {Speed: "slow", Quality: "highest", Cost: "high"},
	"gpt-5.2-codex":        {Speed: "medium", Quality: "high", Cost: "medium"},
	"gemini-3-pro-preview": {Speed: "medium", Quality: "high", Cost: "medium"},
}

var mistralModels = map[string]ModelInfo{
	"devstral-small":        {Speed: "fast", Quality: "medium", Cost: "low"},
	"devstral-2":            {Speed: "medium", Quality: "highest", Cost: "medium"},
	"codestral-latest":      {Speed: "fast", Quality: "high", Cost: "medium"},
	"mistral-small-latest":  {Speed: "fast", Quality: "medium", Cost: "low"},
	"mistral-medium-latest": {Speed: "medium", Quality: "medium", Cost: "medium"},
	"mistral-large-latest":  {Speed: "medium", Quality: "high", Cost: "medium"},
	"open-codestral-mamba":  {Speed: "fast", Quality: "medium", Cost: "low"},
}

var ollamaModels = map[string]ModelInfo{
	"codellama:7b":        {Speed: "fast", Quality: "medium", Cost: "free"},
	"codellama:13b":       {Speed: "medium", Quality: "high", Cost: "free"},
	"codellama:34b":       {Speed: "slow", Quality: "highest", Cost: "free"},
	"deepseek-coder:6.7b": {Speed: "fast", Quality: "medium", Cost: "free"},
	"deepseek-coder:33b":  {Speed: "slow", Quality: "high", Cost: "free"},
	"qwen2.5-coder:7b":    {Speed: "fast", Quality: "high", Cost: "free"},
	"qwen2.5-coder:32b":   {Speed: "slow", Quality: "highest", Cost: "free"},
	"llama3.2:3b":         {Speed: "fast", Quality: "low", Cost: "free"},
	"llama3.3:70b":        {Speed: "slow", Quality: "highest", Cost: "free"},
}

// modelsByProvider maps provider name to its model catalog. Vibe and
// the Mistral API expose the same models.
var modelsByProvider = map[string]map[string]ModelInfo{
	"copilot-cli": copilotModels,
	"vibe":        mistralModels,
	"mistral":     mistralModels,
	"ollama":      ollamaModels,
}

// smartModels picks fast models for simple fixes and the strongest
// available for complex ones.
var smartModels = map[string]map[domain.Complexity]string{
	"copilot-cli": {
		domain.ComplexitySimple:   "claude-haiku-4.5",
		domain.ComplexityModerate: "claude-sonnet-4.5",
		domain.ComplexityComplex:  "claude-opus-4.5",
	},
	"vibe": {
		domain.ComplexitySimple:   "devstral-small",
		domain.ComplexityModerate: "devstral-2",
		domain.ComplexityComplex:  "devstral-2",
	},
	"mistral": {
		domain.ComplexitySimple:   "devstral-small",
		domain.ComplexityModerate: "devstral-2",
		domain.ComplexityComplex:  "devstral-2",
	},
	"ollama": {
		domain.ComplexitySimple:   "qwen2.5-coder:7b",
		domain.ComplexityModerate: "codellama:13b",
		domain.ComplexityComplex:  "qwen2.5-coder:32b",
	},
}

// defaultModels is used when smart selection is disabled and nothing
// is configured.
var defaultModels = map[string]string{
	"copilot-cli": "claude-sonnet-4.5",
	"vibe":        "devstral-2",
	"mistral":     "devstral-2",
	"ollama":      "qwen2.5-coder:7b",
}

// KnownModel reports whether the model belongs to the provider's
// catalog. Providers without a catalog (mock) accept anything.
func KnownModel(provider, model string) bool {
	catalog, ok := modelsByProvider[provider]
	if !ok {
		return true
	}
	_, ok = catalog[model]
	return ok
}

// CatalogEntry is one row of the --list-models output.
type CatalogEntry struct {
	Model string
	Info  ModelInfo
}

// Catalog returns the provider's models sorted by name.
func Catalog(provider string) []CatalogEntry {
	catalog := modelsByProvider[provider]
	entries := make([]CatalogEntry, 0, len(catalog))
	for model, info := range catalog {
		entries = append(entries, CatalogEntry{Model: model, Info: info})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Model < entries[j].Model })
	return entries
}

// DefaultModel returns the provider's fallback model.
func DefaultModel(provider string) string {
	return defaultModels[provider]
}
