package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richhaase/aifix/internal/provider"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

func TestLoadFromPathMissingFile(t *testing.T) {
	result, err := LoadFromPath(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	assert.NotNil(t, result.Config)
	assert.Empty(t, result.Warnings)
}

func TestLoadFindsAltExtension(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, AltFileName), []byte("ai_provider: ollama\n"), 0644))

	result, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, result.Config.AIProvider)
	assert.Equal(t, "ollama", *result.Config.AIProvider)
}

func TestLoadFromPathFullFile(t *testing.T) {
	path := writeConfig(t, `
ai_provider: ollama
providers:
  ollama:
    host: http://gpu-box:11434
    model_simple: qwen2.5-coder:7b
    smart_models: false
  mistral:
    api_key_env: MY_MISTRAL_KEY
    timeout: 90s
linters:
  pylint:
    enabled: false
  ruff:
    command: ruff
    args: ["check", "--output-format=json", "--preview"]
fix_strategies:
  auto_fix:
    - "ruff:I*"
  never_fix:
    - "security:*"
behavior:
  batch_size_simple: 5
  max_fix_iterations: 2
  context_lines: 3
cache:
  enabled: false
  ttl_hours: 24
`)

	result, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)

	cfg := result.Config
	require.NotNil(t, cfg.AIProvider)
	assert.Equal(t, "ollama", *cfg.AIProvider)
	require.Contains(t, cfg.Providers, "mistral")
	assert.Equal(t, 90*time.Second, cfg.Providers["mistral"].Timeout.AsDuration())
	assert.Equal(t, "http://gpu-box:11434", *cfg.Providers["ollama"].Host)
	assert.False(t, *cfg.Linters["pylint"].Enabled)
	assert.Equal(t, []string{"ruff:I*"}, cfg.FixStrategies.AutoFix)
	assert.Equal(t, 5, *cfg.Behavior.BatchSizeSimple)
	assert.Equal(t, 24, *cfg.Cache.TTLHours)
}

func TestLoadFromPathInvalidYAML(t *testing.T) {
	path := writeConfig(t, "ai_provider: [unclosed\n")
	_, err := LoadFromPath(path)
	assert.Error(t, err)
}

func TestLoadFromPathUnknownKeyWarnings(t *testing.T) {
	path := writeConfig(t, `
ai_providr: ollama
providers:
  ollama:
    hostname: somewhere
behavior:
  batch_size: 5
`)

	result, err := LoadFromPath(path)
	require.NoError(t, err)
	require.Len(t, result.Warnings, 3)
	assert.Contains(t, result.Warnings[0], `"ai_providr"`)
	assert.Contains(t, result.Warnings[1], "behavior")
	assert.Contains(t, result.Warnings[2], "providers.ollama")
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown provider", "ai_provider: gpt9\n", "ai_provider"},
		{"unknown provider section", "providers:\n  gpt9:\n    enabled: true\n", "unknown provider"},
		{"unknown model", "providers:\n  ollama:\n    model: made-up\n", "unknown model"},
		{"unknown linter", "linters:\n  clippy:\n    enabled: true\n", "unknown linter"},
		{"bad pattern", "fix_strategies:\n  never_fix:\n    - \"ruff:[\"\n", "never_fix"},
		{"bad batch size", "behavior:\n  batch_size_simple: 0\n", "batch_size_simple"},
		{"negative context", "behavior:\n  context_lines: -1\n", "context_lines"},
		{"bad ttl", "cache:\n  ttl_hours: 0\n", "ttl_hours"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.yaml)
			_, err := LoadFromPath(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDurationUnmarshalNumericSeconds(t *testing.T) {
	path := writeConfig(t, "providers:\n  mistral:\n    timeout: 45\n")
	result, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, result.Config.Providers["mistral"].Timeout.AsDuration())
}

func TestResolvePrecedence(t *testing.T) {
	cfg := &File{
		AIProvider: strPtr("ollama"),
		Behavior:   BehaviorFile{MaxFixIterations: intPtr(5)},
	}
	env := EnvState{Provider: "mistral", ProviderSet: true, Auto: true, AutoSet: true}
	flags := FlagState{ProviderSet: true}
	flagValues := Resolved{Provider: "copilot-cli"}

	result := Resolve(cfg, env, flags, flagValues)

	// Flag beats env beats file.
	assert.Equal(t, "copilot-cli", result.Provider)
	// Env applies where no flag was set.
	assert.True(t, result.Auto)
	// File applies where neither was set.
	assert.Equal(t, 5, result.MaxIterations)
	// Defaults fill the rest.
	assert.Equal(t, Defaults.BatchSizeSimple, result.BatchSizeSimple)
	assert.True(t, result.CacheEnabled)
}

func TestResolveDefaultsWithoutFile(t *testing.T) {
	result := Resolve(nil, EnvState{}, FlagState{}, Resolved{})

	assert.Empty(t, result.Provider)
	assert.Equal(t, 3, result.MaxIterations)
	assert.Equal(t, 100, result.MaxTotalErrors)
	assert.True(t, result.Providers["ollama"].Enabled)
	assert.True(t, result.Providers["ollama"].SmartModels)
	assert.True(t, result.Linters["ruff"].Enabled)
}

func TestLoadEnvState(t *testing.T) {
	t.Setenv("AIFIX_PROVIDER", "ollama")
	t.Setenv("AIFIX_AUTO", "1")
	t.Setenv("AIFIX_MODEL", "qwen2.5-coder:7b")

	state := LoadEnvState()
	assert.True(t, state.ProviderSet)
	assert.Equal(t, "ollama", state.Provider)
	assert.True(t, state.AutoSet)
	assert.True(t, state.Auto)
	assert.True(t, state.ModelSet)
}

func TestLoadEnvStateIgnoresBadBool(t *testing.T) {
	t.Setenv("AIFIX_AUTO", "maybe")
	state := LoadEnvState()
	assert.False(t, state.AutoSet)
}

func TestResolvedValidate(t *testing.T) {
	r := Resolve(nil, EnvState{}, FlagState{}, Resolved{})
	require.NoError(t, r.Validate())

	r.Provider = "gpt9"
	assert.Error(t, r.Validate())

	r.Provider = "ollama"
	r.Model = "made-up"
	assert.Error(t, r.Validate())

	r.Model = "qwen2.5-coder:7b"
	assert.NoError(t, r.Validate())
}

func TestResolvedValidateModelAgainstChainUnion(t *testing.T) {
	// Without a pinned provider the override must match some chain
	// provider's catalog.
	r := Resolve(nil, EnvState{}, FlagState{}, Resolved{})

	r.Model = "bogus"
	err := r.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown model "bogus"`)

	// Known only to the mistral/vibe catalog, still fine in the chain.
	r.Model = "devstral-2"
	assert.NoError(t, r.Validate())

	// Known only to ollama.
	r.Model = "codellama:13b"
	assert.NoError(t, r.Validate())
}

func TestProviderOrder(t *testing.T) {
	r := Resolve(nil, EnvState{}, FlagState{}, Resolved{})
	assert.Equal(t, provider.FallbackOrder, r.ProviderOrder())

	vibe := r.Providers["vibe"]
	vibe.Enabled = false
	r.Providers["vibe"] = vibe
	assert.Equal(t, []string{"copilot-cli", "ollama", "mistral"}, r.ProviderOrder())

	r.Provider = "mistral"
	assert.Equal(t, []string{"mistral"}, r.ProviderOrder())
}

func TestProviderConfigFlattening(t *testing.T) {
	cfg := &File{
		AIProvider: strPtr("ollama"),
		Providers: map[string]ProviderFile{
			"mistral": {APIKeyEnv: strPtr("MY_KEY")},
			"ollama": {
				Host:        strPtr("http://gpu-box:11434"),
				ModelSimple: strPtr("qwen2.5-coder:7b"),
				SmartModels: boolPtr(false),
				Timeout:     durationPtr(90 * time.Second),
			},
		},
	}
	r := Resolve(cfg, EnvState{}, FlagState{}, Resolved{})

	pc := r.ProviderConfig()
	assert.Equal(t, "MY_KEY", pc.APIKeyEnv)
	assert.Equal(t, "http://gpu-box:11434", pc.Host)
	assert.Equal(t, "qwen2.5-coder:7b", pc.ModelSimple)
	assert.False(t, pc.SmartModels)
	assert.Equal(t, 90*time.Second, pc.Timeout)
}

func durationPtr(d time.Duration) *Duration {
	v := Duration(d)
	return &v
}

func TestLinterCommands(t *testing.T) {
	cfg := &File{
		Linters: map[string]LinterFile{
			"pylint": {Enabled: boolPtr(false)},
			"ruff":   {Command: strPtr("ruff"), Args: []string{"check", "--preview"}},
		},
	}
	r := Resolve(cfg, EnvState{}, FlagState{}, Resolved{})

	commands, enabled := r.LinterCommands()
	assert.NotContains(t, enabled, "pylint")
	assert.Contains(t, enabled, "ruff")
	assert.Equal(t, []string{"check", "--preview"}, commands["ruff"].Args)
}
