// Package config provides configuration file support for aifix.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/richhaase/aifix/internal/cache"
	"github.com/richhaase/aifix/internal/linter"
	"github.com/richhaase/aifix/internal/parser"
	"github.com/richhaase/aifix/internal/patch"
	"github.com/richhaase/aifix/internal/pattern"
	"github.com/richhaase/aifix/internal/pipeline"
	"github.com/richhaase/aifix/internal/provider"
)

// FileName is the primary config file name.
const FileName = ".aifix.yaml"

// AltFileName is the accepted alternate extension.
const AltFileName = ".aifix.yml"

// Duration is a custom type that handles YAML duration parsing.
// Supports both Go duration format ("90s", "2m") and numeric seconds.
type Duration time.Duration

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", v, err)
		}
		*d = Duration(parsed)
	case int:
		*d = Duration(time.Duration(v) * time.Second)
	case float64:
		*d = Duration(time.Duration(v) * time.Second)
	default:
		return fmt.Errorf("invalid duration type: %T", v)
	}
	return nil
}

// AsDuration returns the underlying time.Duration.
func (d Duration) AsDuration() time.Duration {
	return time.Duration(d)
}

// File represents the aifix configuration file.
type File struct {
	AIProvider    *string                   `yaml:"ai_provider"`
	Providers     map[string]ProviderFile   `yaml:"providers"`
	Linters       map[string]LinterFile     `yaml:"linters"`
	FixStrategies StrategiesFile            `yaml:"fix_strategies"`
	Behavior      BehaviorFile              `yaml:"behavior"`
	Cache         CacheFile                 `yaml:"cache"`
}

// ProviderFile holds one provider's section.
type ProviderFile struct {
	Enabled       *bool     `yaml:"enabled"`
	APIKeyEnv     *string   `yaml:"api_key_env"`
	Model         *string   `yaml:"model"`
	ModelSimple   *string   `yaml:"model_simple"`
	ModelModerate *string   `yaml:"model_moderate"`
	ModelComplex  *string   `yaml:"model_complex"`
	SmartModels   *bool     `yaml:"smart_models"`
	Host          *string   `yaml:"host"`
	Timeout       *Duration `yaml:"timeout"`
}

// LinterFile holds one linter's section.
type LinterFile struct {
	Enabled *bool    `yaml:"enabled"`
	Command *string  `yaml:"command"`
	Args    []string `yaml:"args"`
}

// StrategiesFile holds the fix strategy pattern lists.
type StrategiesFile struct {
	AutoFix   []string `yaml:"auto_fix"`
	PromptFix []string `yaml:"prompt_fix"`
	NeverFix  []string `yaml:"never_fix"`
}

// BehaviorFile holds the fix loop tuning knobs.
type BehaviorFile struct {
	BatchSizeSimple   *int `yaml:"batch_size_simple"`
	BatchSizeModerate *int `yaml:"batch_size_moderate"`
	BatchSizeComplex  *int `yaml:"batch_size_complex"`
	MaxFixIterations  *int `yaml:"max_fix_iterations"`
	ContextLines      *int `yaml:"context_lines"`
	MaxTotalErrors    *int `yaml:"max_total_errors"`
}

// CacheFile holds the suggestion cache section.
type CacheFile struct {
	Enabled  *bool   `yaml:"enabled"`
	Path     *string `yaml:"path"`
	TTLHours *int    `yaml:"ttl_hours"`
}

// LoadResult contains the loaded config and any warnings encountered.
type LoadResult struct {
	Config   *File
	Path     string
	Warnings []string
}

// Load reads .aifix.yaml (or .aifix.yml) from the given directory.
// Returns an empty config (not error) if neither file exists.
func Load(dir string) (*LoadResult, error) {
	for _, name := range []string{FileName, AltFileName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFromPath(path)
		}
	}
	return &LoadResult{Config: &File{}}, nil
}

// LoadFromPath reads a config file and returns warnings for unknown
// keys. A missing file yields an empty config; an unparseable or
// invalid file is an error.
func LoadFromPath(path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &LoadResult{Config: &File{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	warnings := checkUnknownKeys(data, filepath.Base(path))

	var cfg File
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", filepath.Base(path), err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	return &LoadResult{Config: &cfg, Path: path, Warnings: warnings}, nil
}

// Validate checks provider names, model names, linter names, strategy
// patterns, and numeric bounds. Violations surface before any linter
// or provider runs.
func (c *File) Validate() error {
	if c.AIProvider != nil && !provider.IsSupported(*c.AIProvider) {
		return fmt.Errorf("ai_provider must be one of %v, got %q", provider.SupportedProviders, *c.AIProvider)
	}

	for name, p := range c.Providers {
		if !provider.IsSupported(name) {
			return fmt.Errorf("unknown provider %q in providers section", name)
		}
		for _, model := range []*string{p.Model, p.ModelSimple, p.ModelModerate, p.ModelComplex} {
			if model != nil && !provider.KnownModel(name, *model) {
				return fmt.Errorf("unknown model %q for provider %q", *model, name)
			}
		}
		if p.Timeout != nil && *p.Timeout <= 0 {
			return fmt.Errorf("provider %q timeout must be > 0", name)
		}
	}

	for name := range c.Linters {
		if !parser.IsSupported(name) {
			return fmt.Errorf("unknown linter %q, supported: %v", name, parser.SupportedTools())
		}
	}

	for section, patterns := range map[string][]string{
		"auto_fix":   c.FixStrategies.AutoFix,
		"prompt_fix": c.FixStrategies.PromptFix,
		"never_fix":  c.FixStrategies.NeverFix,
	} {
		if _, err := pattern.CompileAll(patterns); err != nil {
			return fmt.Errorf("fix_strategies.%s: %w", section, err)
		}
	}

	b := c.Behavior
	for name, v := range map[string]*int{
		"batch_size_simple":   b.BatchSizeSimple,
		"batch_size_moderate": b.BatchSizeModerate,
		"batch_size_complex":  b.BatchSizeComplex,
		"max_fix_iterations":  b.MaxFixIterations,
		"max_total_errors":    b.MaxTotalErrors,
	} {
		if v != nil && *v < 1 {
			return fmt.Errorf("behavior.%s must be >= 1, got %d", name, *v)
		}
	}
	if b.ContextLines != nil && *b.ContextLines < 0 {
		return fmt.Errorf("behavior.context_lines must be >= 0, got %d", *b.ContextLines)
	}
	if c.Cache.TTLHours != nil && *c.Cache.TTLHours < 1 {
		return fmt.Errorf("cache.ttl_hours must be >= 1, got %d", *c.Cache.TTLHours)
	}

	return nil
}

var knownTopLevelKeys = []string{"ai_provider", "providers", "linters", "fix_strategies", "behavior", "cache"}

var knownSectionKeys = map[string][]string{
	"fix_strategies": {"auto_fix", "prompt_fix", "never_fix"},
	"behavior":       {"batch_size_simple", "batch_size_moderate", "batch_size_complex", "max_fix_iterations", "context_lines", "max_total_errors"},
	"cache":          {"enabled", "path", "ttl_hours"},
}

var knownProviderKeys = []string{"enabled", "api_key_env", "model", "model_simple", "model_moderate", "model_complex", "smart_models", "host", "timeout"}

var knownLinterKeys = []string{"enabled", "command", "args"}

// checkUnknownKeys inspects the raw YAML for keys the schema does not
// define and returns warnings. Unknown keys never fail the load.
func checkUnknownKeys(data []byte, fileName string) []string {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		// The main parser reports the error.
		return nil
	}

	var warnings []string
	warn := func(key, section string) {
		if section == "" {
			warnings = append(warnings, fmt.Sprintf("unknown key %q in %s", key, fileName))
			return
		}
		warnings = append(warnings, fmt.Sprintf("unknown key %q in %s section of %s", key, section, fileName))
	}

	for key := range raw {
		if !slices.Contains(knownTopLevelKeys, key) {
			warn(key, "")
		}
	}
	for section, known := range knownSectionKeys {
		m, ok := raw[section].(map[string]any)
		if !ok {
			continue
		}
		for key := range m {
			if !slices.Contains(known, key) {
				warn(key, section)
			}
		}
	}
	if providers, ok := raw["providers"].(map[string]any); ok {
		for name, sub := range providers {
			m, ok := sub.(map[string]any)
			if !ok {
				continue
			}
			for key := range m {
				if !slices.Contains(knownProviderKeys, key) {
					warn(key, "providers."+name)
				}
			}
		}
	}
	if linters, ok := raw["linters"].(map[string]any); ok {
		for name, sub := range linters {
			m, ok := sub.(map[string]any)
			if !ok {
				continue
			}
			for key := range m {
				if !slices.Contains(knownLinterKeys, key) {
					warn(key, "linters."+name)
				}
			}
		}
	}

	sort.Strings(warnings)
	return warnings
}

// ProviderSettings are the resolved values for one provider.
type ProviderSettings struct {
	Enabled       bool
	APIKeyEnv     string
	Model         string
	ModelSimple   string
	ModelModerate string
	ModelComplex  string
	SmartModels   bool
	Host          string
	Timeout       time.Duration
}

// LinterSettings are the resolved values for one linter.
type LinterSettings struct {
	Enabled bool
	Command string
	Args    []string
}

// Resolved holds the final configuration after merging defaults, the
// config file, environment variables, and flags.
type Resolved struct {
	// Provider pins the chain to one provider; empty means the full
	// fallback order.
	Provider  string
	Providers map[string]ProviderSettings
	Auto      bool

	// Model overrides beat per-provider settings when set.
	Model         string
	ModelSimple   string
	ModelModerate string
	ModelComplex  string

	Linters map[string]LinterSettings

	// Strategy pattern lists; nil lists mean the built-in defaults.
	AutoFix   []string
	PromptFix []string
	NeverFix  []string

	BatchSizeSimple   int
	BatchSizeModerate int
	BatchSizeComplex  int
	MaxIterations     int
	ContextLines      int
	MaxTotalErrors    int
	Timeout           time.Duration

	CacheEnabled bool
	CachePath    string
	CacheTTL     time.Duration
}

// Defaults holds the built-in default values. Provider maps are filled
// by Resolve so the zero maps here stay shared-state free.
var Defaults = Resolved{
	BatchSizeSimple:   pipeline.DefaultBatchSimple,
	BatchSizeModerate: pipeline.DefaultBatchModerate,
	BatchSizeComplex:  pipeline.DefaultBatchComplex,
	MaxIterations:     pipeline.DefaultMaxIterations,
	ContextLines:      patch.DefaultContextLines,
	MaxTotalErrors:    linter.DefaultMaxErrors,
	Timeout:           provider.DefaultTimeout,
	CacheEnabled:      true,
	CachePath:         cache.DefaultPath,
	CacheTTL:          cache.DefaultTTL,
}

// FlagState tracks whether a flag was explicitly set.
type FlagState struct {
	ProviderSet      bool
	ModelSet         bool
	ModelSimpleSet   bool
	ModelModerateSet bool
	ModelComplexSet  bool
	AutoSet          bool
	MaxIterationsSet bool
	TimeoutSet       bool
}

// EnvState captures env var values and whether they were set.
type EnvState struct {
	Provider    string
	ProviderSet bool
	Auto        bool
	AutoSet     bool
	Model       string
	ModelSet    bool
}

// LoadEnvState reads the AIFIX_* environment variables.
func LoadEnvState() EnvState {
	var state EnvState

	if v := os.Getenv("AIFIX_PROVIDER"); v != "" {
		state.Provider = v
		state.ProviderSet = true
	}
	if v := os.Getenv("AIFIX_AUTO"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			state.Auto = b
			state.AutoSet = true
		}
	}
	if v := os.Getenv("AIFIX_MODEL"); v != "" {
		state.Model = v
		state.ModelSet = true
	}

	return state
}

// Resolve merges config file values with env vars and flags.
// Precedence: flags > env vars > config file > defaults.
func Resolve(cfg *File, envState EnvState, flagState FlagState, flagValues Resolved) Resolved {
	result := Defaults
	result.Providers = make(map[string]ProviderSettings, len(provider.SupportedProviders))
	for _, name := range provider.SupportedProviders {
		result.Providers[name] = ProviderSettings{Enabled: true, SmartModels: true}
	}
	tools := parser.SupportedTools()
	result.Linters = make(map[string]LinterSettings, len(tools))
	for _, name := range tools {
		result.Linters[name] = LinterSettings{Enabled: true}
	}

	if cfg != nil {
		applyFile(&result, cfg)
	}

	if envState.ProviderSet {
		result.Provider = envState.Provider
	}
	if envState.AutoSet {
		result.Auto = envState.Auto
	}
	if envState.ModelSet {
		result.Model = envState.Model
	}

	if flagState.ProviderSet {
		result.Provider = flagValues.Provider
	}
	if flagState.ModelSet {
		result.Model = flagValues.Model
	}
	if flagState.ModelSimpleSet {
		result.ModelSimple = flagValues.ModelSimple
	}
	if flagState.ModelModerateSet {
		result.ModelModerate = flagValues.ModelModerate
	}
	if flagState.ModelComplexSet {
		result.ModelComplex = flagValues.ModelComplex
	}
	if flagState.AutoSet {
		result.Auto = flagValues.Auto
	}
	if flagState.MaxIterationsSet {
		result.MaxIterations = flagValues.MaxIterations
	}
	if flagState.TimeoutSet {
		result.Timeout = flagValues.Timeout
	}

	return result
}

func applyFile(result *Resolved, cfg *File) {
	if cfg.AIProvider != nil {
		result.Provider = *cfg.AIProvider
	}
	for name, p := range cfg.Providers {
		s := result.Providers[name]
		if p.Enabled != nil {
			s.Enabled = *p.Enabled
		}
		if p.APIKeyEnv != nil {
			s.APIKeyEnv = *p.APIKeyEnv
		}
		if p.Model != nil {
			s.Model = *p.Model
		}
		if p.ModelSimple != nil {
			s.ModelSimple = *p.ModelSimple
		}
		if p.ModelModerate != nil {
			s.ModelModerate = *p.ModelModerate
		}
		if p.ModelComplex != nil {
			s.ModelComplex = *p.ModelComplex
		}
		if p.SmartModels != nil {
			s.SmartModels = *p.SmartModels
		}
		if p.Host != nil {
			s.Host = *p.Host
		}
		if p.Timeout != nil {
			s.Timeout = p.Timeout.AsDuration()
		}
		result.Providers[name] = s
	}
	for name, l := range cfg.Linters {
		s := result.Linters[name]
		if l.Enabled != nil {
			s.Enabled = *l.Enabled
		}
		if l.Command != nil {
			s.Command = *l.Command
		}
		if len(l.Args) > 0 {
			s.Args = l.Args
		}
		result.Linters[name] = s
	}
	if len(cfg.FixStrategies.AutoFix) > 0 {
		result.AutoFix = cfg.FixStrategies.AutoFix
	}
	if len(cfg.FixStrategies.PromptFix) > 0 {
		result.PromptFix = cfg.FixStrategies.PromptFix
	}
	if len(cfg.FixStrategies.NeverFix) > 0 {
		result.NeverFix = cfg.FixStrategies.NeverFix
	}

	b := cfg.Behavior
	if b.BatchSizeSimple != nil {
		result.BatchSizeSimple = *b.BatchSizeSimple
	}
	if b.BatchSizeModerate != nil {
		result.BatchSizeModerate = *b.BatchSizeModerate
	}
	if b.BatchSizeComplex != nil {
		result.BatchSizeComplex = *b.BatchSizeComplex
	}
	if b.MaxFixIterations != nil {
		result.MaxIterations = *b.MaxFixIterations
	}
	if b.ContextLines != nil {
		result.ContextLines = *b.ContextLines
	}
	if b.MaxTotalErrors != nil {
		result.MaxTotalErrors = *b.MaxTotalErrors
	}

	if cfg.Cache.Enabled != nil {
		result.CacheEnabled = *cfg.Cache.Enabled
	}
	if cfg.Cache.Path != nil {
		result.CachePath = *cfg.Cache.Path
	}
	if cfg.Cache.TTLHours != nil {
		result.CacheTTL = time.Duration(*cfg.Cache.TTLHours) * time.Hour
	}
}

// Validate checks the merged result. Flag and env values are not
// schema-checked at parse time, so this is where an unknown --provider
// or --model surfaces.
func (r Resolved) Validate() error {
	if r.Provider != "" && !provider.IsSupported(r.Provider) {
		return fmt.Errorf("provider must be one of %v, got %q", provider.SupportedProviders, r.Provider)
	}
	if r.MaxIterations < 1 {
		return fmt.Errorf("max iterations must be >= 1, got %d", r.MaxIterations)
	}
	if r.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0, got %s", r.Timeout)
	}

	// Model overrides must belong to at least one provider in the
	// chain. A pinned provider narrows the check to its own catalog.
	order := r.ProviderOrder()
	for _, model := range []string{r.Model, r.ModelSimple, r.ModelModerate, r.ModelComplex} {
		if model == "" {
			continue
		}
		known := false
		for _, name := range order {
			if provider.KnownModel(name, model) {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("unknown model %q for providers %v", model, order)
		}
	}
	return nil
}

// ProviderOrder returns the enabled providers in chain order. A pinned
// provider yields a single-element order.
func (r Resolved) ProviderOrder() []string {
	if r.Provider != "" {
		return []string{r.Provider}
	}
	var order []string
	for _, name := range provider.FallbackOrder {
		if s, ok := r.Providers[name]; !ok || s.Enabled {
			order = append(order, name)
		}
	}
	return order
}

// ProviderConfig flattens the resolved settings into the provider
// chain's configuration. Per-provider sections contribute the key env,
// host, and model settings of the providers that carry them.
func (r Resolved) ProviderConfig() provider.Config {
	cfg := provider.Config{
		Timeout:       r.Timeout,
		Model:         r.Model,
		ModelSimple:   r.ModelSimple,
		ModelModerate: r.ModelModerate,
		ModelComplex:  r.ModelComplex,
		SmartModels:   true,
	}

	if s, ok := r.Providers["mistral"]; ok {
		cfg.APIKeyEnv = s.APIKeyEnv
	}
	if s, ok := r.Providers["ollama"]; ok {
		cfg.Host = s.Host
	}

	// The pinned provider's section supplies per-complexity models and
	// the smart-model toggle.
	if s, ok := r.Providers[r.Provider]; r.Provider != "" && ok {
		cfg.SmartModels = s.SmartModels
		if cfg.Model == "" {
			cfg.Model = s.Model
		}
		if cfg.ModelSimple == "" {
			cfg.ModelSimple = s.ModelSimple
		}
		if cfg.ModelModerate == "" {
			cfg.ModelModerate = s.ModelModerate
		}
		if cfg.ModelComplex == "" {
			cfg.ModelComplex = s.ModelComplex
		}
		if s.Timeout > 0 {
			cfg.Timeout = s.Timeout
		}
	}
	return cfg
}

// LinterCommands converts the resolved linter settings into runner
// command overrides, returning also the enabled tool names.
func (r Resolved) LinterCommands() (map[string]linter.Command, []string) {
	commands := make(map[string]linter.Command)
	var enabled []string
	for _, name := range parser.SupportedTools() {
		s, ok := r.Linters[name]
		if ok && !s.Enabled {
			continue
		}
		enabled = append(enabled, name)
		if s.Command != "" {
			commands[name] = linter.Command{Name: s.Command, Args: s.Args}
		}
	}
	return commands, enabled
}

// BatchSizes converts the resolved batch settings for the scheduler.
func (r Resolved) BatchSizes() pipeline.BatchSizes {
	return pipeline.BatchSizes{
		Simple:   r.BatchSizeSimple,
		Moderate: r.BatchSizeModerate,
		Complex:  r.BatchSizeComplex,
	}
}
