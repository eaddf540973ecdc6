package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/richhaase/aifix/internal/cache"
	"github.com/richhaase/aifix/internal/classify"
	"github.com/richhaase/aifix/internal/config"
	"github.com/richhaase/aifix/internal/domain"
	"github.com/richhaase/aifix/internal/linter"
	"github.com/richhaase/aifix/internal/parser"
	"github.com/richhaase/aifix/internal/patch"
	"github.com/richhaase/aifix/internal/pipeline"
	"github.com/richhaase/aifix/internal/provider"
	"github.com/richhaase/aifix/internal/strategy"
	"github.com/richhaase/aifix/internal/terminal"
)

func runRoot(cmd *cobra.Command, _ []string) error {
	if !terminal.IsStdoutTTY() {
		terminal.SetColorsEnabled(false)
	}

	logger := terminal.NewLogger()
	logger.SetVerbose(verbose)
	logger.SetQuiet(quiet)
	logger.SetJSON(jsonOutput)
	defer func() {
		if err := logger.FlushJSON(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr)
		logger.Warning("Interrupted, shutting down...")
		cancel()
	}()

	resolved, err := loadResolved(cmd, logger)
	if err != nil {
		logger.Error("%v", err)
		return exitCode(domain.ExitConfig)
	}

	store := cache.Open(resolved.CachePath, resolved.CacheTTL, resolved.CacheEnabled)
	if store.Corrupt() {
		logger.Warning("cache file is unreadable, starting with an empty cache")
	}

	if clearCache {
		if err := store.Clear(); err != nil {
			logger.Error("%v", err)
			return exitCode(domain.ExitConfig)
		}
		logger.Success("suggestion cache cleared")
		return nil
	}

	if listModels {
		printModelCatalog(os.Stdout, resolved.Provider)
		return nil
	}

	tools, err := selectTools(resolved, logger)
	if err != nil {
		logger.Error("%v", err)
		return exitCode(domain.ExitConfig)
	}
	if len(tools) == 0 {
		logger.Warning("no linters detected for this project")
		return nil
	}
	logger.Debug("linters: %v", tools)

	commands, _ := resolved.LinterCommands()
	runner := linter.NewRunner(commands, 0, resolved.MaxTotalErrors, logger)

	// --dry-run implies the fix path; an explicit --check always lists.
	if checkMode || (!fixMode && !dryRun) {
		return runCheck(ctx, runner, tools, logger)
	}

	resolver, err := buildResolver(resolved)
	if err != nil {
		logger.Error("%v", err)
		return exitCode(domain.ExitConfig)
	}

	providerCfg := resolved.ProviderConfig()
	if noSmartModels {
		providerCfg.SmartModels = false
	}
	chain, err := provider.NewChain(resolved.ProviderOrder(), providerCfg, logger)
	if err != nil {
		logger.Error("%v", err)
		return exitCode(domain.ExitConfig)
	}
	logger.Debug("provider chain: %v", chain.Names())

	controller := patch.NewController(os.Stdin, os.Stdout)

	p := pipeline.New(runner, chain, controller, classify.NewDefault(), resolver, store, logger, pipeline.Options{
		Tools:         tools,
		Files:         files,
		Auto:          resolved.Auto,
		DryRun:        dryRun,
		Explain:       explain,
		SingleIssue:   singleIssue,
		MaxIterations: resolved.MaxIterations,
		ContextLines:  resolved.ContextLines,
		BatchSizes:    resolved.BatchSizes(),
	})

	summary, err := p.Run(ctx)
	if err != nil {
		logger.Error("%v", err)
		return exitCode(domain.ExitConfig)
	}

	printSummary(logger, summary)
	return exitCode(summary.ExitCode())
}

// loadResolved reads the config file, merges env vars and flags, and
// validates the result.
func loadResolved(cmd *cobra.Command, logger *terminal.Logger) (config.Resolved, error) {
	var result *config.LoadResult
	var err error
	if configPath != "" {
		result, err = config.LoadFromPath(configPath)
	} else {
		result, err = config.Load(".")
	}
	if err != nil {
		return config.Resolved{}, err
	}
	for _, warning := range result.Warnings {
		logger.Warning("%s", warning)
	}

	flagState := config.FlagState{
		ProviderSet:      cmd.Flags().Changed("provider"),
		ModelSet:         cmd.Flags().Changed("model"),
		ModelSimpleSet:   cmd.Flags().Changed("model-simple"),
		ModelModerateSet: cmd.Flags().Changed("model-moderate"),
		ModelComplexSet:  cmd.Flags().Changed("model-complex"),
		AutoSet:          cmd.Flags().Changed("auto"),
		MaxIterationsSet: cmd.Flags().Changed("max-iterations"),
		TimeoutSet:       cmd.Flags().Changed("timeout"),
	}
	flagValues := config.Resolved{
		Provider:      providerName,
		Model:         model,
		ModelSimple:   modelSimple,
		ModelModerate: modelModerate,
		ModelComplex:  modelComplex,
		Auto:          autoMode,
		MaxIterations: maxIterations,
		Timeout:       timeout,
	}

	resolved := config.Resolve(result.Config, config.LoadEnvState(), flagState, flagValues)
	if err := resolved.Validate(); err != nil {
		return config.Resolved{}, err
	}
	return resolved, nil
}

// selectTools returns the linters to run: the --linters flag when set,
// otherwise the auto-detected tools the config leaves enabled.
func selectTools(resolved config.Resolved, logger *terminal.Logger) ([]string, error) {
	if len(linters) > 0 {
		for _, tool := range linters {
			if !parser.IsSupported(tool) {
				return nil, fmt.Errorf("unknown linter %q, supported: %v", tool, parser.SupportedTools())
			}
		}
		return linters, nil
	}

	_, enabled := resolved.LinterCommands()
	enabledSet := make(map[string]bool, len(enabled))
	for _, tool := range enabled {
		enabledSet[tool] = true
	}

	var tools []string
	for _, tool := range linter.Detect(".") {
		if enabledSet[tool] {
			tools = append(tools, tool)
		} else {
			logger.Debug("linter %s detected but disabled in config", tool)
		}
	}
	return tools, nil
}

// buildResolver compiles the strategy lists, falling back to the
// built-in defaults when the config defines none.
func buildResolver(resolved config.Resolved) (*strategy.Resolver, error) {
	if resolved.AutoFix == nil && resolved.PromptFix == nil && resolved.NeverFix == nil {
		return strategy.NewDefault(), nil
	}
	return strategy.New(resolved.AutoFix, resolved.PromptFix, resolved.NeverFix)
}

// runCheck lists the current lint errors without fixing anything.
func runCheck(ctx context.Context, runner *linter.Runner, tools []string, logger *terminal.Logger) error {
	logger.Phase("aggregating lint errors")
	errs, diags := runner.Collect(ctx, tools, files)
	for _, d := range diags {
		logger.Warning("%v", d)
	}

	if len(errs) == 0 {
		logger.Success("no lint errors found")
		return nil
	}

	printErrorList(os.Stdout, errs)
	logger.Info("found %d %s", len(errs), terminal.Pluralize(len(errs), "error", "errors"))
	return exitCode(domain.ExitUnresolved)
}
