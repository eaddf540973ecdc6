// Package main provides the CLI entry point for aifix.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/richhaase/aifix/internal/domain"
)

// version is injected at build time via -ldflags.
var version = "dev"

var (
	checkMode     bool
	fixMode       bool
	autoMode      bool
	dryRun        bool
	explain       bool
	providerName  string
	model         string
	modelSimple   string
	modelModerate string
	modelComplex  string
	noSmartModels bool
	singleIssue   bool
	maxIterations int
	jsonOutput    bool
	configPath    string
	files         []string
	linters       []string
	timeout       time.Duration
	verbose       bool
	quiet         bool
	listModels    bool
	clearCache    bool
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := &cobra.Command{
		Use:   "aifix",
		Short: "AI-assisted lint fixing - aggregate lint errors and fix them iteratively",
		Long: `Aggregate errors from multiple linters, group them by complexity, and
drive an AI provider to propose, apply, and validate fixes.

Exit codes:
  0 - No lint errors remain
  1 - Unresolved errors remain
  2 - Configuration or usage error
  130 - Interrupted`,
		RunE:          runRoot,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Mode flags
	rootCmd.Flags().BoolVar(&checkMode, "check", false,
		"List lint errors without fixing (default when --fix is absent)")
	rootCmd.Flags().BoolVar(&fixMode, "fix", false,
		"Run the fix loop")
	rootCmd.Flags().BoolVar(&autoMode, "auto", false,
		"Apply suggestions without prompting (env: AIFIX_AUTO)")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false,
		"Show diffs without writing files")
	rootCmd.Flags().BoolVar(&explain, "explain", false,
		"Log each suggestion's explanation")
	rootCmd.Flags().BoolVar(&singleIssue, "single-issue", false,
		"Fix one error per provider call")

	// Provider and model selection
	rootCmd.Flags().StringVarP(&providerName, "provider", "p", "",
		"AI provider: copilot-cli, vibe, mistral, ollama (default: fallback chain, env: AIFIX_PROVIDER)")
	rootCmd.Flags().StringVarP(&model, "model", "m", "",
		"Model override for every fix (env: AIFIX_MODEL)")
	rootCmd.Flags().StringVar(&modelSimple, "model-simple", "",
		"Model for simple fixes")
	rootCmd.Flags().StringVar(&modelModerate, "model-moderate", "",
		"Model for moderate fixes")
	rootCmd.Flags().StringVar(&modelComplex, "model-complex", "",
		"Model for complex fixes")
	rootCmd.Flags().BoolVar(&noSmartModels, "no-smart-models", false,
		"Disable per-complexity model selection")
	rootCmd.Flags().DurationVarP(&timeout, "timeout", "t", 0,
		"Timeout per provider call (default: 2m)")

	// Scope
	rootCmd.Flags().StringSliceVar(&files, "files", nil,
		"Restrict linting to these files")
	rootCmd.Flags().StringSliceVar(&linters, "linters", nil,
		"Linters to run (default: auto-detect): ruff, mypy, eslint, pylint, tsc")
	rootCmd.Flags().IntVar(&maxIterations, "max-iterations", 0,
		"Fix loop iteration budget (default: 3)")

	// Output
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false,
		"Emit buffered structured log events as JSON on stdout")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"Print debug output")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false,
		"Only print warnings and errors")

	// Maintenance
	rootCmd.Flags().StringVar(&configPath, "config", "",
		"Config file path (default: .aifix.yaml in the working directory)")
	rootCmd.Flags().BoolVar(&listModels, "list-models", false,
		"Print the model catalog and exit")
	rootCmd.Flags().BoolVar(&clearCache, "clear-cache", false,
		"Empty the suggestion cache and exit")

	if err := rootCmd.Execute(); err != nil {
		if exitErr, ok := err.(exitCodeError); ok {
			return exitErr.code.Int()
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return domain.ExitConfig.Int()
	}

	return 0
}
