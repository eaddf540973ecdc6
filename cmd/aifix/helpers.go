package main

import (
	"fmt"
	"io"

	"github.com/richhaase/aifix/internal/domain"
	"github.com/richhaase/aifix/internal/provider"
	"github.com/richhaase/aifix/internal/terminal"
)

// exitCodeError is a wrapper type for returning exit codes via the
// error interface.
type exitCodeError struct {
	code domain.ExitCode
}

func (e exitCodeError) Error() string {
	switch e.code {
	case domain.ExitUnresolved:
		return "lint errors remain"
	case domain.ExitConfig:
		return "configuration error"
	case domain.ExitInterrupted:
		return "run was interrupted"
	default:
		return fmt.Sprintf("exit code %d", e.code)
	}
}

func exitCode(code domain.ExitCode) error {
	if code == domain.ExitClean {
		return nil
	}
	return exitCodeError{code: code}
}

// printErrorList writes a severity-colored listing of lint errors.
func printErrorList(w io.Writer, errs []domain.LintError) {
	for _, e := range errs {
		color := terminal.SeverityColor(string(e.Severity))
		fmt.Fprintf(w, "%s%-7s%s %s\n",
			terminal.Color(color), e.Severity, terminal.Color(terminal.Reset), e.String())
	}
}

// printSummary logs the final run totals.
func printSummary(logger *terminal.Logger, summary *domain.RunSummary) {
	logger.Phase("done in %s (%d %s)",
		terminal.FormatDuration(summary.Duration),
		summary.Iterations, terminal.Pluralize(summary.Iterations, "pass", "passes"))

	if summary.WouldFix > 0 {
		logger.Info("would fix %d of %d %s", summary.WouldFix, summary.Found,
			terminal.Pluralize(summary.Found, "error", "errors"))
	} else {
		logger.Info("found %d, fixed %d, skipped %d, failed %d",
			summary.Found, summary.Fixed, summary.Skipped, summary.Failed)
	}

	switch {
	case summary.Interrupted:
		logger.Warning("interrupted with %d unresolved", summary.Unresolved)
	case summary.Unresolved > 0:
		logger.Warning("%d %s unresolved", summary.Unresolved,
			terminal.Pluralize(summary.Unresolved, "error", "errors"))
	default:
		logger.Success("all lint errors resolved")
	}
}

// printModelCatalog writes the model table for one provider, or for
// every chain provider when none is pinned.
func printModelCatalog(w io.Writer, pinned string) {
	providers := provider.FallbackOrder
	if pinned != "" {
		providers = []string{pinned}
	}

	for _, name := range providers {
		entries := provider.Catalog(name)
		if len(entries) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s (default: %s)\n", name, provider.DefaultModel(name))
		for _, entry := range entries {
			fmt.Fprintf(w, "  %-24s speed=%-7s quality=%-8s cost=%s\n",
				entry.Model, entry.Info.Speed, entry.Info.Quality, entry.Info.Cost)
		}
		fmt.Fprintln(w)
	}
}
