package domain

import "time"

// FixSuggestion is a proposed patch for a single lint error.
type FixSuggestion struct {
	// Patch is the replacement text for the error's context range.
	Patch string `json:"patch"`
	// Explanation describes the change, shown under --explain and in
	// the interactive prompt.
	Explanation string `json:"explanation,omitempty"`
	// Confidence is the provider's self-reported confidence in [0,1],
	// zero when the provider does not report one.
	Confidence float64 `json:"confidence,omitempty"`
	// Model and Provider record where the suggestion came from.
	Model    string `json:"model,omitempty"`
	Provider string `json:"provider,omitempty"`
}

// RunSummary aggregates the outcome of a fix run.
type RunSummary struct {
	Found      int           `json:"found"`
	Fixed      int           `json:"fixed"`
	WouldFix   int           `json:"would_fix"`
	Skipped    int           `json:"skipped"`
	Failed     int           `json:"failed"`
	Unresolved int           `json:"unresolved"`
	Iterations int           `json:"iterations"`
	Duration   time.Duration `json:"-"`
	// Interrupted records that the run was cut short by a signal.
	Interrupted bool `json:"interrupted,omitempty"`
}

// ExitCode finalizes the summary into a process exit status.
func (s *RunSummary) ExitCode() ExitCode {
	if s.Interrupted {
		return ExitInterrupted
	}
	if s.Unresolved > 0 {
		return ExitUnresolved
	}
	return ExitClean
}
