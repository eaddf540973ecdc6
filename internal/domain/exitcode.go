package domain

// ExitCode represents the exit status of a fix run.
type ExitCode int

const (
	// ExitClean indicates no lint errors remain.
	ExitClean ExitCode = 0
	// ExitUnresolved indicates the run completed but errors remain.
	ExitUnresolved ExitCode = 1
	// ExitConfig indicates an invalid configuration or CLI usage error.
	ExitConfig ExitCode = 2
	// ExitInterrupted indicates the run was cut short by a signal. An
	// interactive quit is not an interrupt; it finalizes by remaining
	// unresolved count.
	ExitInterrupted ExitCode = 130
)

// Int returns the exit code as an int for use with os.Exit.
func (e ExitCode) Int() int {
	return int(e)
}
