package provider

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
	"time"
)

// runCLI executes a provider CLI with a bounded deadline, process
// group setup for clean signal handling, and stderr capture for
// diagnostics. Timeouts and non-zero exits come back as *Failure so
// the chain can fall through.
func runCLI(ctx context.Context, providerName string, timeout time.Duration, command string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, command, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", &Failure{Provider: providerName, Kind: FailureTimeout,
				Err: fmt.Errorf("%s timed out after %s", command, timeout)}
		}
		if errors.Is(err, exec.ErrNotFound) {
			return "", &Failure{Provider: providerName, Kind: FailureUnavailable,
				Err: fmt.Errorf("%s not found", command)}
		}
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = strings.TrimSpace(stdout.String())
		}
		if len(detail) > 200 {
			detail = detail[:200]
		}
		return "", &Failure{Provider: providerName, Kind: FailureMalformed,
			Err: fmt.Errorf("%s failed: %s", command, detail)}
	}

	return stdout.String(), nil
}
