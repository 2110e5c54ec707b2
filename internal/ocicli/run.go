package ocicli

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Runner execs the cloud CLI with the configured binary, profile and call
// timeout. Every invocation gets --output json appended.
type Runner struct {
	Bin        string
	Profile    string
	ConfigFile string
	Timeout    time.Duration
	Log        zerolog.Logger
}

// Run invokes the CLI and returns its stdout. A non-zero exit is
// classified into a *ExecError from stderr.
func (r *Runner) Run(ctx context.Context, args ...string) ([]byte, error) {
	full := make([]string, 0, len(args)+6)
	full = append(full, args...)
	full = append(full, "--output", "json")
	if r.Profile != "" {
		full = append(full, "--profile", r.Profile)
	}
	if r.ConfigFile != "" {
		full = append(full, "--config-file", r.ConfigFile)
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	display := r.Bin + " " + strings.Join(args, " ")
	r.Log.Debug().Str("cmd", display).Msg("exec oci")

	cmd := exec.CommandContext(ctx, r.Bin, full...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		out := stderr.String()
		if ctx.Err() == context.DeadlineExceeded {
			out = "command timed out after " + r.Timeout.String() + "\n" + out
		}
		return nil, Classify(display, out)
	}
	return stdout.Bytes(), nil
}
