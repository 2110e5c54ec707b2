// Package ocicli implements the core.Client boundary by exec-ing the
// cloud CLI. Requests are built from typed structs and passed as file
// references; responses are the CLI's --output json envelopes.
package ocicli

import (
	"fmt"
	"strings"
)

// ExecErrorKind classifies why a cloud CLI invocation failed.
type ExecErrorKind int

const (
	// ExecErrUnknown is an unclassified CLI failure.
	ExecErrUnknown ExecErrorKind = iota
	// ExecErrAuth means API key authentication failed.
	ExecErrAuth
	// ExecErrNotAuthorized means the request was rejected by policy, or the
	// resource is hidden from this principal.
	ExecErrNotAuthorized
	// ExecErrNotFound means the resource does not exist.
	ExecErrNotFound
	// ExecErrThrottled means the service asked us to back off.
	ExecErrThrottled
	// ExecErrService means the service returned an internal error.
	ExecErrService
	// ExecErrTimeout means the invocation exceeded the call timeout.
	ExecErrTimeout
	// ExecErrUsage means the CLI rejected the arguments.
	ExecErrUsage
)

// String returns a human-readable label for the error kind.
func (k ExecErrorKind) String() string {
	switch k {
	case ExecErrAuth:
		return "Authentication Failed"
	case ExecErrNotAuthorized:
		return "Not Authorized"
	case ExecErrNotFound:
		return "Not Found"
	case ExecErrThrottled:
		return "Throttled"
	case ExecErrService:
		return "Service Error"
	case ExecErrTimeout:
		return "Timeout"
	case ExecErrUsage:
		return "Usage Error"
	default:
		return "Unknown Error"
	}
}

// ExecError is a structured error returned when a cloud CLI call fails.
// It wraps the raw output with classification and actionable hints.
type ExecError struct {
	Kind      ExecErrorKind
	Command   string   // The display command that was run
	RawOutput string   // Raw stderr from the CLI
	Hints     []string // Actionable suggestions for the user
}

// Error implements the error interface.
func (e *ExecError) Error() string {
	return fmt.Sprintf("oci command failed (%s): %s", e.Kind, e.firstLine())
}

// firstLine returns the first non-empty output line for a concise message.
func (e *ExecError) firstLine() string {
	for _, line := range strings.Split(e.RawOutput, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return "command failed"
}

// IsExecError checks whether an error is a *ExecError and returns it.
func IsExecError(err error) (*ExecError, bool) {
	for err != nil {
		if ee, ok := err.(*ExecError); ok {
			return ee, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return nil, false
}

// Classify examines CLI stderr and returns a structured ExecError.
func Classify(command, rawOutput string) *ExecError {
	kind := classifyOutput(rawOutput)
	return &ExecError{
		Kind:      kind,
		Command:   command,
		RawOutput: strings.TrimSpace(rawOutput),
		Hints:     hintsForError(kind),
	}
}

// classifyOutput pattern-matches CLI stderr to determine the error kind.
func classifyOutput(output string) ExecErrorKind {
	lower := strings.ToLower(output)

	// Timeout (checked first since it's set by us, not the CLI).
	if strings.Contains(lower, "timed out") {
		return ExecErrTimeout
	}

	if strings.Contains(lower, "notauthenticated") ||
		strings.Contains(lower, "not authenticated") ||
		strings.Contains(lower, "invalid private key") ||
		strings.Contains(lower, "could not find config") ||
		strings.Contains(lower, "401") {
		return ExecErrAuth
	}

	if strings.Contains(lower, "notauthorizedornotfound") ||
		strings.Contains(lower, "not authorized") ||
		strings.Contains(lower, "403") {
		return ExecErrNotAuthorized
	}

	if strings.Contains(lower, "notfound") ||
		strings.Contains(lower, "not found") ||
		strings.Contains(lower, "404") {
		return ExecErrNotFound
	}

	if strings.Contains(lower, "toomanyrequests") ||
		strings.Contains(lower, "429") {
		return ExecErrThrottled
	}

	if strings.Contains(lower, "internalservererror") ||
		strings.Contains(lower, "500") ||
		strings.Contains(lower, "serviceunavailable") ||
		strings.Contains(lower, "503") {
		return ExecErrService
	}

	if strings.Contains(lower, "usage:") ||
		strings.Contains(lower, "missing option") ||
		strings.Contains(lower, "no such option") ||
		strings.Contains(lower, "invalid value") {
		return ExecErrUsage
	}

	return ExecErrUnknown
}

// hintsForError returns actionable suggestions based on the error kind.
func hintsForError(kind ExecErrorKind) []string {
	switch kind {
	case ExecErrAuth:
		return []string{
			"Run `oci setup config` to configure API key authentication",
			"Check that the configured profile exists in ~/.oci/config",
		}
	case ExecErrNotAuthorized:
		return []string{
			"Verify the compartment OCID is correct",
			"Ensure your group has manage data-safe-family permissions in this compartment",
		}
	case ExecErrNotFound:
		return []string{
			"The resource may have been deleted since it was listed",
			"Verify the OCID and the region of the configured profile",
		}
	case ExecErrThrottled:
		return []string{
			"The service is rate limiting requests; retry the batch later",
		}
	case ExecErrService:
		return []string{
			"The service returned an internal error; retry later",
			"Check the OCI status page if the error persists",
		}
	case ExecErrTimeout:
		return []string{
			"Increase callTimeout in the odsctl config if the service is slow",
		}
	case ExecErrUsage:
		return []string{
			"The installed oci CLI may be too old for this request shape",
			"Run the displayed command manually to diagnose",
		}
	default:
		return []string{
			"Check the raw output above for details",
			"Run the displayed command manually to diagnose",
		}
	}
}
