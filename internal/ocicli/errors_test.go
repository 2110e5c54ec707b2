package ocicli

import (
	"fmt"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   ExecErrorKind
	}{
		{"auth by code", "ServiceError: NotAuthenticated\nstatus: 401", ExecErrAuth},
		{"auth missing config", "ERROR: Could not find config file at /root/.oci/config", ExecErrAuth},
		{"policy rejection", "ServiceError: NotAuthorizedOrNotFound (403)", ExecErrNotAuthorized},
		{"plain not found", "ServiceError: NotFound\nstatus: 404", ExecErrNotFound},
		{"throttled", "ServiceError: TooManyRequests (429)", ExecErrThrottled},
		{"server error", "ServiceError: InternalServerError (500)", ExecErrService},
		{"unavailable", "ServiceError: ServiceUnavailable", ExecErrService},
		{"timeout", "command timed out after 5m0s", ExecErrTimeout},
		{"usage", "Usage: oci data-safe target-database update [OPTIONS]\nError: Missing option(s)", ExecErrUsage},
		{"unknown", "something unexpected happened", ExecErrUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ee := Classify("oci data-safe target-database list", tt.output)
			if ee.Kind != tt.want {
				t.Errorf("Classify(%q).Kind = %v, want %v", tt.output, ee.Kind, tt.want)
			}
			if len(ee.Hints) == 0 {
				t.Error("every classification should carry at least one hint")
			}
		})
	}
}

func TestExecErrorMessage(t *testing.T) {
	ee := Classify("oci data-safe target-database get", "\n\nServiceError: NotFound\ndetail line")
	got := ee.Error()
	want := "oci command failed (Not Found): ServiceError: NotFound"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	empty := Classify("oci", "")
	if empty.Error() != "oci command failed (Unknown Error): command failed" {
		t.Errorf("empty output message = %q", empty.Error())
	}
}

func TestIsExecError(t *testing.T) {
	ee := Classify("oci", "ServiceError: NotFound")
	wrapped := fmt.Errorf("listing targets: %w", ee)

	got, ok := IsExecError(wrapped)
	if !ok || got.Kind != ExecErrNotFound {
		t.Errorf("IsExecError(wrapped) = %v, %v", got, ok)
	}
	if _, ok := IsExecError(fmt.Errorf("plain")); ok {
		t.Error("plain errors must not match")
	}
}
