package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"generic", errors.New("boom"), ExitFailure},
		{"validation", Validationf("bad flag"), ExitValidation},
		{"resolution", Resolutionf("not found"), ExitResolution},
		{"stale", Stalef("too old"), ExitStale},
		{"wrapped validation", fmt.Errorf("context: %w", Validationf("bad flag")), ExitValidation},
		{"wrapped stale", fmt.Errorf("context: %w", Stalef("too old")), ExitStale},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCodeFor(tt.err); got != tt.want {
				t.Errorf("ExitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestParseLifecycleStates(t *testing.T) {
	states, err := ParseLifecycleStates("active, needs_attention")
	if err != nil {
		t.Fatalf("ParseLifecycleStates: %v", err)
	}
	if len(states) != 2 || states[0] != StateActive || states[1] != StateNeedsAttention {
		t.Errorf("got %v", states)
	}

	if states, err := ParseLifecycleStates(""); err != nil || states != nil {
		t.Errorf("empty input should yield no filter, got %v / %v", states, err)
	}

	if _, err := ParseLifecycleStates("ACTIVE,BOGUS"); ExitCodeFor(err) != ExitValidation {
		t.Errorf("unknown state should be a validation error, got %v", err)
	}
}

func TestIsOCID(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"ocid1.datasafetargetdatabase.oc1.xx.abc", true},
		{"ocid1.compartment.oc1..aaaaexample", true},
		{"db01", false},
		{"ocid1.short", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsOCID(tt.in); got != tt.want {
			t.Errorf("IsOCID(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOutcomeMergeAndErr(t *testing.T) {
	a := Outcome{Success: 2, Errors: []error{}}
	b := Outcome{Failed: 1, Skipped: 3, Errors: []error{errors.New("x")}}
	a.Merge(b)
	if a.Success != 2 || a.Failed != 1 || a.Skipped != 3 || len(a.Errors) != 1 {
		t.Errorf("merge wrong: %+v", a)
	}
	if a.Err() == nil {
		t.Error("failed outcome should report an error")
	}
	if (Outcome{Success: 5, Skipped: 2}).Err() != nil {
		t.Error("skips alone should not fail")
	}
}
