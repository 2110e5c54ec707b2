package core

import (
	"errors"
	"testing"
)

func TestPlanSetMode(t *testing.T) {
	dest := conn("ocid1.datasafeonpremconnector.oc1.xx.c2", "conn02", StateActive)
	targets := []Target{
		tgt("ocid1.datasafetargetdatabase.oc1.xx.t1", "db01", StateActive, "ocid1.datasafeonpremconnector.oc1.xx.c1"),
		tgt("ocid1.datasafetargetdatabase.oc1.xx.t2", "db02", StateActive, ""),
		tgt("ocid1.datasafetargetdatabase.oc1.xx.t3", "db03", StateActive, dest.ID),
	}

	decisions := Plan(targets, NewSetMode(dest))
	if len(decisions) != 3 {
		t.Fatalf("got %d decisions, want 3", len(decisions))
	}
	if decisions[0].Action != ActionUpdate || decisions[0].DesiredConnectorID != dest.ID {
		t.Errorf("db01 should update to destination, got %+v", decisions[0])
	}
	if decisions[1].Action != ActionUpdate || decisions[1].CurrentConnectorID != "" {
		t.Errorf("db02 (cloud-native) should update, got %+v", decisions[1])
	}
	if decisions[2].Action != ActionNoop {
		t.Errorf("db03 already on destination should be a noop, got %+v", decisions[2])
	}
}

func TestPlanSetModeIdempotent(t *testing.T) {
	dest := conn("ocid1.datasafeonpremconnector.oc1.xx.c2", "conn02", StateActive)
	targets := []Target{
		tgt("ocid1.datasafetargetdatabase.oc1.xx.t1", "db01", StateActive, "ocid1.datasafeonpremconnector.oc1.xx.c1"),
		tgt("ocid1.datasafetargetdatabase.oc1.xx.t2", "db02", StateActive, ""),
	}

	// Simulate applying the first plan, then re-plan.
	for _, d := range Plan(targets, NewSetMode(dest)) {
		for i := range targets {
			if targets[i].ID == d.TargetID && d.Action == ActionUpdate {
				targets[i].ConnectionOption.OnPremConnectorID = d.DesiredConnectorID
			}
		}
	}
	for _, d := range Plan(targets, NewSetMode(dest)) {
		if d.Action != ActionNoop {
			t.Errorf("second run should be all noop, got %v for %s", d.Action, d.TargetName)
		}
	}
}

func TestPlanMigrateMode(t *testing.T) {
	source := conn("ocid1.datasafeonpremconnector.oc1.xx.c1", "conn01", StateActive)
	dest := conn("ocid1.datasafeonpremconnector.oc1.xx.c2", "conn02", StateActive)

	targets := []Target{
		tgt("ocid1.datasafetargetdatabase.oc1.xx.t1", "db01", StateActive, source.ID),
		tgt("ocid1.datasafetargetdatabase.oc1.xx.t2", "db02", StateActive, dest.ID),
		tgt("ocid1.datasafetargetdatabase.oc1.xx.t3", "db03", StateActive, ""),
		tgt("ocid1.datasafetargetdatabase.oc1.xx.t4", "db04", StateActive, source.ID),
	}

	mode, err := NewMigrateMode(source, dest)
	if err != nil {
		t.Fatalf("NewMigrateMode: %v", err)
	}
	decisions := Plan(targets, mode)

	// Working set is exactly the targets currently on the source.
	if len(decisions) != 2 {
		t.Fatalf("got %d decisions, want 2", len(decisions))
	}
	for _, d := range decisions {
		if d.Action != ActionUpdate {
			t.Errorf("%s: migrate decisions are always updates, got %v", d.TargetName, d.Action)
		}
		if d.CurrentConnectorID != source.ID {
			t.Errorf("%s: working set must be on the source connector", d.TargetName)
		}
	}
}

func TestNewMigrateModeSameConnector(t *testing.T) {
	c := conn("ocid1.datasafeonpremconnector.oc1.xx.c1", "conn01", StateActive)
	_, err := NewMigrateMode(c, c)
	if err == nil {
		t.Fatal("expected error for identical source and destination")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("want ValidationError, got %T: %v", err, err)
	}
}

func TestNewDistributeModeEmpty(t *testing.T) {
	_, err := NewDistributeMode(nil)
	if err == nil {
		t.Fatal("expected error for empty connector list")
	}
	if err.Error() != "no active connectors found" {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestPlanDistributeRoundRobin(t *testing.T) {
	conns := []Connector{
		conn("ocid1.datasafeonpremconnector.oc1.xx.ca", "conn-a", StateActive),
		conn("ocid1.datasafeonpremconnector.oc1.xx.cb", "conn-b", StateActive),
		conn("ocid1.datasafeonpremconnector.oc1.xx.cc", "conn-c", StateActive),
	}
	var targets []Target
	for _, id := range []string{"t1", "t2", "t3", "t4", "t5"} {
		targets = append(targets, tgt("ocid1.datasafetargetdatabase.oc1.xx."+id, "db-"+id, StateActive, ""))
	}

	mode, err := NewDistributeMode(conns)
	if err != nil {
		t.Fatalf("NewDistributeMode: %v", err)
	}
	decisions := Plan(targets, mode)

	// k-th target (1-indexed) goes to connector (k-1) mod N.
	want := []string{conns[0].ID, conns[1].ID, conns[2].ID, conns[0].ID, conns[1].ID}
	for i, d := range decisions {
		if d.DesiredConnectorID != want[i] {
			t.Errorf("target %d assigned %s, want %s", i+1, d.DesiredConnectorID, want[i])
		}
	}
}

func TestPlanDistributeFairnessBound(t *testing.T) {
	conns := []Connector{
		conn("ocid1.datasafeonpremconnector.oc1.xx.ca", "conn-a", StateActive),
		conn("ocid1.datasafeonpremconnector.oc1.xx.cb", "conn-b", StateActive),
		conn("ocid1.datasafeonpremconnector.oc1.xx.cc", "conn-c", StateActive),
	}

	for _, m := range []int{1, 2, 3, 7, 10, 23} {
		var targets []Target
		for i := 0; i < m; i++ {
			targets = append(targets, tgt("ocid1.datasafetargetdatabase.oc1.xx.t"+string(rune('a'+i)), "db", StateActive, ""))
		}
		mode, _ := NewDistributeMode(conns)
		counts := make(map[string]int)
		for _, d := range Plan(targets, mode) {
			counts[d.DesiredConnectorID]++
		}

		min, max := m, 0
		for _, c := range conns {
			n := counts[c.ID]
			if n < min {
				min = n
			}
			if n > max {
				max = n
			}
		}
		if max-min > 1 {
			t.Errorf("M=%d: assignment spread %d exceeds fairness bound 1", m, max-min)
		}
	}
}
