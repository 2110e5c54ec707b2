package core

import (
	"context"
	"fmt"
	"sync"
)

// fakeClient is an in-memory Client for tests. It records mutation calls
// and can fail specific target ids.
type fakeClient struct {
	mu sync.Mutex

	targets    []Target
	connectors []Connector
	dependents map[DependentKind][]Dependent

	failTargets map[string]bool // target ids whose mutations fail

	connectionUpdates []string // target ids, in call order
	credentialUpdates []string
	tagUpdates        []string
	created           []CreateTargetRequest
	deleted           []string
	dependentsDeleted []string
	trailsStarted     []string
	getCalls          []string
}

func (f *fakeClient) failFor(id string) error {
	if f.failTargets[id] {
		return fmt.Errorf("service error for %s", id)
	}
	return nil
}

func (f *fakeClient) ListTargets(_ context.Context, _ string, states []LifecycleState) ([]Target, error) {
	if len(states) == 0 {
		return f.targets, nil
	}
	want := make(map[LifecycleState]bool, len(states))
	for _, s := range states {
		want[s] = true
	}
	var out []Target
	for _, t := range f.targets {
		if want[t.LifecycleState] {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeClient) GetTarget(_ context.Context, id string) (Target, error) {
	f.mu.Lock()
	f.getCalls = append(f.getCalls, id)
	f.mu.Unlock()
	for _, t := range f.targets {
		if t.ID == id {
			return t, nil
		}
	}
	return Target{}, fmt.Errorf("no such target %s", id)
}

func (f *fakeClient) UpdateTargetConnection(_ context.Context, id, connectorID, _ string) error {
	if err := f.failFor(id); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connectionUpdates = append(f.connectionUpdates, id)
	for i := range f.targets {
		if f.targets[i].ID == id {
			f.targets[i].ConnectionOption = ConnectionOption{
				ConnectionType:    ConnectionOnPremConnector,
				OnPremConnectorID: connectorID,
			}
		}
	}
	return nil
}

func (f *fakeClient) UpdateTargetCredentials(_ context.Context, id, _, _ string) error {
	if err := f.failFor(id); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.credentialUpdates = append(f.credentialUpdates, id)
	return nil
}

func (f *fakeClient) ListConnectors(_ context.Context, _ string) ([]Connector, error) {
	return f.connectors, nil
}

func (f *fakeClient) GetConnector(_ context.Context, id string) (Connector, error) {
	for _, c := range f.connectors {
		if c.ID == id {
			return c, nil
		}
	}
	return Connector{}, fmt.Errorf("no such connector %s", id)
}

func (f *fakeClient) CreateTarget(_ context.Context, req CreateTargetRequest) (Target, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, req)
	return Target{ID: "ocid1.datasafetargetdatabase.oc1.xx.new", DisplayName: req.DisplayName}, nil
}

func (f *fakeClient) DeleteTarget(_ context.Context, id string) error {
	if err := f.failFor(id); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeClient) UpdateTargetTags(_ context.Context, id string, _ map[string]string) error {
	if err := f.failFor(id); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tagUpdates = append(f.tagUpdates, id)
	return nil
}

func (f *fakeClient) ListDependents(_ context.Context, kind DependentKind, _, _ string) ([]Dependent, error) {
	return f.dependents[kind], nil
}

func (f *fakeClient) DeleteDependent(_ context.Context, _ DependentKind, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dependentsDeleted = append(f.dependentsDeleted, id)
	return nil
}

func (f *fakeClient) StartAuditTrail(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trailsStarted = append(f.trailsStarted, id)
	return nil
}

// Fixture helpers.

func tgt(id, name string, state LifecycleState, connectorID string) Target {
	opt := ConnectionOption{ConnectionType: ConnectionPrivateEndpoint}
	if connectorID != "" {
		opt = ConnectionOption{ConnectionType: ConnectionOnPremConnector, OnPremConnectorID: connectorID}
	}
	return Target{
		ID:               id,
		DisplayName:      name,
		LifecycleState:   state,
		CompartmentID:    "ocid1.compartment.oc1.xx.comp",
		ConnectionOption: opt,
	}
}

func conn(id, name string, state LifecycleState) Connector {
	return Connector{
		ID:             id,
		DisplayName:    name,
		LifecycleState: state,
		CompartmentID:  "ocid1.compartment.oc1.xx.comp",
	}
}
