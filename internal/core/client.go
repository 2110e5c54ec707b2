package core

import "context"

// Client is the boundary to the Data Safe data plane. The production
// implementation execs the cloud CLI (internal/ocicli); tests substitute a
// fake. All listing calls include sub-compartments.
type Client interface {
	// ListTargets lists targets in a compartment subtree, optionally
	// restricted to the given lifecycle states.
	ListTargets(ctx context.Context, compartment string, states []LifecycleState) ([]Target, error)

	// GetTarget fetches one target by OCID.
	GetTarget(ctx context.Context, id string) (Target, error)

	// UpdateTargetConnection points a target at the given on-prem connector.
	// waitForState, when non-empty, blocks until the work request reaches
	// that terminal state; otherwise the call is fire-and-forget.
	UpdateTargetConnection(ctx context.Context, id, connectorID, waitForState string) error

	// UpdateTargetCredentials rotates a target's database credentials. The
	// payload is referenced by file path, never passed inline.
	UpdateTargetCredentials(ctx context.Context, id, credentialFile, waitForState string) error

	// ListConnectors lists on-prem connectors in a compartment subtree.
	ListConnectors(ctx context.Context, compartment string) ([]Connector, error)

	// GetConnector fetches one connector by OCID.
	GetConnector(ctx context.Context, id string) (Connector, error)

	// CreateTarget registers a new target database.
	CreateTarget(ctx context.Context, req CreateTargetRequest) (Target, error)

	// DeleteTarget deregisters a target.
	DeleteTarget(ctx context.Context, id string) error

	// UpdateTargetTags replaces a target's freeform tags.
	UpdateTargetTags(ctx context.Context, id string, freeform map[string]string) error

	// ListDependents lists resources of one kind attached to a target.
	ListDependents(ctx context.Context, kind DependentKind, compartment, targetID string) ([]Dependent, error)

	// DeleteDependent deletes a single dependent resource by id.
	DeleteDependent(ctx context.Context, kind DependentKind, id string) error

	// StartAuditTrail starts audit collection on an inactive trail.
	StartAuditTrail(ctx context.Context, id string) error
}
