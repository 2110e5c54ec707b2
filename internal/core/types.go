// Package core provides the business logic for odsctl: target selection,
// connector assignment planning, credential resolution, and batch execution.
// It has zero UI dependencies and is independently testable.
package core

import (
	"fmt"
	"strings"
)

// LifecycleState is the Data Safe status enum for targets, connectors and
// their dependent resources.
type LifecycleState string

const (
	StateActive         LifecycleState = "ACTIVE"
	StateNeedsAttention LifecycleState = "NEEDS_ATTENTION"
	StateInactive       LifecycleState = "INACTIVE"
	StateCreating       LifecycleState = "CREATING"
	StateUpdating       LifecycleState = "UPDATING"
	StateDeleting       LifecycleState = "DELETING"
	StateDeleted        LifecycleState = "DELETED"
	StateFailed         LifecycleState = "FAILED"
)

var knownStates = map[LifecycleState]bool{
	StateActive:         true,
	StateNeedsAttention: true,
	StateInactive:       true,
	StateCreating:       true,
	StateUpdating:       true,
	StateDeleting:       true,
	StateDeleted:        true,
	StateFailed:         true,
}

// Updatable reports whether a target in this state accepts credential updates.
// Targets mid-transition (CREATING, UPDATING, DELETING, ...) are skipped.
func (s LifecycleState) Updatable() bool {
	return s == StateActive || s == StateNeedsAttention
}

// ParseLifecycleStates parses a comma-separated state list such as
// "ACTIVE,NEEDS_ATTENTION". Unknown states are a validation error.
// An empty input yields a nil slice (no state filter).
func ParseLifecycleStates(s string) ([]LifecycleState, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var states []LifecycleState
	for _, part := range strings.Split(s, ",") {
		state := LifecycleState(strings.ToUpper(strings.TrimSpace(part)))
		if state == "" {
			continue
		}
		if !knownStates[state] {
			return nil, Validationf("unknown lifecycle state %q", part)
		}
		states = append(states, state)
	}
	return states, nil
}

// Connection types reported in a target's connection option.
const (
	ConnectionPrivateEndpoint = "PRIVATE_ENDPOINT"
	ConnectionOnPremConnector = "ONPREM_CONNECTOR"
)

// ConnectionOption describes how Data Safe reaches a target database.
// An empty OnPremConnectorID means the target uses a cloud-native path.
type ConnectionOption struct {
	ConnectionType    string `json:"connection-type,omitempty"`
	OnPremConnectorID string `json:"on-prem-connector-id,omitempty"`
}

// Target is a monitored database registered with Data Safe. Targets are
// created and destroyed externally; odsctl reads them and selectively
// mutates the connection option, credentials and tags.
//
// JSON tags follow the cloud CLI's kebab-case output keys so live listings
// and snapshot files decode directly from raw CLI captures.
type Target struct {
	ID               string            `json:"id"`
	DisplayName      string            `json:"display-name"`
	Description      string            `json:"description,omitempty"`
	LifecycleState   LifecycleState    `json:"lifecycle-state"`
	CompartmentID    string            `json:"compartment-id"`
	ConnectionOption ConnectionOption  `json:"connection-option"`
	FreeformTags     map[string]string `json:"freeform-tags,omitempty"`
	TimeCreated      string            `json:"time-created,omitempty"`
}

// ConnectorID returns the target's current on-prem connector id, or "" for
// a cloud-native connection.
func (t Target) ConnectorID() string {
	return t.ConnectionOption.OnPremConnectorID
}

// Connector is an on-premises network relay. odsctl never creates or
// deletes connectors, only references them.
type Connector struct {
	ID               string         `json:"id"`
	DisplayName      string         `json:"display-name"`
	LifecycleState   LifecycleState `json:"lifecycle-state"`
	CompartmentID    string         `json:"compartment-id"`
	CreatedVersion   string         `json:"created-version,omitempty"`
	AvailableVersion string         `json:"available-version,omitempty"`
}

// CredentialScope distinguishes a common/container-level database user from
// a leaf-container user.
type CredentialScope int

const (
	// ScopeLeaf is a pluggable-database (leaf container) user.
	ScopeLeaf CredentialScope = iota
	// ScopeRoot is a container-level common user (conventionally C## prefixed).
	ScopeRoot
)

// String returns a short label for the scope.
func (s CredentialScope) String() string {
	if s == ScopeRoot {
		return "root"
	}
	return "leaf"
}

// Credential is a resolved (user, secret) pair. Secrets are never persisted
// beyond a transient file for the duration of one update call and never
// appear in log output.
type Credential struct {
	User   string
	Secret string
	Scope  CredentialScope
}

// CredentialPayload is the wire shape the cloud CLI expects for credential
// updates, passed via a file reference rather than inline text.
type CredentialPayload struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// Action is the per-target outcome of assignment planning.
type Action int

const (
	// ActionNoop means the target already uses the desired connector.
	ActionNoop Action = iota
	// ActionUpdate means the target's connection must be changed.
	ActionUpdate
)

// String returns a short label for the action.
func (a Action) String() string {
	if a == ActionUpdate {
		return "update"
	}
	return "noop"
}

// Decision is one planned target-to-connector change. Decisions are computed
// per run and never stored.
type Decision struct {
	TargetID           string
	TargetName         string
	CurrentConnectorID string
	DesiredConnectorID string
	Action             Action
}

// Outcome aggregates per-target results of one batch run.
type Outcome struct {
	Success int
	Failed  int
	Skipped int
	Applied bool // false under dry-run
	Errors  []error
}

// Merge folds another outcome's counters and errors into o.
func (o *Outcome) Merge(other Outcome) {
	o.Success += other.Success
	o.Failed += other.Failed
	o.Skipped += other.Skipped
	o.Errors = append(o.Errors, other.Errors...)
}

// Err returns a summary error when any target failed, nil otherwise.
// Dry-run outcomes never fail: counters increment as if successful, so a
// dry-run exit reflects parse/resolution errors only.
func (o Outcome) Err() error {
	if o.Failed > 0 {
		return fmt.Errorf("%d target(s) failed", o.Failed)
	}
	return nil
}

// IsOCID reports whether s has the canonical OCID shape
// (ocid1.<type>.<realm>.<region>.<id>).
func IsOCID(s string) bool {
	return strings.HasPrefix(s, "ocid1.") && strings.Count(s, ".") >= 4
}

// DependentKind identifies a kind of resource that hangs off a target and
// must be removed before the target itself can be deregistered.
type DependentKind string

const (
	DependentAuditTrails         DependentKind = "audit-trail"
	DependentUserAssessments     DependentKind = "user-assessment"
	DependentSecurityAssessments DependentKind = "security-assessment"
)

// DependentKinds returns all dependent resource kinds in deletion order.
func DependentKinds() []DependentKind {
	return []DependentKind{
		DependentAuditTrails,
		DependentUserAssessments,
		DependentSecurityAssessments,
	}
}

// Dependent is a resource of some DependentKind attached to a target.
type Dependent struct {
	ID             string         `json:"id"`
	DisplayName    string         `json:"display-name"`
	LifecycleState LifecycleState `json:"lifecycle-state"`
}

// DatabaseDetails describes the database behind a new target registration.
// Fields use the CLI's camelCase complex-type input format.
type DatabaseDetails struct {
	DatabaseType       string   `json:"databaseType"`
	InfrastructureType string   `json:"infrastructureType,omitempty"`
	IPAddresses        []string `json:"ipAddresses,omitempty"`
	ListenerPort       int      `json:"listenerPort,omitempty"`
	ServiceName        string   `json:"serviceName,omitempty"`
	DBSystemID         string   `json:"dbSystemId,omitempty"`
}

// CreateTargetRequest carries everything needed to register one target.
type CreateTargetRequest struct {
	DisplayName     string
	Description     string
	CompartmentID   string
	DatabaseDetails DatabaseDetails
	ConnectorID     string // "" for a cloud-native connection
	Credentials     *CredentialPayload
}
