package ocicli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/oehrlis/odb-datasafe-sub000/internal/core"
)

// Client implements core.Client over the `oci data-safe` command family.
type Client struct {
	run *Runner
}

// New builds a Client from the runtime configuration.
func New(cfg *core.Config, log zerolog.Logger) *Client {
	return &Client{
		run: &Runner{
			Bin:        cfg.OCIBin,
			Profile:    cfg.OCIProfile,
			ConfigFile: cfg.OCIConfigFile,
			Timeout:    cfg.CallTimeout.Duration,
			Log:        log,
		},
	}
}

// listEnvelope is the CLI's {"data": [...]} wrapper for list calls.
type listEnvelope[T any] struct {
	Data []T `json:"data"`
}

// getEnvelope is the CLI's {"data": {...}} wrapper for get calls.
type getEnvelope[T any] struct {
	Data T `json:"data"`
}

func decodeList[T any](raw []byte) ([]T, error) {
	var env listEnvelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return env.Data, nil
}

func decodeGet[T any](raw []byte) (T, error) {
	var env getEnvelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		var zero T
		return zero, fmt.Errorf("decoding response: %w", err)
	}
	return env.Data, nil
}

// writePayload serializes a request struct to a 0600 temp file and returns
// the file:// reference the CLI expects. The file lives only for the
// duration of one call.
func writePayload(v any) (ref string, cleanup func(), err error) {
	f, err := os.CreateTemp("", "odsctl-req-*.json")
	if err != nil {
		return "", nil, fmt.Errorf("creating request file: %w", err)
	}
	path := f.Name()
	cleanup = func() { _ = os.Remove(path) }

	if err := f.Chmod(0o600); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, fmt.Errorf("restricting request file mode: %w", err)
	}
	if err := json.NewEncoder(f).Encode(v); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing request file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing request file: %w", err)
	}
	return "file://" + path, cleanup, nil
}

// ListTargets implements core.Client. The CLI accepts a single lifecycle
// state flag, so multi-state filters are applied client-side.
func (c *Client) ListTargets(ctx context.Context, compartment string, states []core.LifecycleState) ([]core.Target, error) {
	args := []string{
		"data-safe", "target-database", "list",
		"--compartment-id", compartment,
		"--compartment-id-in-subtree", "true",
		"--all",
	}
	if len(states) == 1 {
		args = append(args, "--lifecycle-state", string(states[0]))
	}
	raw, err := c.run.Run(ctx, args...)
	if err != nil {
		return nil, err
	}
	targets, err := decodeList[core.Target](raw)
	if err != nil {
		return nil, err
	}
	if len(states) <= 1 {
		return targets, nil
	}
	want := make(map[core.LifecycleState]bool, len(states))
	for _, s := range states {
		want[s] = true
	}
	var out []core.Target
	for _, t := range targets {
		if want[t.LifecycleState] {
			out = append(out, t)
		}
	}
	return out, nil
}

// GetTarget implements core.Client.
func (c *Client) GetTarget(ctx context.Context, id string) (core.Target, error) {
	raw, err := c.run.Run(ctx, "data-safe", "target-database", "get", "--target-database-id", id)
	if err != nil {
		return core.Target{}, err
	}
	return decodeGet[core.Target](raw)
}

// connectionOptionPayload is the camelCase input shape for connection
// option updates.
type connectionOptionPayload struct {
	ConnectionType    string `json:"connectionType"`
	OnPremConnectorID string `json:"onPremConnectorId"`
}

// UpdateTargetConnection implements core.Client.
func (c *Client) UpdateTargetConnection(ctx context.Context, id, connectorID, waitForState string) error {
	ref, cleanup, err := writePayload(connectionOptionPayload{
		ConnectionType:    core.ConnectionOnPremConnector,
		OnPremConnectorID: connectorID,
	})
	if err != nil {
		return err
	}
	defer cleanup()

	args := []string{
		"data-safe", "target-database", "update",
		"--target-database-id", id,
		"--connection-option", ref,
		"--force",
	}
	if waitForState != "" {
		args = append(args, "--wait-for-state", waitForState)
	}
	_, err = c.run.Run(ctx, args...)
	return err
}

// UpdateTargetCredentials implements core.Client. The credential payload
// is referenced by file path to keep secrets out of process listings.
func (c *Client) UpdateTargetCredentials(ctx context.Context, id, credentialFile, waitForState string) error {
	args := []string{
		"data-safe", "target-database", "update",
		"--target-database-id", id,
		"--credentials", "file://" + credentialFile,
		"--force",
	}
	if waitForState != "" {
		args = append(args, "--wait-for-state", waitForState)
	}
	_, err := c.run.Run(ctx, args...)
	return err
}

// ListConnectors implements core.Client.
func (c *Client) ListConnectors(ctx context.Context, compartment string) ([]core.Connector, error) {
	raw, err := c.run.Run(ctx,
		"data-safe", "on-prem-connector", "list",
		"--compartment-id", compartment,
		"--compartment-id-in-subtree", "true",
		"--all",
	)
	if err != nil {
		return nil, err
	}
	return decodeList[core.Connector](raw)
}

// GetConnector implements core.Client.
func (c *Client) GetConnector(ctx context.Context, id string) (core.Connector, error) {
	raw, err := c.run.Run(ctx, "data-safe", "on-prem-connector", "get", "--on-prem-connector-id", id)
	if err != nil {
		return core.Connector{}, err
	}
	return decodeGet[core.Connector](raw)
}

// CreateTarget implements core.Client.
func (c *Client) CreateTarget(ctx context.Context, req core.CreateTargetRequest) (core.Target, error) {
	detailsRef, cleanup, err := writePayload(req.DatabaseDetails)
	if err != nil {
		return core.Target{}, err
	}
	defer cleanup()

	args := []string{
		"data-safe", "target-database", "create",
		"--compartment-id", req.CompartmentID,
		"--display-name", req.DisplayName,
		"--database-details", detailsRef,
	}
	if req.Description != "" {
		args = append(args, "--description", req.Description)
	}
	if req.ConnectorID != "" {
		connRef, connCleanup, err := writePayload(connectionOptionPayload{
			ConnectionType:    core.ConnectionOnPremConnector,
			OnPremConnectorID: req.ConnectorID,
		})
		if err != nil {
			return core.Target{}, err
		}
		defer connCleanup()
		args = append(args, "--connection-option", connRef)
	}
	if req.Credentials != nil {
		credRef, credCleanup, err := writePayload(req.Credentials)
		if err != nil {
			return core.Target{}, err
		}
		defer credCleanup()
		args = append(args, "--credentials", credRef)
	}

	raw, err := c.run.Run(ctx, args...)
	if err != nil {
		return core.Target{}, err
	}
	return decodeGet[core.Target](raw)
}

// DeleteTarget implements core.Client.
func (c *Client) DeleteTarget(ctx context.Context, id string) error {
	_, err := c.run.Run(ctx,
		"data-safe", "target-database", "delete",
		"--target-database-id", id,
		"--force",
	)
	return err
}

// UpdateTargetTags implements core.Client.
func (c *Client) UpdateTargetTags(ctx context.Context, id string, freeform map[string]string) error {
	if freeform == nil {
		freeform = map[string]string{}
	}
	ref, cleanup, err := writePayload(freeform)
	if err != nil {
		return err
	}
	defer cleanup()

	_, err = c.run.Run(ctx,
		"data-safe", "target-database", "update",
		"--target-database-id", id,
		"--freeform-tags", ref,
		"--force",
	)
	return err
}

// dependentResource maps a dependent kind to its CLI resource name and id
// flag.
func dependentResource(kind core.DependentKind) (resource, idFlag string) {
	switch kind {
	case core.DependentAuditTrails:
		return "audit-trail", "--audit-trail-id"
	case core.DependentUserAssessments:
		return "user-assessment", "--user-assessment-id"
	case core.DependentSecurityAssessments:
		return "security-assessment", "--security-assessment-id"
	default:
		return string(kind), "--" + string(kind) + "-id"
	}
}

// ListDependents implements core.Client.
func (c *Client) ListDependents(ctx context.Context, kind core.DependentKind, compartment, targetID string) ([]core.Dependent, error) {
	resource, _ := dependentResource(kind)
	raw, err := c.run.Run(ctx,
		"data-safe", resource, "list",
		"--compartment-id", compartment,
		"--compartment-id-in-subtree", "true",
		"--target-id", targetID,
		"--all",
	)
	if err != nil {
		return nil, err
	}
	return decodeList[core.Dependent](raw)
}

// DeleteDependent implements core.Client.
func (c *Client) DeleteDependent(ctx context.Context, kind core.DependentKind, id string) error {
	resource, idFlag := dependentResource(kind)
	_, err := c.run.Run(ctx, "data-safe", resource, "delete", idFlag, id, "--force")
	return err
}

// StartAuditTrail implements core.Client. Collection starts from the
// current time.
func (c *Client) StartAuditTrail(ctx context.Context, id string) error {
	_, err := c.run.Run(ctx,
		"data-safe", "audit-trail", "start",
		"--audit-trail-id", id,
		"--audit-collection-start-time", time.Now().UTC().Format(time.RFC3339),
	)
	return err
}
