package core

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/oehrlis/odb-datasafe-sub000/internal/logging"
)

// Executor applies decided changes through the client under the strict
// dry-run/apply contract. The batch loop processes targets one at a time;
// by default one target's failure does not stop the batch.
type Executor struct {
	Client       Client
	Log          zerolog.Logger
	DryRun       bool
	StopOnError  bool
	WaitForState string // terminal state to block on; "" means fire-and-forget
}

// ApplyAssignments executes (or simulates) the planned connector changes.
// NOOPs and simulated changes count as success, so a dry-run exit code
// reflects parse/resolution errors only.
func (e *Executor) ApplyAssignments(ctx context.Context, decisions []Decision) Outcome {
	out := Outcome{Applied: !e.DryRun}

	for _, d := range decisions {
		log := e.Log.With().Str("target", d.TargetName).Logger()

		if d.Action == ActionNoop {
			log.Info().Msg("already using target connector, skipping")
			out.Success++
			continue
		}

		if e.DryRun {
			log.Info().
				Str("from", orNone(d.CurrentConnectorID)).
				Str("to", d.DesiredConnectorID).
				Msg("would change connector")
			out.Success++
			continue
		}

		err := e.Client.UpdateTargetConnection(ctx, d.TargetID, d.DesiredConnectorID, e.WaitForState)
		if err != nil {
			log.Error().Err(err).Msg("connector update failed")
			out.Failed++
			out.Errors = append(out.Errors, err)
			if e.StopOnError {
				break
			}
			continue
		}
		log.Info().
			Str("from", orNone(d.CurrentConnectorID)).
			Str("to", d.DesiredConnectorID).
			Msg("connector updated")
		out.Success++
	}

	return out
}

// RotationOptions configures a credential rotation batch.
type RotationOptions struct {
	Leaf             Credential // resolved leaf-scope credential
	CommonUserPrefix string
	RootNameSuffix   string
	RootSecret       string // per-scope secret override; "" reuses the leaf secret
	ForceRoot        bool   // treat every target as a root-container target
	Janitor          *Janitor
}

// RotateCredentials updates database credentials on each target. The
// lifecycle state is re-fetched before each mutation so a target that
// drifted between listing and execution is not updated mid-transition;
// such targets are skipped with a distinct "not updatable" outcome.
func (e *Executor) RotateCredentials(ctx context.Context, targets []Target, opts RotationOptions) Outcome {
	out := Outcome{Applied: !e.DryRun}
	janitor := opts.Janitor
	if janitor == nil {
		janitor = DefaultJanitor
	}

	for _, t := range targets {
		log := e.Log.With().Str("target", t.DisplayName).Logger()

		state := t.LifecycleState
		if !e.DryRun {
			// Stale-read mitigation: act on the current state, not the
			// state observed at listing time.
			fresh, err := e.Client.GetTarget(ctx, t.ID)
			if err != nil {
				log.Error().Err(err).Msg("re-fetching target failed")
				out.Failed++
				out.Errors = append(out.Errors, err)
				if e.StopOnError {
					break
				}
				continue
			}
			state = fresh.LifecycleState
		}
		if !state.Updatable() {
			log.Warn().Str("state", string(state)).Msg("target not updatable, skipping")
			out.Skipped++
			continue
		}

		scope := ScopeLeaf
		if IsRootTarget(t.DisplayName, opts.RootNameSuffix, opts.ForceRoot) {
			scope = ScopeRoot
		}
		cred := opts.Leaf.ForScope(scope, opts.CommonUserPrefix, opts.RootSecret)

		if e.DryRun {
			log.Info().
				Str("user", cred.User).
				Str("scope", scope.String()).
				Str("secret", logging.Redact(cred.Secret)).
				Msg("would update credentials")
			out.Success++
			continue
		}

		if err := e.rotateOne(ctx, t.ID, cred, janitor); err != nil {
			log.Error().Err(err).Msg("credential update failed")
			out.Failed++
			out.Errors = append(out.Errors, err)
			if e.StopOnError {
				break
			}
			continue
		}
		log.Info().
			Str("user", cred.User).
			Str("scope", scope.String()).
			Msg("credentials updated")
		out.Success++
	}

	return out
}

func (e *Executor) rotateOne(ctx context.Context, targetID string, cred Credential, janitor *Janitor) error {
	path, cleanup, err := WriteTransient(cred, janitor)
	if err != nil {
		return err
	}
	defer cleanup()
	return e.Client.UpdateTargetCredentials(ctx, targetID, path, e.WaitForState)
}

// RegisterTargets registers each manifest entry as a new target under the
// usual dry-run/apply and counter contract. resolveConnector maps a
// connector name from the manifest to its record; nil disables connector
// references.
func (e *Executor) RegisterTargets(ctx context.Context, entries []ManifestTarget, compartment string,
	resolveConnector func(name string) (Connector, error)) Outcome {

	out := Outcome{Applied: !e.DryRun}

	for _, entry := range entries {
		log := e.Log.With().Str("target", entry.Name).Logger()

		connectorID := ""
		if entry.Connector != "" {
			if resolveConnector == nil {
				log.Error().Msg("manifest references a connector but none can be resolved")
				out.Failed++
				continue
			}
			conn, err := resolveConnector(entry.Connector)
			if err != nil {
				log.Error().Err(err).Msg("connector resolution failed")
				out.Failed++
				out.Errors = append(out.Errors, err)
				if e.StopOnError {
					break
				}
				continue
			}
			connectorID = conn.ID
		}

		if e.DryRun {
			log.Info().Str("connector", orNone(connectorID)).Msg("would register target")
			out.Success++
			continue
		}

		req := entry.Request(compartment, connectorID)
		if _, err := e.Client.CreateTarget(ctx, req); err != nil {
			log.Error().Err(err).Msg("target registration failed")
			out.Failed++
			out.Errors = append(out.Errors, err)
			if e.StopOnError {
				break
			}
			continue
		}
		log.Info().Msg("target registered")
		out.Success++
	}

	return out
}

// TagTargets merges tag updates into each target's freeform tags.
func (e *Executor) TagTargets(ctx context.Context, targets []Target, set map[string]string, remove []string) Outcome {
	out := Outcome{Applied: !e.DryRun}

	for _, t := range targets {
		log := e.Log.With().Str("target", t.DisplayName).Logger()

		tags := make(map[string]string, len(t.FreeformTags)+len(set))
		for k, v := range t.FreeformTags {
			tags[k] = v
		}
		for k, v := range set {
			tags[k] = v
		}
		for _, k := range remove {
			delete(tags, k)
		}

		if e.DryRun {
			log.Info().Interface("tags", tags).Msg("would update tags")
			out.Success++
			continue
		}

		if err := e.Client.UpdateTargetTags(ctx, t.ID, tags); err != nil {
			log.Error().Err(err).Msg("tag update failed")
			out.Failed++
			out.Errors = append(out.Errors, err)
			if e.StopOnError {
				break
			}
			continue
		}
		log.Info().Msg("tags updated")
		out.Success++
	}

	return out
}

// EnableAudit starts audit collection on each target's inactive trails.
// Trails already collecting are counted as success without a call.
func (e *Executor) EnableAudit(ctx context.Context, targets []Target, compartment string) Outcome {
	out := Outcome{Applied: !e.DryRun}

	for _, t := range targets {
		log := e.Log.With().Str("target", t.DisplayName).Logger()

		trails, err := e.Client.ListDependents(ctx, DependentAuditTrails, compartment, t.ID)
		if err != nil {
			log.Error().Err(err).Msg("listing audit trails failed")
			out.Failed++
			out.Errors = append(out.Errors, err)
			if e.StopOnError {
				break
			}
			continue
		}
		if len(trails) == 0 {
			log.Warn().Msg("no audit trails found, skipping")
			out.Skipped++
			continue
		}

		failed := false
		for _, trail := range trails {
			if trail.LifecycleState != StateInactive {
				log.Debug().Str("trail", trail.DisplayName).Msg("trail already collecting")
				continue
			}
			if e.DryRun {
				log.Info().Str("trail", trail.DisplayName).Msg("would start audit trail")
				continue
			}
			if err := e.Client.StartAuditTrail(ctx, trail.ID); err != nil {
				log.Error().Err(err).Str("trail", trail.DisplayName).Msg("starting audit trail failed")
				out.Errors = append(out.Errors, err)
				failed = true
			}
		}
		if failed {
			out.Failed++
			if e.StopOnError {
				break
			}
			continue
		}
		out.Success++
	}

	return out
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
