package core

import "context"

// DeleteDependents removes all dependent resources of one kind for a
// target, tolerating per-item failure. One generic routine parameterized
// by resource kind replaces per-kind copies of the same loop.
func (e *Executor) DeleteDependents(ctx context.Context, kind DependentKind, compartment, targetID string) Outcome {
	out := Outcome{Applied: !e.DryRun}
	log := e.Log.With().Str("kind", string(kind)).Str("targetId", targetID).Logger()

	items, err := e.Client.ListDependents(ctx, kind, compartment, targetID)
	if err != nil {
		log.Error().Err(err).Msg("listing dependents failed")
		out.Failed++
		out.Errors = append(out.Errors, err)
		return out
	}

	for _, item := range items {
		if item.LifecycleState == StateDeleting || item.LifecycleState == StateDeleted {
			out.Skipped++
			continue
		}
		if e.DryRun {
			log.Info().Str("dependent", item.DisplayName).Msg("would delete dependent")
			out.Success++
			continue
		}
		if err := e.Client.DeleteDependent(ctx, kind, item.ID); err != nil {
			log.Warn().Err(err).Str("dependent", item.DisplayName).Msg("deleting dependent failed")
			out.Failed++
			out.Errors = append(out.Errors, err)
			continue
		}
		out.Success++
	}
	return out
}

// RemoveTargets deregisters each target. With purge, dependent resources
// of every kind are removed first; a dependent failure fails that target
// but the batch continues unless StopOnError is set.
func (e *Executor) RemoveTargets(ctx context.Context, targets []Target, compartment string, purge bool) Outcome {
	out := Outcome{Applied: !e.DryRun}

	for _, t := range targets {
		log := e.Log.With().Str("target", t.DisplayName).Logger()

		if purge {
			dependentsFailed := false
			for _, kind := range DependentKinds() {
				dep := e.DeleteDependents(ctx, kind, compartment, t.ID)
				out.Errors = append(out.Errors, dep.Errors...)
				if dep.Failed > 0 {
					dependentsFailed = true
				}
			}
			if dependentsFailed {
				log.Error().Msg("dependent cleanup failed, leaving target in place")
				out.Failed++
				if e.StopOnError {
					break
				}
				continue
			}
		}

		if e.DryRun {
			log.Info().Msg("would remove target")
			out.Success++
			continue
		}

		if err := e.Client.DeleteTarget(ctx, t.ID); err != nil {
			log.Error().Err(err).Msg("removing target failed")
			out.Failed++
			out.Errors = append(out.Errors, err)
			if e.StopOnError {
				break
			}
			continue
		}
		log.Info().Msg("target removed")
		out.Success++
	}

	return out
}
