package core

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Selection describes which targets a command operates on: an explicit
// identifier list, a scope plus filters, or a snapshot file.
type Selection struct {
	Items       []string // explicit names/OCIDs, mixed
	Compartment string
	States      []LifecycleState
	NameFilter  string // substring, or regexp with "re:" prefix

	// StatesDefaulted marks States as the configured default filter rather
	// than a user-supplied one; a defaulted filter never turns an empty
	// result into an error.
	StatesDefaulted bool

	Snapshot   string // path; replaces the live query when set
	MaxAge     time.Duration
	AllowStale bool
	Apply      bool // true when the run will mutate; gates snapshot use
}

// filtered reports whether the user explicitly narrowed the selection.
func (s Selection) filtered() bool {
	return s.NameFilter != "" || (len(s.States) > 0 && !s.StatesDefaulted)
}

// Catalog resolves target selections against the live service or a
// snapshot.
type Catalog struct {
	client Client
	log    zerolog.Logger
}

// NewCatalog creates a Catalog over the given client.
func NewCatalog(client Client, log zerolog.Logger) *Catalog {
	return &Catalog{client: client, log: log}
}

// Resolve turns a selection into canonical target records. Resolution
// errors are fatal: they abort before any mutation.
func (c *Catalog) Resolve(ctx context.Context, sel Selection) ([]Target, error) {
	if sel.Snapshot != "" {
		return c.resolveFromSnapshot(ctx, sel)
	}

	if len(sel.Items) > 0 {
		// Explicit list takes precedence; filters are ignored with a warning.
		if sel.filtered() {
			c.log.Warn().Msg("explicit target list given; ignoring --filter/--state")
		}
		return c.resolveItems(ctx, sel.Items, sel.Compartment)
	}

	targets, err := c.client.ListTargets(ctx, sel.Compartment, sel.States)
	if err != nil {
		return nil, err
	}
	filtered, err := filterByName(targets, sel.NameFilter)
	if err != nil {
		return nil, err
	}
	// An empty result is only an error when a filter was actually supplied,
	// distinguishing "nothing exists" from "nothing matched". A per-run
	// failure, not a usage error.
	if len(filtered) == 0 && sel.filtered() {
		return nil, fmt.Errorf("no targets matched the supplied filter")
	}
	return filtered, nil
}

func (c *Catalog) resolveFromSnapshot(ctx context.Context, sel Selection) ([]Target, error) {
	if sel.Apply && !sel.AllowStale {
		return nil, Stalef("refusing to apply against snapshot %s without --allow-stale", sel.Snapshot)
	}
	snap, err := LoadSnapshot(sel.Snapshot, sel.MaxAge, sel.AllowStale)
	if err != nil {
		return nil, err
	}
	c.log.Info().
		Str("snapshot", sel.Snapshot).
		Time("capturedAt", snap.CapturedAt).
		Int("targets", len(snap.Data)).
		Msg("using snapshot instead of live listing")

	if len(sel.Items) > 0 {
		if sel.filtered() {
			c.log.Warn().Msg("explicit target list given; ignoring --filter/--state")
		}
		return resolveFromData(snap.Data, sel.Items)
	}

	targets := snap.Data
	if len(sel.States) > 0 {
		targets = filterByState(targets, sel.States)
	}
	filtered, err := filterByName(targets, sel.NameFilter)
	if err != nil {
		return nil, err
	}
	if len(filtered) == 0 && sel.filtered() {
		return nil, fmt.Errorf("no targets matched the supplied filter")
	}
	return filtered, nil
}

// resolveFromData resolves a mixed name/OCID list against snapshot data
// instead of the live service.
func resolveFromData(targets []Target, items []string) ([]Target, error) {
	out := make([]Target, 0, len(items))
	for _, raw := range items {
		item := strings.TrimSpace(raw)
		if item == "" {
			continue
		}
		var matches []Target
		for _, t := range targets {
			if t.ID == item || t.DisplayName == item {
				matches = append(matches, t)
			}
		}
		switch len(matches) {
		case 0:
			return nil, Resolutionf("target %q not found in snapshot", item)
		case 1:
			out = append(out, matches[0])
		default:
			return nil, Resolutionf("target name %q is ambiguous (%d matches)", item, len(matches))
		}
	}
	return out, nil
}

// resolveItems resolves a mixed list of names and OCIDs. An id-shaped input
// is fetched directly; anything else is an exact display-name lookup within
// the compartment subtree.
func (c *Catalog) resolveItems(ctx context.Context, items []string, compartment string) ([]Target, error) {
	var listed []Target
	listedOnce := false

	targets := make([]Target, 0, len(items))
	for _, raw := range items {
		item := strings.TrimSpace(raw)
		if item == "" {
			continue
		}
		if IsOCID(item) {
			t, err := c.client.GetTarget(ctx, item)
			if err != nil {
				return nil, Resolutionf("target %q not found: %v", item, err)
			}
			targets = append(targets, t)
			continue
		}

		if !listedOnce {
			var err error
			listed, err = c.client.ListTargets(ctx, compartment, nil)
			if err != nil {
				return nil, err
			}
			listedOnce = true
		}
		var matches []Target
		for _, t := range listed {
			if t.DisplayName == item {
				matches = append(matches, t)
			}
		}
		switch len(matches) {
		case 0:
			return nil, Resolutionf("target %q not found", item)
		case 1:
			targets = append(targets, matches[0])
		default:
			return nil, Resolutionf("target name %q is ambiguous (%d matches)", item, len(matches))
		}
	}
	return targets, nil
}

// filterByName applies the name filter: case-insensitive substring by
// default, regexp with the "re:" prefix.
func filterByName(targets []Target, pattern string) ([]Target, error) {
	if pattern == "" {
		return targets, nil
	}
	var match func(string) bool
	if expr, ok := strings.CutPrefix(pattern, "re:"); ok {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, Validationf("invalid filter pattern %q: %v", expr, err)
		}
		match = re.MatchString
	} else {
		needle := strings.ToLower(pattern)
		match = func(name string) bool {
			return strings.Contains(strings.ToLower(name), needle)
		}
	}

	var out []Target
	for _, t := range targets {
		if match(t.DisplayName) {
			out = append(out, t)
		}
	}
	return out, nil
}

func filterByState(targets []Target, states []LifecycleState) []Target {
	want := make(map[LifecycleState]bool, len(states))
	for _, s := range states {
		want[s] = true
	}
	var out []Target
	for _, t := range targets {
		if want[t.LifecycleState] {
			out = append(out, t)
		}
	}
	return out
}
