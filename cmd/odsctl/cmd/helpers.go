package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	"github.com/oehrlis/odb-datasafe-sub000/internal/core"
	"github.com/oehrlis/odb-datasafe-sub000/internal/tui"
)

const maxNameWidth = 40

// Summary styles.
var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	dryRunStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Italic(true)
)

// splitList parses a comma-separated flag value into trimmed entries.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// addSelectionFlags registers the target selection flag set shared by the
// batch commands.
func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().String("targets", "", "Comma-separated target names or OCIDs")
	cmd.Flags().String("state", "", "Comma-separated lifecycle states (e.g. ACTIVE,NEEDS_ATTENTION)")
	cmd.Flags().String("filter", "", "Display-name substring, or regexp with re: prefix")
	cmd.Flags().String("from-snapshot", "", "Use a saved target snapshot instead of a live listing")
	cmd.Flags().Duration("max-age", 0, "Maximum snapshot age (default: config snapshotMaxAge)")
	cmd.Flags().Bool("allow-stale", false, "Permit stale snapshots and apply against snapshots")
}

// selectionFromFlags builds a core.Selection from the shared flags.
func selectionFromFlags(cmd *cobra.Command, cfg *core.Config) (core.Selection, error) {
	targets, _ := cmd.Flags().GetString("targets")
	stateFlag, _ := cmd.Flags().GetString("state")
	filter, _ := cmd.Flags().GetString("filter")
	snapshot, _ := cmd.Flags().GetString("from-snapshot")
	maxAge, _ := cmd.Flags().GetDuration("max-age")
	allowStale, _ := cmd.Flags().GetBool("allow-stale")
	apply, _ := cmd.Flags().GetBool("apply")

	states, err := core.ParseLifecycleStates(stateFlag)
	if err != nil {
		return core.Selection{}, err
	}
	if maxAge == 0 {
		maxAge = cfg.SnapshotMaxAge.Duration
	}
	if cfg.CompartmentID == "" && snapshot == "" {
		return core.Selection{}, core.Validationf("compartment not specified; set compartmentId in the config or pass --compartment")
	}

	return core.Selection{
		Items:       splitList(targets),
		Compartment: cfg.CompartmentID,
		States:      states,
		NameFilter:  filter,
		Snapshot:    snapshot,
		MaxAge:      maxAge,
		AllowStale:  allowStale,
		Apply:       apply,
	}, nil
}

// defaultStateSelection applies the configured default lifecycle-state
// filter when the user supplied neither an explicit list nor a state set.
func defaultStateSelection(sel core.Selection, cfg *core.Config) core.Selection {
	if len(sel.Items) == 0 && len(sel.States) == 0 && sel.Snapshot == "" {
		states, err := core.ParseLifecycleStates(cfg.DefaultStates)
		if err == nil {
			sel.States = states
			sel.StatesDefaulted = true
		}
	}
	return sel
}

// truncateName shortens a display name for table output, ANSI-aware.
func truncateName(name string) string {
	return ansi.Truncate(name, maxNameWidth, "…")
}

// printTargetsTable renders targets as an aligned table on stdout.
func printTargetsTable(targets []core.Target) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTATE\tCONNECTOR\tOCID")
	for _, t := range targets {
		connector := t.ConnectorID()
		if connector == "" {
			connector = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			truncateName(t.DisplayName), t.LifecycleState, connector, t.ID)
	}
	_ = w.Flush()
}

// printConnectorsTable renders connectors as an aligned table on stdout.
func printConnectorsTable(conns []core.Connector) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTATE\tVERSION\tOCID")
	for _, c := range conns {
		version := c.CreatedVersion
		if version == "" {
			version = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			truncateName(c.DisplayName), c.LifecycleState, version, c.ID)
	}
	_ = w.Flush()
}

// printSummary reports the batch counters and returns the error that
// decides the process exit status.
func printSummary(out core.Outcome) error {
	line := fmt.Sprintf("%s, %s, %s",
		successStyle.Render(fmt.Sprintf("%d succeeded", out.Success)),
		failedStyle.Render(fmt.Sprintf("%d failed", out.Failed)),
		skippedStyle.Render(fmt.Sprintf("%d skipped", out.Skipped)),
	)
	if !out.Applied {
		line += " " + dryRunStyle.Render("(dry-run, nothing changed; use --apply)")
	}
	fmt.Fprintln(os.Stdout, line)
	return out.Err()
}

// confirmOrAbort gates a destructive action. --yes bypasses the dialog;
// without a terminal the action is refused instead of hanging.
func confirmOrAbort(cmd *cobra.Command, message string) error {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return nil
	}
	if apply, _ := cmd.Flags().GetBool("apply"); !apply {
		return nil // dry-run needs no confirmation
	}
	if !isTerminal(os.Stdin) {
		return core.Validationf("refusing to run without confirmation; pass --yes in non-interactive use")
	}
	ok, err := tui.Confirm(message)
	if err != nil {
		return err
	}
	if !ok {
		return core.Validationf("aborted by user")
	}
	return nil
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// parseTags parses repeated k=v flag values.
func parseTags(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	tags := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, core.Validationf("invalid tag %q: expected key=value", p)
		}
		tags[k] = v
	}
	return tags, nil
}
