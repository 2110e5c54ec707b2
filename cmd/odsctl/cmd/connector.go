package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/oehrlis/odb-datasafe-sub000/internal/core"
)

var connectorCmd = &cobra.Command{
	Use:   "connector",
	Short: "List connectors and manage target-to-connector assignment",
}

var connectorListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active on-premises connectors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		exclude, _ := cmd.Flags().GetString("exclude")
		conns, err := d.directory.List(cmd.Context(), d.connectorCompartment(), excludeNames(d.cfg, exclude))
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(conns)
		}
		printConnectorsTable(conns)
		return nil
	},
}

var connectorAssignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Assign one connector to every selected target",
	Long: `Assign an explicit destination connector to every target in the
working set. Targets already using the destination are skipped as no-ops
and counted as success, so repeating the command is idempotent.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		dest, _ := cmd.Flags().GetString("connector")
		conn, err := d.directory.ResolveConnector(cmd.Context(), dest, d.connectorCompartment())
		if err != nil {
			return err
		}
		return runAssignment(cmd, d, core.NewSetMode(conn))
	},
}

var connectorMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Move all targets from one connector to another",
	Long: `Move every target currently routed through the source connector over
to the destination. The working set is exactly the targets whose current
connector equals the source; source and destination must differ.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		fromName, _ := cmd.Flags().GetString("from")
		toName, _ := cmd.Flags().GetString("to")

		source, err := d.directory.ResolveConnector(cmd.Context(), fromName, d.connectorCompartment())
		if err != nil {
			return err
		}
		dest, err := d.directory.ResolveConnector(cmd.Context(), toName, d.connectorCompartment())
		if err != nil {
			return err
		}
		mode, err := core.NewMigrateMode(source, dest)
		if err != nil {
			return err
		}
		return runAssignment(cmd, d, mode)
	},
}

var connectorDistributeCmd = &cobra.Command{
	Use:   "distribute",
	Short: "Spread targets round-robin over all active connectors",
	Long: `Distribute the selected targets over the eligible connectors in
round-robin order: the k-th processed target goes to connector (k-1) mod N.
Within one run no two connectors differ by more than one assignment.

Placement follows catalog listing order and is not pinned across runs;
repeating the command against an unchanged fleet may redistribute.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		exclude, _ := cmd.Flags().GetString("exclude")
		conns, err := d.directory.List(cmd.Context(), d.connectorCompartment(), excludeNames(d.cfg, exclude))
		if err != nil {
			return err
		}
		mode, err := core.NewDistributeMode(conns)
		if err != nil {
			return err
		}
		return runAssignment(cmd, d, mode)
	},
}

var connectorOutdatedCmd = &cobra.Command{
	Use:   "outdated",
	Short: "Report connectors with a newer bundle version available",
	Long: `Compare each connector's installed bundle version against the latest
available version. Advisory only; nothing is changed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		conns, err := d.directory.List(cmd.Context(), d.connectorCompartment(), nil)
		if err != nil {
			return err
		}
		available, _ := cmd.Flags().GetString("available")
		if available == "" {
			available = d.cfg.ConnectorBundleVersion
		}
		updates := core.CheckConnectorUpdates(conns, available)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(updates)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tINSTALLED\tAVAILABLE\tSTATUS")
		for _, u := range updates {
			status := "up to date"
			if u.HasUpdate {
				status = "update available"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", truncateName(u.Name), u.Installed, u.Available, status)
		}
		return w.Flush()
	},
}

// runAssignment is the shared plan-then-execute path of the three
// assignment modes.
func runAssignment(cmd *cobra.Command, d *deps, mode core.Mode) error {
	sel, err := selectionFromFlags(cmd, d.cfg)
	if err != nil {
		return err
	}
	targets, err := d.catalog.Resolve(cmd.Context(), defaultStateSelection(sel, d.cfg))
	if err != nil {
		return err
	}

	decisions := core.Plan(targets, mode)
	d.log.Info().
		Str("mode", mode.Describe()).
		Int("targets", len(targets)).
		Int("decisions", len(decisions)).
		Msg("assignment planned")

	out := d.executor(cmd).ApplyAssignments(cmd.Context(), decisions)
	return printSummary(out)
}

// excludeNames merges the configured connector exclusions with the flag.
func excludeNames(cfg *core.Config, flag string) []string {
	return append(splitList(flag), cfg.ConnectorExcludes...)
}

func init() {
	connectorListCmd.Flags().String("exclude", "", "Comma-separated connector names to exclude")
	connectorListCmd.Flags().Bool("json", false, "Output raw JSON")

	addSelectionFlags(connectorAssignCmd)
	connectorAssignCmd.Flags().String("connector", "", "Destination connector name or OCID")
	_ = connectorAssignCmd.MarkFlagRequired("connector")
	connectorAssignCmd.Flags().String("wait", "", "Block until the update reaches this lifecycle state")
	connectorAssignCmd.Flags().Bool("stop-on-error", false, "Stop the batch on the first failure")

	addSelectionFlags(connectorMigrateCmd)
	connectorMigrateCmd.Flags().String("from", "", "Source connector name or OCID")
	connectorMigrateCmd.Flags().String("to", "", "Destination connector name or OCID")
	_ = connectorMigrateCmd.MarkFlagRequired("from")
	_ = connectorMigrateCmd.MarkFlagRequired("to")
	connectorMigrateCmd.Flags().String("wait", "", "Block until the update reaches this lifecycle state")
	connectorMigrateCmd.Flags().Bool("stop-on-error", false, "Stop the batch on the first failure")

	addSelectionFlags(connectorDistributeCmd)
	connectorDistributeCmd.Flags().String("exclude", "", "Comma-separated connector names to exclude")
	connectorDistributeCmd.Flags().String("wait", "", "Block until the update reaches this lifecycle state")
	connectorDistributeCmd.Flags().Bool("stop-on-error", false, "Stop the batch on the first failure")

	connectorOutdatedCmd.Flags().String("available", "", "Override the latest available bundle version")
	connectorOutdatedCmd.Flags().Bool("json", false, "Output raw JSON")

	connectorCmd.AddCommand(connectorListCmd, connectorAssignCmd, connectorMigrateCmd,
		connectorDistributeCmd, connectorOutdatedCmd)
	rootCmd.AddCommand(connectorCmd)
}
