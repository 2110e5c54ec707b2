package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oehrlis/odb-datasafe-sub000/internal/core"
)

var targetCmd = &cobra.Command{
	Use:   "target",
	Short: "List, register, tag and remove Data Safe targets",
}

var targetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List targets in the configured compartment",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		sel, err := selectionFromFlags(cmd, d.cfg)
		if err != nil {
			return err
		}
		targets, err := d.catalog.Resolve(cmd.Context(), sel)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(targets)
		}
		printTargetsTable(targets)
		return nil
	},
}

var targetShowCmd = &cobra.Command{
	Use:   "show <name|ocid>",
	Short: "Show one target as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(args[0]) == "" {
			return core.Validationf("target name or OCID must not be blank")
		}
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		targets, err := d.catalog.Resolve(cmd.Context(), core.Selection{
			Items:       []string{args[0]},
			Compartment: d.cfg.CompartmentID,
		})
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(targets[0])
	},
}

var targetRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register targets from a YAML manifest",
	Long: `Register every target listed in a YAML manifest.

Each entry needs a name plus either a dbSystemId or the installed-database
triple (ipAddresses, port, serviceName). An optional connector name routes
the new target through an on-premises connector.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		manifest, err := core.LoadManifest(file)
		if err != nil {
			return err
		}

		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		if d.cfg.CompartmentID == "" {
			return core.Validationf("compartment not specified; set compartmentId in the config or pass --compartment")
		}

		resolve := func(name string) (core.Connector, error) {
			return d.directory.ResolveConnector(cmd.Context(), name, d.connectorCompartment())
		}
		out := d.executor(cmd).RegisterTargets(cmd.Context(), manifest.Targets, d.cfg.CompartmentID, resolve)
		return printSummary(out)
	},
}

var targetRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Deregister targets",
	Long: `Deregister the selected targets. With --purge, dependent resources
(audit trails, user assessments, security assessments) are deleted first
through a single per-kind routine that tolerates per-item failure.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		sel, err := selectionFromFlags(cmd, d.cfg)
		if err != nil {
			return err
		}
		if len(sel.Items) == 0 && sel.NameFilter == "" {
			return core.Validationf("target remove needs --targets or --filter; refusing to remove an entire compartment implicitly")
		}
		targets, err := d.catalog.Resolve(cmd.Context(), sel)
		if err != nil {
			return err
		}

		purge, _ := cmd.Flags().GetBool("purge")
		if err := confirmOrAbort(cmd, fmt.Sprintf("Remove %d target(s)?", len(targets))); err != nil {
			return err
		}
		out := d.executor(cmd).RemoveTargets(cmd.Context(), targets, d.cfg.CompartmentID, purge)
		return printSummary(out)
	},
}

var targetTagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Add or remove freeform tags on targets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		setPairs, _ := cmd.Flags().GetStringArray("tag")
		removeKeys, _ := cmd.Flags().GetStringArray("remove-tag")
		if len(setPairs) == 0 && len(removeKeys) == 0 {
			return core.Validationf("nothing to do: pass --tag and/or --remove-tag")
		}
		set, err := parseTags(setPairs)
		if err != nil {
			return err
		}

		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		sel, err := selectionFromFlags(cmd, d.cfg)
		if err != nil {
			return err
		}
		targets, err := d.catalog.Resolve(cmd.Context(), sel)
		if err != nil {
			return err
		}

		out := d.executor(cmd).TagTargets(cmd.Context(), targets, set, removeKeys)
		return printSummary(out)
	},
}

var auditEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Start audit collection on the targets' inactive trails",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		sel, err := selectionFromFlags(cmd, d.cfg)
		if err != nil {
			return err
		}
		targets, err := d.catalog.Resolve(cmd.Context(), defaultStateSelection(sel, d.cfg))
		if err != nil {
			return err
		}

		out := d.executor(cmd).EnableAudit(cmd.Context(), targets, d.cfg.CompartmentID)
		return printSummary(out)
	},
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Manage audit-trail collection for targets",
}

func init() {
	addSelectionFlags(targetListCmd)
	targetListCmd.Flags().Bool("json", false, "Output raw JSON")

	targetRegisterCmd.Flags().StringP("file", "f", "", "YAML manifest path")
	_ = targetRegisterCmd.MarkFlagRequired("file")
	targetRegisterCmd.Flags().Bool("stop-on-error", false, "Stop the batch on the first failure")

	addSelectionFlags(targetRemoveCmd)
	targetRemoveCmd.Flags().Bool("purge", false, "Delete dependent resources first")
	targetRemoveCmd.Flags().Bool("stop-on-error", false, "Stop the batch on the first failure")

	addSelectionFlags(targetTagCmd)
	targetTagCmd.Flags().StringArray("tag", nil, "Tag to set, key=value (repeatable)")
	targetTagCmd.Flags().StringArray("remove-tag", nil, "Tag key to remove (repeatable)")
	targetTagCmd.Flags().Bool("stop-on-error", false, "Stop the batch on the first failure")

	addSelectionFlags(auditEnableCmd)
	auditEnableCmd.Flags().Bool("stop-on-error", false, "Stop the batch on the first failure")

	targetCmd.AddCommand(targetListCmd, targetShowCmd, targetRegisterCmd, targetRemoveCmd, targetTagCmd)
	auditCmd.AddCommand(auditEnableCmd)
	rootCmd.AddCommand(targetCmd, auditCmd)
}
