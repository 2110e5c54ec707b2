package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oehrlis/odb-datasafe-sub000/internal/core"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Capture target listings for later offline selection",
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save the current target listing to a snapshot file",
	Long: `Capture a live target listing into a timestamped snapshot file.
Later commands can select from it via --from-snapshot instead of a live
query; snapshots older than the configured maximum age are refused unless
explicitly overridden.`,
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
		if sel.Snapshot != "" {
			return core.Validationf("snapshot save captures a live listing; --from-snapshot is not allowed here")
		}
		targets, err := d.catalog.Resolve(cmd.Context(), sel)
		if err != nil {
			return err
		}

		output, _ := cmd.Flags().GetString("output")
		if err := core.WriteSnapshot(output, targets); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Saved %d target(s) to %s\n", len(targets), output)
		return nil
	},
}

func init() {
	addSelectionFlags(snapshotSaveCmd)
	snapshotSaveCmd.Flags().StringP("output", "o", "", "Snapshot file to write")
	_ = snapshotSaveCmd.MarkFlagRequired("output")

	snapshotCmd.AddCommand(snapshotSaveCmd)
	rootCmd.AddCommand(snapshotCmd)
}
