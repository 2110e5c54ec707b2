package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "odsctl",
	Short: "Manage Oracle Data Safe targets and on-premises connectors",
	Long: `odsctl automates lifecycle operations for Data Safe target databases
behind on-premises connectors: connector assignment (set, migrate,
distribute), credential rotation, registration, audit-trail enablement,
tagging and deregistration.

Every mutating command simulates by default; pass --apply to execute.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("odsctl %s (commit: %s, built: %s)\n", Version, Commit, Date)
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config directory (default: ~/.odsctl)")
	rootCmd.PersistentFlags().String("profile", "", "OCI CLI profile to use")
	rootCmd.PersistentFlags().String("compartment", "", "Compartment OCID (overrides config)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("apply", false, "Execute changes instead of simulating them")
	rootCmd.PersistentFlags().BoolP("yes", "y", false, "Skip confirmation prompts")
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command with the given context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
