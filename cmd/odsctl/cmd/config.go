package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oehrlis/odb-datasafe-sub000/internal/core"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and initialize the odsctl configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the current effective settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir, _ := cmd.Flags().GetString("config")
		cfg, err := core.LoadConfig(configDir)
		if err != nil {
			return err
		}
		if compartment, _ := cmd.Flags().GetString("compartment"); compartment != "" {
			cfg.CompartmentID = compartment
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Wrote %s\n", cfg.ConfigPath())
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir, _ := cmd.Flags().GetString("config")
		cfg, err := core.LoadConfig(configDir)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	},
}

func init() {
	configCmd.AddCommand(configInitCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}
