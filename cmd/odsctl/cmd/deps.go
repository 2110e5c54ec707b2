package cmd

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/oehrlis/odb-datasafe-sub000/internal/core"
	"github.com/oehrlis/odb-datasafe-sub000/internal/logging"
	"github.com/oehrlis/odb-datasafe-sub000/internal/ocicli"
)

// deps holds shared dependencies for CLI commands.
type deps struct {
	cfg       *core.Config
	log       zerolog.Logger
	client    core.Client
	catalog   *core.Catalog
	directory *core.Directory
}

// newDeps creates shared dependencies. Called lazily by commands that need
// them. Flag overrides are folded into the config here, before any
// component sees it.
func newDeps(cmd *cobra.Command) (*deps, error) {
	configDir, _ := cmd.Flags().GetString("config")
	cfg, err := core.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("initializing config: %w", err)
	}
	if compartment, _ := cmd.Flags().GetString("compartment"); compartment != "" {
		cfg.CompartmentID = compartment
	}
	if profile, _ := cmd.Flags().GetString("profile"); profile != "" {
		cfg.OCIProfile = profile
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	log := logging.New(cfg.LogLevel, verbose)

	client := ocicli.New(cfg, log)
	return &deps{
		cfg:       cfg,
		log:       log,
		client:    client,
		catalog:   core.NewCatalog(client, log),
		directory: core.NewDirectory(client, log),
	}, nil
}

// executor builds a change executor from the command's execution flags.
func (d *deps) executor(cmd *cobra.Command) *core.Executor {
	apply, _ := cmd.Flags().GetBool("apply")
	stopOnError, _ := cmd.Flags().GetBool("stop-on-error")
	wait, _ := cmd.Flags().GetString("wait")
	return &core.Executor{
		Client:       d.client,
		Log:          d.log,
		DryRun:       !apply,
		StopOnError:  stopOnError,
		WaitForState: wait,
	}
}

// connectorCompartment returns the connector lookup scope, which may differ
// from the target scope.
func (d *deps) connectorCompartment() string {
	if d.cfg.ConnectorCompartmentID != "" {
		return d.cfg.ConnectorCompartmentID
	}
	return d.cfg.CompartmentID
}
