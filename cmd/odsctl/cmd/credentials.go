package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oehrlis/odb-datasafe-sub000/internal/core"
	"github.com/oehrlis/odb-datasafe-sub000/internal/tui"
)

var credentialsCmd = &cobra.Command{
	Use:   "credentials",
	Short: "Rotate and cache target database credentials",
}

var credentialsRotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Rotate database credentials on the selected targets",
	Long: `Rotate the Data Safe service-account credentials on every selected
target. The secret is resolved from layered sources, highest first:
a structured credentials file, explicit --user/--secret, the
ODSCTL_DB_USER/ODSCTL_DB_SECRET environment, a cached <user>_pwd.b64 file,
and finally an interactive prompt (disable with --no-prompt).

Targets whose name carries the root-container suffix get the common-user
prefix applied automatically; --root forces root scope for all targets.
Targets mid-transition are skipped as not updatable.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}

		opts, err := credentialOptions(cmd, d.cfg)
		if err != nil {
			return err
		}
		cred, err := core.ResolveCredential(opts)
		if err != nil {
			return err
		}

		rootSecret, _ := cmd.Flags().GetString("root-secret")
		if rootSecret != "" {
			if rootSecret, err = core.NormalizeSecret(rootSecret); err != nil {
				return err
			}
		}
		forceRoot, _ := cmd.Flags().GetBool("root")

		sel, err := selectionFromFlags(cmd, d.cfg)
		if err != nil {
			return err
		}
		targets, err := d.catalog.Resolve(cmd.Context(), defaultStateSelection(sel, d.cfg))
		if err != nil {
			return err
		}

		out := d.executor(cmd).RotateCredentials(cmd.Context(), targets, core.RotationOptions{
			Leaf:             cred,
			CommonUserPrefix: d.cfg.CommonUserPrefix,
			RootNameSuffix:   d.cfg.RootNameSuffix,
			RootSecret:       rootSecret,
			ForceRoot:        forceRoot,
			Janitor:          core.DefaultJanitor,
		})
		return printSummary(out)
	},
}

var credentialsCacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Write a base64 secret cache file for a user",
	Long: `Write <user>_pwd.b64 into the secrets directory with owner-only
permissions. Later rotations pick the cached secret up by convention.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}

		opts, err := credentialOptions(cmd, d.cfg)
		if err != nil {
			return err
		}
		cred, err := core.ResolveCredential(opts)
		if err != nil {
			return err
		}

		path, err := core.SaveSecretCache(d.cfg.SecretsDir, cred.User, cred.Secret)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Secret for %s cached at %s\n", cred.User, path)
		return nil
	},
}

// credentialOptions assembles resolver inputs from flags and config.
func credentialOptions(cmd *cobra.Command, cfg *core.Config) (core.CredentialOptions, error) {
	credFile, _ := cmd.Flags().GetString("credentials-file")
	user, _ := cmd.Flags().GetString("user")
	secret, _ := cmd.Flags().GetString("secret")
	secretFile, _ := cmd.Flags().GetString("secret-file")
	noPrompt, _ := cmd.Flags().GetBool("no-prompt")

	var prompt func(string) (string, error)
	if !noPrompt && isTerminal(os.Stdin) {
		prompt = tui.PromptSecret
	}

	return core.CredentialOptions{
		CredentialsFile: credFile,
		User:            user,
		Secret:          secret,
		EnvUser:         cfg.EnvUser,
		EnvSecret:       cfg.EnvSecret,
		SecretFile:      secretFile,
		SecretsDir:      cfg.SecretsDir,
		NoPrompt:        noPrompt,
		Prompt:          prompt,
	}, nil
}

// addCredentialFlags registers the credential source flags.
func addCredentialFlags(cmd *cobra.Command) {
	cmd.Flags().String("user", "", "Database user name")
	cmd.Flags().String("secret", "", "Database secret (base64 is decoded transparently)")
	cmd.Flags().String("credentials-file", "", "JSON credentials file {userName, password}")
	cmd.Flags().String("secret-file", "", "Base64 secret file overriding the <user>_pwd.b64 convention")
	cmd.Flags().Bool("no-prompt", false, "Fail instead of prompting when no secret source matches")
}

func init() {
	addSelectionFlags(credentialsRotateCmd)
	addCredentialFlags(credentialsRotateCmd)
	credentialsRotateCmd.Flags().Bool("root", false, "Treat all targets as root-container targets")
	credentialsRotateCmd.Flags().String("root-secret", "", "Separate secret for root-container targets")
	credentialsRotateCmd.Flags().String("wait", "", "Block until each update reaches this lifecycle state")
	credentialsRotateCmd.Flags().Bool("stop-on-error", false, "Stop the batch on the first failure")

	addCredentialFlags(credentialsCacheCmd)

	credentialsCmd.AddCommand(credentialsRotateCmd, credentialsCacheCmd)
	rootCmd.AddCommand(credentialsCmd)
}
