package cmd

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

//go:embed guide.md
var operationsGuide string

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Show the embedded operations guide",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !isTerminal(os.Stdout) {
			fmt.Fprint(os.Stdout, operationsGuide)
			return nil
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err != nil {
			// Fall back to the raw markdown rather than failing the command.
			fmt.Fprint(os.Stdout, operationsGuide)
			return nil
		}
		rendered, err := r.Render(operationsGuide)
		if err != nil {
			fmt.Fprint(os.Stdout, operationsGuide)
			return nil
		}
		fmt.Fprint(os.Stdout, rendered)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(docsCmd)
}
