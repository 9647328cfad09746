package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/jenkins-stack/cmd/jenkins-stack/handlers"
)

// Outputs returns the outputs command.
func Outputs() *cobra.Command {
	var (
		configPath string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "outputs",
		Short: "Print the names of the stack resources",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Outputs(cmd.Context(), configPath, asJSON)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to stack configuration file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print outputs as JSON")

	return cmd
}
