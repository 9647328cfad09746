package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/jenkins-stack/cmd/jenkins-stack/handlers"
)

// Preview returns the preview command.
func Preview() *cobra.Command {
	var configPath, outputPath string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render the stack manifests without contacting a cluster",
		Long: `Preview renders all nine manifests as a multi-document YAML stream,
in the order they would be registered.

Example:
  jenkins-stack preview -c jenkins-stack.yaml -o jenkins.yaml
  jenkins-stack up --from-file jenkins.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Preview(cmd.Context(), configPath, outputPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to stack configuration file")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write manifests to this file instead of stdout")

	return cmd
}
