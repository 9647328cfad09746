package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/jenkins-stack/cmd/jenkins-stack/handlers"
)

// Destroy returns the destroy command.
func Destroy() *cobra.Command {
	var opts handlers.DestroyOptions

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Delete the Jenkins stack",
		Long: `Destroy deletes every resource of the stack in reverse dependency order.
Resources that are already gone are skipped.

Example:
  jenkins-stack destroy -c jenkins-stack.yaml --yes

WARNING: The PersistentVolume holding the Jenkins home is deleted too.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to stack configuration file")
	cmd.Flags().StringVar(&opts.Kubeconfig, "kubeconfig", "", "Path to kubeconfig (default $KUBECONFIG or ~/.kube/config)")
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVar(&opts.NoTUI, "no-tui", false, "Print plain progress lines instead of the interactive view")

	return cmd
}
