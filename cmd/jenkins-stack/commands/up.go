package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/jenkins-stack/cmd/jenkins-stack/handlers"
)

// Up returns the up command.
func Up() *cobra.Command {
	var opts handlers.UpOptions

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Create or update the Jenkins stack",
		Long: `Up registers the Jenkins stack with the cluster using server-side apply.

Resources are registered in dependency order:
  - Namespace, ClusterRole, StorageClass
  - ServiceAccount, PersistentVolume
  - ClusterRoleBinding, PersistentVolumeClaim
  - Deployment
  - Service

Running up again converges the cluster to the declared state.

Example:
  jenkins-stack up -c jenkins-stack.yaml --wait`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Up(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to stack configuration file")
	cmd.Flags().StringVar(&opts.Kubeconfig, "kubeconfig", "", "Path to kubeconfig (default $KUBECONFIG or ~/.kube/config)")
	cmd.Flags().BoolVar(&opts.Wait, "wait", false, "Wait for the Jenkins deployment to become available")
	cmd.Flags().StringVar(&opts.OutputsFile, "outputs-file", "", "Write outputs as JSON to this file")
	cmd.Flags().BoolVar(&opts.NoTUI, "no-tui", false, "Print plain progress lines instead of the interactive view")
	cmd.Flags().StringVar(&opts.FromFile, "from-file", "", "Apply a rendered manifest file instead of the declared stack")

	return cmd
}
