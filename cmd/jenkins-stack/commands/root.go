// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"context"

	"github.com/spf13/cobra"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/imamik/jenkins-stack/internal/config"
)

// Root returns the root command for the jenkins-stack CLI.
//
// The persistent --debug flag (or DEBUG=true) switches the logger to
// development mode, which also enables verbose (V(1)) messages.
func Root() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:           "jenkins-stack",
		Short:         "Deploy a Jenkins server to Kubernetes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if !cmd.Flags().Changed("debug") {
				debug = debugFromEnv()
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			logger := zap.New(zap.UseDevMode(debug), zap.WriteTo(cmd.ErrOrStderr()))
			log.SetLogger(logger)
			cmd.SetContext(log.IntoContext(ctx, logger))
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable verbose logging")

	cmd.AddCommand(Preview())
	cmd.AddCommand(Up())
	cmd.AddCommand(Destroy())
	cmd.AddCommand(Outputs())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}

// debugFromEnv reads DEBUG through the process settings. A malformed
// environment leaves debug off; the handlers report the parse error.
func debugFromEnv() bool {
	env, err := config.LoadEnv()
	return err == nil && env.Debug
}
