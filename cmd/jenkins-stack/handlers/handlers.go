// Package handlers implements the business logic for CLI commands.
//
// Handlers are called by the command definitions in the commands package and
// can be tested independently of the CLI framework. External dependencies
// are reached through package-level factory variables that tests replace.
package handlers

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-logr/logr"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/jenkins-stack/internal/config"
	"github.com/imamik/jenkins-stack/internal/engine"
	"github.com/imamik/jenkins-stack/internal/k8sclient"
	"github.com/imamik/jenkins-stack/internal/metrics"
	"github.com/imamik/jenkins-stack/internal/publish"
	"github.com/imamik/jenkins-stack/internal/stack"
	"github.com/imamik/jenkins-stack/internal/ui/tui"
)

// OutputPublisher uploads outputs to remote storage.
type OutputPublisher interface {
	Publish(ctx context.Context, bucket, key string, outputs stack.Outputs) error
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadEnv reads process settings from the environment.
	loadEnv = config.LoadEnv

	// loadConfig loads and validates the stack configuration file.
	loadConfig = config.Load

	// createFile opens the preview output file.
	createFile = func(path string) (io.WriteCloser, error) { return os.Create(path) }

	// newClient creates a Kubernetes client from a kubeconfig path.
	newClient = func(kubeconfigPath string, t config.Timeouts) (k8sclient.Client, error) {
		data, err := os.ReadFile(kubeconfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read kubeconfig %s: %w", kubeconfigPath, err)
		}
		return k8sclient.NewFromKubeconfig(data, k8sclient.WithRetry(t.RetryMaxAttempts, t.RetryInitialDelay))
	}

	// newPublisher creates the S3 outputs publisher.
	newPublisher = func(ctx context.Context, cfg publish.S3Config) (OutputPublisher, error) {
		return publish.NewS3Publisher(ctx, cfg)
	}

	// stdoutIsTTY reports whether progress can be shown interactively.
	stdoutIsTTY = func() bool { return tui.IsInteractive(os.Stdout) }

	// stdinIsTTY reports whether the user can be prompted.
	stdinIsTTY = func() bool { return tui.IsInteractive(os.Stdin) }

	// confirm asks the user a yes/no question.
	confirm = tui.Confirm

	// runTUI shows the progress view while a pass runs.
	runTUI = func(ctx context.Context, m tui.Model, pass tui.PassFunc) (stack.Outputs, error) {
		return tui.Run(ctx, m, pass)
	}

	// stdout receives command output.
	stdout io.Writer = os.Stdout
)

// session holds what every command needs: environment, validated
// configuration and the declared stack.
type session struct {
	env     *config.Env
	cfg     *config.Config
	stack   *stack.Stack
	metrics *metrics.Recorder
	log     logr.Logger
}

// newSession resolves the configuration path (flag, then environment, then
// the working directory), loads it, and builds the stack. config.Load has
// already validated what it returns.
func newSession(ctx context.Context, configPath string) (*session, error) {
	env, err := loadEnv()
	if err != nil {
		return nil, err
	}

	if configPath == "" {
		configPath = env.ConfigPath
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := log.FromContext(ctx).WithValues("namespace", cfg.Namespace)
	logger.V(1).Info("configuration loaded", "path", configPath)

	return &session{
		env:     env,
		cfg:     cfg,
		stack:   stack.Build(cfg),
		metrics: metrics.New(),
		log:     logger,
	}, nil
}

// clusterEngine connects to the cluster named by kubeconfigPath, falling
// back to the KUBECONFIG environment.
func (s *session) clusterEngine(kubeconfigPath string) (k8sclient.Client, *engine.ClusterEngine, error) {
	if kubeconfigPath == "" {
		kubeconfigPath = s.env.Kubeconfig
	}

	client, err := newClient(kubeconfigPath, s.env.Timeouts)
	if err != nil {
		return nil, nil, err
	}

	eng := engine.NewClusterEngine(client,
		engine.WithFieldManager(s.env.FieldManager),
		engine.WithTimeouts(s.env.Timeouts.Apply, s.env.Timeouts.Delete),
	)
	return client, eng, nil
}

// flushMetrics writes the metrics file if one is configured.
func (s *session) flushMetrics() {
	if err := s.metrics.WriteTextfile(s.env.MetricsFile); err != nil {
		s.log.Error(err, "failed to write metrics", "file", s.env.MetricsFile)
	}
}

func (s *session) steps() (stack.Steps, error) {
	return stack.Order(s.stack.Resources())
}

// printEvent is the observer used when no progress view is shown.
func printEvent(e engine.Event) {
	switch e.Type {
	case engine.EventRegistered, engine.EventDeleted:
		fmt.Fprintf(stdout, "[%d/%d] %s %-22s %s (%s)\n", e.Index, e.Total, e.Type, e.Kind, e.Name, e.Duration.Round(time.Millisecond))
	case engine.EventFailed:
		fmt.Fprintf(stdout, "[%d/%d] failed %-22s %s: %v\n", e.Index, e.Total, e.Kind, e.Name, e.Err)
	}
}
