package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/imamik/jenkins-stack/internal/engine"
	"github.com/imamik/jenkins-stack/internal/publish"
	"github.com/imamik/jenkins-stack/internal/stack"
	"github.com/imamik/jenkins-stack/internal/ui/tui"
)

// UpOptions configures the up command.
type UpOptions struct {
	ConfigPath  string
	Kubeconfig  string
	Wait        bool
	OutputsFile string
	NoTUI       bool

	// FromFile applies a previously rendered manifest file instead of the
	// declared stack.
	FromFile string
}

// Up registers the stack with the cluster, prints the outputs and publishes
// them.
func Up(ctx context.Context, opts UpOptions) error {
	s, err := newSession(ctx, opts.ConfigPath)
	if err != nil {
		return err
	}
	defer s.flushMetrics()

	logger := s.log

	client, eng, err := s.clusterEngine(opts.Kubeconfig)
	if err != nil {
		return err
	}

	if opts.FromFile != "" {
		data, err := os.ReadFile(opts.FromFile)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", opts.FromFile, err)
		}
		if err := client.ApplyManifests(ctx, data, s.env.FieldManager); err != nil {
			return fmt.Errorf("apply failed: %w", err)
		}
		logger.Info("applied manifests", "file", opts.FromFile)
		return nil
	}

	logger.Info("registering stack")

	pass := func(ctx context.Context, observe engine.Observer) (stack.Outputs, error) {
		return engine.Up(ctx, eng, s.stack, engine.Options{Observer: observe, Metrics: s.metrics})
	}

	var outputs stack.Outputs
	if !opts.NoTUI && stdoutIsTTY() {
		steps, err := s.steps()
		if err != nil {
			return err
		}
		outputs, err = runTUI(ctx, tui.NewModel(s.cfg.Namespace, tui.OperationUp, steps), pass)
		if err != nil {
			return fmt.Errorf("up failed: %w", err)
		}
	} else {
		outputs, err = pass(ctx, printEvent)
		if err != nil {
			return fmt.Errorf("up failed: %w", err)
		}
		fmt.Fprintln(stdout, "\nOutputs:")
		fmt.Fprint(stdout, tui.RenderOutputs(outputs))
	}

	if opts.Wait {
		logger.Info("waiting for rollout", "deployment", s.cfg.App.Name, "timeout", s.env.Timeouts.Rollout.String())
		if err := client.WaitForDeploymentAvailable(ctx, s.cfg.Namespace, s.cfg.App.Name, s.env.Timeouts.Rollout); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Deployment %s/%s is available\n", s.cfg.Namespace, s.cfg.App.Name)
	}

	return publishOutputs(ctx, s, opts.OutputsFile, outputs)
}

func publishOutputs(ctx context.Context, s *session, outputsFile string, outputs stack.Outputs) error {
	logger := s.log

	if outputsFile != "" {
		if err := publish.WriteFile(outputsFile, outputs); err != nil {
			return err
		}
		logger.Info("outputs written", "file", outputsFile)
	}

	if !s.env.S3.Enabled() {
		return nil
	}

	pub, err := newPublisher(ctx, publish.S3Config{
		Endpoint:  s.env.S3.Endpoint,
		Region:    s.env.S3.Region,
		AccessKey: s.env.AWSAccessKeyID,
		SecretKey: s.env.AWSSecretAccessKey,
	})
	if err != nil {
		return err
	}
	if err := pub.Publish(ctx, s.env.S3.Bucket, s.env.S3.Key, outputs); err != nil {
		return err
	}
	logger.Info("outputs published", "bucket", s.env.S3.Bucket, "key", s.env.S3.Key)
	return nil
}
