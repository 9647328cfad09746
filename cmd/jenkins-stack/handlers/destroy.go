package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/jenkins-stack/internal/engine"
	"github.com/imamik/jenkins-stack/internal/stack"
	"github.com/imamik/jenkins-stack/internal/ui/tui"
)

// DestroyOptions configures the destroy command.
type DestroyOptions struct {
	ConfigPath string
	Kubeconfig string
	Yes        bool
	NoTUI      bool
}

// Destroy deletes every declared resource in reverse dependency order.
// Unless Yes is set, an interactive user is asked to confirm first.
func Destroy(ctx context.Context, opts DestroyOptions) error {
	s, err := newSession(ctx, opts.ConfigPath)
	if err != nil {
		return err
	}
	defer s.flushMetrics()

	if !opts.Yes && stdinIsTTY() {
		ok, err := confirm(ctx,
			fmt.Sprintf("Destroy the Jenkins stack in namespace %q?", s.cfg.Namespace),
			"All nine resources are deleted, including the persistent volume holding Jenkins home.")
		if err != nil {
			return err
		}
		if !ok {
			return engine.ErrAborted
		}
	}

	_, eng, err := s.clusterEngine(opts.Kubeconfig)
	if err != nil {
		return err
	}

	s.log.Info("destroying stack")

	pass := func(ctx context.Context, observe engine.Observer) (stack.Outputs, error) {
		return nil, engine.Down(ctx, eng, s.stack, engine.Options{Observer: observe, Metrics: s.metrics})
	}

	if !opts.NoTUI && stdoutIsTTY() {
		steps, err := s.steps()
		if err != nil {
			return err
		}
		if _, err := runTUI(ctx, tui.NewModel(s.cfg.Namespace, tui.OperationDestroy, steps), pass); err != nil {
			return fmt.Errorf("destroy failed: %w", err)
		}
	} else if _, err := pass(ctx, printEvent); err != nil {
		return fmt.Errorf("destroy failed: %w", err)
	}

	fmt.Fprintf(stdout, "Stack in namespace %s destroyed\n", s.cfg.Namespace)
	return nil
}
