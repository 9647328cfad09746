package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/jenkins-stack/internal/engine"
	"github.com/imamik/jenkins-stack/internal/publish"
	"github.com/imamik/jenkins-stack/internal/ui/tui"
)

// Outputs prints the stack outputs without contacting a cluster. The
// declared graph is registered with an in-memory recorder and the assigned
// names are read back.
func Outputs(ctx context.Context, configPath string, asJSON bool) error {
	s, err := newSession(ctx, configPath)
	if err != nil {
		return err
	}

	outputs, err := engine.Up(ctx, engine.NewRecorder(), s.stack, engine.Options{})
	if err != nil {
		return fmt.Errorf("failed to compute outputs: %w", err)
	}

	if asJSON {
		return publish.WriteJSON(stdout, outputs)
	}
	fmt.Fprint(stdout, tui.RenderOutputs(outputs))
	return nil
}
