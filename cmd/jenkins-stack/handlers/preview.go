package handlers

import (
	"context"
	"fmt"
	"io"

	"github.com/imamik/jenkins-stack/internal/engine"
)

// Preview renders every manifest in registration order to outputPath, or to
// stdout when outputPath is empty.
func Preview(ctx context.Context, configPath, outputPath string) error {
	s, err := newSession(ctx, configPath)
	if err != nil {
		return err
	}

	if outputPath == "" {
		return render(ctx, s, stdout, outputPath)
	}

	f, err := createFile(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outputPath, err)
	}
	if err := render(ctx, s, f, outputPath); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", outputPath, err)
	}
	return nil
}

func render(ctx context.Context, s *session, w io.Writer, outputPath string) error {
	renderer := engine.NewRenderEngine(w)
	if _, err := engine.Up(ctx, renderer, s.stack, engine.Options{}); err != nil {
		return fmt.Errorf("preview failed: %w", err)
	}

	s.log.V(1).Info("rendered manifests", "documents", renderer.Count(), "output", outputPath)
	return nil
}
