package publish

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/imamik/jenkins-stack/internal/stack"
)

// Marshal encodes outputs as an indented JSON object with sorted keys.
func Marshal(outputs stack.Outputs) ([]byte, error) {
	data, err := json.MarshalIndent(outputs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode outputs: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteJSON writes outputs to w as JSON.
func WriteJSON(w io.Writer, outputs stack.Outputs) error {
	data, err := Marshal(outputs)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write outputs: %w", err)
	}
	return nil
}

// WriteFile writes outputs to path as JSON, creating parent directories.
func WriteFile(path string, outputs stack.Outputs) error {
	data, err := Marshal(outputs)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write outputs to %s: %w", path, err)
	}
	return nil
}

// ReadFile loads outputs previously written by WriteFile.
func ReadFile(path string) (stack.Outputs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read outputs from %s: %w", path, err)
	}
	var out stack.Outputs
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode outputs from %s: %w", path, err)
	}
	return out, nil
}
