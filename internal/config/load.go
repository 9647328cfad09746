package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFilename is the configuration file looked up in the working
// directory when no path is given.
const DefaultConfigFilename = "jenkins-stack.yaml"

// Load reads, defaults and validates the configuration at path.
//
// An empty path looks for jenkins-stack.yaml in the current directory and
// falls back to [Default] when it does not exist. An explicit path must exist.
func Load(path string) (*Config, error) {
	if path == "" {
		found, err := findDefaultFile()
		if err != nil {
			return nil, err
		}
		if found == "" {
			return LoadFromBytes(nil)
		}
		path = found
	}

	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes parses, defaults and validates a YAML configuration.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg, err := parseConfig(data)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// parseConfig decodes YAML into a Config and applies defaults.
// Unknown fields are rejected so typos do not silently fall back to defaults.
func parseConfig(data []byte) (*Config, error) {
	var cfg Config
	if len(data) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// findDefaultFile returns the default config path if it exists in the
// working directory, or "" if it does not.
func findDefaultFile() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	path := filepath.Join(cwd, DefaultConfigFilename)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return path, nil
}
