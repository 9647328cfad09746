package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Env holds process settings read from the environment.
type Env struct {
	// Kubeconfig is the path of the kubeconfig used by the cluster engine.
	// Defaults to ~/.kube/config.
	Kubeconfig string `env:"KUBECONFIG"`

	// ConfigPath is used when no --config flag is given.
	ConfigPath string `env:"JENKINS_STACK_CONFIG"`

	// FieldManager identifies this tool in Server-Side Apply managed fields.
	FieldManager string `env:"JENKINS_STACK_FIELD_MANAGER" envDefault:"jenkins-stack"`

	Debug bool `env:"DEBUG"`

	// MetricsFile, when set, receives registration metrics in the
	// Prometheus text format after every run.
	MetricsFile string `env:"JENKINS_STACK_METRICS_FILE"`

	Timeouts Timeouts `envPrefix:"JENKINS_STACK_"`
	S3       S3Env    `envPrefix:"JENKINS_STACK_S3_"`

	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
}

// Timeouts bounds the blocking operations against the cluster.
type Timeouts struct {
	Apply             time.Duration `env:"TIMEOUT_APPLY" envDefault:"2m"`
	Rollout           time.Duration `env:"TIMEOUT_ROLLOUT" envDefault:"10m"`
	Delete            time.Duration `env:"TIMEOUT_DELETE" envDefault:"2m"`
	RetryMaxAttempts  int           `env:"RETRY_MAX_ATTEMPTS" envDefault:"5"`
	RetryInitialDelay time.Duration `env:"RETRY_INITIAL_DELAY" envDefault:"1s"`
}

// S3Env configures publication of the stack outputs to an S3-compatible bucket.
type S3Env struct {
	Endpoint string `env:"ENDPOINT"`
	Region   string `env:"REGION" envDefault:"us-east-1"`
	Bucket   string `env:"BUCKET"`
	Key      string `env:"KEY" envDefault:"jenkins-stack/outputs.json"`
}

// Enabled reports whether a bucket is configured.
func (s S3Env) Enabled() bool {
	return s.Bucket != ""
}

// LoadEnv reads Env from the process environment.
func LoadEnv() (*Env, error) {
	return parseEnv(env.Options{})
}

// ParseEnv reads Env from the given variables instead of the process
// environment.
func ParseEnv(vars map[string]string) (*Env, error) {
	return parseEnv(env.Options{Environment: vars})
}

func parseEnv(opts env.Options) (*Env, error) {
	var e Env
	if err := env.ParseWithOptions(&e, opts); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if e.Kubeconfig == "" {
		e.Kubeconfig = defaultKubeconfig()
	}
	return &e, nil
}

func defaultKubeconfig() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".kube", "config")
}
