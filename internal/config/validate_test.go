package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"
)

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{
			name:    "uppercase namespace",
			mutate:  func(c *Config) { c.Namespace = "DevOps" },
			wantErr: "namespace",
		},
		{
			name:    "empty image",
			mutate:  func(c *Config) { c.App.Image = "" },
			wantErr: "app.image is required",
		},
		{
			name:    "negative replicas",
			mutate:  func(c *Config) { c.App.Replicas = ptr.To(int32(-1)) },
			wantErr: "app.replicas",
		},
		{
			name:    "same ports",
			mutate:  func(c *Config) { c.App.AgentPort = c.App.HTTPPort },
			wantErr: "must differ",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.App.HTTPPort = 70000 },
			wantErr: "app.httpPort",
		},
		{
			name:    "relative home",
			mutate:  func(c *Config) { c.App.HomePath = "jenkins_home" },
			wantErr: "app.homePath",
		},
		{
			name:    "bad capacity",
			mutate:  func(c *Config) { c.Storage.Capacity = "ten gigs" },
			wantErr: "storage.capacity",
		},
		{
			name:    "request exceeds capacity",
			mutate:  func(c *Config) { c.Storage.Request = "20Gi" },
			wantErr: "exceeds storage.capacity",
		},
		{
			name:    "relative local path",
			mutate:  func(c *Config) { c.Storage.LocalPath = "mnt" },
			wantErr: "storage.localPath",
		},
		{
			name:    "node port below range",
			mutate:  func(c *Config) { c.Service.NodePort = 8080 },
			wantErr: "service.nodePort",
		},
		{
			name:    "invalid label value",
			mutate:  func(c *Config) { c.App.Label = "jenkins server" },
			wantErr: "app.label",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	t.Parallel()
	cfg := Default()
	cfg.App.Image = ""
	cfg.Service.NodePort = 1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "app.image")
	assert.Contains(t, err.Error(), "service.nodePort")
}
