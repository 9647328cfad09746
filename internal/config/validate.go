package config

import (
	"errors"
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/api/resource"
	"k8s.io/apimachinery/pkg/util/validation"
	"k8s.io/utils/ptr"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Node ports outside this range are rejected by a default API server.
const (
	minNodePort = 30000
	maxNodePort = 32767
)

// Validate checks the configuration input. It does not check the generated
// objects; the API server owns that.
func (c *Config) Validate() error {
	var problems []string

	problems = append(problems, validateLabel("namespace", c.Namespace)...)
	problems = append(problems, validateSubdomain("serviceAccount", c.ServiceAccount)...)

	problems = append(problems, c.validateApp()...)
	problems = append(problems, c.validateStorage()...)
	problems = append(problems, c.validateService()...)

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) validateApp() []string {
	var problems []string

	problems = append(problems, validateSubdomain("app.name", c.App.Name)...)
	if c.App.Image == "" {
		problems = append(problems, "app.image is required")
	}
	if replicas := ptr.Deref(c.App.Replicas, DefaultReplicas); replicas < 0 {
		problems = append(problems, fmt.Sprintf("app.replicas must not be negative, got %d", replicas))
	}
	for _, msg := range validation.IsValidLabelValue(c.App.Label) {
		problems = append(problems, "app.label: "+msg)
	}
	problems = append(problems, validatePort("app.httpPort", c.App.HTTPPort)...)
	problems = append(problems, validatePort("app.agentPort", c.App.AgentPort)...)
	if c.App.HTTPPort == c.App.AgentPort {
		problems = append(problems, "app.httpPort and app.agentPort must differ")
	}
	if !strings.HasPrefix(c.App.HomePath, "/") {
		problems = append(problems, fmt.Sprintf("app.homePath must be absolute, got %q", c.App.HomePath))
	}

	return problems
}

func (c *Config) validateStorage() []string {
	var problems []string

	problems = append(problems, validateSubdomain("storage.className", c.Storage.ClassName)...)
	problems = append(problems, validateSubdomain("storage.volumeName", c.Storage.VolumeName)...)
	problems = append(problems, validateSubdomain("storage.claimName", c.Storage.ClaimName)...)

	capacity, err := resource.ParseQuantity(c.Storage.Capacity)
	if err != nil {
		problems = append(problems, fmt.Sprintf("storage.capacity %q is not a quantity", c.Storage.Capacity))
	}
	request, err2 := resource.ParseQuantity(c.Storage.Request)
	if err2 != nil {
		problems = append(problems, fmt.Sprintf("storage.request %q is not a quantity", c.Storage.Request))
	}
	if err == nil && err2 == nil && request.Cmp(capacity) > 0 {
		problems = append(problems, fmt.Sprintf("storage.request %s exceeds storage.capacity %s", c.Storage.Request, c.Storage.Capacity))
	}

	if !strings.HasPrefix(c.Storage.LocalPath, "/") {
		problems = append(problems, fmt.Sprintf("storage.localPath must be absolute, got %q", c.Storage.LocalPath))
	}
	for _, msg := range validation.IsValidLabelValue(c.Storage.NodeHostname) {
		problems = append(problems, "storage.nodeHostname: "+msg)
	}

	return problems
}

func (c *Config) validateService() []string {
	problems := validateLabel("service.name", c.Service.Name)

	if c.Service.NodePort < minNodePort || c.Service.NodePort > maxNodePort {
		problems = append(problems, fmt.Sprintf("service.nodePort must be in %d-%d, got %d",
			minNodePort, maxNodePort, c.Service.NodePort))
	}

	return problems
}

// validateLabel checks a DNS-1123 label (namespaces, services).
func validateLabel(field, value string) []string {
	var problems []string
	for _, msg := range validation.IsDNS1123Label(value) {
		problems = append(problems, fmt.Sprintf("%s %q: %s", field, value, msg))
	}
	return problems
}

// validateSubdomain checks a DNS-1123 subdomain (most other object names).
func validateSubdomain(field, value string) []string {
	var problems []string
	for _, msg := range validation.IsDNS1123Subdomain(value) {
		problems = append(problems, fmt.Sprintf("%s %q: %s", field, value, msg))
	}
	return problems
}

func validatePort(field string, port int32) []string {
	if msgs := validation.IsValidPortNum(int(port)); len(msgs) > 0 {
		return []string{fmt.Sprintf("%s: %s", field, strings.Join(msgs, ", "))}
	}
	return nil
}
