package k8sclient

import (
	"context"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/restmapper"
	"k8s.io/client-go/tools/clientcmd"
)

// Client provides the Kubernetes operations used to register and tear down
// the stack.
type Client interface {
	// Apply registers obj using Server-Side Apply and returns the object as
	// stored by the API server.
	Apply(ctx context.Context, obj *unstructured.Unstructured, fieldManager string) (*unstructured.Unstructured, error)

	// ApplyManifests applies multi-document YAML using Server-Side Apply.
	ApplyManifests(ctx context.Context, manifests []byte, fieldManager string) error

	// Delete removes obj with foreground propagation. A missing object is
	// not an error.
	Delete(ctx context.Context, obj *unstructured.Unstructured) error

	// WaitForDeploymentAvailable blocks until the deployment has rolled out
	// all of its replicas or the timeout expires.
	WaitForDeploymentAvailable(ctx context.Context, namespace, name string, timeout time.Duration) error
}

type client struct {
	clientset     kubernetes.Interface
	dynamicClient dynamic.Interface
	mapper        meta.RESTMapper

	retryAttempts     int
	retryInitialDelay time.Duration
	pollInterval      time.Duration
}

// Option configures a Client.
type Option func(*client)

// WithRetry sets how often transient API errors are retried.
func WithRetry(attempts int, initialDelay time.Duration) Option {
	return func(c *client) {
		c.retryAttempts = attempts
		c.retryInitialDelay = initialDelay
	}
}

// WithPollInterval sets the interval between rollout checks.
func WithPollInterval(d time.Duration) Option {
	return func(c *client) {
		c.pollInterval = d
	}
}

func newClient(clientset kubernetes.Interface, dynamicClient dynamic.Interface, mapper meta.RESTMapper, opts []Option) *client {
	c := &client{
		clientset:         clientset,
		dynamicClient:     dynamicClient,
		mapper:            mapper,
		retryAttempts:     5,
		retryInitialDelay: time.Second,
		pollInterval:      2 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromKubeconfig creates a Client from kubeconfig bytes.
func NewFromKubeconfig(kubeconfig []byte, opts ...Option) (Client, error) {
	restConfig, err := clientcmd.RESTConfigFromKubeConfig(kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create REST config from kubeconfig: %w", err)
	}
	return NewFromRESTConfig(restConfig, opts...)
}

// NewFromRESTConfig creates a Client from a REST config. API discovery runs
// once, here.
func NewFromRESTConfig(restConfig *rest.Config, opts ...Option) (Client, error) {
	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes clientset: %w", err)
	}

	dynamicClient, err := dynamic.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}

	discoveryClient, err := discovery.NewDiscoveryClientForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create discovery client: %w", err)
	}

	groupResources, err := restmapper.GetAPIGroupResources(discoveryClient)
	if err != nil {
		return nil, fmt.Errorf("failed to get API group resources: %w", err)
	}

	return newClient(clientset, dynamicClient, restmapper.NewDiscoveryRESTMapper(groupResources), opts), nil
}

// NewFromClients creates a Client from pre-configured clients, typically
// fakes.
func NewFromClients(
	clientset kubernetes.Interface,
	dynamicClient dynamic.Interface,
	mapper meta.RESTMapper,
	opts ...Option,
) Client {
	return newClient(clientset, dynamicClient, mapper, opts)
}

// resourceFor maps obj to its dynamic resource interface, scoped to the
// object's namespace when the kind is namespaced.
func (c *client) resourceFor(obj *unstructured.Unstructured) (dynamic.ResourceInterface, error) {
	gvk := obj.GroupVersionKind()
	if gvk.Kind == "" {
		return nil, fmt.Errorf("object %q has no kind set", obj.GetName())
	}

	mapping, err := c.mapper.RESTMapping(gvk.GroupKind(), gvk.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to get REST mapping for %v: %w", gvk, err)
	}

	if mapping.Scope.Name() != meta.RESTScopeNameNamespace {
		return c.dynamicClient.Resource(mapping.Resource), nil
	}

	namespace := obj.GetNamespace()
	if namespace == "" {
		namespace = "default"
	}
	return c.dynamicClient.Resource(mapping.Resource).Namespace(namespace), nil
}
