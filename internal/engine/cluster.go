package engine

import (
	"context"
	"time"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/jenkins-stack/internal/k8sclient"
)

// DefaultFieldManager identifies this tool in managed fields.
const DefaultFieldManager = "jenkins-stack"

// ClusterEngine registers objects with a live cluster through Server-Side
// Apply.
type ClusterEngine struct {
	client        k8sclient.Client
	fieldManager  string
	applyTimeout  time.Duration
	deleteTimeout time.Duration
}

// ClusterOption configures a ClusterEngine.
type ClusterOption func(*ClusterEngine)

// WithFieldManager overrides the Server-Side Apply field manager.
func WithFieldManager(name string) ClusterOption {
	return func(e *ClusterEngine) {
		if name != "" {
			e.fieldManager = name
		}
	}
}

// WithTimeouts bounds each apply and delete call. Zero leaves a call
// unbounded.
func WithTimeouts(apply, del time.Duration) ClusterOption {
	return func(e *ClusterEngine) {
		e.applyTimeout = apply
		e.deleteTimeout = del
	}
}

// NewClusterEngine returns a ClusterEngine backed by c.
func NewClusterEngine(c k8sclient.Client, opts ...ClusterOption) *ClusterEngine {
	e := &ClusterEngine{client: c, fieldManager: DefaultFieldManager}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Register applies obj and returns the identity reported by the API server.
func (e *ClusterEngine) Register(ctx context.Context, obj *unstructured.Unstructured) (Identity, error) {
	ctx, cancel := withOptionalTimeout(ctx, e.applyTimeout)
	defer cancel()

	applied, err := e.client.Apply(ctx, obj, e.fieldManager)
	if err != nil {
		return Identity{}, err
	}

	id := IdentityOf(applied)
	log.FromContext(ctx).Info("applied", "resource", id.String(), "uid", string(id.UID))
	return id, nil
}

// Delete removes obj from the cluster.
func (e *ClusterEngine) Delete(ctx context.Context, obj *unstructured.Unstructured) error {
	ctx, cancel := withOptionalTimeout(ctx, e.deleteTimeout)
	defer cancel()

	return e.client.Delete(ctx, obj)
}

func withOptionalTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
