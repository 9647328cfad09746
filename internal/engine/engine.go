package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/jenkins-stack/internal/metrics"
	"github.com/imamik/jenkins-stack/internal/stack"
)

// ErrAborted is returned when the user declines a destructive operation.
var ErrAborted = errors.New("aborted by user")

// Identity is what a registrar assigns to a registered object.
type Identity struct {
	Kind      string
	Namespace string
	Name      string
	UID       types.UID
}

func (id Identity) String() string {
	if id.Namespace != "" {
		return fmt.Sprintf("%s %s/%s", id.Kind, id.Namespace, id.Name)
	}
	return fmt.Sprintf("%s %s", id.Kind, id.Name)
}

// Registrar registers a single object and returns its assigned identity.
type Registrar interface {
	Register(ctx context.Context, obj *unstructured.Unstructured) (Identity, error)
}

// Deleter removes a single object.
type Deleter interface {
	Delete(ctx context.Context, obj *unstructured.Unstructured) error
}

// Options configures a pass over the stack.
type Options struct {
	// Observer, if set, receives progress events synchronously.
	Observer Observer

	// Metrics, if set, records registration metrics.
	Metrics *metrics.Recorder
}

func (o Options) emit(e Event) {
	if o.Observer != nil {
		o.Observer(e)
	}
}

// Up registers every resource of s in dependency order and returns the
// assigned names as outputs. The first failure aborts the pass; no outputs
// are returned in that case.
func Up(ctx context.Context, reg Registrar, s *stack.Stack, opts Options) (outputs stack.Outputs, err error) {
	logger := log.FromContext(ctx)
	start := time.Now()
	defer func() {
		opts.Metrics.RecordRun("up", err, time.Since(start))
	}()

	steps, err := stack.Order(s.Resources())
	if err != nil {
		return nil, fmt.Errorf("failed to order resources: %w", err)
	}

	total := len(steps.Flatten())
	out := make(stack.Outputs, total)
	index := 0

	for stepNum, step := range steps {
		logger.V(1).Info("registering step", "step", stepNum, "resources", len(step))

		for _, res := range step {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			obj, err := ToUnstructured(res.Object)
			if err != nil {
				return nil, fmt.Errorf("failed to convert %s: %w", res.Key, err)
			}

			index++
			ev := Event{Type: EventRegistering, Key: res.Key, Kind: obj.GetKind(), Name: obj.GetName(), Step: stepNum, Index: index, Total: total}
			opts.emit(ev)

			began := time.Now()
			id, err := reg.Register(ctx, obj)
			ev.Duration = time.Since(began)
			opts.Metrics.RecordRegistration(obj.GetKind(), err, ev.Duration)

			if err != nil {
				ev.Type, ev.Err = EventFailed, err
				opts.emit(ev)
				return nil, fmt.Errorf("failed to register %s %q: %w", res.Key, obj.GetName(), err)
			}

			ev.Type, ev.Name = EventRegistered, id.Name
			opts.emit(ev)
			logger.V(1).Info("registered", "resource", id.String())

			out.Set(res.Key, id.Name)
		}
	}

	if err := out.Complete(); err != nil {
		return nil, fmt.Errorf("incomplete outputs: %w", err)
	}
	opts.Metrics.SetResourcesRegistered(len(out))
	return out, nil
}

// Down deletes every resource of s in reverse dependency order. Objects
// that no longer exist count as deleted.
func Down(ctx context.Context, del Deleter, s *stack.Stack, opts Options) (err error) {
	logger := log.FromContext(ctx)
	start := time.Now()
	defer func() {
		opts.Metrics.RecordRun("down", err, time.Since(start))
	}()

	steps, err := stack.Order(s.Resources())
	if err != nil {
		return fmt.Errorf("failed to order resources: %w", err)
	}

	total := len(steps.Flatten())
	index := 0

	for stepNum, step := range steps.Reverse() {
		for _, res := range step {
			if err := ctx.Err(); err != nil {
				return err
			}

			obj, err := ToUnstructured(res.Object)
			if err != nil {
				return fmt.Errorf("failed to convert %s: %w", res.Key, err)
			}

			index++
			ev := Event{Type: EventDeleting, Key: res.Key, Kind: obj.GetKind(), Name: obj.GetName(), Step: stepNum, Index: index, Total: total}
			opts.emit(ev)

			began := time.Now()
			err = del.Delete(ctx, obj)
			if apierrors.IsNotFound(err) {
				logger.V(1).Info("already gone", "resource", IdentityOf(obj).String())
				err = nil
			}
			ev.Duration = time.Since(began)
			opts.Metrics.RecordDeletion(obj.GetKind(), err)

			if err != nil {
				ev.Type, ev.Err = EventFailed, err
				opts.emit(ev)
				return fmt.Errorf("failed to delete %s %q: %w", res.Key, obj.GetName(), err)
			}

			ev.Type = EventDeleted
			opts.emit(ev)
			logger.Info("deleted", "resource", IdentityOf(obj).String())
		}
	}
	return nil
}
