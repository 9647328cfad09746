package k8sclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/apimachinery/pkg/util/yaml"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/jenkins-stack/internal/util/retry"
)

// ApplyManifests applies multi-document YAML using Server-Side Apply.
// Empty documents are skipped.
func (c *client) ApplyManifests(ctx context.Context, manifests []byte, fieldManager string) error {
	decoder := yaml.NewYAMLOrJSONDecoder(bytes.NewReader(manifests), 4096)

	for docIndex := 0; ; docIndex++ {
		var obj unstructured.Unstructured
		if err := decoder.Decode(&obj); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to decode manifest document %d: %w", docIndex, err)
		}

		if len(obj.Object) == 0 {
			continue
		}

		if _, err := c.Apply(ctx, &obj, fieldManager); err != nil {
			return err
		}
	}
}

// Apply registers obj with a forced Server-Side Apply patch, retrying
// transient API errors.
func (c *client) Apply(ctx context.Context, obj *unstructured.Unstructured, fieldManager string) (*unstructured.Unstructured, error) {
	ri, err := c.resourceFor(obj)
	if err != nil {
		return nil, err
	}

	data, err := obj.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s %q: %w", obj.GetKind(), obj.GetName(), err)
	}

	opts := metav1.PatchOptions{
		FieldManager: fieldManager,
		Force:        ptr.To(true),
	}

	logger := log.FromContext(ctx).WithValues("kind", obj.GetKind(), "name", obj.GetName())

	var applied *unstructured.Unstructured
	err = retry.Do(ctx, func(ctx context.Context) error {
		res, patchErr := ri.Patch(ctx, obj.GetName(), types.ApplyPatchType, data, opts)
		if patchErr != nil {
			return patchErr
		}
		applied = res
		return nil
	},
		retry.WithMaxAttempts(c.retryAttempts),
		retry.WithInitialDelay(c.retryInitialDelay),
		retry.WithRetryIf(IsTransient),
		retry.WithOnRetry(func(attempt int, err error, next time.Duration) {
			logger.V(1).Info("apply failed, retrying", "attempt", attempt, "backoff", next.String(), "error", err.Error())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to apply %s %s: %w", obj.GetKind(), objectRef(obj), err)
	}

	return applied, nil
}

// IsTransient reports whether err is an API error worth retrying.
func IsTransient(err error) bool {
	return apierrors.IsServerTimeout(err) ||
		apierrors.IsTimeout(err) ||
		apierrors.IsTooManyRequests(err) ||
		apierrors.IsInternalError(err) ||
		apierrors.IsServiceUnavailable(err)
}

func objectRef(obj *unstructured.Unstructured) string {
	if ns := obj.GetNamespace(); ns != "" {
		return ns + "/" + obj.GetName()
	}
	return obj.GetName()
}
