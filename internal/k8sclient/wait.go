package k8sclient

import (
	"context"
	"fmt"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/wait"
	"sigs.k8s.io/controller-runtime/pkg/log"
)

// WaitForDeploymentAvailable polls until the deployment reports every
// desired replica updated and available for its current generation.
func (c *client) WaitForDeploymentAvailable(ctx context.Context, namespace, name string, timeout time.Duration) error {
	logger := log.FromContext(ctx).WithValues("deployment", namespace+"/"+name)

	err := wait.PollUntilContextTimeout(ctx, c.pollInterval, timeout, true, func(ctx context.Context) (bool, error) {
		d, err := c.clientset.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			return false, nil
		}

		done := deploymentAvailable(d)
		logger.V(1).Info("rollout status",
			"available", d.Status.AvailableReplicas,
			"updated", d.Status.UpdatedReplicas,
			"done", done)
		return done, nil
	})
	if err != nil {
		return fmt.Errorf("deployment %s/%s not available after %s: %w", namespace, name, timeout, err)
	}
	return nil
}

func deploymentAvailable(d *appsv1.Deployment) bool {
	if d.Status.ObservedGeneration < d.Generation {
		return false
	}

	want := int32(1)
	if d.Spec.Replicas != nil {
		want = *d.Spec.Replicas
	}
	return d.Status.UpdatedReplicas >= want && d.Status.AvailableReplicas >= want
}
