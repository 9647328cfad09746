// Package k8sclient wraps k8s.io/client-go for the operations the cluster
// engine needs: Server-Side Apply of unstructured objects, foreground
// deletion and waiting for a Deployment rollout.
package k8sclient
