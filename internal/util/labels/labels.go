// Package labels provides the recommended Kubernetes labels stamped on every
// object the stack declares.
//
// These labels live on object metadata only. Pod template labels and service
// selectors are kept to the application label so they stay an exact match.
package labels

// Recommended label keys.
// https://kubernetes.io/docs/concepts/overview/working-with-objects/common-labels/
const (
	// KeyPartOf names the application the object belongs to
	KeyPartOf = "app.kubernetes.io/part-of"

	// KeyManagedBy identifies the tool that declared the object
	KeyManagedBy = "app.kubernetes.io/managed-by"
)

// ManagedByStack is the managed-by value for objects declared by this tool.
const ManagedByStack = "jenkins-stack"

// LabelBuilder provides a fluent interface for building object labels.
type LabelBuilder struct {
	labels map[string]string
}

// NewLabelBuilder creates a builder with part-of and managed-by pre-set.
func NewLabelBuilder(app string) *LabelBuilder {
	return &LabelBuilder{
		labels: map[string]string{
			KeyPartOf:    app,
			KeyManagedBy: ManagedByStack,
		},
	}
}

// Merge adds all labels from the provided map.
func (lb *LabelBuilder) Merge(extra map[string]string) *LabelBuilder {
	for k, v := range extra {
		lb.labels[k] = v
	}
	return lb
}

// Build returns a copy of the labels map.
func (lb *LabelBuilder) Build() map[string]string {
	result := make(map[string]string, len(lb.labels))
	for k, v := range lb.labels {
		result[k] = v
	}
	return result
}

