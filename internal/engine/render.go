package engine

import (
	"context"
	"fmt"
	"io"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"sigs.k8s.io/yaml"
)

// RenderEngine writes every registered object to a multi-document YAML
// stream instead of a cluster.
type RenderEngine struct {
	w     io.Writer
	count int
}

// NewRenderEngine returns a RenderEngine writing to w.
func NewRenderEngine(w io.Writer) *RenderEngine {
	return &RenderEngine{w: w}
}

// Register writes obj as one YAML document and returns its own identity.
func (r *RenderEngine) Register(_ context.Context, obj *unstructured.Unstructured) (Identity, error) {
	data, err := yaml.Marshal(obj.Object)
	if err != nil {
		return Identity{}, fmt.Errorf("failed to render %s: %w", obj.GetName(), err)
	}

	if _, err := fmt.Fprintf(r.w, "---\n%s", data); err != nil {
		return Identity{}, fmt.Errorf("failed to write manifest: %w", err)
	}
	r.count++
	return IdentityOf(obj), nil
}

// Count returns the number of documents written.
func (r *RenderEngine) Count() int {
	return r.count
}
