package engine

import (
	"context"
	"fmt"
	"sync"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/types"
)

// Recorder is an in-memory Registrar and Deleter. It assigns each
// registered object a synthetic UID and remembers every call.
type Recorder struct {
	mu         sync.Mutex
	registered []*unstructured.Unstructured
	deleted    []Identity
	failures   map[string]error
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{failures: map[string]error{}}
}

// FailOn makes calls for the object of the given kind and name return err.
func (r *Recorder) FailOn(kind, name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[kind+"/"+name] = err
}

func (r *Recorder) failure(obj *unstructured.Unstructured) error {
	return r.failures[obj.GetKind()+"/"+obj.GetName()]
}

// Register records obj.
func (r *Recorder) Register(_ context.Context, obj *unstructured.Unstructured) (Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.failure(obj); err != nil {
		return Identity{}, err
	}

	stored := obj.DeepCopy()
	stored.SetUID(types.UID(fmt.Sprintf("recorded-%d", len(r.registered)+1)))
	r.registered = append(r.registered, stored)
	return IdentityOf(stored), nil
}

// Delete records the deletion of obj.
func (r *Recorder) Delete(_ context.Context, obj *unstructured.Unstructured) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.failure(obj); err != nil {
		return err
	}
	r.deleted = append(r.deleted, IdentityOf(obj))
	return nil
}

// Registered returns the identities registered so far, in order.
func (r *Recorder) Registered() []Identity {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]Identity, len(r.registered))
	for i, obj := range r.registered {
		ids[i] = IdentityOf(obj)
	}
	return ids
}

// Objects returns copies of the registered objects, in order.
func (r *Recorder) Objects() []*unstructured.Unstructured {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*unstructured.Unstructured, len(r.registered))
	for i, obj := range r.registered {
		out[i] = obj.DeepCopy()
	}
	return out
}

// Deleted returns the identities deleted so far, in order.
func (r *Recorder) Deleted() []Identity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Identity(nil), r.deleted...)
}
