package stack

import (
	"fmt"
	"strings"

	"github.com/goombaio/dag"
)

// Steps groups resources for registration. Every resource in a step depends
// only on resources in earlier steps.
type Steps [][]Resource

// String renders the steps as "0: [a b] 1: [c]".
func (s Steps) String() string {
	var b strings.Builder
	for i, step := range s {
		if i > 0 {
			b.WriteString(" ")
		}
		keys := make([]string, len(step))
		for j, r := range step {
			keys[j] = r.Key
		}
		fmt.Fprintf(&b, "%d: [%s]", i, strings.Join(keys, " "))
	}
	return b.String()
}

// Flatten returns the resources of all steps in order.
func (s Steps) Flatten() []Resource {
	var out []Resource
	for _, step := range s {
		out = append(out, step...)
	}
	return out
}

// Reverse returns a copy of the steps in reverse order, for teardown.
func (s Steps) Reverse() Steps {
	out := make(Steps, len(s))
	for i, step := range s {
		out[len(s)-1-i] = step
	}
	return out
}

// Order resolves the declared dependencies into registration steps.
// Within a step, resources keep their declaration order.
func Order(resources []Resource) (Steps, error) {
	g := dag.NewDAG()

	seen := make(map[string]bool, len(resources))
	for _, r := range resources {
		if seen[r.Key] {
			return nil, fmt.Errorf("duplicate resource %q", r.Key)
		}
		seen[r.Key] = true

		if err := g.AddVertex(dag.NewVertex(r.Key, r)); err != nil {
			return nil, fmt.Errorf("failed to add resource %q: %w", r.Key, err)
		}
	}

	for _, r := range resources {
		head, err := g.GetVertex(r.Key)
		if err != nil {
			return nil, err
		}
		for _, dep := range r.DependsOn {
			if !seen[dep] {
				return nil, fmt.Errorf("resource %q depends on undeclared resource %q", r.Key, dep)
			}
			tail, err := g.GetVertex(dep)
			if err != nil {
				return nil, err
			}
			if err := g.AddEdge(tail, head); err != nil {
				return nil, fmt.Errorf("failed to link %q -> %q: %w", dep, r.Key, err)
			}
		}
	}

	step := make(map[string]int, len(resources))
	var steps Steps

	for len(step) < len(resources) {
		current := len(steps)
		var ready []Resource

		for _, r := range resources {
			if _, placed := step[r.Key]; placed {
				continue
			}
			ok, err := predecessorsPlaced(g, r.Key, step, current)
			if err != nil {
				return nil, err
			}
			if ok {
				ready = append(ready, r)
			}
		}

		if len(ready) == 0 {
			return nil, fmt.Errorf("dependency cycle among %d unplaced resources", len(resources)-len(step))
		}
		for _, r := range ready {
			step[r.Key] = current
		}
		steps = append(steps, ready)
	}

	return steps, nil
}

// predecessorsPlaced reports whether every dependency of key was placed in a
// step before current.
func predecessorsPlaced(g *dag.DAG, key string, step map[string]int, current int) (bool, error) {
	v, err := g.GetVertex(key)
	if err != nil {
		return false, err
	}
	preds, err := g.Predecessors(v)
	if err != nil {
		return false, err
	}
	for _, p := range preds {
		s, placed := step[p.ID]
		if !placed || s >= current {
			return false, nil
		}
	}
	return true, nil
}
