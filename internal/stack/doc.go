// Package stack declares the Jenkins resource graph.
//
// [Build] is a pure function from configuration to nine typed Kubernetes
// objects: the namespace, the RBAC identity, the local storage chain and the
// workload with its service. Objects reference each other by literal name or
// label only; nothing is looked up at build time. [Order] turns the declared
// dependencies into registration steps, and [Outputs] carries the names an
// engine assigned back to callers.
package stack
