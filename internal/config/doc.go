// Package config defines the configuration of the Jenkins stack.
//
// [Default] reproduces the literal stack: namespace devops-tools, the
// jenkins-admin RBAC identity, local-storage volumes pinned to the minikube
// node and a NodePort service on 32000. A jenkins-stack.yaml file may
// override individual fields; anything left unset falls back to the default.
// Process settings (kubeconfig, field manager, timeouts, S3 publication) are
// read from the environment by [LoadEnv].
package config
