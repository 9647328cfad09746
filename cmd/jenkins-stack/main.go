// Package main is the entry point for the jenkins-stack CLI.
//
// jenkins-stack declares a single-replica Jenkins server on Kubernetes
// (namespace, RBAC, local persistent storage, deployment and NodePort
// service) and registers it with a cluster in dependency order.
//
// Commands: preview, up, destroy, outputs.
//
// For detailed usage information, run:
//
//	jenkins-stack --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/jenkins-stack/cmd/jenkins-stack/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
