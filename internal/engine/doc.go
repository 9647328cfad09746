// Package engine registers the declared stack with a [Registrar] in
// dependency order and tears it down again with a [Deleter].
//
// Three implementations are provided: [ClusterEngine] applies to a live
// cluster, [RenderEngine] writes manifests for a dry run, and [Recorder]
// keeps everything in memory.
package engine
