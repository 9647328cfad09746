package engine

import (
	"context"
	"sync"

	"github.com/go-logr/logr/funcr"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"sigs.k8s.io/controller-runtime/pkg/log"
)

// renamingRegistrar assigns names that differ from the declared ones.
type renamingRegistrar struct{}

func (renamingRegistrar) Register(_ context.Context, obj *unstructured.Unstructured) (Identity, error) {
	id := IdentityOf(obj)
	id.Name = "assigned-" + id.Name
	return id, nil
}

// logSink collects the info-level lines written through a context logger.
type logSink struct {
	mu    sync.Mutex
	lines []string
}

func (l *logSink) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

// withLogSink returns ctx carrying a logger at verbosity 0 that writes to
// the returned sink.
func withLogSink(ctx context.Context) (context.Context, *logSink) {
	sink := &logSink{}
	logger := funcr.New(func(prefix, args string) {
		sink.mu.Lock()
		defer sink.mu.Unlock()
		sink.lines = append(sink.lines, args)
	}, funcr.Options{})
	return log.IntoContext(ctx, logger), sink
}
