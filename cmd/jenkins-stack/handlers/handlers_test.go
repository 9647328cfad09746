package handlers

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/types"

	"github.com/imamik/jenkins-stack/internal/config"
	"github.com/imamik/jenkins-stack/internal/k8sclient"
	"github.com/imamik/jenkins-stack/internal/publish"
	"github.com/imamik/jenkins-stack/internal/stack"
	"github.com/imamik/jenkins-stack/internal/ui/tui"
)

// mockClient records calls made through k8sclient.Client.
type mockClient struct {
	mu sync.Mutex

	applied   []string
	deleted   []string
	manifests []byte
	waitedFor string
	waitedMax time.Duration

	applyErr error
	waitErr  error
}

func (m *mockClient) Apply(_ context.Context, obj *unstructured.Unstructured, _ string) (*unstructured.Unstructured, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.applyErr != nil {
		return nil, m.applyErr
	}
	m.applied = append(m.applied, obj.GetKind())
	out := obj.DeepCopy()
	out.SetUID(types.UID("uid-" + obj.GetName()))
	return out, nil
}

func (m *mockClient) ApplyManifests(_ context.Context, data []byte, _ string) error {
	m.manifests = data
	return nil
}

func (m *mockClient) Delete(_ context.Context, obj *unstructured.Unstructured) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, obj.GetKind())
	return nil
}

func (m *mockClient) WaitForDeploymentAvailable(_ context.Context, namespace, name string, timeout time.Duration) error {
	m.waitedFor = namespace + "/" + name
	m.waitedMax = timeout
	return m.waitErr
}

type mockPublisher struct {
	bucket, key string
	outputs     stack.Outputs
}

func (p *mockPublisher) Publish(_ context.Context, bucket, key string, outputs stack.Outputs) error {
	p.bucket, p.key, p.outputs = bucket, key, outputs
	return nil
}

// testEnv swaps the factory variables for the duration of a test and
// returns the client and captured stdout.
type testEnv struct {
	client     *mockClient
	publisher  *mockPublisher
	out        *bytes.Buffer
	vars       map[string]string
	kubeconfig string
}

func setupHandlers(t *testing.T) *testEnv {
	t.Helper()

	origLoadEnv, origLoadConfig, origNewClient := loadEnv, loadConfig, newClient
	origNewPublisher, origStdoutTTY, origStdinTTY := newPublisher, stdoutIsTTY, stdinIsTTY
	origConfirm, origRunTUI, origStdout := confirm, runTUI, stdout
	origCreateFile := createFile
	t.Cleanup(func() {
		loadEnv, loadConfig, newClient = origLoadEnv, origLoadConfig, origNewClient
		newPublisher, stdoutIsTTY, stdinIsTTY = origNewPublisher, origStdoutTTY, origStdinTTY
		confirm, runTUI, stdout = origConfirm, origRunTUI, origStdout
		createFile = origCreateFile
	})

	te := &testEnv{
		client:    &mockClient{},
		publisher: &mockPublisher{},
		out:       &bytes.Buffer{},
		vars:      map[string]string{"KUBECONFIG": "/tmp/kubeconfig"},
	}

	loadEnv = func() (*config.Env, error) { return config.ParseEnv(te.vars) }
	loadConfig = func(string) (*config.Config, error) { return config.Default(), nil }
	newClient = func(path string, _ config.Timeouts) (k8sclient.Client, error) {
		te.kubeconfig = path
		return te.client, nil
	}
	newPublisher = func(context.Context, publish.S3Config) (OutputPublisher, error) {
		return te.publisher, nil
	}
	stdoutIsTTY = func() bool { return false }
	stdinIsTTY = func() bool { return false }
	confirm = func(context.Context, string, string) (bool, error) {
		return false, errors.New("unexpected prompt")
	}
	runTUI = func(ctx context.Context, _ tui.Model, pass tui.PassFunc) (stack.Outputs, error) {
		return pass(ctx, nil)
	}
	stdout = te.out

	return te
}
