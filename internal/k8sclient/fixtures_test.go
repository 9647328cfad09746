package k8sclient

import (
	"sync"
	"testing"
	"time"

	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	"k8s.io/client-go/kubernetes/fake"
	"k8s.io/client-go/restmapper"
	k8stesting "k8s.io/client-go/testing"
)

// recordedCall is one patch or delete seen by the fake dynamic client.
type recordedCall struct {
	Verb      string
	Resource  string
	Namespace string
	Name      string
	PatchType types.PatchType
	Patch     []byte
	Policy    *metav1.DeletionPropagation
}

type fakeCluster struct {
	dynamic *dynamicfake.FakeDynamicClient

	mu    sync.Mutex
	calls []recordedCall
}

func (f *fakeCluster) record(c recordedCall) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

func (f *fakeCluster) Calls() []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedCall(nil), f.calls...)
}

// newFakeCluster returns a client whose patches echo the applied object
// back with a UID, and whose deletes always succeed.
func newFakeCluster(t *testing.T, opts ...Option) (Client, *fakeCluster) {
	t.Helper()

	dyn := dynamicfake.NewSimpleDynamicClient(runtime.NewScheme())
	fc := &fakeCluster{dynamic: dyn}

	dyn.PrependReactor("patch", "*", func(action k8stesting.Action) (bool, runtime.Object, error) {
		pa := action.(k8stesting.PatchAction)
		fc.record(recordedCall{
			Verb:      "patch",
			Resource:  pa.GetResource().Resource,
			Namespace: pa.GetNamespace(),
			Name:      pa.GetName(),
			PatchType: pa.GetPatchType(),
			Patch:     pa.GetPatch(),
		})

		obj := &unstructured.Unstructured{}
		if err := obj.UnmarshalJSON(pa.GetPatch()); err != nil {
			return true, nil, err
		}
		obj.SetUID(types.UID("uid-" + pa.GetName()))
		return true, obj, nil
	})

	dyn.PrependReactor("delete", "*", func(action k8stesting.Action) (bool, runtime.Object, error) {
		da := action.(k8stesting.DeleteAction)
		opts := da.GetDeleteOptions()
		fc.record(recordedCall{
			Verb:      "delete",
			Resource:  da.GetResource().Resource,
			Namespace: da.GetNamespace(),
			Name:      da.GetName(),
			Policy:    opts.PropagationPolicy,
		})
		return true, nil, nil
	})

	opts = append([]Option{WithRetry(3, time.Millisecond), WithPollInterval(10 * time.Millisecond)}, opts...)
	//nolint:staticcheck // SA1019: NewSimpleClientset is sufficient for our testing needs
	return NewFromClients(fake.NewSimpleClientset(), dyn, testMapper(), opts...), fc
}

// testMapper knows every kind the stack declares.
func testMapper() meta.RESTMapper {
	group := func(name, version string, resources ...metav1.APIResource) *restmapper.APIGroupResources {
		gv := version
		if name != "" {
			gv = name + "/" + version
		}
		return &restmapper.APIGroupResources{
			Group: metav1.APIGroup{
				Name:             name,
				Versions:         []metav1.GroupVersionForDiscovery{{GroupVersion: gv, Version: version}},
				PreferredVersion: metav1.GroupVersionForDiscovery{GroupVersion: gv, Version: version},
			},
			VersionedResources: map[string][]metav1.APIResource{version: resources},
		}
	}

	return restmapper.NewDiscoveryRESTMapper([]*restmapper.APIGroupResources{
		group("", "v1",
			metav1.APIResource{Name: "namespaces", Namespaced: false, Kind: "Namespace"},
			metav1.APIResource{Name: "serviceaccounts", Namespaced: true, Kind: "ServiceAccount"},
			metav1.APIResource{Name: "persistentvolumes", Namespaced: false, Kind: "PersistentVolume"},
			metav1.APIResource{Name: "persistentvolumeclaims", Namespaced: true, Kind: "PersistentVolumeClaim"},
			metav1.APIResource{Name: "services", Namespaced: true, Kind: "Service"},
			metav1.APIResource{Name: "configmaps", Namespaced: true, Kind: "ConfigMap"},
		),
		group("rbac.authorization.k8s.io", "v1",
			metav1.APIResource{Name: "clusterroles", Namespaced: false, Kind: "ClusterRole"},
			metav1.APIResource{Name: "clusterrolebindings", Namespaced: false, Kind: "ClusterRoleBinding"},
		),
		group("storage.k8s.io", "v1",
			metav1.APIResource{Name: "storageclasses", Namespaced: false, Kind: "StorageClass"},
		),
		group("apps", "v1",
			metav1.APIResource{Name: "deployments", Namespaced: true, Kind: "Deployment"},
		),
	})
}

func newObject(apiVersion, kind, namespace, name string) *unstructured.Unstructured {
	obj := &unstructured.Unstructured{}
	obj.SetAPIVersion(apiVersion)
	obj.SetKind(kind)
	obj.SetName(name)
	if namespace != "" {
		obj.SetNamespace(namespace)
	}
	return obj
}
