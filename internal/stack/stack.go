package stack

import (
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	storagev1 "k8s.io/api/storage/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/imamik/jenkins-stack/internal/config"
	"github.com/imamik/jenkins-stack/internal/util/labels"
)

// Output keys, one per declared resource.
const (
	KeyNamespace             = "namespace"
	KeyServiceAccount        = "service_account"
	KeyClusterRole           = "cluster_role"
	KeyClusterRoleBinding    = "cluster_role_binding"
	KeyStorageClass          = "storage_class"
	KeyPersistentVolume      = "persistent_volume"
	KeyPersistentVolumeClaim = "persistent_volume_claim"
	KeyDeployment            = "deployment"
	KeyService               = "service"
)

// Stack is the complete desired state. Fields are not modified after Build.
type Stack struct {
	Namespace             *corev1.Namespace
	ClusterRole           *rbacv1.ClusterRole
	ServiceAccount        *corev1.ServiceAccount
	ClusterRoleBinding    *rbacv1.ClusterRoleBinding
	StorageClass          *storagev1.StorageClass
	PersistentVolume      *corev1.PersistentVolume
	PersistentVolumeClaim *corev1.PersistentVolumeClaim
	Deployment            *appsv1.Deployment
	Service               *corev1.Service
}

// Resource is one declared object together with the keys of the resources it
// depends on.
type Resource struct {
	Key       string
	Object    client.Object
	DependsOn []string
}

// Build declares the stack described by cfg.
func Build(cfg *config.Config) *Stack {
	return &Stack{
		Namespace:             buildNamespace(cfg),
		ClusterRole:           buildClusterRole(cfg),
		ServiceAccount:        buildServiceAccount(cfg),
		ClusterRoleBinding:    buildClusterRoleBinding(cfg),
		StorageClass:          buildStorageClass(cfg),
		PersistentVolume:      buildPersistentVolume(cfg),
		PersistentVolumeClaim: buildPersistentVolumeClaim(cfg),
		Deployment:            buildDeployment(cfg),
		Service:               buildService(cfg),
	}
}

// Resources returns copies of all declared objects in declaration order.
func (s *Stack) Resources() []Resource {
	return []Resource{
		{Key: KeyNamespace, Object: s.Namespace.DeepCopy()},
		{Key: KeyClusterRole, Object: s.ClusterRole.DeepCopy()},
		{
			Key:       KeyServiceAccount,
			Object:    s.ServiceAccount.DeepCopy(),
			DependsOn: []string{KeyNamespace},
		},
		{
			Key:       KeyClusterRoleBinding,
			Object:    s.ClusterRoleBinding.DeepCopy(),
			DependsOn: []string{KeyClusterRole, KeyServiceAccount},
		},
		{Key: KeyStorageClass, Object: s.StorageClass.DeepCopy()},
		{
			Key:       KeyPersistentVolume,
			Object:    s.PersistentVolume.DeepCopy(),
			DependsOn: []string{KeyStorageClass},
		},
		{
			Key:       KeyPersistentVolumeClaim,
			Object:    s.PersistentVolumeClaim.DeepCopy(),
			DependsOn: []string{KeyNamespace, KeyStorageClass, KeyPersistentVolume},
		},
		{
			Key:       KeyDeployment,
			Object:    s.Deployment.DeepCopy(),
			DependsOn: []string{KeyNamespace, KeyServiceAccount, KeyPersistentVolumeClaim},
		},
		{
			Key:       KeyService,
			Object:    s.Service.DeepCopy(),
			DependsOn: []string{KeyDeployment},
		},
	}
}

func buildNamespace(cfg *config.Config) *corev1.Namespace {
	return &corev1.Namespace{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "Namespace"},
		ObjectMeta: metav1.ObjectMeta{
			Name:   cfg.Namespace,
			Labels: objectLabels(cfg),
		},
	}
}

// objectLabels returns a fresh metadata label map for one object.
func objectLabels(cfg *config.Config, extra ...map[string]string) map[string]string {
	lb := labels.NewLabelBuilder(cfg.App.Name)
	for _, m := range extra {
		lb.Merge(m)
	}
	return lb.Build()
}
