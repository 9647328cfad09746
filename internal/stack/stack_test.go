package stack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	storagev1 "k8s.io/api/storage/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/imamik/jenkins-stack/internal/config"
)

func defaultStack(t *testing.T) *Stack {
	t.Helper()
	return Build(config.Default())
}

func TestBuild_NineDistinctResources(t *testing.T) {
	t.Parallel()
	s := defaultStack(t)

	want := map[string]string{
		KeyNamespace:             "devops-tools",
		KeyClusterRole:           "jenkins-admin",
		KeyServiceAccount:        "jenkins-admin",
		KeyClusterRoleBinding:    "jenkins-admin",
		KeyStorageClass:          "local-storage",
		KeyPersistentVolume:      "jenkins-pv-volume",
		KeyPersistentVolumeClaim: "jenkins-pv-claim",
		KeyDeployment:            "jenkins",
		KeyService:               "jenkins-service",
	}

	resources := s.Resources()
	require.Len(t, resources, 9)

	seen := map[string]bool{}
	for _, r := range resources {
		assert.False(t, seen[r.Key], "duplicate key %s", r.Key)
		seen[r.Key] = true
		assert.Equal(t, want[r.Key], r.Object.GetName(), r.Key)
		assert.NotEmpty(t, r.Object.GetObjectKind().GroupVersionKind().Kind, r.Key)
	}
	assert.Len(t, seen, 9)
}

func TestBuild_NamespacedResourcesShareNamespace(t *testing.T) {
	t.Parallel()
	s := defaultStack(t)

	namespaced := map[string]bool{
		KeyServiceAccount:        true,
		KeyPersistentVolumeClaim: true,
		KeyDeployment:            true,
		KeyService:               true,
	}
	for _, r := range s.Resources() {
		if namespaced[r.Key] {
			assert.Equal(t, "devops-tools", r.Object.GetNamespace(), r.Key)
		} else {
			assert.Empty(t, r.Object.GetNamespace(), r.Key)
		}
	}
	assert.Equal(t, s.Namespace.Name, s.ServiceAccount.Namespace)
}

func TestBuild_SelectorMatchesTemplateLabels(t *testing.T) {
	t.Parallel()
	s := defaultStack(t)

	want := map[string]string{"app": "jenkins-server"}
	assert.Equal(t, want, s.Service.Spec.Selector)
	assert.Equal(t, want, s.Deployment.Spec.Template.Labels)
	assert.Equal(t, want, s.Deployment.Spec.Selector.MatchLabels)
	assert.Equal(t, "jenkins-server", s.Deployment.Labels["app"])
}

func TestBuild_RBACReferences(t *testing.T) {
	t.Parallel()
	s := defaultStack(t)

	crb := s.ClusterRoleBinding
	assert.Equal(t, "jenkins-admin", s.ClusterRole.Name)
	assert.Equal(t, s.ClusterRole.Name, crb.RoleRef.Name)
	assert.Equal(t, "ClusterRole", crb.RoleRef.Kind)
	assert.Equal(t, "rbac.authorization.k8s.io", crb.RoleRef.APIGroup)

	require.Len(t, crb.Subjects, 1)
	assert.Equal(t, "ServiceAccount", crb.Subjects[0].Kind)
	assert.Equal(t, s.ServiceAccount.Name, crb.Subjects[0].Name)
	assert.Equal(t, s.ServiceAccount.Namespace, crb.Subjects[0].Namespace)

	require.Len(t, s.ClusterRole.Rules, 1)
	rule := s.ClusterRole.Rules[0]
	assert.Equal(t, []string{""}, rule.APIGroups)
	assert.Equal(t, []string{"*"}, rule.Resources)
	assert.Equal(t, []string{"*"}, rule.Verbs)
}

func TestBuild_StorageChain(t *testing.T) {
	t.Parallel()
	s := defaultStack(t)

	sc := s.StorageClass
	assert.Equal(t, "local-storage", sc.Name)
	assert.Equal(t, "kubernetes.io/no-provisioner", sc.Provisioner)
	require.NotNil(t, sc.VolumeBindingMode)
	assert.Equal(t, storagev1.VolumeBindingWaitForFirstConsumer, *sc.VolumeBindingMode)

	pv := s.PersistentVolume
	assert.Equal(t, sc.Name, pv.Spec.StorageClassName)
	assert.Equal(t, "local", pv.Labels["type"])
	assert.True(t, resource.MustParse("10Gi").Equal(pv.Spec.Capacity[corev1.ResourceStorage]))
	assert.Equal(t, []corev1.PersistentVolumeAccessMode{corev1.ReadWriteOnce}, pv.Spec.AccessModes)
	require.NotNil(t, pv.Spec.Local)
	assert.Equal(t, "/mnt", pv.Spec.Local.Path)

	require.NotNil(t, pv.Spec.ClaimRef)
	assert.Equal(t, s.PersistentVolumeClaim.Name, pv.Spec.ClaimRef.Name)
	assert.Equal(t, s.PersistentVolumeClaim.Namespace, pv.Spec.ClaimRef.Namespace)

	require.NotNil(t, pv.Spec.NodeAffinity)
	terms := pv.Spec.NodeAffinity.Required.NodeSelectorTerms
	require.Len(t, terms, 1)
	require.Len(t, terms[0].MatchExpressions, 1)
	expr := terms[0].MatchExpressions[0]
	assert.Equal(t, "kubernetes.io/hostname", expr.Key)
	assert.Equal(t, corev1.NodeSelectorOpIn, expr.Operator)
	assert.Equal(t, []string{"minikube"}, expr.Values)

	pvc := s.PersistentVolumeClaim
	require.NotNil(t, pvc.Spec.StorageClassName)
	assert.Equal(t, sc.Name, *pvc.Spec.StorageClassName)
	assert.True(t, resource.MustParse("3Gi").Equal(pvc.Spec.Resources.Requests[corev1.ResourceStorage]))
	assert.Equal(t, []corev1.PersistentVolumeAccessMode{corev1.ReadWriteOnce}, pvc.Spec.AccessModes)
}

func TestBuild_DeploymentPodTemplate(t *testing.T) {
	t.Parallel()
	s := defaultStack(t)
	d := s.Deployment

	require.NotNil(t, d.Spec.Replicas)
	assert.Equal(t, int32(1), *d.Spec.Replicas)

	pod := d.Spec.Template.Spec
	assert.Equal(t, s.ServiceAccount.Name, pod.ServiceAccountName)
	require.NotNil(t, pod.SecurityContext)
	assert.Equal(t, int64(1000), *pod.SecurityContext.FSGroup)
	assert.Equal(t, int64(1000), *pod.SecurityContext.RunAsUser)

	require.Len(t, pod.Volumes, 1)
	require.NotNil(t, pod.Volumes[0].PersistentVolumeClaim)
	assert.Equal(t, s.PersistentVolumeClaim.Name, pod.Volumes[0].PersistentVolumeClaim.ClaimName)
	assert.Equal(t, "jenkins-pv-claim", pod.Volumes[0].PersistentVolumeClaim.ClaimName)

	require.Len(t, pod.Containers, 1)
	c := pod.Containers[0]
	assert.Equal(t, "jenkins", c.Name)
	assert.Equal(t, "jenkins/jenkins:lts", c.Image)
	assert.Equal(t, []corev1.ContainerPort{
		{Name: "httpport", ContainerPort: 8080},
		{Name: "jniport", ContainerPort: 50000},
	}, c.Ports)

	require.Len(t, c.VolumeMounts, 1)
	assert.Equal(t, pod.Volumes[0].Name, c.VolumeMounts[0].Name)
	assert.Equal(t, "/var/jenkins_home", c.VolumeMounts[0].MountPath)

	tests := []struct {
		name             string
		probe            *corev1.Probe
		initialDelay     int32
		failureThreshold int32
	}{
		{"liveness", c.LivenessProbe, 90, 5},
		{"readiness", c.ReadinessProbe, 60, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotNil(t, tt.probe)
			require.NotNil(t, tt.probe.HTTPGet)
			assert.Equal(t, "/login", tt.probe.HTTPGet.Path)
			assert.Equal(t, intstr.FromInt32(8080), tt.probe.HTTPGet.Port)
			assert.Equal(t, tt.initialDelay, tt.probe.InitialDelaySeconds)
			assert.Equal(t, int32(5), tt.probe.TimeoutSeconds)
			assert.Equal(t, int32(10), tt.probe.PeriodSeconds)
			assert.Equal(t, tt.failureThreshold, tt.probe.FailureThreshold)
		})
	}
}

func TestBuild_ServicePorts(t *testing.T) {
	t.Parallel()
	s := defaultStack(t)
	svc := s.Service

	assert.Equal(t, corev1.ServiceTypeNodePort, svc.Spec.Type)
	require.Len(t, svc.Spec.Ports, 1)
	assert.Equal(t, corev1.ServicePort{
		Port:       8080,
		TargetPort: intstr.FromInt32(8080),
		NodePort:   32000,
		Protocol:   corev1.ProtocolTCP,
	}, svc.Spec.Ports[0])

	assert.Equal(t, map[string]string{
		"prometheus.io/scrape": "true",
		"prometheus.io/port":   "8080",
		"prometheus.io/path":   "/",
	}, svc.Annotations)
}

func TestBuild_OverridesFlowThroughReferences(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.Namespace = "ci"
	cfg.ServiceAccount = "ci-admin"
	cfg.Storage.ClaimName = "ci-home"
	cfg.Storage.ClassName = "ssd"
	cfg.App.Label = "ci-server"

	s := Build(cfg)

	assert.Equal(t, "ci", s.ClusterRoleBinding.Subjects[0].Namespace)
	assert.Equal(t, "ci-admin", s.ClusterRoleBinding.RoleRef.Name)
	assert.Equal(t, "ci-admin", s.Deployment.Spec.Template.Spec.ServiceAccountName)
	assert.Equal(t, "ci-home", s.PersistentVolume.Spec.ClaimRef.Name)
	assert.Equal(t, "ci", s.PersistentVolume.Spec.ClaimRef.Namespace)
	assert.Equal(t, "ci-home", s.Deployment.Spec.Template.Spec.Volumes[0].PersistentVolumeClaim.ClaimName)
	assert.Equal(t, "ssd", *s.PersistentVolumeClaim.Spec.StorageClassName)
	assert.Equal(t, "ssd", s.PersistentVolume.Spec.StorageClassName)
	assert.Equal(t, s.Service.Spec.Selector, s.Deployment.Spec.Template.Labels)
}

func TestResources_ReturnsCopies(t *testing.T) {
	t.Parallel()
	s := defaultStack(t)

	first := s.Resources()
	first[0].Object.SetName("changed")
	first[7].Object.SetLabels(nil)

	assert.Equal(t, "devops-tools", s.Namespace.Name)
	assert.NotEmpty(t, s.Deployment.Labels)
}

func TestBuild_MetadataLabels(t *testing.T) {
	t.Parallel()
	s := defaultStack(t)

	for _, r := range s.Resources() {
		l := r.Object.GetLabels()
		assert.Equal(t, "jenkins", l["app.kubernetes.io/part-of"], r.Key)
		assert.Equal(t, "jenkins-stack", l["app.kubernetes.io/managed-by"], r.Key)
	}
}

func TestBuild_ZeroReplicasFromFile(t *testing.T) {
	t.Parallel()
	cfg, err := config.LoadFromBytes([]byte("app:\n  replicas: 0\n"))
	require.NoError(t, err)

	d := Build(cfg).Deployment
	require.NotNil(t, d.Spec.Replicas)
	assert.Equal(t, int32(0), *d.Spec.Replicas)

	// The claim and volume stay declared while Jenkins is stopped.
	s := Build(cfg)
	assert.Equal(t, config.DefaultClaimName, s.PersistentVolumeClaim.Name)
	assert.Equal(t, config.DefaultClaimName, d.Spec.Template.Spec.Volumes[0].PersistentVolumeClaim.ClaimName)
}
