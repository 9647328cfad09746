package stack

import (
	corev1 "k8s.io/api/core/v1"
	storagev1 "k8s.io/api/storage/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"

	"github.com/imamik/jenkins-stack/internal/config"
)

const (
	// noProvisioner marks a class whose volumes are created by hand.
	noProvisioner = "kubernetes.io/no-provisioner"

	hostnameLabel = "kubernetes.io/hostname"
)

func buildStorageClass(cfg *config.Config) *storagev1.StorageClass {
	return &storagev1.StorageClass{
		TypeMeta: metav1.TypeMeta{APIVersion: storagev1.SchemeGroupVersion.String(), Kind: "StorageClass"},
		ObjectMeta: metav1.ObjectMeta{
			Name:   cfg.Storage.ClassName,
			Labels: objectLabels(cfg),
		},
		Provisioner:       noProvisioner,
		VolumeBindingMode: ptr.To(storagev1.VolumeBindingWaitForFirstConsumer),
	}
}

// buildPersistentVolume declares a local volume on the configured node,
// pre-bound to the Jenkins claim.
func buildPersistentVolume(cfg *config.Config) *corev1.PersistentVolume {
	return &corev1.PersistentVolume{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "PersistentVolume"},
		ObjectMeta: metav1.ObjectMeta{
			Name:   cfg.Storage.VolumeName,
			Labels: objectLabels(cfg, map[string]string{"type": "local"}),
		},
		Spec: corev1.PersistentVolumeSpec{
			StorageClassName: cfg.Storage.ClassName,
			ClaimRef: &corev1.ObjectReference{
				Name:      cfg.Storage.ClaimName,
				Namespace: cfg.Namespace,
			},
			Capacity: corev1.ResourceList{
				corev1.ResourceStorage: resource.MustParse(cfg.Storage.Capacity),
			},
			AccessModes: []corev1.PersistentVolumeAccessMode{corev1.ReadWriteOnce},
			PersistentVolumeSource: corev1.PersistentVolumeSource{
				Local: &corev1.LocalVolumeSource{Path: cfg.Storage.LocalPath},
			},
			NodeAffinity: &corev1.VolumeNodeAffinity{
				Required: &corev1.NodeSelector{
					NodeSelectorTerms: []corev1.NodeSelectorTerm{
						{
							MatchExpressions: []corev1.NodeSelectorRequirement{
								{
									Key:      hostnameLabel,
									Operator: corev1.NodeSelectorOpIn,
									Values:   []string{cfg.Storage.NodeHostname},
								},
							},
						},
					},
				},
			},
		},
	}
}

func buildPersistentVolumeClaim(cfg *config.Config) *corev1.PersistentVolumeClaim {
	return &corev1.PersistentVolumeClaim{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "PersistentVolumeClaim"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      cfg.Storage.ClaimName,
			Namespace: cfg.Namespace,
			Labels:    objectLabels(cfg),
		},
		Spec: corev1.PersistentVolumeClaimSpec{
			AccessModes: []corev1.PersistentVolumeAccessMode{corev1.ReadWriteOnce},
			Resources: corev1.VolumeResourceRequirements{
				Requests: corev1.ResourceList{
					corev1.ResourceStorage: resource.MustParse(cfg.Storage.Request),
				},
			},
			StorageClassName: ptr.To(cfg.Storage.ClassName),
		},
	}
}
