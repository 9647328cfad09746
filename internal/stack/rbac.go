package stack

import (
	corev1 "k8s.io/api/core/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/imamik/jenkins-stack/internal/config"
)

// buildClusterRole grants full access to the core API group.
func buildClusterRole(cfg *config.Config) *rbacv1.ClusterRole {
	return &rbacv1.ClusterRole{
		TypeMeta: metav1.TypeMeta{APIVersion: rbacv1.SchemeGroupVersion.String(), Kind: "ClusterRole"},
		ObjectMeta: metav1.ObjectMeta{
			Name:   cfg.ServiceAccount,
			Labels: objectLabels(cfg),
		},
		Rules: []rbacv1.PolicyRule{
			{
				APIGroups: []string{""},
				Resources: []string{"*"},
				Verbs:     []string{"*"},
			},
		},
	}
}

func buildServiceAccount(cfg *config.Config) *corev1.ServiceAccount {
	return &corev1.ServiceAccount{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "ServiceAccount"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      cfg.ServiceAccount,
			Namespace: cfg.Namespace,
			Labels:    objectLabels(cfg),
		},
	}
}

// buildClusterRoleBinding binds the role to the service account. Both sides
// are referenced by the same configured name.
func buildClusterRoleBinding(cfg *config.Config) *rbacv1.ClusterRoleBinding {
	return &rbacv1.ClusterRoleBinding{
		TypeMeta: metav1.TypeMeta{APIVersion: rbacv1.SchemeGroupVersion.String(), Kind: "ClusterRoleBinding"},
		ObjectMeta: metav1.ObjectMeta{
			Name:   cfg.ServiceAccount,
			Labels: objectLabels(cfg),
		},
		RoleRef: rbacv1.RoleRef{
			APIGroup: rbacv1.GroupName,
			Kind:     "ClusterRole",
			Name:     cfg.ServiceAccount,
		},
		Subjects: []rbacv1.Subject{
			{
				Kind:      rbacv1.ServiceAccountKind,
				Name:      cfg.ServiceAccount,
				Namespace: cfg.Namespace,
			},
		},
	}
}
