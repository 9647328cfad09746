package stack

import (
	"strconv"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/utils/ptr"

	"github.com/imamik/jenkins-stack/internal/config"
)

const (
	dataVolume = "jenkins-data"
	loginPath  = "/login"

	httpPortName  = "httpport"
	agentPortName = "jniport"
)

// AppLabels returns the selector shared by the pod template and the service.
func AppLabels(cfg *config.Config) map[string]string {
	return map[string]string{"app": cfg.App.Label}
}

func buildDeployment(cfg *config.Config) *appsv1.Deployment {
	return &appsv1.Deployment{
		TypeMeta: metav1.TypeMeta{APIVersion: appsv1.SchemeGroupVersion.String(), Kind: "Deployment"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      cfg.App.Name,
			Namespace: cfg.Namespace,
			Labels:    objectLabels(cfg, AppLabels(cfg)),
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: ptr.To(ptr.Deref(cfg.App.Replicas, config.DefaultReplicas)),
			Selector: &metav1.LabelSelector{MatchLabels: AppLabels(cfg)},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: AppLabels(cfg)},
				Spec: corev1.PodSpec{
					SecurityContext: &corev1.PodSecurityContext{
						FSGroup:   ptr.To(cfg.App.FSGroup),
						RunAsUser: ptr.To(cfg.App.RunAsUser),
					},
					ServiceAccountName: cfg.ServiceAccount,
					Containers:         []corev1.Container{buildContainer(cfg)},
					Volumes: []corev1.Volume{
						{
							Name: dataVolume,
							VolumeSource: corev1.VolumeSource{
								PersistentVolumeClaim: &corev1.PersistentVolumeClaimVolumeSource{
									ClaimName: cfg.Storage.ClaimName,
								},
							},
						},
					},
				},
			},
		},
	}
}

func buildContainer(cfg *config.Config) corev1.Container {
	return corev1.Container{
		Name:  cfg.App.Name,
		Image: cfg.App.Image,
		Ports: []corev1.ContainerPort{
			{Name: httpPortName, ContainerPort: cfg.App.HTTPPort},
			{Name: agentPortName, ContainerPort: cfg.App.AgentPort},
		},
		LivenessProbe:  loginProbe(cfg.App.HTTPPort, 90, 5),
		ReadinessProbe: loginProbe(cfg.App.HTTPPort, 60, 3),
		VolumeMounts: []corev1.VolumeMount{
			{Name: dataVolume, MountPath: cfg.App.HomePath},
		},
	}
}

// loginProbe checks the Jenkins login page. Jenkins needs a long warm-up,
// hence the generous initial delays.
func loginProbe(port, initialDelay, failureThreshold int32) *corev1.Probe {
	return &corev1.Probe{
		ProbeHandler: corev1.ProbeHandler{
			HTTPGet: &corev1.HTTPGetAction{
				Path: loginPath,
				Port: intstr.FromInt32(port),
			},
		},
		InitialDelaySeconds: initialDelay,
		TimeoutSeconds:      5,
		PeriodSeconds:       10,
		FailureThreshold:    failureThreshold,
	}
}

func buildService(cfg *config.Config) *corev1.Service {
	port := strconv.Itoa(int(cfg.App.HTTPPort))

	return &corev1.Service{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "Service"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      cfg.Service.Name,
			Namespace: cfg.Namespace,
			Labels:    objectLabels(cfg),
			Annotations: map[string]string{
				"prometheus.io/scrape": "true",
				"prometheus.io/port":   port,
				"prometheus.io/path":   "/",
			},
		},
		Spec: corev1.ServiceSpec{
			Selector: AppLabels(cfg),
			Type:     corev1.ServiceType(cfg.Service.Type),
			Ports: []corev1.ServicePort{
				{
					Port:       cfg.App.HTTPPort,
					TargetPort: intstr.FromInt32(cfg.App.HTTPPort),
					NodePort:   cfg.Service.NodePort,
					Protocol:   corev1.ProtocolTCP,
				},
			},
		},
	}
}
