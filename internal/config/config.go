package config

import "k8s.io/utils/ptr"

// Config is the desired shape of the Jenkins stack.
//
// Every cross-reference in the declared graph is derived from a single field
// here, so a claim name or label only ever has one source.
type Config struct {
	// Namespace holds every namespaced resource.
	Namespace string `yaml:"namespace"`

	// ServiceAccount names the workload identity. The ClusterRole and
	// ClusterRoleBinding share the name.
	ServiceAccount string `yaml:"serviceAccount"`

	App     AppConfig     `yaml:"app"`
	Storage StorageConfig `yaml:"storage"`
	Service ServiceConfig `yaml:"service"`
}

// AppConfig describes the Jenkins deployment.
type AppConfig struct {
	// Name is used for the Deployment and its single container.
	Name  string `yaml:"name"`
	Image string `yaml:"image"`

	// Replicas may be set to 0 to stop Jenkins while keeping its volume.
	// Only an absent value defaults to one.
	Replicas *int32 `yaml:"replicas"`

	// Label is the value of the "app" label shared by the pod template and
	// the service selector.
	Label string `yaml:"label"`

	HTTPPort  int32  `yaml:"httpPort"`
	AgentPort int32  `yaml:"agentPort"`
	HomePath  string `yaml:"homePath"`
	RunAsUser int64  `yaml:"runAsUser"`
	FSGroup   int64  `yaml:"fsGroup"`
}

// StorageConfig describes the local volume backing the Jenkins home.
type StorageConfig struct {
	ClassName  string `yaml:"className"`
	VolumeName string `yaml:"volumeName"`
	ClaimName  string `yaml:"claimName"`

	// Capacity is the size of the PersistentVolume; Request is what the
	// claim asks for.
	Capacity string `yaml:"capacity"`
	Request  string `yaml:"request"`

	LocalPath string `yaml:"localPath"`

	// NodeHostname pins the volume to a node via kubernetes.io/hostname.
	NodeHostname string `yaml:"nodeHostname"`
}

// ServiceConfig describes how Jenkins is exposed.
type ServiceConfig struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	NodePort int32  `yaml:"nodePort"`
}

// Default values. They match the stack as it is deployed to minikube.
const (
	DefaultNamespace      = "devops-tools"
	DefaultServiceAccount = "jenkins-admin"

	DefaultAppName   = "jenkins"
	DefaultImage     = "jenkins/jenkins:lts"
	DefaultReplicas  = 1
	DefaultAppLabel  = "jenkins-server"
	DefaultHTTPPort  = 8080
	DefaultAgentPort = 50000
	DefaultHomePath  = "/var/jenkins_home"
	DefaultRunAsUser = 1000
	DefaultFSGroup   = 1000

	DefaultStorageClass = "local-storage"
	DefaultVolumeName   = "jenkins-pv-volume"
	DefaultClaimName    = "jenkins-pv-claim"
	DefaultCapacity     = "10Gi"
	DefaultRequest      = "3Gi"
	DefaultLocalPath    = "/mnt"
	DefaultNodeHostname = "minikube"
	DefaultServiceName  = "jenkins-service"
	DefaultServiceType  = "NodePort"
	DefaultNodePort     = 32000
)

// Default returns the literal stack configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills every zero-valued field with its default.
func (c *Config) applyDefaults() {
	setString(&c.Namespace, DefaultNamespace)
	setString(&c.ServiceAccount, DefaultServiceAccount)

	setString(&c.App.Name, DefaultAppName)
	setString(&c.App.Image, DefaultImage)
	setString(&c.App.Label, DefaultAppLabel)
	setString(&c.App.HomePath, DefaultHomePath)
	if c.App.Replicas == nil {
		c.App.Replicas = ptr.To(int32(DefaultReplicas))
	}
	setInt32(&c.App.HTTPPort, DefaultHTTPPort)
	setInt32(&c.App.AgentPort, DefaultAgentPort)
	if c.App.RunAsUser == 0 {
		c.App.RunAsUser = DefaultRunAsUser
	}
	if c.App.FSGroup == 0 {
		c.App.FSGroup = DefaultFSGroup
	}

	setString(&c.Storage.ClassName, DefaultStorageClass)
	setString(&c.Storage.VolumeName, DefaultVolumeName)
	setString(&c.Storage.ClaimName, DefaultClaimName)
	setString(&c.Storage.Capacity, DefaultCapacity)
	setString(&c.Storage.Request, DefaultRequest)
	setString(&c.Storage.LocalPath, DefaultLocalPath)
	setString(&c.Storage.NodeHostname, DefaultNodeHostname)

	setString(&c.Service.Name, DefaultServiceName)
	setString(&c.Service.Type, DefaultServiceType)
	setInt32(&c.Service.NodePort, DefaultNodePort)
}

func setString(field *string, def string) {
	if *field == "" {
		*field = def
	}
}

func setInt32(field *int32, def int32) {
	if *field == 0 {
		*field = def
	}
}
