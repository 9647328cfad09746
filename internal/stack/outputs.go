package stack

import "fmt"

// OutputKeys lists the published outputs in their canonical order.
var OutputKeys = []string{
	KeyNamespace,
	KeyServiceAccount,
	KeyClusterRole,
	KeyClusterRoleBinding,
	KeyStorageClass,
	KeyPersistentVolume,
	KeyPersistentVolumeClaim,
	KeyDeployment,
	KeyService,
}

// Outputs maps output keys to the names assigned at registration.
type Outputs map[string]string

// Set records the assigned name for key.
func (o Outputs) Set(key, name string) {
	o[key] = name
}

// Complete returns an error unless every output key has a non-empty value.
func (o Outputs) Complete() error {
	for _, k := range OutputKeys {
		if o[k] == "" {
			return fmt.Errorf("output %q has no value", k)
		}
	}
	if len(o) != len(OutputKeys) {
		return fmt.Errorf("expected %d outputs, got %d", len(OutputKeys), len(o))
	}
	return nil
}

// DeclaredOutputs returns the outputs implied by the declared names, without
// registering anything.
func (s *Stack) DeclaredOutputs() Outputs {
	out := make(Outputs, len(OutputKeys))
	for _, r := range s.Resources() {
		out.Set(r.Key, r.Object.GetName())
	}
	return out
}
