// Package compose assembles per-item storage translations into a compose document.
package compose

import (
	"errors"

	"github.com/ix-apps/storage-render/internal/gerrors"
	"github.com/ix-apps/storage-render/internal/storage"
	"gopkg.in/yaml.v3"
)

var (
	// ErrConflictingVolume is returned when two entries declare the same volume name
	// with different definitions.
	ErrConflictingVolume = errors.New("conflicting volume definition")
	// ErrConflictingPermission is returned when two permission fixes target the same directory
	// from different sources.
	ErrConflictingPermission = errors.New("conflicting permission fix")
	// ErrReservedServiceName is returned when a service uses the permissions init service name.
	ErrReservedServiceName = errors.New("reserved service name")
)

const ConditionCompletedSuccessfully = "service_completed_successfully"

type DependsOn struct {
	Condition string `json:"condition" yaml:"condition"`
}

type Service struct {
	Image       string                    `json:"image,omitempty" yaml:"image,omitempty"`
	User        string                    `json:"user,omitempty" yaml:"user,omitempty"`
	NetworkMode string                    `json:"network_mode,omitempty" yaml:"network_mode,omitempty"`
	CapDrop     []string                  `json:"cap_drop,omitempty" yaml:"cap_drop,omitempty"`
	CapAdd      []string                  `json:"cap_add,omitempty" yaml:"cap_add,omitempty"`
	Environment map[string]string         `json:"environment,omitempty" yaml:"environment,omitempty"`
	DependsOn   map[string]DependsOn      `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
	Volumes     []storage.MountDescriptor `json:"volumes,omitempty" yaml:"volumes,omitempty"`
}

// Document is the storage part of a compose file. Map keys are marshaled in sorted order
// by both encoders, so output is deterministic.
type Document struct {
	Services map[string]*Service     `json:"services" yaml:"services"`
	Volumes  storage.TopLevelVolumes `json:"volumes,omitempty" yaml:"volumes,omitempty"`
	// Permissions lists the corrections requested per service.
	Permissions map[string][]storage.PermDir `json:"x-permissions,omitempty" yaml:"x-permissions,omitempty"`
}

func (d *Document) service(name string) *Service {
	svc, ok := d.Services[name]
	if !ok {
		svc = &Service{}
		d.Services[name] = svc
	}
	return svc
}

func (d *Document) YAML() ([]byte, error) {
	out, err := yaml.Marshal(d)
	if err != nil {
		return nil, gerrors.Wrapf(err, "marshaling compose document")
	}
	return out, nil
}
