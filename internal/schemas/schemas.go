package schemas

import (
	"fmt"
	"sort"

	"github.com/ix-apps/storage-render/internal/storage"
)

// RenderRequest is the input document of a render: the ix_volumes table shared by
// every entry and the storage declared per service.
type RenderRequest struct {
	IxVolumes        storage.IxVolumes         `json:"ix_volumes,omitempty" yaml:"ix_volumes,omitempty"`
	PermissionsImage string                    `json:"permissions_image,omitempty" yaml:"permissions_image,omitempty"`
	Services         map[string]ServiceStorage `json:"services" yaml:"services"`
}

type ServiceStorage struct {
	Storage []StorageEntry `json:"storage" yaml:"storage"`
}

// StorageEntry is a storage item plus the optional permission options for its fix.
type StorageEntry struct {
	storage.StorageItem `yaml:",inline"`
	Permissions         *storage.PermissionOptions `json:"permissions,omitempty" yaml:"permissions,omitempty"`
}

// ServiceNames returns the service names in sorted order.
func (r *RenderRequest) ServiceNames() []string {
	names := make([]string, 0, len(r.Services))
	for name := range r.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks every entry, reporting the first invalid one with its position.
func (r *RenderRequest) Validate() error {
	if len(r.Services) == 0 {
		return fmt.Errorf("%w: expected [services] to declare at least one service", ErrEmptyRequest)
	}
	for _, name := range r.ServiceNames() {
		for i := range r.Services[name].Storage {
			if err := r.Services[name].Storage[i].Validate(); err != nil {
				return fmt.Errorf("service [%s] storage [%d]: %w", name, i, err)
			}
		}
	}
	return nil
}

// MountRequest translates a single storage item.
type MountRequest struct {
	Item      storage.StorageItem        `json:"item"`
	IxVolumes storage.IxVolumes          `json:"ix_volumes,omitempty"`
	PermOpts  *storage.PermissionOptions `json:"perm_opts,omitempty"`
}

type HealthcheckResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
}
