package storage

import (
	"github.com/docker/docker/api/types/mount"
)

// Type is the storage type as declared in the UI schema.
type Type string

const (
	TypeHostPath  Type = "host_path"
	TypeIxVolume  Type = "ix_volume"
	TypeVolume    Type = "volume"
	TypeNFS       Type = "nfs"
	TypeCIFS      Type = "cifs"
	TypeTmpfs     Type = "tmpfs"
	TypeAnonymous Type = "anonymous"
)

// AllTypes lists every recognized storage type, bind types first, then volume types.
var AllTypes = []Type{TypeHostPath, TypeIxVolume, TypeVolume, TypeNFS, TypeCIFS, TypeTmpfs, TypeAnonymous}

// PropagationTypes lists the bind propagation modes accepted for bind mounts.
var PropagationTypes = []mount.Propagation{
	mount.PropagationShared,
	mount.PropagationSlave,
	mount.PropagationPrivate,
	mount.PropagationRShared,
	mount.PropagationRSlave,
	mount.PropagationRPrivate,
}

// IxVolumes maps a dataset name to an absolute host path.
// It is owned by the caller and only read by this package.
type IxVolumes map[string]string

// StorageItem is one declared mount.
// Exactly one of the nested configs is expected to be set, selected by Type.
type StorageItem struct {
	Type            Type              `json:"type" yaml:"type"`
	MountPath       string            `json:"mount_path" yaml:"mount_path"`
	ReadOnly        bool              `json:"read_only,omitempty" yaml:"read_only,omitempty"`
	VolumeName      string            `json:"volume_name,omitempty" yaml:"volume_name,omitempty"`
	Propagation     mount.Propagation `json:"propagation,omitempty" yaml:"propagation,omitempty"`
	AutoPermissions bool              `json:"auto_permissions,omitempty" yaml:"auto_permissions,omitempty"`

	HostPathConfig *HostPathConfig `json:"host_path_config,omitempty" yaml:"host_path_config,omitempty"`
	IxVolumeConfig *IxVolumeConfig `json:"ix_volume_config,omitempty" yaml:"ix_volume_config,omitempty"`
	CIFSConfig     *CIFSConfig     `json:"cifs_config,omitempty" yaml:"cifs_config,omitempty"`
	NFSConfig      *NFSConfig      `json:"nfs_config,omitempty" yaml:"nfs_config,omitempty"`
	TmpfsConfig    *TmpfsConfig    `json:"tmpfs_config,omitempty" yaml:"tmpfs_config,omitempty"`
	VolumeConfig   *VolumeConfig   `json:"volume_config,omitempty" yaml:"volume_config,omitempty"`
}

type ACLOptions struct {
	Force bool `json:"force,omitempty" yaml:"force,omitempty"`
}

type ACLEntry struct {
	Access string `json:"access" yaml:"access"`
	ID     string `json:"id" yaml:"id"`
	IDType string `json:"id_type" yaml:"id_type"`
}

// ACL describes an ACL-managed path. Entries and options are passed through untouched.
type ACL struct {
	Path    string      `json:"path" yaml:"path"`
	Entries []ACLEntry  `json:"entries,omitempty" yaml:"entries,omitempty"`
	Options *ACLOptions `json:"options,omitempty" yaml:"options,omitempty"`
}

type HostPathConfig struct {
	Path      string `json:"path,omitempty" yaml:"path,omitempty"`
	ACLEnable bool   `json:"acl_enable,omitempty" yaml:"acl_enable,omitempty"`
	ACL       *ACL   `json:"acl,omitempty" yaml:"acl,omitempty"`
	// CreateHostPath defaults to true when unset.
	CreateHostPath *bool `json:"create_host_path,omitempty" yaml:"create_host_path,omitempty"`
}

type IxVolumeConfig struct {
	DatasetName string `json:"dataset_name" yaml:"dataset_name"`
	ACLEnable   bool   `json:"acl_enable,omitempty" yaml:"acl_enable,omitempty"`
	ACLEntries  *ACL   `json:"acl_entries,omitempty" yaml:"acl_entries,omitempty"`
}

type CIFSConfig struct {
	Server   string   `json:"server" yaml:"server"`
	Path     string   `json:"path" yaml:"path"`
	Username string   `json:"username" yaml:"username"`
	Password string   `json:"password" yaml:"password"`
	Domain   string   `json:"domain,omitempty" yaml:"domain,omitempty"`
	Options  []string `json:"options,omitempty" yaml:"options,omitempty"`
}

type NFSConfig struct {
	Server  string   `json:"server" yaml:"server"`
	Path    string   `json:"path" yaml:"path"`
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`
}

type TmpfsConfig struct {
	Size *int64 `json:"size,omitempty" yaml:"size,omitempty"` // MiB
	Mode string `json:"mode,omitempty" yaml:"mode,omitempty"` // octal, e.g. "0755"
}

type VolumeConfig struct {
	NoCopy bool `json:"nocopy,omitempty" yaml:"nocopy,omitempty"`
}

// PermissionOptions are supplied by the caller when a permission fix is wanted.
// UID and GID are pointers so that 0 (root) can be told apart from "not set".
type PermissionOptions struct {
	MountPath string `json:"mount_path" yaml:"mount_path"`
	Mode      string `json:"mode" yaml:"mode"`
	UID       *int   `json:"uid" yaml:"uid"`
	GID       *int   `json:"gid" yaml:"gid"`
	Chmod     string `json:"chmod,omitempty" yaml:"chmod,omitempty"`
}
