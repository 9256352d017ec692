package storage

import (
	"errors"
	"strings"
)

// Validate checks the structural rules of an item: the nested config matching
// its type and the required fields of that config. Translation functions assume them.
func (item *StorageItem) Validate() error {
	if _, err := ResolveType(item); err != nil {
		return err
	}
	if strings.TrimSpace(item.MountPath) == "" {
		return fail(ErrInvalidPath, "mount_path", "expected [mount_path] to be set")
	}

	switch item.Type {
	case TypeHostPath:
		return item.HostPathConfig.validate()
	case TypeIxVolume:
		return item.IxVolumeConfig.validate()
	case TypeCIFS:
		if err := requireVolumeName(item); err != nil {
			return err
		}
		return item.CIFSConfig.validate()
	case TypeNFS:
		if err := requireVolumeName(item); err != nil {
			return err
		}
		return item.NFSConfig.validate()
	case TypeVolume:
		return requireVolumeName(item)
	case TypeTmpfs:
		if item.TmpfsConfig == nil {
			return missingConfig("tmpfs_config", item.Type)
		}
	case TypeAnonymous:
		if item.VolumeName != "" {
			return fail(ErrInvalidConfig, "volume_name", "expected [volume_name] to be empty for [anonymous] type")
		}
	}

	return nil
}

func requireVolumeName(item *StorageItem) error {
	if item.VolumeName == "" {
		return fail(ErrMissingVolumeName, "volume_name", "expected [volume_name] to be set for [%s] type", item.Type)
	}
	return nil
}

func missingConfig(field string, t Type) error {
	return fail(ErrInvalidConfig, field, "expected [%s] to be set for [%s] type", field, t)
}

func (cfg *HostPathConfig) validate() error {
	if cfg == nil {
		return missingConfig("host_path_config", TypeHostPath)
	}
	if cfg.ACLEnable {
		if cfg.ACL == nil {
			return fail(ErrInvalidConfig, "host_path_config.acl", "expected [acl] to be set when [acl_enable] is true")
		}
		if cfg.ACL.Path == "" {
			return fail(ErrInvalidConfig, "host_path_config.acl.path", "expected [acl.path] to be set when [acl_enable] is true")
		}
		return nil
	}
	if cfg.Path == "" {
		return fail(ErrInvalidConfig, "host_path_config.path", "expected [path] to be set when [acl_enable] is false")
	}
	return nil
}

func (cfg *IxVolumeConfig) validate() error {
	if cfg == nil {
		return missingConfig("ix_volume_config", TypeIxVolume)
	}
	if cfg.DatasetName == "" {
		return fail(ErrInvalidConfig, "ix_volume_config.dataset_name", "expected [dataset_name] to be set for [ix_volume] type")
	}
	if cfg.ACLEnable && cfg.ACLEntries == nil {
		return fail(ErrInvalidConfig, "ix_volume_config.acl_entries", "expected [acl_entries] to be set when [acl_enable] is true")
	}
	return nil
}

func (cfg *CIFSConfig) validate() error {
	if cfg == nil {
		return missingConfig("cifs_config", TypeCIFS)
	}
	return requireFields("cifs_config", TypeCIFS, map[string]string{
		"server":   cfg.Server,
		"path":     cfg.Path,
		"username": cfg.Username,
		"password": cfg.Password,
	}, "server", "path", "username", "password")
}

func (cfg *NFSConfig) validate() error {
	if cfg == nil {
		return missingConfig("nfs_config", TypeNFS)
	}
	return requireFields("nfs_config", TypeNFS, map[string]string{
		"server": cfg.Server,
		"path":   cfg.Path,
	}, "server", "path")
}

// requireFields reports every empty field, in the given order.
func requireFields(prefix string, t Type, values map[string]string, order ...string) error {
	var errs []error
	for _, name := range order {
		if values[name] == "" {
			errs = append(errs, fail(ErrInvalidConfig, prefix+"."+name, "expected [%s.%s] to be set for [%s] type", prefix, name, t))
		}
	}
	return errors.Join(errs...)
}
