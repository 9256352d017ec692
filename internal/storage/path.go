package storage

import (
	"path"
	"strings"
)

// ValidPath normalizes an absolute path. Empty, relative and ".."-containing paths are rejected.
func ValidPath(raw string) (string, error) {
	return validPath("path", raw)
}

func validPath(field string, raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", fail(ErrInvalidPath, field, "expected [%s] to be set", field)
	}
	if !strings.HasPrefix(raw, "/") {
		return "", fail(ErrInvalidPath, field, "expected [%s] to be an absolute path, got [%s]", field, raw)
	}
	for _, elem := range strings.Split(raw, "/") {
		if elem == ".." {
			return "", fail(ErrInvalidPath, field, "expected [%s] to not contain [..], got [%s]", field, raw)
		}
	}
	return path.Clean(raw), nil
}

// ResolveHostPath returns the host-side source for bind-style storage types.
// For host_path the literal (or ACL) path is used; ix_volume datasets are looked up in ixVolumes.
func ResolveHostPath(item *StorageItem, ixVolumes IxVolumes) (string, error) {
	if item == nil {
		return "", fail(ErrInvalidType, "type", "expected [type] to be set for storage")
	}

	var raw string
	var field string

	switch item.Type {
	case TypeHostPath:
		cfg := item.HostPathConfig
		if cfg == nil {
			return "", fail(ErrInvalidConfig, "host_path_config", "expected [host_path_config] to be set for [host_path] type")
		}
		if cfg.ACLEnable {
			if cfg.ACL == nil {
				return "", fail(ErrInvalidConfig, "host_path_config.acl", "expected [acl] to be set when [acl_enable] is true")
			}
			raw, field = cfg.ACL.Path, "host_path_config.acl.path"
		} else {
			raw, field = cfg.Path, "host_path_config.path"
		}

	case TypeIxVolume:
		cfg := item.IxVolumeConfig
		if cfg == nil {
			return "", fail(ErrInvalidConfig, "ix_volume_config", "expected [ix_volume_config] to be set for [ix_volume] type")
		}
		if len(ixVolumes) == 0 {
			return "", fail(ErrMissingVolumeMap, "ix_volumes", "expected [ix_volumes] to be set for [ix_volume] type")
		}
		p, ok := ixVolumes[cfg.DatasetName]
		if !ok || p == "" {
			return "", fail(ErrUnknownDataset, "ix_volume_config.dataset_name", "expected the key [%s] to be set in [ix_volumes]", cfg.DatasetName)
		}
		raw, field = p, "ix_volumes."+cfg.DatasetName

	default:
		return "", fail(ErrUnsupportedPathType, "type",
			"expected host path resolution to be called only for types [host_path, ix_volume], got [%s]", item.Type)
	}

	return validPath(field, raw)
}
