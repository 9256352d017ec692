package storage

// PermDir is a single ownership/mode correction applied by an init container.
type PermDir struct {
	Dir   string `json:"dir" yaml:"dir"`
	Mode  string `json:"mode" yaml:"mode"`
	UID   int    `json:"uid" yaml:"uid"`
	GID   int    `json:"gid" yaml:"gid"`
	Chmod string `json:"chmod" yaml:"chmod"`
}

// PermissionFix pairs the mount the init container needs with the correction to apply.
type PermissionFix struct {
	VolMount MountDescriptor `json:"vol_mount" yaml:"vol_mount"`
	PermDir  PermDir         `json:"perm_dir" yaml:"perm_dir"`
}

// BuildPermissionFix derives the permission-correction directive of an item.
// It returns nil when auto_permissions is off or the path is ACL-managed.
// The mount is resolved at opts.MountPath instead of the item's own mount_path.
func BuildPermissionFix(item *StorageItem, ixVolumes IxVolumes, opts *PermissionOptions) (*PermissionFix, error) {
	if item == nil || !item.AutoPermissions {
		return nil, nil
	}
	if aclManaged(item) {
		return nil, nil
	}

	if opts == nil {
		opts = &PermissionOptions{}
	}
	missing := ""
	switch {
	case opts.MountPath == "":
		missing = "mount_path"
	case opts.Mode == "":
		missing = "mode"
	case opts.UID == nil:
		missing = "uid"
	case opts.GID == nil:
		missing = "gid"
	}
	if missing != "" {
		return nil, fail(ErrMissingPermOpt, missing, "expected permission options to have [%s] key", missing)
	}

	// Items are inputs; translate a copy.
	relocated := *item
	relocated.MountPath = opts.MountPath

	m, err := BuildMount(&relocated, ixVolumes)
	if err != nil {
		return nil, err
	}

	return &PermissionFix{
		VolMount: m,
		PermDir: PermDir{
			Dir:   m.Target,
			Mode:  opts.Mode,
			UID:   *opts.UID,
			GID:   *opts.GID,
			Chmod: opts.Chmod,
		},
	}, nil
}

func aclManaged(item *StorageItem) bool {
	switch item.Type {
	case TypeHostPath:
		return item.HostPathConfig != nil && item.HostPathConfig.ACLEnable
	case TypeIxVolume:
		return item.IxVolumeConfig != nil && item.IxVolumeConfig.ACLEnable
	}
	return false
}
