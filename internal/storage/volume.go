package storage

// VolumeDefinition is a top-level named volume. A nil DriverOpts means the default local driver.
type VolumeDefinition struct {
	DriverOpts *DriverOpts `json:"driver_opts,omitempty" yaml:"driver_opts,omitempty"`
}

func (v VolumeDefinition) Equal(other VolumeDefinition) bool {
	if v.DriverOpts == nil || other.DriverOpts == nil {
		return v.DriverOpts == other.DriverOpts
	}
	return *v.DriverOpts == *other.DriverOpts
}

// TopLevelVolumes maps a volume name to its definition.
type TopLevelVolumes map[string]VolumeDefinition

// BuildTopLevelVolume returns the named-volume definition for volume, nfs and cifs items.
// Other types need no top-level volume and get nil.
func BuildTopLevelVolume(item *StorageItem) (TopLevelVolumes, error) {
	family, err := ResolveType(item)
	if err != nil {
		return nil, err
	}
	if family != FamilyVolume {
		return nil, nil
	}

	if item.VolumeName == "" {
		return nil, fail(ErrMissingVolumeName, "volume_name", "expected [volume_name] to be set for [%s] type", item.Type)
	}

	var def VolumeDefinition
	switch item.Type {
	case TypeCIFS:
		opts, err := CIFSDriverOpts(item.CIFSConfig)
		if err != nil {
			return nil, err
		}
		def.DriverOpts = &opts
	case TypeNFS:
		opts, err := NFSDriverOpts(item.NFSConfig)
		if err != nil {
			return nil, err
		}
		def.DriverOpts = &opts
	}

	return TopLevelVolumes{item.VolumeName: def}, nil
}
