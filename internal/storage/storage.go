// Package storage translates UI storage declarations into compose mounts,
// top-level named volumes and permission-fix directives.
//
// All functions are pure: they hold no state between calls and never touch the
// filesystem, so they are safe for concurrent use as long as the IxVolumes table
// is not mutated while translations run.
package storage

// StorageItemResult holds the three artifacts produced for a single item.
type StorageItemResult struct {
	VolMount  MountDescriptor `json:"vol_mount" yaml:"vol_mount"`
	Vol       TopLevelVolumes `json:"vol" yaml:"vol"`
	PermsItem *PermissionFix  `json:"perms_item" yaml:"perms_item"`
}

// BuildStorageItem runs every translation for item.
// The permission fix is only considered when permOpts is given and not empty.
func BuildStorageItem(item *StorageItem, ixVolumes IxVolumes, permOpts *PermissionOptions) (StorageItemResult, error) {
	var res StorageItemResult
	var err error

	if res.VolMount, err = BuildMount(item, ixVolumes); err != nil {
		return StorageItemResult{}, err
	}
	if res.Vol, err = BuildTopLevelVolume(item); err != nil {
		return StorageItemResult{}, err
	}
	if permOpts != nil && *permOpts != (PermissionOptions{}) {
		if res.PermsItem, err = BuildPermissionFix(item, ixVolumes, permOpts); err != nil {
			return StorageItemResult{}, err
		}
	}

	return res, nil
}
