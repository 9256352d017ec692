package storage

import (
	"github.com/docker/docker/api/types/mount"
)

// Family is the engine-internal mount family a storage type translates to.
type Family string

const (
	FamilyBind   = Family(mount.TypeBind)
	FamilyVolume = Family(mount.TypeVolume)
	FamilyTmpfs  = Family(mount.TypeTmpfs)
	// FamilyAnonymous is a volume without a name
	FamilyAnonymous Family = "anonymous"
)

// MountType returns the compose mount type; anonymous mounts are volumes.
func (f Family) MountType() mount.Type {
	if f == FamilyAnonymous {
		return mount.TypeVolume
	}
	return mount.Type(f)
}

// ResolveType maps the declared storage type to its mount family.
func ResolveType(item *StorageItem) (Family, error) {
	if item == nil || item.Type == "" {
		return "", fail(ErrInvalidType, "type", "expected [type] to be set for storage")
	}

	switch item.Type {
	case TypeHostPath, TypeIxVolume:
		return FamilyBind, nil
	case TypeVolume, TypeNFS, TypeCIFS:
		return FamilyVolume, nil
	case TypeTmpfs:
		return FamilyTmpfs, nil
	case TypeAnonymous:
		return FamilyAnonymous, nil
	}

	return "", fail(ErrInvalidType, "type", "expected storage [type] to be one of %s, got [%s]", oneOf(AllTypes), item.Type)
}
