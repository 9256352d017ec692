package storage

import (
	"math"
	"os"
	"regexp"
	"slices"
	"strconv"

	"github.com/docker/docker/api/types/mount"
	"github.com/ix-apps/storage-render/consts"
)

var tmpfsModeRegexp = regexp.MustCompile(`^0[0-7]{3}$`)

// largest tmpfs size in MiB whose byte count fits in an int64
const maxTmpfsSizeMiB = math.MaxInt64 / consts.MiB

// MountDescriptor is the per-container mount in the compose long syntax.
// Exactly one of Bind, Volume and Tmpfs is set.
type MountDescriptor struct {
	Type     mount.Type     `json:"type" yaml:"type"`
	Source   string         `json:"source,omitempty" yaml:"source,omitempty"`
	Target   string         `json:"target" yaml:"target"`
	ReadOnly bool           `json:"read_only" yaml:"read_only"`
	Bind     *BindOptions   `json:"bind,omitempty" yaml:"bind,omitempty"`
	Volume   *VolumeOptions `json:"volume,omitempty" yaml:"volume,omitempty"`
	Tmpfs    *TmpfsOptions  `json:"tmpfs,omitempty" yaml:"tmpfs,omitempty"`
}

type BindOptions struct {
	CreateHostPath bool              `json:"create_host_path" yaml:"create_host_path"`
	Propagation    mount.Propagation `json:"propagation" yaml:"propagation"`
}

type VolumeOptions struct {
	NoCopy bool `json:"nocopy" yaml:"nocopy"`
}

type TmpfsOptions struct {
	Size int64   `json:"size,omitempty" yaml:"size,omitempty"` // bytes
	Mode *uint32 `json:"mode,omitempty" yaml:"mode,omitempty"`
}

// BuildMount translates a storage item into its per-container mount descriptor.
func BuildMount(item *StorageItem, ixVolumes IxVolumes) (MountDescriptor, error) {
	family, err := ResolveType(item)
	if err != nil {
		return MountDescriptor{}, err
	}

	target, err := validPath("mount_path", item.MountPath)
	if err != nil {
		return MountDescriptor{}, err
	}

	m := MountDescriptor{
		Type:     family.MountType(),
		Target:   target,
		ReadOnly: item.ReadOnly,
	}

	switch family {
	case FamilyBind:
		source, err := ResolveHostPath(item, ixVolumes)
		if err != nil {
			return MountDescriptor{}, err
		}
		propagation, err := resolvePropagation(item)
		if err != nil {
			return MountDescriptor{}, err
		}
		m.Source = source
		m.Bind = &BindOptions{
			CreateHostPath: createHostPath(item),
			Propagation:    propagation,
		}

	case FamilyVolume:
		if item.VolumeName == "" {
			return MountDescriptor{}, fail(ErrMissingVolumeName, "volume_name", "expected [volume_name] to be set for [%s] type", item.Type)
		}
		m.Source = item.VolumeName
		m.Volume = volumeOptions(item)

	case FamilyAnonymous:
		m.Volume = volumeOptions(item)

	case FamilyTmpfs:
		tmpfs, err := tmpfsOptions(item.TmpfsConfig)
		if err != nil {
			return MountDescriptor{}, err
		}
		m.Tmpfs = tmpfs
	}

	return m, nil
}

func resolvePropagation(item *StorageItem) (mount.Propagation, error) {
	if item.Propagation == "" {
		return consts.DefaultPropagation, nil
	}
	if !slices.Contains(PropagationTypes, item.Propagation) {
		return "", fail(ErrInvalidPropagation, "propagation", "expected [propagation] to be one of %s, got [%s]", oneOf(PropagationTypes), item.Propagation)
	}
	return item.Propagation, nil
}

func createHostPath(item *StorageItem) bool {
	if item.HostPathConfig != nil && item.HostPathConfig.CreateHostPath != nil {
		return *item.HostPathConfig.CreateHostPath
	}
	return true
}

func volumeOptions(item *StorageItem) *VolumeOptions {
	opts := &VolumeOptions{}
	if item.VolumeConfig != nil {
		opts.NoCopy = item.VolumeConfig.NoCopy
	}
	return opts
}

func tmpfsOptions(cfg *TmpfsConfig) (*TmpfsOptions, error) {
	opts := &TmpfsOptions{}
	if cfg == nil {
		return opts, nil
	}

	if cfg.Size != nil {
		if *cfg.Size <= 0 {
			return nil, fail(ErrInvalidTmpfsSize, "tmpfs_config.size", "expected [size] to be greater than 0 for [tmpfs] type, got [%d]", *cfg.Size)
		}
		if *cfg.Size > maxTmpfsSizeMiB {
			return nil, fail(ErrInvalidTmpfsSize, "tmpfs_config.size", "expected [size] to be at most [%d] MiB for [tmpfs] type, got [%d]", maxTmpfsSizeMiB, *cfg.Size)
		}
		opts.Size = *cfg.Size * consts.MiB
	}

	if cfg.Mode != "" {
		if !tmpfsModeRegexp.MatchString(cfg.Mode) {
			return nil, fail(ErrInvalidTmpfsMode, "tmpfs_config.mode", "expected [mode] to be an octal string matching [0[0-7]{3}] for [tmpfs] type, got [%s]", cfg.Mode)
		}
		mode, err := strconv.ParseUint(cfg.Mode, 8, 32)
		if err != nil {
			return nil, fail(ErrInvalidTmpfsMode, "tmpfs_config.mode", "parsing [mode] [%s]: %v", cfg.Mode, err)
		}
		m := uint32(mode)
		opts.Mode = &m
	}

	return opts, nil
}

// DockerMount converts the descriptor for use with the Docker Engine API.
// create_host_path has no Engine API counterpart and is dropped.
func (m MountDescriptor) DockerMount() mount.Mount {
	dm := mount.Mount{
		Type:     m.Type,
		Source:   m.Source,
		Target:   m.Target,
		ReadOnly: m.ReadOnly,
	}
	if m.Bind != nil {
		dm.BindOptions = &mount.BindOptions{Propagation: m.Bind.Propagation}
	}
	if m.Volume != nil {
		dm.VolumeOptions = &mount.VolumeOptions{NoCopy: m.Volume.NoCopy}
	}
	if m.Tmpfs != nil {
		dm.TmpfsOptions = &mount.TmpfsOptions{SizeBytes: m.Tmpfs.Size}
		if m.Tmpfs.Mode != nil {
			dm.TmpfsOptions.Mode = os.FileMode(*m.Tmpfs.Mode)
		}
	}
	return dm
}
