package storage

import (
	"encoding/json"
	"math"
	"os"
	"testing"

	"github.com/docker/docker/api/types/mount"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func boolPtr(b bool) *bool {
	return &b
}

func int64Ptr(i int64) *int64 {
	return &i
}

func hostPathItem(path string) *StorageItem {
	return &StorageItem{
		Type:           TypeHostPath,
		MountPath:      "/data",
		HostPathConfig: &HostPathConfig{Path: path},
	}
}

func TestResolveType_Families(t *testing.T) {
	expected := map[Type]mount.Type{
		TypeHostPath:  mount.TypeBind,
		TypeIxVolume:  mount.TypeBind,
		TypeVolume:    mount.TypeVolume,
		TypeNFS:       mount.TypeVolume,
		TypeCIFS:      mount.TypeVolume,
		TypeTmpfs:     mount.TypeTmpfs,
		TypeAnonymous: mount.TypeVolume,
	}
	for _, typ := range AllTypes {
		family, err := ResolveType(&StorageItem{Type: typ})
		require.NoError(t, err, typ)
		assert.Equal(t, expected[typ], family.MountType(), typ)
	}
}

func TestResolveType_Anonymous(t *testing.T) {
	family, err := ResolveType(&StorageItem{Type: TypeAnonymous})
	require.NoError(t, err)
	assert.Equal(t, FamilyAnonymous, family)
}

func TestResolveType_ErrorUnset(t *testing.T) {
	_, err := ResolveType(&StorageItem{})
	assert.ErrorIs(t, err, ErrInvalidType)
	assert.ErrorContains(t, err, "[type]")
}

func TestResolveType_ErrorUnknown(t *testing.T) {
	_, err := ResolveType(&StorageItem{Type: "smb"})
	assert.ErrorIs(t, err, ErrInvalidType)
	assert.ErrorContains(t, err, "[host_path, ix_volume, volume, nfs, cifs, tmpfs, anonymous]")
	assert.ErrorContains(t, err, "got [smb]")
}

func TestBuildMount_FamilyMatchesType(t *testing.T) {
	items := []*StorageItem{
		hostPathItem("/mnt/data"),
		{Type: TypeIxVolume, MountPath: "/data", IxVolumeConfig: &IxVolumeConfig{DatasetName: "data"}},
		{Type: TypeVolume, MountPath: "/data", VolumeName: "vol"},
		{Type: TypeNFS, MountPath: "/data", VolumeName: "vol", NFSConfig: &NFSConfig{Server: "s", Path: "/p"}},
		{Type: TypeCIFS, MountPath: "/data", VolumeName: "vol", CIFSConfig: &CIFSConfig{Server: "s", Path: "p"}},
		{Type: TypeTmpfs, MountPath: "/data"},
		{Type: TypeAnonymous, MountPath: "/data"},
	}
	expected := []mount.Type{
		mount.TypeBind, mount.TypeBind,
		mount.TypeVolume, mount.TypeVolume, mount.TypeVolume,
		mount.TypeTmpfs, mount.TypeVolume,
	}
	for i, item := range items {
		m, err := BuildMount(item, IxVolumes{"data": "/mnt/pool/data"})
		require.NoError(t, err, item.Type)
		assert.Equal(t, expected[i], m.Type, item.Type)
	}
}

func TestBuildMount_HostPath(t *testing.T) {
	item := hostPathItem("/mnt/pool/app/")
	item.ReadOnly = true

	m, err := BuildMount(item, nil)
	require.NoError(t, err)
	assert.Equal(t, MountDescriptor{
		Type:     mount.TypeBind,
		Source:   "/mnt/pool/app",
		Target:   "/data",
		ReadOnly: true,
		Bind: &BindOptions{
			CreateHostPath: true,
			Propagation:    mount.PropagationRPrivate,
		},
	}, m)
}

func TestBuildMount_HostPathPropagationDefault(t *testing.T) {
	m, err := BuildMount(hostPathItem("/mnt/data"), nil)
	require.NoError(t, err)
	assert.Equal(t, mount.Propagation("rprivate"), m.Bind.Propagation)
}

func TestBuildMount_HostPathPropagation(t *testing.T) {
	for _, p := range PropagationTypes {
		item := hostPathItem("/mnt/data")
		item.Propagation = p
		m, err := BuildMount(item, nil)
		require.NoError(t, err, p)
		assert.Equal(t, p, m.Bind.Propagation)
	}
}

func TestBuildMount_ErrorInvalidPropagation(t *testing.T) {
	item := hostPathItem("/mnt/data")
	item.Propagation = "bogus"
	_, err := BuildMount(item, nil)
	assert.ErrorIs(t, err, ErrInvalidPropagation)
	assert.ErrorContains(t, err, "[shared, slave, private, rshared, rslave, rprivate]")
}

func TestBuildMount_HostPathCreateHostPathOverride(t *testing.T) {
	item := hostPathItem("/mnt/data")
	item.HostPathConfig.CreateHostPath = boolPtr(false)
	m, err := BuildMount(item, nil)
	require.NoError(t, err)
	assert.False(t, m.Bind.CreateHostPath)
}

func TestBuildMount_HostPathACL(t *testing.T) {
	item := &StorageItem{
		Type:      TypeHostPath,
		MountPath: "/data",
		HostPathConfig: &HostPathConfig{
			Path:      "/ignored",
			ACLEnable: true,
			ACL:       &ACL{Path: "/mnt/acl"},
		},
	}
	m, err := BuildMount(item, nil)
	require.NoError(t, err)
	assert.Equal(t, "/mnt/acl", m.Source)
}

func TestBuildMount_IxVolume(t *testing.T) {
	item := &StorageItem{
		Type:           TypeIxVolume,
		MountPath:      "/data",
		IxVolumeConfig: &IxVolumeConfig{DatasetName: "tank/data"},
	}
	m, err := BuildMount(item, IxVolumes{"tank/data": "/mnt/tank/data"})
	require.NoError(t, err)
	assert.Equal(t, "/mnt/tank/data", m.Source)
	assert.Equal(t, mount.TypeBind, m.Type)
}

func TestBuildMount_ErrorUnknownDataset(t *testing.T) {
	item := &StorageItem{
		Type:           TypeIxVolume,
		MountPath:      "/data",
		IxVolumeConfig: &IxVolumeConfig{DatasetName: "missing"},
	}
	_, err := BuildMount(item, IxVolumes{"tank/data": "/mnt/tank/data"})
	assert.ErrorIs(t, err, ErrUnknownDataset)
	assert.ErrorContains(t, err, "[missing]")
}

func TestBuildMount_ErrorMissingVolumeMap(t *testing.T) {
	item := &StorageItem{
		Type:           TypeIxVolume,
		MountPath:      "/data",
		IxVolumeConfig: &IxVolumeConfig{DatasetName: "data"},
	}
	_, err := BuildMount(item, IxVolumes{})
	assert.ErrorIs(t, err, ErrMissingVolumeMap)
}

func TestBuildMount_ErrorRelativeMountPath(t *testing.T) {
	item := hostPathItem("/mnt/data")
	item.MountPath = "data"
	_, err := BuildMount(item, nil)
	assert.ErrorIs(t, err, ErrInvalidPath)
	assert.ErrorContains(t, err, "[mount_path]")
}

func TestBuildMount_ErrorMissingHostPathConfig(t *testing.T) {
	_, err := BuildMount(&StorageItem{Type: TypeHostPath, MountPath: "/data"}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestBuildMount_Volume(t *testing.T) {
	item := &StorageItem{
		Type:         TypeVolume,
		MountPath:    "/data",
		VolumeName:   "app-data",
		VolumeConfig: &VolumeConfig{NoCopy: true},
	}
	m, err := BuildMount(item, nil)
	require.NoError(t, err)
	assert.Equal(t, MountDescriptor{
		Type:   mount.TypeVolume,
		Source: "app-data",
		Target: "/data",
		Volume: &VolumeOptions{NoCopy: true},
	}, m)
}

func TestBuildMount_ErrorMissingVolumeName(t *testing.T) {
	_, err := BuildMount(&StorageItem{Type: TypeNFS, MountPath: "/data"}, nil)
	assert.ErrorIs(t, err, ErrMissingVolumeName)
	assert.ErrorContains(t, err, "[volume_name]")
}

func TestBuildMount_Anonymous(t *testing.T) {
	m, err := BuildMount(&StorageItem{Type: TypeAnonymous, MountPath: "/cache"}, nil)
	require.NoError(t, err)
	assert.Equal(t, MountDescriptor{
		Type:   mount.TypeVolume,
		Target: "/cache",
		Volume: &VolumeOptions{NoCopy: false},
	}, m)
}

func TestBuildMount_TmpfsEmpty(t *testing.T) {
	m, err := BuildMount(&StorageItem{Type: TypeTmpfs, MountPath: "/tmp", TmpfsConfig: &TmpfsConfig{}}, nil)
	require.NoError(t, err)
	assert.Equal(t, &TmpfsOptions{}, m.Tmpfs)
	assert.Nil(t, m.Bind)
	assert.Nil(t, m.Volume)
}

func TestBuildMount_TmpfsSize(t *testing.T) {
	for _, mib := range []int64{1, 64, 500, 1 << 20} {
		item := &StorageItem{Type: TypeTmpfs, MountPath: "/tmp", TmpfsConfig: &TmpfsConfig{Size: int64Ptr(mib)}}
		m, err := BuildMount(item, nil)
		require.NoError(t, err)
		assert.Equal(t, mib*1_048_576, m.Tmpfs.Size)
	}
}

func TestBuildMount_ErrorTmpfsSize(t *testing.T) {
	for _, mib := range []int64{0, -1, 1 << 44, math.MaxInt64} {
		item := &StorageItem{Type: TypeTmpfs, MountPath: "/tmp", TmpfsConfig: &TmpfsConfig{Size: int64Ptr(mib)}}
		_, err := BuildMount(item, nil)
		assert.ErrorIs(t, err, ErrInvalidTmpfsSize, mib)
	}
}

func TestBuildMount_TmpfsSizeUpperBound(t *testing.T) {
	item := &StorageItem{Type: TypeTmpfs, MountPath: "/tmp", TmpfsConfig: &TmpfsConfig{Size: int64Ptr(maxTmpfsSizeMiB)}}
	m, err := BuildMount(item, nil)
	require.NoError(t, err)
	assert.Equal(t, maxTmpfsSizeMiB*1_048_576, m.Tmpfs.Size)
	assert.Positive(t, m.Tmpfs.Size)

	item.TmpfsConfig.Size = int64Ptr(maxTmpfsSizeMiB + 1)
	_, err = BuildMount(item, nil)
	assert.ErrorIs(t, err, ErrInvalidTmpfsSize)
	assert.ErrorContains(t, err, "at most [8796093022207] MiB")
}

func TestBuildMount_TmpfsMode(t *testing.T) {
	item := &StorageItem{Type: TypeTmpfs, MountPath: "/tmp", TmpfsConfig: &TmpfsConfig{Mode: "0755"}}
	m, err := BuildMount(item, nil)
	require.NoError(t, err)
	require.NotNil(t, m.Tmpfs.Mode)
	assert.Equal(t, uint32(493), *m.Tmpfs.Mode)
}

func TestBuildMount_ErrorTmpfsMode(t *testing.T) {
	for _, mode := range []string{"755", "0778", "00755", "0o755", "rwx"} {
		item := &StorageItem{Type: TypeTmpfs, MountPath: "/tmp", TmpfsConfig: &TmpfsConfig{Mode: mode}}
		_, err := BuildMount(item, nil)
		assert.ErrorIs(t, err, ErrInvalidTmpfsMode, mode)
	}
}

func TestBuildMount_Idempotent(t *testing.T) {
	ixVolumes := IxVolumes{"tank/data": "/mnt/tank/data"}
	item := &StorageItem{
		Type:           TypeIxVolume,
		MountPath:      "/data",
		IxVolumeConfig: &IxVolumeConfig{DatasetName: "tank/data"},
	}
	first, err := BuildMount(item, ixVolumes)
	require.NoError(t, err)
	second, err := BuildMount(item, ixVolumes)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(firstJSON), string(secondJSON))

	firstYAML, err := yaml.Marshal(first)
	require.NoError(t, err)
	secondYAML, err := yaml.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(firstYAML), string(secondYAML))
}

func TestMountDescriptor_DockerMount(t *testing.T) {
	mode := uint32(0o1777)
	m := MountDescriptor{
		Type:   mount.TypeTmpfs,
		Target: "/tmp",
		Tmpfs:  &TmpfsOptions{Size: 64 * 1_048_576, Mode: &mode},
	}
	assert.Equal(t, mount.Mount{
		Type:         mount.TypeTmpfs,
		Target:       "/tmp",
		TmpfsOptions: &mount.TmpfsOptions{SizeBytes: 64 * 1_048_576, Mode: os.FileMode(0o1777)},
	}, m.DockerMount())

	bind, err := BuildMount(hostPathItem("/mnt/data"), nil)
	require.NoError(t, err)
	assert.Equal(t, mount.Mount{
		Type:        mount.TypeBind,
		Source:      "/mnt/data",
		Target:      "/data",
		BindOptions: &mount.BindOptions{Propagation: mount.PropagationRPrivate},
	}, bind.DockerMount())
}
