package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidPath_Clean(t *testing.T) {
	p, err := ValidPath("/mnt//pool/./data/")
	require.NoError(t, err)
	require.Equal(t, "/mnt/pool/data", p)
}

func TestValidPath_Root(t *testing.T) {
	p, err := ValidPath("/")
	require.NoError(t, err)
	require.Equal(t, "/", p)
}

func TestValidPath_Errors(t *testing.T) {
	for _, raw := range []string{"", "  ", "relative/path", "/mnt/../etc", "/mnt/.."} {
		_, err := ValidPath(raw)
		assert.ErrorIs(t, err, ErrInvalidPath, raw)
	}
}

func TestValidPath_DotsInNameAllowed(t *testing.T) {
	p, err := ValidPath("/mnt/..data")
	require.NoError(t, err)
	require.Equal(t, "/mnt/..data", p)
}

func TestResolveHostPath_HostPath(t *testing.T) {
	p, err := ResolveHostPath(hostPathItem("/mnt/pool/data"), nil)
	require.NoError(t, err)
	assert.Equal(t, "/mnt/pool/data", p)
}

func TestResolveHostPath_ErrorACLWithoutDescriptor(t *testing.T) {
	item := hostPathItem("/mnt/pool/data")
	item.HostPathConfig.ACLEnable = true
	_, err := ResolveHostPath(item, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestResolveHostPath_ErrorEmptyDatasetPath(t *testing.T) {
	item := &StorageItem{Type: TypeIxVolume, IxVolumeConfig: &IxVolumeConfig{DatasetName: "data"}}
	_, err := ResolveHostPath(item, IxVolumes{"data": "", "other": "/mnt/other"})
	assert.ErrorIs(t, err, ErrUnknownDataset)
}

func TestResolveHostPath_ErrorRelativeDatasetPath(t *testing.T) {
	item := &StorageItem{Type: TypeIxVolume, IxVolumeConfig: &IxVolumeConfig{DatasetName: "data"}}
	_, err := ResolveHostPath(item, IxVolumes{"data": "mnt/data"})
	assert.ErrorIs(t, err, ErrInvalidPath)

	var storageErr *Error
	require.True(t, errors.As(err, &storageErr))
	assert.Equal(t, "ix_volumes.data", storageErr.Field)
}

func TestResolveHostPath_ErrorUnsupportedType(t *testing.T) {
	for _, typ := range []Type{TypeVolume, TypeNFS, TypeCIFS, TypeTmpfs, TypeAnonymous} {
		_, err := ResolveHostPath(&StorageItem{Type: typ}, nil)
		assert.ErrorIs(t, err, ErrUnsupportedPathType, typ)
	}
}

func TestResolveHostPath_ErrorNilItem(t *testing.T) {
	assert.NotPanics(t, func() {
		_, err := ResolveHostPath(nil, IxVolumes{"data": "/mnt/data"})
		assert.ErrorIs(t, err, ErrInvalidType)
	})
}
