package storage

import (
	"slices"
	"strings"
)

var (
	cifsManagedKeys = []string{"user", "password", "domain"}
	nfsManagedKeys  = []string{"addr"}
)

// DriverOpts are the local-driver options of a remote-filesystem volume.
type DriverOpts struct {
	Type   string `json:"type" yaml:"type"`
	Device string `json:"device" yaml:"device"`
	O      string `json:"o" yaml:"o"`
}

// CIFSDriverOpts builds the driver options of a cifs volume.
// Managed options always come first, caller options follow in their original order.
func CIFSDriverOpts(cfg *CIFSConfig) (DriverOpts, error) {
	if cfg == nil {
		return DriverOpts{}, fail(ErrInvalidConfig, "cifs_config", "expected [cifs_config] to be set for [cifs] type")
	}

	opts := []string{
		"user=" + cfg.Username,
		"password=" + cfg.Password,
	}
	if cfg.Domain != "" {
		opts = append(opts, "domain="+cfg.Domain)
	}

	opts, err := appendExtraOptions(opts, cfg.Options, cifsManagedKeys, "cifs_config.options", TypeCIFS)
	if err != nil {
		return DriverOpts{}, err
	}

	return DriverOpts{
		Type:   string(TypeCIFS),
		Device: "//" + strings.TrimLeft(cfg.Server, "/") + "/" + cfg.Path,
		O:      strings.Join(opts, ","),
	}, nil
}

// NFSDriverOpts builds the driver options of an nfs volume.
func NFSDriverOpts(cfg *NFSConfig) (DriverOpts, error) {
	if cfg == nil {
		return DriverOpts{}, fail(ErrInvalidConfig, "nfs_config", "expected [nfs_config] to be set for [nfs] type")
	}

	opts, err := appendExtraOptions([]string{"addr=" + cfg.Server}, cfg.Options, nfsManagedKeys, "nfs_config.options", TypeNFS)
	if err != nil {
		return DriverOpts{}, err
	}

	return DriverOpts{
		Type:   string(TypeNFS),
		Device: ":" + cfg.Path,
		O:      strings.Join(opts, ","),
	}, nil
}

func appendExtraOptions(opts []string, extra []string, managed []string, field string, t Type) ([]string, error) {
	for _, opt := range extra {
		key, _, found := strings.Cut(opt, "=")
		if !found || strings.TrimSpace(key) == "" {
			return nil, fail(ErrMalformedOption, field, "expected [%s] entries to be in the form [key=value] for [%s] type, got [%s]", field, t, opt)
		}
		if slices.Contains(managed, key) {
			return nil, fail(ErrReservedOptionKey, field, "expected [%s] to not start with [%s] for [%s] type", field, key, t)
		}
		opts = append(opts, opt)
	}
	return opts, nil
}
