package storage

import (
	"errors"
	"fmt"
	"strings"
)

/*
Error kinds returned by the translation functions.
Every failure is returned as *Error wrapping one of these, so callers classify with errors.Is:

	if _, err := storage.BuildMount(item, ixVolumes); errors.Is(err, storage.ErrUnknownDataset) {
		...
	}
*/
var (
	// storage type is unset or unrecognized
	ErrInvalidType = errors.New("invalid storage type")
	// bind propagation outside the allowed set
	ErrInvalidPropagation = errors.New("invalid propagation")
	// named volume without volume_name
	ErrMissingVolumeName = errors.New("missing volume name")
	// ix_volume translated without an ix_volumes table
	ErrMissingVolumeMap = errors.New("missing ix_volumes")
	// dataset name not present in ix_volumes
	ErrUnknownDataset = errors.New("unknown dataset")
	// caller-supplied remote mount option redeclares a managed key
	ErrReservedOptionKey = errors.New("reserved option key")
	// caller-supplied remote mount option is not key=value
	ErrMalformedOption = errors.New("malformed option")
	ErrInvalidTmpfsSize  = errors.New("invalid tmpfs size")
	ErrInvalidTmpfsMode  = errors.New("invalid tmpfs mode")
	// permission fix requested without a required option
	ErrMissingPermOpt = errors.New("missing permission option")
	// host path resolution called for a non-bind type; a programming error
	ErrUnsupportedPathType = errors.New("unsupported path type")
	// empty, relative or otherwise malformed path
	ErrInvalidPath = errors.New("invalid path")
	// nested config missing or inconsistent with the storage type
	ErrInvalidConfig = errors.New("invalid storage config")
)

// Error is a translation failure. Field names the offending input field.
type Error struct {
	Kind  error
	Field string
	Msg   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func fail(kind error, field string, format string, a ...interface{}) error {
	return &Error{
		Kind:  kind,
		Field: field,
		Msg:   fmt.Sprintf(format, a...),
	}
}

// oneOf renders a bounded set of legal values for error messages.
func oneOf[T ~string](values []T) string {
	s := make([]string, 0, len(values))
	for _, v := range values {
		s = append(s, string(v))
	}
	return "[" + strings.Join(s, ", ") + "]"
}
