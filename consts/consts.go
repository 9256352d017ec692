package consts

import "github.com/docker/docker/api/types/mount"

// Bind propagation used when a storage item does not declare one
const DefaultPropagation = mount.PropagationRPrivate

// tmpfs sizes are declared in Mebibytes and emitted in bytes
const MiB int64 = 1024 * 1024

// Compose document defaults
const (
	// Name of the init service that applies permission fixes
	PermissionsServiceName = "permissions"
	// Image of the init service, overridable per render request
	PermissionsImage = "ixsystems/container-utils:1.0.2"
	// Env var carrying the JSON-encoded list of permission actions
	PermissionsActionsEnv = "ACTIONS"
)

// HTTP service defaults
const (
	ServiceName    = "storage-render"
	ServerHTTPPort = 10990
	// logrus.InfoLevel
	DefaultLogLevel = 4
)
