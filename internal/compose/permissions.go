package compose

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ix-apps/storage-render/consts"
	"github.com/ix-apps/storage-render/internal/gerrors"
	"github.com/ix-apps/storage-render/internal/log"
	"github.com/ix-apps/storage-render/internal/storage"
)

type serviceFix struct {
	service string
	fix     *storage.PermissionFix
}

// addPermissions emits the permissions init service and makes every service that
// requested a correction wait for it. Actions and mounts are unique per directory.
// A directory fed by two different sources is an error; otherwise the first declaration wins.
func addPermissions(ctx context.Context, doc *Document, image string, fixes []serviceFix) error {
	if len(fixes) == 0 {
		return nil
	}

	doc.Permissions = make(map[string][]storage.PermDir)
	seen := make(map[string]serviceFix)
	var actions []storage.PermDir
	var mounts []storage.MountDescriptor

	for _, f := range fixes {
		doc.Permissions[f.service] = append(doc.Permissions[f.service], f.fix.PermDir)

		dependent := doc.service(f.service)
		if dependent.DependsOn == nil {
			dependent.DependsOn = make(map[string]DependsOn)
		}
		dependent.DependsOn[consts.PermissionsServiceName] = DependsOn{Condition: ConditionCompletedSuccessfully}

		dir := f.fix.PermDir.Dir
		if prev, ok := seen[dir]; ok {
			if prev.fix.VolMount.Source != f.fix.VolMount.Source {
				return fmt.Errorf("%w: [%s] of service [%s] mounts [%s], service [%s] already mounts [%s] there",
					ErrConflictingPermission, dir, f.service, f.fix.VolMount.Source, prev.service, prev.fix.VolMount.Source)
			}
			if prev.fix.PermDir != f.fix.PermDir {
				log.Warning(ctx, "Ignoring duplicate permission action", "dir", dir, "service", f.service, "kept", prev.service)
			}
			continue
		}
		seen[dir] = f
		actions = append(actions, f.fix.PermDir)
		mounts = append(mounts, f.fix.VolMount)
	}

	encoded, err := json.Marshal(actions)
	if err != nil {
		return gerrors.Wrapf(err, "encoding permission actions")
	}

	doc.Services[consts.PermissionsServiceName] = &Service{
		Image:       image,
		User:        "root",
		NetworkMode: "none",
		CapDrop:     []string{"ALL"},
		CapAdd:      []string{"CHOWN", "DAC_OVERRIDE", "FOWNER"},
		Environment: map[string]string{consts.PermissionsActionsEnv: string(encoded)},
		Volumes:     mounts,
	}
	log.Debug(ctx, "Added permissions service", "actions", len(actions), "image", image)
	return nil
}
