package compose

import (
	"context"
	"fmt"
	"runtime"

	"github.com/dustin/go-humanize"
	"github.com/ix-apps/storage-render/consts"
	"github.com/ix-apps/storage-render/internal/gerrors"
	"github.com/ix-apps/storage-render/internal/log"
	"github.com/ix-apps/storage-render/internal/schemas"
	"github.com/ix-apps/storage-render/internal/storage"
	"golang.org/x/sync/errgroup"
)

type job struct {
	service string
	index   int
	entry   *schemas.StorageEntry
}

func (j job) String() string {
	return fmt.Sprintf("service [%s] storage [%d]", j.service, j.index)
}

// Render translates every storage entry of req and assembles the document.
// Entries are translated concurrently. Any failure aborts the render; when several
// entries fail, the first one in service-name then declaration order is reported.
func Render(ctx context.Context, req *schemas.RenderRequest) (*Document, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, ok := req.Services[consts.PermissionsServiceName]; ok {
		return nil, fmt.Errorf("%w: [%s] is used by the permissions init service", ErrReservedServiceName, consts.PermissionsServiceName)
	}

	var jobs []job
	for _, name := range req.ServiceNames() {
		entries := req.Services[name].Storage
		for i := range entries {
			jobs = append(jobs, job{service: name, index: i, entry: &entries[i]})
		}
	}

	results, err := translate(ctx, req.IxVolumes, jobs)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Services: make(map[string]*Service, len(req.Services)),
		Volumes:  storage.TopLevelVolumes{},
	}
	for _, name := range req.ServiceNames() {
		doc.service(name)
	}

	origins := make(map[string]job)
	var fixes []serviceFix
	for idx, j := range jobs {
		res := results[idx]
		svc := doc.service(j.service)
		svc.Volumes = append(svc.Volumes, res.VolMount)

		for name, def := range res.Vol {
			if existing, ok := doc.Volumes[name]; ok && !existing.Equal(def) {
				return nil, fmt.Errorf("%w: volume [%s] of %s differs from the one declared by %s", ErrConflictingVolume, name, j, origins[name])
			}
			if _, ok := origins[name]; !ok {
				origins[name] = j
			}
			doc.Volumes[name] = def
		}

		if res.PermsItem != nil {
			fixes = append(fixes, serviceFix{service: j.service, fix: res.PermsItem})
		}
	}
	if len(doc.Volumes) == 0 {
		doc.Volumes = nil
	}

	image := req.PermissionsImage
	if image == "" {
		image = consts.PermissionsImage
	}
	if err := addPermissions(ctx, doc, image, fixes); err != nil {
		return nil, err
	}

	log.Info(ctx, "Rendered compose document", "services", len(req.Services), "mounts", len(jobs), "volumes", len(doc.Volumes), "permissions", len(fixes))
	return doc, nil
}

func translate(ctx context.Context, ixVolumes storage.IxVolumes, jobs []job) ([]storage.StorageItemResult, error) {
	results := make([]storage.StorageItemResult, len(jobs))
	errs := make([]error, len(jobs))

	// A sibling failure must not cancel the others: every entry is translated so the
	// reported error does not depend on scheduling.
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for idx, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := storage.BuildStorageItem(&j.entry.StorageItem, ixVolumes, j.entry.Permissions)
			if err != nil {
				errs[idx] = fmt.Errorf("%s: %w", j, err)
				return errs[idx]
			}
			results[idx] = res
			logTranslated(ctx, j, res)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, e := range errs {
			if e != nil {
				return nil, e
			}
		}
		return nil, gerrors.Wrap(err)
	}
	return results, nil
}

func logTranslated(ctx context.Context, j job, res storage.StorageItemResult) {
	args := []interface{}{"service", j.service, "index", j.index, "type", j.entry.Type, "target", res.VolMount.Target}
	if res.VolMount.Source != "" {
		args = append(args, "source", res.VolMount.Source)
	}
	engine := res.VolMount.DockerMount()
	if engine.BindOptions != nil {
		args = append(args, "propagation", engine.BindOptions.Propagation)
	}
	if engine.TmpfsOptions != nil {
		if engine.TmpfsOptions.SizeBytes > 0 {
			args = append(args, "size", humanize.IBytes(uint64(engine.TmpfsOptions.SizeBytes)))
		}
		if engine.TmpfsOptions.Mode != 0 {
			args = append(args, "mode", engine.TmpfsOptions.Mode)
		}
	}
	log.Debug(ctx, "Translated storage", args...)
}
