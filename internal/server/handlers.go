package server

import (
	"errors"
	"net/http"

	"github.com/ix-apps/storage-render/consts"
	"github.com/ix-apps/storage-render/internal/api"
	"github.com/ix-apps/storage-render/internal/compose"
	"github.com/ix-apps/storage-render/internal/log"
	"github.com/ix-apps/storage-render/internal/schemas"
	"github.com/ix-apps/storage-render/internal/storage"
)

func (s *RenderServer) HealthcheckHandler(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	return &schemas.HealthcheckResponse{
		Service: consts.ServiceName,
		Version: s.version,
	}, nil
}

func (s *RenderServer) MountsHandler(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	var req schemas.MountRequest
	if err := api.DecodeJSONBody(w, r, &req, true); err != nil {
		return nil, err
	}

	res, err := storage.BuildStorageItem(&req.Item, req.IxVolumes, req.PermOpts)
	if err != nil {
		return nil, requestError(err)
	}
	log.Debug(r.Context(), "Translated storage", "type", req.Item.Type, "target", res.VolMount.Target)
	return &res, nil
}

func (s *RenderServer) RenderHandler(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	var req schemas.RenderRequest
	if err := api.DecodeJSONBody(w, r, &req, true); err != nil {
		return nil, err
	}

	doc, err := compose.Render(r.Context(), &req)
	if err != nil {
		return nil, requestError(err)
	}
	return doc, nil
}

// requestError maps failures caused by the request content to 400.
func requestError(err error) error {
	var storageErr *storage.Error
	switch {
	case errors.As(err, &storageErr):
		return &api.Error{Status: http.StatusBadRequest, Err: err, Field: storageErr.Field}
	case errors.Is(err, schemas.ErrEmptyRequest),
		errors.Is(err, compose.ErrConflictingVolume),
		errors.Is(err, compose.ErrConflictingPermission),
		errors.Is(err, compose.ErrReservedServiceName):
		return &api.Error{Status: http.StatusBadRequest, Err: err}
	}
	return err
}
