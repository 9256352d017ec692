package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ix-apps/storage-render/internal/api"
	"github.com/ix-apps/storage-render/internal/log"
)

const shutdownTimeout = 5 * time.Second

type RenderServer struct {
	HttpServer *http.Server

	version string
}

func NewRenderServer(address string, version string) *RenderServer {
	r := api.NewRouter()
	s := &RenderServer{
		HttpServer: &http.Server{
			Addr:              address,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},

		version: version,
	}
	r.AddHandler("GET", "/api/healthcheck", s.HealthcheckHandler)
	r.AddHandler("POST", "/api/mounts", s.MountsHandler)
	r.AddHandler("POST", "/api/render", s.RenderHandler)
	return s
}

// Run serves until ctx is done, then shuts the server down gracefully.
func (s *RenderServer) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "Starting API server", "address", s.HttpServer.Addr)
		if err := s.HttpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info(ctx, "Received interrupt signal, shutting down")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	return s.HttpServer.Shutdown(shutdownCtx)
}
