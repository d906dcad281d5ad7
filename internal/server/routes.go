package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

//go:embed static
var staticFiles embed.FS

const shutdownTimeout = 10 * time.Second

// SetupRoutes registers the API, the browser UI, health and metrics.
// metricsHandler may be nil.
func SetupRoutes(svc *GenerateService, metricsHandler http.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", serveStatic("static/index.html", "text/html; charset=utf-8"))
	mux.HandleFunc("GET /app.js", serveStatic("static/app.js", "application/javascript"))
	mux.HandleFunc("POST /api/generate-from-path", svc.GenerateFromPath)
	mux.HandleFunc("GET /api/history", svc.ListHistory)
	mux.HandleFunc("GET /healthz", svc.Health)
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}
	mux.HandleFunc("/", NotFound)

	return logRequests(svc.Logger, mux)
}

func serveStatic(name, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := staticFiles.ReadFile(name)
		if err != nil {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "Not found"})
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Write(data)
	}
}

// ListenAndServe serves handler on port until ctx is canceled, then shuts
// down gracefully.
func ListenAndServe(ctx context.Context, port int, handler http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("EDI 834 generator listening", zap.String("url", fmt.Sprintf("http://localhost:%d", port)))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
