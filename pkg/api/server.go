// Package api pngme REST API
//
// The API keeps uploaded PNG files in an archive and lets clients hide,
// read and strip messages in their chunks. All routes under /api/v1
// require the X-API-Key header; /metrics is open for scraping.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter builds the HTTP handler for s
func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", s.metrics.Handler())

	m := s.metrics
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(m.InstrumentAuthMiddleware(apiKeyMiddleware(s.config.APIKey)))

		r.Get("/health", m.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))

		r.Post("/images", m.InstrumentHandler("POST", "/api/v1/images", s.handleCreateImage))
		r.Get("/images", m.InstrumentHandler("GET", "/api/v1/images", s.handleListImages))
		r.Get("/images/{id}", m.InstrumentHandler("GET", "/api/v1/images/{id}", s.handleGetImage))
		r.Delete("/images/{id}", m.InstrumentHandler("DELETE", "/api/v1/images/{id}", s.handleDeleteImage))

		r.Get("/images/{id}/chunks", m.InstrumentHandler("GET", "/api/v1/images/{id}/chunks", s.handleListChunks))
		r.Delete("/images/{id}/chunks/{type}",
			m.InstrumentHandler("DELETE", "/api/v1/images/{id}/chunks/{type}", s.handleRemoveChunk))

		r.Post("/images/{id}/messages", m.InstrumentHandler("POST", "/api/v1/images/{id}/messages", s.handleEncodeMessage))
		r.Get("/images/{id}/messages/{type}",
			m.InstrumentHandler("GET", "/api/v1/images/{id}/messages/{type}", s.handleDecodeMessage))
	})

	return r
}

// StartServer serves the API until ctx is cancelled, then shuts down
// gracefully.
func StartServer(ctx context.Context, archive ImageArchive, config ServerConfig, logger *slog.Logger) error {
	if config.APIKey == "" {
		return errors.New("an API key is required")
	}

	metrics := NewMetrics()
	server := NewServer(archive, config, metrics, logger)
	server.refreshArchiveStats()

	addr := net.JoinHostPort(config.Bind, strconv.Itoa(config.Port))
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(server),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		server.logger.Info("starting pngme REST API server", "addr", addr, "metrics", fmt.Sprintf("http://%s/metrics", addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	server.logger.Info("shutting down pngme REST API server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
