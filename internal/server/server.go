// Package server exposes the resolver as a read-only JSON API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/lepinkainen/sanad/internal/cache"
	"github.com/lepinkainen/sanad/internal/hadith"
	"github.com/lepinkainen/sanad/internal/pagination"
	"github.com/lepinkainen/sanad/internal/resolver"
)

const (
	readHeaderTimeout = 5 * time.Second
	writeTimeout      = 90 * time.Second
	idleTimeout       = 120 * time.Second
	shutdownTimeout   = 10 * time.Second
	requestTimeout    = 60 * time.Second
)

// Resolver is the read API the server exposes.
type Resolver interface {
	Collections(ctx context.Context) []hadith.Collection
	Books(ctx context.Context, collectionID string) []hadith.Book
	Hadiths(ctx context.Context, q resolver.ListQuery) pagination.Result[hadith.Hadith]
	Hadith(ctx context.Context, collectionID string, number int) *hadith.Hadith
	Search(ctx context.Context, q resolver.SearchQuery) pagination.Result[hadith.Hadith]
}

// Server wraps the chi router and the http.Server.
type Server struct {
	resolver   Resolver
	cache      *cache.Cache
	logger     *slog.Logger
	router     *chi.Mux
	httpServer *http.Server
}

// New builds the router. c may be nil; it only feeds /healthz statistics.
func New(r Resolver, c *cache.Cache, addr string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{resolver: r, cache: c, logger: logger}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(structuredLogger(logger))
	router.Use(panicRecovery(logger))
	router.Use(chimw.Timeout(requestTimeout))
	router.Use(chimw.CleanPath)

	router.Get("/healthz", s.health)
	router.Get("/collections", s.collections)
	router.Route("/collections/{id}", func(r chi.Router) {
		r.Get("/books", s.books)
		r.Get("/hadiths", s.hadiths)
		r.Get("/hadiths/{number}", s.hadith)
	})
	router.Get("/search", s.search)
	router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "no such route")
	})

	s.router = router
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting", "addr", s.httpServer.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
