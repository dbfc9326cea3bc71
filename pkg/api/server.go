// Package api serves the mind map pipeline and the saved-map store over HTTP.
//
// Routes are mounted on a chi router:
//
//	POST   /v1/layout              tree -> layout JSON
//	POST   /v1/render              tree or layout -> artifact (?format=svg|png|pdf|json|dot)
//	POST   /v1/generate            multipart documents ("file") -> trees
//	GET    /v1/maps                list the caller's maps
//	POST   /v1/maps                save a map
//	GET    /v1/maps/{id}           fetch a map
//	PATCH  /v1/maps/{id}           rename and/or replace the tree
//	DELETE /v1/maps/{id}           delete a map
//	GET    /v1/maps/{id}/layout    lay out (and optionally render) a saved map
//	GET    /v1/topics              list saved topics
//	POST   /v1/topics              save a topic
//	DELETE /v1/topics              remove a topic
//	POST   /v1/recommendations     suggest related topics
//	GET    /healthz                liveness
//
// Every /v1 route except layout and render requires an X-User-ID header.
// Errors are written as {"code": ..., "message": ...} with the status
// derived from the error code.
package api

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/topicmap/pkg/integrations/openai"
	"github.com/matzehuels/topicmap/pkg/pipeline"
	"github.com/matzehuels/topicmap/pkg/store"
)

// UserHeader carries the caller's identity.
const UserHeader = "X-User-ID"

const (
	// DefaultMaxUploadBytes bounds multipart uploads to /v1/generate.
	DefaultMaxUploadBytes = 20 << 20
	// maxJSONBytes bounds JSON request bodies.
	maxJSONBytes    = 4 << 20
	shutdownTimeout = 10 * time.Second
)

// Recommender suggests topics related to a user's interests.
// *openai.Client satisfies it.
type Recommender interface {
	Recommend(ctx context.Context, interests []string, engagement []openai.Engagement, refresh bool) ([]openai.Recommendation, error)
}

// Config tunes request handling. Zero values select the defaults.
type Config struct {
	MaxUploadBytes int64
	// LinkTemplate is applied to rendered SVGs when a request sets none.
	LinkTemplate string
	Iterations   int
	Seed         uint64
}

// Server holds the collaborators shared by all handlers.
type Server struct {
	runner      *pipeline.Runner
	store       store.Store
	recommender Recommender
	logger      *log.Logger
	cfg         Config
}

// New creates a server. store and recommender may be nil, in which case the
// routes that need them respond with UNSUPPORTED.
func New(runner *pipeline.Runner, st store.Store, rec Recommender, logger *log.Logger, cfg Config) *Server {
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	if logger == nil {
		logger = log.Default()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	return &Server{runner: runner, store: st, recommender: rec, logger: logger, cfg: cfg}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, notFoundRoute(r))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)

		r.Group(func(r chi.Router) {
			r.Use(requireUser)
			r.Post("/generate", s.handleGenerate)

			r.Route("/maps", func(r chi.Router) {
				r.Get("/", s.handleListMaps)
				r.Post("/", s.handleCreateMap)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetMap)
					r.Patch("/", s.handleUpdateMap)
					r.Delete("/", s.handleDeleteMap)
					r.Get("/layout", s.handleMapLayout)
				})
			})

			r.Route("/topics", func(r chi.Router) {
				r.Get("/", s.handleListTopics)
				r.Post("/", s.handleSaveTopic)
				r.Delete("/", s.handleRemoveTopic)
			})

			r.Post("/recommendations", s.handleRecommend)
		})
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// logRequests logs one line per request once the response is written.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		kv := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()),
		}
		if status >= http.StatusInternalServerError {
			s.logger.Error("request", kv...)
			return
		}
		s.logger.Debug("request", kv...)
	})
}
