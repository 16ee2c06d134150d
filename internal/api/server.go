package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/mdwiki/internal/config"
	"github.com/dgallion1/mdwiki/internal/pipeline"
	"github.com/dgallion1/mdwiki/internal/render"
	"github.com/dgallion1/mdwiki/internal/stats"
	"github.com/dgallion1/mdwiki/internal/store"
)

// Documents is the document persistence the handlers need.
type Documents interface {
	GetDocument(ctx context.Context, id string) (*store.Document, error)
	PutDocument(ctx context.Context, doc *store.Document) error
	DeleteDocument(ctx context.Context, id string) error
	ListDocuments(ctx context.Context, limit int) ([]store.Document, error)
}

// Server is the HTTP API server for mdwiki.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	docs         Documents
	renderer     *render.Renderer
	stats        *stats.Recorder
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, docs Documents, renderer *render.Renderer, rec *stats.Recorder, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		docs:         docs,
		renderer:     renderer,
		stats:        rec,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	r.Get("/api/render/style.css", s.handleStyleCSS)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/render", s.handleRender)
		r.Post("/api/toc", s.handleTOC)

		r.Post("/api/hunks", s.handleSegment)
		r.Post("/api/hunks/join", s.handleJoin)
		r.Post("/api/hunks/preview", s.handlePreview)

		r.Get("/api/documents", s.handleListDocuments)
		r.Post("/api/documents", s.handleCreateDocument)
		r.Get("/api/documents/{docID}", s.handleGetDocument)
		r.Put("/api/documents/{docID}", s.handlePutDocument)
		r.Delete("/api/documents/{docID}", s.handleDeleteDocument)
		r.Get("/api/documents/{docID}/html", s.handleRenderDocument)
		r.Post("/api/documents/{docID}/hunks", s.handleEditHunks)

		r.Post("/api/import", s.handleImport)
		r.Post("/api/import/batch", s.handleBatchImport)
		r.Get("/api/import/{jobID}/status", s.handleImportStatus)

		r.Get("/api/stats/render", s.handleRenderStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
