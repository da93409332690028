package api

import (
	"log/slog"
	"net/http"

	"github.com/deckgen/deckgen/internal/config"
	"github.com/deckgen/deckgen/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for deckgen.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
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

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.DeckgenAPIKey, s.log))

		r.Get("/api/stats", s.handleStats)
		r.Post("/api/convert", s.handleConvert)
		r.Get("/api/convert/{jobID}/status", s.handleConvertStatus)
		r.Get("/api/convert/{jobID}/deck", s.handleConvertDeck)
		r.Get("/api/convert/{jobID}/preview/{n}", s.handleConvertPreview)
		r.Post("/api/template/layouts", s.handleTemplateLayouts)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
