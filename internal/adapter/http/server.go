package adapthttp

import (
	"net/http"

	"go.uber.org/zap"

	"healthmetrics/internal/app"
)

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	ingest  *app.IngestService
	stats   *app.StatsService
	records *app.RecordsService
	log     *zap.Logger
}

// New creates a Server wired to the given application services.
func New(in *app.IngestService, st *app.StatsService, rec *app.RecordsService, log *zap.Logger) *Server {
	return &Server{ingest: in, stats: st, records: rec, log: log}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	mux.HandleFunc("/data", s.handleRecords)
	mux.HandleFunc("/jobs/", s.handleJobStatus)
	mux.HandleFunc("/", s.handleRoot)

	return s.loggingMiddleware(mux)
}

// handleRoot serves the ingest (POST) and summary (GET) endpoints on "/".
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodPost:
		s.handleIngest(w, r)
	case http.MethodGet:
		s.handleSummary(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
