package adapthttp

import (
	"errors"
	"net/http"
	"strings"

	"healthmetrics/internal/app"
)

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var batch app.IngestBatch
	if err := parseJSON(r, &batch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false})
		return
	}
	if batch.Data == nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false})
		return
	}

	// The response does not wait for persistence; the job ID is the handle
	// for checking the eventual outcome.
	job := s.ingest.Submit(batch)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "jobId": job.ID})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/jobs/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	job, err := s.ingest.Job(id)
	if errors.Is(err, app.ErrJobNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}
