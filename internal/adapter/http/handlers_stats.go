package adapthttp

import (
	"net/http"

	"healthmetrics/internal/app"
	"healthmetrics/internal/domain"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := parseFilter(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	granularity := domain.ParseGranularity(q.Get("breakdown"))

	summary, err := s.stats.Summary(r.Context(), filter, granularity)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	withCache(w)
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	filter, err := parseFilter(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	order, err := app.ParseRecordSort(q.Get("sort"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	items, err := s.records.List(r.Context(), filter, order)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	withCache(w)
	writeJSON(w, http.StatusOK, items)
}
