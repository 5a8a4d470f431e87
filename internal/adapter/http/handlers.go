package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/seasonal-produce/internal/season"
)

// errorBody is the JSON shape of every API error.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

var statusByCode = map[string]int{
	"missing_city":     http.StatusBadRequest,
	"bad_date":         http.StatusBadRequest,
	"unsupported_city": http.StatusNotFound,
	"loading":          http.StatusServiceUnavailable,
	"load_error":       http.StatusServiceUnavailable,
	"malformed":        http.StatusInternalServerError,
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code, message, details := season.Describe(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("season query failed", "error", err)
	}
	writeJSON(w, status, errorBody{Error: code, Message: message, Details: details})
}

// parseQuery reads the city and date parameters. A blank city is reported
// before the date is looked at.
func parseQuery(r *http.Request) (season.Query, error) {
	q := season.Query{City: r.URL.Query().Get("city")}
	if strings.TrimSpace(q.City) == "" {
		return q, season.ErrMissingCity
	}
	date, err := season.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		return q, err
	}
	q.Date = date
	return q, nil
}

func (s *Server) handleSeason(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.service.Query(r.Context(), q)
	if err != nil {
		s.writeError(w, err)
		return
	}

	body := struct {
		season.Result
		Message string `json:"message,omitempty"`
	}{Result: result}
	if result.Empty {
		body.Message = season.MessageEmpty
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	page := season.Page{Cities: s.cityNames()}

	if r.URL.Query().Has("city") {
		q, err := parseQuery(r)
		var result season.Result
		if err == nil {
			result, err = s.service.Query(r.Context(), q)
		}
		page = season.NewPage(q, result, err, page.Cities)
		if q.Date.IsZero() {
			page.Date = r.URL.Query().Get("date")
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := season.Render(w, page); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) cityNames() []string {
	listings := s.locations.Locations()
	names := make([]string, len(listings))
	for i, l := range listings {
		names[i] = l.Key
	}
	return names
}

func (s *Server) handleLocations(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"locations": s.locations.Locations()})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	table, err := s.catalog.Load(r.Context())
	switch {
	case errors.Is(err, season.ErrLoadInProgress):
		writeJSON(w, http.StatusConflict, errorBody{Error: "loading", Message: season.MessageLoading})
		return
	case err != nil:
		s.writeError(w, err)
		return
	}

	_, loadedAt, _ := s.catalog.Cached()
	writeJSON(w, http.StatusAccepted, map[string]any{
		"status":    "reloaded",
		"regions":   table.Regions(),
		"loaded_at": loadedAt.UTC().Format(time.RFC3339),
	})
}

// handleArtifact serves the table file, or the cached table when the data
// comes from a remote URL.
func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	if s.opts.ArtifactPath != "" {
		http.ServeFile(w, r, s.opts.ArtifactPath)
		return
	}
	table, _, ok := s.catalog.Cached()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "load_error", Message: season.MessageLoadFailed})
		return
	}
	writeJSON(w, http.StatusOK, table)
}
