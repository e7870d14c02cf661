package http

import (
	"net/http"
	"strings"
	"time"

	"spendsense/internal/core"
)

func (s *Server) handleAnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	from, err := parseDateParam(r, "date_from")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "date_from: "+err.Error())
		return
	}
	to, err := parseDateParam(r, "date_to")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "date_to: "+err.Error())
		return
	}
	topN, err := parseIntParam(r, "top_categories")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	months, err := parseIntParam(r, "months")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := s.deps.Analytics.Summary(r.Context(), from, to, topN, months)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, summary)
}

func (s *Server) handleAnalyticsDaily(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	from, err := parseDateParam(r, "date_from")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "date_from: "+err.Error())
		return
	}
	to, err := parseDateParam(r, "date_to")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "date_to: "+err.Error())
		return
	}

	points, err := s.deps.Analytics.Daily(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, points)
}

// handleAlerts answers GET /alerts?month=YYYY-MM; the month defaults to the
// current one.
func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	forDate := time.Now().UTC()
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		t, err := time.Parse(core.MonthLayout, v)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "month: must be YYYY-MM")
			return
		}
		forDate = t
	}

	alerts, err := s.deps.Alerts.OverBudget(r.Context(), forDate)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if alerts == nil {
		alerts = []core.AlertRow{}
	}
	writeJSON(w, r, http.StatusOK, alertsResponse{
		Month:  core.MonthKey(forDate),
		Alerts: alerts,
	})
}

type alertsResponse struct {
	Month  string          `json:"month"`
	Alerts []core.AlertRow `json:"alerts"`
}
