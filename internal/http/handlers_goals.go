package http

import (
	"net/http"
	"strings"

	"spendsense/internal/core"
)

type goalPayload struct {
	Name         string     `json:"name"`
	TargetAmount core.Money `json:"target_amount"`
	Currency     string     `json:"currency"`
	TargetDate   string     `json:"target_date"`
}

type goalResponse struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	TargetAmount core.Money `json:"target_amount"`
	Currency     string     `json:"currency"`
	TargetDate   string     `json:"target_date"`
	CreatedOn    string     `json:"created_on"`
}

func toGoalResponse(g core.Goal) goalResponse {
	return goalResponse{
		ID:           g.ID,
		Name:         g.Name,
		TargetAmount: g.TargetAmount,
		Currency:     g.Currency,
		TargetDate:   core.FormatDate(g.TargetDate),
		CreatedOn:    core.FormatDate(g.CreatedOn),
	}
}

func (p goalPayload) toGoal() (core.Goal, error) {
	targetDate, err := core.ParseDate(strings.TrimSpace(p.TargetDate))
	if err != nil {
		return core.Goal{}, err
	}
	return core.Goal{
		Name:         p.Name,
		TargetAmount: p.TargetAmount,
		Currency:     p.Currency,
		TargetDate:   targetDate,
	}, nil
}

func (s *Server) handleGoals(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		goals, err := s.deps.Goals.List(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		out := make([]goalResponse, 0, len(goals))
		for _, g := range goals {
			out = append(out, toGoalResponse(g))
		}
		writeJSON(w, r, http.StatusOK, out)
	case http.MethodPost:
		var payload goalPayload
		if !decodeBody(w, r, &payload) {
			return
		}
		g, err := payload.toGoal()
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		created, err := s.deps.Goals.Create(r.Context(), g)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusCreated, toGoalResponse(created))
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleGoalByID(w http.ResponseWriter, r *http.Request) {
	id, tail, ok := pathID(r.URL.Path, "/goals/")
	if !ok {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}

	if tail == "plan" {
		s.handleGoalPlan(w, r, id)
		return
	}
	if tail != "" {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		g, err := s.deps.Goals.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, toGoalResponse(g))
	case http.MethodDelete:
		if err := s.deps.Goals.Delete(r.Context(), id); err != nil {
			writeServiceError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, "GET, DELETE")
	}
}

// handleGoalPlan answers GET /goals/{id}/plan?history_months=N with the
// feasibility verdict for the stored goal.
func (s *Server) handleGoalPlan(w http.ResponseWriter, r *http.Request, id int64) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	historyMonths, err := parseIntParam(r, "history_months")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	g, err := s.deps.Goals.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	plan, err := s.deps.Planner.PlanGoal(r.Context(), g.TargetAmount, g.TargetDate, historyMonths)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, plan)
}
