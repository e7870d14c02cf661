package http

import (
	"net/http"
	"strings"

	"spendsense/internal/core"
)

type budgetPayload struct {
	Category     string     `json:"category"`
	MonthlyLimit core.Money `json:"monthly_limit"`
	Currency     string     `json:"currency"`
}

type budgetResponse struct {
	ID           int64      `json:"id"`
	Category     string     `json:"category"`
	MonthlyLimit core.Money `json:"monthly_limit"`
	Currency     string     `json:"currency"`
}

func toBudgetResponse(b core.Budget) budgetResponse {
	return budgetResponse{
		ID:           b.ID,
		Category:     b.Category,
		MonthlyLimit: b.MonthlyLimit,
		Currency:     b.Currency,
	}
}

func (p budgetPayload) toBudget() core.Budget {
	return core.Budget{
		Category:     strings.TrimSpace(p.Category),
		MonthlyLimit: p.MonthlyLimit,
		Currency:     p.Currency,
	}
}

func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		budgets, err := s.deps.Budgets.List(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		out := make([]budgetResponse, 0, len(budgets))
		for _, b := range budgets {
			out = append(out, toBudgetResponse(b))
		}
		writeJSON(w, r, http.StatusOK, out)
	case http.MethodPost:
		var payload budgetPayload
		if !decodeBody(w, r, &payload) {
			return
		}
		created, err := s.deps.Budgets.Create(r.Context(), payload.toBudget())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusCreated, toBudgetResponse(created))
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleBudgetByID(w http.ResponseWriter, r *http.Request) {
	id, tail, ok := pathID(r.URL.Path, "/budgets/")
	if !ok || tail != "" {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		b, err := s.deps.Budgets.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, toBudgetResponse(b))
	case http.MethodPut:
		var payload budgetPayload
		if !decodeBody(w, r, &payload) {
			return
		}
		b := payload.toBudget()
		b.ID = id
		updated, err := s.deps.Budgets.Update(r.Context(), b)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, toBudgetResponse(updated))
	case http.MethodDelete:
		if err := s.deps.Budgets.Delete(r.Context(), id); err != nil {
			writeServiceError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, "GET, PUT, DELETE")
	}
}
