package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"spendsense/internal/core"
	applog "spendsense/internal/log"
	"spendsense/internal/services"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "Failed to encode response", applog.FieldError, err, applog.FieldPath, r.URL.Path)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, errorResponse{Error: msg})
}

// writeServiceError maps domain errors onto HTTP statuses: invalid input is
// 400, missing rows 404, duplicate budgets 409, anything else 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, core.ErrBudgetExists):
		writeError(w, r, http.StatusConflict, err.Error())
	case isBadRequest(err):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Request failed", applog.FieldError, err, applog.FieldPath, r.URL.Path)
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

func isBadRequest(err error) bool {
	for _, sentinel := range []error{
		core.ErrInvalidAmount,
		core.ErrInvalidTxType,
		core.ErrInvalidBucket,
		core.ErrInvalidCurrency,
		core.ErrInvalidDateRange,
		core.ErrInvalidDate,
		core.ErrTargetDatePast,
		core.ErrEmptyName,
		services.ErrOutOfRange,
		services.ErrMissingColumns,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	w.WriteHeader(http.StatusMethodNotAllowed)
}

// pathID extracts the trailing numeric id from a path like /budgets/42.
// trailing extra segments are returned alongside.
func pathID(path, prefix string) (int64, string, bool) {
	rest := strings.TrimPrefix(path, prefix)
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return 0, "", false
	}
	idPart, tail, _ := strings.Cut(rest, "/")
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || id < 1 {
		return 0, "", false
	}
	return id, tail, true
}

// parseDateParam reads an optional YYYY-MM-DD query parameter.
func parseDateParam(r *http.Request, name string) (*time.Time, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return nil, nil
	}
	t, err := core.ParseDate(v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseIntParam reads an optional integer query parameter; 0 means unset.
func parseIntParam(r *http.Request, name string) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New(name + " must be an integer")
	}
	return n, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}
