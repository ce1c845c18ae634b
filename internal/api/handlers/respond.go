package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/wonny/telecom-kpi/internal/contracts"
	"github.com/wonny/telecom-kpi/internal/kpi"
	"github.com/wonny/telecom-kpi/internal/kpiconfig"
	"github.com/wonny/telecom-kpi/pkg/logger"
)

// ErrorResponse is the body of every non-2xx JSON response
type ErrorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// StatusFor maps pipeline errors to HTTP statuses and client-facing messages.
// ⭐ SSOT: the error → status table of the API
func StatusFor(err error) (int, string) {
	var verr kpiconfig.ValidationError
	switch {
	case errors.Is(err, contracts.ErrInsufficientData):
		return http.StatusNotFound, "no data for this selection"
	case errors.Is(err, contracts.ErrInvalidPeriod), errors.Is(err, contracts.ErrDataInconsistency):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Error()
	case errors.Is(err, contracts.ErrDataUnavailable):
		return http.StatusServiceUnavailable, "data source unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// respondPipelineError logs and renders err using StatusFor
func respondPipelineError(w http.ResponseWriter, log *logger.Logger, r *http.Request, err error) {
	status, msg := StatusFor(err)

	entry := log.WithError(err).WithFields(map[string]interface{}{
		"path":   r.URL.Path,
		"status": status,
	})
	if status >= http.StatusInternalServerError {
		entry.Error("KPI request failed")
	} else {
		entry.Warn("KPI request rejected")
	}

	respondError(w, status, msg)
}

// parseParams reads the min_year and growth_rate overrides
func parseParams(r *http.Request) (kpi.Params, error) {
	var params kpi.Params
	q := r.URL.Query()

	if raw := q.Get("min_year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return params, kpiconfig.ValidationError{Field: "min_year", Message: "must be an integer"}
		}
		params.MinYear = &year
	}
	if raw := q.Get("growth_rate"); raw != "" {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return params, kpiconfig.ValidationError{Field: "growth_rate", Message: "must be a number"}
		}
		params.GrowthRate = &rate
	}
	return params, nil
}
