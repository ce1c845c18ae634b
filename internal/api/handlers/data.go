package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/wonny/telecom-kpi/internal/contracts"
	"github.com/wonny/telecom-kpi/internal/ingest"
	"github.com/wonny/telecom-kpi/pkg/logger"
)

// RunLister lists recorded ingest runs
type RunLister interface {
	Recent(ctx context.Context, limit int) ([]ingest.Run, error)
}

// DataHandler handles source health and ingestion endpoints
// ⭐ SSOT: data API handlers live in this struct only
type DataHandler struct {
	source contracts.ObservationSource
	loader *ingest.Loader // nil disables POST /api/data/ingest
	runs   RunLister      // nil disables GET /api/data/runs
	logger *logger.Logger
}

// NewDataHandler creates a new data handler
func NewDataHandler(source contracts.ObservationSource, loader *ingest.Loader, runs RunLister, log *logger.Logger) *DataHandler {
	return &DataHandler{
		source: source,
		loader: loader,
		runs:   runs,
		logger: log,
	}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Source  string `json:"source"`
	Error   string `json:"error,omitempty"`
}

// GetHealth pings the data source
// GET /health
func (h *DataHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Service: "telecom-kpi-api", Source: h.source.Name()}

	if err := h.source.Ping(r.Context()); err != nil {
		resp.Status = "degraded"
		resp.Error = err.Error()
		respondJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// IngestResponse represents a data ingestion response
type IngestResponse struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Result  *ingest.Result `json:"result,omitempty"`
}

// Ingest loads the ENACOM exports into the source of truth
// POST /api/data/ingest
func (h *DataHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	if h.loader == nil {
		respondError(w, http.StatusNotImplemented, "ingestion requires DATA_SOURCE=postgres")
		return
	}

	h.logger.Info("Data ingestion triggered")

	// the download outlives the default write timeout of a request
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), 5*time.Minute)
	defer cancel()

	result, err := h.loader.Run(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to ingest ENACOM data")
		respondError(w, http.StatusBadGateway, "Failed to ingest ENACOM data")
		return
	}

	respondJSON(w, http.StatusOK, IngestResponse{
		Status:  "success",
		Message: "ENACOM data ingested",
		Result:  result,
	})
}

// GetRuns lists the most recent ingest runs
// GET /api/data/runs?limit=20
func (h *DataHandler) GetRuns(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		respondError(w, http.StatusNotImplemented, "ingest history requires DATA_SOURCE=postgres")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 500 {
			respondError(w, http.StatusBadRequest, "limit must be an integer in [1, 500]")
			return
		}
		limit = n
	}

	runs, err := h.runs.Recent(r.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list ingest runs")
		respondError(w, http.StatusInternalServerError, "Failed to list ingest runs")
		return
	}
	respondJSON(w, http.StatusOK, runs)
}
