package handlers

import (
	"bytes"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/telecom-kpi/internal/contracts"
	"github.com/wonny/telecom-kpi/internal/kpi"
	"github.com/wonny/telecom-kpi/internal/report"
	"github.com/wonny/telecom-kpi/pkg/logger"
)

// KPIHandler serves the KPI reports
// ⭐ SSOT: KPI API handlers live in this struct only
type KPIHandler struct {
	service *kpi.Service
	logger  *logger.Logger
}

// NewKPIHandler creates a new KPI handler
func NewKPIHandler(service *kpi.Service, log *logger.Logger) *KPIHandler {
	return &KPIHandler{
		service: service,
		logger:  log,
	}
}

// GetSummary lists the KPIs and their configured rates
// GET /api/kpi/summary
func (h *KPIHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.service.Summary(r.Context()))
}

// GetInternet returns KPI 1
// GET /api/kpi/internet?min_year=2023&growth_rate=0.02
func (h *KPIHandler) GetInternet(w http.ResponseWriter, r *http.Request) {
	h.compute(w, r, contracts.KPIInternet)
}

// GetInternetProvince returns one province's evolution with its projection
// GET /api/kpi/internet/provinces/{province}
func (h *KPIHandler) GetInternetProvince(w http.ResponseWriter, r *http.Request) {
	params, err := parseParams(r)
	if err != nil {
		respondPipelineError(w, h.logger, r, err)
		return
	}

	evolution, err := h.service.InternetEvolution(r.Context(), mux.Vars(r)["province"], params)
	if err != nil {
		respondPipelineError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, evolution)
}

// GetFiber returns KPI 2
// GET /api/kpi/fiber?growth_rate=0.30
func (h *KPIHandler) GetFiber(w http.ResponseWriter, r *http.Request) {
	h.compute(w, r, contracts.KPIFiber)
}

// GetMobile returns KPI 3
// GET /api/kpi/mobile?min_year=2023&growth_rate=0.05
func (h *KPIHandler) GetMobile(w http.ResponseWriter, r *http.Request) {
	h.compute(w, r, contracts.KPIMobile)
}

// GetChart renders the chart of one KPI as PNG
// GET /api/kpi/{kpi}/chart.png
func (h *KPIHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	k, err := contracts.ParseKPI(mux.Vars(r)["kpi"])
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	params, err := parseParams(r)
	if err != nil {
		respondPipelineError(w, h.logger, r, err)
		return
	}

	result, err := h.service.Compute(r.Context(), k, params)
	if err != nil {
		respondPipelineError(w, h.logger, r, err)
		return
	}
	chart, err := report.Chart(result)
	if err != nil {
		respondPipelineError(w, h.logger, r, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WritePNG(&buf, chart); err != nil {
		respondPipelineError(w, h.logger, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// GetExport downloads the three KPI reports as one workbook
// GET /api/kpi/export.xlsx
func (h *KPIHandler) GetExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	internet, err := h.service.Internet(ctx, kpi.Params{})
	if err != nil {
		respondPipelineError(w, h.logger, r, err)
		return
	}
	fiber, err := h.service.Fiber(ctx, kpi.Params{})
	if err != nil {
		respondPipelineError(w, h.logger, r, err)
		return
	}
	mobile, err := h.service.Mobile(ctx, kpi.Params{})
	if err != nil {
		respondPipelineError(w, h.logger, r, err)
		return
	}

	var buf bytes.Buffer
	reports := report.Reports{Internet: internet, Fiber: fiber, Mobile: mobile}
	if err := report.Export(&buf, reports.Tables()); err != nil {
		respondPipelineError(w, h.logger, r, err)
		return
	}

	w.Header().Set("Content-Type", report.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", `attachment; filename="telecom-kpi.xlsx"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *KPIHandler) compute(w http.ResponseWriter, r *http.Request, k contracts.KPI) {
	params, err := parseParams(r)
	if err != nil {
		respondPipelineError(w, h.logger, r, err)
		return
	}

	result, err := h.service.Compute(r.Context(), k, params)
	if err != nil {
		respondPipelineError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
