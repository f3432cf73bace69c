package api

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/territory/internal/adapters/repository"
	"github.com/okian/territory/pkg/metrics"
)

// DatasetReader exposes the currently loaded batch.
type DatasetReader interface {
	Dataset(ctx context.Context) (*repository.Dataset, error)
}

// HealthHandler handles health and metrics requests.
type HealthHandler struct {
	deps DatasetReader
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps DatasetReader) *HealthHandler {
	return &HealthHandler{deps: deps}
}

type healthResponse struct {
	Status   string `json:"status"`
	Dataset  bool   `json:"dataset"`
	Accounts int    `json:"accounts"`
	Reps     int    `json:"reps"`
}

// HandleHealth handles GET /healthz requests. The process is healthy even
// before a dataset is loaded; the dataset flag tells readiness apart.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	if d, err := h.deps.Dataset(r.Context()); err == nil {
		resp.Dataset = true
		resp.Accounts = len(d.Accounts)
		resp.Reps = len(d.Reps)
	}
	writeJSON(w, http.StatusOK, resp)
}

// MetricsHandler serves the custom Prometheus registry.
func (h *HealthHandler) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}
