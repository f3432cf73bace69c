package api

import (
	"context"
	"net/http"

	"github.com/okian/territory/internal/domain/scoring"
	"github.com/okian/territory/internal/sweep"
)

// SweepDependencies defines the interface for threshold sweeps.
type SweepDependencies interface {
	Sweep(ctx context.Context, r sweep.Range, w *scoring.Weights) (sweep.Result, error)
	ThresholdBounds() (def, minimum, maximum int)
	DefaultWeights() scoring.Weights
}

// SweepHandler handles sweep requests.
type SweepHandler struct {
	deps SweepDependencies
	step int
}

// NewSweepHandler creates a new sweep handler.
func NewSweepHandler(deps SweepDependencies, step int) *SweepHandler {
	return &SweepHandler{deps: deps, step: step}
}

// HandleSweep handles GET /sweep?from=A&to=B&step=S requests.
func (h *SweepHandler) HandleSweep(w http.ResponseWriter, r *http.Request) {
	const op = "api.sweep"
	q := r.URL.Query()
	_, minimum, maximum := h.deps.ThresholdBounds()
	rng, err := parseRange(q, minimum, maximum, h.step)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
		return
	}
	weights, err := parseWeights(q, h.deps.DefaultWeights())
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
		return
	}
	res, err := h.deps.Sweep(r.Context(), rng, weights)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}
