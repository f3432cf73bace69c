package api

import (
	"context"
	"net/http"

	service "github.com/okian/territory/internal/app"
	"github.com/okian/territory/internal/domain/scoring"
	"github.com/okian/territory/internal/domain/segment"
)

// SegmentDependencies defines the interface for segmentation previews.
type SegmentDependencies interface {
	Segments(ctx context.Context, req service.Request) ([]segment.Summary, error)
	ThresholdBounds() (def, minimum, maximum int)
	DefaultWeights() scoring.Weights
}

// SegmentHandler handles segmentation requests.
type SegmentHandler struct {
	deps SegmentDependencies
}

// NewSegmentHandler creates a new segment handler.
func NewSegmentHandler(deps SegmentDependencies) *SegmentHandler {
	return &SegmentHandler{deps: deps}
}

type segmentsResponse struct {
	Threshold int               `json:"threshold"`
	Segments  []segment.Summary `json:"segments"`
}

// HandleSegments handles GET /segments?threshold=N requests.
func (h *SegmentHandler) HandleSegments(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_segments"
	req, err := parseRequest(r.URL.Query(), h.deps.DefaultWeights())
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
		return
	}
	sums, err := h.deps.Segments(r.Context(), req)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	threshold, _, _ := h.deps.ThresholdBounds()
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	writeJSON(w, http.StatusOK, segmentsResponse{Threshold: threshold, Segments: sums})
}
