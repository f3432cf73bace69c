package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/okian/territory/internal/adapters/export"
	service "github.com/okian/territory/internal/app"
	"github.com/okian/territory/internal/domain/scoring"
)

// AssignmentDependencies defines the interface for assignment runs.
type AssignmentDependencies interface {
	Assign(ctx context.Context, req service.Request) (*service.Result, error)
	Export(ctx context.Context, req service.Request, format string, w io.Writer) (*service.Result, error)
	DefaultWeights() scoring.Weights
}

// AssignmentHandler handles assignment and export requests.
type AssignmentHandler struct {
	deps AssignmentDependencies
	now  func() time.Time
}

// NewAssignmentHandler creates a new assignment handler.
func NewAssignmentHandler(deps AssignmentDependencies, now func() time.Time) *AssignmentHandler {
	return &AssignmentHandler{deps: deps, now: now}
}

// HandleAssignments handles GET /assignments?threshold=N&w_arr=... requests.
func (h *AssignmentHandler) HandleAssignments(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_assignments"
	req, err := parseRequest(r.URL.Query(), h.deps.DefaultWeights())
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
		return
	}
	res, err := h.deps.Assign(r.Context(), req)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleExport handles GET /assignments/export.{csv|xlsx} requests.
func (h *AssignmentHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.export_assignments"
	format := mux.Vars(r)["format"]
	req, err := parseRequest(r.URL.Query(), h.deps.DefaultWeights())
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
		return
	}

	// Buffered so a failed run still gets a JSON error.
	var buf bytes.Buffer
	if _, err := h.deps.Export(r.Context(), req, format, &buf); err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}

	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(format, h.now())))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
