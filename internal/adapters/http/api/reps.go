package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	service "github.com/okian/territory/internal/app"
	"github.com/okian/territory/internal/domain/model"
	"github.com/okian/territory/internal/domain/scoring"
	"github.com/okian/territory/internal/domain/stats"
)

// RepDependencies defines the interface for single rep lookups.
type RepDependencies interface {
	Rep(ctx context.Context, req service.Request, name string) (model.RepLoad, stats.RepSummary, error)
	DefaultWeights() scoring.Weights
}

// RepHandler handles rep requests.
type RepHandler struct {
	deps RepDependencies
}

// NewRepHandler creates a new rep handler.
func NewRepHandler(deps RepDependencies) *RepHandler {
	return &RepHandler{deps: deps}
}

type repResponse struct {
	Summary  stats.RepSummary        `json:"summary"`
	Accounts []model.AssignedAccount `json:"accounts"`
}

// HandleGetRep handles GET /reps/{name} requests.
func (h *RepHandler) HandleGetRep(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rep"
	name := mux.Vars(r)["name"]
	if name == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	req, err := parseRequest(r.URL.Query(), h.deps.DefaultWeights())
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
		return
	}
	load, summary, err := h.deps.Rep(r.Context(), req, name)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	accounts := load.Accounts
	if accounts == nil {
		accounts = []model.AssignedAccount{}
	}
	writeJSON(w, http.StatusOK, repResponse{Summary: summary, Accounts: accounts})
}
