package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/territory/internal/adapters/repository"
)

// DatasetDependencies defines the interface for dataset inspection and reloads.
type DatasetDependencies interface {
	Dataset(ctx context.Context) (*repository.Dataset, error)
	Reload(ctx context.Context) (*repository.Dataset, error)
}

// DatasetHandler handles dataset requests.
type DatasetHandler struct {
	deps DatasetDependencies
}

// NewDatasetHandler creates a new dataset handler.
func NewDatasetHandler(deps DatasetDependencies) *DatasetHandler {
	return &DatasetHandler{deps: deps}
}

type datasetResponse struct {
	Accounts    int       `json:"accounts"`
	Reps        int       `json:"reps"`
	Fingerprint string    `json:"fingerprint"`
	Source      string    `json:"source"`
	LoadedAt    time.Time `json:"loaded_at"`
}

func newDatasetResponse(d *repository.Dataset) datasetResponse {
	return datasetResponse{
		Accounts:    len(d.Accounts),
		Reps:        len(d.Reps),
		Fingerprint: strconv.FormatUint(d.Fingerprint, 16),
		Source:      d.Source,
		LoadedAt:    d.LoadedAt,
	}
}

// HandleGetDataset handles GET /dataset requests.
func (h *DatasetHandler) HandleGetDataset(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_dataset"
	d, err := h.deps.Dataset(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, newDatasetResponse(d))
}

// HandleReload handles POST /dataset/reload requests.
func (h *DatasetHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	const op = "api.reload_dataset"
	d, err := h.deps.Reload(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, newDatasetResponse(d))
}
