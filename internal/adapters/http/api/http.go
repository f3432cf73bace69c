// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/okian/territory/internal/adapters/repository"
	service "github.com/okian/territory/internal/app"
	"github.com/okian/territory/internal/domain/assign"
	"github.com/okian/territory/internal/domain/model"
	"github.com/okian/territory/internal/domain/scoring"
	"github.com/okian/territory/internal/domain/segment"
	"github.com/okian/territory/internal/domain/stats"
	"github.com/okian/territory/internal/sweep"
)

const defaultSweepStep = 1000

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	StatsProvider

	Assign(ctx context.Context, req service.Request) (*service.Result, error)
	Rep(ctx context.Context, req service.Request, name string) (model.RepLoad, stats.RepSummary, error)
	Segments(ctx context.Context, req service.Request) ([]segment.Summary, error)
	Sweep(ctx context.Context, r sweep.Range, w *scoring.Weights) (sweep.Result, error)
	Export(ctx context.Context, req service.Request, format string, w io.Writer) (*service.Result, error)

	Reload(ctx context.Context) (*repository.Dataset, error)
	Dataset(ctx context.Context) (*repository.Dataset, error)

	ThresholdBounds() (def, minimum, maximum int)
	DefaultWeights() scoring.Weights
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	assignmentHandler *AssignmentHandler
	repHandler        *RepHandler
	segmentHandler    *SegmentHandler
	sweepHandler      *SweepHandler
	datasetHandler    *DatasetHandler
}

// Option configures a Server.
type Option func(*options)

type options struct {
	sweepStep int
	now       func() time.Time
}

// WithSweepStep sets the step used when a sweep request omits one.
func WithSweepStep(step int) Option {
	return func(o *options) {
		if step > 0 {
			o.sweepStep = step
		}
	}
}

// WithClock overrides the clock used for export file names.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	o := options{sweepStep: defaultSweepStep, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Server{
		healthHandler:     NewHealthHandler(deps),
		statsHandler:      NewStatsHandler(deps),
		assignmentHandler: NewAssignmentHandler(deps, o.now),
		repHandler:        NewRepHandler(deps),
		segmentHandler:    NewSegmentHandler(deps),
		sweepHandler:      NewSweepHandler(deps, o.sweepStep),
		datasetHandler:    NewDatasetHandler(deps),
	}
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r *mux.Router) {
	get := func(path, endpoint string, h http.HandlerFunc) {
		r.HandleFunc(path, MetricsMiddleware(h, endpoint)).Methods(http.MethodGet)
	}

	get("/healthz", "healthz", s.healthHandler.HandleHealth)
	r.Handle("/metrics", s.healthHandler.MetricsHandler()).Methods(http.MethodGet)
	get("/stats", "stats", s.statsHandler.HandleStats)

	get("/assignments", "assignments", s.assignmentHandler.HandleAssignments)
	get("/assignments/export.{format}", "export", s.assignmentHandler.HandleExport)
	get("/reps/{name}", "rep", s.repHandler.HandleGetRep)
	get("/segments", "segments", s.segmentHandler.HandleSegments)
	get("/sweep", "sweep", s.sweepHandler.HandleSweep)

	get("/dataset", "dataset", s.datasetHandler.HandleGetDataset)
	r.HandleFunc("/dataset/reload", MetricsMiddleware(s.datasetHandler.HandleReload, "reload")).Methods(http.MethodPost)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	noteErrorCode(w, code)
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps a service error onto its status and error code.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, service.ErrInvalidThreshold),
		errors.Is(err, service.ErrUnsupportedFormat),
		errors.Is(err, scoring.ErrInvalidWeights),
		errors.Is(err, sweep.ErrInvalidRange),
		errors.Is(err, sweep.ErrTooManyPoints):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, service.ErrUnknownRep):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, repository.ErrNoDataset):
		return http.StatusConflict, "no_dataset"
	case errors.Is(err, service.ErrNoSources):
		return http.StatusConflict, "no_sources"
	case errors.Is(err, assign.ErrNoReps),
		errors.Is(err, assign.ErrDuplicateRep),
		errors.Is(err, assign.ErrUnknownSegment),
		errors.Is(err, model.ErrUnknownSegment),
		errors.Is(err, scoring.ErrNonFinite):
		return http.StatusUnprocessableEntity, "unprocessable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
