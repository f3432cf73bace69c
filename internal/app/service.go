// Package service orchestrates dataset loading, memoized assignment runs,
// threshold sweeps, exports and run publishing for the HTTP API and the CLI.
package service

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/territory/internal/adapters/export"
	"github.com/okian/territory/internal/adapters/publisher"
	"github.com/okian/territory/internal/adapters/repository"
	"github.com/okian/territory/internal/adapters/source"
	"github.com/okian/territory/internal/domain/assign"
	"github.com/okian/territory/internal/domain/model"
	"github.com/okian/territory/internal/domain/scoring"
	"github.com/okian/territory/internal/domain/segment"
	"github.com/okian/territory/internal/domain/stats"
	"github.com/okian/territory/internal/sweep"
	"github.com/okian/territory/pkg/logger"
	"github.com/okian/territory/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultThreshold      = 100_000
	defaultThresholdMin   = 1_000
	defaultThresholdMax   = 200_000
	defaultCacheSize      = 256
	defaultSystemInterval = 10 * time.Second
	publishTimeout        = 5 * time.Second
)

// DatasetLoader reads the account and rep tables.
type DatasetLoader interface {
	Load(ctx context.Context, src source.Sources) (source.Data, error)
}

// Request selects one assignment run. Nil fields fall back to the service
// defaults; a set Threshold is range checked even when it is zero.
type Request struct {
	Threshold *int
	Weights   *scoring.Weights
}

// AtThreshold returns a request for threshold with the default weights.
func AtThreshold(threshold int) Request {
	return Request{Threshold: &threshold}
}

// Result is one complete assignment run.
type Result struct {
	RunID      string             `json:"run_id"`
	Threshold  int                `json:"threshold"`
	Weights    scoring.Weights    `json:"weights"`
	RepLoads   []model.RepLoad    `json:"rep_loads"`
	Metrics    stats.Report       `json:"metrics"`
	Segments   []segment.Summary  `json:"segments"`
	Reps       []stats.RepSummary `json:"reps"`
	ComputedAt time.Time          `json:"computed_at"`
	Cached     bool               `json:"cached"`
}

// Assigned flattens the run into the export row order.
func (r *Result) Assigned() []model.AssignedAccount {
	return assign.Flatten(r.RepLoads)
}

// Service implements the API dependencies for the territory system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store     *repository.MemoryStore
	cache     *repository.RunCache[*Result]
	loader    DatasetLoader
	publisher publisher.Publisher
	sweeper   *sweep.Pool

	// Configuration
	sources        source.Sources
	threshold      int
	thresholdMin   int
	thresholdMax   int
	weights        scoring.Weights
	cacheSize      int
	systemInterval time.Duration
	autoload       bool
	now            func() time.Time
	newID          func() string

	// State
	started bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
	runs    int64

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		loader:         source.New(),
		publisher:      publisher.Nop{},
		threshold:      defaultThreshold,
		thresholdMin:   defaultThresholdMin,
		thresholdMax:   defaultThresholdMax,
		weights:        scoring.DefaultWeights(),
		cacheSize:      defaultCacheSize,
		systemInterval: defaultSystemInterval,
		autoload:       true,
		now:            time.Now,
		newID:          uuid.NewString,
		stopCh:         make(chan struct{}),
		logger:         logger.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.sweeper == nil {
		s.sweeper = sweep.New(sweep.WithLogger(s.logger.Named("sweep")))
	}
	s.cache = repository.NewRunCache[*Result](s.cacheSize)
	s.store = repository.NewMemoryStore(
		repository.WithClock(s.now),
		repository.WithBaseLoadLimit(s.cacheSize),
		repository.WithOnReplace(func(*repository.Dataset) { s.cache.Clear() }),
	)
	return s
}

// Start loads the configured sources and begins sampling runtime metrics.
// A failed load is logged, not returned: the service keeps serving and
// reports ErrNoDataset until a reload succeeds.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	s.mu.Unlock()

	s.logger.Info(ctx, "starting territory service...")

	if s.autoload && s.hasSources() {
		if _, err := s.Reload(ctx); err != nil {
			s.logger.Error(ctx, "initial dataset load failed", logger.Error(err))
		}
	}

	s.wg.Add(1)
	go s.collectSystemMetrics()

	s.logger.Info(ctx, "territory service started",
		logger.Int("threshold", s.threshold),
		logger.Int("cacheSize", s.cacheSize),
		logger.Int("sweepWorkers", s.sweeper.Workers()),
	)
	return nil
}

// Stop waits for in-flight publishes and closes the publisher.
func (s *Service) Stop() {
	s.mu.Lock()
	if s.started {
		s.started = false
		close(s.stopCh)
	}
	s.mu.Unlock()

	ctx := context.Background()
	s.logger.Info(ctx, "stopping territory service...")
	s.wg.Wait()
	if err := s.publisher.Close(); err != nil {
		s.logger.Warn(ctx, "publisher close failed", logger.Error(err))
	}
	s.logger.Info(ctx, "territory service stopped")
}

func (s *Service) collectSystemMetrics() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.systemInterval)
	defer ticker.Stop()

	metrics.CollectSystem()
	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			metrics.CollectSystem()
		}
	}
}

func (s *Service) hasSources() bool {
	return s.sources.Workbook != "" || (s.sources.Accounts != "" && s.sources.Reps != "")
}

// Reload re-reads the configured sources and replaces the dataset.
// Memoized runs are dropped.
func (s *Service) Reload(ctx context.Context) (*repository.Dataset, error) {
	if !s.hasSources() {
		return nil, ErrNoSources
	}
	start := time.Now()
	data, err := s.loader.Load(ctx, s.sources)
	latency := float64(time.Since(start).Milliseconds())
	if err != nil {
		metrics.RecordDatasetLoad(metrics.OutcomeError, latency, 0, 0)
		metrics.RecordErrorByComponent("source", "load")
		return nil, fmt.Errorf("reload dataset: %w", err)
	}
	d, err := s.store.Replace(ctx, data.Accounts, data.Reps, s.sourceLabel())
	if err != nil {
		metrics.RecordDatasetLoad(metrics.OutcomeError, latency, 0, 0)
		return nil, err
	}
	metrics.RecordDatasetLoad(metrics.OutcomeOK, latency, len(d.Accounts), len(d.Reps))
	s.logger.Info(ctx, "dataset replaced",
		logger.Int("accounts", len(d.Accounts)),
		logger.Int("reps", len(d.Reps)),
		logger.String("source", d.Source),
	)
	return d, nil
}

// LoadDataset installs an in-memory batch, bypassing the loader.
func (s *Service) LoadDataset(ctx context.Context, accounts []model.Account, reps []model.Rep, label string) (*repository.Dataset, error) {
	d, err := s.store.Replace(ctx, accounts, reps, label)
	if err != nil {
		return nil, err
	}
	metrics.RecordDatasetLoad(metrics.OutcomeOK, 0, len(d.Accounts), len(d.Reps))
	return d, nil
}

// Dataset returns the current batch.
func (s *Service) Dataset(ctx context.Context) (*repository.Dataset, error) {
	return s.store.Current(ctx)
}

func (s *Service) sourceLabel() string {
	if s.sources.Workbook != "" {
		return s.sources.Workbook
	}
	return s.sources.Accounts + " + " + s.sources.Reps
}

// ThresholdBounds returns the default threshold and the accepted range.
func (s *Service) ThresholdBounds() (def, minimum, maximum int) {
	return s.threshold, s.thresholdMin, s.thresholdMax
}

// DefaultWeights returns the weights used when a request carries none.
func (s *Service) DefaultWeights() scoring.Weights {
	return s.weights
}

// resolve fills request defaults and validates them.
func (s *Service) resolve(ctx context.Context, req Request) (int, scoring.Weights, error) {
	threshold := s.threshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	if threshold < s.thresholdMin || threshold > s.thresholdMax {
		return 0, scoring.Weights{}, fmt.Errorf("%w: %d outside [%d, %d]", ErrInvalidThreshold, threshold, s.thresholdMin, s.thresholdMax)
	}
	w := s.weights
	if req.Weights != nil {
		w = *req.Weights
	}
	if err := w.Validate(); err != nil {
		return 0, scoring.Weights{}, err
	}
	if !w.Normalized() {
		s.logger.Warn(ctx, "weights do not sum to 1", logger.Float64("sum", w.Sum()))
	}
	return threshold, w, nil
}

// Assign runs (or recalls) the assignment for req.
func (s *Service) Assign(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	threshold, w, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	d, loads, err := s.store.BaseLoads(ctx, w)
	if err != nil {
		metrics.RecordRun(metrics.OutcomeError, 0, 0)
		return nil, err
	}

	key := repository.RunKey(d.Fingerprint, threshold, w)
	if res, ok := s.cache.Get(key); ok {
		metrics.RecordRun(metrics.OutcomeCached, 0, 0)
		cp := *res
		cp.Cached = true
		return &cp, nil
	}

	repLoads, err := assign.Assign(loads, threshold, d.Reps, w)
	if err != nil {
		metrics.RecordRun(metrics.OutcomeError, float64(time.Since(start).Milliseconds()), 0)
		metrics.RecordErrorByComponent("assign", "run")
		s.logger.Warn(ctx, "assignment failed", logger.Int("threshold", threshold), logger.Error(err))
		return nil, err
	}

	res := &Result{
		RunID:      s.newID(),
		Threshold:  threshold,
		Weights:    w,
		RepLoads:   repLoads,
		Metrics:    stats.Build(repLoads),
		Segments:   segment.Summarize(segment.Apply(loads, threshold)),
		Reps:       stats.Summaries(repLoads),
		ComputedAt: s.now(),
	}
	s.cache.Put(key, res)

	took := time.Since(start)
	metrics.RecordRun(metrics.OutcomeOK, float64(took.Milliseconds()), len(loads))
	s.recordRunGauges(res)
	s.mu.Lock()
	s.runs++
	s.mu.Unlock()

	ctx = logger.WithFields(ctx, logger.String("run_id", res.RunID))
	s.logger.Info(ctx, "assignment run complete",
		logger.Int("threshold", threshold),
		logger.Int("accounts", len(loads)),
		logger.Int("reps", len(d.Reps)),
		logger.Duration("took", took),
	)
	s.publish(ctx, res)
	return res, nil
}

func (s *Service) recordRunGauges(res *Result) {
	metrics.UpdateThreshold(res.Threshold)
	for _, sg := range res.Metrics.Segments {
		metrics.UpdateSegmentAccounts(string(sg.Segment), sg.Accounts)
		metrics.UpdateLocationMatchRate(string(sg.Segment), sg.LocationMatchRate)
		for f, ds := range sg.Facets {
			if ds.Balance != nil {
				metrics.UpdateBalance(string(sg.Segment), string(f), *ds.Balance)
			}
		}
	}
	metrics.UpdateLocationMatchRate("overall", res.Metrics.Overall.LocationMatchRate)
}

// publish sends the run summary in the background; Stop waits for it.
func (s *Service) publish(ctx context.Context, res *Result) {
	summary := publisher.RunSummary{
		RunID:             res.RunID,
		Threshold:         res.Threshold,
		Weights:           res.Weights,
		Accounts:          res.Metrics.Overall.Accounts,
		Reps:              res.Metrics.Overall.Reps,
		LoadBalance:       make(map[string]*float64, len(res.Metrics.Segments)),
		LocationMatchRate: res.Metrics.Overall.LocationMatchRate,
		ComputedAt:        res.ComputedAt,
	}
	for _, sg := range res.Metrics.Segments {
		summary.LoadBalance[string(sg.Segment)] = sg.Facets[stats.FacetLoad].Balance
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()
		if err := s.publisher.Publish(pctx, summary); err != nil {
			s.logger.Warn(pctx, "run summary publish failed", logger.Error(err))
		}
	}()
}

// Rep returns one rep's bucket and summary row for req.
func (s *Service) Rep(ctx context.Context, req Request, name string) (model.RepLoad, stats.RepSummary, error) {
	res, err := s.Assign(ctx, req)
	if err != nil {
		return model.RepLoad{}, stats.RepSummary{}, err
	}
	for i, l := range res.RepLoads {
		if l.Rep.Name == name {
			return l, res.Reps[i], nil
		}
	}
	return model.RepLoad{}, stats.RepSummary{}, fmt.Errorf("%w: %q", ErrUnknownRep, name)
}

// Segments summarizes the segmentation for req without assigning reps,
// so it works even when a segment has no reps.
func (s *Service) Segments(ctx context.Context, req Request) ([]segment.Summary, error) {
	threshold, w, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}
	_, loads, err := s.store.BaseLoads(ctx, w)
	if err != nil {
		return nil, err
	}
	return segment.Summarize(segment.Apply(loads, threshold)), nil
}

// Sweep evaluates every threshold of r with weights w (nil for defaults).
// Individual runs bypass the run cache.
func (s *Service) Sweep(ctx context.Context, r sweep.Range, w *scoring.Weights) (sweep.Result, error) {
	if err := r.Validate(); err != nil {
		return sweep.Result{}, err
	}
	weights := s.weights
	if w != nil {
		weights = *w
	}
	if err := weights.Validate(); err != nil {
		return sweep.Result{}, err
	}
	if r.From < s.thresholdMin || r.To > s.thresholdMax {
		return sweep.Result{}, fmt.Errorf("%w: sweep [%d, %d] outside [%d, %d]", ErrInvalidThreshold, r.From, r.To, s.thresholdMin, s.thresholdMax)
	}
	d, loads, err := s.store.BaseLoads(ctx, weights)
	if err != nil {
		return sweep.Result{}, err
	}

	eval := func(_ context.Context, threshold int) (sweep.Point, error) {
		repLoads, err := assign.Assign(loads, threshold, d.Reps, weights)
		if err != nil {
			return sweep.Point{}, err
		}
		report := stats.Build(repLoads)
		pt := sweep.Point{
			Accounts: make(map[model.Segment]int, len(report.Segments)),
			Balance:  make(map[model.Segment]*float64, len(report.Segments)),
		}
		for _, sg := range report.Segments {
			pt.Accounts[sg.Segment] = sg.Accounts
			pt.Balance[sg.Segment] = sg.Facets[stats.FacetLoad].Balance
		}
		return pt, nil
	}
	return s.sweeper.Run(ctx, r, eval)
}

// Export runs req and writes the assigned accounts to w in format.
func (s *Service) Export(ctx context.Context, req Request, format string, w io.Writer) (*Result, error) {
	if format != export.FormatCSV && format != export.FormatXLSX {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	res, err := s.Assign(ctx, req)
	if err != nil {
		return nil, err
	}
	switch format {
	case export.FormatCSV:
		err = export.WriteCSV(w, res.Assigned())
	case export.FormatXLSX:
		err = export.WriteXLSX(w, res.Assigned(), res.Reps)
	}
	if err != nil {
		metrics.RecordErrorByComponent("export", format)
		return nil, err
	}
	metrics.RecordExport(format)
	return res, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := map[string]interface{}{
		"started":      s.started,
		"threshold":    s.threshold,
		"thresholdMin": s.thresholdMin,
		"thresholdMax": s.thresholdMax,
		"weights":      s.weights,
		"cacheSize":    s.cacheSize,
		"cachedRuns":   s.cache.Len(),
		"memoWeights":  s.store.Memoized(),
		"runs":         s.runs,
		"sweepWorkers": s.sweeper.Workers(),
		"goroutines":   runtime.NumGoroutine(),
	}
	if d, err := s.store.Current(context.Background()); err == nil {
		out["accounts"] = len(d.Accounts)
		out["reps"] = len(d.Reps)
		out["source"] = d.Source
		out["loadedAt"] = d.LoadedAt
	}
	metrics.UpdateCacheEntries(s.cache.Len())
	return out
}
