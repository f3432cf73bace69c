// Package sweep evaluates many segmentation thresholds in parallel and picks
// the one that balances rep load best.
package sweep

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/okian/territory/internal/domain/model"
	"github.com/okian/territory/pkg/logger"
	"github.com/okian/territory/pkg/metrics"
)

const defaultMaxPoints = 1000

// Range is an inclusive threshold range walked by Step.
type Range struct {
	From int `json:"from"`
	To   int `json:"to"`
	Step int `json:"step"`
}

// Validate checks that the range is ordered and the step positive.
func (r Range) Validate() error {
	if r.Step <= 0 {
		return fmt.Errorf("%w: step must be positive, got %d", ErrInvalidRange, r.Step)
	}
	if r.From < 0 || r.From > r.To {
		return fmt.Errorf("%w: from %d to %d", ErrInvalidRange, r.From, r.To)
	}
	return nil
}

// Len returns the number of thresholds in the range, saturating at
// math.MaxInt for spans that do not fit an int.
func (r Range) Len() int {
	if r.Validate() != nil {
		return 0
	}
	steps := uint64(r.To-r.From) / uint64(r.Step)
	if steps >= math.MaxInt {
		return math.MaxInt
	}
	return int(steps) + 1
}

// Thresholds lists every threshold of the range in ascending order.
func (r Range) Thresholds() []int {
	out := make([]int, 0, r.Len())
	for t := r.From; t <= r.To && len(out) < cap(out); t += r.Step {
		out = append(out, t)
	}
	return out
}

// Point is the outcome of one threshold.
type Point struct {
	Threshold int                        `json:"threshold"`
	Accounts  map[model.Segment]int      `json:"accounts"`
	Balance   map[model.Segment]*float64 `json:"load_balance"`
	// Score is the mean of the non-nil load balances; nil when none exist.
	Score *float64 `json:"score"`
	Error string   `json:"error,omitempty"`
}

// Result is a full sweep ordered by threshold.
type Result struct {
	Range  Range   `json:"range"`
	Points []Point `json:"points"`
	// Best is the threshold with the highest Score; ties go to the lowest threshold.
	Best *Point `json:"best"`
}

// EvaluateFunc computes the segment counts and load balances for one threshold.
type EvaluateFunc func(ctx context.Context, threshold int) (Point, error)

// Pool runs evaluations on a fixed number of goroutines.
type Pool struct {
	workers   int
	maxPoints int
	logger    logger.Logger
}

// New creates a Pool sized to the CPU count by default.
func New(opts ...Option) *Pool {
	p := &Pool{
		workers:   runtime.NumCPU(),
		maxPoints: defaultMaxPoints,
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Workers returns the pool size.
func (p *Pool) Workers() int { return p.workers }

// Run evaluates every threshold of r. A failing threshold is recorded on its
// point and excluded from Best; only cancellation aborts the sweep.
func (p *Pool) Run(ctx context.Context, r Range, eval EvaluateFunc) (Result, error) {
	if err := r.Validate(); err != nil {
		return Result{}, err
	}
	if n := r.Len(); n > p.maxPoints {
		return Result{}, fmt.Errorf("%w: %d > %d", ErrTooManyPoints, n, p.maxPoints)
	}
	start := time.Now()
	thresholds := r.Thresholds()

	jobs := make(chan int)
	points := make([]Point, len(thresholds))

	workers := min(p.workers, len(thresholds))
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				points[i] = p.evaluate(ctx, thresholds[i], eval)
			}
		}()
	}

feed:
	for i := range thresholds {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("sweep canceled: %w", err)
	}

	sort.SliceStable(points, func(i, j int) bool { return points[i].Threshold < points[j].Threshold })
	res := Result{Range: r, Points: points, Best: best(points)}

	bestThreshold := 0
	if res.Best != nil {
		bestThreshold = res.Best.Threshold
	}
	metrics.RecordSweep(len(points), float64(time.Since(start).Milliseconds()), bestThreshold)
	p.logger.Info(ctx, "sweep complete",
		logger.Int("points", len(points)),
		logger.Int("workers", workers),
		logger.Int("best_threshold", bestThreshold),
		logger.Duration("took", time.Since(start)),
	)
	return res, nil
}

func (p *Pool) evaluate(ctx context.Context, threshold int, eval EvaluateFunc) Point {
	metrics.AddSweepActiveWorkers(1)
	defer metrics.AddSweepActiveWorkers(-1)

	ctx = logger.WithFields(ctx, logger.Int("threshold", threshold))
	pt, err := eval(ctx, threshold)
	pt.Threshold = threshold
	if err != nil {
		metrics.RecordErrorByComponent("sweep", "evaluate")
		p.logger.Debug(ctx, "threshold evaluation failed", logger.Error(err))
		pt.Error = err.Error()
		pt.Score = nil
		return pt
	}
	pt.Score = meanBalance(pt.Balance)
	return pt
}

func meanBalance(balances map[model.Segment]*float64) *float64 {
	var sum float64
	var n int
	for _, b := range balances {
		if b != nil {
			sum += *b
			n++
		}
	}
	if n == 0 {
		return nil
	}
	mean := sum / float64(n)
	return &mean
}

// best assumes points are sorted by threshold.
func best(points []Point) *Point {
	var out *Point
	for i := range points {
		pt := &points[i]
		if pt.Score == nil {
			continue
		}
		if out == nil || *pt.Score > *out.Score {
			out = pt
		}
	}
	if out == nil {
		return nil
	}
	cp := *out
	return &cp
}
