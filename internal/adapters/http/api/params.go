package api

import (
	"fmt"
	"net/url"
	"strconv"

	service "github.com/okian/territory/internal/app"
	"github.com/okian/territory/internal/domain/scoring"
	"github.com/okian/territory/internal/sweep"
)

// Query parameter names shared by the run endpoints.
const (
	paramThreshold = "threshold"
	paramFrom      = "from"
	paramTo        = "to"
	paramStep      = "step"
)

// weightParams maps each query parameter onto the coefficient it overrides.
var weightParams = []struct {
	name string
	set  func(*scoring.Weights, float64)
}{
	{"w_arr", func(w *scoring.Weights, v float64) { w.ARR = v }},
	{"w_employees", func(w *scoring.Weights, v float64) { w.Employees = v }},
	{"w_marketers", func(w *scoring.Weights, v float64) { w.Marketers = v }},
	{"w_risk", func(w *scoring.Weights, v float64) { w.Risk = v }},
	{"w_location", func(w *scoring.Weights, v float64) { w.Location = v }},
}

// parseWeights overlays the w_* parameters on defaults. It returns nil when
// none are present so the service default applies.
func parseWeights(q url.Values, defaults scoring.Weights) (*scoring.Weights, error) {
	w := defaults
	found := false
	for _, p := range weightParams {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q", ErrBadRequest, p.name, raw)
		}
		p.set(&w, v)
		found = true
	}
	if !found {
		return nil, nil
	}
	return &w, nil
}

func parseInt(q url.Values, name string, def int) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrBadRequest, name, raw)
	}
	return v, nil
}

// parseRequest reads threshold and weight overrides from the query string.
// Only an absent threshold falls back to the service default.
func parseRequest(q url.Values, defaults scoring.Weights) (service.Request, error) {
	var req service.Request
	if q.Has(paramThreshold) {
		threshold, err := parseInt(q, paramThreshold, 0)
		if err != nil {
			return service.Request{}, err
		}
		req.Threshold = &threshold
	}
	w, err := parseWeights(q, defaults)
	if err != nil {
		return service.Request{}, err
	}
	req.Weights = w
	return req, nil
}

// parseRange reads from/to/step, defaulting to the full accepted range.
func parseRange(q url.Values, minimum, maximum, step int) (sweep.Range, error) {
	var (
		r   sweep.Range
		err error
	)
	if r.From, err = parseInt(q, paramFrom, minimum); err != nil {
		return sweep.Range{}, err
	}
	if r.To, err = parseInt(q, paramTo, maximum); err != nil {
		return sweep.Range{}, err
	}
	if r.Step, err = parseInt(q, paramStep, step); err != nil {
		return sweep.Range{}, err
	}
	return r, nil
}
