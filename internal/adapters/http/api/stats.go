package api

import (
	"fmt"
	"net/http"
	"strings"
)

// StatsProvider reports service counters keyed by name.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves GET /stats.
type StatsHandler struct {
	provider StatsProvider
}

// NewStatsHandler creates a stats handler over provider.
func NewStatsHandler(provider StatsProvider) *StatsHandler {
	return &StatsHandler{provider: provider}
}

// HandleStats writes the service counters. An optional comma separated
// fields parameter narrows the answer to the named keys.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	const op = "api.stats"

	stats := h.provider.GetStats()
	raw := r.URL.Query().Get("fields")
	if raw == "" {
		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, stats)
		return
	}

	picked := make(map[string]interface{})
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		v, ok := stats[name]
		if !ok {
			writeFailure(w, Wrap(op, fmt.Errorf("%w: unknown stats field %q", ErrBadRequest, name)))
			return
		}
		picked[name] = v
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, picked)
}
