package repository

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/zeebo/xxh3"

	"github.com/okian/territory/internal/domain/model"
	"github.com/okian/territory/internal/domain/scoring"
)

// Fingerprint hashes every field that influences an assignment run.
// Two batches with equal fingerprints produce identical runs.
func Fingerprint(accounts []model.Account, reps []model.Rep) uint64 {
	var h uint64
	var ib [8]byte
	mix := func(v float64) {
		binary.LittleEndian.PutUint64(ib[:], math.Float64bits(v))
		h = xxh3.HashSeed(ib[:], h)
	}
	for _, a := range accounts {
		h = xxh3.HashStringSeed(a.ID, h)
		h = xxh3.HashStringSeed(a.Name, h)
		h = xxh3.HashStringSeed(a.Location, h)
		mix(a.ARR)
		mix(float64(a.Employees))
		mix(float64(a.Marketers))
		mix(a.RiskScore)
	}
	h = xxh3.HashStringSeed("|reps|", h)
	for _, r := range reps {
		h = xxh3.HashStringSeed(r.Name, h)
		h = xxh3.HashStringSeed(r.Location, h)
		h = xxh3.HashStringSeed(string(r.Segment), h)
	}
	return h
}

// WeightsKey is a stable textual key of a weight vector.
func WeightsKey(w scoring.Weights) string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return f(w.ARR) + "/" + f(w.Employees) + "/" + f(w.Marketers) + "/" + f(w.Risk) + "/" + f(w.Location)
}

// RunKey identifies one assignment run.
func RunKey(fingerprint uint64, threshold int, w scoring.Weights) string {
	return strconv.FormatUint(fingerprint, 16) + ":" + strconv.Itoa(threshold) + ":" + WeightsKey(w)
}
