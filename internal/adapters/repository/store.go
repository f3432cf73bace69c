// Package repository holds the loaded account/rep batch in memory together
// with memoized base loads and assignment runs.
package repository

import (
	"context"
	"time"

	"github.com/okian/territory/internal/domain/model"
	"github.com/okian/territory/internal/domain/scoring"
)

// Dataset is an immutable loaded batch. Replace swaps it as a whole.
type Dataset struct {
	Accounts    []model.Account
	Reps        []model.Rep
	Fingerprint uint64
	Source      string
	LoadedAt    time.Time
}

// Store provides access to the current dataset.
type Store interface {
	// Replace installs a new batch and drops everything derived from the old one.
	Replace(ctx context.Context, accounts []model.Account, reps []model.Rep, source string) (*Dataset, error)

	// Current returns the installed batch or ErrNoDataset.
	Current(ctx context.Context) (*Dataset, error)

	// BaseLoads returns the batch scored with w, computing it at most once per weights.
	BaseLoads(ctx context.Context, w scoring.Weights) (*Dataset, []model.AccountWithBaseLoad, error)
}
