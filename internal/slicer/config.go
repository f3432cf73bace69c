package slicer

import (
	"time"

	"github.com/okian/territory/internal/domain/scoring"
)

// Config holds configuration for one slicer run
type Config struct {
	AccountsPath string          // Accounts CSV path or URL
	RepsPath     string          // Reps CSV path or URL
	WorkbookPath string          // xlsx with Accounts and Reps sheets; wins over the CSV pair
	Threshold    int             // Employee count at which an account is Enterprise
	Weights      scoring.Weights // Load weights
	Out          string          // Export path; .xlsx selects the workbook format
	ExportDir    string          // Directory for the generated export name when Out is empty
	Sweep        bool            // Run a threshold sweep instead of one assignment
	SweepFrom    int             // First sweep threshold
	SweepTo      int             // Last sweep threshold
	SweepStep    int             // Sweep step
	Workers      int             // Sweep workers
	Verbose      bool            // Log every rep and segment facet
}

// Summary describes a finished run
type Summary struct {
	RunID     string
	Threshold int
	Output    string
	Accounts  int
	Reps      int
	BestScore *float64 // sweep only
	Best      int      // sweep only: best threshold
	StartTime time.Time
	Duration  time.Duration
}
