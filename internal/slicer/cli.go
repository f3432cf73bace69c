// Package slicer runs one territory assignment (or threshold sweep) from the
// command line: load the tables, assign, log the summary and write the export.
package slicer

import (
	"io"
)

// ShowHelp prints usage information for the slicer.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Territory Slicer
================

Segments accounts by employee count, assigns them to reps and writes the result.

Usage:
  go run ./cmd/slicer [options]

Options:
  -accounts string
        Accounts CSV path or URL (default "data/accounts.csv")
  -reps string
        Reps CSV path or URL (default "data/reps.csv")
  -workbook string
        xlsx workbook with Accounts and Reps sheets (overrides -accounts/-reps)
  -threshold int
        Employee count at which an account is Enterprise (default 100000)
  -out string
        Export path, .csv or .xlsx (default: territory-assignments-<unix-millis>.csv)
  -sweep
        Evaluate every threshold between the configured bounds instead
  -verbose
        Log every rep and balance facet
  -help
        Show this help message

Environment:
  TERRITORY_* variables and TERRITORY_CONFIG are read the same way as the server.

Examples:
  # Assign with default settings
  go run ./cmd/slicer

  # Use a workbook and a lower threshold, export as xlsx
  go run ./cmd/slicer -workbook book.xlsx -threshold 50000 -out out/assignments.xlsx

  # Find the best balanced threshold
  go run ./cmd/slicer -sweep
`)
}
