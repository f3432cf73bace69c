// Package export writes the flattened assignment list as CSV or XLSX.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/okian/territory/internal/domain/model"
)

// Supported export formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// loadPlaces is the number of decimals Load is written with.
const loadPlaces = 4

// Header is the column order of an assignment export.
var Header = []string{
	"Account_ID",
	"Account_Name",
	"ARR",
	"Location",
	"Num_Employees",
	"Num_Marketers",
	"Risk_Score",
	"Segment",
	"Assigned_Rep",
	"Load",
}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	switch format {
	case FormatCSV:
		return "text/csv"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/octet-stream"
}

// FileName returns territory-assignments-<unix-millis>.<format>.
func FileName(format string, at time.Time) string {
	return fmt.Sprintf("territory-assignments-%d.%s", at.UnixMilli(), format)
}

// FormatLoad renders a load with exactly four decimals. Rounding applies to
// the shortest decimal form of load, half away from zero.
func FormatLoad(load float64) string {
	return decimal.NewFromFloat(load).StringFixed(loadPlaces)
}

// formatRaw renders a number in its shortest exact form (120000, 10.5).
func formatRaw(v float64) string {
	return decimal.NewFromFloat(v).String()
}

// Row renders one account in Header order.
func Row(a model.AssignedAccount) []string {
	return []string{
		a.ID,
		a.Name,
		formatRaw(a.ARR),
		a.Location,
		strconv.Itoa(a.Employees),
		strconv.Itoa(a.Marketers),
		formatRaw(a.RiskScore),
		string(a.Segment),
		a.AssignedRep,
		FormatLoad(a.Load),
	}
}

// WriteCSV writes the header and one row per account.
func WriteCSV(w io.Writer, accounts []model.AssignedAccount) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	for _, a := range accounts {
		if err := cw.Write(Row(a)); err != nil {
			return fmt.Errorf("%w: account %s: %w", ErrWrite, a.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}
