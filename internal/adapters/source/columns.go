package source

import (
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Column headers of the Accounts table.
const (
	ColAccountID   = "Account_ID"
	ColAccountName = "Account_Name"
	ColCurrentRep  = "Current_Rep"
	ColARR         = "ARR"
	ColLocation    = "Location"
	ColEmployees   = "Num_Employees"
	ColMarketers   = "Num_Marketers"
	ColRiskScore   = "Risk_Score"
)

// Column headers of the Reps table.
const (
	ColRepName = "Rep_Name"
	ColSegment = "Segment"
)

// AccountColumns lists the headers an accounts table must carry.
// Current_Rep is informational and may be absent.
var AccountColumns = []string{ColAccountID, ColAccountName, ColARR, ColLocation, ColEmployees, ColMarketers, ColRiskScore}

// RepColumns lists the headers a reps table must carry.
var RepColumns = []string{ColRepName, ColLocation, ColSegment}

// headerKey folds a header so "num employees", "Num_Employees" and " NUM-EMPLOYEES " match.
func headerKey(h string) string {
	h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	h = strings.ToLower(h)
	return strings.NewReplacer(" ", "_", "-", "_").Replace(h)
}

// header maps column names to their index in a row.
type header map[string]int

func newHeader(row []string, required []string) (header, error) {
	h := make(header, len(row))
	for i, name := range row {
		k := headerKey(name)
		if k == "" {
			continue
		}
		if _, dup := h[k]; !dup {
			h[k] = i
		}
	}
	var missing []string
	for _, col := range required {
		if _, ok := h[headerKey(col)]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, eris.Wrapf(ErrMissingColumn, "%s", strings.Join(missing, ", "))
	}
	return h, nil
}

// cell returns the trimmed value of column col, or "" when the row is short
// or the column is absent.
func (h header) cell(row []string, col string) string {
	i, ok := h[headerKey(col)]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseNumber coerces a spreadsheet cell to a finite float.
// Empty cells read as zero; thousands separators and a leading currency sign are tolerated.
func parseNumber(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidNumber
	}
	return v, nil
}

// parseCount coerces a cell to a non-negative whole number.
func parseCount(raw string) (int, error) {
	v, err := parseNumber(raw)
	if err != nil {
		return 0, err
	}
	if v < 0 || v != math.Trunc(v) || v > math.MaxInt32 {
		return 0, ErrInvalidNumber
	}
	return int(v), nil
}
