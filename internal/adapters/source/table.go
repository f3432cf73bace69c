package source

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/okian/territory/internal/domain/model"
)

// ParseAccounts converts a table whose first row is the header into accounts.
// Blank rows are skipped. Row numbers in errors are 1-based and count the header.
func ParseAccounts(rows [][]string) ([]model.Account, error) {
	if len(rows) == 0 {
		return nil, eris.Wrap(ErrMissingColumn, "accounts: empty table")
	}
	h, err := newHeader(rows[0], AccountColumns)
	if err != nil {
		return nil, eris.Wrap(err, "accounts")
	}

	accounts := make([]model.Account, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		rowNo := i + 2
		a := model.Account{
			ID:         h.cell(row, ColAccountID),
			Name:       h.cell(row, ColAccountName),
			CurrentRep: h.cell(row, ColCurrentRep),
			Location:   h.cell(row, ColLocation),
		}
		if a.ID == "" {
			return nil, eris.Wrapf(ErrInvalidRow, "accounts: row %d: empty %s", rowNo, ColAccountID)
		}
		if a.ARR, err = parseNumber(h.cell(row, ColARR)); err != nil || a.ARR < 0 {
			return nil, numberError("accounts", rowNo, ColARR, h.cell(row, ColARR))
		}
		if a.Employees, err = parseCount(h.cell(row, ColEmployees)); err != nil {
			return nil, numberError("accounts", rowNo, ColEmployees, h.cell(row, ColEmployees))
		}
		if a.Marketers, err = parseCount(h.cell(row, ColMarketers)); err != nil {
			return nil, numberError("accounts", rowNo, ColMarketers, h.cell(row, ColMarketers))
		}
		if a.RiskScore, err = parseNumber(h.cell(row, ColRiskScore)); err != nil {
			return nil, numberError("accounts", rowNo, ColRiskScore, h.cell(row, ColRiskScore))
		}
		accounts = append(accounts, a)
	}
	return accounts, nil
}

// ParseReps converts a table whose first row is the header into reps.
func ParseReps(rows [][]string) ([]model.Rep, error) {
	if len(rows) == 0 {
		return nil, eris.Wrap(ErrMissingColumn, "reps: empty table")
	}
	h, err := newHeader(rows[0], RepColumns)
	if err != nil {
		return nil, eris.Wrap(err, "reps")
	}

	reps := make([]model.Rep, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		rowNo := i + 2
		name := h.cell(row, ColRepName)
		if name == "" {
			return nil, eris.Wrapf(ErrInvalidRow, "reps: row %d: empty %s", rowNo, ColRepName)
		}
		seg, err := model.ParseSegment(h.cell(row, ColSegment))
		if err != nil {
			return nil, eris.Wrapf(err, "reps: row %d column %s", rowNo, ColSegment)
		}
		reps = append(reps, model.Rep{
			Name:     name,
			Location: h.cell(row, ColLocation),
			Segment:  seg,
		})
	}
	return reps, nil
}

func numberError(table string, row int, col, raw string) error {
	return eris.Wrapf(ErrInvalidNumber, "%s: row %d column %s: %q", table, row, col, raw)
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
