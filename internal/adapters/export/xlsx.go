package export

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/okian/territory/internal/domain/model"
	"github.com/okian/territory/internal/domain/stats"
)

// Sheet names of the workbook export.
const (
	SheetAssignments = "Assignments"
	SheetReps        = "Reps"
)

// RepHeader is the column order of the Reps sheet.
var RepHeader = []string{
	"Rep_Name",
	"Location",
	"Segment",
	"Accounts",
	"Total_ARR",
	"Average_ARR",
	"Total_Load",
	"Location_Matches",
	"Location_Match_Pct",
}

// WriteXLSX writes a workbook with the assignment rows and a per-rep summary.
// Numbers are stored as numeric cells; Load is rounded to four decimals.
func WriteXLSX(w io.Writer, accounts []model.AssignedAccount, reps []stats.RepSummary) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetAssignments); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if _, err := f.NewSheet(SheetReps); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	rows := make([][]any, 0, len(accounts)+1)
	rows = append(rows, toRow(Header))
	for _, a := range accounts {
		rows = append(rows, []any{
			a.ID, a.Name, a.ARR, a.Location, a.Employees, a.Marketers, a.RiskScore,
			string(a.Segment), a.AssignedRep, round(a.Load, loadPlaces),
		})
	}
	if err := writeSheet(f, SheetAssignments, rows, bold); err != nil {
		return err
	}

	rows = rows[:0]
	rows = append(rows, toRow(RepHeader))
	for _, r := range reps {
		var avg any = ""
		if r.AverageARR != nil {
			avg = round(*r.AverageARR, 2)
		}
		rows = append(rows, []any{
			r.Name, r.Location, string(r.Segment), r.Accounts, r.TotalARR, avg,
			round(r.TotalLoad, loadPlaces), r.LocationMatches, round(r.LocationMatchPercent, 1),
		})
	}
	if err := writeSheet(f, SheetReps, rows, bold); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("%w: sheet %s row %d: %w", ErrWrite, sheet, i+1, err)
		}
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

func toRow(cols []string) []any {
	row := make([]any, len(cols))
	for i, c := range cols {
		row[i] = c
	}
	return row
}

func round(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}
