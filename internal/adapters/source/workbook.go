package source

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"github.com/okian/territory/internal/domain/model"
)

// Sheet names looked up in a workbook.
const (
	SheetAccounts = "Accounts"
	SheetReps     = "Reps"
)

// ReadWorkbook reads the Accounts and Reps sheets of an xlsx workbook.
func ReadWorkbook(r io.Reader) ([]model.Account, []model.Rep, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, eris.Wrapf(ErrUnsupportedFormat, "open workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	accountRows, err := sheetRows(f, SheetAccounts)
	if err != nil {
		return nil, nil, err
	}
	repRows, err := sheetRows(f, SheetReps)
	if err != nil {
		return nil, nil, err
	}

	accounts, err := ParseAccounts(accountRows)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "sheet %s", SheetAccounts)
	}
	reps, err := ParseReps(repRows)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "sheet %s", SheetReps)
	}
	return accounts, reps, nil
}

func sheetRows(f *excelize.File, sheet string) ([][]string, error) {
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, eris.Wrapf(ErrMissingSheet, "workbook has no %s sheet", sheet)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, eris.Wrapf(err, "read sheet %s", sheet)
	}
	return rows, nil
}
