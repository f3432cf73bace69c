package source

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/okian/territory/internal/domain/model"
)

const accountsCSV = `Account_ID,Account_Name,Current_Rep,ARR,Location,Num_Employees,Num_Marketers,Risk_Score
A1,Acme,Mickey,"120,000",CA,150000,12,40
A2,Globex,,5000,NY,20,1,10.5

A3,Initech,Goofy,$800,TX,3000,0,99
`

const repsCSV = `Rep_Name,Location,Segment
Mickey,CA,Enterprise
Goofy,NY,Mid Market
`

func TestParseAccounts(t *testing.T) {
	t.Parallel()

	rows, err := ReadCSV(strings.NewReader(accountsCSV))
	require.NoError(t, err)

	accounts, err := ParseAccounts(rows)
	require.NoError(t, err)
	require.Len(t, accounts, 3)

	require.Equal(t, model.Account{
		ID: "A1", Name: "Acme", CurrentRep: "Mickey", ARR: 120000, Location: "CA",
		Employees: 150000, Marketers: 12, RiskScore: 40,
	}, accounts[0])
	require.Equal(t, 10.5, accounts[1].RiskScore)
	require.Equal(t, 800.0, accounts[2].ARR)
}

func TestParseAccountsHeaderVariants(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"\ufeffaccount id", "ACCOUNT_NAME", "arr", "location", "num-employees", "Num Marketers", "risk_score"},
		{"A1", "Acme", "", "CA", "10", "", "5"},
	}
	accounts, err := ParseAccounts(rows)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	require.Zero(t, accounts[0].ARR)
	require.Zero(t, accounts[0].Marketers)
	require.Equal(t, 10, accounts[0].Employees)
	require.Empty(t, accounts[0].CurrentRep)
}

func TestParseAccountsErrors(t *testing.T) {
	t.Parallel()

	head := []string{"Account_ID", "Account_Name", "ARR", "Location", "Num_Employees", "Num_Marketers", "Risk_Score"}
	tests := []struct {
		name string
		rows [][]string
		want error
		msg  string
	}{
		{"empty table", nil, ErrMissingColumn, ""},
		{"missing column", [][]string{{"Account_ID", "ARR"}}, ErrMissingColumn, "Num_Employees"},
		{"bad arr", [][]string{head, {"A1", "x", "lots", "CA", "1", "1", "1"}}, ErrInvalidNumber, "row 2 column ARR"},
		{"negative arr", [][]string{head, {"A1", "x", "-5", "CA", "1", "1", "1"}}, ErrInvalidNumber, "ARR"},
		{"fractional employees", [][]string{head, {"A1", "x", "1", "CA", "1.5", "1", "1"}}, ErrInvalidNumber, "Num_Employees"},
		{"nan risk", [][]string{head, {"A1", "x", "1", "CA", "1", "1", "NaN"}}, ErrInvalidNumber, "Risk_Score"},
		{"empty id", [][]string{head, {"", "x", "1", "CA", "1", "1", "1"}}, ErrInvalidRow, "Account_ID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAccounts(tt.rows)
			require.Error(t, err)
			require.True(t, errors.Is(err, tt.want), "got %v", err)
			require.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestParseReps(t *testing.T) {
	t.Parallel()

	rows, err := ReadCSV(strings.NewReader(repsCSV))
	require.NoError(t, err)

	reps, err := ParseReps(rows)
	require.NoError(t, err)
	require.Equal(t, []model.Rep{
		{Name: "Mickey", Location: "CA", Segment: model.SegmentEnterprise},
		{Name: "Goofy", Location: "NY", Segment: model.SegmentMidMarket},
	}, reps)

	_, err = ParseReps([][]string{{"Rep_Name", "Location", "Segment"}, {"Pluto", "CA", "SMB"}})
	require.ErrorIs(t, err, model.ErrUnknownSegment)
	require.Contains(t, err.Error(), "row 2")

	_, err = ParseReps([][]string{{"Rep_Name", "Location"}})
	require.ErrorIs(t, err, ErrMissingColumn)
}

func TestLoaderCSVFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	accPath := filepath.Join(dir, "accounts.csv")
	repPath := filepath.Join(dir, "reps.csv")
	require.NoError(t, os.WriteFile(accPath, []byte(accountsCSV), 0o600))
	require.NoError(t, os.WriteFile(repPath, []byte(repsCSV), 0o600))

	data, err := New().Load(context.Background(), Sources{Accounts: accPath, Reps: repPath})
	require.NoError(t, err)
	require.Len(t, data.Accounts, 3)
	require.Len(t, data.Reps, 2)

	_, err = New().Load(context.Background(), Sources{Accounts: filepath.Join(dir, "nope.csv"), Reps: repPath})
	require.ErrorIs(t, err, ErrFetch)

	_, err = New().Load(context.Background(), Sources{Accounts: filepath.Join(dir, "a.xlsx"), Reps: repPath})
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = New().Load(context.Background(), Sources{})
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoaderHTTP(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("sheet") {
		case "Accounts":
			_, _ = w.Write([]byte(accountsCSV))
		case "Reps":
			_, _ = w.Write([]byte(repsCSV))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	l := New(WithHTTPClient(srv.Client()))
	data, err := l.Load(context.Background(), Sources{
		Accounts: SheetCSVURL(srv.URL, "Accounts"),
		Reps:     SheetCSVURL(srv.URL, "Reps"),
	})
	require.NoError(t, err)
	require.Len(t, data.Accounts, 3)
	require.Len(t, data.Reps, 2)

	_, err = l.Load(context.Background(), Sources{
		Accounts: SheetCSVURL(srv.URL, "Missing"),
		Reps:     SheetCSVURL(srv.URL, "Reps"),
	})
	require.ErrorIs(t, err, ErrFetch)
	require.Contains(t, err.Error(), "status 404")
}

func TestSheetCSVURL(t *testing.T) {
	t.Parallel()

	require.Equal(t,
		"https://docs.google.com/spreadsheets/d/abc/gviz/tq?tqx=out:csv&sheet=Mid+Market",
		SheetCSVURL("https://docs.google.com/spreadsheets/d/abc/", "Mid Market"),
	)
}

func TestReadWorkbook(t *testing.T) {
	t.Parallel()

	buf := buildWorkbook(t, true)
	accounts, reps, err := ReadWorkbook(bytes.NewReader(buf))
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	require.Equal(t, 150000, accounts[0].Employees)
	require.Equal(t, 7.5, accounts[1].RiskScore)
	require.Len(t, reps, 2)
	require.Equal(t, model.SegmentMidMarket, reps[1].Segment)

	_, _, err = ReadWorkbook(bytes.NewReader(buildWorkbook(t, false)))
	require.ErrorIs(t, err, ErrMissingSheet)

	_, _, err = ReadWorkbook(strings.NewReader("not a zip"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoaderWorkbookFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "territory.xlsx")
	require.NoError(t, os.WriteFile(path, buildWorkbook(t, true), 0o600))

	data, err := New().Load(context.Background(), Sources{Workbook: path, Accounts: "ignored.csv"})
	require.NoError(t, err)
	require.Len(t, data.Accounts, 2)

	_, err = New().Load(context.Background(), Sources{Workbook: filepath.Join(t.TempDir(), "book.ods")})
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func buildWorkbook(t *testing.T, withReps bool) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	require.NoError(t, f.SetSheetName("Sheet1", SheetAccounts))
	accountRows := [][]any{
		{"Account_ID", "Account_Name", "Current_Rep", "ARR", "Location", "Num_Employees", "Num_Marketers", "Risk_Score"},
		{"A1", "Acme", "Mickey", 120000, "CA", 150000, 12, 40},
		{"A2", "Globex", "", 5000.5, "NY", 20, 1, 7.5},
	}
	for i, row := range accountRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(SheetAccounts, cell, &row))
	}

	if withReps {
		_, err := f.NewSheet(SheetReps)
		require.NoError(t, err)
		repRows := [][]any{
			{"Rep_Name", "Location", "Segment"},
			{"Mickey", "CA", "Enterprise"},
			{"Goofy", "NY", "Mid-Market"},
		}
		for i, row := range repRows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(SheetReps, cell, &row))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}
