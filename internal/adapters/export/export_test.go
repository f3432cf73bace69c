package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/okian/territory/internal/domain/model"
	"github.com/okian/territory/internal/domain/stats"
)

func sampleAssigned() []model.AssignedAccount {
	mk := func(id string, arr float64, emp int, seg model.Segment, rep string, load float64) model.AssignedAccount {
		return model.AssignedAccount{
			SegmentedAccount: model.SegmentedAccount{
				AccountWithBaseLoad: model.AccountWithBaseLoad{
					Account: model.Account{
						ID: id, Name: "Name, " + id, ARR: arr, Location: "CA",
						Employees: emp, Marketers: 2, RiskScore: 12.5,
					},
					BaseLoad: load,
				},
				Segment: seg,
			},
			Load:        load,
			AssignedRep: rep,
		}
	}
	return []model.AssignedAccount{
		mk("A1", 120000, 150000, model.SegmentEnterprise, "Mickey", 0.95),
		mk("A2", 5000.5, 20, model.SegmentMidMarket, "Goofy", 1.0/3),
	}
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleAssigned()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, Header, records[0])
	require.Equal(t, []string{
		"A1", "Name, A1", "120000", "CA", "150000", "2", "12.5", "Enterprise", "Mickey", "0.9500",
	}, records[1])
	require.Equal(t, "5000.5", records[2][2])
	require.Equal(t, "Mid-Market", records[2][7])
	require.Equal(t, "0.3333", records[2][9])
}

func TestWriteCSVEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	require.Equal(t, "Account_ID,Account_Name,ARR,Location,Num_Employees,Num_Marketers,Risk_Score,Segment,Assigned_Rep,Load\n", buf.String())
}

func TestFormatLoad(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0000"},
		{1, "1.0000"},
		{0.12345, "0.1235"},
		{2.99999, "3.0000"},
		{1.05, "1.0500"},
		// Halves round away from zero on the shortest decimal form, so
		// 0.00015 (stored as 0.000149999...) still renders as 0.0002.
		{0.00015, "0.0002"},
		{2.5e-5, "0.0000"},
		{0.00025, "0.0003"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, FormatLoad(tt.in))
	}
}

func TestFileNameAndContentType(t *testing.T) {
	t.Parallel()

	at := time.UnixMilli(1700000000123)
	require.Equal(t, "territory-assignments-1700000000123.csv", FileName(FormatCSV, at))
	require.Equal(t, "territory-assignments-1700000000123.xlsx", FileName(FormatXLSX, at))
	require.Equal(t, "text/csv", ContentType(FormatCSV))
	require.Contains(t, ContentType(FormatXLSX), "spreadsheetml")
	require.Equal(t, "application/octet-stream", ContentType("pdf"))
}

func TestWriteXLSX(t *testing.T) {
	t.Parallel()

	avg := 62500.25
	reps := []stats.RepSummary{
		{Name: "Mickey", Location: "CA", Segment: model.SegmentEnterprise, Accounts: 1, TotalARR: 120000, AverageARR: &avg, TotalLoad: 0.95, LocationMatches: 1, LocationMatchPercent: 100},
		{Name: "Idle", Location: "TX", Segment: model.SegmentMidMarket},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleAssigned(), reps))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	require.Equal(t, []string{SheetAssignments, SheetReps}, f.GetSheetList())

	rows, err := f.GetRows(SheetAssignments)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, Header, rows[0])
	require.Equal(t, "Mickey", rows[1][8])
	require.Equal(t, "0.95", rows[1][9])
	require.Equal(t, "0.3333", rows[2][9])

	repRows, err := f.GetRows(SheetReps)
	require.NoError(t, err)
	require.Len(t, repRows, 3)
	require.Equal(t, RepHeader, repRows[0])
	require.Equal(t, "62500.25", repRows[1][5])
	require.Equal(t, "Idle", repRows[2][0])
	require.Equal(t, "", repRows[2][5])
}
