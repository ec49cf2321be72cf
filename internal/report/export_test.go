package report

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, BuildSummary(sampleRecords(), GroupByDay)))

	out := buf.Bytes()
	require.True(t, bytes.HasPrefix(out, utf8BOM), "missing UTF-8 BOM")

	r := csv.NewReader(bytes.NewReader(out[len(utf8BOM):]))
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Period", "Total", "Present", "Absent", "Percentage (%)"}, rows[0])
	assert.Equal(t, []string{"02.03.2026", "2", "1", "1", "50.0"}, rows[1])
	assert.Equal(t, []string{"03.03.2026", "3", "2", "0", "66.7"}, rows[2])
}

func TestWriteCSVEmptyReportHasHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, BuildDetailed(nil)))

	r := csv.NewReader(bytes.NewReader(buf.Bytes()[len(utf8BOM):]))
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"Date", "Student", "Class", "Subject", "Status", "Notes", "Time"}, rows[0])
}

func TestWriteExcelMatchesCSVData(t *testing.T) {
	for _, ty := range []Type{TypeSummary, TypeDetailed, TypeStudent, TypeSubject, TypeDaily} {
		rep := Build(ty, GroupByDay, sampleRecords())

		var xbuf bytes.Buffer
		require.NoError(t, WriteExcel(&xbuf, rep), "type %s", ty)

		f, err := excelize.OpenReader(bytes.NewReader(xbuf.Bytes()))
		require.NoError(t, err)

		sheetRows, err := f.GetRows(rep.Title())
		require.NoError(t, err)
		require.NoError(t, f.Close())

		want := append([][]string{rep.Columns()}, rep.Rows()...)
		require.Len(t, sheetRows, len(want), "type %s", ty)
		for i := range want {
			// Trailing empty cells may be trimmed by the reader; compare
			// cell by cell.
			for j, cell := range want[i] {
				var got string
				if j < len(sheetRows[i]) {
					got = sheetRows[i][j]
				}
				assert.Equal(t, cell, got, "type %s row %d col %d", ty, i, j)
			}
		}
	}
}

func TestWriteExcelEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteExcel(&buf, BuildStudentRollup(nil)))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Student Attendance")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
