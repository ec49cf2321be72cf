package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/samoschool/davomat-backend/internal/model"
)

const (
	headerFill  = "D9D9D9"
	colorGreen  = "008000"
	colorOrange = "FFA500"
	colorRed    = "FF0000"

	maxColWidth = 30
)

// cellColorer lets a report assign a font color to individual data
// cells. Row and column indexes are zero-based over Rows().
type cellColorer interface {
	CellColor(rowIdx, colIdx int) string
}

func statusColor(code string) string {
	switch model.AttendanceStatus(code) {
	case model.StatusPresent:
		return colorGreen
	case model.StatusAbsent:
		return colorRed
	case model.StatusLate:
		return colorOrange
	}
	return ""
}

func percentageColor(p float64) string {
	switch {
	case p < 70:
		return colorRed
	case p < 85:
		return colorOrange
	default:
		return colorGreen
	}
}

// CellColor colors the status column by attendance status.
func (d *Detailed) CellColor(rowIdx, colIdx int) string {
	if colIdx != 4 || rowIdx >= len(d.Records) {
		return ""
	}
	return statusColor(d.Records[rowIdx].StatusCode)
}

// CellColor colors the status column by attendance status.
func (e *RecordExport) CellColor(rowIdx, colIdx int) string {
	if colIdx != 4 || rowIdx >= len(e.Records) {
		return ""
	}
	return statusColor(string(e.Records[rowIdx].Status))
}

// CellColor colors the percentage column by attendance level.
func (s *StudentRollup) CellColor(rowIdx, colIdx int) string {
	if colIdx != 7 || rowIdx >= len(s.Students) {
		return ""
	}
	return percentageColor(s.Students[rowIdx].Percentage)
}

// WriteExcel renders a tabular report as a styled XLSX workbook. Data
// and ordering are exactly what WriteCSV emits for the same report.
func WriteExcel(w io.Writer, t Tabular) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := t.Title()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	columns := t.Columns()
	widths := make([]int, len(columns))
	for i, name := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return fmt.Errorf("write header cell: %w", err)
		}
		widths[i] = len(name)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := f.SetCellStyle(sheet, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	colorer, _ := t.(cellColorer)
	fontStyles := make(map[string]int)

	for ri, row := range t.Rows() {
		for ci, val := range row {
			cell, _ := excelize.CoordinatesToCellName(ci+1, ri+2)
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return fmt.Errorf("write cell: %w", err)
			}
			if len(val) > widths[ci] {
				widths[ci] = len(val)
			}
			if colorer == nil {
				continue
			}
			color := colorer.CellColor(ri, ci)
			if color == "" {
				continue
			}
			styleID, ok := fontStyles[color]
			if !ok {
				styleID, err = f.NewStyle(&excelize.Style{
					Font: &excelize.Font{Bold: true, Color: color},
				})
				if err != nil {
					return fmt.Errorf("font style: %w", err)
				}
				fontStyles[color] = styleID
			}
			if err := f.SetCellStyle(sheet, cell, cell, styleID); err != nil {
				return fmt.Errorf("style cell: %w", err)
			}
		}
	}

	for i, width := range widths {
		width += 2
		if width > maxColWidth {
			width = maxColWidth
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, float64(width)); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
