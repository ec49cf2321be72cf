package report

import (
	"encoding/csv"
	"fmt"
	"io"
)

// utf8BOM keeps Excel from misreading the charset when a CSV is opened
// directly.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV renders a tabular report as UTF-8 CSV with a BOM prefix.
func WriteCSV(w io.Writer, t Tabular) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range t.Rows() {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
