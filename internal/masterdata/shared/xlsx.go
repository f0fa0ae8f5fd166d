package shared

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ImportResult summarises a spreadsheet import: how many rows were created or
// updated, and per-row errors collected without aborting the batch.
type ImportResult struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Errors  []string `json:"errors"`
}

// AddRowError records a failed row, numbered as shown in the spreadsheet.
func (r *ImportResult) AddRowError(row int, err error) {
	r.Errors = append(r.Errors, fmt.Sprintf("row %d: %v", row, err))
}

// ReadSheet opens the uploaded workbook and returns the data rows of the
// first sheet, header row stripped. Cell values come back trimmed.
func ReadSheet(file io.Reader) ([][]string, error) {
	wb, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	data := rows[1:]
	for i := range data {
		for j := range data[i] {
			data[i][j] = strings.TrimSpace(data[i][j])
		}
	}
	return data, nil
}

// WriteSheet builds a single-sheet workbook with a header row and streams it
// as an attachment named <resource>.xlsx.
func WriteSheet(w http.ResponseWriter, resource string, header []string, rows [][]any) error {
	wb := excelize.NewFile()
	defer wb.Close()

	sheet := wb.GetSheetName(0)
	cell, _ := excelize.CoordinatesToCellName(1, 1)
	if err := wb.SetSheetRow(sheet, cell, &header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := wb.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, resource))
	return wb.Write(w)
}
