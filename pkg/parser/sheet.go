package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// maxSheetRows bounds how much of a legacy workbook is read.
const maxSheetRows = 10000

// flattenXLS renders a legacy Excel workbook as comma separated lines.
func flattenXLS(data []byte) (string, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "cp1252")
	if err != nil {
		return "", fmt.Errorf("error creating workbook: %w", err)
	}
	rows := workbook.ReadAllCells(maxSheetRows)
	if len(rows) == 0 {
		return "", fmt.Errorf("no data found in sheet")
	}
	return joinRows(rows), nil
}

// flattenXLSX renders the first sheet of an Office Open XML workbook as comma
// separated lines.
func flattenXLSX(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("error opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return "", fmt.Errorf("error reading sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return "", fmt.Errorf("no data found in sheet")
	}
	return joinRows(rows), nil
}

// joinRows pads every row to the widest one so empty trailing columns keep
// their place, then joins cells with commas.
func joinRows(rows [][]string) string {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	var b strings.Builder
	for _, row := range rows {
		cells := make([]string, width)
		copy(cells, row)
		if strings.TrimSpace(strings.Join(cells, "")) == "" {
			continue
		}
		b.WriteString(strings.Join(cells, ","))
		b.WriteByte('\n')
	}
	return b.String()
}
