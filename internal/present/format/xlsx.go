package format

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/mithrel/tablemark/internal/table"
)

var emphasisColors = map[table.Emphasis]string{
	table.EmphasisNegative: "C00000",
	table.EmphasisPositive: "00B050",
	table.EmphasisCaution:  "BF8F00",
}

// SheetName names the worksheet for the i-th table (zero based).
func SheetName(i int) string { return fmt.Sprintf("Table%d", i+1) }

// WriteXLSX writes one worksheet per table. A document without tables
// yields a workbook with a single empty sheet.
func WriteXLSX(w io.Writer, doc table.Document, headers bool) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	styles := make(map[table.Emphasis]int, len(emphasisColors)+1)
	for e, color := range emphasisColors {
		id, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Color: color}})
		if err != nil {
			return err
		}
		styles[e] = id
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	tables := make([]table.Table, 0, len(doc.Tables))
	for _, t := range doc.Tables {
		if t.Width() > 0 {
			tables = append(tables, t)
		}
	}

	if err := f.SetSheetName("Sheet1", SheetName(0)); err != nil {
		return err
	}
	for i, t := range tables {
		sheet := SheetName(i)
		if i > 0 {
			if _, err := f.NewSheet(sheet); err != nil {
				return err
			}
		}

		rowIdx := 1
		if headers {
			for c, h := range t.Header {
				cell, _ := excelize.CoordinatesToCellName(c+1, rowIdx)
				if err := f.SetCellValue(sheet, cell, h.Text); err != nil {
					return err
				}
				if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
					return err
				}
			}
			rowIdx++
		}
		for _, row := range t.Body {
			for c, v := range row {
				cell, _ := excelize.CoordinatesToCellName(c+1, rowIdx)
				if err := f.SetCellValue(sheet, cell, v.Text); err != nil {
					return err
				}
				if id, ok := styles[v.Emphasis]; ok {
					if err := f.SetCellStyle(sheet, cell, cell, id); err != nil {
						return err
					}
				}
			}
			rowIdx++
		}
	}
	f.SetActiveSheet(0)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
