package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/nao1215/shareholders/internal/model"
)

// SheetName is the worksheet that holds the records.
const SheetName = "Shareholders"

// XLSXWriter writes records as an Excel workbook with a single sheet.
type XLSXWriter struct {
	baseWriter
}

// NewXLSXWriter creates a new XLSXWriter.
func NewXLSXWriter(output io.Writer) *XLSXWriter {
	return &XLSXWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the records as a workbook.
// The header row is bold and frozen. Absent values leave the cell empty.
func (w *XLSXWriter) Write(records []model.OwnershipRecord) (int, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return 0, fmt.Errorf("failed to rename sheet: %w", err)
	}

	header := model.Header()
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return 0, err
		}
		values := record.Values()
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return 0, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := styleHeader(f, len(header)); err != nil {
		return 0, err
	}

	if _, err := f.WriteTo(w.output); err != nil {
		return w.output.n, fmt.Errorf("failed to write workbook: %w", err)
	}
	return w.output.n, nil
}

// styleHeader makes the header row bold and keeps it visible while scrolling.
func styleHeader(f *excelize.File, columns int) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	last, err := excelize.CoordinatesToCellName(columns, 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", last, style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	return f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
