package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/nao1215/shareholders/internal/model"
)

// CSVWriter writes records as comma-separated values.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a new CSVWriter.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs a header line followed by one line per record.
func (w *CSVWriter) Write(records []model.OwnershipRecord) (int, error) {
	cw := csv.NewWriter(w.output)

	if err := cw.Write(model.Header()); err != nil {
		return w.output.n, fmt.Errorf("failed to write header: %w", err)
	}
	for _, record := range records {
		if err := cw.Write(record.Strings()); err != nil {
			return w.output.n, fmt.Errorf("failed to write record: %w", err)
		}
	}

	cw.Flush()
	return w.output.n, cw.Error()
}
