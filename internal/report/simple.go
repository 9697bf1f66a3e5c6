package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/nao1215/shareholders/internal/model"
)

// SimpleWriter outputs records as an aligned plain text table for terminal
// display: one header row, then one row per record in Header column order.
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a new SimpleWriter.
func NewSimpleWriter(output io.Writer) *SimpleWriter {
	return &SimpleWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the records. Absent values are shown as "-".
func (w *SimpleWriter) Write(records []model.OwnershipRecord) (int, error) {
	tw := tabwriter.NewWriter(w.output, 0, 0, 2, ' ', 0)

	header := model.Header()
	for i, h := range header {
		header[i] = strings.ToUpper(h)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, r := range records {
		cells := r.Strings()
		for i, c := range cells {
			cells[i] = dash(c)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}

	if err := tw.Flush(); err != nil {
		return w.output.n, err
	}

	_, err := fmt.Fprintf(w.output, "\n%d record(s)\n", len(records))
	return w.output.n, err
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
