package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/nao1215/shareholders/internal/model"
)

// JSONWriter outputs records in JSON format.
type JSONWriter struct {
	baseWriter
	meta        Metadata
	prettyPrint bool
}

// JSONOption configures a JSONWriter.
type JSONOption func(*JSONWriter)

// WithPrettyPrint enables indented JSON output.
func WithPrettyPrint() JSONOption {
	return func(w *JSONWriter) {
		w.prettyPrint = true
	}
}

// NewJSONWriter creates a new JSONWriter.
func NewJSONWriter(output io.Writer, meta Metadata, opts ...JSONOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
		meta:       meta,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// jsonReport is the document written by JSONWriter.
type jsonReport struct {
	RunID       string                  `json:"run_id,omitempty"`
	Country     string                  `json:"country,omitempty"`
	Profile     string                  `json:"profile,omitempty"`
	Companies   int                     `json:"companies"`
	GeneratedAt string                  `json:"generated_at"`
	RecordCount int                     `json:"record_count"`
	Records     []model.OwnershipRecord `json:"records"`
}

// Write outputs the records wrapped in run metadata.
func (w *JSONWriter) Write(records []model.OwnershipRecord) (int, error) {
	generated := w.meta.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	if records == nil {
		records = []model.OwnershipRecord{}
	}

	doc := jsonReport{
		RunID:       w.meta.RunID,
		Country:     w.meta.Country,
		Profile:     w.meta.Profile,
		Companies:   w.meta.Companies,
		GeneratedAt: generated.UTC().Format(time.RFC3339),
		RecordCount: len(records),
		Records:     records,
	}

	encoder := json.NewEncoder(w.output)
	if w.prettyPrint {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(doc); err != nil {
		return w.output.n, err
	}
	return w.output.n, nil
}
