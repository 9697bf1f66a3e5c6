package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nao1215/shareholders/internal/database"
	"github.com/nao1215/shareholders/internal/model"
)

// Report errors.
var (
	// ErrNoRecords is returned by WriteFile when there is nothing to write.
	// No file is created in that case.
	ErrNoRecords = errors.New("no records to write")

	// ErrUnknownFormat is returned for an unsupported output format.
	ErrUnknownFormat = errors.New("unknown output format")
)

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs all records to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(records []model.OwnershipRecord) (int, error)
}

// Format is an output file format.
type Format string

// Supported formats.
const (
	FormatXLSX     Format = "xlsx"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatSQLite   Format = "sqlite"
	FormatText     Format = "text"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatXLSX, FormatCSV, FormatMarkdown, FormatJSON, FormatSQLite, FormatText}
}

// ParseFormat converts a user-supplied name into a Format.
// "excel", "md", "db" and "txt" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "xlsx", "excel":
		return FormatXLSX, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "sqlite", "db":
		return FormatSQLite, nil
	case "text", "txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatFromPath infers the format from the file extension.
// Unknown extensions fall back to FormatXLSX.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".md", ".markdown":
		return FormatMarkdown
	case ".json":
		return FormatJSON
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	case ".txt":
		return FormatText
	default:
		return FormatXLSX
	}
}

// Metadata describes the run that produced the records.
// It is embedded by the formats that carry more than a table.
type Metadata struct {
	RunID       string
	Country     string
	Profile     string
	Companies   int
	GeneratedAt time.Time
}

// NewMetadata returns Metadata with a fresh run ID and the current time.
func NewMetadata(country, profile string, companies int) Metadata {
	return Metadata{
		RunID:       uuid.NewString(),
		Country:     country,
		Profile:     profile,
		Companies:   companies,
		GeneratedAt: time.Now(),
	}
}

// NewWriter returns the streaming Writer for format.
// FormatSQLite has no streaming writer; use WriteFile.
func NewWriter(format Format, output io.Writer, meta Metadata) (Writer, error) {
	switch format {
	case FormatXLSX:
		return NewXLSXWriter(output), nil
	case FormatCSV:
		return NewCSVWriter(output), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output, meta), nil
	case FormatJSON:
		return NewJSONWriter(output, meta, WithPrettyPrint()), nil
	case FormatText:
		return NewSimpleWriter(output), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteFile writes records to path in format.
//
// An empty record set returns ErrNoRecords before anything touches the
// filesystem. Parent directories are created as needed and the file is
// created with owner-only permissions, replacing any previous file.
func WriteFile(ctx context.Context, path string, format Format, records []model.OwnershipRecord, meta Metadata) error {
	if len(records) == 0 {
		return ErrNoRecords
	}

	if format == FormatSQLite {
		return writeSQLite(ctx, path, records, meta)
	}

	// Resolve the writer before creating the file so an unknown format
	// leaves the filesystem untouched.
	out := &deferredFile{}
	writer, err := NewWriter(format, out, meta)
	if err != nil {
		return err
	}

	if err := ensureDir(path); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	out.w = f

	if _, err := writer.Write(records); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s report: %w", format, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}

// writeSQLite stores records as a single run in a fresh SQLite file.
func writeSQLite(ctx context.Context, path string, records []model.OwnershipRecord, meta Metadata) error {
	db, err := database.Create(path, database.DefaultOptions())
	if err != nil {
		return err
	}
	defer db.Close()

	runID := meta.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	return db.SaveRun(ctx, database.Run{
		ID:      runID,
		Country: meta.Country,
		Profile: meta.Profile,
	}, records)
}

// ensureDir creates the parent directory of path if needed.
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output *countingWriter
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: &countingWriter{w: output}}
}

// deferredFile is an io.Writer whose destination is set after construction.
type deferredFile struct {
	w io.Writer
}

// Write implements io.Writer.
func (d *deferredFile) Write(p []byte) (int, error) {
	return d.w.Write(p)
}

// countingWriter tracks the number of bytes written through it.
type countingWriter struct {
	w io.Writer
	n int
}

// Write implements io.Writer.
func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
