package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nao1215/shareholders/internal/model"
)

// maxLineSize bounds a single input line. Markdown tables with long notes
// can exceed bufio.Scanner's 64KB default.
const maxLineSize = 1024 * 1024

// ErrEmptyWorkbook is returned when an .xlsx file has no sheets.
var ErrEmptyWorkbook = errors.New("workbook contains no sheets")

// Read extracts organization numbers from r, one candidate per line.
func Read(r io.Reader) ([]model.OrgNumber, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var orgs []model.OrgNumber
	for scanner.Scan() {
		if org, ok := model.ParseOrgNumber(scanner.Text()); ok {
			orgs = append(orgs, org)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return orgs, nil
}

// ReadFile extracts organization numbers from the file at path.
// Excel workbooks are detected by extension; everything else is read as text.
func ReadFile(path string) ([]model.OrgNumber, error) {
	if isWorkbook(path) {
		return readWorkbook(path)
	}

	f, err := os.Open(path) //nolint:gosec // User-provided input path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// isWorkbook reports whether path names an Excel workbook.
func isWorkbook(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return true
	default:
		return false
	}
}

// readWorkbook applies the line rule to the first column of every row of
// the first sheet.
func readWorkbook(path string) ([]model.OrgNumber, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	var orgs []model.OrgNumber
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		// Other columns may hold digits (share counts, postcodes).
		if org, ok := model.ParseOrgNumber(row[0]); ok {
			orgs = append(orgs, org)
		}
	}
	return orgs, nil
}
