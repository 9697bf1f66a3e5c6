// Package report provides report generation and output functionality.
//
// This package contains writers for different output formats:
//   - XLSXWriter: Excel workbook, the default spreadsheet output
//   - CSVWriter: Comma-separated values for any spreadsheet tool
//   - MarkdownWriter: GitHub Flavored Markdown with a summary and a table
//   - JSONWriter: Structured JSON output for tool integration
//   - SimpleWriter: Aligned plain text for terminal display
//
// A SQLite file can be produced as well; it is written through the
// database package because it cannot be streamed to an io.Writer.
//
// Every format emits a header and one row per OwnershipRecord with columns
// in record field order. WriteFile never creates a file for an empty record
// set; it returns ErrNoRecords instead.
package report
