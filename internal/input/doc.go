// Package input reads organization numbers from loosely structured files.
//
// Every line (or spreadsheet row) is reduced to its digits and kept only if
// exactly nine remain. Anything else, such as headings, notes or malformed
// numbers, is skipped without error. Order is preserved and duplicates are
// kept, so the pipeline processes identifiers exactly as they were listed.
//
// Supported sources:
//   - Plain text and Markdown (.txt, .md and anything unrecognized)
//   - Excel workbooks (.xlsx), reading the first sheet via excelize
package input
