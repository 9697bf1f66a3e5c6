// Package database writes ownership records to a standalone SQLite file.
//
// This is one of the report output formats: the whole run is stored in a
// single .db file holding one row in "runs" and one row per shareholder in
// "ownership_records". Nothing is read back between runs; each output file
// is self-contained and can be queried with any SQLite client.
//
// The driver is modernc.org/sqlite, which needs no cgo. Absent optional
// values are stored as NULL.
package database
