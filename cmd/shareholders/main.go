// Package main provides the entry point for the shareholders CLI.
//
// shareholders reads a list of 9-digit organization numbers, asks the
// company registry for the owners of each company and writes the
// aggregated ownership records, with the owners' ages, to a spreadsheet.
//
// Usage:
//
//	shareholders collect
//	shareholders collect --input companies.md --output shareholder_data.xlsx
//	shareholders probe 917251770
//
// See --help for all available options.
package main

// main is the entry point for shareholders.
func main() {
	Execute()
}
