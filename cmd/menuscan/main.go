// Package main provides the entry point for the menuscan CLI.
//
// menuscan is a data integrity validator for the historical menus
// dataset. It runs a fixed battery of referential and semantic
// constraints against a dataset snapshot and reports violations, and
// it can compare a pre-cleaning snapshot with a post-cleaning one to
// measure how effective the cleaning pass was.
//
// Usage:
//
//	menuscan validate <dataset>
//	menuscan compare <original> <cleaned>
//
// See --help for all available options.
package main

// main is the entry point for menuscan.
func main() {
	Execute()
}
