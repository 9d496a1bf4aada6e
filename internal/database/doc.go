// Package database provides SQLite-based storage for validation run history.
//
// This package implements the RunDB, which stores completed validation
// reports so that runs against the same dataset can be compared over
// time without re-reading the source data.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
package database
