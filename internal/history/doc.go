// Package history provides SQLite-based storage for htmlcheck run reports.
//
// This package implements the HistoryDB, which stores one row per check run
// so that successive runs over the same site can be compared: which warnings
// are new, which were fixed, and whether the site is trending cleaner.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
package history
