// Package database provides SQLite-based storage for parse history.
//
// This package implements the HistoryDB, which stores:
//   - One row per parse run with its summary and severity counts
//   - One row per shown message, keyed by run, for identity trends
//
// SQLite comes from modernc.org/sqlite, which is CGO-free, so the binary
// cross-compiles for the Windows build hosts ISE still runs on.
package database
