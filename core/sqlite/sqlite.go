// Package sqlite opens SQLite databases through whichever driver the build
// selected.
//
// Build modes:
//   - Default: pure Go modernc.org/sqlite
//   - CGO_ENABLED=1 -tags cgo_sqlite: mattn/go-sqlite3 via contrib/sqlite-external
//
// Use Open instead of sql.Open so the driver name and DSN options match.
package sqlite

import (
	"database/sql"
	"strings"
)

// DriverName returns the database/sql driver name in use.
func DriverName() string {
	return driverName
}

// DriverType returns "cgo" or "purego".
func DriverType() string {
	return driverType
}

// IsCGO reports whether the mattn/go-sqlite3 driver is linked in.
func IsCGO() bool {
	return driverType == "cgo"
}

// DSN builds a data source name for path with a 5s busy timeout.
func DSN(path string, readOnly bool) string {
	params := []string{busyTimeoutParam}
	if readOnly {
		params = append(params, "mode=ro")
	}
	return "file:" + path + "?" + strings.Join(params, "&")
}

// Open opens the database file at path for reading and writing.
func Open(path string) (*sql.DB, error) {
	return sql.Open(driverName, DSN(path, false))
}

// OpenReadOnly opens the database file at path in read-only mode.
func OpenReadOnly(path string) (*sql.DB, error) {
	return sql.Open(driverName, DSN(path, true))
}

// Info describes the linked driver.
type Info struct {
	DriverName string `json:"driver_name"`
	DriverType string `json:"driver_type"`
	IsCGO      bool   `json:"is_cgo"`
	Package    string `json:"package"`
}

// GetInfo returns the driver description, as printed by `proofweave version`.
func GetInfo() Info {
	return Info{
		DriverName: driverName,
		DriverType: driverType,
		IsCGO:      IsCGO(),
		Package:    driverPackage,
	}
}
