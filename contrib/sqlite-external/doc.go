// Package sqliteexternal links the CGO SQLite driver
// (github.com/mattn/go-sqlite3) into the oracle cache.
//
// It is only compiled with the cgo_sqlite build tag:
//
//	CGO_ENABLED=1 go build -tags cgo_sqlite ./cmd/proofweave
//
// Without the tag, core/sqlite uses modernc.org/sqlite and the binary needs no
// C toolchain. The cgo driver is worth it when a shared cache file grows
// large enough that lookups show up in profiles.
package sqliteexternal
