package store

import (
	// "sqlite3": cgo build of SQLite. Without cgo the driver registers a stub
	// whose Open fails, which Open reports as a normal error.
	_ "github.com/mattn/go-sqlite3"
	// "sqlite": pure Go, the default.
	_ "modernc.org/sqlite"
)
