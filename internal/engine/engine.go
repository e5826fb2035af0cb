// Package engine binds the embedded database engines embedclock can run on.
//
// An Engine attaches a Session to a database file, creating the file when it
// does not exist yet. A Session answers scalar queries until it is detached.
// Both bindings run SQLite in-process: NameSQLite3 through the cgo driver
// github.com/mattn/go-sqlite3 and NameSQLite through the pure Go driver
// modernc.org/sqlite.
//
// Attach expects the runtime environment prepared by package runtimeenv and
// fails with ErrEnvironmentNotInitialized without it.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/orsinium-labs/enum"
)

// Name identifies an engine binding.
type Name enum.Member[string]

var (
	NameSQLite3 = Name{Value: "sqlite3"}
	NameSQLite  = Name{Value: "sqlite"}

	// Names holds every available binding.
	Names = enum.New(NameSQLite3, NameSQLite)
)

var (
	// ErrEnvironmentNotInitialized means the runtime environment was not set
	// up before attaching.
	ErrEnvironmentNotInitialized = errors.New("engine environment is not initialized")
	// ErrIncompatibleFile means the file is corrupt or not a database.
	ErrIncompatibleFile = errors.New("file is corrupt or not a compatible database")
	// ErrUnwritable means the database file cannot be created or written.
	ErrUnwritable = errors.New("database file is not writable")
	// ErrNoRows means a query produced no result row.
	ErrNoRows = errors.New("query returned no rows")
)

// Engine attaches sessions to database files.
type Engine interface {
	// Name returns the binding name.
	Name() Name
	// Attach opens a session on the database file at path, creating the
	// file if it does not exist.
	Attach(ctx context.Context, path string) (Session, error)
}

// Session is one open session on a database file.
type Session interface {
	// QueryScalar runs query and returns its first row. It fails with
	// ErrNoRows when there is none.
	QueryScalar(ctx context.Context, query string) (Row, error)
	// Detach closes the session and releases everything it holds.
	Detach() error
}

// Row is the first row of a query result, as returned by the driver.
type Row struct {
	Columns []string
	Values  []any
}

// New returns the engine binding for name.
func New(name Name) (Engine, error) {
	switch name {
	case NameSQLite3:
		return newMattnEngine(), nil
	case NameSQLite:
		return newModerncEngine(), nil
	}
	return nil, fmt.Errorf("unknown engine %q", name.Value)
}

// Parse returns the engine binding for the given name string.
func Parse(name string) (Engine, error) {
	member := Names.Parse(strings.ToLower(strings.TrimSpace(name)))
	if member == nil {
		return nil, fmt.Errorf(
			"unknown engine %q, valid values are: %s",
			name, strings.Join(Names.Values(), ", "),
		)
	}
	return New(*member)
}
