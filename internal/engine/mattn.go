package engine

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/embedclock/embedclock/internal/runtimeenv"
	"github.com/mattn/go-sqlite3"
)

// newMattnEngine returns the cgo SQLite binding.
func newMattnEngine() *sqlEngine {
	return &sqlEngine{
		name:       NameSQLite3,
		driverName: "sqlite3",
		dsn:        mattnDSN,
		classify:   mattnClassify,
	}
}

// mattnDSN builds a go-sqlite3 URI DSN. Driver options are prefixed with an
// underscore and stripped by the driver before the URI reaches SQLite.
//
// https://github.com/mattn/go-sqlite3#connection-string
func mattnDSN(path string, settings runtimeenv.Settings) string {
	qp := url.Values{}
	qp.Add("_busy_timeout", strconv.Itoa(settings.BusyTimeout))
	return fmt.Sprintf("file:%s?%s", escapePath(path), qp.Encode())
}

func mattnClassify(err error) error {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return nil
	}

	switch sqliteErr.Code {
	case sqlite3.ErrNotADB, sqlite3.ErrCorrupt:
		return ErrIncompatibleFile
	case sqlite3.ErrCantOpen, sqlite3.ErrReadonly, sqlite3.ErrPerm:
		return ErrUnwritable
	}
	return nil
}

// escapePath escapes path for use in a SQLite URI filename, where "?" and
// "#" end the path and "%" starts an escape.
//
// https://www.sqlite.org/uri.html
func escapePath(path string) string {
	return (&url.URL{Path: path}).EscapedPath()
}
