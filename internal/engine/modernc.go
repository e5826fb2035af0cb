package engine

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/embedclock/embedclock/internal/runtimeenv"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// newModerncEngine returns the pure Go SQLite binding.
func newModerncEngine() *sqlEngine {
	return &sqlEngine{
		name:       NameSQLite,
		driverName: "sqlite",
		dsn:        moderncDSN,
		classify:   moderncClassify,
	}
}

// moderncDSN builds a modernc.org/sqlite URI DSN. Each _pragma parameter is
// run by the driver on every new connection.
func moderncDSN(path string, settings runtimeenv.Settings) string {
	qp := url.Values{}
	qp.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", settings.BusyTimeout))
	return fmt.Sprintf("file:%s?%s", escapePath(path), qp.Encode())
}

func moderncClassify(err error) error {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return nil
	}

	// Code may be an extended result code; the primary code is the low byte.
	switch sqliteErr.Code() & 0xff {
	case sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_CORRUPT:
		return ErrIncompatibleFile
	case sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_READONLY, sqlite3.SQLITE_PERM:
		return ErrUnwritable
	}
	return nil
}
