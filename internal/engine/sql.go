package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"github.com/embedclock/embedclock/internal/runtimeenv"
)

const (
	// validationQuery reads the schema, which fails on files that are not
	// databases.
	validationQuery = "SELECT count(*) FROM sqlite_master"
	// readOnlyPragma is applied last so queries cannot write.
	readOnlyPragma = "PRAGMA query_only = true;"

	filePermissions = 0600
)

// sqlEngine is an Engine on top of a database/sql SQLite driver.
type sqlEngine struct {
	name       Name
	driverName string
	// dsn builds the driver data source name for the file at path.
	dsn func(path string, settings runtimeenv.Settings) string
	// classify maps a driver error to ErrIncompatibleFile or ErrUnwritable,
	// or returns nil when it is neither.
	classify func(err error) error
}

// Name returns the binding name.
func (e *sqlEngine) Name() Name {
	return e.name
}

// Attach opens a session on the database file at path.
//
// The file is created when missing and removed again if attaching fails.
// The session is backed by a pool pinned to a single connection.
func (e *sqlEngine) Attach(ctx context.Context, path string) (Session, error) {
	root := os.Getenv(runtimeenv.EnvRoot)
	if root == "" {
		return nil, fmt.Errorf("%w: %s is not set", ErrEnvironmentNotInitialized, runtimeenv.EnvRoot)
	}
	settings, err := runtimeenv.LoadSettings(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEnvironmentNotInitialized, err)
	}

	created, err := ensureFile(path)
	if err != nil {
		return nil, err
	}

	session, err := e.open(ctx, path, settings)
	if err != nil {
		if created {
			_ = os.Remove(path)
		}
		return nil, err
	}

	return session, nil
}

// open opens the pinned connection, applies the settings and validates the
// file.
func (e *sqlEngine) open(
	ctx context.Context, path string, settings runtimeenv.Settings,
) (*sqlSession, error) {
	db, err := sql.Open(e.driverName, e.dsn(path, settings))
	if err != nil {
		return nil, e.wrap("failed to open database", err)
	}
	db.SetConnMaxIdleTime(0)
	db.SetConnMaxLifetime(0)
	db.SetMaxIdleConns(1)
	db.SetMaxOpenConns(1)

	conn, err := db.Conn(ctx)
	if err != nil {
		_ = db.Close()
		return nil, e.wrap("failed to open session", err)
	}

	session := &sqlSession{engine: e, db: db, conn: conn}

	pragmas := append(slices.Clone(settings.Pragmas), readOnlyPragma)
	for _, pragma := range pragmas {
		if _, err := conn.ExecContext(ctx, pragma); err != nil {
			_ = session.Detach()
			return nil, e.wrap(fmt.Sprintf(`failed to apply "%s"`, pragma), err)
		}
	}

	var objects int
	if err := conn.QueryRowContext(ctx, validationQuery).Scan(&objects); err != nil {
		_ = session.Detach()
		return nil, e.wrap("failed to validate database file", err)
	}

	return session, nil
}

// wrap annotates a driver error with msg and its classification, if any.
func (e *sqlEngine) wrap(msg string, err error) error {
	if kind := e.classify(err); kind != nil {
		return fmt.Errorf("%s: %w: %w", msg, kind, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// ensureFile makes sure a regular file exists at path. It reports whether
// the file was created.
func ensureFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if err == nil {
		if info.IsDir() {
			return false, fmt.Errorf("%w: %s is a directory", ErrUnwritable, path)
		}
		// Drivers fall back to read-only on such files instead of failing.
		file, err := os.OpenFile(path, os.O_RDWR, 0)
		if err != nil {
			return false, fmt.Errorf("%w: failed to open database file: %w", ErrUnwritable, err)
		}
		if err := file.Close(); err != nil {
			return false, fmt.Errorf("failed to open database file: %w", err)
		}
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("failed to stat database file: %w", err)
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, filePermissions)
	if err != nil {
		return false, fmt.Errorf("%w: failed to create database file: %w", ErrUnwritable, err)
	}
	if err := file.Close(); err != nil {
		return true, fmt.Errorf("failed to create database file: %w", err)
	}
	return true, nil
}

// sqlSession is a Session over a pinned *sql.Conn.
type sqlSession struct {
	engine *sqlEngine
	db     *sql.DB
	conn   *sql.Conn
}

// QueryScalar runs query on the pinned connection and returns its first
// row. Remaining rows are discarded.
func (s *sqlSession) QueryScalar(ctx context.Context, query string) (Row, error) {
	if s.conn == nil {
		return Row{}, errors.New("session is detached")
	}

	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return Row{}, s.engine.wrap("failed to execute query", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return Row{}, fmt.Errorf("failed to get columns: %w", err)
	}

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Row{}, s.engine.wrap("failed to read row", err)
		}
		return Row{Columns: columns}, ErrNoRows
	}

	values := make([]any, len(columns))
	scans := make([]any, len(columns))
	for i := range scans {
		scans[i] = &values[i]
	}
	if err := rows.Scan(scans...); err != nil {
		return Row{}, fmt.Errorf("failed to scan row: %w", err)
	}

	return Row{Columns: columns, Values: values}, nil
}

// Detach closes the pinned connection and its pool. It is safe to call
// more than once.
func (s *sqlSession) Detach() error {
	var errs []error

	if s.conn != nil {
		if err := s.conn.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
			errs = append(errs, fmt.Errorf("failed to close session: %w", err))
		}
		s.conn = nil
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
		s.db = nil
	}

	return errors.Join(errs...)
}
