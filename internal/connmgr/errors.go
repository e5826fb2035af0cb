package connmgr

import (
	"errors"
	"fmt"

	"github.com/embedclock/embedclock/internal/engine"
)

var (
	// ErrNotConnected means the handle is nil, closed, or not the live
	// handle of the Manager.
	ErrNotConnected = errors.New("handle is not connected")
	// ErrEmptyQuery means the query text is blank.
	ErrEmptyQuery = errors.New("query is empty")
	// ErrNoRows means the query produced no result row.
	ErrNoRows = engine.ErrNoRows
	// ErrNotScalar means the result row does not have exactly one column.
	ErrNotScalar = errors.New("query result is not a single column")
)

// ConnectionError is returned by Connect when the database file cannot be
// opened or created.
type ConnectionError struct {
	Path string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to %s: %v", e.Path, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// AlreadyConnectedError is returned by Connect while another handle of the
// same Manager is live.
type AlreadyConnectedError struct {
	// Path is the file the live handle is connected to.
	Path string
}

func (e *AlreadyConnectedError) Error() string {
	return fmt.Sprintf("already connected to %s, disconnect first", e.Path)
}

// QueryError is returned by ExecuteScalarQuery.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed: %v", e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// DisconnectError describes a failure while detaching a session. It is only
// logged, Disconnect never returns it.
type DisconnectError struct {
	Path string
	Err  error
}

func (e *DisconnectError) Error() string {
	return fmt.Sprintf("failed to disconnect from %s: %v", e.Path, e.Err)
}

func (e *DisconnectError) Unwrap() error {
	return e.Err
}
