// Package connmgr owns the lifecycle of the single embedded database
// connection: Connect attaches a session to a database file, any number of
// scalar queries run on it, and Disconnect releases it.
//
// A Manager is not safe for concurrent use. Calls are expected in program
// order from one caller.
package connmgr

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/embedclock/embedclock/internal/engine"
	"github.com/embedclock/embedclock/internal/log"
	"github.com/embedclock/embedclock/internal/metrics"
	"github.com/google/uuid"
)

// Config represents the configuration for a Manager.
type Config struct {
	// Logger is the shared embedclock logger.
	Logger log.Logger
	// Engine is the binding sessions are attached with.
	Engine engine.Engine
	// Metrics is optional.
	Metrics *metrics.Metrics
}

// Manager owns at most one live Handle at a time.
type Manager struct {
	logger  log.Logger
	engine  engine.Engine
	metrics *metrics.Metrics
	state   State
	live    *Handle
}

// Handle is the caller-owned token for one open session. It must not be
// used after Disconnect.
type Handle struct {
	id      uuid.UUID
	path    string
	state   State
	session engine.Session
}

// ScalarResult is the single value returned by a scalar query, formatted as
// text.
type ScalarResult string

// String returns the result text.
func (r ScalarResult) String() string {
	return string(r)
}

// ID returns the session id, used to correlate log records.
func (h *Handle) ID() uuid.UUID {
	return h.id
}

// Path returns the absolute path of the database file.
func (h *Handle) Path() string {
	return h.path
}

// State returns StateConnected until the handle is disconnected.
func (h *Handle) State() State {
	return h.state
}

// NewManager creates a new Manager.
func NewManager(config Config) (*Manager, error) {
	if !config.Logger.IsInitialized() {
		return nil, log.ErrUninitialized
	}
	if config.Engine == nil {
		return nil, errors.New("engine is required")
	}

	return &Manager{
		logger:  config.Logger,
		engine:  config.Engine,
		metrics: config.Metrics,
		state:   StateUnopened,
	}, nil
}

// State returns the state of the Manager: StateUnopened before the first
// successful Connect, then StateConnected or StateClosed.
func (m *Manager) State() State {
	return m.state
}

// Live returns the live handle, or nil when there is none.
func (m *Manager) Live() *Handle {
	return m.live
}

// Connect attaches a session to the database file at path, creating the
// file if it does not exist. Relative paths are resolved against the
// working directory.
//
// It fails with *AlreadyConnectedError while another handle is live, and
// with *ConnectionError when the engine cannot attach. On failure the
// Manager state does not change.
func (m *Manager) Connect(ctx context.Context, path string) (*Handle, error) {
	if m.live != nil {
		return nil, &AlreadyConnectedError{Path: m.live.path}
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, &ConnectionError{Path: path, Err: err}
	}

	engineName := m.engine.Name().Value
	session, err := m.engine.Attach(ctx, absPath)
	m.metrics.ObserveConnect(engineName, err)
	if err != nil {
		m.logger.WarnNs(log.NsConn, "connect failed", log.KV{
			"engine": engineName,
			"path":   absPath,
			"error":  err.Error(),
		})
		return nil, &ConnectionError{Path: absPath, Err: err}
	}

	handle := &Handle{
		id:      uuid.New(),
		path:    absPath,
		state:   StateConnected,
		session: session,
	}
	m.live = handle
	m.state = StateConnected

	m.logger.InfoNs(log.NsConn, "connected", log.KV{
		"engine":  engineName,
		"path":    absPath,
		"session": handle.id.String(),
	})
	return handle, nil
}

// ExecuteScalarQuery runs a single-row, single-column query on handle and
// returns the value as text. Extra rows are ignored.
//
// It fails with *QueryError when the handle is not connected, the query is
// invalid, there are no rows, or the row is not a single column.
func (m *Manager) ExecuteScalarQuery(
	ctx context.Context, handle *Handle, query string,
) (ScalarResult, error) {
	if handle == nil || handle != m.live || handle.state != StateConnected {
		return "", &QueryError{Query: query, Err: ErrNotConnected}
	}
	if strings.TrimSpace(query) == "" {
		return "", &QueryError{Query: query, Err: ErrEmptyQuery}
	}

	start := time.Now()
	result, err := m.queryScalar(ctx, handle, query)
	m.metrics.ObserveQuery(m.engine.Name().Value, time.Since(start), err)
	if err != nil {
		m.logger.DebugNs(log.NsConn, "query failed", log.KV{
			"session": handle.id.String(),
			"query":   query,
			"error":   err.Error(),
		})
		return "", &QueryError{Query: query, Err: err}
	}

	return result, nil
}

func (m *Manager) queryScalar(
	ctx context.Context, handle *Handle, query string,
) (ScalarResult, error) {
	row, err := handle.session.QueryScalar(ctx, query)
	if err != nil {
		return "", err
	}
	if len(row.Values) != 1 {
		return "", fmt.Errorf("%w: got %d columns", ErrNotScalar, len(row.Values))
	}

	return ScalarResult(formatScalar(row.Values[0])), nil
}

// Disconnect releases the session behind handle. It is a no-op for nil,
// closed, or foreign handles, so it is safe to call on every teardown path.
//
// Detach failures are logged as *DisconnectError and never returned; the
// handle is closed either way.
func (m *Manager) Disconnect(handle *Handle) {
	if handle == nil || handle != m.live || handle.state != StateConnected {
		return
	}

	engineName := m.engine.Name().Value
	err := handle.session.Detach()
	m.metrics.ObserveDisconnect(engineName, err)
	if err != nil {
		derr := &DisconnectError{Path: handle.path, Err: err}
		m.logger.WarnNs(log.NsConn, "disconnect failed", log.KV{
			"session": handle.id.String(),
			"error":   derr.Error(),
		})
	}

	handle.state = StateClosed
	handle.session = nil
	m.live = nil
	m.state = StateClosed

	m.logger.InfoNs(log.NsConn, "disconnected", log.KV{
		"path":    handle.path,
		"session": handle.id.String(),
	})
}

// WithConnection connects to path, calls fn with the handle and disconnects
// on every exit path, including a panic in fn.
func (m *Manager) WithConnection(
	ctx context.Context, path string, fn func(handle *Handle) error,
) error {
	handle, err := m.Connect(ctx, path)
	if err != nil {
		return err
	}
	defer m.Disconnect(handle)

	return fn(handle)
}
