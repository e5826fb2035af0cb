package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	t.Run("NilIsNoop", func(t *testing.T) {
		var m *Metrics
		assert.NotPanics(t, func() {
			m.ObserveConnect("sqlite3", nil)
			m.ObserveQuery("sqlite3", time.Millisecond, nil)
			m.ObserveDisconnect("sqlite3", nil)
		})
	})

	t.Run("ConnectAndDisconnect", func(t *testing.T) {
		m := New()

		m.ObserveConnect("sqlite3", nil)
		m.ObserveConnect("sqlite3", errors.New("boom"))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.ConnectsTotal.WithLabelValues("sqlite3", OutcomeOK)))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.ConnectsTotal.WithLabelValues("sqlite3", OutcomeError)))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsOpen))

		m.ObserveDisconnect("sqlite3", errors.New("detach failed"))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.DisconnectsTotal.WithLabelValues("sqlite3", OutcomeError)))
		assert.Equal(t, 0.0, testutil.ToFloat64(m.SessionsOpen))
	})

	t.Run("Queries", func(t *testing.T) {
		m := New()

		m.ObserveQuery("sqlite", 2*time.Millisecond, nil)
		m.ObserveQuery("sqlite", time.Millisecond, errors.New("no rows"))

		assert.Equal(t, 1.0, testutil.ToFloat64(m.QueriesTotal.WithLabelValues("sqlite", OutcomeOK)))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.QueriesTotal.WithLabelValues("sqlite", OutcomeError)))
		assert.Equal(t, 1, testutil.CollectAndCount(m.QueryDuration))
	})

	t.Run("WriteTextfile", func(t *testing.T) {
		m := New()
		m.ObserveConnect("sqlite3", nil)
		path := filepath.Join(t.TempDir(), "embedclock.prom")

		require.NoError(t, m.WriteTextfile(path))

		b, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(b), `embedclock_connects_total{engine="sqlite3",outcome="ok"} 1`)
		assert.Contains(t, string(b), "embedclock_sessions_open 1")
	})

	t.Run("WriteTextfileMissingDir", func(t *testing.T) {
		m := New()
		err := m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "embedclock.prom"))
		assert.Error(t, err)
	})
}
