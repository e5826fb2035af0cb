package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateIterations(t *testing.T) {
	assert.NoError(t, validateIterations(1))
	assert.NoError(t, validateIterations(10_000))
	assert.Error(t, validateIterations(0))
	assert.Error(t, validateIterations(-5))
}

func TestValidateEngines(t *testing.T) {
	assert.NoError(t, validateEngines([]string{"sqlite3", "sqlite"}))
	assert.NoError(t, validateEngines(nil))
	assert.ErrorContains(t, validateEngines([]string{"sqlite", "duckdb"}), `invalid engine "duckdb"`)
}

func TestMustParse(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg := MustParse([]string{"embedclockbench"})
		assert.Equal(t, 1000, cfg.Iterations)
		assert.Equal(t, []string{"sqlite3", "sqlite"}, cfg.Engines)
		assert.Empty(t, cfg.Dir)
	})

	t.Run("Flags", func(t *testing.T) {
		cfg := MustParse([]string{"embedclockbench", "-n", "50", "--engine", "sqlite", "--dir", "/tmp/bench"})
		assert.Equal(t, 50, cfg.Iterations)
		assert.Equal(t, []string{"sqlite"}, cfg.Engines)
		assert.Equal(t, "/tmp/bench", cfg.Dir)
	})
}
