package embedclockbench

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/embedclock/embedclock/internal/connmgr"
	"github.com/embedclock/embedclock/internal/embedclockbench/benchbar"
)

const benchQuery = "select current_timestamp"

// benchmarkResult stores the outcome of a benchmark.
type benchmarkResult struct {
	Name       string
	Engine     string
	Iterations int
	Duration   time.Duration
}

// opsPerSecond returns the iterations per second, or 0 for an empty run.
func (r benchmarkResult) opsPerSecond() int {
	if r.Duration <= 0 {
		return 0
	}
	return int(float64(r.Iterations) / r.Duration.Seconds())
}

type benchmarkFunc func(
	ctx context.Context, manager *connmgr.Manager, dbPath string,
	iterations int, out io.Writer,
) (benchmarkResult, error)

// runBenchmarkCycle connects, runs one scalar query and disconnects, N
// times. This measures the cost of attaching a session.
func runBenchmarkCycle(
	ctx context.Context, manager *connmgr.Manager, dbPath string,
	iterations int, out io.Writer,
) (benchmarkResult, error) {
	bar := benchbar.NewBar(out, fmt.Sprintf("Connecting %d times", iterations), iterations)
	defer bar.Finish()
	start := time.Now()

	for range iterations {
		err := manager.WithConnection(ctx, dbPath, func(handle *connmgr.Handle) error {
			_, err := manager.ExecuteScalarQuery(ctx, handle, benchQuery)
			return err
		})
		if err != nil {
			return benchmarkResult{}, err
		}
		bar.Inc()
	}

	return benchmarkResult{
		Name:       "Connect cycle",
		Iterations: iterations,
		Duration:   time.Since(start),
	}, nil
}

// runBenchmarkHeld runs N scalar queries on one held connection.
func runBenchmarkHeld(
	ctx context.Context, manager *connmgr.Manager, dbPath string,
	iterations int, out io.Writer,
) (benchmarkResult, error) {
	bar := benchbar.NewBar(out, fmt.Sprintf("Querying %d times", iterations), iterations)
	defer bar.Finish()
	var start time.Time

	err := manager.WithConnection(ctx, dbPath, func(handle *connmgr.Handle) error {
		start = time.Now()
		for range iterations {
			if _, err := manager.ExecuteScalarQuery(ctx, handle, benchQuery); err != nil {
				return err
			}
			bar.Inc()
		}
		return nil
	})
	if err != nil {
		return benchmarkResult{}, err
	}

	return benchmarkResult{
		Name:       "Held connection",
		Iterations: iterations,
		Duration:   time.Since(start),
	}, nil
}

// runBenchmarks runs every benchmark on a fresh database file per engine
// inside dir.
func runBenchmarks(
	ctx context.Context, managers map[string]*connmgr.Manager, engines []string,
	dir string, iterations int, out io.Writer,
) ([]benchmarkResult, error) {
	benchs := []benchmarkFunc{
		runBenchmarkCycle,
		runBenchmarkHeld,
	}

	var results []benchmarkResult
	for _, name := range engines {
		manager, ok := managers[name]
		if !ok {
			return nil, fmt.Errorf("no manager for engine %s", name)
		}
		dbPath := filepath.Join(dir, fmt.Sprintf("bench_%s.db", name))

		fmt.Fprintf(out, "\n--- Benchmarks for %s ---\n", name)
		for _, bench := range benchs {
			res, err := bench(ctx, manager, dbPath, iterations, out)
			if err != nil {
				return nil, fmt.Errorf("error benchmarking %s: %w", name, err)
			}
			res.Engine = name
			results = append(results, res)
		}
	}

	return results, nil
}
