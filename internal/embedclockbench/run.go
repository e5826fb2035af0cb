// Package embedclockbench measures connect and scalar query latency of the
// available engine bindings.
package embedclockbench

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/embedclock/embedclock/internal/connmgr"
	"github.com/embedclock/embedclock/internal/embedclock/styled"
	"github.com/embedclock/embedclock/internal/embedclockbench/config"
	"github.com/embedclock/embedclock/internal/engine"
	"github.com/embedclock/embedclock/internal/log"
	"github.com/embedclock/embedclock/internal/metrics"
	"github.com/embedclock/embedclock/internal/runtimeenv"
	"github.com/embedclock/embedclock/internal/util/numutil"
	"github.com/embedclock/embedclock/internal/version"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Run executes the benchmarks for every configured engine and prints the
// results.
func Run(ctx context.Context) error {
	conf := config.MustParse(os.Args)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(version.BenchVersion())

	dir := conf.Dir
	if dir == "" {
		tmpDir, err := os.MkdirTemp("", "embedclockbench_*")
		if err != nil {
			return err
		}
		defer os.RemoveAll(tmpDir)
		dir = tmpDir
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if _, err := runtimeenv.Setup(runtimeenv.Config{}); err != nil {
		return fmt.Errorf("error preparing runtime: %w", err)
	}

	logger := log.NewLogger(os.Stderr, slog.LevelWarn)
	mtr := metrics.New()
	managers, err := newManagers(logger, mtr, conf.Engines)
	if err != nil {
		return err
	}

	results, err := runBenchmarks(ctx, managers, conf.Engines, dir, conf.Iterations, os.Stdout)
	if err != nil {
		return err
	}
	printResults(os.Stdout, results)

	return nil
}

// newManagers creates one Manager per engine name, sharing logger and
// metrics.
func newManagers(
	logger log.Logger, mtr *metrics.Metrics, engines []string,
) (map[string]*connmgr.Manager, error) {
	managers := make(map[string]*connmgr.Manager, len(engines))
	for _, name := range engines {
		eng, err := engine.Parse(name)
		if err != nil {
			return nil, err
		}
		manager, err := connmgr.NewManager(connmgr.Config{
			Logger:  logger,
			Engine:  eng,
			Metrics: mtr,
		})
		if err != nil {
			return nil, err
		}
		managers[eng.Name().Value] = manager
	}
	return managers, nil
}

func printResults(w io.Writer, results []benchmarkResult) {
	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"Engine", "Name", "Iterations", "Duration", "Ops/s"})

	for _, r := range results {
		tw.AppendRow(table.Row{
			r.Engine,
			r.Name,
			numutil.IntWithCommas(r.Iterations),
			r.Duration,
			numutil.IntWithCommas(r.opsPerSecond()),
		})
	}

	fmt.Fprintln(w, tw.Render())
}
