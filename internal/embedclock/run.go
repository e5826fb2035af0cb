// Package embedclock implements the embedclock CLI. It connects to one
// embedded database file, runs a scalar query and shows the result or the
// error in its place.
package embedclock

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/embedclock/embedclock/internal/connmgr"
	"github.com/embedclock/embedclock/internal/embedclock/config"
	"github.com/embedclock/embedclock/internal/embedclock/repl"
	"github.com/embedclock/embedclock/internal/embedclock/view"
	"github.com/embedclock/embedclock/internal/engine"
	"github.com/embedclock/embedclock/internal/log"
	"github.com/embedclock/embedclock/internal/metrics"
	"github.com/embedclock/embedclock/internal/runtimeenv"
)

// Run runs the embedclock CLI.
func Run(ctx context.Context) error {
	conf := config.MustParse(os.Args)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	level, err := log.ParseLevel(conf.LogLevel)
	if err != nil {
		return err
	}
	logger := log.NewLogger(os.Stderr, level)

	return run(ctx, conf, logger, os.Stdout)
}

// run connects, runs the configured query or the prompt, and renders the
// outcome to out. Failures that were rendered are not returned.
func run(ctx context.Context, conf config.Config, logger log.Logger, out io.Writer) error {
	env, err := runtimeenv.Setup(runtimeenv.Config{
		Dir:   conf.RuntimeDir,
		Force: conf.ForceExtract,
	})
	if err != nil {
		logger.ErrorNs(log.NsRuntime, "runtime setup failed", log.KV{"error": err.Error()})
		view.Render(out, conf.Query, "", err)
		return nil
	}
	logger.DebugNs(log.NsRuntime, "runtime ready", log.KV{
		"root":      env.Root,
		"extracted": len(env.Extracted),
	})

	eng, err := engine.Parse(conf.Engine)
	if err != nil {
		return err
	}

	mtr := metrics.New()
	defer writeMetrics(logger, mtr, conf.MetricsTextfile)

	manager, err := connmgr.NewManager(connmgr.Config{
		Logger:  logger,
		Engine:  eng,
		Metrics: mtr,
	})
	if err != nil {
		return err
	}

	err = manager.WithConnection(ctx, conf.Database, func(handle *connmgr.Handle) error {
		if conf.Interactive {
			rp := repl.NewRepl(ctx, manager, handle, out)
			return rp.Start()
		}

		result, err := manager.ExecuteScalarQuery(ctx, handle, conf.Query)
		view.Render(out, conf.Query, result, err)
		return nil
	})
	if err != nil {
		var connErr *connmgr.ConnectionError
		if errors.As(err, &connErr) {
			view.Render(out, conf.Query, "", err)
			return nil
		}
		return err
	}

	return nil
}

func writeMetrics(logger log.Logger, mtr *metrics.Metrics, path string) {
	if path == "" {
		return
	}
	if err := mtr.WriteTextfile(path); err != nil {
		logger.Warn("failed to write metrics", log.KV{"path": path, "error": err.Error()})
		return
	}
	logger.Debug("metrics written", log.KV{"path": path})
}

// Fatal prints err the way results are rendered and exits with status 1.
func Fatal(err error) {
	fmt.Fprintln(os.Stderr, "Error: "+err.Error())
	os.Exit(1)
}
