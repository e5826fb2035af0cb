package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/embedclock/embedclock/internal/engine"
	ecLog "github.com/embedclock/embedclock/internal/log"
	"github.com/embedclock/embedclock/internal/version"
)

// Config represents the configuration for embedclock.
type Config struct {
	Database        string `arg:"positional" help:"Path to the database file, created if missing" default:"./embedclock.db"`
	Query           string `arg:"-q,--query,env:EMBEDCLOCK_QUERY" help:"Scalar query to run" default:"select current_timestamp"`
	Engine          string `arg:"-e,--engine,env:EMBEDCLOCK_ENGINE" help:"Engine binding (sqlite3, sqlite)" default:"sqlite3"`
	RuntimeDir      string `arg:"--runtime-dir,env:EMBEDCLOCK_RUNTIME_DIR" help:"Directory for the engine runtime assets (default: user cache directory)"`
	ForceExtract    bool   `arg:"--force-extract,env:EMBEDCLOCK_FORCE_EXTRACT" help:"Overwrite runtime assets that already exist" default:"false"`
	Interactive     bool   `arg:"-i,--interactive,env:EMBEDCLOCK_INTERACTIVE" help:"Start an interactive prompt on the connection" default:"false"`
	LogLevel        string `arg:"--log-level,env:EMBEDCLOCK_LOG_LEVEL" help:"Log level (debug, info, warn, error)" default:"warn"`
	MetricsTextfile string `arg:"--metrics-textfile,env:EMBEDCLOCK_METRICS_TEXTFILE" help:"Write Prometheus metrics to this file on exit"`
}

func (Config) Version() string {
	return fmt.Sprintf("%s\n", version.CLIVersion())
}

// MustParse parses and validates the configuration from the command
// line arguments. It returns a Config struct or exits the program
// with an error.
func MustParse(args []string) Config {
	cfg := Config{}

	parser, err := arg.NewParser(
		arg.Config{},
		&cfg,
	)
	if err != nil {
		log.Fatal(err)
	}
	parser.MustParse(args[1:])

	if err := validateEngine(cfg.Engine); err != nil {
		parser.Fail(err.Error())
	}

	if err := validateLogLevel(cfg.LogLevel); err != nil {
		parser.Fail(err.Error())
	}

	if err := validateDatabase(cfg.Database); err != nil {
		parser.Fail(err.Error())
	}

	return cfg
}

// validateEngine validates if name is a known engine binding.
func validateEngine(name string) error {
	if engine.Names.Parse(strings.ToLower(strings.TrimSpace(name))) == nil {
		return fmt.Errorf(
			"invalid engine, valid values are: %s",
			strings.Join(engine.Names.Values(), ", "),
		)
	}
	return nil
}

// validateLogLevel validates if level is a known log level.
func validateLogLevel(level string) error {
	_, err := ecLog.ParseLevel(level)
	return err
}

// validateDatabase validates if path is usable as a database path.
func validateDatabase(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("database path must not be empty")
	}
	return nil
}
