package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/embedclock/embedclock/internal/engine"
	"github.com/embedclock/embedclock/internal/version"
)

// Config represents the configuration for embedclockbench.
type Config struct {
	Iterations int      `arg:"-n,--iterations,env:EMBEDCLOCK_BENCH_ITERATIONS" help:"Iterations per benchmark" default:"1000"`
	Dir        string   `arg:"--dir,env:EMBEDCLOCK_BENCH_DIR" help:"Directory for the benchmark databases (default: a temporary directory)"`
	Engines    []string `arg:"-e,--engine,separate" help:"Engine binding to benchmark, repeatable (default: all)"`
}

func (Config) Version() string {
	return fmt.Sprintf("%s\n", version.BenchVersion())
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

	if err := validateIterations(cfg.Iterations); err != nil {
		parser.Fail(err.Error())
	}

	if len(cfg.Engines) == 0 {
		cfg.Engines = engine.Names.Values()
	}
	for i, name := range cfg.Engines {
		cfg.Engines[i] = strings.ToLower(strings.TrimSpace(name))
	}
	if err := validateEngines(cfg.Engines); err != nil {
		parser.Fail(err.Error())
	}

	return cfg
}

// validateIterations validates if n is a usable iteration count.
func validateIterations(n int) error {
	if n < 1 {
		return errors.New("iterations must be at least 1")
	}
	return nil
}

// validateEngines validates if every name is a known engine binding.
func validateEngines(names []string) error {
	for _, name := range names {
		if engine.Names.Parse(name) == nil {
			return fmt.Errorf(
				"invalid engine %q, valid values are: %s",
				name, strings.Join(engine.Names.Values(), ", "),
			)
		}
	}
	return nil
}
