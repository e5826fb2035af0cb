// Package repl implements the interactive prompt of embedclock. Every line
// that is not a dot command runs as a scalar query on the open connection.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/embedclock/embedclock/internal/connmgr"
	"github.com/embedclock/embedclock/internal/embedclock/styled"
	"github.com/embedclock/embedclock/internal/util/sysutil"
	"github.com/peterh/liner"
)

const (
	timestampQuery = "select current_timestamp"
	versionQuery   = "select sqlite_version()"
)

// Repl reads lines from the terminal and runs them on one connection.
type Repl struct {
	ctx         context.Context
	manager     *connmgr.Manager
	handle      *connmgr.Handle
	out         io.Writer
	historyPath string
}

// NewRepl creates a new Repl that runs queries on handle.
func NewRepl(
	ctx context.Context,
	manager *connmgr.Manager,
	handle *connmgr.Handle,
	out io.Writer,
) Repl {
	return Repl{
		ctx:         ctx,
		manager:     manager,
		handle:      handle,
		out:         out,
		historyPath: filepath.Join(os.TempDir(), ".embedclock_history"),
	}
}

// Start prompts until the user quits or the context is done.
func (r *Repl) Start() error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(cmdHelpCompleter)

	if file, err := os.Open(r.historyPath); err == nil {
		_, _ = line.ReadHistory(file)
		file.Close()
	}
	defer r.saveHistory(line)

	fmt.Fprintf(r.out, "Connected to %s\n", r.handle.Path())
	styled.DimmedColor().Fprintln(r.out, `Enter ".help" for usage hints and ".quit" or "CTRL+C" to quit`)
	fmt.Fprintln(r.out)

	for {
		if r.ctx.Err() != nil {
			return nil
		}

		input, err := line.Prompt("embedclock> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if quit := r.handleInput(input); quit {
			return nil
		}
	}
}

// handleInput runs one line of input and reports whether the user asked
// to quit.
func (r *Repl) handleInput(input string) bool {
	switch input {
	case "exit", ".exit", ".quit":
		return true
	case "clear", ".clear":
		sysutil.ClearTerminal(r.out)
	case "help", ".help":
		cmdHelp(r.out)
	case ".timestamp":
		cmdQuery(r, "Current timestamp", timestampQuery)
	case ".version":
		cmdQuery(r, "SQLite version", versionQuery)
	default:
		if strings.HasPrefix(input, ".") {
			styled.WarnColor().Fprintln(r.out, "Unknown command, type .help for usage hints")
			return false
		}
		cmdQuery(r, "Result", input)
	}
	return false
}

func (r *Repl) saveHistory(line *liner.State) {
	if file, err := os.Create(r.historyPath); err == nil {
		_, _ = line.WriteHistory(file)
		file.Close()
	}
}
