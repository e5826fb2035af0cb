package repl

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/embedclock/embedclock/internal/embedclock/styled"
	"github.com/jedib0t/go-pretty/v6/table"
)

type dotCmd struct {
	name         string
	autocomplete string
	help         string
}

func cmdHelpCommands() []dotCmd {
	cmds := []dotCmd{
		{name: ".timestamp", autocomplete: ".timestamp", help: "Show the current timestamp of the engine"},
		{name: ".version", autocomplete: ".version", help: "Show the SQLite version of the engine"},
		{name: ".clear", autocomplete: ".clear", help: "Clear the terminal screen"},
		{name: ".help", autocomplete: ".help", help: "Show the help message"},
		{name: ".quit", autocomplete: ".quit", help: "Exit the application"},
		{name: ".exit", autocomplete: ".exit", help: "Exit the application"},
		{name: "CTRL+c", help: "Exit the application"},
	}

	sort.Slice(cmds, func(i, j int) bool {
		return cmds[i].name < cmds[j].name
	})

	return cmds
}

func cmdHelp(w io.Writer) {
	fmt.Fprintln(w, "Available commands:")

	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"Command", "Description"})
	for _, cmd := range cmdHelpCommands() {
		tw.AppendRow(table.Row{cmd.name, cmd.help})
	}
	fmt.Fprintln(w, tw.Render())

	fmt.Fprintln(w, "Any other input runs as a query that returns a single value.")
}

func cmdHelpCompleter(line string) []string {
	suggestions := []string{
		"SELECT ",
		"SELECT current_timestamp",
		"SELECT sqlite_version()",
		"SELECT datetime('now', 'localtime')",
	}

	for _, cmd := range cmdHelpCommands() {
		if cmd.autocomplete != "" {
			suggestions = append(suggestions, cmd.autocomplete)
		}
	}

	results := []string{}
	for _, suggestion := range suggestions {
		if strings.HasPrefix(strings.ToLower(suggestion), strings.ToLower(line)) {
			results = append(results, suggestion)
		}
	}

	return results
}
