// Package view turns scalar results and failures into what the user sees.
// A failure is always shown as "Error: <message>" in place of the value.
package view

import (
	"fmt"
	"io"

	"github.com/embedclock/embedclock/internal/connmgr"
	"github.com/embedclock/embedclock/internal/embedclock/styled"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Message returns the display text for a result or an error.
func Message(result connmgr.ScalarResult, err error) string {
	if err != nil {
		return "Error: " + err.Error()
	}
	return result.String()
}

// Render writes the result under the given label, or the error under an
// "Error" header.
func Render(w io.Writer, label string, result connmgr.ScalarResult, err error) {
	tw := styled.NewTableWriter()
	header := label
	if err != nil {
		tw = styled.NewErrorTableWriter()
		header = "Error"
	}

	tw.AppendHeader(table.Row{header})
	tw.AppendRow(table.Row{Message(result, err)})

	fmt.Fprintln(w, tw.Render())
}
