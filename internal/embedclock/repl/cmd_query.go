package repl

import "github.com/embedclock/embedclock/internal/embedclock/view"

func cmdQuery(r *Repl, label string, query string) {
	result, err := r.manager.ExecuteScalarQuery(r.ctx, r.handle, query)
	view.Render(r.out, label, result, err)
}
