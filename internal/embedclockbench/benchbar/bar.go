// Package benchbar provides a really simple progress bar for the benchmarking
// process.
package benchbar

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// Bar counts finished iterations of one benchmark.
type Bar struct {
	pb *progressbar.ProgressBar
}

// NewBar creates a bar for maxItems iterations that renders to w.
func NewBar(w io.Writer, description string, maxItems int) *Bar {
	pb := progressbar.NewOptions(
		maxItems,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(20),
		progressbar.OptionOnCompletion(func() { _, _ = io.WriteString(w, "\n") }),
	)
	_ = pb.Set(0)

	return &Bar{pb: pb}
}

func (b *Bar) Inc() {
	_ = b.pb.Add(1)
}

func (b *Bar) Finish() {
	_ = b.pb.Finish()
	_ = b.pb.Close()
}
