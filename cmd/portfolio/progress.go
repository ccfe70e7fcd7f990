package main

import (
	"fmt"
	"io"

	"github.com/fpang/portfolio-uploader/internal/pipeline"
)

// newTerminalSink returns a pipeline.Sink that renders a single overwritable
// progress line after every outcome. Failures and skips are echoed on their
// own lines as they occur, interleaved with the progress line; a trailing
// newline is emitted once the total count is reached.
func newTerminalSink(w io.Writer) pipeline.Sink {
	return func(p pipeline.Progress, o pipeline.Outcome) {
		switch o.Status {
		case pipeline.StatusFailure:
			fmt.Fprintf(w, "\r\033[K%s failed: %s\n", o.ID, o.Reason)
		case pipeline.StatusSkipped:
			fmt.Fprintf(w, "\r\033[K%s skipped: %s\n", o.ID, o.Reason)
		}

		fmt.Fprintf(w, "\r[%3d%%] %d/%d", p.Percent(), p.Done(), p.Total)
		if p.Done() >= p.Total {
			fmt.Fprintln(w)
		}
	}
}
