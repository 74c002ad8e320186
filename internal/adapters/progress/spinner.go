package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/lspdecode/internal/usecase"
)

// SpinnerSink reports progress with a spinner on stderr. Batch workers call
// it concurrently.
type SpinnerSink struct {
	mu      sync.Mutex
	spinner *spinner.Spinner
	out     io.Writer
}

// NewSpinnerSink creates a new spinner-based progress sink
func NewSpinnerSink() *SpinnerSink {
	return newSpinnerSink(os.Stderr)
}

func newSpinnerSink(w io.Writer) *SpinnerSink {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.HideCursor = false

	return &SpinnerSink{
		spinner: s,
		out:     w,
	}
}

// OnProgress handles progress events
func (r *SpinnerSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !event.Spinner {
		if r.spinner.Active() {
			r.spinner.Stop()
		}
		return
	}

	suffix := " " + event.Message
	if event.Total > 0 {
		suffix = fmt.Sprintf(" [%d/%d] %s", event.Current, event.Total, event.Message)
	}
	r.spinner.Suffix = suffix
	if !r.spinner.Active() {
		r.spinner.Start()
	}
}

// Info prints an info message
func (r *SpinnerSink) Info(message string) {
	r.print(color.New(color.FgCyan), message)
}

// Error prints an error message
func (r *SpinnerSink) Error(message string) {
	r.print(color.New(color.FgRed), message)
}

// print writes a line with the spinner paused
func (r *SpinnerSink) print(c *color.Color, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}

	c.Fprintln(r.out, message)

	if wasActive {
		r.spinner.Start()
	}
}

// Stop halts the spinner if it is running
func (r *SpinnerSink) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.spinner.Active() {
		r.spinner.Stop()
	}
}

var _ usecase.ProgressSink = (*SpinnerSink)(nil)
