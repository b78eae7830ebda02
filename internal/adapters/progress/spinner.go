package progress

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/hmdeploy/internal/config"
	"github.com/trebuchet-org/hmdeploy/internal/usecase"
)

// SpinnerProgress shows a spinner for long-running chain operations.
// In non-interactive mode it prints one line per event instead.
type SpinnerProgress struct {
	out         io.Writer
	interactive bool
	spinner     *spinner.Spinner
	startTime   time.Time
}

// NewSpinnerProgress creates a new progress reporter writing to out
func NewSpinnerProgress(out io.Writer, interactive bool) *SpinnerProgress {
	return &SpinnerProgress{
		out:         out,
		interactive: interactive,
		startTime:   time.Now(),
	}
}

// NewProgressSink creates the progress sink for the current run
func NewProgressSink(cfg *config.RuntimeConfig, out io.Writer) *SpinnerProgress {
	return NewSpinnerProgress(out, !cfg.NonInteractive)
}

// OnProgress handles progress events
func (p *SpinnerProgress) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	message := event.Message
	if event.Total > 0 {
		message = fmt.Sprintf("[%d/%d] %s", event.Current, event.Total, event.Message)
	}

	if !p.interactive {
		if message != "" {
			fmt.Fprintln(p.out, message)
		}
		return
	}

	if event.Spinner {
		if p.spinner == nil {
			p.spinner = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			p.spinner.Writer = p.out
			p.spinner.HideCursor = false
			_ = p.spinner.Color("cyan", "bold")
		}
		p.spinner.Suffix = " " + message
		if !p.spinner.Active() {
			p.spinner.Start()
		}
		return
	}

	p.stop()
	if event.Stage == "completed" {
		color.New(color.FgGreen).Fprintf(p.out, "✅ %s (%s)\n", event.Message, time.Since(p.startTime).Round(time.Millisecond))
	} else if message != "" {
		fmt.Fprintln(p.out, message)
	}
}

// Info prints an info message
func (p *SpinnerProgress) Info(message string) {
	p.pause(func() {
		color.New(color.FgCyan).Fprintln(p.out, message)
	})
}

// Error prints an error message
func (p *SpinnerProgress) Error(message string) {
	p.pause(func() {
		color.New(color.FgRed).Fprintln(p.out, message)
	})
}

func (p *SpinnerProgress) pause(print func()) {
	wasActive := p.spinner != nil && p.spinner.Active()
	if wasActive {
		p.spinner.Stop()
	}
	print()
	if wasActive {
		p.spinner.Start()
	}
}

func (p *SpinnerProgress) stop() {
	if p.spinner != nil && p.spinner.Active() {
		p.spinner.Stop()
	}
}

// Ensure it implements the interface
var _ usecase.ProgressSink = (*SpinnerProgress)(nil)
