package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/lifetag/tagscan/internal/model"
)

// StreamPresenter shows an intake session as a stream of output:
// results go to a Writer, status changes and alerts go to a separate
// status output (usually stderr). Alerts do not wait for the user.
type StreamPresenter struct {
	writer Writer
	status io.Writer
	logger *slog.Logger

	mu       sync.Mutex
	lastText string
}

// NewStreamPresenter creates a presenter. A nil status output discards
// status lines.
func NewStreamPresenter(writer Writer, status io.Writer, logger *slog.Logger) *StreamPresenter {
	if status == nil {
		status = io.Discard
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamPresenter{
		writer: writer,
		status: status,
		logger: logger,
	}
}

// Render writes result views and prints status text when it changes.
func (p *StreamPresenter) Render(state model.ViewState) {
	if state.ResultVisible {
		if _, err := p.writer.Write(model.NewViewRecord(state)); err != nil {
			p.logger.Error("unable to write result", "error", err)
		}
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if state.Status.Text == "" || state.Status.Text == p.lastText {
		return
	}
	p.lastText = state.Status.Text
	fmt.Fprintln(p.status, state.Status.Text) //nolint:errcheck // status output is best effort
}

// Alert prints the message to the status output and returns.
func (p *StreamPresenter) Alert(_ context.Context, message string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	// the scanner status is reprinted after an alert
	p.lastText = ""
	_, err := fmt.Fprintf(p.status, "%s\n\n", message)
	return err
}
