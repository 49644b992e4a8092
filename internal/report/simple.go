package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/lifetag/tagscan/internal/model"
)

const (
	ruleWidth  = 60
	labelWidth = 28
)

// SimpleWriter prints records as aligned plain text.
type SimpleWriter struct {
	baseWriter

	// verbose adds the cycle ID and digest.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose adds cycle details to the output.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs one record.
func (w *SimpleWriter) Write(record model.Record) (int, error) {
	var sb strings.Builder
	w.writeRecord(&sb, record)
	return io.WriteString(w.output, sb.String())
}

// WriteSummary outputs every record followed by the counts.
func (w *SimpleWriter) WriteSummary(summary *model.Summary) (int, error) {
	var sb strings.Builder

	for _, record := range summary.Records {
		w.writeRecord(&sb, record)
	}

	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%d read, %d unreadable, %d total\n",
		summary.ReadCount, summary.UnreadableCount, summary.Total)

	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) writeRecord(sb *strings.Builder, record model.Record) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")

	if w.verbose && record.ID != "" {
		writeLine(sb, "Cycle", record.ID)
		writeLine(sb, "Digest", record.Digest)
	}

	if !record.Read {
		writeLine(sb, "Status", "UNREADABLE")
		writeLine(sb, "Error", record.Error)
		sb.WriteString("\n")
		return
	}

	for _, field := range record.Fields {
		writeLine(sb, field.Label, field.Value)
	}
	if record.Call.Visible {
		writeLine(sb, "Call Emergency Contact", record.Call.Href)
	} else {
		writeLine(sb, "Call Emergency Contact", "unavailable")
	}
	sb.WriteString("\n")
}

func writeLine(sb *strings.Builder, label, value string) {
	fmt.Fprintf(sb, "%-*s %s\n", labelWidth, label+":", value)
}
