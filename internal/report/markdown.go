package report

import (
	"io"
	"strconv"

	"github.com/lifetag/tagscan/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs records as Markdown for sharing with responders.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs one record as a document.
func (w *MarkdownWriter) Write(record model.Record) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("LifeTag Record")
	md.PlainText("")
	w.writeRecord(md, record)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteSummary outputs a batch decode with a result chart.
func (w *MarkdownWriter) WriteSummary(summary *model.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("LifeTag Batch Decode")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Result", "Count"},
		Rows: [][]string{
			{"Read", strconv.Itoa(summary.ReadCount)},
			{"Unreadable", strconv.Itoa(summary.UnreadableCount)},
			{"**Total**", "**" + strconv.Itoa(summary.Total) + "**"},
		},
	})
	md.PlainText("")

	if summary.Total > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Decode Results"),
			piechart.WithShowData(true),
		)
		if summary.ReadCount > 0 {
			chart.LabelAndIntValue("Read", uint64(summary.ReadCount))
		}
		if summary.UnreadableCount > 0 {
			chart.LabelAndIntValue("Unreadable", uint64(summary.UnreadableCount))
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	for i, record := range summary.Records {
		md.H2("Tag " + strconv.Itoa(i+1))
		md.PlainText("")
		w.writeRecord(md, record)
	}
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeRecord(md *markdown.Markdown, record model.Record) {
	if !record.Read {
		md.Cautionf("Could not read this QR Code. It might not be a valid LifeTag. Error: %s", record.Error)
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(record.Fields))
	for _, field := range record.Fields {
		rows = append(rows, []string{field.Label, field.Value})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Field", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	if record.Call.Visible {
		md.PlainTextf("[Call Emergency Contact](<%s>)", record.Call.Href)
	} else {
		md.Warningf("No emergency contact mobile number on this tag.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Read by tagscan*")
}
