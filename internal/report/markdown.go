package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/mkosuda/gmapscan/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent
// markdown generation which provides:
//  1. Type-safe markdown generation
//  2. Support for tables, lists, and code blocks
//  3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.CheckReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeOutcomes(md, report)
	w.writePayloads(md, report)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with check information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.CheckReport) {
	md.H1("Google Maps API Key Report")
	md.PlainText("")

	rows := [][]string{
		{"Key", "`" + report.MaskedKey + "`"},
		{"Place", report.Place},
		{"Date Checked", report.DateChecked.Format("2006-01-02 15:04:05 MST")},
		{"Working Endpoints", strconv.Itoa(len(report.Outcomes))},
	}
	if report.FormattedAddress != "" {
		rows = append(rows,
			[]string{"Resolved Address", report.FormattedAddress},
			[]string{"Coordinates", "`" + report.Coordinates + "`"},
		)
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeOutcomes writes the per-endpoint summary table.
func (w *MarkdownWriter) writeOutcomes(md *markdown.Markdown, report *model.CheckReport) {
	md.H2("Endpoints")
	md.PlainText("")

	if len(report.Outcomes) == 0 {
		md.Warning("No endpoint accepted this key.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Outcomes))
	for i, o := range report.Outcomes {
		status := ""
		if o.HTTPStatus != 0 {
			status = strconv.Itoa(o.HTTPStatus)
		}
		rows[i] = []string{string(o.Service), status, o.Info}
	}

	md.Table(markdown.TableSet{
		Header: []string{"API", "HTTP", "Info"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writePayloads writes each outcome's response payload as a fenced
// JSON block.
func (w *MarkdownWriter) writePayloads(md *markdown.Markdown, report *model.CheckReport) {
	if len(report.Outcomes) == 0 {
		return
	}

	md.H2("Responses")
	md.PlainText("")

	for _, o := range report.Outcomes {
		payload := formatPayload(o)
		if payload == "" {
			continue
		}
		md.H3(string(o.Service))
		md.CodeBlocks(markdown.SyntaxHighlightJSON, payload)
		md.PlainText("")
	}
}
