package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mkosuda/gmapscan/internal/model"
)

// Column layout of the plain-text table. The payload indent lines up
// continuation lines under the Info column.
const (
	serviceColWidth = 15
	statusColWidth  = 6
	payloadIndent   = serviceColWidth + statusColWidth + 2
	ruleWidth       = 60
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display: one row per working
// endpoint, optionally followed by the indented response payload.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors because:
//  1. It works in all terminals without compatibility issues
//  2. It's easier to pipe to files or other tools
//  3. The progress lines already carry color during the run
type SimpleWriter struct {
	baseWriter

	// showPayloads includes each outcome's JSON body or headers below
	// its table row.
	showPayloads bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithPayloads configures the writer to print response payloads.
func WithPayloads(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showPayloads = show
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter:   newBaseWriter(output),
		showPayloads: true,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report as a plain-text table. Only endpoints with
// a recorded outcome appear; a key with no working endpoint yields an
// empty table.
func (w *SimpleWriter) Write(report *model.CheckReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)

	for _, o := range report.Outcomes {
		w.writeRow(&sb, o)
	}

	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the key/place banner and the column headings.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.CheckReport) {
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Key %s  Place %q\n", report.MaskedKey, report.Place))
	if report.FormattedAddress != "" {
		sb.WriteString(fmt.Sprintf("Resolved to %s (%s)\n", report.FormattedAddress, report.Coordinates))
	}
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%-*s%-*s  %s\n", serviceColWidth, "API", statusColWidth, "HTTP", "Info"))
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
}

// writeRow writes one outcome row plus its optional payload block.
func (w *SimpleWriter) writeRow(sb *strings.Builder, o model.Outcome) {
	service := string(o.Service)
	if len(service) > serviceColWidth {
		service = service[:serviceColWidth]
	}

	status := ""
	if o.HTTPStatus != 0 {
		status = strconv.Itoa(o.HTTPStatus)
	}

	sb.WriteString(fmt.Sprintf("%-*s%-*s  %s\n", serviceColWidth, service, statusColWidth, status, o.Info))

	if !w.showPayloads {
		return
	}
	if payload := formatPayload(o); payload != "" {
		sb.WriteString(indentLines(payload, payloadIndent))
	}
}

// formatPayload renders the outcome's JSON body, or its response
// headers for binary endpoints.
func formatPayload(o model.Outcome) string {
	if len(o.Raw) > 0 {
		var buf bytes.Buffer
		if err := json.Indent(&buf, o.Raw, "", "  "); err != nil {
			return string(o.Raw)
		}
		return buf.String()
	}
	if len(o.Headers) > 0 {
		data, err := json.MarshalIndent(o.Headers, "", "  ")
		if err != nil {
			return ""
		}
		return string(data)
	}
	return ""
}

// indentLines prefixes every line of s with n spaces and a trailing
// newline.
func indentLines(s string, n int) string {
	pad := strings.Repeat(" ", n)
	var sb strings.Builder
	for _, line := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
		sb.WriteString(pad)
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}
