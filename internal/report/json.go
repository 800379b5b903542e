package report

import (
	"encoding/json"
	"io"

	"github.com/mkosuda/gmapscan/internal/model"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for machine consumption and pipelines.
//
// Design decision: We serialize the report structure directly rather
// than building a separate output model. The report already excludes
// the raw key from serialization, and the probe log gives consumers
// the skipped/no-data detail the text table collapses.
type JSONWriter struct {
	baseWriter
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer) *JSONWriter {
	return &JSONWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report as indented JSON.
func (w *JSONWriter) Write(report *model.CheckReport) (int, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return 0, err
	}
	data = append(data, '\n')
	return w.output.Write(data)
}
