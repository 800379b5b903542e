package probe

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/mkosuda/gmapscan/internal/client"
	"github.com/mkosuda/gmapscan/internal/model"
)

// batchCSVName is the CSV artifact uploaded to the batch endpoint.
const batchCSVName = "batch.csv"

// BatchGeocodeProbe checks the batch Geocoding API. It writes a
// one-row CSV artifact for the place query and uploads it as a
// multipart file.
//
// Unlike most probes this one always records an outcome: on non-200
// responses the info column carries the JSON "status" field so the
// report still shows how the endpoint answered.
type BatchGeocodeProbe struct {
	base
}

// NewBatchGeocodeProbe creates the batch geocode probe.
func NewBatchGeocodeProbe(c *client.Client, endpoints Endpoints) *BatchGeocodeProbe {
	return &BatchGeocodeProbe{base{client: c, endpoints: endpoints}}
}

// Service returns the endpoint name.
func (p *BatchGeocodeProbe) Service() model.Service { return model.ServiceBatchGeocode }

// Requires reports the probe's prerequisite.
func (p *BatchGeocodeProbe) Requires() Requirement { return RequireNone }

// Do writes batch.csv under the artifact directory and uploads it.
func (p *BatchGeocodeProbe) Do(ctx context.Context, report *model.CheckReport) (*model.Outcome, error) {
	data, err := p.writeCSV(report)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("key", report.APIKey)

	resp := p.client.PostMultipart(ctx, p.endpoints.Maps+"/maps/api/geocode/batch/json", params, "file", batchCSVName, data)

	info := ""
	if !resp.OK() {
		var body struct {
			Status string `json:"status"`
		}
		_ = json.Unmarshal(resp.Body, &body) //nolint:errcheck // Empty body leaves status blank
		info = body.Status
	}

	return &model.Outcome{
		Service:    model.ServiceBatchGeocode,
		HTTPStatus: resp.StatusCode,
		Info:       info,
		Raw:        rawOrEmpty(resp.Body),
	}, nil
}

// writeCSV writes the batch artifact and returns its bytes for upload.
func (p *BatchGeocodeProbe) writeCSV(report *model.CheckReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll([][]string{{"address"}, {report.Place}}); err != nil {
		return nil, fmt.Errorf("failed to encode batch CSV: %w", err)
	}

	if err := os.MkdirAll(report.ArtifactDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}
	path := filepath.Join(report.ArtifactDir, batchCSVName)
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", batchCSVName, err)
	}

	return buf.Bytes(), nil
}
