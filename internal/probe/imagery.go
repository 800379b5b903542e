package probe

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mkosuda/gmapscan/internal/client"
	"github.com/mkosuda/gmapscan/internal/model"
)

// Artifact file names for the binary probes.
const (
	staticMapFile  = "staticmap.png"
	streetViewFile = "streetview.jpg"
)

// StaticMapProbe checks the Static Maps API. On HTTP 200 it writes the
// image bytes to staticmap.png under the artifact directory and
// summarizes content-type and size from the response headers; on any
// other status no file is written and nothing is recorded.
type StaticMapProbe struct {
	base
}

// NewStaticMapProbe creates the static map probe.
func NewStaticMapProbe(c *client.Client, endpoints Endpoints) *StaticMapProbe {
	return &StaticMapProbe{base{client: c, endpoints: endpoints}}
}

// Service returns the endpoint name.
func (p *StaticMapProbe) Service() model.Service { return model.ServiceStaticMap }

// Requires reports the probe's prerequisite.
func (p *StaticMapProbe) Requires() Requirement { return RequireCoordinates }

// Do fetches a 400x400 map image centered on the derived coordinates.
func (p *StaticMapProbe) Do(ctx context.Context, report *model.CheckReport) (*model.Outcome, error) {
	params := url.Values{}
	params.Set("center", report.Coordinates)
	params.Set("zoom", "7")
	params.Set("size", "400x400")
	params.Set("key", report.APIKey)

	resp := p.client.Get(ctx, p.endpoints.Maps+"/maps/api/staticmap", params)
	return imageOutcome(model.ServiceStaticMap, resp, filepath.Join(report.ArtifactDir, staticMapFile))
}

// StreetViewProbe checks the Street View Static API. It behaves like
// StaticMapProbe but writes streetview.jpg.
type StreetViewProbe struct {
	base
}

// NewStreetViewProbe creates the street view probe.
func NewStreetViewProbe(c *client.Client, endpoints Endpoints) *StreetViewProbe {
	return &StreetViewProbe{base{client: c, endpoints: endpoints}}
}

// Service returns the endpoint name.
func (p *StreetViewProbe) Service() model.Service { return model.ServiceStreetView }

// Requires reports the probe's prerequisite.
func (p *StreetViewProbe) Requires() Requirement { return RequireCoordinates }

// Do fetches a 400x400 street view image at the derived coordinates.
func (p *StreetViewProbe) Do(ctx context.Context, report *model.CheckReport) (*model.Outcome, error) {
	params := url.Values{}
	params.Set("location", report.Coordinates)
	params.Set("size", "400x400")
	params.Set("key", report.APIKey)

	resp := p.client.Get(ctx, p.endpoints.Maps+"/maps/api/streetview", params)
	return imageOutcome(model.ServiceStreetView, resp, filepath.Join(report.ArtifactDir, streetViewFile))
}

// imageOutcome writes the downloaded image and builds the outcome for a
// binary probe. The outcome stores the response headers rather than the
// image bytes; the info column shows content-type and size in KB, both
// taken from headers to match what the server declared.
func imageOutcome(service model.Service, resp *client.Response, dest string) (*model.Outcome, error) {
	if !resp.OK() {
		return nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0750); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}
	if err := os.WriteFile(dest, resp.Body, 0600); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", filepath.Base(dest), err)
	}

	length, _ := strconv.Atoi(resp.Header.Get("Content-Length")) //nolint:errcheck // Absent header reads as 0
	info := fmt.Sprintf("%s, %dKB", resp.Header.Get("Content-Type"), length/1024)

	return &model.Outcome{
		Service:    service,
		HTTPStatus: resp.StatusCode,
		Info:       info,
		Headers:    headerMap(resp.Header),
	}, nil
}
