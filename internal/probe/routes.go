package probe

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"time"

	"github.com/mkosuda/gmapscan/internal/client"
	"github.com/mkosuda/gmapscan/internal/model"
)

// DistanceMatrixProbe checks the Distance Matrix API with the derived
// coordinates as both origin and destination.
type DistanceMatrixProbe struct {
	base
}

// NewDistanceMatrixProbe creates the distance matrix probe.
func NewDistanceMatrixProbe(c *client.Client, endpoints Endpoints) *DistanceMatrixProbe {
	return &DistanceMatrixProbe{base{client: c, endpoints: endpoints}}
}

// Service returns the endpoint name.
func (p *DistanceMatrixProbe) Service() model.Service { return model.ServiceDistanceMatrix }

// Requires reports the probe's prerequisite.
func (p *DistanceMatrixProbe) Requires() Requirement { return RequireCoordinates }

// Do requests a one-by-one matrix. The success marker is a first
// element carrying a distance object; a zero-distance self trip still
// counts.
func (p *DistanceMatrixProbe) Do(ctx context.Context, report *model.CheckReport) (*model.Outcome, error) {
	params := url.Values{}
	params.Set("origins", report.Coordinates)
	params.Set("destinations", report.Coordinates)
	params.Set("key", report.APIKey)

	resp := p.client.GetJSON(ctx, p.endpoints.Maps+"/maps/api/distancematrix/json", params)

	var body struct {
		Rows []struct {
			Elements []struct {
				Distance *struct {
					Text string `json:"text"`
				} `json:"distance"`
				Duration *struct {
					Text string `json:"text"`
				} `json:"duration"`
			} `json:"elements"`
		} `json:"rows"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, nil
	}
	if len(body.Rows) == 0 || len(body.Rows[0].Elements) == 0 {
		return nil, nil
	}
	element := body.Rows[0].Elements[0]
	if element.Distance == nil || element.Duration == nil {
		return nil, nil
	}

	return &model.Outcome{
		Service:    model.ServiceDistanceMatrix,
		HTTPStatus: resp.StatusCode,
		Info:       element.Distance.Text + ", " + element.Duration.Text,
		Raw:        json.RawMessage(resp.Body),
	}, nil
}

// ElevationProbe checks the Elevation API at the derived coordinates.
type ElevationProbe struct {
	base
}

// NewElevationProbe creates the elevation probe.
func NewElevationProbe(c *client.Client, endpoints Endpoints) *ElevationProbe {
	return &ElevationProbe{base{client: c, endpoints: endpoints}}
}

// Service returns the endpoint name.
func (p *ElevationProbe) Service() model.Service { return model.ServiceElevation }

// Requires reports the probe's prerequisite.
func (p *ElevationProbe) Requires() Requirement { return RequireCoordinates }

// Do fetches the elevation at the derived coordinates.
func (p *ElevationProbe) Do(ctx context.Context, report *model.CheckReport) (*model.Outcome, error) {
	params := url.Values{}
	params.Set("locations", report.Coordinates)
	params.Set("key", report.APIKey)

	resp := p.client.GetJSON(ctx, p.endpoints.Maps+"/maps/api/elevation/json", params)

	var body struct {
		Results []struct {
			Elevation float64 `json:"elevation"`
		} `json:"results"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, nil
	}
	if len(body.Results) == 0 {
		return nil, nil
	}

	return &model.Outcome{
		Service:    model.ServiceElevation,
		HTTPStatus: resp.StatusCode,
		Info:       strconv.FormatFloat(body.Results[0].Elevation, 'f', -1, 64) + "m",
		Raw:        json.RawMessage(resp.Body),
	}, nil
}

// TimeZoneProbe checks the Time Zone API at the derived coordinates,
// using the current time as the timestamp.
type TimeZoneProbe struct {
	base

	// now is swappable in tests.
	now func() time.Time
}

// NewTimeZoneProbe creates the time zone probe.
func NewTimeZoneProbe(c *client.Client, endpoints Endpoints) *TimeZoneProbe {
	return &TimeZoneProbe{base: base{client: c, endpoints: endpoints}, now: time.Now}
}

// Service returns the endpoint name.
func (p *TimeZoneProbe) Service() model.Service { return model.ServiceTimeZone }

// Requires reports the probe's prerequisite.
func (p *TimeZoneProbe) Requires() Requirement { return RequireCoordinates }

// Do fetches the IANA time zone at the derived coordinates.
func (p *TimeZoneProbe) Do(ctx context.Context, report *model.CheckReport) (*model.Outcome, error) {
	params := url.Values{}
	params.Set("location", report.Coordinates)
	params.Set("timestamp", strconv.FormatInt(p.now().Unix(), 10))
	params.Set("key", report.APIKey)

	resp := p.client.GetJSON(ctx, p.endpoints.Maps+"/maps/api/timezone/json", params)

	var body struct {
		TimeZoneID string `json:"timeZoneId"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, nil
	}
	if body.TimeZoneID == "" {
		return nil, nil
	}

	return &model.Outcome{
		Service:    model.ServiceTimeZone,
		HTTPStatus: resp.StatusCode,
		Info:       body.TimeZoneID,
		Raw:        json.RawMessage(resp.Body),
	}, nil
}
