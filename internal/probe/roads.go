package probe

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/mkosuda/gmapscan/internal/client"
	"github.com/mkosuda/gmapscan/internal/model"
)

// snappedResponse is the shared shape of Roads API responses.
type snappedResponse struct {
	SnappedPoints []struct {
		PlaceID string `json:"placeId"`
	} `json:"snappedPoints"`
}

// snappedOutcome gates on a non-empty snappedPoints array and reports
// the point count.
func snappedOutcome(service model.Service, resp *client.Response) (*model.Outcome, error) {
	var body snappedResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, nil
	}
	if len(body.SnappedPoints) == 0 {
		return nil, nil
	}

	return &model.Outcome{
		Service:    service,
		HTTPStatus: resp.StatusCode,
		Info:       strconv.Itoa(len(body.SnappedPoints)) + " points",
		Raw:        json.RawMessage(resp.Body),
	}, nil
}

// SnapToRoadsProbe checks the Roads API snapToRoads endpoint with a
// two-point path at the derived coordinates.
type SnapToRoadsProbe struct {
	base
}

// NewSnapToRoadsProbe creates the snap-to-roads probe.
func NewSnapToRoadsProbe(c *client.Client, endpoints Endpoints) *SnapToRoadsProbe {
	return &SnapToRoadsProbe{base{client: c, endpoints: endpoints}}
}

// Service returns the endpoint name.
func (p *SnapToRoadsProbe) Service() model.Service { return model.ServiceSnapToRoads }

// Requires reports the probe's prerequisite.
func (p *SnapToRoadsProbe) Requires() Requirement { return RequireCoordinates }

// Do snaps a degenerate path of the derived coordinates to the road
// network.
func (p *SnapToRoadsProbe) Do(ctx context.Context, report *model.CheckReport) (*model.Outcome, error) {
	params := url.Values{}
	params.Set("path", report.Coordinates+"|"+report.Coordinates)
	params.Set("interpolate", "true")
	params.Set("key", report.APIKey)

	resp := p.client.GetJSON(ctx, p.endpoints.Roads+"/v1/snapToRoads", params)
	return snappedOutcome(model.ServiceSnapToRoads, resp)
}

// NearestRoadsProbe checks the Roads API nearestRoads endpoint at the
// derived coordinates.
type NearestRoadsProbe struct {
	base
}

// NewNearestRoadsProbe creates the nearest-roads probe.
func NewNearestRoadsProbe(c *client.Client, endpoints Endpoints) *NearestRoadsProbe {
	return &NearestRoadsProbe{base{client: c, endpoints: endpoints}}
}

// Service returns the endpoint name.
func (p *NearestRoadsProbe) Service() model.Service { return model.ServiceNearestRoads }

// Requires reports the probe's prerequisite.
func (p *NearestRoadsProbe) Requires() Requirement { return RequireCoordinates }

// Do finds road segments nearest to the derived coordinates.
func (p *NearestRoadsProbe) Do(ctx context.Context, report *model.CheckReport) (*model.Outcome, error) {
	params := url.Values{}
	params.Set("points", report.Coordinates)
	params.Set("key", report.APIKey)

	resp := p.client.GetJSON(ctx, p.endpoints.Roads+"/v1/nearestRoads", params)
	return snappedOutcome(model.ServiceNearestRoads, resp)
}
