package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"

	"github.com/mkosuda/gmapscan/internal/client"
	"github.com/mkosuda/gmapscan/internal/model"
)

// GeolocateProbe checks the Geolocation API with an IP-based lookup.
//
// Like BatchGeocodeProbe it always records an outcome: the info column
// carries the located coordinates on success, or the endpoint's error
// object when the key is not entitled, so the report shows how the
// endpoint answered either way.
type GeolocateProbe struct {
	base
}

// NewGeolocateProbe creates the geolocation probe.
func NewGeolocateProbe(c *client.Client, endpoints Endpoints) *GeolocateProbe {
	return &GeolocateProbe{base{client: c, endpoints: endpoints}}
}

// Service returns the endpoint name.
func (p *GeolocateProbe) Service() model.Service { return model.ServiceGeolocate }

// Requires reports the probe's prerequisite.
func (p *GeolocateProbe) Requires() Requirement { return RequireNone }

// Do posts a considerIp lookup and summarizes whatever came back.
func (p *GeolocateProbe) Do(ctx context.Context, report *model.CheckReport) (*model.Outcome, error) {
	params := url.Values{}
	params.Set("key", report.APIKey)

	resp := p.client.PostJSON(ctx, p.endpoints.Geolocation+"/geolocation/v1/geolocate", params, map[string]bool{"considerIp": true})

	var body struct {
		Location *latLng         `json:"location"`
		Error    json.RawMessage `json:"error"`
		Status   string          `json:"status"`
	}
	_ = json.Unmarshal(resp.Body, &body) //nolint:errcheck // Malformed body falls through to UNKNOWN

	info := "UNKNOWN"
	switch {
	case body.Location != nil:
		info = body.Location.String()
	case len(body.Error) > 0:
		var compact bytes.Buffer
		if err := json.Compact(&compact, body.Error); err == nil {
			info = compact.String()
		}
	case body.Status != "":
		info = body.Status
	}

	return &model.Outcome{
		Service:    model.ServiceGeolocate,
		HTTPStatus: resp.StatusCode,
		Info:       info,
		Raw:        rawOrEmpty(resp.Body),
	}, nil
}
