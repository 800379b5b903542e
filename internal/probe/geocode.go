package probe

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/mkosuda/gmapscan/internal/client"
	"github.com/mkosuda/gmapscan/internal/model"
)

// GeocodeProbe checks the Geocoding API. On success it seeds the run
// context: seven later probes consume the derived coordinates or place
// ID, so this probe always runs first.
type GeocodeProbe struct {
	base
}

// NewGeocodeProbe creates the geocode probe.
func NewGeocodeProbe(c *client.Client, endpoints Endpoints) *GeocodeProbe {
	return &GeocodeProbe{base{client: c, endpoints: endpoints}}
}

// Service returns the endpoint name.
func (p *GeocodeProbe) Service() model.Service { return model.ServiceGeocode }

// Requires reports the probe's prerequisite.
func (p *GeocodeProbe) Requires() Requirement { return RequireNone }

// geocodeResponse is the subset of the Geocoding response we read.
type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		PlaceID          string `json:"place_id"`
		Geometry         struct {
			Location latLng `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Do geocodes the place query. The success marker is status "OK" with
// at least one result; anything else is a soft failure and leaves the
// run context untouched.
func (p *GeocodeProbe) Do(ctx context.Context, report *model.CheckReport) (*model.Outcome, error) {
	params := url.Values{}
	params.Set("address", report.Place)
	params.Set("key", report.APIKey)

	resp := p.client.GetJSON(ctx, p.endpoints.Maps+"/maps/api/geocode/json", params)

	var body geocodeResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, nil
	}
	if body.Status != "OK" || len(body.Results) == 0 {
		return nil, nil
	}

	first := body.Results[0]
	report.FormattedAddress = first.FormattedAddress
	report.Coordinates = first.Geometry.Location.String()
	report.PlaceID = first.PlaceID

	return &model.Outcome{
		Service:    model.ServiceGeocode,
		HTTPStatus: resp.StatusCode,
		Info:       first.FormattedAddress,
		Raw:        json.RawMessage(resp.Body),
	}, nil
}
