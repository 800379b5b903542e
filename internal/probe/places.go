package probe

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/mkosuda/gmapscan/internal/client"
	"github.com/mkosuda/gmapscan/internal/model"
)

// PhotoReferenceProbe checks Find Place From Text, requesting the
// photos field and extracting the first photo reference.
type PhotoReferenceProbe struct {
	base
}

// NewPhotoReferenceProbe creates the photo reference probe.
func NewPhotoReferenceProbe(c *client.Client, endpoints Endpoints) *PhotoReferenceProbe {
	return &PhotoReferenceProbe{base{client: c, endpoints: endpoints}}
}

// Service returns the endpoint name.
func (p *PhotoReferenceProbe) Service() model.Service { return model.ServicePhotoReference }

// Requires reports the probe's prerequisite. The request itself only
// uses the place text, but the check is gated on a resolved place ID
// so it never runs for queries that did not geocode.
func (p *PhotoReferenceProbe) Requires() Requirement { return RequirePlaceID }

// Do fetches photo candidates for the place query.
func (p *PhotoReferenceProbe) Do(ctx context.Context, report *model.CheckReport) (*model.Outcome, error) {
	params := url.Values{}
	params.Set("input", report.Place)
	params.Set("inputtype", "textquery")
	params.Set("fields", "photos")
	params.Set("key", report.APIKey)

	resp := p.client.GetJSON(ctx, p.endpoints.Maps+"/maps/api/place/findplacefromtext/json", params)

	var body struct {
		Candidates []struct {
			Photos []struct {
				PhotoReference string `json:"photo_reference"`
			} `json:"photos"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, nil
	}
	if len(body.Candidates) == 0 || len(body.Candidates[0].Photos) == 0 {
		return nil, nil
	}

	return &model.Outcome{
		Service:    model.ServicePhotoReference,
		HTTPStatus: resp.StatusCode,
		Info:       body.Candidates[0].Photos[0].PhotoReference,
		Raw:        json.RawMessage(resp.Body),
	}, nil
}

// PlaceDetailsProbe checks the Place Details API using the derived
// place ID.
type PlaceDetailsProbe struct {
	base
}

// NewPlaceDetailsProbe creates the place details probe.
func NewPlaceDetailsProbe(c *client.Client, endpoints Endpoints) *PlaceDetailsProbe {
	return &PlaceDetailsProbe{base{client: c, endpoints: endpoints}}
}

// Service returns the endpoint name.
func (p *PlaceDetailsProbe) Service() model.Service { return model.ServicePlaceDetails }

// Requires reports the probe's prerequisite.
func (p *PlaceDetailsProbe) Requires() Requirement { return RequirePlaceID }

// Do fetches details for the derived place ID; the success marker is
// status "OK".
func (p *PlaceDetailsProbe) Do(ctx context.Context, report *model.CheckReport) (*model.Outcome, error) {
	params := url.Values{}
	params.Set("place_id", report.PlaceID)
	params.Set("key", report.APIKey)

	resp := p.client.GetJSON(ctx, p.endpoints.Maps+"/maps/api/place/details/json", params)

	var body struct {
		Status string `json:"status"`
		Result struct {
			Name string `json:"name"`
		} `json:"result"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, nil
	}
	if body.Status != "OK" {
		return nil, nil
	}

	return &model.Outcome{
		Service:    model.ServicePlaceDetails,
		HTTPStatus: resp.StatusCode,
		Info:       body.Result.Name,
		Raw:        json.RawMessage(resp.Body),
	}, nil
}

// searchResponse is the shared shape of text and nearby search results.
type searchResponse struct {
	Results []struct {
		Name string `json:"name"`
	} `json:"results"`
}

// TextSearchProbe checks the Places Text Search API with the raw place
// query.
type TextSearchProbe struct {
	base
}

// NewTextSearchProbe creates the text search probe.
func NewTextSearchProbe(c *client.Client, endpoints Endpoints) *TextSearchProbe {
	return &TextSearchProbe{base{client: c, endpoints: endpoints}}
}

// Service returns the endpoint name.
func (p *TextSearchProbe) Service() model.Service { return model.ServiceTextSearch }

// Requires reports the probe's prerequisite.
func (p *TextSearchProbe) Requires() Requirement { return RequireNone }

// Do searches for the place query and reports the first result name.
func (p *TextSearchProbe) Do(ctx context.Context, report *model.CheckReport) (*model.Outcome, error) {
	params := url.Values{}
	params.Set("query", report.Place)
	params.Set("key", report.APIKey)

	resp := p.client.GetJSON(ctx, p.endpoints.Maps+"/maps/api/place/textsearch/json", params)
	return firstResultOutcome(model.ServiceTextSearch, resp)
}

// NearbySearchProbe checks the Places Nearby Search API around the
// derived coordinates (1km radius, restaurants).
type NearbySearchProbe struct {
	base
}

// NewNearbySearchProbe creates the nearby search probe.
func NewNearbySearchProbe(c *client.Client, endpoints Endpoints) *NearbySearchProbe {
	return &NearbySearchProbe{base{client: c, endpoints: endpoints}}
}

// Service returns the endpoint name.
func (p *NearbySearchProbe) Service() model.Service { return model.ServiceNearbySearch }

// Requires reports the probe's prerequisite.
func (p *NearbySearchProbe) Requires() Requirement { return RequireCoordinates }

// Do searches near the derived coordinates and reports the first
// result name.
func (p *NearbySearchProbe) Do(ctx context.Context, report *model.CheckReport) (*model.Outcome, error) {
	params := url.Values{}
	params.Set("location", report.Coordinates)
	params.Set("radius", "1000")
	params.Set("type", "restaurant")
	params.Set("key", report.APIKey)

	resp := p.client.GetJSON(ctx, p.endpoints.Maps+"/maps/api/place/nearbysearch/json", params)
	return firstResultOutcome(model.ServiceNearbySearch, resp)
}

// firstResultOutcome gates on a non-empty results array and summarizes
// the first result's name.
func firstResultOutcome(service model.Service, resp *client.Response) (*model.Outcome, error) {
	var body searchResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, nil
	}
	if len(body.Results) == 0 {
		return nil, nil
	}

	return &model.Outcome{
		Service:    service,
		HTTPStatus: resp.StatusCode,
		Info:       body.Results[0].Name,
		Raw:        json.RawMessage(resp.Body),
	}, nil
}

// AutocompleteProbe checks the Places Autocomplete API using the first
// word of the place query as a prefix.
type AutocompleteProbe struct {
	base
}

// NewAutocompleteProbe creates the autocomplete probe.
func NewAutocompleteProbe(c *client.Client, endpoints Endpoints) *AutocompleteProbe {
	return &AutocompleteProbe{base{client: c, endpoints: endpoints}}
}

// Service returns the endpoint name.
func (p *AutocompleteProbe) Service() model.Service { return model.ServiceAutocomplete }

// Requires reports the probe's prerequisite.
func (p *AutocompleteProbe) Requires() Requirement { return RequireNone }

// Do requests predictions for the place's first word and reports the
// first prediction's description.
func (p *AutocompleteProbe) Do(ctx context.Context, report *model.CheckReport) (*model.Outcome, error) {
	input := report.Place
	if fields := strings.Fields(report.Place); len(fields) > 0 {
		input = fields[0]
	}

	params := url.Values{}
	params.Set("input", input)
	params.Set("types", "geocode")
	params.Set("key", report.APIKey)

	resp := p.client.GetJSON(ctx, p.endpoints.Maps+"/maps/api/place/autocomplete/json", params)

	var body struct {
		Predictions []struct {
			Description string `json:"description"`
		} `json:"predictions"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, nil
	}
	if len(body.Predictions) == 0 {
		return nil, nil
	}

	return &model.Outcome{
		Service:    model.ServiceAutocomplete,
		HTTPStatus: resp.StatusCode,
		Info:       body.Predictions[0].Description,
		Raw:        json.RawMessage(resp.Body),
	}, nil
}
