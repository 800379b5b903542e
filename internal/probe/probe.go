package probe

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/mkosuda/gmapscan/internal/client"
	"github.com/mkosuda/gmapscan/internal/model"
)

// Requirement identifies derived run-context data a probe needs before
// it can run. Probes with an unmet requirement are skipped entirely:
// no HTTP request is issued.
type Requirement int

// Probe requirements.
const (
	// RequireNone means the probe only needs the key and place query.
	RequireNone Requirement = iota

	// RequireCoordinates means the probe needs the "lat,lng" string
	// derived by the geocode probe.
	RequireCoordinates

	// RequirePlaceID means the probe needs the place identifier
	// derived by the geocode probe.
	RequirePlaceID
)

// Probe is one endpoint-specific request/response/extraction routine.
//
// Design decision: We use an interface rather than function values
// because probes carry configuration (client, endpoints, artifact
// paths) and the pipeline needs Service() and Requires() for ordering,
// gating, and progress display.
type Probe interface {
	// Service returns the endpoint this probe checks.
	Service() model.Service

	// Requires reports which derived run-context data must be present
	// before the probe may run.
	Requires() Requirement

	// Do executes the check. A nil outcome with a nil error is a soft
	// failure: the response lacked the expected success marker and the
	// endpoint is omitted from the report. Errors are reserved for
	// local failures such as unwritable artifact files.
	Do(ctx context.Context, report *model.CheckReport) (*model.Outcome, error)
}

// Endpoints holds the base URLs of the three Maps Platform hosts.
// Tests point all three at an httptest server.
type Endpoints struct {
	// Maps serves the classic Maps/Places APIs.
	Maps string

	// Roads serves the Roads API.
	Roads string

	// Geolocation serves the Geolocation API.
	Geolocation string
}

// DefaultEndpoints returns the production Google hosts.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Maps:        "https://maps.googleapis.com",
		Roads:       "https://roads.googleapis.com",
		Geolocation: "https://www.googleapis.com",
	}
}

// base carries the dependencies shared by all probes.
type base struct {
	client    *client.Client
	endpoints Endpoints
}

// latLng is the coordinate pair shape used across Maps responses.
type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// String renders the pair as "lat,lng" with the shortest exact decimal
// form, the same string later probes pass back as a query parameter.
func (l latLng) String() string {
	return strconv.FormatFloat(l.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(l.Lng, 'f', -1, 64)
}

// rawOrEmpty normalizes a response body for outcome storage: probes
// that always record an outcome store "{}" when no JSON was received.
func rawOrEmpty(body []byte) json.RawMessage {
	if len(body) == 0 {
		return json.RawMessage("{}")
	}
	return json.RawMessage(body)
}

// headerMap flattens response headers for binary-probe outcomes.
func headerMap(h http.Header) map[string]string {
	m := make(map[string]string, len(h))
	for k, v := range h {
		m[k] = strings.Join(v, ", ")
	}
	return m
}
