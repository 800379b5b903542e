package model

import "encoding/json"

// Outcome records one successful endpoint check.
// It is immutable once recorded in a report.
//
// Exactly one of Raw and Headers is populated: JSON probes keep the
// raw response body, binary probes (static map, street view) keep the
// response headers instead of the image bytes.
type Outcome struct {
	// Service is the endpoint this outcome belongs to.
	Service Service `json:"service"`

	// HTTPStatus is the HTTP status code of the final response.
	// Zero means the request never produced a response (transport
	// failure or malformed body).
	HTTPStatus int `json:"http_status,omitempty"`

	// Info is the endpoint-specific one-line summary shown in the
	// report table (formatted address, first result name, "<n> points",
	// content-type and size for images, ...).
	Info string `json:"info"`

	// Raw is the raw JSON response body for JSON probes.
	Raw json.RawMessage `json:"raw,omitempty"`

	// Headers holds the response headers for binary probes.
	Headers map[string]string `json:"headers,omitempty"`
}

// ProbeStatus distinguishes how a probe ended. The visible report only
// lists successful outcomes; the status log exists so callers and tests
// can tell "not attempted" from "attempted but no data".
type ProbeStatus string

// Probe statuses recorded in CheckReport.ProbeLog.
const (
	// ProbeStatusSkipped means the probe's prerequisite (coordinates or
	// place ID) was never populated, so no request was issued.
	ProbeStatusSkipped ProbeStatus = "skipped"

	// ProbeStatusNoData means a response was received but lacked the
	// expected success marker or field (soft failure).
	ProbeStatusNoData ProbeStatus = "no_data"

	// ProbeStatusOK means the probe recorded an outcome.
	ProbeStatusOK ProbeStatus = "ok"

	// ProbeStatusFailed means the probe hit a local error, such as not
	// being able to write an artifact file.
	ProbeStatusFailed ProbeStatus = "failed"
)
