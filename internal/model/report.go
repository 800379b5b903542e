package model

import "time"

// CheckReport is the main result structure for a single (key, place)
// check. It doubles as the run context: the geocode probe stores the
// derived coordinates and place ID here, and later probes read them.
//
// Design decision: We thread one report through all probes instead of
// sharing mutable locals because:
//  1. Probes become pure functions of (client, report)
//  2. Tests can seed derived values directly
//  3. Serialization for the JSON report is trivial
type CheckReport struct {
	// APIKey is the key under test. Never serialized; reports show
	// only MaskedKey.
	APIKey string `json:"-"`

	// MaskedKey is the display-safe form of the key (see MaskKey).
	MaskedKey string `json:"masked_key"`

	// Place is the user-supplied place query (address or "lat,lng").
	Place string `json:"place"`

	// DateChecked is when the check started.
	DateChecked time.Time `json:"date_checked"`

	// Coordinates is the "lat,lng" string derived by the geocode probe.
	// Empty until geocoding succeeds; probes that need coordinates are
	// skipped while it is empty.
	Coordinates string `json:"coordinates,omitempty"`

	// PlaceID is the place identifier derived by the geocode probe.
	PlaceID string `json:"place_id,omitempty"`

	// FormattedAddress is the display address from the geocode probe.
	FormattedAddress string `json:"formatted_address,omitempty"`

	// ArtifactDir is the per-key directory for downloaded files.
	ArtifactDir string `json:"artifact_dir,omitempty"`

	// Outcomes holds recorded outcomes in probe execution order.
	Outcomes []Outcome `json:"outcomes"`

	// ProbeLog maps every attempted or skipped service to its status.
	ProbeLog map[Service]ProbeStatus `json:"probe_log,omitempty"`
}

// NewCheckReport creates a report for one (key, place) pair.
// outputRoot is the base directory under which per-key artifact
// directories are derived.
func NewCheckReport(key, place, outputRoot string) *CheckReport {
	return &CheckReport{
		APIKey:      key,
		MaskedKey:   MaskKey(key),
		Place:       place,
		DateChecked: time.Now(),
		ArtifactDir: ArtifactDir(outputRoot, key),
		Outcomes:    make([]Outcome, 0, len(Services())),
		ProbeLog:    make(map[Service]ProbeStatus),
	}
}

// AddOutcome records an outcome, preserving insertion order.
// Outcomes are immutable once recorded: a second outcome for the same
// service is ignored.
func (r *CheckReport) AddOutcome(o Outcome) {
	if _, ok := r.Outcome(o.Service); ok {
		return
	}
	r.Outcomes = append(r.Outcomes, o)
}

// Outcome returns the recorded outcome for the given service.
func (r *CheckReport) Outcome(s Service) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Service == s {
			return o, true
		}
	}
	return Outcome{}, false
}

// SetProbeStatus records how a probe ended.
func (r *CheckReport) SetProbeStatus(s Service, status ProbeStatus) {
	if r.ProbeLog == nil {
		r.ProbeLog = make(map[Service]ProbeStatus)
	}
	r.ProbeLog[s] = status
}

// HasCoordinates reports whether the geocode probe derived coordinates.
func (r *CheckReport) HasCoordinates() bool {
	return r.Coordinates != ""
}

// HasPlaceID reports whether the geocode probe derived a place ID.
func (r *CheckReport) HasPlaceID() bool {
	return r.PlaceID != ""
}
