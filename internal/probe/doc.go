// Package probe implements one check per Maps Platform endpoint.
//
// Each probe builds a request for its endpoint, gates on the response's
// success marker, and extracts a one-line info summary. A probe that
// receives a response without the expected marker contributes nothing
// (a "soft failure") rather than returning an error; only local
// problems such as unwritable artifact files are errors.
//
// The geocode probe additionally derives coordinates and a place ID
// into the shared report; probes that declare RequireCoordinates or
// RequirePlaceID must not be executed while those fields are empty.
// That gating is enforced by the pipeline, not by the probes.
package probe
