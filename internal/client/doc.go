// Package client provides the shared HTTP client used by all probes.
//
// The client applies a fixed per-request timeout, retries transient
// server errors (429/500/502/503/504) with exponential backoff, and
// converts transport-level failures into empty responses instead of
// errors. Probes therefore never see a Go error from the network; a
// zero status code means "no usable response".
package client
