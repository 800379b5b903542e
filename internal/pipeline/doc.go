// Package pipeline orchestrates probe execution for one key check.
//
// The pipeline runs every probe in a fixed canonical order, starting
// with geocoding so dependent probes can use the derived coordinates
// and place ID. Probes that miss their requirement are skipped without
// network traffic, and every probe's end state is recorded in the
// report's probe log. Only recorded outcomes appear in the visible
// report; skipped and empty probes are deliberately collapsed there.
package pipeline
