// Package model defines the core data structures for gmapscan.
//
// It contains the fixed service list, probe outcomes, and the check
// report that accumulates derived run context (coordinates, place ID)
// across probes within a single invocation.
package model
