// Package main provides the entry point for the gmapscan CLI.
//
// gmapscan checks which Google Maps Platform endpoints accept a given
// API key. It probes each REST endpoint with a real request and prints
// a table of the endpoints that answered with usable data.
//
// Usage:
//
//	gmapscan check --key AIza... --place "London"
//
// See --help for all available options.
package main

// main is the entry point for gmapscan.
func main() {
	Execute()
}
