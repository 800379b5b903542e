// Package log provides secure logging with automatic sanitization of
// API keys and other secrets, built on top of the standard slog package.
//
// The SecureHandler masks attribute values whose key names look
// secret-bearing (api_key, token, authorization, ...) and string values
// that match known key shapes, including the Google API key format
// (AIza followed by 35 URL-safe characters). Even in verbose mode the
// key under test must never appear in log output; the report shows a
// masked form instead.
package log
