package model

import (
	"crypto/sha1" //nolint:gosec // Not used for security; only key fingerprinting
	"encoding/hex"
	"path/filepath"
	"strings"
)

// keyHashLen is the number of hex characters of the SHA-1 digest used
// for masked-key display and artifact directory names.
const keyHashLen = 8

// KeyHashPrefix returns the first 8 hex characters of the SHA-1 digest
// of the key. It is stable across runs, so artifacts for the same key
// land in the same directory.
func KeyHashPrefix(key string) string {
	sum := sha1.Sum([]byte(key)) //nolint:gosec // Fingerprint only
	return hex.EncodeToString(sum[:])[:keyHashLen]
}

// MaskKey returns a display-safe form of the API key: the first and
// last four characters joined by an ellipsis, followed by the key's
// hash prefix. The full key never appears in the result.
//
// Example: "ABCD1234WXYZ" -> "ABCD…WXYZ (0a1b2c3d)".
func MaskKey(key string) string {
	head, tail := key, key
	if len(key) >= 8 {
		head = key[:4]
		tail = key[len(key)-4:]
	} else {
		// Too short to split; show only asterisks of the same length.
		head = strings.Repeat("*", len(key))
		tail = ""
		return head + " (" + KeyHashPrefix(key) + ")"
	}
	return head + "…" + tail + " (" + KeyHashPrefix(key) + ")"
}

// ArtifactDir returns the per-key directory under root where downloaded
// artifacts (batch.csv, staticmap.png, streetview.jpg) are written.
// The directory itself is created lazily by the probes on first write.
func ArtifactDir(root, key string) string {
	return filepath.Join(root, KeyHashPrefix(key))
}
