package queryir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainRequest separates request fingerprints from any other hash space.
// The version suffix allows the encoding to change later.
const DomainRequest = "influxq/request/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint returns a content-addressed identity for req.
// Requests that differ only in nil vs empty slices share a fingerprint.
func Fingerprint(req Request) (string, error) {
	canonical, err := MarshalCanonical(req)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	return hashWithDomain(DomainRequest, canonical), nil
}
