package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix enables future algorithm migration.
const (
	DomainProgram = "minicheck/program/v1"
)

// HashWithDomain computes SHA-256 with domain separation:
// SHA256(domain + 0x00 + data).
func HashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ContentHash hashes a generic JSON-shaped document under a domain.
// Returns an error if the document cannot be canonically marshaled.
func ContentHash(domain string, doc any) (string, error) {
	canonical, err := MarshalCanonical(doc)
	if err != nil {
		return "", fmt.Errorf("ContentHash: failed to marshal: %w", err)
	}
	return HashWithDomain(domain, canonical), nil
}
