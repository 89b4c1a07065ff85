package helpers

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

func HashToken(token string) string {
	hasher := sha256.New()
	hasher.Write([]byte(token))
	return hex.EncodeToString(hasher.Sum(nil))
}

// NormalizeEmail is the canonical stored form; uniqueness is checked against it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
