package helpers

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const allowedChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateRandomString returns an uppercase alphanumeric string drawn from crypto/rand.
func GenerateRandomString(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid token length %d", length)
	}

	limit := big.NewInt(int64(len(allowedChars)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		b[i] = allowedChars[n.Int64()]
	}
	return string(b), nil
}

// CryptoTokenSource is the production token source for identifier allocation.
type CryptoTokenSource struct{}

func (CryptoTokenSource) Token(length int) (string, error) {
	return GenerateRandomString(length)
}
