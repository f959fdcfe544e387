package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// GenerateNumericString returns a uniformly random string of exactly digits decimal
// digits, leading zeros included, drawn from crypto/rand.
func GenerateNumericString(digits int) (string, error) {
	if digits <= 0 || digits > 18 {
		return "", fmt.Errorf("digits must be between 1 and 18")
	}
	upper := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	n, err := rand.Int(rand.Reader, upper)
	if err != nil {
		return "", fmt.Errorf("failed to read random number: %w", err)
	}
	s := n.String()
	return strings.Repeat("0", digits-len(s)) + s, nil
}
