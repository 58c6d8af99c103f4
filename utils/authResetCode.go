package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const (
	ResetCodeExpiry = 15 * time.Minute

	// MaxResetAttempts bounds code redemptions per email within ResetCodeExpiry.
	MaxResetAttempts = 5
)

// GenerateResetCode returns a random 6-digit reset code.
func GenerateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate reset code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
