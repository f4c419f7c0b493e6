package helpers

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
)

// codeAlphabet deliberately omits characters that read ambiguously when
// shared by hand (0/O, 1/I/L).
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// DefaultCodeAttempts bounds the generate-and-check loop in GenerateUniqueCode.
const DefaultCodeAttempts = 5

// RandomCode returns a human-shareable code of the given length.
func RandomCode(length int) (string, error) {
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", fmt.Errorf("secure random generation failed: %w", err)
		}
		result[i] = codeAlphabet[n.Int64()]
	}
	return string(result), nil
}

// GenerateUniqueCode generates a candidate code, checks it against exists,
// and retries up to maxAttempts times before failing loudly. exists must
// report whether the candidate is already taken.
func GenerateUniqueCode(ctx context.Context, length, maxAttempts int, exists func(context.Context, string) (bool, error)) (string, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultCodeAttempts
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		code, err := RandomCode(length)
		if err != nil {
			return "", err
		}

		taken, err := exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("uniqueness check failed: %w", err)
		}
		if !taken {
			return code, nil
		}
	}

	return "", fmt.Errorf("exhausted %d attempts generating a unique code", maxAttempts)
}
