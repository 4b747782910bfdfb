// Package otp generates one-time verification codes.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Generator produces one-time verification codes.
type Generator interface {
	Generate() (string, error)
}

// Numeric generates fixed-length numeric codes from crypto/rand.
type Numeric struct {
	length int
	max    *big.Int
}

// NewNumeric returns a Numeric generator producing codes of the given length.
// Length must be between 1 and 18.
func NewNumeric(length int) (*Numeric, error) {
	if length < 1 || length > 18 {
		return nil, fmt.Errorf("otp: invalid code length %d", length)
	}

	max := big.NewInt(10)
	max.Exp(max, big.NewInt(int64(length)), nil)

	return &Numeric{length: length, max: max}, nil
}

// Generate returns a new zero-padded numeric code.
func (n *Numeric) Generate() (string, error) {
	v, err := rand.Int(rand.Reader, n.max)
	if err != nil {
		return "", fmt.Errorf("otp: generate code: %w", err)
	}

	return fmt.Sprintf("%0*d", n.length, v), nil
}
