// Package uid provides small string-identifier generators.
package uid

import "github.com/google/uuid"

// Generator produces unique string identifiers.
type Generator interface {
	Generate() string
}

// UUID generates RFC 4122 UUID strings, preferring the time-ordered v7 form.
type UUID struct{}

// NewUUID returns a UUID generator.
func NewUUID() *UUID {
	return &UUID{}
}

// Generate returns a new UUID string.
func (u *UUID) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString() // fallback: uuidV4
	}
	return id.String()
}
