package store

import "github.com/google/uuid"

// IDGenerator produces run IDs.
type IDGenerator interface {
	Generate() string
}

// UUIDGenerator generates random (version 4) UUIDs.
type UUIDGenerator struct{}

// Generate implements IDGenerator.
func (UUIDGenerator) Generate() string {
	return uuid.NewString()
}
