package pkguid

import "github.com/google/uuid"

// UUID generates RFC 9562 version 7 UUID strings, used for correlation IDs.
type UUID struct{}

// NewUUID returns a UUID generator.
func NewUUID() *UUID {
	return &UUID{}
}

// Generate returns a new UUID string.
func (u *UUID) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
