// Package uuid generates the time-ordered identifiers used as primary keys.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New returns a UUIDv7 string. UUIDv7 sorts by creation time, which keeps
// b-tree inserts append-only and lets "oldest first" queries order by id.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		// Entropy source failed; a random UUID is still unique.
		return googleuuid.New().String()
	}
	return id.String()
}

// Parse validates and normalises a UUID string
func Parse(s string) (string, error) {
	parsed, err := googleuuid.Parse(s)
	if err != nil {
		return "", err
	}
	return parsed.String(), nil
}

// IsValid checks if a string is a valid UUID
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
