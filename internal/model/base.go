package model

import "github.com/google/uuid"

// GenerateID returns a fresh random identifier for a survey entity.
func GenerateID() uuid.UUID {
	return uuid.New()
}
