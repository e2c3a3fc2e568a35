package common

import (
	"github.com/google/uuid"
)

// GenerateUUID returns a fresh UUID string, used for ids of created rows.
func GenerateUUID() string {
	return uuid.New().String()
}
