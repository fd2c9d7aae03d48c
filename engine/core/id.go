package core

import (
	"strings"

	"github.com/google/uuid"
)

// ID identifies a record. Executions use random (v4) UUIDs.
type ID string

func NewID() ID {
	return ID(uuid.NewString())
}

func (id ID) String() string {
	return string(id)
}

func (id ID) IsZero() bool {
	return strings.TrimSpace(string(id)) == ""
}

// ParseID trims and validates a caller-provided identifier.
func ParseID(field, raw string) (ID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ValidationError("%s is required", field)
	}
	if _, err := uuid.Parse(trimmed); err != nil {
		return "", ValidationError("%s must be a UUID", field)
	}
	return ID(trimmed), nil
}
