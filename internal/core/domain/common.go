package domain

import (
	"encoding/json"
	"regexp"
	"time"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidSlug reports whether s is a lowercase, hyphen-separated slug of at most 63 characters.
func ValidSlug(s string) bool {
	return len(s) <= 63 && slugPattern.MatchString(s)
}

// JSONMap is a free-form jsonb document (feature flags, settings, dimensions).
type JSONMap map[string]any

// Bytes returns the JSON encoding, substituting an empty object for nil maps.
func (m JSONMap) Bytes() ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Timestamps holds the standard creation/update audit columns.
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
