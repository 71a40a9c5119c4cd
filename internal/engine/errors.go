package engine

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound covers true absence and ownership misses alike, so a caller
// cannot tell the difference.
var ErrNotFound = errors.New("not found")

// ErrDuplicateKey is returned when a unique column collides (username, email,
// one-like-per-post). Its message is the response body.
var ErrDuplicateKey = errors.New("Duplicate Key")

// translate maps persistence-layer failures onto the engine's error taxonomy.
// Anything unclassified passes through and surfaces as a generic bad request.
func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	default:
		return err
	}
}
