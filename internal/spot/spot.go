// Package spot defines the nade spot marker model.
package spot

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Type identifies the grenade a spot describes. The set is closed.
type Type string

const (
	TypeSmoke   Type = "smoke"
	TypeFlash   Type = "flash"
	TypeMolotov Type = "molotov"
	TypeHE      Type = "he"
)

// Types lists all valid spot types in display order.
var Types = []Type{TypeSmoke, TypeFlash, TypeMolotov, TypeHE}

// Valid reports whether t is a member of the closed type set.
func (t Type) Valid() bool {
	switch t {
	case TypeSmoke, TypeFlash, TypeMolotov, TypeHE:
		return true
	}
	return false
}

// Validation errors.
var (
	ErrInvalidType = errors.New("invalid spot type")
	ErrOutOfBounds = errors.New("position outside native map bounds")
	ErrNoMap       = errors.New("spot has no owning map")
)

// Spot is a marker on a game map: a lineup position in native coordinates
// with a type, a title, and an optional reference into the media library.
type Spot struct {
	ID        string  `json:"id"`
	Map       string  `json:"map"`
	Type      Type    `json:"type"`
	Title     string  `json:"title"`
	VideoPath string  `json:"videoPath"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

// New creates a spot with a fresh identity at the given native position.
func New(mapKey string, t Type, x, y float64) Spot {
	return Spot{
		ID:   uuid.NewString(),
		Map:  mapKey,
		Type: t,
		X:    x,
		Y:    y,
	}
}

// Validate checks the spot against the native space of its map.
func (s Spot) Validate(nativeSize float64) error {
	if s.Map == "" {
		return ErrNoMap
	}
	if !s.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, s.Type)
	}
	if s.X < 0 || s.X > nativeSize || s.Y < 0 || s.Y > nativeSize {
		return fmt.Errorf("%w: (%.1f, %.1f)", ErrOutOfBounds, s.X, s.Y)
	}
	return nil
}
