// Package store defines the persistence interface for spots and sketches
// and a factory over the available backends.
package store

import (
	"errors"
	"fmt"

	"nadebook/internal/sketch"
	"nadebook/internal/spot"
)

// ErrNotFound is returned when an update or delete misses its record.
var ErrNotFound = errors.New("record not found")

// Store persists spots and strokes per map. Implementations must be safe
// for use from the UI goroutine plus background loaders.
type Store interface {
	// Init prepares the backend (schema migration, directory creation).
	Init() error
	Close() error

	ListSpots(mapKey string) ([]spot.Spot, error)
	AddSpot(s spot.Spot) error
	UpdateSpot(s spot.Spot) error
	MoveSpot(id string, x, y float64) error
	DeleteSpot(id string) error

	// LoadStrokes returns a map's strokes in draw order.
	LoadStrokes(mapKey string) ([]sketch.Stroke, error)
	// SaveStrokes replaces a map's stroke set wholesale. Undo and clear are
	// whole-layer operations, so the stored set always mirrors the layer.
	SaveStrokes(mapKey string, strokes []sketch.Stroke) error
}

// Open constructs a backend by configured type.
func Open(kind, path string) (Store, error) {
	switch kind {
	case "sqlite":
		return NewGorm(path)
	case "memory":
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown store type %q", kind)
}
