// Package app provides application lifecycle management, state, and events.
package app

import (
	"fmt"
	"image"
	"sync"

	"github.com/rs/zerolog"

	"nadebook/internal/gamemap"
	"nadebook/internal/logging"
	"nadebook/internal/sketch"
	"nadebook/internal/spot"
	"nadebook/internal/store"
)

// EventType identifies different application events.
type EventType int

const (
	EventMapChanged EventType = iota
	EventMapImageLoaded
	EventSpotsChanged
	EventSelectionChanged
	EventStrokesChanged
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// State holds the application state: the active map, its spots and stroke
// layer, the persistence backend, and event listeners. All mutating methods
// write through to the store before updating memory, so the in-memory view
// never runs ahead of what is persisted.
type State struct {
	mu sync.RWMutex

	catalog *gamemap.Catalog
	store   store.Store
	log     zerolog.Logger

	currentMap gamemap.Map
	mapImage   image.Image
	spots      []spot.Spot
	strokes    []sketch.Stroke
	selectedID string

	listeners map[EventType][]EventListener
}

// NewState creates application state over a catalog and an initialized store.
func NewState(catalog *gamemap.Catalog, st store.Store) *State {
	return &State{
		catalog:   catalog,
		store:     st,
		log:       logging.Component("app"),
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Catalog returns the map catalog.
func (s *State) Catalog() *gamemap.Catalog { return s.catalog }

// CurrentMap returns the active map.
func (s *State) CurrentMap() gamemap.Map {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentMap
}

// MapImage returns the decoded radar image of the active map, or nil while
// it is still loading.
func (s *State) MapImage() image.Image {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mapImage
}

// Spots returns a copy of the active map's spots.
func (s *State) Spots() []spot.Spot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]spot.Spot, len(s.spots))
	copy(out, s.spots)
	return out
}

// Strokes returns a copy of the active map's stroke layer in draw order.
func (s *State) Strokes() []sketch.Stroke {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]sketch.Stroke, len(s.strokes))
	copy(out, s.strokes)
	return out
}

// SelectedSpot returns the selected spot, if any.
func (s *State) SelectedSpot() (spot.Spot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selectedID == "" {
		return spot.Spot{}, false
	}
	sp, ok := s.findLocked(s.selectedID)
	return sp, ok
}

// SetCurrentMap switches the active map, loading its spots and strokes from
// the store. The radar image is decoded on a background goroutine and
// announced via EventMapImageLoaded when ready.
func (s *State) SetCurrentMap(key string) error {
	m, err := s.catalog.Get(key)
	if err != nil {
		return err
	}

	spots, err := s.store.ListSpots(key)
	if err != nil {
		return fmt.Errorf("load spots for %s: %w", key, err)
	}
	strokes, err := s.store.LoadStrokes(key)
	if err != nil {
		return fmt.Errorf("load strokes for %s: %w", key, err)
	}

	s.mu.Lock()
	s.currentMap = m
	s.mapImage = nil
	s.spots = spots
	s.strokes = strokes
	s.selectedID = ""
	s.mu.Unlock()

	s.log.Info().Str("map", key).Int("spots", len(spots)).Int("strokes", len(strokes)).Msg("map selected")
	s.Emit(EventMapChanged, m)
	s.Emit(EventSpotsChanged, nil)
	s.Emit(EventStrokesChanged, nil)
	s.Emit(EventSelectionChanged, nil)

	go func() {
		img, err := m.LoadImage()
		if err != nil {
			s.log.Error().Err(err).Str("map", key).Msg("radar image load failed")
			s.Emit(EventMapImageLoaded, err)
			return
		}
		s.mu.Lock()
		stale := s.currentMap.Key != key
		if !stale {
			s.mapImage = img
		}
		s.mu.Unlock()
		if !stale {
			s.Emit(EventMapImageLoaded, img)
		}
	}()
	return nil
}

// PlaceSpot creates and persists a new spot on the active map.
func (s *State) PlaceSpot(t spot.Type, x, y float64) (spot.Spot, error) {
	s.mu.RLock()
	m := s.currentMap
	s.mu.RUnlock()

	sp := spot.New(m.Key, t, x, y)
	if err := sp.Validate(m.NativeSize); err != nil {
		return spot.Spot{}, err
	}
	if err := s.store.AddSpot(sp); err != nil {
		return spot.Spot{}, fmt.Errorf("persist spot: %w", err)
	}

	s.mu.Lock()
	s.spots = append(s.spots, sp)
	s.selectedID = sp.ID
	s.mu.Unlock()

	s.Emit(EventSpotsChanged, nil)
	s.Emit(EventSelectionChanged, nil)
	return sp, nil
}

// MoveSpot persists a new position for an existing spot.
func (s *State) MoveSpot(id string, x, y float64) error {
	if err := s.store.MoveSpot(id, x, y); err != nil {
		return err
	}

	s.mu.Lock()
	for i := range s.spots {
		if s.spots[i].ID == id {
			s.spots[i].X, s.spots[i].Y = x, y
			break
		}
	}
	s.mu.Unlock()

	s.Emit(EventSpotsChanged, nil)
	return nil
}

// UpdateSpot persists edited fields of a spot.
func (s *State) UpdateSpot(sp spot.Spot) error {
	if err := sp.Validate(s.CurrentMap().NativeSize); err != nil {
		return err
	}
	if err := s.store.UpdateSpot(sp); err != nil {
		return err
	}

	s.mu.Lock()
	for i := range s.spots {
		if s.spots[i].ID == sp.ID {
			s.spots[i] = sp
			break
		}
	}
	s.mu.Unlock()

	s.Emit(EventSpotsChanged, nil)
	return nil
}

// DeleteSpot removes a spot. Deleting the selected spot clears the
// selection.
func (s *State) DeleteSpot(id string) error {
	if err := s.store.DeleteSpot(id); err != nil {
		return err
	}

	s.mu.Lock()
	for i := range s.spots {
		if s.spots[i].ID == id {
			s.spots = append(s.spots[:i], s.spots[i+1:]...)
			break
		}
	}
	deselected := s.selectedID == id
	if deselected {
		s.selectedID = ""
	}
	s.mu.Unlock()

	s.Emit(EventSpotsChanged, nil)
	if deselected {
		s.Emit(EventSelectionChanged, nil)
	}
	return nil
}

// SelectSpot marks a spot as selected; an empty id clears the selection.
func (s *State) SelectSpot(id string) {
	s.mu.Lock()
	changed := s.selectedID != id
	s.selectedID = id
	s.mu.Unlock()
	if changed {
		s.Emit(EventSelectionChanged, nil)
	}
}

// AddStroke appends a finalized stroke to the layer and persists it.
func (s *State) AddStroke(st sketch.Stroke) error {
	s.mu.Lock()
	next := sketch.Append(s.strokes, st)
	s.mu.Unlock()
	return s.setStrokes(next)
}

// UndoStroke removes the most recent stroke. It is a no-op on an empty
// layer.
func (s *State) UndoStroke() error {
	s.mu.RLock()
	n := len(s.strokes)
	next := sketch.Undo(s.strokes)
	s.mu.RUnlock()
	if n == 0 {
		return nil
	}
	return s.setStrokes(next)
}

// ClearStrokes removes every stroke on the active map.
func (s *State) ClearStrokes() error {
	return s.setStrokes(nil)
}

func (s *State) setStrokes(next []sketch.Stroke) error {
	s.mu.RLock()
	key := s.currentMap.Key
	s.mu.RUnlock()

	if err := s.store.SaveStrokes(key, next); err != nil {
		return fmt.Errorf("persist strokes: %w", err)
	}

	s.mu.Lock()
	s.strokes = next
	s.mu.Unlock()

	s.Emit(EventStrokesChanged, nil)
	return nil
}

func (s *State) findLocked(id string) (spot.Spot, bool) {
	for _, sp := range s.spots {
		if sp.ID == id {
			return sp, true
		}
	}
	return spot.Spot{}, false
}
