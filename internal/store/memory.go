package store

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/goccy/go-json"

	"nadebook/internal/sketch"
	"nadebook/internal/spot"
)

// MemoryStore keeps everything in process memory. It backs tests and the
// spotexport tool, and serves as the fallback when no database is wanted.
type MemoryStore struct {
	mu      sync.RWMutex
	spots   map[string]spot.Spot
	strokes map[string][]sketch.Stroke
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		spots:   make(map[string]spot.Spot),
		strokes: make(map[string][]sketch.Stroke),
	}
}

func (m *MemoryStore) Init() error  { return nil }
func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) ListSpots(mapKey string) ([]spot.Spot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []spot.Spot
	for _, s := range m.spots {
		if s.Map == mapKey {
			out = append(out, s)
		}
	}
	// Same ordering as the sqlite backend.
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) AddSpot(s spot.Spot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spots[s.ID] = s
	return nil
}

func (m *MemoryStore) UpdateSpot(s spot.Spot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.spots[s.ID]; !ok {
		return fmt.Errorf("update spot %s: %w", s.ID, ErrNotFound)
	}
	m.spots[s.ID] = s
	return nil
}

func (m *MemoryStore) MoveSpot(id string, x, y float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.spots[id]
	if !ok {
		return fmt.Errorf("move spot %s: %w", id, ErrNotFound)
	}
	s.X, s.Y = x, y
	m.spots[id] = s
	return nil
}

func (m *MemoryStore) DeleteSpot(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.spots[id]; !ok {
		return fmt.Errorf("delete spot %s: %w", id, ErrNotFound)
	}
	delete(m.spots, id)
	return nil
}

func (m *MemoryStore) LoadStrokes(mapKey string) ([]sketch.Stroke, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored := m.strokes[mapKey]
	out := make([]sketch.Stroke, len(stored))
	copy(out, stored)
	return out, nil
}

func (m *MemoryStore) SaveStrokes(mapKey string, strokes []sketch.Stroke) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]sketch.Stroke, len(strokes))
	copy(stored, strokes)
	m.strokes[mapKey] = stored
	return nil
}

// Snapshot is the JSON export shape for one map.
type Snapshot struct {
	Map     string          `json:"map"`
	Spots   []spot.Spot     `json:"spots"`
	Strokes []sketch.Stroke `json:"strokes"`
}

// ExportSnapshot reads one map out of any store and writes it as JSON.
func ExportSnapshot(s Store, mapKey, path string) error {
	spots, err := s.ListSpots(mapKey)
	if err != nil {
		return fmt.Errorf("list spots: %w", err)
	}
	strokes, err := s.LoadStrokes(mapKey)
	if err != nil {
		return fmt.Errorf("load strokes: %w", err)
	}

	data, err := json.MarshalIndent(Snapshot{Map: mapKey, Spots: spots, Strokes: strokes}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
