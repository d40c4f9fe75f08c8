// Package gamemap describes the maps spots and strokes are anchored to.
// Every map presents a square native coordinate space regardless of the
// pixel dimensions of its radar image.
package gamemap

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"

	// Radar images ship in whatever format the community exported them in.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultNativeSize is the side length of the native coordinate space.
const DefaultNativeSize = 1200

// ErrUnknownMap is returned when a catalog lookup misses.
var ErrUnknownMap = errors.New("unknown map")

// Map is one playable map: a stable key, a display name, and the radar
// image backing the viewport.
type Map struct {
	Key        string  `json:"key" mapstructure:"key"`
	Name       string  `json:"name" mapstructure:"name"`
	ImagePath  string  `json:"imagePath" mapstructure:"imagePath"`
	NativeSize float64 `json:"nativeSize" mapstructure:"nativeSize"`
}

// LoadImage decodes the radar image from disk.
func (m Map) LoadImage() (image.Image, error) {
	f, err := os.Open(m.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("open radar image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(m.ImagePath), err)
	}
	return img, nil
}

// Catalog is the set of known maps, keyed by Map.Key.
type Catalog struct {
	maps map[string]Map
}

// NewCatalog builds a catalog from a map list, filling in the default
// native size where a map leaves it zero.
func NewCatalog(maps []Map) *Catalog {
	c := &Catalog{maps: make(map[string]Map, len(maps))}
	for _, m := range maps {
		if m.NativeSize <= 0 {
			m.NativeSize = DefaultNativeSize
		}
		c.maps[m.Key] = m
	}
	return c
}

// Get looks up a map by key.
func (c *Catalog) Get(key string) (Map, error) {
	m, ok := c.maps[key]
	if !ok {
		return Map{}, fmt.Errorf("%w: %q", ErrUnknownMap, key)
	}
	return m, nil
}

// Len returns the number of maps in the catalog.
func (c *Catalog) Len() int { return len(c.maps) }

// All returns every map sorted by display name.
func (c *Catalog) All() []Map {
	out := make([]Map, 0, len(c.maps))
	for _, m := range c.maps {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
