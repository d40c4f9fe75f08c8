package store

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/peterstace/simplefeatures/geom"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"nadebook/internal/logging"
	"nadebook/internal/sketch"
	"nadebook/internal/spot"
)

// spotRecord is the persisted form of a spot.
type spotRecord struct {
	ID        string `gorm:"primaryKey"`
	MapKey    string `gorm:"index"`
	Type      string
	Title     string
	VideoPath string
	X         float64
	Y         float64
}

func (spotRecord) TableName() string { return "spots" }

// strokeRecord is the persisted form of a stroke. The point path is stored
// as a WKB linestring; Seq preserves draw order within a map.
type strokeRecord struct {
	ID     string `gorm:"primaryKey"`
	MapKey string `gorm:"index"`
	Seq    int
	Tool   string
	Width  float64
	Path   []byte
}

func (strokeRecord) TableName() string { return "strokes" }

// GormStore is the SQLite-backed store.
type GormStore struct {
	db  *gorm.DB
	log zerolog.Logger
}

// NewGorm opens (or creates) the SQLite database at path.
func NewGorm(path string) (*GormStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	return &GormStore{db: db, log: logging.Component("store")}, nil
}

// Init migrates the schema.
func (g *GormStore) Init() error {
	if err := g.db.AutoMigrate(&spotRecord{}, &strokeRecord{}); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// Close releases the underlying connection.
func (g *GormStore) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ListSpots returns all spots on a map.
func (g *GormStore) ListSpots(mapKey string) ([]spot.Spot, error) {
	var recs []spotRecord
	if err := g.db.Where("map_key = ?", mapKey).Order("id").Find(&recs).Error; err != nil {
		return nil, err
	}
	spots := make([]spot.Spot, len(recs))
	for i, r := range recs {
		spots[i] = spot.Spot{
			ID:        r.ID,
			Map:       r.MapKey,
			Type:      spot.Type(r.Type),
			Title:     r.Title,
			VideoPath: r.VideoPath,
			X:         r.X,
			Y:         r.Y,
		}
	}
	return spots, nil
}

// AddSpot inserts a new spot.
func (g *GormStore) AddSpot(s spot.Spot) error {
	return g.db.Create(&spotRecord{
		ID:        s.ID,
		MapKey:    s.Map,
		Type:      string(s.Type),
		Title:     s.Title,
		VideoPath: s.VideoPath,
		X:         s.X,
		Y:         s.Y,
	}).Error
}

// UpdateSpot rewrites all mutable fields of a spot.
func (g *GormStore) UpdateSpot(s spot.Spot) error {
	res := g.db.Model(&spotRecord{}).Where("id = ?", s.ID).Updates(map[string]any{
		"type":       string(s.Type),
		"title":      s.Title,
		"video_path": s.VideoPath,
		"x":          s.X,
		"y":          s.Y,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update spot %s: %w", s.ID, ErrNotFound)
	}
	return nil
}

// MoveSpot updates only a spot's position.
func (g *GormStore) MoveSpot(id string, x, y float64) error {
	res := g.db.Model(&spotRecord{}).Where("id = ?", id).Updates(map[string]any{"x": x, "y": y})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("move spot %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteSpot removes a spot.
func (g *GormStore) DeleteSpot(id string) error {
	res := g.db.Delete(&spotRecord{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete spot %s: %w", id, ErrNotFound)
	}
	return nil
}

// LoadStrokes returns a map's strokes in draw order, decoding each WKB path.
func (g *GormStore) LoadStrokes(mapKey string) ([]sketch.Stroke, error) {
	var recs []strokeRecord
	if err := g.db.Where("map_key = ?", mapKey).Order("seq").Find(&recs).Error; err != nil {
		return nil, err
	}
	strokes := make([]sketch.Stroke, 0, len(recs))
	for _, r := range recs {
		geo, err := geom.UnmarshalWKB(r.Path)
		if err != nil {
			// A corrupt path loses one stroke, not the whole layer.
			g.log.Warn().Err(err).Str("stroke", r.ID).Msg("skipping undecodable stroke path")
			continue
		}
		ls, ok := geo.AsLineString()
		if !ok {
			g.log.Warn().Str("stroke", r.ID).Msg("stroke path is not a linestring")
			continue
		}
		strokes = append(strokes, sketch.Stroke{
			ID:     r.ID,
			Tool:   r.Tool,
			Width:  r.Width,
			Points: sketch.PathFromLineString(ls),
		})
	}
	return strokes, nil
}

// SaveStrokes replaces a map's stroke set inside one transaction.
func (g *GormStore) SaveStrokes(mapKey string, strokes []sketch.Stroke) error {
	return g.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&strokeRecord{}, "map_key = ?", mapKey).Error; err != nil {
			return err
		}
		for i, s := range strokes {
			ls, err := s.LineString()
			if err != nil {
				return fmt.Errorf("encode stroke %s: %w", s.ID, err)
			}
			rec := strokeRecord{
				ID:     s.ID,
				MapKey: mapKey,
				Seq:    i,
				Tool:   s.Tool,
				Width:  s.Width,
				Path:   ls.AsBinary(),
			}
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
