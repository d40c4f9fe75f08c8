// Package config loads application settings from a JSON file with viper,
// falling back to defaults when no file exists.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"nadebook/internal/gamemap"
)

// ConfigName is the config file name viper looks for.
const ConfigName = "nadebook.cfg.json"

// ViewportConfig holds zoom behaviour settings.
type ViewportConfig struct {
	MinZoom  float64 `json:"minZoom" mapstructure:"minZoom"`
	MaxZoom  float64 `json:"maxZoom" mapstructure:"maxZoom"`
	ZoomStep float64 `json:"zoomStep" mapstructure:"zoomStep"`
}

// SketchConfig holds freehand capture tuning.
type SketchConfig struct {
	MinPointDistance float64 `json:"minPointDistance" mapstructure:"minPointDistance"`
	SmoothingWindow  int     `json:"smoothingWindow" mapstructure:"smoothingWindow"`
}

// StoreConfig selects and parameterizes the persistence backend.
type StoreConfig struct {
	Type string `json:"type" mapstructure:"type"`
	Path string `json:"path" mapstructure:"path"`
}

// Load reads configuration from configDir and sets default values. A
// missing config file is not an error; the defaults stand.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("mapsDir", "./maps")
	viper.SetDefault("mediaDir", "./media")

	viper.SetDefault("store.type", "sqlite")
	viper.SetDefault("store.path", "./nadebook.db")

	viper.SetDefault("viewport.minZoom", 0.5)
	viper.SetDefault("viewport.maxZoom", 8.0)
	viper.SetDefault("viewport.zoomStep", 1.08)

	viper.SetDefault("grid.size", 20.0)

	viper.SetDefault("sketch.minPointDistance", 2.0)
	viper.SetDefault("sketch.smoothingWindow", 4)

	viper.SetConfigName(ConfigName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetFloat64 returns a float config value.
func GetFloat64(key string) float64 {
	return viper.GetFloat64(key)
}

// GetViewportConfig returns the zoom settings.
func GetViewportConfig() ViewportConfig {
	return ViewportConfig{
		MinZoom:  viper.GetFloat64("viewport.minZoom"),
		MaxZoom:  viper.GetFloat64("viewport.maxZoom"),
		ZoomStep: viper.GetFloat64("viewport.zoomStep"),
	}
}

// GetSketchConfig returns the freehand capture settings.
func GetSketchConfig() SketchConfig {
	return SketchConfig{
		MinPointDistance: viper.GetFloat64("sketch.minPointDistance"),
		SmoothingWindow:  viper.GetInt("sketch.smoothingWindow"),
	}
}

// GetStoreConfig returns the persistence settings.
func GetStoreConfig() StoreConfig {
	return StoreConfig{
		Type: viper.GetString("store.type"),
		Path: viper.GetString("store.path"),
	}
}

// GetMaps returns the configured map list.
func GetMaps() ([]gamemap.Map, error) {
	var maps []gamemap.Map
	if err := viper.UnmarshalKey("maps", &maps); err != nil {
		return nil, fmt.Errorf("error parsing maps list: %w", err)
	}
	return maps, nil
}
