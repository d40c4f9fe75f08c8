package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"logLevel": "debug",
		"store": { "type": "memory" },
		"viewport": { "maxZoom": 12.0 }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigName), []byte(cfg), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", GetString("logLevel"))
	assert.Equal(t, "memory", GetStoreConfig().Type)
	assert.Equal(t, 12.0, GetViewportConfig().MaxZoom)
	assert.Equal(t, 0.5, GetViewportConfig().MinZoom, "unset keys keep defaults")
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigName), []byte(`{}`), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "info", GetString("logLevel"))
	assert.Equal(t, "./maps", GetString("mapsDir"))
	assert.Equal(t, "./media", GetString("mediaDir"))
	assert.Equal(t, "sqlite", GetStoreConfig().Type)
	assert.Equal(t, "./nadebook.db", GetStoreConfig().Path)
	assert.Equal(t, 0.5, GetViewportConfig().MinZoom)
	assert.Equal(t, 8.0, GetViewportConfig().MaxZoom)
	assert.Equal(t, 1.08, GetViewportConfig().ZoomStep)
	assert.Equal(t, 20.0, GetFloat64("grid.size"))
	assert.Equal(t, 2.0, GetSketchConfig().MinPointDistance)
	assert.Equal(t, 4, GetSketchConfig().SmoothingWindow)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "info", GetString("logLevel"))
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigName), []byte(`{not json`), 0644))

	err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestGetMaps(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"maps": [
			{ "key": "de_mirage", "name": "Mirage", "imagePath": "maps/mirage.png" },
			{ "key": "de_dust2", "name": "Dust II", "imagePath": "maps/dust2.png", "nativeSize": 2048 }
		]
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigName), []byte(cfg), 0644))
	require.NoError(t, Load(dir))

	maps, err := GetMaps()
	require.NoError(t, err)
	require.Len(t, maps, 2)
	assert.Equal(t, "de_mirage", maps[0].Key)
	assert.Equal(t, "maps/mirage.png", maps[0].ImagePath)
	assert.Equal(t, 2048.0, maps[1].NativeSize)
}
