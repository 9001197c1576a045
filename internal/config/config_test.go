package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
style:
  marker_color: "#ff0000"
  polyline_width: 3
layers:
  - name: harbor
    source: testdata/harbor.geojson
    aliases: [port, docks]
  - name: zones
    inline_geojson:
      type: FeatureCollection
      features:
        - type: Feature
          geometry:
            type: Point
            coordinates: [14.481, 45.982]
          properties:
            radius: 400
            subType: Circle
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "#ff0000", cfg.Style.MarkerColor)
	require.Equal(t, 3.0, cfg.Style.PolylineWidth)
	require.Len(t, cfg.Layers, 2)
	require.Equal(t, []string{"port", "docks"}, cfg.Layers[0].Aliases)
	require.NotNil(t, cfg.Layers[1].Inline)
}

func TestLoadInlineFeedsEngine(t *testing.T) {
	path := writeConfig(t, `
layers:
  - name: zones
    inline_geojson:
      type: FeatureCollection
      features:
        - type: Feature
          geometry:
            type: Point
            coordinates: [14.481, 45.982]
          properties:
            radius: 400
            subType: Circle
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	engine := cfg.NewEngine()
	require.NoError(t, engine.Parse(cfg.Layers[0].Inline))
	require.Len(t, engine.Circles, 1)
	require.Equal(t, 400.0, engine.Circles[0].Radius)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing name", "layers:\n  - source: x.geojson\n"},
		{"missing source", "layers:\n  - name: empty\n"},
		{"bad yaml", "layers: ["},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestNewEngineCarriesStyle(t *testing.T) {
	path := writeConfig(t, `
style:
  marker_color: "#123456"
layers:
  - name: a
    source: a.geojson
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	engine := cfg.NewEngine()
	require.Equal(t, "#123456", engine.Style.MarkerColor)
}
