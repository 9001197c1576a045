package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/woozymasta/geolayers/internal/config"

	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) *Context {
	t.Helper()

	cfg := &config.Config{
		Layers: []config.Layer{{
			Name:    "zones",
			Aliases: []string{"areas"},
			Inline: map[string]interface{}{
				"type": "FeatureCollection",
				"features": []interface{}{
					map[string]interface{}{
						"type": "Feature",
						"geometry": map[string]interface{}{
							"type":        "Point",
							"coordinates": []interface{}{14.481, 45.982},
						},
						"properties": map[string]interface{}{"name": "tower"},
					},
					map[string]interface{}{
						"type": "Feature",
						"geometry": map[string]interface{}{
							"type":        "Point",
							"coordinates": []interface{}{14.5, 46.0},
						},
						"properties": map[string]interface{}{"subType": "Circle", "radius": 400.0},
					},
				},
			},
		}},
	}

	ctx := NewContext(cfg, t.TempDir())
	require.Len(t, ctx.Layers, 1)

	return ctx
}

func TestHandleLayersList(t *testing.T) {
	ctx := testContext(t)

	rec := httptest.NewRecorder()
	ctx.HandleLayersList(rec, httptest.NewRequest(http.MethodGet, "/api/layers", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var infos []struct {
		Name    string `json:"name"`
		Markers int    `json:"markers"`
		Circles int    `json:"circles"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &infos))
	require.Len(t, infos, 1)
	require.Equal(t, "zones", infos[0].Name)
	require.Equal(t, 1, infos[0].Markers)
	require.Equal(t, 1, infos[0].Circles)
}

func TestHandleLayerGeoJSON(t *testing.T) {
	ctx := testContext(t)

	rec := httptest.NewRecorder()
	ctx.HandleLayer(rec, httptest.NewRequest(http.MethodGet, "/layers/zones.geojson", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/geo+json", rec.Header().Get("Content-Type"))

	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	var fc struct {
		Type     string            `json:"type"`
		Features []json.RawMessage `json:"features"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fc))
	require.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 2)

	// conditional request hits the ETag
	req := httptest.NewRequest(http.MethodGet, "/layers/zones.geojson", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	ctx.HandleLayer(rec, req)
	require.Equal(t, http.StatusNotModified, rec.Code)
}

func TestHandleLayerOverlays(t *testing.T) {
	ctx := testContext(t)

	// aliases resolve to the canonical layer
	rec := httptest.NewRecorder()
	ctx.HandleLayer(rec, httptest.NewRequest(http.MethodGet, "/layers/areas/overlays", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Markers []struct {
			Anchor struct {
				Lat float64 `json:"lat"`
				Lon float64 `json:"lon"`
			} `json:"anchor"`
			Label string `json:"label"`
		} `json:"markers"`
		Circles []struct {
			Radius float64 `json:"radius"`
		} `json:"circles"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Markers, 1)
	require.Equal(t, 45.982, payload.Markers[0].Anchor.Lat)
	require.Equal(t, "tower", payload.Markers[0].Label)
	require.Len(t, payload.Circles, 1)
	require.Equal(t, 400.0, payload.Circles[0].Radius)
}

func TestHandleLayerNotFound(t *testing.T) {
	ctx := testContext(t)

	for _, path := range []string{
		"/layers/nope.geojson",
		"/layers/nope/overlays",
		"/layers/zones",
		"/layers/zones/bogus",
	} {
		rec := httptest.NewRecorder()
		ctx.HandleLayer(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestContextPreservesConfigOrder(t *testing.T) {
	inline := func() map[string]interface{} {
		return map[string]interface{}{
			"type":     "FeatureCollection",
			"features": []interface{}{},
		}
	}

	cfg := &config.Config{
		Layers: []config.Layer{
			{Name: "zulu", Inline: inline()},
			{Name: "alpha", Inline: inline()},
			{Name: "mike", Inline: inline()},
		},
	}

	ctx := NewContext(cfg, t.TempDir())
	require.Equal(t, []string{"zulu", "alpha", "mike"}, ctx.Order)
}

func TestContextSkipsBrokenLayer(t *testing.T) {
	cfg := &config.Config{
		Layers: []config.Layer{
			{Name: "broken", Source: "does-not-exist.geojson"},
			{
				Name: "ok",
				Inline: map[string]interface{}{
					"type":     "FeatureCollection",
					"features": []interface{}{},
				},
			},
		},
	}

	ctx := NewContext(cfg, t.TempDir())
	require.Len(t, ctx.Layers, 1)
	require.Contains(t, ctx.Layers, "ok")
}
