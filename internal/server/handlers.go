package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/woozymasta/geolayers/internal/overlay"
)

type layerInfo struct {
	Name      string   `json:"name"`
	Aliases   []string `json:"aliases,omitempty"`
	Markers   int      `json:"markers"`
	Circles   int      `json:"circles"`
	Polylines int      `json:"polylines"`
	Polygons  int      `json:"polygons"`
}

type layerOverlays struct {
	Markers   []overlay.Marker   `json:"markers"`
	Circles   []overlay.Circle   `json:"circles"`
	Polylines []overlay.Polyline `json:"polylines"`
	Polygons  []overlay.Polygon  `json:"polygons"`
}

// HandleLayersList serves the JSON summary of available layers.
func (s *Context) HandleLayersList(w http.ResponseWriter, r *http.Request) {
	infos := make([]layerInfo, 0, len(s.Order))
	for _, name := range s.Order {
		l := s.Layers[name]
		infos = append(infos, layerInfo{
			Name:      l.Name,
			Aliases:   l.Aliases,
			Markers:   len(l.Engine.Markers),
			Circles:   len(l.Engine.Circles),
			Polylines: len(l.Engine.Polylines),
			Polygons:  len(l.Engine.Polygons),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(infos)
}

// HandleLayer serves per-layer payloads:
//
//	/layers/{name}.geojson  - exported GeoJSON feature collection
//	/layers/{name}/overlays - the four overlay collections
func (s *Context) HandleLayer(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 2 || parts[0] != "layers" {
		http.NotFound(w, r)
		return
	}

	// GeoJSON export
	if len(parts) == 2 {
		name, ok := strings.CutSuffix(parts[1], ".geojson")
		if !ok {
			http.NotFound(w, r)
			return
		}
		layer := s.lookup(name)
		if layer == nil {
			http.NotFound(w, r)
			return
		}
		s.servePayload(w, r, layer.GeoJSON, layer.ETag, "application/geo+json")
		return
	}

	// Overlay collections
	if len(parts) == 3 && parts[2] == "overlays" {
		layer := s.lookup(parts[1])
		if layer == nil {
			http.NotFound(w, r)
			return
		}

		e := layer.Engine
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(layerOverlays{
			Markers:   e.Markers,
			Circles:   e.Circles,
			Polylines: e.Polylines,
			Polygons:  e.Polygons,
		})
		return
	}

	http.NotFound(w, r)
}

func (s *Context) lookup(name string) *Layer {
	canonical, ok := s.Resolver[name]
	if !ok {
		return nil
	}

	return s.Layers[canonical]
}

// servePayload writes a static payload with ETag handling.
func (s *Context) servePayload(w http.ResponseWriter, r *http.Request, body []byte, etag, contentType string) {
	// check If-None-Match (client sent ETag)
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(body)
}
