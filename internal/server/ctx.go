// Package server handles HTTP requests and middleware.
package server

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/url"
	"os"
	"path/filepath"

	"github.com/woozymasta/geolayers/internal/config"
	"github.com/woozymasta/geolayers/internal/export"
	"github.com/woozymasta/geolayers/internal/overlay"

	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	mjson "github.com/tdewolff/minify/v2/json"
)

// Layer is one served overlay layer: its engine collections plus the
// precomputed, minified GeoJSON export.
type Layer struct {
	Name    string
	Aliases []string
	Engine  *overlay.Engine
	GeoJSON []byte
	ETag    string
}

// Context holds dependencies for request handlers.
type Context struct {
	Layers   map[string]*Layer
	Resolver map[string]string // name or alias -> canonical name
	Order    []string          // canonical names in configuration order
}

// NewContext ingests every configured layer and precomputes its served
// payloads. Layers whose source is missing or fails to parse are skipped
// with a warning instead of failing the whole server.
func NewContext(cfg *config.Config, dataDir string) *Context {
	log.Info().Int("config_layers_count", len(cfg.Layers)).Msg("Initializing server context")

	ctx := &Context{
		Layers:   make(map[string]*Layer),
		Resolver: make(map[string]string),
	}

	m := minify.New()
	m.AddFunc("application/json", mjson.Minify)

	for _, lc := range cfg.Layers {
		engine := cfg.NewEngine()

		if err := ingestLayer(engine, lc, dataDir); err != nil {
			log.Warn().Err(err).Str("layer", lc.Name).Msg("Skipping layer")
			continue
		}

		raw, err := json.Marshal(export.FeatureCollection(engine))
		if err != nil {
			log.Warn().Err(err).Str("layer", lc.Name).Msg("Skipping layer: export failed")
			continue
		}
		payload, err := m.Bytes("application/json", raw)
		if err != nil {
			// serve unminified rather than drop the layer
			payload = raw
		}

		layer := &Layer{
			Name:    lc.Name,
			Aliases: lc.Aliases,
			Engine:  engine,
			GeoJSON: payload,
			ETag:    etag(payload),
		}

		ctx.Layers[lc.Name] = layer
		ctx.Resolver[lc.Name] = lc.Name
		for _, alias := range lc.Aliases {
			ctx.Resolver[alias] = lc.Name
		}
		ctx.Order = append(ctx.Order, lc.Name)

		log.Debug().
			Str("layer", lc.Name).
			Int("markers", len(engine.Markers)).
			Int("circles", len(engine.Circles)).
			Int("polylines", len(engine.Polylines)).
			Int("polygons", len(engine.Polygons)).
			Msg("Layer validated and added to context")
	}

	log.Info().Int("valid_layers_count", len(ctx.Layers)).Msg("Server context initialized successfully")

	return ctx
}

// ingestLayer feeds a layer's GeoJSON into the engine. Source resolution
// order: loader output in dataDir, inline config data, local source file.
func ingestLayer(engine *overlay.Engine, lc config.Layer, dataDir string) error {
	cached := filepath.Join(dataDir, lc.Name+".geojson")
	if data, err := os.ReadFile(cached); err == nil {
		return engine.ParseBytes(data)
	}

	if lc.Inline != nil {
		return engine.Parse(lc.Inline)
	}

	if lc.Source != "" {
		if u, err := url.Parse(lc.Source); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
			return fmt.Errorf("remote source %q not cached in %q, run the loader first", lc.Source, dataDir)
		}
		data, err := os.ReadFile(lc.Source)
		if err != nil {
			return err
		}
		return engine.ParseBytes(data)
	}

	return fmt.Errorf("layer has no usable source")
}

func etag(b []byte) string {
	h := fnv.New32a()
	_, _ = h.Write(b)

	return fmt.Sprintf("\"%x-%x\"", len(b), h.Sum32())
}
