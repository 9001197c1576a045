package main

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/woozymasta/geolayers/internal/config"
	"github.com/woozymasta/geolayers/internal/export"
	"github.com/woozymasta/geolayers/internal/logger"
	"github.com/woozymasta/geolayers/internal/overlay"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string   `short:"c" long:"config" env:"CONFIG_FILE" description:"Path to configuration file" default:"config.yaml"`
	OutputDir  string   `short:"o" long:"output" env:"OUTPUT_DIR"  description:"Directory for normalized GeoJSON output" default:"layers"`
	Limit      []string `short:"l" long:"limit"  env:"LIMIT_NAMES" description:"Limit processing to specific layer names"`
	Force      bool     `short:"f" long:"force"  description:"Force overwrite of existing files"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	client := &http.Client{
		Transport: &http.Transport{
			TLSNextProto:        make(map[string]func(string, *tls.Conn) http.RoundTripper),
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
		},
		Timeout: 15 * time.Second,
	}

	// Filter layers if limit is set
	layersToProcess := cfg.Layers
	if len(opts.Limit) > 0 {
		layersToProcess = make([]config.Layer, 0)
		available := make(map[string]config.Layer)
		for _, l := range cfg.Layers {
			available[l.Name] = l
		}

		seen := make(map[string]bool)

		for _, limitName := range opts.Limit {
			if seen[limitName] {
				continue
			}
			seen[limitName] = true

			if l, ok := available[limitName]; ok {
				layersToProcess = append(layersToProcess, l)
			} else {
				log.Error().
					Str("name", limitName).
					Msg("Layer specified in --limit not found in configuration")
			}
		}
	}

	log.Info().
		Int("layers_total", len(cfg.Layers)).
		Int("layers_queued", len(layersToProcess)).
		Msg("Starting loader")

	for _, layer := range layersToProcess {
		if err := processLayer(client, cfg, layer, opts.OutputDir, opts.Force); err != nil {
			log.Error().Err(err).Str("layer", layer.Name).Msg("Failed to process layer")
		}
	}

	log.Info().Msg("Loader finished successfully")
}

// processLayer fetches a layer's source, runs it through an overlay engine
// and writes the normalized GeoJSON export.
func processLayer(client *http.Client, cfg *config.Config, layer config.Layer, outDir string, force bool) error {
	destFile := filepath.Join(outDir, layer.Name+".geojson")

	// Check if file exists
	if _, err := os.Stat(destFile); err == nil {
		if !force {
			log.Debug().Str("layer", layer.Name).Msg("Output file exists, skipping")
			return nil
		}
	}

	engine := cfg.NewEngine()

	switch {
	case layer.Inline != nil:
		log.Info().
			Str("layer", layer.Name).
			Msg("Using inline GeoJSON data from config")
		if err := engine.Parse(layer.Inline); err != nil {
			return err
		}

	case layer.Source != "":
		data, err := fetchSource(client, layer.Source)
		if err != nil {
			return err
		}
		log.Info().
			Str("layer", layer.Name).
			Str("source", layer.Source).
			Int("bytes", len(data)).
			Msg("Processing layer source")
		if err := engine.ParseBytes(data); err != nil {
			return err
		}

	default:
		return nil
	}

	log.Debug().
		Str("layer", layer.Name).
		Int("markers", len(engine.Markers)).
		Int("circles", len(engine.Circles)).
		Int("polylines", len(engine.Polylines)).
		Int("polygons", len(engine.Polygons)).
		Msg("Layer ingested")

	return saveGeoJSON(outDir, destFile, engine)
}

// fetchSource reads the raw GeoJSON text from a URL or a local file.
func fetchSource(client *http.Client, source string) ([]byte, error) {
	if u, err := url.Parse(source); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		resp, err := client.Get(source)
		if err != nil {
			return nil, err
		}
		// Explicitly ignore close error as it's a read-only operation
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != 200 {
			return nil, fmt.Errorf("status %d", resp.StatusCode)
		}

		return io.ReadAll(resp.Body)
	}

	return os.ReadFile(source)
}

// saveGeoJSON marshals the exported feature collection and writes it to disk.
func saveGeoJSON(dir, path string, engine *overlay.Engine) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	// We care about write errors on close
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
		}
	}()

	return json.NewEncoder(f).Encode(export.FeatureCollection(engine))
}
