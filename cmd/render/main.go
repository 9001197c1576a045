package main

import (
	"os"

	"github.com/woozymasta/geolayers/internal/config"
	"github.com/woozymasta/geolayers/internal/logger"
	"github.com/woozymasta/geolayers/internal/render"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string  `short:"c" long:"config"  env:"CONFIG_FILE" description:"Path to configuration file" default:"config.yaml"`
	Layer      string  `short:"n" long:"layer"   description:"Layer name to render" required:"true"`
	Output     string  `short:"o" long:"out"     description:"Output webp file path" default:"preview.webp"`
	Width      int     `short:"W" long:"width"   description:"Output image width"  default:"1024"`
	Height     int     `short:"H" long:"height"  description:"Output image height" default:"1024"`
	Quality    float32 `short:"q" long:"quality" description:"WebP quality"        default:"85"`
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

	var layer *config.Layer
	for i := range cfg.Layers {
		if cfg.Layers[i].Name == opts.Layer {
			layer = &cfg.Layers[i]
			break
		}
	}
	if layer == nil {
		log.Fatal().Str("layer", opts.Layer).Msg("Layer not found in configuration")
	}

	engine := cfg.NewEngine()

	if layer.Inline != nil {
		err = engine.Parse(layer.Inline)
	} else {
		var data []byte
		data, err = os.ReadFile(layer.Source)
		if err == nil {
			err = engine.ParseBytes(data)
		}
	}
	if err != nil {
		log.Fatal().Err(err).Str("layer", opts.Layer).Msg("Failed to ingest layer")
	}

	img, err := render.Layer(engine, opts.Width, opts.Height)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to render layer")
	}

	f, err := os.Create(opts.Output)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create output file")
	}
	defer func() { _ = f.Close() }()

	if err := render.WriteWebP(f, img, opts.Quality); err != nil {
		log.Fatal().Err(err).Msg("Failed to encode webp")
	}

	log.Info().
		Str("layer", opts.Layer).
		Str("out", opts.Output).
		Int("markers", len(engine.Markers)).
		Int("circles", len(engine.Circles)).
		Int("polylines", len(engine.Polylines)).
		Int("polygons", len(engine.Polygons)).
		Msg("Preview rendered")
}
