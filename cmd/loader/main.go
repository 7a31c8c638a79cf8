package main

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/woozymasta/geolayers/internal/config"
	"github.com/woozymasta/geolayers/internal/logger"
	"github.com/woozymasta/geolayers/internal/processor"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile    string   `short:"c" long:"config"         env:"CONFIG_FILE"  description:"Path to configuration file" default:"config.yaml"`
	Output        string   `short:"o" long:"output"         env:"OUTPUT_DIR"   description:"Output directory, overrides configuration"`
	Limit         []string `short:"l" long:"limit"          env:"LIMIT_NAMES"  description:"Limit processing to specific layer names"`
	Timeout       int      `short:"T" long:"timeout"        env:"HTTP_TIMEOUT" description:"Download timeout in seconds" default:"15"`
	LayersOnly    bool     `short:"L" long:"layers-only"    description:"Build choropleth layers only"`
	GraticuleOnly bool     `short:"g" long:"graticule-only" description:"Generate graticule only"`
	Force         bool     `short:"f" long:"force"          description:"Force overwrite of existing files"`
	Minify        bool     `short:"m" long:"minify"         description:"Write minified JSON"`
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

	outDir := cfg.Output
	if opts.Output != "" {
		outDir = opts.Output
	}

	processLayers := true
	processGrid := cfg.Graticule != nil
	if opts.LayersOnly && !opts.GraticuleOnly {
		processGrid = false
	} else if opts.GraticuleOnly && !opts.LayersOnly {
		processLayers = false
	}

	if opts.Timeout <= 0 {
		opts.Timeout = 15
	}
	client := &http.Client{Timeout: time.Duration(opts.Timeout) * time.Second}

	// Filter layers if limit is set
	layersToProcess := cfg.Layers
	if len(opts.Limit) > 0 {
		layersToProcess = make([]config.Layer, 0, len(opts.Limit))
		seen := make(map[string]bool)

		for _, name := range opts.Limit {
			if seen[name] {
				continue
			}
			seen[name] = true

			if l, ok := cfg.Find(name); ok {
				layersToProcess = append(layersToProcess, l)
			} else {
				log.Error().
					Str("name", name).
					Msg("Layer specified in --limit not found in configuration")
			}
		}
	}

	log.Info().
		Int("layers_total", len(cfg.Layers)).
		Int("layers_queued", len(layersToProcess)).
		Str("output", outDir).
		Msg("Starting loader")

	failed := 0
	if processGrid {
		if err := processor.ProcessGraticule(*cfg.Graticule, outDir, opts.Force, opts.Minify); err != nil {
			log.Error().Err(err).Msg("Failed to generate graticule")
			failed++
		}
	}

	if processLayers {
		for _, l := range layersToProcess {
			if err := processor.ProcessLayer(client, l, outDir, opts.Force, opts.Minify); err != nil {
				log.Error().Err(err).Str("layer", l.Name).Msg("Failed to process layer")
				failed++
			}
		}
	}

	if failed > 0 {
		log.Fatal().Int("failed", failed).Msg("Loader finished with errors")
	}

	abs, _ := filepath.Abs(outDir)
	log.Info().Str("output", abs).Msg("Loader finished successfully")
}
