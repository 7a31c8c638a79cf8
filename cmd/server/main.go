package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/woozymasta/geolayers/internal/config"
	"github.com/woozymasta/geolayers/internal/logger"
	"github.com/woozymasta/geolayers/internal/server"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config"  env:"CONFIG_FILE"    description:"Path to configuration file" default:"config.yaml"`
	Addr       string `short:"a" long:"addr"    env:"LISTEN_ADDRESS" description:"Address to listen on"       default:"0.0.0.0"`
	Port       int    `short:"p" long:"port"    env:"LISTEN_PORT"    description:"Port to listen on"          default:"8080"`
	Timeout    int    `short:"T" long:"timeout" env:"HTTP_TIMEOUT"   description:"Source download timeout in seconds" default:"15"`
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

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if opts.Timeout <= 0 {
		opts.Timeout = 15
	}
	client := &http.Client{Timeout: time.Duration(opts.Timeout) * time.Second}

	srvCtx := server.NewServerContext(cfg, client)

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	log.Info().
		Str("addr", listenAddr).
		Int("layers_loaded", len(srvCtx.Layers)).
		Float64("graticule_interval", srvCtx.Graticule.Interval).
		Msg("Web server started")

	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           srvCtx.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
