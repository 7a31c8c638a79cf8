package server

import (
	"net/http"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/geolayers/internal/choropleth"
	"github.com/woozymasta/geolayers/internal/config"
	"github.com/woozymasta/geolayers/internal/geo"
	"github.com/woozymasta/geolayers/internal/graticule"
	"github.com/woozymasta/geolayers/internal/processor"
)

// LayerInfo is the public description of a served layer.
type LayerInfo struct {
	Name   string                   `json:"name"`
	Title  string                   `json:"title,omitempty"`
	Breaks []float64                `json:"breaks"`
	Legend []choropleth.LegendEntry `json:"legend"`
	Style  choropleth.Style         `json:"highlight_style"`
}

// ServerContext holds dependencies for request handlers.
// Everything in it is built once and only read afterwards.
type ServerContext struct {
	Layers            map[string]*choropleth.Layer
	LayerNameResolver map[string]string
	LayerGeoJSON      map[string]geo.FeatureCollection
	Graticule         graticule.Options
	Infos             []LayerInfo
}

// NewServerContext builds every configured layer.
// Layers that fail to build are logged and skipped.
func NewServerContext(cfg *config.Config, client *http.Client) *ServerContext {
	log.Info().Int("config_layers_count", len(cfg.Layers)).Msg("Initializing server context")

	s := &ServerContext{
		Layers:            make(map[string]*choropleth.Layer),
		LayerNameResolver: make(map[string]string),
		LayerGeoJSON:      make(map[string]geo.FeatureCollection),
		Graticule:         graticule.DefaultOptions(),
	}
	if cfg.Graticule != nil {
		s.Graticule = *cfg.Graticule
	}

	for _, l := range cfg.Layers {
		layer, err := processor.BuildLayer(client, l)
		if err != nil {
			log.Warn().
				Err(err).
				Str("layer", l.Name).
				Msg("Skipping layer: build failed")
			continue
		}

		s.Layers[l.Name] = layer
		s.LayerGeoJSON[l.Name] = layer.FeatureCollection()
		s.LayerNameResolver[l.Name] = l.Name
		for _, alias := range l.Aliases {
			s.LayerNameResolver[alias] = l.Name
		}

		s.Infos = append(s.Infos, LayerInfo{
			Name:   l.Name,
			Title:  layer.Name(),
			Breaks: layer.Breaks(),
			Legend: layer.Legend(),
			Style:  layer.HighlightStyle(),
		})

		log.Debug().
			Str("layer", l.Name).
			Int("classes", len(layer.Colors())).
			Msg("Layer validated and added to context")
	}

	sort.Slice(s.Infos, func(i, j int) bool {
		return s.Infos[i].Name < s.Infos[j].Name
	})

	log.Info().
		Int("valid_layers_count", len(s.Layers)).
		Msg("Server context initialized successfully")

	return s
}
