// Package server handles HTTP requests and middleware.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/woozymasta/geolayers/internal/graticule"

	"github.com/rs/zerolog/log"
)

// HandleLayersList serves the description and legend of every layer.
func (s *ServerContext) HandleLayersList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, "application/json", s.Infos)
}

// HandleGraticule serves a grid. Query parameters interval, precision and
// frame override the configured options.
func (s *ServerContext) HandleGraticule(w http.ResponseWriter, r *http.Request) {
	opts, err := graticuleOptions(s.Graticule, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	fc, err := graticule.Generate(opts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, "application/geo+json", fc)
}

var errBadQuery = errors.New("bad query parameter")

func graticuleOptions(base graticule.Options, r *http.Request) (graticule.Options, error) {
	q := r.URL.Query()
	opts := base

	parse := func(name string, dst *float64) error {
		v := q.Get(name)
		if v == "" {
			return nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Join(errBadQuery, err)
		}
		*dst = f
		return nil
	}

	if err := parse("interval", &opts.Interval); err != nil {
		return opts, err
	}
	if err := parse("precision", &opts.Precision); err != nil {
		return opts, err
	}
	if v := q.Get("frame"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.Join(errBadQuery, err)
		}
		opts.Frame = b
	}

	return opts, nil
}

// HandleLayer serves /layers/{name}.geojson and /layers/{name}/legend.
func (s *ServerContext) HandleLayer(w http.ResponseWriter, r *http.Request) {
	// Path: /layers/{name}.geojson or /layers/{name}/legend
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	switch {
	case len(parts) == 2 && strings.HasSuffix(parts[1], ".geojson"):
		name, ok := s.LayerNameResolver[strings.TrimSuffix(parts[1], ".geojson")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, "application/geo+json", s.LayerGeoJSON[name])

	case len(parts) == 3 && parts[2] == "legend":
		name, ok := s.LayerNameResolver[parts[1]]
		if !ok {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, "application/json", s.Layers[name].Legend())

	default:
		http.NotFound(w, r)
	}
}

func writeJSON(w http.ResponseWriter, contentType string, v any) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, no-cache")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// client went away, nothing to answer
		log.Debug().Err(err).Msg("Failed to write response")
	}
}
