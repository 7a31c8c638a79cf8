package processor

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"github.com/woozymasta/geolayers/internal/choropleth"
	"github.com/woozymasta/geolayers/internal/config"
	"github.com/woozymasta/geolayers/internal/graticule"

	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	jsonmin "github.com/tdewolff/minify/v2/json"
)

// GraticuleFile is the output file name of the grid layer.
const GraticuleFile = "graticule.geojson"

// BuildLayer loads the source and data of a configured layer and classifies it.
func BuildLayer(client *http.Client, l config.Layer) (*choropleth.Layer, error) {
	fc, err := LoadSource(client, l.Source)
	if err != nil {
		return nil, err
	}

	opts := l.Options
	if l.Data != "" {
		if opts.Data, err = LoadData(client, l.Data); err != nil {
			return nil, err
		}
	}

	layer, err := choropleth.New(fc, opts)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("layer", l.Name).
		Int("features", len(fc.Features)).
		Int("values", len(layer.Values())).
		Floats64("breaks", layer.Breaks()).
		Msg("Layer classified")

	return layer, nil
}

// ProcessLayer builds a layer and writes <name>.geojson and
// <name>.legend.json into outDir. Existing output is kept unless force is set.
func ProcessLayer(client *http.Client, l config.Layer, outDir string, force, compact bool) error {
	destFile := filepath.Join(outDir, l.Name+".geojson")
	legendFile := filepath.Join(outDir, l.Name+".legend.json")

	if exists(destFile) && exists(legendFile) && !force {
		log.Debug().Str("layer", l.Name).Msg("Layer files exist, skipping")
		return nil
	}

	log.Info().
		Str("layer", l.Name).
		Str("source", l.Source).
		Msg("Processing layer")

	layer, err := BuildLayer(client, l)
	if err != nil {
		return err
	}

	if err := Save(destFile, layer.FeatureCollection(), compact); err != nil {
		return err
	}

	return Save(legendFile, layer.Legend(), compact)
}

// ProcessGraticule writes the grid into outDir.
func ProcessGraticule(opts graticule.Options, outDir string, force, compact bool) error {
	destFile := filepath.Join(outDir, GraticuleFile)
	if exists(destFile) && !force {
		log.Debug().Msg("Graticule file exists, skipping")
		return nil
	}

	fc, err := graticule.Generate(opts)
	if err != nil {
		return err
	}

	log.Info().
		Float64("interval", opts.Interval).
		Float64("precision", opts.Precision).
		Bool("frame", opts.Frame).
		Int("features", len(fc.Features)).
		Msg("Graticule generated")

	return Save(destFile, fc, compact)
}

// Save marshals v as JSON and writes it to path, creating parent directories.
func Save(path string, v any, compact bool) error {
	data, err := Marshal(v, compact)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Marshal encodes v as indented JSON, or minified when compact is set.
func Marshal(v any, compact bool) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	if !compact {
		return append(data, '\n'), nil
	}

	m := minify.New()
	m.AddFunc("application/json", jsonmin.Minify)

	var buf bytes.Buffer
	if err := m.Minify("application/json", &buf, bytes.NewReader(data)); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
