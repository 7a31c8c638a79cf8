// Package processor loads layer sources and writes generated GeoJSON.
package processor

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/woozymasta/geolayers/internal/geo"

	"gopkg.in/yaml.v3"
)

// open returns a reader for a local path or an http(s) URL.
func open(client *http.Client, source string) (io.ReadCloser, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		return os.Open(source)
	}

	resp, err := client.Get(source)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("download %s: status %d", source, resp.StatusCode)
	}

	return resp.Body, nil
}

// LoadSource reads a GeoJSON FeatureCollection from a file or URL.
func LoadSource(client *http.Client, source string) (geo.FeatureCollection, error) {
	r, err := open(client, source)
	if err != nil {
		return geo.FeatureCollection{}, err
	}
	// Explicitly ignore close error as it's a read-only operation
	defer func() { _ = r.Close() }()

	fc, err := geo.Decode(r)
	if err != nil {
		return geo.FeatureCollection{}, fmt.Errorf("%s: %w", source, err)
	}

	return fc, nil
}

// LoadData reads an id to value mapping. Files ending in .yaml or .yml are
// parsed as YAML, anything else as JSON.
func LoadData(client *http.Client, source string) (map[string]float64, error) {
	r, err := open(client, source)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	data := make(map[string]float64)
	switch strings.ToLower(filepath.Ext(source)) {
	case ".yaml", ".yml":
		err = yaml.NewDecoder(r).Decode(&data)
	default:
		err = json.NewDecoder(r).Decode(&data)
	}
	if err != nil {
		return nil, fmt.Errorf("decode data %s: %w", source, err)
	}

	return data, nil
}
