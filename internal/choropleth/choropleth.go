// Package choropleth classifies feature values and assigns fill colors.
//
// A Layer is built once from a FeatureCollection and is read-only afterwards;
// drawing it is left to whatever map renderer consumes the styled GeoJSON.
package choropleth

import (
	"errors"
	"fmt"

	"github.com/woozymasta/geolayers/internal/classify"
	"github.com/woozymasta/geolayers/internal/geo"
)

// Properties written by Layer.FeatureCollection.
const (
	PropClass     = "class"
	PropFillColor = "fillColor"
	PropLabel     = "label"
)

// ErrInvalidOptions marks a layer configuration that cannot be classified.
var ErrInvalidOptions = errors.New("choropleth: invalid options")

// Style holds path style options in the form map renderers expect.
type Style struct {
	Color       string  `json:"color,omitempty" yaml:"color,omitempty"`
	FillColor   string  `json:"fillColor,omitempty" yaml:"fill_color,omitempty"`
	Weight      float64 `json:"weight,omitempty" yaml:"weight,omitempty"`
	Opacity     float64 `json:"opacity,omitempty" yaml:"opacity,omitempty"`
	FillOpacity float64 `json:"fillOpacity,omitempty" yaml:"fill_opacity,omitempty"`
}

func (s Style) isZero() bool {
	return s == Style{}
}

// Options configures a Layer. Zero values take the defaults listed on each
// field.
type Options struct {
	// Data maps feature ids to values. When set, values are joined onto the
	// "value" property and Key is ignored.
	Data map[string]float64 `yaml:"-" json:"-"`
	// NoDataValue marks features that carry no data.
	NoDataValue *float64 `yaml:"no_data_value,omitempty" json:"no_data_value,omitempty"`

	// Name is the layer title shown in legends.
	Name string `yaml:"title,omitempty" json:"title,omitempty"`
	// Key is the property holding the value, default "value".
	Key string `yaml:"key,omitempty" json:"key,omitempty"`
	// IDProperty names the property matched against Data keys, default is
	// the feature id.
	IDProperty string `yaml:"id,omitempty" json:"id,omitempty"`
	// NoDataColor default "CCC".
	NoDataColor string `yaml:"no_data_color,omitempty" json:"no_data_color,omitempty"`
	// NoDataLabel default "No data".
	NoDataLabel string `yaml:"no_data_label,omitempty" json:"no_data_label,omitempty"`
	Unit        string `yaml:"unit,omitempty" json:"unit,omitempty"`

	// ClassBreaks overrides computed breaks.
	ClassBreaks []float64 `yaml:"class_breaks,omitempty" json:"class_breaks,omitempty"`
	// Colors overrides the default palette for NumClasses.
	Colors []string `yaml:"colors,omitempty" json:"colors,omitempty"`

	NormalStyle    Style `yaml:"normal_style,omitempty" json:"normal_style,omitempty"`
	HighlightStyle Style `yaml:"highlight_style,omitempty" json:"highlight_style,omitempty"`

	Classification classify.Strategy `yaml:"classification,omitempty" json:"classification,omitempty"`
	// NumClasses default 6.
	NumClasses  int `yaml:"num_classes,omitempty" json:"num_classes,omitempty"`
	NumDecimals int `yaml:"num_decimals,omitempty" json:"num_decimals,omitempty"`
}

// DefaultOptions returns options with every default filled in.
func DefaultOptions() Options {
	return Options{}.withDefaults()
}

func (o Options) withDefaults() Options {
	if o.Key == "" {
		o.Key = classify.ValueProperty
	}
	if o.NumClasses == 0 {
		o.NumClasses = 6
	}
	if o.NoDataColor == "" {
		o.NoDataColor = "CCC"
	}
	if o.NoDataLabel == "" {
		o.NoDataLabel = "No data"
	}
	if o.NormalStyle.isZero() {
		o.NormalStyle = Style{Weight: 0.5, Opacity: 1, Color: "#000", FillOpacity: 1}
	}
	if o.HighlightStyle.isZero() {
		o.HighlightStyle = Style{Weight: 2}
	}
	return o
}

// LegendEntry describes one class for a legend.
type LegendEntry struct {
	Color  string   `json:"color" yaml:"color"`
	Label  string   `json:"label" yaml:"label"`
	From   *float64 `json:"from,omitempty" yaml:"from,omitempty"`
	To     *float64 `json:"to,omitempty" yaml:"to,omitempty"`
	NoData bool     `json:"no_data,omitempty" yaml:"no_data,omitempty"`
}

// Layer is a classified feature collection.
type Layer struct {
	fc          geo.FeatureCollection
	classifier  *classify.Classifier
	opts        Options
	values      []float64
	colors      []string
	noDataColor string
}

// New classifies the features of fc. fc itself is not modified.
func New(fc geo.FeatureCollection, opts Options) (*Layer, error) {
	opts = opts.withDefaults()
	if opts.NumClasses < 1 {
		return nil, fmt.Errorf("%w: num_classes must be >= 1, got %d", ErrInvalidOptions, opts.NumClasses)
	}

	l := &Layer{fc: fc.Clone()}

	if opts.Data != nil {
		opts.Key = classify.ValueProperty
		l.values = classify.JoinData(l.fc, opts.Data, opts.IDProperty, opts.NoDataValue)
	} else {
		l.values = classify.ExtractValues(l.fc, opts.Key, opts.NoDataValue)
	}

	breaks := opts.ClassBreaks
	if len(breaks) > 0 {
		opts.NumClasses = len(breaks) - 1
	} else {
		var err error
		breaks, err = classify.Breaks(l.values, opts.NumClasses, opts.NumDecimals, opts.Classification)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
		}
	}

	classifier, err := classify.NewClassifier(breaks)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	l.classifier = classifier

	if err := l.resolveColors(opts); err != nil {
		return nil, err
	}

	l.opts = opts
	return l, nil
}

func (l *Layer) resolveColors(opts Options) error {
	colors := opts.Colors
	if len(colors) == 0 {
		p, ok := DefaultPalette(opts.NumClasses)
		if !ok {
			return fmt.Errorf("%w: no default palette for %d classes, set colors", ErrInvalidOptions, opts.NumClasses)
		}
		colors = p
	}
	if len(colors) < opts.NumClasses {
		return fmt.Errorf("%w: %d colors for %d classes", ErrInvalidOptions, len(colors), opts.NumClasses)
	}

	l.colors = make([]string, opts.NumClasses)
	for i := range l.colors {
		c, err := NormalizeColor(colors[i])
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
		}
		l.colors[i] = c
	}

	c, err := NormalizeColor(opts.NoDataColor)
	if err != nil {
		return fmt.Errorf("%w: no data %w", ErrInvalidOptions, err)
	}
	l.noDataColor = c

	return nil
}

// Name is the layer title.
func (l *Layer) Name() string { return l.opts.Name }

// Breaks returns a copy of the class breaks.
func (l *Layer) Breaks() []float64 { return l.classifier.Breaks() }

// Values returns a copy of the sorted values the breaks were computed from.
func (l *Layer) Values() []float64 { return append([]float64(nil), l.values...) }

// Colors returns a copy of the class colors as "#rrggbb".
func (l *Layer) Colors() []string { return append([]string(nil), l.colors...) }

// HighlightStyle is the style to merge over a feature while it is hovered.
func (l *Layer) HighlightStyle() Style { return l.opts.HighlightStyle }

// Value returns the feature value, false for missing or no-data values.
func (l *Layer) Value(f geo.Feature) (float64, bool) {
	v, ok := geo.Number(f.Properties[l.opts.Key])
	if !ok {
		return 0, false
	}
	if l.opts.NoDataValue != nil && v == *l.opts.NoDataValue {
		return 0, false
	}
	return v, true
}

// Class returns the class index of the feature value.
// Features without data return -1 and classify.ErrOutOfRange.
func (l *Layer) Class(f geo.Feature) (int, error) {
	v, ok := l.Value(f)
	if !ok {
		return -1, fmt.Errorf("%w: feature has no data", classify.ErrOutOfRange)
	}
	return l.classifier.Class(v)
}

// Style returns the fill style for a feature. Features without data or with
// a value outside the class breaks get the no-data color.
func (l *Layer) Style(f geo.Feature) Style {
	s := l.opts.NormalStyle
	s.FillColor = l.noDataColor
	if i, err := l.Class(f); err == nil {
		s.FillColor = l.colors[i]
	}
	return s
}

// Label returns "name: value unit", or the no-data label in place of the
// value.
func (l *Layer) Label(f geo.Feature) string {
	value := l.opts.NoDataLabel
	if v, ok := l.Value(f); ok {
		value = geo.FormatNumber(v)
		if l.opts.Unit != "" {
			value += " " + l.opts.Unit
		}
	}

	name, _ := f.Properties["name"].(string)
	if name == "" {
		return value
	}
	return name + ": " + value
}

// Legend lists one entry per class, plus a no-data entry when a no-data value
// is configured.
func (l *Layer) Legend() []LegendEntry {
	breaks := l.classifier.Breaks()
	entries := make([]LegendEntry, 0, len(breaks))

	for i := 0; i < len(breaks)-1; i++ {
		from, to := breaks[i], breaks[i+1]
		entries = append(entries, LegendEntry{
			Color: l.colors[i],
			Label: geo.FormatNumber(from) + " – " + geo.FormatNumber(to),
			From:  &from,
			To:    &to,
		})
	}

	if l.opts.NoDataValue != nil {
		entries = append(entries, LegendEntry{
			Color:  l.noDataColor,
			Label:  l.opts.NoDataLabel,
			NoData: true,
		})
	}

	return entries
}

// FeatureCollection returns a copy of the features with class, fill color and
// label properties set.
func (l *Layer) FeatureCollection() geo.FeatureCollection {
	out := l.fc.Clone()
	for i := range out.Features {
		f := &out.Features[i]
		if class, err := l.Class(*f); err == nil {
			f.Properties[PropClass] = class
		} else {
			f.Properties[PropClass] = nil
		}
		f.Properties[PropFillColor] = l.Style(*f).FillColor
		f.Properties[PropLabel] = l.Label(*f)
	}
	return out
}
