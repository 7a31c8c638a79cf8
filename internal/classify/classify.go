// Package classify partitions numeric data into classes for choropleth maps.
package classify

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrNoValues is returned when there is nothing to classify.
	ErrNoValues = errors.New("classify: no values")
	// ErrInvalidClasses is returned for a class count below one.
	ErrInvalidClasses = errors.New("classify: number of classes must be >= 1")
	// ErrInvalidValue is returned when the input holds NaN or infinite values.
	ErrInvalidValue = errors.New("classify: values must be finite")
	// ErrInvalidBreaks is returned for break sequences that cannot form classes.
	ErrInvalidBreaks = errors.New("classify: invalid class breaks")
	// ErrOutOfRange is returned by Classifier.Class for values outside all classes.
	ErrOutOfRange = errors.New("classify: value outside class breaks")
	// ErrUnknownStrategy is returned by ParseStrategy.
	ErrUnknownStrategy = errors.New("classify: unknown strategy")
)

// Strategy selects how class breaks are computed.
type Strategy int

const (
	// EqualInterval splits the value range into classes of equal width.
	EqualInterval Strategy = iota
	// Quantiles puts an equal count of observations into each class.
	Quantiles
)

func (s Strategy) String() string {
	switch s {
	case EqualInterval:
		return "equal"
	case Quantiles:
		return "quantiles"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy maps a configuration name to a Strategy.
// An empty name selects EqualInterval.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "equal":
		return EqualInterval, nil
	case "quantiles", "quantile":
		return Quantiles, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	v, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Breaks computes numClasses+1 class boundaries over values.
// Values may be in any order; the input slice is not modified.
// numDecimals rounds the equal interval breaks, the final break is always the
// exact maximum.
func Breaks(values []float64, numClasses, numDecimals int, strategy Strategy) ([]float64, error) {
	if len(values) == 0 {
		return nil, ErrNoValues
	}
	if numClasses < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidClasses, numClasses)
	}
	if numDecimals < 0 {
		return nil, fmt.Errorf("classify: number of decimals must be >= 0, got %d", numDecimals)
	}
	if !finite(values) {
		return nil, ErrInvalidValue
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	switch strategy {
	case EqualInterval:
		return equalInterval(sorted, numClasses, numDecimals), nil
	case Quantiles:
		return quantiles(sorted, numClasses), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownStrategy, strategy)
	}
}

func equalInterval(sorted []float64, numClasses, numDecimals int) []float64 {
	minValue, maxValue := sorted[0], sorted[len(sorted)-1]
	interval := (maxValue - minValue) / float64(numClasses)

	// Rounding may push a break past its neighbours or past the maximum, keep
	// the sequence non-decreasing and within it.
	breaks := make([]float64, 0, numClasses+1)
	prev := math.Inf(-1)
	for i := 0; i < numClasses; i++ {
		b := min(max(round(minValue+interval*float64(i), numDecimals), prev), maxValue)
		breaks = append(breaks, b)
		prev = b
	}

	return append(breaks, maxValue)
}

// quantiles picks values at integer-truncated positions. Classes are uneven
// when len(sorted) is not a multiple of numClasses.
func quantiles(sorted []float64, numClasses int) []float64 {
	breaks := make([]float64, 0, numClasses+1)
	for i := 0; i < numClasses; i++ {
		breaks = append(breaks, sorted[i*len(sorted)/numClasses])
	}

	return append(breaks, sorted[len(sorted)-1])
}

func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

func finite(values []float64) bool {
	if floats.HasNaN(values) {
		return false
	}
	for _, v := range values {
		if math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Classifier assigns values to classes bounded by a fixed break sequence.
// It is immutable and safe for concurrent use.
type Classifier struct {
	breaks []float64
}

// NewClassifier validates breaks: at least two, finite and non-decreasing.
func NewClassifier(breaks []float64) (*Classifier, error) {
	if len(breaks) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 breaks, got %d", ErrInvalidBreaks, len(breaks))
	}
	if !finite(breaks) {
		return nil, fmt.Errorf("%w: breaks must be finite", ErrInvalidBreaks)
	}
	if !slices.IsSorted(breaks) {
		return nil, fmt.Errorf("%w: breaks must be non-decreasing", ErrInvalidBreaks)
	}

	return &Classifier{breaks: slices.Clone(breaks)}, nil
}

// NumClasses is the number of classes, one less than the number of breaks.
func (c *Classifier) NumClasses() int {
	return len(c.breaks) - 1
}

// Breaks returns a copy of the class boundaries.
func (c *Classifier) Breaks() []float64 {
	return slices.Clone(c.breaks)
}

// Min and Max bound the classified range.
func (c *Classifier) Min() float64 { return floats.Min(c.breaks) }
func (c *Classifier) Max() float64 { return floats.Max(c.breaks) }

// Class returns the index i with breaks[i] <= value < breaks[i+1], taking the
// first match. A value equal to any upper boundary breaks[i+1], interior or
// the maximum, belongs to class i: Class(20) with breaks [0 20 40] is 0 and
// Class(40) is 1. Values outside the breaks, and NaN, yield -1 and
// ErrOutOfRange.
func (c *Classifier) Class(value float64) (int, error) {
	for i := 0; i < len(c.breaks)-1; i++ {
		if value >= c.breaks[i] && value < c.breaks[i+1] {
			return i, nil
		}
		if value == c.breaks[i+1] {
			return i, nil
		}
	}

	return -1, fmt.Errorf("%w: %v not in [%v, %v]", ErrOutOfRange, value, c.Min(), c.Max())
}
