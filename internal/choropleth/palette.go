package choropleth

import (
	"fmt"
	"slices"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Sequential orange-red schemes keyed by class count.
var defaultPalettes = map[int][]string{
	3: {"FEE8C8", "FDBB84", "E34A33"},
	4: {"FEF0D9", "FDCC8A", "FC8D59", "D7301F"},
	5: {"FEF0D9", "FDCC8A", "FC8D59", "E34A33", "B30000"},
	6: {"FEF0D9", "FDD49E", "FDBB84", "FC8D59", "E34A33", "B30000"},
	7: {"FEF0D9", "FDD49E", "FDBB84", "FC8D59", "EF6548", "D7301F", "990000"},
	8: {"FFF7EC", "FEE8C8", "FDD49E", "FDBB84", "FC8D59", "EF6548", "D7301F", "990000"},
	9: {"FFF7EC", "FEE8C8", "FDD49E", "FDBB84", "FC8D59", "EF6548", "D7301F", "B30000", "7F0000"},
}

// DefaultPalette returns a copy of the built-in scheme for n classes.
// Schemes exist for 3 to 9 classes.
func DefaultPalette(n int) ([]string, bool) {
	p, ok := defaultPalettes[n]
	if !ok {
		return nil, false
	}
	return slices.Clone(p), true
}

// NormalizeColor parses "RGB", "RRGGBB" with or without a leading '#'
// and returns "#rrggbb".
func NormalizeColor(s string) (string, error) {
	hex := "#" + strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 4 && len(hex) != 7 {
		return "", fmt.Errorf("invalid color %q", s)
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		return "", fmt.Errorf("invalid color %q: %w", s, err)
	}

	return c.Hex(), nil
}
