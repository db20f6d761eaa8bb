package domain

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is an opaque 8-bit RGB color.
type Color struct {
	R, G, B uint8
}

// ParseColor parses a CSS hex color ("#125ae1" or the short "#ccc" form).
func ParseColor(s string) (Color, error) {
	c, err := colorful.Hex(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b}, nil
}

// MustParseColor is ParseColor for compile-time constants. It panics on error.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex returns the color as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// MarshalText encodes the color as "#rrggbb".
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText decodes a CSS hex color.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// RGBA returns the color as four 0-255 channels with full opacity.
func (c Color) RGBA() [4]int {
	return [4]int{int(c.R), int(c.G), int(c.B), 255}
}

// Palette maps category names to colors. It is immutable once built.
type Palette struct {
	colors        map[string]Color
	markerDefault Color
	legendUnknown Color
}

// NewPalette copies colors into a new Palette. markerDefault colors markers
// whose first category is missing or unmapped; legendUnknown colors legend
// swatches for unmapped categories.
func NewPalette(colors map[string]Color, markerDefault, legendUnknown Color) Palette {
	cp := make(map[string]Color, len(colors))
	for k, v := range colors {
		cp[k] = v
	}
	return Palette{colors: cp, markerDefault: markerDefault, legendUnknown: legendUnknown}
}

// DefaultPalette is the palette of the published GNSS project map.
func DefaultPalette() Palette {
	return NewPalette(map[string]Color{
		"Ice Flow":      MustParseColor("#125ae1"),
		"Altimetry":     MustParseColor("#9852d9"),
		"Reflectometry": MustParseColor("#f44e8a"),
		"Education":     MustParseColor("#f96502"),
	}, MustParseColor("#ffffff"), MustParseColor("#cccccc"))
}

// Lookup returns the color mapped to category.
func (p Palette) Lookup(category string) (Color, bool) {
	c, ok := p.colors[category]
	return c, ok
}

// MarkerColor returns the category color or the marker default.
func (p Palette) MarkerColor(category string) Color {
	if c, ok := p.colors[category]; ok {
		return c
	}
	return p.markerDefault
}

// LegendColor returns the category color or the legend "unknown" color.
func (p Palette) LegendColor(category string) Color {
	if c, ok := p.colors[category]; ok {
		return c
	}
	return p.legendUnknown
}

// WithOverrides returns a copy of p with colors replaced or added from overrides,
// a semicolon-separated list of "Category=#hex" pairs, e.g.
// "Ice Flow=#125ae1;Seismology=#00aa00". An empty string returns p unchanged.
func (p Palette) WithOverrides(overrides string) (Palette, error) {
	overrides = strings.TrimSpace(overrides)
	if overrides == "" {
		return p, nil
	}
	out := NewPalette(p.colors, p.markerDefault, p.legendUnknown)
	for _, pair := range strings.Split(overrides, ";") {
		if strings.TrimSpace(pair) == "" {
			continue
		}
		name, hex, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return Palette{}, fmt.Errorf("invalid palette entry %q: want Category=#hex", pair)
		}
		c, err := ParseColor(hex)
		if err != nil {
			return Palette{}, fmt.Errorf("palette entry %q: %w", name, err)
		}
		out.colors[name] = c
	}
	return out, nil
}
