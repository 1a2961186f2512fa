package libmonado

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseRGB reads a colour as "#rrggbb", "#rgb" or three comma separated
// components in 0..1 such as "0,1,0".
func ParseRGB(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return RGB{}, fmt.Errorf("libmonado: invalid colour %q: %w", s, err)
		}
		return RGBFromColor(c), nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return RGB{}, fmt.Errorf("libmonado: invalid colour %q: want #rrggbb or r,g,b", s)
	}
	var v [3]float32
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return RGB{}, fmt.Errorf("libmonado: invalid colour %q: %w", s, err)
		}
		v[i] = float32(f)
	}
	c := RGB{R: v[0], G: v[1], B: v[2]}
	if !c.color().IsValid() {
		return RGB{}, fmt.Errorf("libmonado: invalid colour %q: components must be in 0..1", s)
	}
	return c, nil
}

// RGBFromColor converts a colorful.Color.
func RGBFromColor(c colorful.Color) RGB {
	return RGB{R: float32(c.R), G: float32(c.G), B: float32(c.B)}
}

func (c RGB) color() colorful.Color {
	return colorful.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B)}
}

// Hex formats the colour as "#rrggbb".
func (c RGB) Hex() string {
	return c.color().Clamped().Hex()
}
