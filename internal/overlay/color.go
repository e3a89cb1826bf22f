package overlay

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// MaxCount is the largest count that fits the 8-bit color encoding.
const MaxCount = 255

// RGB is a 24-bit color.
type RGB struct {
	R, G, B uint8
}

// ColorForCount encodes a density on the red-blue axis: red = count,
// green = 0, blue = 255 - count. Callers must keep count in [0, MaxCount].
func ColorForCount(count uint8) RGB {
	return RGB{R: count, G: 0, B: MaxCount - count}
}

// Colorful converts c for blending.
func (c RGB) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Hex returns the lowercase #rrggbb form.
func (c RGB) Hex() string {
	return c.Colorful().Hex()
}

func (c RGB) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.R, c.G, c.B)
}

// ParseRGB reads a #rrggbb (or #rgb) color.
func ParseRGB(s string) (RGB, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, err
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// MustParseRGB is ParseRGB for literals.
func MustParseRGB(s string) RGB {
	c, err := ParseRGB(s)
	if err != nil {
		panic("MustParseRGB: " + err.Error())
	}
	return c
}
