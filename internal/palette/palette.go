// Package palette provides the color schemes used for variant expansion and the
// deterministic hue-rotation algorithm that derives palette families from a
// base scheme without any external call.
package palette

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Scheme is a named, ordered set of hex colors. Position carries the role:
// first is primary, second secondary, third accent, the rest neutrals.
type Scheme struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Description string   `json:"description,omitempty"`
	Colors      []string `json:"colors"`
}

// Primary returns the scheme's primary color.
func (s Scheme) Primary() string { return s.colorAt(0) }

// Secondary returns the scheme's secondary color, falling back to primary.
func (s Scheme) Secondary() string { return s.colorAt(1) }

// Accent returns the scheme's accent color, falling back to primary.
func (s Scheme) Accent() string { return s.colorAt(2) }

// Neutrals returns the remaining colors after primary/secondary/accent.
func (s Scheme) Neutrals() []string {
	if len(s.Colors) <= 3 {
		return nil
	}
	return s.Colors[3:]
}

func (s Scheme) colorAt(i int) string {
	if i < len(s.Colors) {
		return s.Colors[i]
	}
	if len(s.Colors) > 0 {
		return s.Colors[0]
	}
	return ""
}

// Rotate shifts the hue of a hex color by the given number of degrees in HSL
// space, preserving saturation and lightness. Exact identity for degrees that
// are a multiple of 360 (including zero), periodic in 360 in both directions.
// Malformed input fails closed: the input is returned unchanged, because this
// function runs deep inside prompt construction where a hard failure would
// abort an otherwise-successful batch.
func Rotate(hex string, degrees float64) string {
	if !validHex(hex) {
		return hex
	}

	// Normalize first so d and d+360k take bit-identical paths.
	d := math.Mod(degrees, 360)
	if d < 0 {
		d += 360
	}
	if d == 0 {
		return hex
	}

	normalized := hex
	if normalized[0] != '#' {
		normalized = "#" + normalized
	}
	c, err := colorful.Hex(normalized)
	if err != nil {
		return hex
	}

	h, s, l := c.Hsl()
	h = math.Mod(h+d, 360)
	return colorful.Hsl(h, s, l).Hex()
}

// validHex reports whether the string is a 6-digit hex color, with or without
// the leading '#'.
func validHex(hex string) bool {
	if len(hex) == 7 && hex[0] == '#' {
		hex = hex[1:]
	}
	if len(hex) != 6 {
		return false
	}
	for i := 0; i < len(hex); i++ {
		c := hex[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// Derive produces the nth variation of a base scheme by rotating its role
// colors. Families: 0 is the original, 1 analogous (+30/+15/-15), 2
// complementary (+180 primary, -30 accent), and 3+ widen the offsets so large
// batches keep visual distance from one another. Neutrals are never rotated.
func Derive(base Scheme, index int) Scheme {
	if index <= 0 {
		return base
	}

	primary := base.Primary()
	secondary := base.Secondary()
	accent := base.Accent()

	var id, label string
	switch index {
	case 1:
		primary = Rotate(primary, 30)
		secondary = Rotate(secondary, 15)
		accent = Rotate(accent, -15)
		id, label = base.ID+"-analogous", base.Label+" (analogous)"
	case 2:
		primary = Rotate(primary, 180)
		accent = Rotate(accent, -30)
		id, label = base.ID+"-complementary", base.Label+" (complementary)"
	default:
		n := float64(index)
		primary = Rotate(primary, 60*n)
		secondary = Rotate(secondary, 30*n)
		accent = Rotate(accent, -45*n)
		id, label = fmt.Sprintf("%s-v%d", base.ID, index), fmt.Sprintf("%s (variation %d)", base.Label, index)
	}

	colors := []string{primary, secondary, accent}
	colors = append(colors, base.Neutrals()...)

	return Scheme{
		ID:          id,
		Label:       label,
		Description: base.Description,
		Colors:      colors,
	}
}
