package palette

import (
	"fmt"
	"math"
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hsl(t *testing.T, hex string) (float64, float64, float64) {
	t.Helper()
	c, err := colorful.Hex(hex)
	require.NoError(t, err, "expected a parseable hex color, got %q", hex)
	return c.Hsl()
}

func TestRotate_Identity(t *testing.T) {
	colors := []string{"#FF6B35", "#2c3e50", "06FFA5", "#000000", "#FFFFFF"}
	for _, c := range colors {
		assert.Equal(t, c, Rotate(c, 0), "zero rotation must return the input unchanged")
		assert.Equal(t, c, Rotate(c, 360), "full turn must return the input unchanged")
		assert.Equal(t, c, Rotate(c, -720), "negative full turns must return the input unchanged")
	}
}

func TestRotate_Periodicity(t *testing.T) {
	colors := []string{"#FF6B35", "#3498DB", "#D4AF37"}
	degrees := []float64{30, 45, 180, 333, -30, -150}
	for _, c := range colors {
		for _, d := range degrees {
			for _, k := range []float64{-2, -1, 1, 3} {
				assert.Equal(t, Rotate(c, d), Rotate(c, d+360*k),
					"rotation of %s by %v and %v must match", c, d, d+360*k)
			}
		}
	}
}

func TestRotate_AnalogousHueShift(t *testing.T) {
	base := "#FF6B35"
	rotated := Rotate(base, 30)
	require.NotEqual(t, base, rotated)

	h0, s0, l0 := hsl(t, base)
	h1, s1, l1 := hsl(t, rotated)

	delta := math.Mod(h1-h0+360, 360)
	assert.InDelta(t, 30, delta, 1.5, "hue should shift by ~30 degrees")
	assert.InDelta(t, s0, s1, 0.02, "saturation preserved")
	assert.InDelta(t, l0, l1, 0.02, "lightness preserved")
}

func TestRotate_NegativeWrapsBackward(t *testing.T) {
	base := "#FF6B35"
	h0, _, _ := hsl(t, base)
	h1, _, _ := hsl(t, Rotate(base, -30))

	delta := math.Mod(h0-h1+360, 360)
	assert.InDelta(t, 30, delta, 1.5)
}

func TestRotate_MalformedFailsClosed(t *testing.T) {
	inputs := []string{
		"",
		"#FFF",
		"#12345",
		"#GGGGGG",
		"not-a-color",
		"#FF6B355",
		"FF6B3",
	}
	for _, in := range inputs {
		assert.Equal(t, in, Rotate(in, 30), "malformed input %q must pass through", in)
	}
}

func TestRotate_ComplementaryRoundTrip(t *testing.T) {
	base := "#4D9DE0"
	once := Rotate(base, 180)
	twice := Rotate(once, 180)

	// Two half turns land back on the starting hue.
	h0, _, _ := hsl(t, base)
	h2, _, _ := hsl(t, twice)
	assert.InDelta(t, 0, math.Min(math.Abs(h2-h0), 360-math.Abs(h2-h0)), 1.5)
}

func TestDerive_Families(t *testing.T) {
	base, ok := Find(DefaultSchemes(), "vibrant")
	require.True(t, ok)

	tests := []struct {
		name          string
		index         int
		wantID        string
		primaryDelta  float64
		neutralsMatch bool
	}{
		{name: "original", index: 0, wantID: "vibrant", primaryDelta: 0, neutralsMatch: true},
		{name: "analogous", index: 1, wantID: "vibrant-analogous", primaryDelta: 30, neutralsMatch: true},
		{name: "complementary", index: 2, wantID: "vibrant-complementary", primaryDelta: 180, neutralsMatch: true},
		{name: "wide offsets", index: 3, wantID: "vibrant-v3", primaryDelta: 180, neutralsMatch: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			derived := Derive(base, tt.index)
			assert.Equal(t, tt.wantID, derived.ID)
			assert.Len(t, derived.Colors, len(base.Colors))

			h0, _, _ := hsl(t, base.Primary())
			h1, _, _ := hsl(t, derived.Primary())
			delta := math.Mod(h1-h0+360, 360)
			assert.InDelta(t, tt.primaryDelta, delta, 1.5)

			if tt.neutralsMatch {
				assert.Equal(t, base.Neutrals(), derived.Neutrals(), "neutrals are never rotated")
			}
		})
	}
}

func TestDerive_ComplementaryKeepsSecondary(t *testing.T) {
	base, ok := Find(DefaultSchemes(), "corporate")
	require.True(t, ok)

	derived := Derive(base, 2)
	assert.Equal(t, base.Secondary(), derived.Secondary())
}

func TestDefaultSchemes(t *testing.T) {
	schemes := DefaultSchemes()
	require.Len(t, schemes, 4)
	assert.Equal(t, []string{"vibrant", "corporate", "soft", "elegant"}, IDs(schemes))

	for _, s := range schemes {
		assert.Len(t, s.Colors, 5, "preset %s should carry five colors", s.ID)
		for _, c := range s.Colors {
			_, err := colorful.Hex(c)
			assert.NoError(t, err, "preset %s color %s must parse", s.ID, c)
		}
	}

	// Mutating the returned slice must not corrupt the presets.
	schemes[0] = Scheme{ID: "clobbered"}
	fresh := DefaultSchemes()
	assert.Equal(t, "vibrant", fresh[0].ID)
}

func TestSchemeRoleAccessors(t *testing.T) {
	full := Scheme{Colors: []string{"#111111", "#222222", "#333333", "#444444", "#555555"}}
	assert.Equal(t, "#111111", full.Primary())
	assert.Equal(t, "#222222", full.Secondary())
	assert.Equal(t, "#333333", full.Accent())
	assert.Equal(t, []string{"#444444", "#555555"}, full.Neutrals())

	short := Scheme{Colors: []string{"#111111"}}
	assert.Equal(t, "#111111", short.Secondary(), "missing roles fall back to primary")
	assert.Equal(t, "#111111", short.Accent())
	assert.Nil(t, short.Neutrals())

	var empty Scheme
	assert.Equal(t, "", empty.Primary())
}

func TestRotate_OutputsParseableHex(t *testing.T) {
	for _, s := range DefaultSchemes() {
		for i, c := range s.Colors {
			rotated := Rotate(c, float64(30*(i+1)))
			_, err := colorful.Hex(rotated)
			assert.NoError(t, err, fmt.Sprintf("rotated %s -> %s must stay parseable", c, rotated))
		}
	}
}
