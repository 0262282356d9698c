package palette

// Preset schemes. Product data, not part of the engine's contract: the config
// file may replace or extend them.
var presets = []Scheme{
	{
		ID:          "vibrant",
		Label:       "Vibrant",
		Description: "High-energy warm tones for consumer campaigns",
		Colors:      []string{"#FF6B35", "#F7931E", "#FFD23F", "#06FFA5", "#4D9DE0"},
	},
	{
		ID:          "corporate",
		Label:       "Corporate",
		Description: "Sober blues and grays for institutional messaging",
		Colors:      []string{"#2C3E50", "#3498DB", "#E74C3C", "#F39C12", "#95A5A6"},
	},
	{
		ID:          "soft",
		Label:       "Soft",
		Description: "Muted pastels for lifestyle and wellness",
		Colors:      []string{"#D4B5A0", "#A8DADC", "#457B9D", "#1D3557", "#F1FAEE"},
	},
	{
		ID:          "elegant",
		Label:       "Elegant",
		Description: "Earth and gold accents for premium positioning",
		Colors:      []string{"#8B5A3C", "#D4AF37", "#C0392B", "#2C3E50", "#7F8C8D"},
	},
}

// DefaultSchemes returns the built-in schemes in canonical order. The slice is
// a copy; callers may append or reorder freely.
func DefaultSchemes() []Scheme {
	out := make([]Scheme, len(presets))
	copy(out, presets)
	return out
}

// Find returns the scheme with the given id from the provided set.
func Find(schemes []Scheme, id string) (Scheme, bool) {
	for _, s := range schemes {
		if s.ID == id {
			return s, true
		}
	}
	return Scheme{}, false
}

// IDs returns the ids of the given schemes in order.
func IDs(schemes []Scheme) []string {
	out := make([]string, len(schemes))
	for i, s := range schemes {
		out[i] = s.ID
	}
	return out
}
