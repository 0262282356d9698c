package types

import "sort"

// CopyDeck is the advertising copy for one language. Field lengths are enforced
// by prompt instructions, not by this struct; the schema validator checks the
// required fields after parsing.
type CopyDeck struct {
	Language     string   `json:"language"`
	Headline     string   `json:"headline"`
	Subheadline  string   `json:"subheadline,omitempty"`
	PrimaryCTA   string   `json:"primary_cta"`
	SecondaryCTA string   `json:"secondary_cta,omitempty"`
	BulletPoints []string `json:"bullet_points,omitempty"`
	Urgency      string   `json:"urgency,omitempty"`
	KeyBenefit   string   `json:"key_benefit,omitempty"`
	SocialProof  string   `json:"social_proof,omitempty"`
	Guarantee    string   `json:"guarantee,omitempty"`
	FooterText   string   `json:"footer_text,omitempty"`
	// Fallback marks a deck assembled from defaults after repeated parse failures.
	Fallback bool `json:"fallback,omitempty"`
}

// Empty reports whether the deck has no usable headline or call to action.
func (d *CopyDeck) Empty() bool {
	return d == nil || (d.Headline == "" && d.PrimaryCTA == "")
}

// CopySet maps a language code to its copy deck.
type CopySet map[string]*CopyDeck

// Languages returns the language codes present in the set, sorted.
func (s CopySet) Languages() []string {
	langs := make([]string, 0, len(s))
	for code := range s {
		langs = append(langs, code)
	}
	sort.Strings(langs)
	return langs
}

// Get returns the deck for a language, falling back to the given base language
// when the requested one is absent.
func (s CopySet) Get(lang, base string) *CopyDeck {
	if deck, ok := s[lang]; ok && deck != nil {
		return deck
	}
	return s[base]
}
