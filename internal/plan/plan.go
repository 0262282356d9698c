// Package plan expands the requested variant axes (color scheme, layout format,
// language) into the flat, deterministically ordered work list the design stage
// consumes. Depends on configuration only.
package plan

import (
	"fmt"

	"github.com/rafael/adforge/internal/palette"
	"github.com/rafael/adforge/internal/types"
)

// Format is a supported layout format. Tag is the filename-safe spelling of the
// id used in canonical artifact names.
type Format struct {
	ID     string `json:"id"`
	Tag    string `json:"tag"`
	Label  string `json:"label"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Language is a supported copy language.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Built-in axes. Product data, overridable through configuration.
var (
	defaultFormats = []Format{
		{ID: "1:1", Tag: "1x1", Label: "Square feed", Width: 1024, Height: 1024},
		{ID: "9:16", Tag: "9x16", Label: "Vertical stories", Width: 1024, Height: 1536},
	}

	defaultLanguages = []Language{
		{Code: "pt", Name: "Português"},
		{Code: "en", Name: "English"},
		{Code: "es", Name: "Español"},
	}
)

// DefaultFormats returns the built-in formats in canonical order.
func DefaultFormats() []Format {
	out := make([]Format, len(defaultFormats))
	copy(out, defaultFormats)
	return out
}

// DefaultLanguages returns the built-in languages in canonical order.
func DefaultLanguages() []Language {
	out := make([]Language, len(defaultLanguages))
	copy(out, defaultLanguages)
	return out
}

// FindFormat returns the format with the given id.
func FindFormat(formats []Format, id string) (Format, bool) {
	for _, f := range formats {
		if f.ID == id {
			return f, true
		}
	}
	return Format{}, false
}

// FindLanguage returns the language with the given code.
func FindLanguage(languages []Language, code string) (Language, bool) {
	for _, l := range languages {
		if l.Code == code {
			return l, true
		}
	}
	return Language{}, false
}

// Tier restricts which members of each axis are active for a run. The zero
// value means "everything".
type Tier struct {
	ID        string   `json:"id"`
	Schemes   []string `json:"schemes,omitempty"`
	Formats   []string `json:"formats,omitempty"`
	Languages []string `json:"languages,omitempty"`
}

// Built-in quantity tiers.
const (
	TierMinimal  = "minimal"
	TierStandard = "standard"
	TierFull     = "full"
)

// DefaultTiers returns the built-in quantity tiers. An empty axis list in a
// tier selects every configured member of that axis.
func DefaultTiers() []Tier {
	return []Tier{
		{ID: TierMinimal, Schemes: []string{"vibrant"}, Formats: []string{"1:1"}, Languages: []string{"pt"}},
		{ID: TierStandard, Schemes: []string{"vibrant", "corporate"}, Formats: []string{"1:1"}, Languages: []string{"pt", "en"}},
		{ID: TierFull},
	}
}

// FindTier returns the tier with the given id.
func FindTier(tiers []Tier, id string) (Tier, bool) {
	for _, tier := range tiers {
		if tier.ID == id {
			return tier, true
		}
	}
	return Tier{}, false
}

// ComposeTier resolves a named tier and overlays explicit axis restrictions on
// it. An empty id starts from the unrestricted tier; explicit lists always win
// over the named tier's.
func ComposeTier(id string, schemes, formats, languages []string) (Tier, error) {
	tier := Tier{ID: id}
	if id != "" {
		found, ok := FindTier(DefaultTiers(), id)
		if !ok {
			return Tier{}, fmt.Errorf("unknown tier %q (want minimal, standard, or full)", id)
		}
		tier = found
	}
	if len(schemes) > 0 {
		tier.Schemes = schemes
	}
	if len(formats) > 0 {
		tier.Formats = formats
	}
	if len(languages) > 0 {
		tier.Languages = languages
	}
	return tier, nil
}

// Variant is one unit of image-synthesis work: a concrete (scheme, format,
// language) combination plus its position in canonical order.
type Variant struct {
	Scheme   palette.Scheme
	Format   Format
	Language Language
	Index    int
}

// Ref converts the variant to the lightweight tuple stored in artifacts.
func (v Variant) Ref() types.VariantRef {
	return types.VariantRef{
		Scheme:   v.Scheme.ID,
		Format:   v.Format.ID,
		Language: v.Language.Code,
		Index:    v.Index,
	}
}

// Key returns the canonical scheme/format/language identifier.
func (v Variant) Key() string {
	return fmt.Sprintf("%s/%s/%s", v.Scheme.ID, v.Format.ID, v.Language.Code)
}

// Expand builds the cross-product of the tier-restricted axes as a flat list in
// color-major order (scheme, then format, then language), so regeneration with
// identical inputs reproduces identical naming and ordering. Unknown ids in the
// tier are skipped and reported as warnings, never as failures.
func Expand(tier Tier, schemes []palette.Scheme, formats []Format, languages []Language) ([]Variant, []string) {
	var warnings []string

	activeSchemes := make([]palette.Scheme, 0, len(schemes))
	for _, id := range orAll(tier.Schemes, palette.IDs(schemes)) {
		s, ok := palette.Find(schemes, id)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown color scheme %q, skipping", id))
			continue
		}
		activeSchemes = append(activeSchemes, s)
	}

	activeFormats := make([]Format, 0, len(formats))
	for _, id := range orAll(tier.Formats, formatIDs(formats)) {
		f, ok := FindFormat(formats, id)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown format %q, skipping", id))
			continue
		}
		activeFormats = append(activeFormats, f)
	}

	activeLanguages := make([]Language, 0, len(languages))
	for _, code := range orAll(tier.Languages, languageCodes(languages)) {
		l, ok := FindLanguage(languages, code)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown language %q, skipping", code))
			continue
		}
		activeLanguages = append(activeLanguages, l)
	}

	variants := make([]Variant, 0, len(activeSchemes)*len(activeFormats)*len(activeLanguages))
	index := 0
	for _, s := range activeSchemes {
		for _, f := range activeFormats {
			for _, l := range activeLanguages {
				variants = append(variants, Variant{
					Scheme:   s,
					Format:   f,
					Language: l,
					Index:    index,
				})
				index++
			}
		}
	}

	return variants, warnings
}

// orAll returns the restriction when present, otherwise the full axis.
func orAll(restriction, all []string) []string {
	if len(restriction) == 0 {
		return all
	}
	return restriction
}

func formatIDs(formats []Format) []string {
	out := make([]string, len(formats))
	for i, f := range formats {
		out[i] = f.ID
	}
	return out
}

func languageCodes(languages []Language) []string {
	out := make([]string, len(languages))
	for i, l := range languages {
		out[i] = l.Code
	}
	return out
}
