package extract

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// RulesFile is the on-disk form of vocabulary overrides. Lists extend the
// built-in tables unless Replace is set, in which case non-empty lists
// replace them.
//
//	version = "acme-2024-11"
//	colors = ["sunset orange"]
//
//	[[kpis]]
//	name = "ACoS"
//	aliases = ["acos", "advertising cost of sale"]
//
//	[priority]
//	high = ["non-negotiable"]
type RulesFile struct {
	Replace bool `toml:"replace"`
	Vocabulary
}

// LoadVocabulary reads a TOML rules file and merges it over the built-in
// tables. An empty path returns the built-in tables.
func LoadVocabulary(path string) (*Vocabulary, error) {
	const op = "LoadVocabulary"

	base := DefaultVocabulary()
	if path == "" {
		return base, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapConfigError(op, fmt.Errorf("%w: %v", ErrRulesFile, err), path)
	}
	return ParseVocabulary(data)
}

// ParseVocabulary decodes TOML rules data and merges it over the built-in
// tables.
func ParseVocabulary(data []byte) (*Vocabulary, error) {
	const op = "ParseVocabulary"

	var file RulesFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, WrapConfigError(op, fmt.Errorf("%w: %v", ErrRulesFile, err), "decode TOML")
	}
	return DefaultVocabulary().Merge(&file.Vocabulary, file.Replace), nil
}

// Merge returns a copy of v with other applied on top. With replace set,
// every non-empty table in other replaces the matching table in v;
// otherwise tables are appended.
func (v *Vocabulary) Merge(other *Vocabulary, replace bool) *Vocabulary {
	out := *v
	if other.Version != "" {
		out.Version = other.Version
	}

	strs := func(base, extra []string) []string {
		if len(extra) == 0 {
			return append([]string(nil), base...)
		}
		if replace {
			return append([]string(nil), extra...)
		}
		return append(append([]string(nil), base...), extra...)
	}
	terms := func(base, extra []Term) []Term {
		if len(extra) == 0 {
			return append([]Term(nil), base...)
		}
		if replace {
			return append([]Term(nil), extra...)
		}
		merged := append([]Term(nil), base...)
		for _, t := range extra {
			found := false
			for i := range merged {
				if foldKey(merged[i].Name) == foldKey(t.Name) {
					merged[i].Aliases = append(append([]string(nil), merged[i].Aliases...), t.Aliases...)
					found = true
					break
				}
			}
			if !found {
				merged = append(merged, t)
			}
		}
		return merged
	}
	tiers := func(base, extra Tiers) Tiers {
		return Tiers{
			High:   strs(base.High, extra.High),
			Medium: strs(base.Medium, extra.Medium),
			Low:    strs(base.Low, extra.Low),
		}
	}

	out.Formats = strs(v.Formats, other.Formats)
	out.CaseSensitiveFormats = strs(v.CaseSensitiveFormats, other.CaseSensitiveFormats)
	out.Colors = strs(v.Colors, other.Colors)
	out.Fonts = strs(v.Fonts, other.Fonts)
	out.Tones = strs(v.Tones, other.Tones)
	out.ToneCues = strs(v.ToneCues, other.ToneCues)
	out.KPIs = terms(v.KPIs, other.KPIs)
	out.DeadlineTypes = terms(v.DeadlineTypes, other.DeadlineTypes)
	out.CreativeElements = terms(v.CreativeElements, other.CreativeElements)
	out.ActionKeywords = strs(v.ActionKeywords, other.ActionKeywords)
	out.WarningKeywords = strs(v.WarningKeywords, other.WarningKeywords)
	out.Negations = strs(v.Negations, other.Negations)
	out.Priority = tiers(v.Priority, other.Priority)
	out.Severity = tiers(v.Severity, other.Severity)
	return &out
}
