package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	hexColorRe = regexp.MustCompile(`#(?:[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})\b`)
	rgbColorRe = regexp.MustCompile(`(?i)\brgb\s?\(\s?(\d{1,3})\s?,\s?(\d{1,3})\s?,\s?(\d{1,3})\s?\)`)
)

// newColorRule matches hex codes, rgb() triples and named colors. All three
// patterns share one rule so that first-occurrence order holds across them.
func newColorRule(v *Vocabulary) (Rule, error) {
	named, err := keywordPattern(v.Colors)
	if err != nil {
		return nil, err
	}
	return &patternRule{
		id:     "brand.colors",
		family: FamilyColor,
		patterns: []pattern{
			{id: "color.hex", re: hexColorRe},
			{id: "color.rgb", re: rgbColorRe, accept: acceptRGB},
			{id: "color.named", re: named},
		},
		canonical: canonicalColor,
	}, nil
}

func acceptRGB(_ *Document, m RawMatch) bool {
	for _, channel := range m.Groups[:3] {
		n, err := strconv.Atoi(channel)
		if err != nil || n > 255 {
			return false
		}
	}
	return true
}

func canonicalColor(m RawMatch) string {
	switch m.PatternID {
	case "color.hex":
		return strings.ToUpper(m.Text)
	case "color.rgb":
		return fmt.Sprintf("RGB(%s, %s, %s)", trimZeros(m.Groups[0]), trimZeros(m.Groups[1]), trimZeros(m.Groups[2]))
	default:
		// Casers carry state, so each call gets its own.
		return cases.Title(language.English).String(foldKey(m.Text))
	}
}

func trimZeros(s string) string {
	n, err := strconv.Atoi(s)
	if err != nil {
		return s
	}
	return strconv.Itoa(n)
}

// newFontRule matches the font vocabulary and reports the display name from
// the table regardless of how the document cased it.
func newFontRule(v *Vocabulary) (Rule, error) {
	re, err := keywordPattern(v.Fonts)
	if err != nil {
		return nil, err
	}
	display := make(map[string]string, len(v.Fonts))
	for _, f := range v.Fonts {
		display[foldKey(f)] = f
	}
	return &patternRule{
		id:       "brand.fonts",
		family:   FamilyFont,
		patterns: []pattern{{id: "font", re: re}},
		canonical: func(m RawMatch) string {
			if name, ok := display[foldKey(m.Text)]; ok {
				return name
			}
			return m.Text
		},
	}, nil
}

// newToneRule matches tone adjectives, but only inside sentences that talk
// about tone, voice or style. "Bold" in "use bold type" is not a tone.
func newToneRule(v *Vocabulary) (Rule, error) {
	re, err := keywordPattern(v.Tones)
	if err != nil {
		return nil, err
	}
	cues, err := keywordPattern(v.ToneCues)
	if err != nil {
		return nil, err
	}
	return &patternRule{
		id:     "brand.tone",
		family: FamilyTone,
		patterns: []pattern{{
			id: "tone",
			re: re,
			accept: func(doc *Document, m RawMatch) bool {
				return cues.MatchString(doc.SentenceText(m.Sentence))
			},
		}},
		canonical: func(m RawMatch) string {
			return foldKey(m.Text)
		},
	}, nil
}
