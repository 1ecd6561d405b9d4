package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	dimensionRe = regexp.MustCompile(`(?i)\b(\d{1,5}(?:\.\d+)?)\s?(px|pt|in|cm|mm)?\s?x\s?(\d{1,5}(?:\.\d+)?)(?:\s?(pixels|px|pt|in|cm|mm))?\b`)
	fileSizeRe  = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s?(kb|mb|gb|kilobytes?|megabytes?|gigabytes?)\b`)
)

var physicalUnits = map[string]bool{"in": true, "cm": true, "mm": true, "pt": true}

// newDimensionRule matches "1080x1080", "300 x 250 px" and "8.5 x 11 in".
// Canonical values are "WxH" with the unit kept only when it is physical.
func newDimensionRule() Rule {
	return &patternRule{
		id:     "technical.dimensions",
		family: FamilyDimension,
		patterns: []pattern{{
			id:     "dimension",
			re:     dimensionRe,
			accept: acceptDimension,
		}},
		canonical: canonicalDimension,
	}
}

func dimensionUnit(m RawMatch) string {
	unit := strings.ToLower(m.Groups[3])
	if unit == "" {
		unit = strings.ToLower(m.Groups[1])
	}
	if unit == "pixels" {
		unit = "px"
	}
	if unit == "in" {
		// "1200x628 in PNG" reads "in" as a preposition, not inches.
		w, _ := strconv.ParseFloat(m.Groups[0], 64)
		h, _ := strconv.ParseFloat(m.Groups[2], 64)
		if w > 100 || h > 100 {
			return ""
		}
	}
	return unit
}

func acceptDimension(_ *Document, m RawMatch) bool {
	if physicalUnits[dimensionUnit(m)] {
		return true
	}
	// Without a physical unit both sides need at least two integer digits.
	return integerDigits(m.Groups[0]) >= 2 && integerDigits(m.Groups[2]) >= 2
}

func canonicalDimension(m RawMatch) string {
	value := m.Groups[0] + "x" + m.Groups[2]
	if unit := dimensionUnit(m); physicalUnits[unit] {
		value += unit
	}
	return value
}

func integerDigits(s string) int {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return i
	}
	return len(s)
}

// newFormatRule matches the closed file format vocabulary. Formats that are
// also common words are only matched in their exact case.
func newFormatRule(v *Vocabulary) (Rule, error) {
	folded, err := compileAlternation(v.Formats, true)
	if err != nil {
		return nil, err
	}
	exact, err := compileAlternation(v.CaseSensitiveFormats, false)
	if err != nil {
		return nil, err
	}
	return &patternRule{
		id:     "technical.formats",
		family: FamilyFormat,
		patterns: []pattern{
			{id: "format", re: folded},
			{id: "format.exact", re: exact},
		},
		canonical: func(m RawMatch) string {
			return strings.ToUpper(m.Text)
		},
	}, nil
}

var fileSizeUnits = map[string]string{
	"kb": "KB", "kilobyte": "KB", "kilobytes": "KB",
	"mb": "MB", "megabyte": "MB", "megabytes": "MB",
	"gb": "GB", "gigabyte": "GB", "gigabytes": "GB",
}

// newFileSizeRule matches sizes such as "5MB" or "150 kb" and renders them
// as "5 MB".
func newFileSizeRule() Rule {
	return &patternRule{
		id:       "technical.file_sizes",
		family:   FamilyFileSize,
		patterns: []pattern{{id: "file_size", re: fileSizeRe}},
		canonical: func(m RawMatch) string {
			return m.Groups[0] + " " + fileSizeUnits[strings.ToLower(m.Groups[1])]
		},
	}
}
