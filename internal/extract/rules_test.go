package extract

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findCanonical(t *testing.T, rule Rule, text string) []string {
	t.Helper()
	var out []string
	for _, m := range rule.Find(Normalize(text)) {
		out = append(out, canonical(rule, m))
	}
	return out
}

func TestDimensionRule(t *testing.T) {
	rule := newDimensionRule()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"pixel sizes", "Sizes: 300 x 250, 728x90 and 160×600 px.", []string{"300x250", "728x90", "160x600"}},
		{"physical unit kept", "Print at 8.5 x 11 in.", []string{"8.5x11in"}},
		{"in as preposition", "Deliver 1200x628 in PNG.", []string{"1200x628"}},
		{"unit on both sides", "Use 300px x 250px.", []string{"300x250"}},
		{"centimetres", "Poster 50 x 70 cm.", []string{"50x70cm"}},
		{"single digits rejected", "A 2x3 grid and a 4x ROAS.", nil},
		{"bare number rejected", "Target 1080 views.", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, findCanonical(t, rule, tt.text))
		})
	}
}

func TestFormatRule(t *testing.T) {
	rule, err := newFormatRule(DefaultVocabulary())
	require.NoError(t, err)

	got := findCanonical(t, rule, "Deliver as jpeg, Png or .gif; AI source files, not ai. HTML5 only.")
	assert.Equal(t, []string{"JPEG", "PNG", "GIF", "AI", "HTML5"}, got)
}

func TestFileSizeRule(t *testing.T) {
	got := findCanonical(t, newFileSizeRule(), "Max 5MB per file, 150 kb for banners, 1.5 gigabytes total.")
	assert.Equal(t, []string{"5 MB", "150 KB", "1.5 GB"}, got)
}

func TestColorRule(t *testing.T) {
	rule, err := newColorRule(DefaultVocabulary())
	require.NoError(t, err)

	got := findCanonical(t, rule, "Use navy blue, #fff, rgb(255, 0, 0) and rgb(300, 0, 0). Avoid #12345.")
	assert.Equal(t, []string{"Navy Blue", "#FFF", "RGB(255, 0, 0)"}, got)
}

func TestFontRule(t *testing.T) {
	rule, err := newFontRule(DefaultVocabulary())
	require.NoError(t, err)

	got := findCanonical(t, rule, "Headlines in montserrat, body in OPEN SANS, legal in Helvetica Neue.")
	assert.Equal(t, []string{"Montserrat", "Open Sans", "Helvetica Neue"}, got)
}

func TestToneRule_RequiresToneCue(t *testing.T) {
	rule, err := newToneRule(DefaultVocabulary())
	require.NoError(t, err)

	got := findCanonical(t, rule, "Our brand voice is Friendly and confident. The bold CTA stands out.")
	assert.Equal(t, []string{"friendly", "confident"}, got)
}

func TestKPIRule_Values(t *testing.T) {
	rule, err := newKPIRule(DefaultVocabulary())
	require.NoError(t, err)

	tests := []struct {
		name  string
		text  string
		names []string
		want  []string
	}{
		{"value after name", "Target a CTR of 2.5% and a CPC of $0.50.", []string{"CTR", "CPC"}, []string{"2.5%", "$0.50"}},
		{"value before name", "Expect 2.5 % click-through rate overall.", []string{"CTR"}, []string{"2.5%"}},
		{"multiplier", "ROAS 4x by Q4.", []string{"ROAS"}, []string{"4x"}},
		{"dates are not values", "Report CTR on 12/15/2024.", []string{"CTR"}, []string{""}},
		{"dimensions are not values", "CTR for 300x250 units.", []string{"CTR"}, []string{""}},
		{"value stays in its sentence", "Track CPM. Budget is 5000.", []string{"CPM"}, []string{""}},
		{"long form alias", "Return on ad spend above 3.5x.", []string{"ROAS"}, []string{"3.5x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := rule.Find(Normalize(tt.text))
			var names, values []string
			for _, m := range matches {
				names = append(names, m.Groups[0])
				values = append(values, m.Groups[1])
			}
			assert.Equal(t, tt.names, names)
			assert.Equal(t, tt.want, values)
		})
	}
}

func TestDeadlineRule(t *testing.T) {
	rule, err := newDeadlineRule(DefaultVocabulary())
	require.NoError(t, err)

	tests := []struct {
		name  string
		text  string
		dates []string
		types []string
	}{
		{"us numeric", "Submit by 12/15/2024.", []string{"2024-12-15"}, []string{"submission"}},
		{"day first when month exceeds 12", "Assets due 25/12/2024.", []string{"2024-12-25"}, []string{"submission"}},
		{"month name", "Launch on Jan. 5th, 2025.", []string{"2025-01-05"}, []string{"launch"}},
		{"day month year", "Final files 3 March 2025.", []string{"2025-03-03"}, []string{"final"}},
		{"iso", "Review by 2024-11-20.", []string{"2024-11-20"}, []string{"review"}},
		{"unparsable kept verbatim", "Go live 31/31/2024.", []string{"31/31/2024"}, []string{"launch"}},
		{"no keyword", "Dated 2024-01-02.", []string{"2024-01-02"}, []string{""}},
		{"two dates one sentence", "Review on 2024-03-01 and launch on 2024-03-15.", []string{"2024-03-01", "2024-03-15"}, []string{"review", "launch"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dates, types []string
			for _, m := range rule.Find(Normalize(tt.text)) {
				dates = append(dates, m.Groups[0])
				types = append(types, m.Groups[1])
			}
			assert.Equal(t, tt.dates, dates)
			assert.Equal(t, tt.types, types)
		})
	}
}

func TestCreativeRule(t *testing.T) {
	v := DefaultVocabulary()
	c, err := NewClassifier(v)
	require.NoError(t, err)
	rule, err := newCreativeRule(v, c)
	require.NoError(t, err)

	matches := rule.Find(Normalize("Logo must appear top right. Consider adding a QR code. No hashtags. Include a clear CTA."))

	var got [][]string
	for _, m := range matches {
		got = append(got, m.Groups)
	}
	assert.Equal(t, [][]string{
		{"brand logo", "must_have"},
		{"QR code", "optional"},
		{"call to action", "must_have"},
	}, got)
}

func TestResolveOverlaps(t *testing.T) {
	got := resolveOverlaps([]RawMatch{
		{Text: "blue", Start: 5, End: 9},
		{Text: "navy blue", Start: 0, End: 9},
		{Text: "navy blue", Start: 0, End: 9},
		{Text: "blue green", Start: 5, End: 15},
	})

	require.Len(t, got, 2)
	assert.Equal(t, "navy blue", got[0].Text)
	assert.Equal(t, "blue green", got[1].Text)
}

func TestNewEngine_RuleSet(t *testing.T) {
	e, err := NewEngine(WithLogger(zerolog.Nop()))
	require.NoError(t, err)

	families := make(map[Family]bool)
	for _, r := range e.Rules() {
		families[r.Family()] = true
	}
	for _, f := range []Family{
		FamilyDimension, FamilyFormat, FamilyFileSize, FamilyColor, FamilyFont, FamilyTone,
		FamilyKPI, FamilyDeadline, FamilyActionItem, FamilyWarning, FamilyCreative,
	} {
		assert.True(t, families[f], "missing rule for %s", f)
	}
	assert.Equal(t, VocabularyVersion, e.Vocabulary().Version)
}
