package extract

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"insights/pkg/models"
)

const briefText = `Holiday Campaign Brief

Our brand voice is friendly and confident. Primary colors are #FF5733, navy blue and rgb(255, 255, 255).
Headlines use Montserrat; body copy uses open sans.

Deliverables:
- Banners must be 300 x 250, 728x90 and 160×600 px in JPG or PNG, max 150 KB.
- Logo must appear in the top right corner.
- Consider adding a QR code.
- No hashtags.

KPIs: target a CTR of 2.5% and a CPC of $0.50. We will track ROAS weekly.

Assets due 12/01/2024. Launch on December 15, 2024. Review by 2024-11-20.

Alcohol imagery is prohibited. Ensure compliance with local regulations.`

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithLogger(zerolog.Nop())}, opts...)
	e, err := NewEngine(opts...)
	require.NoError(t, err)
	return e
}

func TestExtract_BannerSpecScenario(t *testing.T) {
	e := newTestEngine(t)

	result := e.Extract(Input{Text: "Banner must be 1080x1080 px in JPG or PNG format, under 5 MB. Submit by 12/15/2024."})

	assert.Equal(t, []string{"1080x1080"}, result.TechnicalSpecs.Dimensions)
	assert.Equal(t, []string{"JPG", "PNG"}, result.TechnicalSpecs.Formats)
	assert.Equal(t, []string{"5 MB"}, result.TechnicalSpecs.FileSizes)

	require.Len(t, result.Deadlines, 1)
	assert.Equal(t, "2024-12-15", result.Deadlines[0].Date)
	assert.Equal(t, "submission", result.Deadlines[0].Type)
	assert.Equal(t, "Submit by 12/15/2024.", result.Deadlines[0].Context)

	require.NotEmpty(t, result.ActionItems)
	assert.Equal(t, "Banner must be 1080x1080 px in JPG or PNG format, under 5 MB.", result.ActionItems[0].Task)
	assert.Equal(t, models.PriorityHigh, result.ActionItems[0].Priority)
}

func TestExtract_NoMatches(t *testing.T) {
	e := newTestEngine(t)

	result := e.Extract(Input{Text: "Hello there, this is a plain note about nothing in particular."})

	assert.Empty(t, result.TechnicalSpecs.Dimensions)
	assert.Empty(t, result.TechnicalSpecs.Formats)
	assert.Empty(t, result.TechnicalSpecs.FileSizes)
	assert.Empty(t, result.BrandGuidelines.Colors)
	assert.Empty(t, result.BrandGuidelines.Fonts)
	assert.Empty(t, result.BrandGuidelines.Tone)
	assert.Empty(t, result.KPIs)
	assert.Empty(t, result.Deadlines)
	assert.Empty(t, result.ActionItems)
	assert.Empty(t, result.Warnings)
	assert.Empty(t, result.CreativeRequirements.MustHave)
	assert.Empty(t, result.CreativeRequirements.Optional)
}

func TestExtract_ColorsKeepFirstOccurrenceOrder(t *testing.T) {
	e := newTestEngine(t)

	result := e.Extract(Input{Text: "Brand colors are #FF5733 and Blue. Accent in blue and #ff5733."})

	assert.Equal(t, []string{"#FF5733", "Blue"}, result.BrandGuidelines.Colors)
}

func TestExtract_RepeatedKPIMergesToOneEntry(t *testing.T) {
	e := newTestEngine(t)

	result := e.Extract(Input{Text: "CTR is our primary metric. We will report CTR weekly. Target CTR of 2.5% across placements."})

	data, err := json.Marshal(result.KPIs)
	require.NoError(t, err)
	assert.JSONEq(t, `{"CTR":"2.5%"}`, string(data))
}

func TestExtract_EmptyInput(t *testing.T) {
	e := newTestEngine(t)

	result, errs := e.ExtractWithDiagnostics(Input{Text: "  \n\t "})
	assert.Empty(t, errs)

	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"summary": "",
		"document_type": {"type": "Unknown", "confidence": 0},
		"creative_requirements": {"must_have": [], "optional": []},
		"technical_specs": {"dimensions": [], "formats": [], "file_sizes": []},
		"brand_guidelines": {"colors": [], "fonts": [], "tone": []},
		"kpis": {},
		"deadlines": [],
		"action_items": [],
		"warnings": [],
		"file_metadata": {"filename": "", "file_size": 0, "file_type": "", "text_length": 0, "word_count": 0}
	}`, string(data))
}

func TestExtract_PassesThroughSummaryAndDocumentType(t *testing.T) {
	e := newTestEngine(t)

	result := e.Extract(Input{
		Text:         "Use JPG.",
		Summary:      "A short brief.",
		DocumentType: &models.DocumentType{Type: "Ad Specs", Confidence: 1.4},
		FileMetadata: models.FileMetadata{Filename: "brief.pdf", FileSize: 1024, FileType: ".pdf"},
	})

	assert.Equal(t, "A short brief.", result.Summary)
	assert.Equal(t, models.DocumentType{Type: "Ad Specs", Confidence: 1}, result.DocumentType)
	assert.Equal(t, "brief.pdf", result.FileMetadata.Filename)
	assert.Equal(t, 8, result.FileMetadata.TextLength)
	assert.Equal(t, 2, result.FileMetadata.WordCount)
}

func TestExtract_FullBrief(t *testing.T) {
	e := newTestEngine(t)

	result := e.Extract(Input{Text: briefText})

	assert.Equal(t, []string{"300x250", "728x90", "160x600"}, result.TechnicalSpecs.Dimensions)
	assert.Equal(t, []string{"JPG", "PNG"}, result.TechnicalSpecs.Formats)
	assert.Equal(t, []string{"150 KB"}, result.TechnicalSpecs.FileSizes)

	assert.Equal(t, []string{"#FF5733", "Navy Blue", "RGB(255, 255, 255)"}, result.BrandGuidelines.Colors)
	assert.Equal(t, []string{"Montserrat", "Open Sans"}, result.BrandGuidelines.Fonts)
	assert.Equal(t, []string{"friendly", "confident"}, result.BrandGuidelines.Tone)

	assert.Equal(t, []string{"CTR", "CPC", "ROAS"}, result.KPIs.Names())
	ctr, _ := result.KPIs.Get("CTR")
	require.NotNil(t, ctr)
	assert.Equal(t, "2.5%", *ctr)
	cpc, _ := result.KPIs.Get("CPC")
	require.NotNil(t, cpc)
	assert.Equal(t, "$0.50", *cpc)
	roas, _ := result.KPIs.Get("ROAS")
	assert.Nil(t, roas)

	require.Len(t, result.Deadlines, 3)
	assert.Equal(t, models.Deadline{Date: "2024-11-20", Type: "review", Context: "Review by 2024-11-20.", Description: "Review deadline"}, result.Deadlines[0])
	assert.Equal(t, "2024-12-01", result.Deadlines[1].Date)
	assert.Equal(t, "submission", result.Deadlines[1].Type)
	assert.Equal(t, "2024-12-15", result.Deadlines[2].Date)
	assert.Equal(t, "launch", result.Deadlines[2].Type)

	require.Len(t, result.Warnings, 2)
	assert.Equal(t, models.Warning{Message: "Alcohol imagery is prohibited.", Severity: models.SeverityHigh, Keyword: "prohibited"}, result.Warnings[0])
	assert.Equal(t, models.Warning{Message: "Ensure compliance with local regulations.", Severity: models.SeverityMedium, Keyword: "compliance"}, result.Warnings[1])

	assert.Equal(t, []string{
		"Include headline",
		"Include brand logo",
		"Use specified brand colors",
		"Use specified fonts/typography",
		"Use file formats: JPG, PNG",
	}, result.CreativeRequirements.MustHave)
	assert.Equal(t, []string{"Include QR code"}, result.CreativeRequirements.Optional)

	tasks := make(map[string]models.Priority)
	for _, item := range result.ActionItems {
		tasks[item.Task] = item.Priority
	}
	assert.Equal(t, models.PriorityHigh, tasks["Logo must appear in the top right corner."])
	assert.Equal(t, models.PriorityLow, tasks["Consider adding a QR code."])
	assert.Equal(t, models.PriorityUnspecified, tasks["Ensure compliance with local regulations."])
}

func TestExtract_SequentialEqualsConcurrent(t *testing.T) {
	sequential := newTestEngine(t, WithWorkers(1))
	concurrent := newTestEngine(t, WithWorkers(16))

	for range 5 {
		a, err := json.Marshal(sequential.Extract(Input{Text: briefText}))
		require.NoError(t, err)
		b, err := json.Marshal(concurrent.Extract(Input{Text: briefText}))
		require.NoError(t, err)
		assert.Equal(t, string(a), string(b))
	}
}

func TestExtract_DedupLaw(t *testing.T) {
	e := newTestEngine(t)
	text := briefText + "\n\n" + briefText

	result := e.Extract(Input{Text: text})

	for name, values := range map[string][]string{
		"dimensions": result.TechnicalSpecs.Dimensions,
		"formats":    result.TechnicalSpecs.Formats,
		"file_sizes": result.TechnicalSpecs.FileSizes,
		"colors":     result.BrandGuidelines.Colors,
		"fonts":      result.BrandGuidelines.Fonts,
		"tone":       result.BrandGuidelines.Tone,
		"must_have":  result.CreativeRequirements.MustHave,
	} {
		assert.Equal(t, Dedupe(values), values, name)
	}
	assert.Len(t, result.Deadlines, 3)
	assert.Len(t, result.Warnings, 2)
	assert.Len(t, result.KPIs, 3)
}

type panickingRule struct{}

func (panickingRule) ID() string     { return "test.panic" }
func (panickingRule) Family() Family { return FamilyColor }

func (panickingRule) Find(*Document) []RawMatch {
	panic("boom")
}

func TestExtract_RuleFailureEmptiesOnlyItsFamily(t *testing.T) {
	e := newTestEngine(t, WithRules(panickingRule{}))

	result, errs := e.ExtractWithDiagnostics(Input{Text: "Use #FF5733 in JPG format."})

	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], ErrRuleFailed))
	var ruleErr *RuleError
	require.True(t, errors.As(errs[0], &ruleErr))
	assert.Equal(t, "test.panic", ruleErr.Rule)
	assert.Equal(t, FamilyColor, ruleErr.Family)

	assert.Empty(t, result.BrandGuidelines.Colors)
	assert.Equal(t, []string{"JPG"}, result.TechnicalSpecs.Formats)
}

func TestExtract_CustomVocabulary(t *testing.T) {
	v := DefaultVocabulary()
	v.KPIs = append(v.KPIs, Term{Name: "ACoS", Aliases: []string{"acos", "advertising cost of sale"}})
	e := newTestEngine(t, WithVocabulary(v))

	result := e.Extract(Input{Text: "Keep advertising cost of sale below 20%."})

	assert.Equal(t, []string{"ACoS"}, result.KPIs.Names())
}
