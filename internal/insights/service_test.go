package insights

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"insights/internal/analysis"
	"insights/internal/document"
	"insights/internal/extract"
	"insights/pkg/models"
)

type failingSummarizer struct{}

func (failingSummarizer) Summarize(context.Context, string) (string, error) {
	return "", errors.New("model unavailable")
}

type failingClassifier struct{}

func (failingClassifier) Classify(context.Context, string) (models.DocumentType, error) {
	return models.DocumentType{}, errors.New("classifier unavailable")
}

func docx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var body bytes.Buffer
	for _, p := range paragraphs {
		body.WriteString("<w:p><w:r><w:t>" + p + "</w:t></w:r></w:p>")
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body.String() + `</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func newTestService(t *testing.T, summarizer analysis.Summarizer, classifier analysis.Classifier) *Service {
	t.Helper()
	engine, err := extract.NewEngine(extract.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	return NewService(document.NewParser(document.Config{}, nil), summarizer, classifier, engine)
}

func TestService_ExtractFromFile(t *testing.T) {
	s := newTestService(t, analysis.NewExtractiveSummarizer(), analysis.NewKeywordClassifier())
	data := docx(t,
		"Creative Brief",
		"We are launching Sparkle Soda at Target this summer to drive awareness.",
		"Banners must be 300x250 in PNG format.",
		"Assets due 2024-06-01.",
	)

	result, err := s.ExtractFromFile(context.Background(), data, "uploads/Summer Brief.DOCX")
	require.NoError(t, err)

	assert.Equal(t, "Launch Sparkle Soda at Target, building awareness during summer.", result.Summary)
	assert.Equal(t, "Creative Brief", result.DocumentType.Type)
	assert.Equal(t, []string{"300x250"}, result.TechnicalSpecs.Dimensions)
	assert.Equal(t, []string{"PNG"}, result.TechnicalSpecs.Formats)
	require.Len(t, result.Deadlines, 1)
	assert.Equal(t, "2024-06-01", result.Deadlines[0].Date)

	assert.Equal(t, "Summer Brief.DOCX", result.FileMetadata.Filename)
	assert.Equal(t, ".docx", result.FileMetadata.FileType)
	assert.Equal(t, int64(len(data)), result.FileMetadata.FileSize)
	assert.Positive(t, result.FileMetadata.WordCount)
	assert.Positive(t, result.FileMetadata.TextLength)
}

func TestService_ExtractFromFile_ParseError(t *testing.T) {
	s := newTestService(t, analysis.NewExtractiveSummarizer(), analysis.NewKeywordClassifier())

	_, err := s.ExtractFromFile(context.Background(), []byte("hello"), "notes.txt")
	assert.ErrorIs(t, err, document.ErrUnsupportedFormat)
}

func TestService_ExtractFromText_CollaboratorFailures(t *testing.T) {
	s := newTestService(t, failingSummarizer{}, failingClassifier{})

	result := s.ExtractFromText(context.Background(), "Logo must appear in the top right corner.", models.FileMetadata{Filename: "brief.pdf"})
	assert.Empty(t, result.Summary)
	assert.Equal(t, models.UnknownDocumentType(), result.DocumentType)
	assert.Equal(t, "brief.pdf", result.FileMetadata.Filename)
	require.Len(t, result.ActionItems, 1)
	assert.Equal(t, models.PriorityHigh, result.ActionItems[0].Priority)
}

func TestService_ParseDocument(t *testing.T) {
	s := newTestService(t, analysis.NewExtractiveSummarizer(), analysis.NewKeywordClassifier())

	result, err := s.ParseDocument(context.Background(), docx(t, "Hello", "World"), "a.docx")
	require.NoError(t, err)
	assert.Equal(t, "Hello\nWorld", result.Text)
	assert.Equal(t, 2, result.WordCount)
}
