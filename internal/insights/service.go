// Package insights wires document parsing, summarization, classification and
// rule-based extraction into a single pipeline.
package insights

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"insights/internal/analysis"
	"insights/internal/document"
	"insights/internal/extract"
	"insights/internal/logger"
	"insights/pkg/models"
	"insights/pkg/services"
)

// DocumentParser turns file bytes into text.
type DocumentParser interface {
	Parse(ctx context.Context, data []byte, filename string) (*document.Result, error)
}

// Service implements services.InsightsService.
type Service struct {
	parser     DocumentParser
	summarizer analysis.Summarizer
	classifier analysis.Classifier
	engine     *extract.Engine
	log        zerolog.Logger
}

var _ services.InsightsService = (*Service)(nil)

// NewService creates the pipeline with explicit dependencies.
func NewService(parser DocumentParser, summarizer analysis.Summarizer, classifier analysis.Classifier, engine *extract.Engine) *Service {
	return &Service{
		parser:     parser,
		summarizer: summarizer,
		classifier: classifier,
		engine:     engine,
		log:        logger.WithComponent("insights"),
	}
}

// ParseDocument extracts plain text from a PDF or DOCX upload.
func (s *Service) ParseDocument(ctx context.Context, data []byte, filename string) (*document.Result, error) {
	return s.parser.Parse(ctx, data, filename)
}

// ExtractFromFile parses the upload and extracts insights from its text.
func (s *Service) ExtractFromFile(ctx context.Context, data []byte, filename string) (*models.InsightsResult, error) {
	start := time.Now()

	parsed, err := s.parser.Parse(ctx, data, filename)
	if err != nil {
		return nil, err
	}

	meta := models.FileMetadata{
		Filename:  filepath.Base(filename),
		FileSize:  int64(len(data)),
		FileType:  strings.ToLower(filepath.Ext(filename)),
		WordCount: parsed.WordCount,
	}
	result := s.ExtractFromText(ctx, parsed.Text, meta)

	s.log.Info().
		Str("filename", meta.Filename).
		Str("document_type", result.DocumentType.Type).
		Int("words", meta.WordCount).
		Int("action_items", len(result.ActionItems)).
		Int("warnings", len(result.Warnings)).
		Dur("duration", time.Since(start)).
		Msg("Insights extracted")

	return result, nil
}

// ExtractFromText summarizes, classifies and runs the rule engine. A failing
// summarizer or classifier degrades to an empty summary and Unknown type.
func (s *Service) ExtractFromText(ctx context.Context, text string, meta models.FileMetadata) *models.InsightsResult {
	summary, err := s.summarizer.Summarize(ctx, text)
	if err != nil {
		s.log.Warn().Err(err).Msg("Summary failed, continuing without one")
		summary = ""
	}

	var docType *models.DocumentType
	if classified, err := s.classifier.Classify(ctx, text); err != nil {
		s.log.Warn().Err(err).Msg("Classification failed, document type unknown")
	} else {
		docType = &classified
	}

	result, failures := s.engine.ExtractWithDiagnostics(extract.Input{
		Text:         text,
		Summary:      summary,
		DocumentType: docType,
		FileMetadata: meta,
	})
	if len(failures) > 0 {
		s.log.Warn().
			Int("failed_rules", len(failures)).
			Str("filename", meta.Filename).
			Msg("Some extraction rules failed")
	}
	return result
}
