// Package document turns uploaded PDF and DOCX files into plain text.
//
// PDFs are read locally with github.com/ledongthuc/pdf. Scanned PDFs carry no
// text layer, so a Google Cloud OCR backend can be configured either as the
// primary PDF backend or as a fallback when local extraction finds nothing:
//   - vision: Cloud Vision document text detection (first 5 pages, 20MB)
//   - documentai: a Document AI OCR processor
//
// DOCX files are read from word/document.xml.
//
// Required Environment Variables for the OCR backends:
//   - GOOGLE_APPLICATION_CREDENTIALS: Path to service account JSON file, OR
//   - GOOGLE_CREDENTIALS: Inline JSON credentials string
//   - GOOGLE_PROJECT_ID and DOCUMENT_AI_PROCESSOR_ID for documentai
package document

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/unicode/norm"
	"insights/internal/logger"
)

const (
	// DefaultMaxFileSize is the upload limit used when none is configured (10MB).
	DefaultMaxFileSize = 10 * 1024 * 1024

	FormatPDF  = "pdf"
	FormatDOCX = "docx"

	BackendLocal      = "local"
	BackendVision     = "vision"
	BackendDocumentAI = "documentai"

	MethodPDF        = "pdf"
	MethodDOCX       = "docx"
	MethodVision     = "vision_ocr"
	MethodDocumentAI = "document_ai_ocr"
)

// Result is the text of one document.
type Result struct {
	Text      string `json:"text"`
	WordCount int    `json:"word_count"`
	PageCount int    `json:"page_count,omitempty"`
	Format    string `json:"format"`
	Method    string `json:"method"`
}

// OCRBackend reads the text of a PDF through a remote service.
type OCRBackend interface {
	ProcessPDF(ctx context.Context, data []byte) (*Result, error)
	Close() error
}

// Config configures the Parser
type Config struct {
	MaxFileSize int64  // Upload limit in bytes
	PDFBackend  string // local, vision, documentai
	OCRFallback bool   // Use OCR when local PDF extraction finds no text
}

// Parser dispatches uploads to the extractor for their format.
type Parser struct {
	config Config
	ocr    OCRBackend
	log    zerolog.Logger
}

// NewParser creates a parser. ocr may be nil when only local extraction is used.
func NewParser(config Config, ocr OCRBackend) *Parser {
	if config.MaxFileSize <= 0 {
		config.MaxFileSize = DefaultMaxFileSize
	}
	if config.PDFBackend == "" {
		config.PDFBackend = BackendLocal
	}
	return &Parser{
		config: config,
		ocr:    ocr,
		log:    logger.WithComponent("document"),
	}
}

// FormatOf returns the supported format for filename, or "" if there is none.
func FormatOf(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatDOCX
	}
	return ""
}

// Parse extracts the text of data, choosing the extractor from filename.
func (p *Parser) Parse(ctx context.Context, data []byte, filename string) (*Result, error) {
	const op = "Parse"

	format := FormatOf(filename)
	if format == "" {
		return nil, WrapDocumentError(op, ErrUnsupportedFormat, filename)
	}
	if len(data) == 0 {
		return nil, WrapDocumentError(op, ErrEmptyFile, filename)
	}
	if int64(len(data)) > p.config.MaxFileSize {
		return nil, WrapDocumentError(op, ErrFileTooLarge, fmt.Sprintf("file size: %d bytes, limit: %d bytes", len(data), p.config.MaxFileSize))
	}

	var (
		result *Result
		err    error
	)
	switch format {
	case FormatPDF:
		result, err = p.parsePDF(ctx, data)
	case FormatDOCX:
		result, err = extractDOCX(data, p.config.MaxFileSize*docxExpansionLimit)
	}
	if err != nil {
		return nil, WrapDocumentError(op, err, filename)
	}

	result.Text = strings.TrimSpace(norm.NFC.String(result.Text))
	if result.Text == "" {
		return nil, WrapDocumentError(op, ErrNoText, filename)
	}
	result.Format = format
	result.WordCount = len(strings.Fields(result.Text))

	p.log.Debug().
		Str("filename", filename).
		Str("method", result.Method).
		Int("pages", result.PageCount).
		Int("words", result.WordCount).
		Msg("Document parsed")

	return result, nil
}

func (p *Parser) parsePDF(ctx context.Context, data []byte) (*Result, error) {
	if p.config.PDFBackend != BackendLocal {
		if p.ocr == nil {
			return nil, fmt.Errorf("%w: backend %q", ErrOCRUnavailable, p.config.PDFBackend)
		}
		return p.ocr.ProcessPDF(ctx, data)
	}

	result, err := extractPDF(data)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(result.Text) != "" || !p.config.OCRFallback || p.ocr == nil {
		return result, nil
	}

	p.log.Info().
		Int("pages", result.PageCount).
		Msg("PDF has no text layer, falling back to OCR")
	return p.ocr.ProcessPDF(ctx, data)
}

// Close releases the OCR backend, if any.
func (p *Parser) Close() error {
	if p.ocr != nil {
		return p.ocr.Close()
	}
	return nil
}
