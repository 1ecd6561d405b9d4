package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"insights/internal/analysis"
	"insights/internal/config"
	"insights/internal/document"
	"insights/internal/extract"
	"insights/internal/insights"
)

// pipeline bundles the service with the resources that must be released.
type pipeline struct {
	service *insights.Service
	parser  *document.Parser
}

func (p *pipeline) Close() error {
	return p.parser.Close()
}

// loadConfig reads the environment configuration. main has already loaded .env.
func loadConfig(log zerolog.Logger) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("Invalid configuration")
		return nil, err
	}
	return cfg, nil
}

// createPipeline wires parser, summarizer, classifier and rule engine from cfg.
func createPipeline(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*pipeline, error) {
	vocab, err := extract.LoadVocabulary(cfg.RulesFile)
	if err != nil {
		log.Error().Err(err).Str("rules_file", cfg.RulesFile).Msg("Failed to load rules file")
		return nil, fmt.Errorf("failed to load rules file: %w", err)
	}

	engine, err := extract.NewEngine(extract.WithVocabulary(vocab))
	if err != nil {
		return nil, fmt.Errorf("failed to build extraction engine: %w", err)
	}

	var ocrBackend document.OCRBackend
	if cfg.NeedsOCR() {
		ocrBackend, err = createOCRBackend(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
	}
	parser := document.NewParser(document.Config{
		MaxFileSize: cfg.MaxFileSize,
		PDFBackend:  cfg.PDFBackend,
		OCRFallback: cfg.OCRFallback,
	}, ocrBackend)

	var summarizer analysis.Summarizer = analysis.NewExtractiveSummarizer()
	if cfg.SummaryProvider == config.SummaryOpenAI {
		summarizer = analysis.NewOpenAISummarizer(openai.NewClient(cfg.OpenAIAPIKey), analysis.OpenAIConfig{
			Model:       cfg.OpenAIModel,
			Temperature: cfg.OpenAITemperature,
			MaxRetries:  cfg.OpenAIMaxRetries,
		}, summarizer)
	}

	log.Debug().
		Str("pdf_backend", cfg.PDFBackend).
		Bool("ocr_fallback", cfg.OCRFallback).
		Str("summary_provider", cfg.SummaryProvider).
		Str("vocabulary", vocab.Version).
		Msg("Pipeline ready")

	return &pipeline{
		service: insights.NewService(parser, summarizer, analysis.NewKeywordClassifier(), engine),
		parser:  parser,
	}, nil
}

// createOCRBackend creates the Google Cloud OCR client for scanned PDFs
func createOCRBackend(ctx context.Context, cfg *config.Config, log zerolog.Logger) (document.OCRBackend, error) {
	creds := document.Credentials{JSON: cfg.GoogleCredentials, File: cfg.GoogleCredentialsFile}

	var (
		backend document.OCRBackend
		err     error
	)
	switch cfg.OCRBackend() {
	case document.BackendDocumentAI:
		backend, err = document.NewDocumentAIOCR(ctx, document.DocumentAIConfig{
			ProjectID:        cfg.GoogleCloudProject,
			Location:         cfg.GoogleCloudLocation,
			ProcessorID:      cfg.DocumentAIProcessorID,
			ProcessorVersion: cfg.DocumentAIProcessorVersion,
			Credentials:      creds,
		})
	default:
		backend, err = document.NewVisionOCR(ctx, creds)
	}
	if err != nil {
		if errors.Is(err, document.ErrMissingCredentials) {
			log.Error().Err(err).Msg("Google Cloud credentials not configured")
			return nil, fmt.Errorf("Google Cloud credentials not configured. Please set one of:\n\n" +
				"1. Export GOOGLE_APPLICATION_CREDENTIALS with path to service account JSON:\n" +
				"   export GOOGLE_APPLICATION_CREDENTIALS=/path/to/service-account-key.json\n\n" +
				"2. Export GOOGLE_CREDENTIALS with inline JSON:\n" +
				"   export GOOGLE_CREDENTIALS='{\"type\":\"service_account\",\"project_id\":\"your-project\",...}'\n\n" +
				"3. Use Application Default Credentials (if gcloud is configured):\n" +
				"   gcloud auth application-default login\n\n" +
				"Or set PDF_BACKEND=local and OCR_FALLBACK=false to skip OCR")
		}
		log.Error().Err(err).Str("backend", cfg.OCRBackend()).Msg("Failed to create OCR backend")
		return nil, fmt.Errorf("failed to create OCR backend: %w", err)
	}

	log.Debug().Str("backend", cfg.OCRBackend()).Msg("OCR backend created successfully")
	return backend, nil
}

// readDocumentFile checks that path is a regular, non-empty file within the
// size limit and returns its content.
func readDocumentFile(path string, maxSize int64, log zerolog.Logger) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Error().Str("file", path).Msg("File not found")
			return nil, fmt.Errorf("file not found: %s", path)
		}
		if os.IsPermission(err) {
			log.Error().Str("file", path).Msg("Permission denied accessing file")
			return nil, fmt.Errorf("permission denied accessing file: %s", path)
		}
		return nil, fmt.Errorf("error accessing file: %w", err)
	}

	if !info.Mode().IsRegular() {
		log.Error().Str("file", path).Msg("Path is not a regular file")
		return nil, fmt.Errorf("path is not a regular file: %s", path)
	}
	if document.FormatOf(path) == "" {
		return nil, fmt.Errorf("unsupported file format: %s (only .pdf and .docx are supported)", path)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("file is empty: %s", path)
	}
	if info.Size() > maxSize {
		log.Error().
			Str("file", path).
			Int64("size", info.Size()).
			Int64("max_size", maxSize).
			Msg("File exceeds maximum size limit")
		return nil, fmt.Errorf("file too large (%d bytes). Maximum size is %d bytes", info.Size(), maxSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// createContextWithTimeout creates a context with timeout and signal handling
func createContextWithTimeout(timeoutSecs int, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling processing")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// handleDocumentError provides user-friendly error messages for parsing failures
func handleDocumentError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Document processing failed")

	errStr := err.Error()

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("processing timed out. Try increasing --timeout or processing a smaller file")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("processing was canceled")
	case errors.Is(err, document.ErrUnsupportedFormat):
		return fmt.Errorf("unsupported file format. Please provide a PDF (.pdf) or DOCX (.docx) file")
	case errors.Is(err, document.ErrEmptyFile):
		return fmt.Errorf("the file is empty")
	case errors.Is(err, document.ErrFileTooLarge):
		return fmt.Errorf("the file is too large. Raise MAX_FILE_SIZE or split the document: %w", err)
	case errors.Is(err, document.ErrCorruptedDocument):
		return fmt.Errorf("invalid or corrupted document. Please check the file integrity")
	case errors.Is(err, document.ErrNoText):
		return fmt.Errorf("no readable text found in the document. Scanned PDFs need OCR_FALLBACK=true or PDF_BACKEND=vision")
	case strings.Contains(errStr, "Unauthenticated") ||
		strings.Contains(errStr, "invalid_grant") ||
		strings.Contains(errStr, "transport: per-RPC creds failed"):
		return fmt.Errorf("Google Cloud authentication failed. Please check GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS: %v", err)
	case errors.Is(err, document.ErrOCRFailed):
		return fmt.Errorf("OCR processing failed. This may be due to network issues, API quota limits, or service unavailability: %w", err)
	default:
		return fmt.Errorf("document processing failed: %w", err)
	}
}

// writeOutput writes data to outputPath, or to stdout when outputPath is empty
func writeOutput(data []byte, outputPath string, log zerolog.Logger) error {
	if outputPath != "" {
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			log.Error().
				Err(err).
				Str("output_file", outputPath).
				Msg("Failed to write output file")
			return fmt.Errorf("failed to write output file: %w", err)
		}

		log.Info().
			Str("output_file", outputPath).
			Int("bytes", len(data)).
			Msg("Results written to file")
		return nil
	}

	if _, err := os.Stdout.Write(data); err != nil {
		log.Error().Err(err).Msg("Failed to write to stdout")
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		fmt.Fprintln(os.Stdout)
	}
	return nil
}
