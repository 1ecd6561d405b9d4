package document

import (
	"context"
	"errors"
	"fmt"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"insights/internal/logger"
)

// DocumentAIConfig holds configuration for Google Document AI OCR processing.
type DocumentAIConfig struct {
	// ProjectID is the Google Cloud project ID where Document AI is enabled.
	ProjectID string

	// Location is the processing location (e.g., "us", "eu").
	// Should match where the OCR processor is created.
	Location string

	// ProcessorID is the Document AI OCR processor ID.
	ProcessorID string

	// ProcessorVersion specifies a particular processor version.
	// If empty, uses the default version.
	ProcessorVersion string

	// Timeout is the maximum time to wait for processing.
	// Default: 60 seconds.
	Timeout time.Duration

	Credentials Credentials
}

// DocumentAIOCR implements OCRBackend using a Document AI OCR processor.
type DocumentAIOCR struct {
	client *documentai.DocumentProcessorClient
	config DocumentAIConfig
	log    zerolog.Logger
}

// NewDocumentAIOCR creates a processor client for the configured location.
func NewDocumentAIOCR(ctx context.Context, config DocumentAIConfig) (*DocumentAIOCR, error) {
	const op = "NewDocumentAIOCR"

	if config.ProjectID == "" {
		return nil, WrapDocumentError(op, ErrInvalidConfiguration, "GOOGLE_PROJECT_ID is required")
	}
	if config.ProcessorID == "" {
		return nil, WrapDocumentError(op, ErrInvalidConfiguration, "DOCUMENT_AI_PROCESSOR_ID is required")
	}
	if config.Location == "" {
		config.Location = "us"
	}
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}

	var clientOptions []option.ClientOption
	if config.Location != "us" {
		endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", config.Location)
		clientOptions = append(clientOptions, option.WithEndpoint(endpoint))
	}
	credOptions := config.Credentials.clientOptions()
	clientOptions = append(clientOptions, credOptions...)

	client, err := documentai.NewDocumentProcessorClient(ctx, clientOptions...)
	if err != nil {
		if len(credOptions) == 0 {
			return nil, WrapDocumentError(op, ErrMissingCredentials, "no credentials found in environment")
		}
		return nil, WrapDocumentError(op, err, fmt.Sprintf("failed to create Document AI client for location: %s", config.Location))
	}

	return NewDocumentAIOCRWithClient(config, client), nil
}

// NewDocumentAIOCRWithClient creates a backend with an explicit config and client (for testing).
func NewDocumentAIOCRWithClient(config DocumentAIConfig, client *documentai.DocumentProcessorClient) *DocumentAIOCR {
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}
	return &DocumentAIOCR{
		client: client,
		config: config,
		log:    logger.WithComponent("document-ai"),
	}
}

// ProcessPDF sends the PDF to the OCR processor and returns its full text.
func (p *DocumentAIOCR) ProcessPDF(ctx context.Context, data []byte) (*Result, error) {
	const op = "DocumentAIOCR.ProcessPDF"

	if len(data) < 4 || string(data[:4]) != "%PDF" {
		return nil, WrapDocumentError(op, ErrCorruptedDocument, "missing PDF header")
	}

	processCtx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	req := &documentaipb.ProcessRequest{
		Name: p.processorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  data,
				MimeType: "application/pdf",
			},
		},
	}

	start := time.Now()
	resp, err := p.client.ProcessDocument(processCtx, req)
	if err != nil {
		return nil, p.handleProcessingError(op, err)
	}
	if resp.Document == nil {
		return nil, WrapDocumentError(op, ErrOCRFailed, "no document in response")
	}

	p.log.Debug().
		Int("pages", len(resp.Document.Pages)).
		Dur("duration", time.Since(start)).
		Msg("Document AI OCR completed")

	return &Result{
		Text:      resp.Document.Text,
		PageCount: len(resp.Document.Pages),
		Method:    MethodDocumentAI,
	}, nil
}

// processorName constructs the full processor name for the Document AI API.
func (p *DocumentAIOCR) processorName() string {
	if p.config.ProcessorVersion != "" {
		return fmt.Sprintf("projects/%s/locations/%s/processors/%s/processorVersions/%s",
			p.config.ProjectID, p.config.Location, p.config.ProcessorID, p.config.ProcessorVersion)
	}
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s",
		p.config.ProjectID, p.config.Location, p.config.ProcessorID)
}

// handleProcessingError converts Document AI errors to document errors.
func (p *DocumentAIOCR) handleProcessingError(op string, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || status.Code(err) == codes.DeadlineExceeded:
		return WrapDocumentError(op, fmt.Errorf("%w: %w", ErrOCRFailed, context.DeadlineExceeded), "processing timeout")
	case errors.Is(err, context.Canceled) || status.Code(err) == codes.Canceled:
		return WrapDocumentError(op, context.Canceled, "processing was canceled")
	}

	switch status.Code(err) {
	case codes.InvalidArgument:
		return WrapDocumentError(op, ErrCorruptedDocument, "document format not supported or corrupted")
	case codes.PermissionDenied, codes.Unauthenticated:
		return WrapDocumentError(op, ErrOCRFailed, "insufficient permissions for Document AI")
	case codes.NotFound:
		return WrapDocumentError(op, ErrInvalidConfiguration, fmt.Sprintf("processor not found: %s", p.config.ProcessorID))
	default:
		return WrapDocumentError(op, ErrOCRFailed, fmt.Sprintf("Document AI error: %v", err))
	}
}

// Close closes the underlying Document AI client.
func (p *DocumentAIOCR) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}
