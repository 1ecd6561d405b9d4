package document

import (
	"context"
	"fmt"
	"strings"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/rs/zerolog"
	"insights/internal/logger"
)

const (
	// MaxVisionFileSize is the maximum file size for synchronous processing (20MB)
	MaxVisionFileSize = 20 * 1024 * 1024

	// MaxVisionPages is the number of pages Vision annotates synchronously.
	MaxVisionPages = 5
)

// VisionOCR implements OCRBackend using Google Cloud Vision document text detection.
type VisionOCR struct {
	client *vision.ImageAnnotatorClient
	log    zerolog.Logger
}

// NewVisionOCR creates a Vision client with the given credentials.
func NewVisionOCR(ctx context.Context, creds Credentials) (*VisionOCR, error) {
	const op = "NewVisionOCR"

	opts := creds.clientOptions()
	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		if len(opts) == 0 {
			return nil, WrapDocumentError(op, ErrMissingCredentials, "no credentials found in environment")
		}
		return nil, WrapDocumentError(op, err, "failed to create Vision client")
	}

	return NewVisionOCRWithClient(client), nil
}

// NewVisionOCRWithClient creates a backend with an explicit client (for testing).
func NewVisionOCRWithClient(client *vision.ImageAnnotatorClient) *VisionOCR {
	return &VisionOCR{
		client: client,
		log:    logger.WithComponent("vision-ocr"),
	}
}

// ProcessPDF runs document text detection over the first pages of a PDF.
func (v *VisionOCR) ProcessPDF(ctx context.Context, data []byte) (*Result, error) {
	const op = "VisionOCR.ProcessPDF"

	if len(data) > MaxVisionFileSize {
		return nil, WrapDocumentError(op, ErrFileTooLarge, fmt.Sprintf("file size: %d bytes exceeds Vision limit", len(data)))
	}
	if len(data) < 4 || string(data[:4]) != "%PDF" {
		return nil, WrapDocumentError(op, ErrCorruptedDocument, "missing PDF header")
	}

	req := &visionpb.BatchAnnotateFilesRequest{
		Requests: []*visionpb.AnnotateFileRequest{
			{
				InputConfig: &visionpb.InputConfig{
					Content:  data,
					MimeType: "application/pdf",
				},
				Features: []*visionpb.Feature{
					{
						Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION,
					},
				},
				Pages: visionPages(),
			},
		},
	}

	resp, err := v.client.BatchAnnotateFiles(ctx, req)
	if err != nil {
		return nil, WrapDocumentError(op, ErrOCRFailed, fmt.Sprintf("Vision API call failed: %v", err))
	}
	if len(resp.Responses) == 0 {
		return nil, WrapDocumentError(op, ErrOCRFailed, "no response from Vision API")
	}

	fileResp := resp.Responses[0]
	if fileResp.Error != nil {
		return nil, WrapDocumentError(op, ErrOCRFailed, fmt.Sprintf("Vision API error: %s", fileResp.Error.Message))
	}

	result, err := visionResult(fileResp)
	if err != nil {
		return nil, WrapDocumentError(op, err, "failed to process Vision API response")
	}

	v.log.Debug().
		Int("pages", result.PageCount).
		Int32("total_pages", fileResp.TotalPages).
		Msg("Vision OCR completed")

	return result, nil
}

func visionPages() []int32 {
	pages := make([]int32, MaxVisionPages)
	for i := range pages {
		pages[i] = int32(i + 1)
	}
	return pages
}

// visionResult joins the full text annotation of each page.
func visionResult(fileResp *visionpb.AnnotateFileResponse) (*Result, error) {
	var text strings.Builder
	for i, page := range fileResp.Responses {
		if page.Error != nil {
			return nil, fmt.Errorf("%w: page %d: %s", ErrOCRFailed, i+1, page.Error.Message)
		}
		if page.FullTextAnnotation == nil || strings.TrimSpace(page.FullTextAnnotation.Text) == "" {
			continue
		}
		if text.Len() > 0 {
			text.WriteString("\n\n")
		}
		text.WriteString(page.FullTextAnnotation.Text)
	}

	return &Result{
		Text:      text.String(),
		PageCount: len(fileResp.Responses),
		Method:    MethodVision,
	}, nil
}

// Close closes the underlying Vision client.
func (v *VisionOCR) Close() error {
	if v.client != nil {
		return v.client.Close()
	}
	return nil
}
