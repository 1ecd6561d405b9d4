package services

import (
	"context"

	"insights/internal/document"
	"insights/pkg/models"
)

// InsightsService defines the interface for turning uploaded briefs into insights
type InsightsService interface {
	// ParseDocument extracts plain text from a PDF or DOCX upload
	ParseDocument(ctx context.Context, data []byte, filename string) (*document.Result, error)

	// ExtractFromFile parses the upload and runs summary, classification and rule extraction
	ExtractFromFile(ctx context.Context, data []byte, filename string) (*models.InsightsResult, error)

	// ExtractFromText runs summary, classification and rule extraction on already extracted text
	ExtractFromText(ctx context.Context, text string, meta models.FileMetadata) *models.InsightsResult
}
