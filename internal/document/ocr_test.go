package document

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/status"
	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"
)

func TestVisionResult(t *testing.T) {
	resp := &visionpb.AnnotateFileResponse{
		Responses: []*visionpb.AnnotateImageResponse{
			{FullTextAnnotation: &visionpb.TextAnnotation{Text: "Page one"}},
			{},
			{FullTextAnnotation: &visionpb.TextAnnotation{Text: "Page three"}},
		},
	}

	result, err := visionResult(resp)
	require.NoError(t, err)
	assert.Equal(t, "Page one\n\nPage three", result.Text)
	assert.Equal(t, 3, result.PageCount)
	assert.Equal(t, MethodVision, result.Method)
}

func TestVisionResult_PageError(t *testing.T) {
	resp := &visionpb.AnnotateFileResponse{
		Responses: []*visionpb.AnnotateImageResponse{
			{Error: &status.Status{Message: "bad page"}},
		},
	}

	_, err := visionResult(resp)
	assert.ErrorIs(t, err, ErrOCRFailed)
}

func TestDocumentAIOCR_ProcessorName(t *testing.T) {
	p := NewDocumentAIOCRWithClient(DocumentAIConfig{ProjectID: "acme", Location: "eu", ProcessorID: "ocr1"}, nil)
	assert.Equal(t, "projects/acme/locations/eu/processors/ocr1", p.processorName())

	p.config.ProcessorVersion = "pretrained-ocr-v2.0"
	assert.Equal(t, "projects/acme/locations/eu/processors/ocr1/processorVersions/pretrained-ocr-v2.0", p.processorName())
}

func TestVisionPages(t *testing.T) {
	assert.Equal(t, []int32{1, 2, 3, 4, 5}, visionPages())
}

func TestDocumentAIOCR_HandleProcessingError(t *testing.T) {
	p := NewDocumentAIOCRWithClient(DocumentAIConfig{ProcessorID: "ocr1"}, nil)

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"invalid argument", grpcstatus.Error(codes.InvalidArgument, "bad request"), ErrCorruptedDocument},
		{"deadline", context.DeadlineExceeded, context.DeadlineExceeded},
		{"rpc deadline", grpcstatus.Error(codes.DeadlineExceeded, "slow"), ErrOCRFailed},
		{"canceled", context.Canceled, context.Canceled},
		{"permission", grpcstatus.Error(codes.PermissionDenied, "denied"), ErrOCRFailed},
		{"not found", grpcstatus.Error(codes.NotFound, "no processor"), ErrInvalidConfiguration},
		{"other", errors.New("connection reset"), ErrOCRFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.handleProcessingError("ProcessPDF", tt.err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestOCRBackends_RejectNonPDF(t *testing.T) {
	ctx := context.Background()

	_, err := NewVisionOCRWithClient(nil).ProcessPDF(ctx, []byte("PK\x03\x04"))
	assert.ErrorIs(t, err, ErrCorruptedDocument)

	_, err = NewDocumentAIOCRWithClient(DocumentAIConfig{}, nil).ProcessPDF(ctx, []byte("PK\x03\x04"))
	assert.ErrorIs(t, err, ErrCorruptedDocument)
}

func TestNewDocumentAIOCR_RequiresConfiguration(t *testing.T) {
	_, err := NewDocumentAIOCR(context.Background(), DocumentAIConfig{ProcessorID: "ocr1"})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = NewDocumentAIOCR(context.Background(), DocumentAIConfig{ProjectID: "acme"})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestCredentials_ClientOptions(t *testing.T) {
	assert.Len(t, Credentials{JSON: "{}", File: "/tmp/key.json"}.clientOptions(), 1)
	assert.Len(t, Credentials{File: "/tmp/key.json"}.clientOptions(), 1)
	assert.Empty(t, Credentials{}.clientOptions())
}
