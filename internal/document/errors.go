package document

import (
	"errors"
	"fmt"
)

// Document parsing errors. Each of them is a client error: the upload itself
// cannot be turned into text.
var (
	// ErrUnsupportedFormat is returned for any extension other than .pdf and .docx.
	ErrUnsupportedFormat = errors.New("unsupported file format: only PDF and DOCX are supported")

	// ErrEmptyFile is returned when the upload has no bytes.
	ErrEmptyFile = errors.New("file is empty")

	// ErrFileTooLarge is returned when the upload exceeds the configured limit.
	ErrFileTooLarge = errors.New("file size exceeds the maximum limit")

	// ErrCorruptedDocument is returned when the bytes cannot be read as the
	// format their extension claims.
	ErrCorruptedDocument = errors.New("invalid or corrupted document")

	// ErrNoText is returned when a readable document contains no text.
	ErrNoText = errors.New("document contains no readable text")
)

// Remote OCR errors. These are server-side failures.
var (
	// ErrOCRFailed is returned when a Google Cloud OCR call fails.
	ErrOCRFailed = errors.New("OCR processing failed")

	// ErrOCRUnavailable is returned when a backend needs OCR but none is configured.
	ErrOCRUnavailable = errors.New("OCR backend is not configured")

	// ErrMissingCredentials is returned when neither GOOGLE_APPLICATION_CREDENTIALS
	// nor GOOGLE_CREDENTIALS is configured and default credentials are unavailable.
	ErrMissingCredentials = errors.New("missing Google Cloud credentials: set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS environment variable")

	// ErrInvalidConfiguration is returned for incomplete backend settings.
	ErrInvalidConfiguration = errors.New("invalid document backend configuration")
)

// DocumentError wraps errors with context about the parsing failure.
type DocumentError struct {
	// Op is the operation that failed (e.g., "Parse", "ProcessPDF").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *DocumentError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("document: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("document: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *DocumentError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *DocumentError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewDocumentError creates a new DocumentError.
func NewDocumentError(op string, err error, details string) *DocumentError {
	return &DocumentError{
		Op:      op,
		Err:     err,
		Details: details,
	}
}

// WrapDocumentError wraps an error as a DocumentError if it isn't already one.
func WrapDocumentError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var docErr *DocumentError
	if errors.As(err, &docErr) {
		return err // Already wrapped
	}

	return NewDocumentError(op, err, details)
}

// IsClientError reports whether err was caused by the uploaded file rather
// than by the service.
func IsClientError(err error) bool {
	return errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrEmptyFile) ||
		errors.Is(err, ErrFileTooLarge) ||
		errors.Is(err, ErrCorruptedDocument) ||
		errors.Is(err, ErrNoText)
}
