package analysis

import "errors"

var (
	// ErrSummaryFailed is returned when a summarizer cannot produce a summary
	// and has no fallback to turn to.
	ErrSummaryFailed = errors.New("summary generation failed")

	// ErrEmptyResponse is returned when the language model answers without content.
	ErrEmptyResponse = errors.New("empty response from language model")
)
