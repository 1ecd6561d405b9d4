package extract

import (
	"errors"
	"fmt"
)

// Common extraction errors
var (
	// ErrRuleFailed is returned when a rule panics or otherwise cannot produce matches.
	// The family the rule belongs to is emitted empty; the rest of the result is unaffected.
	ErrRuleFailed = errors.New("extraction rule failed")

	// ErrInvalidVocabulary is returned when a vocabulary table cannot be compiled.
	ErrInvalidVocabulary = errors.New("invalid vocabulary")

	// ErrRulesFile is returned when an override rules file cannot be read or decoded.
	ErrRulesFile = errors.New("invalid rules file")
)

// RuleError reports a single rule failure during an extraction run.
type RuleError struct {
	// Rule is the identifier of the failing rule.
	Rule string

	// Family is the category family the rule feeds.
	Family Family

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *RuleError) Error() string {
	return fmt.Sprintf("extract: rule %s (%s) failed: %v", e.Rule, e.Family, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *RuleError) Unwrap() error {
	return e.Err
}

// Is reports ErrRuleFailed for every rule error.
func (e *RuleError) Is(target error) bool {
	return target == ErrRuleFailed || errors.Is(e.Err, target)
}

// NewRuleError creates a RuleError for the given rule.
func NewRuleError(rule string, family Family, err error) *RuleError {
	return &RuleError{
		Rule:   rule,
		Family: family,
		Err:    err,
	}
}

// ConfigError wraps failures while building an engine from a vocabulary.
type ConfigError struct {
	Op      string
	Err     error
	Details string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("extract: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("extract: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *ConfigError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// WrapConfigError wraps an error as a ConfigError if it isn't already one.
func WrapConfigError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return err
	}

	return &ConfigError{Op: op, Err: err, Details: details}
}
