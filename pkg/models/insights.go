package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Priority is the urgency tier of an action item.
type Priority string

const (
	PriorityHigh        Priority = "high"
	PriorityMedium      Priority = "medium"
	PriorityLow         Priority = "low"
	PriorityUnspecified Priority = "unspecified"
)

// Severity is the risk tier of a compliance warning.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// InsightsResult is the response for one extraction call. The JSON shape is the
// wire contract consumed by the frontend, so field names must not change.
type InsightsResult struct {
	Summary              string               `json:"summary"`
	DocumentType         DocumentType         `json:"document_type"`
	CreativeRequirements CreativeRequirements `json:"creative_requirements"`
	TechnicalSpecs       TechnicalSpecs       `json:"technical_specs"`
	BrandGuidelines      BrandGuidelines      `json:"brand_guidelines"`
	KPIs                 KPIs                 `json:"kpis"`
	Deadlines            []Deadline           `json:"deadlines"`
	ActionItems          []ActionItem         `json:"action_items"`
	Warnings             []Warning            `json:"warnings"`
	FileMetadata         FileMetadata         `json:"file_metadata"`
}

// DocumentType is the classifier verdict for the whole document.
type DocumentType struct {
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

// UnknownDocumentType is used whenever no classification is available.
func UnknownDocumentType() DocumentType {
	return DocumentType{Type: "Unknown", Confidence: 0.0}
}

// CreativeRequirements splits creative elements by obligation.
type CreativeRequirements struct {
	MustHave []string `json:"must_have"`
	Optional []string `json:"optional"`
}

// TechnicalSpecs groups the asset specification families.
type TechnicalSpecs struct {
	Dimensions []string `json:"dimensions"`
	Formats    []string `json:"formats"`
	FileSizes  []string `json:"file_sizes"`
}

// BrandGuidelines groups the brand identity families.
type BrandGuidelines struct {
	Colors []string `json:"colors"`
	Fonts  []string `json:"fonts"`
	Tone   []string `json:"tone"`
}

// Deadline is a date found in the document. Date holds an ISO-8601 calendar date
// when the text could be parsed, otherwise the phrase exactly as written.
type Deadline struct {
	Date        string `json:"date"`
	Type        string `json:"type,omitempty"`
	Context     string `json:"context"`
	Description string `json:"description,omitempty"`
}

// ActionItem is a sentence asking the reader to do something.
type ActionItem struct {
	Task     string   `json:"task"`
	Priority Priority `json:"priority"`
}

// Warning is a sentence carrying a compliance or risk term.
type Warning struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	Keyword  string   `json:"keyword"`
}

// FileMetadata describes the uploaded file the text came from.
type FileMetadata struct {
	Filename   string `json:"filename"`
	FileSize   int64  `json:"file_size"`
	FileType   string `json:"file_type"`
	TextLength int    `json:"text_length"`
	WordCount  int    `json:"word_count"`
}

// KPI is one metric name with the value found next to it, if any.
type KPI struct {
	Name  string
	Value *string
}

// KPIs keeps metrics in first-occurrence order and encodes them as a JSON object
// ({"CTR": "2.5%", "CPC": null}) without losing that order.
type KPIs []KPI

// Get returns the value recorded for name.
func (k KPIs) Get(name string) (*string, bool) {
	for _, kpi := range k {
		if kpi.Name == name {
			return kpi.Value, true
		}
	}
	return nil, false
}

// Names returns metric names in order.
func (k KPIs) Names() []string {
	names := make([]string, 0, len(k))
	for _, kpi := range k {
		names = append(names, kpi.Name)
	}
	return names
}

// MarshalJSON implements json.Marshaler.
func (k KPIs) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kpi := range k {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(kpi.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		if kpi.Value == nil {
			buf.WriteString("null")
			continue
		}
		value, err := json.Marshal(*kpi.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler, keeping document order.
func (k *KPIs) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*k = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("kpis: expected object, got %v", tok)
	}

	out := KPIs{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("kpis: expected string key, got %v", keyTok)
		}
		var value *string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("kpis: value for %q: %w", name, err)
		}
		out = append(out, KPI{Name: name, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*k = out
	return nil
}
