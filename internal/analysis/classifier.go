package analysis

import (
	"context"
	"math"
	"strings"
	"unicode/utf8"

	"insights/pkg/models"
)

// Classifier assigns a document type to extracted text.
type Classifier interface {
	Classify(ctx context.Context, text string) (models.DocumentType, error)
}

// DocumentTypeRule lists the phrases that vote for one document type.
type DocumentTypeRule struct {
	Type     string
	Keywords []string
}

// DefaultDocumentTypes is the keyword table used by KeywordClassifier. Order
// matters: on equal scores the earlier type wins.
var DefaultDocumentTypes = []DocumentTypeRule{
	{Type: "Creative Brief", Keywords: []string{"creative brief", "brief", "campaign brief", "advertising brief", "creative direction"}},
	{Type: "Ad Specs", Keywords: []string{"ad specs", "ad specifications", "ad requirements", "ad format", "ad dimensions", "ad size"}},
	{Type: "Brand Guidelines", Keywords: []string{"brand guidelines", "brand guide", "brand standards", "brand identity", "brand manual"}},
	{Type: "Campaign Plan", Keywords: []string{"campaign plan", "campaign strategy", "marketing plan", "campaign overview"}},
	{Type: "Media Plan", Keywords: []string{"media plan", "media strategy", "media buy", "media schedule"}},
	{Type: "Performance Report", Keywords: []string{"performance report", "analytics", "metrics", "kpi", "results", "report"}},
	{Type: "Compliance Document", Keywords: []string{"compliance", "legal", "regulatory", "policy", "terms", "guidelines"}},
}

const (
	classifierSampleRunes = 500
	otherDocumentType     = "Other"
)

// KeywordClassifier scores the opening of a document against keyword lists.
type KeywordClassifier struct {
	Types []DocumentTypeRule
}

// NewKeywordClassifier returns a classifier over DefaultDocumentTypes.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{Types: DefaultDocumentTypes}
}

// Classify counts keyword hits in the first 500 characters. Confidence is
// hits/3 capped at 1. Without any hit the type is Other at 0.5; empty text is
// Unknown at 0.
func (c *KeywordClassifier) Classify(_ context.Context, text string) (models.DocumentType, error) {
	if strings.TrimSpace(text) == "" {
		return models.UnknownDocumentType(), nil
	}

	sample := text
	if utf8.RuneCountInString(sample) > classifierSampleRunes {
		sample = string([]rune(sample)[:classifierSampleRunes])
	}
	sample = strings.ToLower(sample)

	best, bestScore := "", 0
	for _, rule := range c.Types {
		score := 0
		for _, keyword := range rule.Keywords {
			if strings.Contains(sample, keyword) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = rule.Type, score
		}
	}

	if bestScore == 0 {
		return models.DocumentType{Type: otherDocumentType, Confidence: 0.5}, nil
	}
	confidence := math.Min(1, float64(bestScore)/3)
	return models.DocumentType{Type: best, Confidence: math.Round(confidence*100) / 100}, nil
}
