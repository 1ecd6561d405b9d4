package analysis

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"insights/internal/extract"
)

// Summarizer produces a short plain-text summary of a document.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

const (
	maxSummaryRunes     = 300
	maxProductRunes     = 50
	maxProductWords     = 5
	maxSummarySentences = 3
	minSentenceRunes    = 30
	maxSentenceRunes    = 150
	fallbackRunes       = 147
)

var (
	productPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i:\blaunch(?:ing)?)\s+([A-Z][\w&'\- ]*?)(?:\s+(?i:at|in|on|via)\b|\s*[.,;:]|$)`),
		regexp.MustCompile(`(?i:\bcampaign\s+for)\s+([A-Z][\w&'\- ]*?)(?:\s+(?i:at|in|on|via)\b|\s*[.,;:]|$)`),
		regexp.MustCompile(`(?i:\bpromot(?:e|ing))\s+([A-Z][\w&'\- ]*?)(?:\s+(?i:at|in|on|via)\b|\s*[.,;:]|$)`),
	}
	retailerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(?i:at|via)\s+([A-Z][\w&'\-]*(?:\s+[A-Z][\w&'\-]*)*)`),
		regexp.MustCompile(`\b([A-Z][\w&'\-]*(?:\s+[A-Z][\w&'\-]*)*)\s+(?i:website|online store|\.com)\b`),
	}
	objectiveRe = regexp.MustCompile(`(?i)\b(awareness|trial|sales|engagement|conversion)\b`)
	seasonRe    = regexp.MustCompile(`(?i)\b(summer|winter|spring|autumn)\b`)
)

// ExtractiveSummarizer builds a summary from the document itself. A campaign
// goal ("Launch X at Y, building Z during season.") is preferred; otherwise
// the first meaningful sentences are used.
type ExtractiveSummarizer struct{}

// NewExtractiveSummarizer returns the rule-based summarizer.
func NewExtractiveSummarizer() *ExtractiveSummarizer {
	return &ExtractiveSummarizer{}
}

// Summarize never fails. Empty text gives an empty summary.
func (s *ExtractiveSummarizer) Summarize(_ context.Context, text string) (string, error) {
	doc := extract.Normalize(text)
	if strings.TrimSpace(doc.Text) == "" {
		return "", nil
	}
	if goal := CampaignGoal(doc.Text); goal != "" {
		return truncateRunes(goal, maxSummaryRunes), nil
	}

	var picked []string
	for i := range doc.Sentences {
		sentence := strings.TrimSpace(doc.SentenceText(i))
		n := utf8.RuneCountInString(sentence)
		if n <= minSentenceRunes || n >= maxSentenceRunes {
			continue
		}
		candidate := strings.Join(append(picked, sentence), " ")
		if utf8.RuneCountInString(candidate) > maxSummaryRunes {
			break
		}
		picked = append(picked, sentence)
		if len(picked) == maxSummarySentences {
			break
		}
	}
	if len(picked) > 0 {
		return strings.Join(picked, " "), nil
	}
	return truncateRunes(doc.Text, fallbackRunes+3), nil
}

// CampaignGoal composes a one-line goal from the product, retailer, objective
// and season named in text. It returns "" when no product is named.
func CampaignGoal(text string) string {
	product := firstGroup(productPatterns, text)
	if product == "" {
		return ""
	}
	product = strings.TrimSpace(product)
	if utf8.RuneCountInString(product) > maxProductRunes {
		words := strings.Fields(product)
		if len(words) > maxProductWords {
			words = words[:maxProductWords]
		}
		product = strings.Join(words, " ")
	}

	var b strings.Builder
	b.WriteString("Launch ")
	b.WriteString(product)
	if retailer := firstGroup(retailerPatterns, text); retailer != "" && retailer != product {
		b.WriteString(" at ")
		b.WriteString(retailer)
	}
	if m := objectiveRe.FindStringSubmatch(text); m != nil {
		b.WriteString(", building ")
		b.WriteString(strings.ToLower(m[1]))
	}
	if m := seasonRe.FindStringSubmatch(text); m != nil {
		b.WriteString(" during ")
		b.WriteString(strings.ToLower(m[1]))
	}
	b.WriteString(".")
	return b.String()
}

func firstGroup(patterns []*regexp.Regexp, text string) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil && strings.TrimSpace(m[1]) != "" {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// truncateRunes cuts s to at most n runes, ending with "..." when cut.
func truncateRunes(s string, n int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n-3])) + "..."
}
