package extract

import (
	"regexp"
	"sync"

	"insights/pkg/models"
)

// tierTable resolves the tier of the first keyword found in a sentence.
type tierTable struct {
	re    *regexp.Regexp
	tiers map[string]string
}

func newTierTable(t Tiers) (*tierTable, error) {
	tiers := make(map[string]string)
	var all []string
	// Low first so that a keyword listed in several tiers keeps the highest.
	for _, group := range []struct {
		tier     string
		keywords []string
	}{{"low", t.Low}, {"medium", t.Medium}, {"high", t.High}} {
		for _, k := range group.keywords {
			tiers[foldKey(k)] = group.tier
			all = append(all, k)
		}
	}
	re, err := keywordPattern(all)
	if err != nil {
		return nil, err
	}
	return &tierTable{re: re, tiers: tiers}, nil
}

// first scans left to right. Because the alternation lists longer keywords
// first, "must not" wins over "must" at the same offset.
func (t *tierTable) first(sentence string) (keyword, tier string, ok bool) {
	loc := t.re.FindStringIndex(sentence)
	if loc == nil {
		return "", "", false
	}
	keyword = foldKey(sentence[loc[0]:loc[1]])
	return keyword, t.tiers[keyword], true
}

// Classifier assigns priorities to action sentences and severities to
// warning sentences using the vocabulary keyword tables.
type Classifier struct {
	priority *tierTable
	severity *tierTable
}

// NewClassifier compiles the priority and severity tables of v.
func NewClassifier(v *Vocabulary) (*Classifier, error) {
	priority, err := newTierTable(v.Priority)
	if err != nil {
		return nil, WrapConfigError("NewClassifier", err, "priority table")
	}
	severity, err := newTierTable(v.Severity)
	if err != nil {
		return nil, WrapConfigError("NewClassifier", err, "severity table")
	}
	return &Classifier{priority: priority, severity: severity}, nil
}

// Priority returns the tier of the leftmost priority keyword in sentence,
// or unspecified when there is none.
func (c *Classifier) Priority(sentence string) models.Priority {
	_, tier, ok := c.priority.first(Normalize(sentence).Text)
	if !ok {
		return models.PriorityUnspecified
	}
	return models.Priority(tier)
}

// Severity returns the tier of the leftmost severity keyword in sentence.
// When the sentence has none, the trigger keyword itself is looked up, and
// low is the fallback.
func (c *Classifier) Severity(sentence, keyword string) models.Severity {
	if _, tier, ok := c.severity.first(Normalize(sentence).Text); ok {
		return models.Severity(tier)
	}
	if tier, ok := c.severity.tiers[foldKey(keyword)]; ok {
		return models.Severity(tier)
	}
	return models.SeverityLow
}

var defaultClassifier = sync.OnceValue(func() *Classifier {
	c, err := NewClassifier(DefaultVocabulary())
	if err != nil {
		panic(err)
	}
	return c
})

// ClassifyPriority classifies sentence with the built-in tables.
func ClassifyPriority(sentence string) models.Priority {
	return defaultClassifier().Priority(sentence)
}

// ClassifySeverity classifies sentence with the built-in tables.
func ClassifySeverity(sentence, keyword string) models.Severity {
	return defaultClassifier().Severity(sentence, keyword)
}
