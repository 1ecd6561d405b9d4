package extract

import (
	"regexp"

	"insights/pkg/models"
)

const (
	tierMustHave = "must_have"
	tierOptional = "optional"
)

// actionRule reports every sentence that contains an imperative or
// obligation keyword. Groups are [task, priority].
type actionRule struct {
	keywords   *regexp.Regexp
	classifier *Classifier
}

func newActionRule(v *Vocabulary, c *Classifier) (Rule, error) {
	re, err := keywordPattern(v.ActionKeywords)
	if err != nil {
		return nil, err
	}
	return &actionRule{keywords: re, classifier: c}, nil
}

func (r *actionRule) ID() string     { return "action_items" }
func (r *actionRule) Family() Family { return FamilyActionItem }

func (r *actionRule) Find(doc *Document) []RawMatch {
	var matches []RawMatch
	for i, s := range doc.Sentences {
		text := doc.Text[s.Start:s.End]
		if !r.keywords.MatchString(text) {
			continue
		}
		context := doc.Context(i)
		matches = append(matches, RawMatch{
			PatternID: "action.sentence",
			Text:      text,
			Start:     s.Start,
			End:       s.End,
			Groups:    []string{context, string(r.classifier.Priority(text))},
			Sentence:  i,
			Context:   context,
		})
	}
	return matches
}

// warningRule reports sentences carrying a compliance or risk keyword. Only
// the leftmost keyword is kept. Groups are [message, keyword, severity].
type warningRule struct {
	keywords   *regexp.Regexp
	classifier *Classifier
}

func newWarningRule(v *Vocabulary, c *Classifier) (Rule, error) {
	re, err := keywordPattern(v.WarningKeywords)
	if err != nil {
		return nil, err
	}
	return &warningRule{keywords: re, classifier: c}, nil
}

func (r *warningRule) ID() string     { return "warnings" }
func (r *warningRule) Family() Family { return FamilyWarning }

func (r *warningRule) Find(doc *Document) []RawMatch {
	var matches []RawMatch
	for i, s := range doc.Sentences {
		text := doc.Text[s.Start:s.End]
		loc := r.keywords.FindStringIndex(text)
		if loc == nil {
			continue
		}
		keyword := foldKey(text[loc[0]:loc[1]])
		context := doc.Context(i)
		matches = append(matches, RawMatch{
			PatternID: "warning.sentence",
			Text:      text,
			Start:     s.Start,
			End:       s.End,
			Groups:    []string{context, keyword, string(r.classifier.Severity(text, keyword))},
			Sentence:  i,
			Context:   context,
		})
	}
	return matches
}

// creativeRule finds creative elements a sentence asks for. Elements after a
// negation ("no QR codes") are skipped. Groups are [element, tier].
type creativeRule struct {
	cues       *regexp.Regexp
	negations  *regexp.Regexp
	elements   map[string]string
	classifier *Classifier
}

func newCreativeRule(v *Vocabulary, c *Classifier) (Rule, error) {
	cues, err := keywordPattern(aliases(v.CreativeElements))
	if err != nil {
		return nil, err
	}
	negations, err := keywordPattern(v.Negations)
	if err != nil {
		return nil, err
	}
	return &creativeRule{
		cues:       cues,
		negations:  negations,
		elements:   lookup(v.CreativeElements),
		classifier: c,
	}, nil
}

func (r *creativeRule) ID() string     { return "creative_requirements" }
func (r *creativeRule) Family() Family { return FamilyCreative }

func (r *creativeRule) Find(doc *Document) []RawMatch {
	var matches []RawMatch
	for _, m := range resolveOverlaps(findAll(doc, pattern{id: "creative.element", re: r.cues})) {
		if m.Sentence < 0 {
			continue
		}
		s := doc.Sentences[m.Sentence]
		if r.negations.MatchString(doc.Text[s.Start:m.Start]) {
			continue
		}
		tier := tierMustHave
		if r.classifier.Priority(doc.Text[s.Start:s.End]) == models.PriorityLow {
			tier = tierOptional
		}
		m.Groups = []string{r.elements[foldKey(m.Text)], tier}
		matches = append(matches, m)
	}
	return matches
}
