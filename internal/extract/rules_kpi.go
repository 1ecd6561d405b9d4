package extract

import (
	"regexp"
	"strings"
)

// kpiValueRe matches numbers, percentages, multipliers and currency amounts.
var kpiValueRe = regexp.MustCompile(`(?i)[$£€]\s?\d+(?:,\d{3})*(?:\.\d+)?(?:\s?(?:k|m|mm|bn)\b)?|\d+(?:,\d{3})*(?:\.\d+)?(?:\s?%|x\b|\s?(?:k|m|mm|bn)\b)?`)

// kpiRule finds metric names and attaches the nearest value in the same
// sentence. Groups are [canonical name, value]; value is empty when none
// was found.
type kpiRule struct {
	names *regexp.Regexp
	canon map[string]string
}

func newKPIRule(v *Vocabulary) (Rule, error) {
	re, err := keywordPattern(aliases(v.KPIs))
	if err != nil {
		return nil, err
	}
	return &kpiRule{names: re, canon: lookup(v.KPIs)}, nil
}

func (r *kpiRule) ID() string     { return "kpis" }
func (r *kpiRule) Family() Family { return FamilyKPI }

func (r *kpiRule) Find(doc *Document) []RawMatch {
	mentions := resolveOverlaps(findAll(doc, pattern{id: "kpi", re: r.names}))
	if len(mentions) == 0 {
		return mentions
	}

	// Numbers inside dates, dimensions and file sizes are never KPI values.
	var blocked [][]int
	for _, re := range []*regexp.Regexp{isoDateRe, numericDateRe, monthFirstDateRe, dayFirstDateRe, dimensionRe, fileSizeRe} {
		blocked = append(blocked, re.FindAllStringIndex(doc.Text, -1)...)
	}

	for i := range mentions {
		m := &mentions[i]
		name, ok := r.canon[foldKey(m.Text)]
		if !ok {
			name = strings.ToUpper(m.Text)
		}
		m.Groups = []string{name, valueFor(doc, mentions, i, blocked)}
	}
	return mentions
}

// valueFor looks after the mention first, up to the next metric in the same
// sentence, then before it, back to the previous metric.
func valueFor(doc *Document, mentions []RawMatch, i int, blocked [][]int) string {
	m := mentions[i]
	if m.Sentence < 0 {
		return ""
	}
	sentence := doc.Sentences[m.Sentence]

	afterEnd := sentence.End
	if i+1 < len(mentions) && mentions[i+1].Sentence == m.Sentence {
		afterEnd = mentions[i+1].Start
	}
	if v := firstValue(doc.Text, m.End, afterEnd, blocked); v != "" {
		return v
	}

	beforeStart := sentence.Start
	if i > 0 && mentions[i-1].Sentence == m.Sentence {
		beforeStart = mentions[i-1].End
	}
	return lastValue(doc.Text, beforeStart, m.Start, blocked)
}

func firstValue(text string, start, end int, blocked [][]int) string {
	if start >= end {
		return ""
	}
	for _, loc := range kpiValueRe.FindAllStringIndex(text[start:end], -1) {
		if standaloneValue(text, start+loc[0], start+loc[1], blocked) {
			return canonicalValue(text[start+loc[0] : start+loc[1]])
		}
	}
	return ""
}

func lastValue(text string, start, end int, blocked [][]int) string {
	if start >= end {
		return ""
	}
	locs := kpiValueRe.FindAllStringIndex(text[start:end], -1)
	for i := len(locs) - 1; i >= 0; i-- {
		loc := locs[i]
		if standaloneValue(text, start+loc[0], start+loc[1], blocked) {
			return canonicalValue(text[start+loc[0] : start+loc[1]])
		}
	}
	return ""
}

// standaloneValue rejects numbers that are part of a date, a dimension, a
// file size or a word.
func standaloneValue(text string, start, end int, blocked [][]int) bool {
	for _, span := range blocked {
		if start < span[1] && span[0] < end {
			return false
		}
	}
	if start > 0 {
		prev := text[start-1]
		if isWordByte(prev) || prev == '/' || prev == '-' || prev == '.' || prev == '#' || prev == ':' {
			return false
		}
	}
	if end < len(text) {
		next := text[end]
		if isWordByte(next) || next == '/' || next == ':' {
			return false
		}
		if (next == '-' || next == '.') && end+1 < len(text) && isDigit(text[end+1]) {
			return false
		}
		if next == ' ' && end+1 < len(text) && strings.HasPrefix(strings.ToLower(text[end+1:]), "px") {
			return false
		}
	}
	value := text[start:end]
	if strings.HasSuffix(strings.ToLower(value), "x") {
		// "1080x1080" is a dimension, "4x" is a multiplier.
		if end < len(text) && isDigit(text[end]) {
			return false
		}
	}
	return true
}

func canonicalValue(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isWordByte(c byte) bool {
	return isDigit(c) || c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
