package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const monthNames = `jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?`

var (
	isoDateRe        = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	numericDateRe    = regexp.MustCompile(`\b(\d{1,2})[/.-](\d{1,2})[/.-](\d{4}|\d{2})\b`)
	monthFirstDateRe = regexp.MustCompile(`(?i)\b(` + monthNames + `)\.?\s?(\d{1,2})(?:st|nd|rd|th)?,?\s?(\d{4})\b`)
	dayFirstDateRe   = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s?(?:of\s)?(` + monthNames + `)\.?,?\s?(\d{4})\b`)
)

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
	"may": time.May, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "oct": time.October, "nov": time.November, "dec": time.December,
}

// deadlineRule finds dates and labels each with the closest deadline keyword
// in its sentence. Groups are [date, type] where date is ISO-8601 when the
// text parses and the text as written otherwise.
type deadlineRule struct {
	patterns []pattern
	keywords *regexp.Regexp
	types    map[string]string
}

func newDeadlineRule(v *Vocabulary) (Rule, error) {
	re, err := keywordPattern(aliases(v.DeadlineTypes))
	if err != nil {
		return nil, err
	}
	return &deadlineRule{
		patterns: []pattern{
			{id: "date.iso", re: isoDateRe},
			{id: "date.numeric", re: numericDateRe},
			{id: "date.month_first", re: monthFirstDateRe},
			{id: "date.day_first", re: dayFirstDateRe},
		},
		keywords: re,
		types:    lookup(v.DeadlineTypes),
	}, nil
}

func (r *deadlineRule) ID() string     { return "deadlines" }
func (r *deadlineRule) Family() Family { return FamilyDeadline }

func (r *deadlineRule) Find(doc *Document) []RawMatch {
	var matches []RawMatch
	for _, p := range r.patterns {
		matches = append(matches, findAll(doc, p)...)
	}
	matches = resolveOverlaps(matches)

	for i := range matches {
		m := &matches[i]
		date := m.Text
		if t, ok := parseDate(*m); ok {
			date = t.Format(time.DateOnly)
		}
		m.Groups = []string{date, r.nearestType(doc, *m)}
	}
	return matches
}

// nearestType returns the type of the keyword closest to the date span in
// the same sentence; a keyword before the date wins a tie.
func (r *deadlineRule) nearestType(doc *Document, m RawMatch) string {
	if m.Sentence < 0 {
		return ""
	}
	s := doc.Sentences[m.Sentence]
	best, bestDistance := "", -1
	for _, loc := range r.keywords.FindAllStringIndex(doc.Text[s.Start:s.End], -1) {
		start, end := s.Start+loc[0], s.Start+loc[1]
		if start < m.End && m.Start < end {
			continue
		}
		distance := m.Start - end
		if start >= m.End {
			distance = start - m.End
		}
		if bestDistance < 0 || distance < bestDistance {
			best = r.types[foldKey(doc.Text[start:end])]
			bestDistance = distance
		}
	}
	return best
}

// parseDate interprets a date match. Numeric dates are read month first
// unless the first number cannot be a month.
func parseDate(m RawMatch) (time.Time, bool) {
	var year, day int
	var month time.Month

	switch m.PatternID {
	case "date.iso":
		year, _ = strconv.Atoi(m.Groups[0])
		mo, _ := strconv.Atoi(m.Groups[1])
		month = time.Month(mo)
		day, _ = strconv.Atoi(m.Groups[2])
	case "date.numeric":
		a, _ := strconv.Atoi(m.Groups[0])
		b, _ := strconv.Atoi(m.Groups[1])
		year, _ = strconv.Atoi(m.Groups[2])
		if len(m.Groups[2]) == 2 {
			year += 2000
		}
		switch {
		case a >= 1 && a <= 12:
			month, day = time.Month(a), b
		case b >= 1 && b <= 12:
			month, day = time.Month(b), a
		default:
			return time.Time{}, false
		}
	case "date.month_first":
		month = monthOf(m.Groups[0])
		day, _ = strconv.Atoi(m.Groups[1])
		year, _ = strconv.Atoi(m.Groups[2])
	case "date.day_first":
		day, _ = strconv.Atoi(m.Groups[0])
		month = monthOf(m.Groups[1])
		year, _ = strconv.Atoi(m.Groups[2])
	default:
		return time.Time{}, false
	}

	if month < time.January || month > time.December || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow such as February 30th.
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func monthOf(name string) time.Month {
	name = strings.ToLower(name)
	if len(name) < 3 {
		return 0
	}
	return months[name[:3]]
}
