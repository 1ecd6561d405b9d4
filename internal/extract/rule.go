package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Family names the category a rule feeds.
type Family string

const (
	FamilyDimension  Family = "dimensions"
	FamilyFormat     Family = "formats"
	FamilyFileSize   Family = "file_sizes"
	FamilyColor      Family = "colors"
	FamilyFont       Family = "fonts"
	FamilyTone       Family = "tone"
	FamilyKPI        Family = "kpis"
	FamilyDeadline   Family = "deadlines"
	FamilyActionItem Family = "action_items"
	FamilyWarning    Family = "warnings"
	FamilyCreative   Family = "creative_requirements"
)

// RawMatch is one hit of a rule over a normalized document.
type RawMatch struct {
	// PatternID names the pattern inside the rule that produced the hit.
	PatternID string
	// Text is the matched normalized text.
	Text string
	// Start and End are byte offsets into Document.Text.
	Start int
	End   int
	// Groups holds captured sub-matches; rules may append derived values.
	Groups []string
	// Sentence indexes Document.Sentences.
	Sentence int
	// Context is the enclosing sentence as written in the original text.
	Context string
}

// Rule finds matches for one family. Rules hold no mutable state and may be
// run concurrently over the same document.
type Rule interface {
	ID() string
	Family() Family
	Find(doc *Document) []RawMatch
}

// pattern is a compiled regular expression with an identifier and an
// optional filter applied to every candidate.
type pattern struct {
	id     string
	re     *regexp.Regexp
	accept func(doc *Document, m RawMatch) bool
}

// Canonicalizer is implemented by rules whose matches are reported in a
// canonical form rather than as written, e.g. "#ff5733" as "#FF5733".
type Canonicalizer interface {
	Canonical(m RawMatch) string
}

// patternRule runs a set of patterns and resolves overlaps between them.
type patternRule struct {
	id        string
	family    Family
	patterns  []pattern
	canonical func(m RawMatch) string
}

func (r *patternRule) ID() string     { return r.id }
func (r *patternRule) Family() Family { return r.family }

func (r *patternRule) Canonical(m RawMatch) string {
	if r.canonical == nil {
		return m.Text
	}
	return r.canonical(m)
}

func (r *patternRule) Find(doc *Document) []RawMatch {
	var matches []RawMatch
	for _, p := range r.patterns {
		matches = append(matches, findAll(doc, p)...)
	}
	return resolveOverlaps(matches)
}

// findAll converts every regexp hit into a RawMatch and applies the
// pattern filter.
func findAll(doc *Document, p pattern) []RawMatch {
	locs := p.re.FindAllStringSubmatchIndex(doc.Text, -1)
	matches := make([]RawMatch, 0, len(locs))
	for _, loc := range locs {
		m := RawMatch{
			PatternID: p.id,
			Text:      doc.Text[loc[0]:loc[1]],
			Start:     loc[0],
			End:       loc[1],
			Groups:    make([]string, 0, len(loc)/2-1),
		}
		for g := 2; g < len(loc); g += 2 {
			if loc[g] < 0 {
				m.Groups = append(m.Groups, "")
				continue
			}
			m.Groups = append(m.Groups, doc.Text[loc[g]:loc[g+1]])
		}
		m.Sentence = doc.SentenceAt(m.Start)
		m.Context = doc.Context(m.Sentence)
		if p.accept != nil && !p.accept(doc, m) {
			continue
		}
		matches = append(matches, m)
	}
	return matches
}

// resolveOverlaps orders matches by position and drops any match whose span
// is identical to or nested inside an already kept match. Partial overlaps
// are kept.
func resolveOverlaps(matches []RawMatch) []RawMatch {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Start != matches[j].Start {
			return matches[i].Start < matches[j].Start
		}
		return matches[i].End > matches[j].End
	})

	kept := make([]RawMatch, 0, len(matches))
	for _, m := range matches {
		nested := false
		for i := len(kept) - 1; i >= 0; i-- {
			k := kept[i]
			if k.Start <= m.Start && m.End <= k.End {
				nested = true
				break
			}
		}
		if !nested {
			kept = append(kept, m)
		}
	}
	return kept
}

// keywordPattern builds a case-insensitive, word-bounded alternation over
// terms with longer terms tried first, so "navy blue" wins over "navy".
func keywordPattern(terms []string) (*regexp.Regexp, error) {
	return compileAlternation(terms, true)
}

func compileAlternation(terms []string, foldCase bool) (*regexp.Regexp, error) {
	alts := make([]string, 0, len(terms))
	seen := make(map[string]bool, len(terms))
	for _, t := range terms {
		key := strings.ToLower(strings.TrimSpace(t))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		alts = append(alts, strings.TrimSpace(t))
	}
	if len(alts) == 0 {
		// Matches nothing.
		return regexp.Compile(`[^\x00-\x{10FFFF}]`)
	}

	sort.SliceStable(alts, func(i, j int) bool {
		if len(alts[i]) != len(alts[j]) {
			return len(alts[i]) > len(alts[j])
		}
		return alts[i] < alts[j]
	})
	quoted := make([]string, len(alts))
	for i, a := range alts {
		quoted[i] = strings.ReplaceAll(regexp.QuoteMeta(a), " ", `\s+`)
	}

	expr := `\b(?:` + strings.Join(quoted, "|") + `)\b`
	if foldCase {
		expr = `(?i)` + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidVocabulary, err)
	}
	return re, nil
}

// lookup maps lower-cased aliases to their canonical names.
func lookup(terms []Term) map[string]string {
	out := make(map[string]string)
	for _, t := range terms {
		out[foldKey(t.Name)] = t.Name
		for _, a := range t.Aliases {
			out[foldKey(a)] = t.Name
		}
	}
	return out
}

func aliases(terms []Term) []string {
	var out []string
	for _, t := range terms {
		out = append(out, t.Name)
		out = append(out, t.Aliases...)
	}
	return out
}

// foldKey is the comparison key for textual values: whitespace collapsed and
// case folded.
func foldKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
