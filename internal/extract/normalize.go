package extract

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Document is normalized input text plus everything rules need to report
// matches: sentence boundaries and a map back to the original text.
type Document struct {
	// Original is the text exactly as received.
	Original string

	// Text is the normalized form that rules match against.
	Text string

	// Sentences are spans over Text in reading order.
	Sentences []Sentence

	// offsets[i] is the byte offset in Original of the byte at Text[i].
	// It carries one extra entry so that offsets[len(Text)] is valid.
	offsets []int
}

// Sentence is a half-open span [Start, End) over Document.Text with any
// leading list marker already excluded.
type Sentence struct {
	Start int
	End   int
}

var punctuationFolds = map[rune]string{
	'\u2018': "'", '\u2019': "'", '\u201a': "'", '\u201b': "'", '\u2032': "'",
	'\u201c': `"`, '\u201d': `"`, '\u201e': `"`, '\u201f': `"`, '\u2033': `"`,
	'\u2010': "-", '\u2011': "-", '\u2012': "-", '\u2013': "-", '\u2014': "-", '\u2015': "-", '\u2212': "-",
	'\u2026': "...",
	'\u00d7': "x",
}

// dropped runes never reach the normalized text.
var dropped = map[rune]bool{
	'\u200b': true, '\u200c': true, '\u200d': true, '\u2060': true, '\ufeff': true, '\u00ad': true,
}

// abbreviations that end with a period without ending a sentence.
var abbreviations = map[string]bool{
	"e.g": true, "i.e": true, "etc": true, "vs": true, "approx": true, "incl": true,
	"mr": true, "mrs": true, "ms": true, "dr": true, "min": true, "max": true, "est": true,
	"jan": true, "feb": true, "mar": true, "apr": true, "jun": true, "jul": true, "aug": true,
	"sep": true, "sept": true, "oct": true, "nov": true, "dec": true,
}

// Normalize collapses whitespace runs to a single space, folds typographic
// quotes and dashes to ASCII, drops zero-width characters and segments the
// result into sentences. Applying it to its own output is a no-op.
func Normalize(text string) *Document {
	doc := &Document{Original: text}

	var b strings.Builder
	b.Grow(len(text))
	offsets := make([]int, 0, len(text)+1)
	// gaps records, for every space written, how many line breaks it replaced.
	gaps := make(map[int]int)

	gapStart, gapNewlines := -1, 0
	for i, r := range text {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(text[i:]); size == 1 {
				r = ' '
			}
		}
		if dropped[r] {
			continue
		}
		if unicode.IsSpace(r) {
			if gapStart < 0 {
				gapStart = i
			}
			if r == '\n' || r == '\u2028' || r == '\u2029' {
				gapNewlines++
			}
			continue
		}

		if gapStart >= 0 && b.Len() > 0 {
			gaps[b.Len()] = gapNewlines
			b.WriteByte(' ')
			offsets = append(offsets, gapStart)
		}
		gapStart, gapNewlines = -1, 0

		out, folded := punctuationFolds[r]
		if !folded {
			out = string(r)
		}
		b.WriteString(out)
		for range len(out) {
			offsets = append(offsets, i)
		}
	}

	end := len(text)
	if gapStart >= 0 {
		end = gapStart
	}
	offsets = append(offsets, end)

	doc.Text = b.String()
	doc.offsets = offsets
	doc.Sentences = segment(doc.Text, gaps)
	return doc
}

// segment splits normalized text at terminal punctuation followed by a space,
// at paragraph breaks and at line breaks that introduce a list item.
func segment(text string, gaps map[int]int) []Sentence {
	sentences := make([]Sentence, 0, strings.Count(text, ". ")+1)
	start := 0

	flush := func(end int) {
		s := Sentence{Start: start, End: end}
		s.Start += bulletMarkerLen(text[s.Start:s.End])
		for s.Start < s.End && text[s.Start] == ' ' {
			s.Start++
		}
		for s.End > s.Start && text[s.End-1] == ' ' {
			s.End--
		}
		if s.Start < s.End {
			sentences = append(sentences, s)
		}
	}

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			if i+1 < len(text) && text[i+1] != ' ' {
				continue
			}
			if text[i] == '.' && (isAbbreviation(text[:i]) || isListNumber(text[start:i])) {
				continue
			}
			flush(i + 1)
			start = i + 1
		case ' ':
			newlines, ok := gaps[i]
			if !ok || newlines == 0 {
				continue
			}
			if newlines >= 2 || bulletMarkerLen(text[i+1:]) > 0 {
				flush(i)
				start = i + 1
			}
		}
	}
	if start < len(text) {
		flush(len(text))
	}
	return sentences
}

// bulletMarkerLen returns the length of a list marker ("- ", "* ", "• ",
// "1. ", "2) ") at the start of s, or zero.
func bulletMarkerLen(s string) int {
	for _, marker := range []string{"- ", "* ", "\u2022 ", "\u00b7 ", "\u25aa ", "\u25e6 "} {
		if strings.HasPrefix(s, marker) {
			return len(marker)
		}
	}
	digits := 0
	for digits < len(s) && digits < 3 && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	if digits == 0 || digits+1 >= len(s) {
		return 0
	}
	if (s[digits] == '.' || s[digits] == ')') && s[digits+1] == ' ' {
		return digits + 2
	}
	return 0
}

// isListNumber reports whether s is only the number of an ordered list item.
func isListNumber(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 3 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// isAbbreviation reports whether the word ending just before a period is a
// known abbreviation or a single letter initial.
func isAbbreviation(prefix string) bool {
	i := len(prefix)
	for i > 0 {
		c := prefix[i-1]
		if c == ' ' || c == '(' || c == '"' || c == '\'' {
			break
		}
		i--
	}
	word := strings.ToLower(prefix[i:])
	if word == "" {
		return false
	}
	if len(word) == 1 && word[0] >= 'a' && word[0] <= 'z' {
		return true
	}
	return abbreviations[word]
}

// SentenceAt returns the index of the sentence containing the normalized
// offset pos, or the nearest preceding sentence when pos falls in a gap.
func (d *Document) SentenceAt(pos int) int {
	if len(d.Sentences) == 0 {
		return -1
	}
	i := sort.Search(len(d.Sentences), func(i int) bool {
		return d.Sentences[i].End > pos
	})
	if i == len(d.Sentences) {
		return len(d.Sentences) - 1
	}
	if d.Sentences[i].Start > pos && i > 0 {
		return i - 1
	}
	return i
}

// SentenceText returns the normalized text of sentence i.
func (d *Document) SentenceText(i int) string {
	if i < 0 || i >= len(d.Sentences) {
		return ""
	}
	s := d.Sentences[i]
	return d.Text[s.Start:s.End]
}

// Context returns sentence i as written in the original text with its
// whitespace collapsed, so punctuation and capitalization stay natural.
func (d *Document) Context(i int) string {
	if i < 0 || i >= len(d.Sentences) {
		return ""
	}
	s := d.Sentences[i]
	return strings.Join(strings.Fields(d.Original[d.offsets[s.Start]:d.offsets[s.End]]), " ")
}

// OriginalSpan maps a normalized span back to the original text.
func (d *Document) OriginalSpan(start, end int) (int, int) {
	return d.offsets[start], d.offsets[end]
}

// WordCount counts whitespace separated words.
func (d *Document) WordCount() int {
	return len(strings.Fields(d.Text))
}
