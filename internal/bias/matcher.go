package bias

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Matcher finds whole-word, case-insensitive occurrences of dictionary terms
type Matcher struct {
	dict *TermDictionary
}

// NewMatcher creates a Matcher over the given dictionary
func NewMatcher(dict *TermDictionary) *Matcher {
	return &Matcher{dict: dict}
}

// Match returns every occurrence of every term in ascending offset order.
// Occurrences of the same term never overlap; occurrences of different
// terms may, and all of them are kept.
func (m *Matcher) Match(text string) []RawMatch {
	if m.dict == nil || text == "" {
		return nil
	}

	var matches []RawMatch
	for i, term := range m.dict.terms {
		matches = append(matches, findTerm(text, term, m.dict.patterns[i])...)
	}

	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.End != b.End {
			return a.End > b.End
		}
		return a.Term.Term < b.Term.Term
	})
	return matches
}

// findTerm scans text left to right for one term. A candidate touching a
// letter or digit on either side is rejected and the scan resumes one rune
// after its start, so a later valid occurrence is not lost.
func findTerm(text string, term *TermRecord, pattern *regexp.Regexp) []RawMatch {
	var out []RawMatch
	pos := 0
	for pos < len(text) {
		loc := pattern.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if end > start && isBoundary(text, start, end) {
			out = append(out, RawMatch{Term: term, Start: start, End: end})
			pos = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		if size == 0 {
			size = 1
		}
		pos = start + size
	}
	return out
}

// isBoundary reports whether text[start:end] stands alone as a word or phrase
func isBoundary(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// wordSeparator matches any whitespace run, including Unicode spaces, line
// and paragraph separators and NEL, the same set strings.Fields splits on
const wordSeparator = `[\s\p{Z}\x{85}]+`

// compileTerm builds the case-insensitive pattern for a term. Words are
// joined by wordSeparator so any whitespace run in the text separates them.
func compileTerm(term string) (*regexp.Regexp, error) {
	words := strings.Fields(term)
	if len(words) == 0 {
		return nil, fmt.Errorf("term has no words")
	}
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.Compile(`(?i)` + strings.Join(quoted, wordSeparator))
}
