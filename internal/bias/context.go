package bias

import (
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	defaultMaxContexts   = 3
	defaultContextWindow = 80
)

// ContextFilter drops matches whose sentence contains one of the term's
// exception phrases and groups the survivors into FlaggedTerms.
type ContextFilter struct {
	maxContexts int
	window      int
}

// NewContextFilter creates a filter keeping at most maxContexts snippets per
// term. window is the byte radius used when no sentence span is available.
func NewContextFilter(maxContexts, window int) *ContextFilter {
	if maxContexts <= 0 {
		maxContexts = defaultMaxContexts
	}
	if window <= 0 {
		window = defaultContextWindow
	}
	return &ContextFilter{maxContexts: maxContexts, window: window}
}

// Filter applies per-term exceptions to matches and aggregates the rest.
// spans may be nil, in which case a fixed window around each match is used.
// The result is ordered by severity (most severe first), then by first offset.
func (f *ContextFilter) Filter(text string, matches []RawMatch, spans []Span) []FlaggedTerm {
	if len(matches) == 0 {
		return nil
	}

	index := make(map[*TermRecord]int)
	var flagged []FlaggedTerm

	for _, m := range matches {
		sentence := f.sentenceFor(text, spans, m.Start, m.End)
		if isException(m.Term, sentence) {
			continue
		}

		i, seen := index[m.Term]
		if !seen {
			i = len(flagged)
			index[m.Term] = i
			flagged = append(flagged, FlaggedTerm{
				Term:        m.Term.Term,
				Category:    m.Term.Category,
				Severity:    m.Term.Severity,
				Suggestions: append([]string(nil), m.Term.Suggestions...),
				Explanation: m.Term.Explanation,
			})
		}

		ft := &flagged[i]
		ft.Count++
		ft.Positions = append(ft.Positions, m.Start)
		if len(ft.Contexts) < f.maxContexts {
			ft.Contexts = append(ft.Contexts, strings.TrimSpace(sentence))
		}
	}

	sort.SliceStable(flagged, func(i, j int) bool {
		a, b := flagged[i], flagged[j]
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() > b.Severity.Rank()
		}
		if a.FirstOffset() != b.FirstOffset() {
			return a.FirstOffset() < b.FirstOffset()
		}
		return a.Term < b.Term
	})
	return flagged
}

// sentenceFor returns the sentence containing offset, or a window around
// the match when no span covers it.
func (f *ContextFilter) sentenceFor(text string, spans []Span, start, end int) string {
	i := sort.Search(len(spans), func(i int) bool { return spans[i].End > start })
	if i < len(spans) && spans[i].Start <= start {
		lo, hi := clamp(spans[i].Start, len(text)), clamp(spans[i].End, len(text))
		if lo < hi {
			return text[lo:hi]
		}
	}
	return f.windowAround(text, start, end)
}

func (f *ContextFilter) windowAround(text string, start, end int) string {
	lo := start - f.window
	if lo < 0 {
		lo = 0
	}
	for lo > 0 && !utf8.RuneStart(text[lo]) {
		lo++
	}
	hi := end + f.window
	if hi > len(text) {
		hi = len(text)
	}
	for hi < len(text) && !utf8.RuneStart(text[hi]) {
		hi++
	}
	return text[lo:hi]
}

// isException reports whether sentence contains any of the term's own
// exception phrases
func isException(term *TermRecord, sentence string) bool {
	if len(term.ContextExceptions) == 0 {
		return false
	}
	ctx := normalizePhrase(sentence)
	for _, exc := range term.ContextExceptions {
		if p := normalizePhrase(exc); p != "" && strings.Contains(ctx, p) {
			return true
		}
	}
	return false
}

// normalizePhrase lowercases s and collapses whitespace runs
func normalizePhrase(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func clamp(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
