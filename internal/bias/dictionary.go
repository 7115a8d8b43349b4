package bias

import (
	"errors"
	"regexp"
	"sort"
	"strings"
)

// TermDictionary is an immutable, validated collection of bias terms.
// It is safe for concurrent use and is meant to be built once and shared.
type TermDictionary struct {
	terms    []*TermRecord
	byKey    map[string]*TermRecord
	patterns []*regexp.Regexp // parallel to terms
}

// NewDictionary validates the records and builds a dictionary from them.
// Every invalid record is reported; the returned error wraps one
// *DictionaryError per problem.
func NewDictionary(records []TermRecord) (*TermDictionary, error) {
	d := &TermDictionary{
		terms:    make([]*TermRecord, 0, len(records)),
		byKey:    make(map[string]*TermRecord, len(records)),
		patterns: make([]*regexp.Regexp, 0, len(records)),
	}

	var errs []error
	for i := range records {
		rec := cloneRecord(records[i])
		rec.Term = strings.TrimSpace(rec.Term)

		if rec.Term == "" {
			errs = append(errs, &DictionaryError{Reason: "empty term"})
			continue
		}
		if !rec.Category.Valid() {
			errs = append(errs, &DictionaryError{Term: rec.Term, Reason: "unknown category " + string(rec.Category)})
			continue
		}
		if rec.Severity.Rank() == 0 {
			errs = append(errs, &DictionaryError{Term: rec.Term, Reason: "unknown severity " + string(rec.Severity)})
			continue
		}
		rec.Suggestions = compact(rec.Suggestions)
		if len(rec.Suggestions) == 0 {
			errs = append(errs, &DictionaryError{Term: rec.Term, Reason: "suggestions must not be empty"})
			continue
		}
		rec.ContextExceptions = compact(rec.ContextExceptions)

		key := termKey(rec.Term)
		if _, dup := d.byKey[key]; dup {
			errs = append(errs, &DictionaryError{Term: rec.Term, Reason: "duplicate term"})
			continue
		}

		pattern, err := compileTerm(rec.Term)
		if err != nil {
			errs = append(errs, &DictionaryError{Term: rec.Term, Reason: err.Error()})
			continue
		}

		d.terms = append(d.terms, rec)
		d.byKey[key] = rec
		d.patterns = append(d.patterns, pattern)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return d, nil
}

// Len returns the number of terms
func (d *TermDictionary) Len() int {
	return len(d.terms)
}

// Terms returns copies of all records in load order
func (d *TermDictionary) Terms() []TermRecord {
	out := make([]TermRecord, len(d.terms))
	for i, t := range d.terms {
		out[i] = *cloneRecord(*t)
	}
	return out
}

// Lookup finds a record by term, ignoring case and whitespace runs
func (d *TermDictionary) Lookup(term string) (TermRecord, bool) {
	rec, ok := d.byKey[termKey(term)]
	if !ok {
		return TermRecord{}, false
	}
	return *cloneRecord(*rec), true
}

// ByCategory returns the records of one category
func (d *TermDictionary) ByCategory(c Category) []TermRecord {
	var out []TermRecord
	for _, t := range d.terms {
		if t.Category == c {
			out = append(out, *cloneRecord(*t))
		}
	}
	return out
}

// BySeverity returns the records of one severity
func (d *TermDictionary) BySeverity(s Severity) []TermRecord {
	var out []TermRecord
	for _, t := range d.terms {
		if t.Severity == s {
			out = append(out, *cloneRecord(*t))
		}
	}
	return out
}

// DictionaryStats summarizes the dictionary contents
type DictionaryStats struct {
	TotalTerms int              `json:"total_terms"`
	ByCategory map[Category]int `json:"by_category"`
	BySeverity map[Severity]int `json:"by_severity"`
}

// Stats returns term counts by category and severity
func (d *TermDictionary) Stats() DictionaryStats {
	stats := DictionaryStats{
		TotalTerms: len(d.terms),
		ByCategory: make(map[Category]int),
		BySeverity: make(map[Severity]int),
	}
	for _, t := range d.terms {
		stats.ByCategory[t.Category]++
		stats.BySeverity[t.Severity]++
	}
	return stats
}

// SortedTerms returns the records ordered by severity rank then term
func (d *TermDictionary) SortedTerms() []TermRecord {
	out := d.Terms()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Severity.Rank() != out[j].Severity.Rank() {
			return out[i].Severity.Rank() > out[j].Severity.Rank()
		}
		return out[i].Term < out[j].Term
	})
	return out
}

// termKey is the normalized form used for uniqueness and lookup
func termKey(term string) string {
	return strings.Join(strings.Fields(strings.ToLower(term)), " ")
}

func cloneRecord(r TermRecord) *TermRecord {
	c := r
	c.Suggestions = append([]string(nil), r.Suggestions...)
	c.ContextExceptions = append([]string(nil), r.ContextExceptions...)
	return &c
}

// compact trims entries and drops blanks
func compact(items []string) []string {
	var out []string
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
