package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/vijay-prabhu/jobad-analyser/internal/bias"
	"github.com/vijay-prabhu/jobad-analyser/internal/textutil"
)

const (
	ruleWidth     = 60
	maxContextLen = 100
)

var (
	heavyRule = strings.Repeat("=", ruleWidth)
	lightRule = strings.Repeat("-", ruleWidth)
)

// Text writes a human-readable report
func Text(w io.Writer, r *Report, opts Options) error {
	p := palette(opts.Color)
	t := opts.thresholds()

	fmt.Fprintln(w)
	fmt.Fprintln(w, p.wrap(ColorBold, heavyRule))
	fmt.Fprintln(w, p.wrap(ColorBold, "INCLUSIVE JOB AD ANALYSIS REPORT"))
	if r.Name != "" {
		fmt.Fprintf(w, "Source: %s\n", r.Name)
	}
	if r.Title != "" {
		fmt.Fprintf(w, "Title:  %s\n", r.Title)
	}
	fmt.Fprintln(w, p.wrap(ColorBold, heavyRule))
	fmt.Fprintln(w)

	if r.Result == nil {
		fmt.Fprintf(w, "%s %s\n\n", p.wrap(ColorRed, "Error:"), r.Error)
		return nil
	}
	res := r.Result

	score := fmt.Sprintf("%.1f/100", res.OverallScore)
	fmt.Fprintf(w, "Overall Score: %s (%s)\n", p.wrap(scoreColor(res.OverallScore, t.Excellent, t.Good, t.Fair), score), res.Grade)
	fmt.Fprintf(w, "Word Count: %d\n", res.WordCount)
	fmt.Fprintf(w, "Issues Found: %d\n\n", len(res.FlaggedTerms))

	if len(res.CategoryScores) > 0 {
		fmt.Fprintln(w, p.wrap(ColorBold, "CATEGORY BREAKDOWN:"))
		if err := categoryTable(w, res.CategoryScores); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	if len(res.FlaggedTerms) > 0 {
		fmt.Fprintln(w, p.wrap(ColorBold, "ISSUES DETECTED:"))
		fmt.Fprintln(w, lightRule)
		for _, sev := range bias.Severities {
			terms := termsWithSeverity(res.FlaggedTerms, sev)
			if len(terms) == 0 {
				continue
			}
			fmt.Fprintf(w, "\n%s\n", p.wrap(severityColor(string(sev)), strings.ToUpper(string(sev))+" SEVERITY:"))
			for i, f := range terms {
				fmt.Fprintf(w, "\n%d. '%s' [%s] (found %dx)\n", i+1, f.Term, f.Category, f.Count)
				if f.Explanation != "" {
					fmt.Fprintf(w, "   Issue: %s\n", f.Explanation)
				}
				fmt.Fprintf(w, "   Suggestion: %s\n", p.wrap(ColorGreen, strings.Join(f.Suggestions, ", ")))
				if len(f.Contexts) > 0 {
					fmt.Fprintf(w, "   Context: %q\n", shorten(f.Contexts[0], maxContextLen))
				}
			}
		}
		fmt.Fprintln(w)
	}

	if len(res.Recommendations) > 0 {
		fmt.Fprintf(w, "\n%s\n", p.wrap(ColorBold, "RECOMMENDATIONS:"))
		fmt.Fprintln(w, lightRule)
		for _, rec := range res.Recommendations {
			fmt.Fprintln(w, rec)
		}
		fmt.Fprintln(w)
	}

	if len(res.PositiveIndicators) > 0 {
		fmt.Fprintf(w, "\n%s\n", p.wrap(ColorGreen, "POSITIVE ASPECTS:"))
		fmt.Fprintln(w, lightRule)
		for _, aspect := range res.PositiveIndicators {
			fmt.Fprintf(w, "✓ Contains '%s'\n", aspect)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, lightRule)
	fmt.Fprintf(w, "Report generated: %s\n\n", opts.now().Format("2006-01-02 15:04:05"))
	return nil
}

func categoryTable(w io.Writer, scores []bias.CategoryScore) error {
	sorted := sortedByScore(scores)

	table := tablewriter.NewWriter(w)
	table.Header("Category", "Score", "Issues", "Max Severity")
	for _, cs := range sorted {
		if err := table.Append(
			textutil.Label(string(cs.Category)),
			fmt.Sprintf("%.1f/100", cs.Score),
			fmt.Sprintf("%d", cs.IssueCount),
			string(cs.MaxSeverity),
		); err != nil {
			return err
		}
	}
	return table.Render()
}

// sortedByScore orders categories worst first, keeping reporting order on ties
func sortedByScore(scores []bias.CategoryScore) []bias.CategoryScore {
	sorted := append([]bias.CategoryScore(nil), scores...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score < sorted[j].Score })
	return sorted
}

func termsWithSeverity(flagged []bias.FlaggedTerm, sev bias.Severity) []bias.FlaggedTerm {
	var out []bias.FlaggedTerm
	for _, f := range flagged {
		if f.Severity == sev {
			out = append(out, f)
		}
	}
	return out
}

// shorten truncates s to n runes, adding "..." when cut
func shorten(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
