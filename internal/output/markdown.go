package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/vijay-prabhu/jobad-analyser/internal/bias"
	"github.com/vijay-prabhu/jobad-analyser/internal/textutil"
)

// Markdown writes a report as a Markdown document
func Markdown(w io.Writer, r *Report, opts Options) error {
	fmt.Fprintln(w, "# Inclusive Job Ad Analysis Report")
	fmt.Fprintln(w)
	if r.Name != "" {
		fmt.Fprintf(w, "**Source:** %s\n\n", mdEscape(r.Name))
	}
	if r.Title != "" {
		fmt.Fprintf(w, "**Title:** %s\n\n", mdEscape(r.Title))
	}
	if r.Result == nil {
		fmt.Fprintf(w, "**Error:** %s\n\n", mdEscape(r.Error))
		return nil
	}
	res := r.Result

	fmt.Fprintf(w, "**Overall Score:** %.1f/100 (%s)\n\n", res.OverallScore, res.Grade)
	fmt.Fprintf(w, "**Word Count:** %d\n\n", res.WordCount)
	fmt.Fprintf(w, "**Issues Found:** %d\n\n", len(res.FlaggedTerms))

	if len(res.CategoryScores) > 0 {
		fmt.Fprintln(w, "## Category Breakdown")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "| Category | Score | Issues | Max Severity |")
		fmt.Fprintln(w, "|----------|-------|--------|--------------|")
		for _, cs := range sortedByScore(res.CategoryScores) {
			fmt.Fprintf(w, "| %s | %.1f/100 | %d | %s |\n",
				textutil.Label(string(cs.Category)), cs.Score, cs.IssueCount, cs.MaxSeverity)
		}
		fmt.Fprintln(w)
	}

	if len(res.FlaggedTerms) > 0 {
		fmt.Fprintln(w, "## Issues Detected")
		fmt.Fprintln(w)
		for _, sev := range bias.Severities {
			terms := termsWithSeverity(res.FlaggedTerms, sev)
			if len(terms) == 0 {
				continue
			}
			fmt.Fprintf(w, "### %s Severity\n\n", strings.ToUpper(string(sev)))
			for _, f := range terms {
				fmt.Fprintf(w, "**%s** (%s, found %dx)\n", mdEscape(f.Term), f.Category, f.Count)
				if f.Explanation != "" {
					fmt.Fprintf(w, "- Issue: %s\n", mdEscape(f.Explanation))
				}
				fmt.Fprintf(w, "- Suggestion: %s\n", mdEscape(strings.Join(f.Suggestions, ", ")))
				if len(f.Contexts) > 0 {
					fmt.Fprintf(w, "- Context: \"%s\"\n", mdEscape(shorten(f.Contexts[0], maxContextLen)))
				}
				fmt.Fprintln(w)
			}
		}
	}

	if len(res.Recommendations) > 0 {
		fmt.Fprintln(w, "## Recommendations")
		fmt.Fprintln(w)
		for _, rec := range res.Recommendations {
			fmt.Fprintf(w, "- %s\n", mdEscape(rec))
		}
		fmt.Fprintln(w)
	}

	if len(res.PositiveIndicators) > 0 {
		fmt.Fprintln(w, "## Positive Aspects")
		fmt.Fprintln(w)
		for _, aspect := range res.PositiveIndicators {
			fmt.Fprintf(w, "- ✓ Contains '%s'\n", aspect)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "---\n*Report generated: %s*\n\n", opts.now().Format("2006-01-02 15:04:05"))
	return nil
}

var mdReplacer = strings.NewReplacer("|", `\|`, "*", `\*`, "_", `\_`, "`", "\\`", "\n", " ")

func mdEscape(s string) string {
	return mdReplacer.Replace(s)
}
