package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/vijay-prabhu/jobad-analyser/internal/bias"
	"github.com/vijay-prabhu/jobad-analyser/internal/database"
	"github.com/vijay-prabhu/jobad-analyser/internal/textutil"
)

// Table writes data as a formatted table to stdout
func Table(data interface{}) error {
	return TableTo(os.Stdout, data)
}

// TableTo writes data as a formatted table to the given writer
func TableTo(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case []database.Analysis:
		return analysesTable(w, v)
	case *database.Analysis:
		return analysisDetail(w, v)
	case *database.Stats:
		return statsTable(w, v)
	case []database.TermCount:
		return topTermsTable(w, v)
	case []bias.TermRecord:
		return termsTable(w, v)
	case bias.DictionaryStats:
		return dictionaryStatsTable(w, v)
	default:
		return fmt.Errorf("unsupported data type for table output: %T", data)
	}
}

func analysesTable(w io.Writer, analyses []database.Analysis) error {
	if len(analyses) == 0 {
		fmt.Fprintln(w, "No analyses found.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Source", "Score", "Grade", "Issues", "Analysed")
	for _, a := range analyses {
		if err := table.Append(
			a.ID[:min(8, len(a.ID))],
			truncate(a.Source, 40),
			fmt.Sprintf("%.1f", a.OverallScore),
			string(a.Grade),
			fmt.Sprintf("%d", a.IssueCount),
			formatAge(a.CreatedAt),
		); err != nil {
			return err
		}
	}
	return table.Render()
}

func analysisDetail(w io.Writer, a *database.Analysis) error {
	fmt.Fprintf(w, "ID:          %s\n", a.ID)
	fmt.Fprintf(w, "Source:      %s\n", a.Source)
	if a.Title != nil && *a.Title != "" {
		fmt.Fprintf(w, "Title:       %s\n", *a.Title)
	}
	fmt.Fprintf(w, "Score:       %.1f/100 (%s)\n", a.OverallScore, a.Grade)
	fmt.Fprintf(w, "Words:       %d\n", a.WordCount)
	fmt.Fprintf(w, "Issues:      %d\n", a.IssueCount)
	fmt.Fprintf(w, "Analysed:    %s\n", a.CreatedAt.Local().Format("Jan 02, 2006 15:04"))
	return nil
}

func statsTable(w io.Writer, s *database.Stats) error {
	fmt.Fprintln(w, "Analysis History")
	fmt.Fprintln(w, strings.Repeat("=", 40))
	fmt.Fprintf(w, "Total analyses:   %d\n", s.TotalAnalyses)
	if s.TotalAnalyses == 0 {
		return nil
	}
	fmt.Fprintf(w, "Average score:    %.1f\n", s.AverageScore)
	fmt.Fprintf(w, "Score range:      %.1f - %.1f\n", s.MinScore, s.MaxScore)
	fmt.Fprintf(w, "Issues flagged:   %d\n", s.TotalIssues)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "By grade:")
	for _, g := range bias.Grades {
		fmt.Fprintf(w, "  %-10s %d\n", g, s.ByGrade[g])
	}
	return nil
}

func topTermsTable(w io.Writer, terms []database.TermCount) error {
	if len(terms) == 0 {
		fmt.Fprintln(w, "No flagged terms recorded.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("Term", "Category", "Severity", "Ads", "Occurrences")
	for _, t := range terms {
		if err := table.Append(
			t.Term,
			string(t.Category),
			string(t.Severity),
			fmt.Sprintf("%d", t.Analyses),
			fmt.Sprintf("%d", t.Instances),
		); err != nil {
			return err
		}
	}
	return table.Render()
}

func termsTable(w io.Writer, terms []bias.TermRecord) error {
	if len(terms) == 0 {
		fmt.Fprintln(w, "No terms found.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("Term", "Category", "Severity", "Suggestions")
	for _, t := range terms {
		if err := table.Append(
			t.Term,
			string(t.Category),
			string(t.Severity),
			truncate(strings.Join(t.Suggestions, ", "), 50),
		); err != nil {
			return err
		}
	}
	return table.Render()
}

func dictionaryStatsTable(w io.Writer, s bias.DictionaryStats) error {
	fmt.Fprintf(w, "Total terms: %d\n\n", s.TotalTerms)

	table := tablewriter.NewWriter(w)
	table.Header("Category", "Terms")
	for _, c := range bias.Categories {
		if err := table.Append(textutil.Label(string(c)), fmt.Sprintf("%d", s.ByCategory[c])); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Fprintln(w)

	table = tablewriter.NewWriter(w)
	table.Header("Severity", "Terms")
	for _, sev := range bias.Severities {
		if err := table.Append(string(sev), fmt.Sprintf("%d", s.BySeverity[sev])); err != nil {
			return err
		}
	}
	return table.Render()
}

func formatAge(t time.Time) string {
	d := time.Since(t)
	days := int(d.Hours() / 24)
	switch {
	case d < time.Hour:
		return fmt.Sprintf("%d min ago", int(d.Minutes()))
	case days == 0:
		return fmt.Sprintf("%d hours ago", int(d.Hours()))
	case days == 1:
		return "yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		return fmt.Sprintf("%d weeks ago", days/7)
	default:
		return t.Local().Format("Jan 02, 2006")
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
