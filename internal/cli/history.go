package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/jobad-analyser/internal/bias"
	"github.com/vijay-prabhu/jobad-analyser/internal/database"
	"github.com/vijay-prabhu/jobad-analyser/internal/output"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse saved analyses",
	Long: `Browse analyses stored with 'jobad analyse --save' or with
[history] enabled = true in the config file.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved analyses",
	Long: `List saved analyses, newest first.

Examples:
  jobad history list                  # Last 20 analyses
  jobad history list --grade=poor     # Only poor results
  jobad history list --since=7d       # Analyses from the last 7 days
  jobad history list -f json          # Output as JSON`,
	RunE: runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a saved analysis report",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate statistics and the most frequent terms",
	RunE:  runHistoryStats,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved analysis",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

var (
	historyGrade  string
	historySince  string
	historySource string
	historyLimit  int
	historyTop    int
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyStatsCmd)
	historyCmd.AddCommand(historyDeleteCmd)

	historyListCmd.Flags().StringVar(&historyGrade, "grade", "", "Filter by grade (excellent, good, fair, poor)")
	historyListCmd.Flags().StringVar(&historySince, "since", "", "Filter by time (e.g., 7d, 2w, 1m)")
	historyListCmd.Flags().StringVar(&historySource, "source", "", "Filter by source (partial match)")
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of results")

	historyStatsCmd.Flags().StringVar(&historySince, "since", "", "Time period (e.g., 7d, 2w, 1m)")
	historyStatsCmd.Flags().IntVar(&historyTop, "top", 10, "Number of most frequent terms to show")
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	opts := database.ListOptions{Limit: historyLimit}
	if historyGrade != "" {
		g, err := bias.ParseGrade(historyGrade)
		if err != nil {
			return err
		}
		opts.Grade = &g
	}
	if historySource != "" {
		opts.Source = &historySource
	}
	since, err := parseSince(historySince)
	if err != nil {
		return err
	}
	opts.Since = since

	analyses, err := db.ListAnalyses(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to list analyses: %w", err)
	}
	if analyses == nil {
		analyses = []database.Analysis{}
	}
	return output.Output(outputFmt, analyses)
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	a, err := db.GetAnalysis(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get analysis: %w", err)
	}
	if a == nil {
		return fmt.Errorf("analysis not found: %s", args[0])
	}
	result, err := a.Result()
	if err != nil {
		return fmt.Errorf("stored result is unreadable: %w", err)
	}

	report := output.Report{Name: a.Source, Result: result}
	if a.Title != nil {
		report.Title = *a.Title
	}

	format := outputFmt
	if format == "" || format == "table" {
		format = "text"
	}
	opts := output.Options{
		Color:      NewTerminal(os.Stdout, false).UseColor,
		Thresholds: cfg.Scoring.GradeThresholds,
		Now:        func() time.Time { return a.CreatedAt.Local() },
	}
	return output.Write(os.Stdout, format, []output.Report{report}, opts)
}

func runHistoryStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	since, err := parseSince(historySince)
	if err != nil {
		return err
	}

	stats, err := db.GetStats(ctx, since)
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}
	top, err := db.TopTerms(ctx, historyTop)
	if err != nil {
		return fmt.Errorf("failed to get top terms: %w", err)
	}

	if outputFmt == "json" {
		return output.JSON(map[string]interface{}{
			"stats":     stats,
			"top_terms": top,
		})
	}

	if err := output.Table(stats); err != nil {
		return err
	}
	if stats.TotalAnalyses == 0 {
		return nil
	}
	fmt.Println()
	fmt.Println("Most frequent terms:")
	if top == nil {
		top = []database.TermCount{}
	}
	return output.Table(top)
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	a, err := db.GetAnalysis(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get analysis: %w", err)
	}
	if a == nil {
		return fmt.Errorf("analysis not found: %s", args[0])
	}
	if err := db.DeleteAnalysis(ctx, a.ID); err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}
	fmt.Printf("Deleted analysis %s (%s)\n", a.ID, a.Source)
	return nil
}

// parseSince converts a --since flag into a cutoff time; empty means none
func parseSince(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := parseDuration(s)
	if err != nil {
		return nil, fmt.Errorf("invalid duration: %w", err)
	}
	since := time.Now().Add(-d)
	return &since, nil
}

// parseDuration parses durations like 7d, 2w or 1m
func parseDuration(s string) (time.Duration, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid duration format")
	}

	unit := s[len(s)-1]
	valueStr := s[:len(s)-1]

	var value int
	if _, err := fmt.Sscanf(valueStr, "%d", &value); err != nil || value < 0 {
		return 0, fmt.Errorf("invalid duration value")
	}

	switch unit {
	case 'd':
		return time.Duration(value) * 24 * time.Hour, nil
	case 'w':
		return time.Duration(value) * 7 * 24 * time.Hour, nil
	case 'm':
		return time.Duration(value) * 30 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown duration unit: %c (use d, w, or m)", unit)
	}
}
