package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/jobad-analyser/internal/batch"
	"github.com/vijay-prabhu/jobad-analyser/internal/bias"
	"github.com/vijay-prabhu/jobad-analyser/internal/config"
	"github.com/vijay-prabhu/jobad-analyser/internal/output"
	"github.com/vijay-prabhu/jobad-analyser/internal/scraper"
	"github.com/vijay-prabhu/jobad-analyser/internal/textutil"
)

var analyseCmd = &cobra.Command{
	Use:     "analyse [file...]",
	Aliases: []string{"analyze"},
	Short:   "Analyse job ads for biased language",
	Long: `Analyse one or more job ads and report an inclusivity score, flagged
terms with neutral alternatives and recommendations.

Input can come from files, a directory, stdin or job board URLs. Files that
are not valid UTF-8 are read as Latin-1.

Exit status is 2 when any ad grades poor, 1 on errors.

Examples:
  jobad analyse ad.txt                       # Text report for one file
  jobad analyse -d ads/ --pattern '*.md'     # Every Markdown file in ads/
  cat ad.txt | jobad analyse --stdin -f json # JSON report from stdin
  jobad analyse -u https://example.com/job/1 # Fetch and analyse a posting
  jobad analyse -d ads/ -f csv -o report.csv # CSV summary of a batch`,
	RunE: runAnalyse,
}

var (
	analyseStdin     bool
	analyseDir       string
	analysePattern   string
	analyseURLs      []string
	analyseURLsFile  string
	analyseOutput    string
	analyseNoColor   bool
	analyseSegmenter string
	analyseSave      bool
)

func init() {
	rootCmd.AddCommand(analyseCmd)

	analyseCmd.Flags().BoolVar(&analyseStdin, "stdin", false, "Read a job ad from stdin")
	analyseCmd.Flags().StringVarP(&analyseDir, "dir", "d", "", "Analyse every matching file in a directory")
	analyseCmd.Flags().StringVar(&analysePattern, "pattern", "*.txt", "File pattern used with --dir")
	analyseCmd.Flags().StringArrayVarP(&analyseURLs, "url", "u", nil, "Job posting URL to fetch (repeatable)")
	analyseCmd.Flags().StringVar(&analyseURLsFile, "urls-file", "", "File with one job posting URL per line")
	analyseCmd.Flags().StringVarP(&analyseOutput, "output", "o", "", "Write the report to a file instead of stdout")
	analyseCmd.Flags().BoolVar(&analyseNoColor, "no-color", false, "Disable coloured output")
	analyseCmd.Flags().StringVar(&analyseSegmenter, "segmenter", "", "Sentence segmenter (unicode, regex, window)")
	analyseCmd.Flags().BoolVar(&analyseSave, "save", false, "Store results in the analysis history")
}

// input is one job ad to analyse, or the reason it could not be read
type input struct {
	name  string
	title string
	text  string
	err   error
}

func runAnalyse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	format := outputFmt
	if format == "" {
		format = "text"
	}
	if !slices.Contains(output.Formats, format) && format != "md" {
		return fmt.Errorf("unknown output format: %s (use %s)", format, strings.Join(output.Formats, ", "))
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	analyser, err := buildAnalyser(cfg, analyseSegmenter)
	if err != nil {
		return err
	}

	inputs, err := collectInputs(cmd, cfg, args)
	if err != nil {
		return err
	}

	// Analyse everything that could be read, keeping input order
	var docs []batch.Document
	var docIndex []int
	for i, in := range inputs {
		if in.err == nil {
			docs = append(docs, batch.Document{Name: in.name, Text: in.text})
			docIndex = append(docIndex, i)
		}
	}
	runner := batch.NewRunner(analyser, cfg.Batch.Workers, cfg.Batch.Timeout(), logger)
	outcomes := runner.Run(ctx, docs)

	reports := make([]output.Report, len(inputs))
	for i, in := range inputs {
		reports[i] = output.Report{Name: in.name, Title: in.title}
		if in.err != nil {
			reports[i].Error = in.err.Error()
		}
	}
	for j, o := range outcomes {
		r := &reports[docIndex[j]]
		if o.Err != nil {
			r.Error = o.Err.Error()
			continue
		}
		r.Result = o.Result
	}

	if analyseSave || cfg.History.Enabled {
		if err := saveReports(cmd, cfg, reports); err != nil {
			return err
		}
	}

	if err := writeReports(format, reports, cfg); err != nil {
		return err
	}

	if len(reports) > 1 && format == "text" {
		printSummary(outcomes, len(inputs)-len(docs))
	}

	failed, poor := 0, 0
	for _, r := range reports {
		switch {
		case r.Result == nil:
			failed++
		case r.Result.Grade == bias.GradePoor:
			poor++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d job ad(s) could not be analysed", failed, len(reports))
	}
	if poor > 0 {
		return ErrPoorScore
	}
	return nil
}

func collectInputs(cmd *cobra.Command, cfg *config.Config, args []string) ([]input, error) {
	var inputs []input

	for _, path := range args {
		inputs = append(inputs, readFileInput(path))
	}

	if analyseDir != "" {
		matches, err := filepath.Glob(filepath.Join(analyseDir, analysePattern))
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", analysePattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files matching %s in %s", analysePattern, analyseDir)
		}
		slices.Sort(matches)
		for _, path := range matches {
			inputs = append(inputs, readFileInput(path))
		}
	}

	urls := append([]string(nil), analyseURLs...)
	if analyseURLsFile != "" {
		fromFile, err := readURLList(analyseURLsFile)
		if err != nil {
			return nil, err
		}
		urls = append(urls, fromFile...)
	}
	if len(urls) > 0 {
		inputs = append(inputs, fetchInputs(cmd, cfg, urls)...)
	}

	useStdin := analyseStdin
	if len(inputs) == 0 && !useStdin {
		if NewTerminal(os.Stdin, true).IsTerminal {
			return nil, errors.New("no input: pass files, --dir, --url, --urls-file or --stdin")
		}
		useStdin = true
	}
	if useStdin {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		inputs = append(inputs, decodeInput("stdin", data))
	}

	return inputs, nil
}

func readFileInput(path string) input {
	data, err := os.ReadFile(path)
	if err != nil {
		return input{name: path, err: fmt.Errorf("failed to read file: %w", err)}
	}
	return decodeInput(path, data)
}

func decodeInput(name string, data []byte) input {
	text, err := textutil.Decode(data)
	if err != nil {
		return input{name: name, err: err}
	}
	return input{name: name, text: textutil.Normalize(text)}
}

// readURLList reads one URL per line, skipping blanks and # comments
func readURLList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open URL list: %w", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read URL list: %w", err)
	}
	return urls, nil
}

func fetchInputs(cmd *cobra.Command, cfg *config.Config, urls []string) []input {
	s := newScraper(cfg)
	term := NewTerminal(os.Stderr, analyseNoColor)
	defer term.ClearLine()

	inputs := make([]input, 0, len(urls))
	for i, u := range urls {
		term.Progress("Fetching %d/%d %s", i+1, len(urls), u)
		ad, err := s.Scrape(cmd.Context(), u)
		if err != nil {
			inputs = append(inputs, input{name: u, err: err})
			continue
		}
		title := ad.Title
		if ad.Company != "" && ad.Company != scraper.UnknownCompany {
			title = fmt.Sprintf("%s at %s", ad.Title, ad.Company)
		}
		inputs = append(inputs, input{name: u, title: title, text: textutil.Normalize(ad.Text)})
	}
	return inputs
}

func writeReports(format string, reports []output.Report, cfg *config.Config) error {
	w := os.Stdout
	color := false
	if analyseOutput != "" {
		f, err := os.Create(analyseOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	} else {
		color = NewTerminal(os.Stdout, analyseNoColor).UseColor
	}

	opts := output.Options{Color: color, Thresholds: cfg.Scoring.GradeThresholds}
	if err := output.Write(w, format, reports, opts); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if analyseOutput != "" {
		fmt.Fprintf(os.Stderr, "Report written to %s\n", analyseOutput)
	}
	return nil
}

func saveReports(cmd *cobra.Command, cfg *config.Config, reports []output.Report) error {
	db, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, r := range reports {
		if r.Result == nil {
			continue
		}
		var title *string
		if r.Title != "" {
			title = &r.Title
		}
		stored, err := db.SaveAnalysis(cmd.Context(), r.Name, title, r.Result)
		if err != nil {
			return fmt.Errorf("failed to save analysis of %s: %w", r.Name, err)
		}
		logger.Info("saved analysis", "id", stored.ID, "source", r.Name)
	}
	return nil
}

func printSummary(outcomes []batch.Outcome, unreadable int) {
	s := batch.Summarize(outcomes)
	term := NewTerminal(os.Stderr, analyseNoColor)

	fmt.Fprintln(os.Stderr, term.Color(output.ColorBold, "BATCH SUMMARY"))
	fmt.Fprintf(os.Stderr, "Analysed: %d", s.Total-s.Failed)
	if failed := s.Failed + unreadable; failed > 0 {
		fmt.Fprintf(os.Stderr, "  %s", term.Color(output.ColorRed, fmt.Sprintf("Failed: %d", failed)))
	}
	fmt.Fprintln(os.Stderr)
	if s.Total > s.Failed {
		fmt.Fprintf(os.Stderr, "Average score: %.1f/100\n", s.AverageScore)
	}
	for _, g := range bias.Grades {
		if n := s.ByGrade[g]; n > 0 {
			fmt.Fprintf(os.Stderr, "  %-10s %d\n", g, n)
		}
	}
}
