package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/jobad-analyser/internal/bias"
	"github.com/vijay-prabhu/jobad-analyser/internal/dictionary"
	"github.com/vijay-prabhu/jobad-analyser/internal/output"
)

var termsCmd = &cobra.Command{
	Use:   "terms",
	Short: "Show the bias term dictionary",
	Long: `List the terms the analyser looks for, or summarise the dictionary.

Examples:
  jobad terms                          # Dictionary statistics
  jobad terms --category=ageist        # Ageist terms
  jobad terms --severity=critical      # Critical terms in every category
  jobad terms --all -f json            # Every term as JSON
  jobad terms --export terms.toml      # Write the dictionary as TOML to customise`,
	RunE: runTerms,
}

var (
	termsCategory string
	termsSeverity string
	termsAll      bool
	termsExport   string
)

func init() {
	rootCmd.AddCommand(termsCmd)

	termsCmd.Flags().StringVar(&termsCategory, "category", "", "List terms in a category (gender-coded, ageist, ableist, culture-fit, socioeconomic, racial)")
	termsCmd.Flags().StringVar(&termsSeverity, "severity", "", "List terms with a severity (critical, high, medium, low)")
	termsCmd.Flags().BoolVar(&termsAll, "all", false, "List every term")
	termsCmd.Flags().StringVar(&termsExport, "export", "", "Write the dictionary to a TOML file")
}

func runTerms(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dict, err := dictionary.Load(cfg.Dictionary.Path)
	if err != nil {
		return fmt.Errorf("failed to load dictionary: %w", err)
	}

	if termsExport != "" {
		f, err := os.Create(termsExport)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", termsExport, err)
		}
		defer f.Close()
		if err := dictionary.WriteTOML(f, dict.SortedTerms()); err != nil {
			return fmt.Errorf("failed to write dictionary: %w", err)
		}
		fmt.Printf("Wrote %d terms to %s\n", dict.Len(), termsExport)
		return nil
	}

	if termsCategory == "" && termsSeverity == "" && !termsAll {
		return output.Output(outputFmt, dict.Stats())
	}

	terms, err := filterDictionary(dict, termsCategory, termsSeverity)
	if err != nil {
		return err
	}
	return output.Output(outputFmt, terms)
}

func filterDictionary(dict *bias.TermDictionary, category, severity string) ([]bias.TermRecord, error) {
	terms := dict.SortedTerms()
	if category != "" {
		c, err := bias.ParseCategory(category)
		if err != nil {
			return nil, err
		}
		terms = dict.ByCategory(c)
	}
	if severity != "" {
		sev, err := bias.ParseSeverity(severity)
		if err != nil {
			return nil, err
		}
		kept := make([]bias.TermRecord, 0, len(terms))
		for _, t := range terms {
			if t.Severity == sev {
				kept = append(kept, t)
			}
		}
		terms = kept
	}
	return terms, nil
}
