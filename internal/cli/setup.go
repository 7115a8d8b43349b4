package cli

import (
	"fmt"

	"github.com/vijay-prabhu/jobad-analyser/internal/bias"
	"github.com/vijay-prabhu/jobad-analyser/internal/config"
	"github.com/vijay-prabhu/jobad-analyser/internal/database"
	"github.com/vijay-prabhu/jobad-analyser/internal/dictionary"
	"github.com/vijay-prabhu/jobad-analyser/internal/scraper"
	"github.com/vijay-prabhu/jobad-analyser/internal/segment"
)

// loadConfig reads the config file. A missing file at the default location
// means defaults; an explicitly named file must exist.
func loadConfig() (*config.Config, error) {
	if configPath == "" || configPath == config.DefaultPath {
		return config.LoadOrDefault(config.DefaultPath)
	}
	return config.Load(configPath)
}

// buildAnalyser loads the dictionary and wires the analysis pipeline.
// segmenter overrides the configured one when not empty.
func buildAnalyser(cfg *config.Config, segmenter string) (*bias.Analyser, error) {
	dict, err := dictionary.Load(cfg.Dictionary.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load dictionary: %w", err)
	}

	if segmenter == "" {
		segmenter = cfg.Analysis.Segmenter
	}
	seg, err := segment.New(segmenter)
	if err != nil {
		return nil, err
	}

	a, err := bias.NewAnalyser(dict, cfg.BiasConfig(), seg, bias.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("invalid scoring configuration: %w", err)
	}
	logger.Debug("analyser ready", "terms", dict.Len(), "segmenter", segmenter)
	return a, nil
}

func openHistory(cfg *config.Config) (*database.DB, error) {
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func newScraper(cfg *config.Config) *scraper.Scraper {
	return scraper.New(scraper.Options{
		Timeout:           cfg.Fetch.Timeout(),
		UserAgent:         cfg.Fetch.UserAgent,
		RequestsPerSecond: cfg.Fetch.RequestsPerSecond,
		Logger:            logger,
	})
}
