package config

import (
	"time"

	"github.com/vijay-prabhu/jobad-analyser/internal/bias"
)

// DefaultPath is where the CLI looks for its config file
const DefaultPath = "~/.config/jobad/config.toml"

// Config represents the application configuration
type Config struct {
	Dictionary DictionaryConfig `toml:"dictionary"`
	Scoring    ScoringConfig    `toml:"scoring"`
	Analysis   AnalysisConfig   `toml:"analysis"`
	Database   DatabaseConfig   `toml:"database"`
	History    HistoryConfig    `toml:"history"`
	Fetch      FetchConfig      `toml:"fetch"`
	Server     ServerConfig     `toml:"server"`
	Batch      BatchConfig      `toml:"batch"`
	MCP        MCPConfig        `toml:"mcp"`
}

// DictionaryConfig selects the bias term dictionary
type DictionaryConfig struct {
	// Path to a .csv or .toml dictionary; empty uses the built-in one
	Path string `toml:"path"`
}

// ScoringConfig contains the scoring parameters
type ScoringConfig struct {
	BasePoints          float64              `toml:"base_points"`
	LengthBaseline      float64              `toml:"length_baseline"`
	CategoryWeights     map[string]float64   `toml:"category_weights"`
	SeverityMultipliers map[string]float64   `toml:"severity_multipliers"`
	GradeThresholds     bias.GradeThresholds `toml:"grade_thresholds"`
}

// AnalysisConfig contains context extraction settings
type AnalysisConfig struct {
	Segmenter          string   `toml:"segmenter"`
	MaxContexts        int      `toml:"max_contexts"`
	ContextWindow      int      `toml:"context_window"`
	PositiveIndicators []string `toml:"positive_indicators"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// HistoryConfig controls whether analyses are stored
type HistoryConfig struct {
	Enabled bool `toml:"enabled"`
}

// FetchConfig contains job-ad download settings
type FetchConfig struct {
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	UserAgent         string  `toml:"user_agent"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// Timeout returns the per-request timeout as a duration
func (f FetchConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSeconds) * time.Second
}

// ServerConfig contains HTTP API settings
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// BatchConfig contains parallel analysis settings
type BatchConfig struct {
	Workers        int `toml:"workers"`
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Timeout returns the per-document timeout; zero means none
func (b BatchConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// MCPConfig contains MCP server settings
type MCPConfig struct {
	Enabled   bool   `toml:"enabled"`
	Transport string `toml:"transport"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	scoring := bias.DefaultConfig()

	weights := make(map[string]float64, len(scoring.CategoryWeights))
	for c, w := range scoring.CategoryWeights {
		weights[string(c)] = w
	}
	multipliers := make(map[string]float64, len(scoring.SeverityMultipliers))
	for s, m := range scoring.SeverityMultipliers {
		multipliers[string(s)] = m
	}

	return &Config{
		Scoring: ScoringConfig{
			BasePoints:          scoring.BasePoints,
			LengthBaseline:      scoring.LengthBaseline,
			CategoryWeights:     weights,
			SeverityMultipliers: multipliers,
			GradeThresholds:     scoring.GradeThresholds,
		},
		Analysis: AnalysisConfig{
			Segmenter:          "unicode",
			MaxContexts:        scoring.MaxContexts,
			ContextWindow:      scoring.ContextWindow,
			PositiveIndicators: scoring.PositiveIndicators,
		},
		Database: DatabaseConfig{
			Path: "~/.local/share/jobad/history.db",
		},
		History: HistoryConfig{
			Enabled: false,
		},
		Fetch: FetchConfig{
			TimeoutSeconds:    30,
			UserAgent:         "Mozilla/5.0 (compatible; jobad-analyser/1.0)",
			RequestsPerSecond: 1,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
		},
		Batch: BatchConfig{
			Workers:        4,
			TimeoutSeconds: 30,
		},
		MCP: MCPConfig{
			Enabled:   true,
			Transport: "stdio",
		},
	}
}

// BiasConfig converts the scoring and analysis sections into the analyser's
// configuration
func (c *Config) BiasConfig() bias.Config {
	weights := make(map[bias.Category]float64, len(c.Scoring.CategoryWeights))
	for k, w := range c.Scoring.CategoryWeights {
		weights[bias.Category(k)] = w
	}
	multipliers := make(map[bias.Severity]float64, len(c.Scoring.SeverityMultipliers))
	for k, m := range c.Scoring.SeverityMultipliers {
		multipliers[bias.Severity(k)] = m
	}

	return bias.Config{
		CategoryWeights:     weights,
		SeverityMultipliers: multipliers,
		GradeThresholds:     c.Scoring.GradeThresholds,
		BasePoints:          c.Scoring.BasePoints,
		LengthBaseline:      c.Scoring.LengthBaseline,
		PositiveIndicators:  append([]string(nil), c.Analysis.PositiveIndicators...),
		MaxContexts:         c.Analysis.MaxContexts,
		ContextWindow:       c.Analysis.ContextWindow,
	}
}
