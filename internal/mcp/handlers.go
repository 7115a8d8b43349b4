package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vijay-prabhu/jobad-analyser/internal/bias"
	"github.com/vijay-prabhu/jobad-analyser/internal/database"
	"github.com/vijay-prabhu/jobad-analyser/internal/output"
	"github.com/vijay-prabhu/jobad-analyser/internal/textutil"
)

var errHistoryDisabled = errors.New("analysis history is disabled; enable [history] in the config file")

type analyseParams struct {
	Text   string `json:"text"`
	URL    string `json:"url"`
	Title  string `json:"title"`
	Format string `json:"format"`
	Save   *bool  `json:"save"`
}

type analysisReply struct {
	ID      string               `json:"id,omitempty"`
	Source  string               `json:"source"`
	Title   string               `json:"title,omitempty"`
	Company string               `json:"company,omitempty"`
	Result  *bias.AnalysisResult `json:"result"`
}

func parseParams(params json.RawMessage, v interface{}) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	return nil
}

func (s *Server) handleAnalyseJobAd(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p analyseParams
	if err := parseParams(params, &p); err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.Text) == "" {
		return nil, fmt.Errorf("text is required")
	}

	return s.analyse(ctx, p, analysisReply{Source: "text", Title: p.Title}, textutil.Normalize(p.Text))
}

func (s *Server) handleAnalyseURL(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p analyseParams
	if err := parseParams(params, &p); err != nil {
		return nil, err
	}
	if p.URL == "" {
		return nil, fmt.Errorf("url is required")
	}
	if s.fetcher == nil {
		return nil, fmt.Errorf("url analysis is not enabled")
	}

	ad, err := s.fetcher.Scrape(ctx, p.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch job ad: %w", err)
	}

	reply := analysisReply{Source: p.URL, Title: ad.Title, Company: ad.Company}
	return s.analyse(ctx, p, reply, textutil.Normalize(ad.Text))
}

func (s *Server) analyse(ctx context.Context, p analyseParams, reply analysisReply, text string) (interface{}, error) {
	result, err := s.analyser.Analyse(text)
	if err != nil {
		return nil, err
	}
	reply.Result = result

	save := s.saveHistory
	if p.Save != nil {
		save = *p.Save
	}
	if save {
		if s.db == nil {
			return nil, errHistoryDisabled
		}
		var title *string
		if reply.Title != "" {
			title = &reply.Title
		}
		stored, err := s.db.SaveAnalysis(ctx, reply.Source, title, result)
		if err != nil {
			return nil, fmt.Errorf("failed to save analysis: %w", err)
		}
		reply.ID = stored.ID
	}

	switch p.Format {
	case "", "json":
		return reply, nil
	case "markdown":
		var buf bytes.Buffer
		report := output.Report{Name: reply.Source, Title: reply.Title, Result: result}
		opts := output.Options{Thresholds: s.analyser.Config().GradeThresholds}
		if err := output.Markdown(&buf, &report, opts); err != nil {
			return nil, err
		}
		if reply.ID != "" {
			fmt.Fprintf(&buf, "Saved as analysis %s\n", reply.ID)
		}
		return buf.String(), nil
	default:
		return nil, fmt.Errorf("unknown format: %s", p.Format)
	}
}

type listTermsParams struct {
	Category string `json:"category"`
	Severity string `json:"severity"`
}

func (s *Server) handleListTerms(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p listTermsParams
	if err := parseParams(params, &p); err != nil {
		return nil, err
	}

	dict := s.analyser.Dictionary()
	terms := dict.SortedTerms()
	if p.Category != "" {
		c, err := bias.ParseCategory(p.Category)
		if err != nil {
			return nil, err
		}
		terms = dict.ByCategory(c)
	}
	if p.Severity != "" {
		sev, err := bias.ParseSeverity(p.Severity)
		if err != nil {
			return nil, err
		}
		kept := terms[:0]
		for _, t := range terms {
			if t.Severity == sev {
				kept = append(kept, t)
			}
		}
		terms = kept
	}

	return map[string]interface{}{
		"count": len(terms),
		"terms": terms,
	}, nil
}

type getHistoryParams struct {
	ID        string `json:"id"`
	Grade     string `json:"grade"`
	SinceDays int    `json:"since_days"`
	Limit     int    `json:"limit"`
}

type historyDetail struct {
	Analysis *database.Analysis      `json:"analysis"`
	Terms    []database.AnalysisTerm `json:"terms"`
	Result   *bias.AnalysisResult    `json:"result"`
}

func (s *Server) handleGetHistory(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p getHistoryParams
	if err := parseParams(params, &p); err != nil {
		return nil, err
	}
	if s.db == nil {
		return nil, errHistoryDisabled
	}

	if p.ID != "" {
		a, err := s.db.GetAnalysis(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
		if a == nil {
			return nil, fmt.Errorf("analysis not found: %s", p.ID)
		}
		terms, err := s.db.ListTerms(ctx, a.ID)
		if err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
		result, err := a.Result()
		if err != nil {
			return nil, fmt.Errorf("stored result is unreadable: %w", err)
		}
		return historyDetail{Analysis: a, Terms: terms, Result: result}, nil
	}

	opts := database.ListOptions{Limit: 20}
	if p.Limit > 0 {
		opts.Limit = p.Limit
	}
	if p.Grade != "" {
		g, err := bias.ParseGrade(p.Grade)
		if err != nil {
			return nil, err
		}
		opts.Grade = &g
	}
	if p.SinceDays > 0 {
		since := time.Now().AddDate(0, 0, -p.SinceDays)
		opts.Since = &since
	}

	analyses, err := s.db.ListAnalyses(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if analyses == nil {
		analyses = []database.Analysis{}
	}
	return analyses, nil
}
