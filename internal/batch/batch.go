// Package batch analyses many job ads in parallel.
package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vijay-prabhu/jobad-analyser/internal/bias"
)

// Analyser is the part of bias.Analyser the runner needs
type Analyser interface {
	Analyse(text string) (*bias.AnalysisResult, error)
}

// Document is one named job ad
type Document struct {
	Name string
	Text string
}

// Outcome is the result of analysing one Document
type Outcome struct {
	Name     string
	Result   *bias.AnalysisResult
	Err      error
	Duration time.Duration
}

// Runner analyses documents with a bounded number of workers
type Runner struct {
	analyser Analyser
	workers  int
	timeout  time.Duration
	logger   *slog.Logger
}

// NewRunner creates a runner. workers < 1 means one worker; timeout 0
// disables the per-document deadline.
func NewRunner(a Analyser, workers int, timeout time.Duration, logger *slog.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{analyser: a, workers: workers, timeout: timeout, logger: logger}
}

// Run analyses docs and returns one outcome per document in input order.
// A failing document does not stop the others.
func (r *Runner) Run(ctx context.Context, docs []Document) []Outcome {
	outcomes := make([]Outcome, len(docs))

	var g errgroup.Group
	g.SetLimit(r.workers)

	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			start := time.Now()
			result, err := r.analyse(ctx, doc)
			outcomes[i] = Outcome{Name: doc.Name, Result: result, Err: err, Duration: time.Since(start)}

			if err != nil {
				r.logger.Warn("analysis failed", "document", doc.Name, "error", err)
			} else {
				r.logger.Debug("analysis complete", "document", doc.Name, "score", result.OverallScore, "duration", outcomes[i].Duration)
			}
			return nil
		})
	}
	g.Wait()

	return outcomes
}

func (r *Runner) analyse(ctx context.Context, doc Document) (*bias.AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	type result struct {
		res *bias.AnalysisResult
		err error
	}
	done := make(chan result, 1)
	go func() {
		res, err := r.analyser.Analyse(doc.Text)
		done <- result{res, err}
	}()

	select {
	case out := <-done:
		return out.res, out.err
	case <-ctx.Done():
		return nil, fmt.Errorf("analysis of %s abandoned: %w", doc.Name, ctx.Err())
	}
}

// Summary aggregates a batch of outcomes
type Summary struct {
	Total        int                `json:"total"`
	Failed       int                `json:"failed"`
	AverageScore float64            `json:"average_score"`
	ByGrade      map[bias.Grade]int `json:"by_grade"`
}

// Summarize counts grades and averages the scores of successful outcomes
func Summarize(outcomes []Outcome) Summary {
	s := Summary{Total: len(outcomes), ByGrade: make(map[bias.Grade]int)}
	sum := 0.0
	for _, o := range outcomes {
		if o.Err != nil || o.Result == nil {
			s.Failed++
			continue
		}
		sum += o.Result.OverallScore
		s.ByGrade[o.Result.Grade]++
	}
	if ok := s.Total - s.Failed; ok > 0 {
		s.AverageScore = sum / float64(ok)
	}
	return s
}
