package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vijay-prabhu/jobad-analyser/internal/bias"
)

// SaveAnalysis stores a result and its flagged terms
func (db *DB) SaveAnalysis(ctx context.Context, source string, title *string, r *bias.AnalysisResult) (*Analysis, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}

	a := &Analysis{
		ID:           uuid.New().String(),
		Source:       source,
		Title:        title,
		OverallScore: r.OverallScore,
		Grade:        r.Grade,
		WordCount:    r.WordCount,
		IssueCount:   r.IssueCount(),
		ResultJSON:   string(data),
		CreatedAt:    time.Now().UTC(),
	}

	err = db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO analyses (
				id, source, title, overall_score, grade, word_count, issue_count, result_json, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			a.ID, a.Source, NullString(a.Title), a.OverallScore, a.Grade,
			a.WordCount, a.IssueCount, a.ResultJSON, a.CreatedAt,
		); err != nil {
			return err
		}

		for _, f := range r.FlaggedTerms {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO analysis_terms (analysis_id, term, category, severity, count)
				VALUES (?, ?, ?, ?, ?)
			`, a.ID, f.Term, f.Category, f.Severity, f.Count); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save analysis: %w", err)
	}
	return a, nil
}

// GetAnalysis retrieves an analysis by ID; it returns nil when not found
func (db *DB) GetAnalysis(ctx context.Context, id string) (*Analysis, error) {
	a := &Analysis{}
	var title sql.NullString

	err := db.QueryRowContext(ctx, `
		SELECT id, source, title, overall_score, grade, word_count, issue_count, result_json, created_at
		FROM analyses WHERE id = ?
	`, id).Scan(
		&a.ID, &a.Source, &title, &a.OverallScore, &a.Grade,
		&a.WordCount, &a.IssueCount, &a.ResultJSON, &a.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	a.Title = StringPtr(title)
	return a, nil
}

// ListAnalyses retrieves analyses, newest first
func (db *DB) ListAnalyses(ctx context.Context, opts ListOptions) ([]Analysis, error) {
	query := `
		SELECT id, source, title, overall_score, grade, word_count, issue_count, result_json, created_at
		FROM analyses WHERE 1=1
	`
	args := []interface{}{}

	if opts.Grade != nil {
		query += " AND grade = ?"
		args = append(args, *opts.Grade)
	}
	if opts.Since != nil {
		query += " AND created_at >= ?"
		args = append(args, opts.Since.UTC())
	}
	if opts.Source != nil {
		query += " AND LOWER(source) LIKE LOWER(?)"
		args = append(args, "%"+*opts.Source+"%")
	}

	query += " ORDER BY created_at DESC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
		if opts.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", opts.Offset)
		}
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var analyses []Analysis
	for rows.Next() {
		a := Analysis{}
		var title sql.NullString

		if err := rows.Scan(
			&a.ID, &a.Source, &title, &a.OverallScore, &a.Grade,
			&a.WordCount, &a.IssueCount, &a.ResultJSON, &a.CreatedAt,
		); err != nil {
			return nil, err
		}

		a.Title = StringPtr(title)
		analyses = append(analyses, a)
	}

	return analyses, rows.Err()
}

// ListTerms retrieves the flagged terms stored for an analysis
func (db *DB) ListTerms(ctx context.Context, analysisID string) ([]AnalysisTerm, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT analysis_id, term, category, severity, count
		FROM analysis_terms WHERE analysis_id = ?
		ORDER BY count DESC, term ASC
	`, analysisID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var terms []AnalysisTerm
	for rows.Next() {
		t := AnalysisTerm{}
		if err := rows.Scan(&t.AnalysisID, &t.Term, &t.Category, &t.Severity, &t.Count); err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}

	return terms, rows.Err()
}

// TopTerms returns the most frequently flagged terms across all analyses
func (db *DB) TopTerms(ctx context.Context, limit int) ([]TermCount, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := db.QueryContext(ctx, `
		SELECT term, category, severity, COUNT(*) AS analyses, SUM(count) AS instances
		FROM analysis_terms
		GROUP BY term, category, severity
		ORDER BY instances DESC, analyses DESC, term ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var terms []TermCount
	for rows.Next() {
		t := TermCount{}
		if err := rows.Scan(&t.Term, &t.Category, &t.Severity, &t.Analyses, &t.Instances); err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}

	return terms, rows.Err()
}

// GetStats retrieves aggregate statistics
func (db *DB) GetStats(ctx context.Context, since *time.Time) (*Stats, error) {
	stats := &Stats{ByGrade: make(map[bias.Grade]int)}

	whereClause := ""
	args := []interface{}{}
	if since != nil {
		whereClause = "WHERE created_at >= ?"
		args = append(args, since.UTC())
	}

	query := fmt.Sprintf(`
		SELECT
			COUNT(*) as total,
			COALESCE(AVG(overall_score), 0) as avg_score,
			COALESCE(MIN(overall_score), 0) as min_score,
			COALESCE(MAX(overall_score), 0) as max_score,
			COALESCE(SUM(issue_count), 0) as issues
		FROM analyses %s
	`, whereClause)

	if err := db.QueryRowContext(ctx, query, args...).Scan(
		&stats.TotalAnalyses, &stats.AverageScore, &stats.MinScore,
		&stats.MaxScore, &stats.TotalIssues,
	); err != nil {
		return nil, err
	}

	gradeQuery := fmt.Sprintf("SELECT grade, COUNT(*) FROM analyses %s GROUP BY grade", whereClause)
	rows, err := db.QueryContext(ctx, gradeQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var grade bias.Grade
		var n int
		if err := rows.Scan(&grade, &n); err != nil {
			return nil, err
		}
		stats.ByGrade[grade] = n
	}

	return stats, rows.Err()
}

// DeleteAnalysis removes an analysis and its terms
func (db *DB) DeleteAnalysis(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, "DELETE FROM analyses WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("analysis not found: %s", id)
	}
	return nil
}
