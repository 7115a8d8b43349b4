package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijay-prabhu/jobad-analyser/internal/bias"
	"github.com/vijay-prabhu/jobad-analyser/internal/database"
	"github.com/vijay-prabhu/jobad-analyser/internal/dictionary"
	"github.com/vijay-prabhu/jobad-analyser/internal/scraper"
	"github.com/vijay-prabhu/jobad-analyser/internal/segment"
)

type fakeFetcher struct {
	ads map[string]*scraper.JobAd
}

func (f *fakeFetcher) Scrape(_ context.Context, rawURL string) (*scraper.JobAd, error) {
	if ad, ok := f.ads[rawURL]; ok {
		return ad, nil
	}
	return nil, fmt.Errorf("%s: %w", rawURL, scraper.ErrNoDescription)
}

func newTestAnalyser(t *testing.T) *bias.Analyser {
	t.Helper()
	dict, err := dictionary.Default()
	require.NoError(t, err)
	a, err := bias.NewAnalyser(dict, bias.DefaultConfig(), segment.Regex{})
	require.NoError(t, err)
	return a
}

func setupTestServer(t *testing.T, withDB bool) *Server {
	t.Helper()

	opts := Options{
		Analyser: newTestAnalyser(t),
		Fetcher: &fakeFetcher{ads: map[string]*scraper.JobAd{
			"https://jobs.example.com/1": {
				URL:     "https://jobs.example.com/1",
				Title:   "Backend Engineer",
				Company: "Acme",
				Source:  "Generic",
				Text:    "We want a coding ninja to join the team.",
			},
		}},
	}
	if withDB {
		db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })
		opts.DB = db
	}
	return New(opts)
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s := setupTestServer(t, true)

	w := do(t, s, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[map[string]any](t, w)
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "ok", resp["database"])
}

func TestAnalyseText(t *testing.T) {
	s := setupTestServer(t, false)

	w := do(t, s, http.MethodPost, "/api/analyse", map[string]string{
		"text": "We are hiring a rockstar developer for our fast-growing team.",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[analyseResponse](t, w)
	assert.Equal(t, "text", resp.Source)
	assert.Empty(t, resp.ID)
	require.NotNil(t, resp.Result)
	require.NotEmpty(t, resp.Result.FlaggedTerms)
	assert.Equal(t, "rockstar", resp.Result.FlaggedTerms[0].Term)
	assert.Less(t, resp.Result.OverallScore, 100.0)
}

func TestAnalyseRejectsBadRequests(t *testing.T) {
	s := setupTestServer(t, false)

	tests := []struct {
		name string
		body any
		want int
	}{
		{"malformed json", "{not json", http.StatusBadRequest},
		{"no text or url", map[string]string{"text": "   "}, http.StatusBadRequest},
		{"page without description", map[string]string{"url": "https://jobs.example.com/404"}, http.StatusUnprocessableEntity},
		{"body too large", `{"text":"` + strings.Repeat("a", maxBodyBytes) + `"}`, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/api/analyse", tt.body)
			assert.Equal(t, tt.want, w.Code)
			assert.NotEmpty(t, decode[map[string]string](t, w)["error"])
		})
	}
}

func TestAnalyseURL(t *testing.T) {
	s := setupTestServer(t, false)

	w := do(t, s, http.MethodPost, "/api/analyse", map[string]string{"url": "https://jobs.example.com/1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[analyseResponse](t, w)
	assert.Equal(t, "https://jobs.example.com/1", resp.Source)
	assert.Equal(t, "Backend Engineer", resp.Title)
	assert.Equal(t, "Acme", resp.Company)
	require.NotEmpty(t, resp.Result.FlaggedTerms)
	assert.Equal(t, "ninja", resp.Result.FlaggedTerms[0].Term)
}

func TestAnalyseURLWithoutFetcher(t *testing.T) {
	s := New(Options{Analyser: newTestAnalyser(t)})

	w := do(t, s, http.MethodPost, "/api/analyse", map[string]string{"url": "https://jobs.example.com/1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHistoryLifecycle(t *testing.T) {
	s := setupTestServer(t, true)

	w := do(t, s, http.MethodPost, "/api/analyse", map[string]any{
		"text":  "Join our bro culture as a rockstar engineer.",
		"title": "Engineer",
		"save":  true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	saved := decode[analyseResponse](t, w)
	require.NotEmpty(t, saved.ID)

	w = do(t, s, http.MethodGet, "/api/analyses", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]database.Analysis](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, saved.ID, list[0].ID)
	assert.Equal(t, saved.Result.Grade, list[0].Grade)

	w = do(t, s, http.MethodGet, "/api/analyses/"+saved.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[struct {
		Analysis database.Analysis    `json:"analysis"`
		Result   *bias.AnalysisResult `json:"result"`
	}](t, w)
	assert.Equal(t, "Engineer", *detail.Analysis.Title)
	assert.Equal(t, len(saved.Result.FlaggedTerms), len(detail.Result.FlaggedTerms))

	w = do(t, s, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[struct {
		Stats    database.Stats       `json:"stats"`
		TopTerms []database.TermCount `json:"top_terms"`
	}](t, w)
	assert.Equal(t, 1, stats.Stats.TotalAnalyses)
	assert.NotEmpty(t, stats.TopTerms)

	w = do(t, s, http.MethodDelete, "/api/analyses/"+saved.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, s, http.MethodGet, "/api/analyses/"+saved.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnsavedAnalysesStayOutOfHistory(t *testing.T) {
	s := setupTestServer(t, true)

	w := do(t, s, http.MethodPost, "/api/analyse", map[string]string{"text": "A rockstar is needed."})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, s, http.MethodGet, "/api/analyses", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]database.Analysis](t, w))
}

func TestListAnalysesValidation(t *testing.T) {
	s := setupTestServer(t, true)

	for _, q := range []string{"limit=0", "limit=abc", "offset=-1", "grade=average", "since=yesterday"} {
		w := do(t, s, http.MethodGet, "/api/analyses?"+q, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestHistoryDisabled(t *testing.T) {
	s := setupTestServer(t, false)

	for _, path := range []string{"/api/analyses", "/api/analyses/abc", "/api/stats"} {
		w := do(t, s, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, path)
	}
}

func TestTerms(t *testing.T) {
	s := setupTestServer(t, false)

	w := do(t, s, http.MethodGet, "/api/terms?category=gender-coded&severity=high", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[struct {
		Terms []bias.TermRecord    `json:"terms"`
		Count int                  `json:"count"`
		Stats bias.DictionaryStats `json:"stats"`
	}](t, w)
	require.NotEmpty(t, resp.Terms)
	assert.Equal(t, len(resp.Terms), resp.Count)
	for _, term := range resp.Terms {
		assert.Equal(t, bias.CategoryGenderCoded, term.Category)
		assert.Equal(t, bias.SeverityHigh, term.Severity)
	}
	assert.Greater(t, resp.Stats.TotalTerms, resp.Count)

	w = do(t, s, http.MethodGet, "/api/terms?category=religious", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetrics(t *testing.T) {
	s := setupTestServer(t, false)

	do(t, s, http.MethodPost, "/api/analyse", map[string]string{"text": "We need a rockstar."})

	w := do(t, s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "jobad_analyses_total")
	assert.Contains(t, body, `jobad_flagged_terms_total{category="gender-coded",severity="high"} 1`)
	assert.Contains(t, body, `jobad_http_requests_total{method="POST",route="/api/analyse",status="200"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func TestCORSPreflight(t *testing.T) {
	s := setupTestServer(t, false)

	req := httptest.NewRequest(http.MethodOptions, "/api/analyse", nil)
	req.Header.Set("Origin", "https://careers.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)

	assert.Less(t, w.Code, 300)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(&bias.ConfigError{Key: "base_points", Reason: "must be positive"}))
	assert.Equal(t, http.StatusBadRequest, statusFor(fmt.Errorf("wrapped: %w", &bias.InputError{Field: "word_count"})))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("boom")))
}

func TestUnknownRoute(t *testing.T) {
	s := setupTestServer(t, false)

	w := do(t, s, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
