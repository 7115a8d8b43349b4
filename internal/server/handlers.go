package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vijay-prabhu/jobad-analyser/internal/bias"
	"github.com/vijay-prabhu/jobad-analyser/internal/database"
	"github.com/vijay-prabhu/jobad-analyser/internal/scraper"
	"github.com/vijay-prabhu/jobad-analyser/internal/textutil"
)

type analyseRequest struct {
	Text  string `json:"text"`
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
	// Save overrides the server default for this request
	Save *bool `json:"save,omitempty"`
}

type analyseResponse struct {
	ID      string               `json:"id,omitempty"`
	Source  string               `json:"source"`
	Title   string               `json:"title,omitempty"`
	Company string               `json:"company,omitempty"`
	Result  *bias.AnalysisResult `json:"result"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
		"terms":  s.analyser.Dictionary().Len(),
	}
	if s.db != nil {
		if err := s.db.Health(r.Context()); err != nil {
			resp["status"] = "degraded"
			resp["database"] = err.Error()
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
		resp["database"] = "ok"
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAnalyse(w http.ResponseWriter, r *http.Request) {
	var req analyseRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp := analyseResponse{Source: "text", Title: req.Title}
	var text string
	switch {
	case strings.TrimSpace(req.Text) != "":
		text = textutil.Normalize(req.Text)
	case req.URL != "":
		if s.fetcher == nil {
			writeError(w, http.StatusBadRequest, "url analysis is not enabled")
			return
		}
		ad, err := s.fetcher.Scrape(r.Context(), req.URL)
		if err != nil {
			status := http.StatusBadGateway
			if errors.Is(err, scraper.ErrNoDescription) {
				status = http.StatusUnprocessableEntity
			}
			s.logger.Warn("fetch failed", "url", req.URL, "error", err)
			writeError(w, status, err.Error())
			return
		}
		text = textutil.Normalize(ad.Text)
		resp.Source = req.URL
		resp.Company = ad.Company
		if resp.Title == "" {
			resp.Title = ad.Title
		}
	default:
		writeError(w, http.StatusBadRequest, "text or url is required")
		return
	}

	result, err := s.analyser.Analyse(text)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	s.metrics.observeResult(result)
	resp.Result = result

	save := s.saveHistory
	if req.Save != nil {
		save = *req.Save
	}
	if save && s.db != nil {
		var title *string
		if resp.Title != "" {
			title = &resp.Title
		}
		stored, err := s.db.SaveAnalysis(r.Context(), resp.Source, title, result)
		if err != nil {
			s.logger.Error("failed to save analysis", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to save analysis")
			return
		}
		resp.ID = stored.ID
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTerms(w http.ResponseWriter, r *http.Request) {
	dict := s.analyser.Dictionary()
	terms := dict.SortedTerms()

	if v := r.URL.Query().Get("category"); v != "" {
		c, err := bias.ParseCategory(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		terms = filterTerms(terms, func(t bias.TermRecord) bool { return t.Category == c })
	}
	if v := r.URL.Query().Get("severity"); v != "" {
		sev, err := bias.ParseSeverity(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		terms = filterTerms(terms, func(t bias.TermRecord) bool { return t.Severity == sev })
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"terms": terms,
		"count": len(terms),
		"stats": dict.Stats(),
	})
}

func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w) {
		return
	}

	q := r.URL.Query()
	opts := database.ListOptions{Limit: 20}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		opts.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "offset must be a non-negative integer")
			return
		}
		opts.Offset = n
	}
	if v := q.Get("grade"); v != "" {
		g, err := bias.ParseGrade(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		opts.Grade = &g
	}
	if v := q.Get("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "since must be an RFC 3339 timestamp")
			return
		}
		opts.Since = &t
	}

	analyses, err := s.db.ListAnalyses(r.Context(), opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if analyses == nil {
		analyses = []database.Analysis{}
	}
	writeJSON(w, http.StatusOK, analyses)
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w) {
		return
	}

	id := chi.URLParam(r, "id")
	a, err := s.db.GetAnalysis(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "analysis not found")
		return
	}

	result, err := a.Result()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "stored result is unreadable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"analysis": a,
		"result":   result,
	})
}

func (s *Server) handleDeleteAnalysis(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w) {
		return
	}

	id := chi.URLParam(r, "id")
	a, err := s.db.GetAnalysis(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "analysis not found")
		return
	}
	if err := s.db.DeleteAnalysis(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w) {
		return
	}

	stats, err := s.db.GetStats(r.Context(), nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	top, err := s.db.TopTerms(r.Context(), 10)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if top == nil {
		top = []database.TermCount{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"stats":     stats,
		"top_terms": top,
	})
}

func (s *Server) requireDB(w http.ResponseWriter) bool {
	if s.db == nil {
		writeError(w, http.StatusServiceUnavailable, "analysis history is disabled")
		return false
	}
	return true
}

// statusFor maps analysis errors to HTTP status codes
func statusFor(err error) int {
	var cfgErr *bias.ConfigError
	var inputErr *bias.InputError
	if errors.As(err, &cfgErr) || errors.As(err, &inputErr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func filterTerms(terms []bias.TermRecord, keep func(bias.TermRecord) bool) []bias.TermRecord {
	out := make([]bias.TermRecord, 0, len(terms))
	for _, t := range terms {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
