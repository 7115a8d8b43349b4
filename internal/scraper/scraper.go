// Package scraper downloads job ads from job boards and generic pages.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

// maxPageBytes caps how much of a response body is parsed
const maxPageBytes = 5 << 20

// ErrNoDescription is returned when a page has no recognizable job text
var ErrNoDescription = errors.New("no job description found")

// JobAd is the text and metadata extracted from one posting
type JobAd struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Company string `json:"company"`
	Source  string `json:"source"`
	Text    string `json:"text"`
	Error   string `json:"error,omitempty"`
}

// Options configures a Scraper
type Options struct {
	Timeout           time.Duration
	UserAgent         string
	RequestsPerSecond float64
	Client            *http.Client
	Logger            *slog.Logger
}

// Scraper fetches pages politely: one shared rate limit across requests
type Scraper struct {
	client    *http.Client
	userAgent string
	limiter   *rate.Limiter
	logger    *slog.Logger
}

// New creates a Scraper
func New(opts Options) *Scraper {
	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 90 * time.Second,
			},
		}
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Scraper{
		client:    client,
		userAgent: opts.UserAgent,
		limiter:   rate.NewLimiter(limit, 1),
		logger:    logger,
	}
}

// Scrape downloads rawURL and extracts the job ad
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (*JobAd, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid job ad URL: %q", rawURL)
	}

	doc, err := s.fetch(ctx, u.String())
	if err != nil {
		return nil, err
	}

	ad := Extract(doc, u.Hostname())
	ad.URL = rawURL
	if ad.Text == "" {
		return nil, fmt.Errorf("%s: %w", rawURL, ErrNoDescription)
	}

	s.logger.Debug("scraped job ad", "url", rawURL, "source", ad.Source, "chars", len(ad.Text))
	return &ad, nil
}

// ScrapeMany scrapes every URL in order. Failures are recorded on the
// returned JobAd instead of stopping the run.
func (s *Scraper) ScrapeMany(ctx context.Context, urls []string) []JobAd {
	ads := make([]JobAd, 0, len(urls))
	for _, u := range urls {
		ad, err := s.Scrape(ctx, u)
		if err != nil {
			s.logger.Warn("scrape failed", "url", u, "error", err)
			ads = append(ads, JobAd{URL: u, Title: "Error", Company: "Error", Source: "Error", Error: err.Error()})
			continue
		}
		ads = append(ads, *ad)
	}
	return ads
}

func (s *Scraper) fetch(ctx context.Context, rawURL string) (*goquery.Document, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch URL: %s returned %s", rawURL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	return doc, nil
}
