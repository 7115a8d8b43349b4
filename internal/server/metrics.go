package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/vijay-prabhu/jobad-analyser/internal/bias"
)

type metrics struct {
	requests     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	analyses     *prometheus.CounterVec
	flaggedTerms *prometheus.CounterVec
	scores       prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobad_http_requests_total",
			Help: "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "jobad_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobad_analyses_total",
			Help: "Completed job ad analyses by grade.",
		}, []string{"grade"}),
		flaggedTerms: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobad_flagged_terms_total",
			Help: "Flagged term occurrences by category and severity.",
		}, []string{"category", "severity"}),
		scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "jobad_overall_score",
			Help:    "Distribution of overall inclusivity scores.",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		}),
	}

	reg.MustRegister(
		m.requests,
		m.latency,
		m.analyses,
		m.flaggedTerms,
		m.scores,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *metrics) observeResult(r *bias.AnalysisResult) {
	m.analyses.WithLabelValues(string(r.Grade)).Inc()
	m.scores.Observe(r.OverallScore)
	for _, f := range r.FlaggedTerms {
		m.flaggedTerms.WithLabelValues(string(f.Category), string(f.Severity)).Add(float64(f.Count))
	}
}
