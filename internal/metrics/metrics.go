// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package metrics holds the Prometheus collectors for the pipeline, the
// upstream AI calls and the HTTP layer. Collectors live in a private
// registry exposed through Handler.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"landingai/internal/models"
)

// Metrics holds every collector of the service.
type Metrics struct {
	extractions   *prometheus.CounterVec
	warnings      prometheus.Counter
	scores        prometheus.Histogram
	validationErr prometheus.Counter

	aiRequests *prometheus.CounterVec
	aiLatency  *prometheus.HistogramVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

// New creates and registers all collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		extractions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "landingai_extractions_total",
				Help: "Model responses processed, by the strategy that produced the document",
			},
			[]string{"method"},
		),
		warnings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "landingai_extraction_warnings_total",
			Help: "Non-fatal warnings raised during extraction",
		}),
		scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "landingai_security_score",
			Help:    "Security score of validated documents",
			Buckets: []float64{0, 20, 40, 60, 80, 90, 100},
		}),
		validationErr: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "landingai_validation_errors_total",
			Help: "Documents whose markup could not be validated",
		}),
		aiRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "landingai_ai_requests_total",
				Help: "Upstream generation requests by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		aiLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "landingai_ai_request_duration_seconds",
				Help:    "Upstream generation latency in seconds",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
			},
			[]string{"provider"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "landingai_http_requests_total",
				Help: "HTTP requests by method and status",
			},
			[]string{"method", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "landingai_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		registry: registry,
	}

	registry.MustRegister(
		m.extractions,
		m.warnings,
		m.scores,
		m.validationErr,
		m.aiRequests,
		m.aiLatency,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// ObserveExtraction records the strategy and warning count of one
// extraction.
func (m *Metrics) ObserveExtraction(method models.ParseMethod, warnings int) {
	m.extractions.WithLabelValues(string(method)).Inc()
	m.warnings.Add(float64(warnings))
}

// ObserveValidation records a security score, or a failure when err is set.
func (m *Metrics) ObserveValidation(score int, err error) {
	if err != nil {
		m.validationErr.Inc()
		return
	}
	m.scores.Observe(float64(score))
}

// ObserveAIRequest records one upstream generation call.
func (m *Metrics) ObserveAIRequest(provider string, d time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.aiRequests.WithLabelValues(provider, outcome).Inc()
	m.aiLatency.WithLabelValues(provider).Observe(d.Seconds())
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method).Observe(d.Seconds())
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the collectors in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
