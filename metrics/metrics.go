// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "quickly_survey"

// Metrics holds the application's Prometheus collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	ResponsesSubmitted  *prometheus.CounterVec
	ResponsesRejected   *prometheus.CounterVec
	SurveysExpired      prometheus.Counter
	SurveyTransitions   *prometheus.CounterVec
	ExportsGenerated    *prometheus.CounterVec
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		ResponsesSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "responses_submitted_total",
			Help:      "Responses accepted, by survey type",
		}, []string{"survey_type"}),
		ResponsesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "responses_rejected_total",
			Help:      "Submissions refused, by reason",
		}, []string{"reason"}),
		SurveysExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "surveys_expired_total",
			Help:      "Surveys moved to expired by the sweep",
		}),
		SurveyTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "survey_transitions_total",
			Help:      "Lifecycle transitions, by target status",
		}, []string{"to"}),
		ExportsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_generated_total",
			Help:      "Exports produced, by format",
		}, []string{"format"}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status_code"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}

	reg.MustRegister(
		m.ResponsesSubmitted,
		m.ResponsesRejected,
		m.SurveysExpired,
		m.SurveyTransitions,
		m.ExportsGenerated,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ResponseSubmitted(surveyType string) {
	if m == nil {
		return
	}
	m.ResponsesSubmitted.WithLabelValues(surveyType).Inc()
}

func (m *Metrics) ResponseRejected(reason string) {
	if m == nil {
		return
	}
	m.ResponsesRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) Expired(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.SurveysExpired.Add(float64(n))
}

func (m *Metrics) Transition(to string) {
	if m == nil {
		return
	}
	m.SurveyTransitions.WithLabelValues(to).Inc()
}

func (m *Metrics) Export(format string) {
	if m == nil {
		return
	}
	m.ExportsGenerated.WithLabelValues(format).Inc()
}

// RecordHTTPRequest records an HTTP request metric.
// path should be the route pattern, not the raw URL, to bound cardinality.
func (m *Metrics) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}
