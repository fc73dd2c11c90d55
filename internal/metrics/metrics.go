package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/leadsite-api/internal/config"
)

const namespace = "leadsite"

// Provider records application metrics
type Provider interface {
	IncRequestsTotal(route string, status int)
	ObserveRequestDuration(route string, duration time.Duration)
	IncSubmissions(kind, outcome string)
	IncModeration(action string)
	SetTestimonials(status string, count int)
	SetDealLocations(count int)
	AddSweptFiles(n int)
	Handler() http.Handler
}

// Prometheus is a Provider backed by its own registry
type Prometheus struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	submissions     *prometheus.CounterVec
	moderation      *prometheus.CounterVec
	testimonials    *prometheus.GaugeVec
	dealLocations   prometheus.Gauge
	sweptFiles      prometheus.Counter
}

// New returns a Prometheus provider, or a no-op when metrics are disabled
func New(cfg *config.MetricsConfig) Provider {
	if !cfg.Enabled {
		return &noopMetrics{}
	}
	return NewPrometheus(prometheus.NewRegistry())
}

// NewPrometheus registers all collectors on reg
func NewPrometheus(reg *prometheus.Registry) *Prometheus {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Prometheus{
		registry: reg,

		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"route", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),

		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "form_submissions_total",
			Help:      "Form submissions by kind and outcome",
		}, []string{"kind", "outcome"}),

		moderation: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moderation_actions_total",
			Help:      "Testimonial moderation actions",
		}, []string{"action"}),

		testimonials: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "testimonials",
			Help:      "Number of stored testimonials by status",
		}, []string{"status"}),

		dealLocations: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "deal_locations",
			Help:      "Number of pins on the deal map",
		}),

		sweptFiles: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "media_swept_files_total",
			Help:      "Orphaned media files removed by the sweeper",
		}),
	}
}

func (m *Prometheus) IncRequestsTotal(route string, status int) {
	m.requestsTotal.WithLabelValues(route, httpStatusBucket(status)).Inc()
}

func (m *Prometheus) ObserveRequestDuration(route string, duration time.Duration) {
	m.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

func (m *Prometheus) IncSubmissions(kind, outcome string) {
	m.submissions.WithLabelValues(kind, outcome).Inc()
}

func (m *Prometheus) IncModeration(action string) {
	m.moderation.WithLabelValues(action).Inc()
}

func (m *Prometheus) SetTestimonials(status string, count int) {
	m.testimonials.WithLabelValues(status).Set(float64(count))
}

func (m *Prometheus) SetDealLocations(count int) {
	m.dealLocations.Set(float64(count))
}

func (m *Prometheus) AddSweptFiles(n int) {
	m.sweptFiles.Add(float64(n))
}

// Handler serves the registry in the text exposition format
func (m *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

// noopMetrics is used when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncSubmissions(_, _ string)                       {}
func (n *noopMetrics) IncModeration(_ string)                           {}
func (n *noopMetrics) SetTestimonials(_ string, _ int)                  {}
func (n *noopMetrics) SetDealLocations(_ int)                           {}
func (n *noopMetrics) AddSweptFiles(_ int)                              {}
func (n *noopMetrics) Handler() http.Handler                            { return http.NotFoundHandler() }

// Noop returns a provider that records nothing
func Noop() Provider {
	return &noopMetrics{}
}
