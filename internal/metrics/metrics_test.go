package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadsite-api/internal/config"
)

func TestNew_Disabled(t *testing.T) {
	m := New(&config.MetricsConfig{Enabled: false})
	_, ok := m.(*noopMetrics)
	assert.True(t, ok, "should return noopMetrics when disabled")

	// no-op methods must not panic
	m.IncRequestsTotal("/api/submit-offer", 200)
	m.ObserveRequestDuration("/api/submit-offer", time.Millisecond)
	m.IncSubmissions("offer", "sent")
	m.IncModeration("approve")
	m.SetTestimonials("pending", 3)
	m.SetDealLocations(1)
	m.AddSweptFiles(2)
}

func TestNew_EnabledTwice(t *testing.T) {
	// each provider owns its registry, so building two must not panic
	a := New(&config.MetricsConfig{Enabled: true})
	b := New(&config.MetricsConfig{Enabled: true})
	_, ok := a.(*Prometheus)
	assert.True(t, ok)
	_, ok = b.(*Prometheus)
	assert.True(t, ok)
}

func TestPrometheus_Counters(t *testing.T) {
	m := NewPrometheus(prometheus.NewRegistry())

	m.IncRequestsTotal("/health", 200)
	m.IncRequestsTotal("/health", 204)
	m.IncRequestsTotal("/health", 503)
	m.IncSubmissions("offer", "sent")
	m.IncModeration("approve")
	m.IncModeration("approve")
	m.SetTestimonials("pending", 4)
	m.SetDealLocations(7)
	m.AddSweptFiles(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("/health", "2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("/health", "5xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues("offer", "sent")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.moderation.WithLabelValues("approve")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.testimonials.WithLabelValues("pending")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.dealLocations))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.sweptFiles))
}

func TestPrometheus_Handler(t *testing.T) {
	m := NewPrometheus(prometheus.NewRegistry())
	m.IncSubmissions("contact", "mocked")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `leadsite_form_submissions_total{kind="contact",outcome="mocked"} 1`)
}

func TestHTTPStatusBucket(t *testing.T) {
	tests := map[int]string{101: "1xx", 200: "2xx", 302: "3xx", 404: "4xx", 429: "4xx", 500: "5xx"}
	for code, want := range tests {
		assert.Equal(t, want, httpStatusBucket(code), "code %d", code)
	}
}
